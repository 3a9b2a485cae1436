package domain

import (
	"github.com/Rhymond/go-money"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

type AccountSummary struct {
	AccountType         AccountType
	DisplayName         string
	TotalValue          decimal.Decimal
	TotalCost           decimal.Decimal
	Gain                decimal.Decimal
	GainPercent         decimal.Decimal
	TotalContributed    decimal.Decimal
	AverageContribution decimal.Decimal
	PastContributions   []decimal.Decimal
	NextContribution    string
	TotalValueDisplay   string
}

func Summarize(account Account) AccountSummary {
	totalValue := decimal.Zero
	totalCost := decimal.Zero
	for _, h := range account.Holdings {
		totalValue = totalValue.Add(h.MarketValue())
		totalCost = totalCost.Add(h.Value)
	}

	totalContributed := decimal.Zero
	data := stats.Float64Data{}
	for _, c := range account.Contributions {
		totalContributed = totalContributed.Add(c)
		data = append(data, c.InexactFloat64())
	}
	average := decimal.Zero
	if mean, err := stats.Mean(data); err == nil {
		average = decimal.NewFromFloat(mean).Round(2)
	}

	gain := totalValue.Sub(totalCost)

	return AccountSummary{
		AccountType:         account.Type,
		DisplayName:         account.Name(),
		TotalValue:          totalValue,
		TotalCost:           totalCost,
		Gain:                gain,
		GainPercent:         ChangePercent(totalValue, totalCost),
		TotalContributed:    totalContributed,
		AverageContribution: average,
		PastContributions:   append([]decimal.Decimal{}, account.Contributions...),
		NextContribution:    account.NextContribution,
		TotalValueDisplay:   money.NewFromFloat(totalValue.InexactFloat64(), money.CAD).Display(),
	}
}
