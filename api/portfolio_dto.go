package api

import (
	"growyourdough/internal/domain"

	"github.com/shopspring/decimal"
)

type holdingResponse struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Shares        float64  `json:"shares"`
	PurchasePrice float64  `json:"purchasePrice"`
	Value         float64  `json:"value"`
	Date          string   `json:"date"`
	CurrentPrice  *float64 `json:"currentPrice,omitempty"`
	CurrentValue  *float64 `json:"currentValue,omitempty"`
	Change        float64  `json:"change"`
}

type accountResponse struct {
	Type                 domain.AccountType `json:"type"`
	DisplayName          string             `json:"displayName"`
	Holdings             []holdingResponse  `json:"holdings"`
	Contributions        []float64          `json:"contributions"`
	NextContribution     string             `json:"nextContribution"`
	LastContributionDate string             `json:"lastContributionDate"`
}

type portfolioResponse struct {
	Accounts []accountResponse `json:"accounts"`
}

func floatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func floats(in []decimal.Decimal) []float64 {
	out := make([]float64, 0, len(in))
	for _, d := range in {
		out = append(out, d.InexactFloat64())
	}
	return out
}

func holdingToResponse(h domain.Holding) holdingResponse {
	return holdingResponse{
		Symbol:        h.Symbol,
		Name:          h.Name,
		Shares:        h.Shares.InexactFloat64(),
		PurchasePrice: h.PurchasePrice.InexactFloat64(),
		Value:         h.Value.InexactFloat64(),
		Date:          h.Date,
		CurrentPrice:  floatPtr(h.CurrentPrice),
		CurrentValue:  floatPtr(h.CurrentValue),
		Change:        h.Change.InexactFloat64(),
	}
}

func accountsToResponse(accounts []domain.Account) portfolioResponse {
	out := portfolioResponse{Accounts: make([]accountResponse, 0, len(accounts))}
	for _, a := range accounts {
		holdings := make([]holdingResponse, 0, len(a.Holdings))
		for _, h := range a.Holdings {
			holdings = append(holdings, holdingToResponse(h))
		}
		out.Accounts = append(out.Accounts, accountResponse{
			Type:                 a.Type,
			DisplayName:          a.Name(),
			Holdings:             holdings,
			Contributions:        floats(a.Contributions),
			NextContribution:     a.NextContribution,
			LastContributionDate: a.LastContributionDate,
		})
	}
	return out
}
