package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
)

type yahooQuoteRepositoryHandler struct{}

func NewYahooQuoteRepository() QuoteRepository {
	return yahooQuoteRepositoryHandler{}
}

// GetPrice takes the close of the most recent daily bar in the past week
func (h yahooQuoteRepositoryHandler) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -7)
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&now),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	price := decimal.Zero
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, err
		}
		if c := iter.Bar().Close; !c.IsZero() {
			price = c
		}
	}
	if err := iter.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get chart for %s: %w", symbol, err)
	}
	if price.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrQuoteNotFound, symbol)
	}

	return price, nil
}
