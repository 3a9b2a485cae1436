package cmd

import (
	"context"

	"growyourdough/internal/repository"

	"github.com/shopspring/decimal"
)

// staticQuoteRepository serves fixed prices so local and test runs never
// reach a market data provider. Unknown symbols are not found.
type staticQuoteRepository struct {
	prices map[string]decimal.Decimal
}

var defaultStaticQuotes = map[string]decimal.Decimal{
	"AAPL": decimal.NewFromInt(190),
	"MSFT": decimal.NewFromInt(410),
	"VFV":  decimal.NewFromInt(120),
	"XEQT": decimal.NewFromInt(30),
	"SHOP": decimal.NewFromInt(100),
}

func NewStaticQuoteRepository(prices map[string]decimal.Decimal) repository.QuoteRepository {
	if prices == nil {
		prices = defaultStaticQuotes
	}
	return staticQuoteRepository{prices: prices}
}

func (m staticQuoteRepository) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	p, ok := m.prices[symbol]
	if !ok {
		return decimal.Zero, repository.ErrQuoteNotFound
	}
	return p, nil
}
