package repository

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

type alpacaQuoteRepositoryHandler struct {
	MdClient *marketdata.Client
}

func NewAlpacaQuoteRepository(apiKey, apiSecret string, endpoint string) QuoteRepository {
	mdClient := marketdata.NewClient(marketdata.ClientOpts{
		BaseURL:   endpoint,
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return alpacaQuoteRepositoryHandler{
		MdClient: mdClient,
	}
}

func (h alpacaQuoteRepositoryHandler) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	results, err := h.MdClient.GetLatestQuotes([]string{symbol}, marketdata.GetLatestQuoteRequest{})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get latest quote for %s: %w", symbol, err)
	}

	result, ok := results[symbol]
	if !ok || result.BidPrice <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrQuoteNotFound, symbol)
	}

	return decimal.NewFromFloat(result.BidPrice), nil
}
