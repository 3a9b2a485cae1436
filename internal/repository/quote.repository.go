package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"growyourdough/internal/util"

	"github.com/shopspring/decimal"
)

var ErrQuoteNotFound = errors.New("quote not found")

// QuoteRepository returns the latest market price for one ticker. There
// is no batch call, refreshes fan out one request per symbol.
type QuoteRepository interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// NewQuoteRepository builds the configured provider wrapped with a short
// lived cache, an outbound rate limit and a per call timeout
func NewQuoteRepository(secrets util.QuoteSecrets) (QuoteRepository, error) {
	var provider QuoteRepository
	switch secrets.Provider {
	case "finnhub":
		if secrets.FinnhubApiKey == "" {
			return nil, fmt.Errorf("finnhub quote provider requires an api key")
		}
		provider = NewFinnhubQuoteRepository(secrets.FinnhubApiKey, time.Duration(secrets.TimeoutSeconds)*time.Second)
	case "yahoo":
		provider = NewYahooQuoteRepository()
	case "alpaca":
		provider = NewAlpacaQuoteRepository(secrets.Alpaca.ApiKey, secrets.Alpaca.ApiSecret, secrets.Alpaca.Endpoint)
	default:
		return nil, fmt.Errorf("unknown quote provider %q", secrets.Provider)
	}

	return NewCachedQuoteRepository(
		provider,
		time.Duration(secrets.CacheTtlSeconds)*time.Second,
		secrets.RequestsPerMinute,
		time.Duration(secrets.TimeoutSeconds)*time.Second,
	), nil
}
