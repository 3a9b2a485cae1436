package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

const finnhubBaseUrl = "https://finnhub.io/api/v1"

type finnhubQuoteRepositoryHandler struct {
	BaseUrl    string
	ApiKey     string
	HttpClient *http.Client
}

func NewFinnhubQuoteRepository(apiKey string, timeout time.Duration) QuoteRepository {
	return finnhubQuoteRepositoryHandler{
		BaseUrl: finnhubBaseUrl,
		ApiKey:  apiKey,
		HttpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (h finnhubQuoteRepositoryHandler) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", h.ApiKey)
	endpoint := fmt.Sprintf("%s/quote?%s", h.BaseUrl, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := h.HttpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read quote response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote request for %s returned %d: %s", symbol, resp.StatusCode, string(body))
	}

	v := interface{}(nil)
	if err := json.Unmarshal(body, &v); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse quote response: %w", err)
	}

	current, err := jsonpath.Get("$.c", v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %s", ErrQuoteNotFound, symbol, err.Error())
	}
	price, ok := current.(float64)
	// finnhub answers unknown tickers with zeroes instead of an error
	if !ok || price <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrQuoteNotFound, symbol)
	}

	return decimal.NewFromFloat(price), nil
}
