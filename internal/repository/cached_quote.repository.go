package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

type cachedQuoteRepositoryHandler struct {
	Next        QuoteRepository
	Cache       *cache.Cache
	Limiter     *rate.Limiter
	CallTimeout time.Duration
}

// NewCachedQuoteRepository serves repeat symbols from memory for ttl and
// keeps outbound calls under requestsPerMinute. callTimeout bounds each
// provider call and starts only once a rate limit slot is granted.
// Failures are not cached.
func NewCachedQuoteRepository(next QuoteRepository, ttl time.Duration, requestsPerMinute int, callTimeout time.Duration) QuoteRepository {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60)
	}

	return cachedQuoteRepositoryHandler{
		Next:        next,
		Cache:       cache.New(ttl, 2*ttl),
		Limiter:     rate.NewLimiter(limit, 1),
		CallTimeout: callTimeout,
	}
}

func (h cachedQuoteRepositoryHandler) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if cached, ok := h.Cache.Get(symbol); ok {
		return cached.(decimal.Decimal), nil
	}

	// queueing for a slot is bounded by the caller's context only
	if err := h.Limiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("quote rate limit wait for %s: %w", symbol, err)
	}

	callCtx := ctx
	if h.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.CallTimeout)
		defer cancel()
	}

	price, err := h.Next.GetPrice(callCtx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	h.Cache.SetDefault(symbol, price)
	return price, nil
}
