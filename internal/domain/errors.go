package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError is bad user input. Nothing was mutated.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

type InsufficientSharesError struct {
	Symbol    string
	Held      decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("cannot sell %s shares of %s, only %s held", e.Requested.String(), e.Symbol, e.Held.String())
}

// QuoteFetchError is recovered where it happens and only ever logged
type QuoteFetchError struct {
	Symbol string
	Err    error
}

func (e *QuoteFetchError) Error() string {
	return fmt.Sprintf("failed to fetch quote for %s: %s", e.Symbol, e.Err.Error())
}

func (e *QuoteFetchError) Unwrap() error {
	return e.Err
}

// PersistenceError means the in-memory state moved ahead of the durable
// copy. The mutation is kept.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist accounts: %s", e.Err.Error())
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
