package custom_err

import (
	"errors"
	"fmt"
)

var (
	// Categories
	ErrRateFetch  = errors.New("rate fetch failed")
	ErrStorage    = errors.New("storage failure")
	ErrValidation = errors.New("validation failed")
	ErrConversion = errors.New("conversion failed")
	ErrLedger     = errors.New("ledger rejected operation")

	// Reasons
	ErrSameCurrency        = errors.New("cannot exchange same currency")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrNoRates             = errors.New("no exchange rates available")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrEmptyCurrency       = errors.New("currency is required")
	ErrInvalidCurrency     = errors.New("currency code must be 3-5 latin letters")
	ErrUnknownCurrency     = errors.New("unknown currency")
	ErrInvalidRate         = errors.New("invalid exchange rate")
	ErrNotFound            = errors.New("resource not found")
	ErrOwnerNotEstablished = errors.New("ledger owner not established")
)

// Validation returns an error matching both ErrValidation and reason.
func Validation(reason error) error {
	return fmt.Errorf("%w: %w", ErrValidation, reason)
}

func Conversion(reason error) error {
	return fmt.Errorf("%w: %w", ErrConversion, reason)
}

func Ledger(reason error) error {
	return fmt.Errorf("%w: %w", ErrLedger, reason)
}

func RateFetch(cause error) error {
	return fmt.Errorf("%w: %w", ErrRateFetch, cause)
}

func Storage(cause error) error {
	return fmt.Errorf("%w: %w", ErrStorage, cause)
}
