package custom_err

import (
	"context"
	"errors"
)

// Kind is the user-facing class of a failure.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindStorage    Kind = "storage"
	KindValidation Kind = "validation"
	KindConversion Kind = "conversion"
	KindLedger     Kind = "ledger"
	KindInternal   Kind = "internal"
)

// Classify maps an error to its Kind. Category sentinels win over reasons,
// so a ledger-level ErrInsufficientFunds stays KindLedger.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrLedger):
		return KindLedger
	case errors.Is(err, ErrConversion):
		return KindConversion
	case errors.Is(err, ErrStorage), errors.Is(err, ErrNotFound):
		return KindStorage
	case errors.Is(err, ErrRateFetch),
		errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	default:
		return KindInternal
	}
}
