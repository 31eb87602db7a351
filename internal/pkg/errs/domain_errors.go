package errs

import "errors"

// Error categories shared by handlers when a use case does not define a more specific sentinel.
var (
	// Validation: inline, recoverable by user correction
	ErrValidation = errors.New("validation error")

	// Transport: upstream or infrastructure failure, form stays usable
	ErrTransport = errors.New("transport error")

	// Business rule: rejected by the backend, surfaced verbatim, never retried automatically
	ErrBusinessRule = errors.New("business rule rejection")
)

func IsValidation(err error) bool   { return Is(err, ErrValidation) }
func IsTransport(err error) bool    { return Is(err, ErrTransport) }
func IsBusinessRule(err error) bool { return Is(err, ErrBusinessRule) }
