package ledger

import "fmt"

// ValidationError reports a malformed order or request. It is surfaced
// verbatim to the caller and never mutates state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientFundsError rejects a buy whose value exceeds cash.
type InsufficientFundsError struct {
	Required  float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %.2f, have %.2f", e.Required, e.Available)
}

// InsufficientPositionError rejects a sell of more than is held.
type InsufficientPositionError struct {
	Symbol    string
	Requested float64
	Held      float64
}

func (e *InsufficientPositionError) Error() string {
	return fmt.Sprintf("insufficient position in %s: want to sell %.2f, hold %.2f", e.Symbol, e.Requested, e.Held)
}
