// Package clients provides the instrumented HTTP client used for downstream services.
package clients

import "errors"

// ErrCircuitOpen is returned without issuing a request while the circuit
// breaker is open. Callers translate it into a domain error.
var ErrCircuitOpen = errors.New("circuit breaker open")
