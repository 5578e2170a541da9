package acl

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotebook/internal/adapters/clients"
	"github.com/jsamuelsen/quotebook/internal/domain"
)

// maxErrorBody bounds how much of an error response is read for context.
const maxErrorBody = 4 << 10

// upstreamError accepts both {"error":{"code","message"}} and the flat
// {"code","message"} error bodies.
type upstreamError struct {
	Nested struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// describe renders "message (CODE)", or "" when the body carried neither.
func (e *upstreamError) describe() string {
	code := cmp.Or(e.Nested.Code, e.Code)
	msg := cmp.Or(e.Nested.Message, e.Message)

	if msg != "" && code != "" {
		return fmt.Sprintf("%s (%s)", msg, code)
	}

	return cmp.Or(msg, code)
}

// readUpstreamError decodes at most maxErrorBody bytes of an error response.
// It returns "" for bodies that are empty, not JSON, or carry nothing useful.
func readUpstreamError(body io.Reader) string {
	if body == nil {
		return ""
	}

	var e upstreamError
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&e); err != nil {
		return ""
	}

	return e.describe()
}

// MapHTTPError turns a failed call into a domain error; see the package doc
// for the table. resp may be nil when clientErr is set, and a 2xx resp maps
// to nil.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	unavailable := func(reason string) error { return domain.NewUnavailableError(serviceName, reason) }

	switch {
	case errors.Is(clientErr, clients.ErrCircuitOpen):
		return unavailable("circuit breaker open during " + operation)
	case clientErr != nil:
		return unavailable(fmt.Sprintf("%s failed: %v", operation, clientErr))
	case resp == nil:
		return unavailable("no response received")
	case resp.StatusCode < http.StatusBadRequest:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return unavailable("rate limit exceeded")
	}

	reason := fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode)
	if detail := readUpstreamError(resp.Body); detail != "" {
		reason += ": " + detail
	}

	return unavailable(reason)
}
