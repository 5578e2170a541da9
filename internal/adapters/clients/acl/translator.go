package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotebook/internal/adapters/clients"
	"github.com/jsamuelsen/quotebook/internal/domain"
)

// upstream is embedded by service adapters. Everything it returns is already
// a domain error.
type upstream struct {
	client *clients.Client
	name   string
}

func newUpstream(client *clients.Client) upstream {
	return upstream{client: client, name: client.ServiceName()}
}

// ServiceName returns the downstream name used in errors and metrics.
func (u *upstream) ServiceName() string { return u.name }

// fetchJSON GETs path and decodes a 2xx body into T. A body that does not
// decode means the service is not speaking the expected contract, which is
// reported as unavailable.
func fetchJSON[T any](ctx context.Context, u *upstream, path, operation string) (T, error) {
	var zero T

	resp, err := u.client.Get(ctx, path)
	if err != nil {
		return zero, MapHTTPError(nil, err, u.name, operation)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return zero, MapHTTPError(resp, nil, u.name, operation)
	}

	v, err := decodeJSON[T](resp.Body)
	if err != nil {
		return zero, domain.NewUnavailableError(u.name, operation+": "+err.Error())
	}

	return v, nil
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T

	if r == nil {
		return v, errors.New("empty response body")
	}

	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return v, fmt.Errorf("decoding response: %w", err)
	}

	return v, nil
}

// Translator converts one upstream DTO into a domain value, rejecting entries
// that break domain rules.
type Translator[E, D any] func(ext E) (D, error)

// TranslateEach keeps the order of items and skips the ones translate
// rejects, returning their errors tagged with the item index.
func TranslateEach[E, D any](items []E, translate Translator[E, D]) ([]D, []error) {
	out := make([]D, 0, len(items))

	var rejected []error

	for i, item := range items {
		d, err := translate(item)
		if err != nil {
			rejected = append(rejected, fmt.Errorf("item %d: %w", i, err))
			continue
		}

		out = append(out, d)
	}

	return out, rejected
}
