// Package ports holds the contracts between the quote application and its
// adapters: the snapshot store, the posts feed and readiness checks.
// Implementations return domain types and domain errors only.
package ports

import (
	"context"

	"github.com/jsamuelsen/quotebook/internal/domain"
)

// QuotesKey is the storage key holding the quote snapshot.
const QuotesKey = "quotes"

// KeyValueStore persists opaque string values. The quote service keeps the
// whole collection as one JSON snapshot under QuotesKey.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// ok is false when the key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error
}

// PostsClient fetches the remote posts feed.
type PostsClient interface {
	// ListPosts returns the feed in upstream order. Any transport failure,
	// non-2xx status (404 included) or decode failure is a domain.ErrUnavailable.
	ListPosts(ctx context.Context) ([]domain.Post, error)
}
