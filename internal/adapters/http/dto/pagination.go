package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page sizes for GET /quotes.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned for a cursor this service did not issue.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest is the cursor and limit of a list request. Quotes have no
// identifier to key a cursor on, so the cursor is an opaque position in
// insertion order. The collection only appends, so an issued cursor stays
// valid while quotes are added.
type PaginationRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit clamps Limit to 1..MaxLimit, with DefaultLimit when unset.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// Offset returns where the page starts; an absent cursor starts at zero.
func (p *PaginationRequest) Offset() (int, error) {
	if p.Cursor == "" {
		return 0, nil
	}

	return decodeOffset(p.Cursor)
}

// PaginatedResponse is one page of a list. NextCursor is empty on the last page.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
	Total      int    `json:"total"`
}

// Paginate copies all[offset:offset+limit] and issues the cursor for the
// following page. An offset past the end yields an empty page.
func Paginate[T any](all []T, offset, limit int) *PaginatedResponse[T] {
	start := min(offset, len(all))
	end := min(start+limit, len(all))

	page := &PaginatedResponse[T]{
		Items:   append(make([]T, 0, end-start), all[start:end]...),
		HasMore: end < len(all),
		Total:   len(all),
	}

	if page.HasMore {
		page.NextCursor = encodeOffset(end)
	}

	return page
}

type cursor struct {
	Offset *int `json:"o"`
}

func encodeOffset(offset int) string {
	raw, _ := json.Marshal(cursor{Offset: &offset}) //nolint:errchkjson // an int always marshals
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeOffset(encoded string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, ErrInvalidCursor
	}

	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil || c.Offset == nil || *c.Offset < 0 {
		return 0, ErrInvalidCursor
	}

	return *c.Offset, nil
}
