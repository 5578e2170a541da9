package dto

import (
	"time"

	"github.com/jsamuelsen/quotebook/internal/domain"
)

// AddQuoteRequest is the body of POST /quotes.
// Emptiness is checked by the domain so the user-facing messages stay in one place.
type AddQuoteRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// ListQuotesQuery holds the query parameters of GET /quotes.
type ListQuotesQuery struct {
	PaginationRequest

	Category string `form:"category" validate:"omitempty,max=200"`
}

// RandomQuoteQuery holds the query parameters of GET /quotes/random.
type RandomQuoteQuery struct {
	Category string `form:"category" validate:"omitempty,max=200"`
}

// QuoteResponse is the wire form of a quote.
type QuoteResponse struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{Text: q.Text, Category: q.Category}
}

// NewQuoteResponses converts a slice of domain quotes, never returning nil.
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = NewQuoteResponse(q)
	}

	return out
}

// ImportResponse reports how many entries an import accepted.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// CategoriesResponse is the category index.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// PostResponse is the wire form of a polled post.
type PostResponse struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// PostsResponse is the latest polled posts list.
// FetchedAt is omitted until the first successful fetch.
type PostsResponse struct {
	Posts     []PostResponse `json:"posts"`
	FetchedAt *time.Time     `json:"fetchedAt,omitempty"`
}

// NewPostsResponse converts the poller's latest list.
func NewPostsResponse(posts []domain.Post, fetchedAt time.Time) PostsResponse {
	resp := PostsResponse{Posts: make([]PostResponse, len(posts))}
	for i, p := range posts {
		resp.Posts[i] = PostResponse{ID: p.ID, Title: p.Title}
	}

	if !fetchedAt.IsZero() {
		t := fetchedAt.UTC()
		resp.FetchedAt = &t
	}

	return resp
}
