// Package domain contains core business entities and rules.
package domain

import "strings"

// Validation messages surfaced to users when adding a quote.
const (
	MessageMissingText     = "please enter a quote"
	MessageMissingCategory = "please enter a category"
)

// Quote is a text/category pair.
// This is a domain entity - it has no knowledge of external systems.
// Quotes carry no identifier; identical pairs may be stored more than once.
type Quote struct {
	// Text is the quotation itself.
	Text string `json:"text"`

	// Category is the label the quote is filed under.
	Category string `json:"category"`
}

// NewQuote trims both fields and validates them.
// Text is checked before category so callers can surface one message at a time.
func NewQuote(text, category string) (Quote, error) {
	q := Quote{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
	}

	if q.Text == "" {
		return Quote{}, NewValidationError("text", MessageMissingText)
	}

	if q.Category == "" {
		return Quote{}, NewValidationError("category", MessageMissingCategory)
	}

	return q, nil
}

// Valid reports whether both fields are non-empty after trimming.
func (q Quote) Valid() bool {
	return strings.TrimSpace(q.Text) != "" && strings.TrimSpace(q.Category) != ""
}

// Seed returns the built-in quotes used when no snapshot exists.
// A fresh slice is returned on every call.
func Seed() []Quote {
	return []Quote{
		{Text: "The future depends on what you do today.", Category: "Motivation"},
		{Text: "Code is like humor. When you have to explain it, it’s bad.", Category: "Programming"},
		{Text: "Simplicity is the soul of efficiency.", Category: "Productivity"},
		{Text: "The only way to do great work is to love what you do.", Category: "Motivation"},
		{Text: "The best way to predict the future is to invent it.", Category: "Innovation"},
		{Text: "It always seems impossible until it is done.", Category: "Motivation"},
		{Text: "Perfection is not attainable, but if we chase perfection we can catch excellence.", Category: "Inspiration"},
		{Text: "It is never too late to be what you might have been.", Category: "Inspiration"},
	}
}
