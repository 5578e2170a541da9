package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// CategoryAll is the selector value a random pick reads as "any category".
// Filtering never interprets it.
const CategoryAll = "all"

// Intner is the source of randomness used by PickRandom.
// *math/rand/v2.Rand satisfies it.
type Intner interface {
	IntN(n int) int
}

// PickRandom returns a uniformly chosen quote, or false if quotes is empty.
func PickRandom(quotes []Quote, rng Intner) (Quote, bool) {
	if len(quotes) == 0 {
		return Quote{}, false
	}

	return quotes[rng.IntN(len(quotes))], true
}

// Categories returns the distinct trimmed non-empty categories in ascending byte order.
// Case is not folded: "Motivation" and "motivation" are different categories.
func Categories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	out := make([]string, 0, len(quotes))

	for _, q := range quotes {
		c := strings.TrimSpace(q.Category)
		if c == "" {
			continue
		}

		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}
		out = append(out, c)
	}

	slices.Sort(out)

	return out
}

// FilterByCategory returns the quotes whose trimmed category equals category exactly,
// preserving order. CategoryAll has no special meaning here; a stored category
// "all" matches only itself.
func FilterByCategory(quotes []Quote, category string) []Quote {
	out := make([]Quote, 0)

	for _, q := range quotes {
		if strings.TrimSpace(q.Category) == category {
			out = append(out, q)
		}
	}

	return out
}

// EncodeSnapshot serializes quotes as a compact JSON array.
// A nil or empty collection encodes as "[]".
func EncodeSnapshot(quotes []Quote) (string, error) {
	return encode(quotes, "")
}

// EncodeExport serializes quotes as a JSON array indented with two spaces.
func EncodeExport(quotes []Quote) (string, error) {
	return encode(quotes, "  ")
}

func encode(quotes []Quote, indent string) (string, error) {
	if quotes == nil {
		quotes = []Quote{}
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(quotes); err != nil {
		return "", fmt.Errorf("encoding quotes: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ParseQuotes decodes raw as a JSON array of quote objects.
// It fails with a FormatError when raw is not valid JSON or not an array.
// Entries that are not objects, or whose text or category is missing, not a
// string, or blank after trimming, are dropped and counted.
// Accepted entries are returned trimmed, in input order.
func ParseQuotes(source, raw string) (accepted []Quote, dropped int, err error) {
	trimmed := bytes.TrimSpace([]byte(raw))

	if !json.Valid(trimmed) {
		return nil, 0, NewFormatError(source, "not valid JSON", nil)
	}

	if trimmed[0] != '[' {
		return nil, 0, NewFormatError(source, "expected a JSON array", nil)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, 0, NewFormatError(source, "decoding array", err)
	}

	accepted = make([]Quote, 0, len(entries))

	for _, entry := range entries {
		q, ok := parseEntry(entry)
		if !ok {
			dropped++
			continue
		}

		accepted = append(accepted, q)
	}

	return accepted, dropped, nil
}

// rawQuote accepts any JSON value per field so non-string fields can be dropped
// instead of failing the whole payload.
type rawQuote struct {
	Text     any `json:"text"`
	Category any `json:"category"`
}

func parseEntry(entry json.RawMessage) (Quote, bool) {
	var r rawQuote
	if err := json.Unmarshal(entry, &r); err != nil {
		return Quote{}, false
	}

	text, ok := r.Text.(string)
	if !ok {
		return Quote{}, false
	}

	category, ok := r.Category.(string)
	if !ok {
		return Quote{}, false
	}

	q, err := NewQuote(text, category)
	if err != nil {
		return Quote{}, false
	}

	return q, true
}
