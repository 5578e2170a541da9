package dto

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotebook/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testTraceID = trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36}

func tracedContext() context.Context {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    testTraceID,
		SpanID:     trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
		TraceFlags: trace.FlagsSampled,
	})

	return trace.ContextWithSpanContext(context.Background(), sc)
}

func newTestContext(ctx context.Context) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequestWithContext(ctx, http.MethodGet, "/", http.NoBody)

	return c, w
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := map[string]int{
		ErrorCodeNotFound:     http.StatusNotFound,
		ErrorCodeValidation:   http.StatusBadRequest,
		ErrorCodeFormat:       http.StatusBadRequest,
		ErrorCodeBadRequest:   http.StatusBadRequest,
		ErrorCodeForbidden:    http.StatusForbidden,
		ErrorCodeUnauthorized: http.StatusUnauthorized,
		ErrorCodeUnavailable:  http.StatusServiceUnavailable,
		ErrorCodeTimeout:      http.StatusGatewayTimeout,
		ErrorCodeInternal:     http.StatusInternalServerError,
		"SOMETHING_ELSE":      http.StatusInternalServerError,
	}

	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, want, HTTPStatusFromCode(code))
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:        "missing text",
			err:         domain.NewValidationError("text", domain.MessageMissingText),
			wantCode:    ErrorCodeValidation,
			wantMessage: "please enter a quote",
			wantDetails: map[string]string{"text": "please enter a quote"},
		},
		{
			name:        "wrapped validation",
			err:         fmt.Errorf("adding: %w", domain.NewValidationError("category", domain.MessageMissingCategory)),
			wantCode:    ErrorCodeValidation,
			wantMessage: "please enter a category",
			wantDetails: map[string]string{"category": "please enter a category"},
		},
		{
			name:        "format",
			err:         domain.NewFormatError("import", "expected a JSON array", nil),
			wantCode:    ErrorCodeFormat,
			wantMessage: "invalid import: expected a JSON array",
		},
		{
			name:        "not found",
			err:         domain.NewNotFoundError("category", "Poetry"),
			wantCode:    ErrorCodeNotFound,
			wantMessage: `category "Poetry" not found`,
		},
		{
			name:        "unavailable",
			err:         domain.NewUnavailableError("storage", "disk full"),
			wantCode:    ErrorCodeUnavailable,
			wantMessage: `service "storage" unavailable: disk full`,
		},
		{
			name:        "unknown error hides its text",
			err:         errors.New("boom at 0xdeadbeef"),
			wantCode:    ErrorCodeInternal,
			wantMessage: "an internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
		})
	}
}

func TestGetTraceID(t *testing.T) {
	c, _ := newTestContext(tracedContext())
	assert.Equal(t, testTraceID.String(), GetTraceID(c))

	c, _ = newTestContext(context.Background())
	assert.Empty(t, GetTraceID(c))

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetTraceID(c), "no request")
}

func TestHandleError(t *testing.T) {
	c, w := newTestContext(tracedContext())

	HandleError(c, domain.NewFormatError("import", "invalid JSON", errors.New("unexpected end of JSON input")))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeFormat, resp.Error.Code)
	assert.Equal(t, testTraceID.String(), resp.TraceID)
}

func TestHandleError_Internal(t *testing.T) {
	c, w := newTestContext(context.Background())

	HandleError(c, errors.New("secret detail"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
	assert.NotContains(t, w.Body.String(), "traceId")
}

func TestAbortWithCode(t *testing.T) {
	c, w := newTestContext(context.Background())

	AbortWithCode(c, ErrorCodeForbidden, "authentication required")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":{"code":"FORBIDDEN","message":"authentication required"}}`, w.Body.String())
}

func TestRespondWithCode(t *testing.T) {
	c, w := newTestContext(context.Background())

	RespondWithCode(c, ErrorCodeBadRequest, "invalid cursor")

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{1, 1},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.limit), func(t *testing.T) {
			p := PaginationRequest{Limit: tt.limit}
			assert.Equal(t, tt.want, p.GetLimit())
		})
	}
}

func TestPaginationRequest_Offset(t *testing.T) {
	cursorOf := func(raw string) string { return base64.RawURLEncoding.EncodeToString([]byte(raw)) }

	tests := []struct {
		name    string
		cursor  string
		want    int
		wantErr bool
	}{
		{"no cursor", "", 0, false},
		{"issued cursor", encodeOffset(40), 40, false},
		{"zero", cursorOf(`{"o":0}`), 0, false},
		{"not base64", "%%%", 0, true},
		{"not json", cursorOf("nope"), 0, true},
		{"missing offset", cursorOf(`{"id":3}`), 0, true},
		{"negative", cursorOf(`{"o":-1}`), 0, true},
		{"not a number", cursorOf(`{"o":"x"}`), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PaginationRequest{Cursor: tt.cursor}

			got, err := p.Offset()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCursor)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	first := Paginate(all, 0, 2)
	assert.Equal(t, []int{1, 2}, first.Items)
	assert.True(t, first.HasMore)
	assert.Equal(t, 5, first.Total)

	next := PaginationRequest{Cursor: first.NextCursor}
	offset, err := next.Offset()
	require.NoError(t, err)
	assert.Equal(t, 2, offset)

	last := Paginate(all, 4, 2)
	assert.Equal(t, []int{5}, last.Items)
	assert.False(t, last.HasMore)
	assert.Empty(t, last.NextCursor)

	past := Paginate(all, 99, 2)
	assert.Empty(t, past.Items)
	assert.NotNil(t, past.Items, "encodes as [] rather than null")
}

func TestPaginate_CopiesItems(t *testing.T) {
	all := []string{"a", "b"}

	page := Paginate(all, 0, 10)
	page.Items[0] = "changed"

	assert.Equal(t, "a", all[0])
}

func TestBindQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantErr   bool
		wantField string
	}{
		{"empty", "", false, ""},
		{"category and limit", "?category=Motivation&limit=5", false, ""},
		{"limit too large", "?limit=101", true, "limit"},
		{"limit not a number", "?limit=ten", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/quotes"+tt.query, http.NoBody)

			var q ListQuotesQuery

			err := BindQuery(c, &q)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var qe *QueryError
			require.ErrorAs(t, err, &qe)
			assert.Contains(t, qe.Error(), "invalid query parameters")

			if tt.wantField == "" {
				assert.Empty(t, qe.Fields)
			} else {
				assert.Contains(t, qe.Fields, tt.wantField)
			}
		})
	}
}

func TestQueryError_Messages(t *testing.T) {
	q := ListQuotesQuery{PaginationRequest: PaginationRequest{Limit: 500}}
	q.Category = strings.Repeat("x", 201)

	var qe *QueryError
	require.ErrorAs(t, checkQuery(&q), &qe)

	assert.Equal(t, "must be less than or equal to 100", qe.Fields["limit"])
	assert.Equal(t, "must be at most 200 characters", qe.Fields["category"])
}

func TestNewPostsResponse(t *testing.T) {
	empty := NewPostsResponse(nil, time.Time{})
	assert.NotNil(t, empty.Posts)
	assert.Nil(t, empty.FetchedAt)

	at := time.Date(2026, 5, 1, 9, 30, 0, 0, time.FixedZone("X", 3600))
	resp := NewPostsResponse([]domain.Post{{ID: 1, Title: "hello"}}, at)

	require.Len(t, resp.Posts, 1)
	assert.Equal(t, PostResponse{ID: 1, Title: "hello"}, resp.Posts[0])
	require.NotNil(t, resp.FetchedAt)
	assert.Equal(t, time.UTC, resp.FetchedAt.Location())
}

func TestNewQuoteResponses(t *testing.T) {
	assert.Equal(t, []QuoteResponse{}, NewQuoteResponses(nil))

	got := NewQuoteResponses([]domain.Quote{{Text: "t", Category: "c"}})
	assert.Equal(t, []QuoteResponse{{Text: "t", Category: "c"}}, got)
}
