package acl

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quotebook/internal/adapters/clients"
	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// PostsPath is the resource polled on the posts service.
const PostsPath = "/posts"

// postDTO is the remote representation. userId and body are not carried
// into the domain.
type postDTO struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// PostsAdapter implements ports.PostsClient over the instrumented HTTP client.
type PostsAdapter struct {
	upstream
	logger *slog.Logger
}

var _ ports.PostsClient = (*PostsAdapter)(nil)

// NewPostsAdapter creates the posts adapter. logger may be nil.
func NewPostsAdapter(client *clients.Client, logger *slog.Logger) *PostsAdapter {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostsAdapter{
		upstream: newUpstream(client),
		logger:   logger.With(slog.String("component", "acl.PostsAdapter")),
	}
}

// ListPosts fetches GET /posts. A body that is not a JSON array is reported as
// domain.ErrUnavailable; individual entries without a positive id or a title
// are skipped and logged.
func (a *PostsAdapter) ListPosts(ctx context.Context) ([]domain.Post, error) {
	dtos, err := fetchJSON[[]postDTO](ctx, &a.upstream, PostsPath, "list posts")
	if err != nil {
		return nil, err
	}

	posts, rejected := TranslateEach(dtos, translatePost)
	if len(rejected) > 0 {
		logging.FromContextOr(ctx, a.logger).DebugContext(ctx, "skipped invalid posts",
			slog.Int("skipped", len(rejected)),
			slog.Any("error", errors.Join(rejected...)),
		)
	}

	return posts, nil
}

func translatePost(ext postDTO) (domain.Post, error) {
	if ext.ID <= 0 {
		return domain.Post{}, domain.NewValidationError("id", "must be positive")
	}

	title := strings.TrimSpace(ext.Title)
	if title == "" {
		return domain.Post{}, domain.NewValidationError("title", "is required")
	}

	return domain.Post{ID: ext.ID, Title: title}, nil
}
