package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebook/internal/app"
)

// PostsSource is the read side of the posts poller.
type PostsSource interface {
	Latest() app.PostsSnapshot
}

// PostsHandler serves the most recently polled posts.
type PostsHandler struct {
	source PostsSource
}

// NewPostsHandler creates a new posts handler.
func NewPostsHandler(source PostsSource) *PostsHandler {
	return &PostsHandler{source: source}
}

// ListPosts handles GET /api/v1/posts.
// Before the first successful fetch the list is empty.
func (h *PostsHandler) ListPosts(c *gin.Context) {
	snap := h.source.Latest()
	c.JSON(http.StatusOK, dto.NewPostsResponse(snap.Posts, snap.FetchedAt))
}

// RegisterPostsRoutes registers posts routes on rg.
func (h *PostsHandler) RegisterPostsRoutes(rg *gin.RouterGroup) {
	rg.GET("/posts", h.ListPosts)
}
