package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebook/internal/app"
)

// ExportFilename is the download name offered for GET /quotes/export.
const ExportFilename = "quotes.json"

// QuoteHandler serves the quote collection.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// ListQuotes handles GET /api/v1/quotes.
// ?category= filters exactly (case-sensitive); empty lists everything.
// Results keep insertion order and are paged with an opaque cursor.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var q dto.ListQuotesQuery
	if !bindQuery(c, &q) {
		return
	}

	offset, err := q.Offset()
	if err != nil {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	quotes := h.service.Filter(c.Request.Context(), q.Category)

	c.JSON(http.StatusOK, dto.Paginate(dto.NewQuoteResponses(quotes), offset, q.GetLimit()))
}

// RandomQuote handles GET /api/v1/quotes/random.
// Responds 404 when the collection, or the requested category, is empty.
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	var q dto.RandomQuoteQuery
	if !bindQuery(c, &q) {
		return
	}

	quote, err := h.service.RandomInCategory(c.Request.Context(), q.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// AddQuote handles POST /api/v1/quotes.
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req dto.AddQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, "request body must be a JSON object with text and category")
		return
	}

	quote, err := h.service.Add(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// ImportQuotes handles POST /api/v1/quotes/import.
// The body is the raw text of a quotes file: a JSON array of {text, category}.
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.RespondWithCode(c, dto.ErrorCodeBadRequest, "request body too large")
			return
		}

		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, "could not read request body")

		return
	}

	n, err := h.service.Import(c.Request.Context(), string(raw))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{Imported: n})
}

// ExportQuotes handles GET /api/v1/quotes/export.
func (h *QuoteHandler) ExportQuotes(c *gin.Context) {
	body, err := h.service.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body))
}

// Categories handles GET /api/v1/categories.
func (h *QuoteHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: h.service.Categories(c.Request.Context())})
}

// RegisterQuoteRoutes registers quote routes on rg. Mutating routes run
// behind write, which may be nil.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup, write gin.HandlerFunc) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/random", h.RandomQuote)
	quotes.GET("/export", h.ExportQuotes)

	mutating := quotes.Group("")
	if write != nil {
		mutating.Use(write)
	}

	mutating.POST("", h.AddQuote)
	mutating.POST("/import", h.ImportQuotes)

	rg.GET("/categories", h.Categories)
}

// bindQuery binds and validates query parameters, writing a 400 on failure.
func bindQuery(c *gin.Context, v any) bool {
	var qe *dto.QueryError
	if err := dto.BindQuery(c, v); !errors.As(err, &qe) {
		return true
	}

	resp := dto.NewErrorResponse(dto.ErrorCodeBadRequest, "invalid query parameters")
	if len(qe.Fields) > 0 {
		resp = dto.NewErrorResponseWithDetails(dto.ErrorCodeValidation, "invalid query parameters", qe.Fields)
	}

	c.JSON(http.StatusBadRequest, resp.WithTraceID(dto.GetTraceID(c)))

	return false
}
