package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderlens/backend/internal/domain"
	"github.com/orderlens/backend/internal/infrastructure/htmlform"
	"github.com/orderlens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	extraction *usecase.ExtractionService
	fill       *usecase.FillService
}

// NewHandler creates a new HTTP handler
func NewHandler(extraction *usecase.ExtractionService, fill *usecase.FillService) *Handler {
	return &Handler{
		extraction: extraction,
		fill:       fill,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "orderlens-backend",
		"version": "1.0.0",
	})
}

type classifyRequest struct {
	URL  string `json:"url"`
	Text string `json:"text" binding:"required"`
}

// ClassifyPage scores whether scraped page text is an order page. Results
// are cached by URL for the configured window.
func (h *Handler) ClassifyPage(c *gin.Context) {
	if h.extraction == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "extraction service not configured"})
		return
	}

	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := h.extraction.Classify(c.Request.Context(), req.URL, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "classification failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type extractRequest struct {
	URL      string   `json:"url"`
	Text     string   `json:"text" binding:"required"`
	Headings []string `json:"headings,omitempty"`
}

// ExtractRecord runs the extraction pipeline over scraped page text. The
// record is stored for later fill passes only when strict-mode
// classification accepts the page; it is always returned for review.
func (h *Handler) ExtractRecord(c *gin.Context) {
	if h.extraction == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "extraction service not configured"})
		return
	}

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	record, classification, err := h.extraction.ExtractRecord(c.Request.Context(), req.URL, req.Text, req.Headings)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "extraction failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":         record,
		"classification": classification,
	})
}

// GetRecord fetches a stored record; the popup shows it for manual review
// before any fill is attempted.
func (h *Handler) GetRecord(c *gin.Context) {
	if h.extraction == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "extraction service not configured"})
		return
	}

	record, err := h.extraction.StoredRecord(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no extracted record available"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "record store unavailable"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteRecord drops a stored record.
func (h *Handler) DeleteRecord(c *gin.Context) {
	if h.extraction == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "extraction service not configured"})
		return
	}

	if err := h.extraction.DeleteRecord(c.Request.Context(), c.Param("key")); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "record store unavailable"})
		return
	}

	c.Status(http.StatusNoContent)
}

type fillRequest struct {
	Key        string                    `json:"key,omitempty"`
	Record     *domain.ExtractedRecord   `json:"record,omitempty"`
	Candidates []domain.FieldCandidate   `json:"candidates,omitempty"`
	FormHTML   string                    `json:"formHtml,omitempty"`
}

// FillForm maps a record onto the portal form's candidates and returns the
// per-field plan and outcome. The extension applies the plan and always
// leaves the final submit to the user.
func (h *Handler) FillForm(c *gin.Context) {
	if h.fill == nil || h.extraction == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "fill service not configured"})
		return
	}

	var req fillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record := req.Record
	if record == nil {
		stored, err := h.extraction.StoredRecord(c.Request.Context(), req.Key)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no extracted record available"})
				return
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "record store unavailable"})
			return
		}
		record = stored
	}

	candidates := req.Candidates
	if len(candidates) == 0 && req.FormHTML != "" {
		parsed, err := htmlform.Parse(req.FormHTML)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable form html"})
			return
		}
		candidates = parsed
	}
	if len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidates or formHtml is required"})
		return
	}

	plan, outcome, err := h.fill.Fill(c.Request.Context(), record, map[string][]domain.FieldCandidate{"": candidates})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fill failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":      plan,
		"outcome":   outcome,
		"filled":    outcome.SuccessCount(),
		"attempted": len(outcome),
	})
}
