package scraper

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xrofed/sebokehtub/internal/auth"
	"github.com/xrofed/sebokehtub/pkg/response"
)

// Handler serves the scrape API.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a scraper handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type scrapeRequest struct {
	URL string `json:"url" form:"url"`
}

// Scrape handles POST /api/scrape. Requires an authenticated session.
// Scrape outcomes (challenge, missing title, duplicate, fetch failure)
// come back as distinct human-readable messages; only transport-level
// problems use error status codes.
func (h *Handler) Scrape(c *gin.Context) {
	if !auth.IsAuthenticated(c) {
		response.Unauthorized(c, "login required")
		return
	}

	var req scrapeRequest
	if err := c.ShouldBind(&req); err != nil || req.URL == "" {
		response.BadRequest(c, "url is required")
		return
	}

	video, err := h.service.Scrape(c.Request.Context(), req.URL)
	switch {
	case err == nil:
		response.OK(c, gin.H{"message": "Success: " + shorten(video.Title, 40), "slug": video.Slug})
	case errors.Is(err, ErrChallenge):
		response.Fail(c, "Blocked by challenge page")
	case errors.Is(err, ErrNoTitle):
		response.Fail(c, "Title missing")
	case errors.Is(err, ErrDuplicate):
		response.Fail(c, "Duplicate: "+err.Error())
	default:
		h.logger.Error("scrape failed", zap.String("url", req.URL), zap.Error(err))
		response.Fail(c, "Error: "+err.Error())
	}
}
