package feeds

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xrofed/sebokehtub/internal/models"
)

// Catalog is the read surface the feed endpoints need from the store.
type Catalog interface {
	Latest(ctx context.Context, limit int) ([]models.Video, error)
	ByCategory(ctx context.Context, name string, page, limit int) ([]models.Video, error)
	CountAll(ctx context.Context) (int64, error)
	ListForSitemap(ctx context.Context, skip, limit int) ([]models.Video, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctTags(ctx context.Context) ([]string, error)
}

var sitemapPageRe = regexp.MustCompile(`^/sitemap-video(\d+)\.xml$`)

// Handler serves the RSS and sitemap endpoints.
type Handler struct {
	catalog Catalog
	gen     *Generator
	logger  *zap.Logger
}

// NewHandler creates a feed handler.
func NewHandler(catalog Catalog, gen *Generator, logger *zap.Logger) *Handler {
	return &Handler{catalog: catalog, gen: gen, logger: logger}
}

func xmlBody(c *gin.Context, body string) {
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(body))
}

// MainRSS handles GET /rss.
func (h *Handler) MainRSS(c *gin.Context) {
	videos, err := h.catalog.Latest(c.Request.Context(), RSSLimit)
	if err != nil {
		h.fail(c, "rss", err)
		return
	}
	xmlBody(c, h.gen.MainRSS(videos))
}

// CategoryRSS handles GET /rss/category/:slug. The path slug maps back
// to a category name by replacing hyphens with spaces; matching against
// stored categories is a case-insensitive substring predicate.
func (h *Handler) CategoryRSS(c *gin.Context) {
	slug := c.Param("slug")
	name := strings.ReplaceAll(slug, "-", " ")
	videos, err := h.catalog.ByCategory(c.Request.Context(), name, 1, RSSCategoryLimit)
	if err != nil {
		h.fail(c, "category rss", err)
		return
	}
	xmlBody(c, h.gen.CategoryRSS(name, slug, videos))
}

// LegacySitemap handles GET /sitemap-video.xml, the bounded single-page
// video sitemap kept for crawlers that still fetch it.
func (h *Handler) LegacySitemap(c *gin.Context) {
	videos, err := h.catalog.ListForSitemap(c.Request.Context(), 0, LegacySitemapLimit)
	if err != nil {
		h.fail(c, "legacy sitemap", err)
		return
	}
	xmlBody(c, h.gen.LegacyVideoSitemap(videos))
}

// SitemapIndex handles GET /sitemap.xml.
func (h *Handler) SitemapIndex(c *gin.Context) {
	total, err := h.catalog.CountAll(c.Request.Context())
	if err != nil {
		h.fail(c, "sitemap index", err)
		return
	}
	xmlBody(c, h.gen.SitemapIndex(total))
}

// SitemapVideoPage serves /sitemap-video{N}.xml. Gin's router cannot
// split a parameter out of the middle of a path segment, so this runs in
// the NoRoute chain and passes through when the path does not match.
func (h *Handler) SitemapVideoPage(c *gin.Context) {
	m := sitemapPageRe.FindStringSubmatch(c.Request.URL.Path)
	if m == nil {
		c.Next()
		return
	}

	page, err := strconv.Atoi(m[1])
	if err != nil {
		// A numeric path that does not fit an int cannot name a real
		// page, so it gets the same answer as a page past the end.
		c.String(http.StatusNotFound, "Sitemap page not found")
		c.Abort()
		return
	}
	if page < 1 {
		page = 1
	}

	ctx := c.Request.Context()
	videos, err := h.catalog.ListForSitemap(ctx, (page-1)*SitemapPageSize, SitemapPageSize)
	if err != nil {
		h.fail(c, "sitemap page", err)
		c.Abort()
		return
	}
	// Past the last page there is nothing to describe; page 1 always
	// renders, even for an empty catalog.
	if len(videos) == 0 && page > 1 {
		c.String(http.StatusNotFound, "Sitemap page not found")
		c.Abort()
		return
	}

	var categories, tags []string
	if page == 1 {
		if categories, err = h.catalog.DistinctCategories(ctx); err != nil {
			h.fail(c, "sitemap categories", err)
			c.Abort()
			return
		}
		if tags, err = h.catalog.DistinctTags(ctx); err != nil {
			h.fail(c, "sitemap tags", err)
			c.Abort()
			return
		}
	}

	xmlBody(c, h.gen.VideoSitemapPage(page, videos, categories, tags))
	c.Abort()
}

func (h *Handler) fail(c *gin.Context, what string, err error) {
	h.logger.Error("feed generation failed", zap.String("feed", what), zap.Error(err))
	c.String(http.StatusInternalServerError, "Error generating %s", what)
}
