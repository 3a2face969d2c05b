package videos

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xrofed/sebokehtub/internal/assets"
	"github.com/xrofed/sebokehtub/internal/models"
)

// PageSize is the number of cards on listing pages.
const PageSize = 24

const relatedCount = 8

// Handler serves the server-rendered HTML pages.
type Handler struct {
	repo     *Repository
	assets   *assets.Resolver
	siteName string
	logger   *zap.Logger
}

// NewHandler creates a page handler.
func NewHandler(repo *Repository, resolver *assets.Resolver, siteName string, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, assets: resolver, siteName: siteName, logger: logger}
}

// pageData is the base payload every template receives.
type pageData struct {
	SiteName     string
	Title        string
	Description  string
	Robots       string
	CanonicalURL string
	Image        string
}

func (h *Handler) base(c *gin.Context, title, desc string) pageData {
	return pageData{
		SiteName:     h.siteName,
		Title:        title,
		Description:  desc,
		Robots:       "index, follow",
		CanonicalURL: h.assets.SiteURL() + c.Request.URL.Path,
		Image:        h.assets.SiteURL() + "/og-image.jpg",
	}
}

func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func pageLabel(page int) string {
	if page > 1 {
		return fmt.Sprintf(" - Page %d", page)
	}
	return ""
}

// displayName maps a path slug back to a human label: hyphens to spaces,
// each word capitalized.
func displayName(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Home handles GET / with ?page= pagination.
func (h *Handler) Home(c *gin.Context) {
	page := queryPage(c)
	videos, total, err := h.repo.Page(c.Request.Context(), page, PageSize)
	if err != nil {
		h.serverError(c, err)
		return
	}
	label := pageLabel(page)
	data := gin.H{
		"Videos":      videos,
		"CurrentPage": page,
		"PrevPage":    page - 1,
		"NextPage":    page + 1,
		"TotalPages":  totalPages(total, PageSize),
	}
	merge(data, h.base(c,
		h.siteName+label+" | Latest Videos",
		"Watch the latest videos, updated daily."+label))
	c.HTML(http.StatusOK, "index.html", data)
}

// Detail handles GET /video/:slug. The view counter is bumped with an
// atomic UPDATE before the read so every hit counts exactly once.
func (h *Handler) Detail(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	if err := h.repo.IncrementViews(ctx, slug); err != nil {
		h.logger.Warn("view increment failed", zap.String("slug", slug), zap.Error(err))
	}

	video, err := h.repo.GetBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	related, err := h.repo.Random(ctx, relatedCount)
	if err != nil {
		h.logger.Warn("related lookup failed", zap.Error(err))
	}

	desc := fmt.Sprintf("%s, duration %d seconds. Watch it free on %s.",
		video.Title, video.DurationSec, h.siteName)
	data := gin.H{
		"Video":    video,
		"Related":  related,
		"EmbedURL": h.assets.PlayerURL(video.EmbedURL),
	}
	base := h.base(c, video.Title+" | "+h.siteName, desc)
	base.Image = h.assets.Thumbnail(video.Thumbnail)
	base.CanonicalURL = h.assets.VideoURL(video.Slug)
	merge(data, base)
	c.HTML(http.StatusOK, "single.html", data)
}

// Search handles GET /search?q=. Search results stay out of the index.
func (h *Handler) Search(c *gin.Context) {
	q := c.Query("q")
	videos, err := h.repo.Search(c.Request.Context(), q, PageSize)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data := gin.H{
		"Videos":      videos,
		"Heading":     "Search: " + q,
		"BasePath":    "/search",
		"CurrentPage": 1,
		"TotalPages":  1,
		"RSSLink":     "",
	}
	base := h.base(c, "Search: "+q+" | "+h.siteName, "")
	base.Robots = "noindex, nofollow"
	merge(data, base)
	c.HTML(http.StatusOK, "listing.html", data)
}

// Tag handles GET /tag/:tag with pagination.
func (h *Handler) Tag(c *gin.Context) {
	h.listing(c, c.Param("tag"), "/tag/", "")
}

// Category handles GET /category/:slug with pagination and a feed link.
func (h *Handler) Category(c *gin.Context) {
	slug := c.Param("slug")
	h.listing(c, slug, "/category/", "/rss/category/"+slug)
}

func (h *Handler) listing(c *gin.Context, slug, pathPrefix, rssLink string) {
	ctx := c.Request.Context()
	name := strings.ReplaceAll(slug, "-", " ")
	page := queryPage(c)

	var (
		videos []models.Video
		total  int64
		err    error
	)
	if pathPrefix == "/tag/" {
		if videos, err = h.repo.ByTag(ctx, name, page, PageSize); err == nil {
			total, err = h.repo.CountByTag(ctx, name)
		}
	} else {
		if videos, err = h.repo.ByCategory(ctx, name, page, PageSize); err == nil {
			total, err = h.repo.CountByCategory(ctx, name)
		}
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	display := displayName(slug)
	label := pageLabel(page)
	data := gin.H{
		"Videos":      videos,
		"Heading":     display,
		"BasePath":    pathPrefix + slug,
		"CurrentPage": page,
		"PrevPage":    page - 1,
		"NextPage":    page + 1,
		"TotalPages":  totalPages(total, PageSize),
		"RSSLink":     rssLink,
	}
	merge(data, h.base(c,
		display+label+" | "+h.siteName,
		display+" collection, updated daily."+label))
	c.HTML(http.StatusOK, "listing.html", data)
}

// NotFound renders the 404 page with a few random picks.
func (h *Handler) NotFound(c *gin.Context) {
	videos, err := h.repo.Random(c.Request.Context(), 4)
	if err != nil {
		h.logger.Warn("404 fill lookup failed", zap.Error(err))
	}
	data := gin.H{"Videos": videos}
	merge(data, h.base(c, "Page Not Found", ""))
	c.HTML(http.StatusNotFound, "404.html", data)
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.Error("page render failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.String(http.StatusInternalServerError, "Something went wrong")
}

func merge(into gin.H, base pageData) {
	into["SiteName"] = base.SiteName
	into["Title"] = base.Title
	into["Description"] = base.Description
	into["Robots"] = base.Robots
	into["CanonicalURL"] = base.CanonicalURL
	into["Image"] = base.Image
}
