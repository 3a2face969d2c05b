package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xrofed/sebokehtub/internal/assets"
	"github.com/xrofed/sebokehtub/internal/models"
)

type stubCatalog struct {
	videos     []models.Video
	categories []string
	tags       []string
	byCategory map[string][]models.Video
}

func (s *stubCatalog) Latest(_ context.Context, limit int) ([]models.Video, error) {
	if limit > len(s.videos) {
		limit = len(s.videos)
	}
	return s.videos[:limit], nil
}

func (s *stubCatalog) ByCategory(_ context.Context, name string, _, limit int) ([]models.Video, error) {
	vids := s.byCategory[name]
	if limit > len(vids) {
		limit = len(vids)
	}
	return vids[:limit], nil
}

func (s *stubCatalog) CountAll(context.Context) (int64, error) {
	return int64(len(s.videos)), nil
}

func (s *stubCatalog) ListForSitemap(_ context.Context, skip, limit int) ([]models.Video, error) {
	if skip >= len(s.videos) {
		return nil, nil
	}
	end := skip + limit
	if end > len(s.videos) {
		end = len(s.videos)
	}
	return s.videos[skip:end], nil
}

func (s *stubCatalog) DistinctCategories(context.Context) ([]string, error) { return s.categories, nil }
func (s *stubCatalog) DistinctTags(context.Context) ([]string, error)       { return s.tags, nil }

func newTestRouter(cat *stubCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gen := NewGenerator("TestTube", assets.NewResolver("https://example.com", ""))
	gen.now = func() time.Time { return testClock }
	h := NewHandler(cat, gen, zap.NewNop())

	r := gin.New()
	r.GET("/rss", h.MainRSS)
	r.GET("/rss/category/:slug", h.CategoryRSS)
	r.GET("/sitemap.xml", h.SitemapIndex)
	r.GET("/sitemap-video.xml", h.LegacySitemap)
	r.NoRoute(h.SitemapVideoPage)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func manyVideos(n int) []models.Video {
	out := make([]models.Video, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, video("clip-"+strings.Repeat("x", i%3)+string(rune('a'+i%26)), "Clip"))
	}
	return out
}

func TestSitemapPageBeyondRangeIs404(t *testing.T) {
	r := newTestRouter(&stubCatalog{videos: manyVideos(10)})

	w := doGet(t, r, "/sitemap-video2.xml")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSitemapPageNumberOverflowIs404(t *testing.T) {
	r := newTestRouter(&stubCatalog{videos: manyVideos(10)})

	w := doGet(t, r, "/sitemap-video99999999999999999999.xml")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "<urlset")
}

func TestSitemapPageZeroServesPageOne(t *testing.T) {
	r := newTestRouter(&stubCatalog{videos: manyVideos(3)})

	w := doGet(t, r, "/sitemap-video0.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://example.com/</loc>")
}

func TestSitemapPageOneNeverEmptyCatalog404(t *testing.T) {
	r := newTestRouter(&stubCatalog{})

	w := doGet(t, r, "/sitemap-video1.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<urlset")
	assert.Contains(t, w.Body.String(), "https://example.com/</loc>")
}

func TestSitemapPageOneCarriesTaxonomy(t *testing.T) {
	cat := &stubCatalog{
		videos:     manyVideos(3),
		categories: []string{"Cat A", "cat a"},
		tags:       []string{"Viral"},
	}
	r := newTestRouter(cat)

	body := doGet(t, r, "/sitemap-video1.xml").Body.String()
	assert.Equal(t, 1, strings.Count(body, "/category/cat-a</loc>"))
	assert.Contains(t, body, "/tag/viral</loc>")

	// page 2 path exists but catalog is too small
	assert.Equal(t, http.StatusNotFound, doGet(t, r, "/sitemap-video2.xml").Code)
}

func TestSitemapPageRegexPassthrough(t *testing.T) {
	r := newTestRouter(&stubCatalog{})
	// not a sitemap page path; falls through the NoRoute chain to gin's 404
	assert.Equal(t, http.StatusNotFound, doGet(t, r, "/sitemap-videoX.xml").Code)
	assert.Equal(t, http.StatusNotFound, doGet(t, r, "/whatever").Code)
}

func TestSitemapIndexCount(t *testing.T) {
	r := newTestRouter(&stubCatalog{videos: manyVideos(10)})
	body := doGet(t, r, "/sitemap.xml").Body.String()
	assert.Equal(t, 1, strings.Count(body, "<sitemap>"))
}

func TestCategoryRSSSlugToName(t *testing.T) {
	cat := &stubCatalog{
		byCategory: map[string][]models.Video{
			"cat a": {video("v-1", "V1")},
		},
	}
	r := newTestRouter(cat)

	w := doGet(t, r, "/rss/category/cat-a")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "https://example.com/video/v-1")
}

func TestMainRSSEndpoint(t *testing.T) {
	r := newTestRouter(&stubCatalog{videos: manyVideos(2)})
	w := doGet(t, r, "/rss")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Equal(t, 2, strings.Count(w.Body.String(), "<item>"))
}
