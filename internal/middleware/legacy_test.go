package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLegacyRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.NoRoute(LegacyRedirects("https://cdn.example.net/"), func(c *gin.Context) {
		c.String(http.StatusNotFound, "nope")
	})
	return r
}

func redirectTarget(t *testing.T, r *gin.Engine, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code, w.Header().Get("Location")
}

func TestLegacyPHPRedirects(t *testing.T) {
	r := newLegacyRouter()
	cases := map[string]string{
		"/rss.php":                        "/rss",
		"/sitemap.php":                    "/sitemap.xml",
		"/rss-sitemap.php":                "/sitemap-video.xml",
		"/index.php":                      "/",
		"/index.php?page=3":               "/?page=3",
		"/rss-by-category.php?slug=cat+a": "/rss/category/cat-a",
		"/rss-by-category.php":            "/rss",
	}
	for path, want := range cases {
		code, loc := redirectTarget(t, r, path)
		assert.Equal(t, http.StatusMovedPermanently, code, "path %s", path)
		assert.Equal(t, want, loc, "path %s", path)
	}
}

func TestUploadsRedirectToAssetHost(t *testing.T) {
	r := newLegacyRouter()
	code, loc := redirectTarget(t, r, "/uploads/2024/1/a.jpg")
	assert.Equal(t, http.StatusMovedPermanently, code)
	assert.Equal(t, "https://cdn.example.net/2024/1/a.jpg", loc)
}

func TestUnknownPathFallsThrough(t *testing.T) {
	r := newLegacyRouter()
	code, _ := redirectTarget(t, r, "/not-a-legacy-path")
	assert.Equal(t, http.StatusNotFound, code)
}
