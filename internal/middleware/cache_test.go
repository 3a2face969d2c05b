package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrofed/sebokehtub/internal/auth"
	"github.com/xrofed/sebokehtub/internal/cache"
)

func newCachedRouter(store *cache.Cache, authed bool) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	renders := 0
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.ContextAuthenticated, authed)
		c.Next()
	})
	handler := func(c *gin.Context) {
		renders++
		c.Data(http.StatusOK, "text/html", []byte(fmt.Sprintf("render %d for %s", renders, c.Request.URL.String())))
	}
	r.GET("/page", Cached(store, time.Minute), handler)
	r.POST("/page", Cached(store, time.Minute), handler)
	return r, &renders
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestSequentialGetsAreByteIdentical(t *testing.T) {
	store := cache.New()
	r, renders := newCachedRouter(store, false)

	first := get(r, "/page")
	second := get(r, "/page")

	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(t, first.Header().Get("Content-Type"), second.Header().Get("Content-Type"))
	assert.Equal(t, 1, *renders)
}

func TestQueryStringIsPartOfKey(t *testing.T) {
	store := cache.New()
	r, renders := newCachedRouter(store, false)

	get(r, "/page?page=1")
	get(r, "/page?page=2")
	assert.Equal(t, 2, *renders)
}

func TestAuthenticatedRequestsBypassCache(t *testing.T) {
	store := cache.New()
	r, renders := newCachedRouter(store, true)

	get(r, "/page")
	get(r, "/page")
	assert.Equal(t, 2, *renders)

	// nothing was stored either
	_, ok := store.Get("/page")
	assert.False(t, ok)
}

func TestNonGetBypassesCache(t *testing.T) {
	store := cache.New()
	r, renders := newCachedRouter(store, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/page", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/page", nil))

	assert.Equal(t, 2, *renders)
}

func TestInvalidationForcesRecompute(t *testing.T) {
	store := cache.New()
	r, renders := newCachedRouter(store, false)

	get(r, "/page")
	assert.Equal(t, 1, *renders)

	// what the scraper does after a successful insert
	store.Delete(CacheKey("/page", ""))

	get(r, "/page")
	assert.Equal(t, 2, *renders)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "/", CacheKey("/", ""))
	assert.Equal(t, "/search?q=x", CacheKey("/search", "q=x"))
}
