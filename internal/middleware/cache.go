package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xrofed/sebokehtub/internal/auth"
	"github.com/xrofed/sebokehtub/internal/cache"
)

// CacheKey builds the cache key for a request: full path plus raw query,
// so paginated variants cache independently. A bare path is its own key,
// which is what invalidation by path relies on.
func CacheKey(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

// Cached wraps a cacheable route. Authenticated requests and non-GET
// methods pass straight through; anonymous GET hits serve the stored
// bytes verbatim, misses render fresh and store a successful response
// for ttl.
func Cached(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.IsAuthenticated(c) || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := CacheKey(c.Request.URL.Path, c.Request.URL.RawQuery)
		if entry, ok := store.Get(key); ok {
			c.Data(http.StatusOK, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() == http.StatusOK {
			store.Set(key, cache.Entry{
				Body:        rec.buf.Bytes(),
				ContentType: rec.Header().Get("Content-Type"),
			}, ttl)
		}
	}
}

// recordingWriter tees the response body so a successful render can be
// stored after it has been sent.
type recordingWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
