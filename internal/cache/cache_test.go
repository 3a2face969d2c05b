package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := New()
	c.Set("/", Entry{Body: []byte("home"), ContentType: "text/html"}, time.Minute)

	got, ok := c.Get("/")
	require.True(t, ok)
	assert.Equal(t, []byte("home"), got.Body)
	assert.Equal(t, "text/html", got.ContentType)
}

func TestExpiredEntryIsAbsent(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("/rss", Entry{Body: []byte("xml")}, 5*time.Minute)

	now = now.Add(5*time.Minute + time.Second)
	_, ok := c.Get("/rss")
	assert.False(t, ok)

	// Expired item was dropped, not just hidden.
	c.mu.RLock()
	_, still := c.items["/rss"]
	c.mu.RUnlock()
	assert.False(t, still)
}

func TestDeleteEvictsImmediately(t *testing.T) {
	c := New()
	c.Set("/", Entry{Body: []byte("a")}, time.Hour)
	c.Set("/rss", Entry{Body: []byte("b")}, time.Hour)

	c.Delete("/", "/rss")

	_, ok := c.Get("/")
	assert.False(t, ok)
	_, ok = c.Get("/rss")
	assert.False(t, ok)
}

func TestMissReturnsFalse(t *testing.T) {
	c := New()
	_, ok := c.Get("/nope")
	assert.False(t, ok)
}
