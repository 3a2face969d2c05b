package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThumbnail(t *testing.T) {
	r := NewResolver("https://example.com/", "")

	assert.Equal(t, "https://cdn.example.net/a.jpg", r.Thumbnail("https://cdn.example.net/a.jpg"))
	assert.Equal(t, "http://cdn.example.net/a.jpg", r.Thumbnail("http://cdn.example.net/a.jpg"))
	assert.Equal(t, "https://example.com/uploads/2024/1/a.jpg", r.Thumbnail("uploads/2024/1/a.jpg"))
	assert.Equal(t, "https://example.com/uploads/2024/1/a.jpg", r.Thumbnail("/uploads/2024/1/a.jpg"))
	assert.Equal(t, "https://example.com/uploads/default-poster.jpg", r.Thumbnail(""))
}

func TestPlayerURL(t *testing.T) {
	r := NewResolver("https://example.com", "https://proxy.example.org/")

	got := r.PlayerURL("//embed.host/e/abc")
	assert.Equal(t, "https://proxy.example.org/?url=https%3A%2F%2Fembed.host%2Fe%2Fabc", got)

	direct := NewResolver("https://example.com", "")
	assert.Equal(t, "https://embed.host/e/abc", direct.PlayerURL("//embed.host/e/abc"))
}

func TestVideoURL(t *testing.T) {
	r := NewResolver("https://example.com", "")
	assert.Equal(t, "https://example.com/video/some-slug", r.VideoURL("some-slug"))
}
