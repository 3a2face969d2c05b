package scraper

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const samplePage = `<!DOCTYPE html>
<html><head>
<title>Fallback Page Title</title>
<meta itemprop="name" content="  Great Video Title  ">
<meta itemprop="description" content="A description.">
<meta itemprop="embedURL" content="//embed.host/e/abc123">
<meta itemprop="thumbnailUrl" content="https://img.host/t/abc123.jpg">
<meta itemprop="duration" content="PT1H2M3S">
</head><body>
<a href="/tag/first-tag">First Tag</a>
<a href="/tag/second-tag">Second Tag</a>
<a href="/category/some-cat">Some Cat</a>
<a href="/unrelated">Not A Tag</a>
</body></html>`

func TestExtractFields(t *testing.T) {
	v, err := extract(docFrom(t, samplePage))
	require.NoError(t, err)

	assert.Equal(t, "Great Video Title", v.Title)
	assert.Equal(t, "great-video-title", v.Slug)
	assert.Equal(t, "A description.", v.Description)
	assert.Equal(t, "//embed.host/e/abc123", v.EmbedURL)
	assert.Equal(t, "https://img.host/t/abc123.jpg", v.Thumbnail)
	assert.Equal(t, 3723, v.DurationSec)
	assert.Equal(t, "1:02:03", v.Duration)
	assert.Equal(t, []string{"First Tag", "Second Tag"}, v.Tags)
	assert.Equal(t, []string{"Some Cat"}, v.Categories)
}

func TestExtractFallsBackToPageTitle(t *testing.T) {
	v, err := extract(docFrom(t, `<html><head><title>Only Title</title></head><body></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Only Title", v.Title)
	assert.Equal(t, 0, v.DurationSec)
	assert.Equal(t, "00:00", v.Duration)
	assert.Empty(t, v.Tags)
	assert.Empty(t, v.Categories)
}

func TestExtractRejectsChallengePage(t *testing.T) {
	html := `<html><head><title>Just a moment...</title>
<meta itemprop="name" content="Looks Legit"></head><body></body></html>`
	_, err := extract(docFrom(t, html))
	assert.ErrorIs(t, err, ErrChallenge)
}

func TestExtractRejectsMissingTitle(t *testing.T) {
	_, err := extract(docFrom(t, `<html><head><title>   </title></head><body></body></html>`))
	assert.ErrorIs(t, err, ErrNoTitle)
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abc", shorten("abc", 5))
	assert.Equal(t, "abcde...", shorten("abcdefgh", 5))

	// A cut landing inside a multi-byte rune moves back to its start.
	cut := shorten("üüüü", 5)
	assert.Equal(t, "üü...", cut)
	assert.True(t, utf8.ValidString(cut))
}
