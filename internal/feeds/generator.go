// Package feeds produces the machine-readable XML surface of the
// catalog: the RSS feeds and the indexed, paginated video sitemaps.
package feeds

import (
	"fmt"
	"strings"
	"time"

	"github.com/xrofed/sebokehtub/internal/assets"
	"github.com/xrofed/sebokehtub/internal/models"
	"github.com/xrofed/sebokehtub/pkg/utils"
)

const (
	// RSSLimit caps the main feed.
	RSSLimit = 50
	// RSSCategoryLimit caps per-category feeds.
	RSSCategoryLimit = 30
	// LegacySitemapLimit bounds the single-page video sitemap.
	LegacySitemapLimit = 1000
	// SitemapPageSize is the number of video URLs per sitemap page.
	SitemapPageSize = 300

	maxSitemapTags     = 32
	rssDescriptionCap  = 300
	rssCategoryDescCap = 200
	sitemapDescCap     = 2000
)

// Generator renders RSS and sitemap XML. It is pure over its inputs
// apart from the clock, which tests pin.
type Generator struct {
	siteName string
	assets   *assets.Resolver
	now      func() time.Time
}

// NewGenerator creates a feed generator for the given site identity.
func NewGenerator(siteName string, resolver *assets.Resolver) *Generator {
	return &Generator{siteName: siteName, assets: resolver, now: time.Now}
}

func (g *Generator) rfc2822(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}

func (g *Generator) iso(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func (g *Generator) day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MainRSS renders the site feed: newest-first records with CDATA titles,
// permalink guids, an HTML description embedding the thumbnail, and a
// media:content block per item.
func (g *Generator) MainRSS(videos []models.Video) string {
	siteURL := g.assets.SiteURL()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">
    <channel>
        <title>` + escapeXML(g.siteName) + ` - Latest Videos</title>
        <link>` + siteURL + `</link>
        <description>` + escapeXML("Latest videos on "+g.siteName) + `</description>
        <language>id-ID</language>
        <lastBuildDate>` + g.rfc2822(g.now()) + `</lastBuildDate>
        <atom:link href="` + siteURL + `/rss" rel="self" type="application/rss+xml" />`)

	for i := range videos {
		vid := &videos[i]
		link := g.assets.VideoURL(vid.Slug)
		thumb := g.assets.Thumbnail(vid.Thumbnail)
		desc := fmt.Sprintf(
			"\n                <img src=%q width=\"320\" height=\"180\" style=\"object-fit:cover;\" /><br/>"+
				"\n                <p>%s...</p>"+
				"\n                <p><strong>Duration:</strong> %s | <strong>Views:</strong> %d</p>\n            ",
			thumb, truncate(vid.Description, rssDescriptionCap), utils.FormatDuration(vid.DurationSec), vid.Views)

		b.WriteString(`
        <item>
            <title>` + cdata(vid.Title) + `</title>
            <link>` + link + `</link>
            <guid isPermaLink="true">` + link + `</guid>
            <description>` + cdata(desc) + `</description>
            <media:content url="` + escapeXML(thumb) + `" medium="image">
                <media:title type="plain">` + cdata(vid.Title) + `</media:title>
            </media:content>
            <pubDate>` + g.rfc2822(vid.CreatedAt) + `</pubDate>
        </item>`)
	}

	b.WriteString(`
    </channel>
</rss>`)
	return b.String()
}

// CategoryRSS renders the feed for one category. Same item shape as the
// main feed minus the media block.
func (g *Generator) CategoryRSS(categoryName, categorySlug string, videos []models.Video) string {
	siteURL := g.assets.SiteURL()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
    <channel>
        <title>` + escapeXML(g.siteName+" Category: "+categoryName) + `</title>
        <link>` + siteURL + `</link>
        <description>` + escapeXML("Latest from category "+categoryName) + `</description>
        <language>id-ID</language>
        <atom:link href="` + siteURL + `/rss/category/` + escapeXML(categorySlug) + `" rel="self" type="application/rss+xml" />`)

	for i := range videos {
		vid := &videos[i]
		link := g.assets.VideoURL(vid.Slug)
		thumb := g.assets.Thumbnail(vid.Thumbnail)
		desc := fmt.Sprintf(
			"\n                <img src=%q width=\"320\" /><br/>\n                %s...\n            ",
			thumb, truncate(vid.Description, rssCategoryDescCap))

		b.WriteString(`
        <item>
            <title>` + cdata(vid.Title) + `</title>
            <link>` + link + `</link>
            <guid>` + link + `</guid>
            <description>` + cdata(desc) + `</description>
            <pubDate>` + g.rfc2822(vid.CreatedAt) + `</pubDate>
        </item>`)
	}

	b.WriteString(`
    </channel>
</rss>`)
	return b.String()
}

// LegacyVideoSitemap renders the bounded single-page video sitemap with
// google video extensions for every record handed in.
func (g *Generator) LegacyVideoSitemap(videos []models.Video) string {
	siteURL := g.assets.SiteURL()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"
        xmlns:video="http://www.google.com/schemas/sitemap-video/1.1">
    <url>
        <loc>` + siteURL + `/</loc>
        <lastmod>` + g.iso(g.now()) + `</lastmod>
        <changefreq>daily</changefreq>
        <priority>1.0</priority>
    </url>`)

	for i := range videos {
		vid := &videos[i]
		pageURL := escapeXML(g.assets.VideoURL(vid.Slug))
		thumb := escapeXML(g.assets.Thumbnail(vid.Thumbnail))
		player := escapeXML(g.assets.PlayerURL(vid.EmbedURL))

		var tags strings.Builder
		for _, tag := range capTags(vid.Tags) {
			tags.WriteString(`<video:tag>` + cdata(tag) + `</video:tag>`)
		}

		b.WriteString(`
    <url>
        <loc>` + pageURL + `</loc>
        <lastmod>` + g.iso(vid.CreatedAt) + `</lastmod>
        <changefreq>monthly</changefreq>
        <priority>0.8</priority>
        <video:video>
            <video:thumbnail_loc>` + thumb + `</video:thumbnail_loc>
            <video:title>` + cdata(vid.Title) + `</video:title>
            <video:description>` + cdata(truncate(vid.Description, sitemapDescCap)) + `</video:description>
            <video:player_loc allow_embed="yes" autoplay="ap=1">` + player + `</video:player_loc>
            <video:duration>` + fmt.Sprint(vid.DurationSec) + `</video:duration>
            <video:publication_date>` + g.iso(vid.CreatedAt) + `</video:publication_date>
            <video:family_friendly>no</video:family_friendly>
            <video:uploader info="` + siteURL + `">` + escapeXML(g.siteName) + `</video:uploader>
            ` + tags.String() + `
        </video:video>
    </url>`)
	}

	b.WriteString(`
</urlset>`)
	return b.String()
}

// SitemapPages computes how many sitemap pages the index must point at.
// An empty catalog still gets one page so crawlers never 404 on page 1.
func SitemapPages(totalVideos int64) int {
	pages := int((totalVideos + SitemapPageSize - 1) / SitemapPageSize)
	if pages < 1 {
		pages = 1
	}
	return pages
}

// SitemapIndex renders the index pointing at /sitemap-video{N}.xml for
// each page.
func (g *Generator) SitemapIndex(totalVideos int64) string {
	siteURL := g.assets.SiteURL()
	lastmod := g.iso(g.now())
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	for i := 1; i <= SitemapPages(totalVideos); i++ {
		b.WriteString(`
    <sitemap>
        <loc>` + fmt.Sprintf("%s/sitemap-video%d.xml", siteURL, i) + `</loc>
        <lastmod>` + lastmod + `</lastmod>
    </sitemap>`)
	}
	b.WriteString(`</sitemapindex>`)
	return b.String()
}

// VideoSitemapPage renders one sitemap page. Page 1 additionally leads
// with the homepage plus one URL per distinct category and tag;
// deduplication happens here on the cleaned slug so case variants of the
// same label cannot emit duplicate URLs.
func (g *Generator) VideoSitemapPage(page int, videos []models.Video, categories, tags []string) string {
	siteURL := g.assets.SiteURL()
	today := g.day(g.now())
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"
        xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">`)

	if page == 1 {
		b.WriteString(`
    <url>
        <loc>` + siteURL + `/</loc>
        <lastmod>` + today + `</lastmod>
        <changefreq>daily</changefreq>
        <priority>1.0</priority>
    </url>`)
		g.writeTaxonomyURLs(&b, "/category/", categories, today)
		g.writeTaxonomyURLs(&b, "/tag/", tags, today)
	}

	now := g.now()
	for i := range videos {
		vid := &videos[i]
		b.WriteString(`
    <url>
        <loc>` + escapeXML(g.assets.VideoURL(vid.Slug)) + `</loc>
        <lastmod>` + g.day(vid.LastMod(now)) + `</lastmod>
        <changefreq>weekly</changefreq>
        <priority>0.8</priority>
        <image:image>
            <image:loc>` + escapeXML(g.assets.Thumbnail(vid.Thumbnail)) + `</image:loc>
            <image:title>` + cdata(vid.Title) + `</image:title>
        </image:image>
    </url>`)
	}

	b.WriteString(`</urlset>`)
	return b.String()
}

func (g *Generator) writeTaxonomyURLs(b *strings.Builder, prefix string, values []string, today string) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		slug := utils.MakeSlug(v)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		b.WriteString(`
    <url>
        <loc>` + escapeXML(g.assets.SiteURL()+prefix+slug) + `</loc>
        <lastmod>` + today + `</lastmod>
        <changefreq>weekly</changefreq>
        <priority>0.9</priority>
    </url>`)
	}
}

func capTags(tags []string) []string {
	if len(tags) > maxSitemapTags {
		return tags[:maxSitemapTags]
	}
	return tags
}
