package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// legacyPHPRoutes maps retired .php paths to their replacements.
var legacyPHPRoutes = map[string]string{
	"/rss.php":         "/rss",
	"/sitemap.php":     "/sitemap.xml",
	"/rss-sitemap.php": "/sitemap-video.xml",
}

// LegacyRedirects permanently redirects paths from earlier generations
// of the site: old .php endpoints and the local /uploads/ prefix, whose
// assets now live on the object-storage host. Runs in the NoRoute chain
// and passes through anything it does not recognize.
func LegacyRedirects(assetBaseURL string) gin.HandlerFunc {
	assetBaseURL = strings.TrimRight(assetBaseURL, "/")
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if assetBaseURL != "" && strings.HasPrefix(path, "/uploads/") {
			c.Redirect(http.StatusMovedPermanently, assetBaseURL+strings.TrimPrefix(path, "/uploads"))
			c.Abort()
			return
		}

		if target, ok := legacyPHPRoutes[path]; ok {
			c.Redirect(http.StatusMovedPermanently, target)
			c.Abort()
			return
		}

		if path == "/index.php" {
			target := "/"
			if page := c.Query("page"); page != "" {
				target += "?page=" + page
			}
			c.Redirect(http.StatusMovedPermanently, target)
			c.Abort()
			return
		}

		if path == "/rss-by-category.php" {
			slug := c.Query("slug")
			if slug == "" {
				slug = c.Query("category")
			}
			if slug != "" {
				c.Redirect(http.StatusMovedPermanently, "/rss/category/"+strings.ReplaceAll(slug, " ", "-"))
			} else {
				c.Redirect(http.StatusMovedPermanently, "/rss")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
