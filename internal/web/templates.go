// Package web holds the embedded HTML template set for the
// server-rendered pages.
package web

import (
	"embed"
	"html/template"

	"github.com/xrofed/sebokehtub/internal/assets"
	"github.com/xrofed/sebokehtub/pkg/utils"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Load parses the embedded templates with the shared helper functions
// bound. The same resolver used by feeds backs thumbnail URLs here, so
// pages and XML can never disagree about asset locations.
func Load(resolver *assets.Resolver) (*template.Template, error) {
	funcs := template.FuncMap{
		"formatDuration": utils.FormatDuration,
		"thumbnail":      resolver.Thumbnail,
		"videoURL":       resolver.VideoURL,
		"slug":           utils.MakeSlug,
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}
