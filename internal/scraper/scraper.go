// Package scraper fetches third-party video pages, extracts structured
// metadata from them, and inserts new catalog records.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/xrofed/sebokehtub/internal/cache"
	"github.com/xrofed/sebokehtub/internal/models"
	"github.com/xrofed/sebokehtub/pkg/utils"
)

// The three user-visible failure classes of a scrape, each reported
// distinctly: a bot-challenge interstitial, a page with no usable title,
// and a title already present in the catalog.
var (
	ErrChallenge = errors.New("blocked by bot challenge page")
	ErrNoTitle   = errors.New("page has no title")
	ErrDuplicate = errors.New("title already in catalog")
)

// challengeTitle marks Cloudflare interstitials; inserting one of those
// pages would poison the catalog with garbage metadata.
const challengeTitle = "Just a moment..."

// Store is the catalog surface the scraper writes through.
type Store interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Insert(ctx context.Context, v *models.Video) error
}

// Uploader persists a remote asset and returns its public URL.
type Uploader interface {
	UploadFromURL(ctx context.Context, srcURL, name string) (string, error)
}

// Service scrapes pages and creates records. All outbound I/O runs
// under the configured timeout; there are no retries.
type Service struct {
	http      *http.Client
	store     Store
	uploader  Uploader // nil disables thumbnail persistence
	pageCache *cache.Cache
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService creates a scraper service.
func NewService(store Store, uploader Uploader, pageCache *cache.Cache, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		http:      &http.Client{Timeout: timeout},
		store:     store,
		uploader:  uploader,
		pageCache: pageCache,
		timeout:   timeout,
		logger:    logger,
	}
}

// Scrape fetches url, builds a record from its metadata, and inserts it.
// On success it evicts the homepage and main-feed cache entries so the
// new record is visible without waiting out the TTL.
func (s *Service) Scrape(ctx context.Context, url string) (*models.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	video, err := extract(doc)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.ExistsByTitle(ctx, video.Title)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, shorten(video.Title, 20))
	}

	if s.uploader != nil && video.Thumbnail != "" {
		stored, err := s.uploader.UploadFromURL(ctx, video.Thumbnail, video.Slug)
		if err != nil {
			// Keep the source URL; the record is still usable.
			s.logger.Warn("thumbnail upload failed", zap.String("slug", video.Slug), zap.Error(err))
		} else {
			video.Thumbnail = stored
		}
	}

	now := time.Now()
	video.UploadDate = &now
	if err := s.store.Insert(ctx, video); err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	if s.pageCache != nil {
		s.pageCache.Delete("/", "/rss")
	}
	s.logger.Info("video scraped", zap.String("slug", video.Slug), zap.Int64("id", video.ID))
	return video, nil
}

func (s *Service) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Sec-Ch-Ua", `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`)
	req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
	req.Header.Set("Sec-Ch-Ua-Platform", `"Windows"`)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// extract builds an unsaved record from page metadata. Pure over the
// document, which keeps it testable without a network.
func extract(doc *goquery.Document) (*models.Video, error) {
	pageTitle := doc.Find("title").First().Text()
	if strings.Contains(pageTitle, challengeTitle) {
		return nil, ErrChallenge
	}

	title := metaContent(doc, "name")
	if title == "" {
		title = pageTitle
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNoTitle
	}

	rawDuration := metaContent(doc, "duration")
	if rawDuration == "" {
		rawDuration = "PT0S"
	}
	durationSec := utils.ParseISODuration(rawDuration)

	return &models.Video{
		Title:       title,
		Slug:        utils.MakeSlug(title),
		Description: metaContent(doc, "description"),
		EmbedURL:    metaContent(doc, "embedURL"),
		Thumbnail:   metaContent(doc, "thumbnailUrl"),
		Duration:    utils.FormatDuration(durationSec),
		DurationSec: durationSec,
		Tags:        anchorTexts(doc, `a[href*="/tag/"]`),
		Categories:  anchorTexts(doc, `a[href*="/category/"]`),
	}, nil
}

func metaContent(doc *goquery.Document, itemprop string) string {
	v, _ := doc.Find(`meta[itemprop="` + itemprop + `"]`).First().Attr("content")
	return v
}

func anchorTexts(doc *goquery.Document, selector string) []string {
	out := []string{}
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Pull the cut back to a rune boundary so a multi-byte title never
	// yields a broken trailing byte in the message.
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n] + "..."
}
