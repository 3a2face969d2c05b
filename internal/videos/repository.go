package videos

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xrofed/sebokehtub/internal/models"
)

// ErrSlugTaken is returned when an insert collides with an existing slug.
// Slug uniqueness is enforced here, not in the slug generator.
var ErrSlugTaken = errors.New("slug already exists")

// ErrNotFound is returned when a record lookup matches nothing.
var ErrNotFound = errors.New("video not found")

const videoColumns = `id, title, slug, description, embed_url, thumbnail,
	duration, duration_sec, views, upload_date, categories, tags,
	google_indexed, created_at, updated_at`

// Repository is the catalog store. It exclusively owns video
// persistence; everything else reads through it.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a video repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var v models.Video
	err := row.Scan(&v.ID, &v.Title, &v.Slug, &v.Description, &v.EmbedURL,
		&v.Thumbnail, &v.Duration, &v.DurationSec, &v.Views, &v.UploadDate,
		&v.Categories, &v.Tags, &v.Indexed, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *Repository) queryVideos(ctx context.Context, sql string, args ...interface{}) ([]models.Video, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Latest returns the newest records, newest first.
func (r *Repository) Latest(ctx context.Context, limit int) ([]models.Video, error) {
	return r.queryVideos(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC LIMIT $1`, limit)
}

// Page returns one listing page (newest first) plus the total count.
func (r *Repository) Page(ctx context.Context, page, limit int) ([]models.Video, int64, error) {
	if page < 1 {
		page = 1
	}
	list, err := r.queryVideos(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		(page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.CountAll(ctx)
	return list, total, err
}

// ListForSitemap returns a window of records for sitemap pagination.
func (r *Repository) ListForSitemap(ctx context.Context, skip, limit int) ([]models.Video, error) {
	return r.queryVideos(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		skip, limit)
}

// CountAll returns the total number of records.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n)
	return n, err
}

// GetBySlug returns one record, or ErrNotFound.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Video, error) {
	v, err := scanVideo(r.pool.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// incrementViewsSQL bumps the counter inside the database. The counter
// must never round-trip through Go, or concurrent detail-page hits
// would lose increments.
const incrementViewsSQL = `UPDATE videos SET views = views + 1 WHERE slug = $1`

// IncrementViews adds one view to the record with the given slug.
func (r *Repository) IncrementViews(ctx context.Context, slug string) error {
	_, err := r.pool.Exec(ctx, incrementViewsSQL, slug)
	return err
}

// Random returns up to n records in random order (related videos, 404 fill).
func (r *Repository) Random(ctx context.Context, n int) ([]models.Video, error) {
	return r.queryVideos(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY random() LIMIT $1`, n)
}

// Search matches q as a case-insensitive substring of the title or any
// tag, newest first.
func (r *Repository) Search(ctx context.Context, q string, limit int) ([]models.Video, error) {
	return r.queryVideos(ctx,
		`SELECT `+videoColumns+` FROM videos
		 WHERE title ILIKE '%' || $1 || '%'
		    OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE '%' || $1 || '%')
		 ORDER BY created_at DESC LIMIT $2`, q, limit)
}

// ByCategory returns a page of records whose category set contains name
// as a case-insensitive substring, plus the total matching count.
func (r *Repository) ByCategory(ctx context.Context, name string, page, limit int) ([]models.Video, error) {
	if page < 1 {
		page = 1
	}
	return r.queryVideos(ctx,
		`SELECT `+videoColumns+` FROM videos
		 WHERE EXISTS (SELECT 1 FROM unnest(categories) AS c WHERE c ILIKE '%' || $1 || '%')
		 ORDER BY created_at DESC OFFSET $2 LIMIT $3`, name, (page-1)*limit, limit)
}

// CountByCategory counts records matching a category name.
func (r *Repository) CountByCategory(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM videos
		 WHERE EXISTS (SELECT 1 FROM unnest(categories) AS c WHERE c ILIKE '%' || $1 || '%')`,
		name).Scan(&n)
	return n, err
}

// ByTag returns a page of records whose tag set contains name as a
// case-insensitive substring.
func (r *Repository) ByTag(ctx context.Context, name string, page, limit int) ([]models.Video, error) {
	if page < 1 {
		page = 1
	}
	return r.queryVideos(ctx,
		`SELECT `+videoColumns+` FROM videos
		 WHERE EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE '%' || $1 || '%')
		 ORDER BY created_at DESC OFFSET $2 LIMIT $3`, name, (page-1)*limit, limit)
}

// CountByTag counts records matching a tag name.
func (r *Repository) CountByTag(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM videos
		 WHERE EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE '%' || $1 || '%')`,
		name).Scan(&n)
	return n, err
}

// DistinctCategories returns every distinct category value in the catalog.
func (r *Repository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinctElements(ctx, `SELECT DISTINCT c FROM videos, unnest(categories) AS c ORDER BY c`)
}

// DistinctTags returns every distinct tag value in the catalog.
func (r *Repository) DistinctTags(ctx context.Context) ([]string, error) {
	return r.distinctElements(ctx, `SELECT DISTINCT t FROM videos, unnest(tags) AS t ORDER BY t`)
}

func (r *Repository) distinctElements(ctx context.Context, sql string) ([]string, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out, rows.Err()
}

// ExistsByTitle reports whether a record with the exact title exists.
// The match is deliberately exact: case or whitespace variants insert as
// separate records, matching the catalog's historical contents.
func (r *Repository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM videos WHERE title = $1)`, title).Scan(&exists)
	return exists, err
}

// Insert writes a new record. A slug collision surfaces as ErrSlugTaken.
// There is no delete path; duplicates are rejected upstream instead.
func (r *Repository) Insert(ctx context.Context, v *models.Video) error {
	const q = `INSERT INTO videos
		(title, slug, description, embed_url, thumbnail, duration, duration_sec, upload_date, categories, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, views, created_at, updated_at`
	if v.Categories == nil {
		v.Categories = []string{}
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	err := r.pool.QueryRow(ctx, q,
		v.Title, v.Slug, v.Description, v.EmbedURL, v.Thumbnail,
		v.Duration, v.DurationSec, v.UploadDate, v.Categories, v.Tags).
		Scan(&v.ID, &v.Views, &v.CreatedAt, &v.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrSlugTaken
	}
	return err
}
