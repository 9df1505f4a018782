package blog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yaswanth-m/simply-backend/internal/telemetry/tracing"
)

var _ postsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, post *Post) error {
	if post.Title == "" || post.ContentMd == "" {
		return ErrPostTitleOrContentEmpty
	}

	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if post.PublishedAt.IsZero() {
		post.PublishedAt = time.Now()
	}
	// nil would be encoded as SQL NULL, the tags column is NOT NULL
	if post.Tags == nil {
		post.Tags = []string{}
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO post (title, slug, content_md, cover_url, tags, published_at)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		post.Title, post.Slug, post.ContentMd, post.CoverURL, post.Tags, post.PublishedAt,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	if rows.Next() {
		if err := rows.Scan(&post.ID); err != nil {
			return err
		}
	}

	return nil
}

// Update replaces the stored post found by slug. The path slug wins:
// whatever slug the new post carries is overridden. published_at is
// kept unless the new post provides one.
func (r *Repo) Update(ctx context.Context, slug string, post *Post) error {
	if post.Title == "" || post.ContentMd == "" {
		return ErrPostTitleOrContentEmpty
	}

	var publishedAt *time.Time
	if !post.PublishedAt.IsZero() {
		publishedAt = &post.PublishedAt
	}
	// nil would be encoded as SQL NULL, the tags column is NOT NULL
	if post.Tags == nil {
		post.Tags = []string{}
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE post SET
			title = $1, content_md = $2, cover_url = $3, tags = $4,
			published_at = COALESCE($5, published_at)
		WHERE slug = $6`,
		post.Title, post.ContentMd, post.CoverURL, post.Tags, publishedAt, slug,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	post.Slug = slug
	return nil
}

// Delete is idempotent: deleting a slug that does not exist is not an error.
func (r *Repo) Delete(ctx context.Context, slug string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM post WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Tracef("post %q not deleted (not found)", slug)
	}
	return nil
}

func (r *Repo) All(ctx context.Context) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, slug, content_md, cover_url, tags, published_at
			FROM post ORDER BY published_at DESC, id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2posts(rows)
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.GetBySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, slug, content_md, cover_url, tags, published_at
			FROM post WHERE slug = $1
			ORDER BY published_at DESC, id DESC LIMIT 1;`,
		slug,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrPostNotFound
	}

	return scanPost(rows)
}

func scanPost(rows pgx.Rows) (*Post, error) {
	var post Post
	if err := rows.Scan(
		&post.ID, &post.Title, &post.Slug, &post.ContentMd,
		&post.CoverURL, &post.Tags, &post.PublishedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func rows2posts(rows pgx.Rows) ([]*Post, error) {
	var posts []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}
