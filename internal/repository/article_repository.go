package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitalpath/admin/internal/models"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrSlugTaken       = errors.New("slug already in use")
)

type ArticleRepository struct {
	pool *pgxpool.Pool
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

const articleColumns = `id, slug, title, excerpt, body, author_id, published, published_at, created_at, updated_at, deleted_at`

func scanArticle(row pgx.Row) (models.Article, error) {
	var article models.Article
	err := row.Scan(
		&article.ID,
		&article.Slug,
		&article.Title,
		&article.Excerpt,
		&article.Body,
		&article.AuthorID,
		&article.Published,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Article{}, ErrArticleNotFound
		}
		return models.Article{}, err
	}
	return article, nil
}

func (r *ArticleRepository) Create(ctx context.Context, article models.Article) error {
	const query = `
		INSERT INTO articles (
			id, slug, title, excerpt, body, author_id, published, published_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		article.ID,
		article.Slug,
		article.Title,
		article.Excerpt,
		article.Body,
		article.AuthorID,
		article.Published,
		article.PublishedAt,
	)
	return err
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (models.Article, error) {
	const query = `SELECT ` + articleColumns + ` FROM articles WHERE id = $1 AND deleted_at IS NULL`
	return scanArticle(r.pool.QueryRow(ctx, query, id))
}

// GetPublishedBySlug serves the public site; drafts and soft-deleted rows
// are invisible here.
func (r *ArticleRepository) GetPublishedBySlug(ctx context.Context, slug string) (models.Article, error) {
	const query = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE slug = $1 AND published AND deleted_at IS NULL
	`
	return scanArticle(r.pool.QueryRow(ctx, query, slug))
}

func (r *ArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1 AND deleted_at IS NULL)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ArticleRepository) ListPublished(ctx context.Context, limit, offset int) ([]models.Article, error) {
	const query = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE published AND deleted_at IS NULL
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

func (r *ArticleRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Article, error) {
	const query = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE deleted_at IS NULL
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

func (r *ArticleRepository) list(ctx context.Context, query string, limit, offset int) ([]models.Article, error) {
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (r *ArticleRepository) Update(ctx context.Context, article models.Article) error {
	const query = `
		UPDATE articles
		SET slug = $2, title = $3, excerpt = $4, body = $5, published = $6, published_at = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query,
		article.ID,
		article.Slug,
		article.Title,
		article.Excerpt,
		article.Body,
		article.Published,
		article.PublishedAt,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// SoftDelete hides an article from every query without destroying the row.
func (r *ArticleRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `
		UPDATE articles SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}
