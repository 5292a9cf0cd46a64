package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vitalpath/admin/internal/cache"
	"vitalpath/admin/internal/ids"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
)

var (
	ErrInvalidSlug = errors.New("slug may only contain lowercase letters, digits and hyphens")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// cachedListSize is the first-page size stored in redis. Requests for a
// smaller page slice the cached entry; larger pages bypass the cache, so the
// entry's contents never depend on any caller's page size.
const cachedListSize = 50

type ArticleStore interface {
	Create(ctx context.Context, article models.Article) error
	GetByID(ctx context.Context, id string) (models.Article, error)
	GetPublishedBySlug(ctx context.Context, slug string) (models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListPublished(ctx context.Context, limit, offset int) ([]models.Article, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Article, error)
	Update(ctx context.Context, article models.Article) error
	SoftDelete(ctx context.Context, id string) error
}

type ContentCache interface {
	GetArticleList(ctx context.Context) ([]models.Article, error)
	SetArticleList(ctx context.Context, articles []models.Article) error
	GetArticle(ctx context.Context, slug string) (models.Article, error)
	SetArticle(ctx context.Context, article models.Article) error
	Invalidate(ctx context.Context, slugs ...string) error
}

// ArticleService sits between the handlers and the article table, keeping
// the public read cache coherent with admin writes.
type ArticleService struct {
	articles ArticleStore
	cache    ContentCache
	log      zerolog.Logger
}

func NewArticleService(articles ArticleStore, contentCache ContentCache, log zerolog.Logger) *ArticleService {
	return &ArticleService{
		articles: articles,
		cache:    contentCache,
		log:      log,
	}
}

// ListPublished serves the marketing blog. Cache failures fall back to the
// database; the request never fails because redis is down.
func (s *ArticleService) ListPublished(ctx context.Context, limit, offset int) ([]models.Article, error) {
	// Only the first page is cached; deeper pages are rare and cheap.
	if offset != 0 || limit > cachedListSize {
		return s.articles.ListPublished(ctx, limit, offset)
	}

	articles, err := s.cache.GetArticleList(ctx)
	if err == nil {
		return truncate(articles, limit), nil
	}
	if !cache.IsMiss(err) {
		s.log.Warn().Err(err).Msg("article list cache read failed")
	}

	// The cache always holds the full first page regardless of the page
	// size that filled it.
	articles, err = s.articles.ListPublished(ctx, cachedListSize, 0)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetArticleList(ctx, articles); err != nil {
		s.log.Warn().Err(err).Msg("article list cache write failed")
	}
	return truncate(articles, limit), nil
}

func truncate(articles []models.Article, limit int) []models.Article {
	if len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

func (s *ArticleService) GetPublished(ctx context.Context, slug string) (models.Article, error) {
	article, err := s.cache.GetArticle(ctx, slug)
	if err == nil {
		return article, nil
	}
	if !cache.IsMiss(err) {
		s.log.Warn().Err(err).Str("slug", slug).Msg("article cache read failed")
	}

	article, err = s.articles.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return models.Article{}, err
	}

	if err := s.cache.SetArticle(ctx, article); err != nil {
		s.log.Warn().Err(err).Str("slug", slug).Msg("article cache write failed")
	}
	return article, nil
}

func (s *ArticleService) ListAll(ctx context.Context, limit, offset int) ([]models.Article, error) {
	return s.articles.ListAll(ctx, limit, offset)
}

func (s *ArticleService) Get(ctx context.Context, id string) (models.Article, error) {
	return s.articles.GetByID(ctx, id)
}

type ArticleInput struct {
	Slug      string
	Title     string
	Excerpt   string
	Body      string
	Published bool
}

func (s *ArticleService) Create(ctx context.Context, authorID string, input ArticleInput) (models.Article, error) {
	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	if !slugPattern.MatchString(slug) {
		return models.Article{}, ErrInvalidSlug
	}

	taken, err := s.articles.SlugExists(ctx, slug)
	if err != nil {
		return models.Article{}, err
	}
	if taken {
		return models.Article{}, repository.ErrSlugTaken
	}

	article := models.Article{
		ID:        ids.New(),
		Slug:      slug,
		Title:     input.Title,
		Excerpt:   input.Excerpt,
		Body:      input.Body,
		AuthorID:  authorID,
		Published: input.Published,
	}
	if input.Published {
		now := time.Now().UTC()
		article.PublishedAt = &now
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return models.Article{}, fmt.Errorf("create article: %w", err)
	}

	s.invalidate(ctx, article.Slug)
	return article, nil
}

func (s *ArticleService) Update(ctx context.Context, id string, input ArticleInput) (models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return models.Article{}, err
	}

	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	if !slugPattern.MatchString(slug) {
		return models.Article{}, ErrInvalidSlug
	}
	if slug != article.Slug {
		taken, err := s.articles.SlugExists(ctx, slug)
		if err != nil {
			return models.Article{}, err
		}
		if taken {
			return models.Article{}, repository.ErrSlugTaken
		}
	}

	oldSlug := article.Slug
	article.Slug = slug
	article.Title = input.Title
	article.Excerpt = input.Excerpt
	article.Body = input.Body

	if input.Published && !article.Published {
		now := time.Now().UTC()
		article.PublishedAt = &now
	}
	article.Published = input.Published

	if err := s.articles.Update(ctx, article); err != nil {
		return models.Article{}, err
	}

	s.invalidate(ctx, oldSlug, article.Slug)
	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.articles.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, article.Slug)
	return nil
}

func (s *ArticleService) invalidate(ctx context.Context, slugs ...string) {
	if err := s.cache.Invalidate(ctx, slugs...); err != nil {
		s.log.Warn().Err(err).Msg("article cache invalidation failed")
	}
}
