package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vitalpath/admin/internal/models"
)

const (
	articleListKey   = "articles:published"
	articleKeyPrefix = "articles:slug:"
)

// ContentCache is a read-through cache for published marketing content.
// Misses and redis failures both fall back to the database; callers only log.
type ContentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewContentCache(client *redis.Client, ttl time.Duration) *ContentCache {
	return &ContentCache{client: client, ttl: ttl}
}

func (c *ContentCache) GetArticleList(ctx context.Context) ([]models.Article, error) {
	data, err := c.client.Get(ctx, articleListKey).Bytes()
	if err != nil {
		return nil, err
	}
	var articles []models.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("decode cached list: %w", err)
	}
	return articles, nil
}

func (c *ContentCache) SetArticleList(ctx context.Context, articles []models.Article) error {
	data, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encode list: %w", err)
	}
	return c.client.Set(ctx, articleListKey, data, c.ttl).Err()
}

func (c *ContentCache) GetArticle(ctx context.Context, slug string) (models.Article, error) {
	data, err := c.client.Get(ctx, articleKeyPrefix+slug).Bytes()
	if err != nil {
		return models.Article{}, err
	}
	var article models.Article
	if err := json.Unmarshal(data, &article); err != nil {
		return models.Article{}, fmt.Errorf("decode cached article: %w", err)
	}
	return article, nil
}

func (c *ContentCache) SetArticle(ctx context.Context, article models.Article) error {
	data, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("encode article: %w", err)
	}
	return c.client.Set(ctx, articleKeyPrefix+article.Slug, data, c.ttl).Err()
}

// Invalidate drops the published list and any cached detail entries. Called
// after every article write so public pages never serve stale content past
// one delete cycle.
func (c *ContentCache) Invalidate(ctx context.Context, slugs ...string) error {
	keys := make([]string, 0, len(slugs)+1)
	keys = append(keys, articleListKey)
	for _, slug := range slugs {
		keys = append(keys, articleKeyPrefix+slug)
	}
	return c.client.Del(ctx, keys...).Err()
}

// IsMiss reports whether err is a plain cache miss rather than a failure.
func IsMiss(err error) bool {
	return err == redis.Nil
}
