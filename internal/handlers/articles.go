package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitalpath/admin/internal/middleware"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
	"vitalpath/admin/internal/service"
)

type articleResponse struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Excerpt     string  `json:"excerpt"`
	Body        string  `json:"body,omitempty"`
	AuthorID    string  `json:"authorId"`
	Published   bool    `json:"published"`
	PublishedAt *string `json:"publishedAt,omitempty"`
}

func toArticleResponse(article models.Article, includeBody bool) articleResponse {
	resp := articleResponse{
		ID:          article.ID,
		Slug:        article.Slug,
		Title:       article.Title,
		Excerpt:     article.Excerpt,
		AuthorID:    article.AuthorID,
		Published:   article.Published,
		PublishedAt: formatTime(article.PublishedAt),
	}
	if includeBody {
		resp.Body = article.Body
	}
	return resp
}

func (h HandlerSet) ListPublishedArticles(c *gin.Context) {
	limit, offset := pagination(c)

	articles, err := h.articles.ListPublished(c.Request.Context(), limit, offset)
	if err != nil {
		h.internalError(c, err, "list published articles failed")
		return
	}

	items := make([]articleResponse, 0, len(articles))
	for _, article := range articles {
		items = append(items, toArticleResponse(article, false))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) GetPublishedArticle(c *gin.Context) {
	article, err := h.articles.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.internalError(c, err, "get published article failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": toArticleResponse(article, true)})
}

func (h HandlerSet) AdminListArticles(c *gin.Context) {
	limit, offset := pagination(c)

	articles, err := h.articles.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		h.internalError(c, err, "list articles failed")
		return
	}

	items := make([]articleResponse, 0, len(articles))
	for _, article := range articles {
		items = append(items, toArticleResponse(article, false))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) AdminGetArticle(c *gin.Context) {
	article, err := h.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.internalError(c, err, "get article failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": toArticleResponse(article, true)})
}

type articleRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Excerpt   string `json:"excerpt"`
	Body      string `json:"body" binding:"required"`
	Published bool   `json:"published"`
}

func (h HandlerSet) AdminCreateArticle(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := h.articles.Create(c.Request.Context(), admin.ID, service.ArticleInput{
		Slug:      req.Slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		h.articleWriteError(c, err, "create article failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"article": toArticleResponse(article, true)})
}

func (h HandlerSet) AdminUpdateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := h.articles.Update(c.Request.Context(), c.Param("id"), service.ArticleInput{
		Slug:      req.Slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		h.articleWriteError(c, err, "update article failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": toArticleResponse(article, true)})
}

func (h HandlerSet) AdminDeleteArticle(c *gin.Context) {
	if err := h.articles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.internalError(c, err, "delete article failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) articleWriteError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, repository.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
	case errors.Is(err, service.ErrInvalidSlug), errors.Is(err, repository.ErrSlugTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.internalError(c, err, msg)
	}
}
