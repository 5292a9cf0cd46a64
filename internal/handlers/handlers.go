package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"vitalpath/admin/internal/cache"
	"vitalpath/admin/internal/config"
	"vitalpath/admin/internal/middleware"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
	"vitalpath/admin/internal/service"
	"vitalpath/admin/internal/storage"
)

// adminDirectory is what the user-management handlers need from the admin
// table; the pgx repository satisfies it, tests use fakes.
type adminDirectory interface {
	middleware.AdminReader
	List(ctx context.Context) ([]models.Admin, error)
	Create(ctx context.Context, admin models.Admin) error
	UpdateProfile(ctx context.Context, id string, firstName, lastName string, role models.Role, isActive bool) error
	Delete(ctx context.Context, id string) error
	FindByEmail(ctx context.Context, email string) (models.Admin, error)
}

type sessionRegistry interface {
	middleware.SessionReader
	RevokeAll(ctx context.Context, adminID string) error
}

type eventLog interface {
	ListRecent(ctx context.Context, limit, offset int) ([]models.SecurityEvent, error)
}

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	auth     *service.AuthService
	articles *service.ArticleService
	media    *service.MediaService
	admins   adminDirectory
	sessions sessionRegistry
	events   eventLog
	db       *pgxpool.Pool
	cache    *redis.Client
	store    *storage.ObjectStore
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, redisClient *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	adminRepo := repository.NewAdminRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attemptRepo := repository.NewLoginAttemptRepository(db)
	eventRepo := repository.NewSecurityEventRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	limiter := service.NewLoginLimiter(attemptRepo, eventRepo, cfg.Security.LockoutThreshold, cfg.Security.LockoutWindow, log)
	auth := service.NewAuthService(adminRepo, sessionRepo, limiter, eventRepo, cfg, log)
	contentCache := cache.NewContentCache(redisClient, cfg.Cache.ArticleTTL)
	articles := service.NewArticleService(articleRepo, contentCache, log)
	media := service.NewMediaService(mediaRepo, store, log)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		auth:     auth,
		articles: articles,
		media:    media,
		admins:   adminRepo,
		sessions: sessionRepo,
		events:   eventRepo,
		db:       db,
		cache:    redisClient,
		store:    store,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)

	authed := v1.Group("/auth")
	authed.Use(middleware.Auth(h.cfg, h.log, h.admins, h.sessions))
	authed.POST("/change-password", h.ChangePassword)
	authed.GET("/me", h.Me)

	// Public marketing content.
	v1.GET("/articles", h.ListPublishedArticles)
	v1.GET("/articles/:slug", h.GetPublishedArticle)

	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(h.cfg, h.log, h.admins, h.sessions))

	admin.GET("/articles", middleware.RequireRole(models.RoleViewer), h.AdminListArticles)
	admin.GET("/articles/:id", middleware.RequireRole(models.RoleViewer), h.AdminGetArticle)
	admin.POST("/articles", middleware.RequireRole(models.RoleEditor), h.AdminCreateArticle)
	admin.PUT("/articles/:id", middleware.RequireRole(models.RoleEditor), h.AdminUpdateArticle)
	admin.DELETE("/articles/:id", middleware.RequireRole(models.RoleAdmin), h.AdminDeleteArticle)

	admin.GET("/media", middleware.RequireRole(models.RoleViewer), h.ListMedia)
	admin.POST("/media", middleware.RequireRole(models.RoleEditor), h.UploadMedia)
	admin.DELETE("/media/:id", middleware.RequireRole(models.RoleAdmin), h.DeleteMedia)

	admin.GET("/security-events", middleware.RequireRole(models.RoleAdmin), h.ListSecurityEvents)

	users := admin.Group("/users")
	users.Use(middleware.RequireRole(models.RoleSuperAdmin))
	users.GET("", h.ListAdmins)
	users.POST("", h.CreateAdmin)
	users.PATCH("/:id", h.UpdateAdmin)
	users.DELETE("/:id", h.DeleteAdmin)
}

// internalError logs the full failure and sends only a generic message out.
func (h HandlerSet) internalError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
