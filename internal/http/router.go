// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-news-backend/docs" // swagger spec registration
	"github.com/tbourn/go-news-backend/internal/config"
	"github.com/tbourn/go-news-backend/internal/domain"
	"github.com/tbourn/go-news-backend/internal/http/handlers"
	"github.com/tbourn/go-news-backend/internal/http/middleware"
	"github.com/tbourn/go-news-backend/internal/repo"
	"github.com/tbourn/go-news-backend/internal/services"
)

// maxBodyBytes caps request bodies for every route.
const maxBodyBytes = 1 << 20

// articleRepoShim adapts the repository free functions to services.ArticleRepo.
type articleRepoShim struct{}

func (articleRepoShim) ListArticles(ctx context.Context, db *gorm.DB, spec domain.FilterSpec) ([]domain.ArticleSummary, error) {
	return repo.ListArticles(ctx, db, spec)
}

func (articleRepoShim) GetArticle(ctx context.Context, db *gorm.DB, id int64) (*domain.Article, error) {
	return repo.GetArticle(ctx, db, id)
}

func (articleRepoShim) AdjustArticleVotes(ctx context.Context, db *gorm.DB, id int64, delta *int) (*domain.Article, error) {
	return repo.AdjustArticleVotes(ctx, db, id, delta)
}

func (articleRepoShim) ArticleStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	return repo.ArticleStats(ctx, db)
}

// commentRepoShim adapts the repository free functions to services.CommentRepo.
type commentRepoShim struct{}

func (commentRepoShim) ListComments(ctx context.Context, db *gorm.DB, articleID int64) ([]domain.Comment, error) {
	return repo.ListComments(ctx, db, articleID)
}

func (commentRepoShim) GetComment(ctx context.Context, db *gorm.DB, id int64) (*domain.Comment, error) {
	return repo.GetComment(ctx, db, id)
}

func (commentRepoShim) InsertComment(ctx context.Context, db *gorm.DB, articleID int64, username, body *string) (*domain.Comment, error) {
	return repo.InsertComment(ctx, db, articleID, username, body)
}

func (commentRepoShim) DeleteComment(ctx context.Context, db *gorm.DB, id int64) error {
	return repo.DeleteComment(ctx, db, id)
}

func (commentRepoShim) GetIdempotency(ctx context.Context, db *gorm.DB, articleID int64, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, db, articleID, key, now)
}

func (commentRepoShim) CreateIdempotency(ctx context.Context, db *gorm.DB, articleID int64, key string, commentID int64, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return repo.CreateIdempotency(ctx, db, articleID, key, commentID, status, ttl)
}

// catalogRepoShim adapts the repository free functions to services.CatalogRepo.
type catalogRepoShim struct{}

func (catalogRepoShim) ListTopics(ctx context.Context, db *gorm.DB) ([]domain.Topic, error) {
	return repo.ListTopics(ctx, db)
}

func (catalogRepoShim) ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	return repo.ListUsers(ctx, db)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on first replay)
//  8. Rate limiter (per IP, bypass on first replay)
//  9. CORS, security headers and gzip
//
// A method that does not match any route on a known path is answered like an
// unknown path: 404 through the error classifier chain.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = false
	r.RedirectTrailingSlash = false

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.Logger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, articleID int64, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, articleID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per IP (RATE_RPS=0 disables)
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 9) CORS posture (allow all if no origins configured)
	r.Use(corsMiddleware(cfg.CORS))

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallback for unmatched paths and methods
	r.NoRoute(func(c *gin.Context) {
		handlers.RespondError(c, handlers.ErrRouteNotFound)
	})

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	articleSvc := services.NewArticleService(db, articleRepoShim{})
	commentSvc := services.NewCommentService(db, commentRepoShim{})
	if cfg.IdempotencyTTL > 0 {
		commentSvc.IdempotencyTTL = cfg.IdempotencyTTL
	}
	catalogSvc := services.NewCatalogService(db, catalogRepoShim{})
	h := handlers.New(articleSvc, commentSvc, catalogSvc)

	// Liveness/health and the endpoint directory
	r.GET("/health", h.Health)
	r.GET("/", h.Endpoints)
	if p := cfg.APIBasePath; p != "" && p != "/" {
		r.GET(p, h.Endpoints)
	}

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/endpoints", h.Endpoints)

		// Catalog
		api.GET("/topics", h.GetTopics)
		api.GET("/users", h.GetUsers)

		// Articles
		api.GET("/articles", h.ListArticles)
		api.GET("/articles/:article_id", h.GetArticle)
		api.PATCH("/articles/:article_id", h.PatchArticle)

		// Comments
		api.GET("/articles/:article_id/comments", h.ListComments)
		api.POST("/articles/:article_id/comments", h.PostComment)
		api.DELETE("/comments/:comment_id", h.DeleteComment)
	}
}

// Handler wraps the engine so that a trailing slash is ignored:
// /api/articles/ is served as /api/articles.
func Handler(r *gin.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			req.URL.Path = strings.TrimRight(p, "/")
			if req.URL.Path == "" {
				req.URL.Path = "/"
			}
			req.URL.RawPath = ""
		}
		r.ServeHTTP(w, req)
	})
}

// corsMiddleware allows every origin when none are configured; otherwise only
// the listed origins, echoed back in Access-Control-Allow-Origin.
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", middleware.HeaderIdempotencyReplayed, "Content-Length"},
		AllowCredentials: false, // must remain false with AllowAllOrigins
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		base.AllowAllOrigins = true
		corsMw := cors.New(base)
		// ACAO: * even for requests without an Origin header.
		return func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			corsMw(c)
		}
	}
	base.AllowOrigins = cfg.AllowedOrigins
	return cors.New(base)
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
