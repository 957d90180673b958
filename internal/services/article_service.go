// Package services – ArticleService
//
// This file implements ArticleService: filtered listing, single lookup and
// vote adjustment. Filtering and sorting arrive already validated as a
// domain.FilterSpec; the service translates store not-found results into
// ErrArticleNotFound and passes every other failure through untouched so the
// HTTP layer can classify it.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-news-backend/internal/domain"
	"github.com/tbourn/go-news-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ArticleRepo defines the repository contract required by ArticleService.
type ArticleRepo interface {
	// ListArticles returns summaries matching spec, in spec's order.
	ListArticles(ctx context.Context, db *gorm.DB, spec domain.FilterSpec) ([]domain.ArticleSummary, error)

	// GetArticle fetches one article or returns repo.ErrNotFound.
	GetArticle(ctx context.Context, db *gorm.DB, id int64) (*domain.Article, error)

	// AdjustArticleVotes atomically adds delta to the article's votes.
	AdjustArticleVotes(ctx context.Context, db *gorm.DB, id int64, delta *int) (*domain.Article, error)

	// ArticleStats reports row count and newest created_at.
	ArticleStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error)
}

// ArticleService provides article reads and vote adjustment.
type ArticleService struct {
	DB   *gorm.DB
	Repo ArticleRepo
}

// NewArticleService constructs an ArticleService.
func NewArticleService(db *gorm.DB, r ArticleRepo) *ArticleService {
	return &ArticleService{DB: db, Repo: r}
}

// List returns the article summaries selected by spec. A topic with no
// articles yields an empty slice.
func (s *ArticleService) List(ctx context.Context, spec domain.FilterSpec) ([]domain.ArticleSummary, error) {
	attrs := []attribute.KeyValue{
		attribute.String("sort_by", spec.SortBy.String()),
		attribute.String("order", spec.Order.String()),
	}
	if spec.Topic != nil {
		attrs = append(attrs, attribute.String("topic", *spec.Topic))
	}
	ctx, span := otel.Tracer("services/ArticleService").Start(ctx, "List", trace.WithAttributes(attrs...))
	defer span.End()

	return s.Repo.ListArticles(ctx, s.DB, spec)
}

// Get returns a single article or ErrArticleNotFound.
func (s *ArticleService) Get(ctx context.Context, id int64) (*domain.Article, error) {
	ctx, span := otel.Tracer("services/ArticleService").Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("article.id", id)),
	)
	defer span.End()

	a, err := s.Repo.GetArticle(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrArticleNotFound
	}
	return a, err
}

// AdjustVotes adds delta to the article's vote count and returns the updated
// article. A nil delta is forwarded so the store reports the missing value.
func (s *ArticleService) AdjustVotes(ctx context.Context, id int64, delta *int) (*domain.Article, error) {
	ctx, span := otel.Tracer("services/ArticleService").Start(ctx, "AdjustVotes",
		trace.WithAttributes(
			attribute.Int64("article.id", id),
			attribute.Bool("delta.present", delta != nil),
		),
	)
	defer span.End()

	a, err := s.Repo.AdjustArticleVotes(ctx, s.DB, id, delta)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrArticleNotFound
	}
	return a, err
}

// Stats reports how many articles exist and when the newest was written.
func (s *ArticleService) Stats(ctx context.Context) (int64, *time.Time, error) {
	ctx, span := otel.Tracer("services/ArticleService").Start(ctx, "Stats")
	defer span.End()
	return s.Repo.ArticleStats(ctx, s.DB)
}
