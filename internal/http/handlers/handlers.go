package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-news-backend/internal/domain"
	"github.com/tbourn/go-news-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ArticleService defines the article operations consumed by HTTP handlers.
type ArticleService interface {
	// List returns article summaries filtered and ordered by spec.
	List(ctx context.Context, spec domain.FilterSpec) ([]domain.ArticleSummary, error)
	// Get returns a single article or services.ErrArticleNotFound.
	Get(ctx context.Context, id int64) (*domain.Article, error)
	// AdjustVotes atomically adds delta to an article's votes.
	AdjustVotes(ctx context.Context, id int64, delta *int) (*domain.Article, error)
	// Stats reports the article count and newest created_at.
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// CommentService defines the comment operations consumed by HTTP handlers.
type CommentService interface {
	ListByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error)
	Create(ctx context.Context, articleID int64, in services.NewComment, idemKey string) (*domain.Comment, bool, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogService lists the read-only topic and user collections.
type CatalogService interface {
	Topics(ctx context.Context) ([]domain.Topic, error)
	Users(ctx context.Context) ([]domain.User, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the news API. It depends on service
// interfaces only.
type Handlers struct {
	articles ArticleService
	comments CommentService
	catalog  CatalogService
}

// New constructs a Handlers instance bound to the given services.
func New(articles ArticleService, comments CommentService, catalog CatalogService) *Handlers {
	return &Handlers{articles: articles, comments: comments, catalog: catalog}
}
