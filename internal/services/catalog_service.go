// Package services – CatalogService
//
// CatalogService serves the read-only reference collections: topics and
// users. Neither supports filtering.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-news-backend/internal/domain"

	"go.opentelemetry.io/otel"
)

// CatalogRepo defines the repository contract required by CatalogService.
type CatalogRepo interface {
	ListTopics(ctx context.Context, db *gorm.DB) ([]domain.Topic, error)
	ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error)
}

// CatalogService lists topics and users.
type CatalogService struct {
	DB   *gorm.DB
	Repo CatalogRepo
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB, r CatalogRepo) *CatalogService {
	return &CatalogService{DB: db, Repo: r}
}

// Topics returns every topic.
func (s *CatalogService) Topics(ctx context.Context) ([]domain.Topic, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "Topics")
	defer span.End()
	return s.Repo.ListTopics(ctx, s.DB)
}

// Users returns every user.
func (s *CatalogService) Users(ctx context.Context) ([]domain.User, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "Users")
	defer span.End()
	return s.Repo.ListUsers(ctx, s.DB)
}
