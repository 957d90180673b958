package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-news-backend/internal/domain"
)

// ListTopics returns every topic ordered by slug.
func ListTopics(ctx context.Context, db *gorm.DB) ([]domain.Topic, error) {
	out := make([]domain.Topic, 0)
	if err := db.WithContext(ctx).Order("slug").Find(&out).Error; err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// ListUsers returns every user ordered by username.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	out := make([]domain.User, 0)
	if err := db.WithContext(ctx).Order("username").Find(&out).Error; err != nil {
		return nil, classify(err)
	}
	return out, nil
}
