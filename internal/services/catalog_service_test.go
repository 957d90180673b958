package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-news-backend/internal/domain"
)

type fakeCatalogRepo struct {
	topics []domain.Topic
	users  []domain.User
	err    error
}

func (r *fakeCatalogRepo) ListTopics(ctx context.Context, db *gorm.DB) ([]domain.Topic, error) {
	return r.topics, r.err
}

func (r *fakeCatalogRepo) ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	return r.users, r.err
}

func TestCatalogService(t *testing.T) {
	r := &fakeCatalogRepo{
		topics: []domain.Topic{{Slug: "cats", Description: "Not dogs"}},
		users:  []domain.User{{Username: "lurker"}},
	}
	s := NewCatalogService(nil, r)

	topics, err := s.Topics(context.Background())
	if err != nil || len(topics) != 1 || topics[0].Slug != "cats" {
		t.Fatalf("Topics: %+v %v", topics, err)
	}
	users, err := s.Users(context.Background())
	if err != nil || len(users) != 1 {
		t.Fatalf("Users: %+v %v", users, err)
	}

	r.err = errors.New("db down")
	if _, err := s.Topics(context.Background()); err == nil {
		t.Fatalf("expected error passthrough")
	}
}
