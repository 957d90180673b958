// Package services – CommentService
//
// This file implements CommentService: listing an article's comments,
// creating a comment (optionally deduplicated by an Idempotency-Key) and
// deleting one. Creation performs no existence checks of its own; the store's
// foreign keys and NOT NULL constraints decide, and their errors are passed
// through for the HTTP layer to classify.
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-news-backend/internal/domain"
	"github.com/tbourn/go-news-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CommentRepo defines the repository contract required by CommentService.
type CommentRepo interface {
	ListComments(ctx context.Context, db *gorm.DB, articleID int64) ([]domain.Comment, error)
	GetComment(ctx context.Context, db *gorm.DB, id int64) (*domain.Comment, error)
	InsertComment(ctx context.Context, db *gorm.DB, articleID int64, username, body *string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, db *gorm.DB, id int64) error

	GetIdempotency(ctx context.Context, db *gorm.DB, articleID int64, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, db *gorm.DB, articleID int64, key string, commentID int64, status int, ttl time.Duration) (*domain.Idempotency, error)
}

// NewComment is the create request after JSON decoding. Missing keys stay nil.
type NewComment struct {
	Username *string
	Body     *string
}

// CommentService provides comment listing, creation and deletion.
type CommentService struct {
	DB   *gorm.DB
	Repo CommentRepo

	// IdempotencyTTL bounds how long an Idempotency-Key replays its comment.
	IdempotencyTTL time.Duration
}

// NewCommentService constructs a CommentService with a 24h idempotency window.
func NewCommentService(db *gorm.DB, r CommentRepo) *CommentService {
	return &CommentService{DB: db, Repo: r, IdempotencyTTL: 24 * time.Hour}
}

// ListByArticle returns the comments on an article, newest first. An empty
// result is reported as ErrCommentsNotFound.
func (s *CommentService) ListByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "ListByArticle",
		trace.WithAttributes(attribute.Int64("article.id", articleID)),
	)
	defer span.End()

	items, err := s.Repo.ListComments(ctx, s.DB, articleID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCommentsNotFound
	}
	return items, nil
}

// Create inserts a comment on an article. When idemKey is non-empty and a
// comment was already created for (articleID, idemKey) within the TTL, that
// comment is returned with replayed=true and nothing is inserted.
func (s *CommentService) Create(ctx context.Context, articleID int64, in NewComment, idemKey string) (c *domain.Comment, replayed bool, err error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.Int64("article.id", articleID),
			attribute.Bool("idempotent", idemKey != ""),
		),
	)
	defer span.End()

	idemKey = strings.TrimSpace(idemKey)
	if idemKey != "" {
		if rec, err := s.Repo.GetIdempotency(ctx, s.DB, articleID, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err := s.Repo.GetComment(ctx, s.DB, rec.CommentID); err == nil {
				span.SetAttributes(attribute.Bool("replayed", true))
				return prev, true, nil
			}
		}
	}

	body := in.Body
	if body != nil {
		b := norm.NFC.String(*body)
		body = &b
	}

	c, err = s.Repo.InsertComment(ctx, s.DB, articleID, in.Username, body)
	if err != nil {
		return nil, false, err
	}

	// Best effort: without the record a retry inserts a second comment.
	if idemKey != "" {
		if _, ierr := s.Repo.CreateIdempotency(ctx, s.DB, articleID, idemKey, c.CommentID, http.StatusCreated, s.ttl()); ierr != nil && !errors.Is(ierr, repo.ErrDuplicate) {
			log.Ctx(ctx).Warn().Err(ierr).Int64("article_id", articleID).Msg("idempotency record not stored")
		}
	}
	return c, false, nil
}

// Delete removes a comment or returns ErrCommentNotFound.
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.Int64("comment.id", id)),
	)
	defer span.End()

	err := s.Repo.DeleteComment(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCommentNotFound
	}
	return err
}

func (s *CommentService) ttl() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 24 * time.Hour
	}
	return s.IdempotencyTTL
}
