package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-news-backend/internal/domain"
)

// commentInsert is the write shape for comments. Author and Body are pointers
// so a field missing from the request reaches the store as NULL and is
// rejected there rather than by a pre-check here.
type commentInsert struct {
	CommentID int64 `gorm:"column:comment_id;primaryKey;autoIncrement"`
	ArticleID int64
	Author    *string
	Body      *string
	Votes     int
	CreatedAt time.Time
}

func (commentInsert) TableName() string { return "comments" }

// ListComments returns the comments on an article, newest first. An article
// with no comments, or no such article, yields an empty slice.
func ListComments(ctx context.Context, db *gorm.DB, articleID int64) ([]domain.Comment, error) {
	out := make([]domain.Comment, 0)
	err := db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// GetComment fetches one comment by id, or ErrNotFound.
func GetComment(ctx context.Context, db *gorm.DB, id int64) (*domain.Comment, error) {
	var c domain.Comment
	if err := db.WithContext(ctx).Where("comment_id = ?", id).First(&c).Error; err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

// InsertComment adds a comment to an article. Neither the article nor the
// author is checked first: a dangling reference comes back as ErrForeignKey
// and a nil field as ErrMissingField.
func InsertComment(ctx context.Context, db *gorm.DB, articleID int64, username, body *string) (*domain.Comment, error) {
	row := commentInsert{
		ArticleID: articleID,
		Author:    username,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, classify(err)
	}
	return &domain.Comment{
		CommentID: row.CommentID,
		ArticleID: row.ArticleID,
		Author:    *row.Author,
		Votes:     row.Votes,
		CreatedAt: row.CreatedAt,
		Body:      *row.Body,
	}, nil
}

// DeleteComment removes a comment by id. If no rows are affected it returns
// ErrNotFound.
func DeleteComment(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).
		Where("comment_id = ?", id).
		Delete(&domain.Comment{})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
