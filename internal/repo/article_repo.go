// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for articles.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only
// persistence and query composition.
//
// Error semantics:
//   - A missing article is reported as ErrNotFound.
//   - Constraint violations are wrapped in ErrInvalidInput, ErrMissingField
//     or ErrForeignKey (see classify); anything else is propagated raw.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-news-backend/internal/domain"
)

// sortColumns is the only route from a SortKey to query text. comment_count
// is the aggregate alias from the select list, not a stored column.
var sortColumns = map[domain.SortKey]clause.Column{
	domain.SortByCreatedAt:    {Table: "articles", Name: "created_at"},
	domain.SortByVotes:        {Table: "articles", Name: "votes"},
	domain.SortByAuthor:       {Table: "articles", Name: "author"},
	domain.SortByTitle:        {Table: "articles", Name: "title"},
	domain.SortByCommentCount: {Name: "comment_count"},
}

const summaryColumns = "articles.author, articles.title, articles.article_id, articles.topic, " +
	"articles.created_at, articles.votes, COUNT(comments.comment_id) AS comment_count"

// orderBy resolves a validated sort to a trusted ORDER BY expression.
func orderBy(spec domain.FilterSpec) (clause.OrderByColumn, error) {
	col, ok := sortColumns[spec.SortBy]
	if !ok {
		return clause.OrderByColumn{}, domain.ErrInvalidQueryParameter
	}
	switch spec.Order {
	case domain.Descending:
		return clause.OrderByColumn{Column: col, Desc: true}, nil
	case domain.Ascending:
		return clause.OrderByColumn{Column: col}, nil
	}
	return clause.OrderByColumn{}, domain.ErrInvalidQueryParameter
}

// ListArticles returns article summaries with their comment counts, filtered
// by spec.Topic (bound as a parameter) and ordered by spec's sort key. An
// unmatched topic yields an empty slice.
func ListArticles(ctx context.Context, db *gorm.DB, spec domain.FilterSpec) ([]domain.ArticleSummary, error) {
	order, err := orderBy(spec)
	if err != nil {
		return nil, err
	}

	q := db.WithContext(ctx).
		Table("articles").
		Select(summaryColumns).
		Joins("LEFT JOIN comments ON comments.article_id = articles.article_id").
		Group("articles.article_id")
	if spec.Topic != nil {
		q = q.Where("articles.topic = ?", *spec.Topic)
	}

	out := make([]domain.ArticleSummary, 0)
	if err := q.Order(order).Scan(&out).Error; err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// GetArticle fetches one article by id, or ErrNotFound.
func GetArticle(ctx context.Context, db *gorm.DB, id int64) (*domain.Article, error) {
	var a domain.Article
	err := db.WithContext(ctx).
		Where("article_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, classify(err)
	}
	return &a, nil
}

// AdjustArticleVotes adds delta to the article's votes in a single UPDATE and
// returns the updated row. The arithmetic happens in the store, so concurrent
// adjustments never lose an update. A nil delta binds NULL, which the NOT NULL
// constraint on votes rejects as ErrMissingField. A missing article yields
// ErrNotFound.
func AdjustArticleVotes(ctx context.Context, db *gorm.DB, id int64, delta *int) (*domain.Article, error) {
	var out domain.Article
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Article{}).
			Where("article_id = ?", id).
			UpdateColumn("votes", gorm.Expr("votes + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("article_id = ?", id).First(&out).Error
	})
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}
