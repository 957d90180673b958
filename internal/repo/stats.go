package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-news-backend/internal/domain"
)

// ArticleStats reports how many articles exist and when the newest one was
// written. latest is nil for an empty table. The health probe uses it to show
// that the store is reachable and seeded.
func ArticleStats(ctx context.Context, db *gorm.DB) (count int64, latest *time.Time, err error) {
	tx := db.WithContext(ctx)
	if err = tx.Model(&domain.Article{}).Count(&count).Error; err != nil || count == 0 {
		return 0, nil, err
	}

	// Ordered read instead of MAX(): SQLite returns MAX(created_at) as TEXT.
	var newest domain.Article
	err = tx.Select("created_at").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Take(&newest).Error
	if err != nil {
		return 0, nil, err
	}
	return count, &newest.CreatedAt, nil
}
