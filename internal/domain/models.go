// Package domain defines the persistence models for topics, users, articles
// and comments. These types are mapped with GORM and form the core data layer
// of the news API.
package domain

import "time"

// Topic is a read-only article category identified by its slug.
type Topic struct {
	Slug        string `json:"slug"        gorm:"type:varchar(64);primaryKey"`
	Description string `json:"description" gorm:"type:varchar(255);not null"`
}

// TableName returns the database table name for Topic.
func (Topic) TableName() string { return "topics" }

// User is a read-only author account identified by its username.
type User struct {
	Username  string `json:"username"   gorm:"type:varchar(64);primaryKey"`
	Name      string `json:"name"       gorm:"type:varchar(255);not null"`
	AvatarURL string `json:"avatar_url" gorm:"column:avatar_url;type:varchar(512)"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Article is a single news article. Votes is the only field mutated after
// creation, and only through an atomic increment.
//
// Fields:
//   - ArticleID: serial primary key.
//   - Topic: slug of the owning topic (FK topics.slug).
//   - Author: username of the writer (FK users.username).
//   - Votes: signed counter with no floor.
//   - TopicRef / AuthorRef / Comments: associations used by migrations only.
//     Comments owns the comments.article_id foreign key and its cascade.
type Article struct {
	ArticleID int64     `json:"article_id" gorm:"column:article_id;primaryKey;autoIncrement"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null"`
	Topic     string    `json:"topic"      gorm:"type:varchar(64);not null;index"`
	Author    string    `json:"author"     gorm:"type:varchar(64);not null;index"`
	Body      string    `json:"body"       gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	Votes     int       `json:"votes"      gorm:"not null;default:0"`

	TopicRef  Topic     `json:"-" gorm:"foreignKey:Topic;references:Slug"`
	AuthorRef User      `json:"-" gorm:"foreignKey:Author;references:Username"`
	Comments  []Comment `json:"-" gorm:"foreignKey:ArticleID;references:ArticleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Article.
func (Article) TableName() string { return "articles" }

// ArticleSummary is the list projection of an article: the body is omitted and
// comment_count is aggregated from the comments table.
type ArticleSummary struct {
	Author       string    `json:"author"`
	Title        string    `json:"title"`
	ArticleID    int64     `json:"article_id"`
	Topic        string    `json:"topic"`
	CreatedAt    time.Time `json:"created_at"`
	Votes        int       `json:"votes"`
	CommentCount int64     `json:"comment_count"`
}

// Comment is a reader comment on an article. Comments are inserted and
// deleted, never updated. Deleting an article cascades to its comments.
type Comment struct {
	CommentID int64     `json:"comment_id" gorm:"column:comment_id;primaryKey;autoIncrement"`
	ArticleID int64     `json:"article_id" gorm:"column:article_id;not null;index"`
	Author    string    `json:"author"     gorm:"type:varchar(64);not null"`
	Votes     int       `json:"votes"      gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	Body      string    `json:"body"       gorm:"type:text;not null"`

	AuthorRef User `json:"-" gorm:"foreignKey:Author;references:Username"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Models lists every persisted model in dependency order: referenced tables
// come before the tables that point at them.
func Models() []any {
	return []any{&Topic{}, &User{}, &Article{}, &Comment{}, &Idempotency{}}
}
