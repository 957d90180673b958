// Package seed holds the fixture dataset used by the test suites and by the
// `newsapi seed` command, and knows how to reset a store to it.
package seed

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-news-backend/internal/domain"
)

// Dataset is a full set of rows to load. Articles and comments are inserted
// in slice order so the store assigns ids 1..n.
type Dataset struct {
	Topics   []domain.Topic
	Users    []domain.User
	Articles []domain.Article
	Comments []domain.Comment
}

// Reset drops every table and recreates the schema.
func Reset(ctx context.Context, db *gorm.DB) error {
	models := domain.Models()
	m := db.WithContext(ctx).Migrator()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.DropTable(models[i]); err != nil {
			return fmt.Errorf("drop %T: %w", models[i], err)
		}
	}
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Load inserts ds in one transaction.
func Load(ctx context.Context, db *gorm.DB, ds Dataset) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A fresh session per Create keeps one insert's statement out of the next.
		tx = tx.Omit(clause.Associations).Session(&gorm.Session{})
		if len(ds.Topics) > 0 {
			if err := tx.Create(&ds.Topics).Error; err != nil {
				return fmt.Errorf("topics: %w", err)
			}
		}
		if len(ds.Users) > 0 {
			if err := tx.Create(&ds.Users).Error; err != nil {
				return fmt.Errorf("users: %w", err)
			}
		}
		for i := range ds.Articles {
			if err := tx.Create(&ds.Articles[i]).Error; err != nil {
				return fmt.Errorf("article %d: %w", i+1, err)
			}
		}
		for i := range ds.Comments {
			if err := tx.Create(&ds.Comments[i]).Error; err != nil {
				return fmt.Errorf("comment %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// Run resets the schema and loads the test dataset.
func Run(ctx context.Context, db *gorm.DB) error {
	if err := Reset(ctx, db); err != nil {
		return err
	}
	return Load(ctx, db, TestData())
}

func ms(epoch int64) time.Time { return time.UnixMilli(epoch).UTC() }

// TestData returns a fresh copy of the fixture dataset: three topics (paper has
// no articles), four users (lurker has written nothing), twelve articles and
// eighteen comments. Article 1 starts at 100 votes; article 2 has no comments.
func TestData() Dataset {
	return Dataset{
		Topics: []domain.Topic{
			{Slug: "mitch", Description: "The man, the Mitch, the legend"},
			{Slug: "cats", Description: "Not dogs"},
			{Slug: "paper", Description: "what books are made of"},
		},
		Users: []domain.User{
			{Username: "butter_bridge", Name: "jonny", AvatarURL: "https://www.healthytherapies.com/wp-content/uploads/2016/06/Lime3.jpg"},
			{Username: "icellusedkars", Name: "sam", AvatarURL: "https://avatars2.githubusercontent.com/u/24604688?s=460&v=4"},
			{Username: "rogersop", Name: "paul", AvatarURL: "https://avatars2.githubusercontent.com/u/24394918?s=400&v=4"},
			{Username: "lurker", Name: "do_nothing", AvatarURL: "https://www.golenbock.com/wp-content/uploads/2015/01/placeholder-user.png"},
		},
		Articles: []domain.Article{
			{Title: "Living in the shadow of a great man", Topic: "mitch", Author: "butter_bridge", Body: "I find this existence challenging", CreatedAt: ms(1594329060000), Votes: 100},
			{Title: "Sony Vaio; or, The Laptop", Topic: "mitch", Author: "icellusedkars", Body: "Call me Mitchell. Some years ago I thought I would buy a laptop.", CreatedAt: ms(1602828180000)},
			{Title: "Eight pug gifs that remind me of mitch", Topic: "mitch", Author: "icellusedkars", Body: "some gifs", CreatedAt: ms(1604394720000)},
			{Title: "Student SUES Mitch!", Topic: "mitch", Author: "icellusedkars", Body: "We all love Mitch and his wonderful, unique typing style.", CreatedAt: ms(1604437200000)},
			{Title: "UNCOVERED: catspiracy to bring down democracy", Topic: "cats", Author: "rogersop", Body: "Bastet walks amongst us, and the cats are taking arms!", CreatedAt: ms(1596464040000)},
			{Title: "A", Topic: "mitch", Author: "icellusedkars", Body: "Delicious tin of cat food", CreatedAt: ms(1579126860000)},
			{Title: "Z", Topic: "mitch", Author: "rogersop", Body: "I was hungry.", CreatedAt: ms(1578406080000)},
			{Title: "Does Mitch predate civilisation?", Topic: "mitch", Author: "icellusedkars", Body: "Archaeologists have uncovered a gigantic statue from the dawn of humanity.", CreatedAt: ms(1589418120000)},
			{Title: "They're not exactly dogs, are they?", Topic: "mitch", Author: "butter_bridge", Body: "Well? Think about it.", CreatedAt: ms(1602419040000)},
			{Title: "Seven inspirational thought leaders from Manchester UK", Topic: "mitch", Author: "rogersop", Body: "Who are we kidding, there is only one, and it's Mitch!", CreatedAt: ms(1589433300000)},
			{Title: "Am I a cat?", Topic: "mitch", Author: "icellusedkars", Body: "Having run out of ideas for articles, I am staring at the wall blankly.", CreatedAt: ms(1582459260000)},
			{Title: "Moustache", Topic: "mitch", Author: "butter_bridge", Body: "Have you seen the size of that thing?", CreatedAt: ms(1602986400000)},
		},
		Comments: []domain.Comment{
			{ArticleID: 9, Author: "butter_bridge", Votes: 16, CreatedAt: ms(1586179020000), Body: "Oh, I've got compassion running out of my nose, pal! I'm the Sultan of Sentiment!"},
			{ArticleID: 1, Author: "butter_bridge", Votes: 14, CreatedAt: ms(1604113380000), Body: "The beautiful thing about treasure is that it exists."},
			{ArticleID: 1, Author: "icellusedkars", Votes: 100, CreatedAt: ms(1583025180000), Body: "Replacing the quiet elegance of the dark suit and tie with the casual indifference of these muted earth tones is a form of fashion suicide."},
			{ArticleID: 1, Author: "icellusedkars", Votes: -100, CreatedAt: ms(1582459260000), Body: "I carry a log, yes. Is it funny to you? It is not to me."},
			{ArticleID: 1, Author: "icellusedkars", CreatedAt: ms(1579126860000), Body: "I hate streaming noses"},
			{ArticleID: 1, Author: "icellusedkars", CreatedAt: ms(1586899140000), Body: "I hate streaming eyes even more"},
			{ArticleID: 1, Author: "icellusedkars", CreatedAt: ms(1577848080000), Body: "Lobster pot"},
			{ArticleID: 1, Author: "icellusedkars", CreatedAt: ms(1592641440000), Body: "Delicious crackerbreads"},
			{ArticleID: 1, Author: "icellusedkars", CreatedAt: ms(1583133000000), Body: "Superficially charming"},
			{ArticleID: 3, Author: "icellusedkars", CreatedAt: ms(1592220300000), Body: "git push origin master"},
			{ArticleID: 3, Author: "icellusedkars", CreatedAt: ms(1600560600000), Body: "Ambidextrous marsupial"},
			{ArticleID: 1, Author: "icellusedkars", CreatedAt: ms(1583176740000), Body: "Massive intercranial brain haemorrhage"},
			{ArticleID: 1, Author: "icellusedkars", CreatedAt: ms(1589577540000), Body: "Fruit pastilles"},
			{ArticleID: 5, Author: "icellusedkars", Votes: 16, CreatedAt: ms(1591682400000), Body: "What do you see? I have no idea where this will lead us."},
			{ArticleID: 5, Author: "butter_bridge", Votes: 1, CreatedAt: ms(1605938760000), Body: "I am 100% sure that we're not completely sure."},
			{ArticleID: 6, Author: "butter_bridge", Votes: 1, CreatedAt: ms(1602919680000), Body: "This is a bad article name"},
			{ArticleID: 9, Author: "icellusedkars", Votes: 20, CreatedAt: ms(1586642520000), Body: "The owls are not what they seem."},
			{ArticleID: 1, Author: "butter_bridge", Votes: 16, CreatedAt: ms(1595294400000), Body: "This morning, I showered for nine minutes."},
		},
	}
}
