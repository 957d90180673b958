package repo

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-news-backend/internal/seed"
)

// newMemDB opens a private shared-cache in-memory database for the test.
func newMemDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

// newSeededDB is newMemDB loaded with the fixture dataset.
func newSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newMemDB(t)
	if err := seed.Run(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }
