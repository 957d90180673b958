package repo

import (
	"context"
	"errors"
	"testing"
)

func TestListComments_NewestFirstAndEmpty(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	got, err := ListComments(ctx, db, 1)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(got) != 11 {
		t.Fatalf("len = %d; want 11", len(got))
	}
	for i := 0; i+1 < len(got); i++ {
		if got[i].CreatedAt.Before(got[i+1].CreatedAt) {
			t.Fatalf("not newest first at %d", i)
		}
		if got[i].ArticleID != 1 {
			t.Fatalf("foreign comment in list: %+v", got[i])
		}
	}

	for _, id := range []int64{2, 9999} {
		empty, err := ListComments(ctx, db, id)
		if err != nil {
			t.Fatalf("ListComments(%d): %v", id, err)
		}
		if empty == nil || len(empty) != 0 {
			t.Fatalf("ListComments(%d) = %+v; want empty slice", id, empty)
		}
	}
}

func TestInsertComment_Success(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	c, err := InsertComment(ctx, db, 2, strptr("lurker"), strptr("first!"))
	if err != nil {
		t.Fatalf("InsertComment: %v", err)
	}
	if c.CommentID != 19 || c.ArticleID != 2 || c.Author != "lurker" || c.Body != "first!" || c.Votes != 0 || c.CreatedAt.IsZero() {
		t.Fatalf("unexpected comment: %+v", c)
	}

	got, err := GetComment(ctx, db, c.CommentID)
	if err != nil || got.Body != "first!" {
		t.Fatalf("readback: %+v err=%v", got, err)
	}
}

func TestInsertComment_StoreRejections(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		articleID int64
		user      *string
		body      *string
		want      error
	}{
		{"unknown user", 1, strptr("nobody"), strptr("hi"), ErrForeignKey},
		{"unknown article", 9999, strptr("lurker"), strptr("hi"), ErrForeignKey},
		{"missing user", 1, nil, strptr("hi"), ErrMissingField},
		{"missing body", 1, strptr("lurker"), nil, ErrMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := InsertComment(ctx, db, tc.articleID, tc.user, tc.body)
			if c != nil || !errors.Is(err, tc.want) {
				t.Fatalf("got (%+v, %v); want %v", c, err, tc.want)
			}
		})
	}

	all, _ := ListComments(ctx, db, 1)
	if len(all) != 11 {
		t.Fatalf("rejected inserts left rows behind: %d", len(all))
	}
}

func TestDeleteComment_OnceThenNotFound(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	if err := DeleteComment(ctx, db, 1); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := DeleteComment(ctx, db, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if _, err := GetComment(ctx, db, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted comment still readable: %v", err)
	}
}
