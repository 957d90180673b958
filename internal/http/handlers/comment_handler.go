// Comment HTTP handlers.
//
// This file exposes:
//   - GET    /api/articles/{article_id}/comments
//   - POST   /api/articles/{article_id}/comments
//   - DELETE /api/comments/{comment_id}
//
// Creation does not check that the article or author exist; the store's
// foreign keys decide and the classifier chain turns violations into 400s.
//
// Idempotency:
// With an Idempotency-Key header, a retry for the same article returns the
// comment created by the first request and sets `Idempotency-Replayed: true`.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-news-backend/internal/domain"
	"github.com/tbourn/go-news-backend/internal/http/middleware"
	"github.com/tbourn/go-news-backend/internal/services"
	"github.com/tbourn/go-news-backend/internal/utils"
)

//
// DTOs
//

// CommentView is a comment as listed under its article.
type CommentView struct {
	CommentID int64     `json:"comment_id" example:"1"`
	Votes     int       `json:"votes" example:"16"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author" example:"butter_bridge"`
	Body      string    `json:"body"`
}

// ListCommentsResponse wraps an article's comments, newest first.
type ListCommentsResponse struct {
	Comments []CommentView `json:"comments"`
}

// PostCommentRequest is the comment creation payload. Missing keys are passed
// on as nil and rejected by the store.
type PostCommentRequest struct {
	Username *string `json:"username" example:"butter_bridge"`
	Body     *string `json:"body" example:"Great article!"`
}

// CommentResponse wraps a single comment.
type CommentResponse struct {
	Comment *domain.Comment `json:"comment"`
}

func toCommentViews(in []domain.Comment) []CommentView {
	out := make([]CommentView, 0, len(in))
	for _, cm := range in {
		out = append(out, CommentView{
			CommentID: cm.CommentID,
			Votes:     cm.Votes,
			CreatedAt: cm.CreatedAt,
			Author:    cm.Author,
			Body:      cm.Body,
		})
	}
	return out
}

//
// Handlers
//

// ListComments godoc
// @ID          listComments
// @Summary     List an article's comments
// @Description Newest first. An article without comments (or an unknown article) yields 404.
// @Tags        Comments
// @Produce     json
// @Param       article_id  path  int  true  "Article ID"  example(1)
// @Success     200  {object}  handlers.ListCommentsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "No comments found"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /articles/{article_id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	id, err := utils.ParseID(c.Param("article_id"))
	if err != nil {
		respondError(c, services.ErrMalformedID)
		return
	}
	items, err := h.comments.ListByArticle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, ListCommentsResponse{Comments: toCommentViews(items)})
}

// PostComment godoc
// @ID          postComment
// @Summary     Add a comment to an article
// @Description Supports safe retries via the Idempotency-Key header (same key, same comment).
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                       false  "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       article_id       path    int                          true   "Article ID"  example(1)
// @Param       body             body    handlers.PostCommentRequest  true   "Comment payload"
// @Success     201  {object}  handlers.CommentResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id, missing or invalid field, unknown article or username"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /articles/{article_id}/comments [post]
func (h *Handlers) PostComment(c *gin.Context) {
	id, err := utils.ParseID(c.Param("article_id"))
	if err != nil {
		respondError(c, services.ErrMalformedID)
		return
	}
	var req PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrInvalidBody)
		return
	}

	key, found := middleware.GetIdempotencyKey(c)
	if !found {
		key = c.GetHeader(middleware.HeaderIdempotencyKey)
	}

	cm, replayed, err := h.comments.Create(c.Request.Context(), id, services.NewComment{
		Username: req.Username,
		Body:     req.Body,
	}, key)
	if err != nil {
		respondError(c, err)
		return
	}
	if replayed {
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
	}
	ok(c, http.StatusCreated, CommentResponse{Comment: cm})
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Description Not idempotent: a second delete of the same id yields 404.
// @Tags        Comments
// @Param       comment_id  path  int  true  "Comment ID"  example(1)
// @Success     204  "Deleted"
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "Comment not found"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /comments/{comment_id} [delete]
func (h *Handlers) DeleteComment(c *gin.Context) {
	id, err := utils.ParseID(c.Param("comment_id"))
	if err != nil {
		respondError(c, services.ErrMalformedID)
		return
	}
	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
