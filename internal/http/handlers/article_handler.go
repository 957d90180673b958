// Article HTTP handlers.
//
// This file exposes:
//   - GET   /api/articles               (filtered, ordered list)
//   - GET   /api/articles/{article_id}  (single article)
//   - PATCH /api/articles/{article_id}  (adjust votes)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-news-backend/internal/domain"
	"github.com/tbourn/go-news-backend/internal/services"
	"github.com/tbourn/go-news-backend/internal/utils"
)

//
// DTOs
//

// ListArticlesResponse wraps the article list.
type ListArticlesResponse struct {
	Articles []domain.ArticleSummary `json:"articles"`
}

// ArticleResponse wraps a single article.
type ArticleResponse struct {
	Article *domain.Article `json:"article"`
}

// PatchArticleRequest is the vote adjustment payload. A missing inc_votes is
// passed on as nil and rejected by the store.
type PatchArticleRequest struct {
	IncVotes *int `json:"inc_votes" example:"1"`
}

//
// Handlers
//

// ListArticles godoc
// @ID          listArticles
// @Summary     List articles
// @Description Returns every article with its comment count. Invalid sort_by or order values yield 404.
// @Tags        Articles
// @Produce     json
// @Param       topic    query  string  false  "Topic slug to filter by"  example(cats)
// @Param       sort_by  query  string  false  "Sort column"  Enums(created_at, votes, author, title, comment_count)  default(created_at)
// @Param       order    query  string  false  "Sort direction"  Enums(asc, desc)  default(desc)
// @Success     200  {object}  handlers.ListArticlesResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Invalid query parameter"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /articles [get]
func (h *Handlers) ListArticles(c *gin.Context) {
	spec, err := domain.ParseArticleFilter(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	items, err := h.articles.List(c.Request.Context(), spec)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, ListArticlesResponse{Articles: items})
}

// GetArticle godoc
// @ID          getArticle
// @Summary     Get an article
// @Description A malformed id is reported as not found.
// @Tags        Articles
// @Produce     json
// @Param       article_id  path  int  true  "Article ID"  example(1)
// @Success     200  {object}  handlers.ArticleResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Article not found"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /articles/{article_id} [get]
func (h *Handlers) GetArticle(c *gin.Context) {
	id, err := utils.ParseID(c.Param("article_id"))
	if err != nil {
		respondError(c, services.ErrArticleNotFound)
		return
	}
	a, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, ArticleResponse{Article: a})
}

// PatchArticle godoc
// @ID          patchArticle
// @Summary     Adjust article votes
// @Description Atomically adds inc_votes (may be negative) to the article's votes.
// @Tags        Articles
// @Accept      json
// @Produce     json
// @Param       article_id  path  int                          true  "Article ID"  example(1)
// @Param       body        body  handlers.PatchArticleRequest  true  "Vote delta"
// @Success     200  {object}  handlers.ArticleResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id or inc_votes"
// @Failure     404  {object}  handlers.ErrorResponse  "Article not found"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /articles/{article_id} [patch]
func (h *Handlers) PatchArticle(c *gin.Context) {
	id, err := utils.ParseID(c.Param("article_id"))
	if err != nil {
		respondError(c, services.ErrMalformedID)
		return
	}
	var req PatchArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrInvalidBody)
		return
	}
	a, err := h.articles.AdjustVotes(c.Request.Context(), id, req.IncVotes)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, ArticleResponse{Article: a})
}
