package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-news-backend/internal/http/middleware"
)

// HealthResponse reports liveness plus a cheap store probe.
type HealthResponse struct {
	Status          string     `json:"status" example:"ok"`
	Articles        int64      `json:"articles" example:"12"`
	LatestArticleAt *time.Time `json:"latest_article_at,omitempty"`
}

// Health godoc
// @ID       health
// @Summary  Liveness and store probe
// @Tags     Ops
// @Produce  json
// @Success  200  {object}  handlers.HealthResponse
// @Failure  503  {object}  handlers.ErrorResponse
// @Router   /health [get]
func (h *Handlers) Health(c *gin.Context) {
	n, latest, err := h.articles.Stats(c.Request.Context())
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("health probe failed")
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "store unavailable")
		return
	}
	ok(c, http.StatusOK, HealthResponse{Status: "ok", Articles: n, LatestArticleAt: latest})
}
