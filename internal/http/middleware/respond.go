package middleware

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// rejection mirrors the API error envelope for responses written before any
// handler runs.
type rejection struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// abortWithError stops the chain and writes the envelope as two-space
// indented JSON, matching the handlers' output.
func abortWithError(c *gin.Context, status int, code, msg string) {
	defaultMetrics.rejections.WithLabelValues(code).Inc()
	b, err := json.MarshalIndent(rejection{Error: msg, Code: code, RequestID: RequestIDFrom(c)}, "", "  ")
	if err != nil {
		c.AbortWithStatus(status)
		return
	}
	c.Abort()
	c.Data(status, "application/json; charset=utf-8", b)
}
