// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: the error envelope, the classifier-driven error writer and the
// success helpers. Bodies are rendered as two-space indented JSON.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "error": "article not found",
//	  "code": "not_found",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000"
//	}
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-news-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Human-readable message, never empty
	Error string `json:"error" example:"article not found"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		Error:     msg,
		Code:      code,
		RequestID: middleware.RequestIDFrom(c),
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.Abort()
	writeJSON(c, status, resp)
}

// respondError runs err through the classifier chain and writes the result.
// Unclassified errors are logged in full; the client only sees the generic
// message.
func respondError(c *gin.Context, err error) {
	cl := Classify(err)
	middleware.ObserveAPIError(cl.Name)

	lg := middleware.LoggerFrom(c)
	if cl.Status >= http.StatusInternalServerError {
		lg.Error().Err(err).Str("classifier", cl.Name).Msg("unclassified error")
	} else {
		lg.Debug().Err(err).Str("classifier", cl.Name).Msg("request rejected")
	}

	resp := ErrorResponse{
		Error:     cl.message(err),
		Code:      cl.Code,
		RequestID: middleware.RequestIDFrom(c),
	}
	c.Abort()
	writeJSON(c, cl.Status, resp)
}

// RespondError is the exported variant of respondError, used by the router
// for unmatched routes.
func RespondError(c *gin.Context, err error) { respondError(c, err) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	writeJSON(c, status, body)
}

// writeJSON renders body with two-space indentation.
func writeJSON(c *gin.Context, status int, body any) {
	b, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("encode response")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", b)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
