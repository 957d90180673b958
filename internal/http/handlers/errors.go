// Package handlers defines HTTP-layer error codes and the ordered error
// classifier chain used across all API endpoints.
//
// Every failure a handler sees (a malformed path id, a body that does not
// decode, a constraint violation reported by the store, an unmatched route)
// is handed to respondError, which walks Classifiers top to bottom and lets the
// first match decide the status, the stable code and the message. A failure
// no classifier recognises becomes a logged 500 with a generic message.
//
// Example response:
//
//	{
//	  "error": "bad request: referenced resource does not exist",
//	  "code": "foreign_key_violation",
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-news-backend/internal/domain"
	"github.com/tbourn/go-news-backend/internal/repo"
	"github.com/tbourn/go-news-backend/internal/services"
	"github.com/tbourn/go-news-backend/internal/utils"
)

const (
	ErrCodeRouteNotFound = "route_not_found"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeMissingField  = "missing_field"
	ErrCodeForeignKey    = "foreign_key_violation"
	ErrCodeInvalidQuery  = "invalid_query_parameter"
	ErrCodeNotFound      = "not_found"
	ErrCodeInvalidID     = "invalid_id"
	ErrCodeInternal      = "internal_error"
	ErrCodeUnavailable   = "unavailable"
)

// ErrRouteNotFound is raised by the router when no handler matches the
// request path and method.
var ErrRouteNotFound = errors.New("route not found")

// Classifier maps one family of failures to a response.
type Classifier struct {
	// Name labels the classifier in logs and the api_errors_total metric.
	Name string
	// Match reports whether err belongs to this family.
	Match func(err error) bool
	// Status is the HTTP status written on a match.
	Status int
	// Code is the stable machine-readable code.
	Code string
	// Message is the client-facing text; empty means err.Error().
	Message string
}

func isAny(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, t := range targets {
			if errors.Is(err, t) {
				return true
			}
		}
		return false
	}
}

// Classifiers is evaluated in order; the first match wins. Store-reported
// failures come before application-raised ones, and the order is part of the
// API contract: reordering changes responses for errors that match more than
// one entry.
var Classifiers = []Classifier{
	{
		Name:    "route_not_found",
		Match:   isAny(ErrRouteNotFound),
		Status:  http.StatusNotFound,
		Code:    ErrCodeRouteNotFound,
		Message: "route not found",
	},
	{
		Name:    "invalid_input",
		Match:   isAny(repo.ErrInvalidInput, services.ErrInvalidBody),
		Status:  http.StatusBadRequest,
		Code:    ErrCodeBadRequest,
		Message: "bad request",
	},
	{
		Name:    "missing_field",
		Match:   isAny(repo.ErrMissingField),
		Status:  http.StatusBadRequest,
		Code:    ErrCodeMissingField,
		Message: "bad request: missing required field",
	},
	{
		Name:    "foreign_key",
		Match:   isAny(repo.ErrForeignKey),
		Status:  http.StatusBadRequest,
		Code:    ErrCodeForeignKey,
		Message: "bad request: referenced resource does not exist",
	},
	{
		Name:    "invalid_query_parameter",
		Match:   isAny(domain.ErrInvalidQueryParameter),
		Status:  http.StatusNotFound,
		Code:    ErrCodeInvalidQuery,
		Message: "invalid query parameter",
	},
	{
		Name:   "not_found",
		Match:  isAny(services.ErrNotFound, repo.ErrNotFound),
		Status: http.StatusNotFound,
		Code:   ErrCodeNotFound,
	},
	{
		Name:    "malformed_id",
		Match:   isAny(services.ErrMalformedID, utils.ErrNotAnID),
		Status:  http.StatusBadRequest,
		Code:    ErrCodeInvalidID,
		Message: "bad request: invalid id",
	},
}

// unclassified answers anything the chain does not recognise.
var unclassified = Classifier{
	Name:    "unclassified",
	Status:  http.StatusInternalServerError,
	Code:    ErrCodeInternal,
	Message: "internal server error",
}

// Classify returns the first classifier in Classifiers that matches err, or
// the 500 fallback.
func Classify(err error) Classifier {
	for _, cl := range Classifiers {
		if cl.Match(err) {
			return cl
		}
	}
	return unclassified
}

// message is the client-facing text for err under cl. It is never empty.
func (cl Classifier) message(err error) string {
	if cl.Message != "" {
		return cl.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return http.StatusText(cl.Status)
}
