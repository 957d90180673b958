// Package services defines the business logic for articles, comments, topics
// and users. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// Translation into HTTP status codes is performed at the handler layer.
package services

import "errors"

// ErrNotFound is the family root for every "no such resource" condition.
// errors.Is(err, ErrNotFound) holds for each of the specific sentinels below.
var ErrNotFound = errors.New("not found")

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// Resource lookups.
var (
	// ErrArticleNotFound indicates a well-formed article id with no row.
	ErrArticleNotFound error = &notFoundError{"article not found"}

	// ErrCommentNotFound indicates a well-formed comment id with no row.
	ErrCommentNotFound error = &notFoundError{"comment not found"}

	// ErrCommentsNotFound is returned when an article id yields no comments,
	// whether or not the article exists.
	ErrCommentsNotFound error = &notFoundError{"no comments found"}
)

// Request shape.
var (
	// ErrMalformedID is returned when a path identifier does not parse as an
	// integer. It is raised before any store access.
	ErrMalformedID = errors.New("malformed identifier")

	// ErrInvalidBody is returned when a request body cannot be decoded into
	// the expected shape (bad JSON, wrong primitive types).
	ErrInvalidBody = errors.New("invalid request body")
)
