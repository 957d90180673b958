package domain

import (
	"errors"
	"net/url"
)

// ErrInvalidQueryParameter is returned by ParseArticleFilter when sort_by or
// order carries a value outside its whitelist. The offending key is not
// reported.
var ErrInvalidQueryParameter = errors.New("invalid query parameter")

// SortKey is the closed set of columns an article listing may be ordered by.
// The zero value is not a valid key; use ParseSortKey or DefaultSortKey.
type SortKey int

const (
	sortKeyInvalid SortKey = iota
	SortByCreatedAt
	SortByVotes
	SortByAuthor
	SortByTitle
	SortByCommentCount
)

// DefaultSortKey orders articles newest first when combined with DefaultOrder.
const DefaultSortKey = SortByCreatedAt

var sortKeys = map[string]SortKey{
	"created_at":    SortByCreatedAt,
	"votes":         SortByVotes,
	"author":        SortByAuthor,
	"title":         SortByTitle,
	"comment_count": SortByCommentCount,
}

// ParseSortKey maps the exact query value to a SortKey.
func ParseSortKey(s string) (SortKey, bool) {
	k, ok := sortKeys[s]
	return k, ok
}

// String returns the query-string spelling of k.
func (k SortKey) String() string {
	for s, v := range sortKeys {
		if v == k {
			return s
		}
	}
	return "invalid"
}

// SortOrder is the direction of an article listing.
type SortOrder int

const (
	orderInvalid SortOrder = iota
	Descending
	Ascending
)

// DefaultOrder is descending.
const DefaultOrder = Descending

// ParseSortOrder maps "asc" / "desc" to a SortOrder.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch s {
	case "desc":
		return Descending, true
	case "asc":
		return Ascending, true
	}
	return orderInvalid, false
}

// String returns the query-string spelling of o.
func (o SortOrder) String() string {
	switch o {
	case Descending:
		return "desc"
	case Ascending:
		return "asc"
	}
	return "invalid"
}

// FilterSpec is the validated form of the article listing query string.
// Topic is nil when no topic filter was requested.
type FilterSpec struct {
	Topic  *string
	SortBy SortKey
	Order  SortOrder
}

// DefaultFilter is the listing used when no parameters are supplied:
// every topic, created_at descending.
func DefaultFilter() FilterSpec {
	return FilterSpec{SortBy: DefaultSortKey, Order: DefaultOrder}
}

// ParseArticleFilter validates the raw query parameters of GET /articles.
//
// Only topic, sort_by and order are read; every other key is ignored. An
// absent sort_by/order falls back to its default. A present one must be a
// single value drawn from its whitelist, otherwise ErrInvalidQueryParameter
// is returned. topic is an opaque equality filter and is never validated.
func ParseArticleFilter(q url.Values) (FilterSpec, error) {
	spec := DefaultFilter()

	if vals, ok := q["sort_by"]; ok {
		if len(vals) != 1 {
			return FilterSpec{}, ErrInvalidQueryParameter
		}
		k, ok := ParseSortKey(vals[0])
		if !ok {
			return FilterSpec{}, ErrInvalidQueryParameter
		}
		spec.SortBy = k
	}

	if vals, ok := q["order"]; ok {
		if len(vals) != 1 {
			return FilterSpec{}, ErrInvalidQueryParameter
		}
		o, ok := ParseSortOrder(vals[0])
		if !ok {
			return FilterSpec{}, ErrInvalidQueryParameter
		}
		spec.Order = o
	}

	if vals, ok := q["topic"]; ok && len(vals) > 0 {
		topic := vals[0]
		spec.Topic = &topic
	}

	return spec, nil
}
