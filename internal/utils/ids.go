// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"strconv"
)

// ErrNotAnID is returned by ParseID for anything but a positive base-10 integer.
var ErrNotAnID = errors.New("not an integer identifier")

// ParseID converts a path segment into a numeric identifier. Only decimal
// digits that fit in an int64 and name a value of at least 1 are accepted;
// no whitespace, no trailing text.
//
// Example:
//
//	id, err := utils.ParseID("42")     // 42, nil
//	_, err = utils.ParseID("1; DROP")  // ErrNotAnID
func ParseID(s string) (int64, error) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, ErrNotAnID
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrNotAnID
	}
	return n, nil
}
