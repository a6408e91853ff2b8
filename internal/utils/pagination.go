// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampLimit bounds a requested page size to [1, max], substituting def
// for non-positive values. Oversized limits are clamped, not rejected.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// ErrBadCursor is returned when an opaque cursor fails to decode.
var ErrBadCursor = errors.New("malformed cursor")

// cursorSep joins cursor fields before encoding. Field values never
// contain it (message keys and entity IDs are alphanumerics plus '.').
const cursorSep = "|"

// EncodeCursor packs the given position fields into an opaque,
// forward-only pagination token. An empty field list yields "".
func EncodeCursor(fields ...string) string {
	if len(fields) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(fields, cursorSep)))
}

// DecodeCursor unpacks a token produced by EncodeCursor, verifying it
// carries exactly want fields. Tampered or foreign tokens fail with
// ErrBadCursor.
func DecodeCursor(token string, want int) ([]string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrBadCursor
	}
	fields := strings.Split(string(raw), cursorSep)
	if len(fields) != want {
		return nil, ErrBadCursor
	}
	for _, f := range fields {
		if f == "" {
			return nil, ErrBadCursor
		}
	}
	return fields, nil
}
