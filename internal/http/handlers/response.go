// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response envelope utilities shared by every
// endpoint. Success and failure are distinguished by the "ok" boolean in
// the body; failures additionally carry one stable "error" code and the
// HTTP status of their failure class (see errorStatus), so both
// envelope-only and status-aware clients see a consistent surface.
//
// Example success:
//
//	{ "ok": true, "channel": { ... } }
//
// Example failure:
//
//	{ "ok": false, "error": "message_not_found" }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-slack-sim/internal/http/middleware"
)

// ok writes a success envelope, merging body (may be nil) with "ok": true.
func ok(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["ok"] = true
	c.JSON(http.StatusOK, body)
}

// fail writes a failure envelope with the given error code and its
// class's HTTP status, records it in the API error metrics, and logs
// internal errors with request context.
func fail(c *gin.Context, code string) {
	middleware.ObserveAPIError(c, code)
	if code == ErrCodeInternal {
		middleware.LoggerFrom(c).Error().
			Str("code", code).
			Msg("api error")
	}
	c.AbortWithStatusJSON(errorStatus(code), gin.H{"ok": false, "error": code})
}

// failErr maps a service error to its wire code and writes the failure
// envelope. Unmapped errors are logged before being reported as
// internal_error.
func failErr(c *gin.Context, err error) {
	code := errorCode(err)
	if code == ErrCodeInternal {
		middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled service error")
	}
	fail(c, code)
}

// Fail is the exported variant of fail(). The router uses it for fallback
// routes (e.g. unknown_method on unmatched paths) without depending on
// unexported helpers.
func Fail(c *gin.Context, code string) { fail(c, code) }

// nextCursorMeta builds the response_metadata object paginated endpoints
// attach. An exhausted cursor is an empty string, never an absent field.
func nextCursorMeta(next string) gin.H {
	return gin.H{"next_cursor": next}
}
