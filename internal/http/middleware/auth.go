// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the bearer-token authentication guard. Every API
// endpoint (the events webhook and health/metrics excepted) runs behind
// it: the Authorization header is resolved to an acting identity before
// any handler code executes, and auth failures are answered in the
// platform's envelope shape with the not_authed / invalid_auth codes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-slack-sim/internal/services"
)

const (
	// identityKey is the Gin context key for the resolved Identity.
	identityKey = "identity"
	// actorKey is the Gin context key for the acting user/app ID, kept as a
	// plain string for logging.
	actorKey = "actorID"
)

// BearerAuth returns a middleware that authenticates requests with the
// given AuthService.
//
// Token extraction accepts the Authorization header with or without the
// "Bearer" scheme prefix, and falls back to a token form/query parameter
// for clients that post credentials in the request body.
//
// Failure envelopes answer with 401: only the error code distinguishes a
// missing credential (not_authed) from a rejected one (invalid_auth). A
// storage failure during the lookup is a 500.
func BearerAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := auth.Authenticate(c.Request.Context(), BearerToken(c))
		if err != nil {
			code, status := "invalid_auth", http.StatusUnauthorized
			if err == services.ErrNoAuth {
				code = "not_authed"
			} else if err != services.ErrInvalidAuth {
				LoggerFrom(c).Error().Err(err).Msg("auth lookup failed")
				code, status = "internal_error", http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": code})
			return
		}
		c.Set(identityKey, ident)
		c.Set(actorKey, ident.ActorID())
		c.Next()
	}
}

// BearerToken extracts the request credential: the Authorization header
// (with an optional Bearer prefix) or, failing that, the token parameter.
func BearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if h != "" {
		if strings.HasPrefix(strings.ToLower(h), "bearer ") {
			return strings.TrimSpace(h[len("bearer "):])
		}
		return h
	}
	if tok := strings.TrimSpace(c.PostForm("token")); tok != "" {
		return tok
	}
	return strings.TrimSpace(c.Query("token"))
}

// IdentityFrom returns the identity resolved by BearerAuth. The second
// result is false on routes that run without the guard.
func IdentityFrom(c *gin.Context) (services.Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(services.Identity); ok {
			return ident, true
		}
	}
	return services.Identity{}, false
}

// actorFromContext exposes the acting ID for the access logger.
func actorFromContext(c *gin.Context) interface{} {
	v, _ := c.Get(actorKey)
	return v
}
