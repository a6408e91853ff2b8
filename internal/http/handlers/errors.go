// Package handlers defines the wire-level error codes used across all API
// endpoints.
//
// API-level failures travel inside the standard envelope; the "error"
// field carries one of the codes below and the HTTP status reflects the
// failure class (401 auth, 403 policy, 404 lookup, 409 conflict, 400 bad
// request, 500 internal). Codes are lowercase snake_case and stable:
// clients branch on them programmatically.
//
// Example response:
//
//	HTTP/1.1 404 Not Found
//	{ "ok": false, "error": "channel_not_found" }
package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-slack-sim/internal/services"
)

const (
	// Authentication.
	ErrCodeNotAuthed   = "not_authed"
	ErrCodeInvalidAuth = "invalid_auth"

	// Entity lookups.
	ErrCodeChannelNotFound = "channel_not_found"
	ErrCodeMessageNotFound = "message_not_found"
	ErrCodeThreadNotFound  = "thread_not_found"
	ErrCodeUserNotFound    = "user_not_found"
	ErrCodeTeamNotFound    = "team_not_found"

	// Mutation conflicts and policy.
	ErrCodeAlreadyReacted    = "already_reacted"
	ErrCodeNoReaction        = "no_reaction"
	ErrCodeNameTaken         = "name_taken"
	ErrCodeAlreadyInChannel  = "already_in_channel"
	ErrCodeCantUpdateMessage = "cant_update_message"
	ErrCodeCantDeleteMessage = "cant_delete_message"

	// Request shape.
	ErrCodeInvalidArguments = "invalid_arguments"
	ErrCodeUnknownMethod    = "unknown_method"
	ErrCodeInternal         = "internal_error"
)

// errorCode translates a service-layer error into its wire code. Unmapped
// errors land on internal_error and are logged by fail().
func errorCode(err error) string {
	switch {
	case errors.Is(err, services.ErrNoAuth):
		return ErrCodeNotAuthed
	case errors.Is(err, services.ErrInvalidAuth):
		return ErrCodeInvalidAuth
	case errors.Is(err, services.ErrChannelNotFound):
		return ErrCodeChannelNotFound
	case errors.Is(err, services.ErrMessageNotFound):
		return ErrCodeMessageNotFound
	case errors.Is(err, services.ErrThreadNotFound):
		return ErrCodeThreadNotFound
	case errors.Is(err, services.ErrUserNotFound):
		return ErrCodeUserNotFound
	case errors.Is(err, services.ErrWorkspaceNotFound):
		return ErrCodeTeamNotFound
	case errors.Is(err, services.ErrAlreadyReacted):
		return ErrCodeAlreadyReacted
	case errors.Is(err, services.ErrNoReaction):
		return ErrCodeNoReaction
	case errors.Is(err, services.ErrNameTaken):
		return ErrCodeNameTaken
	case errors.Is(err, services.ErrAlreadyInChannel):
		return ErrCodeAlreadyInChannel
	case errors.Is(err, services.ErrCantUpdateMessage):
		return ErrCodeCantUpdateMessage
	case errors.Is(err, services.ErrCantDeleteMessage):
		return ErrCodeCantDeleteMessage
	case errors.Is(err, services.ErrInvalidCursor), errors.Is(err, services.ErrInvalidArgument):
		return ErrCodeInvalidArguments
	default:
		return ErrCodeInternal
	}
}

// errorStatus maps a wire code to the HTTP status of its failure class.
func errorStatus(code string) int {
	switch code {
	case ErrCodeNotAuthed, ErrCodeInvalidAuth:
		return http.StatusUnauthorized
	case ErrCodeCantUpdateMessage, ErrCodeCantDeleteMessage:
		return http.StatusForbidden
	case ErrCodeChannelNotFound, ErrCodeMessageNotFound, ErrCodeThreadNotFound,
		ErrCodeUserNotFound, ErrCodeTeamNotFound, ErrCodeNoReaction,
		ErrCodeUnknownMethod:
		return http.StatusNotFound
	case ErrCodeAlreadyReacted, ErrCodeNameTaken, ErrCodeAlreadyInChannel:
		return http.StatusConflict
	case ErrCodeInvalidArguments:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
