package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tbourn/go-slack-sim/internal/services"
)

func TestErrorCode_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{services.ErrNoAuth, ErrCodeNotAuthed},
		{services.ErrInvalidAuth, ErrCodeInvalidAuth},
		{services.ErrChannelNotFound, ErrCodeChannelNotFound},
		{services.ErrMessageNotFound, ErrCodeMessageNotFound},
		{services.ErrThreadNotFound, ErrCodeThreadNotFound},
		{services.ErrUserNotFound, ErrCodeUserNotFound},
		{services.ErrWorkspaceNotFound, ErrCodeTeamNotFound},
		{services.ErrAlreadyReacted, ErrCodeAlreadyReacted},
		{services.ErrNoReaction, ErrCodeNoReaction},
		{services.ErrNameTaken, ErrCodeNameTaken},
		{services.ErrAlreadyInChannel, ErrCodeAlreadyInChannel},
		{services.ErrCantUpdateMessage, ErrCodeCantUpdateMessage},
		{services.ErrCantDeleteMessage, ErrCodeCantDeleteMessage},
		{services.ErrInvalidCursor, ErrCodeInvalidArguments},
		{services.ErrInvalidArgument, ErrCodeInvalidArguments},
		{errors.New("unexpected"), ErrCodeInternal},
	}
	for _, tc := range cases {
		if got := errorCode(tc.err); got != tc.want {
			t.Fatalf("errorCode(%v) = %q; want %q", tc.err, got, tc.want)
		}
	}
}

func TestErrorCode_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("posting message: %w", services.ErrThreadNotFound)
	if got := errorCode(wrapped); got != ErrCodeThreadNotFound {
		t.Fatalf("wrapped error lost its code: %q", got)
	}
}

func TestErrorStatus_ByClass(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{ErrCodeNotAuthed, http.StatusUnauthorized},
		{ErrCodeInvalidAuth, http.StatusUnauthorized},
		{ErrCodeCantUpdateMessage, http.StatusForbidden},
		{ErrCodeCantDeleteMessage, http.StatusForbidden},
		{ErrCodeChannelNotFound, http.StatusNotFound},
		{ErrCodeMessageNotFound, http.StatusNotFound},
		{ErrCodeThreadNotFound, http.StatusNotFound},
		{ErrCodeUserNotFound, http.StatusNotFound},
		{ErrCodeTeamNotFound, http.StatusNotFound},
		{ErrCodeNoReaction, http.StatusNotFound},
		{ErrCodeUnknownMethod, http.StatusNotFound},
		{ErrCodeAlreadyReacted, http.StatusConflict},
		{ErrCodeNameTaken, http.StatusConflict},
		{ErrCodeAlreadyInChannel, http.StatusConflict},
		{ErrCodeInvalidArguments, http.StatusBadRequest},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := errorStatus(tc.code); got != tc.want {
			t.Fatalf("errorStatus(%q) = %d; want %d", tc.code, got, tc.want)
		}
	}
}
