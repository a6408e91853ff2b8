// Package services implements the simulator's engines: authentication,
// conversations, messaging, reactions, and event ingestion. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into the platform's wire-level error codes and HTTP statuses
// is performed at the handler layer.
package services

import "errors"

// Authentication errors.
var (
	// ErrNoAuth is returned when no credential accompanies the request.
	ErrNoAuth = errors.New("no authentication token provided")

	// ErrInvalidAuth is returned when the credential is malformed (below
	// the minimum length, rejected without a lookup) or unknown.
	ErrInvalidAuth = errors.New("invalid authentication token")
)

// Entity lookup errors.
var (
	// ErrChannelNotFound indicates the channel does not exist or is not
	// visible to the acting identity.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrMessageNotFound indicates the message does not exist or has been
	// deleted.
	ErrMessageNotFound = errors.New("message not found")

	// ErrThreadNotFound indicates a thread reference points at a missing,
	// deleted, or cross-channel root.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrWorkspaceNotFound indicates the acting identity's workspace is gone.
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// Mutation conflicts and policy violations.
var (
	// ErrAlreadyReacted is returned when the (message, emoji, user) triple
	// already exists; the duplicate is reported, never silently ignored.
	ErrAlreadyReacted = errors.New("already reacted")

	// ErrNoReaction is returned when removing a reaction that does not exist.
	ErrNoReaction = errors.New("no reaction to remove")

	// ErrNameTaken is returned when creating a channel whose normalized
	// name already exists in the workspace.
	ErrNameTaken = errors.New("channel name already taken")

	// ErrAlreadyInChannel is returned when joining a channel twice.
	ErrAlreadyInChannel = errors.New("already in channel")

	// ErrCantUpdateMessage is returned when an identity other than the
	// author attempts to edit a message.
	ErrCantUpdateMessage = errors.New("cannot update this message")

	// ErrCantDeleteMessage is returned when an identity other than the
	// author attempts to delete a message.
	ErrCantDeleteMessage = errors.New("cannot delete this message")
)

// Argument errors.
var (
	// ErrInvalidCursor is returned when a pagination cursor fails to decode.
	// Externally tampered cursors land here, never in a crash.
	ErrInvalidCursor = errors.New("invalid pagination cursor")

	// ErrInvalidArgument is returned for malformed request values that
	// have no more specific error above.
	ErrInvalidArgument = errors.New("invalid argument")
)
