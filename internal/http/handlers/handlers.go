// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they extract parameters, call application
// services, and translate results into the platform's response envelopes.
// Every response body carries an "ok" boolean; failures add a stable
// machine-readable "error" code (see errors.go).
//
// This file defines the service contracts consumed by the handlers and the
// wiring type that groups all endpoints.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-slack-sim/internal/domain"
	"github.com/tbourn/go-slack-sim/internal/http/middleware"
	"github.com/tbourn/go-slack-sim/internal/services"
)

//
// Service contracts (context-aware)
//

// ConversationAPI defines the conversation read and membership operations
// consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConversationAPI interface {
	List(ctx context.Context, ident services.Identity, types []string, cursor string, limit int) ([]domain.Channel, string, error)
	History(ctx context.Context, ident services.Identity, channelID, cursor string, limit int, oldest, latest string, inclusive bool) ([]services.MessageView, string, error)
	Replies(ctx context.Context, ident services.Identity, channelID, threadTS string) ([]services.MessageView, error)
	Info(ctx context.Context, ident services.Identity, channelID string) (*domain.Channel, int64, error)
	Create(ctx context.Context, ident services.Identity, name string, private bool) (*domain.Channel, error)
	Join(ctx context.Context, ident services.Identity, channelID string) (*domain.Channel, error)
	Members(ctx context.Context, ident services.Identity, channelID, cursor string, limit int) ([]string, string, error)
}

// MessageAPI defines the message mutation operations.
type MessageAPI interface {
	Post(ctx context.Context, ident services.Identity, channelID, text, threadTS string) (*domain.Message, error)
	Update(ctx context.Context, ident services.Identity, channelID, ts, text string) (*domain.Message, error)
	Delete(ctx context.Context, ident services.Identity, channelID, ts string) (*domain.Message, error)
}

// ReactionAPI defines the reaction mutation operations.
type ReactionAPI interface {
	Add(ctx context.Context, ident services.Identity, channelID, ts, emoji string) error
	Remove(ctx context.Context, ident services.Identity, channelID, ts, emoji string) error
}

// EventAPI defines inbound webhook dispatch.
type EventAPI interface {
	HandleInbound(ctx context.Context, payload []byte) (*services.DispatchResult, error)
}

// DirectoryAPI defines workspace directory lookups.
type DirectoryAPI interface {
	ListUsers(ctx context.Context, ident services.Identity, cursor string, limit int) ([]domain.User, string, error)
	GetUser(ctx context.Context, ident services.Identity, userID string) (*domain.User, error)
	GetWorkspace(ctx context.Context, ident services.Identity) (*domain.Workspace, error)
	Identify(ctx context.Context, ident services.Identity) (*services.WhoAmI, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for conversations, messages,
// reactions, events, and the workspace directory. It depends on abstract
// service contracts to keep transport concerns separate from business
// logic.
type Handlers struct {
	conv   ConversationAPI
	msg    MessageAPI
	react  ReactionAPI
	events EventAPI
	dir    DirectoryAPI
}

// New constructs a Handlers instance bound to the given services.
func New(conv ConversationAPI, msg MessageAPI, react ReactionAPI, events EventAPI, dir DirectoryAPI) *Handlers {
	return &Handlers{conv: conv, msg: msg, react: react, events: events, dir: dir}
}

// identity returns the authenticated identity placed in the context by the
// auth middleware. Routes registered behind the guard always find one; the
// not_authed fallback covers misconfigured test routers.
func identity(c *gin.Context) (services.Identity, bool) {
	ident, found := middleware.IdentityFrom(c)
	if !found {
		fail(c, ErrCodeNotAuthed)
		return services.Identity{}, false
	}
	return ident, true
}
