// Conversation HTTP handlers.
//
// This file exposes the conversation API methods:
//   - GET/POST /api/conversations.list
//   - GET/POST /api/conversations.history
//   - GET/POST /api/conversations.replies
//   - GET/POST /api/conversations.info
//   - POST     /api/conversations.create
//   - POST     /api/conversations.join
//   - GET/POST /api/conversations.members
//
// Read methods accept parameters from the query string or a form/JSON
// body interchangeably; DTO tags cover both bindings.
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-slack-sim/internal/domain"
)

//
// DTOs
//

// ListConversationsRequest selects and pages the channel listing.
type ListConversationsRequest struct {
	// Types is a comma-separated subset of public_channel, private_channel,
	// mpim, im. Defaults to public_channel.
	Types  string `form:"types"  json:"types"`
	Cursor string `form:"cursor" json:"cursor"`
	Limit  int    `form:"limit"  json:"limit"`
}

// HistoryRequest pages a channel's top-level messages.
type HistoryRequest struct {
	Channel   string `form:"channel"   json:"channel"`
	Cursor    string `form:"cursor"    json:"cursor"`
	Limit     int    `form:"limit"     json:"limit"`
	Oldest    string `form:"oldest"    json:"oldest"`
	Latest    string `form:"latest"    json:"latest"`
	Inclusive bool   `form:"inclusive" json:"inclusive"`
}

// RepliesRequest addresses a thread by channel and root ts.
type RepliesRequest struct {
	Channel string `form:"channel" json:"channel"`
	TS      string `form:"ts"      json:"ts"`
}

// ChannelRequest addresses a single channel.
type ChannelRequest struct {
	Channel string `form:"channel" json:"channel"`
}

// CreateConversationRequest provisions a channel.
type CreateConversationRequest struct {
	Name      string `form:"name"       json:"name"`
	IsPrivate bool   `form:"is_private" json:"is_private"`
}

// MembersRequest pages a channel's member listing.
type MembersRequest struct {
	Channel string `form:"channel" json:"channel"`
	Cursor  string `form:"cursor"  json:"cursor"`
	Limit   int    `form:"limit"   json:"limit"`
}

// channelTypesFromAPI maps the API's type names onto the stored channel
// types, dropping unknown names. A nil result means "public channels only".
func channelTypesFromAPI(types string) []string {
	if strings.TrimSpace(types) == "" {
		return []string{domain.ChannelTypePublic}
	}
	var out []string
	seen := make(map[string]bool)
	for _, t := range strings.Split(types, ",") {
		var stored string
		switch strings.TrimSpace(t) {
		case "public_channel":
			stored = domain.ChannelTypePublic
		case "private_channel", "mpim":
			stored = domain.ChannelTypePrivate
		case "im":
			stored = domain.ChannelTypeIM
		default:
			continue
		}
		if !seen[stored] {
			seen[stored] = true
			out = append(out, stored)
		}
	}
	if len(out) == 0 {
		return []string{domain.ChannelTypePublic}
	}
	return out
}

//
// Handlers
//

// ListConversations returns one page of channels visible to the caller.
func (h *Handlers) ListConversations(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req ListConversationsRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	channels, next, err := h.conv.List(c.Request.Context(), ident, channelTypesFromAPI(req.Types), req.Cursor, req.Limit)
	if err != nil {
		failErr(c, err)
		return
	}

	out := make([]gin.H, 0, len(channels))
	for i := range channels {
		out = append(out, channelJSON(&channels[i]))
	}
	ok(c, gin.H{
		"channels":          out,
		"response_metadata": nextCursorMeta(next),
	})
}

// ConversationHistory returns one page of a channel's top-level messages,
// newest first.
func (h *Handlers) ConversationHistory(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req HistoryRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	msgs, next, err := h.conv.History(c.Request.Context(), ident, req.Channel, req.Cursor, req.Limit, req.Oldest, req.Latest, req.Inclusive)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{
		"messages":          msgs,
		"has_more":          next != "",
		"response_metadata": nextCursorMeta(next),
	})
}

// ConversationReplies returns a thread: the root message followed by its
// live replies in creation order.
func (h *Handlers) ConversationReplies(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req RepliesRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" || req.TS == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	msgs, err := h.conv.Replies(c.Request.Context(), ident, req.Channel, req.TS)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"messages": msgs})
}

// ConversationInfo returns a channel's metadata with its member count.
func (h *Handlers) ConversationInfo(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req ChannelRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	ch, members, err := h.conv.Info(c.Request.Context(), ident, req.Channel)
	if err != nil {
		failErr(c, err)
		return
	}
	view := channelJSON(ch)
	view["num_members"] = members
	ok(c, gin.H{"channel": view})
}

// CreateConversation provisions a new channel in the caller's workspace.
func (h *Handlers) CreateConversation(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req CreateConversationRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	ch, err := h.conv.Create(c.Request.Context(), ident, req.Name, req.IsPrivate)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"channel": channelJSON(ch)})
}

// JoinConversation adds the caller to a channel.
func (h *Handlers) JoinConversation(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req ChannelRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	ch, err := h.conv.Join(c.Request.Context(), ident, req.Channel)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"channel": channelJSON(ch)})
}

// ConversationMembers returns one page of a channel's member user IDs.
func (h *Handlers) ConversationMembers(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req MembersRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	members, next, err := h.conv.Members(c.Request.Context(), ident, req.Channel, req.Cursor, req.Limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{
		"members":           members,
		"response_metadata": nextCursorMeta(next),
	})
}
