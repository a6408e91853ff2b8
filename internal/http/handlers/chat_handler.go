// Chat HTTP handlers.
//
// This file exposes the message mutation methods:
//   - POST /api/chat.postMessage
//   - POST /api/chat.update
//   - POST /api/chat.delete
//
// All three attribute the mutation to the authenticated identity; update
// and delete additionally enforce authorship.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-slack-sim/internal/services"
)

//
// DTOs
//

// PostMessageRequest is the payload for posting a message. A non-empty
// ThreadTS makes the message a reply in that thread.
type PostMessageRequest struct {
	Channel  string `form:"channel"   json:"channel"`
	Text     string `form:"text"      json:"text"`
	ThreadTS string `form:"thread_ts" json:"thread_ts"`
}

// UpdateMessageRequest replaces the text of an existing message.
type UpdateMessageRequest struct {
	Channel string `form:"channel" json:"channel"`
	TS      string `form:"ts"      json:"ts"`
	Text    string `form:"text"    json:"text"`
}

// DeleteMessageRequest addresses the message to delete.
type DeleteMessageRequest struct {
	Channel string `form:"channel" json:"channel"`
	TS      string `form:"ts"      json:"ts"`
}

//
// Handlers
//

// PostMessage appends a message to a channel (or a thread) and returns the
// created message with its ts key.
func (h *Handlers) PostMessage(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req PostMessageRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	msg, err := h.msg.Post(c.Request.Context(), ident, req.Channel, req.Text, req.ThreadTS)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{
		"channel": msg.ChannelID,
		"ts":      msg.TS,
		"message": services.MessageView{Type: "message", Message: *msg},
	})
}

// UpdateMessage replaces a message's text in place. The ts key is stable
// across edits, so the message keeps its position in history.
func (h *Handlers) UpdateMessage(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req UpdateMessageRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" || req.TS == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	msg, err := h.msg.Update(c.Request.Context(), ident, req.Channel, req.TS, req.Text)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{
		"channel": msg.ChannelID,
		"ts":      msg.TS,
		"text":    msg.Text,
	})
}

// DeleteMessage soft-deletes a message. Subsequent reads treat the ts as
// gone; reaction and update attempts report message_not_found.
func (h *Handlers) DeleteMessage(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req DeleteMessageRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" || req.TS == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	msg, err := h.msg.Delete(c.Request.Context(), ident, req.Channel, req.TS)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{
		"channel": msg.ChannelID,
		"ts":      msg.TS,
	})
}
