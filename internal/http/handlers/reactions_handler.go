// Reaction HTTP handlers.
//
// This file exposes:
//   - POST /api/reactions.add
//   - POST /api/reactions.remove
//
// Both operate on the (message, emoji, caller) triple; duplicates and
// absent reactions are reported explicitly rather than absorbed.
package handlers

import "github.com/gin-gonic/gin"

// ReactionRequest addresses one emoji reaction on one message.
type ReactionRequest struct {
	Channel   string `form:"channel"   json:"channel"`
	Timestamp string `form:"timestamp" json:"timestamp"`
	Name      string `form:"name"      json:"name"`
}

// AddReaction records the caller's emoji reaction on a message.
func (h *Handlers) AddReaction(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req ReactionRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" || req.Timestamp == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	if err := h.react.Add(c.Request.Context(), ident, req.Channel, req.Timestamp, req.Name); err != nil {
		failErr(c, err)
		return
	}
	ok(c, nil)
}

// RemoveReaction deletes the caller's emoji reaction from a message.
func (h *Handlers) RemoveReaction(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req ReactionRequest
	if err := c.ShouldBind(&req); err != nil || req.Channel == "" || req.Timestamp == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	if err := h.react.Remove(c.Request.Context(), ident, req.Channel, req.Timestamp, req.Name); err != nil {
		failErr(c, err)
		return
	}
	ok(c, nil)
}
