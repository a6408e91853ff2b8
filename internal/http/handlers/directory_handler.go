// Workspace directory HTTP handlers.
//
// This file exposes the read-only directory methods:
//   - GET/POST /api/users.list
//   - GET/POST /api/users.info
//   - GET/POST /api/team.info
//   - GET/POST /api/auth.test
package handlers

import "github.com/gin-gonic/gin"

// ListUsersRequest pages the workspace user listing.
type ListUsersRequest struct {
	Cursor string `form:"cursor" json:"cursor"`
	Limit  int    `form:"limit"  json:"limit"`
}

// UserInfoRequest addresses one user.
type UserInfoRequest struct {
	User string `form:"user" json:"user"`
}

// ListUsers returns one page of the caller's workspace users.
func (h *Handlers) ListUsers(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req ListUsersRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	users, next, err := h.dir.ListUsers(c.Request.Context(), ident, req.Cursor, req.Limit)
	if err != nil {
		failErr(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userJSON(&users[i]))
	}
	ok(c, gin.H{
		"members":           out,
		"response_metadata": nextCursorMeta(next),
	})
}

// UserInfo returns one user's profile.
func (h *Handlers) UserInfo(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	var req UserInfoRequest
	if err := c.ShouldBind(&req); err != nil || req.User == "" {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	u, err := h.dir.GetUser(c.Request.Context(), ident, req.User)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"user": userJSON(u)})
}

// TeamInfo returns the caller's workspace metadata.
func (h *Handlers) TeamInfo(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	w, err := h.dir.GetWorkspace(c.Request.Context(), ident)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"team": gin.H{
		"id":     w.ID,
		"name":   w.Name,
		"domain": w.Domain,
	}})
}

// AuthTest echoes the authenticated identity back to the caller; it is the
// standard credential smoke test.
func (h *Handlers) AuthTest(c *gin.Context) {
	ident, found := identity(c)
	if !found {
		return
	}
	who, err := h.dir.Identify(c.Request.Context(), ident)
	if err != nil {
		failErr(c, err)
		return
	}
	body := gin.H{
		"team_id": who.WorkspaceID,
		"team":    who.Workspace,
		"user_id": who.UserID,
		"user":    who.User,
	}
	if who.IsBot {
		body["bot_id"] = who.UserID
	}
	ok(c, body)
}
