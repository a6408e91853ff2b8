// Package handlers – response view builders.
//
// API object shapes differ slightly from the stored rows (type flags,
// nested profile, unix creation time), so the builders here assemble the
// wire form from domain models in one place.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-slack-sim/internal/domain"
)

// channelJSON renders a channel in its wire shape, with the boolean type
// flags clients switch on.
func channelJSON(ch *domain.Channel) gin.H {
	return gin.H{
		"id":              ch.ID,
		"team_id":         ch.WorkspaceID,
		"name":            ch.Name,
		"name_normalized": ch.NameNormalized,
		"is_channel":      ch.Type == domain.ChannelTypePublic,
		"is_group":        ch.Type == domain.ChannelTypePrivate,
		"is_im":           ch.Type == domain.ChannelTypeIM,
		"is_private":      ch.IsPrivate,
		"created":         ch.CreatedAt.Unix(),
	}
}

// userJSON renders a user in its wire shape with the nested profile block.
func userJSON(u *domain.User) gin.H {
	return gin.H{
		"id":      u.ID,
		"team_id": u.WorkspaceID,
		"name":    u.Handle,
		"is_bot":  u.IsBot,
		"profile": gin.H{
			"display_name": u.DisplayName,
			"real_name":    u.RealName,
			"email":        u.Email,
		},
	}
}
