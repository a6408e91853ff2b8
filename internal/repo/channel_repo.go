// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for channels and
// channel memberships.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
)

// CreateChannel inserts a new channel row.
func CreateChannel(ctx context.Context, db *gorm.DB, ch *domain.Channel) (*domain.Channel, error) {
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(ch).Error; err != nil {
		return nil, err
	}
	return ch, nil
}

// GetChannel fetches a channel by ID, or ErrNotFound.
func GetChannel(ctx context.Context, db *gorm.DB, id string) (*domain.Channel, error) {
	var ch domain.Channel
	if err := db.WithContext(ctx).First(&ch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

// ChannelNameExists reports whether a channel with the given normalized
// name already exists in the workspace.
func ChannelNameExists(ctx context.Context, db *gorm.DB, workspaceID, normalized string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Channel{}).
		Where("workspace_id = ? AND name_normalized = ?", workspaceID, normalized).
		Count(&n).Error
	return n > 0, err
}

// visibleChannels narrows a channel query to those the user may see:
// public channels plus private/DM channels the user is a member of.
func visibleChannels(q *gorm.DB, userID string) *gorm.DB {
	return q.Where(
		"is_private = ? OR id IN (SELECT channel_id FROM channel_members WHERE user_id = ?)",
		false, userID,
	)
}

// ListChannelsBefore returns up to limit channels of a workspace visible
// to userID, restricted to the given types, ordered by creation time
// descending with ID descending as tiebreak. beforeTime/beforeID bound
// the page (zero values for the first page); callers pass limit+1 to
// probe for a further page.
func ListChannelsBefore(ctx context.Context, db *gorm.DB, workspaceID, userID string, types []string, beforeTime time.Time, beforeID string, limit int) ([]domain.Channel, error) {
	q := db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	q = visibleChannels(q, userID)
	if !beforeTime.IsZero() {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", beforeTime, beforeTime, beforeID)
	}
	var out []domain.Channel
	err := q.Find(&out).Error
	return out, err
}

// CreateMembership inserts a (user, channel) membership pair. A duplicate
// pair or a missing side surfaces as a constraint error from the driver.
func CreateMembership(ctx context.Context, db *gorm.DB, userID, channelID string) (*domain.ChannelMember, error) {
	m := &domain.ChannelMember{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChannelID: channelID,
		JoinedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMembership removes a membership pair; missing rows are a no-op.
func DeleteMembership(ctx context.Context, db *gorm.DB, userID, channelID string) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		Delete(&domain.ChannelMember{}).Error
}

// IsMember reports whether userID belongs to channelID.
func IsMember(ctx context.Context, db *gorm.DB, userID, channelID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ChannelMember{}).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		Count(&n).Error
	return n > 0, err
}

// CountMembers returns the membership count for a channel.
func CountMembers(ctx context.Context, db *gorm.DB, channelID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ChannelMember{}).
		Where("channel_id = ?", channelID).
		Count(&n).Error
	return n, err
}

// ListMemberIDsAfter returns up to limit member user IDs of a channel
// ordered ascending, starting strictly after afterID (empty for the first
// page). Callers pass limit+1 to probe for a further page.
func ListMemberIDsAfter(ctx context.Context, db *gorm.DB, channelID, afterID string, limit int) ([]string, error) {
	q := db.WithContext(ctx).
		Model(&domain.ChannelMember{}).
		Where("channel_id = ?", channelID).
		Order("user_id ASC").
		Limit(limit)
	if afterID != "" {
		q = q.Where("user_id > ?", afterID)
	}
	var out []string
	err := q.Pluck("user_id", &out).Error
	return out, err
}
