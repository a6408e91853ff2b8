// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for reactions.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
)

// CreateReaction inserts a reaction row. A duplicate (message, user,
// emoji) triple surfaces as a unique-constraint error from the driver;
// callers map it with IsUniqueViolation.
func CreateReaction(ctx context.Context, db *gorm.DB, messageID, userID, emoji string) (*domain.Reaction, error) {
	r := &domain.Reaction{
		ID:        uuid.NewString(),
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReaction removes the triple and returns ErrNotFound when no such
// reaction exists.
func DeleteReaction(ctx context.Context, db *gorm.DB, messageID, userID, emoji string) error {
	res := db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		Delete(&domain.Reaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListReactions returns all reactions on a message in creation order.
func ListReactions(ctx context.Context, db *gorm.DB, messageID string) ([]domain.Reaction, error) {
	var out []domain.Reaction
	err := db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListReactionsForMessages returns the reactions of several messages in
// one query, for history assembly.
func ListReactionsForMessages(ctx context.Context, db *gorm.DB, messageIDs []string) ([]domain.Reaction, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var out []domain.Reaction
	err := db.WithContext(ctx).
		Where("message_id IN ?", messageIDs).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
