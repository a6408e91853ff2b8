// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for messages.
//
// Messages are addressed externally by (channel, ts); the uuid primary key
// exists only to give reactions a stable foreign key. Soft-deleted rows
// are invisible to the scoped queries here; audit paths use the Unscoped
// variants explicitly.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
)

// CreateMessage inserts a new message row. The caller provides the ts key
// (from the id generator) and, for thread replies, the parent thread ts.
func CreateMessage(ctx context.Context, db *gorm.DB, m *domain.Message) (*domain.Message, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// GetMessage fetches a live (non-deleted) message by channel and ts,
// or ErrNotFound.
func GetMessage(ctx context.Context, db *gorm.DB, channelID, ts string) (*domain.Message, error) {
	var m domain.Message
	err := db.WithContext(ctx).
		Where("channel_id = ? AND ts = ?", channelID, ts).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMessageAny fetches a message by channel and ts including soft-deleted
// rows. Audit and thread-validation paths use it to distinguish "never
// existed" from "deleted".
func GetMessageAny(ctx context.Context, db *gorm.DB, channelID, ts string) (*domain.Message, error) {
	var m domain.Message
	err := db.WithContext(ctx).Unscoped().
		Where("channel_id = ? AND ts = ?", channelID, ts).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListHistoryBefore returns up to limit live top-level messages of a
// channel (thread replies excluded) ordered by ts descending. beforeTS
// bounds the page exclusively (empty for the first page); oldest/latest
// optionally bound the ts range, inclusively when inclusive is set.
// Callers pass limit+1 to probe for a further page.
func ListHistoryBefore(ctx context.Context, db *gorm.DB, channelID, beforeTS, oldest, latest string, inclusive bool, limit int) ([]domain.Message, error) {
	q := db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Where("thread_ts = '' OR thread_ts = ts").
		Order("ts DESC").
		Limit(limit)
	if beforeTS != "" {
		q = q.Where("ts < ?", beforeTS)
	}
	if oldest != "" {
		if inclusive {
			q = q.Where("ts >= ?", oldest)
		} else {
			q = q.Where("ts > ?", oldest)
		}
	}
	if latest != "" {
		if inclusive {
			q = q.Where("ts <= ?", latest)
		} else {
			q = q.Where("ts < ?", latest)
		}
	}
	var out []domain.Message
	err := q.Find(&out).Error
	return out, err
}

// ListThread returns the live messages of a thread — the root followed by
// its non-deleted replies — in ts ascending (creation) order.
func ListThread(ctx context.Context, db *gorm.DB, channelID, threadTS string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Where("ts = ? OR thread_ts = ?", threadTS, threadTS).
		Order("ts ASC").
		Find(&out).Error
	return out, err
}

// UpdateMessageText sets a message's text and edited-ts marker. The ts key
// and ordering position never change. Returns ErrNotFound when no live row
// matches.
func UpdateMessageText(ctx context.Context, db *gorm.DB, channelID, ts, text, editedTS string) error {
	res := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("channel_id = ? AND ts = ?", channelID, ts).
		Updates(map[string]any{"text": text, "edited_ts": editedTS})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDeleteMessage marks a message deleted. The row remains addressable
// through the Unscoped accessors. Returns ErrNotFound when no live row
// matches.
func SoftDeleteMessage(ctx context.Context, db *gorm.DB, channelID, ts string) error {
	res := db.WithContext(ctx).
		Where("channel_id = ? AND ts = ?", channelID, ts).
		Delete(&domain.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustReplyCount adds delta to a thread root's denormalized reply count.
// Only the messaging engine calls this, always inside the transaction that
// creates or soft-deletes the reply.
func AdjustReplyCount(ctx context.Context, db *gorm.DB, channelID, ts string, delta int) error {
	return db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("channel_id = ? AND ts = ?", channelID, ts).
		UpdateColumn("reply_count", gorm.Expr("reply_count + ?", delta)).Error
}

// CountThreadReplies returns the number of live replies under a thread
// root. History assembly uses the stored reply_count; this exists for
// integrity checks.
func CountThreadReplies(ctx context.Context, db *gorm.DB, channelID, threadTS string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("channel_id = ? AND thread_ts = ? AND ts <> ?", channelID, threadTS, threadTS).
		Count(&n).Error
	return n, err
}
