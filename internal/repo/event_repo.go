// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the inbound
// event log.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
)

// CreateEnvelope appends an event envelope to the log.
func CreateEnvelope(ctx context.Context, db *gorm.DB, e *domain.EventEnvelope) (*domain.EventEnvelope, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// CreateEventAuthorization records that userID is entitled to see the
// envelope.
func CreateEventAuthorization(ctx context.Context, db *gorm.DB, envelopeID, userID string) error {
	a := &domain.EventAuthorization{
		ID:         uuid.NewString(),
		EnvelopeID: envelopeID,
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(a).Error
}

// GetEnvelopeByEventID fetches an envelope by its platform event ID,
// or ErrNotFound.
func GetEnvelopeByEventID(ctx context.Context, db *gorm.DB, eventID string) (*domain.EventEnvelope, error) {
	var e domain.EventEnvelope
	if err := db.WithContext(ctx).First(&e, "event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEventAuthorizations returns the user IDs authorized on an envelope.
func ListEventAuthorizations(ctx context.Context, db *gorm.DB, envelopeID string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.EventAuthorization{}).
		Where("envelope_id = ?", envelopeID).
		Order("user_id ASC").
		Pluck("user_id", &out).Error
	return out, err
}
