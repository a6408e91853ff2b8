// Package services – ReactionService
//
// Reactions are rows keyed by the (message, emoji, user) triple; a
// duplicate add is reported as a conflict rather than silently absorbed,
// and removing an absent reaction is equally explicit. Per-emoji counts
// are never stored; views aggregate at read time.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
	"github.com/tbourn/go-slack-sim/internal/repo"
)

// ReactionService implements adding and removing emoji reactions.
type ReactionService struct {
	DB *gorm.DB
}

// NewReactionService constructs a ReactionService.
func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{DB: db}
}

// liveMessage resolves (channel, ts) to a live message in ident's
// workspace. Deleted messages are indistinguishable from missing ones.
func (s *ReactionService) liveMessage(ctx context.Context, ident Identity, channelID, ts string) (*domain.Message, error) {
	ch, err := repo.GetChannel(ctx, s.DB, channelID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	if ch.WorkspaceID != ident.WorkspaceID {
		return nil, ErrChannelNotFound
	}
	msg, err := repo.GetMessage(ctx, s.DB, channelID, ts)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}

// Add records ident's emoji reaction on the message. A second identical
// add fails with ErrAlreadyReacted.
func (s *ReactionService) Add(ctx context.Context, ident Identity, channelID, ts, emoji string) error {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return ErrInvalidArgument
	}
	msg, err := s.liveMessage(ctx, ident, channelID, ts)
	if err != nil {
		return err
	}
	if _, err := repo.CreateReaction(ctx, s.DB, msg.ID, ident.ActorID(), emoji); err != nil {
		if repo.IsUniqueViolation(err) {
			return ErrAlreadyReacted
		}
		return err
	}
	return nil
}

// Remove deletes ident's emoji reaction from the message. Removing a
// reaction that was never added fails with ErrNoReaction.
func (s *ReactionService) Remove(ctx context.Context, ident Identity, channelID, ts, emoji string) error {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return ErrInvalidArgument
	}
	msg, err := s.liveMessage(ctx, ident, channelID, ts)
	if err != nil {
		return err
	}
	if err := repo.DeleteReaction(ctx, s.DB, msg.ID, ident.ActorID(), emoji); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNoReaction
		}
		return err
	}
	return nil
}
