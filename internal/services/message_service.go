// Package services – MessageService
//
// The messaging engine owns every message mutation: posting (top-level
// and threaded), editing, and soft deletion. It is the only writer of
// the denormalized reply_count column, and it adjusts that counter in
// the same transaction as the reply insert or delete so the two can
// never diverge.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
	"github.com/tbourn/go-slack-sim/internal/id"
	"github.com/tbourn/go-slack-sim/internal/repo"
)

// MessageService implements posting, editing, and deleting messages.
type MessageService struct {
	DB  *gorm.DB
	Gen *id.Generator
}

// NewMessageService constructs a MessageService. gen supplies the
// per-channel strictly increasing message keys.
func NewMessageService(db *gorm.DB, gen *id.Generator) *MessageService {
	return &MessageService{DB: db, Gen: gen}
}

// targetChannel loads the channel a mutation addresses and checks it
// belongs to ident's workspace. Membership is deliberately not required
// to post; any workspace identity may write to any channel it can name.
func (s *MessageService) targetChannel(ctx context.Context, ident Identity, channelID string) (*domain.Channel, error) {
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
	return ch, nil
}

// Post appends a message to the channel. A non-empty threadTS makes it a
// thread reply: the root must exist and be live, and the root's reply
// count is incremented in the same transaction as the insert. Replying
// to a reply re-roots onto that reply's thread.
func (s *MessageService) Post(ctx context.Context, ident Identity, channelID, text, threadTS string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidArgument
	}
	if _, err := s.targetChannel(ctx, ident, channelID); err != nil {
		return nil, err
	}

	if threadTS != "" {
		root, err := repo.GetMessageAny(ctx, s.DB, channelID, threadTS)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrThreadNotFound
			}
			return nil, err
		}
		if root.DeletedAt.Valid {
			return nil, ErrThreadNotFound
		}
		if root.IsThreadReply() {
			threadTS = root.ThreadTS
		}
	}

	msg := &domain.Message{
		TS:        s.Gen.MessageKey(channelID),
		ChannelID: channelID,
		UserID:    ident.ActorID(),
		Text:      text,
		ThreadTS:  threadTS,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.CreateMessage(ctx, tx, msg); err != nil {
			return err
		}
		if msg.IsThreadReply() {
			return repo.AdjustReplyCount(ctx, tx, channelID, msg.ThreadTS, +1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Update replaces the text of a live message authored by ident. The ts
// key never changes, so the message keeps its position in history; an
// edited marker is stamped instead.
func (s *MessageService) Update(ctx context.Context, ident Identity, channelID, ts, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidArgument
	}
	if _, err := s.targetChannel(ctx, ident, channelID); err != nil {
		return nil, err
	}

	msg, err := repo.GetMessage(ctx, s.DB, channelID, ts)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if msg.UserID != ident.ActorID() {
		return nil, ErrCantUpdateMessage
	}

	editedTS := s.Gen.MessageKey(channelID)
	if err := repo.UpdateMessageText(ctx, s.DB, channelID, ts, text, editedTS); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	msg.Text = text
	msg.EditedTS = editedTS
	return msg, nil
}

// Delete soft-deletes a live message authored by ident. Deleting a
// thread reply decrements the root's reply count in the same
// transaction; deleting a root leaves its replies in place but makes the
// thread unreachable through the replies endpoint.
func (s *MessageService) Delete(ctx context.Context, ident Identity, channelID, ts string) (*domain.Message, error) {
	if _, err := s.targetChannel(ctx, ident, channelID); err != nil {
		return nil, err
	}

	msg, err := repo.GetMessage(ctx, s.DB, channelID, ts)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if msg.UserID != ident.ActorID() {
		return nil, ErrCantDeleteMessage
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.SoftDeleteMessage(ctx, tx, channelID, ts); err != nil {
			return err
		}
		if msg.IsThreadReply() {
			return repo.AdjustReplyCount(ctx, tx, channelID, msg.ThreadTS, -1)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}
