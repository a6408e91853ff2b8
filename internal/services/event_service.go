// Package services – EventService
//
// The event dispatcher ingests inbound webhook payloads. A
// url_verification payload is answered with its challenge and leaves no
// trace; an event_callback is persisted to the append-only envelope log
// and its side effects are applied to workspace state, all inside a
// single transaction. Replays of an already-seen event ID are absorbed
// without reapplying side effects.
package services

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
	"github.com/tbourn/go-slack-sim/internal/id"
	"github.com/tbourn/go-slack-sim/internal/repo"
)

// Outer payload types on the events endpoint.
const (
	EventTypeURLVerification = "url_verification"
	EventTypeCallback        = "event_callback"
)

// Inner event types with modeled side effects.
const (
	InnerEventMessage         = "message"
	InnerEventMemberJoined    = "member_joined_channel"
	InnerEventMemberLeft      = "member_left_channel"
	InnerEventReactionAdded   = "reaction_added"
	InnerEventReactionRemoved = "reaction_removed"
)

// InboundEvent is the outer payload of the events endpoint: either a
// url_verification handshake or an event_callback envelope.
type InboundEvent struct {
	Token          string          `json:"token"`
	Type           string          `json:"type"`
	Challenge      string          `json:"challenge,omitempty"`
	TeamID         string          `json:"team_id,omitempty"`
	APIAppID       string          `json:"api_app_id,omitempty"`
	Event          json.RawMessage `json:"event,omitempty"`
	EventID        string          `json:"event_id,omitempty"`
	EventTime      int64           `json:"event_time,omitempty"`
	EventContext   string          `json:"event_context,omitempty"`
	Authorizations []AuthClaim     `json:"authorizations,omitempty"`
}

// AuthClaim names one identity an event_callback is authorized for.
type AuthClaim struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	IsBot  bool   `json:"is_bot"`
}

// innerEvent is the union of the fields carried by the modeled inner
// event types. Unknown types are persisted without interpretation.
type innerEvent struct {
	Type     string       `json:"type"`
	Channel  string       `json:"channel"`
	User     string       `json:"user"`
	Text     string       `json:"text"`
	TS       string       `json:"ts"`
	ThreadTS string       `json:"thread_ts"`
	Reaction string       `json:"reaction"`
	Item     reactionItem `json:"item"`
}

// reactionItem addresses the message a reaction event refers to.
type reactionItem struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

// DispatchResult reports the outcome of one inbound payload.
type DispatchResult struct {
	// Handshake marks a url_verification payload; Challenge carries its
	// challenge for the handler to echo back verbatim.
	Handshake bool
	Challenge string

	// EventID identifies the persisted envelope for event_callback
	// payloads.
	EventID string

	// Duplicate is set when the event ID was already ingested; nothing
	// was persisted or applied.
	Duplicate bool
}

// EventService ingests inbound webhook payloads.
type EventService struct {
	DB  *gorm.DB
	Gen *id.Generator
}

// NewEventService constructs an EventService.
func NewEventService(db *gorm.DB, gen *id.Generator) *EventService {
	return &EventService{DB: db, Gen: gen}
}

// HandleInbound parses and dispatches one payload from the events
// endpoint. Malformed JSON and unknown outer types fail with
// ErrInvalidArgument.
func (s *EventService) HandleInbound(ctx context.Context, payload []byte) (*DispatchResult, error) {
	var in InboundEvent
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, ErrInvalidArgument
	}

	switch in.Type {
	case EventTypeURLVerification:
		return &DispatchResult{Handshake: true, Challenge: in.Challenge}, nil
	case EventTypeCallback:
		return s.handleCallback(ctx, &in)
	default:
		return nil, ErrInvalidArgument
	}
}

// handleCallback persists the envelope, its authorizations, and the inner
// event's side effects in one transaction. A replayed event ID short-
// circuits before the transaction.
func (s *EventService) handleCallback(ctx context.Context, in *InboundEvent) (*DispatchResult, error) {
	if len(in.Event) == 0 || in.TeamID == "" {
		return nil, ErrInvalidArgument
	}
	var inner innerEvent
	if err := json.Unmarshal(in.Event, &inner); err != nil || inner.Type == "" {
		return nil, ErrInvalidArgument
	}

	eventID := in.EventID
	if eventID == "" {
		eventID = id.New(id.KindEvent)
	}

	if _, err := repo.GetEnvelopeByEventID(ctx, s.DB, eventID); err == nil {
		return &DispatchResult{EventID: eventID, Duplicate: true}, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	envelope := &domain.EventEnvelope{
		EventID:     eventID,
		Token:       in.Token,
		WorkspaceID: in.TeamID,
		AppID:       in.APIAppID,
		Type:        inner.Type,
		EventTime:   in.EventTime,
		Payload:     string(in.Event),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := repo.CreateEnvelope(ctx, tx, envelope)
		if err != nil {
			if repo.IsUniqueViolation(err) {
				// lost a race with a concurrent replay
				return nil
			}
			return err
		}
		for _, claim := range in.Authorizations {
			if claim.UserID == "" {
				continue
			}
			if err := repo.CreateEventAuthorization(ctx, tx, created.ID, claim.UserID); err != nil {
				if repo.IsUniqueViolation(err) {
					continue
				}
				return err
			}
		}
		return s.applySideEffects(ctx, tx, in.TeamID, &inner)
	})
	if err != nil {
		return nil, err
	}
	return &DispatchResult{EventID: eventID}, nil
}

// applySideEffects mutates workspace state according to the inner event.
// Effects are tolerant of already-true facts (existing membership,
// existing reaction) because events describe the outside world rather
// than request it; structural references must still resolve.
func (s *EventService) applySideEffects(ctx context.Context, tx *gorm.DB, teamID string, inner *innerEvent) error {
	switch inner.Type {
	case InnerEventMessage:
		return s.applyMessage(ctx, tx, teamID, inner)

	case InnerEventMemberJoined:
		if inner.Channel == "" || inner.User == "" {
			return ErrInvalidArgument
		}
		if err := s.requireChannel(ctx, tx, teamID, inner.Channel); err != nil {
			return err
		}
		// Membership rows reference user rows; an event naming an unknown
		// user must fail before the insert trips the constraint.
		if err := s.requireUser(ctx, tx, teamID, inner.User); err != nil {
			return err
		}
		if _, err := repo.CreateMembership(ctx, tx, inner.User, inner.Channel); err != nil && !repo.IsUniqueViolation(err) {
			return err
		}
		return nil

	case InnerEventMemberLeft:
		if inner.Channel == "" || inner.User == "" {
			return ErrInvalidArgument
		}
		if err := s.requireChannel(ctx, tx, teamID, inner.Channel); err != nil {
			return err
		}
		if err := repo.DeleteMembership(ctx, tx, inner.User, inner.Channel); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		return nil

	case InnerEventReactionAdded:
		msg, err := s.requireMessage(ctx, tx, teamID, inner.Item.Channel, inner.Item.TS)
		if err != nil {
			return err
		}
		if inner.Reaction == "" || inner.User == "" {
			return ErrInvalidArgument
		}
		if _, err := repo.CreateReaction(ctx, tx, msg.ID, inner.User, inner.Reaction); err != nil && !repo.IsUniqueViolation(err) {
			return err
		}
		return nil

	case InnerEventReactionRemoved:
		msg, err := s.requireMessage(ctx, tx, teamID, inner.Item.Channel, inner.Item.TS)
		if err != nil {
			return err
		}
		if inner.Reaction == "" || inner.User == "" {
			return ErrInvalidArgument
		}
		if err := repo.DeleteReaction(ctx, tx, msg.ID, inner.User, inner.Reaction); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		return nil

	default:
		// unmodeled event type: the envelope is the whole effect
		return nil
	}
}

// applyMessage materializes a message event, honoring a supplied ts key
// and maintaining thread reply counts exactly like an API post.
func (s *EventService) applyMessage(ctx context.Context, tx *gorm.DB, teamID string, inner *innerEvent) error {
	if inner.Channel == "" || inner.User == "" {
		return ErrInvalidArgument
	}
	if err := s.requireChannel(ctx, tx, teamID, inner.Channel); err != nil {
		return err
	}

	threadTS := inner.ThreadTS
	if threadTS != "" {
		root, err := repo.GetMessageAny(ctx, tx, inner.Channel, threadTS)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrThreadNotFound
			}
			return err
		}
		if root.DeletedAt.Valid {
			return ErrThreadNotFound
		}
		if root.IsThreadReply() {
			threadTS = root.ThreadTS
		}
	}

	ts := inner.TS
	if ts == "" {
		ts = s.Gen.MessageKey(inner.Channel)
	}
	msg := &domain.Message{
		TS:        ts,
		ChannelID: inner.Channel,
		UserID:    inner.User,
		Text:      inner.Text,
		ThreadTS:  threadTS,
	}
	if _, err := repo.CreateMessage(ctx, tx, msg); err != nil {
		if repo.IsUniqueViolation(err) {
			return ErrInvalidArgument
		}
		return err
	}
	if msg.IsThreadReply() {
		return repo.AdjustReplyCount(ctx, tx, inner.Channel, msg.ThreadTS, +1)
	}
	return nil
}

func (s *EventService) requireChannel(ctx context.Context, tx *gorm.DB, teamID, channelID string) error {
	ch, err := repo.GetChannel(ctx, tx, channelID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrChannelNotFound
		}
		return err
	}
	if ch.WorkspaceID != teamID {
		return ErrChannelNotFound
	}
	return nil
}

func (s *EventService) requireUser(ctx context.Context, tx *gorm.DB, teamID, userID string) error {
	u, err := repo.GetUser(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.WorkspaceID != teamID {
		return ErrUserNotFound
	}
	return nil
}

func (s *EventService) requireMessage(ctx context.Context, tx *gorm.DB, teamID, channelID, ts string) (*domain.Message, error) {
	if channelID == "" || ts == "" {
		return nil, ErrInvalidArgument
	}
	if err := s.requireChannel(ctx, tx, teamID, channelID); err != nil {
		return nil, err
	}
	msg, err := repo.GetMessage(ctx, tx, channelID, ts)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}
