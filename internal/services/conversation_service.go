// Package services – ConversationService
//
// This file implements the conversation engine: channel listing with
// opaque cursor pagination, thread-aware history assembly with read-time
// reaction aggregation, thread reply retrieval, channel info, and the
// provisioning-adjacent operations (create, join, member listing).
//
// Cursors are stateless, forward-only tokens encoding the last-seen
// position; there is no server-side cursor resource to expire or leak.
package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
	"github.com/tbourn/go-slack-sim/internal/id"
	"github.com/tbourn/go-slack-sim/internal/repo"
	"github.com/tbourn/go-slack-sim/internal/utils"
)

// Pagination bounds shared by all cursor-paginated reads. Oversized
// limits are clamped, never rejected.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// ReactionView is the read-time aggregation of one emoji on a message.
type ReactionView struct {
	Name  string   `json:"name"`
	Users []string `json:"users"`
	Count int      `json:"count"`
}

// EditedView marks an edited message in API responses.
type EditedView struct {
	User string `json:"user"`
	TS   string `json:"ts"`
}

// MessageView is a message as exposed by history/replies responses:
// the stored row plus its aggregated reactions and edit marker.
type MessageView struct {
	Type string `json:"type"`
	domain.Message
	Edited    *EditedView    `json:"edited,omitempty"`
	Reactions []ReactionView `json:"reactions,omitempty"`
}

// ConversationService implements listing, history, replies, info, and
// membership operations over the persistence layer.
type ConversationService struct {
	DB *gorm.DB
}

// NewConversationService constructs a ConversationService.
func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{DB: db}
}

// visibleChannel loads a channel and enforces visibility for ident:
// the channel must belong to ident's workspace, and private channels and
// DMs require membership of the acting user. Application identities have
// no user to be a member with, so private channels are invisible to them
// here exactly as they are in List. Invisible channels are
// indistinguishable from missing ones (ErrChannelNotFound).
func (s *ConversationService) visibleChannel(ctx context.Context, ident Identity, channelID string) (*domain.Channel, error) {
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
	if ch.IsPrivate {
		if ident.UserID == "" {
			return nil, ErrChannelNotFound
		}
		member, err := repo.IsMember(ctx, s.DB, ident.UserID, ch.ID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, ErrChannelNotFound
		}
	}
	return ch, nil
}

// List returns one page of channels visible to ident, newest first,
// optionally restricted to the given channel types (storage-level names).
// The returned cursor is empty when no further pages exist.
func (s *ConversationService) List(ctx context.Context, ident Identity, types []string, cursor string, limit int) ([]domain.Channel, string, error) {
	limit = utils.ClampLimit(limit, DefaultPageLimit, MaxPageLimit)

	var beforeTime time.Time
	var beforeID string
	if cursor != "" {
		fields, err := utils.DecodeCursor(cursor, 2)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
		nanos, perr := strconv.ParseInt(fields[0], 10, 64)
		if perr != nil {
			return nil, "", ErrInvalidCursor
		}
		beforeTime = time.Unix(0, nanos).UTC()
		beforeID = fields[1]
	}

	channels, err := repo.ListChannelsBefore(ctx, s.DB, ident.WorkspaceID, ident.UserID, types, beforeTime, beforeID, limit+1)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(channels) > limit {
		channels = channels[:limit]
		last := channels[len(channels)-1]
		next = utils.EncodeCursor(strconv.FormatInt(last.CreatedAt.UnixNano(), 10), last.ID)
	}
	return channels, next, nil
}

// History returns one page of the channel's live top-level messages,
// newest first, with reply counts and aggregated reactions attached.
// Thread replies are excluded; retrieve them via Replies.
func (s *ConversationService) History(ctx context.Context, ident Identity, channelID, cursor string, limit int, oldest, latest string, inclusive bool) ([]MessageView, string, error) {
	if _, err := s.visibleChannel(ctx, ident, channelID); err != nil {
		return nil, "", err
	}
	limit = utils.ClampLimit(limit, DefaultPageLimit, MaxPageLimit)

	beforeTS := ""
	if cursor != "" {
		fields, err := utils.DecodeCursor(cursor, 1)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
		beforeTS = fields[0]
	}

	msgs, err := repo.ListHistoryBefore(ctx, s.DB, channelID, beforeTS, oldest, latest, inclusive, limit+1)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(msgs) > limit {
		msgs = msgs[:limit]
		next = utils.EncodeCursor(msgs[len(msgs)-1].TS)
	}

	views, err := s.buildViews(ctx, msgs)
	if err != nil {
		return nil, "", err
	}
	return views, next, nil
}

// Replies returns the thread rooted at threadTS: the root followed by its
// live replies in creation order. A missing or deleted root fails with
// ErrThreadNotFound.
func (s *ConversationService) Replies(ctx context.Context, ident Identity, channelID, threadTS string) ([]MessageView, error) {
	if _, err := s.visibleChannel(ctx, ident, channelID); err != nil {
		return nil, err
	}
	if _, err := repo.GetMessage(ctx, s.DB, channelID, threadTS); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	msgs, err := repo.ListThread(ctx, s.DB, channelID, threadTS)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, msgs)
}

// Info returns the channel's metadata and its current member count.
func (s *ConversationService) Info(ctx context.Context, ident Identity, channelID string) (*domain.Channel, int64, error) {
	ch, err := s.visibleChannel(ctx, ident, channelID)
	if err != nil {
		return nil, 0, err
	}
	members, err := repo.CountMembers(ctx, s.DB, ch.ID)
	if err != nil {
		return nil, 0, err
	}
	return ch, members, nil
}

// Create provisions a new public or private channel in ident's workspace
// and, for user identities, joins the creator. Names are normalized
// (lowercased, spaces folded to dashes) before the uniqueness check.
func (s *ConversationService) Create(ctx context.Context, ident Identity, name string, private bool) (*domain.Channel, error) {
	normalized := NormalizeChannelName(name)
	if normalized == "" {
		return nil, ErrInvalidArgument
	}

	taken, err := repo.ChannelNameExists(ctx, s.DB, ident.WorkspaceID, normalized)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}

	chType, kind := domain.ChannelTypePublic, id.KindChannel
	if private {
		chType, kind = domain.ChannelTypePrivate, id.KindGroup
	}
	ch := &domain.Channel{
		ID:             id.New(kind),
		WorkspaceID:    ident.WorkspaceID,
		Name:           normalized,
		NameNormalized: normalized,
		Type:           chType,
		IsPrivate:      private,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.CreateChannel(ctx, tx, ch); err != nil {
			return err
		}
		if ident.UserID != "" {
			if _, err := repo.CreateMembership(ctx, tx, ident.UserID, ch.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Join adds ident's acting user to the channel. Joining twice fails with
// ErrAlreadyInChannel. Application identities cannot join: memberships
// reference user rows, and an app has none.
func (s *ConversationService) Join(ctx context.Context, ident Identity, channelID string) (*domain.Channel, error) {
	if ident.UserID == "" {
		return nil, ErrInvalidArgument
	}
	ch, err := s.visibleChannel(ctx, ident, channelID)
	if err != nil {
		return nil, err
	}
	if _, err := repo.CreateMembership(ctx, s.DB, ident.UserID, ch.ID); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrAlreadyInChannel
		}
		return nil, err
	}
	return ch, nil
}

// Members returns one page of member user IDs, ascending, with the same
// cursor semantics as List.
func (s *ConversationService) Members(ctx context.Context, ident Identity, channelID, cursor string, limit int) ([]string, string, error) {
	if _, err := s.visibleChannel(ctx, ident, channelID); err != nil {
		return nil, "", err
	}
	limit = utils.ClampLimit(limit, DefaultPageLimit, MaxPageLimit)

	afterID := ""
	if cursor != "" {
		fields, err := utils.DecodeCursor(cursor, 1)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
		afterID = fields[0]
	}

	ids, err := repo.ListMemberIDsAfter(ctx, s.DB, channelID, afterID, limit+1)
	if err != nil {
		return nil, "", err
	}
	next := ""
	if len(ids) > limit {
		ids = ids[:limit]
		next = utils.EncodeCursor(ids[len(ids)-1])
	}
	return ids, next, nil
}

// buildViews decorates messages with their aggregated reactions and edit
// markers. Aggregation is computed on read; there is no stored per-emoji
// count to drift out of sync.
func (s *ConversationService) buildViews(ctx context.Context, msgs []domain.Message) ([]MessageView, error) {
	views := make([]MessageView, 0, len(msgs))
	if len(msgs) == 0 {
		return views, nil
	}

	msgIDs := make([]string, len(msgs))
	for i, m := range msgs {
		msgIDs[i] = m.ID
	}
	reactions, err := repo.ListReactionsForMessages(ctx, s.DB, msgIDs)
	if err != nil {
		return nil, err
	}

	// message id → emoji → view, preserving first-seen emoji order.
	type agg struct {
		order []string
		byKey map[string]*ReactionView
	}
	perMsg := make(map[string]*agg)
	for _, r := range reactions {
		a := perMsg[r.MessageID]
		if a == nil {
			a = &agg{byKey: make(map[string]*ReactionView)}
			perMsg[r.MessageID] = a
		}
		v := a.byKey[r.Emoji]
		if v == nil {
			v = &ReactionView{Name: r.Emoji}
			a.byKey[r.Emoji] = v
			a.order = append(a.order, r.Emoji)
		}
		v.Users = append(v.Users, r.UserID)
		v.Count++
	}

	for _, m := range msgs {
		view := MessageView{Type: "message", Message: m}
		if m.EditedTS != "" {
			view.Edited = &EditedView{User: m.UserID, TS: m.EditedTS}
		}
		if a := perMsg[m.ID]; a != nil {
			for _, emoji := range a.order {
				view.Reactions = append(view.Reactions, *a.byKey[emoji])
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// channelNameJunk strips everything but letters, digits, dashes, and
// underscores after space folding.
var channelNameJunk = regexp.MustCompile(`[^a-z0-9-_]+`)

var channelNameCaser = cases.Lower(language.English)

// NormalizeChannelName lowercases a proposed channel name, folds
// whitespace runs to single dashes, and drops characters outside the
// platform's channel-name alphabet.
func NormalizeChannelName(name string) string {
	name = channelNameCaser.String(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), "-")
	return channelNameJunk.ReplaceAllString(name, "")
}
