// Package domain defines the persistence models for the simulated
// workspace-messaging platform: workspaces, applications, users, channels,
// memberships, messages, reactions, and the inbound event log. These types
// are mapped with GORM and form the core data layer of the simulator.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Channel types as stored in the database.
const (
	ChannelTypePublic  = "channel"
	ChannelTypePrivate = "group"
	ChannelTypeIM      = "im"
)

// Workspace is the top-level tenant. It owns apps, users, and channels.
//
// Fields:
//   - ID: platform-style identifier ("T" prefix + 8 alphanumerics).
//   - Name / Domain: display name and URL slug.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Workspace struct {
	ID        string    `json:"id"     gorm:"type:varchar(16);primaryKey"`
	Name      string    `json:"name"   gorm:"type:varchar(255);not null"`
	Domain    string    `json:"domain" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for Workspace.
func (Workspace) TableName() string { return "workspaces" }

// App is an installed application acting inside a workspace. Its bot token
// authenticates API calls made on the app's behalf.
type App struct {
	ID          string    `json:"id"      gorm:"type:varchar(16);primaryKey"`
	WorkspaceID string    `json:"team_id" gorm:"type:varchar(16);not null;index"`
	Name        string    `json:"name"    gorm:"type:varchar(255);not null"`
	BotToken    string    `json:"-"       gorm:"type:varchar(255);not null;uniqueIndex:ux_apps_bot_token"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	Workspace Workspace `json:"-" gorm:"foreignKey:WorkspaceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for App.
func (App) TableName() string { return "apps" }

// User belongs to exactly one workspace. Token is the user's bearer
// credential; IsBot marks synthetic users owned by apps.
type User struct {
	ID          string    `json:"id"           gorm:"type:varchar(16);primaryKey"`
	WorkspaceID string    `json:"team_id"      gorm:"type:varchar(16);not null;index"`
	Handle      string    `json:"name"         gorm:"type:varchar(64);not null"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(255)"`
	RealName    string    `json:"real_name"    gorm:"type:varchar(255)"`
	Email       string    `json:"email"        gorm:"type:varchar(255)"`
	IsBot       bool      `json:"is_bot"       gorm:"not null;default:false"`
	Token       string    `json:"-"            gorm:"type:varchar(255);not null;uniqueIndex:ux_users_token"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	Workspace Workspace `json:"-" gorm:"foreignKey:WorkspaceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Channel is a conversation container: public channel, private group, or
// direct message. Name is empty for DMs.
//
// NameNormalized is the lowercase form used for lookups and duplicate
// detection; it is maintained by the conversation engine, never written
// directly.
type Channel struct {
	ID             string    `json:"id"              gorm:"type:varchar(16);primaryKey"`
	WorkspaceID    string    `json:"team_id"         gorm:"type:varchar(16);not null;index"`
	Name           string    `json:"name"            gorm:"type:varchar(255)"`
	NameNormalized string    `json:"name_normalized" gorm:"type:varchar(255);index"`
	Type           string    `json:"-"               gorm:"type:varchar(16);not null;check:type IN ('channel','group','im')"`
	IsPrivate      bool      `json:"is_private"      gorm:"not null;default:false"`
	Topic          string    `json:"-"               gorm:"type:text"`
	Purpose        string    `json:"-"               gorm:"type:text"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`

	Workspace Workspace `json:"-" gorm:"foreignKey:WorkspaceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Channel.
func (Channel) TableName() string { return "channels" }

// ChannelMember records a user's membership in a channel. The pair is
// unique; JoinedAt is the membership timestamp.
type ChannelMember struct {
	ID        string    `json:"-"       gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user"    gorm:"type:varchar(16);not null;index;uniqueIndex:ux_members_user_channel,priority:1"`
	ChannelID string    `json:"channel" gorm:"type:varchar(16);not null;index;uniqueIndex:ux_members_user_channel,priority:2"`
	JoinedAt  time.Time `json:"-"`

	User    User    `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Channel Channel `json:"-" gorm:"foreignKey:ChannelID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChannelMember.
func (ChannelMember) TableName() string { return "channel_members" }

// Message is a single channel message. TS is the platform message key
// ("<unix-seconds>.<microseconds>"), unique within a channel and strictly
// increasing in creation order — it doubles as the sort key and the
// external identifier.
//
// ThreadTS, when set, references the root message of the thread in the
// same channel. ReplyCount is denormalized and maintained exclusively by
// the messaging engine inside the same transaction that creates or
// soft-deletes a reply.
//
// Deletion is a soft delete (DeletedAt); deleted rows stay addressable
// for audit but are excluded from history, replies, and reaction views.
type Message struct {
	ID         string         `json:"-"                     gorm:"type:char(36);primaryKey"`
	TS         string         `json:"ts"                    gorm:"type:varchar(32);not null;uniqueIndex:ux_messages_channel_ts,priority:2"`
	ChannelID  string         `json:"channel"               gorm:"type:varchar(16);not null;uniqueIndex:ux_messages_channel_ts,priority:1"`
	UserID     string         `json:"user"                  gorm:"type:varchar(16);not null;index"`
	Text       string         `json:"text"                  gorm:"type:text"`
	ThreadTS   string         `json:"thread_ts,omitempty"   gorm:"type:varchar(32);index"`
	ReplyCount int            `json:"reply_count,omitempty" gorm:"not null;default:0"`
	Subtype    string         `json:"subtype,omitempty"     gorm:"type:varchar(32)"`
	EditedTS   string         `json:"-"                     gorm:"type:varchar(32)"`
	CreatedAt  time.Time      `json:"-"`
	UpdatedAt  time.Time      `json:"-"`
	DeletedAt  gorm.DeletedAt `json:"-"                     gorm:"index"`

	Channel Channel `json:"-" gorm:"foreignKey:ChannelID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// IsThreadReply reports whether the message is a reply inside a thread
// (as opposed to a thread root or a plain channel message).
func (m Message) IsThreadReply() bool { return m.ThreadTS != "" && m.ThreadTS != m.TS }

// Reaction is one user's emoji reaction on a message. The
// (message, emoji, user) triple is unique; a second identical add is a
// reported conflict, not a second row.
type Reaction struct {
	ID        string    `json:"-"    gorm:"type:char(36);primaryKey"`
	MessageID string    `json:"-"    gorm:"type:char(36);not null;index;uniqueIndex:ux_reactions_msg_user_emoji,priority:1"`
	UserID    string    `json:"user" gorm:"type:varchar(16);not null;uniqueIndex:ux_reactions_msg_user_emoji,priority:2"`
	Emoji     string    `json:"name" gorm:"type:varchar(128);not null;uniqueIndex:ux_reactions_msg_user_emoji,priority:3"`
	CreatedAt time.Time `json:"-"`

	Message Message `json:"-" gorm:"foreignKey:MessageID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Reaction.
func (Reaction) TableName() string { return "reactions" }

// EventEnvelope is the stored wrapper around one inbound callback event.
// The log is append-only; rows are never updated after ingestion.
//
// Payload holds the inner event object as raw JSON. The dispatcher
// interprets it once at ingestion time; readers treat it as opaque.
type EventEnvelope struct {
	ID          string    `json:"-"          gorm:"type:char(36);primaryKey"`
	EventID     string    `json:"event_id"   gorm:"type:varchar(32);not null;uniqueIndex:ux_events_event_id"`
	Token       string    `json:"-"          gorm:"type:varchar(255);not null"`
	WorkspaceID string    `json:"team_id"    gorm:"type:varchar(16);not null;index:idx_events_team_app,priority:1"`
	AppID       string    `json:"api_app_id" gorm:"type:varchar(16);not null;index:idx_events_team_app,priority:2"`
	Type        string    `json:"type"       gorm:"type:varchar(32);not null"`
	EventTime   int64     `json:"event_time" gorm:"not null"`
	Payload     string    `json:"-"          gorm:"type:text;not null"`
	ReceivedAt  time.Time `json:"-"`
}

// TableName returns the database table name for EventEnvelope.
func (EventEnvelope) TableName() string { return "event_envelopes" }

// EventAuthorization links an envelope to a user entitled to see it.
// The (envelope, user) pair is unique.
type EventAuthorization struct {
	ID         string    `json:"-"    gorm:"type:char(36);primaryKey"`
	EnvelopeID string    `json:"-"    gorm:"type:char(36);not null;index;uniqueIndex:ux_event_auth_envelope_user,priority:1"`
	UserID     string    `json:"user" gorm:"type:varchar(16);not null;uniqueIndex:ux_event_auth_envelope_user,priority:2"`
	CreatedAt  time.Time `json:"-"`

	Envelope EventEnvelope `json:"-" gorm:"foreignKey:EnvelopeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for EventAuthorization.
func (EventAuthorization) TableName() string { return "event_authorizations" }
