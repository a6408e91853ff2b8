// Package services – AuthService
//
// The authentication guard resolves bearer credentials to an acting
// identity. Token format is opaque; the only structural rule enforced is
// a minimum length — anything shorter is rejected before any storage
// lookup. No expiry or rotation is modeled.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/repo"
)

// MinTokenLen is the minimum accepted credential length. Shorter tokens
// fail without touching storage.
const MinTokenLen = 10

// Identity is the resolved authentication context of a request: the
// workspace the credential belongs to and the acting user or application.
type Identity struct {
	WorkspaceID string
	UserID      string // set for user credentials
	AppID       string // set for application (bot) credentials
	IsBot       bool
}

// ActorID returns the identifier mutations are attributed to: the user ID
// for user credentials, the app ID for application credentials.
func (id Identity) ActorID() string {
	if id.UserID != "" {
		return id.UserID
	}
	return id.AppID
}

// AuthService validates bearer tokens against stored credentials.
type AuthService struct {
	DB *gorm.DB
}

// NewAuthService constructs an AuthService over the given DB handle.
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

// Authenticate resolves token to an Identity.
//
// Failure modes:
//   - blank token            → ErrNoAuth
//   - shorter than MinTokenLen → ErrInvalidAuth (no lookup performed)
//   - unknown after lookup of user then app credentials → ErrInvalidAuth
func (s *AuthService) Authenticate(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrNoAuth
	}
	if len(token) < MinTokenLen {
		return Identity{}, ErrInvalidAuth
	}

	if u, err := repo.GetUserByToken(ctx, s.DB, token); err == nil {
		return Identity{WorkspaceID: u.WorkspaceID, UserID: u.ID, IsBot: u.IsBot}, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return Identity{}, err
	}

	if a, err := repo.GetAppByToken(ctx, s.DB, token); err == nil {
		return Identity{WorkspaceID: a.WorkspaceID, AppID: a.ID, IsBot: true}, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return Identity{}, err
	}

	return Identity{}, ErrInvalidAuth
}
