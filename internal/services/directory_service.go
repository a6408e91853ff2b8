// Package services – DirectoryService
//
// Read-only lookups over the workspace directory: user listing and
// profiles, workspace metadata, and the identity echo behind the
// auth-check endpoint.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
	"github.com/tbourn/go-slack-sim/internal/repo"
	"github.com/tbourn/go-slack-sim/internal/utils"
)

// DirectoryService serves user and workspace lookups.
type DirectoryService struct {
	DB *gorm.DB
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{DB: db}
}

// ListUsers returns one page of the workspace's users in ID order, with
// the usual cursor semantics.
func (s *DirectoryService) ListUsers(ctx context.Context, ident Identity, cursor string, limit int) ([]domain.User, string, error) {
	limit = utils.ClampLimit(limit, DefaultPageLimit, MaxPageLimit)

	afterID := ""
	if cursor != "" {
		fields, err := utils.DecodeCursor(cursor, 1)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
		afterID = fields[0]
	}

	users, err := repo.ListUsersAfter(ctx, s.DB, ident.WorkspaceID, afterID, limit+1)
	if err != nil {
		return nil, "", err
	}
	next := ""
	if len(users) > limit {
		users = users[:limit]
		next = utils.EncodeCursor(users[len(users)-1].ID)
	}
	return users, next, nil
}

// GetUser returns one user profile from ident's workspace.
func (s *DirectoryService) GetUser(ctx context.Context, ident Identity, userID string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.WorkspaceID != ident.WorkspaceID {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetWorkspace returns the acting identity's workspace metadata.
func (s *DirectoryService) GetWorkspace(ctx context.Context, ident Identity) (*domain.Workspace, error) {
	w, err := repo.GetWorkspace(ctx, s.DB, ident.WorkspaceID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return w, nil
}

// WhoAmI describes the authenticated caller for the auth-check endpoint.
type WhoAmI struct {
	WorkspaceID string
	Workspace   string
	UserID      string
	User        string
	IsBot       bool
}

// Identify resolves ident back to its display names.
func (s *DirectoryService) Identify(ctx context.Context, ident Identity) (*WhoAmI, error) {
	w, err := s.GetWorkspace(ctx, ident)
	if err != nil {
		return nil, err
	}
	out := &WhoAmI{WorkspaceID: w.ID, Workspace: w.Name, IsBot: ident.IsBot}

	if ident.UserID != "" {
		u, err := repo.GetUser(ctx, s.DB, ident.UserID)
		if err != nil {
			return nil, err
		}
		out.UserID = u.ID
		out.User = u.Handle
		return out, nil
	}

	// app credential: report the bot app under its own ID
	a, err := repo.GetApp(ctx, s.DB, ident.AppID)
	if err != nil {
		return nil, err
	}
	out.UserID = a.ID
	out.User = a.Name
	return out, nil
}
