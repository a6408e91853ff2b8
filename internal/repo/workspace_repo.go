// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for workspaces,
// apps, and users.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
)

// CreateWorkspace inserts a new workspace row. The caller supplies the
// platform-style ID (see internal/id).
func CreateWorkspace(ctx context.Context, db *gorm.DB, id, name, dom string) (*domain.Workspace, error) {
	w := &domain.Workspace{
		ID:        id,
		Name:      name,
		Domain:    dom,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// GetWorkspace fetches a workspace by ID, or ErrNotFound.
func GetWorkspace(ctx context.Context, db *gorm.DB, id string) (*domain.Workspace, error) {
	var w domain.Workspace
	if err := db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateApp inserts an application row bound to a workspace, carrying its
// bot credential.
func CreateApp(ctx context.Context, db *gorm.DB, id, workspaceID, name, botToken string) (*domain.App, error) {
	a := &domain.App{
		ID:          id,
		WorkspaceID: workspaceID,
		Name:        name,
		BotToken:    botToken,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetApp fetches an app by ID, or ErrNotFound.
func GetApp(ctx context.Context, db *gorm.DB, id string) (*domain.App, error) {
	var a domain.App
	if err := db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAppByToken resolves a bot credential to its app, or ErrNotFound.
func GetAppByToken(ctx context.Context, db *gorm.DB, token string) (*domain.App, error) {
	var a domain.App
	if err := db.WithContext(ctx).First(&a, "bot_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateUser inserts a user row with its bearer credential.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByToken resolves a user credential, or ErrNotFound.
func GetUserByToken(ctx context.Context, db *gorm.DB, token string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsersAfter returns up to limit users of a workspace ordered by ID
// ascending, starting strictly after afterID (empty for the first page).
// Callers pass limit+1 to probe for a further page.
func ListUsersAfter(ctx context.Context, db *gorm.DB, workspaceID, afterID string, limit int) ([]domain.User, error) {
	q := db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("id ASC").
		Limit(limit)
	if afterID != "" {
		q = q.Where("id > ?", afterID)
	}
	var out []domain.User
	err := q.Find(&out).Error
	return out, err
}
