package services

import (
	"context"
	"errors"
	"testing"
)

func TestReactionAddRemove(t *testing.T) {
	env := newTestEnv(t)
	msgSvc := NewMessageService(env.db, env.gen)
	svc := NewReactionService(env.db)
	ctx := context.Background()

	m, _ := msgSvc.Post(ctx, env.alice, env.general, "react to me", "")

	if err := svc.Add(ctx, env.bob, env.general, m.TS, "thumbsup"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, env.bob, env.general, m.TS, "thumbsup"); !errors.Is(err, ErrAlreadyReacted) {
		t.Fatalf("duplicate add: err = %v", err)
	}
	// Same emoji by another user, and another emoji by the same user, are fine.
	if err := svc.Add(ctx, env.alice, env.general, m.TS, "thumbsup"); err != nil {
		t.Fatalf("Add by second user: %v", err)
	}
	if err := svc.Add(ctx, env.bob, env.general, m.TS, "eyes"); err != nil {
		t.Fatalf("Add second emoji: %v", err)
	}

	if err := svc.Remove(ctx, env.bob, env.general, m.TS, "thumbsup"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := svc.Remove(ctx, env.bob, env.general, m.TS, "thumbsup"); !errors.Is(err, ErrNoReaction) {
		t.Fatalf("remove absent: err = %v", err)
	}
	// Re-adding after removal succeeds.
	if err := svc.Add(ctx, env.bob, env.general, m.TS, "thumbsup"); err != nil {
		t.Fatalf("re-add: %v", err)
	}
}

func TestReaction_TargetValidation(t *testing.T) {
	env := newTestEnv(t)
	msgSvc := NewMessageService(env.db, env.gen)
	svc := NewReactionService(env.db)
	ctx := context.Background()

	m, _ := msgSvc.Post(ctx, env.alice, env.general, "target", "")

	if err := svc.Add(ctx, env.bob, env.general, m.TS, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty emoji: err = %v", err)
	}
	if err := svc.Add(ctx, env.bob, "C0DOESNOT", m.TS, "eyes"); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("missing channel: err = %v", err)
	}
	if err := svc.Add(ctx, env.bob, env.general, "1699999999.000001", "eyes"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("missing message: err = %v", err)
	}

	// A deleted message is indistinguishable from a missing one.
	if _, err := msgSvc.Delete(ctx, env.alice, env.general, m.TS); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Add(ctx, env.bob, env.general, m.TS, "eyes"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("react to deleted: err = %v", err)
	}
	if err := svc.Remove(ctx, env.bob, env.general, m.TS, "eyes"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("unreact deleted: err = %v", err)
	}
}
