package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-slack-sim/internal/domain"
)

func TestEnvelopeLogAppendAndLookup(t *testing.T) {
	db := newTestDB(t)
	wID, _, uids := seedWorkspace(t, db)
	ctx := context.Background()

	e, err := CreateEnvelope(ctx, db, &domain.EventEnvelope{
		EventID:     "Ev00000001",
		Token:       "verification-token",
		WorkspaceID: wID,
		AppID:       "A0000TEST",
		Type:        "message",
		EventTime:   1700000000,
		Payload:     `{"type":"message"}`,
	})
	if err != nil {
		t.Fatalf("CreateEnvelope: %v", err)
	}
	if e.ID == "" || e.ReceivedAt.IsZero() {
		t.Fatalf("defaults not filled: %+v", e)
	}

	got, err := GetEnvelopeByEventID(ctx, db, "Ev00000001")
	if err != nil || got.ID != e.ID {
		t.Fatalf("GetEnvelopeByEventID: got=%+v err=%v", got, err)
	}
	if _, err := GetEnvelopeByEventID(ctx, db, "Ev99999999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing envelope: err = %v", err)
	}

	// Duplicate event IDs are rejected by the log.
	_, err = CreateEnvelope(ctx, db, &domain.EventEnvelope{
		EventID: "Ev00000001", Token: "t", WorkspaceID: wID, AppID: "A0000TEST",
		Type: "message", Payload: "{}",
	})
	if err == nil || !IsUniqueViolation(err) {
		t.Fatalf("duplicate event_id: err = %v", err)
	}

	for _, uid := range uids {
		if err := CreateEventAuthorization(ctx, db, e.ID, uid); err != nil {
			t.Fatalf("CreateEventAuthorization(%s): %v", uid, err)
		}
	}
	auths, err := ListEventAuthorizations(ctx, db, e.ID)
	if err != nil {
		t.Fatalf("ListEventAuthorizations: %v", err)
	}
	if len(auths) != 2 || auths[0] != uids[0] {
		t.Fatalf("authorizations wrong: %v", auths)
	}
}
