package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/domain"
)

// ts builds a deterministic message key for tests.
func ts(sec, usec int) string { return fmt.Sprintf("%d.%06d", 1700000000+sec, usec) }

func mustCreateMessage(t *testing.T, db *gorm.DB, channelID, userID, key, text, threadTS string) *domain.Message {
	t.Helper()
	m, err := CreateMessage(context.Background(), db, &domain.Message{
		TS:        key,
		ChannelID: channelID,
		UserID:    userID,
		Text:      text,
		ThreadTS:  threadTS,
	})
	if err != nil {
		t.Fatalf("CreateMessage(%s): %v", key, err)
	}
	return m
}

func TestCreateMessage_FillsDefaultsAndRoundTrips(t *testing.T) {
	db := newTestDB(t)
	_, chID, uids := seedWorkspace(t, db)

	m := mustCreateMessage(t, db, chID, uids[0], ts(0, 1), "hello", "")
	if m.ID == "" {
		t.Fatal("expected generated row ID")
	}
	got, err := GetMessage(context.Background(), db, chID, m.TS)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if got.Text != "hello" || got.UserID != uids[0] {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestCreateMessage_DuplicateTSInChannel(t *testing.T) {
	db := newTestDB(t)
	_, chID, uids := seedWorkspace(t, db)

	mustCreateMessage(t, db, chID, uids[0], ts(0, 1), "a", "")
	_, err := CreateMessage(context.Background(), db, &domain.Message{
		TS: ts(0, 1), ChannelID: chID, UserID: uids[1], Text: "b",
	})
	if err == nil || !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestSoftDelete_HidesFromScopedReads(t *testing.T) {
	db := newTestDB(t)
	_, chID, uids := seedWorkspace(t, db)
	ctx := context.Background()

	m := mustCreateMessage(t, db, chID, uids[0], ts(0, 1), "doomed", "")
	if err := SoftDeleteMessage(ctx, db, chID, m.TS); err != nil {
		t.Fatalf("SoftDeleteMessage: %v", err)
	}

	if _, err := GetMessage(ctx, db, chID, m.TS); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetMessage after delete: err = %v, want ErrNotFound", err)
	}
	got, err := GetMessageAny(ctx, db, chID, m.TS)
	if err != nil {
		t.Fatalf("GetMessageAny after delete: %v", err)
	}
	if !got.DeletedAt.Valid {
		t.Fatal("GetMessageAny should report the row as deleted")
	}

	// Deleting again is a miss.
	if err := SoftDeleteMessage(ctx, db, chID, m.TS); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestListHistoryBefore_ExcludesRepliesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	_, chID, uids := seedWorkspace(t, db)
	ctx := context.Background()

	root := mustCreateMessage(t, db, chID, uids[0], ts(0, 1), "root", "")
	mustCreateMessage(t, db, chID, uids[1], ts(0, 2), "reply", root.TS)
	mustCreateMessage(t, db, chID, uids[0], ts(0, 3), "second", "")

	got, err := ListHistoryBefore(ctx, db, chID, "", "", "", false, 10)
	if err != nil {
		t.Fatalf("ListHistoryBefore: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 top-level messages, got %d", len(got))
	}
	if got[0].TS != ts(0, 3) || got[1].TS != ts(0, 1) {
		t.Fatalf("wrong order: %s, %s", got[0].TS, got[1].TS)
	}
}

func TestListHistoryBefore_CursorAndRangeBounds(t *testing.T) {
	db := newTestDB(t)
	_, chID, uids := seedWorkspace(t, db)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		mustCreateMessage(t, db, chID, uids[0], ts(0, i), fmt.Sprintf("m%d", i), "")
	}

	// beforeTS is exclusive.
	got, err := ListHistoryBefore(ctx, db, chID, ts(0, 4), "", "", false, 10)
	if err != nil {
		t.Fatalf("ListHistoryBefore: %v", err)
	}
	if len(got) != 3 || got[0].TS != ts(0, 3) {
		t.Fatalf("cursor page wrong: %d rows, first %s", len(got), got[0].TS)
	}

	// oldest/latest exclusive by default.
	got, err = ListHistoryBefore(ctx, db, chID, "", ts(0, 1), ts(0, 5), false, 10)
	if err != nil {
		t.Fatalf("range query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("exclusive range: got %d rows", len(got))
	}

	// inclusive widens both ends.
	got, err = ListHistoryBefore(ctx, db, chID, "", ts(0, 1), ts(0, 5), true, 10)
	if err != nil {
		t.Fatalf("inclusive range: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("inclusive range: got %d rows", len(got))
	}
}

func TestListThread_RootFirstThenRepliesAscending(t *testing.T) {
	db := newTestDB(t)
	_, chID, uids := seedWorkspace(t, db)
	ctx := context.Background()

	root := mustCreateMessage(t, db, chID, uids[0], ts(0, 1), "root", "")
	mustCreateMessage(t, db, chID, uids[1], ts(0, 2), "r1", root.TS)
	mustCreateMessage(t, db, chID, uids[0], ts(0, 3), "r2", root.TS)
	mustCreateMessage(t, db, chID, uids[1], ts(0, 4), "unrelated", "")

	got, err := ListThread(ctx, db, chID, root.TS)
	if err != nil {
		t.Fatalf("ListThread: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 thread messages, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].TS <= got[i-1].TS {
			t.Fatalf("thread not ascending at %d", i)
		}
	}
	if got[0].TS != root.TS {
		t.Fatalf("root should lead the thread, got %s", got[0].TS)
	}
}

func TestUpdateMessageText_PreservesTS(t *testing.T) {
	db := newTestDB(t)
	_, chID, uids := seedWorkspace(t, db)
	ctx := context.Background()

	m := mustCreateMessage(t, db, chID, uids[0], ts(0, 1), "before", "")
	if err := UpdateMessageText(ctx, db, chID, m.TS, "after", ts(0, 9)); err != nil {
		t.Fatalf("UpdateMessageText: %v", err)
	}
	got, err := GetMessage(ctx, db, chID, m.TS)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if got.Text != "after" || got.EditedTS != ts(0, 9) || got.TS != m.TS {
		t.Fatalf("update mismatch: %+v", got)
	}

	if err := UpdateMessageText(ctx, db, chID, ts(5, 0), "x", ts(5, 1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of missing message: err = %v", err)
	}
}

func TestAdjustReplyCountAndCount(t *testing.T) {
	db := newTestDB(t)
	_, chID, uids := seedWorkspace(t, db)
	ctx := context.Background()

	root := mustCreateMessage(t, db, chID, uids[0], ts(0, 1), "root", "")
	mustCreateMessage(t, db, chID, uids[1], ts(0, 2), "r1", root.TS)
	mustCreateMessage(t, db, chID, uids[1], ts(0, 3), "r2", root.TS)

	for i := 0; i < 2; i++ {
		if err := AdjustReplyCount(ctx, db, chID, root.TS, +1); err != nil {
			t.Fatalf("AdjustReplyCount: %v", err)
		}
	}
	got, err := GetMessage(ctx, db, chID, root.TS)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if got.ReplyCount != 2 {
		t.Fatalf("ReplyCount = %d, want 2", got.ReplyCount)
	}

	n, err := CountThreadReplies(ctx, db, chID, root.TS)
	if err != nil {
		t.Fatalf("CountThreadReplies: %v", err)
	}
	if n != int64(got.ReplyCount) {
		t.Fatalf("stored count %d diverges from live count %d", got.ReplyCount, n)
	}
}
