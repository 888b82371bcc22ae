package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"giveboard/moderation"
	"giveboard/store"
	"giveboard/store/badgerstore"
)

func newTestModerator(t *testing.T) *moderation.Moderator {
	t.Helper()
	mod, err := moderation.NewModerator(
		moderation.WordLists{moderation.DefaultList: {"badger"}}, '*', slog.Default(),
	)
	require.NoError(t, err)
	return mod
}

func openTestStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return badgerstore.New(db, slog.Default(), 4)
}

// nextSnapshot blocks for the next delivery.
func nextSnapshot(t *testing.T, sub *store.Subscription) []store.Document {
	t.Helper()
	select {
	case snapshot, open := <-sub.Snapshots():
		if !open {
			t.Fatal("subscription closed while waiting for a snapshot")
		}
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered in time")
	}
	return nil
}

// settleSnapshot drains queued deliveries and returns the latest one;
// rapid successive writes may be coalesced.
func settleSnapshot(t *testing.T, sub *store.Subscription) []store.Document {
	t.Helper()
	snapshot := nextSnapshot(t, sub)
	for {
		select {
		case next, open := <-sub.Snapshots():
			if !open {
				return snapshot
			}
			snapshot = next
		case <-time.After(200 * time.Millisecond):
			return snapshot
		}
	}
}
