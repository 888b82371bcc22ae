package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Publish_Coalesces_When_Consumer_Lags(t *testing.T) {
	req := require.New(t)
	sub := NewSubscription(1, nil)

	sub.Publish([]Document{{ID: "first"}})
	sub.Publish([]Document{{ID: "second"}})
	sub.Publish([]Document{{ID: "third"}})

	snapshot := <-sub.Snapshots()
	req.Len(snapshot, 1)
	req.Equal("third", snapshot[0].ID)
}

func Test_Unsubscribe_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	detached := 0
	sub := NewSubscription(1, func() { detached++ })

	sub.Unsubscribe()
	sub.Unsubscribe()
	req.Equal(1, detached)

	// The channel is closed and publications after teardown are dropped.
	sub.Publish([]Document{{ID: "late"}})
	_, open := <-sub.Snapshots()
	req.False(open)
}

func Test_Noop_Subscription_Never_Delivers(t *testing.T) {
	req := require.New(t)
	sub := Noop()
	_, open := <-sub.Snapshots()
	req.False(open)
	sub.Unsubscribe()
	sub.Unsubscribe()
}

func Test_Query_Apply_Orders_And_Breaks_Ties_By_ID(t *testing.T) {
	req := require.New(t)
	docs := []Document{
		{ID: "b", Fields: map[string]any{"sentAt": "2026-03-01T10:00:00Z"}},
		{ID: "a", Fields: map[string]any{"sentAt": "2026-03-01T10:00:00Z"}},
		{ID: "c", Fields: map[string]any{"sentAt": "2026-03-01T09:00:00Z"}},
	}
	q := Query{Orders: []Order{{Field: "sentAt", Direction: Ascending}}}
	ordered := q.Apply(docs)
	req.Equal([]string{"c", "a", "b"}, []string{ordered[0].ID, ordered[1].ID, ordered[2].ID})
}

func Test_Query_Matches_Array_Contains(t *testing.T) {
	req := require.New(t)
	doc := Document{ID: "room", Fields: map[string]any{"participants": []any{"u1", "u2"}}}
	req.True(Query{Filters: []Filter{ArrayContains("participants", "u1")}}.Matches(doc))
	req.False(Query{Filters: []Filter{ArrayContains("participants", "u3")}}.Matches(doc))
}
