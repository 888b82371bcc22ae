package services

import (
	"context"
	"log/slog"

	"giveboard/store"
)

type IDirectoryService interface {
	SubscribeMessages(ctx context.Context, roomID string) *store.Subscription
	SubscribeUserRooms(ctx context.Context, identityID string) *store.Subscription
}

// DirectoryService owns the live views: a room's ordered message log
// and a user's room directory. Every snapshot is the complete result
// set; consumers replace, never patch.
type DirectoryService struct {
	store store.Store
	log   *slog.Logger
}

func NewDirectoryService(st store.Store, log *slog.Logger) *DirectoryService {
	return &DirectoryService{store: st, log: log}
}

// SubscribeMessages streams the room's full message list, ascending
// by send time with store ids breaking ties. A missing room id or a
// failing backend yields a subscription that never delivers; the
// fault is logged, not thrown, and the returned unsubscribe is a
// no-op.
func (s *DirectoryService) SubscribeMessages(ctx context.Context, roomID string) *store.Subscription {
	if roomID == "" {
		s.log.Error("message subscription requested without a room id")
		return store.Noop()
	}
	sub, err := s.store.Subscribe(ctx, MessagesCollection(roomID), store.Query{
		Orders: []store.Order{{Field: fieldSentAt, Direction: store.Ascending}},
	})
	if err != nil {
		s.log.Error("message subscription failed", "room", roomID, "err", err)
		return store.Noop()
	}
	return sub
}

// SubscribeUserRooms streams every room the identity participates in,
// most recent activity first. Rooms without messages sort by their
// creation time through the lastActivityAt field maintained on create
// and on every send.
func (s *DirectoryService) SubscribeUserRooms(ctx context.Context, identityID string) *store.Subscription {
	if identityID == "" {
		s.log.Error("room directory subscription requested without an identity")
		return store.Noop()
	}
	sub, err := s.store.Subscribe(ctx, CollectionRooms, store.Query{
		Filters: []store.Filter{store.ArrayContains(fieldParticipants, identityID)},
		Orders:  []store.Order{{Field: fieldLastActivityAt, Direction: store.Descending}},
	})
	if err != nil {
		s.log.Error("room directory subscription failed", "identity", identityID, "err", err)
		return store.Noop()
	}
	return sub
}
