package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"giveboard/domain"
	apperrors "giveboard/errors"
	"giveboard/moderation"
	"giveboard/store"
)

var validate = validator.New()

type IChatService interface {
	ResolveOrCreateRoom(ctx context.Context, cmd domain.ResolveRoomCommand) (string, error)
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) error
}

type ChatService struct {
	store     store.Store
	moderator *moderation.Moderator
	log       *slog.Logger
}

func NewChatService(st store.Store, moderator *moderation.Moderator, log *slog.Logger) *ChatService {
	return &ChatService{store: st, moderator: moderator, log: log}
}

// ResolveOrCreateRoom returns the room shared by the two participants
// (scoped to a listing when one is given), creating it when none
// exists. Input faults are rejected before any store call.
//
// The lookup queries membership of one participant only; the store
// class supports a single array-contains predicate per query, so the
// second membership test runs here on the result page. Two callers
// racing past the lookup may both insert; no lock is held across the
// read-then-write. Picking the oldest room below makes every later
// resolve converge on the same winner.
func (s *ChatService) ResolveOrCreateRoom(ctx context.Context, cmd domain.ResolveRoomCommand) (string, error) {
	if err := validate.Struct(cmd); err != nil {
		return "", apperrors.Validation(err)
	}
	if cmd.ParticipantA == cmd.ParticipantB {
		return "", apperrors.Validation(apperrors.ErrSelfChat)
	}

	query := store.Query{
		Filters: []store.Filter{store.ArrayContains(fieldParticipants, cmd.ParticipantA)},
	}
	if cmd.ListingID != "" {
		query.Filters = append(query.Filters, store.Eq(fieldListingID, cmd.ListingID))
	}
	docs, err := s.store.Get(ctx, CollectionRooms, query)
	if err != nil {
		return "", fmt.Errorf("room lookup: %w", err)
	}

	matches := lo.Filter(docs, func(d store.Document, _ int) bool {
		return lo.Contains(d.Strings(fieldParticipants), cmd.ParticipantB)
	})
	if len(matches) > 0 {
		sort.Slice(matches, func(i, j int) bool {
			ti, tj := matches[i].Time(fieldCreatedAt), matches[j].Time(fieldCreatedAt)
			if !ti.Equal(tj) {
				return ti.Before(tj)
			}
			return matches[i].ID < matches[j].ID
		})
		return matches[0].ID, nil
	}

	pair := domain.CanonicalPair(cmd.ParticipantA, cmd.ParticipantB)
	id, err := s.store.Insert(ctx, CollectionRooms, map[string]any{
		fieldParticipants:      pair,
		fieldListingID:         cmd.ListingID,
		fieldCreatedAt:         store.ServerTimestamp,
		fieldLastActivityAt:    store.ServerTimestamp,
		fieldLastMessageText:   nil,
		fieldLastMessageAt:     nil,
		fieldLastMessageSender: nil,
	})
	if err != nil {
		return "", fmt.Errorf("room creation: %w", err)
	}
	s.log.Debug("room created", "room", id, "participants", pair, "listing", cmd.ListingID)
	return id, nil
}

// SendMessage appends a message to the room's log, then refreshes the
// room's denormalized last-message summary in a second write. The two
// writes are not transactional: a crash between them leaves the
// message persisted and the summary stale until the next send.
func (s *ChatService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) error {
	if err := validate.Struct(cmd); err != nil {
		return apperrors.Validation(err)
	}
	if strings.TrimSpace(cmd.Text) == "" {
		return apperrors.Validation(apperrors.ErrEmptyMessage)
	}

	text := cmd.Text
	if s.moderator != nil {
		text = s.moderator.Censor(text)
	}

	_, err := s.store.Insert(ctx, MessagesCollection(cmd.RoomID), map[string]any{
		fieldRoomID: cmd.RoomID,
		fieldSender: cmd.Sender,
		fieldText:   text,
		fieldSentAt: store.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("message insert: %w", err)
	}

	err = s.store.Update(ctx, CollectionRooms, cmd.RoomID, map[string]any{
		fieldLastMessageText:   text,
		fieldLastMessageAt:     store.ServerTimestamp,
		fieldLastMessageSender: cmd.Sender,
		fieldLastActivityAt:    store.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("room summary update: %w", err)
	}
	return nil
}
