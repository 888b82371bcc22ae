package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"giveboard/domain"
	apperrors "giveboard/errors"
	"giveboard/store"
)

func Test_ResolveOrCreateRoom_Is_Idempotent_Across_Call_Order(t *testing.T) {
	req := require.New(t)
	st := openTestStore(t)
	svc := NewChatService(st, nil, slog.Default())
	ctx := context.Background()

	first, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{
		ParticipantA: "u1", ParticipantB: "u2", ListingID: "item42",
	})
	req.NoError(err)
	req.NotEmpty(first)

	// Same pair, reversed order: the second caller must land in the
	// room the first one created.
	second, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{
		ParticipantA: "u2", ParticipantB: "u1", ListingID: "item42",
	})
	req.NoError(err)
	req.Equal(first, second)

	docs, err := st.Get(ctx, CollectionRooms, store.Query{})
	req.NoError(err)
	req.Len(docs, 1)
	req.Equal([]string{"u1", "u2"}, docs[0].Strings("participants"))
}

func Test_ResolveOrCreateRoom_Scopes_Rooms_By_Listing(t *testing.T) {
	req := require.New(t)
	st := openTestStore(t)
	svc := NewChatService(st, nil, slog.Default())
	ctx := context.Background()

	bike, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{
		ParticipantA: "u1", ParticipantB: "u2", ListingID: "bike",
	})
	req.NoError(err)

	sofa, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{
		ParticipantA: "u1", ParticipantB: "u2", ListingID: "sofa",
	})
	req.NoError(err)
	req.NotEqual(bike, sofa)
}

func Test_ResolveOrCreateRoom_Rejects_Self_Chat_Without_Store_Write(t *testing.T) {
	req := require.New(t)
	st := openTestStore(t)
	svc := NewChatService(st, nil, slog.Default())
	ctx := context.Background()

	_, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{
		ParticipantA: "u1", ParticipantB: "u1",
	})
	req.Error(err)
	req.True(apperrors.IsValidation(err))
	req.ErrorIs(err, apperrors.ErrSelfChat)

	docs, err := st.Get(ctx, CollectionRooms, store.Query{})
	req.NoError(err)
	req.Empty(docs)
}

func Test_ResolveOrCreateRoom_Rejects_Missing_Participant(t *testing.T) {
	req := require.New(t)
	st := openTestStore(t)
	svc := NewChatService(st, nil, slog.Default())
	ctx := context.Background()

	_, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{ParticipantA: "u1"})
	req.Error(err)
	req.True(apperrors.IsValidation(err))

	docs, err := st.Get(ctx, CollectionRooms, store.Query{})
	req.NoError(err)
	req.Empty(docs)
}

func Test_SendMessage_Appends_And_Refreshes_Room_Summary(t *testing.T) {
	req := require.New(t)
	st := openTestStore(t)
	svc := NewChatService(st, nil, slog.Default())
	ctx := context.Background()

	roomID, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{
		ParticipantA: "u1", ParticipantB: "u2", ListingID: "item42",
	})
	req.NoError(err)

	req.NoError(svc.SendMessage(ctx, domain.SendMessageCommand{
		RoomID: roomID, Sender: "u1", Text: "Is this still available?",
	}))

	messages, err := st.Get(ctx, MessagesCollection(roomID), store.Query{})
	req.NoError(err)
	req.Len(messages, 1)
	msg := MessageFromDocument(roomID, messages[0])
	req.Equal("Is this still available?", msg.Text)
	req.Equal("u1", msg.Sender)
	req.False(msg.SentAt.IsZero())

	rooms, err := st.Get(ctx, CollectionRooms, store.Query{})
	req.NoError(err)
	req.Len(rooms, 1)
	room := RoomFromDocument(rooms[0])
	req.Equal("Is this still available?", room.LastMessageText)
	req.Equal("u1", room.LastMessageSender)
	req.False(room.LastMessageAt.IsZero())
}

func Test_SendMessage_Rejects_Blank_Text_Before_The_Store(t *testing.T) {
	req := require.New(t)
	st := openTestStore(t)
	svc := NewChatService(st, nil, slog.Default())
	ctx := context.Background()

	roomID, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{
		ParticipantA: "u1", ParticipantB: "u2",
	})
	req.NoError(err)

	for _, text := range []string{"", "   ", "\n\t"} {
		err = svc.SendMessage(ctx, domain.SendMessageCommand{
			RoomID: roomID, Sender: "u1", Text: text,
		})
		req.Error(err, "text: %q", text)
		req.True(apperrors.IsValidation(err), "text: %q", text)
	}

	messages, err := st.Get(ctx, MessagesCollection(roomID), store.Query{})
	req.NoError(err)
	req.Empty(messages)
}

func Test_SendMessage_Orders_Messages_By_Send_Time(t *testing.T) {
	req := require.New(t)
	st := openTestStore(t)
	svc := NewChatService(st, nil, slog.Default())
	ctx := context.Background()

	roomID, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{
		ParticipantA: "u1", ParticipantB: "u2",
	})
	req.NoError(err)

	req.NoError(svc.SendMessage(ctx, domain.SendMessageCommand{RoomID: roomID, Sender: "u1", Text: "a"}))
	req.NoError(svc.SendMessage(ctx, domain.SendMessageCommand{RoomID: roomID, Sender: "u2", Text: "b"}))

	docs, err := st.Get(ctx, MessagesCollection(roomID), store.Query{
		Orders: []store.Order{{Field: "sentAt", Direction: store.Ascending}},
	})
	req.NoError(err)
	req.Len(docs, 2)
	req.Equal("a", docs[0].String("text"))
	req.Equal("b", docs[1].String("text"))
}

func Test_SendMessage_Masks_Banned_Words(t *testing.T) {
	req := require.New(t)
	st := openTestStore(t)
	mod := newTestModerator(t)
	svc := NewChatService(st, mod, slog.Default())
	ctx := context.Background()

	roomID, err := svc.ResolveOrCreateRoom(ctx, domain.ResolveRoomCommand{
		ParticipantA: "u1", ParticipantB: "u2",
	})
	req.NoError(err)

	req.NoError(svc.SendMessage(ctx, domain.SendMessageCommand{
		RoomID: roomID, Sender: "u1", Text: "you absolute badger",
	}))

	messages, err := st.Get(ctx, MessagesCollection(roomID), store.Query{})
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("you absolute ******", messages[0].String("text"))
}
