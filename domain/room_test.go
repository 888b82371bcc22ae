package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_CanonicalPair_Is_Order_Independent(t *testing.T) {
	req := require.New(t)
	req.Equal([]string{"u1", "u2"}, CanonicalPair("u1", "u2"))
	req.Equal([]string{"u1", "u2"}, CanonicalPair("u2", "u1"))
}

func Test_HasParticipant(t *testing.T) {
	req := require.New(t)
	room := Room{Participants: CanonicalPair("bob", "alice")}
	req.True(room.HasParticipant("alice"))
	req.True(room.HasParticipant("bob"))
	req.False(room.HasParticipant("clara"))
}

func Test_LastActivityAt_Falls_Back_To_Creation(t *testing.T) {
	req := require.New(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	room := Room{CreatedAt: created}
	req.Equal(created, room.LastActivityAt())

	lastMessage := created.Add(2 * time.Hour)
	room.LastMessageAt = lastMessage
	req.Equal(lastMessage, room.LastActivityAt())
}
