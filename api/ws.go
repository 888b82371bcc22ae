package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"giveboard/domain"
	"giveboard/services"
	"giveboard/store"
)

type roomDTO struct {
	ID                string    `json:"id"`
	Participants      []string  `json:"participants"`
	ListingID         string    `json:"listing_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	LastMessageText   string    `json:"last_message_text,omitempty"`
	LastMessageAt     time.Time `json:"last_message_at,omitzero"`
	LastMessageSender string    `json:"last_message_sender,omitempty"`
}

type messageDTO struct {
	ID     string    `json:"id"`
	RoomID string    `json:"room_id"`
	Sender string    `json:"sender_id"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// streamRooms pushes the caller's full room directory on every
// change until the client goes away.
func (s *Server) streamRooms(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	sub := s.directory.SubscribeUserRooms(c.Request.Context(), identity.ID)
	s.stream(c, sub, func(docs []store.Document) any {
		return lo.Map(docs, func(d store.Document, _ int) roomDTO {
			return toRoomDTO(services.RoomFromDocument(d))
		})
	})
}

func (s *Server) streamMessages(c *gin.Context) {
	roomID := c.Param("roomID")
	sub := s.directory.SubscribeMessages(c.Request.Context(), roomID)
	s.stream(c, sub, func(docs []store.Document) any {
		return lo.Map(docs, func(d store.Document, _ int) messageDTO {
			return toMessageDTO(services.MessageFromDocument(roomID, d))
		})
	})
}

// stream upgrades the connection and forwards snapshots as JSON. The
// subscription is torn down exactly once however the connection ends:
// the deferred call, the read-pump on client close, and the request
// context all funnel into the same idempotent unsubscribe.
func (s *Server) stream(c *gin.Context, sub *store.Subscription, render func([]store.Document) any) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sub.Unsubscribe()
		s.log.Error("websocket upgrade failed", "err", err)
		return
	}
	defer func() {
		sub.Unsubscribe()
		_ = conn.Close()
	}()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Unsubscribe()
				return
			}
		}
	}()

	for snapshot := range sub.Snapshots() {
		if err := conn.WriteJSON(render(snapshot)); err != nil {
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func toRoomDTO(r domain.Room) roomDTO {
	return roomDTO{
		ID:                r.ID,
		Participants:      r.Participants,
		ListingID:         r.ListingID,
		CreatedAt:         r.CreatedAt,
		LastMessageText:   r.LastMessageText,
		LastMessageAt:     r.LastMessageAt,
		LastMessageSender: r.LastMessageSender,
	}
}

func toMessageDTO(m domain.Message) messageDTO {
	return messageDTO{
		ID:     m.ID,
		RoomID: m.RoomID,
		Sender: m.Sender,
		Text:   m.Text,
		SentAt: m.SentAt,
	}
}
