package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"giveboard/domain"
	apperrors "giveboard/errors"
)

type resolveRoomRequest struct {
	PeerID    string `json:"peer_id" binding:"required"`
	ListingID string `json:"listing_id"`
}

// resolveRoom finds or creates the room between the caller and the
// peer. A failed resolution blocks navigation into a channel, so the
// error reaches the client instead of being swallowed.
func (s *Server) resolveRoom(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req resolveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomID, err := s.chat.ResolveOrCreateRoom(c.Request.Context(), domain.ResolveRoomCommand{
		ParticipantA: identity.ID,
		ParticipantB: req.PeerID,
		ListingID:    req.ListingID,
	})
	if err != nil {
		s.fail(c, err, "room resolution failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID})
}

type sendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) sendMessage(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.chat.SendMessage(c.Request.Context(), domain.SendMessageCommand{
		RoomID: c.Param("roomID"),
		Sender: identity.ID,
		Text:   req.Text,
	})
	if err != nil {
		// The client keeps its compose state on failure and can
		// retry manually.
		s.fail(c, err, "message send failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps the two error tiers: validation faults are the caller's
// problem, everything else is an infrastructure fault that must reach
// the user.
func (s *Server) fail(c *gin.Context, err error, msg string) {
	if apperrors.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.log.Error(msg, "err", err, "request", c.GetString("requestID"))
	c.JSON(http.StatusBadGateway, gin.H{"error": msg})
}
