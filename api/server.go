// Package api exposes the marketplace over HTTP and streams the live
// chat views over websockets.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"giveboard/auth"
	"giveboard/observability"
	"giveboard/services"
)

type Server struct {
	chat       services.IChatService
	directory  services.IDirectoryService
	listings   services.IListingService
	identities *auth.Provider
	monitor    *observability.Monitor
	log        *slog.Logger
	upgrader   websocket.Upgrader
}

func NewServer(
	chat services.IChatService,
	directory services.IDirectoryService,
	listings services.IListingService,
	identities *auth.Provider,
	monitor *observability.Monitor,
	log *slog.Logger,
) *Server {
	return &Server{
		chat:       chat,
		directory:  directory,
		listings:   listings,
		identities: identities,
		monitor:    monitor,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())

	r.GET("/healthz", s.health)

	authed := r.Group("/")
	authed.Use(IdentityRequired(s.identities))

	authed.POST("/api/chats/resolve", s.resolveRoom)
	authed.POST("/api/chats/:roomID/messages", s.sendMessage)
	authed.GET("/ws/chats", s.streamRooms)
	authed.GET("/ws/chats/:roomID/messages", s.streamMessages)

	authed.POST("/api/listings", s.postListing)
	authed.GET("/api/listings/latest", s.latestListings)
	authed.GET("/api/listings/by-category/:category", s.listingsByCategory)
	authed.GET("/api/listings/by-city/:city", s.listingsByCity)
	authed.GET("/api/listings/search", s.searchListings)
	authed.GET("/api/categories", s.categories)
	authed.GET("/api/sliders", s.sliders)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"stats":  s.monitor.Snapshot(),
	})
}
