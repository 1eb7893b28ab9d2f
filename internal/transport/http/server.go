package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/store"
)

// NewServer builds the HTTP server: REST endpoints for rooms and the
// connection counter, plus the websocket endpoint bridging into the core.
func NewServer(engine *core.Engine, reg *core.Registry, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger), CORSMiddleware())

	router.GET("/health", healthHandler)

	rooms := NewRoomHandlers(st, reg, logger)
	router.POST("/rooms", rooms.CreateRoom)
	router.GET("/rooms", rooms.ListRooms)
	router.GET("/rooms/:roomId/messages", rooms.ListRoomMessages)
	router.GET("/messages", rooms.MessagesNotAllowed)
	router.GET("/connections-count", rooms.ConnectionsCount)

	router.GET("/ws", gin.WrapH(NewWSHandler(engine, cfg.MaxMessageBytes, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
