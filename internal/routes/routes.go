package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixrx_backend/internal/handlers"
	"fixrx_backend/internal/ws"
)

// RegisterRoutes mounts the /api/v1 surface and the websocket
// endpoint. authMW is the bearer-token middleware built from the
// configured verifier.
func RegisterRoutes(engine *gin.Engine, h *handlers.AppHandlers, wsHandler *ws.Handler, authMW gin.HandlerFunc) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	{
		h.User.RegisterRoutes(v1, authMW)
		h.Catalog.RegisterRoutes(v1)
		h.Connection.RegisterRoutes(v1, authMW)
		h.Rating.RegisterRoutes(v1, authMW)
		h.Message.RegisterRoutes(v1, authMW)
		h.Notification.RegisterRoutes(v1, authMW)
	}

	engine.GET("/ws", authMW, wsHandler.ServeWS)
}
