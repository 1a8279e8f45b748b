package ws

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/middleware"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/mutation"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect from the SPA origin; auth happens via JWT, not origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades an authenticated HTTP request to a websocket session and
// blocks for the lifetime of the connection.
func Handler(hub *Hub, processor *mutation.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(middleware.UserIDKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		authenticatedUserID, ok := userID.(uuid.UUID)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("ws: upgrade failed for %s: %v", authenticatedUserID, err)
			return
		}

		session := NewSession(hub, processor, conn, authenticatedUserID)
		session.Run(c.Request.Context())
	}
}
