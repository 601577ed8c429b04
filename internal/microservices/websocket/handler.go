package websocket

import (
	"net/http"

	"novelhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// HTTP upgrade handler to WebSocket connections

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// allow all origins for development purpose; can restrict later
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the HTTP connection and registers the client with
// the hub. Anonymous visitors are allowed: identity comes either from
// the OptionalAuth middleware or from a `token` query parameter
// (browsers cannot set an Authorization header on a WebSocket upgrade).
func WSHandler(hub *Hub, authService service.AuthService, msgsPerSec float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID *string
		userName := "anonymous"

		if claims, exists := c.Get("claims"); exists {
			if claimsData, ok := claims.(*service.Claims); ok {
				userID = &claimsData.UserID
				userName = claimsData.Username
			}
		} else if token := c.Query("token"); token != "" {
			if claimsData, err := authService.ValidateToken(token); err == nil {
				userID = &claimsData.UserID
				userName = claimsData.Username
			}
		}

		// upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade to WebSocket"})
			return
		}

		limiter := rate.NewLimiter(rate.Limit(msgsPerSec), burst)
		client := NewClient(uuid.New().String(), userID, userName, conn, hub, limiter)

		// register client to hub
		hub.Register <- client

		// start goroutines for read and write pumps
		go client.ReadPump()
		go client.WritePump()
	}
}
