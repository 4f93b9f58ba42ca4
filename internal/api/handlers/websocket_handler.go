// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"gate-pass-api-server/config"
	"gate-pass-api-server/internal/auth"
	"gate-pass-api-server/internal/logger"
	"gate-pass-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Maximum time to wait for a heartbeat from the client.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub *socket.Hub
	Cfg config.Config
}

// ServeWs upgrades the connection and joins the client to its user, role
// and branch rooms. A reconnect goes through here again, so interest is
// re-announced on every connect.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}

	claims, err := auth.ParseJWT([]byte(h.Cfg.JWT.Secret), tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	rooms := []string{socket.UserRoom(claims.ServiceNo), socket.RoleRoom(claims.Role)}
	for _, branch := range claims.Branches {
		rooms = append(rooms, socket.BranchRoom(branch))
	}

	connID := claims.ServiceNo + ":" + uuid.New().String()[:8]
	h.Hub.Register(connID, conn, rooms...)

	defer func() {
		h.Hub.Unregister(connID)
		conn.Close()
	}()

	// Heartbeat: reset the read deadline whenever the client pings and
	// answer with a pong, since a custom handler replaces gorilla's default.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.GetLogger().Warn("Unexpected close error", zap.Error(err))
			}
			break
		}
	}
}
