// server/internal/api/handlers/websocket_handler_test.go
package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"gate-pass-api-server/config"
	"gate-pass-api-server/internal/auth"
	"gate-pass-api-server/internal/models"
	"gate-pass-api-server/internal/socket"
)

func dialTestWs(t *testing.T) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var cfg config.Config
	cfg.JWT.Secret = "test-secret"

	handler := &WebSocketHandler{Hub: socket.NewHub(), Cfg: cfg}
	router := gin.New()
	router.GET("/ws", handler.ServeWs)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	token, err := auth.GenerateJWT([]byte(cfg.JWT.Secret), "verify@example.com", models.RoleVerify, "000300", []string{"HQ"}, time.Hour)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServeWsAnswersPingWithPong(t *testing.T) {
	conn := dialTestWs(t)

	pong := make(chan string, 1)
	conn.SetPongHandler(func(appData string) error {
		pong <- appData
		return nil
	})

	require.NoError(t, conn.WriteControl(websocket.PingMessage, []byte("heartbeat"), time.Now().Add(time.Second)))

	// Pong frames are delivered through the read loop.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		conn.ReadMessage()
	}()

	select {
	case data := <-pong:
		require.Equal(t, "heartbeat", data)
	case <-readDone:
		t.Fatal("read loop ended without a pong")
	case <-time.After(2 * time.Second):
		t.Fatal("no pong received")
	}
}

func TestServeWsRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var cfg config.Config
	cfg.JWT.Secret = "test-secret"
	handler := &WebSocketHandler{Hub: socket.NewHub(), Cfg: cfg}

	router := gin.New()
	router.GET("/ws", handler.ServeWs)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, 401, resp.StatusCode)
}
