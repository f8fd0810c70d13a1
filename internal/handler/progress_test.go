package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tube-bite/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProgressHubBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log.Logger = zap.NewNop()

	hub := NewProgressHub()
	r := gin.New()
	r.GET("/ws/progress", hub.Serve)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) + "/ws/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// wait for the server side to register the connection
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, hub.ClientCount())

	hub.Broadcast("job_ws", 42, "transcribed")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var update ProgressUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "job_ws", update.JobId)
	assert.Equal(t, 42, update.Percent)
	assert.Equal(t, "transcribed", update.Message)
}

func TestProgressHubDropsClosedClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log.Logger = zap.NewNop()

	hub := NewProgressHub()
	r := gin.New()
	r.GET("/ws/progress", hub.Serve)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) + "/ws/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 0, hub.ClientCount())

	// broadcasting with no listeners must not panic
	hub.Broadcast("job_ws", 100, "done")
}
