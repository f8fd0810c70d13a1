package handler

import (
	"net/http"
	"sync"

	"tube-bite/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ProgressUpdate is one websocket progress frame.
type ProgressUpdate struct {
	JobId   string `json:"jobId"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ProgressHub fans job progress out to every connected websocket client.
// Broadcast is safe to call from worker goroutines.
type ProgressHub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Local tool, same-origin enforcement brings nothing here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and keeps the connection registered until the
// client goes away. Clients only listen; inbound frames are drained.
func (h *ProgressHub) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.GetLogger().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends one update to every client. Dead connections are dropped
// on write failure.
func (h *ProgressHub) Broadcast(jobId string, percent int, message string) {
	update := ProgressUpdate{JobId: jobId, Percent: percent, Message: message}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(update); err != nil {
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

func (h *ProgressHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// ClientCount reports connected listeners.
func (h *ProgressHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
