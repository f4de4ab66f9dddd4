// Package ws streams terminal events to UI clients over WebSocket.
package ws

import (
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/codeloft/termdeck/backend/internal/logging"
	"github.com/codeloft/termdeck/backend/internal/monitoring"
	"github.com/codeloft/termdeck/backend/internal/terminal"
	"github.com/codeloft/termdeck/backend/internal/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The backend binds to loopback; the desktop shell is the only caller.
		return true
	},
}

// Message is the envelope for client-to-server frames.
type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Data      string `json:"data,omitempty"`
	Cols      int    `json:"cols,omitempty"`
	Rows      int    `json:"rows,omitempty"`
}

// client is one connected UI, with writes serialized by a mutex because the
// broadcast pump and the read loop both produce frames.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Handler manages WebSocket connections and fans supervisor events out to
// every connected client.
type Handler struct {
	supervisor *terminal.Supervisor
	log        *logging.Logger
	metrics    *monitoring.Metrics

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHandler creates a new WebSocket handler
func NewHandler(supervisor *terminal.Supervisor, log *logging.Logger, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		supervisor: supervisor,
		log:        log,
		metrics:    metrics,
		clients:    make(map[*client]struct{}),
	}
}

// Run pumps supervisor events to connected clients until the event channel
// closes. Call it once, from its own goroutine.
func (h *Handler) Run() {
	for ev := range h.supervisor.Events() {
		frame := h.frame(ev)
		h.mu.Lock()
		for cl := range h.clients {
			if err := cl.send(frame); err != nil {
				// The read loop notices the broken connection and cleans up.
				h.log.Debug("event push failed", zap.Error(err))
			}
		}
		h.mu.Unlock()
		if h.metrics != nil {
			h.metrics.RecordWSMessage("out", string(ev.Type))
		}
	}
}

func (h *Handler) frame(ev terminal.Event) gin.H {
	switch ev.Type {
	case terminal.EventData:
		return gin.H{
			"type":       "data",
			"session_id": ev.SessionID,
			"data":       base64.StdEncoding.EncodeToString(ev.Data),
			"timestamp":  time.Now().Unix(),
		}
	case terminal.EventExit:
		return gin.H{
			"type":       "exit",
			"session_id": ev.SessionID,
			"exit_code":  ev.ExitCode,
			"timestamp":  time.Now().Unix(),
		}
	}
	return gin.H{"type": string(ev.Type), "session_id": ev.SessionID}
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	cl := &client{conn: conn}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		if h.metrics != nil {
			h.metrics.DecWSConnections()
		}
	}()

	cl.send(gin.H{
		"type":    "system",
		"message": "connected to termdeck backend",
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "input":
			if err := utils.ValidateInput(msg.Data); err != nil {
				cl.send(gin.H{
					"type":      "error",
					"message":   err.Error(),
					"timestamp": time.Now().Unix(),
				})
				continue
			}
			h.supervisor.Write(msg.SessionID, msg.Data)
		case "resize":
			h.supervisor.Resize(msg.SessionID, msg.Cols, msg.Rows)
		case "kill":
			h.supervisor.Kill(msg.SessionID)
		case "ping":
			cl.send(gin.H{"type": "pong"})
		default:
			cl.send(gin.H{
				"type":      "error",
				"message":   "unknown message type",
				"timestamp": time.Now().Unix(),
			})
		}
	}
}
