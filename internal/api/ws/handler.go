package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lumenhud/lumen/backend/internal/domain/flow"
	"github.com/lumenhud/lumen/backend/internal/domain/slots"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/logging"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/monitoring"
	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// outboundBuffer bounds queued messages per connection; a slow client
// silently drops intermediate updates and catches up on the next one.
const outboundBuffer = 16

// Handler streams committed snapshots and flow states to rendering clients
type Handler struct {
	allocator *slots.Allocator
	flow      *flow.Store
	metrics   *monitoring.Metrics
	logger    *logging.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(allocator *slots.Allocator, store *flow.Store, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	return &Handler{
		allocator: allocator,
		flow:      store,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleConnection handles WebSocket upgrade and message streaming
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	clientID := uuid.New().String()
	h.logger.Info("Client connected", zap.String("client_id", clientID))
	defer h.logger.Info("Client disconnected", zap.String("client_id", clientID))

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	out := make(chan interface{}, outboundBuffer)
	done := make(chan struct{})

	// Non-blocking enqueue keeps publishers decoupled from slow clients.
	enqueue := func(msg interface{}) {
		select {
		case out <- msg:
		default:
		}
	}

	unsubSnapshots := h.allocator.Subscribe(func(snap types.Snapshot) {
		enqueue(gin.H{"type": "snapshot", "snapshot": snap, "timestamp": time.Now().Unix()})
	})
	defer unsubSnapshots()

	unsubFlow := h.flow.Subscribe(
		func(st types.FlowState) interface{} { return st },
		func(st types.FlowState) {
			enqueue(gin.H{"type": "flow_state", "state": st, "timestamp": time.Now().Unix()})
		},
	)
	defer unsubFlow()

	// Initial state so clients render without waiting for a change.
	enqueue(gin.H{"type": "system", "client_id": clientID, "message": "Connected to Lumen HUD Service (Go)"})
	enqueue(gin.H{"type": "snapshot", "snapshot": h.allocator.Snapshot(), "timestamp": time.Now().Unix()})
	enqueue(gin.H{"type": "flow_state", "state": h.flow.State(), "timestamp": time.Now().Unix()})

	go h.writeLoop(conn, out, done)

	// Reader loop; closing done stops the writer.
	defer close(done)
	for {
		var msg struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "ping":
			enqueue(gin.H{"type": "pong"})
		case "snapshot":
			enqueue(gin.H{"type": "snapshot", "snapshot": h.allocator.Snapshot(), "timestamp": time.Now().Unix()})
		default:
			enqueue(gin.H{"type": "error", "message": "unknown message type"})
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, out <-chan interface{}, done <-chan struct{}) {
	for {
		select {
		case msg := <-out:
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
