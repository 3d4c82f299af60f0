package broadcast

import (
	"net/http"
	"time"

	"queuely/internal/shared/utils/response"
	"queuely/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write an event to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

// WebSocketHandler upgrades observer connections and streams queue events
type WebSocketHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Waiting-room displays connect from arbitrary origins;
				// tenancy is enforced by the resolver, not the origin.
				return true
			},
		},
		logger: logger.GetDefault(),
	}
}

// Subscribe handles GET /api/v1/queue/subscribe
func (h *WebSocketHandler) Subscribe(ctx *gin.Context) {
	value, exists := ctx.Get("clinic_id")
	if !exists {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}
	clinicID, ok := value.(uuid.UUID)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.LogHTTPError(ctx, err, http.StatusBadRequest)
		return
	}

	observer := h.hub.Subscribe(clinicID)

	go h.writePump(conn, observer)
	go h.readPump(conn, observer)
}

// writePump streams events and pings to the connection until the observer
// channel closes or a write fails
func (h *WebSocketHandler) writePump(conn *websocket.Conn, observer *Observer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.Unsubscribe(observer)
		_ = conn.Close()
	}()

	for {
		select {
		case event, ok := <-observer.events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; its job is noticing the peer going away
func (h *WebSocketHandler) readPump(conn *websocket.Conn, observer *Observer) {
	defer func() {
		h.hub.Unsubscribe(observer)
		_ = conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
