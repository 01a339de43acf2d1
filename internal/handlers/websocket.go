package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/amaumene/gomovies/internal/constants"
	"github.com/amaumene/gomovies/internal/session"
)

// ClientMessage is what a WebSocket client sends: "input" (debounced),
// "submit" (immediate) or "more".
type ClientMessage struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
}

// handleSessionWS pushes the session's view on every state change until
// the client disconnects or the session is closed.
func (h *Handler) handleSessionWS(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.services.Logger.Warnf("[WebSocket] upgrade failed for session %s: %v", s.ID, err)
		return
	}
	defer func() { _ = conn.Close() }()

	updates, unsubscribe := s.Controller.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go h.readClientMessages(conn, s, done)

	ticker := time.NewTicker(constants.WSPingInterval)
	defer ticker.Stop()

	for {
		select {
		case state, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(constants.WSWriteTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(constants.WSWriteTimeout))
			if err := conn.WriteJSON(h.renderer.List(state)); err != nil {
				h.services.Logger.Debugf("[WebSocket] write failed for session %s: %v", s.ID, err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(constants.WSWriteTimeout)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Handler) readClientMessages(conn *websocket.Conn, s *session.Session, done chan<- struct{}) {
	defer close(done)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.services.Logger.Debugf("[WebSocket] read failed for session %s: %v", s.ID, err)
			}
			return
		}

		// keep the session alive while the client is active
		_, _ = h.sessions.Get(s.ID)

		switch msg.Type {
		case "input":
			s.Controller.SetInput(msg.Query)
		case "submit":
			s.Controller.Submit(msg.Query)
		case "more":
			s.Controller.LoadMore()
		default:
			h.services.Logger.Warnf("[WebSocket] unknown message type %q", msg.Type)
		}
	}
}
