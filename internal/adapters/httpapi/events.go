package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// eventMessage is pushed to documents on every change notification.
type eventMessage struct {
	Type string `json:"type"`
}

// handleEvents streams change notifications until either side goes away.
// Client messages are read and discarded so close frames are noticed.
func (h *handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if h.notifier == nil {
		http.Error(w, "change notifications unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	changes, cancel := h.notifier.Subscribe()
	defer cancel()

	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("events client connected")
	for {
		select {
		case <-clientGone:
			h.logger.Debug().Str("remote", r.RemoteAddr).Msg("events client disconnected")
			return
		case <-r.Context().Done():
			return
		case kind, ok := <-changes:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := conn.WriteJSON(eventMessage{Type: string(kind)}); err != nil {
				return
			}
		}
	}
}
