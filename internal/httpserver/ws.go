package httpserver

import (
	"net/http"
	"strings"

	"github.com/sami992010/ProBTC/internal/marketdata"

	"github.com/gorilla/websocket"
)

// PriceWSHandler streams price ticks to websocket clients. Each connection
// gets its own bus subscription; a client that stops reading falls behind on
// its own buffer and never slows the feed or other clients.
type PriceWSHandler struct {
	bus      *marketdata.Bus
	origin   string
	upgrader websocket.Upgrader
}

func NewPriceWSHandler(bus *marketdata.Bus, origin string) *PriceWSHandler {
	return &PriceWSHandler{
		bus:    bus,
		origin: origin,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origin) },
		},
	}
}

func allowOrigin(r *http.Request, origin string) bool {
	if origin == "*" {
		return true
	}
	reqOrigin := r.Header.Get("Origin")
	if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
		if strings.Contains(reqOrigin, "localhost") || strings.Contains(reqOrigin, "127.0.0.1") {
			return true
		}
	}
	return strings.EqualFold(reqOrigin, origin)
}

func (h *PriceWSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	sub := h.bus.Subscribe()
	defer h.bus.Unsubscribe(sub)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	for {
		select {
		case tick, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(tick); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
