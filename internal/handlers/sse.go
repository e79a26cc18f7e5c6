package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/events"
	"github.com/google/uuid"
)

// EventBus is the subscription side of events.Bus
type EventBus interface {
	Subscribe(id string) <-chan events.Event
	Unsubscribe(id string)
}

// EventsHandler streams dashboard changes as Server-Sent Events
type EventsHandler struct {
	dash   *dashboard.Dashboard
	bus    EventBus
	logger *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(dash *dashboard.Dashboard, bus EventBus, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{dash: dash, bus: bus, logger: logger}
}

// ServeHTTP handles GET /events.
// Clients receive the current revision immediately, then every change.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// The stream outlives the server's WriteTimeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	id := uuid.New().String()
	ch := h.bus.Subscribe(id)
	defer h.bus.Unsubscribe(id)

	h.logger.Debug("events subscriber connected", "subscriber_id", id)

	sendSSE(w, flusher, events.Event{Kind: events.KindSnapshot, Revision: h.dash.View().Revision})

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			sendSSE(w, flusher, ev)
		case <-r.Context().Done():
			h.logger.Debug("events subscriber disconnected", "subscriber_id", id)
			return
		}
	}
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
