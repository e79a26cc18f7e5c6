package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// HealthHandler provides health check endpoint
type HealthHandler struct {
	dash   *dashboard.Dashboard
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dash *dashboard.Dashboard, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		dash:   dash,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Loaded    bool      `json:"loaded"`
	Foods     int       `json:"foods"`
}

// ServeHTTP handles health check requests.
// The dashboard reports "degraded" while the food list failed to load.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view := h.dash.View()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Loaded:    view.Loaded,
		Foods:     len(view.Foods),
	}
	if view.Alert != "" {
		response.Status = "degraded"
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
