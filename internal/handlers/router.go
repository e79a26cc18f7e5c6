package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds what the router needs besides the dashboard
type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter wires the dashboard page, its form actions, the JSON view,
// the event stream and the health check
func NewRouter(dash *dashboard.Dashboard, bus EventBus, cfg RouterConfig) (http.Handler, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	dashboardHandler, err := NewDashboardHandler(dash, "", log)
	if err != nil {
		return nil, err
	}
	healthHandler := NewHealthHandler(dash, log)
	eventsHandler := NewEventsHandler(dash, bus, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)

	// The event stream stays open, so it is kept out of the timeout group
	r.Get("/events", eventsHandler.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Get("/", dashboardHandler.Page)
		r.Get("/api/view", dashboardHandler.View)

		r.Post("/modal/add", dashboardHandler.ToggleAddModal)
		r.Post("/modal/edit", dashboardHandler.ToggleEditModal)
		r.Post("/alert/dismiss", dashboardHandler.DismissAlert)

		r.Post("/foods", dashboardHandler.CreateFood)
		r.Post("/foods/update", dashboardHandler.UpdateFood)
		r.Post("/foods/{foodId}/edit", dashboardHandler.EditFood)
		r.Post("/foods/{foodId}/availability", dashboardHandler.ToggleAvailable)
		r.Post("/foods/{foodId}/delete", dashboardHandler.DeleteFood)
	})

	return r, nil
}
