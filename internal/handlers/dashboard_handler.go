package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
	"github.com/go-chi/chi/v5"
)

// DashboardHandler serves the dashboard page and its form actions.
// Every form action redirects back to the page; failed sync operations
// surface through the dashboard's notice.
type DashboardHandler struct {
	dash     *dashboard.Dashboard
	renderer *renderer
	basePath string
	logger   *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dash *dashboard.Dashboard, basePath string, logger *slog.Logger) (*DashboardHandler, error) {
	r, err := newRenderer("GoRestaurant", basePath)
	if err != nil {
		return nil, err
	}

	return &DashboardHandler{
		dash:     dash,
		renderer: r,
		basePath: basePath,
		logger:   logger,
	}, nil
}

// Page handles GET /
// The first render mounts the dashboard, which loads the food list once
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	// A failed load is already logged and shown as an alert
	_ = h.dash.Mount(context.WithoutCancel(r.Context()))

	if err := h.renderer.render(w, h.dash.View()); err != nil {
		h.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// View handles GET /api/view
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.dash.View(), h.logger)
}

// ToggleAddModal handles POST /modal/add
func (h *DashboardHandler) ToggleAddModal(w http.ResponseWriter, r *http.Request) {
	h.dash.ToggleModal()
	h.redirect(w, r)
}

// ToggleEditModal handles POST /modal/edit
func (h *DashboardHandler) ToggleEditModal(w http.ResponseWriter, r *http.Request) {
	h.dash.ToggleEditModal()
	h.redirect(w, r)
}

// DismissAlert handles POST /alert/dismiss
func (h *DashboardHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	h.dash.DismissAlert()
	h.redirect(w, r)
}

// CreateFood handles POST /foods, the add modal's submit
func (h *DashboardHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid form", h.logger)
		return
	}

	price, err := models.ParsePrice(r.PostForm.Get("price"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	input := models.FoodInput{
		Name:        strings.TrimSpace(r.PostForm.Get("name")),
		Image:       strings.TrimSpace(r.PostForm.Get("image")),
		Price:       price,
		Description: strings.TrimSpace(r.PostForm.Get("description")),
	}
	if input.Name == "" {
		WriteError(w, http.StatusBadRequest, "name is required", h.logger)
		return
	}

	// Failure is logged and recorded as a notice by the dashboard
	_, _ = h.dash.Create(r.Context(), input)
	h.dash.CloseModals()
	h.redirect(w, r)
}

// EditFood handles POST /foods/{foodId}/edit
func (h *DashboardHandler) EditFood(w http.ResponseWriter, r *http.Request) {
	id, ok := h.foodID(w, r)
	if !ok {
		return
	}

	if err := h.dash.EditFoodByID(id); err != nil {
		if errors.Is(err, dashboard.ErrFoodNotFound) {
			WriteError(w, http.StatusNotFound, "Food not found", h.logger)
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}
	h.redirect(w, r)
}

// UpdateFood handles POST /foods/update, the edit modal's submit
func (h *DashboardHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid form", h.logger)
		return
	}

	patch, err := patchFromForm(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	if _, err := h.dash.Update(r.Context(), patch); errors.Is(err, dashboard.ErrNoSelection) {
		WriteError(w, http.StatusConflict, "No food selected for editing", h.logger)
		return
	}
	h.dash.CloseModals()
	h.redirect(w, r)
}

// ToggleAvailable handles POST /foods/{foodId}/availability
func (h *DashboardHandler) ToggleAvailable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.foodID(w, r)
	if !ok {
		return
	}

	if _, err := h.dash.ToggleAvailable(r.Context(), id); errors.Is(err, dashboard.ErrFoodNotFound) {
		WriteError(w, http.StatusNotFound, "Food not found", h.logger)
		return
	}
	h.redirect(w, r)
}

// DeleteFood handles POST /foods/{foodId}/delete
func (h *DashboardHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	id, ok := h.foodID(w, r)
	if !ok {
		return
	}

	_ = h.dash.Delete(r.Context(), id)
	h.redirect(w, r)
}

// patchFromForm builds overrides from the fields present in the form
func patchFromForm(r *http.Request) (models.FoodPatch, error) {
	var patch models.FoodPatch
	form := r.PostForm

	if form.Has("name") {
		name := strings.TrimSpace(form.Get("name"))
		patch.Name = &name
	}
	if form.Has("image") {
		image := strings.TrimSpace(form.Get("image"))
		patch.Image = &image
	}
	if form.Has("description") {
		description := strings.TrimSpace(form.Get("description"))
		patch.Description = &description
	}
	if raw := form.Get("price"); strings.TrimSpace(raw) != "" {
		price, err := models.ParsePrice(raw)
		if err != nil {
			return models.FoodPatch{}, err
		}
		patch.Price = &price
	}
	return patch, nil
}

func (h *DashboardHandler) foodID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "foodId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid food ID format", "foodId", raw, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return 0, false
	}
	return id, true
}

func (h *DashboardHandler) redirect(w http.ResponseWriter, r *http.Request) {
	target := h.basePath + "/"
	http.Redirect(w, r, target, http.StatusSeeOther)
}
