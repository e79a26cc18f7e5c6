package foodapitest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
	"github.com/go-chi/chi/v5"
)

// FoodHandler serves the /foods collection
type FoodHandler struct {
	repo   *Repository
	logger *slog.Logger
}

// NewFoodHandler creates a new food handler
func NewFoodHandler(repo *Repository, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{
		repo:   repo,
		logger: logger,
	}
}

// ListFoods handles GET /foods
func (h *FoodHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.repo.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list foods", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, foods)
}

// CreateFood handles POST /foods
func (h *FoodHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	var food models.Food
	if err := json.NewDecoder(r.Body).Decode(&food); err != nil {
		h.logger.Warn("failed to decode food", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.repo.Create(r.Context(), food)
	if err != nil {
		h.logger.Error("failed to create food", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// UpdateFood handles PUT /foods/{foodId}
func (h *FoodHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	id, ok := h.foodID(w, r)
	if !ok {
		return
	}

	var food models.Food
	if err := json.NewDecoder(r.Body).Decode(&food); err != nil {
		h.logger.Warn("failed to decode food", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.repo.Update(r.Context(), id, food)
	if err != nil {
		if errors.Is(err, ErrFoodNotFound) {
			h.writeError(w, http.StatusNotFound, "Food not found")
			return
		}
		h.logger.Error("failed to update food", "foodId", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteFood handles DELETE /foods/{foodId}
func (h *FoodHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	id, ok := h.foodID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrFoodNotFound) {
			h.writeError(w, http.StatusNotFound, "Food not found")
			return
		}
		h.logger.Error("failed to delete food", "foodId", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// json-server answers deletes with an empty object
	h.writeJSON(w, http.StatusOK, struct{}{})
}

func (h *FoodHandler) foodID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "foodId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid food ID format", "foodId", raw, "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid ID supplied")
		return 0, false
	}
	return id, true
}

// writeJSON writes a JSON response
func (h *FoodHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func (h *FoodHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
