// Package dashboard keeps the local replica of the food collection in step
// with the Food API and tracks which modal is open and which food is being
// edited.
//
// Every sync operation calls the API first and only then reconciles the
// list, so a failed call never leaves a half-applied change behind. The API
// call runs without holding the lock; reconciliation is applied to the list
// as it is when the response arrives, so two in-flight operations cannot
// erase each other's effect.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/client"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/events"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
)

var (
	// ErrNoSelection is returned by Update when no food is being edited
	ErrNoSelection = errors.New("no food selected for editing")
	// ErrFoodNotFound is returned when an ID does not match any listed food
	ErrFoodNotFound = errors.New("food not in list")
)

// Publisher receives an event after every state change
type Publisher interface {
	Publish(ev events.Event)
}

// Dashboard owns the list store and the modal state
type Dashboard struct {
	api    client.FoodAPI
	logger *slog.Logger
	pub    Publisher

	mountOnce sync.Once
	mountErr  error

	mu            sync.Mutex
	foods         []models.Food
	loaded        bool
	addModalOpen  bool
	editModalOpen bool
	editing       *models.Food
	alert         string
	notice        string
	revision      uint64
}

// New creates an empty dashboard. pub may be nil.
func New(api client.FoodAPI, logger *slog.Logger, pub Publisher) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		api:    api,
		logger: logger,
		pub:    pub,
	}
}

// Mount loads the food list. Only the first call reaches the API; later
// calls return the first call's result.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mountOnce.Do(func() {
		d.mountErr = d.load(ctx)
	})
	return d.mountErr
}

func (d *Dashboard) load(ctx context.Context) error {
	foods, err := d.api.ListFoods(ctx)
	if err != nil {
		d.logger.Error("failed to load foods", "error", err)

		d.mu.Lock()
		d.alert = err.Error()
		ev := d.commitLocked(events.KindLoadFailed, 0)
		d.mu.Unlock()
		d.publish(ev)

		return fmt.Errorf("load foods: %w", err)
	}

	d.mu.Lock()
	// A response without data leaves the list as it is
	if foods != nil {
		d.foods = cloneFoods(foods)
	}
	d.loaded = true
	ev := d.commitLocked(events.KindLoaded, 0)
	d.mu.Unlock()
	d.publish(ev)

	d.logger.Info("foods loaded", "count", len(foods))
	return nil
}

// Create sends in to the API as an available food and appends the stored
// record, carrying its server-assigned ID, to the end of the list
func (d *Dashboard) Create(ctx context.Context, in models.FoodInput) (*models.Food, error) {
	created, err := d.api.CreateFood(ctx, in.ToFood())
	if err != nil {
		return nil, d.syncFailed("create food", 0, err)
	}
	if created == nil || created.ID == 0 {
		return nil, d.syncFailed("create food", 0, client.ErrMissingID)
	}

	d.mu.Lock()
	d.foods = append(d.foods, *created)
	ev := d.commitLocked(events.KindCreated, created.ID)
	d.mu.Unlock()
	d.publish(ev)

	d.logger.Info("food created", "food_id", created.ID, "name", created.Name)
	return created, nil
}

// EditFood selects food for editing and opens the edit modal
func (d *Dashboard) EditFood(food models.Food) {
	d.mu.Lock()
	selected := food
	d.editing = &selected
	d.editModalOpen = true
	ev := d.commitLocked(events.KindSelected, food.ID)
	d.mu.Unlock()
	d.publish(ev)
}

// EditFoodByID selects the listed food with the given ID
func (d *Dashboard) EditFoodByID(id int64) error {
	d.mu.Lock()
	food, ok := findFood(d.foods, id)
	d.mu.Unlock()
	if !ok {
		return ErrFoodNotFound
	}

	d.EditFood(food)
	return nil
}

// Update merges patch onto the selected food, sends the merged record to the
// API and replaces the listed entry carrying the returned ID. When no entry
// matches, the list is left unchanged.
func (d *Dashboard) Update(ctx context.Context, patch models.FoodPatch) (*models.Food, error) {
	d.mu.Lock()
	if d.editing == nil {
		d.mu.Unlock()
		return nil, ErrNoSelection
	}
	selected := *d.editing
	d.mu.Unlock()

	merged := patch.Apply(selected)
	merged.ID = selected.ID

	updated, err := d.api.UpdateFood(ctx, selected.ID, merged)
	if err != nil {
		return nil, d.syncFailed("update food", selected.ID, err)
	}

	d.mu.Lock()
	var replaced bool
	d.foods, replaced = replaceFood(d.foods, *updated)
	if d.editing != nil && d.editing.ID == updated.ID {
		fresh := *updated
		d.editing = &fresh
	}
	ev := d.commitLocked(events.KindUpdated, updated.ID)
	d.mu.Unlock()
	d.publish(ev)

	if !replaced {
		d.logger.Warn("updated food is not in the list", "food_id", updated.ID)
	} else {
		d.logger.Info("food updated", "food_id", updated.ID)
	}
	return updated, nil
}

// ToggleAvailable flips the availability of the listed food with the given ID
func (d *Dashboard) ToggleAvailable(ctx context.Context, id int64) (*models.Food, error) {
	d.mu.Lock()
	food, ok := findFood(d.foods, id)
	d.mu.Unlock()
	if !ok {
		return nil, ErrFoodNotFound
	}

	food.Available = !food.Available
	updated, err := d.api.UpdateFood(ctx, id, food)
	if err != nil {
		return nil, d.syncFailed("toggle availability", id, err)
	}

	d.mu.Lock()
	d.foods, _ = replaceFood(d.foods, *updated)
	ev := d.commitLocked(events.KindUpdated, updated.ID)
	d.mu.Unlock()
	d.publish(ev)

	d.logger.Info("food availability changed", "food_id", updated.ID, "available", updated.Available)
	return updated, nil
}

// Delete asks the API to delete the food and then drops every listed entry
// carrying id. On failure the list is left untouched.
func (d *Dashboard) Delete(ctx context.Context, id int64) error {
	if err := d.api.DeleteFood(ctx, id); err != nil {
		return d.syncFailed("delete food", id, err)
	}

	d.mu.Lock()
	d.foods = removeFood(d.foods, id)
	if d.editing != nil && d.editing.ID == id {
		d.editing = nil
		d.editModalOpen = false
	}
	ev := d.commitLocked(events.KindDeleted, id)
	d.mu.Unlock()
	d.publish(ev)

	d.logger.Info("food deleted", "food_id", id)
	return nil
}

// ToggleModal opens or closes the add modal
func (d *Dashboard) ToggleModal() {
	d.mu.Lock()
	d.addModalOpen = !d.addModalOpen
	ev := d.commitLocked(events.KindModal, 0)
	d.mu.Unlock()
	d.publish(ev)
}

// ToggleEditModal opens or closes the edit modal
func (d *Dashboard) ToggleEditModal() {
	d.mu.Lock()
	d.editModalOpen = !d.editModalOpen
	ev := d.commitLocked(events.KindModal, 0)
	d.mu.Unlock()
	d.publish(ev)
}

// CloseModals closes both modals, as a submitted form does
func (d *Dashboard) CloseModals() {
	d.mu.Lock()
	d.addModalOpen = false
	d.editModalOpen = false
	ev := d.commitLocked(events.KindModal, 0)
	d.mu.Unlock()
	d.publish(ev)
}

// DismissAlert clears the load alert and any notice
func (d *Dashboard) DismissAlert() {
	d.mu.Lock()
	d.alert = ""
	d.notice = ""
	ev := d.commitLocked(events.KindNoticeClear, 0)
	d.mu.Unlock()
	d.publish(ev)
}

// syncFailed logs err, records it as a notice and returns it wrapped with op
func (d *Dashboard) syncFailed(op string, id int64, err error) error {
	d.logger.Error("failed to "+op, "food_id", id, "error", err)

	d.mu.Lock()
	d.notice = fmt.Sprintf("Could not %s: %v", op, err)
	ev := d.commitLocked(events.KindSyncFailed, id)
	d.mu.Unlock()
	d.publish(ev)

	return fmt.Errorf("%s: %w", op, err)
}

// commitLocked bumps the revision; d.mu must be held
func (d *Dashboard) commitLocked(kind events.Kind, id int64) events.Event {
	d.revision++
	return events.Event{Kind: kind, FoodID: id, Revision: d.revision}
}

func (d *Dashboard) publish(ev events.Event) {
	if d.pub != nil {
		d.pub.Publish(ev)
	}
}

func findFood(foods []models.Food, id int64) (models.Food, bool) {
	for _, f := range foods {
		if f.ID == id {
			return f, true
		}
	}
	return models.Food{}, false
}

func replaceFood(foods []models.Food, updated models.Food) ([]models.Food, bool) {
	out := make([]models.Food, len(foods))
	replaced := false
	for i, f := range foods {
		if f.ID == updated.ID {
			out[i] = updated
			replaced = true
			continue
		}
		out[i] = f
	}
	return out, replaced
}

func removeFood(foods []models.Food, id int64) []models.Food {
	out := make([]models.Food, 0, len(foods))
	for _, f := range foods {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

func cloneFoods(foods []models.Food) []models.Food {
	out := make([]models.Food, len(foods))
	copy(out, foods)
	return out
}
