package foodapitest

import (
	"context"
	"errors"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
)

var (
	// ErrFoodNotFound is returned when no stored food has the requested ID
	ErrFoodNotFound = errors.New("food not found")
)

// Repository is an in-memory food collection that assigns sequential IDs
// the way json-server does. Insertion order is preserved.
type Repository struct {
	mu     sync.RWMutex
	foods  []models.Food
	nextID int64
}

// NewRepository creates a repository holding seed
func NewRepository(seed ...models.Food) *Repository {
	r := &Repository{nextID: 1}
	for _, f := range seed {
		r.foods = append(r.foods, f)
		if f.ID >= r.nextID {
			r.nextID = f.ID + 1
		}
	}
	return r
}

// GetAll returns all foods in insertion order
func (r *Repository) GetAll(ctx context.Context) ([]models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	foods := make([]models.Food, len(r.foods))
	copy(foods, r.foods)
	return foods, nil
}

// GetByID returns a food by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.foods {
		if f.ID == id {
			food := f
			return &food, nil
		}
	}
	return nil, ErrFoodNotFound
}

// Create stores food under a fresh ID, ignoring any ID the caller sent
func (r *Repository) Create(ctx context.Context, food models.Food) (*models.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	food.ID = r.nextID
	r.nextID++
	r.foods = append(r.foods, food)
	return &food, nil
}

// Update replaces the food stored under id
func (r *Repository) Update(ctx context.Context, id int64, food models.Food) (*models.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.foods {
		if r.foods[i].ID == id {
			food.ID = id
			r.foods[i] = food
			return &food, nil
		}
	}
	return nil, ErrFoodNotFound
}

// Delete removes the food stored under id
func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.foods {
		if r.foods[i].ID == id {
			r.foods = append(r.foods[:i], r.foods[i+1:]...)
			return nil
		}
	}
	return ErrFoodNotFound
}
