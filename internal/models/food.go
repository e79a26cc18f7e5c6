package models

// Food represents a menu item managed through the Food API
// The server owns the record; the dashboard keeps a local copy
type Food struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       Price  `json:"price"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// FoodInput is a candidate food item submitted from the add form
type FoodInput struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       Price  `json:"price"`
	Description string `json:"description"`
}

// ToFood converts the input into a new, available food item without an ID
func (in FoodInput) ToFood() Food {
	return Food{
		Name:        in.Name,
		Image:       in.Image,
		Price:       in.Price,
		Description: in.Description,
		Available:   true,
	}
}

// FoodPatch holds field overrides submitted from the edit form.
// A nil field keeps the value of the item being edited.
type FoodPatch struct {
	Name        *string `json:"name,omitempty"`
	Image       *string `json:"image,omitempty"`
	Price       *Price  `json:"price,omitempty"`
	Description *string `json:"description,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// Apply merges the patch onto f and returns the merged record
func (p FoodPatch) Apply(f Food) Food {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Image != nil {
		f.Image = *p.Image
	}
	if p.Price != nil {
		f.Price = *p.Price
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Available != nil {
		f.Available = *p.Available
	}
	return f
}

// IsEmpty reports whether the patch overrides nothing
func (p FoodPatch) IsEmpty() bool {
	return p.Name == nil && p.Image == nil && p.Price == nil && p.Description == nil && p.Available == nil
}
