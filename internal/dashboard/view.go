package dashboard

import "github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"

// View is a snapshot of everything a renderer needs
type View struct {
	Foods         []models.Food `json:"foods"`
	Loaded        bool          `json:"loaded"`
	AddModalOpen  bool          `json:"addModalOpen"`
	EditModalOpen bool          `json:"editModalOpen"`
	Editing       *models.Food  `json:"editing,omitempty"`
	Alert         string        `json:"alert,omitempty"`
	Notice        string        `json:"notice,omitempty"`
	Revision      uint64        `json:"revision"`
}

// View returns a copy of the current state
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := View{
		Foods:         cloneFoods(d.foods),
		Loaded:        d.loaded,
		AddModalOpen:  d.addModalOpen,
		EditModalOpen: d.editModalOpen,
		Alert:         d.alert,
		Notice:        d.notice,
		Revision:      d.revision,
	}
	if d.editing != nil {
		editing := *d.editing
		v.Editing = &editing
	}
	return v
}
