// Package tui renders the food dashboard in a terminal.
package tui

import (
	"context"
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAdd
	modalEdit
)

const (
	fieldName = iota
	fieldImage
	fieldPrice
	fieldDescription
	fieldCount
)

type loadedMsg struct{ err error }

type syncedMsg struct {
	op  string
	err error
}

// Model is the bubbletea model wrapping a Dashboard.
// Modal visibility lives in the dashboard; the model only owns cursor,
// form inputs and the status line.
type Model struct {
	ctx  context.Context
	dash *dashboard.Dashboard

	width  int
	height int

	cursor int
	inputs []textinput.Model
	focus  int
	status string
}

// New creates a model for dash. ctx bounds every API call it starts.
func New(ctx context.Context, dash *dashboard.Dashboard) Model {
	m := Model{ctx: ctx, dash: dash}

	placeholders := [fieldCount]string{
		fieldName:        "Ex: Moda Italiana",
		fieldImage:       "Cole o link aqui",
		fieldPrice:       "Ex: 19.90",
		fieldDescription: "Descrição",
	}
	m.inputs = make([]textinput.Model, fieldCount)
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.Width = 48
		m.inputs[i] = in
	}
	return m
}

// Init starts the initial food load
func (m Model) Init() tea.Cmd {
	return m.mount()
}

// Update handles key presses and the results of finished API calls
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err == nil {
			m.status = ""
		}
		m.clampCursor()
		return m, nil

	case syncedMsg:
		if msg.err != nil {
			m.status = "Could not " + msg.op
		} else {
			m.status = ""
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		view := m.dash.View()
		if view.Alert != "" {
			return m.updateAlert(msg)
		}
		switch m.openModal(view) {
		case modalAdd, modalEdit:
			return m.updateModal(msg, view)
		}
		return m.updateList(msg, view)
	}

	return m, nil
}

func (m Model) updateAlert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "enter", "esc", " ", "space":
		m.dash.DismissAlert()
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg, view dashboard.View) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(view.Foods)-1 {
			m.cursor++
		}

	case "a", "n":
		m.resetInputs(models.Food{})
		m.dash.ToggleModal()
		return m, m.focusInput(fieldName)

	case "e", "enter":
		food, ok := m.selected(view)
		if !ok {
			return m, nil
		}
		m.dash.EditFood(food)
		m.resetInputs(food)
		return m, m.focusInput(fieldName)

	case "d", "x":
		food, ok := m.selected(view)
		if !ok {
			return m, nil
		}
		return m, m.run("delete food", func(ctx context.Context) error {
			return m.dash.Delete(ctx, food.ID)
		})

	case " ", "space":
		food, ok := m.selected(view)
		if !ok {
			return m, nil
		}
		return m, m.run("toggle availability", func(ctx context.Context) error {
			_, err := m.dash.ToggleAvailable(ctx, food.ID)
			return err
		})

	case "esc":
		m.dash.DismissAlert()
		m.status = ""
	}
	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg, view dashboard.View) (tea.Model, tea.Cmd) {
	kind := m.openModal(view)

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if kind == modalAdd {
			m.dash.ToggleModal()
		} else {
			m.dash.ToggleEditModal()
		}
		m.blurInputs()
		return m, nil

	case "tab", "down":
		return m, m.focusInput((m.focus + 1) % fieldCount)

	case "shift+tab", "up":
		return m, m.focusInput((m.focus + fieldCount - 1) % fieldCount)

	case "enter":
		if kind == modalAdd {
			return m.submitAdd()
		}
		return m.submitEdit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	price, err := models.ParsePrice(m.inputs[fieldPrice].Value())
	if err != nil {
		m.status = err.Error()
		return m, m.focusInput(fieldPrice)
	}
	input := models.FoodInput{
		Name:        strings.TrimSpace(m.inputs[fieldName].Value()),
		Image:       strings.TrimSpace(m.inputs[fieldImage].Value()),
		Price:       price,
		Description: strings.TrimSpace(m.inputs[fieldDescription].Value()),
	}
	if input.Name == "" {
		m.status = "name is required"
		return m, m.focusInput(fieldName)
	}

	m.dash.CloseModals()
	m.blurInputs()
	return m, m.run("create food", func(ctx context.Context) error {
		_, err := m.dash.Create(ctx, input)
		return err
	})
}

func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	price, err := models.ParsePrice(m.inputs[fieldPrice].Value())
	if err != nil {
		m.status = err.Error()
		return m, m.focusInput(fieldPrice)
	}
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	image := strings.TrimSpace(m.inputs[fieldImage].Value())
	description := strings.TrimSpace(m.inputs[fieldDescription].Value())
	patch := models.FoodPatch{
		Name:        &name,
		Image:       &image,
		Price:       &price,
		Description: &description,
	}

	m.dash.CloseModals()
	m.blurInputs()
	return m, m.run("update food", func(ctx context.Context) error {
		_, err := m.dash.Update(ctx, patch)
		return err
	})
}

// openModal reports which form is showing; the add modal wins if both are open
func (m Model) openModal(view dashboard.View) modalKind {
	switch {
	case view.AddModalOpen:
		return modalAdd
	case view.EditModalOpen && view.Editing != nil:
		return modalEdit
	default:
		return modalNone
	}
}

func (m Model) selected(view dashboard.View) (models.Food, bool) {
	if m.cursor < 0 || m.cursor >= len(view.Foods) {
		return models.Food{}, false
	}
	return view.Foods[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.dash.View().Foods)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) resetInputs(food models.Food) {
	m.inputs[fieldName].SetValue(food.Name)
	m.inputs[fieldImage].SetValue(food.Image)
	m.inputs[fieldDescription].SetValue(food.Description)
	if food.ID != 0 {
		m.inputs[fieldPrice].SetValue(food.Price.String())
	} else {
		m.inputs[fieldPrice].SetValue("")
	}
	for j := range m.inputs {
		m.inputs[j].CursorEnd()
	}
	m.status = ""
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *Model) blurInputs() {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
}

func (m Model) mount() tea.Cmd {
	ctx, dash := m.ctx, m.dash
	return func() tea.Msg {
		return loadedMsg{err: dash.Mount(ctx)}
	}
}

// run executes a sync operation off the update loop
func (m Model) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return syncedMsg{op: op, err: fn(ctx)}
	}
}
