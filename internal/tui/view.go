package tui

import (
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#C72828")).
			Padding(0, 2)

	rowStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedRowStyle = lipgloss.NewStyle().PaddingLeft(1).Bold(true).Foreground(lipgloss.Color("#C72828"))
	unavailableStyle = lipgloss.NewStyle().Faint(true)
	priceStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#39B100"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#842029"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#C72828")).
			Padding(1, 2)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFB84D")).
			Padding(1, 2)
)

var fieldLabels = [fieldCount]string{
	fieldName:        "Nome",
	fieldImage:       "Imagem",
	fieldPrice:       "Preço",
	fieldDescription: "Descrição",
}

// View renders the alert, the open form or the food list
func (m Model) View() string {
	view := m.dash.View()

	var b strings.Builder
	b.WriteString(headerStyle.Render("GoRestaurant"))
	b.WriteString("\n\n")

	if view.Alert != "" {
		b.WriteString(alertStyle.Render("Could not load foods\n\n" + view.Alert + "\n\n[enter] ok"))
		b.WriteString("\n")
		return b.String()
	}

	switch m.openModal(view) {
	case modalAdd:
		b.WriteString(m.renderForm("Novo Prato", "[enter] Adicionar Prato"))
		b.WriteString("\n")
		return b.String()
	case modalEdit:
		b.WriteString(m.renderForm("Editar Prato", "[enter] Editar Prato"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderList(view))

	if view.Notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(view.Notice))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.status))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • a add • e edit • d delete • space availability • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderList(view dashboard.View) string {
	if len(view.Foods) == 0 {
		if !view.Loaded {
			return rowStyle.Render("Carregando…") + "\n"
		}
		return rowStyle.Render("Nenhum prato cadastrado") + "\n"
	}

	var b strings.Builder
	for i, food := range view.Foods {
		status := "Disponível"
		if !food.Available {
			status = "Indisponível"
		}
		line := fmt.Sprintf("%-24s %s  %-12s %s",
			truncate(food.Name, 24),
			priceStyle.Render("R$ "+food.Price.String()),
			status,
			truncate(food.Description, 40),
		)

		style := rowStyle
		prefix := ""
		if i == m.cursor {
			style = selectedRowStyle
			prefix = "›"
		}
		if !food.Available {
			style = style.Inherit(unavailableStyle)
		}
		b.WriteString(style.Render(prefix + line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm(title, submit string) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		fmt.Fprintf(&b, "%-10s %s\n", fieldLabels[i], in.View())
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(submit + " • [tab] next field • [esc] Cancelar"))
	return modalStyle.Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
