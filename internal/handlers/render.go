package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData is passed to the dashboard template
type PageData struct {
	Title    string
	BasePath string
	View     dashboard.View
}

// renderer executes the embedded dashboard page
type renderer struct {
	tmpl     *template.Template
	title    string
	basePath string
}

func newRenderer(title, basePath string) (*renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"price": formatPrice,
	}).ParseFS(templatesFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}

	return &renderer{tmpl: tmpl, title: title, basePath: basePath}, nil
}

// render writes the page for view. The page is buffered so a template error
// never leaves a half-written response.
func (r *renderer) render(w http.ResponseWriter, view dashboard.View) error {
	var buf bytes.Buffer
	data := PageData{Title: r.title, BasePath: r.basePath, View: view}
	if err := r.tmpl.ExecuteTemplate(&buf, "dashboard", data); err != nil {
		return fmt.Errorf("execute dashboard template: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}

func formatPrice(p models.Price) string {
	return p.String()
}
