package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/client"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/events"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/foodapitest"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
)

type testEnv struct {
	api    *foodapitest.Server
	dash   *dashboard.Dashboard
	router http.Handler
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedFoods() []models.Food {
	return []models.Food{
		{ID: 1, Name: "Ao molho", Image: "https://img.test/ao-molho.png", Price: 19.9, Description: "Macarrão ao molho branco", Available: true},
		{ID: 2, Name: "Veggie", Image: "https://img.test/veggie.png", Price: 21.9, Description: "Macarrão com pimentão", Available: true},
	}
}

// newTestEnv wires a fake Food API, a real client, the dashboard and the router
func newTestEnv(t *testing.T, seed []models.Food) *testEnv {
	t.Helper()

	api := foodapitest.New(t, foodapitest.Options{Seed: seed})
	log := testLogger()
	bus := events.NewBus()
	dash := dashboard.New(client.New(client.Options{BaseURL: api.URL}, log), log, bus)

	router, err := NewRouter(dash, bus, RouterConfig{Logger: log})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	return &testEnv{api: api, dash: dash, router: router}
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %s", loc)
	}
}

func TestPage_RendersFoods(t *testing.T) {
	env := newTestEnv(t, seedFoods())

	w := env.get(t, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()

	for _, want := range []string{`data-testid="foods-list"`, "Ao molho", "Veggie", "19.90", `data-testid="edit-food-2"`, `data-testid="remove-food-1"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}

	// Both modals start closed
	if strings.Contains(body, `data-testid="add-food-modal"`) || strings.Contains(body, `data-testid="edit-food-modal"`) {
		t.Error("expected no modal on first render")
	}
}

func TestPage_LoadsOnce(t *testing.T) {
	env := newTestEnv(t, seedFoods())

	env.get(t, "/")
	env.get(t, "/")

	lists := 0
	for _, req := range env.api.Requests() {
		if req.Method == http.MethodGet && req.Path == "/foods" {
			lists++
		}
	}
	if lists != 1 {
		t.Errorf("expected one GET /foods, got %d", lists)
	}
}

func TestPage_LoadFailureShowsAlert(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.api.FailNext(http.StatusInternalServerError)

	body := env.get(t, "/").Body.String()
	if !strings.Contains(body, `data-testid="load-alert"`) {
		t.Error("expected the load alert to be rendered")
	}

	var health HealthResponse
	if err := json.NewDecoder(env.get(t, "/health").Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if health.Status != "degraded" {
		t.Errorf("expected degraded health, got %s", health.Status)
	}

	expectRedirect(t, env.post(t, "/alert/dismiss", nil))
	if strings.Contains(env.get(t, "/").Body.String(), `data-testid="load-alert"`) {
		t.Error("expected the alert to be dismissed")
	}
}

func TestToggleAddModal(t *testing.T) {
	env := newTestEnv(t, seedFoods())

	expectRedirect(t, env.post(t, "/modal/add", nil))
	if !strings.Contains(env.get(t, "/").Body.String(), `data-testid="add-food-modal"`) {
		t.Error("expected add modal to be open")
	}

	expectRedirect(t, env.post(t, "/modal/add", nil))
	if strings.Contains(env.get(t, "/").Body.String(), `data-testid="add-food-modal"`) {
		t.Error("expected add modal to be closed")
	}
}

func TestCreateFood(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")
	env.post(t, "/modal/add", nil)

	w := env.post(t, "/foods", url.Values{
		"name":        {"Cake"},
		"image":       {"https://img.test/cake.png"},
		"price":       {"5"},
		"description": {"Chocolate"},
	})
	expectRedirect(t, w)

	view := env.dash.View()
	if len(view.Foods) != 3 {
		t.Fatalf("expected 3 foods, got %d", len(view.Foods))
	}
	created := view.Foods[2]
	if created.ID != 3 || created.Name != "Cake" || !created.Available {
		t.Errorf("unexpected created food: %+v", created)
	}
	if view.AddModalOpen {
		t.Error("expected add modal to close after submit")
	}

	stored, err := env.api.Repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected food 3 on the server: %v", err)
	}
	if !stored.Available {
		t.Error("expected the server copy to be available")
	}
}

func TestCreateFood_InvalidPrice(t *testing.T) {
	for _, price := range []string{"cheap", "NaN", "Inf", "-infinity"} {
		t.Run(price, func(t *testing.T) {
			env := newTestEnv(t, seedFoods())

			w := env.post(t, "/foods", url.Values{"name": {"Cake"}, "price": {price}})

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
			if got := len(env.api.Requests()); got != 0 {
				t.Errorf("expected no Food API calls, got %d", got)
			}
		})
	}
}

func TestCreateFood_APIFailureShowsNotice(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")
	env.api.FailNext(http.StatusInternalServerError)

	expectRedirect(t, env.post(t, "/foods", url.Values{"name": {"Cake"}, "price": {"5"}}))

	if got := len(env.dash.View().Foods); got != 2 {
		t.Errorf("expected list unchanged, got %d foods", got)
	}
	if !strings.Contains(env.get(t, "/").Body.String(), `data-testid="sync-notice"`) {
		t.Error("expected the failure notice to be rendered")
	}
}

func TestEditAndUpdateFood(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")

	expectRedirect(t, env.post(t, "/foods/2/edit", nil))

	body := env.get(t, "/").Body.String()
	if !strings.Contains(body, `data-testid="edit-food-modal"`) {
		t.Fatal("expected edit modal to be open")
	}
	if !strings.Contains(body, `value="Veggie"`) {
		t.Error("expected edit form to be pre-populated")
	}

	w := env.post(t, "/foods/update", url.Values{
		"name":        {"Veggie Deluxe"},
		"image":       {"https://img.test/veggie.png"},
		"price":       {"24.50"},
		"description": {"Macarrão com pimentão"},
	})
	expectRedirect(t, w)

	view := env.dash.View()
	if view.EditModalOpen {
		t.Error("expected edit modal to close after submit")
	}
	if view.Foods[0].Name != "Ao molho" {
		t.Errorf("expected other entries unchanged, got %+v", view.Foods[0])
	}
	updated := view.Foods[1]
	if updated.ID != 2 || updated.Name != "Veggie Deluxe" || updated.Price != 24.5 || !updated.Available {
		t.Errorf("unexpected updated food: %+v", updated)
	}

	req, _ := env.api.LastRequest()
	if req.Method != http.MethodPut || req.Path != "/foods/2" {
		t.Errorf("expected PUT /foods/2, got %s %s", req.Method, req.Path)
	}
}

func TestUpdateFood_WithoutSelection(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")

	w := env.post(t, "/foods/update", url.Values{"name": {"x"}})

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}
}

func TestEditFood_Unknown(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")

	w := env.post(t, "/foods/99/edit", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestToggleAvailable(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")

	expectRedirect(t, env.post(t, "/foods/1/availability", nil))

	if env.dash.View().Foods[0].Available {
		t.Error("expected food 1 to become unavailable")
	}
	if !strings.Contains(env.get(t, "/").Body.String(), "Indisponível") {
		t.Error("expected the unavailable label to be rendered")
	}
}

func TestDeleteFood(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")

	expectRedirect(t, env.post(t, "/foods/1/delete", nil))

	view := env.dash.View()
	if len(view.Foods) != 1 || view.Foods[0].ID != 2 {
		t.Errorf("expected only food 2 to remain, got %+v", view.Foods)
	}
	if strings.Contains(env.get(t, "/").Body.String(), "Ao molho") {
		t.Error("expected deleted food to disappear from the page")
	}
}

func TestDeleteFood_APIFailureKeepsFood(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")
	env.api.FailNext(http.StatusInternalServerError)

	expectRedirect(t, env.post(t, "/foods/1/delete", nil))

	view := env.dash.View()
	if len(view.Foods) != 2 {
		t.Errorf("expected list unchanged, got %+v", view.Foods)
	}
	if view.Notice == "" {
		t.Error("expected a notice describing the failure")
	}
}

func TestFoodActions_InvalidID(t *testing.T) {
	env := newTestEnv(t, seedFoods())

	testCases := []struct {
		name string
		path string
	}{
		{"letters", "/foods/abc/delete"},
		{"float", "/foods/1.5/edit"},
		{"special chars", "/foods/a@1/availability"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.post(t, tc.path, nil)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400 for %s, got %d", tc.path, w.Code)
			}

			var response ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if response.Error != "Invalid ID supplied" {
				t.Errorf("expected error message 'Invalid ID supplied', got %s", response.Error)
			}
		})
	}
}

func TestViewEndpoint(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")
	env.post(t, "/modal/edit", nil)

	w := env.get(t, "/api/view")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var view dashboard.View
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	if len(view.Foods) != 2 || !view.Loaded {
		t.Errorf("unexpected view: %+v", view)
	}
	if !view.EditModalOpen || view.AddModalOpen {
		t.Errorf("expected only the edit modal open, got add=%v edit=%v", view.AddModalOpen, view.EditModalOpen)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	env.get(t, "/")

	w := env.get(t, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var health HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if health.Status != "healthy" || health.Foods != 2 || !health.Loaded {
		t.Errorf("unexpected health response: %+v", health)
	}
}
