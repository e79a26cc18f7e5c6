package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/events"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
)

var errAPI = errors.New("api unavailable")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAPI answers synchronously with canned responses and records calls
type stubAPI struct {
	mu sync.Mutex

	listFoods []models.Food
	listErr   error

	createResp *models.Food
	createErr  error

	updateResp func(id int64, food models.Food) *models.Food
	updateErr  error

	deleteErr error

	listCalls int
	created   []models.Food
	updated   []models.Food
	updateIDs []int64
	deleted   []int64
}

func (s *stubAPI) ListFoods(ctx context.Context) ([]models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	return s.listFoods, s.listErr
}

func (s *stubAPI) CreateFood(ctx context.Context, food models.Food) (*models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, food)
	if s.createErr != nil {
		return nil, s.createErr
	}
	resp := *s.createResp
	return &resp, nil
}

func (s *stubAPI) UpdateFood(ctx context.Context, id int64, food models.Food) (*models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateIDs = append(s.updateIDs, id)
	s.updated = append(s.updated, food)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.updateResp != nil {
		return s.updateResp(id, food), nil
	}
	// Echo the request like json-server does
	resp := food
	resp.ID = id
	return &resp, nil
}

func (s *stubAPI) DeleteFood(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

// scriptedAPI blocks every call until the test answers it, so tests can
// control the order in which responses resolve
type scriptedAPI struct {
	t     *testing.T
	calls chan *apiCall
}

type apiCall struct {
	method string
	id     int64
	food   models.Food
	reply  chan apiReply
}

type apiReply struct {
	foods []models.Food
	food  *models.Food
	err   error
}

func newScriptedAPI(t *testing.T) *scriptedAPI {
	return &scriptedAPI{t: t, calls: make(chan *apiCall)}
}

func (s *scriptedAPI) call(method string, id int64, food models.Food) apiReply {
	c := &apiCall{method: method, id: id, food: food, reply: make(chan apiReply)}
	s.calls <- c
	return <-c.reply
}

func (s *scriptedAPI) ListFoods(ctx context.Context) ([]models.Food, error) {
	r := s.call("list", 0, models.Food{})
	return r.foods, r.err
}

func (s *scriptedAPI) CreateFood(ctx context.Context, food models.Food) (*models.Food, error) {
	r := s.call("create", 0, food)
	return r.food, r.err
}

func (s *scriptedAPI) UpdateFood(ctx context.Context, id int64, food models.Food) (*models.Food, error) {
	r := s.call("update", id, food)
	return r.food, r.err
}

func (s *scriptedAPI) DeleteFood(ctx context.Context, id int64) error {
	r := s.call("delete", id, models.Food{})
	return r.err
}

// expect waits for the next call and checks its method
func (s *scriptedAPI) expect(method string) *apiCall {
	s.t.Helper()
	select {
	case c := <-s.calls:
		if c.method != method {
			s.t.Fatalf("expected %s call, got %s", method, c.method)
		}
		return c
	case <-time.After(2 * time.Second):
		s.t.Fatalf("timed out waiting for %s call", method)
		return nil
	}
}

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]events.Kind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}
