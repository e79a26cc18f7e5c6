package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/events"
)

// readEvent reads the next "data:" line from an SSE stream
func readEvent(t *testing.T, r *bufio.Reader) events.Event {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read event stream: %v", err)
		}
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev events.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		return ev
	}
}

func TestEvents_StreamsChanges(t *testing.T) {
	env := newTestEnv(t, seedFoods())
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %s", ct)
	}

	stream := bufio.NewReader(resp.Body)
	first := readEvent(t, stream)
	if first.Kind != events.KindSnapshot {
		t.Errorf("expected snapshot first, got %s", first.Kind)
	}

	env.dash.ToggleModal()

	next := readEvent(t, stream)
	if next.Kind != events.KindModal {
		t.Errorf("expected modal event, got %s", next.Kind)
	}
	if next.Revision <= first.Revision {
		t.Errorf("expected revision to advance past %d, got %d", first.Revision, next.Revision)
	}
}
