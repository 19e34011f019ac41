package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/tween"
)

type fakeController struct {
	mutex     sync.Mutex
	submitted []string
	state     tween.State
	ready     bool
	err       error
}

func (f *fakeController) Submit(command string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, command)
	return nil
}

func (f *fakeController) Snapshot() (tween.State, bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.state, f.ready
}

func (f *fakeController) Commands() []string {
	return []string{"play", "pause"}
}

func (f *fakeController) Submitted() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.submitted...)
}

func TestTimelineState(t *testing.T) {
	fc := &fakeController{}
	ts := httptest.NewServer(NewServer("", fc).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/timeline")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before any state, got %d", resp.StatusCode)
	}

	fc.mutex.Lock()
	fc.state = tween.State{Iteration: 2, Paused: true, Active: true}
	fc.ready = true
	fc.mutex.Unlock()

	resp, err = http.Get(ts.URL + "/api/timeline")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got tween.State
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Iteration != 2 || !got.Paused {
		t.Errorf("unexpected state %+v", got)
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"accepted", nil, http.StatusAccepted},
		{"unknown", fmt.Errorf("%w: %q", core.ErrUnknownCommand, "jump"), http.StatusBadRequest},
		{"full", core.ErrQueueFull, http.StatusServiceUnavailable},
		{"no timeline", core.ErrNotInitialized, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeController{err: tt.err}
			ts := httptest.NewServer(NewServer("", fc).Handler())
			defer ts.Close()

			resp, err := http.Post(ts.URL+"/api/timeline/pause", "application/json", nil)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			if tt.err == nil {
				if got := fc.Submitted(); len(got) != 1 || got[0] != "pause" {
					t.Errorf("expected pause to be submitted, got %v", got)
				}
			}
		})
	}

	fc := &fakeController{}
	ts := httptest.NewServer(NewServer("", fc).Handler())
	defer ts.Close()
	resp, err := http.Get(ts.URL + "/api/timeline/pause")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET on a command, got %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/commands")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "play,pause" {
		t.Errorf("unexpected command list %v", names)
	}
}

func TestSocket(t *testing.T) {
	fc := &fakeController{state: tween.State{Iteration: 1, Active: true}, ready: true}
	ts := httptest.NewServer(NewServer("", fc).Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got tween.State
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Iteration != 1 || !got.Active {
		t.Errorf("unexpected state on connect %+v", got)
	}

	if err := conn.WriteJSON(map[string]string{"command": "restart"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte("pause")); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for len(fc.Submitted()) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := fc.Submitted(); strings.Join(got, ",") != "restart,pause" {
		t.Errorf("expected restart then pause from the socket, got %v", got)
	}

	resp, err := http.Get(ts.URL + "/api/history")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var history []HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0].Command != "restart" || history[1].Source != "ws" {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	fc := &fakeController{}
	s := NewServer("127.0.0.1:0", fc)
	s.SetBroadcastInterval(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
