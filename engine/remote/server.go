package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/spaghettifunk/quadn/engine/containers"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/tween"
)

const (
	// How often connected sockets receive the timeline state.
	DefaultBroadcastInterval = 100 * time.Millisecond
	pingInterval             = 30 * time.Second
	writeWait                = 10 * time.Second
	shutdownTimeout          = 5 * time.Second
	clientBufferSize         = 16
	// Number of submitted commands kept for /api/history.
	historySize              = 32
)

/**
 * @brief What the server drives. Submit is called from request goroutines,
 * so implementations hand the command over to the main loop.
 */
type Controller interface {
	Submit(command string) error
	Snapshot() (tween.State, bool)
	Commands() []string
}

type errorResponse struct {
	Error string `json:"error"`
}

// HistoryEntry records one submitted command.
type HistoryEntry struct {
	Command string    `json:"command"`
	Source  string    `json:"source"`
	Time    time.Time `json:"time"`
	Error   string    `json:"error,omitempty"`
}

type commandResponse struct {
	Command string `json:"command"`
	Queued  bool   `json:"queued"`
}

// Server exposes the timeline controls over HTTP and a websocket.
type Server struct {
	addr       string
	controller Controller
	interval   time.Duration
	upgrader   websocket.Upgrader

	mutex   sync.Mutex
	clients map[*client]bool
	history *containers.RingQueue[HistoryEntry]
	server  *http.Server
}

func NewServer(addr string, controller Controller) *Server {
	return &Server{
		addr:       addr,
		controller: controller,
		interval:   DefaultBroadcastInterval,
		clients:    make(map[*client]bool),
		history:    containers.NewRingQueue[HistoryEntry](historySize),
	}
}

// SetBroadcastInterval changes how often sockets are updated. Call before Run.
func (s *Server) SetBroadcastInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Handler returns the routes wrapped with panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/timeline", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/timeline/{command}", s.handleCommand).Methods(http.MethodPost)
	api.HandleFunc("/commands", s.handleCommands).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleSocket)

	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(core.LogIsDebug()))(r)
	return handlers.LoggingHandler(core.LogWriter(), h)
}

/**
 * @brief Serves until ctx is done, then shuts the listener down and
 * closes every socket.
 */
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.server = &http.Server{Handler: s.Handler()}
	core.LogInfo("Remote control listening on %s.", ln.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.broadcastLoop(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.closeClients()
		return s.server.Shutdown(sctx)
	})
	return g.Wait()
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, ok := s.controller.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "timeline not ready"})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	command := mux.Vars(r)["command"]
	if err := s.submit(command, "http"); err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, commandResponse{Command: command, Queued: true})
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Commands())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	entries := s.history.Items()
	s.mutex.Unlock()
	writeJSON(w, http.StatusOK, entries)
}

// submit forwards a command to the controller and records the outcome.
func (s *Server) submit(command, source string) error {
	err := s.controller.Submit(command)
	entry := HistoryEntry{Command: command, Source: source, Time: time.Now()}
	if err != nil {
		entry.Error = err.Error()
	}
	s.mutex.Lock()
	s.history.Push(entry)
	s.mutex.Unlock()
	return err
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		core.LogWarn("[remote] websocket upgrade: %s", err)
		return
	}
	c := &client{server: s, conn: conn, send: make(chan []byte, clientBufferSize)}
	// New sockets get the current state straight away.
	if data, ok := s.snapshotMessage(); ok {
		c.send <- data
	}
	s.register(c)
	go c.writePump()
	go c.readPump()
}

func (s *Server) snapshotMessage() ([]byte, bool) {
	state, ok := s.controller.Snapshot()
	if !ok {
		return nil, false
	}
	data, err := json.Marshal(state)
	if err != nil {
		core.LogError("[remote] encoding state: %s", err)
		return nil, false
	}
	return data, true
}

func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	var last []byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			data, ok := s.snapshotMessage()
			if !ok || string(data) == string(last) {
				continue
			}
			last = data
			s.broadcast(data)
		}
	}
}

func (s *Server) broadcast(data []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow reader, skip this update
		}
	}
}

func (s *Server) register(c *client) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.clients[c] = true
}

func (s *Server) unregister(c *client) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) closeClients() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrQueueFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrNotInitialized):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		core.LogWarn("[remote] writing response: %s", err)
	}
}
