// Package remote mirrors dial state to websocket clients and accepts remote
// set_value requests.
//
// Frames are JSON text messages with an envelope {type, ts, data}. A client
// receives state_init with a snapshot of every watched dial on connect,
// then set and change frames as the dials move. Inbound set_value frames
// are queued on Commands; the host applies them on its frame loop, so dials
// are never touched from the network goroutines.
package remote

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iburimskiy/radial-dial/internal/dial"
)

// ServerConfig configures the websocket server.
type ServerConfig struct {
	Hub HubConfig
	// CommandBuf is the inbound command queue size.
	CommandBuf int
}

// Server owns the hub, the latest dial snapshot and the command queue.
type Server struct {
	logger   *slog.Logger
	hub      *Hub
	commands chan Command
	upgrader websocket.Upgrader

	mu    sync.Mutex
	ctx   context.Context
	state map[string]DialState
	order []string
}

// NewServer builds the server components. Call Run to start the hub and
// Register to mount the handler.
func NewServer(logger *slog.Logger, cfg ServerConfig) *Server {
	n := cfg.CommandBuf
	if n <= 0 {
		n = 64
	}
	return &Server{
		logger:   logger,
		hub:      NewHub(logger, cfg.Hub),
		commands: make(chan Command, n),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		ctx:   context.Background(),
		state: make(map[string]DialState),
	}
}

// Hub returns the broadcast hub.
func (s *Server) Hub() *Hub { return s.hub }

// Commands delivers inbound set_value requests.
func (s *Server) Commands() <-chan Command { return s.commands }

// Run runs the hub until ctx is canceled. Client pumps stop with ctx too.
func (s *Server) Run(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.hub.Run(ctx)
}

// Register mounts the websocket handler on mux.
func (s *Server) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleWS)
}

// Watch mirrors d's set and change events to clients. It must be called on
// the dial's frame loop.
func (s *Server) Watch(d *dial.Dial) error {
	name := d.Name()
	rng := d.Range()
	s.mu.Lock()
	if _, ok := s.state[name]; !ok {
		s.order = append(s.order, name)
	}
	s.state[name] = DialState{Name: name, Value: d.Value(), Target: d.Target(), Min: rng.Min, Max: rng.Max, Step: rng.Step}
	s.mu.Unlock()

	if err := d.Subscribe(dial.EventSet, func(v float64) { s.Publish(TypeSet, name, v) }); err != nil {
		return err
	}
	return d.Subscribe(dial.EventChange, func(v float64) { s.Publish(TypeChange, name, v) })
}

// Publish records v in the snapshot and broadcasts a set or change frame.
func (s *Server) Publish(typ, name string, v float64) {
	s.mu.Lock()
	st := s.state[name]
	st.Name = name
	switch typ {
	case TypeSet:
		st.Target = v
	case TypeChange:
		st.Value = v
	}
	s.state[name] = st
	s.mu.Unlock()

	msg, err := encodeFrame(typ, valueData{Dial: name, Value: v}, time.Now())
	if err != nil {
		s.logger.Error("ws encode failed", "type", typ, "error", err)
		return
	}
	s.hub.BroadcastBytes(msg)
}

// Snapshot returns the latest state of every watched dial in watch order.
func (s *Server) Snapshot() []DialState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DialState, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.state[name])
	}
	return out
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	c := NewClient(s.hub, conn, r.RemoteAddr, s.logger)
	init, err := encodeFrame(TypeStateInit, stateInitData{ClientID: c.id, Dials: s.Snapshot()}, time.Now())
	if err != nil {
		s.logger.Error("ws encode failed", "type", TypeStateInit, "error", err)
		_ = conn.Close()
		return
	}
	// queued before registration so it is the first frame the client sees
	c.send <- init
	s.hub.register <- c

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	go c.writePump(ctx)
	c.readPump(ctx, s.commands)
}
