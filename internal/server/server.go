package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/swarmsim/internal/core/events/bus"
	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/observability/log"
)

// SnapshotSource is whatever publishes the live simulation state; the driver
// satisfies it.
type SnapshotSource interface {
	Latest() *models.Snapshot
}

// Server is the live observation feed for rendering collaborators. It never
// touches the world: it only forwards published snapshots.
type Server struct {
	config   Config
	source   SnapshotSource
	logger   log.Log
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}

	httpServer *http.Server
	addr       net.Addr
	sub        bus.Subscription

	running atomic.Bool
	closed  atomic.Bool

	broadcasts atomic.Uint64
	dropped    atomic.Uint64
}

// Config holds server configuration
type Config struct {
	ListenAddr   string        `yaml:"listen_addr"`
	MaxClients   int           `yaml:"max_clients"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PingInterval time.Duration `yaml:"ping_interval"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:   "127.0.0.1:8080",
		MaxClients:   64,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

func New(config Config, source SnapshotSource, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	s := &Server{
		config: config,
		source: source,
		logger: logger.With(log.String("component", "server")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		clients: make(map[*client]struct{}),
	}
	return s
}

// Handler exposes /ws, /snapshot and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Attach pushes every tick published on b to the connected clients.
func (s *Server) Attach(b bus.EventBus) error {
	sub, err := b.Subscribe(bus.EventTick, func(e bus.Event) error {
		snap, ok := e.Data.(*models.Snapshot)
		if !ok {
			return fmt.Errorf("tick event carries %T", e.Data)
		}
		return s.Broadcast(snap)
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	return nil
}

// Start listens on Config.ListenAddr and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		s.running.Store(false)
		s.logger.Error("Failed to create listener", log.Error(err))
		return fmt.Errorf("%w: %v", ErrListenerFailed, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Serve failed", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop shuts the HTTP listener down and disconnects every client.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}
	s.logger.Info("Stopping server")

	s.mu.Lock()
	srv := s.httpServer
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	err := srv.Shutdown(ctx)
	for _, c := range clients {
		s.unregister(c)
	}

	s.logger.Info("Server stopped", log.Uint64("broadcasts", s.broadcasts.Load()))
	return err
}

// Close stops the server if needed and detaches it from the bus. A closed
// server cannot be restarted.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.running.Load() {
		_ = s.Stop(context.Background())
	}
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()
	if sub != nil {
		return sub.Cancel()
	}
	return nil
}

// Broadcast queues snap for every connected client. Slow clients skip
// intermediate snapshots instead of blocking the publisher.
func (s *Server) Broadcast(snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcasts.Add(1)
	if len(s.clients) == 0 {
		return nil
	}
	data, err := marshalSnapshot(snap)
	if err != nil {
		return err
	}
	for c := range s.clients {
		if !c.offer(data) {
			s.dropped.Add(1)
		}
	}
	return nil
}

type Stats struct {
	Clients    int    `json:"clients"`
	Broadcasts uint64 `json:"broadcasts"`
	Dropped    uint64 `json:"dropped"`
}

func (s *Server) GetStats() Stats {
	s.mu.Lock()
	n := len(s.clients)
	s.mu.Unlock()
	return Stats{Clients: n, Broadcasts: s.broadcasts.Load(), Dropped: s.dropped.Load()}
}
