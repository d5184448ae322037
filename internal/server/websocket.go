package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/swarmsim/internal/core/observability/log"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// offer enqueues data, replacing a pending message the client has not picked
// up yet. It reports false when an older message was dropped.
func (c *client) offer(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- data:
	default:
	}
	return false
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	full := s.config.MaxClients > 0 && len(s.clients) >= s.config.MaxClients
	s.mu.Unlock()
	if full {
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 1), done: make(chan struct{})}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("Client connected", log.String("remote", conn.RemoteAddr().String()))

	if s.source != nil {
		if snap := s.source.Latest(); snap != nil {
			if data, err := marshalSnapshot(snap); err == nil {
				c.offer(data)
			}
		}
	}

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop only drains control frames; the feed is one-way.
func (s *Server) readLoop(c *client) {
	defer s.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	var ping <-chan time.Time
	if s.config.PingInterval > 0 {
		ticker := time.NewTicker(s.config.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			s.setWriteDeadline(c)
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("Client write failed", log.Error(err))
				s.unregister(c)
				return
			}
		case <-ping:
			s.setWriteDeadline(c)
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.unregister(c)
				return
			}
		}
	}
}

func (s *Server) setWriteDeadline(c *client) {
	if s.config.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
	if ok {
		s.logger.Debug("Client disconnected", log.String("remote", c.conn.RemoteAddr().String()))
	}
}
