// Package devserver implements spec §11.3: a "bfc watch" mode that
// recompiles a source file on every save and broadcasts the fresh
// diagnostics (and whatever output the speculative run captured) to
// every connected websocket client. It adapts the teacher's
// internal/network/websocket_server.go broadcast-to-all-clients shape
// from a generic text message to a JSON payload.
package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Notification is broadcast to every connected client after each
// recompile.
type Notification struct {
	Path     string   `json:"path"`
	OK       bool     `json:"ok"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Output   string   `json:"output,omitempty"`
	At       string   `json:"at"`
}

// Compiler is whatever the caller wants run on every change. The watch
// command adapts pipeline.Compile to this signature, so this package does
// not import internal/pipeline and stays usable standalone.
type Compiler func(path string) (warnings []string, output []byte, err error)

// Server watches one source file and serves a websocket endpoint that
// broadcasts a Notification every time that file changes and is
// recompiled.
type Server struct {
	path     string
	compile  Compiler
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*websocket.Conn

	httpServer *http.Server
}

// New builds a Server for path, using compile to rebuild it on each
// change.
func New(path string, compile Compiler) *Server {
	return &Server{
		path:    path,
		compile: compile,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*websocket.Conn),
	}
}

// ListenAndServe starts the websocket endpoint at addr and polls the
// watched file for modification-time changes until stop is closed. It
// blocks until the HTTP server exits.
func (s *Server) ListenAndServe(addr string, stop <-chan struct{}) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleUpgrade)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}

	go s.watch(stop)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the HTTP server down and closes every client connection.
func (s *Server) Stop() error {
	s.mu.Lock()
	for id, conn := range s.clients {
		conn.Close()
		delete(s.clients, id)
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Close()
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := fmt.Sprintf("client_%d", time.Now().UnixNano())

	s.mu.Lock()
	s.clients[id] = conn
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, id)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// watch polls path's modification time every 250ms and triggers a
// recompile + broadcast on every change, until stop is closed. Polling,
// not a filesystem-event API, matches the only shape the teacher's own
// Builder.Watch stub gestures at; no fsnotify-style dependency is in the
// example pack to justify one.
func (s *Server) watch(stop <-chan struct{}) {
	var lastMod time.Time
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			info, err := os.Stat(s.path)
			if err != nil {
				continue
			}
			if info.ModTime().Equal(lastMod) {
				continue
			}
			lastMod = info.ModTime()
			s.recompileAndBroadcast()
		}
	}
}

func (s *Server) recompileAndBroadcast() {
	n := Notification{Path: s.path, At: time.Now().Format(time.RFC3339)}

	warnings, output, err := s.compile(s.path)
	if err != nil {
		n.Error = err.Error()
	} else {
		n.OK = true
		n.Warnings = warnings
		n.Output = string(output)
	}

	s.broadcast(n)
}

func (s *Server) broadcast(n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}

	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for _, c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.RUnlock()

	for _, c := range conns {
		c.WriteMessage(websocket.TextMessage, payload)
	}
}
