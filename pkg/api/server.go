// Package api is the local bridge a browser page uses to hand its file input over
// to the editor.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dixieflatline76/Recrop/config"
	"github.com/dixieflatline76/Recrop/pkg/dom"
	"github.com/dixieflatline76/Recrop/util"
	"github.com/dixieflatline76/Recrop/util/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// ConnectHandler is called for every new page connection. The returned function,
// if any, runs when the connection ends.
type ConnectHandler func(c *Conn) func()

// Server represents the local HTTP/WebSocket bridge.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader
	running    *util.SafeFlag

	cfgMu sync.RWMutex
	cfg   config.BridgeConfig

	onConnect ConnectHandler
	dispatch  func(func())

	// Only one page connection is served at a time; a new one replaces the old.
	connMu sync.Mutex
	conn   *Conn
}

// Conn is one connected page and the file input it stands for.
type Conn struct {
	id      string
	ws      *websocket.Conn
	input   *dom.FileInput
	limiter *rate.Limiter

	writeMu sync.Mutex
}

// ID returns the connection id.
func (c *Conn) ID() string {
	return c.id
}

// Input returns the file input mirrored from the page.
func (c *Conn) Input() *dom.FileInput {
	return c.input
}

// send writes one message to the page.
func (c *Conn) send(m Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteJSON(m)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithDispatcher runs every change the page sends through fn, which must not return
// before the change has been handled. The app passes fyne.DoAndWait so page
// selections share the UI thread with the editor's Save and Cancel.
func WithDispatcher(fn func(func())) ServerOption {
	return func(s *Server) {
		s.dispatch = fn
	}
}

// NewServer creates a new bridge server.
func NewServer(cfg config.BridgeConfig, onConnect ConnectHandler, opts ...ServerOption) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		running:   util.NewSafeFlag(),
		onConnect: onConnect,
		dispatch:  func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return s.config().OriginAllowed(r.Header.Get("Origin"))
		},
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return s
}

func (s *Server) config() config.BridgeConfig {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// SetConfig applies cfg to connections made from now on. The listen address only
// changes on restart.
func (s *Server) SetConfig(cfg config.BridgeConfig) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	if cfg.Addr != s.cfg.Addr {
		log.Printf("Bridge address change to %s needs a restart", cfg.Addr)
	}
	s.cfg = cfg
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}

// enableCORS adds CORS headers to the handler.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.config().OriginAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Running reports whether Start is serving.
func (s *Server) Running() bool {
	return s.running.Value()
}

// Start serves until Stop is called. It blocks.
func (s *Server) Start() error {
	s.running.Set(true)
	defer s.running.Set(false)

	log.Printf("Bridge listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the server down and closes the page connection.
func (s *Server) Stop(ctx context.Context) error {
	s.replaceConn(nil)
	return s.httpServer.Shutdown(ctx)
}

// replaceConn installs c as the served connection and closes the previous one.
func (s *Server) replaceConn(c *Conn) {
	s.connMu.Lock()
	prev := s.conn
	s.conn = c
	s.connMu.Unlock()

	if prev != nil {
		log.Printf("Closing page connection %s", prev.id)
		_ = prev.ws.Close()
	}
}

// releaseConn forgets c if it is still the served connection.
func (s *Server) releaseConn(c *Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == c {
		s.conn = nil
	}
}

func (s *Server) newConn(ws *websocket.Conn) *Conn {
	cfg := s.config()
	if cfg.MaxMessageBytes > 0 {
		ws.SetReadLimit(cfg.MaxMessageBytes)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Conn{
		id:      uuid.NewString(),
		ws:      ws,
		input:   dom.NewFileInput("imageUri"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
	}
}
