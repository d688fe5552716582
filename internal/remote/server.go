// Package remote exposes an HTTP endpoint that drives a running
// presentation. Commands are forwarded to the program's message loop; the
// server never touches the engine itself.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zjrosen/podium/internal/log"
)

// Origin tags intents submitted over HTTP.
const Origin = "remote"

// Sender delivers messages to the program loop. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Status is the presentation state published after every update.
type Status struct {
	Title       string  `json:"title"`
	Token       string  `json:"token"`
	H           int     `json:"indexh"`
	V           int     `json:"indexv"`
	F           *int    `json:"indexf,omitempty"`
	SlideNumber string  `json:"slide_number"`
	Progress    float64 `json:"progress"`
	Status      string  `json:"status"`
	Paused      bool    `json:"paused"`
	Overview    bool    `json:"overview"`
	First       bool    `json:"first"`
	Last        bool    `json:"last"`
}

// StatusBox hands the latest Status from the program loop to HTTP handlers.
type StatusBox struct {
	v atomic.Pointer[Status]
}

func (b *StatusBox) Store(s Status) { b.v.Store(&s) }

// Load returns the latest status, false before the first Store.
func (b *StatusBox) Load() (Status, bool) {
	s := b.v.Load()
	if s == nil {
		return Status{}, false
	}
	return *s, true
}

// Server is the remote control HTTP server.
type Server struct {
	router chi.Router
	sender Sender
	status *StatusBox
	http   *http.Server
}

// NewServer creates a server forwarding intents to sender.
func NewServer(sender Sender, status *StatusBox) *Server {
	s := &Server{sender: sender, status: status}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Post("/intent/{name}", s.handleIntent)

	s.router = r
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.http = &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorErr(log.CatRemote, "remote server stopped", err)
		}
	}()
	log.Info(log.CatRemote, "listening", "addr", ln.Addr().String())
	return ln.Addr(), nil
}

// Shutdown stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug(log.CatRemote, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
