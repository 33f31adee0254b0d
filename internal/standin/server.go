// Package standin serves a minimal copy of the Texmage frontend's DOM so the
// harness can be exercised without the real client and backend running.
package standin

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/common"
)

const tokenCookie = "token"

// Config holds stand-in server options
type Config struct {
	Addr         string // Listen address, ":0" picks a free port
	AcceptSignup bool   // When false signup fails as if the backend were down
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig binds to a random local port and rejects signups
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is an importable stand-in for the Texmage client
type Server struct {
	cfg        Config
	logger     arbor.ILogger
	httpServer *http.Server

	mu       sync.Mutex
	running  bool
	addr     string
	users    map[string]string // email -> password
	sessions map[string]string // token -> email
}

// NewServer creates the server. It does not listen until Start is called.
func NewServer(cfg Config, logger arbor.ILogger) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		users:    map[string]string{},
		sessions: map[string]string{},
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the routes, for use with httptest
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/assets/", s.handleAsset)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/signup", s.handleSignup)
	mux.HandleFunc("/", s.handlePage)
	return mux
}

// Start listens and serves in the background, returning the bound address
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}
	s.addr = ln.Addr().String()
	s.running = true

	common.SafeGo(s.logger, "standin-serve", func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Stand-in server stopped")
		}
	})

	s.logger.Info().Str("addr", s.addr).Msg("Stand-in frontend listening")
	return s.addr, nil
}

// URL returns the base URL of the running server
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Addr returns the bound address, empty when not running
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Shutdown stops the server gracefully. In-flight handlers take s.mu, so
// the lock is released before waiting for them.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) authed(r *http.Request) bool {
	c, err := r.Cookie(tokenCookie)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[c.Value]
	return ok
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	route := strings.Trim(r.URL.Path, "/")
	switch route {
	case "", "pricing", "result":
	default:
		http.NotFound(w, r)
		return
	}

	data := page{
		Title:  "Texmage",
		Route:  route,
		Plans:  defaultPlans,
		Authed: s.authed(r),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := layout.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Str("route", route).Msg("Failed to render page")
	}
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, ".svg") {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(iconSVG))
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, resp authResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) startSession(w http.ResponseWriter, email string) {
	token := uuid.New().String()
	s.sessions[token] = email
	http.SetCookie(w, &http.Cookie{Name: tokenCookie, Value: token, Path: "/", HttpOnly: true})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	email := r.FormValue("email")
	password := r.FormValue("password")

	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.users[email]; !ok || stored != password {
		s.logger.Debug().Str("email", email).Msg("Rejected login")
		s.writeJSON(w, authResponse{Message: "Invalid credentials"})
		return
	}
	s.startSession(w, email)
	s.writeJSON(w, authResponse{Success: true, Message: "Login successful"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.cfg.AcceptSignup {
		s.writeJSON(w, authResponse{Message: "Sign Up Failed"})
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	if r.FormValue("name") == "" || email == "" || password == "" {
		s.writeJSON(w, authResponse{Message: "Missing details"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		s.writeJSON(w, authResponse{Message: "User already exists"})
		return
	}
	s.users[email] = password
	s.startSession(w, email)
	s.logger.Info().Str("email", email).Msg("Stand-in user signed up")
	s.writeJSON(w, authResponse{Success: true, Message: "Signup successful"})
}
