// Package web serves the daemon's read-only status API.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"sparrow/internal/config"
	"sparrow/internal/daemon"
	appLog "sparrow/internal/log"
	"sparrow/internal/schedule"
)

// Server exposes /health, /api/schedule and /api/now.
type Server struct {
	cfg  *config.Config
	snap *daemon.Snapshot
	mux  *http.ServeMux
	now  func() time.Time
}

// NewServer constructs a Server reading from snap. A nil now uses
// time.Now.
func NewServer(cfg *config.Config, snap *daemon.Snapshot, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{
		cfg:  cfg,
		snap: snap,
		mux:  http.NewServeMux(),
		now:  now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler, wrapped with basic auth when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		return s.basicAuthMiddleware(h)
	}
	return h
}

// ListenAndServe serves on cfg.Daemon.Listen until ctx is done, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Daemon.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Daemon.Listen, "basic_auth", s.basicAuthEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) basicAuthEnabled() bool {
	ba := s.cfg.Daemon.BasicAuth
	// Empty credentials count as disabled.
	return ba != nil && ba.Username != "" && ba.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.Daemon.BasicAuth.Username
	password := s.cfg.Daemon.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="sparrow", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/schedule", s.handleSchedule)
	s.mux.HandleFunc("GET /api/now", s.handleNow)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type entryJSON struct {
	Kind    schedule.EntryKind `json:"kind"`
	Title   string             `json:"title"`
	Start   time.Time          `json:"start"`
	End     time.Time          `json:"end"`
	Minutes int                `json:"minutes"`
}

func toEntryJSON(e schedule.Entry, loc *time.Location) entryJSON {
	return entryJSON{
		Kind:    e.Kind,
		Title:   e.DisplayTitle(),
		Start:   e.Start().In(loc),
		End:     e.End().In(loc),
		Minutes: e.Span.Minutes,
	}
}

type scheduleResponse struct {
	GeneratedAt time.Time   `json:"generated_at"`
	LoadedAt    time.Time   `json:"loaded_at"`
	Timezone    string      `json:"timezone"`
	Entries     []entryJSON `json:"entries"`
}

// handleSchedule lists the entries that have not ended yet.
func (s *Server) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	loc := s.cfg.Location()
	now := s.now()

	upcoming := schedule.Upcoming(s.snap.Entries(), now)
	resp := scheduleResponse{
		GeneratedAt: now.In(loc),
		LoadedAt:    s.snap.LoadedAt().In(loc),
		Timezone:    loc.String(),
		Entries:     make([]entryJSON, 0, len(upcoming)),
	}
	for _, e := range upcoming {
		resp.Entries = append(resp.Entries, toEntryJSON(e, loc))
	}
	writeJSON(w, http.StatusOK, resp)
}

type nowResponse struct {
	Now     time.Time  `json:"now"`
	Current *entryJSON `json:"current"`
	Next    *entryJSON `json:"next"`
}

func (s *Server) handleNow(w http.ResponseWriter, _ *http.Request) {
	loc := s.cfg.Location()
	now := s.now()

	cur, next := schedule.CurrentAndNext(s.snap.Entries(), now)
	resp := nowResponse{Now: now.In(loc)}
	if cur != nil {
		e := toEntryJSON(*cur, loc)
		resp.Current = &e
	}
	if next != nil {
		e := toEntryJSON(*next, loc)
		resp.Next = &e
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}
