// Package server serves the built site on the public port for the long-lived
// serve mode. The handler behind the port swaps atomically between the real
// content and the maintenance page, so rebuilds never leave the port
// unanswered and never race a second binder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
	"git.home.luguber.info/inful/siteforge/internal/logfields"
	"git.home.luguber.info/inful/siteforge/internal/swap"
)

// Mode is what the public handler is currently serving.
type Mode string

const (
	ModeContent     Mode = "content"
	ModeMaintenance Mode = "maintenance"
)

// Options configures the static server.
type Options struct {
	Addr            string
	SiteDir         string
	Title           string
	MaintenancePage string         // optional markdown override
	Registry        *prom.Registry // nil disables /metrics
}

// Static is the long-lived public server.
type Static struct {
	opts    Options
	srv     *http.Server
	ln      net.Listener
	handler atomic.Value // http.Handler
	mode    atomic.Value // Mode
	start   time.Time
}

// New constructs a static server; Start binds and serves.
func New(opts Options) *Static {
	s := &Static{opts: opts}
	s.mode.Store(ModeContent)
	s.handler.Store(http.HandlerFunc(http.FileServer(http.Dir(opts.SiteDir)).ServeHTTP))
	return s
}

// Start pre-binds the public port (fail fast, nothing else starts on a bind
// error) and serves until Shutdown.
func (s *Static) Start() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return sferrors.PortBindFailed(portOf(s.opts.Addr), err)
	}
	s.ln = ln
	s.start = time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.opts.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.handler.Load().(http.Handler).ServeHTTP(w, r)
	})

	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Static server error", logfields.Error(err))
		}
	}()
	slog.Info("Serving site", slog.String("addr", ln.Addr().String()), logfields.Dir(s.opts.SiteDir))
	return nil
}

// Addr returns the bound address, valid after Start.
func (s *Static) Addr() string {
	if s.ln == nil {
		return s.opts.Addr
	}
	return s.ln.Addr().String()
}

// Mode reports what the public handler currently serves.
func (s *Static) Mode() Mode {
	return s.mode.Load().(Mode)
}

// EnterMaintenance swaps the maintenance page in front of the content. The
// port stays bound throughout: exactly one server answers at any instant.
func (s *Static) EnterMaintenance() error {
	page, err := swap.RenderMaintenancePage(s.opts.Title, s.opts.MaintenancePage)
	if err != nil {
		return err
	}
	s.handler.Store(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write(page)
	}))
	s.mode.Store(ModeMaintenance)
	slog.Info("Entered maintenance mode")
	return nil
}

// ExitMaintenance swaps the real content back in.
func (s *Static) ExitMaintenance() {
	s.handler.Store(http.HandlerFunc(http.FileServer(http.Dir(s.opts.SiteDir)).ServeHTTP))
	s.mode.Store(ModeContent)
	slog.Info("Exited maintenance mode", logfields.Dir(s.opts.SiteDir))
}

// Shutdown stops the server and releases the port.
func (s *Static) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Static) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":         "ok",
		"mode":           s.Mode(),
		"uptime_seconds": int(time.Since(s.start).Seconds()),
	})
}

func portOf(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	port := 0
	for _, r := range portStr {
		if r < '0' || r > '9' {
			return 0
		}
		port = port*10 + int(r-'0')
	}
	return port
}
