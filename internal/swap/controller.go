// Package swap keeps the public endpoint answering while a build runs.
//
// Before the build starts, a placeholder server bound to the public port
// serves a static maintenance page. When the build finishes with a success or
// warning outcome, the placeholder is torn down so the real content server
// can take the port. A fatal build failure keeps the placeholder up: the
// endpoint never goes dark on a broken build.
package swap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/siteforge/internal/build"
	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
	"git.home.luguber.info/inful/siteforge/internal/logfields"
	"git.home.luguber.info/inful/siteforge/internal/workspace"
)

// State is the controller's lifecycle position.
type State string

const (
	StateIdle          State = "idle"
	StatePlaceholderUp State = "placeholder_up"
	StateBuildRunning  State = "build_running"
	StateRealContentUp State = "real_content_up"
)

// ServerHandle owns the placeholder server's resources: the bound listener
// and the serving goroutine. Release is guaranteed exactly once on every
// exit path.
type ServerHandle struct {
	srv     *http.Server
	ln      net.Listener
	ws      *workspace.Manager
	started time.Time
	once    sync.Once
	done    chan struct{}
}

// Addr returns the bound address of the placeholder listener.
func (h *ServerHandle) Addr() string {
	return h.ln.Addr().String()
}

// Close shuts the placeholder server down and releases the port. Safe to call
// multiple times.
func (h *ServerHandle) Close() error {
	var err error
	h.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = h.srv.Shutdown(ctx)
		if cerr := h.ws.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
		close(h.done)
		slog.Info("Placeholder server stopped", slog.String("addr", h.Addr()), logfields.DurationMS(float64(time.Since(h.started).Milliseconds())))
	})
	return err
}

// Controller wraps build runs in a maintenance window on a fixed public address.
type Controller struct {
	// Addr is the public listen address, e.g. ":8080".
	Addr string
	// Title and PagePath feed the maintenance page rendering.
	Title    string
	PagePath string

	state  atomic.Value // State
	mu     sync.Mutex   // guards handle against the cancellation watcher
	handle *ServerHandle
}

// NewController creates a controller for the given public address.
func NewController(addr, title, pagePath string) *Controller {
	c := &Controller{Addr: addr, Title: title, PagePath: pagePath}
	c.state.Store(StateIdle)
	return c
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	return c.state.Load().(State)
}

// Handle returns the live placeholder handle, or nil when none is up.
func (c *Controller) Handle() *ServerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// Close releases any live placeholder handle.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return nil
	}
	err := c.handle.Close()
	c.handle = nil
	c.state.Store(StateIdle)
	return err
}

// WithMaintenanceWindow brings the placeholder up, runs buildFn, and hands the
// port off on completion.
//
// Failure to bind the placeholder port is a fatal precondition: buildFn is
// never invoked. A fatal build error leaves the placeholder serving (release
// it via Close). External cancellation releases the handle before returning
// so the port is never leaked past process exit.
func (c *Controller) WithMaintenanceWindow(ctx context.Context, buildFn func(context.Context) (*build.Report, error)) (*build.Report, error) {
	// Leftover placeholder from a previous fatal window: reuse would race the
	// new bind, so release it first. Exactly one server holds the port at any
	// observable instant.
	if err := c.Close(); err != nil {
		slog.Warn("Failed to stop previous placeholder", logfields.Error(err))
	}

	handle, err := c.acquire()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.handle = handle
	c.mu.Unlock()
	c.state.Store(StatePlaceholderUp)
	slog.Info("Placeholder server up", slog.String("addr", handle.Addr()))

	// An interrupt during the build must release the bound port before the
	// process exits.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-watchDone:
		case <-handle.done:
		}
	}()

	c.state.Store(StateBuildRunning)
	report, buildErr := buildFn(ctx)
	close(watchDone)

	if ctx.Err() != nil {
		_ = c.Close()
		return report, buildErr
	}

	if buildErr != nil {
		// Fatal outcome: keep the maintenance page serving so the public
		// endpoint never goes dark behind a broken build.
		c.state.Store(StateIdle)
		slog.Error("Build failed, placeholder stays up", logfields.Error(buildErr))
		return report, buildErr
	}

	// Success or completed-with-warnings: hand the port off.
	if err := c.Close(); err != nil {
		slog.Warn("Placeholder shutdown reported error", logfields.Error(err))
	}
	c.state.Store(StateRealContentUp)
	slog.Info("Maintenance window closed, port released", slog.String("addr", c.Addr))
	return report, nil
}

// acquire renders the maintenance page and binds the public port. Binding
// first and failing fast avoids doing any build work behind a dead endpoint.
func (c *Controller) acquire() (*ServerHandle, error) {
	page, err := RenderMaintenancePage(c.Title, c.PagePath)
	if err != nil {
		return nil, err
	}

	// The page lives in a scoped temp dir owned by the handle; Close removes it.
	ws := workspace.NewManager("")
	if err := ws.Create(); err != nil {
		return nil, sferrors.Wrap(err, sferrors.CategoryFileSystem, sferrors.SeverityFatal, "create placeholder workspace")
	}
	pagePath, err := ws.WriteFile("index.html", page)
	if err != nil {
		_ = ws.Cleanup()
		return nil, sferrors.Wrap(err, sferrors.CategoryFileSystem, sferrors.SeverityFatal, "write maintenance page")
	}

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		_ = ws.Cleanup()
		return nil, sferrors.PortBindFailed(portOf(c.Addr), err)
	}

	// Every path answers with the maintenance page and 503 so crawlers and
	// monitors see the rebuild for what it is.
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(pagePath)
		if err != nil {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write(data)
	})

	handle := &ServerHandle{
		srv:     &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:      ln,
		ws:      ws,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go func() {
		if err := handle.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Placeholder server error", logfields.Error(err))
		}
	}()
	return handle, nil
}

func portOf(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	var port int
	for _, r := range portStr {
		if r < '0' || r > '9' {
			return 0
		}
		port = port*10 + int(r-'0')
	}
	return port
}
