// Package ui provides the browser-based diagram editor for LeapUML.
//
// The server owns one editing session: a diagram, its undo/redo history, and
// the workspace registry. Browser clients receive the current diagram over
// SSE and mutate it through a small JSON command API; every mutation flows
// through the history so undo works the same in the browser and the
// terminal.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapuml/internal/history"
	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/storage"
	"github.com/leapstack-labs/leapuml/internal/ui/notifier"
	"github.com/leapstack-labs/leapuml/internal/workspace"
)

// Server is the main UI server.
type Server struct {
	mu      sync.Mutex
	diagram *model.Diagram
	history *history.History

	store        workspace.Store
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	path         string
	name         string
	theme        string
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Diagram       *model.Diagram
	History       *history.History
	Store         workspace.Store
	Port          int
	Watch         bool
	Theme         string
	SessionSecret string
	Logger        *slog.Logger

	// DiagramPath is the file backing the session; empty for an unsaved
	// diagram. Saves write here and the watcher follows external edits.
	DiagramPath string
}

// modelObserver bridges diagram changes to SSE clients.
type modelObserver struct {
	notifier *notifier.Notifier
}

func (o *modelObserver) ModelChanged(c model.Change) {
	o.notifier.Broadcast(notifier.Update{Event: c.Event, Structural: c.Structural()})
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		diagram:      cfg.Diagram,
		history:      cfg.History,
		store:        cfg.Store,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		path:         cfg.DiagramPath,
		name:         diagramName(cfg.DiagramPath),
		theme:        cfg.Theme,
		logger:       logger,
		notifier:     notifier.New(),
	}
	s.diagram.AttachObserver(&modelObserver{notifier: s.notifier})
	return s
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.setupRoutes(r)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start file watcher if enabled
	if s.watch && s.path != "" {
		eg.Go(func() error {
			return s.watchFile(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// snapshot returns a consistent copy of the diagram for rendering.
func (s *Server) snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diagram.Snapshot()
}

// watchFile reloads the diagram when its file changes on disk, so external
// edits (another session, a git checkout) show up in connected browsers.
func (s *Server) watchFile(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files on save, which drops
	// watches on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		s.logger.Error("failed to watch diagram directory", "error", err)
		return nil
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("diagram file changed, reloading", "file", event.Name)
				s.reloadFromDisk()
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) reloadFromDisk() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := storage.LoadInto(s.diagram, s.path); err != nil {
		s.logger.Error("reload failed", "file", s.path, "error", err)
		return
	}
	// Stale history would undo against the wrong baseline.
	s.history.Clear()
}
