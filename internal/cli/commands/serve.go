package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapuml/internal/history"
	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/storage"
	"github.com/leapstack-labs/leapuml/internal/ui"
	"github.com/leapstack-labs/leapuml/internal/workspace"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve [diagram]",
		Short: "Start the browser-based diagram editor",
		Long: `Start a local web server providing a browser-based diagram editor.

The editor shows the diagram live, applies edits through the same undo/redo
history as the terminal editor, and follows external changes to the diagram
file when --watch is on. Without a diagram argument it opens an empty,
unsaved diagram.`,
		Example: `  # Edit a registered diagram in the browser
  leapuml serve shapes

  # Start on a custom port with an empty diagram
  leapuml serve --port 3000

  # Start without auto-opening the browser
  leapuml serve shapes --no-browser`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Follow external changes to the diagram file")

	return cmd
}

func runServe(cmd *cobra.Command, args []string, opts *ServeOptions) error {
	ctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	uiCfg := ctx.Cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	d := model.New(ctx.Logger)
	var path string
	if len(args) == 1 {
		path, err = ctx.resolveDiagramPath(args[0])
		if err != nil {
			return err
		}
		if err := storage.LoadInto(d, path); err != nil {
			return err
		}
		if err := ctx.Store.TouchOpened(diagramName(path)); err != nil && !errors.Is(err, workspace.ErrNotRegistered) {
			ctx.Logger.Warn("failed to record open", "error", err)
		}
	}

	server := ui.NewServer(ui.Config{
		Diagram:       d,
		History:       history.New(ctx.Logger),
		Store:         ctx.Store,
		Port:          port,
		Watch:         watch,
		Theme:         uiCfg.Theme,
		SessionSecret: sessionSecret(),
		Logger:        ctx.Logger,
		DiagramPath:   path,
	})

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Fprintf(ctx.Renderer.Writer(), "Starting editor on http://localhost:%d\n", port)
	fmt.Fprintln(ctx.Renderer.Writer(), "Press Ctrl+C to stop")

	runCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(runCtx)
}

// sessionSecret returns the cookie signing secret.
func sessionSecret() string {
	secret := os.Getenv("LEAPUML_SESSION_SECRET")
	if secret == "" {
		// Default secret for local editing sessions.
		secret = "leapuml-dev-secret-change-in-production" //nolint:gosec
	}
	return secret
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
