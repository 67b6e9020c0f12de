package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapuml/internal/cli/config"
	"github.com/leapstack-labs/leapuml/internal/cli/output"
	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/storage"
	"github.com/leapstack-labs/leapuml/internal/workspace"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    workspace.Store
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a workspace store and
// renderer. Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	store, err := workspace.Open(cfg.WorkspacePath)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = store.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Store:    store,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without opening the
// workspace database. Useful for commands that only touch diagram files.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	diagramsDir := getEnvOrDefault("LEAPUML_DIAGRAMS_DIR", config.DefaultDiagramsDir)
	workspacePath := getEnvOrDefault("LEAPUML_WORKSPACE_PATH", config.DefaultWorkspaceFile)
	verbose := os.Getenv("LEAPUML_VERBOSE") == "true"
	outputFormat := os.Getenv("LEAPUML_OUTPUT")

	return &config.Config{
		DiagramsDir:   diagramsDir,
		WorkspacePath: workspacePath,
		Verbose:       verbose,
		OutputFormat:  outputFormat,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// resolveDiagramPath maps a diagram argument to a file path. A bare name is
// looked up in the workspace registry first, then in the diagrams directory;
// anything containing a path separator or a known extension is used as-is.
func (c *CommandContext) resolveDiagramPath(name string) (string, error) {
	if strings.ContainsAny(name, "/\\") || hasDiagramExt(name) {
		return name, nil
	}

	if c.Store != nil {
		entry, err := c.Store.Get(name)
		if err != nil {
			return "", err
		}
		if entry != nil {
			return entry.Path, nil
		}
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		candidate := filepath.Join(c.Cfg.DiagramsDir, name+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("diagram %q not found (looked in workspace registry and %s)", name, c.Cfg.DiagramsDir)
}

func hasDiagramExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// loadDiagram resolves and loads a diagram into a fresh model.
func (c *CommandContext) loadDiagram(name string) (*model.Diagram, string, error) {
	path, err := c.resolveDiagramPath(name)
	if err != nil {
		return nil, "", err
	}
	d := model.New(c.Logger)
	if err := storage.LoadInto(d, path); err != nil {
		return nil, "", err
	}
	return d, path, nil
}

// diagramName derives the registry name from a file path.
func diagramName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// recordSave refreshes the workspace registry after writing a diagram file.
func (c *CommandContext) recordSave(path string, snap model.Snapshot) error {
	if c.Store == nil {
		return nil
	}
	return c.Store.RecordSave(&workspace.Entry{
		Name:              diagramName(path),
		Path:              path,
		Format:            string(storage.DetectFormat(path)),
		ClassCount:        len(snap.Classes),
		RelationshipCount: len(snap.Relationships),
	})
}
