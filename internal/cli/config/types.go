// Package config provides configuration management for the LeapUML CLI.
//
// Configuration is assembled from defaults, an optional leapuml.yaml project
// file, LEAPUML_-prefixed environment variables, and command-line flags, in
// increasing order of precedence.
package config

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port     int    `koanf:"port"`
	AutoOpen bool   `koanf:"auto_open"`
	Watch    bool   `koanf:"watch"`
	Theme    string `koanf:"theme"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:     8765,
		AutoOpen: true,
		Watch:    true,
		Theme:    "default",
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = 8765
	}
	if ui.Theme == "" {
		ui.Theme = "default"
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	DiagramsDir   string    `koanf:"diagrams_dir"`
	WorkspacePath string    `koanf:"workspace_path"`
	Verbose       bool      `koanf:"verbose"`
	OutputFormat  string    `koanf:"output"`
	UI            *UIConfig `koanf:"ui"`

	// ProjectRoot is derived during loading, not read from the file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultDiagramsDir   = "diagrams"
	DefaultWorkspaceFile = ".leapuml/workspace.db"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
