// Package commands_test provides tests for CLI command creation.
package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapuml/internal/cli/testutil"
)

// setupProjectEnv creates a scratch project and points the environment
// fallback config at it, so commands run without a loaded config file.
func setupProjectEnv(t *testing.T) string {
	t.Helper()
	dir := testutil.SetupTestProject(t)
	t.Setenv("LEAPUML_DIAGRAMS_DIR", filepath.Join(dir, "diagrams"))
	t.Setenv("LEAPUML_WORKSPACE_PATH", ":memory:")
	t.Setenv("LEAPUML_OUTPUT", "markdown")
	return dir
}

// executeCommand runs a command with captured output.
func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewListCommand(t *testing.T) {
	cmd := NewListCommand()

	assert.Equal(t, "list", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	// Note: --output flag is a global persistent flag on root command, not local to list
}

func TestNewShowCommand(t *testing.T) {
	cmd := NewShowCommand()

	assert.Equal(t, "show <diagram>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
}

func TestNewRenderCommand(t *testing.T) {
	cmd := NewRenderCommand()

	assert.Equal(t, "render <diagram>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
}

func TestNewExportCommand(t *testing.T) {
	cmd := NewExportCommand()

	assert.Equal(t, "export <diagram>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"format", "file"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}

	assert.Equal(t, "mermaid", cmd.Flags().Lookup("format").DefValue)
}

func TestNewEditCommand(t *testing.T) {
	cmd := NewEditCommand()

	assert.Equal(t, "edit [diagram]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve [diagram]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"port", "no-browser", "watch"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewSavedCommand(t *testing.T) {
	cmd := NewSavedCommand()

	assert.Equal(t, "saved", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, want := range []string{"info", "rename", "rm"} {
		assert.True(t, subs[want], "saved should have %q subcommand", want)
	}
}

func TestNewInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"force", "example"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}
