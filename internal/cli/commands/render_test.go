package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapuml/internal/cli/testutil"
)

func TestRenderCommand_Markdown(t *testing.T) {
	setupProjectEnv(t)

	out, err := executeCommand(t, NewRenderCommand(), "shapes")
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "```")
	assert.Contains(t, out, "Shape")
	assert.Contains(t, out, "area: float")
	assert.Contains(t, out, "Circle --|> Shape")
}

func TestRenderCommand_BoxesAreClosed(t *testing.T) {
	setupProjectEnv(t)

	out, err := executeCommand(t, NewRenderCommand(), "shapes")
	require.NoError(t, err)

	// Every box that opens must close.
	assert.Equal(t, strings.Count(out, "┌"), strings.Count(out, "└"))
	assert.Equal(t, strings.Count(out, "┐"), strings.Count(out, "┘"))
}

func TestRenderCommand_MissingDiagram(t *testing.T) {
	setupProjectEnv(t)

	_, err := executeCommand(t, NewRenderCommand(), "ghost")
	require.Error(t, err)
}
