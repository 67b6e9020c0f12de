package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapuml/internal/cli/output"
	"github.com/leapstack-labs/leapuml/internal/cli/testutil"
)

func TestShowCommand_Markdown(t *testing.T) {
	dir := setupProjectEnv(t)

	out, err := executeCommand(t, NewShowCommand(), filepath.Join(dir, "diagrams", "shapes.json"))
	require.NoError(t, err)

	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "Shape")
	assert.Contains(t, out, "Circle")
	assert.Contains(t, out, "area: float")
	assert.Contains(t, out, "inheritance")
}

func TestShowCommand_JSON(t *testing.T) {
	dir := setupProjectEnv(t)
	t.Setenv("LEAPUML_OUTPUT", "json")

	out, err := executeCommand(t, NewShowCommand(), filepath.Join(dir, "diagrams", "shapes.json"))
	require.NoError(t, err)

	var payload output.ShowOutput
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "shapes", payload.Name)
	assert.Len(t, payload.Classes, 2)
	require.Len(t, payload.Relationships, 1)
	assert.Equal(t, "Circle", payload.Relationships[0].Source)
}

func TestShowCommand_ByRegisteredName_Missing(t *testing.T) {
	setupProjectEnv(t)

	_, err := executeCommand(t, NewShowCommand(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestShowCommand_BareNameFoundInDiagramsDir(t *testing.T) {
	setupProjectEnv(t)

	out, err := executeCommand(t, NewShowCommand(), "shapes")
	require.NoError(t, err)
	assert.Contains(t, out, "Shape")
}
