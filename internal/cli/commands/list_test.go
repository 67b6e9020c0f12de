package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapuml/internal/cli/output"
	"github.com/leapstack-labs/leapuml/internal/workspace"
)

// seedWorkspace registers entries in a file-backed workspace and points the
// environment at it.
func seedWorkspace(t *testing.T, entries ...*workspace.Entry) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "workspace.db")
	store, err := workspace.Open(dbPath)
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, store.RecordSave(e))
	}
	require.NoError(t, store.Close())

	t.Setenv("LEAPUML_WORKSPACE_PATH", dbPath)
}

func TestListCommand_Empty(t *testing.T) {
	setupProjectEnv(t)

	out, err := executeCommand(t, NewListCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "Diagrams (0 total)")
}

func TestListCommand_Markdown(t *testing.T) {
	setupProjectEnv(t)
	seedWorkspace(t,
		&workspace.Entry{Name: "shapes", Path: "diagrams/shapes.json", Format: "json", ClassCount: 2, RelationshipCount: 1},
		&workspace.Entry{Name: "orders", Path: "diagrams/orders.yaml", Format: "yaml", ClassCount: 4, RelationshipCount: 3},
	)

	out, err := executeCommand(t, NewListCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "shapes")
	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "yaml")
}

func TestListCommand_JSON(t *testing.T) {
	setupProjectEnv(t)
	t.Setenv("LEAPUML_OUTPUT", "json")
	seedWorkspace(t,
		&workspace.Entry{Name: "shapes", Path: "diagrams/shapes.json", Format: "json", ClassCount: 2, RelationshipCount: 1},
	)

	out, err := executeCommand(t, NewListCommand())
	require.NoError(t, err)

	var payload output.ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Diagrams, 1)
	assert.Equal(t, "shapes", payload.Diagrams[0].Name)
	assert.Equal(t, 2, payload.Summary.TotalClasses)
	assert.Equal(t, 1, payload.Summary.TotalRelationships)
}
