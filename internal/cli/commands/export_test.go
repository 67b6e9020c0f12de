package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCommand_Mermaid(t *testing.T) {
	setupProjectEnv(t)

	out, err := executeCommand(t, NewExportCommand(), "shapes")
	require.NoError(t, err)

	assert.Contains(t, out, "classDiagram")
	assert.Contains(t, out, "class Shape {")
	assert.Contains(t, out, "Circle --|> Shape : inheritance")
}

func TestExportCommand_PlantUMLToFile(t *testing.T) {
	setupProjectEnv(t)

	outFile := filepath.Join(t.TempDir(), "shapes.puml")
	out, err := executeCommand(t, NewExportCommand(), "shapes", "--format", "plantuml", "--file", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@startuml")
	assert.Contains(t, string(data), "@enduml")
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	setupProjectEnv(t)

	_, err := executeCommand(t, NewExportCommand(), "shapes", "--format", "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "svg")
}

func TestExportCommand_YAMLRoundTrip(t *testing.T) {
	setupProjectEnv(t)

	out, err := executeCommand(t, NewExportCommand(), "shapes", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "classes:")
	assert.Contains(t, out, "name: Shape")
}
