package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/testutil"
)

func sampleSnapshot(t *testing.T) model.Snapshot {
	t.Helper()
	d := model.New(testutil.NewTestLogger(t))

	for _, name := range []string{"Shape", "Circle", "Canvas", "Marker"} {
		_, err := d.AddClass(name)
		require.NoError(t, err)
	}
	require.NoError(t, d.AddField("Shape", model.Field{Name: "area", Type: "float"}))
	require.NoError(t, d.AddMethod("Shape", model.Method{
		Name:       "move",
		ReturnType: "void",
		Params:     []model.Parameter{{Name: "dx", Type: "int"}, {Name: "dy", Type: "int"}},
	}))
	require.NoError(t, d.AddRelationship("Circle", "Shape", model.KindInheritance))
	require.NoError(t, d.AddRelationship("Canvas", "Shape", model.KindComposition))
	require.NoError(t, d.AddRelationship("Shape", "Marker", model.KindAssociation))
	return d.Snapshot()
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat("MERMAID")
	require.NoError(t, err)
	assert.Equal(t, FormatMermaid, got)

	_, err = ParseFormat("svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}

func TestMermaid(t *testing.T) {
	out := Mermaid(sampleSnapshot(t))

	assert.True(t, strings.HasPrefix(out, "classDiagram\n"))
	assert.Contains(t, out, "class Shape {")
	assert.Contains(t, out, "+float area")
	assert.Contains(t, out, "+move(int, int) void")
	// Empty classes render as bare declarations.
	assert.Contains(t, out, "    class Circle\n")
	assert.Contains(t, out, "Circle --|> Shape : inheritance")
	assert.Contains(t, out, "Canvas *-- Shape : composition")
	assert.Contains(t, out, "Shape --> Marker : association")
}

func TestPlantUML(t *testing.T) {
	out := PlantUML(sampleSnapshot(t))

	assert.True(t, strings.HasPrefix(out, "@startuml\n"))
	assert.True(t, strings.HasSuffix(out, "@enduml\n"))
	assert.Contains(t, out, "class Shape {")
	assert.Contains(t, out, "+area : float")
	assert.Contains(t, out, "+move(dx : int, dy : int) : void")
	assert.Contains(t, out, "Circle --|> Shape")
	assert.Contains(t, out, "Canvas *-- Shape")
}

func TestRender_NativeFormats(t *testing.T) {
	snap := sampleSnapshot(t)

	jsonOut, err := Render(snap, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(jsonOut), `"classes"`)

	yamlOut, err := Render(snap, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(yamlOut), "classes:")
}
