package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapuml/internal/cli/config"
	"github.com/leapstack-labs/leapuml/internal/history"
	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/testutil"
)

// newTestSession builds an editSession with captured output and no registry.
func newTestSession(t *testing.T) (*editSession, *bytes.Buffer) {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	out := &bytes.Buffer{}

	s := &editSession{
		ctx: &CommandContext{
			Cfg: &config.Config{
				DiagramsDir:   t.TempDir(),
				WorkspacePath: ":memory:",
			},
			Logger: logger,
		},
		diagram: model.New(logger),
		history: history.New(logger),
		out:     out,
		errOut:  out,
	}
	return s, out
}

func run(t *testing.T, s *editSession, lines ...string) {
	t.Helper()
	for _, line := range lines {
		quit, err := s.dispatch(line)
		require.NoError(t, err, "dispatch %q", line)
		require.False(t, quit, "dispatch %q should not quit", line)
	}
}

func TestEditSession_ClassLifecycle(t *testing.T) {
	s, _ := newTestSession(t)

	run(t, s,
		"class add Shape",
		"class add Circle",
		"class rename Circle Ellipse",
		"class move Shape 100 50",
	)

	assert.True(t, s.diagram.HasClass("Shape"))
	assert.True(t, s.diagram.HasClass("Ellipse"))
	assert.False(t, s.diagram.HasClass("Circle"))

	cls, err := s.diagram.Class("Shape")
	require.NoError(t, err)
	assert.Equal(t, model.Position{X: 100, Y: 50}, cls.Position)

	// Undo the move and the rename; both class adds stay.
	run(t, s, "undo", "undo")
	assert.True(t, s.diagram.HasClass("Circle"), "rename undone")
	assert.Equal(t, 2, s.diagram.ClassCount())

	run(t, s, "redo")
	assert.False(t, s.diagram.HasClass("Circle"))
	assert.True(t, s.diagram.HasClass("Ellipse"), "rename reapplied")
}

func TestEditSession_MembersAndRelationships(t *testing.T) {
	s, _ := newTestSession(t)

	run(t, s,
		"class add Shape",
		"class add Canvas",
		"field add Shape area float",
		"field retype Shape area double",
		"method add Shape move void dx:int dy:int",
		"rel add Canvas Shape aggregation",
		"rel kind Canvas Shape composition",
	)

	cls, err := s.diagram.Class("Shape")
	require.NoError(t, err)
	require.Len(t, cls.Fields, 1)
	assert.Equal(t, "double", cls.Fields[0].Type)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "move(int,int)", cls.Methods[0].Signature())

	rel, err := s.diagram.Relationship("Canvas", "Shape")
	require.NoError(t, err)
	assert.Equal(t, model.KindComposition, rel.Kind)
}

func TestEditSession_DispatchErrors(t *testing.T) {
	s, _ := newTestSession(t)

	tests := []struct {
		line    string
		wantErr string
	}{
		{"bogus", "unknown command"},
		{"class add", "usage: class add"},
		{"class move Shape one two", "invalid x coordinate"},
		{"rel add A B friendship", "unknown relationship kind"},
		{"method add Shape fn void bad-param", "expected name:type"},
		{"undo", "nothing to undo"},
	}

	for _, tt := range tests {
		_, err := s.dispatch(tt.line)
		require.Error(t, err, "line %q", tt.line)
		assert.Contains(t, err.Error(), tt.wantErr)
	}
}

func TestEditSession_QuitAndExit(t *testing.T) {
	s, _ := newTestSession(t)

	for _, line := range []string{"quit", "exit"} {
		quit, err := s.dispatch(line)
		require.NoError(t, err)
		assert.True(t, quit, "%q should quit", line)
	}
}

func TestEditSession_SaveAndLoad(t *testing.T) {
	s, _ := newTestSession(t)

	run(t, s,
		"class add Shape",
		"field add Shape area float",
		"save shapes",
	)
	assert.False(t, s.dirty)

	path := filepath.Join(s.ctx.Cfg.DiagramsDir, "shapes.json")
	assert.Equal(t, path, s.path)

	run(t, s, "class add Scratch")
	assert.True(t, s.dirty)

	// Loading replaces the working diagram and clears history.
	run(t, s, "load "+path)
	assert.False(t, s.dirty)
	assert.False(t, s.diagram.HasClass("Scratch"))
	assert.True(t, s.diagram.HasClass("Shape"))
	assert.False(t, s.history.CanUndo())
}

func TestEditSession_ShowRendersDiagram(t *testing.T) {
	s, out := newTestSession(t)

	run(t, s, "class add Shape", "show")
	assert.Contains(t, out.String(), "Shape")
	assert.Contains(t, out.String(), "┌")
}

func TestEditSession_ObserverEchoesChanges(t *testing.T) {
	s, out := newTestSession(t)
	s.diagram.AttachObserver(&consoleObserver{out: s.out})

	run(t, s,
		"class add Shape",
		"class add Circle",
		"rel add Circle Shape inheritance",
		"class rename Circle Ellipse",
	)

	text := out.String()
	assert.Contains(t, text, "+ class Shape")
	assert.Contains(t, text, "+ Circle inheritance Shape")
	assert.Contains(t, text, "~ class Circle -> Ellipse")
}

func TestEditSession_MethodOverloads(t *testing.T) {
	s, _ := newTestSession(t)

	run(t, s,
		"class add Shape",
		"method add Shape move void",
		"method add Shape move void dx:int dy:int",
		"method rm Shape move()",
	)

	cls, err := s.diagram.Class("Shape")
	require.NoError(t, err)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "move(int,int)", cls.Methods[0].Signature())
}
