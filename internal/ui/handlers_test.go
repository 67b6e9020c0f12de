package ui

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapuml/internal/history"
	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/workspace"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestServer builds a server around a small diagram with no backing
// file or registry.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	logger := testLogger()
	d := model.New(logger)

	_, err := d.AddClass("Shape")
	require.NoError(t, err)
	require.NoError(t, d.AddField("Shape", model.Field{Name: "area", Type: "float"}))
	require.NoError(t, d.AddMethod("Shape", model.Method{
		Name:       "move",
		ReturnType: "void",
		Params:     []model.Parameter{{Name: "dx", Type: "int"}, {Name: "dy", Type: "int"}},
	}))

	_, err = d.AddClass("Circle")
	require.NoError(t, err)
	require.NoError(t, d.AddRelationship("Circle", "Shape", model.KindInheritance))

	return NewServer(Config{
		Diagram:       d,
		History:       history.New(logger),
		Port:          8765,
		Theme:         "default",
		SessionSecret: "test-secret-key-32-bytes-long!!",
		Logger:        logger,
	})
}

func postCommand(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/command", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Command(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) historyStatus {
	t.Helper()
	var status historyStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return status
}

func TestIndexPage(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s.IndexPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `id="workspace"`)
	assert.Contains(t, body, "/updates")
	assert.Contains(t, body, "Shape")
	assert.Contains(t, body, "area: float")
	assert.Contains(t, body, "move(int,int) -&gt; void")
	assert.Contains(t, body, "Circle --|&gt; Shape")
}

func TestIndexPage_ThemeRememberedInSession(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/?theme=dark", nil)
	rec := httptest.NewRecorder()
	s.IndexPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="theme-dark"`)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "theme switch should set a session cookie")

	// Next request without the query parameter keeps the stored theme.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	s.IndexPage(rec, req)

	assert.Contains(t, rec.Body.String(), `class="theme-dark"`)
}

func TestDiagramJSON(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/diagram", nil)
	rec := httptest.NewRecorder()
	s.DiagramJSON(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Len(t, snap.Classes, 2)
	assert.Len(t, snap.Relationships, 1)
}

func TestCommand_AppliesEdits(t *testing.T) {
	s := setupTestServer(t)

	rec := postCommand(t, s, `{"action": "add_class", "class": "Canvas"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	status := decodeStatus(t, rec)
	assert.Equal(t, "ok", status.Status)
	assert.True(t, status.CanUndo)
	assert.Equal(t, "add class", status.Last)
	assert.True(t, s.diagram.HasClass("Canvas"))

	rec = postCommand(t, s, `{"action": "add_field", "class": "Canvas", "name": "width", "type": "int"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postCommand(t, s, `{"action": "add_relationship", "source": "Canvas", "destination": "Shape", "kind": "aggregation"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postCommand(t, s, `{"action": "move_class", "class": "Canvas", "x": 120, "y": 40}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	cls, err := s.diagram.Class("Canvas")
	require.NoError(t, err)
	assert.Equal(t, model.Position{X: 120, Y: 40}, cls.Position)
	assert.Len(t, cls.Fields, 1)
}

func TestCommand_UnknownAction(t *testing.T) {
	s := setupTestServer(t)

	rec := postCommand(t, s, `{"action": "explode"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decodeStatus(t, rec).Status)
}

func TestCommand_RejectedEditReportsError(t *testing.T) {
	s := setupTestServer(t)

	rec := postCommand(t, s, `{"action": "add_class", "class": "Shape"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	status := decodeStatus(t, rec)
	assert.Equal(t, "error", status.Status)
	assert.Contains(t, status.Error, "Shape")
	// A rejected edit must not enter the history.
	assert.False(t, status.CanUndo)
}

func TestCommand_BadKind(t *testing.T) {
	s := setupTestServer(t)

	rec := postCommand(t, s, `{"action": "add_relationship", "source": "Circle", "destination": "Shape", "kind": "friendship"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUndoRedo(t *testing.T) {
	s := setupTestServer(t)

	rec := httptest.NewRecorder()
	s.Undo(rec, httptest.NewRequest(http.MethodPost, "/api/undo", nil))
	assert.Equal(t, http.StatusConflict, rec.Code, "undo on empty history")

	postCommand(t, s, `{"action": "add_class", "class": "Canvas"}`)

	rec = httptest.NewRecorder()
	s.Undo(rec, httptest.NewRequest(http.MethodPost, "/api/undo", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, s.diagram.HasClass("Canvas"))
	assert.True(t, decodeStatus(t, rec).CanRedo)

	rec = httptest.NewRecorder()
	s.Redo(rec, httptest.NewRequest(http.MethodPost, "/api/redo", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.diagram.HasClass("Canvas"))
}

func TestSave_WritesFileAndRegistry(t *testing.T) {
	logger := testLogger()
	d := model.New(logger)
	_, err := d.AddClass("Shape")
	require.NoError(t, err)

	store, err := workspace.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	path := filepath.Join(t.TempDir(), "shapes.json")
	s := NewServer(Config{
		Diagram:       d,
		History:       history.New(logger),
		Store:         store,
		Port:          8765,
		SessionSecret: "test-secret-key-32-bytes-long!!",
		Logger:        logger,
		DiagramPath:   path,
	})

	rec := httptest.NewRecorder()
	s.Save(rec, httptest.NewRequest(http.MethodPost, "/api/save", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected saved diagram file: %v", err)
	}

	entry, err := store.Get("shapes")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.ClassCount)
}

func TestSave_NoBackingFile(t *testing.T) {
	s := setupTestServer(t)

	rec := httptest.NewRecorder()
	s.Save(rec, httptest.NewRequest(http.MethodPost, "/api/save", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdatesSSE_SendsWorkspaceOnBroadcast(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)

	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		s.UpdatesSSE(rec, req)
		close(done)
	}()

	// Mutating the diagram fires the observer, which broadcasts.
	time.Sleep(50 * time.Millisecond)
	_, err := s.diagram.AddClass("Canvas")
	require.NoError(t, err)

	<-done

	body := rec.Body.String()
	eventCount := strings.Count(body, "event:")
	assert.GreaterOrEqual(t, eventCount, 1, "should have at least 1 SSE event from broadcast")
	assert.Contains(t, body, "Canvas", "update should contain the new class")
	assert.Contains(t, body, "class_added", "signals should name the event")
	assert.Contains(t, body, `"structural":true`, "adding a class changes topology")
}

func TestUpdatesSSE_NoInitialState(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)

	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	s.UpdatesSSE(rec, req)

	eventCount := strings.Count(rec.Body.String(), "event:")
	assert.Equal(t, 0, eventCount, "should have no SSE events without broadcast")
}
