package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapuml/internal/history"
	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/storage"
	"github.com/leapstack-labs/leapuml/internal/ui/resources"
	"github.com/leapstack-labs/leapuml/internal/workspace"
)

const sessionName = "leapuml_ui"

// commandRequest is the JSON body of POST /api/command. Action selects the
// edit; the other fields carry whatever that edit needs.
type commandRequest struct {
	Action      string            `json:"action"`
	Class       string            `json:"class"`
	Name        string            `json:"name"`
	NewName     string            `json:"new_name"`
	Type        string            `json:"type"`
	ReturnType  string            `json:"return_type"`
	Signature   string            `json:"signature"`
	Params      []model.Parameter `json:"params"`
	Source      string            `json:"source"`
	Destination string            `json:"destination"`
	Kind        string            `json:"kind"`
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
}

// historyStatus is the JSON response of the mutation endpoints.
type historyStatus struct {
	Status  string `json:"status"`
	CanUndo bool   `json:"can_undo"`
	CanRedo bool   `json:"can_redo"`
	Last    string `json:"last,omitempty"`
	Error   string `json:"error,omitempty"`
}

// addClassSignals is read from the toolbar's datastar signals.
type addClassSignals struct {
	NewClass string `json:"newclass"`
}

func (s *Server) setupRoutes(r chi.Router) {
	r.Handle("/static/*", resources.Handler())

	r.Get("/", s.IndexPage)
	r.Get("/updates", s.UpdatesSSE)

	r.Get("/api/diagram", s.DiagramJSON)
	r.Post("/api/classes", s.AddClassSSE)
	r.Post("/api/command", s.Command)
	r.Post("/api/undo", s.Undo)
	r.Post("/api/redo", s.Redo)
	r.Post("/api/save", s.Save)
}

// IndexPage renders the full editor page. The workspace fragment is inlined
// so the first paint needs no SSE round trip; ?theme= switches the color
// scheme and is remembered in the browser session.
func (s *Server) IndexPage(w http.ResponseWriter, r *http.Request) {
	theme := s.theme
	sess, _ := s.sessionStore.Get(r, sessionName)
	if v, ok := sess.Values["theme"].(string); ok && v != "" {
		theme = v
	}
	if q := r.URL.Query().Get("theme"); q != "" {
		theme = q
		sess.Values["theme"] = q
		if err := sess.Save(r, w); err != nil {
			s.logger.Warn("failed to save session", "error", err)
		}
	}

	page, err := renderPage("LeapUML - "+s.name, theme, s.workspaceView())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// UpdatesSSE is the long-lived SSE endpoint. It subscribes to model changes
// and re-sends the workspace fragment on each one; the initial state is
// already rendered by IndexPage.
func (s *Server) UpdatesSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-updates:
			fragment, err := renderWorkspace(s.workspaceView())
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElements(fragment); err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			// Tell the client what happened; structural changes are its cue
			// to re-run edge layout.
			signals, err := json.Marshal(map[string]any{
				"lastevent":  string(u.Event),
				"structural": u.Structural,
			})
			if err == nil {
				_ = sse.PatchSignals(signals)
			}
		}
	}
}

// DiagramJSON returns the current diagram as a JSON snapshot.
func (s *Server) DiagramJSON(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(snap)
}

// AddClassSSE creates a class from the toolbar input. It reads the class
// name from datastar signals and pushes the updated workspace back.
func (s *Server) AddClassSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals before creating the SSE stream; it consumes the body.
	var signals addClassSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	name := strings.TrimSpace(signals.NewClass)
	if name == "" {
		_ = sse.ConsoleError(errors.New("class name cannot be empty"))
		return
	}

	if err := s.execute(&history.AddClassCommand{Diagram: s.diagram, Class: name}); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	// The observer broadcast already refreshed every client, this one
	// included. Just clear the input.
	_ = sse.PatchSignals([]byte(`{"newclass": ""}`))
}

// Command applies one generic edit from a JSON body.
func (s *Server) Command(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeStatus(w, http.StatusBadRequest, err)
		return
	}

	cmd, err := s.buildCommand(req)
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, err)
		return
	}

	if err := s.execute(cmd); err != nil {
		s.writeStatus(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeStatus(w, http.StatusOK, nil)
}

// Undo reverses the most recent edit.
func (s *Server) Undo(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	err := s.history.Undo()
	s.mu.Unlock()

	if err != nil {
		s.writeStatus(w, http.StatusConflict, err)
		return
	}
	s.writeStatus(w, http.StatusOK, nil)
}

// Redo reapplies the most recently undone edit.
func (s *Server) Redo(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	err := s.history.Redo()
	s.mu.Unlock()

	if err != nil {
		s.writeStatus(w, http.StatusConflict, err)
		return
	}
	s.writeStatus(w, http.StatusOK, nil)
}

// Save writes the diagram back to its file and refreshes the workspace
// registry entry.
func (s *Server) Save(w http.ResponseWriter, _ *http.Request) {
	if s.path == "" {
		s.writeStatus(w, http.StatusConflict, errors.New("no file backs this session"))
		return
	}

	snap := s.snapshot()
	if err := storage.Save(s.path, snap); err != nil {
		s.writeStatus(w, http.StatusInternalServerError, err)
		return
	}

	if s.store != nil {
		err := s.store.RecordSave(&workspace.Entry{
			Name:              s.name,
			Path:              s.path,
			Format:            string(storage.DetectFormat(s.path)),
			ClassCount:        len(snap.Classes),
			RelationshipCount: len(snap.Relationships),
		})
		if err != nil {
			s.logger.Warn("failed to record save", "error", err)
		}
	}

	s.logger.Info("diagram saved", "file", s.path)
	s.writeStatus(w, http.StatusOK, nil)
}

// execute runs a command through the history under the server lock.
func (s *Server) execute(cmd history.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Execute(cmd)
}

// workspaceView assembles template data for the current diagram state.
func (s *Server) workspaceView() workspaceView {
	s.mu.Lock()
	snap := s.diagram.Snapshot()
	canUndo := s.history.CanUndo()
	canRedo := s.history.CanRedo()
	last := s.history.LastName()
	s.mu.Unlock()

	return buildWorkspaceView(s.name, snap, canUndo, canRedo, last)
}

func (s *Server) writeStatus(w http.ResponseWriter, code int, err error) {
	s.mu.Lock()
	status := historyStatus{
		Status:  "ok",
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
		Last:    s.history.LastName(),
	}
	s.mu.Unlock()

	if err != nil {
		status.Status = "error"
		status.Error = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

// buildCommand maps an action name to the matching history command.
func (s *Server) buildCommand(req commandRequest) (history.Command, error) {
	switch req.Action {
	case "add_class":
		return &history.AddClassCommand{Diagram: s.diagram, Class: req.Class}, nil
	case "delete_class":
		return &history.DeleteClassCommand{Diagram: s.diagram, Class: req.Class}, nil
	case "rename_class":
		return &history.RenameClassCommand{Diagram: s.diagram, OldName: req.Class, NewName: req.NewName}, nil
	case "move_class":
		return &history.MoveClassCommand{Diagram: s.diagram, Class: req.Class, Position: model.Position{X: req.X, Y: req.Y}}, nil

	case "add_field":
		return &history.AddFieldCommand{Diagram: s.diagram, Class: req.Class, Field: model.Field{Name: req.Name, Type: req.Type}}, nil
	case "delete_field":
		return &history.DeleteFieldCommand{Diagram: s.diagram, Class: req.Class, Field: req.Name}, nil
	case "rename_field":
		return &history.RenameFieldCommand{Diagram: s.diagram, Class: req.Class, OldName: req.Name, NewName: req.NewName}, nil
	case "edit_field_type":
		return &history.EditFieldTypeCommand{Diagram: s.diagram, Class: req.Class, Field: req.Name, NewType: req.Type}, nil

	case "add_method":
		method := model.Method{Name: req.Name, ReturnType: req.ReturnType, Params: req.Params}
		return &history.AddMethodCommand{Diagram: s.diagram, Class: req.Class, Method: method}, nil
	case "delete_method":
		return &history.DeleteMethodCommand{Diagram: s.diagram, Class: req.Class, Signature: req.Signature}, nil
	case "rename_method":
		return &history.RenameMethodCommand{Diagram: s.diagram, Class: req.Class, Signature: req.Signature, NewName: req.NewName}, nil
	case "edit_parameters":
		return &history.EditParametersCommand{Diagram: s.diagram, Class: req.Class, Signature: req.Signature, Params: req.Params}, nil

	case "add_relationship":
		kind, err := model.ParseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		return &history.AddRelationshipCommand{Diagram: s.diagram, Source: req.Source, Destination: req.Destination, Kind: kind}, nil
	case "delete_relationship":
		return &history.DeleteRelationshipCommand{Diagram: s.diagram, Source: req.Source, Destination: req.Destination}, nil
	case "edit_relationship_kind":
		kind, err := model.ParseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		return &history.EditRelationshipKindCommand{Diagram: s.diagram, Source: req.Source, Destination: req.Destination, NewKind: kind}, nil
	}
	return nil, fmt.Errorf("unknown action %q", req.Action)
}

// diagramName derives the display name from the backing file.
func diagramName(path string) string {
	if path == "" {
		return "untitled"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
