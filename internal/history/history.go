package history

import (
	"log/slog"
)

// EmptyHistoryError reports an Undo or Redo against an empty stack.
type EmptyHistoryError struct {
	Op string // "undo" or "redo"
}

func (e *EmptyHistoryError) Error() string {
	return "nothing to " + e.Op
}

// History holds the undo and redo stacks for one editing session. It is not
// safe for concurrent use; callers serialize access the same way they
// serialize access to the diagram itself.
type History struct {
	undo   []Command
	redo   []Command
	logger *slog.Logger
}

// New returns an empty history. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{logger: logger}
}

// Execute runs cmd and, on success, pushes it onto the undo stack and clears
// the redo stack. On failure both stacks are left untouched.
func (h *History) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		h.logger.Debug("command failed", "command", cmd.Name(), "error", err)
		return err
	}
	h.undo = append(h.undo, cmd)
	h.redo = h.redo[:0]
	h.logger.Debug("command executed", "command", cmd.Name(), "undo_depth", len(h.undo))
	return nil
}

// Undo reverses the most recent command and moves it to the redo stack.
func (h *History) Undo() error {
	if len(h.undo) == 0 {
		return &EmptyHistoryError{Op: "undo"}
	}
	cmd := h.undo[len(h.undo)-1]
	if err := cmd.Undo(); err != nil {
		return err
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cmd)
	h.logger.Debug("command undone", "command", cmd.Name())
	return nil
}

// Redo re-applies the most recently undone command and moves it back to the
// undo stack.
func (h *History) Redo() error {
	if len(h.redo) == 0 {
		return &EmptyHistoryError{Op: "redo"}
	}
	cmd := h.redo[len(h.redo)-1]
	if err := cmd.Execute(); err != nil {
		return err
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cmd)
	h.logger.Debug("command redone", "command", cmd.Name())
	return nil
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the number of commands available to undo.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of commands available to redo.
func (h *History) RedoDepth() int { return len(h.redo) }

// LastName returns the name of the command Undo would reverse, or "" when
// the undo stack is empty.
func (h *History) LastName() string {
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].Name()
}

// Clear drops both stacks. Used after loading a diagram from disk, where
// prior edits no longer correspond to the model.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
