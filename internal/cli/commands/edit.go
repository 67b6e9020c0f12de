package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapuml/internal/history"
	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/storage"
)

// NewEditCommand creates the edit command.
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [diagram]",
		Short: "Edit a diagram in an interactive session",
		Long: `Open an interactive editing session with full undo/redo.

With a diagram argument the session starts from the saved diagram;
without one it starts empty. Type 'help' inside the session for the
command list.`,
		Example: `  # Edit a saved diagram
  leapuml edit shapes

  # Start a new diagram
  leapuml edit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runEdit(cmd, name)
		},
	}
	return cmd
}

// editSession holds the state of one interactive editing session.
type editSession struct {
	ctx     *CommandContext
	diagram *model.Diagram
	history *history.History
	out     io.Writer
	errOut  io.Writer

	// path is where save writes without an argument; empty until the first
	// save or load.
	path  string
	dirty bool
}

// consoleObserver echoes model changes to the session output. It is the
// terminal counterpart of the browser view: both attach to the same model.
type consoleObserver struct {
	out io.Writer
}

func (o *consoleObserver) ModelChanged(c model.Change) {
	switch c.Event {
	case model.EventClassAdded:
		fmt.Fprintf(o.out, "  + class %s\n", c.Class)
	case model.EventClassDeleted:
		fmt.Fprintf(o.out, "  - class %s\n", c.Class)
	case model.EventClassRenamed:
		fmt.Fprintf(o.out, "  ~ class %s -> %s\n", c.OldName, c.NewName)
	case model.EventRelationshipAdded:
		fmt.Fprintf(o.out, "  + %s %s %s\n", c.Source, c.Kind, c.Destination)
	case model.EventRelationshipDeleted:
		fmt.Fprintf(o.out, "  - %s -> %s\n", c.Source, c.Destination)
	default:
		if c.Member != "" {
			fmt.Fprintf(o.out, "  ~ %s.%s (%s)\n", c.Class, c.Member, c.Event)
		} else {
			fmt.Fprintf(o.out, "  ~ %s (%s)\n", c.Class, c.Event)
		}
	}
}

func runEdit(cmd *cobra.Command, name string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s := &editSession{
		ctx:     cmdCtx,
		diagram: model.New(cmdCtx.Logger),
		history: history.New(cmdCtx.Logger),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}

	if name != "" {
		path, err := cmdCtx.resolveDiagramPath(name)
		if err == nil {
			if err := storage.LoadInto(s.diagram, path); err != nil {
				return err
			}
			s.path = path
			if cmdCtx.Store != nil {
				_ = cmdCtx.Store.TouchOpened(diagramName(path))
			}
		} else {
			// A new diagram; save will land in the diagrams directory.
			s.path = filepath.Join(cmdCtx.Cfg.DiagramsDir, name+".json")
		}
	}

	s.diagram.AttachObserver(&consoleObserver{out: s.out})

	historyFile := filepath.Join(filepath.Dir(cmdCtx.Cfg.WorkspacePath), "edit_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "leapuml> ",
		HistoryFile:     historyFile,
		AutoComplete:    newEditCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Fprintf(s.out, "LeapUML editing session")
	if s.path != "" {
		fmt.Fprintf(s.out, " (%s)", s.path)
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Type 'help' for commands, 'quit' to exit")
	fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		quit, err := s.dispatch(line)
		if err != nil {
			fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}
		if quit {
			break
		}
	}

	if s.dirty {
		fmt.Fprintln(s.out, "Note: unsaved changes were discarded")
	}
	return nil
}

// dispatch routes one session line. The boolean result requests exit.
func (s *editSession) dispatch(line string) (bool, error) {
	args := strings.Fields(line)
	cmd := strings.ToLower(args[0])

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		s.printHelp()
		return false, nil
	case "class":
		return false, s.handleClass(args[1:])
	case "field":
		return false, s.handleField(args[1:])
	case "method":
		return false, s.handleMethod(args[1:])
	case "rel", "relationship":
		return false, s.handleRelationship(args[1:])
	case "undo":
		if err := s.history.Undo(); err != nil {
			return false, err
		}
		s.dirty = true
		return false, nil
	case "redo":
		if err := s.history.Redo(); err != nil {
			return false, err
		}
		s.dirty = true
		return false, nil
	case "show":
		fmt.Fprintln(s.out, asciiDiagram(s.diagram.Snapshot()))
		return false, nil
	case "save":
		return false, s.save(args[1:])
	case "load":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: load <path>")
		}
		return false, s.load(args[1])
	default:
		return false, fmt.Errorf("unknown command %q (type help for commands)", cmd)
	}
}

// execute runs a command through the session history and marks the diagram
// dirty on success.
func (s *editSession) execute(cmd history.Command) error {
	if err := s.history.Execute(cmd); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *editSession) handleClass(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: class add|rm|rename|move ...")
	}
	d := s.diagram
	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: class add <name>")
		}
		return s.execute(&history.AddClassCommand{Diagram: d, Class: args[1]})
	case "rm", "remove", "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: class rm <name>")
		}
		return s.execute(&history.DeleteClassCommand{Diagram: d, Class: args[1]})
	case "rename":
		if len(args) != 3 {
			return fmt.Errorf("usage: class rename <old> <new>")
		}
		return s.execute(&history.RenameClassCommand{Diagram: d, OldName: args[1], NewName: args[2]})
	case "move":
		if len(args) != 4 {
			return fmt.Errorf("usage: class move <name> <x> <y>")
		}
		x, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid x coordinate %q", args[2])
		}
		y, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("invalid y coordinate %q", args[3])
		}
		return s.execute(&history.MoveClassCommand{Diagram: d, Class: args[1], Position: model.Position{X: x, Y: y}})
	default:
		return fmt.Errorf("unknown class action %q", args[0])
	}
}

func (s *editSession) handleField(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: field add|rm|rename|retype ...")
	}
	d := s.diagram
	switch args[0] {
	case "add":
		if len(args) != 4 {
			return fmt.Errorf("usage: field add <class> <name> <type>")
		}
		return s.execute(&history.AddFieldCommand{Diagram: d, Class: args[1], Field: model.Field{Name: args[2], Type: args[3]}})
	case "rm", "remove", "delete":
		if len(args) != 3 {
			return fmt.Errorf("usage: field rm <class> <name>")
		}
		return s.execute(&history.DeleteFieldCommand{Diagram: d, Class: args[1], Field: args[2]})
	case "rename":
		if len(args) != 4 {
			return fmt.Errorf("usage: field rename <class> <old> <new>")
		}
		return s.execute(&history.RenameFieldCommand{Diagram: d, Class: args[1], OldName: args[2], NewName: args[3]})
	case "retype":
		if len(args) != 4 {
			return fmt.Errorf("usage: field retype <class> <name> <type>")
		}
		return s.execute(&history.EditFieldTypeCommand{Diagram: d, Class: args[1], Field: args[2], NewType: args[3]})
	default:
		return fmt.Errorf("unknown field action %q", args[0])
	}
}

func (s *editSession) handleMethod(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: method add|rm|rename|params ...")
	}
	d := s.diagram
	switch args[0] {
	case "add":
		// method add <class> <name> [return] [param:type ...]
		if len(args) < 3 {
			return fmt.Errorf("usage: method add <class> <name> [return] [param:type ...]")
		}
		m := model.Method{Name: args[2]}
		rest := args[3:]
		if len(rest) > 0 && !strings.Contains(rest[0], ":") {
			m.ReturnType = rest[0]
			rest = rest[1:]
		}
		params, err := parseParams(rest)
		if err != nil {
			return err
		}
		m.Params = params
		return s.execute(&history.AddMethodCommand{Diagram: d, Class: args[1], Method: m})
	case "rm", "remove", "delete":
		if len(args) != 3 {
			return fmt.Errorf("usage: method rm <class> <signature>")
		}
		return s.execute(&history.DeleteMethodCommand{Diagram: d, Class: args[1], Signature: args[2]})
	case "rename":
		if len(args) != 4 {
			return fmt.Errorf("usage: method rename <class> <signature> <new-name>")
		}
		return s.execute(&history.RenameMethodCommand{Diagram: d, Class: args[1], Signature: args[2], NewName: args[3]})
	case "params":
		if len(args) < 3 {
			return fmt.Errorf("usage: method params <class> <signature> [param:type ...]")
		}
		params, err := parseParams(args[3:])
		if err != nil {
			return err
		}
		return s.execute(&history.EditParametersCommand{Diagram: d, Class: args[1], Signature: args[2], Params: params})
	default:
		return fmt.Errorf("unknown method action %q", args[0])
	}
}

func (s *editSession) handleRelationship(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: rel add|rm|kind ...")
	}
	d := s.diagram
	switch args[0] {
	case "add":
		if len(args) != 4 {
			return fmt.Errorf("usage: rel add <source> <destination> <kind>")
		}
		kind, err := model.ParseKind(args[3])
		if err != nil {
			return err
		}
		return s.execute(&history.AddRelationshipCommand{Diagram: d, Source: args[1], Destination: args[2], Kind: kind})
	case "rm", "remove", "delete":
		if len(args) != 3 {
			return fmt.Errorf("usage: rel rm <source> <destination>")
		}
		return s.execute(&history.DeleteRelationshipCommand{Diagram: d, Source: args[1], Destination: args[2]})
	case "kind":
		if len(args) != 4 {
			return fmt.Errorf("usage: rel kind <source> <destination> <new-kind>")
		}
		kind, err := model.ParseKind(args[3])
		if err != nil {
			return err
		}
		return s.execute(&history.EditRelationshipKindCommand{Diagram: d, Source: args[1], Destination: args[2], NewKind: kind})
	default:
		return fmt.Errorf("unknown rel action %q", args[0])
	}
}

// parseParams parses name:type pairs into a parameter list.
func parseParams(args []string) ([]model.Parameter, error) {
	params := make([]model.Parameter, 0, len(args))
	for _, a := range args {
		name, typ, ok := strings.Cut(a, ":")
		if !ok || name == "" || typ == "" {
			return nil, fmt.Errorf("invalid parameter %q (expected name:type)", a)
		}
		params = append(params, model.Parameter{Name: name, Type: typ})
	}
	return params, nil
}

func (s *editSession) save(args []string) error {
	path := s.path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("usage: save <path> (no file associated with this session yet)")
	}
	if !filepath.IsAbs(path) && !strings.ContainsAny(path, "/\\") {
		path = filepath.Join(s.ctx.Cfg.DiagramsDir, path)
		if filepath.Ext(path) == "" {
			path += ".json"
		}
	}

	snap := s.diagram.Snapshot()
	if err := storage.Save(path, snap); err != nil {
		return err
	}
	if err := s.ctx.recordSave(path, snap); err != nil {
		return err
	}
	s.path = path
	s.dirty = false
	fmt.Fprintf(s.out, "Saved %s\n", path)
	return nil
}

func (s *editSession) load(arg string) error {
	path, err := s.ctx.resolveDiagramPath(arg)
	if err != nil {
		return err
	}
	if err := storage.LoadInto(s.diagram, path); err != nil {
		return err
	}
	// Past edits no longer correspond to the loaded model.
	s.history.Clear()
	s.path = path
	s.dirty = false
	if s.ctx.Store != nil {
		_ = s.ctx.Store.TouchOpened(diagramName(path))
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(s.out, "Loaded %s\n", path)
	}
	return nil
}

func (s *editSession) printHelp() {
	help := `
Classes:
  class add <name>                    Add a class
  class rm <name>                     Delete a class (and its relationships)
  class rename <old> <new>            Rename a class
  class move <name> <x> <y>           Move a class on the canvas

Fields:
  field add <class> <name> <type>     Add a field
  field rm <class> <name>             Delete a field
  field rename <class> <old> <new>    Rename a field
  field retype <class> <name> <type>  Change a field's type

Methods (identified by signature, e.g. move(int,int)):
  method add <class> <name> [return] [param:type ...]
  method rm <class> <signature>
  method rename <class> <signature> <new-name>
  method params <class> <signature> [param:type ...]

Relationships:
  rel add <source> <destination> <kind>
  rel rm <source> <destination>
  rel kind <source> <destination> <new-kind>
  Kinds: association, aggregation, composition, inheritance, realization

Session:
  undo / redo     Step through edit history
  show            Render the diagram
  save [path]     Save the diagram
  load <path>     Load a diagram (clears history)
  quit            Exit the session
`
	fmt.Fprintln(s.out, help)
}

// newEditCompleter creates a readline completer for session commands.
func newEditCompleter() *readline.PrefixCompleter {
	kinds := make([]readline.PrefixCompleterInterface, 0, len(model.Kinds()))
	for _, k := range model.Kinds() {
		kinds = append(kinds, readline.PcItem(string(k)))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("class",
			readline.PcItem("add"),
			readline.PcItem("rm"),
			readline.PcItem("rename"),
			readline.PcItem("move"),
		),
		readline.PcItem("field",
			readline.PcItem("add"),
			readline.PcItem("rm"),
			readline.PcItem("rename"),
			readline.PcItem("retype"),
		),
		readline.PcItem("method",
			readline.PcItem("add"),
			readline.PcItem("rm"),
			readline.PcItem("rename"),
			readline.PcItem("params"),
		),
		readline.PcItem("rel",
			readline.PcItem("add", kinds...),
			readline.PcItem("rm"),
			readline.PcItem("kind", kinds...),
		),
		readline.PcItem("undo"),
		readline.PcItem("redo"),
		readline.PcItem("show"),
		readline.PcItem("save"),
		readline.PcItem("load"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
