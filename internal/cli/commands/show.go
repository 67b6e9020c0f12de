package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapuml/internal/cli/output"
	"github.com/leapstack-labs/leapuml/internal/model"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <diagram>",
		Short: "Show the contents of a diagram",
		Long: `Show every class, member, and relationship in a diagram.

The diagram argument is a saved name or a path to a diagram file.`,
		Example: `  # Show a saved diagram
  leapuml show shapes

  # Show a diagram file directly
  leapuml show diagrams/shapes.json

  # Machine-readable output
  leapuml show shapes --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
	return cmd
}

func runShow(cmd *cobra.Command, name string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	d, path, err := cmdCtx.loadDiagram(name)
	if err != nil {
		return err
	}

	snap := d.Snapshot()
	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return showJSON(diagramName(path), path, snap, r)
	case output.ModeMarkdown:
		return showMarkdown(diagramName(path), snap, r)
	default:
		return showText(diagramName(path), snap, r)
	}
}

func fieldLine(f model.Field) string {
	return fmt.Sprintf("%s: %s", f.Name, f.Type)
}

func methodLine(m model.Method) string {
	line := m.Signature()
	if m.ReturnType != "" {
		line += " -> " + m.ReturnType
	}
	return line
}

func showText(name string, snap model.Snapshot, r *output.Renderer) error {
	r.Header(1, fmt.Sprintf("%s (%d classes, %d relationships)", name, len(snap.Classes), len(snap.Relationships)))

	for _, cls := range snap.Classes {
		r.Println("")
		r.Header(2, cls.Name)
		for _, f := range cls.Fields {
			r.StatusLine(fieldLine(f), "", "field")
		}
		for _, m := range cls.Methods {
			r.StatusLine(methodLine(m), "", "method")
		}
		if len(cls.Fields) == 0 && len(cls.Methods) == 0 {
			r.Println("  (empty)")
		}
	}

	if len(snap.Relationships) > 0 {
		r.Println("")
		r.Header(2, "Relationships")
		rows := make([][]string, 0, len(snap.Relationships))
		for _, rel := range snap.Relationships {
			rows = append(rows, []string{rel.Source, string(rel.Kind), rel.Destination})
		}
		r.Table([]string{"Source", "Kind", "Destination"}, rows)
	}
	return nil
}

func showMarkdown(name string, snap model.Snapshot, r *output.Renderer) error {
	r.Println(output.FormatHeader(1, name))
	r.Println(output.FormatKeyValue("Classes", strconv.Itoa(len(snap.Classes))))
	r.Println(output.FormatKeyValue("Relationships", strconv.Itoa(len(snap.Relationships))))
	r.Println("")

	for _, cls := range snap.Classes {
		r.Println(output.FormatHeader(2, cls.Name))
		for _, f := range cls.Fields {
			r.Println(output.FormatKeyValue("field", fieldLine(f)))
		}
		for _, m := range cls.Methods {
			r.Println(output.FormatKeyValue("method", methodLine(m)))
		}
		r.Println("")
	}

	if len(snap.Relationships) > 0 {
		r.Println(output.FormatHeader(2, "Relationships"))
		for _, rel := range snap.Relationships {
			r.Println(fmt.Sprintf("- %s %s %s", rel.Source, rel.Kind, rel.Destination))
		}
	}
	return nil
}

func showJSON(name, path string, snap model.Snapshot, r *output.Renderer) error {
	out := output.ShowOutput{
		Name:          name,
		Path:          path,
		Classes:       make([]output.ShowClass, 0, len(snap.Classes)),
		Relationships: make([]output.ShowRelationship, 0, len(snap.Relationships)),
	}

	for _, cls := range snap.Classes {
		sc := output.ShowClass{Name: cls.Name, Fields: []string{}, Methods: []string{}}
		for _, f := range cls.Fields {
			sc.Fields = append(sc.Fields, fieldLine(f))
		}
		for _, m := range cls.Methods {
			sc.Methods = append(sc.Methods, methodLine(m))
		}
		out.Classes = append(out.Classes, sc)
	}
	for _, rel := range snap.Relationships {
		out.Relationships = append(out.Relationships, output.ShowRelationship{
			Source:      rel.Source,
			Destination: rel.Destination,
			Kind:        string(rel.Kind),
		})
	}

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
