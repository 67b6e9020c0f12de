package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapuml/internal/cli/output"
	"github.com/leapstack-labs/leapuml/internal/model"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <diagram>",
		Short: "Render a diagram as ASCII class boxes",
		Long: `Render every class as a UML-style box with its fields and methods,
followed by the relationship list.`,
		Example: `  # Render a saved diagram
  leapuml render shapes

  # Render for a document (fenced code block)
  leapuml render shapes --output markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0])
		},
	}
	return cmd
}

func runRender(cmd *cobra.Command, name string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	d, path, err := cmdCtx.loadDiagram(name)
	if err != nil {
		return err
	}

	rendered := asciiDiagram(d.Snapshot())
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"name":     diagramName(path),
			"rendered": rendered,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, diagramName(path)))
		r.Println("")
		r.Println(output.FormatCodeBlock("", rendered))
		return nil
	default:
		r.Println(rendered)
		return nil
	}
}

// asciiDiagram draws each class as a box with name, field, and method
// compartments, then lists relationships.
func asciiDiagram(snap model.Snapshot) string {
	var b strings.Builder

	for i, cls := range snap.Classes {
		if i > 0 {
			b.WriteString("\n")
		}
		writeClassBox(&b, cls)
	}

	if len(snap.Relationships) > 0 {
		b.WriteString("\n")
		for _, rel := range snap.Relationships {
			fmt.Fprintf(&b, "%s %s %s (%s)\n", rel.Source, relationshipGlyph(rel.Kind), rel.Destination, rel.Kind)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func relationshipGlyph(kind model.Kind) string {
	switch kind {
	case model.KindInheritance:
		return "--|>"
	case model.KindRealization:
		return "..|>"
	case model.KindAggregation:
		return "o--"
	case model.KindComposition:
		return "*--"
	default:
		return "-->"
	}
}

func writeClassBox(b *strings.Builder, cls *model.ClassNode) {
	fields := make([]string, 0, len(cls.Fields))
	for _, f := range cls.Fields {
		fields = append(fields, fieldLine(f))
	}
	methods := make([]string, 0, len(cls.Methods))
	for _, m := range cls.Methods {
		methods = append(methods, methodLine(m))
	}

	width := len(cls.Name)
	for _, s := range fields {
		if len(s) > width {
			width = len(s)
		}
	}
	for _, s := range methods {
		if len(s) > width {
			width = len(s)
		}
	}

	bar := strings.Repeat("─", width+2)
	fmt.Fprintf(b, "┌%s┐\n", bar)
	fmt.Fprintf(b, "│ %s │\n", center(cls.Name, width))

	if len(fields) > 0 || len(methods) > 0 {
		fmt.Fprintf(b, "├%s┤\n", bar)
		for _, s := range fields {
			fmt.Fprintf(b, "│ %-*s │\n", width, s)
		}
	}
	if len(methods) > 0 {
		if len(fields) > 0 {
			fmt.Fprintf(b, "├%s┤\n", bar)
		}
		for _, s := range methods {
			fmt.Fprintf(b, "│ %-*s │\n", width, s)
		}
	}
	fmt.Fprintf(b, "└%s┘\n", bar)
}

func center(s string, width int) string {
	pad := width - len(s)
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
