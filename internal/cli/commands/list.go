package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapuml/internal/cli/output"
	"github.com/leapstack-labs/leapuml/internal/workspace"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved diagrams",
		Long: `List all diagrams registered in the workspace with their file locations
and summary counts.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all diagrams (auto-detect output format)
  leapuml list

  # List diagrams as JSON
  leapuml list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := cmdCtx.Store.List()
	if err != nil {
		return fmt.Errorf("failed to list diagrams: %w", err)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(entries, r)
	case output.ModeMarkdown:
		return listMarkdown(entries, r)
	default:
		return listText(entries, r)
	}
}

func listText(entries []*workspace.Entry, r *output.Renderer) error {
	r.Header(1, fmt.Sprintf("Diagrams (%d total)", len(entries)))

	if len(entries) == 0 {
		r.Println("No diagrams saved yet. Run 'leapuml edit <name>' to create one.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name,
			strconv.Itoa(e.ClassCount),
			strconv.Itoa(e.RelationshipCount),
			e.Format,
			e.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	r.Table([]string{"Name", "Classes", "Relationships", "Format", "Updated"}, rows)
	return nil
}

func listMarkdown(entries []*workspace.Entry, r *output.Renderer) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Diagrams (%d total)", len(entries))))
	r.Println("")

	for _, e := range entries {
		r.Println(output.FormatHeader(2, e.Name))
		r.Println(output.FormatKeyValue("File", e.Path))
		r.Println(output.FormatKeyValue("Format", e.Format))
		r.Println(output.FormatKeyValue("Classes", strconv.Itoa(e.ClassCount)))
		r.Println(output.FormatKeyValue("Relationships", strconv.Itoa(e.RelationshipCount)))
		r.Println(output.FormatKeyValue("Updated", e.UpdatedAt.Format(time.RFC3339)))
		if e.LastOpenedAt != nil {
			r.Println(output.FormatKeyValue("Last Opened", e.LastOpenedAt.Format(time.RFC3339)))
		}
		r.Println("")
	}
	return nil
}

func listJSON(entries []*workspace.Entry, r *output.Renderer) error {
	listOutput := output.ListOutput{
		Diagrams: make([]output.DiagramInfo, 0, len(entries)),
	}

	for _, e := range entries {
		info := output.DiagramInfo{
			Name:          e.Name,
			Path:          e.Path,
			Format:        e.Format,
			Classes:       e.ClassCount,
			Relationships: e.RelationshipCount,
			UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
			OpenCount:     e.OpenCount,
		}
		if e.LastOpenedAt != nil {
			info.LastOpenedAt = e.LastOpenedAt.Format(time.RFC3339)
		}
		listOutput.Diagrams = append(listOutput.Diagrams, info)
		listOutput.Summary.TotalClasses += e.ClassCount
		listOutput.Summary.TotalRelationships += e.RelationshipCount
	}
	listOutput.Summary.TotalDiagrams = len(entries)

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(listOutput)
}
