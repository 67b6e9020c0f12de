package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapuml/internal/export"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var format string
	var outFile string

	cmd := &cobra.Command{
		Use:   "export <diagram>",
		Short: "Export a diagram to another format",
		Long: `Export a diagram to Mermaid, PlantUML, JSON, or YAML.

The result is written to stdout unless --file is given.`,
		Example: `  # Export to Mermaid
  leapuml export shapes --format mermaid

  # Export to PlantUML, into a file
  leapuml export shapes --format plantuml --file shapes.puml

  # Convert a JSON diagram to YAML
  leapuml export shapes --format yaml --file shapes.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], format, outFile)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "Export format (mermaid|plantuml|json|yaml)")
	cmd.Flags().StringVar(&outFile, "file", "", "Write to file instead of stdout")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(export.Formats()))
		for _, f := range export.Formats() {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runExport(cmd *cobra.Command, name, format, outFile string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	d, _, err := cmdCtx.loadDiagram(name)
	if err != nil {
		return err
	}

	data, err := export.Render(d.Snapshot(), f)
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outFile, err)
		}
		cmdCtx.Renderer.Success(fmt.Sprintf("Exported %s to %s", name, outFile))
		return nil
	}

	_, err = cmdCtx.Renderer.Writer().Write(data)
	return err
}
