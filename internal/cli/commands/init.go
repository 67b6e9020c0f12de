package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapuml/internal/cli/output"
	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/storage"
)

const defaultConfigYAML = `# LeapUML project configuration
diagrams_dir: diagrams
workspace_path: .leapuml/workspace.db
output: auto

ui:
  port: 8765
  auto_open: true
  watch: true
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new LeapUML project",
		Long: `Initialize a new LeapUML project with default directory structure and configuration.

This creates:
  - diagrams/ directory for diagram files
  - leapuml.yaml configuration file

Use --example to also create a sample diagram demonstrating classes,
fields, methods, and every relationship kind.`,
		Example: `  # Initialize in current directory
  leapuml init

  # Initialize with a sample diagram
  leapuml init --example

  # Initialize in a new directory
  leapuml init my-project

  # Force overwrite existing config
  leapuml init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create a sample diagram")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, example bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "leapuml.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("leapuml.yaml already exists. Use --force to overwrite")
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	r.StatusLine("leapuml.yaml", "success", "")

	diagramsDir := filepath.Join(dir, "diagrams")
	if err := os.MkdirAll(diagramsDir, 0o750); err != nil {
		return fmt.Errorf("failed to create diagrams directory: %w", err)
	}
	r.StatusLine("diagrams/", "success", "")

	if example {
		samplePath := filepath.Join(diagramsDir, "example.json")
		if err := storage.Save(samplePath, exampleSnapshot()); err != nil {
			return fmt.Errorf("failed to write example diagram: %w", err)
		}
		r.StatusLine("diagrams/example.json", "success", "")
	}

	r.Println("")
	r.Success("LeapUML project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'leapuml edit <name>' to create or edit a diagram")
	r.Println("  2. Run 'leapuml list' to see saved diagrams")
	r.Println("  3. Run 'leapuml serve' to open the browser UI")

	return nil
}

// exampleSnapshot builds the sample diagram shipped by init --example.
func exampleSnapshot() model.Snapshot {
	d := model.New(nil)

	mustAdd := func(name string) {
		if _, err := d.AddClass(name); err != nil {
			panic(err)
		}
	}
	mustAdd("Shape")
	mustAdd("Circle")
	mustAdd("Drawable")
	mustAdd("Canvas")
	mustAdd("Point")

	_ = d.AddField("Shape", model.Field{Name: "name", Type: "string"})
	_ = d.AddField("Circle", model.Field{Name: "radius", Type: "float"})
	_ = d.AddField("Point", model.Field{Name: "x", Type: "float"})
	_ = d.AddField("Point", model.Field{Name: "y", Type: "float"})
	_ = d.AddMethod("Shape", model.Method{
		Name:       "move",
		ReturnType: "void",
		Params:     []model.Parameter{{Name: "dx", Type: "float"}, {Name: "dy", Type: "float"}},
	})
	_ = d.AddMethod("Circle", model.Method{Name: "area", ReturnType: "float"})

	_ = d.AddRelationship("Circle", "Shape", model.KindInheritance)
	_ = d.AddRelationship("Shape", "Drawable", model.KindRealization)
	_ = d.AddRelationship("Canvas", "Shape", model.KindAggregation)
	_ = d.AddRelationship("Shape", "Point", model.KindComposition)
	_ = d.AddRelationship("Canvas", "Point", model.KindAssociation)

	_ = d.SetPosition("Shape", model.Position{X: 200, Y: 40})
	_ = d.SetPosition("Circle", model.Position{X: 80, Y: 220})
	_ = d.SetPosition("Drawable", model.Position{X: 360, Y: 220})
	_ = d.SetPosition("Canvas", model.Position{X: 520, Y: 40})
	_ = d.SetPosition("Point", model.Position{X: 320, Y: 400})

	return d.Snapshot()
}
