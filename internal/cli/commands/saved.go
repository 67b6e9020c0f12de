package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapuml/internal/cli/output"
)

// NewSavedCommand creates the saved command group for managing the
// workspace registry.
func NewSavedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved diagram entries",
		Long: `Manage the workspace registry of saved diagrams: inspect, rename, or
remove entries. Removing an entry never deletes the diagram file unless
--purge is given.`,
	}

	cmd.AddCommand(newSavedInfoCommand())
	cmd.AddCommand(newSavedRenameCommand())
	cmd.AddCommand(newSavedRemoveCommand())

	return cmd
}

func newSavedInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show registry details for a saved diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			entry, err := cmdCtx.Store.Get(args[0])
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("diagram not registered: %s", args[0])
			}

			r := cmdCtx.Renderer
			r.Header(1, entry.Name)
			r.Println(output.FormatKeyValue("File", entry.Path))
			r.Println(output.FormatKeyValue("Format", entry.Format))
			r.Println(output.FormatKeyValue("Classes", fmt.Sprintf("%d", entry.ClassCount)))
			r.Println(output.FormatKeyValue("Relationships", fmt.Sprintf("%d", entry.RelationshipCount)))
			r.Println(output.FormatKeyValue("Created", entry.CreatedAt.Format(time.RFC3339)))
			r.Println(output.FormatKeyValue("Updated", entry.UpdatedAt.Format(time.RFC3339)))
			if entry.LastOpenedAt != nil {
				r.Println(output.FormatKeyValue("Last Opened", entry.LastOpenedAt.Format(time.RFC3339)))
			}
			r.Println(output.FormatKeyValue("Open Count", fmt.Sprintf("%d", entry.OpenCount)))
			return nil
		},
	}
}

func newSavedRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a saved diagram and move its file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			oldName, newName := args[0], args[1]
			entry, err := cmdCtx.Store.Get(oldName)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("diagram not registered: %s", oldName)
			}
			if existing, err := cmdCtx.Store.Get(newName); err != nil {
				return err
			} else if existing != nil {
				return fmt.Errorf("diagram already registered: %s", newName)
			}

			newPath := filepath.Join(filepath.Dir(entry.Path), newName+filepath.Ext(entry.Path))
			if err := os.Rename(entry.Path, newPath); err != nil {
				return fmt.Errorf("failed to move diagram file: %w", err)
			}
			if err := cmdCtx.Store.Rename(oldName, newName, newPath); err != nil {
				return err
			}

			cmdCtx.Renderer.Success(fmt.Sprintf("Renamed %s to %s", oldName, newName))
			return nil
		},
	}
}

func newSavedRemoveCommand() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a saved diagram entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			name := args[0]
			entry, err := cmdCtx.Store.Get(name)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("diagram not registered: %s", name)
			}

			if err := cmdCtx.Store.Delete(name); err != nil {
				return err
			}
			if purge {
				if err := os.Remove(entry.Path); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("entry removed but failed to delete file: %w", err)
				}
				cmdCtx.Renderer.Success(fmt.Sprintf("Removed %s and deleted %s", name, entry.Path))
				return nil
			}

			cmdCtx.Renderer.Success(fmt.Sprintf("Removed %s (file kept at %s)", name, entry.Path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete the diagram file")
	return cmd
}
