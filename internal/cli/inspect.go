package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/sink"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		pf       paramFlags
		template string
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [drawing.json]",
		Short: "Browse the entities of a drawing",
		Long: `Browse the entities of a drawing and their properties.

Without an argument the drawing is laid out from the parameter flags. With an
argument, a JSON export written by "discdraw draw -f json" is loaded instead.
The browser is interactive on a terminal; --list prints a table.`,
		Example: `  discdraw inspect --circle-diameter 120
  discdraw inspect disc_76.json --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				snap *document.Snapshot
				err  error
			)
			if len(args) == 1 {
				snap, err = readSnapshot(args[0])
			} else {
				p, perr := pf.load(cmd)
				if perr != nil {
					return perr
				}
				_, snap, err = layoutOnly(cmd.Context(), p, template)
			}
			if err != nil {
				return err
			}

			if list || !isTerminal(os.Stdout) {
				printEntities(snap)
				return nil
			}
			_, err = tea.NewProgram(NewEntityListModel(snap)).Run()
			return err
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().StringVarP(&template, "template", "t", "", "document template (TOML)")
	cmd.Flags().BoolVar(&list, "list", false, "print a table instead of the interactive browser")
	return cmd
}

func readSnapshot(path string) (*document.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	snap, err := sink.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func printEntities(snap *document.Snapshot) {
	rows := make([][]string, 0, len(snap.Entities))
	for _, e := range snap.Entities {
		rows = append(rows, []string{e.ID, e.Kind, e.Layer, entitySummary(e)})
	}
	printTable(snap.Name, []string{"Handle", "Kind", "Layer", "Geometry"}, rows)
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
