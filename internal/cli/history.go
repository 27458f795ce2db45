package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/discdraw/pkg/register"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List previously drawn discs",
		Long: `List the drawings recorded by "discdraw draw", newest first.
With an ID, print that single entry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, err := registerPath()
			if err != nil {
				return err
			}
			reg, err := register.Open(ctx, path)
			if err != nil {
				return err
			}
			defer reg.Close()

			var entries []register.Entry
			if len(args) == 1 {
				e, err := reg.Get(ctx, args[0])
				if errors.Is(err, register.ErrNotFound) {
					printError("No drawing with ID %s", args[0])
					return err
				}
				if err != nil {
					return err
				}
				entries = []register.Entry{e}
			} else if entries, err = reg.List(ctx, limit); err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				printInfo("No drawings recorded yet")
				printNextStep("Draw one", "discdraw draw")
				return nil
			}
			printTable("History", []string{"ID", "When", "Diameter", "Entities", "Warnings", "Took", "Outputs"}, historyRows(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func historyRows(entries []register.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			formatRelativeTime(e.CreatedAt),
			num(e.Diameter),
			fmt.Sprint(e.Entities),
			fmt.Sprint(e.Warnings),
			e.Duration.Round(time.Millisecond).String(),
			strings.Join(e.Outputs, "\n"),
		})
	}
	return rows
}
