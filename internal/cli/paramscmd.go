package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/discdraw/pkg/params"
)

// paramsCommand creates the params command.
func (c *CLI) paramsCommand() *cobra.Command {
	var (
		pf     paramFlags
		asJSON bool
		asYAML bool
		fields bool
	)

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the parameter set",
		Long: `Print the parameter set after applying --params and the per-field flags.
The output is a valid --params file in TOML, YAML (--yaml) or JSON (--json).`,
		Example: `  discdraw params > disc.toml
  discdraw params --circle-diameter 120 --yaml > disc.yaml
  discdraw params --fields`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fields {
				printFields()
				return nil
			}
			p, err := pf.load(cmd)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			if asYAML {
				return p.EncodeYAML(out)
			}
			return p.Encode(out)
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	cmd.Flags().BoolVar(&fields, "fields", false, "list the scalar fields and their defaults")
	return cmd
}

func printFields() {
	def := params.Default()
	var rows [][]string
	for _, f := range params.Fields() {
		rows = append(rows, []string{f.Key, "--" + f.FlagName(), f.Kind.String(), fmtValue(f.Get(&def)), f.Usage})
	}
	printTable("Parameters", []string{"Key", "Flag", "Type", "Default", "Description"}, rows)
}

func fmtValue(v any) string {
	switch x := v.(type) {
	case float64:
		return num(x)
	case string:
		if x == "" {
			return `""`
		}
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
