package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// paramFlags loads a Parameter Set from --params and per-field flags.
// Flags given on the command line win over the file.
type paramFlags struct {
	file string
}

func addParamFlags(cmd *cobra.Command, pf *paramFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&pf.file, "params", "p", "", "parameter file, TOML, YAML or JSON by extension (defaults: the 76 mm disc)")

	def := params.Default()
	for _, f := range params.Fields() {
		switch v := f.Get(&def).(type) {
		case float64:
			fs.Float64(f.FlagName(), v, f.Usage)
		case bool:
			fs.Bool(f.FlagName(), v, f.Usage)
		case string:
			fs.String(f.FlagName(), v, f.Usage)
		case surface.Color:
			fs.Int(f.FlagName(), int(v), f.Usage)
		}
	}
}

func (pf *paramFlags) load(cmd *cobra.Command) (params.Set, error) {
	s, err := params.LoadFile(pf.file)
	if err != nil {
		return params.Set{}, err
	}
	for _, f := range params.Fields() {
		fl := cmd.Flags().Lookup(f.FlagName())
		if fl == nil || !fl.Changed {
			continue
		}
		if err := s.SetField(f.Key, fl.Value.String()); err != nil {
			return params.Set{}, err
		}
	}
	return s, nil
}
