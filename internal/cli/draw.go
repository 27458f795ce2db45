package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/pipeline"
)

// drawOpts holds the command-line flags for the draw command.
type drawOpts struct {
	params    paramFlags
	output    string // output file, or base name when several formats are requested
	formats   string // comma-separated formats
	template  string // document template (TOML)
	strict    bool   // reject degenerate parameters
	noCache   bool
	refresh   bool
	cacheURL  string
	noHistory bool
}

// drawCommand creates the draw command.
func (c *CLI) drawCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Lay out the disc drawing and save it",
		Long: `Lay out the disc drawing and save it.

The output format follows the file extension (.dxf, .svg, .pdf, .png, .json).
Without --output the file is named disc_<diameter>.dxf. With --format and
several formats, one file per format is written next to each other.`,
		Example: `  discdraw draw
  discdraw draw --circle-diameter 80 -o part.pdf
  discdraw draw -p disc.toml -f dxf,svg,pdf --template iso.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraw(cmd, &opts)
		},
	}

	addParamFlags(cmd, &opts.params)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default disc_<diameter>.dxf)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): dxf, svg, pdf, png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "document template (TOML); falls back to a blank document")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject non-positive sizes instead of drawing them")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().StringVar(&opts.cacheURL, "cache-url", "", "shared redis cache (redis://host:6379/0)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record the drawing in the history")

	return cmd
}

func (c *CLI) runDraw(cmd *cobra.Command, opts *drawOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, err := opts.params.load(cmd)
	if err != nil {
		return err
	}
	paths := outputPaths(p, opts.output, parseFormats(opts.formats))

	runner, err := c.newRunner(ctx, runnerOpts{
		noCache:  opts.noCache,
		cacheURL: opts.cacheURL,
		history:  !opts.noHistory,
	})
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Draw(ctx, pipeline.Options{
		Params:   p,
		Template: opts.template,
		Strict:   opts.strict,
		Refresh:  opts.refresh,
		Logger:   logger,
	}, paths...)
	if err != nil {
		return err
	}
	prog.done("drawing complete")

	printSuccess("Disc ⌀%s drawn", num(p.CircleDiameter))
	printStats(res.Stats.Entities, len(res.Warnings()), res.CacheInfo.Hit)
	for _, w := range res.Warnings() {
		printWarning("%s", w.String())
	}
	if opts.template != "" && !res.CacheInfo.Hit && !res.TemplateApplied {
		printWarning("template %s not used; drew on a blank document", opts.template)
	}
	for _, path := range res.Outputs {
		printFile(path)
	}
	if len(paths) == 1 && strings.EqualFold(filepath.Ext(paths[0]), ".dxf") {
		printNextStep("Preview", "discdraw draw -o "+strings.TrimSuffix(paths[0], filepath.Ext(paths[0]))+".svg")
	}
	return nil
}

// outputPaths resolves --output and --format into file paths.
//
//	-o part.pdf            → part.pdf
//	-f dxf,svg             → disc_76.dxf, disc_76.svg
//	-o out/part -f dxf,pdf → out/part.dxf, out/part.pdf
//	(nothing)              → disc_76.dxf
func outputPaths(p params.Set, output string, formats []string) []string {
	if len(formats) == 0 {
		if output != "" {
			return []string{output}
		}
		return []string{pipeline.DefaultOutput(p, pipeline.DefaultFormat)}
	}

	base := strings.TrimSuffix(output, filepath.Ext(output))
	if output != "" && filepath.Ext(output) != "" {
		if _, err := pipeline.FormatOf(output); err != nil {
			base = output
		}
	}
	if base == "" {
		def := pipeline.DefaultOutput(p, formats[0])
		base = strings.TrimSuffix(def, filepath.Ext(def))
	}

	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = base + "." + f
	}
	return paths
}
