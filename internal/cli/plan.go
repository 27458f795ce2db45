package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/host"
	"github.com/matzehuels/discdraw/pkg/layout"
	"github.com/matzehuels/discdraw/pkg/mtext"
	"github.com/matzehuels/discdraw/pkg/params"
)

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		pf       paramFlags
		template string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the computed layout without saving a drawing",
		Long: `Lay out the drawing on an in-memory document and print every layer,
primitive, dimension and text block with its coordinates. Nothing is saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pf.load(cmd)
			if err != nil {
				return err
			}
			res, snap, err := layoutOnly(cmd.Context(), p, template)
			if err != nil {
				return err
			}
			printPlan(res, snap)
			return nil
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().StringVarP(&template, "template", "t", "", "document template (TOML)")
	return cmd
}

// layoutOnly runs the layout on a fresh document and discards the document.
func layoutOnly(ctx context.Context, p params.Set, template string) (*layout.Result, *document.Snapshot, error) {
	logger := loggerFromContext(ctx)
	h := host.NewLocal(host.WithLogger(logger))
	doc, _, err := h.Open(ctx, template)
	if err != nil {
		return nil, nil, err
	}
	defer doc.Close()

	res, err := layout.Run(layout.NewSession(doc, logger), p)
	if err != nil {
		return nil, nil, err
	}
	return res, doc.Snapshot(), nil
}

func printPlan(res *layout.Result, snap *document.Snapshot) {
	printKeyValue("Document", snap.Name)
	printKeyValue("Diameter", num(res.Params.CircleDiameter))
	printKeyValue("Thickness", num(res.Params.LabelThickness))
	printNewline()

	var rows [][]string
	for _, l := range res.Layers {
		rows = append(rows, []string{l.Name, l.Color.String(), l.Pattern})
	}
	printTable("Layers", []string{"Name", "Color", "Pattern"}, rows)

	rows = nil
	for _, prim := range res.Primitives.All() {
		geo := ""
		switch prim.Kind {
		case layout.KindCircle:
			geo = fmt.Sprintf("center %s  r %s", pt(prim.Circle.Center), num(prim.Circle.Radius))
		case layout.KindLine:
			geo = pt(prim.Segment.A) + " → " + pt(prim.Segment.B)
		}
		rows = append(rows, []string{prim.Name, prim.Kind.String(), prim.Layer, geo})
	}
	printTable("Primitives", []string{"Name", "Kind", "Layer", "Geometry"}, rows)

	labels := dimensionLabels(snap)
	rows = nil
	for i, d := range []struct {
		spec layout.DimensionSpec
		text string
	}{
		{res.Diameter, pt(res.DiameterText)},
		{res.Thickness, pt(res.ThicknessText)},
	} {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		rows = append(rows, []string{d.spec.Name, pt(d.spec.P1) + " → " + pt(d.spec.P2), pt(d.spec.Leader), d.text, label})
	}
	printTable("Dimensions", []string{"Name", "Measured", "Leader", "Text at", "Label"}, rows)

	rows = nil
	for _, t := range []layout.TextSpec{res.DiameterTolerance, res.ThicknessTolerance, res.Note} {
		rows = append(rows, []string{
			t.Name,
			t.Layer,
			pt(t.Anchor),
			fmt.Sprintf("%d", int(t.Attachment)),
			num(t.Height),
			strings.Join(mtext.Plain(t.Content), " / "),
		})
	}
	printTable("Text", []string{"Name", "Layer", "Anchor", "Attach", "Height", "Content"}, rows)

	for _, w := range res.Warnings {
		printWarning("%s", w.String())
	}
}

// dimensionLabels returns the rendered text of each dimension in creation
// order.
func dimensionLabels(snap *document.Snapshot) []string {
	var out []string
	for _, e := range snap.Entities {
		if e.Kind == document.KindDimension {
			out = append(out, e.DimensionText())
		}
	}
	return out
}
