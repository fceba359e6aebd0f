package cli

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recyclist/pkg/cache"
	"github.com/matzehuels/recyclist/pkg/layout"
)

// dumpCommand creates the layout dump command.
func (c *CLI) dumpCommand() *cobra.Command {
	var items int
	var columns int
	var crossSpan float64
	var seed int64
	var output string
	var saveSnapshot bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Compute a layout and write it as an SVG",
		Long: `Dump computes the layout for a generated dataset and writes every item
rectangle into a standalone SVG, which makes lane packing and staggered
placement easy to inspect visually.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			rng := rand.New(rand.NewSource(seed))
			heights := make([]float64, items)
			for i := range heights {
				heights[i] = 40 + float64(rng.Intn(5))*20
			}

			oracle := layout.FuncOracle{
				TypeFn: func(index int) (layout.Type, error) { return "card", nil },
				SizeFn: func(t layout.Type, index int) (layout.Size, error) {
					return layout.Size{Width: crossSpan / float64(columns), Height: heights[index]}, nil
				},
			}

			le, err := layout.New(oracle, layout.Config{
				Axis:    layout.AxisVertical,
				Columns: columns,
			})
			if err != nil {
				return err
			}
			le.SetCrossSpan(crossSpan)
			if err := le.ComputeFrom(0, items); err != nil {
				return err
			}

			svg := renderLayoutSVG(le)
			if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
				return err
			}

			content := le.ContentSize()
			printSuccess("Laid out %d items in %d columns", items, columns)
			printDetail("Content extent: %.0f x %.0f", content.Width, content.Height)
			printFile(output)

			if saveSnapshot {
				backend, err := c.newCache(cmd.Context())
				if err != nil {
					return fmt.Errorf("open snapshot cache: %w", err)
				}
				defer backend.Close()

				store := cache.NewSnapshotStore(backend, nil, 0)
				token := cache.NewToken()
				if err := store.Save(cmd.Context(), token, le.Export()); err != nil {
					return fmt.Errorf("save snapshot: %w", err)
				}
				printKeyValue("Snapshot token", token)
			}

			prog.done(fmt.Sprintf("Dumped %d rectangles", items))
			return nil
		},
	}

	cmd.Flags().IntVar(&items, "items", 200, "number of items to lay out")
	cmd.Flags().IntVar(&columns, "columns", 3, "number of cross-axis lanes")
	cmd.Flags().Float64Var(&crossSpan, "width", 900, "cross-axis span in layout units")
	cmd.Flags().Int64Var(&seed, "seed", 7, "seed for generated item heights")
	cmd.Flags().StringVarP(&output, "output", "o", "layout.svg", "output SVG path")
	cmd.Flags().BoolVar(&saveSnapshot, "snapshot", false, "persist the computed layout to the snapshot cache")
	return cmd
}

// renderLayoutSVG serializes every rectangle of a computed layout.
func renderLayoutSVG(le *layout.Engine) string {
	content := le.ContentSize()
	rects := le.Rects()

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		content.Width, content.Height, content.Width, content.Height)
	b.WriteString(`  <rect width="100%" height="100%" fill="#1a1b26"/>` + "\n")

	palette := []string{"#7aa2f7", "#9ece6a", "#e0af68", "#bb9af7", "#7dcfff"}
	for i, r := range rects {
		fill := palette[i%len(palette)]
		fmt.Fprintf(&b,
			`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.35" stroke="%s" stroke-width="1"/>`+"\n",
			r.X, r.Y, r.Width, r.Height, fill, fill)
		fmt.Fprintf(&b,
			`  <text x="%.1f" y="%.1f" font-family="monospace" font-size="11" fill="#c0caf5">%d</text>`+"\n",
			r.X+4, r.Y+14, i)
	}
	b.WriteString("</svg>\n")
	return b.String()
}
