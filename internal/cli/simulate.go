package cli

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/recyclist/pkg/engine"
	"github.com/matzehuels/recyclist/pkg/layout"
	"github.com/matzehuels/recyclist/pkg/recycle"
)

// simScenario is a named scroll pattern. next returns the offset for event i
// given the scrollable range.
type simScenario struct {
	name string
	next func(i int, max float64) float64
}

// simResult aggregates one scenario run.
type simResult struct {
	scenario  string
	events    int
	maxWindow int
	minted    int
	mintedOff int
}

// simulateCommand creates the scripted scroll simulator.
func (c *CLI) simulateCommand() *cobra.Command {
	var items int
	var events int
	var viewport float64
	var seed int64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run scripted scroll scenarios and report slot usage",
		Long: `Simulate drives the engine through scripted scroll patterns and reports
how many rendering slots each pattern minted, with and without recycling.
Scenarios run concurrently; each one owns its own engine instance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.Logger
			prog := newProgress(logger)

			scenarios := []simScenario{
				{name: "sweep", next: func(i int, max float64) float64 {
					return max * float64(i) / float64(events)
				}},
				{name: "bounce", next: func(i int, max float64) float64 {
					half := events / 2
					if i <= half {
						return max * float64(i) / float64(half)
					}
					return max * float64(events-i) / float64(half)
				}},
			}
			rng := rand.New(rand.NewSource(seed))
			jumps := make([]float64, events+1)
			for i := range jumps {
				jumps[i] = rng.Float64()
			}
			scenarios = append(scenarios, simScenario{
				name: "random",
				next: func(i int, max float64) float64 { return jumps[i] * max },
			})

			results := make([]simResult, len(scenarios))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, sc := range scenarios {
				i, sc := i, sc
				g.Go(func() error {
					res, err := c.runScenario(ctx, sc, items, events, viewport)
					if err != nil {
						return fmt.Errorf("scenario %s: %w", sc.name, err)
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			printSimResults(results)
			prog.done(fmt.Sprintf("Simulated %d scenarios x %d scroll events", len(scenarios), events))
			return nil
		},
	}

	cmd.Flags().IntVar(&items, "items", 10000, "number of rows in the dataset")
	cmd.Flags().IntVar(&events, "events", 2000, "scroll events per scenario")
	cmd.Flags().Float64Var(&viewport, "viewport", 800, "viewport extent in layout units")
	cmd.Flags().Int64Var(&seed, "seed", 42, "seed for the random scenario")
	return cmd
}

// runScenario executes one scroll pattern twice, with recycling on and off,
// and aggregates the slot counts.
func (c *CLI) runScenario(ctx context.Context, sc simScenario, items, events int, viewport float64) (simResult, error) {
	run := func(recycling bool) (minted, maxWindow int, err error) {
		oracle := layout.FuncOracle{
			TypeFn: func(index int) (layout.Type, error) {
				if index%10 == 0 {
					return "header", nil
				}
				return "row", nil
			},
			SizeFn: func(t layout.Type, index int) (layout.Size, error) {
				h := 40.0
				if t == "header" {
					h = 64.0
				}
				return layout.Size{Width: viewport, Height: h}, nil
			},
		}
		data := make([]int, items)
		src := engine.NewSliceSource(data, func(a, b int) bool { return a == b })

		cfg, err := c.Config.EngineConfig()
		if err != nil {
			return 0, 0, err
		}
		cfg.Recycling = recycling

		coord, err := engine.New(src, oracle, cfg,
			engine.WithRenderSink(engine.RenderSinkFunc(func(stack recycle.Stack) {
				if len(stack) > maxWindow {
					maxWindow = len(stack)
				}
			})),
			engine.WithLogger(c.Logger),
		)
		if err != nil {
			return 0, 0, err
		}
		if err := coord.SetDimensions(layout.Size{Width: viewport, Height: viewport}); err != nil {
			return 0, 0, err
		}
		if err := coord.Init(); err != nil {
			return 0, 0, err
		}

		max := coord.ContentSize().Height - viewport
		for i := 1; i <= events; i++ {
			if err := ctx.Err(); err != nil {
				return 0, 0, err
			}
			if err := coord.OnScroll(sc.next(i, max)); err != nil {
				return 0, 0, err
			}
		}
		return coord.SlotsMinted(), maxWindow, nil
	}

	minted, maxWindow, err := run(true)
	if err != nil {
		return simResult{}, err
	}
	mintedOff, _, err := run(false)
	if err != nil {
		return simResult{}, err
	}

	return simResult{
		scenario:  sc.name,
		events:    events,
		maxWindow: maxWindow,
		minted:    minted,
		mintedOff: mintedOff,
	}, nil
}

// printSimResults renders the aggregate table.
func printSimResults(results []simResult) {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.scenario,
			fmt.Sprintf("%d", r.events),
			fmt.Sprintf("%d", r.maxWindow),
			fmt.Sprintf("%d", r.minted),
			fmt.Sprintf("%d", r.mintedOff),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Scenario", "Events", "Max window", "Slots (pool)", "Slots (no pool)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 3 {
				return StyleNumber
			}
			return StyleValue
		})

	fmt.Println(t.Render())
}
