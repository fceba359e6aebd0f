package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recyclist/pkg/engine"
	"github.com/matzehuels/recyclist/pkg/layout"
	"github.com/matzehuels/recyclist/pkg/recycle"
)

// Demo item styles.
var (
	demoVisibleStyle = lipgloss.NewStyle().Foreground(colorWhite)
	demoAheadStyle   = lipgloss.NewStyle().Foreground(colorDim)
	demoHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	demoSlotStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	demoStatsStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

// demoCommand creates the interactive TUI demo.
func (c *CLI) demoCommand() *cobra.Command {
	var items int
	var noRecycle bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive scrolling demo of the virtualization engine",
		Long: `Demo runs a terminal list backed by the virtualization engine. Rows are
materialized only inside the render window, and the slot ID shown next to
each row makes the recycling visible: scroll far enough and the same slot
IDs come back bound to new rows.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if items < 1 {
				items = 1
			}
			model, err := newDemoModel(c, items, !noRecycle)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&items, "items", 500, "number of rows in the demo dataset")
	cmd.Flags().BoolVar(&noRecycle, "no-recycle", false, "disable slot recycling")
	return cmd
}

// demoItem is one row of the generated dataset. Section headers are taller
// than plain rows so the two layout types exercise typed recycling.
type demoItem struct {
	title  string
	typ    layout.Type
	height float64
}

const (
	demoTypeHeader layout.Type = "header"
	demoTypeRow    layout.Type = "row"

	demoHeaderHeight = 2
	demoRowHeight    = 1
)

func generateItems(n int) []demoItem {
	out := make([]demoItem, n)
	for i := range out {
		if i%10 == 0 {
			out[i] = demoItem{
				title:  fmt.Sprintf("Section %d", i/10),
				typ:    demoTypeHeader,
				height: demoHeaderHeight,
			}
		} else {
			out[i] = demoItem{
				title:  fmt.Sprintf("Item %d", i),
				typ:    demoTypeRow,
				height: demoRowHeight,
			}
		}
	}
	return out
}

// demoModel is the bubbletea model around a Coordinator. One layout unit is
// one terminal row.
type demoModel struct {
	cli   *CLI
	coord *engine.Coordinator
	items []demoItem

	stack   recycle.Stack
	visible map[int]bool

	width  int
	height int
	ready  bool
	err    error
}

func newDemoModel(c *CLI, n int, recycling bool) (*demoModel, error) {
	items := generateItems(n)

	oracle := layout.FuncOracle{
		TypeFn: func(index int) (layout.Type, error) {
			return items[index].typ, nil
		},
		SizeFn: func(t layout.Type, index int) (layout.Size, error) {
			return layout.Size{Width: 1, Height: items[index].height}, nil
		},
	}
	src := engine.NewSliceSource(items, func(a, b demoItem) bool { return a == b })

	cfg, err := c.Config.EngineConfig()
	if err != nil {
		return nil, err
	}
	cfg.Axis = layout.AxisVertical
	cfg.Columns = 1
	cfg.RenderAhead = 10
	cfg.Recycling = recycling

	m := &demoModel{cli: c, items: items, visible: map[int]bool{}}

	coord, err := engine.New(src, oracle, cfg,
		engine.WithRenderSink(engine.RenderSinkFunc(func(stack recycle.Stack) {
			m.stack = stack
		})),
		engine.WithObserver(engine.VisibilityObserverFunc(func(all, entered, exited []int) {
			m.visible = make(map[int]bool, len(all))
			for _, i := range all {
				m.visible[i] = true
			}
		})),
		engine.WithLogger(c.Logger),
	)
	if err != nil {
		return nil, err
	}
	m.coord = coord
	return m, nil
}

func (m *demoModel) Init() tea.Cmd {
	return nil
}

func (m *demoModel) listHeight() float64 {
	h := m.height - 3 // stats and help lines
	if h < 1 {
		h = 1
	}
	return float64(h)
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if err := m.coord.SetDimensions(layout.Size{Width: float64(msg.Width), Height: m.listHeight()}); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if !m.ready {
			if err := m.coord.Init(); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.ready = true
		}

	case tea.KeyMsg:
		if !m.ready {
			return m, nil
		}
		offset := m.coord.CurrentOffset()
		var err error
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			err = m.coord.OnScroll(offset - 1)
		case "down", "j":
			err = m.coord.OnScroll(offset + 1)
		case "pgup":
			err = m.coord.OnScroll(offset - m.listHeight())
		case "pgdown", " ":
			err = m.coord.OnScroll(offset + m.listHeight())
		case "g", "home":
			err = m.coord.ScrollToIndex(0, false)
		case "G", "end":
			err = m.coord.ScrollToIndex(len(m.items)-1, false)
		}
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *demoModel) View() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n"
	}
	if !m.ready {
		return "sizing...\n"
	}

	rows := int(m.listHeight())
	lines := make([]string, rows)
	offset := m.coord.CurrentOffset()

	for _, e := range m.stack {
		rect, err := m.coord.RectFor(e.Index)
		if err != nil {
			continue
		}
		top := int(rect.Y - offset)
		item := m.items[e.Index]

		for dy := 0; dy < int(rect.Height); dy++ {
			row := top + dy
			if row < 0 || row >= rows {
				continue
			}
			var line string
			if dy == 0 {
				slot := demoSlotStyle.Render(fmt.Sprintf("[slot %02d]", e.SlotID))
				label := item.title
				style := demoVisibleStyle
				if item.typ == demoTypeHeader {
					style = demoHeaderStyle
				}
				if !m.visible[e.Index] {
					style = demoAheadStyle
				}
				line = fmt.Sprintf("%s %s", slot, style.Render(label))
			} else {
				line = demoAheadStyle.Render(strings.Repeat("─", min(m.width, 24)))
			}
			lines[row] = line
		}
	}
	for i, l := range lines {
		if l == "" {
			lines[i] = " "
		}
	}

	stats := demoStatsStyle.Render(fmt.Sprintf(
		"offset %.0f/%.0f · window %d · visible %d · slots minted %d",
		offset, m.coord.ContentSize().Height, len(m.stack), len(m.visible), m.coord.SlotsMinted()))
	help := StyleDim.Render("↑/↓ scroll  pgup/pgdn page  g/G ends  q quit")

	return strings.Join(lines, "\n") + "\n" + stats + "\n" + help
}
