package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/recyclist/pkg/errors"
)

// uniformEngine builds a vertical single-lane engine over fixed 50x50 items.
func uniformEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(StaticOracle{Type: "row", Size: Size{Width: 50, Height: 50}}, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.SetCrossSpan(300)
	return e
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, DefaultConfig()); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New(nil oracle) code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
	if _, err := New(StaticOracle{Type: "row"}, Config{Columns: 0}); !errors.Is(err, errors.ErrCodeInvalidColumns) {
		t.Errorf("New(columns=0) code = %v, want INVALID_COLUMNS", errors.GetCode(err))
	}
}

func TestUniformFlow(t *testing.T) {
	e := uniformEngine(t)
	if err := e.ComputeFrom(0, 100); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}

	if e.Count() != 100 {
		t.Fatalf("Count() = %d, want 100", e.Count())
	}

	// Each item occupies its own shelf along the scroll axis.
	for i, r := range e.Rects() {
		want := Rect{X: 0, Y: float64(i) * 50, Width: 50, Height: 50}
		if r != want {
			t.Fatalf("rect[%d] = %+v, want %+v", i, r, want)
		}
	}

	content := e.ContentSize()
	if content.Height != 5000 || content.Width != 50 {
		t.Errorf("ContentSize() = %+v, want {50 5000}", content)
	}
	if e.MaxPrimarySize() != 50 {
		t.Errorf("MaxPrimarySize() = %v, want 50", e.MaxPrimarySize())
	}
}

func TestStaggeredTwoLanes(t *testing.T) {
	// Alternating types: A is 50x40, B is 100x80. Two lanes over a span of
	// 200 give lane origins at x=0 and x=100.
	oracle := FuncOracle{
		TypeFn: func(i int) (Type, error) {
			if i%2 == 0 {
				return "A", nil
			}
			return "B", nil
		},
		SizeFn: func(typ Type, _ int) (Size, error) {
			if typ == "A" {
				return Size{Width: 50, Height: 40}, nil
			}
			return Size{Width: 100, Height: 80}, nil
		},
	}
	e, err := New(oracle, Config{Axis: AxisVertical, Columns: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.SetCrossSpan(200)
	if err := e.ComputeFrom(0, 5); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}

	want := []Rect{
		{X: 0, Y: 0, Width: 50, Height: 40},     // A -> lane 0 (tie, lowest)
		{X: 100, Y: 0, Width: 100, Height: 80},  // B -> lane 1 (extent 0 < 40)
		{X: 0, Y: 40, Width: 50, Height: 40},    // A -> lane 0 (40 < 80)
		{X: 0, Y: 80, Width: 100, Height: 80},   // B -> lane 0 (tie at 80)
		{X: 100, Y: 80, Width: 50, Height: 40},  // A -> lane 1 (80 < 160)
	}
	if diff := cmp.Diff(want, e.Rects()); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}

	// Leading edges stay monotonic even across lanes.
	prev := -1.0
	for i, r := range e.Rects() {
		if r.Y < prev {
			t.Errorf("rect[%d] leading edge %v precedes previous %v", i, r.Y, prev)
		}
		prev = r.Y
	}
}

func TestHorizontalAxis(t *testing.T) {
	e, err := New(StaticOracle{Type: "col", Size: Size{Width: 80, Height: 50}}, Config{Axis: AxisHorizontal, Columns: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.SetCrossSpan(200)
	if err := e.ComputeFrom(0, 3); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}

	want := []Rect{
		{X: 0, Y: 0, Width: 80, Height: 50},
		{X: 80, Y: 0, Width: 80, Height: 50},
		{X: 160, Y: 0, Width: 80, Height: 50},
	}
	if diff := cmp.Diff(want, e.Rects()); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}
	if got := e.ContentSize(); got.Width != 240 || got.Height != 50 {
		t.Errorf("ContentSize() = %+v, want {240 50}", got)
	}
}

func TestSuffixRecomputeLeavesPrefixUntouched(t *testing.T) {
	e := uniformEngine(t)
	if err := e.ComputeFrom(0, 20); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}
	prefix := append([]Rect(nil), e.Rects()[:5]...)

	// Resize item 5 and recompute from there.
	if err := e.Override(5, Size{Width: 50, Height: 120}); err != nil {
		t.Fatalf("Override: %v", err)
	}
	if err := e.ComputeFrom(5, 20); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}

	if diff := cmp.Diff(prefix, e.Rects()[:5]); diff != "" {
		t.Errorf("prefix rects changed (-want +got):\n%s", diff)
	}

	r5, _ := e.RectFor(5)
	if r5.Height != 120 || r5.Y != 250 {
		t.Errorf("rect[5] = %+v, want height 120 at y=250", r5)
	}
	r6, _ := e.RectFor(6)
	if r6.Y != 370 {
		t.Errorf("rect[6].Y = %v, want 370 (shifted by the override)", r6.Y)
	}
	if got := e.ContentSize().Height; got != 1070 {
		t.Errorf("ContentSize().Height = %v, want 1070", got)
	}
}

func TestOverrideIsDeferred(t *testing.T) {
	e := uniformEngine(t)
	if err := e.ComputeFrom(0, 10); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}

	if err := e.Override(3, Size{Width: 50, Height: 200}); err != nil {
		t.Fatalf("Override: %v", err)
	}

	// No recompute yet: the rectangle still shows the oracle size.
	r3, _ := e.RectFor(3)
	if r3.Height != 50 {
		t.Errorf("rect[3].Height = %v before recompute, want 50", r3.Height)
	}

	if err := e.ComputeFrom(3, 10); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}
	r3, _ = e.RectFor(3)
	if r3.Height != 200 {
		t.Errorf("rect[3].Height = %v after recompute, want 200", r3.Height)
	}

	// Clearing restores oracle sizing on the next pass.
	e.ClearOverride(3)
	if err := e.ComputeFrom(3, 10); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}
	r3, _ = e.RectFor(3)
	if r3.Height != 50 {
		t.Errorf("rect[3].Height = %v after clear, want 50", r3.Height)
	}
}

func TestOverrideNegativeIndex(t *testing.T) {
	e := uniformEngine(t)
	if err := e.Override(-1, Size{}); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("Override(-1) code = %v, want OUT_OF_RANGE", errors.GetCode(err))
	}
}

func TestRectForOutOfRange(t *testing.T) {
	e := uniformEngine(t)
	if err := e.ComputeFrom(0, 10); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}

	if _, err := e.RectFor(10); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("RectFor(10) code = %v, want OUT_OF_RANGE", errors.GetCode(err))
	}
	if _, err := e.OffsetFor(-1); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("OffsetFor(-1) code = %v, want OUT_OF_RANGE", errors.GetCode(err))
	}

	// The failed lookups leave the layout intact.
	if e.Count() != 10 {
		t.Errorf("Count() = %d after range errors, want 10", e.Count())
	}
}

func TestEmptyTypeIsFatal(t *testing.T) {
	oracle := FuncOracle{
		TypeFn: func(int) (Type, error) { return "", nil },
		SizeFn: func(Type, int) (Size, error) { return Size{Width: 10, Height: 10}, nil },
	}
	e, err := New(oracle, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.ComputeFrom(0, 1); !errors.Is(err, errors.ErrCodeUnknownType) {
		t.Errorf("ComputeFrom code = %v, want UNKNOWN_TYPE", errors.GetCode(err))
	}
}

func TestShrinkAndGrowCount(t *testing.T) {
	e := uniformEngine(t)
	if err := e.ComputeFrom(0, 10); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}

	if err := e.ComputeFrom(5, 5); err != nil {
		t.Fatalf("ComputeFrom shrink: %v", err)
	}
	if e.Count() != 5 {
		t.Errorf("Count() = %d after shrink, want 5", e.Count())
	}
	if got := e.ContentSize().Height; got != 250 {
		t.Errorf("ContentSize().Height = %v after shrink, want 250", got)
	}

	if err := e.ComputeFrom(5, 12); err != nil {
		t.Fatalf("ComputeFrom grow: %v", err)
	}
	if e.Count() != 12 {
		t.Errorf("Count() = %d after grow, want 12", e.Count())
	}
	r11, _ := e.RectFor(11)
	if r11.Y != 550 {
		t.Errorf("rect[11].Y = %v, want 550", r11.Y)
	}
}

func TestComputeFromClampsPastLaidRange(t *testing.T) {
	e := uniformEngine(t)
	// Asking to start beyond the laid range must not leave a gap of unlaid
	// indices: the start clamps back to the current length.
	if err := e.ComputeFrom(7, 10); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := e.RectFor(i); err != nil {
			t.Fatalf("RectFor(%d): %v", i, err)
		}
	}
}

func TestNegativeCount(t *testing.T) {
	e := uniformEngine(t)
	if err := e.ComputeFrom(0, -1); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("ComputeFrom(0, -1) code = %v, want OUT_OF_RANGE", errors.GetCode(err))
	}
}

func TestRelayoutNeeded(t *testing.T) {
	e, err := New(StaticOracle{Type: "card", Size: Size{Width: 100, Height: 60}}, Config{
		Axis:          AxisVertical,
		Columns:       1,
		SizeTolerance: 2,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.SetCrossSpan(100)
	if err := e.ComputeFrom(0, 4); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}

	declared := Size{Width: 100, Height: 60}
	tests := []struct {
		name     string
		measured Size
		want     bool
	}{
		{name: "exact match", measured: Size{Width: 100, Height: 60}, want: false},
		{name: "growth beyond max", measured: Size{Width: 100, Height: 61}, want: true},
		{name: "shrink within tolerance", measured: Size{Width: 100, Height: 58.5}, want: false},
		{name: "shrink beyond tolerance", measured: Size{Width: 100, Height: 57}, want: true},
		{name: "narrower within tolerance", measured: Size{Width: 98.5, Height: 60}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.RelayoutNeeded("card", declared, tt.measured); got != tt.want {
				t.Errorf("RelayoutNeeded(%+v) = %v, want %v", tt.measured, got, tt.want)
			}
		})
	}
}

func TestMaxBoundsRecording(t *testing.T) {
	e := uniformEngine(t)
	if err := e.ComputeFrom(0, 3); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}

	max, ok := e.MaxBoundsFor("row")
	if !ok || max.Height != 50 {
		t.Fatalf("MaxBoundsFor(row) = %+v, %v; want height 50, true", max, ok)
	}

	e.RecordMaxBounds("row", Size{Width: 40, Height: 90})
	max, _ = e.MaxBoundsFor("row")
	if max.Height != 90 || max.Width != 50 {
		t.Errorf("MaxBoundsFor(row) = %+v after record, want per-axis max {50 90}", max)
	}

	// Once 90 has been observed for the type, a 90-tall measurement is no
	// longer growth.
	if e.RelayoutNeeded("row", Size{Width: 50, Height: 50}, Size{Width: 50, Height: 90}) {
		t.Error("RelayoutNeeded = true for measurement at recorded max, want false")
	}
}

func TestTypeFor(t *testing.T) {
	e := uniformEngine(t)
	if err := e.ComputeFrom(0, 2); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}
	typ, err := e.TypeFor(1)
	if err != nil || typ != "row" {
		t.Errorf("TypeFor(1) = %q, %v; want %q, nil", typ, err, "row")
	}
	if _, err := e.TypeFor(5); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("TypeFor(5) code = %v, want OUT_OF_RANGE", errors.GetCode(err))
	}
}
