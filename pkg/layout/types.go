package layout

// Type is an opaque classification of an item's expected shape.
// Slots are recycled only between items sharing a Type, so two items should
// share a Type exactly when a slot rendered for one can be rebound to the
// other without structural changes.
type Type string

// Axis selects the primary scroll direction of a layout.
type Axis int

const (
	// AxisVertical scrolls along Y; cross-axis lanes divide the width.
	AxisVertical Axis = iota

	// AxisHorizontal scrolls along X; cross-axis lanes divide the height.
	AxisHorizontal
)

// String returns the axis name used in cache keys and logs.
func (a Axis) String() string {
	if a == AxisHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// Size is a width/height pair in layout units.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Primary returns the extent of s along the scroll axis.
func (s Size) Primary(a Axis) float64 {
	if a == AxisHorizontal {
		return s.Width
	}
	return s.Height
}

// Cross returns the extent of s across the scroll axis.
func (s Size) Cross(a Axis) float64 {
	if a == AxisHorizontal {
		return s.Height
	}
	return s.Width
}

// Point is a position in layout units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is a positioned rectangle in layout units.
// All rectangles are computed by the engine; callers never construct them
// except through size overrides.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Right returns the right edge of the rectangle.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge of the rectangle.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Leading returns the near edge along the scroll axis.
func (r Rect) Leading(a Axis) float64 {
	if a == AxisHorizontal {
		return r.X
	}
	return r.Y
}

// Trailing returns the far edge along the scroll axis.
func (r Rect) Trailing(a Axis) float64 {
	if a == AxisHorizontal {
		return r.Right()
	}
	return r.Bottom()
}

// Origin returns the rectangle's position.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }
