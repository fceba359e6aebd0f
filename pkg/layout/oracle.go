package layout

// SizeOracle maps item indices to layout types and types to sizes.
// The oracle is supplied by the embedding application; the engine treats it
// as the single authority on item shape.
//
// TypeOf must return a non-empty Type for every index in range: an unknown
// type cannot be sized or recycled, so an empty type is surfaced as a fatal
// UNKNOWN_TYPE error by the engine.
//
// SizeOf receives both the type and the concrete index so oracles may vary
// sizes within a type (e.g. text rows of differing heights).
type SizeOracle interface {
	TypeOf(index int) (Type, error)
	SizeOf(t Type, index int) (Size, error)
}

// StaticOracle is a SizeOracle for collections with a single type and a
// fixed size. Useful for uniform lists and as a test fixture.
type StaticOracle struct {
	Type Type
	Size Size
}

// TypeOf returns the fixed type.
func (o StaticOracle) TypeOf(int) (Type, error) { return o.Type, nil }

// SizeOf returns the fixed size.
func (o StaticOracle) SizeOf(Type, int) (Size, error) { return o.Size, nil }

// FuncOracle adapts a pair of functions to the SizeOracle interface.
type FuncOracle struct {
	TypeFn func(index int) (Type, error)
	SizeFn func(t Type, index int) (Size, error)
}

// TypeOf calls TypeFn.
func (o FuncOracle) TypeOf(index int) (Type, error) { return o.TypeFn(index) }

// SizeOf calls SizeFn.
func (o FuncOracle) SizeOf(t Type, index int) (Size, error) { return o.SizeFn(t, index) }
