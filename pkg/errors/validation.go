package errors

// ValidateViewport validates a viewport dimension pair.
// A zero or negative axis is a fatal configuration error: layout along a
// zero axis is undefined, so the engine refuses the value outright rather
// than degrading silently.
func ValidateViewport(width, height float64) error {
	if width <= 0 {
		return New(ErrCodeInvalidDimension, "viewport width must be positive, got %v", width)
	}
	if height <= 0 {
		return New(ErrCodeInvalidDimension, "viewport height must be positive, got %v", height)
	}
	return nil
}

// ValidateColumns validates a cross-axis lane count.
func ValidateColumns(columns int) error {
	if columns < 1 {
		return New(ErrCodeInvalidColumns, "column count must be at least 1, got %d", columns)
	}
	return nil
}

// ValidateRenderAhead validates render-ahead margins.
// Negative margins would invert the required window.
func ValidateRenderAhead(front, back float64) error {
	if front < 0 {
		return New(ErrCodeInvalidConfig, "render-ahead distance must be non-negative, got %v", front)
	}
	if back < 0 {
		return New(ErrCodeInvalidConfig, "render-ahead back margin must be non-negative, got %v", back)
	}
	return nil
}

// ValidateIndex validates that index falls inside [0, count).
func ValidateIndex(index, count int) error {
	if index < 0 || index >= count {
		return New(ErrCodeOutOfRange, "index %d outside [0, %d)", index, count)
	}
	return nil
}
