package engine

import "testing"

func TestSliceSourceDirtyTracking(t *testing.T) {
	eq := func(a, b string) bool { return a == b }

	tests := []struct {
		name  string
		start []string
		next  []string
		want  int
	}{
		{"identical", []string{"a", "b", "c"}, []string{"a", "b", "c"}, -1},
		{"first changed", []string{"a", "b", "c"}, []string{"x", "b", "c"}, 0},
		{"middle changed", []string{"a", "b", "c"}, []string{"a", "x", "c"}, 1},
		{"appended", []string{"a", "b"}, []string{"a", "b", "c"}, 2},
		{"truncated", []string{"a", "b", "c"}, []string{"a"}, 1},
		{"replaced and shorter", []string{"a", "b", "c"}, []string{"x"}, 0},
		{"empty to empty", nil, nil, -1},
		{"empty to some", nil, []string{"a"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSliceSource(tt.start, eq)
			s.Update(tt.next)
			if got := s.FirstDirty(); got != tt.want {
				t.Errorf("FirstDirty() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSliceSourceReadAcknowledges(t *testing.T) {
	s := NewSliceSource([]int{1, 2, 3}, func(a, b int) bool { return a == b })
	s.Update([]int{1, 9, 3})

	if got := s.FirstDirty(); got != 1 {
		t.Fatalf("FirstDirty() = %d, want 1", got)
	}
	if got := s.FirstDirty(); got != -1 {
		t.Errorf("FirstDirty() after read = %d, want -1", got)
	}
}

func TestSliceSourceKeepsMinAcrossUpdates(t *testing.T) {
	s := NewSliceSource([]int{0, 1, 2, 3, 4}, func(a, b int) bool { return a == b })

	s.Update([]int{0, 1, 2, 9, 4})
	s.Update([]int{0, 8, 2, 9, 4})
	if got := s.FirstDirty(); got != 1 {
		t.Errorf("FirstDirty() = %d, want 1 (minimum across updates)", got)
	}
}

func TestSliceSourceNilEquals(t *testing.T) {
	s := NewSliceSource([]int{1, 2}, nil)
	s.Update([]int{1, 2})
	if got := s.FirstDirty(); got != 0 {
		t.Errorf("FirstDirty() = %d, want 0 (nil equals treats all as changed)", got)
	}
}
