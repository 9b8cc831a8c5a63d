// Package cursor converts fingertip positions in camera space into
// smoothed screen coordinates.
package cursor

// Bounds is a rectangle in virtual desktop coordinates.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MapToScreen linearly rescales (x, y) from a frameW x frameH image onto a
// screenW x screenH display. Inputs outside the frame clamp to its edges, and a
// non-positive frame dimension maps that axis to 0.
func MapToScreen(x, y, frameW, frameH, screenW, screenH int) (int, int) {
	return interp(x, frameW, screenW), interp(y, frameH, screenH)
}

func interp(v, from, to int) int {
	if from <= 0 {
		return 0
	}
	if v <= 0 {
		return 0
	}
	if v >= from {
		return to
	}
	return int(float64(v) * float64(to) / float64(from))
}

// Mapper maps frame coordinates onto one monitor of a multi-monitor desktop.
type Mapper struct {
	Bounds Bounds
}

// NewMapper creates a Mapper targeting b.
func NewMapper(b Bounds) *Mapper {
	return &Mapper{Bounds: b}
}

// Map converts (x, y) in a frameW x frameH image to absolute desktop coordinates.
func (m *Mapper) Map(x, y, frameW, frameH int) (int, int) {
	sx, sy := MapToScreen(x, y, frameW, frameH, m.Bounds.Width, m.Bounds.Height)
	return m.Bounds.X + sx, m.Bounds.Y + sy
}
