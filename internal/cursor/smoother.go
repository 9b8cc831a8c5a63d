package cursor

// DefaultSmoothing is the window size used when none is configured.
const DefaultSmoothing = 5

type point struct {
	x, y int
}

// Smoother averages the last N cursor positions to suppress jitter.
// It is not safe for concurrent use.
type Smoother struct {
	size    int
	history []point
}

// NewSmoother creates a Smoother with a window of n positions. n < 1 is treated as 1.
func NewSmoother(n int) *Smoother {
	if n < 1 {
		n = 1
	}
	return &Smoother{
		size:    n,
		history: make([]point, 0, n),
	}
}

// Smooth records (x, y) and returns the smoothed position. Until the window
// is full the input is returned unchanged.
func (s *Smoother) Smooth(x, y int) (int, int) {
	if len(s.history) == s.size {
		copy(s.history, s.history[1:])
		s.history = s.history[:s.size-1]
	}
	s.history = append(s.history, point{x, y})

	if len(s.history) < s.size {
		return x, y
	}

	var sumX, sumY float64
	for _, p := range s.history {
		sumX += float64(p.x)
		sumY += float64(p.y)
	}
	n := float64(len(s.history))
	return int(sumX / n), int(sumY / n)
}

// Reset empties the window.
func (s *Smoother) Reset() {
	s.history = s.history[:0]
}

// Size returns the window size.
func (s *Smoother) Size() int {
	return s.size
}
