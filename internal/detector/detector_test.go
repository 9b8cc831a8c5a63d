package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestNewHandLandmarks(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{name: "empty", count: 0, wantErr: true},
		{name: "one short", count: NumLandmarks - 1, wantErr: true},
		{name: "exact", count: NumLandmarks, wantErr: false},
		{name: "one extra", count: NumLandmarks + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := make([]Point, tt.count)
			for i := range points {
				points[i] = Point{X: i, Y: i * 2}
			}

			hand, err := NewHandLandmarks(points)
			if tt.wantErr {
				if !errors.Is(err, ErrIncompleteHand) {
					t.Fatalf("expected ErrIncompleteHand, got %v", err)
				}
				if hand != nil {
					t.Error("expected nil hand on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hand.At(IndexTip) != (Point{X: IndexTip, Y: IndexTip * 2}) {
				t.Errorf("index tip = %v, want {%d %d}", hand.At(IndexTip), IndexTip, IndexTip*2)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{name: "same point", a: Point{5, 5}, b: Point{5, 5}, want: 0},
		{name: "horizontal", a: Point{0, 0}, b: Point{10, 0}, want: 10},
		{name: "3-4-5", a: Point{0, 0}, b: Point{3, 4}, want: 5},
		{name: "negative delta", a: Point{10, 10}, b: Point{7, 6}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("scales normalized points to pixels", func(t *testing.T) {
		line := []byte(`{"hands":[{"handedness":"Left","score":0.8,"points":[` + repeatPoint(`{"x":0.5,"y":0.25}`, NumLandmarks) + `]}]}`)

		hands, err := parseResponse(line, 640, 480)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Points[Wrist] != (Point{X: 320, Y: 120}) {
			t.Errorf("wrist = %v, want {320 120}", hands[0].Points[Wrist])
		}
		if hands[0].Handedness != "Left" {
			t.Errorf("handedness = %q, want Left", hands[0].Handedness)
		}
	})

	t.Run("drops incomplete hands", func(t *testing.T) {
		line := []byte(`{"hands":[{"points":[` + repeatPoint(`{"x":0.1,"y":0.1}`, 5) + `]}]}`)

		hands, err := parseResponse(line, 640, 480)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected incomplete hand to be dropped, got %d hands", len(hands))
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := parseResponse([]byte(`{"hands":[]}`), 640, 480)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected 0 hands, got %d", len(hands))
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := parseResponse([]byte(`not json`), 640, 480); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}

func repeatPoint(p string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()

		mock.SetHands([]HandLandmarks{
			ThumbsUpLandmarks(),
			OpenPalmLandmarks(),
		})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestThumbsUpLandmarks(t *testing.T) {
	landmarks := ThumbsUpLandmarks()

	t.Run("thumb is extended upward", func(t *testing.T) {
		if !landmarks.Extended(ThumbTip, ThumbMCP) {
			t.Error("thumb tip should be above thumb MCP (lower Y value)")
		}
	})

	t.Run("other fingers are curled", func(t *testing.T) {
		fingers := []struct {
			name     string
			tip, mcp int
		}{
			{"index", IndexTip, IndexMCP},
			{"middle", MiddleTip, MiddleMCP},
			{"ring", RingTip, RingMCP},
			{"pinky", PinkyTip, PinkyMCP},
		}
		for _, f := range fingers {
			if landmarks.Extended(f.tip, f.mcp) {
				t.Errorf("%s finger appears extended, should be curled", f.name)
			}
		}
	})
}

func TestOpenPalmLandmarks(t *testing.T) {
	landmarks := OpenPalmLandmarks()

	t.Run("all fingers are extended", func(t *testing.T) {
		for _, f := range [][2]int{{IndexTip, IndexMCP}, {MiddleTip, MiddleMCP}, {RingTip, RingMCP}, {PinkyTip, PinkyMCP}} {
			if !landmarks.Extended(f[0], f[1]) {
				t.Errorf("landmark %d should be above %d", f[0], f[1])
			}
		}
	})

	t.Run("fingers are properly ordered right to left", func(t *testing.T) {
		if landmarks.Points[PinkyMCP].X >= landmarks.Points[RingMCP].X {
			t.Error("pinky should be to the left of ring finger")
		}
		if landmarks.Points[RingMCP].X >= landmarks.Points[MiddleMCP].X {
			t.Error("ring should be to the left of middle finger")
		}
		if landmarks.Points[MiddleMCP].X >= landmarks.Points[IndexMCP].X {
			t.Error("middle should be to the left of index finger")
		}
	})
}

func TestTranslate(t *testing.T) {
	hand := OpenPalmLandmarks()
	moved := Translate(hand, 10, -20)

	for i := range hand.Points {
		want := Point{X: hand.Points[i].X + 10, Y: hand.Points[i].Y - 20}
		if moved.Points[i] != want {
			t.Fatalf("point %d = %v, want %v", i, moved.Points[i], want)
		}
	}
}
