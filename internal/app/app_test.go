package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airmouse/internal/action"
	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/cursor"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/gesture"
)

var testStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeState struct {
	enabled bool
	last    []string
}

func (s *fakeState) Enabled() bool             { return s.enabled }
func (s *fakeState) SetLastAction(name string) { s.last = append(s.last, name) }

type fakeDisplay struct {
	shows  int
	quitAt int
	closed bool
}

func (d *fakeDisplay) Show(frame *gocv.Mat) bool {
	d.shows++
	return d.shows == d.quitAt
}

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}

type stillSensor struct{}

func (stillSensor) Detect(frame *gocv.Mat) (bool, float64) { return false, 0 }
func (stillSensor) Reset()                                 {}

func newFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		frames[i] = &m
		t.Cleanup(func() { m.Close() })
	}
	return frames
}

type harness struct {
	camera   *capture.MockCamera
	detector *detector.MockDetector
	ctrl     *action.MockController
	cfg      Config
}

// newHarness wires an App over mocks with an identity mapper, no smoothing
// and a frozen clock, so every frame sees the same instant.
func newHarness(t *testing.T, frames int, loop bool) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return testStart }

	th := gesture.DefaultThresholds()
	classifier := gesture.NewClassifier(th)
	classifier.SetClock(clock)

	ctrl := action.NewMockController()
	router, err := action.NewRouter(ctrl, nil, nil, nil, action.DefaultScrollAmount, logger)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	det := detector.NewMockDetector()
	cam := capture.NewMockCamera(newFrames(t, frames), loop)

	return &harness{
		camera:   cam,
		detector: det,
		ctrl:     ctrl,
		cfg: Config{
			Camera:     cam,
			Detector:   det,
			Classifier: classifier,
			Smoother:   cursor.NewSmoother(1),
			Mapper:     cursor.NewMapper(cursor.Bounds{Width: 640, Height: 480}),
			Actions:    router,
			Emojis:     gesture.NewEmojiSelector(th),
			Logger:     logger,
			Now:        clock,
		},
	}
}

func (h *harness) run(t *testing.T, ctx context.Context) error {
	t.Helper()
	a, err := New(h.cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a.Run(ctx)
}

func TestRun_DispatchesGestures(t *testing.T) {
	h := newHarness(t, 3, false)
	h.detector.SetHands([]detector.HandLandmarks{detector.PinchLandmarks()})
	state := &fakeState{enabled: true}
	h.cfg.State = state

	err := h.run(t, context.Background())
	if !errors.Is(err, capture.ErrNoMoreFrames) {
		t.Fatalf("Run() error = %v, want ErrNoMoreFrames", err)
	}

	// Click, volume and mic fire on the first frame; the frozen clock keeps
	// every cooldown closed afterwards.
	want := []string{
		"move 372,165", action.ActionClick, action.ActionVolumeUp, action.ActionMicToggle,
		"move 372,165",
		"move 372,165",
	}
	if got := h.ctrl.Calls(); !slices.Equal(got, want) {
		t.Errorf("controller calls = %v, want %v", got, want)
	}

	if !slices.Equal(state.last, []string{action.ActionClick, action.ActionVolumeUp, action.ActionMicToggle}) {
		t.Errorf("last actions = %v", state.last)
	}
	if h.camera.IsOpen() {
		t.Error("camera should be closed after Run")
	}
}

func TestRun_Disabled(t *testing.T) {
	h := newHarness(t, 2, false)
	h.detector.SetHands([]detector.HandLandmarks{detector.PinchLandmarks()})
	h.cfg.State = &fakeState{enabled: false}

	if err := h.run(t, context.Background()); !errors.Is(err, capture.ErrNoMoreFrames) {
		t.Fatalf("Run() error = %v", err)
	}

	if calls := h.ctrl.Calls(); len(calls) != 0 {
		t.Errorf("disabled loop made calls %v", calls)
	}
	if h.detector.Calls() != 2 {
		t.Errorf("detector calls = %d, want 2", h.detector.Calls())
	}
}

func TestRun_SwipeBetweenFrames(t *testing.T) {
	h := newHarness(t, 2, false)
	palm := detector.OpenPalmLandmarks()
	h.detector.SetHands([]detector.HandLandmarks{palm})

	a, err := New(h.cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := h.camera.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, err := a.step(context.Background()); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	h.detector.SetHands([]detector.HandLandmarks{detector.Translate(palm, -80, 0)})
	if _, err := a.step(context.Background()); err != nil {
		t.Fatalf("step() error = %v", err)
	}

	if !slices.Contains(h.ctrl.Calls(), action.ActionPrevTab) {
		t.Errorf("controller calls = %v, want %s", h.ctrl.Calls(), action.ActionPrevTab)
	}
}

func TestRun_NoHand(t *testing.T) {
	h := newHarness(t, 2, false)

	if err := h.run(t, context.Background()); !errors.Is(err, capture.ErrNoMoreFrames) {
		t.Fatalf("Run() error = %v", err)
	}
	if calls := h.ctrl.Calls(); len(calls) != 0 {
		t.Errorf("calls without a hand = %v", calls)
	}
}

func TestRun_DetectorErrorSkipsFrame(t *testing.T) {
	h := newHarness(t, 2, false)
	h.detector.SetHands([]detector.HandLandmarks{detector.PinchLandmarks()})
	h.detector.SetError(errors.New("service crashed"))

	if err := h.run(t, context.Background()); !errors.Is(err, capture.ErrNoMoreFrames) {
		t.Fatalf("Run() error = %v", err)
	}
	if calls := h.ctrl.Calls(); len(calls) != 0 {
		t.Errorf("calls after detector error = %v", calls)
	}
}

func TestRun_ActionErrorsDoNotStopLoop(t *testing.T) {
	h := newHarness(t, 2, false)
	h.detector.SetHands([]detector.HandLandmarks{detector.PinchLandmarks()})
	h.ctrl.SetError(errors.New("no display"))
	state := &fakeState{enabled: true}
	h.cfg.State = state

	if err := h.run(t, context.Background()); !errors.Is(err, capture.ErrNoMoreFrames) {
		t.Fatalf("Run() error = %v", err)
	}
	if h.camera.Reads() != 2 {
		t.Errorf("frames read = %d, want 2", h.camera.Reads())
	}
	if len(state.last) != 0 {
		t.Errorf("failed actions recorded as last: %v", state.last)
	}
}

func TestRun_QuitKey(t *testing.T) {
	h := newHarness(t, 1, true)
	h.detector.SetHands([]detector.HandLandmarks{detector.ThumbsUpLandmarks()})
	display := &fakeDisplay{quitAt: 2}
	h.cfg.Display = display
	h.cfg.ShowFPS = true
	h.cfg.ShowSkeleton = true

	if err := h.run(t, context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil on quit", err)
	}
	if h.camera.Reads() != 2 {
		t.Errorf("frames read = %d, want 2", h.camera.Reads())
	}
	if !display.closed {
		t.Error("display not closed")
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	h := newHarness(t, 1, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.run(t, ctx); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if h.camera.Reads() != 0 {
		t.Errorf("frames read = %d, want 0", h.camera.Reads())
	}
	if h.camera.IsOpen() {
		t.Error("camera should be closed")
	}
}

func TestRun_IdleGateSkipsDetection(t *testing.T) {
	h := newHarness(t, 3, false)
	h.detector.SetHands([]detector.HandLandmarks{detector.PinchLandmarks()})
	h.cfg.Idle = capture.NewIdleGate(stillSensor{}, time.Second)
	h.cfg.IdleFPS = 5
	h.cfg.ActiveFPS = 30

	// One second per frame: the second frame reaches the timeout.
	frame := 0
	h.cfg.Now = func() time.Time {
		now := testStart.Add(time.Duration(frame) * time.Second)
		frame++
		return now
	}

	if err := h.run(t, context.Background()); !errors.Is(err, capture.ErrNoMoreFrames) {
		t.Fatalf("Run() error = %v", err)
	}
	if h.detector.Calls() != 1 {
		t.Errorf("detector calls = %d, want 1 before the gate closes", h.detector.Calls())
	}
	if got := h.camera.Rates(); !slices.Equal(got, []int{30, 5}) {
		t.Errorf("camera rates = %v, want [30 5]", got)
	}
}

func TestStep_ReenableReopensIdleGate(t *testing.T) {
	h := newHarness(t, 1, true)
	h.detector.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})
	h.cfg.Idle = capture.NewIdleGate(stillSensor{}, time.Second)
	h.cfg.IdleFPS = 5
	h.cfg.ActiveFPS = 30
	state := &fakeState{enabled: false}
	h.cfg.State = state

	now := testStart
	h.cfg.Now = func() time.Time { return now }

	a, err := New(h.cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := h.camera.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	steps := []struct {
		advance time.Duration
		enable  bool
	}{
		{0, false},
		{2 * time.Second, false},
		{0, true},
	}
	for i, s := range steps {
		now = now.Add(s.advance)
		state.enabled = s.enable
		if _, err := a.step(context.Background()); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}

	if got := h.camera.Rates(); !slices.Equal(got, []int{5, 30}) {
		t.Errorf("camera rates = %v, want [5 30]", got)
	}
	if h.detector.Calls() != 2 {
		t.Errorf("detector calls = %d, want 2", h.detector.Calls())
	}
	if calls := h.ctrl.Calls(); len(calls) == 0 {
		t.Error("no cursor move after re-enabling")
	}
}

func TestRun_ReadFailureIsFatal(t *testing.T) {
	h := newHarness(t, 1, true)
	unplugged := errors.New("device unplugged")
	h.camera.SetReadError(unplugged)

	err := h.run(t, context.Background())
	if !errors.Is(err, unplugged) {
		t.Fatalf("Run() error = %v, want %v", err, unplugged)
	}
	if h.camera.IsOpen() {
		t.Error("camera should be closed after a read failure")
	}
}

func TestNew_MissingCollaborators(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Fatal("New() with empty config error = nil")
	}
}
