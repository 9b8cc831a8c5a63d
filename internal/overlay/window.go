package overlay

import "gocv.io/x/gocv"

// QuitKey closes the preview window.
const QuitKey = 'q'

// Display shows annotated frames. Show returns true when the user asked to quit.
type Display interface {
	Show(frame *gocv.Mat) bool
	Close() error
}

// Window is a HighGUI preview window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a window titled title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays frame and polls the keyboard for one millisecond.
func (w *Window) Show(frame *gocv.Mat) bool {
	w.win.IMShow(*frame)
	return w.win.WaitKey(1)&0xFF == QuitKey
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
