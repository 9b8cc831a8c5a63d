package action

import (
	"fmt"
	"sync"
)

// MockController records every call for tests.
type MockController struct {
	mu    sync.Mutex
	calls []string
	err   error
}

// NewMockController creates an empty MockController.
func NewMockController() *MockController {
	return &MockController{}
}

// SetError makes every subsequent call return err.
func (m *MockController) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the recorded calls, e.g. "click" or "move 10,20".
func (m *MockController) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Reset forgets recorded calls.
func (m *MockController) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *MockController) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.err
}

// Controller methods record their call and return the configured error.

func (m *MockController) MoveCursor(x, y int) error { return m.record(fmt.Sprintf("move %d,%d", x, y)) }
func (m *MockController) Click() error              { return m.record(ActionClick) }
func (m *MockController) RightClick() error         { return m.record(ActionRightClick) }
func (m *MockController) Scroll(amount int) error   { return m.record(fmt.Sprintf("scroll %d", amount)) }
func (m *MockController) VolumeUp() error           { return m.record(ActionVolumeUp) }
func (m *MockController) VolumeDown() error         { return m.record(ActionVolumeDown) }
func (m *MockController) Screenshot() error         { return m.record(ActionScreenshot) }
func (m *MockController) NextTab() error            { return m.record(ActionNextTab) }
func (m *MockController) PrevTab() error            { return m.record(ActionPrevTab) }
func (m *MockController) ToggleMic() error          { return m.record(ActionMicToggle) }
