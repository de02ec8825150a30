package executor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingComputer captures each invoked capability and its arguments.
type recordingComputer struct {
	calls []string
}

func (r *recordingComputer) record(format string, args ...interface{}) error {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	return nil
}

func (r *recordingComputer) Screenshot() (string, error) { return "aGk=", nil }
func (r *recordingComputer) Click(x, y int, button string) error {
	return r.record("click(%d,%d,%s)", x, y, button)
}
func (r *recordingComputer) DoubleClick(x, y int) error { return r.record("double_click(%d,%d)", x, y) }
func (r *recordingComputer) Scroll(x, y, scrollX, scrollY int) error {
	return r.record("scroll(%d,%d,%d,%d)", x, y, scrollX, scrollY)
}
func (r *recordingComputer) Type(text string) error      { return r.record("type(%s)", text) }
func (r *recordingComputer) Keypress(keys []string) error { return r.record("keypress(%v)", keys) }
func (r *recordingComputer) Move(x, y int) error          { return r.record("move(%d,%d)", x, y) }
func (r *recordingComputer) Drag(path []Point) error      { return r.record("drag(%v)", path) }
func (r *recordingComputer) Wait(ms int) error            { return r.record("wait(%d)", ms) }
func (r *recordingComputer) GetDimensions() (int, int)    { return 1024, 768 }
func (r *recordingComputer) GetEnvironment() string       { return EnvironmentLinux }

// recordingBrowser adds the navigation capabilities.
type recordingBrowser struct {
	recordingComputer
	currentURL string
}

func (r *recordingBrowser) Goto(url string) error { return r.record("goto(%s)", url) }
func (r *recordingBrowser) Back() error           { return r.record("back()") }
func (r *recordingBrowser) Forward() error        { return r.record("forward()") }
func (r *recordingBrowser) GetCurrentURL() (string, error) {
	return r.currentURL, nil
}
func (r *recordingBrowser) GetEnvironment() string { return EnvironmentBrowser }

func TestInvoke(t *testing.T) {
	testCases := []struct {
		name     string
		action   string
		args     map[string]interface{}
		expected string
	}{
		{
			name:     "ClickDefaultsToLeftButton",
			action:   "click",
			args:     map[string]interface{}{"x": float64(10), "y": float64(20)},
			expected: "click(10,20,left)",
		},
		{
			name:     "ClickWithButton",
			action:   "click",
			args:     map[string]interface{}{"x": float64(1), "y": float64(2), "button": "right"},
			expected: "click(1,2,right)",
		},
		{
			name:     "DoubleClick",
			action:   "double_click",
			args:     map[string]interface{}{"x": float64(5), "y": float64(6)},
			expected: "double_click(5,6)",
		},
		{
			name:     "Scroll",
			action:   "scroll",
			args:     map[string]interface{}{"x": float64(1), "y": float64(2), "scroll_x": float64(0), "scroll_y": float64(-120)},
			expected: "scroll(1,2,0,-120)",
		},
		{
			name:     "Type",
			action:   "type",
			args:     map[string]interface{}{"text": "hello"},
			expected: "type(hello)",
		},
		{
			name:     "Keypress",
			action:   "keypress",
			args:     map[string]interface{}{"keys": []interface{}{"ctrl", "a"}},
			expected: "keypress([ctrl a])",
		},
		{
			name:     "WaitDefaultsToOneSecond",
			action:   "wait",
			args:     map[string]interface{}{},
			expected: "wait(1000)",
		},
		{
			name:     "Drag",
			action:   "drag",
			args:     map[string]interface{}{"path": []interface{}{map[string]interface{}{"x": float64(1), "y": float64(2)}, map[string]interface{}{"x": float64(3), "y": float64(4)}}},
			expected: "drag([{1 2} {3 4}])",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &recordingComputer{}
			require.NoError(t, Invoke(c, tc.action, tc.args))
			require.Len(t, c.calls, 1)
			assert.Equal(t, tc.expected, c.calls[0])
		})
	}
}

func TestInvokeScreenshotIsNoOp(t *testing.T) {
	c := &recordingComputer{}
	require.NoError(t, Invoke(c, "screenshot", nil))
	assert.Empty(t, c.calls)
}

func TestInvokeUnknownCapability(t *testing.T) {
	err := Invoke(&recordingComputer{}, "teleport", nil)
	assert.ErrorIs(t, err, ErrCapabilityMissing)
}

func TestInvokeNavigationRequiresBrowser(t *testing.T) {
	for _, action := range []string{"goto", "navigate", "back", "forward"} {
		err := Invoke(&recordingComputer{}, action, map[string]interface{}{"url": "https://example.com"})
		assert.ErrorIs(t, err, ErrCapabilityMissing, action)
	}

	b := &recordingBrowser{}
	require.NoError(t, Invoke(b, "navigate", map[string]interface{}{"url": "https://example.com"}))
	require.NoError(t, Invoke(b, "back", nil))
	require.NoError(t, Invoke(b, "forward", nil))
	assert.Equal(t, []string{"goto(https://example.com)", "back()", "forward()"}, b.calls)
}
