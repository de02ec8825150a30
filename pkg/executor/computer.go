// Package executor defines the action executor capability surface used by
// the turn dispatcher, and name-based invocation over it. Concrete
// implementations live in subpackages; the playwright one drives a real
// Chromium instance.
package executor

// Environment values reported by GetEnvironment. Browser-like executors
// additionally expose the current page URL for denylist checks.
const (
	EnvironmentBrowser = "browser"
	EnvironmentWindows = "windows"
	EnvironmentMac     = "mac"
	EnvironmentLinux   = "linux"
)

// Point is one coordinate of a drag path.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Computer is the capability set an action executor exposes to the
// dispatcher. Screenshot returns a base64-encoded PNG.
type Computer interface {
	Screenshot() (string, error)
	Click(x, y int, button string) error
	DoubleClick(x, y int) error
	Scroll(x, y, scrollX, scrollY int) error
	Type(text string) error
	Keypress(keys []string) error
	Move(x, y int) error
	Drag(path []Point) error
	Wait(ms int) error
	GetDimensions() (width, height int)
	GetEnvironment() string
}

// BrowserComputer extends Computer with browser-only capabilities.
type BrowserComputer interface {
	Computer
	Goto(url string) error
	Back() error
	Forward() error
	GetCurrentURL() (string, error)
}
