package executor

import (
	"errors"
	"fmt"
	"time"
)

// ErrCapabilityMissing reports that the executor does not expose the named
// capability. Callers treat it as a silent skip, not a failure.
var ErrCapabilityMissing = errors.New("executor capability not available")

// Invoke calls the named capability on c with the given argument map, as
// decoded from a function call or computer call action. Argument values
// arrive as JSON-decoded interface values (numbers are float64).
func Invoke(c Computer, name string, args map[string]interface{}) error {
	switch name {
	case "click":
		button := stringArg(args, "button")
		if button == "" {
			button = "left"
		}
		return c.Click(intArg(args, "x"), intArg(args, "y"), button)
	case "double_click":
		return c.DoubleClick(intArg(args, "x"), intArg(args, "y"))
	case "scroll":
		return c.Scroll(intArg(args, "x"), intArg(args, "y"), intArg(args, "scroll_x"), intArg(args, "scroll_y"))
	case "type":
		return c.Type(stringArg(args, "text"))
	case "keypress":
		return c.Keypress(stringSliceArg(args, "keys"))
	case "move":
		return c.Move(intArg(args, "x"), intArg(args, "y"))
	case "drag":
		return c.Drag(pathArg(args, "path"))
	case "wait":
		ms := intArg(args, "ms")
		if ms == 0 {
			ms = int(time.Second / time.Millisecond)
		}
		return c.Wait(ms)
	case "screenshot":
		// The dispatcher captures a screenshot after every computer call;
		// an explicit screenshot action has nothing further to do.
		return nil
	case "goto", "navigate":
		browser, ok := c.(BrowserComputer)
		if !ok {
			return fmt.Errorf("%w: %s", ErrCapabilityMissing, name)
		}
		return browser.Goto(stringArg(args, "url"))
	case "back":
		browser, ok := c.(BrowserComputer)
		if !ok {
			return fmt.Errorf("%w: %s", ErrCapabilityMissing, name)
		}
		return browser.Back()
	case "forward":
		browser, ok := c.(BrowserComputer)
		if !ok {
			return fmt.Errorf("%w: %s", ErrCapabilityMissing, name)
		}
		return browser.Forward()
	default:
		return fmt.Errorf("%w: %s", ErrCapabilityMissing, name)
	}
}

func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func pathArg(args map[string]interface{}, key string) []Point {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	path := make([]Point, 0, len(raw))
	for _, v := range raw {
		coords, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		path = append(path, Point{X: intArg(coords, "x"), Y: intArg(coords, "y")})
	}
	return path
}
