package browser

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/webpilot/webpilot/pkg/executor"
)

// The decision service names keys in its own vocabulary; map them to the
// names Playwright's keyboard understands. Unlisted keys pass through
// unchanged.
var keyAliases = map[string]string{
	"alt":        "Alt",
	"arrowdown":  "ArrowDown",
	"arrowleft":  "ArrowLeft",
	"arrowright": "ArrowRight",
	"arrowup":    "ArrowUp",
	"backspace":  "Backspace",
	"capslock":   "CapsLock",
	"cmd":        "Meta",
	"ctrl":       "Control",
	"delete":     "Delete",
	"end":        "End",
	"enter":      "Enter",
	"esc":        "Escape",
	"home":       "Home",
	"insert":     "Insert",
	"option":     "Alt",
	"pagedown":   "PageDown",
	"pageup":     "PageUp",
	"shift":      "Shift",
	"space":      " ",
	"super":      "Meta",
	"tab":        "Tab",
	"win":        "Meta",
}

func mapKey(key string) string {
	if mapped, ok := keyAliases[strings.ToLower(key)]; ok {
		return mapped
	}
	return key
}

// Screenshot captures the current page as a base64-encoded PNG.
func (b *Browser) Screenshot() (string, error) {
	data, err := b.page.Screenshot()
	if err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Click clicks at the given coordinates with the given mouse button.
func (b *Browser) Click(x, y int, button string) error {
	opts := playwright.MouseClickOptions{}
	switch button {
	case "right":
		btn := playwright.MouseButtonRight
		opts.Button = btn
	case "middle", "wheel":
		btn := playwright.MouseButtonMiddle
		opts.Button = btn
	default:
		btn := playwright.MouseButtonLeft
		opts.Button = btn
	}

	if err := b.page.Mouse().Click(float64(x), float64(y), opts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// DoubleClick double-clicks at the given coordinates.
func (b *Browser) DoubleClick(x, y int) error {
	count := 2
	opts := playwright.MouseClickOptions{ClickCount: &count}
	if err := b.page.Mouse().Click(float64(x), float64(y), opts); err != nil {
		return fmt.Errorf("double click failed: %w", err)
	}
	return nil
}

// Scroll moves the mouse to (x, y) and scrolls by the given deltas.
func (b *Browser) Scroll(x, y, scrollX, scrollY int) error {
	if err := b.page.Mouse().Move(float64(x), float64(y)); err != nil {
		return fmt.Errorf("scroll move failed: %w", err)
	}
	if err := b.page.Mouse().Wheel(float64(scrollX), float64(scrollY)); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

// Type types text into the focused element.
func (b *Browser) Type(text string) error {
	if err := b.page.Keyboard().Type(text); err != nil {
		return fmt.Errorf("type failed: %w", err)
	}
	return nil
}

// Keypress presses the given keys as a chord: all down in order, then all
// up in reverse.
func (b *Browser) Keypress(keys []string) error {
	mapped := make([]string, len(keys))
	for i, key := range keys {
		mapped[i] = mapKey(key)
	}

	for _, key := range mapped {
		if err := b.page.Keyboard().Down(key); err != nil {
			return fmt.Errorf("key down %q failed: %w", key, err)
		}
	}
	for i := len(mapped) - 1; i >= 0; i-- {
		if err := b.page.Keyboard().Up(mapped[i]); err != nil {
			return fmt.Errorf("key up %q failed: %w", mapped[i], err)
		}
	}
	return nil
}

// Move moves the mouse to the given coordinates.
func (b *Browser) Move(x, y int) error {
	if err := b.page.Mouse().Move(float64(x), float64(y)); err != nil {
		return fmt.Errorf("move failed: %w", err)
	}
	return nil
}

// Drag presses the mouse at the first point, moves through the path, and
// releases at the last point.
func (b *Browser) Drag(path []executor.Point) error {
	if len(path) == 0 {
		return nil
	}

	if err := b.page.Mouse().Move(float64(path[0].X), float64(path[0].Y)); err != nil {
		return fmt.Errorf("drag move failed: %w", err)
	}
	if err := b.page.Mouse().Down(); err != nil {
		return fmt.Errorf("drag press failed: %w", err)
	}
	for _, p := range path[1:] {
		if err := b.page.Mouse().Move(float64(p.X), float64(p.Y)); err != nil {
			return fmt.Errorf("drag move failed: %w", err)
		}
	}
	if err := b.page.Mouse().Up(); err != nil {
		return fmt.Errorf("drag release failed: %w", err)
	}
	return nil
}

// Wait sleeps for the given number of milliseconds.
func (b *Browser) Wait(ms int) error {
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return nil
}

// Goto navigates the page to the given URL.
func (b *Browser) Goto(url string) error {
	if _, err := b.page.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Back navigates one step back in history.
func (b *Browser) Back() error {
	if _, err := b.page.GoBack(); err != nil {
		return fmt.Errorf("back navigation failed: %w", err)
	}
	return nil
}

// Forward navigates one step forward in history.
func (b *Browser) Forward() error {
	if _, err := b.page.GoForward(); err != nil {
		return fmt.Errorf("forward navigation failed: %w", err)
	}
	return nil
}
