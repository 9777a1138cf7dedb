// Package clipboard writes text to the host clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"log"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when the host denies or lacks
// clipboard access.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Copier writes text to some clipboard.
type Copier interface {
	Copy(text string) error
}

// System copies to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API, whichever atotto/clipboard finds).
type System struct{}

func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return nil
}

// CopyQuiet copies text and reports success. Failures are logged and
// swallowed; callers treat false as "leave the UI as it was".
func CopyQuiet(c Copier, text string, logger *log.Logger) bool {
	if c == nil {
		c = System{}
	}
	if err := c.Copy(text); err != nil {
		if logger != nil {
			logger.Printf("clipboard: copy failed: %v", err)
		}
		return false
	}
	return true
}

// Func adapts a function to Copier.
type Func func(text string) error

func (f Func) Copy(text string) error { return f(text) }
