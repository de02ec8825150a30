package agent

import (
	"fmt"

	"github.com/webpilot/webpilot/pkg/types"
)

// SafetyCheckRejectedError reports that a sensitive pending safety check
// was declined by the acknowledgment callback. It aborts the current
// computer call but never the batch.
type SafetyCheckRejectedError struct {
	Check types.SafetyCheck
}

func (e *SafetyCheckRejectedError) Error() string {
	return fmt.Sprintf("safety check rejected: %s. Cannot proceed with financial transactions.", e.Check.Message)
}

// BlockedURLError reports that a computer call left the browser on a
// denylisted URL.
type BlockedURLError struct {
	URL     string
	Pattern string
}

func (e *BlockedURLError) Error() string {
	return fmt.Sprintf("navigation to blocked URL %s (matched %q)", e.URL, e.Pattern)
}
