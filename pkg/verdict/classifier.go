// Package verdict classifies a test case's terminal output into a
// Pass/Fail/Unknown verdict. The heuristics are deliberately simple string
// containment over natural language; the tie-break order (suffix match,
// explicit phrase, failure keyword, success keyword, Unknown) is a fixed
// policy and must not be reordered.
package verdict

import (
	"strings"

	"github.com/webpilot/webpilot/pkg/types"
)

// finalWindow bounds the suffix and explicit-phrase checks to the tail of
// the log, where the final verdict statement lives.
const finalWindow = 500

// Failure keywords are scanned before success keywords: on ambiguous
// output, failure wins.
var failIndicators = []string{
	"unable to", "cannot", "error", "failed", "failure",
	"incorrect", "does not match", "not found", "not visible",
	"blocked", "denied", "locked out",
}

var successIndicators = []string{
	"passed", "successful", "verified", "correct", "appears correctly",
	"displayed", "loaded", "visible", "confirmation", "completed successfully",
}

// Classify inspects the accumulated output log and returns the verdict.
func Classify(output string) types.Verdict {
	lower := strings.ToLower(output)

	lastPart := lower
	if len(output) > finalWindow {
		lastPart = strings.ToLower(output[len(output)-finalWindow:])
	}

	// Explicit Pass/Fail at the very end wins over everything else.
	tail := strings.TrimSpace(lastPart)
	if strings.HasSuffix(tail, "pass") || strings.HasSuffix(tail, "passed") {
		return types.VerdictPass
	}
	if strings.HasSuffix(tail, "fail") || strings.HasSuffix(tail, "failed") {
		return types.VerdictFail
	}

	if strings.Contains(lastPart, "test case is passed") || strings.Contains(lastPart, "result: pass") {
		return types.VerdictPass
	}
	if strings.Contains(lastPart, "test case is failed") || strings.Contains(lastPart, "result: fail") {
		return types.VerdictFail
	}

	for _, indicator := range failIndicators {
		if strings.Contains(lower, indicator) {
			return types.VerdictFail
		}
	}

	for _, indicator := range successIndicators {
		if strings.Contains(lower, indicator) {
			return types.VerdictPass
		}
	}

	return types.VerdictUnknown
}
