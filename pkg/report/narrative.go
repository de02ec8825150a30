package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/webpilot/webpilot/pkg/types"
)

// Completer produces a plain-text completion for a system+user prompt
// pair. The openai chat provider satisfies it.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const narrativeSystemPrompt = "You are a QA lead. Write a short executive summary " +
	"(3-5 sentences, plain text, no markdown) of an automated browser test session. " +
	"Mention the overall pass rate and call out the failed test cases with their likely causes."

// GenerateNarrative composes an executive summary of a finished session.
// It is a best-effort supplement: the report is complete without it, and
// callers should degrade gracefully when no completer is available.
func GenerateNarrative(ctx context.Context, completer Completer, session *types.Session) (string, error) {
	if session == nil || len(session.TestCases) == 0 {
		return "", fmt.Errorf("no test cases to summarize")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session %s executed %s: %d total, %d passed, %d failed, %d unknown (pass rate %s).\n\n",
		session.SessionID, session.ExecutionDate,
		session.Summary.TotalTests, session.Summary.Passed,
		session.Summary.Failed, session.Summary.Unknown, session.Summary.PassRate)

	for _, tc := range session.TestCases {
		fmt.Fprintf(&b, "Test case %s (%s): %s\n", tc.Number, tc.Name, tc.Result)
		if tc.Result != types.VerdictPass {
			output := tc.TerminalOutput
			if len(output) > 400 {
				output = output[len(output)-400:]
			}
			fmt.Fprintf(&b, "  final output: %s\n", output)
		}
	}

	return completer.Complete(ctx, narrativeSystemPrompt, b.String())
}
