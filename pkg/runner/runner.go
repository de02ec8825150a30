// Package runner implements the test-case supervisor: the bounded outer
// loop that drives one test case block to a Pass/Fail verdict through the
// conversation driver, and the batch orchestration around it.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/webpilot/webpilot/pkg/agent"
	"github.com/webpilot/webpilot/pkg/executor"
	"github.com/webpilot/webpilot/pkg/instructions"
	"github.com/webpilot/webpilot/pkg/logging"
	"github.com/webpilot/webpilot/pkg/types"
	"github.com/webpilot/webpilot/pkg/verdict"
)

var runnerLog *logging.Logger

func init() {
	var err error
	runnerLog, err = logging.NewLogger("runner")
	if err != nil {
		runnerLog.Warnf("failed to initialize runner logger, using stderr fallback: %v", err)
	}
}

// testCasePreamble directs the decision service toward an explicit
// terminal Pass or Fail statement.
const testCasePreamble = `You are controlling a real browser for automated testing.
Execute the following test case step by step.
After completing all verification steps, provide a clear final verdict.
State either "Pass" or "Fail" as your final answer.

`

// continuationPrompt is surfaced when the assistant declares work
// completed without a verdict; it keeps the test case open.
const continuationPrompt = "Task completed. Would you like me to do anything else?"

// cutoffNote is appended to the log when the turn budget runs out.
const cutoffNote = "\n\n[Test incomplete: Maximum execution turns reached]"

// Reporter persists test case results into the session report.
type Reporter interface {
	Append(sessionID string, result types.TestCaseResult) (*types.Session, error)
}

// Options bound the supervisor loop.
type Options struct {
	// MaxTurns caps the decision turns per test case. Zero means the
	// default of 20.
	MaxTurns int
	// InputTimeout bounds a human-input wait. Zero waits indefinitely.
	InputTimeout time.Duration
	// CasePause is the settle time between test cases in a batch.
	CasePause time.Duration
}

// Runner executes batches of test cases on one shared action executor
// session and one agent. A Runner is owned by a single batch worker; test
// cases within the batch run strictly sequentially.
type Runner struct {
	agent    *agent.Agent
	computer executor.Computer
	reporter Reporter
	opts     Options
}

// New creates a runner. The executor is shared with the agent; browser
// state intentionally carries over between test cases.
func New(ag *agent.Agent, computer executor.Computer, reporter Reporter, opts Options) *Runner {
	if opts.MaxTurns == 0 {
		opts.MaxTurns = 20
	}
	if opts.CasePause == 0 {
		opts.CasePause = 2 * time.Second
	}
	return &Runner{agent: ag, computer: computer, reporter: reporter, opts: opts}
}

// RunBatch segments the instruction payload and runs each block to a
// verdict. Errors inside one test case are contained to that case; batch
// setup failures mark the whole task as errored.
func (r *Runner) RunBatch(ctx context.Context, task *Task, rawInstructions string) {
	sessionID := fmt.Sprintf("session_%d", time.Now().UnixMilli())
	runnerLog.Infof("starting session %s for task %s", sessionID, task.ID)

	blocks := instructions.Segment(rawInstructions)
	if len(blocks) > 1 {
		runnerLog.Infof("detected %d test cases", len(blocks))
	}

	// Navigate to a start URL declared anywhere in the payload before the
	// first test case runs.
	if startURL := instructions.ExtractURL(rawInstructions); startURL != "" {
		if err := r.navigate(startURL); err != nil {
			runnerLog.Errorf("start navigation failed: %v", err)
			task.setStatus(StatusError, "Error: "+err.Error())
			return
		}
	}

	for i, block := range blocks {
		r.RunTestCase(ctx, task, block, sessionID)

		if block.Tagged() && len(blocks) > 1 && i < len(blocks)-1 {
			time.Sleep(r.opts.CasePause)
		}
	}

	task.setStatus(StatusCompleted, fmt.Sprintf("All test cases completed. Total: %d", len(blocks)))
}

// RunTestCase drives one block to a verdict and records the result. It
// never returns an error: any failure forces a Fail result carrying the
// error text.
func (r *Runner) RunTestCase(ctx context.Context, task *Task, block types.TestCaseBlock, sessionID string) {
	if block.Tagged() {
		runnerLog.Infof("starting test case %s - %s", block.Number, block.Name)
	}
	task.setTestCase(block.Number, block.Name)
	if block.Tagged() {
		task.setStatus(StatusRunning, "Running test case "+block.Number)
	} else {
		task.setStatus(StatusRunning, "Task started")
	}

	// The safety check registry is scoped to one conversation lifetime.
	r.agent.ResetSafetyRegistry()

	if err := r.prepare(block); err != nil {
		r.failTestCase(task, block, sessionID, err)
		return
	}

	conv := types.Conversation{types.NewUserItem(testCasePreamble + block.Text)}
	var log []string

	for turn := 1; turn <= r.opts.MaxTurns; turn++ {
		if task.NeedsInput() {
			response, err := task.awaitInput(ctx, r.opts.InputTimeout)
			if err != nil {
				r.failTestCase(task, block, sessionID, err)
				return
			}
			conv = conv.Append(types.NewUserItem(response))
		}

		runnerLog.Debugf("executing turn %d/%d", turn, r.opts.MaxTurns)
		var newItems []*types.Item
		conv, newItems = r.agent.RunTurn(ctx, conv)
		if ctx.Err() != nil {
			r.failTestCase(task, block, sessionID, ctx.Err())
			return
		}

		turnTexts, screenshot := collectOutputs(newItems)
		if screenshot != "" {
			task.setScreenshot(screenshot)
		}
		log = append(log, turnTexts...)
		task.setTerminalOutput(strings.Join(log, "\n"))

		lastOutput := ""
		if len(turnTexts) > 0 {
			lastOutput = turnTexts[len(turnTexts)-1]
		}
		lower := strings.ToLower(lastOutput)
		runnerLog.Debugf("turn %d last output: %s", turn, lastOutput)

		if isTerminalStatement(lastOutput) {
			result := verdict.Classify(strings.Join(log, "\n"))
			r.saveResult(task, block, sessionID, result, strings.Join(log, "\n"))
			task.setStatus(StatusRunning, fmt.Sprintf("Test Case %s completed - %s", block.Number, result))
			return
		}

		if strings.Contains(lastOutput, "?") {
			if response := autoResponse(lower); response != "" {
				runnerLog.Debugf("auto-responding %q to: %s", response, lastOutput)
				task.setStatus(StatusRunning, "Auto-responding to procedural question")
				conv = conv.Append(types.NewUserItem(response))
				continue
			}
			task.requestInput(lastOutput, StatusWaitingForInput, "Waiting for user input")
			continue
		}

		if strings.Contains(lower, "completed") {
			// Surface a continuation prompt without ending the test case.
			task.requestInput(continuationPrompt, StatusCompleted, "Task completed")
		}
	}

	// Turn budget exhausted without an explicit verdict. Classify what we
	// have; an Unknown outcome is conservatively downgraded to Fail.
	runnerLog.Warnf("max turns (%d) reached without a verdict", r.opts.MaxTurns)
	output := strings.Join(log, "\n")
	result := verdict.Classify(output)
	if result == types.VerdictUnknown {
		result = types.VerdictFail
		output += cutoffNote
	}
	r.saveResult(task, block, sessionID, result, output)
}

// prepare navigates to a URL named inside the block, giving the page a
// moment to settle before the first decision request.
func (r *Runner) prepare(block types.TestCaseBlock) error {
	startURL := instructions.ExtractURL(block.Text)
	if startURL == "" {
		return nil
	}
	if err := r.navigate(startURL); err != nil {
		return err
	}
	return r.computer.Wait(2000)
}

func (r *Runner) navigate(url string) error {
	browser, ok := r.computer.(executor.BrowserComputer)
	if !ok {
		return nil
	}
	runnerLog.Infof("navigating to %s", url)
	return browser.Goto(url)
}

func (r *Runner) failTestCase(task *Task, block types.TestCaseBlock, sessionID string, cause error) {
	runnerLog.Errorf("test case %s aborted: %v", block.Number, cause)
	task.setStatus(StatusError, "Error: "+cause.Error())
	r.saveResult(task, block, sessionID, types.VerdictFail, "Error: "+cause.Error())
}

func (r *Runner) saveResult(task *Task, block types.TestCaseBlock, sessionID string, result types.Verdict, output string) {
	name := block.Name
	if name == "" {
		name = "Unknown Test"
	}

	record := types.TestCaseResult{
		Number:         block.Number,
		Name:           name,
		Result:         result,
		ExecutedAt:     time.Now().Format("2006-01-02 15:04:05"),
		Instructions:   strings.TrimSpace(block.Text),
		TerminalOutput: output,
		Screenshot:     task.getScreenshot(),
	}

	if _, err := r.reporter.Append(sessionID, record); err != nil {
		runnerLog.Errorf("failed to record result for test case %s: %v", block.Number, err)
	} else {
		runnerLog.Infof("test case %s - %s - saved to report", block.Number, result)
	}
	task.setTestResult(result, fmt.Sprintf("Test Case %s completed - %s", block.Number, result))
}

// collectOutputs extracts all non-empty text fragments from a turn's items
// in order, plus the most recent screenshot carried by a computer call
// output.
func collectOutputs(items []*types.Item) ([]string, string) {
	var texts []string
	var screenshot string

	for _, item := range items {
		if item.Type == types.ItemTypeComputerCallOutput && item.Output != nil && item.Output.Image != nil {
			imageURL := item.Output.Image.ImageURL
			if idx := strings.Index(imageURL, ","); idx >= 0 && strings.HasPrefix(imageURL, "data:image/png;base64,") {
				screenshot = imageURL[idx+1:]
			}
		}

		for _, part := range item.Content {
			text := strings.TrimSpace(part.Text)
			if text != "" {
				texts = append(texts, text)
			}
		}
	}
	return texts, screenshot
}

// isTerminalStatement reports whether the turn's last output declares a
// verdict, either as a bare Pass/Fail word or as an explicit phrase.
func isTerminalStatement(lastOutput string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(lastOutput))
	switch trimmed {
	case "pass", "fail", "passed", "failed":
		return true
	}

	for _, phrase := range []string{
		"test case is passed",
		"test case is failed",
		"result: pass",
		"result: fail",
	} {
		if strings.Contains(trimmed, phrase) {
			return true
		}
	}
	return false
}

// autoResponse answers procedural questions so routine confirmations do
// not stall the run. Non-procedural questions return "" and escalate to a
// human.
func autoResponse(lower string) string {
	if strings.Contains(lower, "should i") || strings.Contains(lower, "proceed") ||
		strings.Contains(lower, "shall i") || strings.Contains(lower, "go ahead") {
		return "yes, proceed"
	}
	if strings.Contains(lower, "do you want") || strings.Contains(lower, "would you like") {
		return "yes"
	}
	return ""
}
