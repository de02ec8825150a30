package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/webpilot/webpilot/pkg/types"
)

// Status is the externally visible state of a batch task.
type Status string

const (
	StatusPending         Status = "pending"
	StatusRunning         Status = "running"
	StatusWaitingForInput Status = "waiting_for_input"
	StatusCompleted       Status = "completed"
	StatusError           Status = "error"
)

// ErrInputTimeout reports that a human-input wait expired before a
// response arrived.
var ErrInputTimeout = errors.New("timed out waiting for user input")

// Task tracks one batch execution: its status, the latest prompt awaiting
// human input, and the most recent terminal output and screenshot. All
// accessors are safe for concurrent use; the HTTP front end reads while
// the worker writes.
type Task struct {
	ID string

	mu             sync.Mutex
	status         Status
	message        string
	instructions   string
	needsInput     bool
	prompt         string
	terminalOutput string
	screenshot     string
	testCaseNumber string
	testCaseName   string
	testResult     types.Verdict

	input chan string
}

// NewTask creates a queued task for the given instruction payload.
func NewTask(id, instructions string) *Task {
	return &Task{
		ID:           id,
		status:       StatusPending,
		message:      "Task queued",
		instructions: instructions,
		input:        make(chan string, 1),
	}
}

// Snapshot is a point-in-time copy of the task state for observers.
type Snapshot struct {
	ID             string        `json:"task_id"`
	Status         Status        `json:"status"`
	Message        string        `json:"message"`
	Instructions   string        `json:"instructions"`
	NeedsInput     bool          `json:"needs_input"`
	Prompt         string        `json:"prompt,omitempty"`
	TerminalOutput string        `json:"terminal_output,omitempty"`
	Screenshot     string        `json:"screenshot,omitempty"`
	TestCaseNumber string        `json:"test_case_number,omitempty"`
	TestCaseName   string        `json:"test_case_name,omitempty"`
	TestResult     types.Verdict `json:"test_result,omitempty"`
}

// Snapshot returns a copy of the current task state.
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		ID:             t.ID,
		Status:         t.status,
		Message:        t.message,
		Instructions:   t.instructions,
		NeedsInput:     t.needsInput,
		Prompt:         t.prompt,
		TerminalOutput: t.terminalOutput,
		Screenshot:     t.screenshot,
		TestCaseNumber: t.testCaseNumber,
		TestCaseName:   t.testCaseName,
		TestResult:     t.testResult,
	}
}

func (t *Task) setStatus(status Status, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	t.message = message
}

func (t *Task) setTestCase(number, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.testCaseNumber = number
	t.testCaseName = name
	t.needsInput = false
	t.prompt = ""
}

func (t *Task) setTerminalOutput(output string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.terminalOutput = output
}

func (t *Task) setScreenshot(screenshot string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screenshot = screenshot
}

func (t *Task) getScreenshot() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screenshot
}

func (t *Task) setTestResult(result types.Verdict, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.testResult = result
	t.message = message
}

// requestInput marks the task as waiting for a human response to prompt.
// The status argument distinguishes a hard suspension (waiting_for_input)
// from the soft continuation prompt raised after a "completed" statement.
func (t *Task) requestInput(prompt string, status Status, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.needsInput = true
	t.prompt = prompt
	t.status = status
	t.message = message
}

// Fail marks the task as errored before its runner ever started, e.g.
// when the browser executor cannot be launched.
func (t *Task) Fail(message string) {
	t.setStatus(StatusError, message)
}

// Prompt returns the question currently awaiting a human response, or ""
// when none is pending.
func (t *Task) Prompt() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.prompt
}

// NeedsInput reports whether the task is waiting for a human response.
func (t *Task) NeedsInput() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.needsInput
}

// ProvideInput delivers a human response to a waiting task. Responses
// arriving when nothing waits are dropped.
func (t *Task) ProvideInput(response string) {
	t.mu.Lock()
	if !t.needsInput {
		t.mu.Unlock()
		return
	}
	t.needsInput = false
	t.prompt = ""
	t.mu.Unlock()

	select {
	case t.input <- response:
	default:
		// A previous response is still unconsumed; keep the first one.
	}
}

// awaitInput blocks until a human response arrives, the timeout expires,
// or the context is cancelled. A zero timeout waits indefinitely.
func (t *Task) awaitInput(ctx context.Context, timeout time.Duration) (string, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-expired:
		return "", ErrInputTimeout
	case response := <-t.input:
		return response, nil
	}
}
