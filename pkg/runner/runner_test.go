package runner

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webpilot/webpilot/pkg/agent"
	"github.com/webpilot/webpilot/pkg/executor"
	"github.com/webpilot/webpilot/pkg/llm"
	"github.com/webpilot/webpilot/pkg/types"
)

type scriptedClient struct {
	mu        sync.Mutex
	responses []*llm.Response
	requests  []*llm.Request
}

func (c *scriptedClient) CreateResponse(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if len(c.responses) == 0 {
		return &llm.Response{Output: []*types.Item{types.NewAssistantItem("Result: Pass")}}, nil
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func assistantResponse(text string) *llm.Response {
	return &llm.Response{Output: []*types.Item{types.NewAssistantItem(text)}}
}

type fakeBrowser struct {
	mu     sync.Mutex
	gotos  []string
	waits  []int
	curURL string
}

func (f *fakeBrowser) Screenshot() (string, error)      { return "c2NyZWVu", nil }
func (f *fakeBrowser) Click(x, y int, b string) error   { return nil }
func (f *fakeBrowser) DoubleClick(x, y int) error       { return nil }
func (f *fakeBrowser) Scroll(x, y, sx, sy int) error    { return nil }
func (f *fakeBrowser) Type(text string) error           { return nil }
func (f *fakeBrowser) Keypress(keys []string) error     { return nil }
func (f *fakeBrowser) Move(x, y int) error              { return nil }
func (f *fakeBrowser) Drag(path []executor.Point) error { return nil }
func (f *fakeBrowser) GetDimensions() (int, int)        { return 1024, 768 }
func (f *fakeBrowser) GetEnvironment() string           { return executor.EnvironmentBrowser }
func (f *fakeBrowser) Back() error                      { return nil }
func (f *fakeBrowser) Forward() error                   { return nil }

func (f *fakeBrowser) Wait(ms int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waits = append(f.waits, ms)
	return nil
}

func (f *fakeBrowser) Goto(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotos = append(f.gotos, url)
	f.curURL = url
	return nil
}

func (f *fakeBrowser) GetCurrentURL() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.curURL, nil
}

type fakeReporter struct {
	mu      sync.Mutex
	results []types.TestCaseResult
}

func (f *fakeReporter) Append(sessionID string, result types.TestCaseResult) (*types.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
	session := &types.Session{SessionID: sessionID, TestCases: f.results}
	session.Summary = types.ComputeSummary(f.results)
	return session, nil
}

func newTestRunner(client llm.Client, opts Options) (*Runner, *fakeBrowser, *fakeReporter) {
	browser := &fakeBrowser{}
	reporter := &fakeReporter{}
	ag := agent.New(client, browser)
	return New(ag, browser, reporter, opts), browser, reporter
}

func TestRunTestCaseStopsOnVerdict(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("Opening the page now."),
		assistantResponse("All checks done. The test case is passed"),
	}}
	r, _, reporter := newTestRunner(client, Options{})
	task := NewTask("t1", "")

	block := types.TestCaseBlock{Number: "1.1", Name: "Login Validation", Text: "Verify the login form."}
	r.RunTestCase(context.Background(), task, block, "session_1")

	require.Len(t, reporter.results, 1)
	result := reporter.results[0]
	assert.Equal(t, "1.1", result.Number)
	assert.Equal(t, "Login Validation", result.Name)
	assert.Equal(t, types.VerdictPass, result.Result)
	assert.Equal(t, "Verify the login form.", result.Instructions)
	assert.Contains(t, result.TerminalOutput, "Opening the page now.")

	// Only two decision turns were needed.
	assert.Len(t, client.requests, 2)

	snap := task.Snapshot()
	assert.Equal(t, types.VerdictPass, snap.TestResult)
	assert.Contains(t, snap.TerminalOutput, "test case is passed")
}

func TestRunTestCaseNavigatesToBlockURL(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("Result: Pass"),
	}}
	r, browser, _ := newTestRunner(client, Options{})
	task := NewTask("t1", "")

	block := types.TestCaseBlock{Number: "2", Name: "Landing", Text: "Open https://example.com/start and verify the banner."}
	r.RunTestCase(context.Background(), task, block, "session_1")

	assert.Equal(t, []string{"https://example.com/start"}, browser.gotos)
	assert.Equal(t, []int{2000}, browser.waits)
}

func TestRunTestCaseTurnExhaustion(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("Still looking around the page"),
		assistantResponse("Still looking around the page"),
	}}
	r, _, reporter := newTestRunner(client, Options{MaxTurns: 2})
	task := NewTask("t1", "")

	r.RunTestCase(context.Background(), task, types.TestCaseBlock{Number: "3", Name: "Slow Case", Text: "Check things."}, "session_1")

	require.Len(t, reporter.results, 1)
	result := reporter.results[0]
	assert.Equal(t, types.VerdictFail, result.Result)
	assert.Contains(t, result.TerminalOutput, "[Test incomplete: Maximum execution turns reached]")
	assert.Len(t, client.requests, 2)
}

func TestRunTestCaseExhaustionKeepsClassifiableVerdict(t *testing.T) {
	// The last turn mentions a failure but never states a verdict; the
	// classifier still resolves it without the cutoff note.
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("The submit button was not found on the page"),
	}}
	r, _, reporter := newTestRunner(client, Options{MaxTurns: 1})
	task := NewTask("t1", "")

	r.RunTestCase(context.Background(), task, types.TestCaseBlock{Number: "4", Name: "Missing Button", Text: "Click submit."}, "session_1")

	require.Len(t, reporter.results, 1)
	assert.Equal(t, types.VerdictFail, reporter.results[0].Result)
	assert.NotContains(t, reporter.results[0].TerminalOutput, "[Test incomplete")
}

func TestRunTestCaseAutoAnswersProceduralQuestions(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("Should I proceed with submitting the form?"),
		assistantResponse("Form submitted. Result: Pass"),
	}}
	r, _, reporter := newTestRunner(client, Options{})
	task := NewTask("t1", "")

	r.RunTestCase(context.Background(), task, types.TestCaseBlock{Number: "5", Name: "Form", Text: "Submit the form."}, "session_1")

	require.Len(t, reporter.results, 1)
	assert.Equal(t, types.VerdictPass, reporter.results[0].Result)
	assert.False(t, task.NeedsInput())

	// The second request carries the auto-answer as a user message.
	require.Len(t, client.requests, 2)
	last := client.requests[1].Input.Last()
	assert.Equal(t, types.RoleUser, last.Role)
	assert.Equal(t, "yes, proceed", last.Content.Text())
}

func TestRunTestCaseEscalatesNonProceduralQuestions(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("What is the one-time passcode shown on your device?"),
		assistantResponse("Code accepted. Result: Pass"),
	}}
	r, _, reporter := newTestRunner(client, Options{InputTimeout: time.Second})
	task := NewTask("t1", "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.RunTestCase(context.Background(), task, types.TestCaseBlock{Number: "6", Name: "OTP", Text: "Enter the code."}, "session_1")
	}()

	require.Eventually(t, task.NeedsInput, time.Second, 5*time.Millisecond)
	assert.Equal(t, StatusWaitingForInput, task.Snapshot().Status)
	assert.Contains(t, task.Prompt(), "one-time passcode")

	task.ProvideInput("123456")
	<-done

	require.Len(t, reporter.results, 1)
	assert.Equal(t, types.VerdictPass, reporter.results[0].Result)

	last := client.requests[1].Input.Last()
	assert.Equal(t, "123456", last.Content.Text())
}

func TestRunTestCaseInputTimeoutFails(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("Which account should I open?"),
	}}
	r, _, reporter := newTestRunner(client, Options{InputTimeout: 20 * time.Millisecond})
	task := NewTask("t1", "")

	r.RunTestCase(context.Background(), task, types.TestCaseBlock{Number: "7", Name: "Accounts", Text: "Open the account."}, "session_1")

	require.Len(t, reporter.results, 1)
	result := reporter.results[0]
	assert.Equal(t, types.VerdictFail, result.Result)
	assert.Contains(t, result.TerminalOutput, "timed out waiting for user input")
	assert.Equal(t, StatusError, task.Snapshot().Status)
}

func TestRunTestCaseContinuationOnCompleted(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("All the requested steps are completed."),
		assistantResponse("Verified the summary page. Result: Pass"),
	}}
	r, _, reporter := newTestRunner(client, Options{InputTimeout: time.Second})
	task := NewTask("t1", "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.RunTestCase(context.Background(), task, types.TestCaseBlock{Number: "8", Name: "Summary", Text: "Check the summary."}, "session_1")
	}()

	require.Eventually(t, task.NeedsInput, time.Second, 5*time.Millisecond)
	assert.Equal(t, StatusCompleted, task.Snapshot().Status)
	assert.Equal(t, "Task completed. Would you like me to do anything else?", task.Prompt())

	task.ProvideInput("also verify the summary page")
	<-done

	require.Len(t, reporter.results, 1)
	assert.Equal(t, types.VerdictPass, reporter.results[0].Result)
}

func TestRunTestCaseRecordsScreenshot(t *testing.T) {
	call := &types.Item{
		Type:   types.ItemTypeComputerCall,
		CallID: "call_1",
		Action: map[string]interface{}{"type": "click", "x": float64(1), "y": float64(2)},
	}
	client := &scriptedClient{responses: []*llm.Response{
		{Output: []*types.Item{call}},
		assistantResponse("Result: Pass"),
	}}
	r, _, reporter := newTestRunner(client, Options{})
	task := NewTask("t1", "")

	r.RunTestCase(context.Background(), task, types.TestCaseBlock{Number: "9", Name: "Click", Text: "Click it."}, "session_1")

	require.Len(t, reporter.results, 1)
	assert.Equal(t, "c2NyZWVu", reporter.results[0].Screenshot)
	assert.Equal(t, "c2NyZWVu", task.Snapshot().Screenshot)
}

func TestRunBatchMultipleCases(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("Result: Pass"),
		assistantResponse("Result: Fail"),
	}}
	r, browser, reporter := newTestRunner(client, Options{CasePause: time.Millisecond})
	task := NewTask("t1", "")

	instructions := `Open https://demo.example.com/login first.

TestCase Number - 1.1, Login: Sign in and verify the dashboard. Update the result in one word (Pass/Fail) in report against this test case number.

TestCase Number - 1.2, Logout: Sign out and verify the login page. Update the result in one word (Pass/Fail) in report against this test case number.`

	r.RunBatch(context.Background(), task, instructions)

	require.Len(t, reporter.results, 2)
	assert.Equal(t, "1.1", reporter.results[0].Number)
	assert.Equal(t, types.VerdictPass, reporter.results[0].Result)
	assert.Equal(t, "1.2", reporter.results[1].Number)
	assert.Equal(t, types.VerdictFail, reporter.results[1].Result)

	// The batch start URL is visited once before the first case, then the
	// first block repeats it in its own text.
	assert.Equal(t, "https://demo.example.com/login", browser.gotos[0])

	snap := task.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, "All test cases completed. Total: 2", snap.Message)
}

func TestRunBatchUntaggedInstructions(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("The banner appears correctly. Result: Pass"),
	}}
	r, _, reporter := newTestRunner(client, Options{})
	task := NewTask("t1", "")

	r.RunBatch(context.Background(), task, "Open the home page and verify the banner.")

	require.Len(t, reporter.results, 1)
	assert.Empty(t, reporter.results[0].Number)
	assert.Equal(t, "Unknown Test", reporter.results[0].Name)
	assert.Equal(t, types.VerdictPass, reporter.results[0].Result)
}

func TestRunTestCaseCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &scriptedClient{responses: []*llm.Response{
		assistantResponse("Working on it"),
	}}
	r, _, reporter := newTestRunner(client, Options{})
	task := NewTask("t1", "")
	cancel()

	r.RunTestCase(ctx, task, types.TestCaseBlock{Number: "10", Name: "Cancelled", Text: "Do things."}, "session_1")

	require.Len(t, reporter.results, 1)
	assert.Equal(t, types.VerdictFail, reporter.results[0].Result)
	assert.True(t, strings.Contains(reporter.results[0].TerminalOutput, context.Canceled.Error()))
}

func TestIsTerminalStatement(t *testing.T) {
	assert.True(t, isTerminalStatement("Pass"))
	assert.True(t, isTerminalStatement("  failed  "))
	assert.True(t, isTerminalStatement("The test case is passed"))
	assert.True(t, isTerminalStatement("Result: Fail. See the log."))
	assert.False(t, isTerminalStatement("All assertions passed so far"))
	assert.False(t, isTerminalStatement(""))
}

func TestAutoResponse(t *testing.T) {
	assert.Equal(t, "yes, proceed", autoResponse("should i click the red button?"))
	assert.Equal(t, "yes, proceed", autoResponse("shall i continue?"))
	assert.Equal(t, "yes", autoResponse("do you want me to retry?"))
	assert.Equal(t, "yes", autoResponse("would you like a summary?"))
	assert.Empty(t, autoResponse("what is the account number?"))
}
