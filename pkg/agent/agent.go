// Package agent implements the conversation driver and turn dispatcher:
// the loop that feeds a conversation to the decision service and executes
// the actions each response proposes against the action executor.
package agent

import (
	"github.com/webpilot/webpilot/pkg/executor"
	"github.com/webpilot/webpilot/pkg/llm"
	"github.com/webpilot/webpilot/pkg/llm/tokenizer"
	"github.com/webpilot/webpilot/pkg/logging"
	"github.com/webpilot/webpilot/pkg/policy"
)

var agentLog *logging.Logger

func init() {
	var err error
	agentLog, err = logging.NewLogger("agent")
	if err != nil {
		agentLog.Warnf("failed to initialize agent logger, using stderr fallback: %v", err)
	}
}

// AcknowledgeFunc decides whether a sensitive safety check may proceed.
type AcknowledgeFunc func(message string) bool

// MessageObserver receives assistant message text as it is dispatched.
type MessageObserver func(text string)

// Agent drives one conversation against the decision service. It owns the
// safety check registry for the current test case and shares the action
// executor across test cases in a batch.
type Agent struct {
	client      llm.Client
	model       string
	computer    executor.Computer
	blocklist   *policy.Blocklist
	tools       []map[string]interface{}
	acknowledge AcknowledgeFunc
	observer    MessageObserver
	tokenizer   *tokenizer.Tokenizer

	// acknowledged is the safety check registry: a message present here is
	// never re-prompted within the current conversation.
	acknowledged map[string]struct{}
}

// Option configures an Agent.
type Option func(*Agent)

// WithModel sets the decision model named in every request.
func WithModel(model string) Option {
	return func(a *Agent) {
		a.model = model
	}
}

// WithTools adds extra capability descriptors to the set sent with every
// request. The computer tool descriptor is always present when an
// executor is attached.
func WithTools(tools []map[string]interface{}) Option {
	return func(a *Agent) {
		a.tools = append(a.tools, tools...)
	}
}

// WithAcknowledgeFunc sets the safety acknowledgment callback. The
// default policy approves everything.
func WithAcknowledgeFunc(fn AcknowledgeFunc) Option {
	return func(a *Agent) {
		if fn != nil {
			a.acknowledge = fn
		}
	}
}

// WithBlocklist sets the URL denylist checked after browser actions.
func WithBlocklist(b *policy.Blocklist) Option {
	return func(a *Agent) {
		a.blocklist = b
	}
}

// WithMessageObserver sets a callback invoked with the text of each
// assistant message as it is dispatched.
func WithMessageObserver(fn MessageObserver) Option {
	return func(a *Agent) {
		a.observer = fn
	}
}

// New creates an agent bound to a decision client and an action executor.
// When the executor is browser-like its display dimensions and environment
// become the computer tool descriptor, mirroring what the decision service
// expects to plan against.
func New(client llm.Client, computer executor.Computer, opts ...Option) *Agent {
	a := &Agent{
		client:       client,
		computer:     computer,
		acknowledge:  func(string) bool { return true },
		acknowledged: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(a)
	}

	if computer != nil {
		width, height := computer.GetDimensions()
		a.tools = append(a.tools, map[string]interface{}{
			"type":           "computer-preview",
			"display_width":  width,
			"display_height": height,
			"environment":    computer.GetEnvironment(),
		})
	}

	tok, err := tokenizer.New()
	if err != nil {
		agentLog.Warnf("tokenizer unavailable, skipping token accounting: %v", err)
	} else {
		a.tokenizer = tok
	}

	return a
}

// ResetSafetyRegistry clears the acknowledged safety checks. The runner
// calls this between test cases so the registry stays scoped to one
// conversation lifetime.
func (a *Agent) ResetSafetyRegistry() {
	a.acknowledged = make(map[string]struct{})
}
