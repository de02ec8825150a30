package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/webpilot/webpilot/pkg/executor"
	"github.com/webpilot/webpilot/pkg/types"
)

// HandleItem dispatches one conversation item: messages are observed,
// function calls and computer calls are executed against the action
// executor. It returns the follow-up items (call outputs) to append to
// the conversation; unknown item kinds are a no-op.
func (a *Agent) HandleItem(item *types.Item) ([]*types.Item, error) {
	switch item.Type {
	case types.ItemTypeMessage:
		if text := item.Content.Text(); text != "" && a.observer != nil {
			a.observer(text)
		}
		return nil, nil

	case types.ItemTypeFunctionCall:
		return a.handleFunctionCall(item)

	case types.ItemTypeComputerCall:
		return a.handleComputerCall(item)

	default:
		return nil, nil
	}
}

// handleFunctionCall invokes the named capability if the executor exposes
// it; unexposed names are silently skipped. The output is always the
// fixed success marker: the contract deliberately does not propagate the
// capability's own return value.
func (a *Agent) handleFunctionCall(item *types.Item) ([]*types.Item, error) {
	args := make(map[string]interface{})
	if item.Arguments != "" {
		if err := json.Unmarshal([]byte(item.Arguments), &args); err != nil {
			return nil, fmt.Errorf("invalid function call arguments for %s: %w", item.Name, err)
		}
	}

	agentLog.Debugf("function call %s(%v)", item.Name, args)

	if a.computer != nil {
		if err := executor.Invoke(a.computer, item.Name, args); err != nil {
			if !errors.Is(err, executor.ErrCapabilityMissing) {
				return nil, err
			}
			agentLog.Debugf("skipping unknown capability %s", item.Name)
		}
	}

	return []*types.Item{{
		Type:   types.ItemTypeFunctionCallOutput,
		CallID: item.CallID,
		Output: &types.CallOutput{Text: "success"},
	}}, nil
}

// handleComputerCall executes the proposed action, captures a screenshot
// unconditionally, resolves pending safety checks, and for browser-like
// executors attaches the current URL after checking it against the
// denylist.
func (a *Agent) handleComputerCall(item *types.Item) ([]*types.Item, error) {
	if a.computer == nil {
		return nil, fmt.Errorf("computer call received but no action executor is attached")
	}

	kind := item.ActionType()
	args := item.ActionArgs()
	agentLog.Debugf("computer call %s(%v)", kind, args)

	if err := executor.Invoke(a.computer, kind, args); err != nil {
		return nil, fmt.Errorf("action %s failed: %w", kind, err)
	}

	screenshot, err := a.computer.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("post-action screenshot failed: %w", err)
	}

	acknowledged, err := a.resolveSafetyChecks(item.PendingSafetyChecks)
	if err != nil {
		return nil, err
	}

	output := &types.ImageOutput{
		Type:     "input_image",
		ImageURL: "data:image/png;base64," + screenshot,
	}

	if strings.EqualFold(a.computer.GetEnvironment(), executor.EnvironmentBrowser) {
		browser, ok := a.computer.(executor.BrowserComputer)
		if ok {
			currentURL, err := browser.GetCurrentURL()
			if err != nil {
				return nil, fmt.Errorf("failed to read current URL: %w", err)
			}
			if a.blocklist != nil {
				if pattern := a.blocklist.Check(currentURL); pattern != "" {
					return nil, &BlockedURLError{URL: currentURL, Pattern: pattern}
				}
			}
			output.CurrentURL = currentURL
		}
	}

	return []*types.Item{{
		Type:                     types.ItemTypeComputerCallOutput,
		CallID:                   item.CallID,
		AcknowledgedSafetyChecks: acknowledged,
		Output:                   &types.CallOutput{Image: output},
	}}, nil
}

// resolveSafetyChecks acknowledges each pending check. Checks already in
// the registry are skipped; non-sensitive checks are auto-acknowledged; a
// check whose message mentions financial or payment concerns goes through
// the acknowledgment callback and aborts the call if declined. The full
// pending list is reported back as acknowledged once every check clears.
func (a *Agent) resolveSafetyChecks(pending []types.SafetyCheck) ([]types.SafetyCheck, error) {
	for _, check := range pending {
		if _, seen := a.acknowledged[check.Message]; seen {
			continue
		}

		lower := strings.ToLower(check.Message)
		if !strings.Contains(lower, "financial") && !strings.Contains(lower, "payment") {
			a.acknowledged[check.Message] = struct{}{}
			continue
		}

		if !a.acknowledge(check.Message) {
			return nil, &SafetyCheckRejectedError{Check: check}
		}
		a.acknowledged[check.Message] = struct{}{}
	}
	return pending, nil
}
