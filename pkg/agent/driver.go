package agent

import (
	"context"

	"github.com/webpilot/webpilot/pkg/llm"
	"github.com/webpilot/webpilot/pkg/types"
)

// RunTurn drives the conversation until the decision service ends a turn
// with an assistant message that carries no further pending action. It
// returns the extended conversation and the items appended during this
// turn.
//
// RunTurn never panics through to the caller and never returns an error:
// service failures and dispatch errors are converted into a terminal
// assistant message so every conversation ends in readable text.
func (a *Agent) RunTurn(ctx context.Context, conv types.Conversation) (types.Conversation, []*types.Item) {
	var newItems []*types.Item

	appendItem := func(items ...*types.Item) {
		newItems = append(newItems, items...)
		conv = conv.Append(items...)
	}

	for len(newItems) == 0 || !newItems[len(newItems)-1].IsAssistantMessage() {
		if a.tokenizer != nil {
			agentLog.Debugf("requesting decision, conversation items=%d tokens~%d",
				len(conv), a.tokenizer.CountConversationTokens(conv))
		}

		resp, err := a.client.CreateResponse(ctx, &llm.Request{
			Model:      a.model,
			Input:      conv,
			Tools:      a.tools,
			Truncation: "auto",
		})
		if err != nil {
			agentLog.Errorf("decision request failed: %v", err)
			appendItem(types.NewAssistantItem("Error: " + err.Error()))
			return conv, newItems
		}

		if len(resp.Output) == 0 {
			message := "no output from decision service"
			if resp.Error != nil && resp.Error.Message != "" {
				message = resp.Error.Message
			}
			agentLog.Errorf("decision service returned no output: %s", message)
			appendItem(types.NewAssistantItem("Error: " + message))
			return conv, newItems
		}

		for _, item := range resp.Output {
			// The service may omit roles; fill in the defaults so the
			// turn-completion predicate can rely on them.
			if item.Role == "" {
				switch item.Type {
				case types.ItemTypeMessage:
					item.Role = types.RoleAssistant
				case types.ItemTypeFunctionCallOutput, types.ItemTypeComputerCallOutput:
					item.Role = types.RoleSystem
				}
			}

			appendItem(item)

			followUps, err := a.HandleItem(item)
			if err != nil {
				agentLog.Errorf("dispatch failed: %v", err)
				appendItem(types.NewAssistantItem("Error: " + err.Error()))
				return conv, newItems
			}
			appendItem(followUps...)
		}
	}

	return conv, newItems
}
