package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItemType defines the kind of a conversation item.
type ItemType string

const (
	ItemTypeMessage            ItemType = "message"              // ItemTypeMessage is a plain text message.
	ItemTypeFunctionCall       ItemType = "function_call"        // ItemTypeFunctionCall invokes a named capability with JSON arguments.
	ItemTypeComputerCall       ItemType = "computer_call"        // ItemTypeComputerCall invokes a browser/OS action.
	ItemTypeFunctionCallOutput ItemType = "function_call_output" // ItemTypeFunctionCallOutput is the result of a function call.
	ItemTypeComputerCallOutput ItemType = "computer_call_output" // ItemTypeComputerCallOutput carries the post-action screenshot.
)

// Roles assigned to conversation items. The decision service may omit the
// role on returned items; the driver fills in a default.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ContentPart is one fragment of message content.
type ContentPart struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// ContentList is an ordered sequence of content parts. The decision service
// sends content as an array of parts, but user input is occasionally a bare
// string; both forms decode into the same list.
type ContentList []ContentPart

// UnmarshalJSON accepts either a JSON string or an array of content parts.
func (c *ContentList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "\"") {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*c = ContentList{{Text: text}}
		return nil
	}

	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("content must be a string or an array of parts: %w", err)
	}
	*c = ContentList(parts)
	return nil
}

// Text concatenates all non-empty text fragments, newline separated.
func (c ContentList) Text() string {
	var parts []string
	for _, p := range c {
		text := strings.TrimSpace(p.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// SafetyCheck is a pending or acknowledged safety check attached to a
// computer call by the decision service.
type SafetyCheck struct {
	ID      string `json:"id,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ImageOutput is the screenshot payload of a computer call output. For
// browser environments CurrentURL carries the page URL after the action.
type ImageOutput struct {
	Type       string `json:"type"`
	ImageURL   string `json:"image_url"`
	CurrentURL string `json:"current_url,omitempty"`
}

// CallOutput is the output field of a call-output item. Function call
// outputs carry a plain string; computer call outputs carry an image
// object. Exactly one of Text or Image is set.
type CallOutput struct {
	Text  string
	Image *ImageOutput
}

// MarshalJSON encodes the output as a string or an image object.
func (o CallOutput) MarshalJSON() ([]byte, error) {
	if o.Image != nil {
		return json.Marshal(o.Image)
	}
	return json.Marshal(o.Text)
}

// UnmarshalJSON decodes either form.
func (o *CallOutput) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var img ImageOutput
		if err := json.Unmarshal(data, &img); err != nil {
			return err
		}
		o.Image = &img
		return nil
	}
	return json.Unmarshal(data, &o.Text)
}

// Item is one entry in a conversation. It is a tagged union: Type selects
// which of the optional fields are meaningful. Items are append-only; an
// output item's CallID always references a preceding call item in the same
// conversation.
type Item struct {
	Type ItemType    `json:"type,omitempty"`
	Role string      `json:"role,omitempty"`
	ID   string      `json:"id,omitempty"`
	Status string    `json:"status,omitempty"`

	// Message fields
	Content ContentList `json:"content,omitempty"`

	// Function call fields
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`

	// Shared by calls and outputs
	CallID string `json:"call_id,omitempty"`

	// Computer call fields. Action keeps the raw parameter map so unknown
	// action kinds pass through untouched; "type" holds the discriminator.
	Action              map[string]interface{} `json:"action,omitempty"`
	PendingSafetyChecks []SafetyCheck          `json:"pending_safety_checks,omitempty"`

	// Output fields
	Output                   *CallOutput   `json:"output,omitempty"`
	AcknowledgedSafetyChecks []SafetyCheck `json:"acknowledged_safety_checks,omitempty"`
}

// NewUserItem creates a user message item wrapping the given text.
func NewUserItem(text string) *Item {
	return &Item{
		Type:    ItemTypeMessage,
		Role:    RoleUser,
		Content: ContentList{{Type: "input_text", Text: text}},
	}
}

// NewAssistantItem creates an assistant message item. The driver uses this
// to surface service errors and turn failures as readable conversation text.
func NewAssistantItem(text string) *Item {
	return &Item{
		Type:    ItemTypeMessage,
		Role:    RoleAssistant,
		Content: ContentList{{Type: "output_text", Text: text}},
	}
}

// IsAssistantMessage reports whether the item is a message authored by the
// assistant. A conversation turn is complete once its last item satisfies
// this predicate.
func (i *Item) IsAssistantMessage() bool {
	return i.Type == ItemTypeMessage && i.Role == RoleAssistant
}

// ActionType returns the computer call's action discriminator, or "" when
// the item carries no action.
func (i *Item) ActionType() string {
	if i.Action == nil {
		return ""
	}
	kind, _ := i.Action["type"].(string)
	return kind
}

// ActionArgs returns the action parameters with the discriminator removed.
func (i *Item) ActionArgs() map[string]interface{} {
	args := make(map[string]interface{}, len(i.Action))
	for k, v := range i.Action {
		if k == "type" {
			continue
		}
		args[k] = v
	}
	return args
}

// Conversation is an append-only ordered sequence of items, owned by a
// single test-case run.
type Conversation []*Item

// Append adds items to the conversation and returns the extended slice.
func (c Conversation) Append(items ...*Item) Conversation {
	return append(c, items...)
}

// Last returns the most recently appended item, or nil when empty.
func (c Conversation) Last() *Item {
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}
