// Package llm defines the decision-service client contract. The service
// receives the full conversation plus tool descriptors and returns the
// next batch of conversation items; no schema beyond "output or error" is
// assumed of its responses.
package llm

import (
	"context"

	"github.com/webpilot/webpilot/pkg/types"
)

// Request is one decision request. Tools carries the capability/tool
// descriptor set as raw maps so provider-specific descriptor shapes pass
// through unmodified.
type Request struct {
	Model      string                   `json:"model"`
	Input      types.Conversation       `json:"input"`
	Tools      []map[string]interface{} `json:"tools,omitempty"`
	Truncation string                   `json:"truncation,omitempty"`
}

// ResponseError is the error envelope a failed decision carries.
type ResponseError struct {
	Message string `json:"message"`
}

// Response is the decision service's reply: either Output holds the next
// conversation items, or Error describes why there are none.
type Response struct {
	Output []*types.Item  `json:"output"`
	Error  *ResponseError `json:"error"`
}

// Client sends decision requests. Implementations must honour ctx
// cancellation; this call is the loop's only network-bound suspension
// point.
type Client interface {
	CreateResponse(ctx context.Context, req *Request) (*Response, error)
}
