// FilePath: internal/telematics/transport.go
package telematics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// rpcRequest is the JSON envelope posted for every call.
type rpcRequest struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// rpcResponse is the JSON envelope the endpoint answers with. Exactly
// one of Result and Error is meaningful.
type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

func (e *rpcError) String() string {
	if e.Name != "" {
		return e.Name + ": " + e.Message
	}
	return e.Message
}

// HTTPCaller is the production Caller. It posts method envelopes to a
// single telemetry endpoint.
type HTTPCaller struct {
	http *resty.Client
}

// NewHTTPCaller creates a caller for the given endpoint URL.
func NewHTTPCaller(endpoint string, timeout time.Duration) *HTTPCaller {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &HTTPCaller{http: client}
}

// Invoke implements Caller.
func (h *HTTPCaller) Invoke(ctx context.Context, method string, params any) (json.RawMessage, error) {
	resp, err := h.http.R().
		SetContext(ctx).
		SetBody(rpcRequest{Method: method, Params: params}).
		Post("")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("post %s: %w", method, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("post %s: unexpected status %d", method, resp.StatusCode())
	}
	var envelope rpcResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode %s envelope: %w", method, err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("remote %s error: %s", method, envelope.Error.String())
	}
	return envelope.Result, nil
}
