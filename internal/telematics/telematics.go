// Package telematics adapts the fleet telemetry RPC API into typed,
// context-aware operations. Everything above this package works with
// normalized models; everything below it is the remote wire protocol.
package telematics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fleetyard/fleetdash/internal/errors"
	"github.com/fleetyard/fleetdash/internal/monitoring"
)

// RPC method names understood by the upstream API.
const (
	MethodGet          = "Get"
	MethodGetFeed      = "GetFeed"
	MethodExecuteMulti = "ExecuteMultiCall"
)

// Entity type names used in Get/GetFeed calls.
const (
	TypeDevice         = "Device"
	TypeTrip           = "Trip"
	TypeExceptionEvent = "ExceptionEvent"
	TypeFillUp         = "FillUp"
	TypeStatusData     = "StatusData"
	TypeRule           = "Rule"
	TypeUser           = "User"
)

// Diagnostic IDs for the status readings the dashboard cares about.
const (
	DiagnosticFuelLevelID = "DiagnosticFuelLevelId"
	DiagnosticOdometerID  = "DiagnosticOdometerId"
)

// Caller is the opaque RPC primitive. The production implementation
// posts to the telemetry HTTP endpoint; tests substitute their own.
type Caller interface {
	Invoke(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// GetParams is the parameter envelope for Get calls.
type GetParams struct {
	TypeName     string `json:"typeName"`
	Search       any    `json:"search,omitempty"`
	ResultsLimit int    `json:"resultsLimit,omitempty"`
}

// FeedParams is the parameter envelope for GetFeed calls. A
// FromVersion of "0" starts the feed from the beginning of the result
// set.
type FeedParams struct {
	TypeName     string `json:"typeName"`
	Search       any    `json:"search,omitempty"`
	ResultsLimit int    `json:"resultsLimit,omitempty"`
	FromVersion  string `json:"fromVersion,omitempty"`
}

// Operation is one entry of a batched multi-call. Result, when non-nil,
// receives the decoded payload for this operation.
type Operation struct {
	Method string
	Params any
	Result any
}

type multiCallEntry struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

type multiCallParams struct {
	Calls []multiCallEntry `json:"calls"`
}

type feedEnvelope struct {
	Data      json.RawMessage `json:"data"`
	ToVersion string          `json:"toVersion"`
}

// Client wraps a Caller into the typed operations the rest of the
// service uses. A zero page size falls back to FeedPageSize.
type Client struct {
	caller        Caller
	pageSize      int
	fallbackLimit int
	metrics       *monitoring.Service
}

// NewClient creates a telemetry client on top of the given transport.
func NewClient(caller Caller) *Client {
	return &Client{
		caller:        caller,
		pageSize:      FeedPageSize,
		fallbackLimit: FeedFallbackLimit,
	}
}

// SetPageSize overrides the per-call feed page size, clamped to the
// upstream cap.
func (c *Client) SetPageSize(n int) {
	if n < 1 || n > FeedPageSize {
		n = FeedPageSize
	}
	c.pageSize = n
}

// SetFallbackLimit overrides the bounded fallback fetch size.
func (c *Client) SetFallbackLimit(n int) {
	if n < 1 {
		n = FeedFallbackLimit
	}
	c.fallbackLimit = n
}

// SetMetrics attaches a monitoring service. Safe to leave unset.
func (c *Client) SetMetrics(m *monitoring.Service) {
	c.metrics = m
}

// Call invokes a single RPC method and decodes its result into out.
// Pass a nil out to discard the payload. Cancellation surfaces as the
// context error, never as a transport error.
func (c *Client) Call(ctx context.Context, method string, params any, out any) error {
	if c == nil || c.caller == nil {
		return errors.NewTransportError("telemetry transport is not configured", nil)
	}
	start := time.Now()
	raw, err := c.caller.Invoke(ctx, method, params)
	c.metrics.RecordRPCCall(method, err, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, ok := err.(*errors.DashError); ok {
			return err
		}
		return errors.NewTransportError(fmt.Sprintf("call %s failed", method), err)
	}
	if out == nil || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewTransportError(fmt.Sprintf("failed to decode %s response", method), err)
	}
	return nil
}

// MultiCall issues all operations as a single batched request. The
// upstream contract guarantees results arrive index-aligned with the
// request; a length mismatch means the whole batch is untrustworthy
// and fails loudly instead of being matched up heuristically.
func (c *Client) MultiCall(ctx context.Context, ops []Operation) error {
	if len(ops) == 0 {
		return nil
	}
	calls := make([]multiCallEntry, len(ops))
	for i, op := range ops {
		calls[i] = multiCallEntry{Method: op.Method, Params: op.Params}
	}
	var results []json.RawMessage
	if err := c.Call(ctx, MethodExecuteMulti, multiCallParams{Calls: calls}, &results); err != nil {
		return err
	}
	if len(results) != len(ops) {
		return errors.NewAggregationError(
			fmt.Sprintf("batch returned %d results for %d operations", len(results), len(ops)), nil)
	}
	for i, raw := range results {
		if ops[i].Result == nil || len(raw) == 0 || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, ops[i].Result); err != nil {
			return errors.NewAggregationError(
				fmt.Sprintf("failed to decode batch result %d (%s)", i, ops[i].Method), err)
		}
	}
	return nil
}

// GetFeed fetches one feed page and decodes its data into out. It
// returns the version token to resume from.
func (c *Client) GetFeed(ctx context.Context, params FeedParams, out any) (string, error) {
	var envelope feedEnvelope
	if err := c.Call(ctx, MethodGetFeed, params, &envelope); err != nil {
		return "", err
	}
	if out != nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return "", errors.NewTransportError(
				fmt.Sprintf("failed to decode %s feed page", params.TypeName), err)
		}
	}
	return envelope.ToVersion, nil
}
