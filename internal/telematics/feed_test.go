package telematics

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	dasherrors "github.com/fleetyard/fleetdash/internal/errors"
)

type feedRec struct {
	N int `json:"n"`
}

func makeFeedRecs(n int) []feedRec {
	recs := make([]feedRec, n)
	for i := range recs {
		recs[i] = feedRec{N: i}
	}
	return recs
}

func TestFeedAllPaginatesCompleteSets(t *testing.T) {
	cases := []struct {
		records   int
		wantCalls int
	}{
		{records: 0, wantCalls: 1},
		{records: 1, wantCalls: 1},
		{records: 4, wantCalls: 1},
		{records: 5, wantCalls: 1},
		{records: 6, wantCalls: 2},
		{records: 15, wantCalls: 3},
	}
	for _, tc := range cases {
		caller := &feedCaller{records: makeFeedRecs(tc.records)}
		client := NewClient(caller)
		client.SetPageSize(5)

		got, err := FeedAll[feedRec](context.Background(), client, TypeTrip, nil)
		if err != nil {
			t.Fatalf("%d records: unexpected error: %v", tc.records, err)
		}
		if len(got) != tc.records {
			t.Errorf("%d records: got %d back", tc.records, len(got))
		}
		for i, rec := range got {
			if rec.N != i {
				t.Errorf("%d records: upstream order lost at index %d (got %d)", tc.records, i, rec.N)
				break
			}
		}
		if caller.feedCalls != tc.wantCalls {
			t.Errorf("%d records: made %d feed calls, want %d", tc.records, caller.feedCalls, tc.wantCalls)
		}
	}
}

func TestThatFeedFallbackDiscardsPartialResults(t *testing.T) {
	caller := &feedCaller{
		records:  makeFeedRecs(12),
		failOn:   2,
		fallback: []feedRec{{N: 100}, {N: 101}, {N: 102}},
	}
	client := NewClient(caller)
	client.SetPageSize(5)

	got, err := FeedAll[feedRec](context.Background(), client, TypeTrip, nil)
	if err != nil {
		t.Fatal("fallback should recover the fetch, got", err)
	}
	if len(got) != 3 {
		t.Fatal("expected only fallback records, got", len(got))
	}
	if got[0].N != 100 || got[2].N != 102 {
		t.Errorf("fallback records were mangled: %+v", got)
	}
	if caller.getCalls != 1 {
		t.Error("fallback should issue exactly one Get, issued", caller.getCalls)
	}
}

func TestFeedFallbackFailurePropagates(t *testing.T) {
	caller := &feedCaller{
		records: makeFeedRecs(8),
		failOn:  1,
		failGet: true,
	}
	client := NewClient(caller)
	client.SetPageSize(5)

	_, err := FeedAll[feedRec](context.Background(), client, TypeTrip, nil)
	if err == nil {
		t.Fatal("expected an error when feed and fallback both fail")
	}
	if !dasherrors.IsPartialFetch(err) {
		t.Error("expected a partial fetch error, got", err)
	}
	if caller.getCalls != 1 {
		t.Error("fallback should have been attempted once, attempted", caller.getCalls)
	}
}

func TestFeedCancellationSkipsFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	caller := &feedCaller{
		records:  makeFeedRecs(12),
		cancelOn: 2,
		cancel:   cancel,
	}
	client := NewClient(caller)
	client.SetPageSize(5)

	_, err := FeedAll[feedRec](ctx, client, TypeTrip, nil)
	if !stderrors.Is(err, context.Canceled) {
		t.Error("cancellation should surface as context.Canceled, got", err)
	}
	if caller.getCalls != 0 {
		t.Error("cancellation must not trigger the bounded fallback")
	}
}

func TestFeedStopsAtPageCap(t *testing.T) {
	caller := &feedCaller{endless: true}
	client := NewClient(caller)
	client.SetPageSize(5)

	got, err := FeedAll[feedRec](context.Background(), client, TypeTrip, nil)
	if err != nil {
		t.Fatal("page cap exit should not be an error, got", err)
	}
	if caller.feedCalls != maxFeedPages {
		t.Error("expected pagination to stop at the cap, made", caller.feedCalls, "calls")
	}
	if len(got) != maxFeedPages*5 {
		t.Error("accumulated", len(got), "records before the cap")
	}
}

// feedCaller serves a fixed record set through the versioned feed
// protocol, with knobs for mid-stream failures.
type feedCaller struct {
	records  []feedRec
	fallback []feedRec

	failOn   int  // fail the Nth feed call (1-based)
	failGet  bool // fail the bounded fallback too
	cancelOn int  // cancel the context on the Nth feed call
	cancel   context.CancelFunc
	endless  bool // keep returning full pages with fresh tokens

	feedCalls int
	getCalls  int
}

func (f *feedCaller) Invoke(ctx context.Context, method string, params any) (json.RawMessage, error) {
	switch method {
	case MethodGetFeed:
		return f.serveFeed(params)
	case MethodGet:
		f.getCalls++
		if f.failGet {
			return nil, stderrors.New("bounded fetch refused")
		}
		return json.Marshal(f.fallback)
	default:
		return nil, stderrors.New("unexpected method " + method)
	}
}

func (f *feedCaller) serveFeed(params any) (json.RawMessage, error) {
	f.feedCalls++
	if f.cancelOn > 0 && f.feedCalls == f.cancelOn {
		f.cancel()
		return nil, stderrors.New("connection closed")
	}
	if f.failOn > 0 && f.feedCalls == f.failOn {
		return nil, stderrors.New("feed version expired")
	}
	p, ok := params.(FeedParams)
	if !ok {
		return nil, fmt.Errorf("feed params have unexpected type %T", params)
	}
	offset := 0
	if p.FromVersion != "" && p.FromVersion != "0" {
		if _, err := fmt.Sscanf(p.FromVersion, "v%d", &offset); err != nil {
			return nil, fmt.Errorf("bad version token %q", p.FromVersion)
		}
	}
	limit := p.ResultsLimit
	if limit <= 0 {
		limit = FeedPageSize
	}

	var page []feedRec
	envelope := struct {
		Data      []feedRec `json:"data"`
		ToVersion string    `json:"toVersion,omitempty"`
	}{}
	if f.endless {
		page = make([]feedRec, limit)
		for i := range page {
			page[i] = feedRec{N: offset + i}
		}
		envelope.ToVersion = fmt.Sprintf("v%d", offset+limit)
	} else {
		end := offset + limit
		if end > len(f.records) {
			end = len(f.records)
		}
		if offset < len(f.records) {
			page = f.records[offset:end]
		}
		if end < len(f.records) {
			envelope.ToVersion = fmt.Sprintf("v%d", end)
		}
	}
	envelope.Data = page
	return json.Marshal(envelope)
}
