package telematics

import (
	"context"

	nuts "github.com/vaudience/go-nuts"

	"github.com/fleetyard/fleetdash/internal/errors"
)

const (
	// FeedPageSize is the upstream cap on records per feed call.
	FeedPageSize = 5000
	// FeedFallbackLimit bounds the single recovery fetch used when
	// incremental pagination fails mid-stream.
	FeedFallbackLimit = 5000
	// maxFeedPages stops runaway pagination if the feed keeps
	// returning full pages with fresh version tokens.
	maxFeedPages = 100
)

// FeedAll retrieves the complete result set for one entity type using
// the versioned incremental feed, page by page, preserving upstream
// order. If any page fails mid-stream the partial accumulation is
// discarded and a single bounded Get is issued instead; if that also
// fails the caller gets a partial fetch error. Cancellation is
// returned as the context error without attempting the fallback.
func FeedAll[T any](ctx context.Context, c *Client, typeName string, search any) ([]T, error) {
	pageSize := FeedPageSize
	if c != nil && c.pageSize > 0 {
		pageSize = c.pageSize
	}
	records := []T{}
	fromVersion := "0"
	for page := 1; page <= maxFeedPages; page++ {
		var batch []T
		toVersion, err := c.GetFeed(ctx, FeedParams{
			TypeName:     typeName,
			Search:       search,
			ResultsLimit: pageSize,
			FromVersion:  fromVersion,
		}, &batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return feedFallback[T](ctx, c, typeName, search, err)
		}
		c.metrics.RecordFeedPage(typeName)
		if len(batch) == 0 {
			return records, nil
		}
		records = append(records, batch...)
		if len(batch) < pageSize || toVersion == "" {
			return records, nil
		}
		fromVersion = toVersion
	}
	nuts.L.Warnf("[Feed] %s pagination stopped after %d pages, returning what we have", typeName, maxFeedPages)
	return records, nil
}

// feedFallback trades completeness for availability: one bounded Get
// instead of the broken feed.
func feedFallback[T any](ctx context.Context, c *Client, typeName string, search any, cause error) ([]T, error) {
	limit := FeedFallbackLimit
	if c != nil && c.fallbackLimit > 0 {
		limit = c.fallbackLimit
	}
	nuts.L.Warnf("[Feed] %s feed failed, falling back to bounded fetch: %v", typeName, cause)
	records := []T{}
	err := c.Call(ctx, MethodGet, GetParams{
		TypeName:     typeName,
		Search:       search,
		ResultsLimit: limit,
	}, &records)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewPartialFetchError("incremental feed and bounded fallback both failed for "+typeName, err)
	}
	return records, nil
}
