package shopping

import (
	"context"
	"sync"
)

// CheckedUpdater applies a checked-state change to one raw item row.
type CheckedUpdater interface {
	SetChecked(ctx context.Context, id int64, checked bool) error
}

// PropagationResult is the outcome of one per-id update.
type PropagationResult struct {
	ItemID int64 `json:"item_id"`
	Err    error `json:"-"`
}

// PropagateChecked applies the new checked value to every raw row behind a
// consolidated entry: one update per id, issued concurrently, all awaited.
// There is no cross-call transaction and no rollback; each id gets its own
// result so callers can retry just the failures. After partial failure the
// consolidated view is inconsistent until the next full read.
func PropagateChecked(ctx context.Context, store CheckedUpdater, ids []int64, checked bool) []PropagationResult {
	results := make([]PropagationResult, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			results[i] = PropagationResult{ItemID: id, Err: store.SetChecked(ctx, id, checked)}
		}(i, id)
	}
	wg.Wait()

	return results
}

// FailedIDs extracts the ids whose update failed, in result order.
func FailedIDs(results []PropagationResult) []int64 {
	var failed []int64
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res.ItemID)
		}
	}
	return failed
}
