package shopping

import "fmt"

// Consolidate merges raw rows sharing a consolidation key into aggregates,
// in first-seen-key order. Unkeyable rows become singleton entries keyed by
// their own id. Every input id lands in exactly one output entry; the
// output quantity is the members' sum with nil quantities counting as 0
// (a 0 sum means "unspecified", not "hide the row").
func Consolidate(items []Item, scopeByRecipe bool) []ConsolidatedItem {
	out := make([]ConsolidatedItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, it := range items {
		key, keyable := ConsolidationKey(it, scopeByRecipe)
		if !keyable {
			// Item ids are unique, so this key can never collide.
			key = fmt.Sprintf("item:%d", it.ID)
		} else if pos, seen := index[key]; seen {
			entry := &out[pos]
			sum := *entry.NumberOfServings
			if it.NumberOfServings != nil {
				sum += *it.NumberOfServings
			}
			entry.NumberOfServings = &sum
			entry.ConsolidatedIDs = append(entry.ConsolidatedIDs, it.ID)
			continue
		}

		entry := ConsolidatedItem{Item: it, ConsolidatedIDs: []int64{it.ID}}
		qty := 0.0
		if it.NumberOfServings != nil {
			qty = *it.NumberOfServings
		}
		entry.NumberOfServings = &qty
		index[key] = len(out)
		out = append(out, entry)
	}

	return out
}
