package shopping

import (
	"fmt"
	"sort"
	"time"
)

// GroupMode selects how consolidated items are partitioned for display.
type GroupMode string

const (
	GroupModeRecipe GroupMode = "recipe"
	GroupModeAisle  GroupMode = "aisle"
)

// Display names of the sentinel groups in recipe mode.
const (
	customGroupName = "Custom Items"
	otherGroupName  = "Other"
)

// GroupItems partitions consolidated items into named, ordered groups.
// Member order within a group is the order items arrive from Consolidate.
func GroupItems(items []ConsolidatedItem, mode GroupMode) ([]Group, error) {
	switch mode {
	case GroupModeRecipe:
		return groupByRecipe(items), nil
	case GroupModeAisle:
		return groupByAisle(items), nil
	default:
		return nil, fmt.Errorf("unknown group mode %q", mode)
	}
}

// groupByRecipe buckets items under their originating recipe, with two
// sentinel buckets: catalog-linked items without a recipe go to Other,
// custom items to Custom. Recipe groups order by the recipe's creation
// time (then id); Other is second-to-last and Custom always last.
func groupByRecipe(items []ConsolidatedItem) []Group {
	var groups []Group
	index := make(map[GroupKey]int)
	createdAt := make(map[GroupKey]time.Time)

	for _, ci := range items {
		var key GroupKey
		var name string
		switch {
		case ci.RecipeID != nil:
			key = GroupKey{Kind: GroupRecipe, RecipeID: *ci.RecipeID}
			if ci.Recipe != nil {
				name = ci.Recipe.Name
			} else {
				name = fmt.Sprintf("Recipe %d", *ci.RecipeID)
			}
		case ci.Food != nil:
			key = GroupKey{Kind: GroupOther}
			name = otherGroupName
		default:
			key = GroupKey{Kind: GroupCustom}
			name = customGroupName
		}

		pos, seen := index[key]
		if !seen {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, Group{Key: key, Name: name})
			if key.Kind == GroupRecipe && ci.Recipe != nil {
				createdAt[key] = ci.Recipe.CreatedAt
			}
		}
		groups[pos].Items = append(groups[pos].Items, ci)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		ri, rj := recipeModeRank(groups[i].Key.Kind), recipeModeRank(groups[j].Key.Kind)
		if ri != rj {
			return ri < rj
		}
		if groups[i].Key.Kind != GroupRecipe {
			return false
		}
		ti, tj := createdAt[groups[i].Key], createdAt[groups[j].Key]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return groups[i].Key.RecipeID < groups[j].Key.RecipeID
	})

	return groups
}

func recipeModeRank(kind GroupKind) int {
	switch kind {
	case GroupRecipe:
		return 0
	case GroupOther:
		return 1
	default: // GroupCustom
		return 2
	}
}

// groupByAisle buckets items by resolved aisle, alphabetically, with the
// "Other" aisle pinned last.
func groupByAisle(items []ConsolidatedItem) []Group {
	var groups []Group
	index := make(map[GroupKey]int)

	for _, ci := range items {
		key := GroupKey{Kind: GroupAisle, Aisle: ResolveAisle(ci.Food)}
		pos, seen := index[key]
		if !seen {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, Group{Key: key, Name: key.Aisle})
		}
		groups[pos].Items = append(groups[pos].Items, ci)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		ai, aj := groups[i].Key.Aisle, groups[j].Key.Aisle
		if ai == AisleOther {
			return false
		}
		if aj == AisleOther {
			return true
		}
		return ai < aj
	})

	return groups
}
