package lr

import "github.com/dekarrin/langcore/grammar"

// buildLALRCollection constructs the LALR(1) viable-prefix collection
// for augmented grammar ag by building the canonical LR(1) collection
// and merging states whose cores (dotted productions with lookaheads
// stripped) are identical, unioning their lookaheads. This is Dragon
// Book Algorithm 4.63's merge criterion, applied as a post-hoc pass
// over the canonical collection rather than via that algorithm's
// direct, lookahead-propagation construction — simpler to get right,
// and the canonical collection this builds from is no larger than the
// grammars this package targets can make it.
func buildLALRCollection(ag *grammar.Grammar, first map[string]map[string]bool) *Automaton {
	canonical := buildCanonicalCollection(ag, first)

	groupOf := make([]int, len(canonical.States))
	var groupItems [][]grammar.LR1Item
	keyToGroup := map[string]int{}

	for _, st := range canonical.States {
		key := coreKey(st.Items)
		gid, ok := keyToGroup[key]
		if !ok {
			gid = len(groupItems)
			keyToGroup[key] = gid
			groupItems = append(groupItems, nil)
		}
		groupOf[st.ID] = gid

		merged := newItemSet(groupItems[gid]...)
		for _, it := range st.Items {
			merged.add(it)
		}
		groupItems[gid] = merged.sortedItems()
	}

	merged := &Automaton{Transitions: map[int]map[string]int{}}
	merged.States = make([]ItemState, len(groupItems))
	for gid, items := range groupItems {
		merged.States[gid] = ItemState{ID: gid, Items: items}
	}
	merged.Start = groupOf[canonical.Start]

	for id, trans := range canonical.Transitions {
		gid := groupOf[id]
		if merged.Transitions[gid] == nil {
			merged.Transitions[gid] = map[string]int{}
		}
		for sym, target := range trans {
			merged.Transitions[gid][sym] = groupOf[target]
		}
	}

	return merged
}
