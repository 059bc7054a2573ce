package planning

import "sort"

// Replan recomputes the allocation of every open, non-cut-only order
// against the given configuration. Because each order allocates against
// the others' already-computed maps, the outcome depends on the order
// of recomputation; Replan fixes it to ascending deadline (ties broken
// by order ID) so a full re-plan is deterministic.
//
// The input slice is not mutated. The result carries the same orders
// with fresh allocation maps, plus any warnings keyed by order ID.
func Replan(orders []Order, config CapacityConfig, start Date) ([]Order, map[string][]string) {
	replanned := make([]Order, len(orders))
	for i := range orders {
		replanned[i] = orders[i]
		replanned[i].Allocations = orders[i].Allocations.Clone()
	}

	sequence := make([]int, 0, len(replanned))
	for i := range replanned {
		if replanned[i].Occupies() && !replanned[i].CutOnly {
			sequence = append(sequence, i)
		}
	}
	sort.SliceStable(sequence, func(a, b int) bool {
		oa, ob := &replanned[sequence[a]], &replanned[sequence[b]]
		if oa.Deadline != ob.Deadline {
			return oa.Deadline < ob.Deadline
		}
		return oa.ID < ob.ID
	})

	// Clear first so earlier orders in the sequence do not contend with
	// stale maps of later ones.
	for _, i := range sequence {
		replanned[i].Allocations = Allocation{}
	}

	warnings := map[string][]string{}
	for _, i := range sequence {
		allocations, w := Allocate(replanned[i], replanned, config, start)
		replanned[i].Allocations = allocations
		if len(w) > 0 {
			warnings[replanned[i].ID] = w
		}
	}

	return replanned, warnings
}
