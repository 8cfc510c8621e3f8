package ecs

// Each2 iterates over entities that have both component A and B, in the
// insertion order of sa. Put the store that defines the entity kind first.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	for i, id := range sa.ids {
		if b, ok := sb.Get(id); ok {
			fn(id, sa.data[i], b)
		}
	}
}

// Each3 iterates over entities that have components A, B, and C, in the
// insertion order of sa.
func Each3[A, B, C any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], sc *PtrComponentStore[C], fn func(EntityID, *A, *B, *C)) {
	for i, id := range sa.ids {
		b, ok := sb.Get(id)
		if !ok {
			continue
		}
		if c, ok := sc.Get(id); ok {
			fn(id, sa.data[i], b, c)
		}
	}
}

// Find2 returns the first entity (in sa order) holding A and B for which
// match reports true.
func Find2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], match func(EntityID, *A, *B) bool) (EntityID, bool) {
	for i, id := range sa.ids {
		b, ok := sb.Get(id)
		if !ok {
			continue
		}
		if match(id, sa.data[i], b) {
			return id, true
		}
	}
	return 0, false
}
