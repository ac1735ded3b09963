package ir

// Equal reports whether two programs have the same shape and values,
// ignoring source Position. It backs the optimizer idempotence property
// (spec §8.3: optimize(optimize(p)) == optimize(p) structurally) and the
// parser/optimizer tests; positions are deliberately excluded because two
// structurally identical programs produced by independent rewrite paths
// are not required to carry identical merged spans, only identical
// runtime behavior.
func Equal(a, b Program) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !instructionEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func instructionEqual(a, b Instruction) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Increment, Set:
		return a.Amount == b.Amount && a.Offset == b.Offset
	case PointerMove:
		return a.Delta == b.Delta
	case Read, Write:
		return true
	case Loop:
		return Equal(a.Body, b.Body)
	case MultiplyMove:
		if len(a.Changes) != len(b.Changes) {
			return false
		}
		for k, v := range a.Changes {
			if bv, ok := b.Changes[k]; !ok || bv != v {
				return false
			}
		}
		return true
	default:
		return false
	}
}
