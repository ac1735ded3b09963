package optimizer

import "bfc/internal/ir"

// redundantSetRemoval implements spec §4.2 rule 7: a Set whose value is
// never observed before being fully overwritten (by another Set, or by a
// Read, at the same offset) is useless and can be dropped. Unlike
// combineSets, the overwrite need not be adjacent — any instruction that
// could observe the pending cell's value (an Increment at that offset, a
// Write or Loop test or MultiplyMove touching the head, or a PointerMove
// that makes "the same offset" ambiguous) clears the pending entry
// instead of dropping it.
func redundantSetRemoval(p ir.Program) ir.Program {
	out := make(ir.Program, 0, len(p))
	dropped := make(map[int]bool)
	pending := make(map[int]int) // offset -> index into out of a droppable Set

	for _, instr := range p {
		if instr.Kind == ir.Loop {
			instr.Body = redundantSetRemoval(instr.Body)
		}

		switch instr.Kind {
		case ir.Set:
			if idx, ok := pending[instr.Offset]; ok {
				dropped[idx] = true
			}
			out = append(out, instr)
			pending[instr.Offset] = len(out) - 1

		case ir.Read:
			// Read always targets the head cell (offset 0) and fully
			// overwrites it without reading the old value.
			if idx, ok := pending[0]; ok {
				dropped[idx] = true
			}
			out = append(out, instr)
			delete(pending, 0)

		case ir.Write:
			delete(pending, 0)
			out = append(out, instr)

		case ir.Increment:
			delete(pending, instr.Offset)
			out = append(out, instr)

		case ir.PointerMove:
			pending = make(map[int]int)
			out = append(out, instr)

		case ir.Loop:
			pending = make(map[int]int)
			out = append(out, instr)

		case ir.MultiplyMove:
			delete(pending, 0)
			for k := range instr.Changes {
				delete(pending, k)
			}
			out = append(out, instr)

		default:
			out = append(out, instr)
		}
	}

	if len(dropped) == 0 {
		return out
	}
	final := make(ir.Program, 0, len(out))
	for i, instr := range out {
		if dropped[i] {
			continue
		}
		final = append(final, instr)
	}
	return final
}
