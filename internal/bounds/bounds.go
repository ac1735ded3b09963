// Package bounds implements spec §4.3: a static upper bound on the cell
// indices a program can reach, used to size the tape before the
// speculative executor (or the runtime) allocates it.
package bounds

import "bfc/internal/ir"

// UnboundedCellCount is the conservative constant substituted whenever a
// Loop's body has nonzero net pointer movement. Such a loop can in
// principle run an unbounded number of times, drifting the head further
// on each iteration, so a single-iteration analysis of its body is not a
// sound upper bound (see DESIGN.md for the resolution of spec §9's open
// question on this point). 29999 matches the classic 30000-cell default
// tape length the reference interpreter for this language uses, so
// HighestCellIndex+1 reproduces that default exactly when no tighter
// bound applies.
const UnboundedCellCount = 29999

// HighestCellIndex walks p and returns the highest cell index it can
// provably reach. The caller sizes the tape as the result + 1. The
// analysis is deliberately conservative: it is required to be an upper
// bound, not a tight one.
func HighestCellIndex(p ir.Program) int {
	max := 0
	walk(p, 0, &max)
	return max
}

// walk executes p symbolically starting at head position startPos,
// growing *max to cover every index touched, and returns the resulting
// head position.
func walk(p ir.Program, startPos int, max *int) int {
	pos := startPos
	bump(max, pos)

	for _, instr := range p {
		switch instr.Kind {
		case ir.PointerMove:
			if instr.Delta >= 0 {
				pos += instr.Delta
			} else {
				pos += instr.Delta
				if pos < 0 {
					pos = 0
				}
			}
			bump(max, pos)

		case ir.Increment, ir.Set:
			bump(max, pos+instr.Offset)

		case ir.MultiplyMove:
			for k := range instr.Changes {
				bump(max, pos+k)
			}

		case ir.Loop:
			bodyMax := 0
			bodyEnd := walk(instr.Body, 0, &bodyMax)
			if bodyEnd != 0 {
				bump(max, UnboundedCellCount)
			} else {
				bump(max, pos+bodyMax)
			}
			// A Loop's net effect on the head is taken as zero: whatever
			// the body does internally, the analysis resumes at the
			// position the loop was entered at.

		case ir.Read, ir.Write:
			// No bounds effect: these touch the current head, which is
			// already covered by *max.
		}
	}
	return pos
}

func bump(max *int, candidate int) {
	if candidate > *max {
		*max = candidate
	}
}
