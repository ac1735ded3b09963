package optimizer

import (
	"bfc/internal/diag"
	"bfc/internal/ir"
)

// deadLoopElimination implements spec §4.2 rule 6: a Loop whose head cell
// is provably zero on entry never runs, and is removed. "Provably zero"
// means the instruction immediately before it (or the start of the
// top-level program, since the tape begins zero) is a Set(0, 0), a Loop
// (which can only exit once the head cell is zero, however its body moved
// the pointer), or a MultiplyMove (which always zeroes the head cell on
// exit).
func deadLoopElimination(p ir.Program, filename string) (ir.Program, []diag.Diagnostic) {
	return deadLoopPass(p, filename, true)
}

func deadLoopPass(p ir.Program, filename string, topLevel bool) (ir.Program, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	out := make(ir.Program, 0, len(p))
	headIsZero := topLevel

	for _, instr := range p {
		if instr.Kind == ir.Loop {
			if headIsZero {
				diags = append(diags, diag.NewWarning(filename, "loop is dead", instr.Pos))
				// The head cell was zero before, and an unrun loop leaves
				// it unchanged: still zero for whatever follows.
				headIsZero = true
				continue
			}
			newBody, bodyDiags := deadLoopPass(instr.Body, filename, false)
			instr.Body = newBody
			diags = append(diags, bodyDiags...)
		}

		out = append(out, instr)

		switch instr.Kind {
		case ir.Set:
			headIsZero = instr.Offset == 0 && instr.Amount == 0
		case ir.Loop, ir.MultiplyMove:
			headIsZero = true
		default:
			headIsZero = false
		}
	}
	return out, diags
}
