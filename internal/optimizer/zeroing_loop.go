package optimizer

import "bfc/internal/ir"
import "bfc/internal/diag"

// zeroingLoop implements spec §4.2 rule 4. Loop([Increment(n, 0)]) reaches
// zero under repeated mod-256 addition exactly when n is odd (n is
// coprime to 256 = 2^8 iff n is odd), so only the odd case is a safe
// rewrite to Set(0, 0). The even case (including n == 0) may not
// terminate and must be left untouched, with a warning. A Loop with an
// empty body is the degenerate n == 0 case — the head cell is never
// touched, so it never reaches zero either — and gets the same warning.
func zeroingLoop(p ir.Program, filename string) (ir.Program, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	out := make(ir.Program, 0, len(p))
	for _, instr := range p {
		if instr.Kind == ir.Loop {
			newBody, bodyDiags := zeroingLoop(instr.Body, filename)
			instr.Body = newBody
			diags = append(diags, bodyDiags...)

			if n, ok := soleHeadIncrement(instr.Body); ok {
				if n%2 != 0 {
					out = append(out, ir.NewSet(0, 0, instr.Pos))
					continue
				}
				diags = append(diags, diag.NewWarning(filename, "this loop may not terminate", instr.Pos))
			}
		}
		out = append(out, instr)
	}
	return out, diags
}

// soleHeadIncrement reports the net amount a loop body adds to the head
// cell when that body is either empty (net 0) or a single
// Increment(n, 0) — the two shapes spec §4.2 rule 4 governs — and false
// otherwise.
func soleHeadIncrement(body ir.Program) (int8, bool) {
	switch len(body) {
	case 0:
		return 0, true
	case 1:
		if body[0].Kind == ir.Increment && body[0].Offset == 0 {
			return body[0].Amount, true
		}
	}
	return 0, false
}
