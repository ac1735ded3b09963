package optimizer

import "bfc/internal/ir"

// combineIncrements implements spec §4.2 rule 1: adjacent Increment
// instructions at the same offset merge into one, with wrapping addition
// and a merged position. Recurses into Loop bodies bottom-up first.
func combineIncrements(p ir.Program) ir.Program {
	out := make(ir.Program, 0, len(p))
	for _, instr := range p {
		if instr.Kind == ir.Loop {
			instr.Body = combineIncrements(instr.Body)
		}
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.Kind == ir.Increment && instr.Kind == ir.Increment && prev.Offset == instr.Offset {
				prev.Amount += instr.Amount
				prev.Pos = ir.Merge(prev.Pos, instr.Pos)
				continue
			}
		}
		out = append(out, instr)
	}
	return out
}
