package optimizer

import "bfc/internal/ir"

// combinePointerMoves implements spec §4.2 rule 2: adjacent PointerMove
// instructions merge, and a PointerMove(0) is removed entirely.
func combinePointerMoves(p ir.Program) ir.Program {
	out := make(ir.Program, 0, len(p))
	for _, instr := range p {
		if instr.Kind == ir.Loop {
			instr.Body = combinePointerMoves(instr.Body)
		}
		if instr.Kind == ir.PointerMove {
			if n := len(out); n > 0 && out[n-1].Kind == ir.PointerMove {
				out[n-1].Delta += instr.Delta
				out[n-1].Pos = ir.Merge(out[n-1].Pos, instr.Pos)
				if out[n-1].Delta == 0 {
					out = out[:n-1]
				}
				continue
			}
			if instr.Delta == 0 {
				continue
			}
		}
		out = append(out, instr)
	}
	return out
}
