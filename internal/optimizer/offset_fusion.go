package optimizer

import (
	"sort"

	"bfc/internal/ir"
)

// offsetFusion implements spec §4.2 rule 8 ("sort by offset" / "annotate
// with offset"): a run of Increment/Set/PointerMove instructions with no
// Loop/Read/Write between them is reordered so every PointerMove in the
// run collapses into one trailing move, and every Increment/Set is
// re-annotated with the offset it would have touched relative to the
// run's starting head. Same-offset operations are then stably sorted
// together so passes 1 and 3 (adjacent-merge) can combine them on the
// next fixed-point iteration even if they were not textually adjacent.
func offsetFusion(p ir.Program) ir.Program {
	out := make(ir.Program, 0, len(p))
	i := 0
	for i < len(p) {
		instr := p[i]
		if instr.Kind == ir.Loop {
			instr.Body = offsetFusion(instr.Body)
			out = append(out, instr)
			i++
			continue
		}
		if !isFusable(instr.Kind) {
			out = append(out, instr)
			i++
			continue
		}

		j := i
		delta := 0
		var fused ir.Program
		var movePos ir.Position
		sawMove := false

		for j < len(p) && isFusable(p[j].Kind) {
			switch p[j].Kind {
			case ir.PointerMove:
				delta += p[j].Delta
				if !sawMove {
					movePos = p[j].Pos
					sawMove = true
				} else {
					movePos = ir.Merge(movePos, p[j].Pos)
				}
			case ir.Increment, ir.Set:
				adjusted := p[j]
				adjusted.Offset += delta
				fused = append(fused, adjusted)
			}
			j++
		}

		sort.SliceStable(fused, func(a, b int) bool {
			return fused[a].Offset < fused[b].Offset
		})
		out = append(out, fused...)
		if delta != 0 {
			out = append(out, ir.NewPointerMove(delta, movePos))
		}
		i = j
	}
	return out
}

func isFusable(k ir.Kind) bool {
	return k == ir.Increment || k == ir.Set || k == ir.PointerMove
}
