package optimizer

import "bfc/internal/ir"

// multiplyLoopRecognition implements spec §4.2 rule 5. A Loop whose body
// is only Increment/PointerMove, whose net pointer movement is zero, and
// whose net increment at the starting offset (0) is exactly -1, is a
// vectorized multiply-add: it can run once instead of cell[head] times.
// Every other body shape is left untouched (conservative per spec §4.2
// rule 6 of the testable-properties list: "recognition is conservative").
func multiplyLoopRecognition(p ir.Program) ir.Program {
	out := make(ir.Program, 0, len(p))
	for _, instr := range p {
		if instr.Kind == ir.Loop {
			instr.Body = multiplyLoopRecognition(instr.Body)
			if changes, ok := recognizeMultiplyMove(instr.Body); ok {
				out = append(out, ir.NewMultiplyMove(changes, instr.Pos))
				continue
			}
		}
		out = append(out, instr)
	}
	return out
}

func recognizeMultiplyMove(body ir.Program) (map[int]int8, bool) {
	if len(body) == 0 {
		return nil, false
	}
	changes := make(map[int]int8)
	pos := 0
	for _, instr := range body {
		switch instr.Kind {
		case ir.PointerMove:
			pos += instr.Delta
		case ir.Increment:
			target := pos + instr.Offset
			changes[target] += instr.Amount
		default:
			return nil, false
		}
	}
	if pos != 0 {
		return nil, false
	}
	if changes[0] != -1 {
		return nil, false
	}
	delete(changes, 0)
	if len(changes) == 0 {
		return nil, false
	}
	// Drop any offsets that net to zero: they cancel out entirely and a
	// MultiplyMove must not carry a no-op entry.
	for k, v := range changes {
		if v == 0 {
			delete(changes, k)
		}
	}
	if len(changes) == 0 {
		return nil, false
	}
	return changes, true
}
