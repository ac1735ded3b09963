// Package speculate implements spec §4.4: the speculative executor, a
// bounded compile-time interpreter that partially (or fully) evaluates a
// program, producing precomputed cell state, output, and — if it could
// not finish — a residual entry point for the runtime to resume from.
package speculate

import (
	"bfc/internal/bounds"
	"bfc/internal/diag"
	"bfc/internal/ir"
)

// DefaultStepBudget is the instruction-visit budget used when a caller
// doesn't request a tighter one: "on the order of 10^7 small steps"
// (spec §4.4).
const DefaultStepBudget = 10_000_000

// ExecutionState is the result of (partially) running a program at
// compile time: a zero-initialized tape, sized from the bounds
// analysis, evolved as far as the budget and the program's own
// behavior allow.
type ExecutionState struct {
	// Cells is the tape, sized highest_cell_index+1 and zero-initialized
	// before execution begins.
	Cells []int8

	// CellPtr is the head position at the point execution stopped.
	CellPtr int

	// Outputs is every byte written so far, in order.
	Outputs []byte

	// StartInstr names the first instruction that still needs to run,
	// as a path of indices descending through nested Loop bodies from
	// the root program (StartInstr[0] indexes the top level,
	// StartInstr[1] indexes within the Loop body at that index, and so
	// on). A nil StartInstr means the program ran to completion at
	// compile time.
	StartInstr []int
}

// Done reports whether execution reached the end of the program, i.e.
// start_instr is "none".
func (s ExecutionState) Done() bool {
	return s.StartInstr == nil
}

// Residual reconstructs the portion of p that still needs to run. When
// the halt occurred inside a Loop body, the rest of that iteration's body
// runs first, followed by the whole Loop (which tests the head cell
// again) and whatever originally followed it at that level. Returns nil
// if execution completed.
func (s ExecutionState) Residual(p ir.Program) ir.Program {
	if s.StartInstr == nil {
		return nil
	}
	return residualAt(p, s.StartInstr)
}

func residualAt(p ir.Program, path []int) ir.Program {
	i := path[0]
	if len(path) == 1 {
		out := make(ir.Program, len(p)-i)
		copy(out, p[i:])
		return out
	}
	rest := residualAt(p[i].Body, path[1:])
	out := make(ir.Program, 0, len(rest)+len(p)-i)
	out = append(out, rest...)
	out = append(out, p[i:]...)
	return out
}

// Execute interprets p over a fresh zero-initialized tape, charging one
// step per visited instruction (a Loop's per-iteration condition test
// counts as a step; MultiplyMove counts as one step regardless of its
// fan-out), until the program finishes, hits Read, attempts an
// out-of-bounds cell access, or exhausts stepBudget. filename is used
// only to position the out-of-bounds warning, if one is produced.
//
// Execute never mutates p and is deterministic for identical inputs.
func Execute(p ir.Program, stepBudget int, filename string) (ExecutionState, *diag.Diagnostic) {
	cells := make([]int8, bounds.HighestCellIndex(p)+1)
	ptr := 0
	var outputs []byte
	steps := 0

	path, warn := run(p, nil, cells, &ptr, &outputs, &steps, stepBudget, filename)

	return ExecutionState{
		Cells:      cells,
		CellPtr:    ptr,
		Outputs:    outputs,
		StartInstr: path,
	}, warn
}

// run interprets p in place, returning the halt path (nil if p ran to
// completion) and an optional warning diagnostic.
func run(p ir.Program, prefix []int, cells []int8, ptr *int, outputs *[]byte, steps *int, budget int, filename string) ([]int, *diag.Diagnostic) {
	for i, instr := range p {
		if instr.Kind == ir.Loop {
			for {
				if *steps >= budget {
					return haltPath(prefix, i), nil
				}
				*steps++
				if *ptr < 0 || *ptr >= len(cells) {
					return haltPath(prefix, i), outOfBounds(instr, filename)
				}
				if cells[*ptr] == 0 {
					break
				}
				path, warn := run(instr.Body, haltPath(prefix, i), cells, ptr, outputs, steps, budget, filename)
				if path != nil || warn != nil {
					return path, warn
				}
			}
			continue
		}

		if *steps >= budget {
			return haltPath(prefix, i), nil
		}
		*steps++

		switch instr.Kind {
		case ir.Increment:
			target := *ptr + instr.Offset
			if target < 0 || target >= len(cells) {
				return haltPath(prefix, i), outOfBounds(instr, filename)
			}
			cells[target] += instr.Amount

		case ir.Set:
			target := *ptr + instr.Offset
			if target < 0 || target >= len(cells) {
				return haltPath(prefix, i), outOfBounds(instr, filename)
			}
			cells[target] = instr.Amount

		case ir.PointerMove:
			next := *ptr + instr.Delta
			if next < 0 || next >= len(cells) {
				return haltPath(prefix, i), outOfBounds(instr, filename)
			}
			*ptr = next

		case ir.Read:
			return haltPath(prefix, i), nil

		case ir.Write:
			if *ptr < 0 || *ptr >= len(cells) {
				return haltPath(prefix, i), outOfBounds(instr, filename)
			}
			*outputs = append(*outputs, byte(cells[*ptr]))

		case ir.MultiplyMove:
			if *ptr < 0 || *ptr >= len(cells) {
				return haltPath(prefix, i), outOfBounds(instr, filename)
			}
			for k := range instr.Changes {
				target := *ptr + k
				if target < 0 || target >= len(cells) {
					return haltPath(prefix, i), outOfBounds(instr, filename)
				}
			}
			src := cells[*ptr]
			for k, v := range instr.Changes {
				cells[*ptr+k] += v * src
			}
			cells[*ptr] = 0
		}
	}
	return nil, nil
}

func haltPath(prefix []int, i int) []int {
	path := make([]int, len(prefix)+1)
	copy(path, prefix)
	path[len(prefix)] = i
	return path
}

func outOfBounds(instr ir.Instruction, filename string) *diag.Diagnostic {
	d := diag.NewWarning(filename, "pointer out of bounds at compile time", instr.Pos)
	return &d
}
