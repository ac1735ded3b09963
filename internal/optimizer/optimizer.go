// Package optimizer implements spec §4.2: the peephole/algebraic optimizer
// that rewrites the IR to a fixed point while preserving semantics.
//
// Each rewrite is a pure function Program -> Program (or, where it can
// also produce a warning, Program -> (Program, []Diagnostic)), composed
// under a "did anything change?" fixed-point loop — exactly the shape
// spec §9 "Design Notes" asks for, and the shape the teacher's own
// internal/compiler stages a multi-pass pipeline in. The pass-list /
// fixed-point-driver split itself is enriched from xyproto-flapc's
// Optimizer.Optimize, which runs a slice of named passes to convergence
// with an iteration cap; this package keeps that convergence loop but
// drops flapc's OptimizationPass interface in favor of bare functions,
// since the pass set here is fixed and doesn't need runtime registration.
package optimizer

import (
	"bfc/internal/diag"
	"bfc/internal/ir"
)

// MaxIterations bounds the fixed-point loop. It is a safety net to
// guarantee termination of the optimizer itself, not an observable
// property of the language (spec §4.2).
const MaxIterations = 40

// Optimize runs every peephole pass to a fixed point and returns the
// rewritten program together with every warning raised along the way.
func Optimize(p ir.Program, filename string) (ir.Program, []diag.Diagnostic) {
	var collector diag.Collector
	current := p

	for iter := 0; iter < MaxIterations; iter++ {
		next := current

		next = combineIncrements(next)
		next = combinePointerMoves(next)
		next = combineSets(next)

		// Dead loops are removed before the zeroing rewrite, which would
		// otherwise turn a dead [-] into a Set(0, 0) that no pass drops.
		var warnings []diag.Diagnostic
		next, warnings = deadLoopElimination(next, filename)
		for _, w := range warnings {
			collector.Add(w)
		}

		next, warnings = zeroingLoop(next, filename)
		for _, w := range warnings {
			collector.Add(w)
		}

		next = multiplyLoopRecognition(next)

		next = redundantSetRemoval(next)
		next = offsetFusion(next)

		changed := !ir.Equal(next, current)
		current = next
		if !changed {
			break
		}
	}

	return current, collector.Items()
}
