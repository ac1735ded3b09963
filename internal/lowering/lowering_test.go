package lowering_test

import (
	"strings"
	"testing"

	"bfc/internal/ir"
	"bfc/internal/lowering"
	"bfc/internal/speculate"
)

func funcNamed(t *testing.T, names []string, want string) bool {
	t.Helper()
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func TestLowerDeclaresIOAndMain(t *testing.T) {
	residual := ir.Program{ir.NewWrite(ir.Position{})}
	state := speculate.ExecutionState{Cells: []int8{0}}

	m := lowering.Lower("test.bf", residual, state, "")

	var names []string
	for _, f := range m.Funcs {
		names = append(names, f.Name())
	}
	for _, want := range []string{"getchar", "putchar", "main"} {
		if !funcNamed(t, names, want) {
			t.Errorf("expected a %q function in the lowered module, got %v", want, names)
		}
	}
}

func TestLowerEmitsTapeGlobalSizedFromCells(t *testing.T) {
	state := speculate.ExecutionState{Cells: []int8{1, 2, 3}}
	m := lowering.Lower("test.bf", nil, state, "")

	var found bool
	for _, g := range m.Globals {
		if g.Name() == "tape" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a %q global in the lowered module", "tape")
	}
	if !strings.Contains(m.String(), "[3 x i8]") {
		t.Errorf("expected the tape to be a [3 x i8] array, got module:\n%s", m.String())
	}
}

func TestLowerHandlesEmptyCellsWithoutZeroLengthArray(t *testing.T) {
	// An ExecutionState built by hand can have a zero-length Cells slice;
	// the tape global must not be a zero-length LLVM array, which some
	// backends reject.
	state := speculate.ExecutionState{}
	m := lowering.Lower("test.bf", nil, state, "")
	if m == nil {
		t.Fatalf("expected a non-nil module")
	}
	if !strings.Contains(m.String(), "[1 x i8]") {
		t.Errorf("expected a one-cell tape array, got module:\n%s", m.String())
	}
}

func TestLowerRespectsTargetTriple(t *testing.T) {
	state := speculate.ExecutionState{Cells: []int8{0}}
	m := lowering.Lower("test.bf", nil, state, "x86_64-unknown-linux-gnu")
	if m.TargetTriple != "x86_64-unknown-linux-gnu" {
		t.Errorf("got TargetTriple=%q, want x86_64-unknown-linux-gnu", m.TargetTriple)
	}
}

func TestOptimizeLevelClampsOutOfRange(t *testing.T) {
	cases := map[int]int{
		-1: 3,
		0:  0,
		2:  2,
		3:  3,
		99: 3,
	}
	for in, want := range cases {
		if got := lowering.OptimizeLevel(in); got != want {
			t.Errorf("OptimizeLevel(%d) = %d, want %d", in, got, want)
		}
	}
}
