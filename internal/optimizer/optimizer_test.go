package optimizer_test

import (
	"testing"

	"bfc/internal/ir"
	"bfc/internal/optimizer"
	"bfc/internal/parser"
)

func mustParse(t *testing.T, src string) ir.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestDeadLoopElimination(t *testing.T) {
	prog := mustParse(t, "[-]")
	out, warnings := optimizer.Optimize(prog, "test.bf")
	if len(out) != 0 {
		t.Errorf("expected empty program, got %v", out)
	}
	if len(warnings) != 1 || warnings[0].Message != "loop is dead" {
		t.Errorf("expected a single 'loop is dead' warning, got %v", warnings)
	}
}

func TestZeroingLoopRewrite(t *testing.T) {
	prog := mustParse(t, "+[-]")
	out, warnings := optimizer.Optimize(prog, "test.bf")
	want := ir.Program{ir.NewSet(0, 0, ir.Position{})}
	if !ir.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestMultiplyMoveRecognition(t *testing.T) {
	prog := mustParse(t, "+++[->++<]")
	out, _ := optimizer.Optimize(prog, "test.bf")
	want := ir.Program{
		ir.NewIncrement(3, 0, ir.Position{}),
		ir.NewMultiplyMove(map[int]int8{1: 2}, ir.Position{}),
	}
	if !ir.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestNonTerminatingLoopNotRewritten(t *testing.T) {
	prog := mustParse(t, "+[]")
	out, warnings := optimizer.Optimize(prog, "test.bf")
	if len(out) != 2 || out[0].Kind != ir.Increment || out[1].Kind != ir.Loop {
		t.Fatalf("expected the loop to survive untouched, got %v", out)
	}
	found := false
	for _, w := range warnings {
		if w.Message == "this loop may not terminate" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a non-termination warning, got %v", warnings)
	}
}

func TestCombineIncrements(t *testing.T) {
	prog := mustParse(t, "+++")
	out, _ := optimizer.Optimize(prog, "test.bf")
	want := ir.Program{ir.NewIncrement(3, 0, ir.Position{})}
	if !ir.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestCombinePointerMovesToZeroVanishes(t *testing.T) {
	prog := mustParse(t, "><")
	out, _ := optimizer.Optimize(prog, "test.bf")
	if len(out) != 0 {
		t.Errorf("expected empty program, got %v", out)
	}
}

func TestOffsetFusionAndCombine(t *testing.T) {
	// >+>+<< should fuse to two Increment(1, offset) at offsets 1 and 2,
	// with no trailing PointerMove (net zero).
	prog := mustParse(t, ">+>+<<")
	out, _ := optimizer.Optimize(prog, "test.bf")
	want := ir.Program{
		ir.NewIncrement(1, 1, ir.Position{}),
		ir.NewIncrement(1, 2, ir.Position{}),
	}
	if !ir.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestRedundantSetNeverObservedIsDropped(t *testing.T) {
	// The first Set(5, 0) is overwritten by the second Set(7, 0) with an
	// intervening instruction (Increment at a different offset) that
	// never observes offset 0, so it is provably dead.
	prog := ir.Program{
		ir.NewSet(5, 0, ir.Position{}),
		ir.NewIncrement(2, 3, ir.Position{}),
		ir.NewSet(7, 0, ir.Position{}),
	}
	out, _ := optimizer.Optimize(prog, "test.bf")
	want := ir.Program{
		ir.NewSet(7, 0, ir.Position{}),
		ir.NewIncrement(2, 3, ir.Position{}),
	}
	if !ir.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestSetObservedByWriteIsNotRemoved(t *testing.T) {
	prog := ir.Program{
		ir.NewSet(5, 0, ir.Position{}),
		ir.NewWrite(ir.Position{}),
		ir.NewSet(7, 0, ir.Position{}),
	}
	out, _ := optimizer.Optimize(prog, "test.bf")
	want := ir.Program{
		ir.NewSet(5, 0, ir.Position{}),
		ir.NewWrite(ir.Position{}),
		ir.NewSet(7, 0, ir.Position{}),
	}
	if !ir.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestIdempotence(t *testing.T) {
	samples := []string{
		"+++[->++<]",
		"[-]",
		"+[-]",
		"+[]",
		">+>+<<",
		"[>+<-],",
		"++++++++++[>+++++++>++++++++++>+++>+<<<<-]>++.>+.+++++++..+++.",
	}
	for _, src := range samples {
		prog := mustParse(t, src)
		once, _ := optimizer.Optimize(prog, "test.bf")
		twice, _ := optimizer.Optimize(once, "test.bf")
		if !ir.Equal(once, twice) {
			t.Errorf("optimize not idempotent for %q:\n once=%v\n twice=%v", src, once, twice)
		}
	}
}
