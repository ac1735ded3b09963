package ir_test

import (
	"testing"

	"bfc/internal/ir"
	"bfc/internal/parser"
)

func TestSourceTextRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"++--<<>>..,,",
		"[-]",
		"+[->++<]",
		"[[]]",
		"+++[->++<]<-.",
	}
	for _, src := range cases {
		prog, err := parser.Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q): %v", src, err)
		}
		got, ok := prog.SourceText()
		if !ok {
			t.Fatalf("SourceText(%q): not ok", src)
		}
		if got != src {
			t.Errorf("SourceText round-trip: got %q, want %q", got, src)
		}
	}
}

func TestEqualIgnoresPosition(t *testing.T) {
	a := ir.Program{ir.NewIncrement(3, 0, ir.Position{Start: 0, End: 2})}
	b := ir.Program{ir.NewIncrement(3, 0, ir.Position{Start: 5, End: 9})}
	if !ir.Equal(a, b) {
		t.Errorf("Equal should ignore Position")
	}
}

func TestEqualDetectsDifference(t *testing.T) {
	a := ir.Program{ir.NewIncrement(3, 0, ir.Position{})}
	b := ir.Program{ir.NewIncrement(2, 0, ir.Position{})}
	if ir.Equal(a, b) {
		t.Errorf("Equal should distinguish differing Amount")
	}
}
