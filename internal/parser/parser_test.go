package parser

import (
	"testing"

	"bfc/internal/ir"
)

func TestParseBasic(t *testing.T) {
	prog, err := Parse("++.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ir.Program{
		ir.NewIncrement(1, 0, ir.Position{Start: 0, End: 0}),
		ir.NewIncrement(1, 0, ir.Position{Start: 1, End: 1}),
		ir.NewWrite(ir.Position{Start: 2, End: 2}),
	}
	if !ir.Equal(prog, want) {
		t.Errorf("Parse(\"++.\") = %v, want %v", prog, want)
	}
}

func TestParseIgnoresNonTokens(t *testing.T) {
	prog, err := Parse("he++llo.\nworld")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ir.Program{
		ir.NewIncrement(1, 0, ir.Position{}),
		ir.NewIncrement(1, 0, ir.Position{}),
		ir.NewWrite(ir.Position{}),
	}
	if !ir.Equal(prog, want) {
		t.Errorf("got %v, want %v", prog, want)
	}
}

func TestParseLoop(t *testing.T) {
	prog, err := Parse("[-]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog) != 1 || prog[0].Kind != ir.Loop {
		t.Fatalf("expected a single Loop instruction, got %v", prog)
	}
	if prog[0].Pos.Start != 0 || prog[0].Pos.End != 2 {
		t.Errorf("loop position = %+v, want {0 2}", prog[0].Pos)
	}
	if len(prog[0].Body) != 1 || prog[0].Body[0].Kind != ir.Increment {
		t.Errorf("loop body = %v", prog[0].Body)
	}
}

func TestParseNestedLoops(t *testing.T) {
	prog, err := Parse("[[]]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog) != 1 || prog[0].Kind != ir.Loop {
		t.Fatalf("expected outer Loop, got %v", prog)
	}
	inner := prog[0].Body
	if len(inner) != 1 || inner[0].Kind != ir.Loop {
		t.Fatalf("expected inner Loop, got %v", inner)
	}
}

func TestParseUnmatchedOpen(t *testing.T) {
	_, err := Parse("[[-]")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Message != "unmatched [" {
		t.Errorf("message = %q", pe.Message)
	}
	if pe.Position.Start != 0 {
		t.Errorf("position = %+v, want the unclosed bracket at 0", pe.Position)
	}
}

func TestParseUnmatchedClose(t *testing.T) {
	_, err := Parse("-]")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Message != "unmatched ]" {
		t.Errorf("message = %q", pe.Message)
	}
	if pe.Position.Start != 1 {
		t.Errorf("position = %+v, want byte 1", pe.Position)
	}
}

func TestParseEmpty(t *testing.T) {
	prog, err := Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog) != 0 {
		t.Errorf("expected empty program, got %v", prog)
	}
}
