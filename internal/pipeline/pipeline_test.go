package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"bfc/internal/pipeline"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestCompileFullySpeculatesAtOptLevelTwo(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "hello.bf", "++.")

	result, err := pipeline.Compile(path, pipeline.Config{OptLevel: 2})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !result.State.Done() {
		t.Fatalf("expected execution to complete, start_instr=%v", result.State.StartInstr)
	}
	if len(result.State.Outputs) != 1 || result.State.Outputs[0] != 2 {
		t.Errorf("got outputs=%v, want [2]", result.State.Outputs)
	}
	if result.Module == nil {
		t.Errorf("expected a lowered module")
	}
}

func TestCompileOptLevelZeroSkipsOptimizerAndSpeculation(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "raw.bf", "++.")

	result, err := pipeline.Compile(path, pipeline.Config{OptLevel: 0})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(result.Optimized) != 3 {
		t.Errorf("expected the unoptimized 3-instruction program, got %v", result.Optimized)
	}
	if result.State.Done() {
		t.Fatalf("opt level 0 must not speculate to completion")
	}
	if len(result.State.StartInstr) == 0 || result.State.StartInstr[0] != 0 {
		t.Errorf("expected the residual to start at instruction 0, got %v", result.State.StartInstr)
	}
}

func TestCompileOptLevelOneOptimizesButDoesNotSpeculate(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "zero.bf", "+[-]")

	result, err := pipeline.Compile(path, pipeline.Config{OptLevel: 1})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(result.Optimized) != 1 || result.Optimized[0].Kind.String() != "Set" {
		t.Errorf("expected the zeroing loop to be rewritten to Set, got %v", result.Optimized)
	}
	if result.State.Done() {
		t.Fatalf("opt level 1 must not speculate")
	}
}

func TestCompileRejectsUnbalancedBrackets(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "bad.bf", "[[-]")

	if _, err := pipeline.Compile(path, pipeline.Config{OptLevel: 2}); err == nil {
		t.Fatalf("expected an error for unbalanced brackets")
	}
}

func TestCompileCachesAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "cached.bf", "++.")
	dsn := filepath.Join(dir, "cache.sqlite")
	cfg := pipeline.Config{OptLevel: 2, CacheDSN: dsn}

	first, err := pipeline.Compile(path, cfg)
	if err != nil {
		t.Fatalf("first Compile: %v", err)
	}
	if first.FromCache {
		t.Fatalf("first compile should not be a cache hit")
	}

	second, err := pipeline.Compile(path, cfg)
	if err != nil {
		t.Fatalf("second Compile: %v", err)
	}
	if !second.FromCache {
		t.Fatalf("second compile should be a cache hit")
	}
	if len(second.State.Outputs) != 1 || second.State.Outputs[0] != 2 {
		t.Errorf("got cached outputs=%v, want [2]", second.State.Outputs)
	}
}
