// Package pipeline orchestrates parse → optimize → bounds → speculate →
// lower → cache into the single entry point spec §6 describes ("a
// (residual Program, ExecutionState) pair ready for lowering"), the way
// the teacher's internal/build.Builder.Build sequences its own stages
// behind one method.
package pipeline

import (
	"fmt"
	"os"

	"bfc/internal/bounds"
	"bfc/internal/cache"
	"bfc/internal/diag"
	"bfc/internal/ir"
	"bfc/internal/lowering"
	"bfc/internal/optimizer"
	"bfc/internal/parser"
	"bfc/internal/speculate"

	llvmir "github.com/llir/llvm/ir"
)

// Config mirrors the teacher's BuildConfig in shape: every knob the CLI
// exposes, gathered into one value instead of threading flags through
// every stage.
type Config struct {
	// OptLevel selects how much of the pipeline runs: 0 disables the
	// optimizer and speculative executor, 1 runs the optimizer only, 2
	// runs both (spec §6).
	OptLevel int

	// StepBudget bounds the speculative executor. Zero means
	// speculate.DefaultStepBudget.
	StepBudget int

	// TargetTriple is forwarded to the lowering package. Empty means
	// llir's own default.
	TargetTriple string

	// LLVMOptLevel carries --llvm-opt. Compile does not read it: lowering
	// runs no optimization passes.
	LLVMOptLevel int

	// CacheDSN and CacheDriver select a cache.Store backend. Empty
	// CacheDSN disables caching entirely.
	CacheDSN    string
	CacheDriver string
}

// Result is everything a CLI command needs to report or act on. A
// FromCache result only restores Warnings and State: the cache stores
// the optimized IR's rendered text, not the IR itself, so Optimized,
// Residual, and Module are nil and a caller that needs them (bfc build,
// --dump-llvm) must not rely on the cache short-circuit.
type Result struct {
	Source    string
	Optimized ir.Program
	Warnings  []diag.Diagnostic
	State     speculate.ExecutionState
	Residual  ir.Program
	Module    *llvmir.Module
	FromCache bool
}

// Compile runs the pipeline against the file at path end to end, per
// Config, and returns everything downstream stages need.
func Compile(path string, cfg Config) (Result, error) {
	srcBytes, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	src := string(srcBytes)

	var store *cache.Store
	var key string
	if cfg.CacheDSN != "" {
		store, err = cache.Open(cfg.CacheDriver, cfg.CacheDSN)
		if err != nil {
			return Result{}, fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		key = cache.Key(src, cfg.OptLevel, cfg.TargetTriple)
		if entry, ok, err := store.Lookup(key); err == nil && ok {
			return resultFromCache(path, src, entry, cfg), nil
		}
	}

	prog, err := parser.Parse(src)
	if err != nil {
		if perr, ok := err.(*parser.ParseError); ok {
			d := diag.NewError(path, perr.Message, perr.Position).WithSource(src)
			return Result{}, fmt.Errorf("%s", d.Render())
		}
		return Result{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	var warnings []diag.Diagnostic
	optimized := prog
	if cfg.OptLevel >= 1 {
		optimized, warnings = optimizer.Optimize(prog, path)
		for i := range warnings {
			warnings[i] = warnings[i].WithSource(src)
		}
	}

	budget := cfg.StepBudget
	if budget == 0 {
		budget = speculate.DefaultStepBudget
	}

	var state speculate.ExecutionState
	if cfg.OptLevel >= 2 {
		var warn *diag.Diagnostic
		state, warn = speculate.Execute(optimized, budget, path)
		if warn != nil {
			warnings = append(warnings, warn.WithSource(src))
		}
	} else {
		state = speculate.ExecutionState{
			Cells:      make([]int8, bounds.HighestCellIndex(optimized)+1),
			StartInstr: []int{0},
		}
		if len(optimized) == 0 {
			state.StartInstr = nil
		}
	}

	residual := state.Residual(optimized)
	module := lowering.Lower(path, residual, state, cfg.TargetTriple)

	result := Result{
		Source:    src,
		Optimized: optimized,
		Warnings:  warnings,
		State:     state,
		Residual:  residual,
		Module:    module,
	}

	if store != nil {
		entry := cache.Entry{
			RenderedIR: optimized.String(),
			Outputs:    state.Outputs,
			CellPtr:    state.CellPtr,
			Cells:      state.Cells,
			StartInstr: state.StartInstr,
		}
		for _, w := range warnings {
			entry.Warnings = append(entry.Warnings, w.Message)
		}
		if err := store.Put(key, entry); err != nil {
			return result, fmt.Errorf("writing cache entry: %w", err)
		}
	}

	return result, nil
}

func resultFromCache(path, src string, entry cache.Entry, cfg Config) Result {
	state := speculate.ExecutionState{
		Cells:      entry.Cells,
		CellPtr:    entry.CellPtr,
		Outputs:    entry.Outputs,
		StartInstr: entry.StartInstr,
	}
	var warnings []diag.Diagnostic
	for _, m := range entry.Warnings {
		warnings = append(warnings, diag.NewWarning(path, m, ir.Position{}).WithSource(src))
	}
	return Result{
		Source:    src,
		Warnings:  warnings,
		State:     state,
		FromCache: true,
	}
}
