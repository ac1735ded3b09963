// cmd/bfc/commands/shared.go
package commands

import (
	"flag"
	"fmt"

	"bfc/internal/pipeline"
)

// commonResult is the shared flag set build, run, and check parse (spec
// §12): optimization level, the two dump flags, LLVM options, and cache
// selection.
type commonResult struct {
	cfg      pipeline.Config
	path     string
	dumpIR   bool
	dumpLLVM bool
}

func parseFlags(name string, args []string) (commonResult, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	optLevel := fs.Int("opt", 2, "optimization level 0-2")
	fs.IntVar(optLevel, "O", 2, "optimization level 0-2 (shorthand)")
	dumpIR := fs.Bool("dump-ir", false, "print the IR instead of compiling")
	dumpLLVM := fs.Bool("dump-llvm", false, "print the lowered LLVM IR instead of compiling")
	llvmOpt := fs.Int("llvm-opt", 3, "LLVM-side optimization level 0-3")
	target := fs.String("target", "", "target triple")
	cacheDSN := fs.String("cache", "", "compile cache DSN")
	cacheDriver := fs.String("cache-driver", "", "compile cache database driver")

	if err := fs.Parse(args); err != nil {
		return commonResult{}, err
	}
	// flag stops at the first positional argument; keep parsing after it
	// so options may also follow SOURCE_FILE.
	var positional []string
	for fs.NArg() > 0 {
		positional = append(positional, fs.Arg(0))
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return commonResult{}, err
		}
	}
	if len(positional) != 1 {
		return commonResult{}, fmt.Errorf("usage: bfc %s SOURCE_FILE [options]", name)
	}

	return commonResult{
		cfg: pipeline.Config{
			OptLevel:     *optLevel,
			TargetTriple: *target,
			LLVMOptLevel: *llvmOpt,
			CacheDSN:     *cacheDSN,
			CacheDriver:  *cacheDriver,
		},
		path:     positional[0],
		dumpIR:   *dumpIR,
		dumpLLVM: *dumpLLVM,
	}, nil
}
