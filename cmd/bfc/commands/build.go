// cmd/bfc/commands/build.go
package commands

import (
	"fmt"
	"os"

	"bfc/internal/link"
	"bfc/internal/pipeline"
)

// BuildCommand handles `bfc build SOURCE_FILE [options]`: compile,
// lower, and (best-effort) link into a stripped executable.
func BuildCommand(args []string) error {
	parsed, err := parseFlags("build", args)
	if err != nil {
		return err
	}
	// build always needs a live Module, so it never goes through the
	// cache short-circuit (see pipeline.Result.FromCache).
	parsed.cfg.CacheDSN = ""

	result, err := pipeline.Compile(parsed.path, parsed.cfg)
	if err != nil {
		return err
	}
	printWarnings(result)

	if parsed.dumpIR {
		fmt.Println(result.Optimized.String())
		return nil
	}
	if parsed.dumpLLVM {
		fmt.Println(result.Module.String())
		return nil
	}

	objFile, err := os.CreateTemp("", "bfc-*.o")
	if err != nil {
		return fmt.Errorf("creating temporary object file: %w", err)
	}
	objFile.Close()
	keepObj := false
	defer func() {
		if !keepObj {
			os.Remove(objFile.Name())
		}
	}()

	// Writing the module to an actual object file is the job of an LLVM
	// backend this repository doesn't link against (spec §1, §11.1);
	// internal/lowering only builds the in-memory module. Emitting its
	// textual IR here is the best this core can do standalone.
	if err := os.WriteFile(objFile.Name(), []byte(result.Module.String()), 0o644); err != nil {
		return fmt.Errorf("writing object file: %w", err)
	}

	exeName := link.ExecutableName(parsed.path)
	linkResult, err := link.Link(objFile.Name(), exeName, parsed.cfg.TargetTriple)
	if err != nil {
		return err
	}
	for _, tool := range linkResult.Skipped {
		fmt.Fprintf(os.Stderr, "bfc: %s not found on PATH, skipping\n", tool)
	}
	if !linkResult.Linked {
		keepObj = true
		fmt.Fprintf(os.Stderr, "bfc: no executable produced; lowered LLVM IR left in %s\n", objFile.Name())
	}

	return nil
}

func printWarnings(result pipeline.Result) {
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, w.Render())
	}
}
