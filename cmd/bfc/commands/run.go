// cmd/bfc/commands/run.go
package commands

import (
	"fmt"
	"os"

	"bfc/internal/pipeline"
)

// RunCommand handles `bfc run SOURCE_FILE [options]`: speculatively
// execute the whole program at compile time and print whatever output
// it produced. If the program couldn't be fully evaluated, it prints a
// note that the remainder would run at runtime instead of pretending the
// program finished.
func RunCommand(args []string) error {
	parsed, err := parseFlags("run", args)
	if err != nil {
		return err
	}
	if parsed.cfg.OptLevel < 2 {
		parsed.cfg.OptLevel = 2 // run always speculates fully
	}

	result, err := pipeline.Compile(parsed.path, parsed.cfg)
	if err != nil {
		return err
	}
	printWarnings(result)

	os.Stdout.Write(result.State.Outputs)

	if !result.State.Done() {
		if result.FromCache {
			fmt.Fprintln(os.Stderr, "bfc: execution did not complete at compile time; remainder runs at runtime")
		} else {
			fmt.Fprintf(os.Stderr, "bfc: execution did not complete at compile time; %d top-level instruction(s) remain for the runtime\n", len(result.Residual))
		}
	}
	return nil
}
