// cmd/bfc/commands/check.go
package commands

import (
	"fmt"
	"os"

	"bfc/internal/pipeline"
)

// CheckCommand handles `bfc check SOURCE_FILE [options]`: runs parse,
// optimize, and bounds analysis and prints diagnostics only — no
// linking, no output capture. pipeline.Compile still builds the lowered
// module, which check discards.
func CheckCommand(args []string) error {
	parsed, err := parseFlags("check", args)
	if err != nil {
		return err
	}
	if parsed.cfg.OptLevel > 1 {
		parsed.cfg.OptLevel = 1 // check never speculates
	}

	result, err := pipeline.Compile(parsed.path, parsed.cfg)
	if err != nil {
		return err
	}

	if len(result.Warnings) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, w.Render())
	}
	return nil
}
