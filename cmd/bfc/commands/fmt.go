// cmd/bfc/commands/fmt.go
package commands

import (
	"fmt"
	"os"

	"bfc/internal/parser"
)

// FmtCommand handles `bfc fmt SOURCE_FILE`: parses the file and prints
// its round-tripped source text, dropping anything that wasn't one of
// the eight significant tokens. Non-representable IR (the output of an
// optimization pass) has no textual form, so fmt operates on the raw
// parse only.
func FmtCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bfc fmt SOURCE_FILE")
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	prog, err := parser.Parse(string(src))
	if err != nil {
		return err
	}

	text, ok := prog.SourceText()
	if !ok {
		return fmt.Errorf("%s: program contains instructions with no source representation", args[0])
	}

	fmt.Println(text)
	return nil
}
