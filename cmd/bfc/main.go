// cmd/bfc/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"bfc/cmd/bfc/commands"
)

const version = "1.0.0"

var commandAliases = map[string]string{
	"b": "build",
	"r": "run",
	"c": "check",
	"f": "fmt",
	"w": "watch",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}

	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		fmt.Println("bfc " + version)
		return
	}

	var err error
	switch cmd {
	case "build":
		err = commands.BuildCommand(args[1:])
	case "run":
		err = commands.RunCommand(args[1:])
	case "check":
		err = commands.CheckCommand(args[1:])
	case "fmt":
		err = commands.FmtCommand(args[1:])
	case "watch":
		err = commands.WatchCommand(args[1:])
	default:
		showUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Print(err)
		os.Exit(2)
	}
}

func showUsage() {
	fmt.Fprintln(os.Stderr, `Usage: bfc <command> SOURCE_FILE [options]

Commands:
  build   compile SOURCE_FILE to an executable
  run     speculatively execute SOURCE_FILE and print its output
  check   parse, optimize, and bounds-check SOURCE_FILE; print diagnostics only
  fmt     print a round-tripped rendering of SOURCE_FILE's instructions
  watch   recompile SOURCE_FILE on every save and broadcast diagnostics

Options:
  -O, --opt LEVEL       optimization level 0-2 (default 2)
      --dump-ir         print the IR instead of compiling (build only)
      --dump-llvm       print the lowered LLVM IR instead of compiling (build only)
      --llvm-opt LEVEL  LLVM-side optimization level 0-3 (default 3)
      --target TRIPLE   target triple (default: host)
      --cache DSN       compile cache DSN (default: disabled)
      --cache-driver D  cache database driver: sqlite, sqlite3, postgres, mysql, mssql
  -h, --help            show this usage text`)
}
