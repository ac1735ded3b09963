// cmd/bfc/commands/watch.go
package commands

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bfc/internal/devserver"
	"bfc/internal/pipeline"
)

// WatchCommand handles `bfc watch SOURCE_FILE [--addr ADDR] [options]`:
// starts a devserver.Server that recompiles SOURCE_FILE on every save
// and broadcasts diagnostics to any connected websocket client, until
// interrupted.
func WatchCommand(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	addr := fs.String("addr", "localhost:8765", "address to serve the websocket endpoint on")
	optLevel := fs.Int("opt", 2, "optimization level 0-2")
	if err := fs.Parse(args); err != nil {
		return err
	}
	// flag stops at the first positional argument; keep parsing after it
	// so options may also follow SOURCE_FILE.
	var positional []string
	for fs.NArg() > 0 {
		positional = append(positional, fs.Arg(0))
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return err
		}
	}
	if len(positional) != 1 {
		return fmt.Errorf("usage: bfc watch SOURCE_FILE [--addr ADDR]")
	}
	path := positional[0]
	cfg := pipeline.Config{OptLevel: *optLevel}

	compile := func(path string) ([]string, []byte, error) {
		result, err := pipeline.Compile(path, cfg)
		if err != nil {
			return nil, nil, err
		}
		var warnings []string
		for _, w := range result.Warnings {
			warnings = append(warnings, w.Render())
		}
		return warnings, result.State.Outputs, nil
	}

	server := devserver.New(path, compile)

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		close(stop)
		server.Stop()
	}()

	fmt.Printf("bfc: watching %s, serving ws://%s\n", path, *addr)
	return server.ListenAndServe(*addr, stop)
}
