package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/escher-lang/escher/internal/reader"
	"github.com/escher-lang/escher/internal/watch"
)

func (e *env) watchCommand(args []string) int {
	fs := e.newFlagSet("watch")
	jsonOutput := fs.Bool("json", false, "print results as JSON")
	options := e.readerFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 || fs.Arg(0) == "-" {
		fmt.Fprintf(e.stderr, "Usage: %s\n", commandInfo("watch").Usage)
		return 2
	}

	opts, err := options()
	if err != nil {
		e.logger.Error("%v", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := fs.Arg(0)
	e.reparse(path, opts, *jsonOutput)

	e.logger.Info("watching %s", path)
	err = watch.File(ctx, path, func(ev watch.Event) {
		e.logger.Debug("%s: %v", ev.Path, ev.Op)
		e.reparse(path, opts, *jsonOutput)
	})
	if err != nil {
		e.logger.Error("watch %s: %v", path, err)
		return 1
	}
	return 0
}

// reparse reads and parses path once, printing the result or the error.
func (e *env) reparse(path string, opts reader.Options, jsonOutput bool) {
	source, err := e.readSource(path)
	if err != nil {
		e.logger.Error("%v", err)
		return
	}
	result, err := reader.ParseFile(path, source, opts)
	if err != nil {
		e.reportParseError(path, source, err)
		return
	}
	if err := printResult(e.stdout, result, jsonOutput); err != nil {
		e.logger.Error("%v", err)
	}
}
