// Package main provides the escher command line tool. It reads escher
// source with the reader and prints the resulting tree and signatures.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/escher-lang/escher/internal/cli"
	"github.com/escher-lang/escher/internal/term"
)

const toolName = "escher"

// env carries the streams and settings shared by every subcommand.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	config *cli.Config
	logger *cli.Logger
}

func main() {
	cli.ExitWithCode(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr), "")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet(toolName, flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "path to a JSON config file")
	verbose := global.Bool("v", false, "verbose logging")
	debug := global.Bool("debug", false, "debug logging")
	global.Usage = func() { usage(stderr) }

	if err := global.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}

	sub, subArgs := rest[0], rest[1:]
	switch sub {
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	case "version":
		fs := flag.NewFlagSet("version", flag.ContinueOnError)
		fs.SetOutput(stderr)
		jsonOutput := fs.Bool("json", false, "output version in JSON format")
		if err := fs.Parse(subArgs); err != nil {
			return 2
		}
		cli.PrintVersion(stdout, toolName, *jsonOutput)
		return 0
	}

	cfg, err := cli.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := cli.NewLogger(cfg.Verbose || *verbose, cfg.Debug || *debug)
	logger.Out = stderr
	if f, ok := stderr.(*os.File); ok {
		logger.Color = term.ColorEnabled(f)
	}
	logger.Debug("config loaded from %q: %+v", *configPath, cfg)

	e := &env{stdin: stdin, stdout: stdout, stderr: stderr, config: cfg, logger: logger}

	switch sub {
	case "parse":
		return e.parseCommand(subArgs)
	case "check":
		return e.checkCommand(subArgs)
	case "watch":
		return e.watchCommand(subArgs)
	case "repl":
		return e.replCommand(subArgs)
	default:
		fmt.Fprintf(stderr, "unknown subcommand: %s\n", sub)
		usage(stderr)
		return 2
	}
}

var commands = []cli.CommandInfo{
	{
		Name:        "parse",
		Usage:       "escher parse [-json] [-strict] [-max-depth N] [-key head|name] [-ws] <file|->",
		Description: "Parse a source file and print the tree and signatures",
		Examples:    []string{"escher parse main.esc", "echo '{A b}(fun b)' | escher parse -json -"},
	},
	{
		Name:        "check",
		Usage:       "escher check <file>...",
		Description: "Parse files and report errors only",
	},
	{
		Name:        "watch",
		Usage:       "escher watch <file>",
		Description: "Parse a file again every time it changes",
	},
	{
		Name:        "repl",
		Usage:       "escher repl [-history path]",
		Description: "Parse lines interactively",
	},
	{
		Name:        "version",
		Usage:       "escher version [-json]",
		Description: "Show version information",
	},
}

func usage(w io.Writer) {
	cli.PrintUsage(w, toolName, commands)
}

func commandInfo(name string) cli.CommandInfo {
	for _, c := range commands {
		if c.Name == name {
			return c
		}
	}
	return cli.CommandInfo{Name: name}
}
