package main

import (
	"encoding/json"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/escher-lang/escher/internal/cli"
	"github.com/escher-lang/escher/internal/position"
	"github.com/escher-lang/escher/internal/reader"
	"github.com/escher-lang/escher/internal/sexp"
)

// readerFlags registers the reader settings on fs. The returned function
// yields the options after fs.Parse, with flags given on the command line
// taking precedence over the config file.
func (e *env) readerFlags(fs *flag.FlagSet) func() (reader.Options, error) {
	cfg := *e.config
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "reject unclosed lists and unmatched ')'")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum nesting depth")
	fs.StringVar(&cfg.SignatureKey, "key", cfg.SignatureKey, "signature key policy: head or name")
	fs.BoolVar(&cfg.AnySpaceEndsIdent, "ws", cfg.AnySpaceEndsIdent, "end identifiers at any whitespace")

	return func() (reader.Options, error) {
		if err := cfg.Validate(); err != nil {
			return reader.Options{}, err
		}
		return cfg.ReaderOptions(), nil
	}
}

func (e *env) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	info := commandInfo(name)
	fs.Usage = func() {
		cli.PrintCommandUsage(e.stderr, toolName, info)
		fs.PrintDefaults()
	}
	return fs
}

// readSource returns the contents of path, or of stdin when path is "-".
func (e *env) readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}

// reportParseError logs err and, for reader errors, the offending line with
// the construct underlined.
func (e *env) reportParseError(name, source string, err error) {
	e.logger.Error("%v", err)

	var perr *reader.ParseError
	if !stderrors.As(err, &perr) {
		return
	}
	sf := position.NewSourceFile(name, source)
	if perr.Span.IsValid() {
		e.logger.Debug("error covers %s", perr.Span)
		fmt.Fprint(e.stderr, sf.HighlightSpan(perr.Span))
		return
	}
	fmt.Fprint(e.stderr, sf.Highlight(perr.Pos))
}

func (e *env) parseCommand(args []string) int {
	fs := e.newFlagSet("parse")
	jsonOutput := fs.Bool("json", false, "print the result as JSON")
	options := e.readerFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if err := cli.ValidateArgs(fs.Args(), 1, commandInfo("parse").Usage); err != nil {
		fmt.Fprintln(e.stderr, err)
		return 2
	}

	opts, err := options()
	if err != nil {
		e.logger.Error("%v", err)
		return 2
	}

	path := fs.Arg(0)
	source, err := e.readSource(path)
	if err != nil {
		e.logger.Error("%v", err)
		return 1
	}

	name := displayName(path)
	e.logger.Info("parsing %s (%d bytes)", name, len(source))

	result, err := reader.ParseFile(name, source, opts)
	if err != nil {
		e.reportParseError(name, source, err)
		return 1
	}

	if result.Leftover != "" {
		e.logger.Warn("%s: ignoring text after unmatched ')': %q", name, result.Leftover)
	}
	e.logger.Debug("%s: %d top-level cells, %d signatures", name, result.Root.Len(), len(result.Signatures))

	if err := printResult(e.stdout, result, *jsonOutput); err != nil {
		e.logger.Error("%v", err)
		return 1
	}
	return 0
}

func printResult(w io.Writer, result *sexp.Sexp, jsonOutput bool) error {
	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err := fmt.Fprintln(w, result.String())
	return err
}

func (e *env) checkCommand(args []string) int {
	fs := e.newFlagSet("check")
	options := e.readerFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if err := cli.ValidateArgs(fs.Args(), 1, commandInfo("check").Usage); err != nil {
		fmt.Fprintln(e.stderr, err)
		return 2
	}

	opts, err := options()
	if err != nil {
		e.logger.Error("%v", err)
		return 2
	}

	exitCode := 0
	for _, path := range fs.Args() {
		name := displayName(path)
		source, err := e.readSource(path)
		if err != nil {
			e.logger.Error("%v", err)
			exitCode = 1
			continue
		}
		if _, err := reader.ParseFile(name, source, opts); err != nil {
			e.reportParseError(name, source, err)
			exitCode = 1
			continue
		}
		fmt.Fprintf(e.stdout, "%s: ok\n", name)
	}
	return exitCode
}
