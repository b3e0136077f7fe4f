package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/escher-lang/escher/internal/reader"
)

const replHelp = `Enter escher source to see how it reads.
  :help, :h          Show help
  :quit, :q, :exit   Exit
  :strict on|off     Toggle strict mode
  :key head|name     Choose the signature key policy
`

// session holds the reader options a REPL line is parsed with.
type session struct {
	opts reader.Options
	out  io.Writer
}

// eval handles one input line. It reports false when the session should end.
func (s *session) eval(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	if strings.HasPrefix(line, ":") {
		return s.command(strings.Fields(line))
	}

	result, err := reader.ParseWithOptions(line, s.opts)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return true
	}
	if err := printResult(s.out, result, false); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	return true
}

func (s *session) command(fields []string) bool {
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return false
	case ":help", ":h":
		fmt.Fprint(s.out, replHelp)
	case ":strict":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			fmt.Fprintln(s.out, "usage: :strict on|off")
			return true
		}
		s.opts.Strict = fields[1] == "on"
		fmt.Fprintf(s.out, "strict mode %s\n", fields[1])
	case ":key":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "usage: :key head|name")
			return true
		}
		switch fields[1] {
		case "head":
			s.opts.KeyFunc = reader.HeadKey
		case "name":
			s.opts.KeyFunc = reader.NameKey
		default:
			fmt.Fprintln(s.out, "usage: :key head|name")
			return true
		}
		fmt.Fprintf(s.out, "signature key %s\n", fields[1])
	default:
		fmt.Fprintf(s.out, "unknown command %s, try :help\n", fields[0])
	}
	return true
}

func (e *env) replCommand(args []string) int {
	fs := e.newFlagSet("repl")
	historyFile := fs.String("history", ".escher_history", "history file path")
	options := e.readerFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	opts, err := options()
	if err != nil {
		e.logger.Error("%v", err)
		return 2
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(*historyFile); err == nil {
		if _, err := line.ReadHistory(f); err != nil {
			e.logger.Warn("failed to read history: %v", err)
		}
		f.Close()
	}

	fmt.Fprintf(e.stdout, "escher reader, type :help for commands\n")
	s := &session{opts: opts, out: e.stdout}
	for {
		input, err := line.Prompt("escher> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			e.logger.Error("%v", err)
			return 1
		}
		line.AppendHistory(input)
		if !s.eval(input) {
			break
		}
	}

	if f, err := os.Create(*historyFile); err == nil {
		if _, err := line.WriteHistory(f); err != nil {
			e.logger.Warn("failed to write history: %v", err)
		}
		f.Close()
	} else {
		e.logger.Warn("failed to save history: %v", err)
	}
	return 0
}
