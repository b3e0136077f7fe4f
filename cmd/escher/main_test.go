package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/escher-lang/escher/internal/reader"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func runCLI(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseCommand(t *testing.T) {
	path := writeSource(t, "demo.esc", `"ef"`)

	code, stdout, stderr := runCLI("", "parse", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if stdout != "(\"ef\")\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestParseCommandStdin(t *testing.T) {
	code, stdout, stderr := runCLI("{A b}(fun b)", "parse", "-")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if want := "((fun b))\nfun: {A b}\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestParseCommandJSON(t *testing.T) {
	code, stdout, stderr := runCLI("{A}(fun f 12)", "parse", "-json", "-key", "name", "-")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	var out struct {
		Root       map[string]interface{} `json:"root"`
		Signatures map[string]struct {
			Types      []string `json:"types"`
			Parameters []string `json:"parameters"`
		} `json:"signatures"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	sig, ok := out.Signatures["f"]
	if !ok || len(sig.Types) != 1 || sig.Types[0] != "A" {
		t.Errorf("signatures = %+v", out.Signatures)
	}
	if _, ok := out.Root["list"]; !ok {
		t.Errorf("root = %v, want a list", out.Root)
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		code     int
		contains []string
	}{
		{
			name:     "signature placement",
			stdin:    "(a b)\n{A}(bar)",
			args:     []string{"parse", "-"},
			code:     1,
			contains: []string{"<stdin>:2:4", "   2 | {A}(bar)", "     |    ^~~~~\n"},
		},
		{
			name:     "strict flag",
			stdin:    "(a",
			args:     []string{"parse", "-strict", "-"},
			code:     1,
			contains: []string{"list is not closed", "   1 | (a\n     | ^~\n"},
		},
		{
			name:     "depth flag",
			stdin:    "(((a)))",
			args:     []string{"parse", "-max-depth", "2", "-"},
			code:     1,
			contains: []string{"nesting exceeds the limit of 2"},
		},
		{
			name:     "depth counts lists only",
			stdin:    "((a))",
			args:     []string{"parse", "-max-depth", "2", "-"},
			code:     0,
		},
		{
			name:     "stray paren caret only",
			stdin:    "(a)\n  )",
			args:     []string{"parse", "-strict", "-"},
			code:     1,
			contains: []string{"<stdin>:2:3", "   2 |   )\n     |   ^\n"},
		},
		{
			name:     "bad key policy",
			stdin:    "a",
			args:     []string{"parse", "-key", "site", "-"},
			code:     2,
			contains: []string{"unknown signature_key"},
		},
		{
			name:     "missing file",
			args:     []string{"parse", filepath.Join(os.TempDir(), "escher-does-not-exist.esc")},
			code:     1,
			contains: []string{"failed to read"},
		},
		{
			name: "missing argument",
			args: []string{"parse"},
			code: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.stdin, tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr = %s)", code, tt.code, stderr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(stderr, want) {
					t.Errorf("stderr missing %q:\n%s", want, stderr)
				}
			}
		})
	}
}

func TestParseCommandWarnsOnLeftover(t *testing.T) {
	code, stdout, stderr := runCLI("a) b", "parse", "-")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if stdout != "(a)\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "[WARN]") || !strings.Contains(stderr, `") b"`) {
		t.Errorf("stderr = %q, want a leftover warning", stderr)
	}
}

func TestCheckCommand(t *testing.T) {
	good := writeSource(t, "good.esc", "{A b}(fun b)")
	bad := writeSource(t, "bad.esc", `(a "b`)

	code, stdout, stderr := runCLI("", "check", good, bad)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, good+": ok") {
		t.Errorf("stdout = %q", stdout)
	}
	if strings.Contains(stdout, bad) {
		t.Errorf("bad file reported ok: %q", stdout)
	}
	if !strings.Contains(stderr, "unterminated string") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestConfigFlag(t *testing.T) {
	cfg := writeSource(t, "escher.json", `{"signature_key": "name"}`)
	code, stdout, stderr := runCLI("{A}(fun f)", "-config", cfg, "parse", "-")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(stdout, "f: {A}") {
		t.Errorf("stdout = %q, want binding under f", stdout)
	}

	code, stdout, _ = runCLI("{A}(fun f)", "-config", cfg, "parse", "-key", "head", "-")
	if code != 0 || !strings.Contains(stdout, "fun: {A}") {
		t.Errorf("flag should override config: code = %d, stdout = %q", code, stdout)
	}

	tooNew := writeSource(t, "new.json", `{"requires": ">= 99.0.0"}`)
	code, _, stderr = runCLI("", "-config", tooNew, "parse", "-")
	if code != 1 || !strings.Contains(stderr, "does not satisfy") {
		t.Errorf("code = %d, stderr = %q", code, stderr)
	}
}

func TestTopLevel(t *testing.T) {
	if code, _, _ := runCLI(""); code != 2 {
		t.Errorf("no arguments: exit code = %d, want 2", code)
	}
	if code, _, stderr := runCLI("", "frobnicate"); code != 2 || !strings.Contains(stderr, "unknown subcommand") {
		t.Errorf("unknown subcommand: code = %d, stderr = %q", code, stderr)
	}
	code, stdout, _ := runCLI("", "help")
	if code != 0 || !strings.Contains(stdout, "COMMANDS:") {
		t.Errorf("help: code = %d, stdout = %q", code, stdout)
	}
	code, stdout, _ = runCLI("", "version", "-json")
	if code != 0 || !strings.Contains(stdout, `"tool": "escher"`) {
		t.Errorf("version: code = %d, stdout = %q", code, stdout)
	}
}

func TestHelpAndVersionIgnoreConfig(t *testing.T) {
	broken := writeSource(t, "broken.json", `{"max_depth": `)

	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{"version", []string{"-config", broken, "version"}, 0, "escher v"},
		{"version json", []string{"-config", broken, "version", "-json"}, 0, `"tool": "escher"`},
		{"help", []string{"-config", broken, "help"}, 0, "COMMANDS:"},
		{"parse still reads config", []string{"-config", broken, "parse", "-"}, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI("a", tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr = %s)", code, tt.code, stderr)
			}
			if !strings.Contains(stdout, tt.out) {
				t.Errorf("stdout = %q, want %q", stdout, tt.out)
			}
		})
	}
}

// TestMainExitCode runs main in a child process to check the exit status.
func TestMainExitCode(t *testing.T) {
	if os.Getenv("ESCHER_RUN_MAIN") == "1" {
		os.Args = []string{toolName, "frobnicate"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestMainExitCode$")
	cmd.Env = append(os.Environ(), "ESCHER_RUN_MAIN=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("main() error = %v, want a non-zero exit", err)
	}
	if exitErr.ExitCode() != 2 {
		t.Errorf("main() exit code = %d, want 2", exitErr.ExitCode())
	}
}

func TestSessionEval(t *testing.T) {
	var out bytes.Buffer
	s := &session{out: &out}

	steps := []struct {
		line string
		more bool
		want string
	}{
		{"", true, ""},
		{"{A}(fun f)", true, "((fun f))\nfun: {A}\n"},
		{":key name", true, "signature key name\n"},
		{"{A}(fun f)", true, "((fun f))\nf: {A}\n"},
		{":strict on", true, "strict mode on\n"},
		{"(a", true, "error: 1:1: list is not closed before end of input\n"},
		{":strict maybe", true, "usage: :strict on|off\n"},
		{":nope", true, "unknown command :nope, try :help\n"},
		{":q", false, ""},
	}

	for _, step := range steps {
		out.Reset()
		if got := s.eval(step.line); got != step.more {
			t.Errorf("eval(%q) = %v, want %v", step.line, got, step.more)
		}
		if out.String() != step.want {
			t.Errorf("eval(%q) output = %q, want %q", step.line, out.String(), step.want)
		}
	}

	if !s.opts.Strict {
		t.Error("strict mode should be on")
	}
	if s.opts.KeyFunc == nil {
		t.Error("key policy should be set")
	}
	if _, err := reader.ParseWithOptions("(a", s.opts); err == nil {
		t.Error("session options should be strict")
	}
}
