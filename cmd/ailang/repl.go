package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ailang/interpreter-go/pkg/driver"
	"ailang/interpreter-go/pkg/interpreter"
	"ailang/interpreter-go/pkg/parser"
	"ailang/interpreter-go/pkg/runtime"
)

const (
	replPrompt         = "ailang> "
	replContinuePrompt = "   ...> "
)

func (c *cli) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Start an interactive session. Variables persist between inputs, and
blocks (IF ... DO, FOR, WHILE) keep reading lines until they are closed.
A bare expression prints its value. STOP ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runREPL(cmd.Context())
		},
	}
}

func (c *cli) runREPL(ctx context.Context) error {
	rlConfig := &readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     c.cfg.ResolveHistoryFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          c.stdout,
		Stderr:          c.stderr,
	}
	if f, ok := c.stdin.(*os.File); !ok || f != os.Stdin {
		rlConfig.Stdin = io.NopCloser(c.stdin)
	}
	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	session := newREPLSession(c, rl.Stdout(), &readlineInput{rl: rl})
	if isTerminal(c.stdout) {
		_, _ = fmt.Fprintf(c.stdout, "%s interactive session\n", cliToolVersion)
		_, _ = fmt.Fprintln(c.stdout, "Type .help for commands, .quit to exit")
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if session.feed(ctx, line) {
			return nil
		}
		rl.SetPrompt(session.prompt())
	}
}

// replSession holds the interpreter and any unfinished input between lines.
type replSession struct {
	interp  *interpreter.Interpreter
	out     io.Writer
	vague   bool
	log     *zap.Logger
	pending strings.Builder
}

func newREPLSession(c *cli, out io.Writer, in io.Reader) *replSession {
	return &replSession{
		interp: interpreter.New(interpreter.Options{
			Stdout:   out,
			Stdin:    in,
			MaxSteps: c.cfg.StepBudget(),
			Seed:     c.cfg.Seed,
			Logger:   c.log,
		}),
		out:   out,
		vague: c.cfg.VagueErrors,
		log:   c.log,
	}
}

func (s *replSession) prompt() string {
	if s.pending.Len() > 0 {
		return replContinuePrompt
	}
	return replPrompt
}

func (s *replSession) reset() {
	s.pending.Reset()
}

// feed consumes one input line and reports whether the session is over.
func (s *replSession) feed(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if s.pending.Len() == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.dotCommand(trimmed)
		}
	}

	s.pending.WriteString(line)
	s.pending.WriteByte('\n')
	source := s.pending.String()

	program, err := driver.ParseSource("", []byte(source))
	if err != nil {
		if diag, ok := driver.AsParserDiagnostic(err); ok && blockStillOpen(diag) {
			return false
		}
		s.pending.Reset()
		// a bare expression prints its value
		if expr, exprErr := parser.ParseExpression([]byte(source)); exprErr == nil {
			val, evalErr := s.interp.Evaluate(ctx, expr)
			if evalErr != nil {
				s.report(evalErr)
				return false
			}
			_, _ = fmt.Fprintln(s.out, val.String())
			return false
		}
		s.reportParse(err)
		return false
	}
	s.pending.Reset()

	stopped, err := s.interp.Execute(ctx, program)
	if err != nil {
		s.report(err)
		return false
	}
	return stopped
}

func blockStillOpen(diag driver.ParserDiagnostic) bool {
	return strings.Contains(diag.Message, "block opened at line")
}

func (s *replSession) dotCommand(line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		_, _ = fmt.Fprintln(s.out, "Commands:")
		_, _ = fmt.Fprintln(s.out, "  .help   show this message")
		_, _ = fmt.Fprintln(s.out, "  .vars   list variables and their values")
		_, _ = fmt.Fprintln(s.out, "  .quit   leave the session")
	case ".vars":
		env := s.interp.GlobalEnvironment()
		snapshot := env.Snapshot()
		for _, name := range env.Keys() {
			_, _ = fmt.Fprintf(s.out, "%s = %s\n", name, describeValue(snapshot[name]))
		}
	default:
		_, _ = fmt.Fprintf(s.out, "unknown command %s (try .help)\n", fields[0])
	}
	return false
}

func describeValue(val runtime.Value) string {
	if s, ok := val.(runtime.StringValue); ok {
		return strconv.Quote(s.Val)
	}
	return val.String()
}

// readlineInput feeds INPUT statements from the line editor so they share
// the terminal with the prompt.
type readlineInput struct {
	rl  *readline.Instance
	buf []byte
}

func (r *readlineInput) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		r.rl.SetPrompt("")
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return 0, io.EOF
		}
		if err != nil {
			return 0, err
		}
		r.buf = []byte(line + "\n")
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (s *replSession) report(err error) {
	s.log.Debug("repl input failed", zap.Error(err))
	_, _ = fmt.Fprintln(s.out, interpreter.DescribeRuntimeError(err, s.vague))
}

func (s *replSession) reportParse(err error) {
	if s.vague {
		_, _ = fmt.Fprintln(s.out, interpreter.VagueMessage)
		return
	}
	if diag, ok := driver.AsParserDiagnostic(err); ok {
		_, _ = fmt.Fprintln(s.out, driver.DescribeParserDiagnostic(diag))
		return
	}
	_, _ = fmt.Fprintln(s.out, err.Error())
}

func isTerminal(w io.Writer) bool {
	type fder interface{ Fd() uintptr }
	f, ok := w.(fder)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
