package interpreter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"ailang/interpreter-go/pkg/ast"
	"ailang/interpreter-go/pkg/runtime"
)

// DefaultMaxSteps bounds execution when Options.MaxSteps is zero.
const DefaultMaxSteps int64 = 10_000_000

// Options configures a new Interpreter. Zero values select stdin/stdout,
// DefaultMaxSteps, a random seed and a no-op logger. A negative MaxSteps
// disables the step guard.
type Options struct {
	Stdout   io.Writer
	Stdin    io.Reader
	MaxSteps int64
	Seed     uint64
	Logger   *zap.Logger
}

// Interpreter drives evaluation of AI-Lang programs.
type Interpreter struct {
	global   *runtime.Environment
	stdout   io.Writer
	stdin    *bufio.Reader
	maxSteps int64
	steps    int64
	rng      *rand.Rand
	logger   *zap.Logger
	builtins map[string]builtin
}

// New returns an interpreter with an empty global environment.
func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	interp := &Interpreter{
		global:   runtime.NewEnvironment(nil),
		stdout:   opts.Stdout,
		stdin:    bufio.NewReader(opts.Stdin),
		maxSteps: opts.MaxSteps,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:   opts.Logger,
	}
	interp.builtins = interp.defaultBuiltins()
	return interp
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Steps reports how many steps the most recent Run or Evaluate consumed.
func (i *Interpreter) Steps() int64 {
	return i.steps
}

// Run executes the program from the top. Variables persist across calls, so
// an interpreter can run several programs in sequence (the REPL does this).
// STOP and top-level END end the run successfully.
func (i *Interpreter) Run(ctx context.Context, program *ast.Program) error {
	if program == nil {
		return errors.New("interpreter: nil program")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	i.steps = 0
	started := time.Now()
	log := i.logger.With(zap.String("path", program.Path))
	log.Debug("program started", zap.Int("statements", len(program.Body)))

	err := i.executeBlock(ctx, program.Body, i.global)
	var stop stopSignal
	if errors.As(err, &stop) {
		log.Debug("program stopped", zap.Int("line", stop.line))
		err = nil
	}
	if err != nil {
		log.Debug("program failed", zap.Error(err), zap.Int64("steps", i.steps))
		return err
	}
	log.Debug("program finished", zap.Int64("steps", i.steps), zap.Duration("elapsed", time.Since(started)))
	return nil
}

// Evaluate computes a single expression against the global environment.
func (i *Interpreter) Evaluate(ctx context.Context, expr ast.Expression) (runtime.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	i.steps = 0
	if err := i.step(ctx, expr); err != nil {
		return nil, err
	}
	val, err := i.evaluateExpression(expr, i.global)
	if err != nil {
		return nil, i.attachRuntimeContext(err, expr)
	}
	return val, nil
}

// Execute runs statements against the shared global environment and reports
// whether the program asked to stop. The REPL uses it so that STOP ends the
// session instead of being swallowed.
func (i *Interpreter) Execute(ctx context.Context, program *ast.Program) (bool, error) {
	if program == nil {
		return false, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	i.steps = 0
	err := i.executeBlock(ctx, program.Body, i.global)
	var stop stopSignal
	if errors.As(err, &stop) {
		return true, nil
	}
	return false, err
}
