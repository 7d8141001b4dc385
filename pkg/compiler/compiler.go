package compiler

import (
	"fmt"

	"ailang/interpreter-go/pkg/ast"
)

// DefaultMaxSteps matches the interpreter's default step budget.
const DefaultMaxSteps int64 = 10_000_000

type Options struct {
	PackageName string
	EmitMain    bool
	// MaxSteps is compiled into the program; zero selects DefaultMaxSteps and
	// a negative value disables the guard.
	MaxSteps int64
	// Seed fixes the RND sequence; zero seeds from the clock at startup.
	Seed int64
	// SourcePath is recorded in the generated header.
	SourcePath string
}

type Result struct {
	PackageName string
	Files       map[string][]byte
	Warnings    []string
}

type Compiler struct {
	opts Options
}

func New(opts Options) *Compiler {
	if opts.PackageName == "" {
		opts.PackageName = "main"
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	return &Compiler{opts: opts}
}

func (c *Compiler) Compile(program *ast.Program) (*Result, error) {
	if program == nil {
		return nil, fmt.Errorf("compiler: missing program")
	}
	if c.opts.SourcePath == "" {
		c.opts.SourcePath = program.Path
	}
	gen := newGenerator(c.opts)
	if err := gen.collect(program); err != nil {
		return nil, err
	}
	files, err := gen.render()
	if err != nil {
		return nil, err
	}
	return &Result{PackageName: c.opts.PackageName, Files: files, Warnings: gen.warnings}, nil
}

func (r *Result) Write(dir string) error {
	if r == nil {
		return fmt.Errorf("compiler: nil result")
	}
	return writeFiles(dir, r.Files)
}
