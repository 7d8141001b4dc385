package compiler

import (
	"context"
	"fmt"
	"io"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Eval runs a compiled program in-process with the yaegi Go interpreter. The
// generated code checks ctx between statements, so cancellation is honoured
// without a watchdog goroutine.
func Eval(ctx context.Context, result *Result, stdin io.Reader, stdout io.Writer) error {
	if result == nil {
		return fmt.Errorf("compiler: nil result")
	}
	src, ok := result.Files[programFile]
	if !ok {
		return fmt.Errorf("compiler: result has no %s", programFile)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("compiler: load stdlib symbols: %w", err)
	}
	if _, err := i.Eval(string(src)); err != nil {
		return fmt.Errorf("compiler: evaluate generated code: %w", err)
	}
	sym, err := i.Eval(result.PackageName + ".RunContext")
	if err != nil {
		return fmt.Errorf("compiler: RunContext not found: %w", err)
	}
	run, ok := sym.Interface().(func(context.Context, io.Reader, io.Writer) error)
	if !ok {
		return fmt.Errorf("compiler: RunContext has unexpected type %s", sym.Type())
	}
	return run(ctx, stdin, stdout)
}
