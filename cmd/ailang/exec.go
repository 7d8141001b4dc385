package main

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"ailang/interpreter-go/pkg/compiler"
	"ailang/interpreter-go/pkg/config"
	"ailang/interpreter-go/pkg/driver"
	"ailang/interpreter-go/pkg/interpreter"
	"ailang/interpreter-go/pkg/logger"
)

// execute runs program with the configured engine. Failures raised by the
// program come back as *programError.
func execute(ctx context.Context, cfg *config.Config, program *driver.Program, stdin io.Reader, stdout io.Writer) error {
	log := logger.FromContext(ctx).With(
		zap.String("program", program.Path),
		zap.String("exec_mode", cfg.ExecMode),
	)
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	var err error
	switch cfg.ExecMode {
	case config.ExecModeCompiled:
		err = executeCompiled(ctx, cfg, program, stdin, stdout, log)
	default:
		interp := interpreter.New(interpreter.Options{
			Stdout:   stdout,
			Stdin:    stdin,
			MaxSteps: cfg.StepBudget(),
			Seed:     cfg.Seed,
			Logger:   log,
		})
		if err = interp.Run(ctx, program.AST); err != nil {
			err = &programError{err: err}
		}
	}
	log.Debug("execution finished", zap.Duration("elapsed", time.Since(start)), zap.Bool("ok", err == nil))
	return err
}

func executeCompiled(ctx context.Context, cfg *config.Config, program *driver.Program, stdin io.Reader, stdout io.Writer, log *zap.Logger) error {
	result, err := compiler.New(compiler.Options{
		MaxSteps:   cfg.StepBudget(),
		Seed:       int64(cfg.Seed),
		SourcePath: program.Path,
	}).Compile(program.AST)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		log.Warn("compiler warning", zap.String("warning", warning))
	}
	if err := compiler.Eval(ctx, result, stdin, stdout); err != nil {
		if strings.HasPrefix(err.Error(), "compiler:") {
			return err
		}
		return &programError{err: err}
	}
	return nil
}
