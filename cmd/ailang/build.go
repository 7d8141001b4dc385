package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ailang/interpreter-go/pkg/compiler"
)

type buildOptions struct {
	outputDir string
	pkgName   string
	emitMain  bool
	binary    string
}

func (c *cli) buildCommand() *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build [target|file]",
		Short: "Translate a program into Go source, optionally building a binary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			return c.build(cmd, arg, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", filepath.Join("target", "compiled"), "output directory for generated Go code")
	cmd.Flags().StringVar(&opts.pkgName, "pkg", "", "Go package name for generated code")
	cmd.Flags().BoolVar(&opts.emitMain, "main", false, "emit a runnable main.go wrapper (package must be main)")
	cmd.Flags().StringVar(&opts.binary, "binary", "", "also run `go build` and write the executable here")
	return cmd
}

func (c *cli) build(cmd *cobra.Command, arg string, opts buildOptions) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	entry, err := resolveEntry(workDir, arg)
	if err != nil {
		return err
	}
	program, err := entry.load()
	if err != nil {
		return err
	}

	if opts.binary != "" {
		opts.emitMain = true
	}
	if opts.emitMain {
		if opts.pkgName != "" && opts.pkgName != "main" {
			return fmt.Errorf("build: --main requires --pkg=main")
		}
		opts.pkgName = "main"
	}

	result, err := compiler.New(compiler.Options{
		PackageName: opts.pkgName,
		EmitMain:    opts.emitMain,
		MaxSteps:    c.cfg.StepBudget(),
		Seed:        int64(c.cfg.Seed),
		SourcePath:  program.Path,
	}).Compile(program.AST)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), warning)
	}
	if err := result.Write(opts.outputDir); err != nil {
		return err
	}
	for _, name := range result.FileNames() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(opts.outputDir, name))
	}

	if opts.binary == "" {
		return nil
	}
	buildOpts := compiler.BuildOptions{OutputPath: opts.binary}
	if c.cfg.CacheDir != "" {
		cacheDir, err := c.cfg.ResolveCacheDir()
		if err != nil {
			return err
		}
		buildOpts.GoCache = filepath.Join(cacheDir, "gocache")
	}
	c.log.Debug("building binary", zap.String("output", opts.binary), zap.String("gocache", buildOpts.GoCache))
	if err := compiler.Build(cmd.Context(), result, buildOpts); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", opts.binary)
	return nil
}
