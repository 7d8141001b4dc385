package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"ailang/interpreter-go/pkg/compiler"
	"ailang/interpreter-go/pkg/driver"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := pflag.NewFlagSet("ailangc", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	outputDir := fs.StringP("output", "o", filepath.Join("target", "compiled"), "output directory for generated Go code")
	pkgName := fs.String("pkg", "", "Go package name for generated code")
	emitMain := fs.Bool("main", false, "emit a runnable main.go wrapper (package must be main)")
	maxSteps := fs.Int64("max-steps", compiler.DefaultMaxSteps, "step budget compiled into the program (negative disables)")
	seed := fs.Int64("seed", 0, "fixed RND seed (0 seeds from the clock)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: ailangc [options] <entry.ai>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	entry := fs.Arg(0)
	if entry == "" || fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	if *emitMain {
		if *pkgName != "" && *pkgName != "main" {
			fmt.Fprintln(stderr, "ailangc: -main requires -pkg=main")
			return 2
		}
		*pkgName = "main"
	}

	program, err := driver.NewLoader(driver.LoaderOptions{}).Load(entry)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	result, err := compiler.New(compiler.Options{
		PackageName: *pkgName,
		EmitMain:    *emitMain,
		MaxSteps:    *maxSteps,
		Seed:        *seed,
		SourcePath:  program.Path,
	}).Compile(program.AST)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(stderr, warning)
	}
	if err := result.Write(*outputDir); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
