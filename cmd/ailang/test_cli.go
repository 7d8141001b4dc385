package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	goruntime "runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ailang/interpreter-go/pkg/driver"
	"ailang/interpreter-go/pkg/logger"
)

const (
	goldenExt = ".out"
	inputExt  = ".in"
)

// goldenCase is a program with the stdout it must produce. A program that
// fails is expected to end its golden file with the error line.
type goldenCase struct {
	path   string
	golden string
	input  string
}

type goldenResult struct {
	name    string
	passed  bool
	skipped bool
	elapsed time.Duration
	diff    string
	err     error
}

type testOptions struct {
	update   bool
	failFast bool
}

func (c *cli) testCommand() *cobra.Command {
	var opts testOptions
	cmd := &cobra.Command{
		Use:   "test [paths...]",
		Short: "Run programs and compare their output with golden files",
		Long: `Run every .ai file that has a sibling .out file and compare the output.
A sibling .in file, when present, is fed to INPUT statements.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return c.runTests(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.update, "update", false, "rewrite golden files with the current output")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "stop scheduling programs after the first failure")
	return cmd
}

func (c *cli) runTests(ctx context.Context, out io.Writer, paths []string, opts testOptions) error {
	cases, err := discoverGoldenCases(paths)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		_, _ = fmt.Fprintln(out, "no programs with golden files found")
		return nil
	}

	results := make([]goldenResult, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(goruntime.GOMAXPROCS(0))
	for i, tc := range cases {
		g.Go(func() error {
			results[i] = c.runGoldenCase(gctx, tc, opts.update)
			if opts.failFast && !results[i].passed {
				return fmt.Errorf("%s failed", results[i].name)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	failed := renderTestResults(out, results)
	if failed > 0 {
		return fmt.Errorf("test: %d of %d programs failed", failed, len(results))
	}
	return nil
}

func (c *cli) runGoldenCase(ctx context.Context, tc goldenCase, update bool) (result goldenResult) {
	result.name = displayPath(tc.path)
	if ctx.Err() != nil {
		result.skipped = true
		return result
	}
	start := time.Now()
	defer func() { result.elapsed = time.Since(start) }()

	got, err := c.captureOutput(ctx, tc)
	if ctx.Err() != nil {
		// cut short by --fail-fast; its output proves nothing
		result.skipped = true
		return result
	}
	if err != nil {
		result.err = err
		return result
	}
	if update {
		if err := os.WriteFile(tc.golden, []byte(got), 0o644); err != nil {
			result.err = err
			return result
		}
		result.passed = true
		return result
	}
	want, err := os.ReadFile(tc.golden)
	if err != nil {
		result.err = err
		return result
	}
	result.diff = cmp.Diff(string(want), got)
	result.passed = result.diff == ""
	logger.FromContext(ctx).Debug("golden program finished",
		zap.String("program", result.name),
		zap.Bool("passed", result.passed))
	return result
}

// captureOutput runs the program and returns stdout followed by the error
// line, if the program failed.
func (c *cli) captureOutput(ctx context.Context, tc goldenCase) (string, error) {
	stdin := io.Reader(strings.NewReader(""))
	if tc.input != "" {
		data, err := os.ReadFile(tc.input)
		if err != nil {
			return "", err
		}
		stdin = bytes.NewReader(data)
	}

	var stdout bytes.Buffer
	loader := driver.NewLoader(driver.LoaderOptions{BaseDir: filepath.Dir(tc.path)})
	program, err := loader.Load(tc.path)
	if err == nil {
		err = execute(ctx, c.cfg, program, stdin, &stdout)
	}
	if err != nil {
		var perr *programError
		if _, isParse := driver.AsParserDiagnostic(err); !isParse && !errors.As(err, &perr) {
			return "", err
		}
		stdout.WriteString(c.describeError(err))
		stdout.WriteByte('\n')
	}
	return stdout.String(), nil
}

func renderTestResults(out io.Writer, results []goldenResult) int {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Program", "Result", "Time"})

	failed, skipped := 0, 0
	for _, r := range results {
		status := "PASS"
		switch {
		case r.skipped:
			status = "SKIP"
			skipped++
		case r.err != nil:
			status = "ERROR"
			failed++
		case !r.passed:
			status = "FAIL"
			failed++
		}
		t.AppendRow(table.Row{r.name, status, r.elapsed.Round(time.Microsecond)})
	}
	summary := fmt.Sprintf("%d/%d passed", len(results)-failed-skipped, len(results))
	if skipped > 0 {
		summary += fmt.Sprintf(", %d skipped", skipped)
	}
	t.AppendFooter(table.Row{"", summary, ""})
	t.Render()

	for _, r := range results {
		switch {
		case r.skipped:
		case r.err != nil:
			_, _ = fmt.Fprintf(out, "\n%s: %v\n", r.name, r.err)
		case !r.passed:
			_, _ = fmt.Fprintf(out, "\n%s: output mismatch (-want +got):\n%s", r.name, r.diff)
		}
	}
	return failed
}

// discoverGoldenCases collects .ai files with a sibling golden file. Explicit
// file arguments must have one.
func discoverGoldenCases(paths []string) ([]goldenCase, error) {
	seen := make(map[string]struct{})
	var cases []goldenCase
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		golden := strings.TrimSuffix(abs, filepath.Ext(abs)) + goldenExt
		if _, err := os.Stat(golden); err != nil {
			return
		}
		seen[abs] = struct{}{}
		tc := goldenCase{path: abs, golden: golden}
		input := strings.TrimSuffix(abs, filepath.Ext(abs)) + inputExt
		if _, err := os.Stat(input); err == nil {
			tc.input = input
		}
		cases = append(cases, tc)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("test: %w", err)
		}
		if !info.IsDir() {
			golden := strings.TrimSuffix(root, filepath.Ext(root)) + goldenExt
			if _, err := os.Stat(golden); err != nil {
				return nil, fmt.Errorf("test: %s has no golden file %s", root, filepath.Base(golden))
			}
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".ai" {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("test: %w", err)
		}
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].path < cases[j].path })
	return cases, nil
}

func displayPath(path string) string {
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}
