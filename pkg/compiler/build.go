package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrGoToolchainMissing is returned by Build when no go binary is on PATH.
var ErrGoToolchainMissing = errors.New("compiler: go toolchain not found on PATH")

// BuildOptions controls Build. An empty WorkDir uses a temporary directory
// that is removed afterwards.
type BuildOptions struct {
	OutputPath string
	WorkDir    string
	GoCache    string
}

// Build writes result into a throwaway module and runs `go build`. The result
// must have been compiled with EmitMain.
func Build(ctx context.Context, result *Result, opts BuildOptions) error {
	if result == nil {
		return fmt.Errorf("compiler: nil result")
	}
	if _, ok := result.Files[mainFile]; !ok {
		return fmt.Errorf("compiler: build requires a result compiled with EmitMain")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("compiler: build requires an output path")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		return ErrGoToolchainMissing
	}
	output, err := filepath.Abs(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("compiler: resolve output path: %w", err)
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir, err = os.MkdirTemp("", "ailang-build-")
		if err != nil {
			return fmt.Errorf("compiler: temp dir: %w", err)
		}
		defer os.RemoveAll(workDir)
	}

	files := make(map[string][]byte, len(result.Files)+1)
	for name, data := range result.Files {
		files[name] = data
	}
	files["go.mod"] = []byte("module ailangprogram\n\ngo 1.21\n")
	if err := writeFiles(workDir, files); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, goBin, "build", "-o", output, ".")
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "GOWORK=off")
	if opts.GoCache != "" {
		cmd.Env = append(cmd.Env, "GOCACHE="+opts.GoCache)
	}
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("compiler: go build failed: %w\n%s", err, stderr.String())
	}
	return nil
}
