package compiler

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func TestBuildExecHarness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping compiler exec harness in short mode")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
	result := compileSource(t, helloSource, Options{EmitMain: true})

	binPath := filepath.Join(t.TempDir(), "hello")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}
	if err := Build(context.Background(), result, BuildOptions{OutputPath: binPath}); err != nil {
		t.Fatalf("build: %v", err)
	}

	output, err := exec.Command(binPath).CombinedOutput()
	if err != nil {
		t.Fatalf("run compiled program: %v\n%s", err, output)
	}
	if string(output) != "Hello, World!\n" {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestBuildRequiresMain(t *testing.T) {
	result := compileSource(t, helloSource, Options{})
	err := Build(context.Background(), result, BuildOptions{OutputPath: filepath.Join(t.TempDir(), "bin")})
	if err == nil || err.Error() != "compiler: build requires a result compiled with EmitMain" {
		t.Fatalf("unexpected error: %v", err)
	}
}
