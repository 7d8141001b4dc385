package driver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderLoadsRelativeToBaseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hello.ai"), "PRINT \"hi\"\n")

	program, err := NewLoader(LoaderOptions{BaseDir: dir}).Load("hello.ai")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hello.ai"), program.Path)
	assert.Equal(t, program.Path, program.AST.Path)
	assert.Len(t, program.AST.Body, 1)
	assert.Equal(t, "PRINT \"hi\"\n", string(program.Source))
}

func TestLoaderResolvesDependencyReferences(t *testing.T) {
	cache := t.TempDir()
	writeFile(t, filepath.Join(cache, "mathlib", "primes.ai"), "PRINT 2\n")
	lock := NewLockfile("demo", "test")
	lock.Upsert(&LockedPackage{Name: "mathlib", Path: filepath.Join(cache, "mathlib")})

	loader := NewLoader(LoaderOptions{Lockfile: lock})
	program, err := loader.Load("mathlib:primes.ai")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cache, "mathlib", "primes.ai"), program.Path)

	_, err = loader.Load("other:x.ai")
	require.EqualError(t, err, "loader: dependency \"other\" is not installed (run `ailang deps install`)")
}

func TestSplitDependencyRef(t *testing.T) {
	cases := []struct {
		ref  string
		dep  string
		file string
		ok   bool
	}{
		{"mathlib:primes.ai", "mathlib", "primes.ai", true},
		{"lib:nested/file.ai", "lib", "nested/file.ai", true},
		{"C:\\programs\\a.ai", "", "", false},
		{"./dir:x/a.ai", "", "", false},
		{"plain.ai", "", "", false},
		{"dep:", "", "", false},
	}
	for _, tc := range cases {
		dep, file, ok := splitDependencyRef(tc.ref)
		assert.Equal(t, tc.ok, ok, tc.ref)
		assert.Equal(t, tc.dep, dep, tc.ref)
		assert.Equal(t, tc.file, file, tc.ref)
	}
}

func TestLoaderReportsParserDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "broken.ai"), "PRINT 1\nIF 1 DO\n  PRINT 2\n")

	_, err := NewLoader(LoaderOptions{}).Load(path)
	require.Error(t, err)
	diag, ok := AsParserDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, SeverityError, diag.Severity)
	assert.Equal(t, path, diag.Location.Path)
	assert.Equal(t, 4, diag.Location.Line)
	assert.Equal(t, "parser: "+path+":4:1: syntax error: IF block opened at line 2 is missing END", err.Error())
}

func TestDescribeParserDiagnostic(t *testing.T) {
	assert.Equal(t, "parser: line 2:5: oops", DescribeParserDiagnostic(ParserDiagnostic{
		Message:  "parser: oops",
		Location: DiagnosticLocation{Line: 2, Column: 5},
	}))
	assert.Equal(t, "parser: a.ai: oops", DescribeParserDiagnostic(ParserDiagnostic{
		Message:  "oops",
		Location: DiagnosticLocation{Path: "a.ai"},
	}))
	assert.Equal(t, "parser: oops", DescribeParserDiagnostic(ParserDiagnostic{Message: "oops"}))
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(LoaderOptions{BaseDir: t.TempDir()}).Load("nope.ai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader: read")
	_, err = NewLoader(LoaderOptions{}).Load("  ")
	require.EqualError(t, err, "loader: empty program reference")
}
