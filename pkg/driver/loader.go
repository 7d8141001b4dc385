package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ailang/interpreter-go/pkg/ast"
	"ailang/interpreter-go/pkg/parser"
)

// Program is a parsed entry file.
type Program struct {
	Path   string
	Source []byte
	AST    *ast.Program
}

// Loader resolves program references and parses them. A reference is a file
// path, or `dep:file` naming a file inside a locked dependency.
type Loader struct {
	baseDir string
	lock    *Lockfile
}

type LoaderOptions struct {
	// BaseDir anchors relative paths; empty means the working directory.
	BaseDir  string
	Lockfile *Lockfile
}

func NewLoader(opts LoaderOptions) *Loader {
	return &Loader{baseDir: opts.BaseDir, lock: opts.Lockfile}
}

// Resolve maps a reference to an absolute file path without reading it.
func (l *Loader) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("loader: empty program reference")
	}
	if dep, file, ok := splitDependencyRef(ref); ok {
		pkg, found := l.lock.Find(dep)
		if !found {
			return "", fmt.Errorf("loader: dependency %q is not installed (run `ailang deps install`)", dep)
		}
		return filepath.Join(pkg.Path, filepath.FromSlash(file)), nil
	}
	path := ref
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	return filepath.Abs(path)
}

// Load reads and parses the referenced program.
func (l *Loader) Load(ref string) (*Program, error) {
	path, err := l.Resolve(ref)
	if err != nil {
		return nil, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	program, err := ParseSource(path, source)
	if err != nil {
		return nil, err
	}
	return &Program{Path: path, Source: source, AST: program}, nil
}

// ParseSource parses source, converting parse failures into
// *ParserDiagnosticError tagged with path.
func ParseSource(path string, source []byte) (*ast.Program, error) {
	program, err := parser.Parse(source)
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			return nil, &ParserDiagnosticError{
				Diagnostic: ParserDiagnostic{
					Severity: SeverityError,
					Message:  parseErr.Message,
					Location: DiagnosticLocation{
						Path:      path,
						Line:      parseErr.Location.Line,
						Column:    parseErr.Location.Column,
						EndLine:   parseErr.Location.EndLine,
						EndColumn: parseErr.Location.EndColumn,
					},
				},
			}
		}
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}
	program.Path = path
	return program, nil
}

// splitDependencyRef recognises `dep:file`. Windows drive letters and paths
// containing a separator before the colon are treated as plain paths.
func splitDependencyRef(ref string) (string, string, bool) {
	idx := strings.Index(ref, ":")
	if idx <= 1 || idx == len(ref)-1 {
		return "", "", false
	}
	dep := ref[:idx]
	if strings.ContainsAny(dep, `/\.`) {
		return "", "", false
	}
	return dep, ref[idx+1:], true
}
