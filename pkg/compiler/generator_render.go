package compiler

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
)

const (
	programFile = "program.go"
	mainFile    = "main.go"
)

func (g *generator) render() (map[string][]byte, error) {
	files := make(map[string][]byte)
	compiled, err := g.renderProgram()
	if err != nil {
		return nil, err
	}
	files[programFile] = compiled
	if g.opts.EmitMain {
		mainSrc, err := g.renderMain()
		if err != nil {
			return nil, err
		}
		files[mainFile] = mainSrc
	}
	return files, nil
}

func (g *generator) header(buf *bytes.Buffer) {
	source := "AI-Lang source"
	if g.opts.SourcePath != "" {
		source = filepath.Base(g.opts.SourcePath)
	}
	fmt.Fprintf(buf, "// Code generated by ailangc from %s. DO NOT EDIT.\n\n", source)
	fmt.Fprintf(buf, "package %s\n\n", g.opts.PackageName)
}

func (g *generator) renderProgram() ([]byte, error) {
	var buf bytes.Buffer
	g.header(&buf)
	fmt.Fprintf(&buf, "import (\n")
	for _, imp := range []string{"bufio", "context", "fmt", "io", "math", "math/rand", "strconv", "strings", "time"} {
		fmt.Fprintf(&buf, "\t%q\n", imp)
	}
	fmt.Fprintf(&buf, ")\n\n")
	fmt.Fprintf(&buf, "const (\n\tmaxSteps int64 = %d\n\trandomSeed int64 = %d\n)\n\n", g.opts.MaxSteps, g.opts.Seed)

	fmt.Fprintf(&buf, "// Run executes the compiled program.\n")
	fmt.Fprintf(&buf, "func Run(stdin io.Reader, stdout io.Writer) error {\n")
	fmt.Fprintf(&buf, "\treturn RunContext(context.Background(), stdin, stdout)\n")
	fmt.Fprintf(&buf, "}\n\n")
	fmt.Fprintf(&buf, "// RunContext executes the compiled program, stopping when ctx is done.\n")
	fmt.Fprintf(&buf, "func RunContext(ctx context.Context, stdin io.Reader, stdout io.Writer) (err error) {\n")
	fmt.Fprintf(&buf, "\tp := newProgram(ctx, stdin, stdout)\n")
	fmt.Fprintf(&buf, "\tdefer func() {\n")
	fmt.Fprintf(&buf, "\t\tif r := recover(); r != nil {\n")
	fmt.Fprintf(&buf, "\t\t\terr = p.recovered(r)\n")
	fmt.Fprintf(&buf, "\t\t}\n")
	fmt.Fprintf(&buf, "\t}()\n")
	fmt.Fprintf(&buf, "\tp.run()\n")
	fmt.Fprintf(&buf, "\treturn nil\n")
	fmt.Fprintf(&buf, "}\n\n")

	fmt.Fprintf(&buf, "func (p *program) run() {\n")
	buf.Write(g.body.Bytes())
	fmt.Fprintf(&buf, "}\n\n")

	buf.WriteString(runtimeHelpers)
	return formatSource(buf.Bytes())
}

func (g *generator) renderMain() ([]byte, error) {
	if g.opts.PackageName != "main" {
		return nil, fmt.Errorf("compiler: EmitMain requires package name 'main'")
	}
	var buf bytes.Buffer
	g.header(&buf)
	fmt.Fprintf(&buf, "import (\n")
	fmt.Fprintf(&buf, "\t%q\n", "fmt")
	fmt.Fprintf(&buf, "\t%q\n", "os")
	fmt.Fprintf(&buf, ")\n\n")
	fmt.Fprintf(&buf, "func main() {\n")
	fmt.Fprintf(&buf, "\tif err := Run(os.Stdin, os.Stdout); err != nil {\n")
	fmt.Fprintf(&buf, "\t\tfmt.Fprintln(os.Stderr, err)\n")
	fmt.Fprintf(&buf, "\t\tos.Exit(1)\n")
	fmt.Fprintf(&buf, "\t}\n")
	fmt.Fprintf(&buf, "}\n")
	return formatSource(buf.Bytes())
}

func formatSource(src []byte) ([]byte, error) {
	formatted, err := format.Source(src)
	if err != nil {
		return src, fmt.Errorf("compiler: format generated source: %w", err)
	}
	return formatted, nil
}
