package compiler

import (
	"bytes"
	"fmt"
	"strings"

	"ailang/interpreter-go/pkg/ast"
)

type generator struct {
	opts     Options
	program  *ast.Program
	warnings []string
	temps    int
	body     bytes.Buffer
	depth    int
}

func newGenerator(opts Options) *generator {
	return &generator{opts: opts}
}

// collect renders the program body so that unsupported nodes surface before
// any file is assembled.
func (g *generator) collect(program *ast.Program) error {
	g.program = program
	g.analyze(program)
	g.depth = 1
	return g.emitBlock(program.Body)
}

func (g *generator) nextTemp() int {
	g.temps++
	return g.temps
}

func (g *generator) line(format string, args ...any) {
	g.body.WriteString(strings.Repeat("\t", g.depth))
	fmt.Fprintf(&g.body, format, args...)
	g.body.WriteByte('\n')
}

func lineOf(node ast.Node) int {
	if node == nil {
		return 0
	}
	return node.Span().Start.Line
}

func (g *generator) emitBlock(body []ast.Statement) error {
	for _, stmt := range body {
		if err := g.emitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) emitStatement(stmt ast.Statement) error {
	line := lineOf(stmt)
	g.line("p.step(%d)", line)
	switch s := stmt.(type) {
	case *ast.LetStatement:
		value, err := g.expr(s.Value, line)
		if err != nil {
			return err
		}
		g.line("p.set(%q, %s)", s.Target.Name, value)
	case *ast.PrintStatement:
		items := make([]string, 0, len(s.Items))
		for _, item := range s.Items {
			code, err := g.expr(item, line)
			if err != nil {
				return err
			}
			items = append(items, code)
		}
		args := ""
		if len(items) > 0 {
			args = ", " + strings.Join(items, ", ")
		}
		g.line("p.print(%d, %t%s)", line, !s.SuppressNewline, args)
	case *ast.InputStatement:
		prompt := fmt.Sprintf("Enter %s: ", s.Target.Name)
		if s.Prompt != nil {
			prompt = s.Prompt.Value
		}
		g.line("p.input(%d, %q, %q)", line, s.Target.Name, prompt)
	case *ast.IfStatement:
		return g.emitIf(s, line)
	case *ast.ForLoop:
		return g.emitFor(s, line)
	case *ast.WhileLoop:
		cond, err := g.expr(s.Condition, line)
		if err != nil {
			return err
		}
		g.line("for p.truth(%d, %s) {", line, cond)
		g.depth++
		g.line("p.step(%d)", line)
		if err := g.emitBlock(s.Body); err != nil {
			return err
		}
		g.depth--
		g.line("}")
	case *ast.StopStatement:
		g.line("p.stop()")
	default:
		return fmt.Errorf("compiler: unsupported statement %T", stmt)
	}
	return nil
}

func (g *generator) emitIf(stmt *ast.IfStatement, line int) error {
	cond, err := g.expr(stmt.Condition, line)
	if err != nil {
		return err
	}
	g.line("if p.truth(%d, %s) {", line, cond)
	g.depth++
	if err := g.emitBlock(stmt.Then); err != nil {
		return err
	}
	g.depth--
	if len(stmt.Else) > 0 {
		g.line("} else {")
		g.depth++
		if err := g.emitBlock(stmt.Else); err != nil {
			return err
		}
		g.depth--
	}
	g.line("}")
	return nil
}

func (g *generator) emitFor(loop *ast.ForLoop, line int) error {
	id := g.nextTemp()
	from, err := g.expr(loop.Start, line)
	if err != nil {
		return err
	}
	to, err := g.expr(loop.End, line)
	if err != nil {
		return err
	}
	name := loop.Variable.Name

	g.line("{")
	g.depth++
	g.line("from%d := p.number(%d, %s, %q)", id, line, from, "Loop bounds must be numbers")
	g.line("to%d := p.number(%d, %s, %q)", id, line, to, "Loop bounds must be numbers")
	if loop.Step != nil {
		by, err := g.expr(loop.Step, line)
		if err != nil {
			return err
		}
		g.line("by%d := p.number(%d, %s, %q)", id, line, by, "FOR step must be a number")
	} else {
		g.line("by%d := 1.0", id)
	}
	g.line("if by%d == 0 {", id)
	g.line("\tp.fail(%d, %q)", line, "FOR step must not be zero")
	g.line("}")
	g.line("cur%d := from%d", id, id)
	g.line("p.set(%q, num(cur%d))", name, id)
	g.line("for !(by%[1]d > 0 && cur%[1]d > to%[1]d || by%[1]d < 0 && cur%[1]d < to%[1]d) {", id)
	g.depth++
	g.line("p.step(%d)", line)
	if err := g.emitBlock(loop.Body); err != nil {
		return err
	}
	g.line("cur%d = p.loopVar(%d, %q) + by%d", id, line, name, id)
	g.line("p.set(%q, num(cur%d))", name, id)
	g.depth--
	g.line("}")
	g.depth--
	g.line("}")
	return nil
}
