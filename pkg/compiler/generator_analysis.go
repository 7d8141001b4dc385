package compiler

import (
	"fmt"
	"sort"

	"ailang/interpreter-go/pkg/ast"
)

// analyze records a warning for every variable the program reads but never
// assigns. Such reads always fail at runtime with "Undefined variable".
func (g *generator) analyze(program *ast.Program) {
	assigned := make(map[string]bool)
	skip := make(map[*ast.Identifier]bool)
	firstRead := make(map[string]int)

	ast.Walk(program, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.LetStatement:
			assigned[n.Target.Name] = true
			skip[n.Target] = true
		case *ast.InputStatement:
			assigned[n.Target.Name] = true
			skip[n.Target] = true
		case *ast.ForLoop:
			assigned[n.Variable.Name] = true
			skip[n.Variable] = true
		case *ast.FunctionCall:
			skip[n.Callee] = true
		case *ast.Identifier:
			if skip[n] {
				return true
			}
			if _, seen := firstRead[n.Name]; !seen {
				firstRead[n.Name] = lineOf(n)
			}
		}
		return true
	})

	names := make([]string, 0, len(firstRead))
	for name := range firstRead {
		if !assigned[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		g.warnings = append(g.warnings, fmt.Sprintf("line %d: variable %s is read but never assigned", firstRead[name], name))
	}
}
