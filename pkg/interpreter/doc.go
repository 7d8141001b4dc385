// Package interpreter executes AI-Lang programs by walking the AST produced by
// pkg/parser. Programs share one global environment; every executed statement
// and loop pass is charged against an optional step budget so runaway loops
// fail with a StepLimitError instead of hanging. The compiled execution mode in
// pkg/compiler mirrors these semantics and error messages.
package interpreter
