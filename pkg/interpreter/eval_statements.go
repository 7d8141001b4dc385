package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ailang/interpreter-go/pkg/ast"
	"ailang/interpreter-go/pkg/runtime"
)

// step charges one unit against the budget and checks for cancellation.
func (i *Interpreter) step(ctx context.Context, node ast.Node) error {
	if err := ctx.Err(); err != nil {
		return i.attachRuntimeContext(&CancelledError{Err: err}, node)
	}
	i.steps++
	if i.maxSteps > 0 && i.steps > i.maxSteps {
		return i.attachRuntimeContext(&StepLimitError{Limit: i.maxSteps}, node)
	}
	return nil
}

func (i *Interpreter) executeBlock(ctx context.Context, body []ast.Statement, env *runtime.Environment) error {
	for _, stmt := range body {
		if err := i.executeStatement(ctx, stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeStatement(ctx context.Context, stmt ast.Statement, env *runtime.Environment) error {
	if err := i.step(ctx, stmt); err != nil {
		return err
	}
	var err error
	switch s := stmt.(type) {
	case *ast.LetStatement:
		err = i.executeLet(s, env)
	case *ast.PrintStatement:
		err = i.executePrint(s, env)
	case *ast.InputStatement:
		err = i.executeInput(s, env)
	case *ast.IfStatement:
		return i.executeIf(ctx, s, env)
	case *ast.ForLoop:
		return i.executeFor(ctx, s, env)
	case *ast.WhileLoop:
		return i.executeWhile(ctx, s, env)
	case *ast.StopStatement:
		return stopSignal{line: s.Span().Start.Line}
	default:
		err = fmt.Errorf("unsupported statement %T", stmt)
	}
	return i.attachRuntimeContext(err, stmt)
}

func (i *Interpreter) executeLet(stmt *ast.LetStatement, env *runtime.Environment) error {
	val, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return err
	}
	env.Set(stmt.Target.Name, val)
	return nil
}

func (i *Interpreter) executePrint(stmt *ast.PrintStatement, env *runtime.Environment) error {
	parts := make([]string, 0, len(stmt.Items))
	for _, item := range stmt.Items {
		val, err := i.evaluateExpression(item, env)
		if err != nil {
			return err
		}
		parts = append(parts, val.String())
	}
	line := strings.Join(parts, " ")
	if !stmt.SuppressNewline {
		line += "\n"
	}
	_, err := io.WriteString(i.stdout, line)
	return err
}

func (i *Interpreter) executeInput(stmt *ast.InputStatement, env *runtime.Environment) error {
	prompt := fmt.Sprintf("Enter %s: ", stmt.Target.Name)
	if stmt.Prompt != nil {
		prompt = stmt.Prompt.Value
	}
	if _, err := io.WriteString(i.stdout, prompt); err != nil {
		return err
	}
	line, err := i.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return fmt.Errorf("Failed to read input: %w", err)
	}
	n, perr := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if perr != nil {
		return errors.New("Invalid number input")
	}
	env.Set(stmt.Target.Name, runtime.NumberValue{Val: n})
	return nil
}

func (i *Interpreter) executeIf(ctx context.Context, stmt *ast.IfStatement, env *runtime.Environment) error {
	ok, err := i.condition(stmt.Condition, env)
	if err != nil {
		return i.attachRuntimeContext(err, stmt)
	}
	if ok {
		return i.executeBlock(ctx, stmt.Then, env)
	}
	return i.executeBlock(ctx, stmt.Else, env)
}

func (i *Interpreter) executeFor(ctx context.Context, loop *ast.ForLoop, env *runtime.Environment) error {
	start, err := i.evaluateNumber(loop.Start, env, "Loop bounds must be numbers")
	if err != nil {
		return i.attachRuntimeContext(err, loop)
	}
	end, err := i.evaluateNumber(loop.End, env, "Loop bounds must be numbers")
	if err != nil {
		return i.attachRuntimeContext(err, loop)
	}
	step := 1.0
	if loop.Step != nil {
		step, err = i.evaluateNumber(loop.Step, env, "FOR step must be a number")
		if err != nil {
			return i.attachRuntimeContext(err, loop)
		}
	}
	if step == 0 {
		return i.attachRuntimeContext(errors.New("FOR step must not be zero"), loop)
	}

	name := loop.Variable.Name
	current := start
	env.Set(name, runtime.NumberValue{Val: current})
	for {
		if step > 0 && current > end || step < 0 && current < end {
			return nil
		}
		if err := i.step(ctx, loop); err != nil {
			return err
		}
		if err := i.executeBlock(ctx, loop.Body, env); err != nil {
			return err
		}
		// the body may reassign the loop variable
		val, err := env.Get(name)
		if err != nil {
			return i.attachRuntimeContext(err, loop)
		}
		num, ok := val.(runtime.NumberValue)
		if !ok {
			return i.attachRuntimeContext(fmt.Errorf("FOR variable %s must stay a number", name), loop)
		}
		current = num.Val + step
		env.Set(name, runtime.NumberValue{Val: current})
	}
}

func (i *Interpreter) executeWhile(ctx context.Context, loop *ast.WhileLoop, env *runtime.Environment) error {
	for {
		ok, err := i.condition(loop.Condition, env)
		if err != nil {
			return i.attachRuntimeContext(err, loop)
		}
		if !ok {
			return nil
		}
		if err := i.step(ctx, loop); err != nil {
			return err
		}
		if err := i.executeBlock(ctx, loop.Body, env); err != nil {
			return err
		}
	}
}

func (i *Interpreter) evaluateNumber(expr ast.Expression, env *runtime.Environment, message string) (float64, error) {
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		return 0, err
	}
	num, ok := val.(runtime.NumberValue)
	if !ok {
		return 0, errors.New(message)
	}
	return num.Val, nil
}
