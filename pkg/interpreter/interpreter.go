package interpreter

import (
	"errors"
	"strings"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/parser"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

// Interpreter is one evaluation context: the source set available to `use`,
// the print buffer, and the chain of modules currently being imported. Every
// top-level evaluation starts from a fresh context, so nothing leaks between
// independent calls.
type Interpreter struct {
	sources     map[string]string
	output      []string
	importStack []string
}

// New returns an interpreter that resolves `use` against sources (may be nil).
func New(sources map[string]string) *Interpreter {
	copied := make(map[string]string, len(sources))
	for name, src := range sources {
		copied[name] = src
	}
	return &Interpreter{sources: copied}
}

// Output returns the lines printed by the most recent evaluation.
func (i *Interpreter) Output() []string {
	return append([]string(nil), i.output...)
}

// EvaluateOne evaluates a self-contained snippet and renders its last value.
func EvaluateOne(source string) (string, error) {
	return New(nil).Evaluate(source)
}

// EvaluateProgram links mainName against the other units in sources and
// evaluates it.
func EvaluateProgram(mainName string, sources map[string]string) (string, error) {
	src, ok := sources[mainName]
	if !ok {
		return "", runtime.NewErrorf(runtime.ErrorName, "main file '%s' not found in source set", mainName)
	}
	interp := New(sources)
	interp.importStack = []string{mainName}
	return interp.Evaluate(src)
}

// Evaluate runs source as a main unit in a fresh top-level scope.
func (i *Interpreter) Evaluate(source string) (string, error) {
	rendered, output, err := i.Run(source)
	if err != nil {
		return "", err
	}
	if len(output) == 0 {
		return rendered, nil
	}
	return rendered + "|" + strings.Join(output, "\n"), nil
}

// Run is Evaluate with the rendered value and the printed lines kept apart.
func (i *Interpreter) Run(source string) (string, []string, error) {
	i.output = nil
	mod, err := parser.ParseModule(source)
	if err != nil {
		return "", nil, normalizeError(err)
	}
	env := runtime.NewEnvironment(nil)
	result, err := i.runUnit(mod, env, true)
	if err != nil {
		return "", i.Output(), normalizeError(err)
	}
	return valueToString(result), i.Output(), nil
}

// runUnit evaluates a parsed unit in env. Imports are hoisted and resolved in
// source order before any other statement. For the main unit, drop handlers
// run afterwards and a trailing bare identifier is read again so that it
// reflects their effects.
func (i *Interpreter) runUnit(mod *ast.Module, env *runtime.Environment, main bool) (runtime.Value, error) {
	body := unwrapTopLevelBlock(mod.Body)
	rest := make([]ast.Statement, 0, len(body))
	for _, stmt := range body {
		if use, ok := stmt.(*ast.UseStatement); ok {
			if err := i.importModule(use, env); err != nil {
				return nil, err
			}
			continue
		}
		rest = append(rest, stmt)
	}

	result, err := i.execStatements(rest, env)
	if err != nil {
		var ret returnSignal
		if errors.As(err, &ret) {
			return nil, runtime.NewError(runtime.ErrorSyntax, "return outside function")
		}
		return nil, err
	}
	if !main {
		return result, nil
	}

	if err := i.runDrops(env); err != nil {
		return nil, err
	}
	if n := len(rest); n > 0 {
		if ident, ok := rest[n-1].(*ast.Identifier); ok {
			return i.evaluateIdentifier(ident, env)
		}
	}
	return result, nil
}

// unwrapTopLevelBlock lets a snippet be written as one `{ ... }` block.
func unwrapTopLevelBlock(body []ast.Statement) []ast.Statement {
	if len(body) != 1 {
		return body
	}
	if block, ok := body[0].(*ast.BlockExpression); ok {
		return block.Body
	}
	return body
}
