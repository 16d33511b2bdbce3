package interpreter

import (
	"errors"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

// makeFunction closes a literal over env. A named function without an explicit
// capture list captures, immutably, the free names of its body that resolve
// in env when it is declared.
func (i *Interpreter) makeFunction(lit *ast.FunctionLiteral, env *runtime.Environment) *runtime.FunctionValue {
	fn := &runtime.FunctionValue{Declaration: lit, Closure: env}
	if lit.ExplicitCaptures {
		for _, c := range lit.Captures {
			fn.Captures = append(fn.Captures, runtime.Capture{Name: c.Name.Name, Exclusive: c.Mutable})
		}
		return fn
	}
	if lit.Name() == "" || env.Parent() == nil {
		return fn
	}
	for _, name := range freeIdentifiers(lit) {
		if _, ok := env.Lookup(name); ok {
			fn.Captures = append(fn.Captures, runtime.Capture{Name: name})
		}
	}
	return fn
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	if ident, ok := call.Callee.(*ast.Identifier); ok {
		if builtin, ok := builtins[ident.Name]; ok {
			if _, shadowed := env.Lookup(ident.Name); !shadowed {
				return builtin(i, call, env)
			}
		}
	}
	callee, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*runtime.FunctionValue)
	if !ok {
		return nil, runtime.NewErrorf(runtime.ErrorType, "'%s' is not a function", calleeName(call.Callee))
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, runtime.CopyValue(val))
	}
	return i.callFunction(fn, args, false)
}

func calleeName(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Name
	case *ast.MemberAccess:
		return e.Member.Name
	default:
		return "<expression>"
	}
}

// callFunction binds captures and arguments in a new frame and runs the body.
// Normally the frame is detached, so writes to outer bindings stay inside the
// call; writeThrough instead lets them reach the closure, which drop handlers
// rely on.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, writeThrough bool) (runtime.Value, error) {
	decl := fn.Declaration
	if len(args) != len(decl.Params) {
		return nil, runtime.NewErrorf(runtime.ErrorType, "function '%s' expects %d arguments, got %d", displayName(fn), len(decl.Params), len(args))
	}
	var frame *runtime.Environment
	if writeThrough {
		frame = runtime.NewEnvironment(fn.Closure)
	} else {
		frame = runtime.NewDetachedEnvironment(fn.Closure, displayName(fn))
	}

	for _, capture := range fn.Captures {
		source, ok := fn.Closure.Lookup(capture.Name)
		if !ok {
			return nil, runtime.NewErrorf(runtime.ErrorName, "undefined variable '%s'", capture.Name)
		}
		if capture.Exclusive && !source.Mutable {
			return nil, runtime.NewErrorf(runtime.ErrorBorrow, "cannot capture immutable variable '%s' mutably", capture.Name)
		}
		binding := &runtime.Binding{
			Mutable:      capture.Exclusive,
			DeclaredType: source.DeclaredType,
			Initialized:  source.Initialized,
		}
		if source.Value != nil {
			binding.Value = runtime.CopyValue(source.Value)
		}
		if err := frame.Declare(capture.Name, binding); err != nil {
			return nil, err
		}
	}

	generics := genericBindings(decl.GenericParams)
	for idx, param := range decl.Params {
		arg := args[idx]
		if param.ParamType != nil {
			coerced, err := i.coerceValue(arg, param.ParamType, frame, coerceArgument, generics)
			if err != nil {
				return nil, err
			}
			arg = coerced
		}
		binding := &runtime.Binding{Value: arg, Initialized: true, DeclaredType: param.ParamType}
		if err := frame.Declare(param.Name.Name, binding); err != nil {
			return nil, err
		}
	}

	result, err := i.evaluateFunctionBody(decl.Body, frame)
	if err != nil {
		var ret returnSignal
		if !errors.As(err, &ret) {
			return nil, err
		}
		result = ret.value
	}
	// Parameters and captures belong to the caller; only the body's own
	// locals are dropped here.
	if err := i.exitScopeFrom(frame, len(fn.Captures)+len(decl.Params)); err != nil {
		return nil, err
	}

	for _, capture := range fn.Captures {
		if !capture.Exclusive {
			continue
		}
		updated, _ := frame.LocalBinding(capture.Name)
		target, err := fn.Closure.Writable(capture.Name)
		if err != nil {
			return nil, err
		}
		target.Value = runtime.CopyValue(updated.Value)
		target.Initialized = updated.Initialized
	}

	if decl.ReturnType != nil {
		return i.coerceValue(result, decl.ReturnType, frame, coerceReturn, generics)
	}
	return result, nil
}

func (i *Interpreter) evaluateFunctionBody(body ast.Statement, frame *runtime.Environment) (runtime.Value, error) {
	if block, ok := body.(*ast.BlockExpression); ok {
		return i.execStatements(block.Body, frame)
	}
	return i.evaluateStatement(body, frame)
}

func displayName(fn *runtime.FunctionValue) string {
	if name := fn.Name(); name != "" {
		return name
	}
	return "<anonymous>"
}

// genericBindings marks a function's generic parameters as unconstrained.
func genericBindings(params []string) map[string]ast.TypeExpression {
	if len(params) == 0 {
		return nil
	}
	bindings := make(map[string]ast.TypeExpression, len(params))
	for _, p := range params {
		bindings[p] = nil
	}
	return bindings
}

//-----------------------------------------------------------------------------
// Free identifier analysis
//-----------------------------------------------------------------------------

// freeIdentifiers lists, in first-use order, the identifiers a function body
// reads that are not its own parameters or locals.
func freeIdentifiers(lit *ast.FunctionLiteral) []string {
	bound := map[string]struct{}{}
	if name := lit.Name(); name != "" {
		bound[name] = struct{}{}
	}
	for _, p := range lit.Params {
		bound[p.Name.Name] = struct{}{}
	}
	w := &freeWalker{bound: bound, seen: map[string]struct{}{}}
	w.statement(lit.Body)
	return w.free
}

type freeWalker struct {
	bound map[string]struct{}
	seen  map[string]struct{}
	free  []string
}

func (w *freeWalker) use(name string) {
	if _, ok := w.bound[name]; ok {
		return
	}
	if _, ok := w.seen[name]; ok {
		return
	}
	w.seen[name] = struct{}{}
	w.free = append(w.free, name)
}

func (w *freeWalker) statement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case nil:
	case ast.Expression:
		w.expression(s)
	case *ast.LetStatement:
		w.expression(s.Value)
		for _, name := range ast.DeclaredNames(s) {
			w.bound[name] = struct{}{}
		}
	case *ast.AssignmentStatement:
		w.expression(s.Target)
		w.expression(s.Value)
	case *ast.WhileLoop:
		w.expression(s.Condition)
		w.statement(s.Body)
	case *ast.ReturnStatement:
		w.expression(s.Argument)
	case *ast.FunctionDefinition:
		w.bound[s.Function.Name()] = struct{}{}
		w.expression(s.Function)
	case *ast.ExportStatement:
		w.statement(s.Declaration)
	}
}

func (w *freeWalker) expression(expr ast.Expression) {
	switch e := expr.(type) {
	case nil:
	case *ast.Identifier:
		w.use(e.Name)
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			w.expression(el)
		}
	case *ast.UnaryExpression:
		w.expression(e.Operand)
	case *ast.BinaryExpression:
		w.expression(e.Left)
		w.expression(e.Right)
	case *ast.AddressOf:
		w.use(e.Target.Name)
	case *ast.Dereference:
		w.expression(e.Operand)
	case *ast.MemberAccess:
		w.expression(e.Object)
	case *ast.IndexExpression:
		w.expression(e.Object)
		w.expression(e.Index)
	case *ast.FunctionCall:
		w.expression(e.Callee)
		for _, arg := range e.Arguments {
			w.expression(arg)
		}
	case *ast.BlockExpression:
		for _, stmt := range e.Body {
			w.statement(stmt)
		}
	case *ast.IfExpression:
		w.expression(e.Condition)
		w.statement(e.Then)
		w.statement(e.Else)
	case *ast.StructLiteral:
		for _, v := range e.Values {
			w.expression(v)
		}
	case *ast.FunctionLiteral:
		inner := freeIdentifiers(e)
		for _, name := range inner {
			w.use(name)
		}
	}
}
