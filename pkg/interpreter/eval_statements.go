package interpreter

import (
	"fmt"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

func (i *Interpreter) execStatements(stmts []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.VoidValue{}
	for _, stmt := range stmts {
		val, err := i.evaluateStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.BlockExpression:
		return i.execBlockInPlace(n, env)
	case *ast.IfExpression:
		return i.evaluateIf(n, env)
	case ast.Expression:
		return i.evaluateExpression(n, env)
	case *ast.LetStatement:
		return i.evaluateLet(n, env)
	case *ast.AssignmentStatement:
		return i.evaluateAssignment(n, env)
	case *ast.WhileLoop:
		return i.evaluateWhileLoop(n, env)
	case *ast.ReturnStatement:
		return i.evaluateReturn(n, env)
	case *ast.FunctionDefinition:
		return i.evaluateFunctionDefinition(n, env)
	case *ast.StructDefinition:
		return i.evaluateStructDefinition(n, env)
	case *ast.TypeAliasDefinition:
		return i.evaluateTypeAlias(n, env)
	case *ast.UseStatement:
		if err := i.importModule(n, env); err != nil {
			return nil, err
		}
		return runtime.VoidValue{}, nil
	case *ast.ExternFunction:
		return runtime.VoidValue{}, nil
	case *ast.ExportStatement:
		return i.evaluateStatement(n.Declaration, env)
	default:
		return nil, fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

// execBlockInPlace runs a statement-position block. Its declarations are
// scoped to the block, but assignments reach the enclosing bindings.
func (i *Interpreter) execBlockInPlace(block *ast.BlockExpression, env *runtime.Environment) (runtime.Value, error) {
	return i.runScoped(block.Body, runtime.NewEnvironment(env))
}

// evalBlockAsValue runs a block used as a value. Writes to outer bindings are
// confined to the block.
func (i *Interpreter) evalBlockAsValue(block *ast.BlockExpression, env *runtime.Environment) (runtime.Value, error) {
	return i.runScoped(block.Body, runtime.NewDetachedEnvironment(env, ""))
}

func (i *Interpreter) runScoped(body []ast.Statement, scope *runtime.Environment) (runtime.Value, error) {
	result, err := i.execStatements(body, scope)
	if err != nil {
		if _, ok := err.(returnSignal); ok {
			if exitErr := i.exitScope(scope); exitErr != nil {
				return nil, exitErr
			}
		}
		return nil, err
	}
	if err := i.exitScope(scope); err != nil {
		return nil, err
	}
	return result, nil
}

// evaluateBranch runs the body of an if or while. A non-block body still gets
// its own scope.
func (i *Interpreter) evaluateBranch(body ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	if block, ok := body.(*ast.BlockExpression); ok {
		return i.execBlockInPlace(block, env)
	}
	return i.runScoped([]ast.Statement{body}, runtime.NewEnvironment(env))
}

func (i *Interpreter) evaluateCondition(expr ast.Expression, env *runtime.Environment, construct string) (bool, error) {
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		return false, err
	}
	b, ok := val.(runtime.BoolValue)
	if !ok {
		return false, runtime.NewErrorf(runtime.ErrorType, "%s condition must be boolean", construct)
	}
	return b.Val, nil
}

func (i *Interpreter) evaluateIf(expr *ast.IfExpression, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluateCondition(expr.Condition, env, "if")
	if err != nil {
		return nil, err
	}
	if cond {
		return i.evaluateBranch(expr.Then, env)
	}
	if expr.Else != nil {
		return i.evaluateBranch(expr.Else, env)
	}
	return runtime.VoidValue{}, nil
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.evaluateCondition(loop.Condition, env, "while")
		if err != nil {
			return nil, err
		}
		if !cond {
			return runtime.VoidValue{}, nil
		}
		if _, err := i.evaluateBranch(loop.Body, env); err != nil {
			return nil, err
		}
	}
}

func (i *Interpreter) evaluateReturn(stmt *ast.ReturnStatement, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = runtime.VoidValue{}
	if stmt.Argument != nil {
		val, err := i.evaluateExpression(stmt.Argument, env)
		if err != nil {
			return nil, err
		}
		value = val
	}
	return nil, returnSignal{value: value}
}

//-----------------------------------------------------------------------------
// Declarations
//-----------------------------------------------------------------------------

func (i *Interpreter) evaluateLet(stmt *ast.LetStatement, env *runtime.Environment) (runtime.Value, error) {
	if stmt.Pattern != nil {
		return i.evaluateDestructuringLet(stmt, env)
	}
	name := stmt.Name.Name
	if env.HasLocal(name) {
		return nil, runtime.NewError(runtime.ErrorName, "duplicate declaration")
	}
	binding := &runtime.Binding{
		Mutable:      stmt.Mutable || stmt.TypeExpr != nil,
		DeclaredType: stmt.TypeExpr,
	}
	if stmt.Value == nil {
		return runtime.VoidValue{}, env.Declare(name, binding)
	}

	value, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	if stmt.TypeExpr != nil {
		value, err = i.coerceValue(value, stmt.TypeExpr, env, coerceDeclaration, nil)
		if err != nil {
			return nil, err
		}
	}
	if held, ok, err := i.holdBorrow(stmt.Value, value, env); err != nil {
		return nil, err
	} else if ok {
		binding.Held = held
	}
	binding.Value = runtime.CopyValue(value)
	binding.Initialized = true
	if err := env.Declare(name, binding); err != nil {
		return nil, err
	}
	return runtime.VoidValue{}, nil
}

func (i *Interpreter) evaluateDestructuringLet(stmt *ast.LetStatement, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	inst, ok := value.(*runtime.StructInstanceValue)
	if !ok {
		return nil, runtime.NewError(runtime.ErrorStructural, "destructuring requires struct value")
	}
	if stmt.TypeExpr != nil {
		if _, err := i.coerceValue(inst, stmt.TypeExpr, env, coerceDeclaration, nil); err != nil {
			return nil, err
		}
	}
	for _, field := range stmt.Pattern.Fields {
		fieldVal, ok := inst.Get(field.Name)
		if !ok {
			return nil, runtime.NewErrorf(runtime.ErrorStructural, "field '%s' not found on struct instance", field.Name)
		}
		binding := &runtime.Binding{Value: runtime.CopyValue(fieldVal), Initialized: true}
		if err := env.Declare(field.Name, binding); err != nil {
			return nil, err
		}
	}
	return runtime.VoidValue{}, nil
}

func (i *Interpreter) evaluateFunctionDefinition(def *ast.FunctionDefinition, env *runtime.Environment) (runtime.Value, error) {
	fn := i.makeFunction(def.Function, env)
	if err := env.Define(def.Function.Name(), fn); err != nil {
		return nil, err
	}
	return runtime.VoidValue{}, nil
}

func (i *Interpreter) evaluateStructDefinition(def *ast.StructDefinition, env *runtime.Environment) (runtime.Value, error) {
	seen := make(map[string]struct{}, len(def.Fields))
	for _, field := range def.Fields {
		if _, dup := seen[field.Name.Name]; dup {
			return nil, runtime.NewErrorf(runtime.ErrorName, "duplicate field '%s' in struct '%s'", field.Name.Name, def.ID.Name)
		}
		seen[field.Name.Name] = struct{}{}
	}
	env.DefineStruct(&runtime.StructTemplate{
		Name:          def.ID.Name,
		GenericParams: append([]string(nil), def.GenericParams...),
		Fields:        def.Fields,
	})
	return runtime.VoidValue{}, nil
}

func (i *Interpreter) evaluateTypeAlias(def *ast.TypeAliasDefinition, env *runtime.Environment) (runtime.Value, error) {
	alias := &runtime.TypeAlias{Name: def.ID.Name, Target: def.Target}
	if def.DropHandler != nil {
		alias.DropHandler = def.DropHandler.Name
	}
	if err := env.DefineAlias(alias); err != nil {
		return nil, err
	}
	return runtime.VoidValue{}, nil
}

//-----------------------------------------------------------------------------
// Assignment
//-----------------------------------------------------------------------------

var compoundOperators = map[string]string{
	"+=": "+",
	"-=": "-",
	"*=": "*",
	"/=": "/",
	"%=": "%",
}

func (i *Interpreter) evaluateAssignment(stmt *ast.AssignmentStatement, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	switch target := stmt.Target.(type) {
	case *ast.Identifier:
		return runtime.VoidValue{}, i.assignIdentifier(stmt, target, value, env)
	case *ast.Dereference:
		return runtime.VoidValue{}, i.assignThroughPointer(stmt, target, value, env)
	case *ast.IndexExpression:
		return runtime.VoidValue{}, i.assignIndex(stmt, target, value, env)
	case *ast.MemberAccess:
		return runtime.VoidValue{}, i.assignMember(stmt, target, value, env)
	default:
		return nil, runtime.NewError(runtime.ErrorSyntax, "invalid assignment target")
	}
}

// combine applies a compound operator to the current value, or returns value
// unchanged for plain `=`.
func (i *Interpreter) combine(operator string, current, value runtime.Value) (runtime.Value, error) {
	if operator == "=" {
		return value, nil
	}
	op, ok := compoundOperators[operator]
	if !ok {
		return nil, runtime.NewErrorf(runtime.ErrorSyntax, "unsupported assignment operator %s", operator)
	}
	return applyBinaryOperator(op, current, value)
}

func (i *Interpreter) assignIdentifier(stmt *ast.AssignmentStatement, target *ast.Identifier, value runtime.Value, env *runtime.Environment) error {
	binding, err := env.Writable(target.Name)
	if err != nil {
		return err
	}
	if binding.Initialized && !binding.Mutable {
		return runtime.NewError(runtime.ErrorBorrow, "assignment to immutable variable")
	}
	if stmt.Operator != "=" {
		if !binding.Initialized {
			return runtime.NewErrorf(runtime.ErrorName, "use of uninitialized variable '%s'", target.Name)
		}
		if value, err = i.combine(stmt.Operator, binding.Value, value); err != nil {
			return err
		}
	}
	if binding.DeclaredType != nil {
		value, err = i.coerceValue(value, binding.DeclaredType, env, coerceAssignment, nil)
	} else if binding.Initialized {
		value, err = adoptSuffix(binding.Value, value)
	}
	if err != nil {
		return err
	}

	if binding.Initialized {
		if err := i.dropBinding(binding, env); err != nil {
			return err
		}
	}
	if binding.Held != nil {
		env.ReleaseBorrow(binding.Held)
		binding.Held = nil
	}
	held, ok, err := i.holdBorrow(stmt.Value, value, env)
	if err != nil {
		return err
	}
	if ok {
		binding.Held = held
	}
	binding.Value = runtime.CopyValue(value)
	binding.Initialized = true
	return nil
}

// adoptSuffix keeps an untyped binding's integer width stable across
// reassignment: a suffixed binding accepts untyped values that fit.
func adoptSuffix(current, value runtime.Value) (runtime.Value, error) {
	cur, ok := current.(runtime.IntegerValue)
	if !ok || cur.Suffix == runtime.SuffixNone {
		return value, nil
	}
	next, ok := value.(runtime.IntegerValue)
	if !ok {
		return value, nil
	}
	if next.Suffix != runtime.SuffixNone && next.Suffix != cur.Suffix {
		return nil, runtime.NewError(runtime.ErrorType, "type suffix mismatch on assignment")
	}
	if err := runtime.CheckValue(next.Val, cur.Suffix); err != nil {
		return nil, err
	}
	return runtime.IntegerValue{Val: next.Val, Suffix: cur.Suffix}, nil
}

func (i *Interpreter) assignThroughPointer(stmt *ast.AssignmentStatement, target *ast.Dereference, value runtime.Value, env *runtime.Environment) error {
	ptrVal, err := i.evaluateExpression(target.Operand, env)
	if err != nil {
		return err
	}
	ptr, ok := ptrVal.(runtime.PointerValue)
	if !ok {
		return runtime.NewError(runtime.ErrorType, "dereference of non-pointer value")
	}
	if !ptr.Exclusive {
		return runtime.NewError(runtime.ErrorBorrow, "cannot assign through immutable pointer")
	}
	binding, err := env.Resolve(ptr.Target)
	if err != nil {
		return runtime.NewError(runtime.ErrorBorrow, "dereference to invalid pointer")
	}
	if stmt.Operator != "=" {
		if !binding.Initialized {
			return runtime.NewErrorf(runtime.ErrorName, "use of uninitialized variable '%s'", ptr.Target)
		}
		if value, err = i.combine(stmt.Operator, binding.Value, value); err != nil {
			return err
		}
	}
	if binding.DeclaredType != nil {
		value, err = i.coerceValue(value, binding.DeclaredType, env, coerceAssignment, nil)
	} else if binding.Initialized {
		value, err = adoptSuffix(binding.Value, value)
	}
	if err != nil {
		return err
	}
	binding.Value = runtime.CopyValue(value)
	binding.Initialized = true
	return nil
}

// aggregateBinding resolves the mutable binding behind an index or member
// assignment target.
func (i *Interpreter) aggregateBinding(object ast.Expression, env *runtime.Environment) (*runtime.Binding, error) {
	switch obj := object.(type) {
	case *ast.Identifier:
		binding, err := env.Writable(obj.Name)
		if err != nil {
			return nil, err
		}
		if !binding.Initialized {
			return nil, runtime.NewErrorf(runtime.ErrorName, "use of uninitialized variable '%s'", obj.Name)
		}
		if !binding.Mutable {
			return nil, runtime.NewError(runtime.ErrorBorrow, "assignment to immutable variable")
		}
		return binding, nil
	case *ast.Dereference:
		ptrVal, err := i.evaluateExpression(obj.Operand, env)
		if err != nil {
			return nil, err
		}
		ptr, ok := ptrVal.(runtime.PointerValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrorType, "dereference of non-pointer value")
		}
		if !ptr.Exclusive {
			return nil, runtime.NewError(runtime.ErrorBorrow, "cannot assign through immutable pointer")
		}
		binding, err := env.Resolve(ptr.Target)
		if err != nil {
			return nil, runtime.NewError(runtime.ErrorBorrow, "dereference to invalid pointer")
		}
		return binding, nil
	default:
		return nil, runtime.NewError(runtime.ErrorSyntax, "invalid assignment target")
	}
}

func (i *Interpreter) assignIndex(stmt *ast.AssignmentStatement, target *ast.IndexExpression, value runtime.Value, env *runtime.Environment) error {
	binding, err := i.aggregateBinding(target.Object, env)
	if err != nil {
		return err
	}
	arr, ok := binding.Value.(*runtime.ArrayValue)
	if !ok {
		return runtime.NewError(runtime.ErrorStructural, "indexing into non-array")
	}
	idx, err := i.evaluateIndex(target.Index, len(arr.Elements), env)
	if err != nil {
		return err
	}
	if value, err = i.combine(stmt.Operator, arr.Elements[idx], value); err != nil {
		return err
	}
	if value, err = adoptSuffix(arr.Elements[idx], value); err != nil {
		return err
	}
	arr.Elements[idx] = runtime.CopyValue(value)
	return nil
}

func (i *Interpreter) assignMember(stmt *ast.AssignmentStatement, target *ast.MemberAccess, value runtime.Value, env *runtime.Environment) error {
	binding, err := i.aggregateBinding(target.Object, env)
	if err != nil {
		return err
	}
	inst, ok := binding.Value.(*runtime.StructInstanceValue)
	if !ok {
		return runtime.NewError(runtime.ErrorStructural, "member access on non-struct value")
	}
	name := target.Member.Name
	current, ok := inst.Get(name)
	if !ok {
		return runtime.NewErrorf(runtime.ErrorStructural, "field '%s' not found on struct instance", name)
	}
	if value, err = i.combine(stmt.Operator, current, value); err != nil {
		return err
	}
	if value, err = adoptSuffix(current, value); err != nil {
		return err
	}
	inst.Set(name, runtime.CopyValue(value))
	return nil
}
