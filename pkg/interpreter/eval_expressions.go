package interpreter

import (
	"fmt"
	"math/big"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		suffix := runtime.Suffix(n.Suffix)
		if err := runtime.CheckLiteral(n.Value, suffix); err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: new(big.Int).Set(n.Value), Suffix: suffix}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.CharLiteral:
		return runtime.CharValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.ArrayLiteral:
		return i.evaluateArrayLiteral(n, env)
	case *ast.Identifier:
		return i.evaluateIdentifier(n, env)
	case *ast.ThisExpression:
		return i.evaluateThis(env), nil
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.AddressOf:
		return i.evaluateAddressOf(n, env)
	case *ast.Dereference:
		return i.evaluateDereference(n, env)
	case *ast.MemberAccess:
		return i.evaluateMemberAccess(n, env)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.StructLiteral:
		return i.evaluateStructLiteral(n, env)
	case *ast.BlockExpression:
		return i.evalBlockAsValue(n, env)
	case *ast.IfExpression:
		return i.evaluateIf(n, env)
	case *ast.FunctionLiteral:
		return i.makeFunction(n, env), nil
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateIdentifier(ident *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	return env.Get(ident.Name)
}

func (i *Interpreter) evaluateArrayLiteral(lit *ast.ArrayLiteral, env *runtime.Environment) (runtime.Value, error) {
	elements := make([]runtime.Value, 0, len(lit.Elements))
	for _, el := range lit.Elements {
		val, err := i.evaluateExpression(el, env)
		if err != nil {
			return nil, err
		}
		elements = append(elements, val)
	}
	arr := &runtime.ArrayValue{Elements: elements}
	if len(elements) > 0 {
		arr.ElementType = typeName(elements[0])
	}
	return arr, nil
}

// evaluateThis snapshots every binding visible in the current call frame into
// a struct instance named after the frame.
func (i *Interpreter) evaluateThis(env *runtime.Environment) runtime.Value {
	name := env.Frame()
	if name == "" {
		name = "this"
	}
	inst := runtime.NewStructInstance(name)
	for _, field := range env.FrameNames() {
		binding, ok := env.Lookup(field)
		if !ok || !binding.Initialized {
			continue
		}
		inst.Set(field, runtime.CopyValue(binding.Value))
	}
	return inst
}

func (i *Interpreter) evaluateIndex(expr ast.Expression, length int, env *runtime.Environment) (int, error) {
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		return 0, err
	}
	idx, ok := val.(runtime.IntegerValue)
	if !ok {
		return 0, runtime.NewErrorf(runtime.ErrorType, "array index must be an integer, got %s", typeName(val))
	}
	if idx.Val.Sign() < 0 {
		return 0, runtime.NewError(runtime.ErrorStructural, "negative index")
	}
	if !idx.Val.IsInt64() || idx.Val.Int64() >= int64(length) {
		return 0, runtime.NewError(runtime.ErrorStructural, "index out of range")
	}
	return int(idx.Val.Int64()), nil
}

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	arr, ok := obj.(*runtime.ArrayValue)
	if !ok {
		return nil, runtime.NewError(runtime.ErrorStructural, "indexing into non-array")
	}
	idx, err := i.evaluateIndex(expr.Index, len(arr.Elements), env)
	if err != nil {
		return nil, err
	}
	return arr.Elements[idx], nil
}
