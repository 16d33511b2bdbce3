package interpreter

import (
	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

type builtinFunc func(i *Interpreter, call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error)

// builtins are resolved by name unless a user binding shadows them.
var builtins map[string]builtinFunc

func init() {
	builtins = map[string]builtinFunc{
		"print":  builtinPrint,
		"typeOf": builtinTypeOf,
	}
}

func builtinPrint(i *Interpreter, call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	if len(call.Arguments) != 1 {
		return nil, runtime.NewError(runtime.ErrorType, "print requires one I32 argument")
	}
	val, err := i.evaluateExpression(call.Arguments[0], env)
	if err != nil {
		return nil, err
	}
	iv, ok := val.(runtime.IntegerValue)
	if !ok || (iv.Suffix != runtime.SuffixNone && iv.Suffix != runtime.SuffixI32) || !runtime.SuffixI32.Contains(iv.Val) {
		return nil, runtime.NewError(runtime.ErrorType, "print requires one I32 argument")
	}
	i.output = append(i.output, iv.Val.String())
	return runtime.VoidValue{}, nil
}

func builtinTypeOf(i *Interpreter, call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	if len(call.Arguments) != 1 {
		return nil, runtime.NewErrorf(runtime.ErrorType, "function 'typeOf' expects 1 arguments, got %d", len(call.Arguments))
	}
	val, err := i.evaluateExpression(call.Arguments[0], env)
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: typeName(val)}, nil
}
