package interpreter

import (
	"math/big"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "-":
		iv, ok := operand.(runtime.IntegerValue)
		if !ok {
			return nil, runtime.NewErrorf(runtime.ErrorType, "unary '-' requires an integer, got %s", typeName(operand))
		}
		result := new(big.Int).Neg(iv.Val)
		if err := runtime.CheckArithmetic(result, iv.Suffix); err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: result, Suffix: iv.Suffix}, nil
	default:
		return nil, runtime.NewErrorf(runtime.ErrorSyntax, "unsupported unary operator %s", expr.Operator)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	switch expr.Operator {
	case "&&", "||":
		return i.evaluateLogical(expr, env)
	}
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(expr.Operator, left, right)
}

func (i *Interpreter) evaluateLogical(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(runtime.BoolValue)
	if !ok {
		return nil, runtime.NewErrorf(runtime.ErrorType, "'%s' requires boolean operands", expr.Operator)
	}
	if expr.Operator == "&&" && !lb.Val {
		return lb, nil
	}
	if expr.Operator == "||" && lb.Val {
		return lb, nil
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(runtime.BoolValue)
	if !ok {
		return nil, runtime.NewErrorf(runtime.ErrorType, "'%s' requires boolean operands", expr.Operator)
	}
	return rb, nil
}

func applyBinaryOperator(op string, left, right runtime.Value) (runtime.Value, error) {
	if li, ok := left.(runtime.IntegerValue); ok {
		if ri, ok := right.(runtime.IntegerValue); ok {
			return applyIntegerOperator(op, li, ri)
		}
	}
	if lc, ok := left.(runtime.CharValue); ok {
		if rc, ok := right.(runtime.CharValue); ok {
			return compareInts(op, big.NewInt(int64(lc.Val)), big.NewInt(int64(rc.Val)))
		}
	}
	if ls, ok := left.(runtime.StringValue); ok {
		if rs, ok := right.(runtime.StringValue); ok && op == "+" {
			return runtime.StringValue{Val: ls.Val + rs.Val}, nil
		}
	}
	switch op {
	case "==":
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	}
	if isNumericLike(left) && isNumericLike(right) {
		return nil, runtime.NewError(runtime.ErrorType, "type suffix mismatch")
	}
	return nil, runtime.NewErrorf(runtime.ErrorType, "unsupported operands for '%s': %s and %s", op, typeName(left), typeName(right))
}

func isNumericLike(v runtime.Value) bool {
	switch v.(type) {
	case runtime.IntegerValue, runtime.CharValue:
		return true
	}
	return false
}

// applyIntegerOperator unifies the operand suffixes, then checks the result
// against the shared suffix. An untyped operand must itself fit the suffix it
// adopts.
func applyIntegerOperator(op string, left, right runtime.IntegerValue) (runtime.Value, error) {
	suffix, err := runtime.UnifySuffixes(left.Suffix, right.Suffix)
	if err != nil {
		return nil, err
	}
	for _, operand := range []runtime.IntegerValue{left, right} {
		if operand.Suffix == runtime.SuffixNone {
			if err := runtime.CheckArithmetic(operand.Val, suffix); err != nil {
				return nil, err
			}
		}
	}

	result := new(big.Int)
	switch op {
	case "+":
		result.Add(left.Val, right.Val)
	case "-":
		result.Sub(left.Val, right.Val)
	case "*":
		result.Mul(left.Val, right.Val)
	case "/", "%":
		if right.Val.Sign() == 0 {
			return nil, runtime.NewError(runtime.ErrorType, "division by zero")
		}
		// Truncated division, matching fixed-width machine integers.
		if op == "/" {
			result.Quo(left.Val, right.Val)
		} else {
			result.Rem(left.Val, right.Val)
		}
	default:
		return compareInts(op, left.Val, right.Val)
	}
	if err := runtime.CheckArithmetic(result, suffix); err != nil {
		return nil, err
	}
	return runtime.IntegerValue{Val: result, Suffix: suffix}, nil
}

func compareInts(op string, left, right *big.Int) (runtime.Value, error) {
	cmp := left.Cmp(right)
	switch op {
	case "==":
		return runtime.BoolValue{Val: cmp == 0}, nil
	case "!=":
		return runtime.BoolValue{Val: cmp != 0}, nil
	case "<":
		return runtime.BoolValue{Val: cmp < 0}, nil
	case "<=":
		return runtime.BoolValue{Val: cmp <= 0}, nil
	case ">":
		return runtime.BoolValue{Val: cmp > 0}, nil
	case ">=":
		return runtime.BoolValue{Val: cmp >= 0}, nil
	default:
		return nil, runtime.NewErrorf(runtime.ErrorSyntax, "unsupported operator %s", op)
	}
}

func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.VoidValue:
		_, ok := right.(runtime.VoidValue)
		return ok
	case runtime.BoolValue:
		r, ok := right.(runtime.BoolValue)
		return ok && l.Val == r.Val
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	case runtime.IntegerValue:
		r, ok := right.(runtime.IntegerValue)
		return ok && l.Val.Cmp(r.Val) == 0
	case runtime.CharValue:
		r, ok := right.(runtime.CharValue)
		return ok && l.Val == r.Val
	case runtime.PointerValue:
		r, ok := right.(runtime.PointerValue)
		return ok && l.Target == r.Target
	case *runtime.FunctionValue:
		r, ok := right.(*runtime.FunctionValue)
		return ok && l == r
	case *runtime.ArrayValue:
		r, ok := right.(*runtime.ArrayValue)
		if !ok || len(l.Elements) != len(r.Elements) {
			return false
		}
		for idx := range l.Elements {
			if !valuesEqual(l.Elements[idx], r.Elements[idx]) {
				return false
			}
		}
		return true
	case *runtime.StructInstanceValue:
		r, ok := right.(*runtime.StructInstanceValue)
		if !ok || l.TypeName != r.TypeName || len(l.FieldNames) != len(r.FieldNames) {
			return false
		}
		for _, name := range l.FieldNames {
			rv, ok := r.Get(name)
			if !ok || !valuesEqual(l.Fields[name], rv) {
				return false
			}
		}
		return true
	}
	return false
}
