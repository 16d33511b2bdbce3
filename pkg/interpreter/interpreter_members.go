package interpreter

import (
	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

func (i *Interpreter) evaluateStructLiteral(lit *ast.StructLiteral, env *runtime.Environment) (runtime.Value, error) {
	name := lit.StructType.Name
	tmpl, ok := env.LookupStruct(name)
	if !ok {
		return nil, runtime.NewErrorf(runtime.ErrorName, "undefined struct '%s'", name)
	}
	if len(lit.TypeArguments) > 0 && len(lit.TypeArguments) != len(tmpl.GenericParams) {
		return nil, runtime.NewErrorf(runtime.ErrorType, "struct '%s' expects %d type arguments, got %d", name, len(tmpl.GenericParams), len(lit.TypeArguments))
	}
	if len(lit.Values) > len(tmpl.Fields) {
		return nil, runtime.NewErrorf(runtime.ErrorStructural, "too many values in struct literal for '%s'", name)
	}

	generics := genericBindings(tmpl.GenericParams)
	for idx, arg := range lit.TypeArguments {
		generics[tmpl.GenericParams[idx]] = arg
	}
	typeName := name
	if len(lit.TypeArguments) > 0 {
		typeName = ast.NewGenericType(name, lit.TypeArguments).String()
	}

	inst := runtime.NewStructInstance(typeName)
	for idx, field := range tmpl.Fields {
		if idx >= len(lit.Values) {
			return nil, runtime.NewErrorf(runtime.ErrorStructural, "missing field '%s' in struct literal", field.Name.Name)
		}
		val, err := i.evaluateExpression(lit.Values[idx], env)
		if err != nil {
			return nil, err
		}
		if field.FieldType != nil {
			if val, err = i.coerceValue(val, field.FieldType, env, coerceField, generics); err != nil {
				return nil, err
			}
		}
		inst.Set(field.Name.Name, runtime.CopyValue(val))
	}
	return inst, nil
}

func (i *Interpreter) evaluateMemberAccess(expr *ast.MemberAccess, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	member := expr.Member.Name
	switch v := obj.(type) {
	case *runtime.StructInstanceValue:
		field, ok := v.Get(member)
		if !ok {
			return nil, runtime.NewErrorf(runtime.ErrorStructural, "field '%s' not found on struct instance", member)
		}
		return field, nil
	case *runtime.ArrayValue:
		if member == "length" {
			return runtime.NewInteger(int64(len(v.Elements)), runtime.SuffixNone), nil
		}
		return nil, runtime.NewErrorf(runtime.ErrorStructural, "array has no member '%s'", member)
	default:
		return nil, runtime.NewError(runtime.ErrorStructural, "member access on non-struct value")
	}
}
