package interpreter

import (
	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

type coercionMode int

const (
	coerceDeclaration coercionMode = iota
	coerceAssignment
	coerceArgument
	coerceField
	coerceReturn
)

const maxAliasDepth = 32

// resolveType follows aliases and generic substitutions until it reaches a
// concrete type expression. A nil result means the type is an unconstrained
// generic parameter.
func (i *Interpreter) resolveType(t ast.TypeExpression, env *runtime.Environment, generics map[string]ast.TypeExpression) (ast.TypeExpression, error) {
	for depth := 0; depth < maxAliasDepth; depth++ {
		simple, ok := t.(*ast.SimpleType)
		if !ok {
			return t, nil
		}
		if bound, isGeneric := generics[simple.Name]; isGeneric {
			if bound == nil {
				return nil, nil
			}
			t = bound
			continue
		}
		alias, ok := env.LookupAlias(simple.Name)
		if !ok {
			return t, nil
		}
		t = alias.Target
	}
	return nil, runtime.NewError(runtime.ErrorType, "type alias cycle detected")
}

// coerceValue checks value against a declared type and returns it carrying
// that type's metadata (integer suffix, pointer exclusivity, array element
// type).
func (i *Interpreter) coerceValue(value runtime.Value, declared ast.TypeExpression, env *runtime.Environment, mode coercionMode, generics map[string]ast.TypeExpression) (runtime.Value, error) {
	resolved, err := i.resolveType(declared, env, generics)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return value, nil
	}
	switch t := resolved.(type) {
	case *ast.SimpleType:
		return i.coerceSimple(value, t, env, mode)
	case *ast.GenericType:
		if inst, ok := value.(*runtime.StructInstanceValue); ok && baseTypeName(inst.TypeName) != t.Base {
			return nil, typeMismatch(t.String(), value)
		}
		return value, nil
	case *ast.PointerType:
		ptr, ok := value.(runtime.PointerValue)
		if !ok {
			return nil, typeMismatch(t.String(), value)
		}
		if t.Mutable {
			ptr.Exclusive = true
		}
		ptr.PointeeType = t.Pointee.String()
		return ptr, nil
	case *ast.ArrayType:
		return i.coerceArray(value, t, env, mode, generics)
	default:
		return value, nil
	}
}

func (i *Interpreter) coerceSimple(value runtime.Value, t *ast.SimpleType, env *runtime.Environment, mode coercionMode) (runtime.Value, error) {
	if suffix, ok := runtime.ParseSuffix(t.Name); ok {
		if suffix == runtime.SuffixChar {
			if _, isChar := value.(runtime.CharValue); isChar {
				return value, nil
			}
		}
		iv, ok := value.(runtime.IntegerValue)
		if !ok {
			return nil, typeMismatch(t.Name, value)
		}
		if iv.Suffix != runtime.SuffixNone && iv.Suffix != suffix {
			if mode == coerceAssignment {
				return nil, runtime.NewError(runtime.ErrorType, "type suffix mismatch on assignment")
			}
			return nil, runtime.NewError(runtime.ErrorType, "type suffix mismatch")
		}
		if err := runtime.CheckValue(iv.Val, suffix); err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: iv.Val, Suffix: suffix}, nil
	}
	switch t.Name {
	case "Bool":
		if _, ok := value.(runtime.BoolValue); !ok {
			return nil, typeMismatch(t.Name, value)
		}
		return value, nil
	case "Str", "String":
		if _, ok := value.(runtime.StringValue); !ok {
			return nil, typeMismatch(t.Name, value)
		}
		return value, nil
	case "Void":
		if _, ok := value.(runtime.VoidValue); !ok {
			return nil, typeMismatch(t.Name, value)
		}
		return value, nil
	}
	if inst, ok := value.(*runtime.StructInstanceValue); ok {
		if baseTypeName(inst.TypeName) != t.Name {
			return nil, typeMismatch(t.Name, value)
		}
		return value, nil
	}
	if _, known := env.LookupStruct(t.Name); known {
		return nil, typeMismatch(t.Name, value)
	}
	// Other names are not checked structurally.
	return value, nil
}

func (i *Interpreter) coerceArray(value runtime.Value, t *ast.ArrayType, env *runtime.Environment, mode coercionMode, generics map[string]ast.TypeExpression) (runtime.Value, error) {
	arr, ok := value.(*runtime.ArrayValue)
	if !ok {
		return nil, typeMismatch(t.String(), value)
	}
	if capacity := t.Capacity(); capacity >= 0 && int64(len(arr.Elements)) > capacity {
		return nil, runtime.NewErrorf(runtime.ErrorType, "array of length %d exceeds capacity of %s", len(arr.Elements), t.String())
	}
	elements := make([]runtime.Value, len(arr.Elements))
	for idx, el := range arr.Elements {
		coerced, err := i.coerceValue(el, t.Element, env, mode, generics)
		if err != nil {
			return nil, err
		}
		elements[idx] = coerced
	}
	return &runtime.ArrayValue{Elements: elements, ElementType: t.Element.String()}, nil
}

func typeMismatch(expected string, got runtime.Value) error {
	return runtime.NewErrorf(runtime.ErrorType, "type mismatch: expected %s, got %s", expected, typeName(got))
}

func baseTypeName(name string) string {
	for idx, r := range name {
		if r == '<' {
			return name[:idx]
		}
	}
	return name
}
