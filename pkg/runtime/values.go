package runtime

import (
	"fmt"
	"math/big"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindVoid Kind = iota
	KindInteger
	KindBool
	KindChar
	KindString
	KindFunction
	KindPointer
	KindArray
	KindStructInstance
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInteger:
		return "integer"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStructInstance:
		return "struct_instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

// IntegerValue carries its suffix as metadata. An empty suffix marks an
// untyped value that adopts whatever suffix it meets.
type IntegerValue struct {
	Val    *big.Int
	Suffix Suffix
}

func (v IntegerValue) Kind() Kind { return KindInteger }

func NewInteger(val int64, suffix Suffix) IntegerValue {
	return IntegerValue{Val: big.NewInt(val), Suffix: suffix}
}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type CharValue struct {
	Val rune
}

func (v CharValue) Kind() Kind { return KindChar }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Functions and references
//-----------------------------------------------------------------------------

// FunctionValue is a closure over the environment it was declared in. The
// closure is live so that functions declared later in the same scope resolve.
type FunctionValue struct {
	Declaration *ast.FunctionLiteral
	Closure     *Environment
	// Captures lists the names copied into each call frame; an exclusive
	// capture is written back into Closure after the call.
	Captures []Capture
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Name() string {
	if v == nil || v.Declaration == nil {
		return ""
	}
	return v.Declaration.Name()
}

type Capture struct {
	Name      string
	Exclusive bool
}

// PointerValue never owns its target: it names a binding that is resolved
// again on every dereference.
type PointerValue struct {
	Target      string
	Exclusive   bool
	PointeeType string
}

func (v PointerValue) Kind() Kind { return KindPointer }

//-----------------------------------------------------------------------------
// Aggregates
//-----------------------------------------------------------------------------

type ArrayValue struct {
	Elements    []Value
	ElementType string
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// StructInstanceValue keeps fields in template order.
type StructInstanceValue struct {
	TypeName   string
	FieldNames []string
	Fields     map[string]Value
}

func (v *StructInstanceValue) Kind() Kind { return KindStructInstance }

func NewStructInstance(typeName string) *StructInstanceValue {
	return &StructInstanceValue{TypeName: typeName, Fields: make(map[string]Value)}
}

func (v *StructInstanceValue) Set(name string, value Value) {
	if _, exists := v.Fields[name]; !exists {
		v.FieldNames = append(v.FieldNames, name)
	}
	v.Fields[name] = value
}

func (v *StructInstanceValue) Get(name string) (Value, bool) {
	value, ok := v.Fields[name]
	return value, ok
}

//-----------------------------------------------------------------------------
// Definitions
//-----------------------------------------------------------------------------

// StructTemplate is a declared struct shape.
type StructTemplate struct {
	Name          string
	GenericParams []string
	Fields        []*ast.StructFieldDefinition
}

// TypeAlias maps a name onto a base type, optionally with a drop handler.
type TypeAlias struct {
	Name        string
	Target      ast.TypeExpression
	DropHandler string
}

// CopyValue duplicates aggregate values so that bindings never alias each
// other's storage. Functions keep sharing their closure.
func CopyValue(v Value) Value {
	switch val := v.(type) {
	case IntegerValue:
		return IntegerValue{Val: new(big.Int).Set(val.Val), Suffix: val.Suffix}
	case *ArrayValue:
		elems := make([]Value, len(val.Elements))
		for i, el := range val.Elements {
			elems[i] = CopyValue(el)
		}
		return &ArrayValue{Elements: elems, ElementType: val.ElementType}
	case *StructInstanceValue:
		inst := &StructInstanceValue{
			TypeName:   val.TypeName,
			FieldNames: append([]string(nil), val.FieldNames...),
			Fields:     make(map[string]Value, len(val.Fields)),
		}
		for name, field := range val.Fields {
			inst.Fields[name] = CopyValue(field)
		}
		return inst
	default:
		return v
	}
}
