package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

func valueToString(v runtime.Value) string {
	switch val := v.(type) {
	case nil, runtime.VoidValue:
		return ""
	case runtime.IntegerValue:
		return val.Val.String()
	case runtime.BoolValue:
		return strconv.FormatBool(val.Val)
	case runtime.CharValue:
		return strconv.QuoteRune(val.Val)
	case runtime.StringValue:
		return val.Val
	case *runtime.FunctionValue:
		if name := val.Name(); name != "" {
			return fmt.Sprintf("<fn %s>", name)
		}
		return "<fn>"
	case runtime.PointerValue:
		if val.Exclusive {
			return "&mut " + val.Target
		}
		return "&" + val.Target
	case *runtime.ArrayValue:
		parts := make([]string, len(val.Elements))
		for idx, el := range val.Elements {
			parts[idx] = valueToString(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *runtime.StructInstanceValue:
		if len(val.FieldNames) == 0 {
			return val.TypeName + " {}"
		}
		parts := make([]string, len(val.FieldNames))
		for idx, name := range val.FieldNames {
			parts[idx] = valueToString(val.Fields[name])
		}
		return val.TypeName + " { " + strings.Join(parts, ", ") + " }"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// typeName is what typeOf reports for a value.
func typeName(v runtime.Value) string {
	switch val := v.(type) {
	case nil, runtime.VoidValue:
		return "Void"
	case runtime.IntegerValue:
		return val.Suffix.TypeName()
	case runtime.BoolValue:
		return "Bool"
	case runtime.CharValue:
		return "Char"
	case runtime.StringValue:
		return "Str"
	case *runtime.FunctionValue:
		return "Fn"
	case runtime.PointerValue:
		pointee := val.PointeeType
		if pointee == "" {
			pointee = "?"
		}
		if val.Exclusive {
			return "*mut " + pointee
		}
		return "*" + pointee
	case *runtime.ArrayValue:
		element := val.ElementType
		if element == "" {
			element = "?"
		}
		return fmt.Sprintf("[%s; %d]", element, len(val.Elements))
	case *runtime.StructInstanceValue:
		return val.TypeName
	default:
		return v.Kind().String()
	}
}
