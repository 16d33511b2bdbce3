package interpreter

import (
	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

// evaluateAddressOf checks that a borrow of the given mode could be taken but
// does not record it; only a pointer stored in a binding holds a mark.
func (i *Interpreter) evaluateAddressOf(expr *ast.AddressOf, env *runtime.Environment) (runtime.Value, error) {
	name := expr.Target.Name
	binding, ok := env.Lookup(name)
	if !ok {
		return nil, runtime.NewErrorf(runtime.ErrorName, "undefined variable '%s'", name)
	}
	if expr.Mutable {
		if !binding.Mutable {
			return nil, runtime.NewError(runtime.ErrorBorrow, "cannot take mutable reference of immutable variable")
		}
		if err := binding.Borrow.CheckExclusive(); err != nil {
			return nil, err
		}
	} else if err := binding.Borrow.CheckShared(); err != nil {
		return nil, err
	}
	ptr := runtime.PointerValue{Target: name, Exclusive: expr.Mutable}
	if binding.DeclaredType != nil {
		ptr.PointeeType = binding.DeclaredType.String()
	} else if binding.Initialized {
		ptr.PointeeType = typeName(binding.Value)
	}
	return ptr, nil
}

func (i *Interpreter) evaluateDereference(expr *ast.Dereference, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	ptr, ok := val.(runtime.PointerValue)
	if !ok {
		return nil, runtime.NewError(runtime.ErrorType, "dereference of non-pointer value")
	}
	binding, ok := env.Lookup(ptr.Target)
	if !ok {
		return nil, runtime.NewError(runtime.ErrorBorrow, "dereference to invalid pointer")
	}
	if !binding.Initialized {
		return nil, runtime.NewErrorf(runtime.ErrorName, "use of uninitialized variable '%s'", ptr.Target)
	}
	return binding.Value, nil
}

// holdBorrow records the borrow mark for a pointer produced by an address-of
// expression that is about to be stored in a binding.
func (i *Interpreter) holdBorrow(source ast.Expression, value runtime.Value, env *runtime.Environment) (*runtime.PointerValue, bool, error) {
	if _, ok := source.(*ast.AddressOf); !ok {
		return nil, false, nil
	}
	ptr, ok := value.(runtime.PointerValue)
	if !ok {
		return nil, false, nil
	}
	target, err := env.Writable(ptr.Target)
	if err != nil {
		return nil, false, err
	}
	if ptr.Exclusive {
		if !target.Mutable {
			return nil, false, runtime.NewError(runtime.ErrorBorrow, "cannot take mutable reference of immutable variable")
		}
		if err := target.Borrow.TryBorrowExclusive(); err != nil {
			return nil, false, err
		}
	} else if err := target.Borrow.TryBorrowShared(); err != nil {
		return nil, false, err
	}
	return &ptr, true, nil
}
