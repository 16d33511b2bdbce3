package interpreter

import (
	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

// dropHandler returns the handler registered on the binding's declared type,
// following alias chains outward.
func (i *Interpreter) dropHandler(binding *runtime.Binding, env *runtime.Environment) (*runtime.FunctionValue, error) {
	t := binding.DeclaredType
	for depth := 0; depth < maxAliasDepth; depth++ {
		simple, ok := t.(*ast.SimpleType)
		if !ok {
			return nil, nil
		}
		alias, ok := env.LookupAlias(simple.Name)
		if !ok {
			return nil, nil
		}
		if alias.DropHandler != "" {
			val, err := env.Get(alias.DropHandler)
			if err != nil {
				return nil, err
			}
			fn, ok := val.(*runtime.FunctionValue)
			if !ok {
				return nil, runtime.NewErrorf(runtime.ErrorType, "drop handler '%s' is not a function", alias.DropHandler)
			}
			return fn, nil
		}
		t = alias.Target
	}
	return nil, nil
}

// dropBinding invokes the binding's drop handler, if any, with its value.
func (i *Interpreter) dropBinding(binding *runtime.Binding, env *runtime.Environment) error {
	if !binding.Initialized || binding.DeclaredType == nil {
		return nil
	}
	handler, err := i.dropHandler(binding, env)
	if err != nil || handler == nil {
		return err
	}
	_, err = i.callFunction(handler, []runtime.Value{runtime.CopyValue(binding.Value)}, true)
	return err
}

// runDrops drops every binding declared in scope, in declaration order.
func (i *Interpreter) runDrops(scope *runtime.Environment) error {
	return i.dropFrom(scope, 0)
}

func (i *Interpreter) dropFrom(scope *runtime.Environment, start int) error {
	names := scope.LocalNames()
	for idx := start; idx < len(names); idx++ {
		binding, ok := scope.LocalBinding(names[idx])
		if !ok {
			continue
		}
		if err := i.dropBinding(binding, scope); err != nil {
			return err
		}
	}
	return nil
}

// exitScope runs when a block or call scope ends: droppable locals are
// dropped and the borrow marks held by pointer locals are released.
func (i *Interpreter) exitScope(scope *runtime.Environment) error {
	return i.exitScopeFrom(scope, 0)
}

func (i *Interpreter) exitScopeFrom(scope *runtime.Environment, start int) error {
	if err := i.dropFrom(scope, start); err != nil {
		return err
	}
	for _, name := range scope.LocalNames() {
		binding, ok := scope.LocalBinding(name)
		if !ok || binding.Held == nil {
			continue
		}
		scope.ReleaseBorrow(binding.Held)
		binding.Held = nil
	}
	return nil
}
