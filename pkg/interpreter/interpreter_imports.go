package interpreter

import (
	"strings"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/parser"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

// importModule evaluates the named unit in an isolated top-level scope and
// copies the requested exports into env. Units are evaluated again on every
// import.
func (i *Interpreter) importModule(use *ast.UseStatement, env *runtime.Environment) error {
	name := use.Module.Name
	src, ok := i.sources[name]
	if !ok {
		return runtime.NewErrorf(runtime.ErrorName, "module '%s' not found in source set", name)
	}
	for _, active := range i.importStack {
		if active == name {
			chain := append(append([]string(nil), i.importStack...), name)
			return runtime.NewErrorf(runtime.ErrorName, "import cycle detected: %s", strings.Join(chain, " -> "))
		}
	}

	mod, err := parser.ParseModule(src)
	if err != nil {
		return normalizeError(err)
	}
	moduleEnv := runtime.NewEnvironment(nil)
	i.importStack = append(i.importStack, name)
	_, err = i.runUnit(mod, moduleEnv, false)
	i.importStack = i.importStack[:len(i.importStack)-1]
	if err != nil {
		return err
	}

	exports := collectExports(unwrapTopLevelBlock(mod.Body))
	if use.Item != nil {
		item := use.Item.Name
		if !containsName(exports, item) {
			return runtime.NewErrorf(runtime.ErrorName, "module '%s' has no export '%s'", name, item)
		}
		return importName(item, moduleEnv, env)
	}
	for _, export := range exports {
		if err := importName(export, moduleEnv, env); err != nil {
			return err
		}
	}
	return nil
}

// collectExports lists the names declared by `out` statements, in order.
func collectExports(body []ast.Statement) []string {
	var names []string
	for _, stmt := range body {
		if export, ok := stmt.(*ast.ExportStatement); ok {
			names = append(names, ast.DeclaredNames(export)...)
		}
	}
	return names
}

func importName(name string, from, to *runtime.Environment) error {
	imported := false
	if tmpl, ok := from.LookupStruct(name); ok {
		to.DefineStruct(tmpl)
		imported = true
	}
	if alias, ok := from.LookupAlias(name); ok {
		if err := to.DefineAlias(alias); err != nil {
			return err
		}
		imported = true
	}
	if binding, ok := from.LocalBinding(name); ok {
		cp := &runtime.Binding{
			Mutable:      binding.Mutable,
			DeclaredType: binding.DeclaredType,
			Initialized:  binding.Initialized,
		}
		if binding.Value != nil {
			cp.Value = runtime.CopyValue(binding.Value)
		}
		if err := to.Declare(name, cp); err != nil {
			return err
		}
		imported = true
	}
	if !imported {
		return runtime.NewErrorf(runtime.ErrorName, "undefined variable '%s'", name)
	}
	return nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
