package runtime

import (
	"sort"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
)

// Binding is one named slot in a scope.
type Binding struct {
	Value        Value
	Mutable      bool
	DeclaredType ast.TypeExpression
	Initialized  bool
	Borrow       BorrowState
	// Held is the borrow mark this binding took when a pointer was stored in
	// it; it is released on reassignment and on scope exit.
	Held *PointerValue
}

func (b *Binding) clone() *Binding {
	cp := *b
	if b.Value != nil {
		cp.Value = CopyValue(b.Value)
	}
	if b.Held != nil {
		held := *b.Held
		cp.Held = &held
	}
	return &cp
}

// Environment provides lexical scoping for runtime values. Scopes are either
// in place, where writes reach the enclosing bindings, or detached, where a
// write to an outer binding first copies it into the detached scope so the
// outer binding is left untouched.
type Environment struct {
	values   map[string]*Binding
	order    []string
	declared map[string]struct{}
	structs  map[string]*StructTemplate
	aliases  map[string]*TypeAlias
	parent   *Environment
	detached bool
	frame    string
}

// NewEnvironment creates an in-place scope, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values:   make(map[string]*Binding),
		declared: make(map[string]struct{}),
		structs:  make(map[string]*StructTemplate),
		aliases:  make(map[string]*TypeAlias),
		parent:   parent,
	}
}

// NewDetachedEnvironment creates a scope whose writes never escape it. frame
// names the call frame it represents (empty for block values).
func NewDetachedEnvironment(parent *Environment, frame string) *Environment {
	env := NewEnvironment(parent)
	env.detached = true
	env.frame = frame
	return env
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

func (e *Environment) Detached() bool {
	return e.detached
}

// Frame returns the name of the enclosing call frame, if any.
func (e *Environment) Frame() string {
	for env := e; env != nil; env = env.parent {
		if env.detached && env.frame != "" {
			return env.frame
		}
	}
	return ""
}

// Declare introduces a new binding in this scope. A name may be declared once
// per scope; nested scopes may shadow it.
func (e *Environment) Declare(name string, binding *Binding) error {
	if _, exists := e.declared[name]; exists {
		return NewError(ErrorName, "duplicate declaration")
	}
	if _, exists := e.aliases[name]; exists {
		return NewError(ErrorName, "duplicate declaration")
	}
	e.declared[name] = struct{}{}
	e.order = append(e.order, name)
	e.values[name] = binding
	return nil
}

// Define declares an immutable, initialized binding.
func (e *Environment) Define(name string, value Value) error {
	return e.Declare(name, &Binding{Value: value, Initialized: true})
}

// Lookup finds a binding for reading, searching outward through the chain.
func (e *Environment) Lookup(name string) (*Binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.values[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Get retrieves an initialized value.
func (e *Environment) Get(name string) (Value, error) {
	b, ok := e.Lookup(name)
	if !ok {
		return nil, NewErrorf(ErrorName, "undefined variable '%s'", name)
	}
	if !b.Initialized {
		return nil, NewErrorf(ErrorName, "use of uninitialized variable '%s'", name)
	}
	return b.Value, nil
}

// Writable returns the binding a write to name must modify, copying it into
// the nearest detached scope when the binding lives beyond it.
func (e *Environment) Writable(name string) (*Binding, error) {
	var boundary *Environment
	for env := e; env != nil; env = env.parent {
		if b, ok := env.values[name]; ok {
			if boundary == nil || boundary == env {
				return b, nil
			}
			cp := b.clone()
			boundary.values[name] = cp
			return cp, nil
		}
		if env.detached && boundary == nil {
			boundary = env
		}
	}
	return nil, NewErrorf(ErrorName, "undefined variable '%s'", name)
}

// Resolve returns the binding name refers to without copying it across a
// detached boundary. Writes through an exclusive pointer use it so they reach
// the pointee from inside a call frame.
func (e *Environment) Resolve(name string) (*Binding, error) {
	if b, ok := e.Lookup(name); ok {
		return b, nil
	}
	return nil, NewErrorf(ErrorName, "undefined variable '%s'", name)
}

// Assign updates an existing binding, honoring mutability. The first write to
// a declared-but-uninitialized binding is always allowed.
func (e *Environment) Assign(name string, value Value) error {
	b, err := e.Writable(name)
	if err != nil {
		return err
	}
	if b.Initialized && !b.Mutable {
		return NewError(ErrorBorrow, "assignment to immutable variable")
	}
	b.Value = value
	b.Initialized = true
	return nil
}

// HasLocal reports whether name was declared in this exact scope.
func (e *Environment) HasLocal(name string) bool {
	_, ok := e.declared[name]
	return ok
}

// LocalNames returns the names declared in this scope in declaration order.
func (e *Environment) LocalNames() []string {
	return append([]string(nil), e.order...)
}

// LocalBinding returns a binding declared in this scope.
func (e *Environment) LocalBinding(name string) (*Binding, bool) {
	if _, ok := e.declared[name]; !ok {
		return nil, false
	}
	b, ok := e.values[name]
	return b, ok
}

// FrameNames lists the names visible in the current call frame: every scope
// up to and including the nearest detached one, outermost first. Shadowed
// names appear once.
func (e *Environment) FrameNames() []string {
	var scopes []*Environment
	for env := e; env != nil; env = env.parent {
		scopes = append(scopes, env)
		if env.detached {
			break
		}
	}
	seen := make(map[string]struct{})
	var names []string
	for i := len(scopes) - 1; i >= 0; i-- {
		for _, name := range scopes[i].order {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// Keys returns the local bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.declared))
	for k := range e.declared {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ReleaseBorrow clears the mark a pointer placed on its target.
func (e *Environment) ReleaseBorrow(ptr *PointerValue) {
	if ptr == nil {
		return
	}
	if target, err := e.Writable(ptr.Target); err == nil {
		target.Borrow.Release(ptr.Exclusive)
	}
}

//-----------------------------------------------------------------------------
// Type namespaces
//-----------------------------------------------------------------------------

// DefineStruct registers a template; redeclaring a name replaces it.
func (e *Environment) DefineStruct(tmpl *StructTemplate) {
	e.structs[tmpl.Name] = tmpl
}

func (e *Environment) LookupStruct(name string) (*StructTemplate, bool) {
	for env := e; env != nil; env = env.parent {
		if tmpl, ok := env.structs[name]; ok {
			return tmpl, true
		}
	}
	return nil, false
}

// DefineAlias registers a type alias. Aliases share the value namespace for
// duplicate detection.
func (e *Environment) DefineAlias(alias *TypeAlias) error {
	if _, exists := e.aliases[alias.Name]; exists {
		return NewError(ErrorName, "duplicate declaration")
	}
	if _, exists := e.declared[alias.Name]; exists {
		return NewError(ErrorName, "duplicate declaration")
	}
	e.aliases[alias.Name] = alias
	return nil
}

func (e *Environment) LookupAlias(name string) (*TypeAlias, bool) {
	for env := e; env != nil; env = env.parent {
		if alias, ok := env.aliases[name]; ok {
			return alias, true
		}
	}
	return nil, false
}
