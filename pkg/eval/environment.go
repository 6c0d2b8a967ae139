package eval

import (
	"oomph/pkg/ast"
	"sort"
)

type binding struct {
	value  Object
	access ast.AccessModifier
}

// AccessContext identifies the method currently executing: its receiver and
// the class that declares it. The zero value means "not inside a method".
type AccessContext struct {
	Receiver *Instance
	Class    *Class
}

// Environment is a flat set of bindings. Closures capture a Snapshot, so
// later rebinding in the declaring scope is not visible to them.
type Environment struct {
	store  map[string]binding
	access AccessContext
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]binding)}
}

func (e *Environment) Get(name string) (Object, bool) {
	b, ok := e.store[name]
	if !ok {
		return nil, false
	}
	return b.value, true
}

// Lookup is Get that fails with UnboundVariable.
func (e *Environment) Lookup(name string) (Object, error) {
	if v, ok := e.Get(name); ok {
		return v, nil
	}
	return nil, &Error{Kind: UnboundVariable, Message: "unbound variable " + name}
}

// Set binds name to val, keeping the modifier of an existing binding.
func (e *Environment) Set(name string, val Object) Object {
	b := e.store[name]
	b.value = val
	e.store[name] = b
	return val
}

// SetWithAccess binds name to val with an explicit modifier.
func (e *Environment) SetWithAccess(name string, val Object, access ast.AccessModifier) Object {
	e.store[name] = binding{value: val, access: access}
	return val
}

// AccessOf returns the modifier name was bound with.
func (e *Environment) AccessOf(name string) ast.AccessModifier {
	return e.store[name].access
}

// Access returns the method context of this environment.
func (e *Environment) Access() AccessContext {
	return e.access
}

// Snapshot copies the binding set. Values themselves are shared.
func (e *Environment) Snapshot() *Environment {
	s := make(map[string]binding, len(e.store))
	for k, v := range e.store {
		s[k] = v
	}
	return &Environment{store: s, access: e.access}
}

// Merge returns a new environment holding the bindings of e overridden by
// those of overlay. The method context of e is kept.
func (e *Environment) Merge(overlay *Environment) *Environment {
	merged := e.Snapshot()
	if overlay != nil {
		for k, v := range overlay.store {
			merged.store[k] = v
		}
	}
	return merged
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for k := range e.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) withAccess(ctx AccessContext) *Environment {
	e.access = ctx
	return e
}
