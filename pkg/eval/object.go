package eval

import (
	"fmt"
	"oomph/pkg/ast"
	"sort"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Object is the interface that all Oomph values implement.
type Object interface {
	Kind() ObjectKind
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Kind() ObjectKind { return KindInteger }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Kind() ObjectKind { return KindBoolean }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type String struct {
	Value string
}

func (s *String) Kind() ObjectKind { return KindString }
func (s *String) Inspect() string  { return s.Value }

type None struct{}

func (n *None) Kind() ObjectKind { return KindNone }
func (n *None) Inspect() string  { return "none" }

// List is a mutable sequence. Aliases share the same *List.
type List struct {
	Elements []Object
}

func (l *List) Kind() ObjectKind { return KindList }
func (l *List) Inspect() string  { return "[" + inspectElements(l.Elements) + "]" }

type Tuple struct {
	Elements []Object
}

func (t *Tuple) Kind() ObjectKind { return KindTuple }
func (t *Tuple) Inspect() string {
	if len(t.Elements) == 1 {
		return "(" + inspectElement(t.Elements[0]) + ",)"
	}
	return "(" + inspectElements(t.Elements) + ")"
}

// DictEntry is one key/value pair of a Dictionary.
type DictEntry struct {
	Key   Object
	Value Object
}

// Dictionary maps hashable keys to values and remembers insertion order.
type Dictionary struct {
	pairs *linkedhashmap.Map
}

func NewDictionary() *Dictionary {
	return &Dictionary{pairs: linkedhashmap.New()}
}

func (d *Dictionary) Kind() ObjectKind { return KindDictionary }
func (d *Dictionary) Inspect() string {
	entries := d.Entries()
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, inspectElement(e.Key)+": "+inspectElement(e.Value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the value stored under key. Unhashable keys are never found.
func (d *Dictionary) Get(key Object) (Object, bool) {
	hk, ok := hashKey(key)
	if !ok {
		return nil, false
	}
	v, found := d.pairs.Get(hk)
	if !found {
		return nil, false
	}
	return v.(DictEntry).Value, true
}

// Set stores value under key and reports whether key was hashable. A key
// that is already present keeps its position.
func (d *Dictionary) Set(key, value Object) bool {
	hk, ok := hashKey(key)
	if !ok {
		return false
	}
	d.pairs.Put(hk, DictEntry{Key: key, Value: value})
	return true
}

func (d *Dictionary) Len() int { return d.pairs.Size() }

// Entries returns the pairs in insertion order.
func (d *Dictionary) Entries() []DictEntry {
	entries := make([]DictEntry, 0, d.pairs.Size())
	it := d.pairs.Iterator()
	for it.Next() {
		entries = append(entries, it.Value().(DictEntry))
	}
	return entries
}

// Function is a closure: parameters, body and the environment captured when
// it was created. Methods carry their declaring class and an implicit leading
// "this" parameter.
type Function struct {
	Name       string
	Parameters []*ast.Identifier
	Body       ast.Node
	Env        *Environment
	Class      *Class
}

func (f *Function) Kind() ObjectKind { return KindFunction }
func (f *Function) Inspect() string {
	if f.Class != nil {
		return fmt.Sprintf("<method %s.%s>", f.Class.Name, f.Name)
	}
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("<function %s/%d>", name, len(f.Parameters))
}

func (f *Function) displayName() string {
	switch {
	case f.Class != nil:
		return f.Class.Name + "." + f.Name
	case f.Name == "":
		return "anonymous"
	default:
		return f.Name
	}
}

// BoundMethod is a method extracted from an instance; applying it supplies
// the receiver as "this".
type BoundMethod struct {
	Receiver *Instance
	Method   *Function
}

func (bm *BoundMethod) Kind() ObjectKind { return KindMethod }
func (bm *BoundMethod) Inspect() string  { return bm.Method.Inspect() }

// Member is a declared field default or method together with its modifier.
type Member struct {
	Value  Object
	Access ast.AccessModifier
}

type Class struct {
	Name    string
	Super   *Class
	Fields  map[string]*Member
	Methods map[string]*Member
}

func (c *Class) Kind() ObjectKind { return KindClass }
func (c *Class) Inspect() string  { return "<class " + c.Name + ">" }

// lookup finds name among the declarations of c and its superclasses and
// returns the member with the class that declares it.
func (c *Class) lookup(name string) (*Member, *Class) {
	for cls := c; cls != nil; cls = cls.Super {
		if m, ok := cls.Fields[name]; ok {
			return m, cls
		}
		if m, ok := cls.Methods[name]; ok {
			return m, cls
		}
	}
	return nil, nil
}

// IsSubclassOf reports whether c is other or inherits from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cls := c; cls != nil; cls = cls.Super {
		if cls == other {
			return true
		}
	}
	return false
}

// MemberNames returns the names declared directly on c, sorted.
func (c *Class) MemberNames() []string {
	names := make([]string, 0, len(c.Fields)+len(c.Methods))
	for name := range c.Fields {
		names = append(names, name)
	}
	for name := range c.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instance holds its own attributes; anything else is read from its class
// chain.
type Instance struct {
	Class      *Class
	Attributes map[string]Object
}

func (i *Instance) Kind() ObjectKind { return KindInstance }
func (i *Instance) Inspect() string  { return "<" + i.Class.Name + " object>" }

// SuperRef is the value of "super" inside a method: the receiver seen from
// the declaring class's superclass.
type SuperRef struct {
	Receiver *Instance
	Class    *Class
}

func (s *SuperRef) Kind() ObjectKind { return KindSuper }
func (s *SuperRef) Inspect() string  { return "<super " + s.Class.Name + ">" }

func inspectElement(o Object) string {
	if s, ok := o.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return o.Inspect()
}

func inspectElements(elements []Object) string {
	parts := make([]string, 0, len(elements))
	for _, e := range elements {
		parts = append(parts, inspectElement(e))
	}
	return strings.Join(parts, ", ")
}

// hashKey returns a canonical key for hashable values: integers, booleans,
// strings and tuples of hashable values.
func hashKey(o Object) (string, bool) {
	switch v := o.(type) {
	case *Integer:
		return "i" + strconv.FormatInt(v.Value, 10), true
	case *Boolean:
		return "b" + strconv.FormatBool(v.Value), true
	case *String:
		return "s" + strconv.Quote(v.Value), true
	case *Tuple:
		parts := make([]string, 0, len(v.Elements))
		for _, e := range v.Elements {
			k, ok := hashKey(e)
			if !ok {
				return "", false
			}
			parts = append(parts, k)
		}
		return "t(" + strings.Join(parts, ",") + ")", true
	default:
		return "", false
	}
}
