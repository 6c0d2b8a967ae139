package eval

import (
	"oomph/pkg/ast"
)

func (it *Interpreter) evalDictLiteral(node *ast.DictLiteral, env *Environment) (Object, *Environment, error) {
	dict := NewDictionary()

	for _, pair := range node.Pairs {
		key, newEnv, err := it.eval(pair.Key, env)
		if err != nil {
			return nil, newEnv, err
		}
		env = newEnv
		if _, ok := hashKey(key); !ok {
			return nil, env, newError(TypeMismatch, pair.Key, "unhashable dictionary key: %s", key.Kind())
		}

		value, newEnv, err := it.eval(pair.Value, env)
		if err != nil {
			return nil, newEnv, err
		}
		env = newEnv

		dict.Set(key, value)
	}

	return dict, env, nil
}

func (it *Interpreter) evalIndex(node *ast.Index, env *Environment) (Object, *Environment, error) {
	left, env, err := it.eval(node.Left, env)
	if err != nil {
		return nil, env, err
	}
	index, env, err := it.eval(node.Index, env)
	if err != nil {
		return nil, env, err
	}
	result, err := evalIndexExpression(node, left, index)
	return result, env, err
}

func evalIndexExpression(node ast.Node, left, index Object) (Object, error) {
	switch l := left.(type) {
	case *String:
		runes := []rune(l.Value)
		i, err := sequenceIndex(node, index, len(runes))
		if err != nil {
			return nil, err
		}
		return &String{Value: string(runes[i])}, nil
	case *List:
		i, err := sequenceIndex(node, index, len(l.Elements))
		if err != nil {
			return nil, err
		}
		return l.Elements[i], nil
	case *Tuple:
		i, err := sequenceIndex(node, index, len(l.Elements))
		if err != nil {
			return nil, err
		}
		return l.Elements[i], nil
	case *Dictionary:
		if _, ok := hashKey(index); !ok {
			return nil, newError(TypeMismatch, node, "unhashable dictionary key: %s", index.Kind())
		}
		v, ok := l.Get(index)
		if !ok {
			return nil, newError(KeyNotFound, node, "key %s not found", inspectElement(index))
		}
		return v, nil
	}
	return nil, newError(TypeMismatch, node, "index operator not supported: %s", left.Kind())
}

// sequenceIndex resolves a possibly negative index against length.
func sequenceIndex(node ast.Node, index Object, length int) (int, error) {
	idx, ok := index.(*Integer)
	if !ok {
		return 0, newError(TypeMismatch, node, "index must be INTEGER, got %s", index.Kind())
	}
	i := idx.Value
	if i < 0 {
		i += int64(length)
	}
	if i < 0 || i >= int64(length) {
		return 0, newError(IndexOutOfRange, node, "index %d out of range for length %d", idx.Value, length)
	}
	return int(i), nil
}

func (it *Interpreter) evalSliceOperands(node *ast.Slice, env *Environment) (Object, Object, Object, *Environment, error) {
	left, env, err := it.eval(node.Left, env)
	if err != nil {
		return nil, nil, nil, env, err
	}

	var low, high Object
	if node.Low != nil {
		low, env, err = it.eval(node.Low, env)
		if err != nil {
			return nil, nil, nil, env, err
		}
	}
	if node.High != nil {
		high, env, err = it.eval(node.High, env)
		if err != nil {
			return nil, nil, nil, env, err
		}
	}
	return left, low, high, env, nil
}

func (it *Interpreter) evalSlice(node *ast.Slice, env *Environment) (Object, *Environment, error) {
	left, low, high, env, err := it.evalSliceOperands(node, env)
	if err != nil {
		return nil, env, err
	}
	result, err := evalSliceExpression(node, left, low, high)
	return result, env, err
}

// evalSliceExpression copies the half-open range [low, high) of a string,
// list or tuple. Strings are indexed by code point.
func evalSliceExpression(node ast.Node, left, low, high Object) (Object, error) {
	switch l := left.(type) {
	case *String:
		runes := []rune(l.Value)
		lo, hi, err := sliceBounds(node, low, high, len(runes))
		if err != nil {
			return nil, err
		}
		return &String{Value: string(runes[lo:hi])}, nil
	case *List:
		lo, hi, err := sliceBounds(node, low, high, len(l.Elements))
		if err != nil {
			return nil, err
		}
		return &List{Elements: copyElements(l.Elements[lo:hi])}, nil
	case *Tuple:
		lo, hi, err := sliceBounds(node, low, high, len(l.Elements))
		if err != nil {
			return nil, err
		}
		return &Tuple{Elements: copyElements(l.Elements[lo:hi])}, nil
	}
	return nil, newError(TypeMismatch, node, "slice operator not supported: %s", left.Kind())
}

// sliceBounds resolves optional, possibly negative bounds and clamps them to
// [0, length] with lo <= hi.
func sliceBounds(node ast.Node, low, high Object, length int) (int, int, error) {
	lo, err := sliceBound(node, low, 0, length)
	if err != nil {
		return 0, 0, err
	}
	hi, err := sliceBound(node, high, length, length)
	if err != nil {
		return 0, 0, err
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi, nil
}

func sliceBound(node ast.Node, bound Object, def, length int) (int, error) {
	if bound == nil {
		return def, nil
	}
	b, ok := bound.(*Integer)
	if !ok {
		return 0, newError(TypeMismatch, node, "slice bound must be INTEGER, got %s", bound.Kind())
	}
	v := b.Value
	if v < 0 {
		v += int64(length)
	}
	if v < 0 {
		v = 0
	}
	if v > int64(length) {
		v = int64(length)
	}
	return int(v), nil
}

func copyElements(elements []Object) []Object {
	out := make([]Object, len(elements))
	copy(out, elements)
	return out
}

// setIndex assigns left[index] := val in place. Strings and tuples are
// immutable.
func setIndex(node ast.Node, left, index, val Object) error {
	switch l := left.(type) {
	case *List:
		i, err := sequenceIndex(node, index, len(l.Elements))
		if err != nil {
			return err
		}
		l.Elements[i] = val
		return nil
	case *Dictionary:
		if !l.Set(index, val) {
			return newError(TypeMismatch, node, "unhashable dictionary key: %s", index.Kind())
		}
		return nil
	case *String, *Tuple:
		return newError(TypeMismatch, node, "%s is immutable", left.Kind())
	}
	return newError(TypeMismatch, node, "index assignment not supported: %s", left.Kind())
}

// setSlice replaces the addressed range of a list with the elements of a
// list or tuple.
func setSlice(node ast.Node, left, low, high, val Object) error {
	l, ok := left.(*List)
	if !ok {
		if left.Kind() == KindString || left.Kind() == KindTuple {
			return newError(TypeMismatch, node, "%s is immutable", left.Kind())
		}
		return newError(TypeMismatch, node, "slice assignment not supported: %s", left.Kind())
	}

	var replacement []Object
	switch v := val.(type) {
	case *List:
		replacement = copyElements(v.Elements)
	case *Tuple:
		replacement = copyElements(v.Elements)
	default:
		return newError(TypeMismatch, node, "slice assignment needs LIST or TUPLE, got %s", val.Kind())
	}

	lo, hi, err := sliceBounds(node, low, high, len(l.Elements))
	if err != nil {
		return err
	}

	elements := make([]Object, 0, len(l.Elements)-(hi-lo)+len(replacement))
	elements = append(elements, l.Elements[:lo]...)
	elements = append(elements, replacement...)
	elements = append(elements, l.Elements[hi:]...)
	l.Elements = elements
	return nil
}
