package eval

import (
	"oomph/pkg/ast"
)

func expectBoolean(node ast.Node, context string, obj Object) (bool, error) {
	b, ok := obj.(*Boolean)
	if !ok {
		return false, newError(TypeMismatch, node, "%s expects BOOLEAN, got %s", context, obj.Kind())
	}
	return b.Value, nil
}

func evalPrefixExpression(node *ast.PrefixExpression, right Object) (Object, error) {
	switch node.Operator {
	case "-":
		i, ok := right.(*Integer)
		if !ok {
			return nil, newError(TypeMismatch, node, "unknown operator: -%s", right.Kind())
		}
		return NewInteger(-i.Value), nil
	case "not":
		b, err := expectBoolean(node, "not", right)
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(!b), nil
	default:
		return nil, newError(TypeMismatch, node, "unknown operator: %s%s", node.Operator, right.Kind())
	}
}

func evalInfixExpression(node *ast.InfixExpression, left, right Object) (Object, error) {
	switch node.Operator {
	case "=":
		eq, err := evalEquality(node, left, right)
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(eq), nil
	case "!=":
		eq, err := evalEquality(node, left, right)
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(!eq), nil
	}

	if left.Kind() == KindInteger && right.Kind() == KindInteger {
		return evalIntegerInfixExpression(node, left.(*Integer).Value, right.(*Integer).Value)
	}
	if left.Kind() == KindString && right.Kind() == KindString {
		return evalStringInfixExpression(node, left.(*String).Value, right.(*String).Value)
	}
	if left.Kind() != right.Kind() {
		return nil, newError(TypeMismatch, node, "type mismatch: %s %s %s", left.Kind(), node.Operator, right.Kind())
	}
	return nil, newError(TypeMismatch, node, "unknown operator: %s %s %s", left.Kind(), node.Operator, right.Kind())
}

// Integer arithmetic wraps around on overflow.
func evalIntegerInfixExpression(node *ast.InfixExpression, leftVal, rightVal int64) (Object, error) {
	switch node.Operator {
	case "+":
		return NewInteger(leftVal + rightVal), nil
	case "-":
		return NewInteger(leftVal - rightVal), nil
	case "*":
		return NewInteger(leftVal * rightVal), nil
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal), nil
	case "<=":
		return nativeBoolToBooleanObject(leftVal <= rightVal), nil
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal), nil
	case ">=":
		return nativeBoolToBooleanObject(leftVal >= rightVal), nil
	default:
		return nil, newError(TypeMismatch, node, "unknown operator: INTEGER %s INTEGER", node.Operator)
	}
}

// Strings compare lexicographically by byte; there is no concatenation.
func evalStringInfixExpression(node *ast.InfixExpression, leftVal, rightVal string) (Object, error) {
	switch node.Operator {
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal), nil
	case "<=":
		return nativeBoolToBooleanObject(leftVal <= rightVal), nil
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal), nil
	case ">=":
		return nativeBoolToBooleanObject(leftVal >= rightVal), nil
	default:
		return nil, newError(TypeMismatch, node, "unknown operator: STRING %s STRING", node.Operator)
	}
}

// evalEquality requires operands of the same kind; none compares with
// anything.
func evalEquality(node *ast.InfixExpression, left, right Object) (bool, error) {
	if left.Kind() == KindNone || right.Kind() == KindNone {
		return left.Kind() == right.Kind(), nil
	}
	if left.Kind() != right.Kind() {
		return false, newError(TypeMismatch, node, "type mismatch: %s %s %s", left.Kind(), node.Operator, right.Kind())
	}
	return objectsEqual(left, right), nil
}

// objectsEqual compares data structurally and everything else by identity.
// Elements of different kinds are unequal.
func objectsEqual(a, b Object) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case *Integer:
		return av.Value == b.(*Integer).Value
	case *Boolean:
		return av.Value == b.(*Boolean).Value
	case *String:
		return av.Value == b.(*String).Value
	case *None:
		return true
	case *List:
		return elementsEqual(av.Elements, b.(*List).Elements)
	case *Tuple:
		return elementsEqual(av.Elements, b.(*Tuple).Elements)
	case *Dictionary:
		bv := b.(*Dictionary)
		if av.Len() != bv.Len() {
			return false
		}
		for _, e := range av.Entries() {
			other, ok := bv.Get(e.Key)
			if !ok || !objectsEqual(e.Value, other) {
				return false
			}
		}
		return true
	case *BoundMethod:
		bm := b.(*BoundMethod)
		return av.Receiver == bm.Receiver && av.Method == bm.Method
	case *SuperRef:
		sr := b.(*SuperRef)
		return av.Receiver == sr.Receiver && av.Class == sr.Class
	default:
		return a == b
	}
}

func elementsEqual(a, b []Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !objectsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
