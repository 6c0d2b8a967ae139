package eval

import (
	"errors"
	"fmt"
	"io"
	"oomph/pkg/ast"
)

func (it *Interpreter) eval(node ast.Node, env *Environment) (Object, *Environment, error) {
	switch node := node.(type) {
	case *ast.Program:
		if node.Body == nil {
			return NONE, env, nil
		}
		return it.eval(node.Body, env)

	case *ast.Identifier:
		val, err := env.Lookup(node.Value)
		if err != nil {
			return nil, env, at(err, node)
		}
		return val, env, nil

	case *ast.IntegerLiteral:
		return NewInteger(node.Value), env, nil

	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value), env, nil

	case *ast.StringLiteral:
		return &String{Value: node.Value}, env, nil

	case *ast.NoneLiteral:
		return NONE, env, nil

	case *ast.InputLiteral:
		return it.readInput(node, env)

	case *ast.ListLiteral:
		elements, env, err := it.evalExpressions(node.Elements, env)
		if err != nil {
			return nil, env, err
		}
		return &List{Elements: elements}, env, nil

	case *ast.TupleLiteral:
		elements, env, err := it.evalExpressions(node.Elements, env)
		if err != nil {
			return nil, env, err
		}
		return &Tuple{Elements: elements}, env, nil

	case *ast.DictLiteral:
		return it.evalDictLiteral(node, env)

	case *ast.PrefixExpression:
		right, env, err := it.eval(node.Right, env)
		if err != nil {
			return nil, env, err
		}
		result, err := evalPrefixExpression(node, right)
		return result, env, err

	case *ast.InfixExpression:
		left, env, err := it.eval(node.Left, env)
		if err != nil {
			return nil, env, err
		}
		right, env, err := it.eval(node.Right, env)
		if err != nil {
			return nil, env, err
		}
		result, err := evalInfixExpression(node, left, right)
		return result, env, err

	case *ast.LogicalExpression:
		return it.evalLogicalExpression(node, env)

	case *ast.Assign:
		return it.evalAssign(node, env)

	case *ast.Sequence:
		_, env, err := it.eval(node.First, env)
		if err != nil {
			return nil, env, err
		}
		return it.eval(node.Second, env)

	case *ast.Block:
		return it.eval(node.Body, env)

	case *ast.If:
		return it.evalIf(node, env)

	case *ast.While:
		return it.evalWhile(node, env)

	case *ast.FunctionDecl:
		return it.evalFunctionDecl(node, env)

	case *ast.FunctionLiteral:
		return &Function{Parameters: node.Parameters, Body: node.Body, Env: env.Snapshot()}, env, nil

	case *ast.Call:
		return it.evalCall(node, env)

	case *ast.ClassDecl:
		return it.evalClassDecl(node, env)

	case *ast.MemberAccess:
		return it.evalMemberAccess(node, env)

	case *ast.Index:
		return it.evalIndex(node, env)

	case *ast.Slice:
		return it.evalSlice(node, env)

	case *ast.Print:
		val, env, err := it.eval(node.Value, env)
		if err != nil {
			return nil, env, err
		}
		if _, err := io.WriteString(it.out, val.Inspect()+"\n"); err != nil {
			return nil, env, fmt.Errorf("print: %w", err)
		}
		return val, env, nil

	case *ast.Test:
		cond, env, err := it.eval(node.Condition, env)
		if err != nil {
			return nil, env, err
		}
		b, err := expectBoolean(node, "test", cond)
		if err != nil {
			return nil, env, err
		}
		if !b {
			return nil, env, newError(AssertionFailed, node, "test failed: %s", node.Condition.String())
		}
		return TRUE, env, nil

	case *ast.Skip:
		return NONE, env, nil

	case *ast.Break, *ast.Continue:
		return nil, env, &controlSignal{node: node}
	}

	return nil, env, newError(StructuralError, node, "cannot evaluate %T", node)
}

func (it *Interpreter) evalExpressions(exps []ast.Node, env *Environment) ([]Object, *Environment, error) {
	result := make([]Object, 0, len(exps))

	for _, e := range exps {
		evaluated, newEnv, err := it.eval(e, env)
		if err != nil {
			return nil, newEnv, err
		}
		env = newEnv
		result = append(result, evaluated)
	}

	return result, env, nil
}

func (it *Interpreter) readInput(node *ast.InputLiteral, env *Environment) (Object, *Environment, error) {
	if it.in == nil {
		return nil, env, &Error{Kind: InputFailure, Message: errNoInput.Error(), Node: node, Err: errNoInput}
	}
	n, err := it.in.ReadInt()
	if err != nil {
		return nil, env, &Error{Kind: InputFailure, Message: err.Error(), Node: node, Err: err}
	}
	return NewInteger(n), env, nil
}

func (it *Interpreter) evalLogicalExpression(node *ast.LogicalExpression, env *Environment) (Object, *Environment, error) {
	left, env, err := it.eval(node.Left, env)
	if err != nil {
		return nil, env, err
	}
	lb, err := expectBoolean(node, node.Operator, left)
	if err != nil {
		return nil, env, err
	}

	// the right operand is not evaluated once the result is known
	if node.Operator == "and" && !lb {
		return FALSE, env, nil
	}
	if node.Operator == "or" && lb {
		return TRUE, env, nil
	}

	right, env, err := it.eval(node.Right, env)
	if err != nil {
		return nil, env, err
	}
	rb, err := expectBoolean(node, node.Operator, right)
	if err != nil {
		return nil, env, err
	}
	return nativeBoolToBooleanObject(rb), env, nil
}

func (it *Interpreter) evalIf(node *ast.If, env *Environment) (Object, *Environment, error) {
	guard, env, err := it.eval(node.Guard, env)
	if err != nil {
		return nil, env, err
	}
	ok, err := expectBoolean(node, "if", guard)
	if err != nil {
		return nil, env, err
	}

	if ok {
		return it.eval(node.Then, env)
	}
	if node.Else != nil {
		return it.eval(node.Else, env)
	}
	return NONE, env, nil
}

func (it *Interpreter) evalWhile(node *ast.While, env *Environment) (Object, *Environment, error) {
	for {
		guard, newEnv, err := it.eval(node.Guard, env)
		if err != nil {
			return nil, newEnv, err
		}
		env = newEnv

		ok, err := expectBoolean(node, "while", guard)
		if err != nil {
			return nil, env, err
		}
		if !ok {
			return NONE, env, nil
		}

		_, newEnv, err = it.eval(node.Body, env)
		env = newEnv
		if err != nil {
			var sig *controlSignal
			if !errors.As(err, &sig) {
				return nil, env, err
			}
			if sig.isBreak() {
				return NONE, env, nil
			}
		}
	}
}

func (it *Interpreter) evalAssign(node *ast.Assign, env *Environment) (Object, *Environment, error) {
	if node.Access != ast.AccessNone {
		return nil, env, newError(StructuralError, node,
			"access modifier %s outside of a class body", node.Access)
	}

	val, env, err := it.eval(node.Value, env)
	if err != nil {
		return nil, env, err
	}

	switch target := node.Target.(type) {
	case *ast.Identifier:
		env.Set(target.Value, val)
		return val, env, nil

	case *ast.MemberAccess:
		obj, env, err := it.eval(target.Object, env)
		if err != nil {
			return nil, env, err
		}
		if err := setMember(target, obj, target.Member.Value, val, env.Access()); err != nil {
			return nil, env, err
		}
		return val, env, nil

	case *ast.Index:
		left, env, err := it.eval(target.Left, env)
		if err != nil {
			return nil, env, err
		}
		index, env, err := it.eval(target.Index, env)
		if err != nil {
			return nil, env, err
		}
		if err := setIndex(target, left, index, val); err != nil {
			return nil, env, err
		}
		return val, env, nil

	case *ast.Slice:
		left, low, high, env, err := it.evalSliceOperands(target, env)
		if err != nil {
			return nil, env, err
		}
		if err := setSlice(target, left, low, high, val); err != nil {
			return nil, env, err
		}
		return val, env, nil
	}

	return nil, env, newError(StructuralError, node, "cannot assign to %s", node.Target.String())
}

func (it *Interpreter) evalFunctionDecl(node *ast.FunctionDecl, env *Environment) (Object, *Environment, error) {
	if node.Access != ast.AccessNone {
		return nil, env, newError(StructuralError, node,
			"access modifier %s outside of a class body", node.Access)
	}

	fn := newClosure(node, env)
	env.Set(node.Name.Value, fn)
	return fn, env, nil
}

// newClosure captures a snapshot of env in which the function's own name is
// already bound, so the body can call itself.
func newClosure(node *ast.FunctionDecl, env *Environment) *Function {
	fn := &Function{
		Name:       node.Name.Value,
		Parameters: node.Parameters,
		Body:       node.Body,
	}
	captured := env.Snapshot()
	captured.Set(fn.Name, fn)
	fn.Env = captured
	return fn
}
