package eval

import (
	"log/slog"
	"oomph/pkg/ast"
)

func (it *Interpreter) evalCall(node *ast.Call, env *Environment) (Object, *Environment, error) {
	callee, env, err := it.eval(node.Function, env)
	if err != nil {
		return nil, env, err
	}

	var (
		fn       *Function
		receiver *Instance
	)
	switch c := callee.(type) {
	case *Class:
		return it.construct(node, c, env)
	case *Function:
		fn = c
	case *BoundMethod:
		fn, receiver = c.Method, c.Receiver
	default:
		return nil, env, newError(NotAFunction, node, "%s is not a function: %s",
			node.Function.String(), callee.Kind())
	}

	argc := len(node.Arguments)
	if receiver != nil {
		argc++
	}
	if argc != len(fn.Parameters) {
		return nil, env, arityError(node, fn, argc)
	}

	args, env, err := it.evalExpressions(node.Arguments, env)
	if err != nil {
		return nil, env, err
	}
	if receiver != nil {
		args = append([]Object{receiver}, args...)
	}

	result, err := it.applyFunction(node, fn, args)
	if err != nil {
		return nil, env, err
	}
	// the caller continues with its own environment
	return result, env, nil
}

func arityError(node ast.Node, fn *Function, got int) error {
	return newError(ArityMismatch, node, "%s expects %d arguments, got %d",
		fn.displayName(), len(fn.Parameters), got)
}

// applyFunction runs fn with fully evaluated arguments. For methods args[0]
// is the receiver.
func (it *Interpreter) applyFunction(node ast.Node, fn *Function, args []Object) (Object, error) {
	if len(args) != len(fn.Parameters) {
		return nil, arityError(node, fn, len(args))
	}
	if it.maxDepth > 0 && it.depth >= it.maxDepth {
		return nil, newError(RecursionLimit, node, "maximum call depth %d exceeded in %s",
			it.maxDepth, fn.displayName())
	}

	params := NewEnvironment()
	for i, param := range fn.Parameters {
		params.Set(param.Value, args[i])
	}
	frame := fn.Env.Merge(params)

	if fn.Class != nil {
		this, ok := args[0].(*Instance)
		if !ok || !this.Class.IsSubclassOf(fn.Class) {
			return nil, newError(TypeMismatch, node, "method %s needs a %s receiver, got %s",
				fn.displayName(), fn.Class.Name, args[0].Inspect())
		}
		frame.withAccess(AccessContext{Receiver: this, Class: fn.Class})
		if fn.Class.Super != nil {
			frame.Set("super", &SuperRef{Receiver: this, Class: fn.Class.Super})
		}
	}

	it.depth++
	defer func() { it.depth-- }()

	it.logger.Debug("Function call",
		slog.String("name", fn.displayName()),
		slog.Int("argc", len(args)),
		slog.Int("depth", it.depth))

	result, _, err := it.eval(fn.Body, frame)
	if err != nil {
		if sig, ok := err.(*controlSignal); ok {
			return nil, strayControl(sig)
		}
		return nil, err
	}
	return result, nil
}

// construct creates an instance of class and runs the constructor found
// along its class chain.
func (it *Interpreter) construct(node *ast.Call, class *Class, env *Environment) (Object, *Environment, error) {
	instance := &Instance{Class: class, Attributes: make(map[string]Object)}

	member, _ := class.lookup("constructor")
	ctor, isMethod := memberMethod(member)
	if member == nil || !isMethod {
		if len(node.Arguments) != 0 {
			return nil, env, newError(ArityMismatch, node, "%s takes no arguments, got %d",
				class.Name, len(node.Arguments))
		}
		it.logger.Debug("Instance constructed", slog.String("class", class.Name))
		return instance, env, nil
	}

	if len(node.Arguments)+1 != len(ctor.Parameters) {
		return nil, env, arityError(node, ctor, len(node.Arguments)+1)
	}

	args, env, err := it.evalExpressions(node.Arguments, env)
	if err != nil {
		return nil, env, err
	}

	if _, err := it.applyFunction(node, ctor, append([]Object{instance}, args...)); err != nil {
		return nil, env, err
	}

	it.logger.Debug("Instance constructed", slog.String("class", class.Name))
	return instance, env, nil
}

func memberMethod(m *Member) (*Function, bool) {
	if m == nil {
		return nil, false
	}
	fn, ok := m.Value.(*Function)
	return fn, ok && fn.Class != nil
}
