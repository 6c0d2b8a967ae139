package eval

import (
	"oomph/pkg/ast"
)

func (it *Interpreter) evalMemberAccess(node *ast.MemberAccess, env *Environment) (Object, *Environment, error) {
	obj, env, err := it.eval(node.Object, env)
	if err != nil {
		return nil, env, err
	}
	val, err := getMember(node, obj, node.Member.Value, env.Access())
	if err != nil {
		return nil, env, err
	}
	return val, env, nil
}

// getMember resolves obj.name: own attributes, then the declarations of the
// class chain. Methods read through an instance come back bound to it.
func getMember(node ast.Node, obj Object, name string, ctx AccessContext) (Object, error) {
	switch o := obj.(type) {
	case *Instance:
		return instanceMember(node, o, o.Class, name, ctx, false)

	case *SuperRef:
		return instanceMember(node, o.Receiver, o.Class, name, ctx, true)

	case *Class:
		m, owner := o.lookup(name)
		if m == nil {
			return nil, newError(UnboundVariable, node, "class %s has no member %s", o.Name, name)
		}
		if err := checkAccess(node, name, m.Access, owner, nil, ctx, false); err != nil {
			return nil, err
		}
		return m.Value, nil
	}

	return nil, newError(TypeMismatch, node, "%s has no members (looking up %s)", obj.Kind(), name)
}

func instanceMember(node ast.Node, inst *Instance, start *Class, name string, ctx AccessContext, viaSuper bool) (Object, error) {
	m, owner := start.lookup(name)

	if v, ok := inst.Attributes[name]; ok {
		// through super an own attribute is only visible if the field is
		// declared at or above the super class
		if !viaSuper || (m != nil && isField(owner, name)) {
			access := ast.Public
			if m != nil {
				access = m.Access
			}
			if err := checkAccess(node, name, access, owner, inst, ctx, viaSuper); err != nil {
				return nil, err
			}
			return methodify(v, inst), nil
		}
	}

	if m == nil {
		return nil, newError(UnboundVariable, node, "%s object has no attribute %s", inst.Class.Name, name)
	}
	if err := checkAccess(node, name, m.Access, owner, inst, ctx, viaSuper); err != nil {
		return nil, err
	}
	return methodify(m.Value, inst), nil
}

func isField(class *Class, name string) bool {
	_, ok := class.Fields[name]
	return ok
}

// methodify binds a method to the receiver it was read from.
func methodify(v Object, inst *Instance) Object {
	if fn, ok := v.(*Function); ok && fn.Class != nil && inst.Class.IsSubclassOf(fn.Class) {
		return &BoundMethod{Receiver: inst, Method: fn}
	}
	return v
}

// checkAccess enforces member privacy.
//
//   - public members are always accessible;
//   - protected members need the executing method's class to be the
//     declaring class or one of its subclasses;
//   - private members need the executing method to run on this very object
//     and either be declared by the same class or reach the member through
//     super.
//
// target is nil when the member is read from the class itself.
func checkAccess(node ast.Node, name string, access ast.AccessModifier, owner *Class, target *Instance, ctx AccessContext, viaSuper bool) error {
	switch access {
	case ast.Protected:
		if ctx.Class != nil && owner != nil && ctx.Class.IsSubclassOf(owner) {
			return nil
		}
	case ast.Private:
		sameReceiver := target == nil || ctx.Receiver == target
		if ctx.Class != nil && sameReceiver && (ctx.Class == owner || viaSuper) {
			return nil
		}
	default:
		return nil
	}

	ownerName := "?"
	if owner != nil {
		ownerName = owner.Name
	}
	return newError(PrivacyViolation, node, "%s is %s to class %s", name, access, ownerName)
}

// setMember assigns obj.name := val.
func setMember(node ast.Node, obj Object, name string, val Object, ctx AccessContext) error {
	switch o := obj.(type) {
	case *Instance:
		if m, owner := o.Class.lookup(name); m != nil {
			if err := checkAccess(node, name, m.Access, owner, o, ctx, false); err != nil {
				return err
			}
		}
		o.Attributes[name] = val
		return nil

	case *SuperRef:
		if m, owner := o.Class.lookup(name); m != nil {
			if err := checkAccess(node, name, m.Access, owner, o.Receiver, ctx, true); err != nil {
				return err
			}
		}
		o.Receiver.Attributes[name] = val
		return nil

	case *Class:
		m, owner := o.lookup(name)
		if m == nil {
			o.Fields[name] = &Member{Value: val, Access: ast.Public}
			return nil
		}
		if err := checkAccess(node, name, m.Access, owner, nil, ctx, false); err != nil {
			return err
		}
		if owner == o && isField(o, name) {
			m.Value = val
			return nil
		}
		// shadow an inherited declaration or replace a method
		delete(o.Methods, name)
		o.Fields[name] = &Member{Value: val, Access: m.Access}
		return nil
	}

	return newError(TypeMismatch, node, "cannot set member %s on %s", name, obj.Kind())
}
