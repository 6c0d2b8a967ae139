package eval

import (
	"log/slog"
	"oomph/pkg/ast"
	"oomph/pkg/token"
)

// evalClassDecl builds a class from its body. The body may only declare
// fields, methods and skip.
func (it *Interpreter) evalClassDecl(node *ast.ClassDecl, env *Environment) (Object, *Environment, error) {
	var super *Class
	if node.Superclass != nil {
		v, err := env.Lookup(node.Superclass.Value)
		if err != nil {
			return nil, env, at(err, node.Superclass)
		}
		sc, ok := v.(*Class)
		if !ok {
			return nil, env, newError(TypeMismatch, node.Superclass,
				"superclass %s is not a class: %s", node.Superclass.Value, v.Kind())
		}
		super = sc
	}

	decls, err := classMembers(node)
	if err != nil {
		return nil, env, err
	}

	class := &Class{
		Name:    node.Name.Value,
		Super:   super,
		Fields:  make(map[string]*Member),
		Methods: make(map[string]*Member),
	}

	if err := it.destructBody(class, decls, env); err != nil {
		return nil, env, err
	}

	env.Set(class.Name, class)

	it.logger.Debug("Class declared",
		slog.String("name", class.Name),
		slog.Any("members", class.MemberNames()))

	return class, env, nil
}

// classMembers flattens a class body and rejects anything that is not a
// declaration.
func classMembers(node *ast.ClassDecl) ([]ast.Node, error) {
	decls := ast.Flatten(node.Body)
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.Skip, *ast.FunctionDecl:
		case *ast.Assign:
			if _, ok := d.Target.(*ast.Identifier); !ok {
				return nil, newError(StructuralError, d,
					"class %s may only declare plain variables, got %s", node.Name.Value, d.Target.String())
			}
		default:
			return nil, newError(StructuralError, d,
				"class %s body may only contain declarations, got %s", node.Name.Value, d.String())
		}
	}
	return decls, nil
}

// destructBody partitions declarations into fields and methods. Field values
// are evaluated in order in a scratch copy of env; methods capture a separate
// copy in which the class name is bound. Each declaration is bound with its
// modifier and the member is read back from that binding.
func (it *Interpreter) destructBody(class *Class, decls []ast.Node, env *Environment) error {
	scratch := env.Snapshot()
	methodEnv := env.Snapshot()
	declared := NewEnvironment()

	for _, d := range decls {
		switch d := d.(type) {
		case *ast.Assign:
			name := d.Target.(*ast.Identifier).Value
			val, newScratch, err := it.eval(d.Value, scratch)
			if err != nil {
				return err
			}
			scratch = newScratch
			scratch.SetWithAccess(name, val, normalizeAccess(d.Access))
			delete(class.Methods, name)
			class.Fields[name] = memberOf(scratch, name)

		case *ast.FunctionDecl:
			name := d.Name.Value
			fn := &Function{
				Name:       name,
				Parameters: withReceiver(d),
				Body:       d.Body,
				Env:        methodEnv,
				Class:      class,
			}
			declared.SetWithAccess(name, fn, normalizeAccess(d.Access))
			delete(class.Fields, name)
			class.Methods[name] = memberOf(declared, name)
		}
	}

	methodEnv.Set(class.Name, class)
	return nil
}

func memberOf(env *Environment, name string) *Member {
	val, _ := env.Get(name)
	return &Member{Value: val, Access: env.AccessOf(name)}
}

func normalizeAccess(a ast.AccessModifier) ast.AccessModifier {
	if a == ast.AccessNone {
		return ast.Public
	}
	return a
}

// withReceiver prepends the implicit "this" parameter.
func withReceiver(d *ast.FunctionDecl) []*ast.Identifier {
	this := &ast.Identifier{
		Token: token.Token{Type: token.IDENT, Literal: "this", Line: d.Token.Line, Column: d.Token.Column},
		Value: "this",
	}
	return append([]*ast.Identifier{this}, d.Parameters...)
}
