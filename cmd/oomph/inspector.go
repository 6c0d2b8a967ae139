package main

import (
	"fmt"
	"oomph/pkg/ast"
	"strings"
)

type ProgramInsights struct {
	Classes   []ClassInfo
	Functions []FunctionInfo
}

type ClassInfo struct {
	Name       string
	Superclass string
	Members    []MemberInfo
}

type MemberInfo struct {
	Name   string
	Access ast.AccessModifier
	// Parameters is nil for fields.
	Parameters []string
	IsMethod   bool
}

type FunctionInfo struct {
	Name       string
	Parameters []string
}

func analyzeProgram(program *ast.Program) ProgramInsights {
	insights := ProgramInsights{}
	walk(program, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.ClassDecl:
			insights.Classes = append(insights.Classes, describeClass(n))
			// members are reported with their class
			return false
		case *ast.FunctionDecl:
			insights.Functions = append(insights.Functions, FunctionInfo{
				Name:       n.Name.Value,
				Parameters: parameterNames(n.Parameters),
			})
		}
		return true
	})
	return insights
}

func describeClass(decl *ast.ClassDecl) ClassInfo {
	info := ClassInfo{Name: decl.Name.Value}
	if decl.Superclass != nil {
		info.Superclass = decl.Superclass.Value
	}
	walk(decl.Body, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.FunctionDecl:
			info.Members = append(info.Members, MemberInfo{
				Name:       n.Name.Value,
				Access:     n.Access,
				Parameters: parameterNames(n.Parameters),
				IsMethod:   true,
			})
			return false
		case *ast.Assign:
			if id, ok := n.Target.(*ast.Identifier); ok {
				info.Members = append(info.Members, MemberInfo{Name: id.Value, Access: n.Access})
			}
			return false
		}
		return true
	})
	return info
}

func parameterNames(params []*ast.Identifier) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Value)
	}
	return names
}

// walk visits node and, while visitor returns true, its children.
func walk(node ast.Node, visitor func(ast.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	switch n := node.(type) {
	case *ast.Program:
		walk(n.Body, visitor)
	case *ast.Sequence:
		walk(n.First, visitor)
		walk(n.Second, visitor)
	case *ast.Block:
		walk(n.Body, visitor)
	case *ast.FunctionDecl:
		walk(n.Body, visitor)
	case *ast.FunctionLiteral:
		walk(n.Body, visitor)
	case *ast.ClassDecl:
		walk(n.Body, visitor)
	case *ast.Assign:
		walk(n.Value, visitor)
	case *ast.PrefixExpression:
		walk(n.Right, visitor)
	case *ast.InfixExpression:
		walk(n.Left, visitor)
		walk(n.Right, visitor)
	case *ast.LogicalExpression:
		walk(n.Left, visitor)
		walk(n.Right, visitor)
	case *ast.Call:
		walk(n.Function, visitor)
		for _, arg := range n.Arguments {
			walk(arg, visitor)
		}
	case *ast.If:
		walk(n.Guard, visitor)
		walk(n.Then, visitor)
		walk(n.Else, visitor)
	case *ast.While:
		walk(n.Guard, visitor)
		walk(n.Body, visitor)
	case *ast.Print:
		walk(n.Value, visitor)
	case *ast.Test:
		walk(n.Condition, visitor)
	}
}

func describeMember(m MemberInfo) string {
	prefix := ""
	if m.Access != ast.AccessNone {
		prefix = m.Access.String() + " "
	}
	if m.IsMethod {
		return fmt.Sprintf("%sdef %s(%s)", prefix, m.Name, strings.Join(m.Parameters, ", "))
	}
	return prefix + m.Name
}
