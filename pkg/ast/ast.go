package ast

import (
	"bytes"
	"oomph/pkg/token"
	"strconv"
	"strings"
)

// Node is a single syntax form. Every construct of the language is an
// expression: it evaluates to a value.
type Node interface {
	TokenLiteral() string
	String() string
	exprNode()
}

// AccessModifier decorates a declaration inside a class body.
type AccessModifier uint8

const (
	AccessNone AccessModifier = iota
	Public
	Private
	Protected
)

func (a AccessModifier) String() string {
	switch a {
	case Public:
		return "public"
	case Private:
		return "private"
	case Protected:
		return "protected"
	default:
		return ""
	}
}

// ModifierFromToken maps a modifier keyword to its AccessModifier.
func ModifierFromToken(t token.TokenType) AccessModifier {
	switch t {
	case token.PUBLIC:
		return Public
	case token.PRIVATE:
		return Private
	case token.PROTECTED:
		return Protected
	default:
		return AccessNone
	}
}

func withModifier(a AccessModifier, s string) string {
	if a == AccessNone {
		return s
	}
	return a.String() + " " + s
}

type Program struct {
	Body Node
}

func (p *Program) exprNode() {}
func (p *Program) TokenLiteral() string {
	if p.Body != nil {
		return p.Body.TokenLiteral()
	}
	return ""
}
func (p *Program) String() string {
	if p.Body == nil {
		return ""
	}
	return p.Body.String()
}

// Literals

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) exprNode()            {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return strconv.FormatInt(il.Value, 10) }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) exprNode()            {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return strconv.FormatBool(b.Value) }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) exprNode()            {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return strconv.Quote(sl.Value) }

type NoneLiteral struct {
	Token token.Token
}

func (n *NoneLiteral) exprNode()            {}
func (n *NoneLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NoneLiteral) String() string       { return "none" }

// InputLiteral reads one integer from the interpreter's input source.
type InputLiteral struct {
	Token token.Token
}

func (i *InputLiteral) exprNode()            {}
func (i *InputLiteral) TokenLiteral() string { return i.Token.Literal }
func (i *InputLiteral) String() string       { return "input" }

type ListLiteral struct {
	Token    token.Token // the '[' token
	Elements []Node
}

func (ll *ListLiteral) exprNode()            {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) String() string {
	return "[" + joinNodes(ll.Elements) + "]"
}

type TupleLiteral struct {
	Token    token.Token // the '(' token
	Elements []Node
}

func (tl *TupleLiteral) exprNode()            {}
func (tl *TupleLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TupleLiteral) String() string {
	if len(tl.Elements) == 1 {
		return "(" + tl.Elements[0].String() + ",)"
	}
	return "(" + joinNodes(tl.Elements) + ")"
}

type DictPair struct {
	Key   Node
	Value Node
}

type DictLiteral struct {
	Token token.Token // the '{' token
	Pairs []DictPair
}

func (dl *DictLiteral) exprNode()            {}
func (dl *DictLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DictLiteral) String() string {
	pairs := make([]string, 0, len(dl.Pairs))
	for _, p := range dl.Pairs {
		pairs = append(pairs, p.Key.String()+": "+p.Value.String())
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// References and operators

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) exprNode()            {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. - or not
	Operator string
	Right    Node
}

func (pe *PrefixExpression) exprNode()            {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	if pe.Operator == "not" {
		return "(not " + pe.Right.String() + ")"
	}
	return "(" + pe.Operator + pe.Right.String() + ")"
}

type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Node
	Operator string
	Right    Node
}

func (ie *InfixExpression) exprNode()            {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// LogicalExpression is a short-circuiting `and` / `or`.
type LogicalExpression struct {
	Token    token.Token
	Left     Node
	Operator string
	Right    Node
}

func (le *LogicalExpression) exprNode()            {}
func (le *LogicalExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LogicalExpression) String() string {
	return "(" + le.Left.String() + " " + le.Operator + " " + le.Right.String() + ")"
}

type MemberAccess struct {
	Token  token.Token // the '.' token
	Object Node
	Member *Identifier
}

func (ma *MemberAccess) exprNode()            {}
func (ma *MemberAccess) TokenLiteral() string { return ma.Token.Literal }
func (ma *MemberAccess) String() string {
	return ma.Object.String() + "." + ma.Member.String()
}

type Index struct {
	Token token.Token // the '[' token
	Left  Node
	Index Node
}

func (ie *Index) exprNode()            {}
func (ie *Index) TokenLiteral() string { return ie.Token.Literal }
func (ie *Index) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}

// Slice addresses the half-open range Left[Low:High]; either bound may be nil.
type Slice struct {
	Token token.Token // the '[' token
	Left  Node
	Low   Node
	High  Node
}

func (s *Slice) exprNode()            {}
func (s *Slice) TokenLiteral() string { return s.Token.Literal }
func (s *Slice) String() string {
	var out bytes.Buffer
	out.WriteString(s.Left.String())
	out.WriteString("[")
	if s.Low != nil {
		out.WriteString(s.Low.String())
	}
	out.WriteString(":")
	if s.High != nil {
		out.WriteString(s.High.String())
	}
	out.WriteString("]")
	return out.String()
}

// Commands

// Assign binds Value to Target. Target is an Identifier, MemberAccess, Index
// or Slice.
type Assign struct {
	Token  token.Token // the ':=' token
	Target Node
	Value  Node
	Access AccessModifier
}

func (a *Assign) exprNode()            {}
func (a *Assign) TokenLiteral() string { return a.Token.Literal }
func (a *Assign) String() string {
	return withModifier(a.Access, a.Target.String()+" := "+a.Value.String())
}

type Sequence struct {
	Token  token.Token // the separator token
	First  Node
	Second Node
}

func (s *Sequence) exprNode()            {}
func (s *Sequence) TokenLiteral() string { return s.Token.Literal }
func (s *Sequence) String() string {
	return s.First.String() + "; " + s.Second.String()
}

type If struct {
	Token token.Token // the 'if' token
	Guard Node
	Then  Node
	Else  Node // nil when there is no else branch
}

func (i *If) exprNode()            {}
func (i *If) TokenLiteral() string { return i.Token.Literal }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(i.Guard.String())
	out.WriteString(" then ")
	out.WriteString(i.Then.String())
	if i.Else != nil {
		out.WriteString(" else ")
		out.WriteString(i.Else.String())
	}
	return out.String()
}

type While struct {
	Token token.Token // the 'while' token
	Guard Node
	Body  Node
}

func (w *While) exprNode()            {}
func (w *While) TokenLiteral() string { return w.Token.Literal }
func (w *While) String() string {
	return "while " + w.Guard.String() + " do " + w.Body.String()
}

// Block is a braced group. It does not open a scope.
type Block struct {
	Token token.Token // the '{' token
	Body  Node
}

func (b *Block) exprNode()            {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) String() string       { return "{" + b.Body.String() + "}" }

type FunctionDecl struct {
	Token      token.Token // the 'def' token
	Name       *Identifier
	Parameters []*Identifier
	Body       Node
	Access     AccessModifier
}

func (fd *FunctionDecl) exprNode()            {}
func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDecl) String() string {
	var out bytes.Buffer
	out.WriteString("def ")
	out.WriteString(fd.Name.String())
	out.WriteString("(")
	out.WriteString(joinIdentifiers(fd.Parameters))
	out.WriteString("): ")
	out.WriteString(fd.Body.String())
	return withModifier(fd.Access, out.String())
}

// FunctionLiteral is an anonymous function: fun (x, y) -> body.
type FunctionLiteral struct {
	Token      token.Token // the 'fun' token
	Parameters []*Identifier
	Body       Node
}

func (fl *FunctionLiteral) exprNode()            {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) String() string {
	return "fun (" + joinIdentifiers(fl.Parameters) + ") -> " + fl.Body.String()
}

type Call struct {
	Token     token.Token // the '(' token
	Function  Node
	Arguments []Node
}

func (c *Call) exprNode()            {}
func (c *Call) TokenLiteral() string { return c.Token.Literal }
func (c *Call) String() string {
	return c.Function.String() + "(" + joinNodes(c.Arguments) + ")"
}

type ClassDecl struct {
	Token      token.Token // the 'class' token
	Name       *Identifier
	Superclass *Identifier // nil for a root class
	Body       Node
}

func (cd *ClassDecl) exprNode()            {}
func (cd *ClassDecl) TokenLiteral() string { return cd.Token.Literal }
func (cd *ClassDecl) String() string {
	var out bytes.Buffer
	out.WriteString("class ")
	out.WriteString(cd.Name.String())
	if cd.Superclass != nil {
		out.WriteString("(")
		out.WriteString(cd.Superclass.String())
		out.WriteString(")")
	}
	out.WriteString(" ")
	out.WriteString(cd.Body.String())
	return out.String()
}

type Print struct {
	Token token.Token
	Value Node
}

func (p *Print) exprNode()            {}
func (p *Print) TokenLiteral() string { return p.Token.Literal }
func (p *Print) String() string       { return "print " + p.Value.String() }

// Test asserts that Condition evaluates to true.
type Test struct {
	Token     token.Token
	Condition Node
}

func (t *Test) exprNode()            {}
func (t *Test) TokenLiteral() string { return t.Token.Literal }
func (t *Test) String() string       { return "test " + t.Condition.String() }

type Skip struct {
	Token token.Token
}

func (s *Skip) exprNode()            {}
func (s *Skip) TokenLiteral() string { return s.Token.Literal }
func (s *Skip) String() string       { return "skip" }

type Break struct {
	Token token.Token
}

func (b *Break) exprNode()            {}
func (b *Break) TokenLiteral() string { return b.Token.Literal }
func (b *Break) String() string       { return "break" }

type Continue struct {
	Token token.Token
}

func (c *Continue) exprNode()            {}
func (c *Continue) TokenLiteral() string { return c.Token.Literal }
func (c *Continue) String() string       { return "continue" }

func joinNodes(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, ", ")
}

func joinIdentifiers(idents []*Identifier) string {
	parts := make([]string, 0, len(idents))
	for _, id := range idents {
		parts = append(parts, id.Value)
	}
	return strings.Join(parts, ", ")
}

// Flatten returns the statements of a right- or left-nested Sequence in
// source order.
func Flatten(node Node) []Node {
	switch n := node.(type) {
	case nil:
		return nil
	case *Sequence:
		return append(Flatten(n.First), Flatten(n.Second)...)
	case *Block:
		return Flatten(n.Body)
	default:
		return []Node{n}
	}
}
