package eval

import (
	"oomph/pkg/ast"
	"strings"
	"testing"
)

func TestMethodsAndConstructor(t *testing.T) {
	input := `
class Point {
  x := 0
  y := 0
  def constructor(x, y): {
    this.x := x
    this.y := y
  }
  def sum(): { this.x + this.y }
}
p := Point(3, 4)
p.sum()
`
	testIntegerObject(t, mustEval(t, input), 7)
}

func TestConstruction(t *testing.T) {
	decl := "class C { def constructor(x): {this.v := x} }\n"

	testIntegerObject(t, mustEval(t, decl+"C(5).v"), 5)
	expectError(t, decl+"C()", ErrArityMismatch)
	expectError(t, decl+"C(1, 2)", ErrArityMismatch)

	testInspect(t, mustEval(t, "class D {}; D()"), "<D object>")
	expectError(t, "class D {}; D(1)", ErrArityMismatch)
}

func TestInheritance(t *testing.T) {
	input := `
class A {
  def constructor(v): { this.v := v }
  def get(): { this.v }
  def name(): { "A" }
}
class B(A) {
  def name(): { "B" }
  def parent(): { super.name() }
}
b := B(7)
test b.get() = 7
test b.name() = "B"
b.parent()
`
	testInspect(t, mustEval(t, input), "A")
}

const privacyClasses = `
class A {
  def private secret(): {1}
  def reveal(): { this.secret() }
}
class B(A) {
  def pub(): { this.secret() }
  def viaSuper(): { super.secret() }
}
`

func TestPrivateMethods(t *testing.T) {
	expectError(t, privacyClasses+"B().pub()", ErrPrivacyViolation)
	testIntegerObject(t, mustEval(t, privacyClasses+"B().viaSuper()"), 1)
	testIntegerObject(t, mustEval(t, privacyClasses+"B().reveal()"), 1)
	expectError(t, privacyClasses+"B().secret()", ErrPrivacyViolation)
	expectError(t, privacyClasses+"A().secret()", ErrPrivacyViolation)
}

func TestPrivateFields(t *testing.T) {
	decl := `
class Account {
  private balance := 0
  def deposit(n): { this.balance := this.balance + n; this.balance }
  def peek(other): { other.balance }
}
a := Account()
`
	testIntegerObject(t, mustEval(t, decl+"a.deposit(5); a.deposit(2)"), 7)
	expectError(t, decl+"a.balance", ErrPrivacyViolation)
	expectError(t, decl+"a.balance := 10", ErrPrivacyViolation)
	// private access is tied to the receiver, not just the class
	expectError(t, decl+"a.peek(Account())", ErrPrivacyViolation)
}

func TestProtectedMembers(t *testing.T) {
	decl := `
class Base { protected def helper(): { 42 } }
class Derived(Base) { def use(): { this.helper() } }
class Other { def poke(d): { d.helper() } }
`
	testIntegerObject(t, mustEval(t, decl+"Derived().use()"), 42)
	expectError(t, decl+"Derived().helper()", ErrPrivacyViolation)
	expectError(t, decl+"Other().poke(Derived())", ErrPrivacyViolation)
}

func TestClassBodyRestrictions(t *testing.T) {
	expectError(t, "class E { print 1 }", ErrStructural)
	expectError(t, "class E { x.y := 1 }", ErrStructural)
	expectError(t, "class E { { x := 1; print 2 } }", ErrStructural)
	expectError(t, "class E { while true do skip }", ErrStructural)

	// skip and nested blocks of declarations are fine
	testInspect(t, mustEval(t, "class E { skip; { x := 1; def f(): {x} } }; E().x"), "1")
}

func TestSuperclassResolution(t *testing.T) {
	expectError(t, "x := 1; class F(x) {}", ErrTypeMismatch)
	expectError(t, "class F(Nope) {}", ErrUnboundVariable)
}

func TestClassLevelMembers(t *testing.T) {
	input := `
class Config { level := 1 }
class Sub(Config) {}
Config.level := 5
Sub().level
`
	testIntegerObject(t, mustEval(t, input), 5)

	unbound := `
class G { def hi(): { "hi" } }
f := G.hi
`
	testInspect(t, mustEval(t, unbound+"f(G())"), "hi")
	expectError(t, unbound+"f()", ErrArityMismatch)
	expectError(t, unbound+"f(1)", ErrTypeMismatch)
}

func TestClassInspect(t *testing.T) {
	decl := "class G { def hi(): {1} }\n"
	testInspect(t, mustEval(t, decl+"G().hi"), "<method G.hi>")
	testInspect(t, mustEval(t, decl+"G"), "<class G>")
	testInspect(t, mustEval(t, decl+"G.hi"), "<method G.hi>")
}

func TestMissingAttribute(t *testing.T) {
	expectError(t, "class H {}; H().nope", ErrUnboundVariable)
	expectError(t, "class H {}; H.nope", ErrUnboundVariable)
	expectError(t, "x := 1; x.y", ErrTypeMismatch)
	expectError(t, "x := 1; x.y := 2", ErrTypeMismatch)
}

func TestInstanceState(t *testing.T) {
	input := `
class Counter {
  count := 0
  def inc(): { this.count := this.count + 1 }
}
c := Counter()
d := Counter()
c.inc(); c.inc(); d.inc()
test d.count = 1
c.count
`
	testIntegerObject(t, mustEval(t, input), 2)
}

func TestClassNameVisibleInMethods(t *testing.T) {
	input := `
class Node {
  def make(): { Node() }
}
Node().make()
`
	testInspect(t, mustEval(t, input), "<Node object>")
}

func TestSuperFieldAccess(t *testing.T) {
	input := `
class A {
  protected size := 1
  def constructor(n): { this.size := n }
}
class B(A) {
  def size2(): { super.size * 2 }
}
B(21).size2()
`
	testIntegerObject(t, mustEval(t, input), 42)
}

func TestMethodEnvironmentIsolation(t *testing.T) {
	// fields are not visible as free variables inside methods
	input := `
class K {
  hidden := 1
  def read(): { hidden }
}
K().read()
`
	expectError(t, input, ErrUnboundVariable)
}

func TestMemberModifiers(t *testing.T) {
	obj := mustEval(t, "class C { private x := 1; y := 2; def private m(): { 1 }; protected def n(): { 2 } }; C")
	class, ok := obj.(*Class)
	if !ok {
		t.Fatalf("expected Class, got=%T", obj)
	}

	tests := []struct {
		member   *Member
		expected ast.AccessModifier
	}{
		{class.Fields["x"], ast.Private},
		{class.Fields["y"], ast.Public},
		{class.Methods["m"], ast.Private},
		{class.Methods["n"], ast.Protected},
	}
	for i, tt := range tests {
		if tt.member == nil {
			t.Fatalf("tests[%d]: member missing", i)
		}
		if tt.member.Access != tt.expected {
			t.Errorf("tests[%d]: access wrong. expected=%s, got=%s", i, tt.expected, tt.member.Access)
		}
	}
	testIntegerObject(t, class.Fields["y"].Value, 2)

	names := class.MemberNames()
	if strings.Join(names, ",") != "m,n,x,y" {
		t.Errorf("member names wrong. got=%v", names)
	}
}

func TestClassBodySeesDeclaringScope(t *testing.T) {
	// field initialisers read the scope the class is declared in
	testIntegerObject(t, mustEval(t, "y := 7; class C { x := y }; C().x"), 7)
	testIntegerObject(t, mustEval(t, "class C { a := 2; b := a * 3 }; C().b"), 6)
	expectError(t, "class C { x := y }", ErrUnboundVariable)
}
