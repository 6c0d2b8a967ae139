package eval

import (
	"bytes"
	"errors"
	"testing"
)

func TestFunctionApplication(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"def add(x, y): { x + y }; add(1, 2)", 3},
		{"f := fun (x) -> x * 2; f(21)", 42},
		{"(fun (x) -> x + 1)(1)", 2},
		{"def fact(n): { if n = 0 then 1 else n * fact(n - 1) }; fact(10)", 3628800},
		{"def compose(f, g): { fun (x) -> f(g(x)) }; inc := fun (x) -> x + 1; dbl := fun (x) -> x * 2; compose(inc, dbl)(5)", 11},
		{"def one(): 1; one()", 1},
	}

	for _, tt := range tests {
		testIntegerObject(t, mustEval(t, tt.input), tt.expected)
	}
}

func TestLexicalCapture(t *testing.T) {
	testIntegerObject(t, mustEval(t, "x := 1; def f(): { x }; x := 2; f()"), 1)
	testIntegerObject(t, mustEval(t, "x := 1; f := fun () -> x; x := 2; f()"), 1)
	// assignments inside a body stay in the call frame
	testIntegerObject(t, mustEval(t, "x := 1; def f(): { x := 2; x }; f(); x"), 1)
	// values are shared, so mutation of a captured list is visible
	testInspect(t, mustEval(t, "l := [1]; def f(): { l[0] := 2 }; f(); l"), "[2]")
	// functions declared later are not visible to earlier ones
	expectError(t, "def f(): { g() }; def g(): { 1 }; f()", ErrUnboundVariable)
}

func TestArity(t *testing.T) {
	expectError(t, "def f(a, b): { a }; f(1)", ErrArityMismatch)
	expectError(t, "def f(a, b): { a }; f(1, 2, 3)", ErrArityMismatch)
	expectError(t, "f := fun () -> 1; f(1)", ErrArityMismatch)
	// arity is checked before any argument is evaluated
	expectError(t, "def f(a): { a }; f(1, input)", ErrArityMismatch)
}

func TestFunctionInspect(t *testing.T) {
	testInspect(t, mustEval(t, "def add(x, y): { x + y }; add"), "<function add/2>")
	testInspect(t, mustEval(t, "fun (x) -> x"), "<function anonymous/1>")
	if mustEval(t, "def f(): {}; f()") != NONE {
		t.Fatalf("an empty body should evaluate to none")
	}
}

func TestRecursionLimit(t *testing.T) {
	_, _, err := testEval(t, "def loop(n): { loop(n + 1) }; loop(0)", WithMaxCallDepth(50))
	if !errors.Is(err, ErrRecursionLimit) {
		t.Fatalf("expected RecursionLimit, got %v", err)
	}

	obj, _, err := testEval(t, "def down(n): { if n = 0 then 0 else down(n - 1) }; down(500)", WithMaxCallDepth(1000))
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	testIntegerObject(t, obj, 0)
}

func TestDefaultCallDepth(t *testing.T) {
	obj, _, err := testEval(t, "def down(n): { if n = 0 then 0 else down(n - 1) }; down(20000)")
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	testIntegerObject(t, obj, 0)
}

func TestCallDepthResetsBetweenEvaluations(t *testing.T) {
	it := New(WithOutput(&bytes.Buffer{}), WithMaxCallDepth(10))
	_, env, err := it.EvalSource("def deep(n): { if n = 0 then 0 else deep(n - 1) }", nil)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if _, _, err := it.EvalSource("deep(100)", env); !errors.Is(err, ErrRecursionLimit) {
		t.Fatalf("expected RecursionLimit, got %v", err)
	}
	obj, _, err := it.EvalSource("deep(5)", env)
	if err != nil {
		t.Fatalf("eval after a limit failure should start from depth 0: %v", err)
	}
	testIntegerObject(t, obj, 0)
}
