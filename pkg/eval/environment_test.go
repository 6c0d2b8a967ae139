package eval

import (
	"errors"
	"oomph/pkg/ast"
	"reflect"
	"testing"
)

func TestEnvironmentSnapshot(t *testing.T) {
	env := NewEnvironment()
	env.Set("x", NewInteger(1))

	snap := env.Snapshot()
	env.Set("x", NewInteger(2))
	env.Set("y", NewInteger(3))

	v, ok := snap.Get("x")
	if !ok || v.(*Integer).Value != 1 {
		t.Fatalf("snapshot should keep x=1, got=%v", v)
	}
	if _, ok := snap.Get("y"); ok {
		t.Fatalf("snapshot should not see later bindings")
	}
}

func TestEnvironmentMerge(t *testing.T) {
	captured := NewEnvironment()
	captured.Set("a", NewInteger(1))
	captured.Set("b", NewInteger(2))

	params := NewEnvironment()
	params.Set("b", NewInteger(20))

	frame := captured.Merge(params)
	if v, _ := frame.Get("a"); v.(*Integer).Value != 1 {
		t.Fatalf("a should come from the captured env")
	}
	if v, _ := frame.Get("b"); v.(*Integer).Value != 20 {
		t.Fatalf("b should come from the overlay")
	}

	frame.Set("c", TRUE)
	if _, ok := captured.Get("c"); ok {
		t.Fatalf("frame bindings leaked into the captured env")
	}
}

func TestEnvironmentLookup(t *testing.T) {
	env := NewEnvironment()
	_, err := env.Lookup("missing")
	if !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("expected UnboundVariable, got %v", err)
	}
}

func TestEnvironmentAccess(t *testing.T) {
	env := NewEnvironment()
	env.SetWithAccess("secret", NewInteger(1), ast.Private)
	env.Set("secret", NewInteger(2))
	if env.AccessOf("secret") != ast.Private {
		t.Fatalf("Set should keep the modifier, got=%s", env.AccessOf("secret"))
	}
	if env.AccessOf("other") != ast.AccessNone {
		t.Fatalf("unbound names have no modifier")
	}
}

func TestEnvironmentNames(t *testing.T) {
	env := NewEnvironment()
	env.Set("zeta", NONE)
	env.Set("alpha", NONE)
	env.Set("mid", NONE)

	expected := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(env.Names(), expected) {
		t.Fatalf("names wrong. expected=%v, got=%v", expected, env.Names())
	}
}
