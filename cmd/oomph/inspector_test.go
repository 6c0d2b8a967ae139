package main

import (
	"oomph/pkg/ast"
	"oomph/pkg/eval"
	"testing"
)

func TestAnalyzeProgram(t *testing.T) {
	program, err := eval.Parse(`
class Base {
  private count := 0
  protected def bump(n): { this.count := this.count + n }
}
class Child(Base) {
  def run(): { this.bump(1) }
}
def helper(a, b): {
  def inner(): { a }
  inner()
}
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	insights := analyzeProgram(program)
	if len(insights.Classes) != 2 {
		t.Fatalf("expected 2 classes, got=%d", len(insights.Classes))
	}

	base := insights.Classes[0]
	if base.Name != "Base" || base.Superclass != "" || len(base.Members) != 2 {
		t.Fatalf("Base wrong: %+v", base)
	}
	if got := describeMember(base.Members[0]); got != "private count" {
		t.Errorf("field wrong. expected=%q, got=%q", "private count", got)
	}
	if got := describeMember(base.Members[1]); got != "protected def bump(n)" {
		t.Errorf("method wrong. expected=%q, got=%q", "protected def bump(n)", got)
	}
	if insights.Classes[1].Superclass != "Base" {
		t.Errorf("superclass wrong. got=%q", insights.Classes[1].Superclass)
	}

	// methods are not reported as functions; nested functions are
	if len(insights.Functions) != 2 {
		t.Fatalf("expected 2 functions, got=%+v", insights.Functions)
	}
	if insights.Functions[0].Name != "helper" || insights.Functions[1].Name != "inner" {
		t.Errorf("functions wrong: %+v", insights.Functions)
	}
	if insights.Classes[1].Members[0].Access != ast.AccessNone {
		t.Errorf("unmarked member should have no modifier")
	}
}
