package eval

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestObjectsEqual(t *testing.T) {
	inst := &Instance{Class: &Class{Name: "A"}, Attributes: map[string]Object{}}
	other := &Instance{Class: inst.Class, Attributes: map[string]Object{}}

	tests := []struct {
		a, b     Object
		expected bool
	}{
		{NewInteger(1000), NewInteger(1000), true},
		{&String{Value: "x"}, &String{Value: "x"}, true},
		{&List{Elements: []Object{NewInteger(1)}}, &List{Elements: []Object{NewInteger(1)}}, true},
		{&Tuple{Elements: []Object{TRUE}}, &Tuple{Elements: []Object{FALSE}}, false},
		{inst, inst, true},
		{inst, other, false},
		{&BoundMethod{Receiver: inst, Method: &Function{}}, &BoundMethod{Receiver: other, Method: &Function{}}, false},
		{NewInteger(1), TRUE, false},
	}

	for i, tt := range tests {
		if got := objectsEqual(tt.a, tt.b); got != tt.expected {
			t.Errorf("tests[%d] - expected=%t, got=%t", i, tt.expected, got)
		}
	}
}

func TestHashKey(t *testing.T) {
	hashable := []Object{
		NewInteger(1),
		TRUE,
		&String{Value: "a,b"},
		&Tuple{Elements: []Object{NewInteger(1), &Tuple{Elements: []Object{&String{Value: "x"}}}}},
	}
	for _, o := range hashable {
		if _, ok := hashKey(o); !ok {
			t.Errorf("%s should be hashable", o.Inspect())
		}
	}

	unhashable := []Object{
		&List{},
		NewDictionary(),
		NONE,
		&Tuple{Elements: []Object{&List{}}},
	}
	for _, o := range unhashable {
		if _, ok := hashKey(o); ok {
			t.Errorf("%s should not be hashable", o.Inspect())
		}
	}

	k1, _ := hashKey(NewInteger(1))
	k2, _ := hashKey(&String{Value: "1"})
	if k1 == k2 {
		t.Fatalf("integer and string keys must differ")
	}
}

func TestNativeConversion(t *testing.T) {
	obj := mustEval(t, `{"n": 1, "l": [true, none, "s"], "t": (1, 2)}`)
	data, err := json.Marshal(ToNative(obj))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	expected := `{"l":[true,null,"s"],"n":1,"t":[1,2]}`
	if string(data) != expected {
		t.Fatalf("json wrong. expected=%s, got=%s", expected, data)
	}

	mixed, err := json.Marshal(ToNative(mustEval(t, `{1: "a", "1": "b", (1, 2): none}`)))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	expected = `[[1,"a"],["1","b"],[[1,2],null]]`
	if string(mixed) != expected {
		t.Fatalf("json wrong. expected=%s, got=%s", expected, mixed)
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(`{"xs": [1, 2], "ok": true}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	back, err := FromNative(decoded)
	if err != nil {
		t.Fatalf("FromNative failed: %v", err)
	}
	dict, ok := back.(*Dictionary)
	if !ok {
		t.Fatalf("expected Dictionary, got=%T", back)
	}
	xs, _ := dict.Get(&String{Value: "xs"})
	testInspect(t, xs, "[1, 2]")

	if _, err := FromNative(1.5); err == nil {
		t.Fatalf("expected error for a fractional number")
	}
	if _, err := FromNative(struct{ X int }{1}); err == nil || !strings.Contains(err.Error(), "struct") {
		t.Fatalf("expected an unsupported type error, got %v", err)
	}
}
