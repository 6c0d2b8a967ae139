package eval

import (
	"testing"
	"unicode/utf8"
)

func TestIndexing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[1, 2, 3][0]", "1"},
		{"[1, 2, 3][-1]", "3"},
		{`"hello"[1]`, "e"},
		{`"hello"[-5]`, "h"},
		{"(1, 2, 3)[2]", "3"},
		{`{"a": 1}["a"]`, "1"},
		{`d := {(1, 2): "x"}; d[(1, 2)]`, "x"},
		{`{1: "a", true: "b"}[true]`, "b"},
	}

	for _, tt := range tests {
		testInspect(t, mustEval(t, tt.input), tt.expected)
	}
}

func TestIndexErrors(t *testing.T) {
	expectError(t, "[1][5]", ErrIndexOutOfRange)
	expectError(t, "[1][-2]", ErrIndexOutOfRange)
	expectError(t, `""[0]`, ErrIndexOutOfRange)
	expectError(t, `{"a": 1}["b"]`, ErrKeyNotFound)
	expectError(t, "{[1]: 2}", ErrTypeMismatch)
	expectError(t, `{"a": 1}[[1]]`, ErrTypeMismatch)
	expectError(t, "[1][true]", ErrTypeMismatch)
	expectError(t, "5[0]", ErrTypeMismatch)
	expectError(t, "5[0:1]", ErrTypeMismatch)
	expectError(t, `[1, 2]["a":]`, ErrTypeMismatch)
}

func TestSlicing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"[1:3]`, "el"},
		{`"hello"[:-1]`, "hell"},
		{"(1, 2, 3)[1:]", "(2, 3)"},
		{"(1, 2, 3)[:1]", "(1,)"},
		{"[1, 2, 3][:]", "[1, 2, 3]"},
		{"[1, 2, 3][-10:10]", "[1, 2, 3]"},
		{"[1, 2, 3][2:1]", "[]"},
		{"[1, 2, 3][-2:]", "[2, 3]"},
	}

	for _, tt := range tests {
		testInspect(t, mustEval(t, tt.input), tt.expected)
	}
}

func TestMultiByteStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"héllo"[1]`, "é"},
		{`"héllo"[-4]`, "é"},
		{`"日本"[0]`, "日"},
		{`"héllo"[0:2]`, "hé"},
		{`"héllo"[2:]`, "llo"},
		{`"日本語"[-2:]`, "本語"},
	}

	for _, tt := range tests {
		obj := mustEval(t, tt.input)
		if !utf8.ValidString(obj.Inspect()) {
			t.Errorf("%s: invalid UTF-8 %q", tt.input, obj.Inspect())
		}
		testInspect(t, obj, tt.expected)
	}

	expectError(t, `"日本"[2]`, ErrIndexOutOfRange)
}

func TestListMutation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"l := [1, 2, 3]; l[0] := 9; l", "[9, 2, 3]"},
		{"l := [1, 2, 3]; l[-1] := 0; l", "[1, 2, 0]"},
		{"a := [1]; b := a; b[0] := 5; a[0]", "5"},
		{"l := [1, 2, 3, 4]; l[1:3] := (7, 8, 9); l", "[1, 7, 8, 9, 4]"},
		{"l := [1, 2]; l[:] := []; l", "[]"},
		{"l := [1, 2]; l[1:1] := [5]; l", "[1, 5, 2]"},
		{"l := [1, 2]; l[0:1] := l; l", "[1, 2, 2]"},
		{"a := [1, 2]; b := a; a[:] := [3]; b", "[3]"},
	}

	for _, tt := range tests {
		testInspect(t, mustEval(t, tt.input), tt.expected)
	}
}

func TestSliceCopiesAtTimeTaken(t *testing.T) {
	input := `
lst := [1, 2, 3]
s := lst[0:2]
lst[1] := 9
test lst[1] = 9
test lst[0:2] = [1, 9]
s
`
	testInspect(t, mustEval(t, input), "[1, 2]")
}

func TestImmutableSequences(t *testing.T) {
	expectError(t, `s := "abc"; s[0] := "x"`, ErrTypeMismatch)
	expectError(t, "t := (1, 2); t[0] := 3", ErrTypeMismatch)
	expectError(t, "t := (1, 2); t[0:1] := [3]", ErrTypeMismatch)
	expectError(t, "l := [1]; l[0:1] := 3", ErrTypeMismatch)
	expectError(t, "l := [1]; l[3] := 3", ErrIndexOutOfRange)
}

func TestDictionaries(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`d := {"a": 1, "b": 2}; d["a"] := 3; d["c"] := 4; d`, `{"a": 3, "b": 2, "c": 4}`},
		{`{"a": 1, "b": 2, "a": 3}`, `{"a": 3, "b": 2}`},
		{"{}", "{}"},
		{`d := {}; e := d; e[(1,)] := [1]; d`, `{(1,): [1]}`},
		{`["a", ("b",), {"k": "v"}]`, `["a", ("b",), {"k": "v"}]`},
	}

	for _, tt := range tests {
		testInspect(t, mustEval(t, tt.input), tt.expected)
	}
}

func TestDictLiteralEvaluationOrder(t *testing.T) {
	it := New(WithInput(NewQueueInput(1, 2, 3, 4)))
	obj, _, err := it.EvalSource("{input: input, input: input}", nil)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	testInspect(t, obj, "{1: 2, 3: 4}")
}

func TestDictionaryType(t *testing.T) {
	d := NewDictionary()
	if !d.Set(&String{Value: "k"}, NewInteger(1)) {
		t.Fatalf("string keys should be hashable")
	}
	if d.Set(&List{}, NewInteger(1)) {
		t.Fatalf("list keys should not be hashable")
	}
	d.Set(NewInteger(1), TRUE)
	d.Set(&String{Value: "k"}, NewInteger(2))

	entries := d.Entries()
	if len(entries) != 2 || d.Len() != 2 {
		t.Fatalf("expected 2 entries, got=%d", len(entries))
	}
	if entries[0].Key.Inspect() != "k" || entries[0].Value.Inspect() != "2" {
		t.Fatalf("first entry wrong. got=%s: %s", entries[0].Key.Inspect(), entries[0].Value.Inspect())
	}
	if _, ok := d.Get(&String{Value: "missing"}); ok {
		t.Fatalf("unexpected hit for missing key")
	}
}
