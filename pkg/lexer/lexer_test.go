package lexer

import (
	"oomph/pkg/token"
	"testing"
)

type expectedToken struct {
	expectedType    token.TokenType
	expectedLiteral string
}

func runLexerTests(t *testing.T, input string, tests []expectedToken) {
	t.Helper()
	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q, literal=%q",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `def add(x, y): {
  x + y
}
`

	runLexerTests(t, input, []expectedToken{
		{token.DEF, "def"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.COLON, ":"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	})
}

func TestOperators(t *testing.T) {
	input := `x := 1 - 2 * 3; x != 4 <= 5 >= 6 < 7 > 8 = 9 == 10 -> f.g[1:2]`

	runLexerTests(t, input, []expectedToken{
		{token.IDENT, "x"},
		{token.ASSIGN, ":="},
		{token.INT, "1"},
		{token.MINUS, "-"},
		{token.INT, "2"},
		{token.ASTERISK, "*"},
		{token.INT, "3"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.NOT_EQ, "!="},
		{token.INT, "4"},
		{token.LTE, "<="},
		{token.INT, "5"},
		{token.GTE, ">="},
		{token.INT, "6"},
		{token.LT, "<"},
		{token.INT, "7"},
		{token.GT, ">"},
		{token.INT, "8"},
		{token.EQ, "="},
		{token.INT, "9"},
		{token.EQ, "=="},
		{token.INT, "10"},
		{token.ARROW, "->"},
		{token.IDENT, "f"},
		{token.DOT, "."},
		{token.IDENT, "g"},
		{token.LBRACKET, "["},
		{token.INT, "1"},
		{token.COLON, ":"},
		{token.INT, "2"},
		{token.RBRACKET, "]"},
		{token.EOF, ""},
	})
}

func TestKeywordsAndStrings(t *testing.T) {
	input := `class B(A) { private x := "a\"b\n" }
if not true and false or none then skip else break`

	runLexerTests(t, input, []expectedToken{
		{token.CLASS, "class"},
		{token.IDENT, "B"},
		{token.LPAREN, "("},
		{token.IDENT, "A"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.PRIVATE, "private"},
		{token.IDENT, "x"},
		{token.ASSIGN, ":="},
		{token.STRING, "a\"b\n"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},
		{token.IF, "if"},
		{token.NOT, "not"},
		{token.TRUE, "true"},
		{token.AND, "and"},
		{token.FALSE, "false"},
		{token.OR, "or"},
		{token.NONE, "none"},
		{token.THEN, "then"},
		{token.SKIP, "skip"},
		{token.ELSE, "else"},
		{token.BREAK, "break"},
		{token.EOF, ""},
	})
}

func TestNewlineSuppression(t *testing.T) {
	input := `x := 1 +
  2
if x = 3
then print x
else print 0
f(1,
  2)
# comment only line

y := [1,
  2]
`

	runLexerTests(t, input, []expectedToken{
		{token.IDENT, "x"},
		{token.ASSIGN, ":="},
		{token.INT, "1"},
		{token.PLUS, "+"},
		{token.INT, "2"},
		{token.NEWLINE, "\n"},
		{token.IF, "if"},
		{token.IDENT, "x"},
		{token.EQ, "="},
		{token.INT, "3"},
		{token.THEN, "then"},
		{token.PRINT, "print"},
		{token.IDENT, "x"},
		{token.ELSE, "else"},
		{token.PRINT, "print"},
		{token.INT, "0"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.INT, "1"},
		{token.COMMA, ","},
		{token.INT, "2"},
		{token.RPAREN, ")"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "y"},
		{token.ASSIGN, ":="},
		{token.LBRACKET, "["},
		{token.INT, "1"},
		{token.COMMA, ","},
		{token.INT, "2"},
		{token.RBRACKET, "]"},
		{token.EOF, ""},
	})
}

func TestPositions(t *testing.T) {
	l := New("a\n  bb")
	first := l.NextToken()
	if first.Line != 1 || first.Column != 1 {
		t.Fatalf("first token position wrong. got=%d:%d", first.Line, first.Column)
	}
	l.NextToken() // NEWLINE
	second := l.NextToken()
	if second.Literal != "bb" || second.Line != 2 || second.Column != 3 {
		t.Fatalf("second token wrong. got=%s", second)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got=%q", tok.Type)
	}
}
