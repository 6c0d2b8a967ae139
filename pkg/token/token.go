package token

import "fmt"

type TokenType string

const (
	// Special
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	NEWLINE = "NEWLINE"

	// Identifiers & Literals
	IDENT  = "IDENT"
	INT    = "INT"
	STRING = "STRING"

	// Operators
	ASSIGN   = ":="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"

	EQ     = "="
	NOT_EQ = "!="
	LT     = "<"
	GT     = ">"
	LTE    = "<="
	GTE    = ">="

	// Delimiters
	COMMA     = ","
	COLON     = ":"
	SEMICOLON = ";"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"
	ARROW     = "->"
	DOT       = "."

	// Keywords
	DEF       = "DEF"
	FUN       = "FUN"
	CLASS     = "CLASS"
	IF        = "IF"
	THEN      = "THEN"
	ELSE      = "ELSE"
	WHILE     = "WHILE"
	DO        = "DO"
	TRUE      = "TRUE"
	FALSE     = "FALSE"
	NONE      = "NONE"
	NOT       = "NOT"
	AND       = "AND"
	OR        = "OR"
	SKIP      = "SKIP"
	BREAK     = "BREAK"
	CONTINUE  = "CONTINUE"
	PRINT     = "PRINT"
	TEST      = "TEST"
	INPUT     = "INPUT"
	PUBLIC    = "PUBLIC"
	PRIVATE   = "PRIVATE"
	PROTECTED = "PROTECTED"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d:%d)", t.Type, t.Literal, t.Line, t.Column)
}

var keywords = map[string]TokenType{
	"def":       DEF,
	"fun":       FUN,
	"class":     CLASS,
	"if":        IF,
	"then":      THEN,
	"else":      ELSE,
	"while":     WHILE,
	"do":        DO,
	"true":      TRUE,
	"false":     FALSE,
	"none":      NONE,
	"not":       NOT,
	"and":       AND,
	"or":        OR,
	"skip":      SKIP,
	"break":     BREAK,
	"continue":  CONTINUE,
	"print":     PRINT,
	"test":      TEST,
	"input":     INPUT,
	"public":    PUBLIC,
	"private":   PRIVATE,
	"protected": PROTECTED,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsModifier reports whether t is one of the access modifier keywords.
func IsModifier(t TokenType) bool {
	return t == PUBLIC || t == PRIVATE || t == PROTECTED
}
