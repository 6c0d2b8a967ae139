package lexer

import (
	"oomph/pkg/token"
	"strings"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int

	depth    int             // nesting of ( and [, newlines inside are insignificant
	lastType token.TokenType // type of the last token handed out
}

func New(input string) *Lexer {
	l := &Lexer{
		input:    input,
		line:     1,
		column:   0,
		lastType: token.NEWLINE,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
	l.column += 1
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken returns the next token. A NEWLINE token is produced only where a
// line break can terminate a statement.
func (l *Lexer) NextToken() token.Token {
	tok := l.scan()
	switch tok.Type {
	case token.LPAREN, token.LBRACKET:
		l.depth++
	case token.RPAREN, token.RBRACKET:
		if l.depth > 0 {
			l.depth--
		}
	}
	l.lastType = tok.Type
	return tok
}

func (l *Lexer) scan() token.Token {
	var tok token.Token

	for {
		l.skipBlanks()
		if l.ch == '#' {
			l.skipComment()
			continue
		}
		if l.ch != '\n' {
			break
		}
		if nl, ok := l.handleNewline(); ok {
			return nl
		}
	}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.EQ)
		} else {
			tok = newToken(token.EQ, l.ch, l.line, l.column)
		}
	case ':':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.ASSIGN)
		} else {
			tok = newToken(token.COLON, l.ch, l.line, l.column)
		}
	case '+':
		tok = newToken(token.PLUS, l.ch, l.line, l.column)
	case '-':
		if l.peekChar() == '>' {
			tok = l.twoCharToken(token.ARROW)
		} else {
			tok = newToken(token.MINUS, l.ch, l.line, l.column)
		}
	case '*':
		tok = newToken(token.ASTERISK, l.ch, l.line, l.column)
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.NOT_EQ)
		} else {
			tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.LTE)
		} else {
			tok = newToken(token.LT, l.ch, l.line, l.column)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.GTE)
		} else {
			tok = newToken(token.GT, l.ch, l.line, l.column)
		}
	case ',':
		tok = newToken(token.COMMA, l.ch, l.line, l.column)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, l.line, l.column)
	case '(':
		tok = newToken(token.LPAREN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(token.RPAREN, l.ch, l.line, l.column)
	case '.':
		tok = newToken(token.DOT, l.ch, l.line, l.column)
	case '{':
		tok = newToken(token.LBRACE, l.ch, l.line, l.column)
	case '}':
		tok = newToken(token.RBRACE, l.ch, l.line, l.column)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, l.line, l.column)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, l.line, l.column)
	case '"':
		tok.Line = l.line
		tok.Column = l.column
		literal, ok := l.readString()
		if !ok {
			tok.Type = token.ILLEGAL
			tok.Literal = "unterminated string"
			return tok
		}
		tok.Type = token.STRING
		tok.Literal = literal
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		tok.Line = l.line
		tok.Column = l.column
		return tok
	default:
		if isLetter(l.ch) {
			tok.Line = l.line
			tok.Column = l.column
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Line = l.line
			tok.Column = l.column
			tok.Type = token.INT
			tok.Literal = l.readNumber()
			return tok
		}
		tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
	}

	l.readChar()
	return tok
}

func (l *Lexer) twoCharToken(t token.TokenType) token.Token {
	line, col := l.line, l.column
	ch := l.ch
	l.readChar()
	return token.Token{Type: t, Literal: string(ch) + string(l.ch), Line: line, Column: col}
}

// handleNewline consumes a run of line breaks and reports whether it is
// significant as a statement separator.
func (l *Lexer) handleNewline() (token.Token, bool) {
	tok := token.Token{Type: token.NEWLINE, Literal: "\n", Line: l.line, Column: l.column}

	for l.ch == '\n' || l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '#' {
		switch l.ch {
		case '\n':
			l.readChar()
			l.line++
			l.column = 1
		case '#':
			l.skipComment()
		default:
			l.readChar()
		}
	}

	if l.depth > 0 || continuesLine(l.lastType) {
		return tok, false
	}
	switch l.ch {
	case 0, '}', ')', ']', '.':
		return tok, false
	}
	if isLetter(l.ch) {
		switch l.peekWord() {
		case "then", "else", "do", "and", "or":
			return tok, false
		}
	}
	return tok, true
}

// continuesLine reports whether a statement cannot end with a token of type t.
func continuesLine(t token.TokenType) bool {
	switch t {
	case token.NEWLINE, token.SEMICOLON, token.COMMA, token.COLON, token.ASSIGN,
		token.ARROW, token.DOT, token.LPAREN, token.LBRACKET, token.LBRACE,
		token.PLUS, token.MINUS, token.ASTERISK,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.THEN, token.ELSE, token.DO, token.AND, token.OR, token.NOT,
		token.IF, token.WHILE, token.DEF, token.FUN, token.CLASS,
		token.PRINT, token.TEST, token.PUBLIC, token.PRIVATE, token.PROTECTED:
		return true
	}
	return false
}

func (l *Lexer) peekWord() string {
	end := l.position
	for end < len(l.input) && (isLetter(l.input[end]) || isDigit(l.input[end])) {
		end++
	}
	return l.input[l.position:end]
}

func newToken(tokenType token.TokenType, ch byte, line, col int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Line: line, Column: col}
}

func (l *Lexer) skipBlanks() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) readString() (string, bool) {
	var result strings.Builder
	l.readChar() // Skip opening quote

	for l.ch != '"' {
		if l.ch == 0 {
			return result.String(), false
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			case 'r':
				result.WriteByte('\r')
			case '\\':
				result.WriteByte('\\')
			case '"':
				result.WriteByte('"')
			case 0:
				return result.String(), false
			default:
				// Unknown escape, keep it verbatim
				result.WriteByte('\\')
				result.WriteByte(l.ch)
			}
		} else {
			if l.ch == '\n' {
				l.line++
				l.column = 0
			}
			result.WriteByte(l.ch)
		}
		l.readChar()
	}

	return result.String(), true
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}
