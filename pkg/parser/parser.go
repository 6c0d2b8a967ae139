package parser

import (
	"fmt"
	"oomph/pkg/ast"
	"oomph/pkg/lexer"
	"oomph/pkg/token"
	"strconv"
)

const (
	_ int = iota
	LOWEST
	OR          // or
	AND         // and
	NOT         // not X
	EQUALS      // = != < <= > >=
	SUM         // + -
	PRODUCT     // *
	PREFIX      // -X
	CALL        // f(X), obj.member, x[i], x[a:b]
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       EQUALS,
	token.GT:       EQUALS,
	token.LTE:      EQUALS,
	token.GTE:      EQUALS,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.LPAREN:   CALL,
	token.DOT:      CALL,
	token.LBRACKET: CALL,
}

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

type Parser struct {
	l      *lexer.Lexer
	errors []string

	// incomplete is set when parsing failed only because input ran out
	incomplete bool

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NONE, p.parseNone)
	p.registerPrefix(token.INPUT, p.parseInput)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.NOT, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.LBRACE, p.parseBraceExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.FUN, p.parseFunctionLiteral)
	p.registerPrefix(token.ILLEGAL, p.parseIllegal)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.LTE, p.parseInfixExpression)
	p.registerInfix(token.GTE, p.parseInfixExpression)
	p.registerInfix(token.AND, p.parseLogicalExpression)
	p.registerInfix(token.OR, p.parseLogicalExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.DOT, p.parseMemberAccess)
	p.registerInfix(token.LBRACKET, p.parseIndexOrSlice)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseProgram parses the whole input as one sequence. On failure the
// returned program has a nil body and Errors is non-empty.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Body = p.parseSequence(token.EOF)
	if len(p.errors) > 0 {
		program.Body = nil
	}
	return program
}

// Errors returns the collected syntax errors.
func (p *Parser) Errors() []string {
	return p.errors
}

// Incomplete reports whether the input ended before a construct was closed,
// i.e. more lines could still make it valid.
func (p *Parser) Incomplete() bool {
	return p.incomplete
}

func (p *Parser) isSeparator(t token.TokenType) bool {
	return t == token.SEMICOLON || t == token.NEWLINE
}

// parseSequence starts at the first token of a sequence and leaves curToken
// on end.
func (p *Parser) parseSequence(end token.TokenType) ast.Node {
	for p.isSeparator(p.curToken.Type) {
		p.nextToken()
	}
	if p.curTokenIs(end) {
		return &ast.Skip{Token: p.curToken}
	}
	if p.curTokenIs(token.EOF) {
		p.unexpectedEOF(end)
		return nil
	}

	first := p.parseStatement()
	if first == nil {
		return nil
	}
	return p.parseSequenceRest(first, end)
}

func (p *Parser) parseSequenceRest(first ast.Node, end token.TokenType) ast.Node {
	stmts := []ast.Node{first}
	seps := []token.Token{}

	for {
		if p.peekTokenIs(end) {
			p.nextToken()
			break
		}
		if !p.isSeparator(p.peekToken.Type) {
			p.peekError(end)
			return nil
		}
		p.nextToken()
		sep := p.curToken
		for p.isSeparator(p.peekToken.Type) {
			p.nextToken()
		}
		if p.peekTokenIs(end) {
			p.nextToken()
			break
		}
		p.nextToken()

		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
		seps = append(seps, sep)
	}

	result := stmts[len(stmts)-1]
	for i := len(stmts) - 2; i >= 0; i-- {
		result = &ast.Sequence{Token: seps[i], First: stmts[i], Second: result}
	}
	return result
}

func (p *Parser) parseStatement() ast.Node {
	switch p.curToken.Type {
	case token.PUBLIC, token.PRIVATE, token.PROTECTED:
		return p.parseDecorated()
	case token.DEF:
		return p.parseFunctionDecl()
	case token.CLASS:
		return p.parseClassDecl()
	case token.WHILE:
		return p.parseWhile()
	case token.PRINT:
		stmt := &ast.Print{Token: p.curToken}
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
		return stmt
	case token.TEST:
		stmt := &ast.Test{Token: p.curToken}
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
		if stmt.Condition == nil {
			return nil
		}
		return stmt
	case token.SKIP:
		return &ast.Skip{Token: p.curToken}
	case token.BREAK:
		return &ast.Break{Token: p.curToken}
	case token.CONTINUE:
		return &ast.Continue{Token: p.curToken}
	default:
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		return p.finishStatement(expr)
	}
}

// finishStatement turns expr into an assignment target when ':=' follows.
func (p *Parser) finishStatement(expr ast.Node) ast.Node {
	if !p.peekTokenIs(token.ASSIGN) {
		return expr
	}

	switch expr.(type) {
	case *ast.Identifier, *ast.MemberAccess, *ast.Index, *ast.Slice:
	default:
		p.errorf(p.peekToken, "invalid assignment target %s", expr.String())
		return nil
	}

	p.nextToken()
	stmt := &ast.Assign{Token: p.curToken, Target: expr}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseDecorated() ast.Node {
	modTok := p.curToken
	access := ast.ModifierFromToken(modTok.Type)
	p.nextToken()

	node := p.parseStatement()
	switch n := node.(type) {
	case nil:
		return nil
	case *ast.Assign:
		if n.Access != ast.AccessNone {
			p.errorf(modTok, "duplicate access modifier %s", modTok.Literal)
			return nil
		}
		n.Access = access
	case *ast.FunctionDecl:
		if n.Access != ast.AccessNone {
			p.errorf(modTok, "duplicate access modifier %s", modTok.Literal)
			return nil
		}
		n.Access = access
	default:
		p.errorf(modTok, "%s must precede an assignment or def", modTok.Literal)
		return nil
	}
	return node
}

func (p *Parser) parseFunctionDecl() ast.Node {
	stmt := &ast.FunctionDecl{Token: p.curToken}

	// def private name(...) is accepted as well as private def name(...)
	if token.IsModifier(p.peekToken.Type) {
		p.nextToken()
		stmt.Access = ast.ModifierFromToken(p.curToken.Type)
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	stmt.Parameters = params

	if !p.expectPeek(token.COLON) {
		return nil
	}

	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		stmt.Body = p.parseBlock()
	} else {
		if p.peekTokenIs(token.EOF) {
			p.nextToken()
			p.unexpectedEOF(token.LBRACE)
			return nil
		}
		p.nextToken()
		stmt.Body = p.parseStatement()
	}
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	identifiers := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers, true
	}

	if !p.expectPeek(token.IDENT) {
		return nil, false
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}

	return identifiers, true
}

// parseBlock expects curToken on '{' and leaves it on the matching '}'.
func (p *Parser) parseBlock() ast.Node {
	block := &ast.Block{Token: p.curToken}
	p.nextToken()
	block.Body = p.parseSequence(token.RBRACE)
	if block.Body == nil {
		return nil
	}
	return block
}

func (p *Parser) parseClassDecl() ast.Node {
	stmt := &ast.ClassDecl{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Superclass = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Node {
	stmt := &ast.While{Token: p.curToken}

	p.nextToken()
	stmt.Guard = p.parseExpression(LOWEST)
	if stmt.Guard == nil {
		return nil
	}

	if !p.expectPeek(token.DO) {
		return nil
	}

	p.nextToken()
	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Node {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.isSeparator(p.peekToken.Type) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Node {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Node {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as integer", p.curToken.Literal)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Node {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Node {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNone() ast.Node {
	return &ast.NoneLiteral{Token: p.curToken}
}

func (p *Parser) parseInput() ast.Node {
	return &ast.InputLiteral{Token: p.curToken}
}

func (p *Parser) parseIllegal() ast.Node {
	if p.curToken.Literal == "unterminated string" {
		p.incomplete = true
	}
	p.errorf(p.curToken, "illegal token %q", p.curToken.Literal)
	return nil
}

func (p *Parser) parsePrefixExpression() ast.Node {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	precedence := PREFIX
	if p.curTokenIs(token.NOT) {
		precedence = NOT
	}

	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Node) ast.Node {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	// '==' is an alias of '='
	if p.curTokenIs(token.EQ) {
		expression.Operator = "="
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseLogicalExpression(left ast.Node) ast.Node {
	expression := &ast.LogicalExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseGroupedExpression handles (e), () and tuples (a,) / (a, b).
func (p *Parser) parseGroupedExpression() ast.Node {
	tok := p.curToken

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleLiteral{Token: tok, Elements: []ast.Node{}}
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.peekTokenIs(token.COMMA) {
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return exp
	}

	elements := []ast.Node{exp}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil
		}
		elements = append(elements, el)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.TupleLiteral{Token: tok, Elements: elements}
}

func (p *Parser) parseListLiteral() ast.Node {
	list := &ast.ListLiteral{Token: p.curToken}
	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	list.Elements = elements
	return list
}

// parseExpressionList reads comma separated expressions up to end; a
// trailing comma is allowed.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Node, bool) {
	list := []ast.Node{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil, false
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil, false
		}
		list = append(list, el)
	}

	if !p.expectPeek(end) {
		return nil, false
	}

	return list, true
}

// parseBraceExpression decides between a dictionary literal and a block.
// '{}' and '{ k: v, ... }' are dictionaries; anything else is a block.
func (p *Parser) parseBraceExpression() ast.Node {
	tok := p.curToken

	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.DictLiteral{Token: tok, Pairs: []ast.DictPair{}}
	}

	p.nextToken()
	switch p.curToken.Type {
	case token.SEMICOLON, token.NEWLINE:
		body := p.parseSequence(token.RBRACE)
		if body == nil {
			return nil
		}
		return &ast.Block{Token: tok, Body: body}
	case token.DEF, token.CLASS, token.WHILE, token.PRINT, token.TEST,
		token.SKIP, token.BREAK, token.CONTINUE,
		token.PUBLIC, token.PRIVATE, token.PROTECTED:
		first := p.parseStatement()
		if first == nil {
			return nil
		}
		body := p.parseSequenceRest(first, token.RBRACE)
		if body == nil {
			return nil
		}
		return &ast.Block{Token: tok, Body: body}
	case token.EOF:
		p.unexpectedEOF(token.RBRACE)
		return nil
	}

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if p.peekTokenIs(token.COLON) {
		return p.parseDictRest(tok, exp)
	}

	first := p.finishStatement(exp)
	if first == nil {
		return nil
	}
	body := p.parseSequenceRest(first, token.RBRACE)
	if body == nil {
		return nil
	}
	return &ast.Block{Token: tok, Body: body}
}

func (p *Parser) parseDictRest(tok token.Token, firstKey ast.Node) ast.Node {
	dict := &ast.DictLiteral{Token: tok, Pairs: []ast.DictPair{}}
	key := firstKey

	for {
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		dict.Pairs = append(dict.Pairs, ast.DictPair{Key: key, Value: value})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
		p.nextToken()
		key = p.parseExpression(LOWEST)
		if key == nil {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return dict
}

func (p *Parser) parseIfExpression() ast.Node {
	expression := &ast.If{Token: p.curToken}

	p.nextToken()
	expression.Guard = p.parseExpression(LOWEST)
	if expression.Guard == nil {
		return nil
	}

	if !p.expectPeek(token.THEN) {
		return nil
	}

	p.nextToken()
	expression.Then = p.parseStatement()
	if expression.Then == nil {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		expression.Else = p.parseStatement()
		if expression.Else == nil {
			return nil
		}
	}

	return expression
}

func (p *Parser) parseFunctionLiteral() ast.Node {
	lit := &ast.FunctionLiteral{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	lit.Parameters = params

	if !p.expectPeek(token.ARROW) {
		return nil
	}

	p.nextToken()
	lit.Body = p.parseExpression(LOWEST)
	if lit.Body == nil {
		return nil
	}
	return lit
}

func (p *Parser) parseCallExpression(function ast.Node) ast.Node {
	exp := &ast.Call{Token: p.curToken, Function: function}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

func (p *Parser) parseMemberAccess(object ast.Node) ast.Node {
	expression := &ast.MemberAccess{Token: p.curToken, Object: object}

	if !p.expectPeek(token.IDENT) {
		return nil
	}

	expression.Member = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return expression
}

func (p *Parser) parseIndexOrSlice(left ast.Node) ast.Node {
	tok := p.curToken

	var low ast.Node
	if !p.peekTokenIs(token.COLON) {
		p.nextToken()
		low = p.parseExpression(LOWEST)
		if low == nil {
			return nil
		}
		if !p.peekTokenIs(token.COLON) {
			if !p.expectPeek(token.RBRACKET) {
				return nil
			}
			return &ast.Index{Token: tok, Left: left, Index: low}
		}
	}

	p.nextToken() // ':'
	slice := &ast.Slice{Token: tok, Left: left, Low: low}
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return slice
	}

	p.nextToken()
	slice.High = p.parseExpression(LOWEST)
	if slice.High == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return slice
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) errorf(at token.Token, format string, args ...any) {
	msg := fmt.Sprintf("%d:%d: ", at.Line, at.Column) + fmt.Sprintf(format, args...)
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekError(t token.TokenType) {
	if p.peekTokenIs(token.EOF) {
		p.incomplete = true
	}
	p.errorf(p.peekToken, "expected next token to be %s, got %s instead",
		t, p.peekToken.Type)
}

func (p *Parser) unexpectedEOF(t token.TokenType) {
	p.incomplete = true
	p.errorf(p.curToken, "unexpected end of input, expected %s", t)
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.EOF {
		p.incomplete = true
	}
	p.errorf(tok, "no prefix parse function for %s found", tok.Type)
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
