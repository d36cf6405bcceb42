package compiler

import (
	"fmt"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program        = statement_list EOF
//	statement_list = { statement }              (until "}" or EOF)
//	statement      = declaration | assignment | conditional
//	declaration    = "int" identifier ";"
//	assignment     = identifier "=" expression ";"
//	expression     = term { ("+" | "-") term }
//	term           = identifier | number
//	conditional    = "if" "(" condition ")" "{" statement_list "}"
//	condition      = expression "==" expression
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// Parse builds the AST for a whole program.
func Parse(tokens []Token, rawSource string) (*StatementList, error) {
	return NewParser(tokens, rawSource).ParseProgram()
}

// fail builds an *Error for tok. UNKNOWN tokens are always reported as
// lexical issues whatever rule ran into them.
func (p *Parser) fail(kind error, tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if tok.Type == UNKNOWN {
		kind = ErrLexical
		msg = fmt.Sprintf("unrecognized character '%s' (%s)", tok.Lexeme, msg)
	}

	snippet := ""
	lineIdx := tok.Line - 1 // Lines are 1-based
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}

	return &Error{Kind: kind, Line: tok.Line, Token: tok.Lexeme, Msg: msg, Snippet: snippet}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[p.pos]
}

// peekNext returns the token immediately after the current one.
func (p *Parser) peekNext() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[p.pos+1]
}

// eofToken synthesises an EOF for token slices that lack one.
func (p *Parser) eofToken() Token {
	line := 1
	if n := len(p.tokens); n > 0 {
		line = p.tokens[n-1].Line
	}
	return Token{Type: EOF, Line: line}
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns a
// syntax error built from what.
func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.fail(ErrSyntax, tok, "%s, got %s", what, tok.describe())
	}
	return p.advance(), nil
}

// ParseProgram parses statements up to EOF and terminates the list with an
// EndOfInput node.
func (p *Parser) ParseProgram() (*StatementList, error) {
	list, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != EOF {
		return nil, p.fail(ErrSyntax, tok, "unexpected %s with no matching '{'", tok.describe())
	}
	p.advance()
	list.Stmts = append(list.Stmts, &EndOfInput{})
	return list, nil
}

// parseStatementList parses statements until '}' or EOF, leaving either
// token unconsumed.
func (p *Parser) parseStatementList() (*StatementList, error) {
	list := &StatementList{}
	for {
		tt := p.peek().Type
		if tt == RBRACE || tt == EOF {
			return list, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		list.Stmts = append(list.Stmts, stmt)
	}
}

func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Type {
	case INT:
		return p.parseDeclaration()
	case IF:
		return p.parseConditional()
	case IDENTIFIER:
		// The only statement an identifier can start is an assignment.
		if next := p.peekNext(); next.Type != ASSIGN {
			return nil, p.fail(ErrSemantic, next, "unexpected %s after identifier '%s'", next.describe(), tok.Lexeme)
		}
		return p.parseAssignment()
	default:
		return nil, p.fail(ErrSyntax, tok, "unexpected %s at start of statement", tok.describe())
	}
}

func (p *Parser) parseDeclaration() (*Declaration, error) {
	if _, err := p.expect(INT, "expected 'int'"); err != nil {
		return nil, err
	}
	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON, fmt.Sprintf("missing ';' after declaration of '%s'", id.Name)); err != nil {
		return nil, err
	}
	return &Declaration{Name: id.Name}, nil
}

func (p *Parser) parseAssignment() (*Assignment, error) {
	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN, fmt.Sprintf("expected '=' after '%s'", id.Name)); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON, fmt.Sprintf("missing ';' after assignment to '%s'", id.Name)); err != nil {
		return nil, err
	}
	return &Assignment{Name: id.Name, Expr: expr}, nil
}

// parseExpression handles + and -. Each iteration folds the expression so
// far into the left operand, so a - b + c parses as (a - b) + c.
func (p *Parser) parseExpression() (Expr, error) {
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == ADD || p.peek().Type == SUBTRACT {
		op := p.advance().Lexeme
		if tt := p.peek().Type; tt != IDENTIFIER && tt != NUMBER {
			tok := p.peek()
			return nil, p.fail(ErrSyntax, tok, "binary operation '%s' is missing its right operand, got %s", op, tok.describe())
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr = &BinaryOp{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseTerm() (Expr, error) {
	switch tok := p.peek(); tok.Type {
	case IDENTIFIER:
		return p.parseIdentifier()
	case NUMBER:
		return p.parseNumber()
	case ADD, SUBTRACT:
		return nil, p.fail(ErrSyntax, tok, "binary operation '%s' is missing its left operand", tok.Lexeme)
	default:
		return nil, p.fail(ErrSyntax, tok, "expected a number or identifier, got %s", tok.describe())
	}
}

func (p *Parser) parseIdentifier() (*Identifier, error) {
	tok := p.peek()
	switch tok.Type {
	case IDENTIFIER:
		p.advance()
		return &Identifier{Name: tok.Lexeme}, nil
	case NUMBER:
		return nil, p.fail(ErrSyntax, tok, "invalid identifier: starts with '%s'", tok.Lexeme)
	case INT, IF:
		return nil, p.fail(ErrSyntax, tok, "expected identifier, got keyword '%s'", tok.Lexeme)
	default:
		return nil, p.fail(ErrSyntax, tok, "missing identifier, got %s", tok.describe())
	}
}

func (p *Parser) parseNumber() (*Number, error) {
	tok := p.peek()
	if tok.Type != NUMBER {
		return nil, p.fail(ErrSyntax, tok, "invalid number: starts with %s", tok.describe())
	}
	p.advance()
	return &Number{Literal: tok.Lexeme}, nil
}

func (p *Parser) parseConditional() (*Conditional, error) {
	if _, err := p.expect(IF, "expected 'if'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "expected ')' after condition"); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE, "expected '{' to open if body"); err != nil {
		return nil, err
	}
	body, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACE, "expected '}' to close if body"); err != nil {
		return nil, err
	}
	return &Conditional{Cond: cond, Body: body}, nil
}

func (p *Parser) parseCondition() (*Condition, error) {
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.Type == ASSIGN {
		return nil, p.fail(ErrSyntax, tok, "expected '==' in condition, got '=' (assignment is not a condition)")
	}
	if _, err := p.expect(EQUAL, "expected '==' in condition"); err != nil {
		return nil, err
	}
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Condition{Op: "==", Left: left, Right: right}, nil
}
