// Package parser - recursive descent parser for SELECT/LOAD statements.
//
// EDUCATIONAL NOTES:
// ------------------
// A parser reads tokens from the lexer and builds an Abstract Syntax Tree
// (AST). This is the second phase of compilation/interpretation, after
// lexing. We use a "recursive descent" parser: each grammar rule becomes
// a function, and the parser maintains a "current token" plus a
// one-token lookahead ("peek") to decide what to parse next.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"teachdb/internal/sql/lexer"
)

// Parser parses query tokens into an AST.
type Parser struct {
	lexer     *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

// New creates a new Parser for the given lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses one statement and returns its AST.
func (p *Parser) Parse() (Statement, error) {
	var stmt Statement
	switch p.curToken.Type {
	case lexer.TokenSelect:
		stmt = p.parseSelect()
	case lexer.TokenLoad:
		stmt = p.parseLoad()
	default:
		p.errorf("expected SELECT or LOAD, got %q", p.curToken.Literal)
	}
	if len(p.errors) > 0 {
		return nil, fmt.Errorf("parse error: %s", strings.Join(p.errors, "; "))
	}
	return stmt, nil
}

// Errors returns any parsing errors encountered.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected next token to be %d, got %d instead (literal: %q)", t, p.peekToken.Type, p.peekToken.Literal)
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

// parseSelect parses "SELECT <target> FROM <table> [WHERE <conditions>]".
func (p *Parser) parseSelect() *SelectStatement {
	stmt := &SelectStatement{}

	target, ok := p.parseTarget()
	if !ok {
		return stmt
	}
	stmt.Target = target

	if !p.expectPeek(lexer.TokenFrom) {
		return stmt
	}
	if !p.expectPeek(lexer.TokenIdent) {
		return stmt
	}
	stmt.Table = p.curToken.Literal

	if p.peekTokenIs(lexer.TokenWhere) {
		p.nextToken()
		stmt.Where = p.parseConditions()
	}
	return stmt
}

// parseTarget parses what follows SELECT: COUNT(*), *, key, value, or
// "key, value".
func (p *Parser) parseTarget() (Target, bool) {
	switch {
	case p.peekTokenIs(lexer.TokenCount):
		p.nextToken()
		if !p.expectPeek(lexer.TokenLeftParen) || !p.expectPeek(lexer.TokenAsterisk) || !p.expectPeek(lexer.TokenRightParen) {
			return 0, false
		}
		return TargetCount, true

	case p.peekTokenIs(lexer.TokenAsterisk):
		p.nextToken()
		return TargetBoth, true

	case p.peekTokenIs(lexer.TokenIdent):
		p.nextToken()
		first := strings.ToLower(p.curToken.Literal)
		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
			if !p.expectPeek(lexer.TokenIdent) {
				return 0, false
			}
		}
		switch first {
		case "key":
			if p.curTokenIs(lexer.TokenIdent) && strings.ToLower(p.curToken.Literal) == "value" {
				return TargetBoth, true
			}
			return TargetKey, true
		case "value":
			return TargetValue, true
		default:
			p.errorf("expected column \"key\" or \"value\", got %q", p.curToken.Literal)
			return 0, false
		}

	default:
		p.errorf("expected a select target, got %q", p.peekToken.Literal)
		return 0, false
	}
}

// parseConditions parses an AND-joined list of WHERE conditions.
func (p *Parser) parseConditions() []Condition {
	var conds []Condition
	cond, ok := p.parseCondition()
	if !ok {
		return nil
	}
	conds = append(conds, cond)

	for p.peekTokenIs(lexer.TokenAnd) {
		p.nextToken()
		cond, ok := p.parseCondition()
		if !ok {
			return conds
		}
		conds = append(conds, cond)
	}
	return conds
}

// parseCondition parses one "<column> <op> <literal>" term.
func (p *Parser) parseCondition() (Condition, bool) {
	if !p.expectPeek(lexer.TokenIdent) {
		return Condition{}, false
	}
	colName := strings.ToLower(p.curToken.Literal)
	var column Column
	switch colName {
	case "key":
		column = ColumnKey
	case "value":
		column = ColumnValue
	default:
		p.errorf("unknown column %q in WHERE clause", p.curToken.Literal)
		return Condition{}, false
	}

	p.nextToken()
	op, ok := comparatorFor(p.curToken.Type)
	if !ok {
		p.errorf("expected a comparison operator, got %q", p.curToken.Literal)
		return Condition{}, false
	}

	p.nextToken()
	cond := Condition{Column: column, Op: op}
	switch {
	case column == ColumnKey && p.curTokenIs(lexer.TokenNumber):
		v, err := strconv.ParseInt(p.curToken.Literal, 10, 32)
		if err != nil {
			p.errorf("invalid integer literal %q: %v", p.curToken.Literal, err)
			return Condition{}, false
		}
		cond.IntVal = int32(v)
	case column == ColumnValue && p.curTokenIs(lexer.TokenString):
		cond.StrVal = p.curToken.Literal
	default:
		p.errorf("type mismatch in WHERE clause: column %q cannot be compared against %q", colName, p.curToken.Literal)
		return Condition{}, false
	}
	return cond, true
}

func comparatorFor(t lexer.TokenType) (Comparator, bool) {
	switch t {
	case lexer.TokenEquals:
		return OpEQ, true
	case lexer.TokenNotEquals:
		return OpNE, true
	case lexer.TokenLessThan:
		return OpLT, true
	case lexer.TokenLessOrEqual:
		return OpLE, true
	case lexer.TokenGreaterThan:
		return OpGT, true
	case lexer.TokenGreaterOrEqual:
		return OpGE, true
	default:
		return 0, false
	}
}

// parseLoad parses "LOAD <table> FROM '<path>' [WITH INDEX]".
func (p *Parser) parseLoad() *LoadStatement {
	stmt := &LoadStatement{}

	if !p.expectPeek(lexer.TokenIdent) {
		return stmt
	}
	stmt.Table = p.curToken.Literal

	if !p.expectPeek(lexer.TokenFrom) {
		return stmt
	}
	if !p.expectPeek(lexer.TokenString) {
		return stmt
	}
	stmt.Path = p.curToken.Literal

	if p.peekTokenIs(lexer.TokenWith) {
		p.nextToken()
		if !p.expectPeek(lexer.TokenIndex) {
			return stmt
		}
		stmt.WithIndex = true
	}
	return stmt
}
