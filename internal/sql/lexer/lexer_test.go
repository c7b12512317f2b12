package lexer

import "testing"

func TestLexerBasicTokens(t *testing.T) {
	input := "SELECT * FROM widgets"

	l := New(input)
	tokens := l.Tokenize()

	expected := []struct {
		tokenType TokenType
		literal   string
	}{
		{TokenSelect, "SELECT"},
		{TokenAsterisk, "*"},
		{TokenFrom, "FROM"},
		{TokenIdent, "widgets"},
		{TokenEOF, ""},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Type != exp.tokenType {
			t.Errorf("token %d: expected type %d, got %d", i, exp.tokenType, tokens[i].Type)
		}
		if tokens[i].Literal != exp.literal {
			t.Errorf("token %d: expected literal %q, got %q", i, exp.literal, tokens[i].Literal)
		}
	}
}

func TestLexerWhereClauseWithComparators(t *testing.T) {
	input := "SELECT key, value FROM widgets WHERE key >= 18 AND value != 'admin'"

	l := New(input)
	tokens := l.Tokenize()

	expected := []TokenType{
		TokenSelect, TokenIdent, TokenComma, TokenIdent, TokenFrom, TokenIdent,
		TokenWhere, TokenIdent, TokenGreaterOrEqual, TokenNumber,
		TokenAnd, TokenIdent, TokenNotEquals, TokenString, TokenEOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("token %d: expected type %d, got %d (%q)", i, want, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestLexerLoadStatement(t *testing.T) {
	input := "LOAD widgets FROM 'data.tbl' WITH INDEX"

	l := New(input)
	tokens := l.Tokenize()

	expected := []TokenType{TokenLoad, TokenIdent, TokenFrom, TokenString, TokenWith, TokenIndex, TokenEOF}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("token %d: expected type %d, got %d (%q)", i, want, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestLexerNegativeNumber(t *testing.T) {
	l := New("-42")
	tok := l.NextToken()
	if tok.Type != TokenNumber || tok.Literal != "-42" {
		t.Fatalf("got %v, want NUMBER -42", tok)
	}
}

func TestLexerCaseInsensitiveKeywords(t *testing.T) {
	l := New("select Key from Widgets where Key = 1")
	tokens := l.Tokenize()
	expected := []TokenType{TokenSelect, TokenIdent, TokenFrom, TokenIdent, TokenWhere, TokenIdent, TokenEquals, TokenNumber, TokenEOF}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("token %d: expected type %d, got %d (%q)", i, want, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestLexerUnterminatedStringIsAnError(t *testing.T) {
	l := New("'unterminated")
	tok := l.NextToken()
	if tok.Type != TokenError {
		t.Fatalf("got %v, want TokenError", tok)
	}
}

func TestLexerCountStar(t *testing.T) {
	l := New("SELECT COUNT(*) FROM widgets")
	tokens := l.Tokenize()
	expected := []TokenType{TokenSelect, TokenCount, TokenLeftParen, TokenAsterisk, TokenRightParen, TokenFrom, TokenIdent, TokenEOF}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("token %d: expected type %d, got %d (%q)", i, want, tokens[i].Type, tokens[i].Literal)
		}
	}
}
