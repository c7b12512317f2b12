package parser

import (
	"testing"

	"teachdb/internal/sql/lexer"
)

func parse(t *testing.T, input string) Statement {
	t.Helper()
	p := New(lexer.New(input))
	stmt, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", input, err)
	}
	return stmt
}

func TestParseSelectStar(t *testing.T) {
	stmt, ok := parse(t, "SELECT * FROM widgets").(*SelectStatement)
	if !ok {
		t.Fatal("expected *SelectStatement")
	}
	if stmt.Target != TargetBoth || stmt.Table != "widgets" || stmt.Where != nil {
		t.Fatalf("got %+v", stmt)
	}
}

func TestParseSelectKeyValue(t *testing.T) {
	stmt := parse(t, "SELECT key, value FROM widgets").(*SelectStatement)
	if stmt.Target != TargetBoth {
		t.Fatalf("got target %v, want TargetBoth", stmt.Target)
	}
}

func TestParseSelectKeyOnly(t *testing.T) {
	stmt := parse(t, "SELECT key FROM widgets").(*SelectStatement)
	if stmt.Target != TargetKey {
		t.Fatalf("got target %v, want TargetKey", stmt.Target)
	}
}

func TestParseSelectCountStar(t *testing.T) {
	stmt := parse(t, "SELECT COUNT(*) FROM widgets").(*SelectStatement)
	if stmt.Target != TargetCount {
		t.Fatalf("got target %v, want TargetCount", stmt.Target)
	}
}

func TestParseSelectWithWhereEquality(t *testing.T) {
	stmt := parse(t, "SELECT value FROM widgets WHERE key = 7").(*SelectStatement)
	if len(stmt.Where) != 1 {
		t.Fatalf("got %d conditions, want 1", len(stmt.Where))
	}
	cond := stmt.Where[0]
	if cond.Column != ColumnKey || cond.Op != OpEQ || cond.IntVal != 7 {
		t.Fatalf("got %+v", cond)
	}
}

func TestParseSelectWithAndedConditions(t *testing.T) {
	stmt := parse(t, "SELECT key FROM widgets WHERE key >= 1 AND value != 'admin'").(*SelectStatement)
	if len(stmt.Where) != 2 {
		t.Fatalf("got %d conditions, want 2", len(stmt.Where))
	}
	if stmt.Where[0].Op != OpGE || stmt.Where[1].Op != OpNE {
		t.Fatalf("got %+v", stmt.Where)
	}
	if stmt.Where[1].StrVal != "admin" {
		t.Fatalf("got StrVal %q, want admin", stmt.Where[1].StrVal)
	}
}

func TestParseLoadStatement(t *testing.T) {
	stmt := parse(t, "LOAD widgets FROM 'data.tbl' WITH INDEX").(*LoadStatement)
	if stmt.Table != "widgets" || stmt.Path != "data.tbl" || !stmt.WithIndex {
		t.Fatalf("got %+v", stmt)
	}
}

func TestParseLoadStatementWithoutIndex(t *testing.T) {
	stmt := parse(t, "LOAD widgets FROM 'data.tbl'").(*LoadStatement)
	if stmt.WithIndex {
		t.Fatal("expected WithIndex = false")
	}
}

func TestParseMismatchedConditionTypeFails(t *testing.T) {
	p := New(lexer.New("SELECT key FROM widgets WHERE key = 'nope'"))
	if _, err := p.Parse(); err == nil {
		t.Fatal("expected a type-mismatch error for key = 'string'")
	}
}

func TestParseMissingFromFails(t *testing.T) {
	p := New(lexer.New("SELECT * widgets"))
	if _, err := p.Parse(); err == nil {
		t.Fatal("expected an error for a missing FROM keyword")
	}
}

func TestParseUnknownStatementFails(t *testing.T) {
	p := New(lexer.New("DROP widgets"))
	if _, err := p.Parse(); err == nil {
		t.Fatal("expected an error for an unsupported statement")
	}
}
