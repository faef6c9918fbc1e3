package parser

import (
	"testing"

	"github.com/driftdb/core/ast"
	"github.com/driftdb/core/geometry"
	"github.com/driftdb/core/lexer"
)

func checkParserErrors(t *testing.T, p *Parser) {
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("parser has %d errors", len(errors))
	for _, msg := range errors {
		t.Errorf("parser error: %s", msg)
	}
	t.FailNow()
}

func TestCreateStatementWithContent(t *testing.T) {
	input := `CREATE person CONTENT { name: "tobie", age: 33 }`

	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)

	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}

	stmt, ok := program.Statements[0].(*ast.CreateStatement)
	if !ok {
		t.Fatalf("expected CreateStatement, got %T", program.Statements[0])
	}

	if len(stmt.What) != 1 {
		t.Fatalf("expected 1 target, got %d", len(stmt.What))
	}
	ident, ok := stmt.What[0].(*ast.Identifier)
	if !ok || ident.Value != "person" {
		t.Fatalf("expected target identifier %q, got %#v", "person", stmt.What[0])
	}

	if stmt.Data == nil || stmt.Data.Content == nil {
		t.Fatal("expected a CONTENT clause")
	}
	obj, ok := stmt.Data.Content.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("expected ObjectLiteral, got %T", stmt.Data.Content)
	}
	if len(obj.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(obj.Fields))
	}
	if !stmt.Single() {
		t.Error("expected a single bare table target to satisfy Single()")
	}
}

func TestCreateStatementWithRecordIDAndReturn(t *testing.T) {
	input := `CREATE person:tobie SET name = "tobie" RETURN NONE`

	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt, ok := program.Statements[0].(*ast.CreateStatement)
	if !ok {
		t.Fatalf("expected CreateStatement, got %T", program.Statements[0])
	}

	rid, ok := stmt.What[0].(*ast.RecordID)
	if !ok {
		t.Fatalf("expected RecordID target, got %#v", stmt.What[0])
	}
	if rid.Table != "person" || rid.ID != "tobie" {
		t.Errorf("expected person:tobie, got %s:%s", rid.Table, rid.ID)
	}

	if len(stmt.Data.Set) != 1 || stmt.Data.Set[0].Field.Value != "name" {
		t.Fatalf("expected SET name = ..., got %#v", stmt.Data)
	}

	if stmt.Output == nil || stmt.Output.Kind != ast.OutputNone {
		t.Fatalf("expected RETURN NONE, got %#v", stmt.Output)
	}
}

func TestCreateStatementWithTimeoutAndParallel(t *testing.T) {
	input := `CREATE person TIMEOUT 5s PARALLEL`

	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.CreateStatement)
	if stmt.Timeout == nil || stmt.Timeout.Value != "5s" {
		t.Fatalf("expected TIMEOUT 5s, got %#v", stmt.Timeout)
	}
	if !stmt.Parallel {
		t.Fatal("expected PARALLEL to be set")
	}
}

func TestDeleteStatement(t *testing.T) {
	input := `DELETE person:tobie RETURN BEFORE`

	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt, ok := program.Statements[0].(*ast.DeleteStatement)
	if !ok {
		t.Fatalf("expected DeleteStatement, got %T", program.Statements[0])
	}
	if stmt.Output.Kind != ast.OutputBefore {
		t.Fatalf("expected RETURN BEFORE, got %#v", stmt.Output)
	}
	if !stmt.Writeable() {
		t.Error("DeleteStatement must be writeable")
	}
	if !stmt.Single() {
		t.Error("expected a single record-id target to satisfy Single()")
	}
}

func TestMultipleTargets(t *testing.T) {
	input := `CREATE person, company RETURN NULL`

	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.CreateStatement)
	if len(stmt.What) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(stmt.What))
	}
	if stmt.Single() {
		t.Error("expected a two-target statement not to satisfy Single()")
	}
}

func TestGeometryLiteralIsDetected(t *testing.T) {
	input := `CREATE place SET location = { type: "Point", coordinates: [ -0.118, 51.509 ] }`

	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.CreateStatement)
	assign := stmt.Data.Set[0]
	if _, ok := assign.Value.(*ast.GeometryLiteral); !ok {
		t.Fatalf("expected GeometryLiteral, got %T", assign.Value)
	}
}

func TestPointShorthandLiteralIsDetected(t *testing.T) {
	input := `CREATE place SET location = (-0.118092, 51.509865)`

	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.CreateStatement)
	assign := stmt.Data.Set[0]
	lit, ok := assign.Value.(*ast.GeometryLiteral)
	if !ok {
		t.Fatalf("expected GeometryLiteral, got %T", assign.Value)
	}

	g, err := geometry.Parse(lit.Raw)
	if err != nil {
		t.Fatalf("geometry.Parse(%q): %v", lit.Raw, err)
	}
	if !g.IsPoint() {
		t.Fatalf("expected a Point, got %v", g.Kind())
	}

	back, err := geometry.Parse(g.String())
	if err != nil {
		t.Fatalf("round-trip Parse error: %v", err)
	}
	if !back.Equal(g) {
		t.Errorf("round trip mismatch: %v vs %v", back, g)
	}
}

func TestGroupedArithmeticExpressionStillParses(t *testing.T) {
	input := `CREATE place SET total = (1 + 2)`

	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.CreateStatement)
	assign := stmt.Data.Set[0]
	if _, ok := assign.Value.(*ast.GeometryLiteral); ok {
		t.Fatalf("expected a plain grouped expression, not a point literal, got %#v", assign.Value)
	}
}
