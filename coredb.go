// Package coredb is the query core's top-level entry point: parsing
// text into a statement tree, and the type re-exports package callers
// commonly need without importing the ast/token packages directly.
//
// Example usage:
//
//	program, errs := coredb.Parse(`CREATE person:1 SET name = 'ada'`)
//	if len(errs) > 0 {
//	    // handle errors
//	}
//	// work with program.Statements
package coredb

import (
	"github.com/driftdb/core/ast"
	"github.com/driftdb/core/lexer"
	"github.com/driftdb/core/parser"
	"github.com/driftdb/core/token"
)

// Parse parses query text and returns the statement tree and any
// parse errors.
func Parse(input string) (*ast.Program, []string) {
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	return program, p.Errors()
}

// Tokenize returns every token the lexer produces for input.
func Tokenize(input string) []token.Token {
	var tokens []token.Token
	l := lexer.New(input)
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}

// Re-export types for convenience.
type (
	Program    = ast.Program
	Statement  = ast.Statement
	Expression = ast.Expression
	Token      = token.Token
)

// Statement types.
type (
	CreateStatement = ast.CreateStatement
	DeleteStatement = ast.DeleteStatement
)

// Expression types.
type (
	Identifier      = ast.Identifier
	RecordID        = ast.RecordID
	NumberLiteral   = ast.NumberLiteral
	StringLiteral   = ast.StringLiteral
	GeometryLiteral = ast.GeometryLiteral
	ObjectLiteral   = ast.ObjectLiteral
)

// Clause types.
type (
	DataClause   = ast.DataClause
	OutputClause = ast.OutputClause
	OutputKind   = ast.OutputKind
)

// Visitor visits every node reached while Walk-ing a statement tree.
type Visitor interface {
	Visit(node ast.Node) Visitor
}

// Walk traverses a statement tree in depth-first order, visiting every
// target, data, and output expression of each CREATE/DELETE statement.
func Walk(v Visitor, node ast.Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *ast.Program:
		for _, stmt := range n.Statements {
			Walk(v, stmt)
		}
	case *ast.CreateStatement:
		walkTargets(v, n.What)
		walkDataClause(v, n.Data)
		walkOutputClause(v, n.Output)
	case *ast.DeleteStatement:
		walkTargets(v, n.What)
		walkDataClause(v, n.Data)
		walkOutputClause(v, n.Output)
	case *ast.ObjectLiteral:
		for _, f := range n.Fields {
			Walk(v, f.Value)
		}
	}
}

func walkTargets(v Visitor, targets []ast.Expression) {
	for _, t := range targets {
		Walk(v, t)
	}
}

func walkDataClause(v Visitor, data *ast.DataClause) {
	if data == nil {
		return
	}
	if data.Content != nil {
		Walk(v, data.Content)
	}
	if data.Merge != nil {
		Walk(v, data.Merge)
	}
	for _, a := range data.Set {
		Walk(v, a.Value)
	}
}

func walkOutputClause(v Visitor, output *ast.OutputClause) {
	if output == nil {
		return
	}
	for _, f := range output.Fields {
		Walk(v, f)
	}
}

// Inspector collects every node of a parsed statement tree for later
// lookup by kind.
type Inspector struct {
	nodes []ast.Node
}

// NewInspector walks program and collects every node it reaches.
func NewInspector(program *ast.Program) *Inspector {
	insp := &Inspector{}
	Walk(collectorVisitor{insp}, program)
	return insp
}

type collectorVisitor struct{ insp *Inspector }

func (c collectorVisitor) Visit(node ast.Node) Visitor {
	c.insp.nodes = append(c.insp.nodes, node)
	return c
}

// FindCreateStatements returns every CREATE statement in the tree.
func (insp *Inspector) FindCreateStatements() []*ast.CreateStatement {
	var stmts []*ast.CreateStatement
	for _, node := range insp.nodes {
		if s, ok := node.(*ast.CreateStatement); ok {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// FindDeleteStatements returns every DELETE statement in the tree.
func (insp *Inspector) FindDeleteStatements() []*ast.DeleteStatement {
	var stmts []*ast.DeleteStatement
	for _, node := range insp.nodes {
		if s, ok := node.(*ast.DeleteStatement); ok {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// FindRecordIDs returns every fully-qualified record reference in the
// tree.
func (insp *Inspector) FindRecordIDs() []*ast.RecordID {
	var ids []*ast.RecordID
	for _, node := range insp.nodes {
		if r, ok := node.(*ast.RecordID); ok {
			ids = append(ids, r)
		}
	}
	return ids
}
