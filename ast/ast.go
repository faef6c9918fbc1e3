// Package ast defines the Abstract Syntax Tree nodes for the query language.
package ast

import (
	"strings"

	"github.com/driftdb/core/token"
)

// Node represents a node in the AST.
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents a statement node.
type Statement interface {
	Node
	statementNode()
	// Writeable reports whether executing this statement mutates storage.
	Writeable() bool
}

// Expression represents an expression node.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every parsed query.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out strings.Builder
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString(";\n")
	}
	return out.String()
}

// -----------------------------------------------------------------------------
// Identifiers and literals
// -----------------------------------------------------------------------------

// Identifier names a table, field, or namespace/database component.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// RecordID is a fully qualified record reference, `table:id`.
type RecordID struct {
	Token token.Token
	Table string
	ID    string
}

func (r *RecordID) expressionNode()      {}
func (r *RecordID) TokenLiteral() string { return r.Token.Literal }
func (r *RecordID) String() string       { return r.Table + ":" + r.ID }

// NumberLiteral is a numeric literal tagged with the kind its suffix selects.
type NumberLiteral struct {
	Token token.Token
	Kind  token.Type // token.INT, token.FLOAT, token.FSUFFIX, token.DECIMAL, or token.NAN
	Value string     // the literal exactly as written, suffix included
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string       { return n.Value }

// StringLiteral is a quoted string literal.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return "'" + s.Value + "'" }

// GeometryLiteral holds the raw GeoJSON-style object text of a geometry
// value; the geometry package is responsible for parsing its contents.
type GeometryLiteral struct {
	Token token.Token
	Raw   string
}

func (g *GeometryLiteral) expressionNode()      {}
func (g *GeometryLiteral) TokenLiteral() string { return g.Token.Literal }
func (g *GeometryLiteral) String() string       { return g.Raw }

// ObjectField is one `key: value` pair of an ObjectLiteral.
type ObjectField struct {
	Key   string
	Value Expression
}

// ObjectLiteral is a `{ field: value, ... }` document, used by CONTENT and
// as the shape of a SET clause's right-hand side when it isn't a scalar.
type ObjectLiteral struct {
	Token  token.Token
	Fields []ObjectField
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectLiteral) String() string {
	var parts []string
	for _, f := range o.Fields {
		parts = append(parts, f.Key+": "+f.Value.String())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// -----------------------------------------------------------------------------
// Data clause — CONTENT, MERGE, or SET
// -----------------------------------------------------------------------------

// Assignment is one `field = value` pair of a SET clause.
type Assignment struct {
	Field *Identifier
	Value Expression
}

func (a *Assignment) String() string {
	return a.Field.Value + " = " + a.Value.String()
}

// DataClause carries the CONTENT/MERGE/SET payload of a DML statement.
// Exactly one of Content, Merge, or Set is populated.
type DataClause struct {
	Token   token.Token
	Content Expression
	Merge   Expression
	Set     []*Assignment
}

func (d *DataClause) String() string {
	switch {
	case d.Content != nil:
		return "CONTENT " + d.Content.String()
	case d.Merge != nil:
		return "MERGE " + d.Merge.String()
	case len(d.Set) > 0:
		var parts []string
		for _, a := range d.Set {
			parts = append(parts, a.String())
		}
		return "SET " + strings.Join(parts, ", ")
	default:
		return ""
	}
}

// -----------------------------------------------------------------------------
// Output clause — RETURN NONE|NULL|DIFF|BEFORE|AFTER|<fields>
// -----------------------------------------------------------------------------

// OutputKind selects the projection shape of a RETURN clause.
type OutputKind int

const (
	OutputAfter  OutputKind = iota // default: the record as it stands after the statement
	OutputNone                     // RETURN NONE
	OutputNull                     // RETURN NULL
	OutputDiff                     // RETURN DIFF
	OutputBefore                   // RETURN BEFORE
	OutputFields                   // RETURN <field>, <field>, ...
)

// OutputClause is the RETURN clause of a DML statement.
type OutputClause struct {
	Token  token.Token
	Kind   OutputKind
	Fields []Expression // populated only when Kind == OutputFields
}

func (o *OutputClause) String() string {
	switch o.Kind {
	case OutputNone:
		return "RETURN NONE"
	case OutputNull:
		return "RETURN NULL"
	case OutputDiff:
		return "RETURN DIFF"
	case OutputBefore:
		return "RETURN BEFORE"
	case OutputFields:
		var parts []string
		for _, f := range o.Fields {
			parts = append(parts, f.String())
		}
		return "RETURN " + strings.Join(parts, ", ")
	default:
		return "RETURN AFTER"
	}
}

// -----------------------------------------------------------------------------
// Timeout and Parallel clauses
// -----------------------------------------------------------------------------

// TimeoutClause is the TIMEOUT clause, e.g. `TIMEOUT 5s`.
type TimeoutClause struct {
	Token token.Token
	Value string // duration literal, e.g. "5s"
}

func (t *TimeoutClause) String() string { return "TIMEOUT " + t.Value }

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

// CreateStatement represents a CREATE statement: creates one or more
// records for each target in What.
type CreateStatement struct {
	Token    token.Token
	What     []Expression // Identifier and/or RecordID targets
	Data     *DataClause
	Output   *OutputClause
	Timeout  *TimeoutClause
	Parallel bool
}

func (c *CreateStatement) statementNode()       {}
func (c *CreateStatement) TokenLiteral() string { return c.Token.Literal }
func (c *CreateStatement) Writeable() bool      { return true }

// Single reports whether the statement names exactly one target, and
// that target is an object literal, a record identifier, or a bare
// table name. Otherwise the statement is multi-target.
func (c *CreateStatement) Single() bool { return singleTarget(c.What) }
func (c *CreateStatement) String() string {
	var out strings.Builder
	out.WriteString("CREATE ")

	var what []string
	for _, w := range c.What {
		what = append(what, w.String())
	}
	out.WriteString(strings.Join(what, ", "))

	if c.Data != nil {
		out.WriteString(" ")
		out.WriteString(c.Data.String())
	}
	if c.Output != nil {
		out.WriteString(" ")
		out.WriteString(c.Output.String())
	}
	if c.Timeout != nil {
		out.WriteString(" ")
		out.WriteString(c.Timeout.String())
	}
	if c.Parallel {
		out.WriteString(" PARALLEL")
	}
	return out.String()
}

// DeleteStatement represents a DELETE statement: removes the records
// named by What. Data, if present, is reused only as an optional RETURN
// input value (there is no WHERE-style filter in this grammar).
type DeleteStatement struct {
	Token    token.Token
	What     []Expression
	Data     *DataClause
	Output   *OutputClause
	Timeout  *TimeoutClause
	Parallel bool
}

func (d *DeleteStatement) statementNode()       {}
func (d *DeleteStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DeleteStatement) Writeable() bool      { return true }

// Single reports whether the statement names exactly one target, and
// that target is an object literal, a record identifier, or a bare
// table name. Otherwise the statement is multi-target.
func (d *DeleteStatement) Single() bool { return singleTarget(d.What) }

// singleTarget implements the single-target predicate shared by
// CreateStatement and DeleteStatement.
func singleTarget(what []Expression) bool {
	if len(what) != 1 {
		return false
	}
	switch what[0].(type) {
	case *ObjectLiteral, *RecordID, *Identifier:
		return true
	default:
		return false
	}
}
func (d *DeleteStatement) String() string {
	var out strings.Builder
	out.WriteString("DELETE ")

	var what []string
	for _, w := range d.What {
		what = append(what, w.String())
	}
	out.WriteString(strings.Join(what, ", "))

	if d.Data != nil {
		out.WriteString(" ")
		out.WriteString(d.Data.String())
	}
	if d.Output != nil {
		out.WriteString(" ")
		out.WriteString(d.Output.String())
	}
	if d.Timeout != nil {
		out.WriteString(" ")
		out.WriteString(d.Timeout.String())
	}
	if d.Parallel {
		out.WriteString(" PARALLEL")
	}
	return out.String()
}
