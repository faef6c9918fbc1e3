// Package parser implements a recursive-descent parser for the query
// language's value and statement grammar.
package parser

import (
	"fmt"
	"strings"

	"github.com/driftdb/core/ast"
	"github.com/driftdb/core/lexer"
	"github.com/driftdb/core/token"
)

// Operator precedence levels, used by the Pratt-style expression parser
// that handles the right-hand side of SET assignments and object fields.
const (
	_ int = iota
	LOWEST
	COMPARE // =, <>, <, >, <=, >=
	SUM     // +, -
	PRODUCT // *, /
	PREFIX  // -x
)

var precedences = map[token.Type]int{
	token.EQ:       COMPARE,
	token.NEQ:      COMPARE,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.LTE:      COMPARE,
	token.GTE:      COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
}

// maxDepth bounds recursive descent into nested object/geometry literals.
const maxDepth = 64

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser parses tokens into an AST.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	depth int
}

// New creates a new Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifierOrRecordID)
	p.registerPrefix(token.INT, p.parseNumberLiteral)
	p.registerPrefix(token.FLOAT, p.parseNumberLiteral)
	p.registerPrefix(token.FSUFFIX, p.parseNumberLiteral)
	p.registerPrefix(token.DECIMAL, p.parseNumberLiteral)
	p.registerPrefix(token.NAN, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACE, p.parseObjectOrGeometryLiteral)

	p.infixParseFns = make(map[token.Type]infixParseFn)
	for _, t := range []token.Type{token.PLUS, token.MINUS, token.ASTERISK, token.SLASH,
		token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE} {
		p.infixParseFns[t] = p.parseInfixExpression
	}

	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) {
	p.prefixParseFns[t] = fn
}

// Errors returns the accumulated parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) peekError(t token.Type) {
	msg := fmt.Sprintf("line %d, col %d: expected %s, got %s",
		p.peekToken.Line, p.peekToken.Column, t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s",
		p.curToken.Line, p.curToken.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	for p.peekToken.Type == token.COMMENT {
		p.peekToken = p.l.NextToken()
	}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the entire input into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		for p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.curTokenIs(token.EOF) {
			break
		}
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

// parseStatement dispatches on the leading verb. Once a verb is
// recognized, the parse is "cut": a failure past this point is reported
// as an error on that statement rather than falling through to try a
// different production.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.CREATE:
		return p.parseCreateStatement()
	case token.DELETE:
		return p.parseDeleteStatement()
	default:
		p.errorf("unexpected token %s, expected a statement verb", p.curToken.Type)
		return nil
	}
}

// parseWhatList parses the comma-separated list of CREATE/DELETE targets.
func (p *Parser) parseWhatList() []ast.Expression {
	var what []ast.Expression

	what = append(what, p.parseTarget())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		what = append(what, p.parseTarget())
	}
	return what
}

func (p *Parser) parseTarget() ast.Expression {
	if !p.curTokenIs(token.IDENT) {
		p.errorf("expected a table or record target, got %s", p.curToken.Type)
		return nil
	}
	return p.parseIdentifierOrRecordID()
}

func (p *Parser) parseIdentifierOrRecordID() ast.Expression {
	tok := p.curToken
	table := tok.Literal

	if p.peekTokenIs(token.COLON) {
		p.nextToken() // consume ':'
		if !p.peekTokenIs(token.IDENT) && !p.peekTokenIs(token.INT) {
			p.peekError(token.IDENT)
			return nil
		}
		p.nextToken()
		return &ast.RecordID{Token: tok, Table: table, ID: p.curToken.Literal}
	}

	return &ast.Identifier{Token: tok, Value: table}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.NumberLiteral{Token: p.curToken, Kind: p.curToken.Type, Value: p.curToken.Literal}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return &ast.StringLiteral{Token: tok, Value: tok.Literal + right.String()}
}

// parseGroupedExpression parses a parenthesized expression, or the
// `(x, y)` Point shorthand when a comma follows the first operand.
func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.COMMA) {
		return p.parsePointShorthand(tok, exp)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parsePointShorthand(tok token.Token, x ast.Expression) ast.Expression {
	p.nextToken() // consume ','
	p.nextToken()
	y := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	xText, xOK := numericOperandText(x)
	yText, yOK := numericOperandText(y)
	if !xOK || !yOK {
		p.errorf("expected numeric coordinates in point literal")
		return nil
	}
	return &ast.GeometryLiteral{Token: tok, Raw: "(" + xText + ", " + yText + ")"}
}

// numericOperandText extracts a point literal operand's unquoted numeric
// text: the literal value for a NumberLiteral, or the Value of a
// StringLiteral produced by a unary -/+ prefix applied to one (the
// prefix parser folds `- <number>` into a StringLiteral whose Value is
// already the signed numeric text, not a quoted string).
func numericOperandText(expr ast.Expression) (string, bool) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return e.Value, true
	case *ast.StringLiteral:
		return e.Value, true
	default:
		return "", false
	}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.StringLiteral{Token: tok, Value: left.String() + " " + tok.Literal + " " + right.String()}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("no prefix parse function for %s", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

// parseObjectOrGeometryLiteral parses a `{ ... }` document. A document
// whose first field is a quoted or bare "type" key is treated as a
// geometry literal and kept as raw text for the geometry package to
// parse; any other document is an ObjectLiteral.
func (p *Parser) parseObjectOrGeometryLiteral() ast.Expression {
	tok := p.curToken
	p.depth++
	if p.depth > maxDepth {
		p.errorf("object/geometry literal nested too deeply")
		p.depth--
		return nil
	}
	defer func() { p.depth-- }()

	start := p.curToken
	raw, isGeom := p.scanBraceBody()
	if isGeom {
		return &ast.GeometryLiteral{Token: start, Raw: raw}
	}

	return p.parseObjectLiteral(tok, raw)
}

// scanBraceBody consumes a balanced `{ ... }` body (curToken already on
// the opening brace) and returns its raw source text, plus whether the
// first key looks like a GeoJSON "type" discriminant.
func (p *Parser) scanBraceBody() (string, bool) {
	var out strings.Builder
	out.WriteString("{")

	depth := 1
	firstKeySeen := false
	isGeom := false

	p.nextToken()
	for depth > 0 && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.LBRACE) {
			depth++
		} else if p.curTokenIs(token.RBRACE) {
			depth--
			if depth == 0 {
				break
			}
		}
		if !firstKeySeen && (p.curTokenIs(token.IDENT) || p.curTokenIs(token.STRING)) {
			firstKeySeen = true
			if strings.EqualFold(p.curToken.Literal, "type") {
				isGeom = true
			}
		}
		out.WriteString(tokenText(p.curToken))
		out.WriteString(" ")
		p.nextToken()
	}
	out.WriteString("}")
	return out.String(), isGeom
}

func tokenText(t token.Token) string {
	switch t.Type {
	case token.STRING:
		return "\"" + t.Literal + "\""
	default:
		return t.Literal
	}
}

// parseObjectLiteral re-lexes the raw body text collected by
// scanBraceBody into `key: value` fields. Kept as a second pass so the
// geometry/object discrimination above only needs a single token scan.
func (p *Parser) parseObjectLiteral(tok token.Token, raw string) ast.Expression {
	body := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "{"), "}")
	obj := &ast.ObjectLiteral{Token: tok}

	sub := New(lexer.New(body))
	sub.depth = p.depth
	for !sub.curTokenIs(token.EOF) {
		if !sub.curTokenIs(token.IDENT) && !sub.curTokenIs(token.STRING) {
			break
		}
		key := sub.curToken.Literal
		if !sub.expectPeek(token.COLON) {
			break
		}
		sub.nextToken()
		val := sub.parseExpression(LOWEST)
		obj.Fields = append(obj.Fields, ast.ObjectField{Key: key, Value: val})

		if sub.peekTokenIs(token.COMMA) {
			sub.nextToken()
			sub.nextToken()
			continue
		}
		sub.nextToken()
	}
	p.errors = append(p.errors, sub.errors...)
	return obj
}

// parseDataClause parses CONTENT <value>, MERGE <value>, or SET
// field = value [, field = value]*.
func (p *Parser) parseDataClause() *ast.DataClause {
	tok := p.curToken
	clause := &ast.DataClause{Token: tok}

	switch p.curToken.Type {
	case token.CONTENT:
		p.nextToken()
		clause.Content = p.parseExpression(LOWEST)
	case token.MERGE:
		p.nextToken()
		clause.Merge = p.parseExpression(LOWEST)
	case token.SET:
		p.nextToken()
		for {
			if !p.curTokenIs(token.IDENT) {
				p.errorf("expected a field name in SET clause, got %s", p.curToken.Type)
				return clause
			}
			field := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			if !p.expectPeek(token.EQ) {
				return clause
			}
			p.nextToken()
			value := p.parseExpression(LOWEST)
			clause.Set = append(clause.Set, &ast.Assignment{Field: field, Value: value})

			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
			p.nextToken()
		}
	default:
		p.errorf("expected CONTENT, MERGE, or SET, got %s", p.curToken.Type)
	}

	return clause
}

// parseOutputClause parses RETURN NONE|NULL|DIFF|BEFORE|AFTER or an
// explicit field projection list.
func (p *Parser) parseOutputClause() *ast.OutputClause {
	tok := p.curToken
	clause := &ast.OutputClause{Token: tok}

	switch p.peekToken.Type {
	case token.NONE:
		p.nextToken()
		clause.Kind = ast.OutputNone
	case token.NULL:
		p.nextToken()
		clause.Kind = ast.OutputNull
	case token.DIFF:
		p.nextToken()
		clause.Kind = ast.OutputDiff
	case token.BEFORE:
		p.nextToken()
		clause.Kind = ast.OutputBefore
	case token.AFTER:
		p.nextToken()
		clause.Kind = ast.OutputAfter
	case token.IDENT:
		clause.Kind = ast.OutputFields
		p.nextToken()
		clause.Fields = append(clause.Fields, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			clause.Fields = append(clause.Fields, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		}
	default:
		p.peekError(token.IDENT)
	}

	return clause
}

func (p *Parser) parseTimeoutClause() *ast.TimeoutClause {
	tok := p.curToken
	if !p.expectPeek(token.DURATION) {
		return nil
	}
	return &ast.TimeoutClause{Token: tok, Value: p.curToken.Literal}
}

// parseCreateStatement parses `CREATE what [data] [RETURN ...] [TIMEOUT
// ...] [PARALLEL]`.
func (p *Parser) parseCreateStatement() ast.Statement {
	stmt := &ast.CreateStatement{Token: p.curToken}

	p.nextToken()
	stmt.What = p.parseWhatList()

	for {
		switch p.peekToken.Type {
		case token.CONTENT, token.MERGE, token.SET:
			p.nextToken()
			stmt.Data = p.parseDataClause()
		case token.RETURN:
			p.nextToken()
			stmt.Output = p.parseOutputClause()
		case token.TIMEOUT:
			p.nextToken()
			stmt.Timeout = p.parseTimeoutClause()
		case token.PARALLEL:
			p.nextToken()
			stmt.Parallel = true
		default:
			return stmt
		}
	}
}

// parseDeleteStatement parses `DELETE what [data] [RETURN ...] [TIMEOUT
// ...] [PARALLEL]`, mirroring CREATE's clause loop.
func (p *Parser) parseDeleteStatement() ast.Statement {
	stmt := &ast.DeleteStatement{Token: p.curToken}

	p.nextToken()
	stmt.What = p.parseWhatList()

	for {
		switch p.peekToken.Type {
		case token.CONTENT, token.MERGE, token.SET:
			p.nextToken()
			stmt.Data = p.parseDataClause()
		case token.RETURN:
			p.nextToken()
			stmt.Output = p.parseOutputClause()
		case token.TIMEOUT:
			p.nextToken()
			stmt.Timeout = p.parseTimeoutClause()
		case token.PARALLEL:
			p.nextToken()
			stmt.Parallel = true
		default:
			return stmt
		}
	}
}
