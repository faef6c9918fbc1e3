// Package lexer implements a lexical scanner for the query language.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/driftdb/core/token"
)

// Lexer scans source text into a stream of tokens.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += size
	}
	l.column++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '+':
		tok = l.newToken(token.PLUS, string(l.ch))
	case '-':
		if l.peekChar() == '-' {
			tok.Type = token.COMMENT
			tok.Literal = l.readLineComment()
			return tok
		}
		tok = l.newToken(token.MINUS, string(l.ch))
	case '*':
		tok = l.newToken(token.ASTERISK, string(l.ch))
	case '/':
		if l.peekChar() == '*' {
			tok.Type = token.COMMENT
			tok.Literal = l.readBlockComment()
			return tok
		}
		tok = l.newToken(token.SLASH, string(l.ch))
	case '=':
		tok = l.newToken(token.EQ, string(l.ch))
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.NEQ, "!=")
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case '<':
		if l.peekChar() == '>' {
			l.readChar()
			tok = l.newToken(token.NEQ, "<>")
		} else if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.LTE, "<=")
		} else {
			tok = l.newToken(token.LT, string(l.ch))
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.GTE, ">=")
		} else {
			tok = l.newToken(token.GT, string(l.ch))
		}
	case ',':
		tok = l.newToken(token.COMMA, string(l.ch))
	case ';':
		tok = l.newToken(token.SEMICOLON, string(l.ch))
	case '(':
		tok = l.newToken(token.LPAREN, string(l.ch))
	case ')':
		tok = l.newToken(token.RPAREN, string(l.ch))
	case '[':
		tok = l.newToken(token.LBRACKET, string(l.ch))
	case ']':
		tok = l.newToken(token.RBRACKET, string(l.ch))
	case '{':
		tok = l.newToken(token.LBRACE, string(l.ch))
	case '}':
		tok = l.newToken(token.RBRACE, string(l.ch))
	case ':':
		tok = l.newToken(token.COLON, string(l.ch))
	case '.':
		if isDigit(l.peekChar()) {
			tok.Type = token.FLOAT
			tok.Literal = l.readFloatFromDot()
			return tok
		}
		tok = l.newToken(token.DOT, string(l.ch))
	case '\'':
		tok.Type = token.STRING
		tok.Literal = l.readQuoted('\'')
		return tok
	case '"':
		tok.Type = token.STRING
		tok.Literal = l.readQuoted('"')
		return tok
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
	default:
		if isDigit(l.ch) {
			tok.Literal, tok.Type = l.readNumber()
			return tok
		} else if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(strings.ToUpper(tok.Literal))
			return tok
		}
		tok = l.newToken(token.ILLEGAL, string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType token.Type, literal string) token.Token {
	return token.Token{
		Type:    tokenType,
		Literal: literal,
		Line:    l.line,
		Column:  l.column,
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer or float literal, including the trailing
// `f` (explicit float) or `dec` (decimal) kind suffix.
func (l *Lexer) readNumber() (string, token.Type) {
	position := l.position
	tokenType := token.INT

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		tokenType = token.FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		tokenType = token.FLOAT
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'f' {
		tokenType = token.FSUFFIX
		l.readChar()
		return l.input[position:l.position], tokenType
	}

	if l.ch == 'd' && l.peekChar() == 'e' {
		savedPos, savedReadPos, savedCh, savedLine, savedCol := l.position, l.readPosition, l.ch, l.line, l.column
		l.readChar()
		if l.ch == 'e' {
			l.readChar()
			if l.ch == 'c' {
				l.readChar()
				tokenType = token.DECIMAL
				return l.input[position:l.position], tokenType
			}
		}
		l.position, l.readPosition, l.ch, l.line, l.column = savedPos, savedReadPos, savedCh, savedLine, savedCol
	}

	if tokenType == token.INT && isLetter(l.ch) {
		savedPos, savedReadPos, savedCh, savedLine, savedCol := l.position, l.readPosition, l.ch, l.line, l.column
		unitStart := l.position
		for isLetter(l.ch) {
			l.readChar()
		}
		switch l.input[unitStart:l.position] {
		case "ns", "us", "ms", "s", "m", "h", "d", "w", "y":
			tokenType = token.DURATION
		default:
			l.position, l.readPosition, l.ch, l.line, l.column = savedPos, savedReadPos, savedCh, savedLine, savedCol
		}
	}

	return l.input[position:l.position], tokenType
}

func (l *Lexer) readFloatFromDot() string {
	position := l.position
	l.readChar()
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

func (l *Lexer) readQuoted(quote rune) string {
	var result strings.Builder
	l.readChar() // consume opening quote

	for {
		if l.ch == quote {
			if l.peekChar() == quote {
				result.WriteRune(l.ch)
				l.readChar()
				l.readChar()
			} else {
				l.readChar()
				break
			}
		} else if l.ch == 0 {
			break
		} else {
			result.WriteRune(l.ch)
			l.readChar()
		}
	}

	return result.String()
}

func (l *Lexer) readLineComment() string {
	position := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readBlockComment() string {
	position := l.position
	l.readChar() // consume /
	l.readChar() // consume *

	for {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		} else if l.ch == 0 {
			break
		}
		l.readChar()
	}

	return l.input[position:l.position]
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input as a slice.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token

	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	return tokens
}
