package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/wisplang/wisp/internal/ast"
)

// Lexer tokenizes .wisp source files.
type Lexer struct {
	filename string
	source   string
	pos      int  // current position in source
	readPos  int  // next position to read
	ch       rune // current character
	line     int  // current line (1-based)
	column   int  // current column (1-based)

	// Track the start position of the current token
	tokenLine     int
	tokenColumn   int
	tokenStartPos int

	errors *ErrorList
}

// NewLexer creates a new Lexer for the given source.
func NewLexer(filename, source string) *Lexer {
	l := &Lexer{
		filename: filename,
		source:   source,
		line:     1,
		column:   0,
		errors:   NewErrorList(),
	}
	l.readChar()
	return l
}

// Errors returns any errors encountered during lexing.
func (l *Lexer) Errors() *ErrorList {
	return l.errors
}

// readChar advances to the next character in the source.
func (l *Lexer) readChar() {
	prevWasNewline := l.ch == '\n'

	if l.readPos >= len(l.source) {
		l.ch = 0 // EOF
		l.pos = l.readPos
		if prevWasNewline {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		return
	}

	r, size := utf8.DecodeRuneInString(l.source[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size

	if prevWasNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.readPos:])
	return r
}

// startToken marks the beginning of a new token.
func (l *Lexer) startToken() {
	l.tokenLine = l.line
	l.tokenColumn = l.column
	l.tokenStartPos = l.pos
}

// makeToken creates a token with the current start position.
func (l *Lexer) makeToken(typ TokenType, literal string) Token {
	return Token{
		Type:     typ,
		Literal:  literal,
		Line:     l.tokenLine,
		Column:   l.tokenColumn,
		StartPos: l.tokenStartPos,
	}
}

// position returns the current Position for error reporting.
func (l *Lexer) position() ast.Position {
	return ast.Position{
		File:   l.filename,
		Line:   l.tokenLine,
		Column: l.tokenColumn,
	}
}

// exprRunes are the operator and punctuation runes that may appear inside
// expression values without being part of the wisp grammar proper.
// A single quote is included so expression-mode string literals reach the
// raw reader instead of erroring.
const exprRunes = "+-*/%!&|<>.[]?;'"

// Next returns the next token from the source.
func (l *Lexer) Next() Token {
	l.skipSpace()
	l.startToken()

	switch l.ch {
	case 0:
		return l.makeToken(TokenEOF, "")

	case '(':
		l.readChar()
		return l.makeToken(TokenLParen, "(")

	case ')':
		l.readChar()
		return l.makeToken(TokenRParen, ")")

	case '{':
		l.readChar()
		return l.makeToken(TokenLBrace, "{")

	case '}':
		l.readChar()
		return l.makeToken(TokenRBrace, "}")

	case ':':
		l.readChar()
		return l.makeToken(TokenColon, ":")

	case ',':
		l.readChar()
		return l.makeToken(TokenComma, ",")

	case '=':
		if l.peekChar() == '=' || l.peekChar() == '>' {
			// Comparison or arrow operator: expression territory.
			ch := l.ch
			l.readChar()
			return l.makeToken(TokenOp, string(ch))
		}
		l.readChar()
		return l.makeToken(TokenEquals, "=")

	case '.':
		// Could be a member access or a number like .5
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		l.readChar()
		return l.makeToken(TokenOp, ".")

	case '"':
		return l.readString('"')

	case '`':
		return l.readTemplate()

	default:
		if isLetter(l.ch) || l.ch == '_' {
			return l.readIdentifier()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}
		if strings.ContainsRune(exprRunes, l.ch) {
			ch := l.ch
			l.readChar()
			return l.makeToken(TokenOp, string(ch))
		}

		// Unknown character
		ch := l.ch
		l.readChar()
		l.errors.AddErrorf(l.position(), "unexpected character %q", ch)
		return l.makeToken(TokenError, string(ch))
	}
}

// skipSpace consumes whitespace, newlines, and line comments.
func (l *Lexer) skipSpace() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != 0 && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() Token {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	literal := l.source[start:l.pos]
	return l.makeToken(LookupIdent(literal), literal)
}

// readNumber reads a numeric literal: digits with an optional fraction.
func (l *Lexer) readNumber() Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.makeToken(TokenNumber, l.source[start:l.pos])
}

// readString reads a quoted string literal. The token literal is the
// content between the quotes, kept exactly as written so generated
// output reproduces the source escapes.
func (l *Lexer) readString(quote rune) Token {
	l.readChar() // opening quote
	start := l.pos
	for l.ch != 0 && l.ch != quote && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	if l.ch != quote {
		l.errors.AddError(l.position(), "unterminated string literal")
		return l.makeToken(TokenError, l.source[start:l.pos])
	}
	text := l.source[start:l.pos]
	l.readChar() // closing quote
	return l.makeToken(TokenString, text)
}

// readTemplate reads a backtick template literal as raw expression text,
// backticks included, since it may interpolate.
func (l *Lexer) readTemplate() Token {
	start := l.pos
	l.readChar() // opening backtick
	for l.ch != 0 && l.ch != '`' {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	if l.ch != '`' {
		l.errors.AddError(l.position(), "unterminated template literal")
		return l.makeToken(TokenError, l.source[start:l.pos])
	}
	l.readChar() // closing backtick
	return l.makeToken(TokenExpr, l.source[start:l.pos])
}

// resetTo rewinds the scanner to the start of tok so a value position can
// be re-read as raw expression text.
func (l *Lexer) resetTo(tok Token) {
	l.pos = tok.StartPos
	l.line = tok.Line
	l.column = tok.Column
	if tok.StartPos >= len(l.source) {
		l.ch = 0
		l.readPos = tok.StartPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.source[tok.StartPos:])
	l.ch = r
	l.readPos = tok.StartPos + size
}

// ReadExprUntil collects raw expression text from the current position up
// to the first stop rune that appears outside any nesting and outside
// string literals. The stop rune is not consumed.
func (l *Lexer) ReadExprUntil(stops string) Token {
	l.skipSpace()
	l.startToken()
	start := l.pos
	depth := 0

scan:
	for l.ch != 0 {
		if depth == 0 && strings.ContainsRune(stops, l.ch) {
			break
		}
		switch l.ch {
		case '"', '\'', '`':
			l.skipStringLiteral(l.ch)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				// Unbalanced closer ends the expression.
				break scan
			}
			depth--
		}
		l.readChar()
	}

	text := strings.TrimSpace(l.source[start:l.pos])
	return Token{
		Type:     TokenExpr,
		Literal:  text,
		Line:     l.tokenLine,
		Column:   l.tokenColumn,
		StartPos: start,
	}
}

// skipStringLiteral consumes a complete quoted literal inside an
// expression, including its quotes.
func (l *Lexer) skipStringLiteral(quote rune) {
	l.readChar() // opening quote
	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	if l.ch == quote {
		l.readChar() // closing quote
	} else {
		l.errors.AddError(l.position(), "unterminated string literal in expression")
	}
}

func isLetter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
