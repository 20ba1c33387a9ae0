package parser

import "fmt"

// TokenType identifies the type of a lexical token.
type TokenType int

const (
	TokenError TokenType = iota // lexing error
	TokenEOF                    // end of file

	TokenIdent  // identifier: name, Button
	TokenString // string literal: "hello"
	TokenNumber // numeric literal: 42, 4.5
	TokenExpr   // raw expression text collected at a value position

	TokenLParen // (
	TokenRParen // )
	TokenLBrace // {
	TokenRBrace // }
	TokenColon  // :
	TokenComma  // ,
	TokenEquals // =
	TokenOp     // any other operator or punctuation rune

	TokenApp       // app
	TokenComponent // component
	TokenIf        // if
	TokenFor       // for
	TokenIn        // in
)

var tokenNames = map[TokenType]string{
	TokenError:     "Error",
	TokenEOF:       "EOF",
	TokenIdent:     "Ident",
	TokenString:    "String",
	TokenNumber:    "Number",
	TokenExpr:      "Expr",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenColon:     ":",
	TokenComma:     ",",
	TokenEquals:    "=",
	TokenOp:        "Op",
	TokenApp:       "app",
	TokenComponent: "component",
	TokenIf:        "if",
	TokenFor:       "for",
	TokenIn:        "in",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(t))
}

// Token represents a lexical token with its source position.
type Token struct {
	Type     TokenType
	Literal  string
	Line     int // 1-based line number
	Column   int // 1-based column number
	StartPos int // byte offset where the token starts
}

// String returns a string representation of the token for debugging.
func (t Token) String() string {
	literal := t.Literal
	if len(literal) > 20 {
		literal = literal[:20] + "..."
	}
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, literal, t.Line, t.Column)
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"app":       TokenApp,
	"component": TokenComponent,
	"if":        TokenIf,
	"for":       TokenFor,
	"in":        TokenIn,
}

// LookupIdent returns the token type for an identifier, checking keywords.
func LookupIdent(ident string) TokenType {
	if typ, ok := keywords[ident]; ok {
		return typ
	}
	return TokenIdent
}
