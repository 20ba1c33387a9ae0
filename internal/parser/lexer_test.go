package parser

import (
	"testing"
)

func TestLexer_BasicTokens(t *testing.T) {
	type tc struct {
		input    string
		expected []Token
	}

	tests := map[string]tc{
		"empty": {
			input:    "",
			expected: []Token{{Type: TokenEOF, Literal: "", Line: 1, Column: 1}},
		},
		"parens": {
			input: "()",
			expected: []Token{
				{Type: TokenLParen, Literal: "(", Line: 1, Column: 1},
				{Type: TokenRParen, Literal: ")", Line: 1, Column: 2},
				{Type: TokenEOF, Literal: "", Line: 1, Column: 3},
			},
		},
		"braces": {
			input: "{}",
			expected: []Token{
				{Type: TokenLBrace, Literal: "{", Line: 1, Column: 1},
				{Type: TokenRBrace, Literal: "}", Line: 1, Column: 2},
				{Type: TokenEOF, Literal: "", Line: 1, Column: 3},
			},
		},
		"colon and comma": {
			input: ":,",
			expected: []Token{
				{Type: TokenColon, Literal: ":", Line: 1, Column: 1},
				{Type: TokenComma, Literal: ",", Line: 1, Column: 2},
				{Type: TokenEOF, Literal: "", Line: 1, Column: 3},
			},
		},
		"identifier": {
			input: "Button",
			expected: []Token{
				{Type: TokenIdent, Literal: "Button", Line: 1, Column: 1},
				{Type: TokenEOF, Literal: "", Line: 1, Column: 7},
			},
		},
		"keywords": {
			input: "app component if for in",
			expected: []Token{
				{Type: TokenApp, Literal: "app", Line: 1, Column: 1},
				{Type: TokenComponent, Literal: "component", Line: 1, Column: 5},
				{Type: TokenIf, Literal: "if", Line: 1, Column: 15},
				{Type: TokenFor, Literal: "for", Line: 1, Column: 18},
				{Type: TokenIn, Literal: "in", Line: 1, Column: 22},
			},
		},
		"integer": {
			input: "42",
			expected: []Token{
				{Type: TokenNumber, Literal: "42", Line: 1, Column: 1},
			},
		},
		"float": {
			input: "4.5",
			expected: []Token{
				{Type: TokenNumber, Literal: "4.5", Line: 1, Column: 1},
			},
		},
		"leading dot float": {
			input: ".5",
			expected: []Token{
				{Type: TokenNumber, Literal: ".5", Line: 1, Column: 1},
			},
		},
		"string": {
			input: `"hello"`,
			expected: []Token{
				{Type: TokenString, Literal: "hello", Line: 1, Column: 1},
				{Type: TokenEOF, Literal: "", Line: 1, Column: 8},
			},
		},
		"string with escape": {
			input: `"say \"hi\""`,
			expected: []Token{
				{Type: TokenString, Literal: `say \"hi\"`, Line: 1, Column: 1},
			},
		},
		"template literal": {
			input: "`a ${b}`",
			expected: []Token{
				{Type: TokenExpr, Literal: "`a ${b}`", Line: 1, Column: 1},
			},
		},
		"operator runes": {
			input: "+ >",
			expected: []Token{
				{Type: TokenOp, Literal: "+", Line: 1, Column: 1},
				{Type: TokenOp, Literal: ">", Line: 1, Column: 3},
			},
		},
		"equals": {
			input: "=",
			expected: []Token{
				{Type: TokenEquals, Literal: "=", Line: 1, Column: 1},
			},
		},
		"second line": {
			input: "a\nb",
			expected: []Token{
				{Type: TokenIdent, Literal: "a", Line: 1, Column: 1},
				{Type: TokenIdent, Literal: "b", Line: 2, Column: 1},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			l := NewLexer("test.wisp", tt.input)
			for i, expected := range tt.expected {
				tok := l.Next()
				if tok.Type != expected.Type {
					t.Errorf("token %d: Type = %v, want %v", i, tok.Type, expected.Type)
				}
				if tok.Literal != expected.Literal {
					t.Errorf("token %d: Literal = %q, want %q", i, tok.Literal, expected.Literal)
				}
				if tok.Line != expected.Line {
					t.Errorf("token %d: Line = %d, want %d", i, tok.Line, expected.Line)
				}
				if tok.Column != expected.Column {
					t.Errorf("token %d: Column = %d, want %d", i, tok.Column, expected.Column)
				}
			}
		})
	}
}

func TestLexer_SkipsComments(t *testing.T) {
	input := "// heading\nButton // trailing\n42"
	l := NewLexer("test.wisp", input)

	tok := l.Next()
	if tok.Type != TokenIdent || tok.Literal != "Button" {
		t.Fatalf("first token = %v, want Ident(Button)", tok)
	}
	if tok.Line != 2 {
		t.Errorf("Line = %d, want 2", tok.Line)
	}
	tok = l.Next()
	if tok.Type != TokenNumber || tok.Literal != "42" {
		t.Fatalf("second token = %v, want Number(42)", tok)
	}
	if tok.Line != 3 {
		t.Errorf("Line = %d, want 3", tok.Line)
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	l := NewLexer("test.wisp", `"oops`)
	tok := l.Next()
	if tok.Type != TokenError {
		t.Fatalf("Type = %v, want Error", tok.Type)
	}
	if !l.Errors().HasErrors() {
		t.Error("expected a lex error for the unterminated string")
	}
}

func TestLexer_ReadExprUntil(t *testing.T) {
	type tc struct {
		input string
		stops string
		want  string
	}

	tests := map[string]tc{
		"simple": {
			input: "count + 1, x",
			stops: ",)",
			want:  "count + 1",
		},
		"nested call commas": {
			input: "add(a, b), x",
			stops: ",)",
			want:  "add(a, b)",
		},
		"string hides stop": {
			input: `"a,b" + c, x`,
			stops: ",)",
			want:  `"a,b" + c`,
		},
		"brace stop for condition": {
			input: "count > 3 { }",
			stops: "{",
			want:  "count > 3",
		},
		"object literal nests brace": {
			input: "fn({a: 1}), x",
			stops: ",)",
			want:  "fn({a: 1})",
		},
		"arrow function body": {
			input: "() => { go() }, x",
			stops: ",)",
			want:  "() => { go() }",
		},
		"unbalanced closer stops": {
			input: "count), x",
			stops: ",",
			want:  "count",
		},
		"stops at eof": {
			input: "count + 1",
			stops: ",)",
			want:  "count + 1",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			l := NewLexer("test.wisp", tt.input)
			tok := l.ReadExprUntil(tt.stops)
			if tok.Type != TokenExpr {
				t.Errorf("Type = %v, want Expr", tok.Type)
			}
			if tok.Literal != tt.want {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestLexer_ResetTo(t *testing.T) {
	l := NewLexer("test.wisp", "count + 1, next")
	first := l.Next() // count
	l.Next()          // +
	l.Next()          // 1

	l.resetTo(first)
	tok := l.ReadExprUntil(",")
	if tok.Literal != "count + 1" {
		t.Errorf("Literal = %q, want %q", tok.Literal, "count + 1")
	}
	next := l.Next()
	if next.Type != TokenComma {
		t.Errorf("after expr: Type = %v, want Comma", next.Type)
	}
}
