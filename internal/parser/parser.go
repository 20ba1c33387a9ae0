// Package parser turns .wisp source text into the AST consumed by the
// analysis and generation stages. The parser is a hand-written recursive
// descent over a rune lexer; errors accumulate in an ErrorList and the
// parser recovers at construct boundaries instead of stopping at the
// first problem.
package parser

import (
	"github.com/wisplang/wisp/internal/ast"
)

// Parser builds a wisp AST from the token stream.
type Parser struct {
	lex    *Lexer
	cur    Token
	peek   Token
	errors *ErrorList
}

// NewParser creates a parser reading from the given lexer. Lexer and
// parser share one error list so diagnostics stay in source order.
func NewParser(lex *Lexer) *Parser {
	p := &Parser{lex: lex, errors: lex.Errors()}
	p.next()
	p.next()
	return p
}

// Parse tokenizes and parses one source file. The returned error
// aggregates every problem found; the program is nil when parsing fails.
func Parse(filename, source string) (*ast.Program, error) {
	p := NewParser(NewLexer(filename, source))
	prog := p.ParseProgram()
	if err := p.errors.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

// Errors returns the accumulated parse and lex errors.
func (p *Parser) Errors() *ErrorList {
	return p.errors
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) pos(tok Token) ast.Position {
	return ast.Position{File: p.lex.filename, Line: tok.Line, Column: tok.Column}
}

// expect consumes and returns the current token if it has the wanted
// type; otherwise it records an error and leaves the token in place.
func (p *Parser) expect(typ TokenType) (Token, bool) {
	if p.cur.Type != typ {
		p.errors.AddErrorf(p.pos(p.cur), "expected %s, got %s", typ, p.cur.Type)
		return p.cur, false
	}
	tok := p.cur
	p.next()
	return tok, true
}

// ParseProgram parses component definitions and the app block in any
// order. Exactly one app block is required.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Position: p.pos(p.cur)}
	for p.cur.Type != TokenEOF {
		switch p.cur.Type {
		case TokenComponent:
			if def := p.parseDefinition(); def != nil {
				prog.Definitions = append(prog.Definitions, def)
			}
		case TokenApp:
			app := p.parseApp()
			if prog.App == nil {
				prog.App = app
			} else {
				p.errors.AddError(app.Position, "duplicate app block")
			}
		default:
			p.errors.AddErrorf(p.pos(p.cur), "expected component or app, got %s", p.cur.Type)
			p.synchronize()
		}
	}
	if prog.App == nil {
		p.errors.AddError(prog.Position, "program has no app block")
	}
	return prog
}

// synchronize advances to the next top-level construct after an error.
func (p *Parser) synchronize() {
	for p.cur.Type != TokenEOF && p.cur.Type != TokenComponent && p.cur.Type != TokenApp {
		p.next()
	}
}

func (p *Parser) parseDefinition() *ast.ComponentDefinition {
	start := p.cur
	p.next() // component
	name, ok := p.expect(TokenIdent)
	if !ok {
		p.synchronize()
		return nil
	}
	def := &ast.ComponentDefinition{Name: name.Literal, Position: p.pos(start)}
	if _, ok := p.expect(TokenLParen); !ok {
		p.synchronize()
		return nil
	}
	for p.cur.Type != TokenRParen && p.cur.Type != TokenEOF {
		param := p.parseParam()
		if param == nil {
			p.skipTo(TokenRParen)
			break
		}
		def.Params = append(def.Params, param)
		if p.cur.Type == TokenComma {
			p.next()
		}
	}
	p.expect(TokenRParen)
	def.Body = p.parseBlock()
	return def
}

func (p *Parser) parseParam() *ast.Param {
	name, ok := p.expect(TokenIdent)
	if !ok {
		return nil
	}
	param := &ast.Param{Name: name.Literal, Position: p.pos(name)}
	if p.cur.Type == TokenEquals {
		p.next()
		param.Default = p.parseValue(",)")
	}
	return param
}

func (p *Parser) parseApp() *ast.App {
	start := p.cur
	p.next() // app
	app := &ast.App{Position: p.pos(start)}
	if p.cur.Type == TokenLParen {
		app.Props = p.parseProps()
	}
	app.Children = p.parseBlock()
	return app
}

// parseProps parses a parenthesized property list: (name: value, ...).
func (p *Parser) parseProps() []*ast.Prop {
	var props []*ast.Prop
	p.expect(TokenLParen)
	for p.cur.Type != TokenRParen && p.cur.Type != TokenEOF {
		name, ok := p.expect(TokenIdent)
		if !ok {
			p.skipTo(TokenRParen)
			break
		}
		if _, ok := p.expect(TokenColon); !ok {
			p.skipTo(TokenRParen)
			break
		}
		value := p.parseValue(",)")
		props = append(props, &ast.Prop{Name: name.Literal, Value: value, Position: p.pos(name)})
		if p.cur.Type == TokenComma {
			p.next()
		}
	}
	p.expect(TokenRParen)
	return props
}

// parseBlock parses a braced list of markup nodes.
func (p *Parser) parseBlock() []ast.Node {
	var nodes []ast.Node
	if _, ok := p.expect(TokenLBrace); !ok {
		return nil
	}
	for p.cur.Type != TokenRBrace && p.cur.Type != TokenEOF {
		before := p.cur
		node := p.parseNode()
		if node == nil {
			if p.cur == before {
				p.next()
			}
			continue
		}
		nodes = append(nodes, node)
	}
	p.expect(TokenRBrace)
	return nodes
}

func (p *Parser) parseNode() ast.Node {
	switch p.cur.Type {
	case TokenIf:
		return p.parseIf()
	case TokenFor:
		return p.parseFor()
	case TokenIdent:
		return p.parseElement()
	default:
		p.errors.AddErrorf(p.pos(p.cur), "expected element, if, or for, got %s", p.cur.Type)
		return nil
	}
}

func (p *Parser) parseElement() ast.Node {
	tag, _ := p.expect(TokenIdent)
	el := &ast.Element{Tag: tag.Literal, Position: p.pos(tag)}
	if p.cur.Type == TokenLParen {
		el.Props = p.parseProps()
	}
	if p.cur.Type == TokenLBrace {
		el.Children = p.parseBlock()
	}
	return el
}

func (p *Parser) parseIf() ast.Node {
	start := p.cur
	p.next() // if
	cond := p.parseValue("{")
	node := &ast.If{Condition: cond, Position: p.pos(start)}
	node.Children = p.parseBlock()
	return node
}

func (p *Parser) parseFor() ast.Node {
	start := p.cur
	p.next() // for
	binder, ok := p.expect(TokenIdent)
	if !ok {
		p.skipBlock()
		return nil
	}
	if _, ok := p.expect(TokenIn); !ok {
		p.skipBlock()
		return nil
	}
	source := p.parseValue("{")
	node := &ast.For{Binder: binder.Literal, Source: source, Position: p.pos(start)}
	node.Children = p.parseBlock()
	return node
}

// parseValue parses a property value. A string, number, or identifier
// standing alone before a stop token is taken as that literal shape;
// anything else rewinds the lexer and collects raw expression text up to
// the first stop rune.
func (p *Parser) parseValue(stops string) *ast.Value {
	tok := p.cur
	if p.peekTerminates(stops) {
		switch tok.Type {
		case TokenString:
			p.next()
			return &ast.Value{Kind: ast.StringValue, Text: tok.Literal, Position: p.pos(tok)}
		case TokenNumber:
			p.next()
			return &ast.Value{Kind: ast.NumberValue, Text: tok.Literal, Position: p.pos(tok)}
		case TokenIdent:
			p.next()
			if ast.IsLiteralWord(tok.Literal) {
				return &ast.Value{Kind: ast.ExprValue, Text: tok.Literal, Position: p.pos(tok)}
			}
			return &ast.Value{Kind: ast.IdentValue, Text: tok.Literal, Position: p.pos(tok)}
		case TokenExpr:
			// A template literal standing alone.
			p.next()
			return &ast.Value{Kind: ast.ExprValue, Text: tok.Literal, Position: p.pos(tok)}
		}
	}

	// Raw expression: rewind to the first value token and re-read.
	p.lex.resetTo(tok)
	expr := p.lex.ReadExprUntil(stops)
	if expr.Literal == "" {
		p.errors.AddError(p.pos(tok), "empty expression")
	}
	p.cur = p.lex.Next()
	p.peek = p.lex.Next()
	return &ast.Value{Kind: ast.ExprValue, Text: expr.Literal, Position: p.pos(expr)}
}

// peekTerminates reports whether the token after the current one is a
// stop for the value being parsed.
func (p *Parser) peekTerminates(stops string) bool {
	for _, r := range stops {
		if p.peek.Type == stopTokenType(r) {
			return true
		}
	}
	return false
}

func stopTokenType(r rune) TokenType {
	switch r {
	case ',':
		return TokenComma
	case ')':
		return TokenRParen
	case '{':
		return TokenLBrace
	}
	return TokenError
}

// skipTo advances until the given token type, a closing brace, or EOF.
func (p *Parser) skipTo(typ TokenType) {
	for p.cur.Type != typ && p.cur.Type != TokenRBrace && p.cur.Type != TokenEOF {
		p.next()
	}
}

// skipBlock consumes tokens through the next balanced braced block so a
// malformed construct does not cascade errors into its body.
func (p *Parser) skipBlock() {
	for p.cur.Type != TokenLBrace && p.cur.Type != TokenRBrace && p.cur.Type != TokenEOF {
		p.next()
	}
	if p.cur.Type != TokenLBrace {
		return
	}
	depth := 0
	for p.cur.Type != TokenEOF {
		switch p.cur.Type {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
			if depth == 0 {
				p.next()
				return
			}
		}
		p.next()
	}
}
