// Package ast defines the syntax tree for wisp programs. The tree is
// produced once by the parser and treated as immutable by every later
// pipeline stage.
package ast

import "fmt"

// Position represents a location in source code.
type Position struct {
	File   string // filename (optional)
	Line   int    // 1-based line number
	Column int    // 1-based column number
}

// String returns a string representation of the position.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	node()         // marker method to ensure type safety
	Pos() Position // returns the source position of the node
}

// Reserved property keys. A node's bind declaration and its seed value are
// directives to the compiler, not attributes of the element.
const (
	BindKey    = "bind"
	InitialKey = "initial"
)

// Program represents a complete .wisp source file: any number of component
// definitions and exactly one app block.
type Program struct {
	Definitions []*ComponentDefinition // in declaration order
	App         *App
	Position    Position
}

func (p *Program) node()         {}
func (p *Program) Pos() Position { return p.Position }

// App represents the root container of a program.
type App struct {
	Props    []*Prop
	Children []Node // Element, If, For
	Position Position
}

func (a *App) node()         {}
func (a *App) Pos() Position { return a.Position }

// ComponentDefinition represents a named, reusable component with a
// parameter list and a markup body.
type ComponentDefinition struct {
	Name     string
	Params   []*Param
	Body     []Node // Element, If, For
	Position Position
}

func (c *ComponentDefinition) node()         {}
func (c *ComponentDefinition) Pos() Position { return c.Position }

// Param represents a declared component parameter with an optional default.
type Param struct {
	Name     string
	Default  *Value // nil when the parameter has no default
	Position Position
}

func (p *Param) node()         {}
func (p *Param) Pos() Position { return p.Position }

// Element represents a markup node: a tag, its properties, and children.
type Element struct {
	Tag      string
	Props    []*Prop
	Children []Node // Element, If, For
	Position Position
}

func (e *Element) node()         {}
func (e *Element) Pos() Position { return e.Position }

// Prop looks up a property value by name. Returns nil if absent.
func (e *Element) Prop(name string) *Value {
	for _, p := range e.Props {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// If represents a conditional block: children render only when the
// condition is truthy. There is no else branch.
type If struct {
	Condition *Value // IdentValue or ExprValue
	Children  []Node
	Position  Position
}

func (i *If) node()         {}
func (i *If) Pos() Position { return i.Position }

// For represents an iteration block over a source expression, binding each
// element to the named loop variable.
type For struct {
	Source   *Value // IdentValue or ExprValue
	Binder   string // loop item variable name
	Children []Node
	Position Position
}

func (f *For) node()         {}
func (f *For) Pos() Position { return f.Position }

// Prop represents a single name: value property on an element or app.
type Prop struct {
	Name     string
	Value    *Value
	Position Position
}

func (p *Prop) node()         {}
func (p *Prop) Pos() Position { return p.Position }

// ValueKind discriminates the shapes a property value can take.
type ValueKind int

const (
	StringValue ValueKind = iota // quoted literal; Text holds the unquoted content
	NumberValue                  // numeric literal; Text holds the source text
	IdentValue                   // bare identifier reference
	ExprValue                    // any other expression; Text holds the raw source
)

// Value represents a property value: a literal string or number, a bare
// identifier, or a free-form expression.
type Value struct {
	Kind     ValueKind
	Text     string
	Position Position
}

func (v *Value) node()         {}
func (v *Value) Pos() Position { return v.Position }

// IsLiteral reports whether the value is a string or number literal.
func (v *Value) IsLiteral() bool {
	return v.Kind == StringValue || v.Kind == NumberValue
}

// IsRef reports whether the value references program identifiers.
func (v *Value) IsRef() bool {
	return v.Kind == IdentValue || v.Kind == ExprValue
}

// literalWords are expression tokens that look like identifiers but never
// name a variable.
var literalWords = map[string]bool{
	"true":      true,
	"false":     true,
	"null":      true,
	"undefined": true,
}

// IsLiteralWord reports whether s is an expression word that never names
// a variable (true, false, null, undefined).
func IsLiteralWord(s string) bool { return literalWords[s] }

// RootIdent returns the leading identifier a reference value reads from:
// the first identifier token in the expression, truncated at any member
// access, call, or index. Literals and expressions that reference nothing
// (e.g. `"a" + "b"`) return "".
func (v *Value) RootIdent() string {
	switch v.Kind {
	case IdentValue:
		return v.Text
	case ExprValue:
		return rootIdent(v.Text)
	}
	return ""
}

func rootIdent(expr string) string {
	runes := []rune(expr)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '"' || ch == '\'' || ch == '`' {
			// Skip string literals wholesale.
			quote := ch
			for i++; i < len(runes) && runes[i] != quote; i++ {
				if runes[i] == '\\' {
					i++
				}
			}
			continue
		}
		if !isIdentStart(ch) {
			continue
		}
		// An identifier run glued to a preceding digit or dot is part of
		// a numeric literal (1e9) or a member access, not a root read.
		if i > 0 && (isDigit(runes[i-1]) || runes[i-1] == '.') {
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			continue
		}
		start := i
		for i < len(runes) && isIdentPart(runes[i]) {
			i++
		}
		name := string(runes[start:i])
		if literalWords[name] {
			continue
		}
		return name
	}
	return ""
}

// IsIdent reports whether s is a simple identifier: a letter or underscore
// followed by letters, digits, or underscores. Bind targets must satisfy
// this shape.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if i == 0 {
			if !isIdentStart(ch) {
				return false
			}
			continue
		}
		if !isIdentPart(ch) {
			return false
		}
	}
	return true
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
