// Package codegen renders an analyzed program as a JSX module. Output is
// deterministic: identical AST, partition, and tag table always produce
// identical text.
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wisplang/wisp/internal/analyze"
	"github.com/wisplang/wisp/internal/ast"
)

// Generator transforms an analyzed AST into JSX source text.
type Generator struct {
	tags      TagTable
	scan      *analyze.Scan
	partition analyze.Partition
	initials  map[string]*ast.Value

	buf    bytes.Buffer
	indent int

	needState    bool
	needFragment bool
}

// NewGenerator creates a generator for one compilation run.
func NewGenerator(tags TagTable, scan *analyze.Scan, partition analyze.Partition) *Generator {
	g := &Generator{
		tags:      tags,
		scan:      scan,
		partition: partition,
		initials:  make(map[string]*ast.Value, len(partition.Internal)),
	}
	for _, c := range partition.Internal {
		g.initials[c.Name] = c.Initial
	}
	return g
}

// Generate renders the whole program: one exported function per
// component definition in declaration order, then the default-export
// app function.
func (g *Generator) Generate(prog *ast.Program, sourceFile string) string {
	g.buf.Reset()
	g.indent = 0
	g.needState = false
	g.needFragment = false

	for i, def := range prog.Definitions {
		if i > 0 {
			g.writeln("")
		}
		g.generateDefinition(def)
	}
	if prog.App != nil {
		if len(prog.Definitions) > 0 {
			g.writeln("")
		}
		g.generateApp(prog.App)
	}

	var out bytes.Buffer
	out.WriteString("// Code generated by wispc. DO NOT EDIT.\n")
	if sourceFile != "" {
		fmt.Fprintf(&out, "// Source: %s\n", sourceFile)
	}
	out.WriteByte('\n')
	if imports := g.reactImports(); imports != "" {
		out.WriteString(imports)
		out.WriteByte('\n')
	}
	out.Write(g.buf.Bytes())
	return out.String()
}

// reactImports builds the react import line for what the body used.
func (g *Generator) reactImports() string {
	var names []string
	if g.needFragment {
		names = append(names, "Fragment")
	}
	if g.needState {
		names = append(names, "useState")
	}
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("import { %s } from %q;\n", strings.Join(names, ", "), "react")
}

func (g *Generator) generateDefinition(def *ast.ComponentDefinition) {
	g.writef("export function %s(%s) {\n", def.Name, definitionParams(def))
	g.indent++
	g.generateStates(def.Body)
	g.generateReturn(def.Body)
	g.indent--
	g.writeln("}")
}

func (g *Generator) generateApp(app *ast.App) {
	root := &ast.Element{Tag: "App", Props: app.Props, Children: app.Children, Position: app.Position}
	body := []ast.Node{root}

	sig := ""
	if params := g.scan.Params(g.partition); len(params) > 0 {
		sig = "{ " + strings.Join(params, ", ") + " }"
	}
	g.writef("export default function App(%s) {\n", sig)
	g.indent++
	g.generateStates(body)
	g.generateReturn(body)
	g.indent--
	g.writeln("}")
}

// definitionParams renders a definition's parameter list as a props
// destructuring with the declared defaults.
func definitionParams(def *ast.ComponentDefinition) string {
	if len(def.Params) == 0 {
		return ""
	}
	parts := make([]string, len(def.Params))
	for i, p := range def.Params {
		if p.Default != nil {
			parts[i] = fmt.Sprintf("%s = %s", p.Name, jsValue(p.Default))
		} else {
			parts[i] = p.Name
		}
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// generateStates declares the useState pair for every internal bind
// target in this function's subtree, in first-occurrence order.
func (g *Generator) generateStates(body []ast.Node) {
	names := g.internalBinds(body)
	for _, name := range names {
		g.needState = true
		g.writef("const [%s, %s] = useState(%s);\n", name, analyze.SetterName(name), jsValue(g.initials[name]))
	}
	if len(names) > 0 {
		g.writeln("")
	}
}

// internalBinds collects the internal bind targets of a subtree, each
// once, in depth-first pre-order.
func (g *Generator) internalBinds(body []ast.Node) []string {
	var names []string
	seen := make(map[string]bool)

	var scan func(nodes []ast.Node)
	scan = func(nodes []ast.Node) {
		for _, node := range nodes {
			switch n := node.(type) {
			case *ast.Element:
				if name, ok := bindTarget(n); ok && g.partition.IsInternal(name) && !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
				scan(n.Children)
			case *ast.If:
				scan(n.Children)
			case *ast.For:
				scan(n.Children)
			}
		}
	}
	scan(body)
	return names
}

func (g *Generator) generateReturn(body []ast.Node) {
	if len(body) == 0 {
		g.writeln("return null;")
		return
	}
	g.writeln("return (")
	g.indent++
	g.generateGroup(body)
	g.indent--
	g.writeln(");")
}

// generateGroup renders a node list as a single expression, wrapping
// multiple children in a fragment.
func (g *Generator) generateGroup(nodes []ast.Node) {
	switch len(nodes) {
	case 0:
		g.writeln("null")
	case 1:
		g.generateNode(nodes[0])
	default:
		g.writeln("<>")
		g.indent++
		for _, node := range nodes {
			g.generateNode(node)
		}
		g.indent--
		g.writeln("</>")
	}
}

func (g *Generator) generateNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Element:
		g.generateElement(n, "")
	case *ast.If:
		g.generateIf(n)
	case *ast.For:
		g.generateFor(n)
	}
}

// generateElement renders one element. A non-empty key is injected as
// the leading attribute for loop iterations.
func (g *Generator) generateElement(el *ast.Element, key string) {
	tag := g.tags.Translate(el.Tag)
	attrs := g.attributes(el, key)
	text := el.Prop("text")

	if len(el.Children) == 0 {
		if text == nil {
			g.writef("<%s%s />\n", tag, attrs)
			return
		}
		g.writef("<%s%s>%s</%s>\n", tag, attrs, textContent(text), tag)
		return
	}

	g.writef("<%s%s>\n", tag, attrs)
	g.indent++
	if text != nil {
		g.writeln(textContent(text))
	}
	for _, child := range el.Children {
		g.generateNode(child)
	}
	g.indent--
	g.writef("</%s>\n", tag)
}

// generateIf renders a conditional block as a guarded expression.
func (g *Generator) generateIf(n *ast.If) {
	g.writef("{%s ? (\n", n.Condition.Text)
	g.indent++
	g.generateGroup(n.Children)
	g.indent--
	g.writeln(") : null}")
}

// generateFor renders an iteration block as a mapping expression with a
// stable per-iteration key.
func (g *Generator) generateFor(n *ast.For) {
	g.writef("{%s.map((%s, index) => (\n", n.Source.Text, n.Binder)
	g.indent++
	g.generateLoopBody(n)
	g.indent--
	g.writeln("))}")
}

func (g *Generator) generateLoopBody(n *ast.For) {
	if len(n.Children) == 1 {
		if el, ok := n.Children[0].(*ast.Element); ok {
			g.generateElement(el, loopKey(el))
			return
		}
	}
	if len(n.Children) == 0 {
		g.writeln("null")
		return
	}
	g.needFragment = true
	g.writef("<Fragment key={index}>\n")
	g.indent++
	for _, child := range n.Children {
		g.generateNode(child)
	}
	g.indent--
	g.writeln("</Fragment>")
}

// loopKey picks the per-iteration key: the element's id property when it
// is a reference, else the positional index.
func loopKey(el *ast.Element) string {
	if id := el.Prop("id"); id != nil && id.IsRef() {
		return id.Text
	}
	return "index"
}

// attributes renders the element's attribute list: declared properties
// in source order with text and the binding keys excluded, then the
// value/onChange wiring for a bound element.
func (g *Generator) attributes(el *ast.Element, key string) string {
	var b strings.Builder
	if key != "" {
		fmt.Fprintf(&b, " key={%s}", key)
	}
	for _, prop := range el.Props {
		switch prop.Name {
		case "text", ast.BindKey, ast.InitialKey:
			continue
		}
		fmt.Fprintf(&b, " %s=%s", prop.Name, attrValue(prop))
	}
	if name, ok := bindTarget(el); ok {
		fmt.Fprintf(&b, " value={%s} onChange={(e) => %s(e.target.value)}", name, analyze.SetterName(name))
	}
	return b.String()
}

// bindTarget returns the element's bind target when it is a usable
// simple identifier. Malformed targets were already reported by the
// analyzer; here the element is simply treated as unbound.
func bindTarget(el *ast.Element) (string, bool) {
	v := el.Prop(ast.BindKey)
	if v == nil || v.Kind != ast.IdentValue || !ast.IsIdent(v.Text) {
		return "", false
	}
	return v.Text, true
}

// attrValue renders one attribute value. String literals quote; numbers
// and references interpolate. Event-role keys always take callable
// references, never quoted strings.
func attrValue(prop *ast.Prop) string {
	v := prop.Value
	if v.Kind == ast.StringValue && !analyze.IsEventKey(prop.Name) {
		return `"` + v.Text + `"`
	}
	return "{" + v.Text + "}"
}

// textContent renders the inline content of a text property: literals
// stay plain text, references interpolate.
func textContent(v *ast.Value) string {
	if v.IsLiteral() {
		return v.Text
	}
	return "{" + v.Text + "}"
}

// jsValue renders a property value as a JavaScript expression. Absent
// values seed as the empty string.
func jsValue(v *ast.Value) string {
	if v == nil {
		return `""`
	}
	if v.Kind == ast.StringValue {
		return `"` + v.Text + `"`
	}
	return v.Text
}

func (g *Generator) writef(format string, args ...any) {
	g.writeIndent()
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *Generator) writeln(s string) {
	if s == "" {
		g.buf.WriteByte('\n')
		return
	}
	g.writeIndent()
	g.buf.WriteString(s)
	g.buf.WriteByte('\n')
}

func (g *Generator) writeIndent() {
	for i := 0; i < g.indent; i++ {
		g.buf.WriteString("  ")
	}
}
