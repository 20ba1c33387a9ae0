package analyze

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/wisplang/wisp/internal/ast"
)

// Profile records the evidence of how a component parameter is used
// across a definition body. Multiple flags may be set by different
// properties; each property contributes at most one flag.
type Profile struct {
	UsedAsText       bool
	UsedAsNumber     bool
	UsedAsBoolean    bool
	UsedAsArray      bool
	UsedAsFunction   bool
	HasDefaultValue  bool
	ConditionalUsage bool
}

// booleanKeys are property names that signal a boolean role for their
// value regardless of the value's shape.
var booleanKeys = map[string]bool{
	"disabled": true,
	"checked":  true,
	"required": true,
	"readonly": true,
	"hidden":   true,
	"selected": true,
}

// IsEventKey reports whether a property name follows the handler naming
// convention: an "on" prefix followed by a capitalized event name.
func IsEventKey(name string) bool {
	if len(name) < 3 || !strings.HasPrefix(name, "on") {
		return false
	}
	return unicode.IsUpper(rune(name[2]))
}

// IsBooleanKey reports whether a property name signals a boolean role.
func IsBooleanKey(name string) bool {
	return booleanKeys[name]
}

// matcher holds the per-parameter patterns a usage fold tests
// expressions against.
type matcher struct {
	param string
	ident *regexp.Regexp // the parameter as a whole word
	array *regexp.Regexp // array-indicative member suffix
	text  *regexp.Regexp // string-conversion suffix
	call  *regexp.Regexp // call invocation
}

func newMatcher(param string) matcher {
	q := regexp.QuoteMeta(param)
	return matcher{
		param: param,
		ident: regexp.MustCompile(`\b` + q + `\b`),
		array: regexp.MustCompile(`\b` + q + `\.(map|filter|length)\b`),
		text:  regexp.MustCompile(`\b` + q + `\.toString\b`),
		call:  regexp.MustCompile(`\b` + q + `\s*\(`),
	}
}

func (m matcher) refersTo(v *ast.Value) bool {
	switch v.Kind {
	case ast.IdentValue:
		return v.Text == m.param
	case ast.ExprValue:
		return m.ident.MatchString(v.Text)
	}
	return false
}

// Usage folds over a definition body and records how the named parameter
// is used. The fold is pure: it reads the subtree and nothing else.
// HasDefaultValue comes from the declaration, not the body; Profiles
// fills it in.
func Usage(param string, body []ast.Node) Profile {
	var p Profile
	m := newMatcher(param)

	var scan func(nodes []ast.Node)
	scan = func(nodes []ast.Node) {
		for _, node := range nodes {
			switch n := node.(type) {
			case *ast.Element:
				for _, prop := range n.Props {
					if prop.Name == ast.BindKey || prop.Name == ast.InitialKey {
						continue
					}
					applyProp(&p, m, prop)
				}
				scan(n.Children)
			case *ast.If:
				if m.refersTo(n.Condition) {
					p.ConditionalUsage = true
				}
				scan(n.Children)
			case *ast.For:
				if n.Source.RootIdent() == param {
					p.UsedAsArray = true
				}
				scan(n.Children)
			}
		}
	}
	scan(body)
	return p
}

// applyProp matches one property against the pattern rules in priority
// order; the first matching rule sets the property's single flag.
func applyProp(p *Profile, m matcher, prop *ast.Prop) {
	v := prop.Value
	switch {
	case prop.Name == "text" && v.Kind == ast.IdentValue && v.Text == m.param:
		p.UsedAsText = true
	case IsEventKey(prop.Name) && m.refersTo(v):
		p.UsedAsFunction = true
	case IsBooleanKey(prop.Name) && m.refersTo(v):
		p.UsedAsBoolean = true
	case v.Kind == ast.ExprValue && m.ident.MatchString(v.Text):
		applyExpr(p, m, v.Text)
	}
}

// applyExpr classifies a compound expression that mentions the
// parameter, most specific evidence first.
func applyExpr(p *Profile, m matcher, expr string) {
	switch {
	case m.array.MatchString(expr):
		p.UsedAsArray = true
	case m.text.MatchString(expr):
		p.UsedAsText = true
	case hasComparison(expr):
		p.UsedAsBoolean = true
	case m.call.MatchString(expr):
		p.UsedAsFunction = true
	case hasArithmetic(expr):
		p.UsedAsNumber = true
	}
}

// hasComparison reports whether the expression contains an equality or
// ordering operator. Arrow functions are stripped first so that "=>"
// does not read as a comparison.
func hasComparison(expr string) bool {
	expr = strings.ReplaceAll(expr, "=>", " ")
	for _, op := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if strings.Contains(expr, op) {
			return true
		}
	}
	return false
}

// hasArithmetic reports whether the expression combines its operands
// arithmetically. "+" counts only when no string literal is present,
// since it otherwise reads as concatenation.
func hasArithmetic(expr string) bool {
	for _, op := range []string{"-", "*", "/", "%"} {
		if strings.Contains(expr, op) {
			return true
		}
	}
	if strings.Contains(expr, "+") {
		return !strings.ContainsAny(expr, `"'`)
	}
	return false
}

// Profiles computes the usage profile of every declared parameter of a
// component definition, including the declaration-derived default flag.
func Profiles(def *ast.ComponentDefinition) map[string]Profile {
	out := make(map[string]Profile, len(def.Params))
	for _, param := range def.Params {
		p := Usage(param.Name, def.Body)
		p.HasDefaultValue = param.Default != nil
		out[param.Name] = p
	}
	return out
}
