// Package analyze implements the static passes that run between parsing
// and code generation: the whole-program binding classification that
// decides which bound variables are internal state versus caller-supplied
// props, and the per-parameter usage profiling that drives schema
// synthesis for user-defined components.
package analyze

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/wisplang/wisp/internal/ast"
)

// Candidate is a bind-annotated identifier with its declared seed value.
type Candidate struct {
	Name     string
	Initial  *ast.Value // nil means seed with the empty string
	Position ast.Position
}

// Warning is a non-fatal diagnostic produced during analysis.
type Warning struct {
	Position ast.Position
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Position, w.Message)
}

// Scan is the result of the single whole-program collection pass: every
// root identifier referenced anywhere, every bind candidate in
// first-encounter order, and any warnings raised along the way.
type Scan struct {
	Used       map[string]bool
	Candidates []Candidate
	Warnings   []Warning
}

// Collect walks the whole program once, depth-first pre-order, visiting
// each node's properties, then its condition or loop source and binder,
// then its children. Definition bodies are visited before the app body.
// Non-reserved property values contribute their root identifier to the
// used set; a bind property instead registers a candidate, after checking
// that its target is a simple identifier. Malformed targets raise a
// warning and the node is treated as unbound.
func Collect(prog *ast.Program) *Scan {
	s := &Scan{Used: make(map[string]bool)}
	seen := make(map[string]bool)

	var scan func(nodes []ast.Node)
	scan = func(nodes []ast.Node) {
		for _, node := range nodes {
			switch n := node.(type) {
			case *ast.Element:
				collectProps(s, seen, n.Props)
				scan(n.Children)
			case *ast.If:
				if name := n.Condition.RootIdent(); name != "" {
					s.Used[name] = true
				}
				scan(n.Children)
			case *ast.For:
				if name := n.Source.RootIdent(); name != "" {
					s.Used[name] = true
				}
				s.Used[n.Binder] = true
				scan(n.Children)
			}
		}
	}

	for _, def := range prog.Definitions {
		scan(def.Body)
	}
	if prog.App != nil {
		collectProps(s, seen, prog.App.Props)
		scan(prog.App.Children)
	}
	return s
}

// collectProps visits one node's property list: non-reserved values
// contribute their root identifier, a bind property registers a candidate
// seeded from the sibling initial property.
func collectProps(s *Scan, seen map[string]bool, props []*ast.Prop) {
	var bind *ast.Prop
	var initial *ast.Value
	for _, prop := range props {
		switch prop.Name {
		case ast.BindKey:
			bind = prop
		case ast.InitialKey:
			initial = prop.Value
		default:
			if name := prop.Value.RootIdent(); name != "" {
				s.Used[name] = true
			}
		}
	}
	if bind == nil {
		return
	}
	v := bind.Value
	if v.Kind != ast.IdentValue || !ast.IsIdent(v.Text) {
		s.Warnings = append(s.Warnings, Warning{
			Position: bind.Position,
			Message:  fmt.Sprintf("bind target %q is not a simple identifier; ignoring bind", v.Text),
		})
		return
	}
	if seen[v.Text] {
		return
	}
	seen[v.Text] = true
	s.Candidates = append(s.Candidates, Candidate{
		Name:     v.Text,
		Initial:  initial,
		Position: bind.Position,
	})
}

// Partition is the disjoint classification of every bind candidate.
type Partition struct {
	Internal []Candidate // compiler declares the state pair
	External []Candidate // caller supplies value and setter
}

// Partition reduces the scan to the classification: a candidate is
// external if and only if both its bare name and its setter name are
// referenced elsewhere in the program, meaning the caller is evidently
// already passing both down. Everything else is internal state.
func (s *Scan) Partition() Partition {
	var p Partition
	for _, c := range s.Candidates {
		if s.Used[c.Name] && s.Used[SetterName(c.Name)] {
			p.External = append(p.External, c)
		} else {
			p.Internal = append(p.Internal, c)
		}
	}
	return p
}

// IsInternal reports whether name is a bind target classified as
// internal state.
func (p Partition) IsInternal(name string) bool {
	for _, c := range p.Internal {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Params returns the generated function's parameter list: every
// referenced identifier minus the internal state variables and their
// setters, sorted lexicographically for reproducibility.
func (s *Scan) Params(p Partition) []string {
	drop := make(map[string]bool, 2*len(p.Internal))
	for _, c := range p.Internal {
		drop[c.Name] = true
		drop[SetterName(c.Name)] = true
	}
	params := make([]string, 0, len(s.Used))
	for name := range s.Used {
		if !drop[name] {
			params = append(params, name)
		}
	}
	sort.Strings(params)
	return params
}

// SetterName returns the updater name paired with a bound variable:
// "set" plus the name with its first letter capitalized.
func SetterName(name string) string {
	if name == "" {
		return "set"
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return "set" + string(runes)
}
