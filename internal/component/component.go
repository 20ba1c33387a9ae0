// Package component implements the validator registry: each known
// component carries a property spec, element property sets are checked
// against it, and specs for user-defined components are synthesized from
// the usage evidence gathered by the analyzer.
package component

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/wisplang/wisp/internal/analyze"
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/schema"
)

// Spec describes the property set one component accepts.
type Spec struct {
	name  string
	props map[string]*schema.Schema
	order []string
}

// NewSpec creates an empty property spec for the named component.
func NewSpec(name string) *Spec {
	return &Spec{name: name, props: map[string]*schema.Schema{}}
}

// Prop declares a property schema. Declaration order is preserved and
// drives validation order.
func (c *Spec) Prop(name string, s *schema.Schema) *Spec {
	if _, ok := c.props[name]; !ok {
		c.order = append(c.order, name)
	}
	c.props[name] = s
	return c
}

// Name returns the component name.
func (c *Spec) Name() string { return c.name }

// Schema returns the schema declared for a property.
func (c *Spec) Schema(prop string) (*schema.Schema, bool) {
	s, ok := c.props[prop]
	return s, ok
}

// Props returns the declared property names in declaration order.
func (c *Spec) Props() []string {
	return append([]string(nil), c.order...)
}

// Required returns the required property names in declaration order.
func (c *Spec) Required() []string {
	var out []string
	for _, name := range c.order {
		if c.props[name].IsRequired() {
			out = append(out, name)
		}
	}
	return out
}

// Optional returns the optional property names in declaration order.
func (c *Spec) Optional() []string {
	var out []string
	for _, name := range c.order {
		if !c.props[name].IsRequired() {
			out = append(out, name)
		}
	}
	return out
}

// UnknownComponentError reports a reference to a component with no
// registered spec, with near-miss suggestions when any exist.
type UnknownComponentError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownComponentError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown component %q", e.Name)
	}
	return fmt.Sprintf("unknown component %q (did you mean %s?)", e.Name, strings.Join(e.Suggestions, " or "))
}

// PropError wraps a schema failure with the component and property that
// produced it.
type PropError struct {
	Component string
	Prop      string
	Err       error
}

func (e *PropError) Error() string {
	return fmt.Sprintf("component %s: property %s: %v", e.Component, e.Prop, e.Err)
}

func (e *PropError) Unwrap() error { return e.Err }

// PropValue is one named property value in source order.
type PropValue struct {
	Name  string
	Value any
}

// Result is a successful validation outcome: the validated values of the
// declared properties, defaults injected, plus a warning per property
// the spec does not declare.
type Result struct {
	Values   map[string]any
	Warnings []string
}

// Validate checks a property list against this spec. Declared properties
// are validated in declaration order and the first failure aborts,
// wrapped as a *PropError. Undeclared properties never block validation;
// each adds a warning to the result.
func (c *Spec) Validate(props []PropValue) (*Result, error) {
	values := make(map[string]any, len(props))
	for _, p := range props {
		values[p.Name] = p.Value
	}

	res := &Result{Values: make(map[string]any, len(c.order))}
	for _, name := range c.order {
		validated, err := c.props[name].Validate(values[name], name)
		if err != nil {
			return nil, &PropError{Component: c.name, Prop: name, Err: err}
		}
		if validated != nil {
			res.Values[name] = validated
		}
	}

	for _, p := range props {
		if _, ok := c.props[p.Name]; ok {
			continue
		}
		msg := fmt.Sprintf("unknown property %q on %s", p.Name, c.name)
		if hints := suggest(p.Name, c.order); len(hints) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", hints[0])
		}
		res.Warnings = append(res.Warnings, msg)
	}
	return res, nil
}

// Registry maps component names to their property specs.
type Registry struct {
	specs map[string]*Spec
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: map[string]*Spec{}}
}

// Register adds a component spec, replacing any existing spec with the
// same name.
func (r *Registry) Register(spec *Spec) {
	if _, ok := r.specs[spec.name]; !ok {
		r.order = append(r.order, spec.name)
	}
	r.specs[spec.name] = spec
}

// Lookup returns the spec registered for a component name.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns the registered component names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Validate checks a property list against the named component's spec.
func (r *Registry) Validate(name string, props []PropValue) (*Result, error) {
	spec, ok := r.Lookup(name)
	if !ok {
		return nil, &UnknownComponentError{Name: name, Suggestions: suggest(name, r.Names())}
	}
	return spec.Validate(props)
}

// ValidateElement validates an element's source properties. The reserved
// binding keys are compiler input, not component properties, and are
// excluded before validation.
func (r *Registry) ValidateElement(el *ast.Element) (*Result, error) {
	props := make([]PropValue, 0, len(el.Props))
	for _, p := range el.Props {
		if p.Name == ast.BindKey || p.Name == ast.InitialKey {
			continue
		}
		props = append(props, PropValue{Name: p.Name, Value: Scalar(p.Value)})
	}
	return r.Validate(el.Tag, props)
}

// Scalar converts a parsed property value into the validation domain:
// string and number literals become Go scalars, everything else becomes
// a reference whose runtime shape is not statically known.
func Scalar(v *ast.Value) any {
	switch v.Kind {
	case ast.StringValue:
		return v.Text
	case ast.NumberValue:
		if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
			return f
		}
	}
	return schema.Ref{Expr: v.Text}
}

// suggest returns up to three close matches for name, best first.
func suggest(name string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)
	out := make([]string, 0, 3)
	for _, rank := range ranks {
		if len(out) == 3 {
			break
		}
		out = append(out, rank.Target)
	}
	return out
}

// Synthesize builds a property spec for a user-defined component from
// the usage evidence of its parameters. The inference is advisory: it
// narrows to the first concrete kind the evidence supports and falls
// back to a required any when there is none.
func Synthesize(def *ast.ComponentDefinition, profiles map[string]analyze.Profile) *Spec {
	spec := NewSpec(def.Name)
	for _, param := range def.Params {
		s := schemaFor(profiles[param.Name])
		if param.Default != nil {
			s.Default(Scalar(param.Default))
		}
		spec.Prop(param.Name, s)
	}
	return spec
}

func schemaFor(p analyze.Profile) *schema.Schema {
	var s *schema.Schema
	switch {
	case p.UsedAsText:
		s = schema.String()
	case p.UsedAsNumber:
		s = schema.Number()
	case p.UsedAsBoolean:
		s = schema.Bool()
	case p.UsedAsArray:
		s = schema.Array(schema.Any())
	case p.UsedAsFunction:
		s = schema.Func()
	default:
		s = schema.Any()
	}
	if !p.HasDefaultValue && !p.ConditionalUsage {
		s.Required()
	}
	return s
}
