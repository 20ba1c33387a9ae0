// Package schema implements the value-shape validators that component
// property sets are checked against. A Schema describes one of nine kinds
// with kind-specific constraints plus required/default semantics; composite
// kinds (array, object, union) own child schemas. Schemas are built once,
// by the chainable constructors, and never mutated after registration.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"unicode/utf8"
)

// Kind identifies the shape a schema accepts.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindFunc    Kind = "function"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindEnum    Kind = "enum"
	KindUnion   Kind = "union"
	KindAny     Kind = "any"
)

// Ref is a reference value: an identifier or expression from the source
// program whose runtime shape is not statically known. A Ref conforms to
// every kind, and is the only value that conforms to the function kind.
type Ref struct {
	Expr string
}

// Schema is an immutable descriptor of an acceptable value shape.
type Schema struct {
	kind       Kind
	required   bool
	defValue   any
	hasDefault bool

	minLen  *int
	maxLen  *int
	pattern *regexp.Regexp

	min     *float64
	max     *float64
	integer bool

	item     *Schema
	minItems *int
	maxItems *int

	props     map[string]*Schema
	propOrder []string

	allowed []any

	alts []*Schema
}

// String returns a schema accepting string values.
func String() *Schema { return &Schema{kind: KindString} }

// Number returns a schema accepting numeric values.
func Number() *Schema { return &Schema{kind: KindNumber} }

// Bool returns a schema accepting boolean values.
func Bool() *Schema { return &Schema{kind: KindBoolean} }

// Func returns a schema accepting callable references.
func Func() *Schema { return &Schema{kind: KindFunc} }

// Array returns a schema accepting arrays. A nil item schema leaves
// elements unchecked.
func Array(item *Schema) *Schema { return &Schema{kind: KindArray, item: item} }

// Object returns a schema accepting objects; declare properties with Prop.
func Object() *Schema { return &Schema{kind: KindObject, props: map[string]*Schema{}} }

// Enum returns a schema accepting exactly the given values.
func Enum(values ...any) *Schema { return &Schema{kind: KindEnum, allowed: values} }

// Union returns a schema trying each alternative in declaration order.
// The first alternative that accepts a value wins, so order alternatives
// from most to least specific.
func Union(alts ...*Schema) *Schema { return &Schema{kind: KindUnion, alts: alts} }

// Any returns a schema accepting every value.
func Any() *Schema { return &Schema{kind: KindAny} }

// Required marks the schema's value as mandatory.
func (s *Schema) Required() *Schema { s.required = true; return s }

// Default sets the value returned when an optional value is absent.
func (s *Schema) Default(v any) *Schema { s.defValue = v; s.hasDefault = true; return s }

// MinLen sets the minimum string length in runes.
func (s *Schema) MinLen(n int) *Schema { s.minLen = &n; return s }

// MaxLen sets the maximum string length in runes.
func (s *Schema) MaxLen(n int) *Schema { s.maxLen = &n; return s }

// Pattern sets a regular expression the full string must match.
// The expression must compile; invalid patterns panic at registration.
func (s *Schema) Pattern(expr string) *Schema { s.pattern = regexp.MustCompile(expr); return s }

// Min sets the minimum numeric value, inclusive.
func (s *Schema) Min(v float64) *Schema { s.min = &v; return s }

// Max sets the maximum numeric value, inclusive.
func (s *Schema) Max(v float64) *Schema { s.max = &v; return s }

// Integer requires the numeric value to have no fractional part.
func (s *Schema) Integer() *Schema { s.integer = true; return s }

// MinItems sets the minimum array length.
func (s *Schema) MinItems(n int) *Schema { s.minItems = &n; return s }

// MaxItems sets the maximum array length.
func (s *Schema) MaxItems(n int) *Schema { s.maxItems = &n; return s }

// Prop declares an object property. Declaration order is preserved and
// drives validation order.
func (s *Schema) Prop(name string, sub *Schema) *Schema {
	if _, ok := s.props[name]; !ok {
		s.propOrder = append(s.propOrder, name)
	}
	s.props[name] = sub
	return s
}

// Kind returns the schema's kind.
func (s *Schema) Kind() Kind { return s.kind }

// IsRequired reports whether the schema's value is mandatory.
func (s *Schema) IsRequired() bool { return s.required }

// DefaultValue returns the declared default and whether one was set.
func (s *Schema) DefaultValue() (any, bool) { return s.defValue, s.hasDefault }

// Validate checks value against the schema. On success it returns the
// value unchanged (or the default for an absent optional value); on
// failure it returns a *Error carrying path and value. Absent values are
// passed as nil.
func (s *Schema) Validate(value any, path string) (any, error) {
	if value == nil {
		if s.required {
			return nil, newError(CodeMissingRequired, path, nil, "missing required value")
		}
		return s.defValue, nil
	}

	switch s.kind {
	case KindAny:
		return value, nil
	case KindFunc:
		if _, ok := value.(Ref); !ok {
			return nil, newError(CodeTypeMismatch, path, value, "expected function, got %s", kindOf(value))
		}
		return value, nil
	case KindUnion:
		return s.validateUnion(value, path)
	}

	// A reference's runtime shape is unknowable statically; it conforms
	// to every remaining kind and skips constraint checks.
	if _, ok := value.(Ref); ok {
		return value, nil
	}

	switch s.kind {
	case KindString:
		return s.validateString(value, path)
	case KindNumber:
		return s.validateNumber(value, path)
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return nil, newError(CodeTypeMismatch, path, value, "expected boolean, got %s", kindOf(value))
		}
		return value, nil
	case KindArray:
		return s.validateArray(value, path)
	case KindObject:
		return s.validateObject(value, path)
	case KindEnum:
		return s.validateEnum(value, path)
	}
	return value, nil
}

func (s *Schema) validateString(value any, path string) (any, error) {
	v, ok := value.(string)
	if !ok {
		return nil, newError(CodeTypeMismatch, path, value, "expected string, got %s", kindOf(value))
	}
	n := utf8.RuneCountInString(v)
	if s.minLen != nil && n < *s.minLen {
		return nil, newError(CodeConstraintViolation, path, value, "length %d below minimum %d", n, *s.minLen)
	}
	if s.maxLen != nil && n > *s.maxLen {
		return nil, newError(CodeConstraintViolation, path, value, "length %d above maximum %d", n, *s.maxLen)
	}
	if s.pattern != nil && !s.pattern.MatchString(v) {
		return nil, newError(CodeConstraintViolation, path, value, "%q does not match pattern %s", v, s.pattern)
	}
	return value, nil
}

func (s *Schema) validateNumber(value any, path string) (any, error) {
	v, ok := numeric(value)
	if !ok {
		return nil, newError(CodeTypeMismatch, path, value, "expected number, got %s", kindOf(value))
	}
	if s.min != nil && v < *s.min {
		return nil, newError(CodeConstraintViolation, path, value, "%v below minimum %v", v, *s.min)
	}
	if s.max != nil && v > *s.max {
		return nil, newError(CodeConstraintViolation, path, value, "%v above maximum %v", v, *s.max)
	}
	if s.integer && v != math.Trunc(v) {
		return nil, newError(CodeConstraintViolation, path, value, "%v is not an integer", v)
	}
	return value, nil
}

func (s *Schema) validateArray(value any, path string) (any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, newError(CodeTypeMismatch, path, value, "expected array, got %s", kindOf(value))
	}
	if s.minItems != nil && len(items) < *s.minItems {
		return nil, newError(CodeConstraintViolation, path, value, "%d items below minimum %d", len(items), *s.minItems)
	}
	if s.maxItems != nil && len(items) > *s.maxItems {
		return nil, newError(CodeConstraintViolation, path, value, "%d items above maximum %d", len(items), *s.maxItems)
	}
	if s.item == nil {
		return items, nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		validated, err := s.item.Validate(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = validated
	}
	return out, nil
}

// validateObject checks every declared property against its sub-schema.
// Properties not declared in the schema are silently dropped from the
// result; the drop is visible to callers by comparing input and output.
func (s *Schema) validateObject(value any, path string) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, newError(CodeTypeMismatch, path, value, "expected object, got %s", kindOf(value))
	}
	out := make(map[string]any, len(s.propOrder))
	for _, name := range s.propOrder {
		sub := s.props[name]
		child, present := m[name]
		if !present {
			child = nil
		}
		validated, err := sub.Validate(child, path+"."+name)
		if err != nil {
			return nil, err
		}
		if validated != nil || present {
			out[name] = validated
		}
	}
	return out, nil
}

func (s *Schema) validateEnum(value any, path string) (any, error) {
	for _, allowed := range s.allowed {
		if equal(value, allowed) {
			return value, nil
		}
	}
	return nil, newError(CodeConstraintViolation, path, value, "%v is not one of the allowed values", value)
}

func (s *Schema) validateUnion(value any, path string) (any, error) {
	msgs := make([]string, 0, len(s.alts))
	for _, alt := range s.alts {
		out, err := alt.Validate(value, path)
		if err == nil {
			return out, nil
		}
		if se, ok := AsError(err); ok {
			msgs = append(msgs, se.Message)
		} else {
			msgs = append(msgs, err.Error())
		}
	}
	return nil, &Error{
		Code:         CodeUnionExhausted,
		Path:         path,
		Value:        value,
		Message:      "no alternative matched",
		Alternatives: msgs,
	}
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func equal(a, b any) bool {
	an, aok := numeric(a)
	bn, bok := numeric(b)
	if aok && bok {
		return an == bn
	}
	return a == b
}

func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "nothing"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case Ref:
		return "reference"
	}
	return fmt.Sprintf("%T", value)
}
