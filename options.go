package wisp

import (
	"github.com/wisplang/wisp/internal/codegen"
	"github.com/wisplang/wisp/internal/component"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithStrict sets the validation strictness. When strict, the first
// validation failure aborts the compilation; when lenient, failures are
// reported through the hook boundary and the offending component's
// properties pass through unvalidated.
func WithStrict(strict bool) Option {
	return func(c *Compiler) { c.strict = strict }
}

// WithRegistry replaces the built-in component registry.
func WithRegistry(reg *component.Registry) Option {
	return func(c *Compiler) { c.registry = reg }
}

// WithTags replaces the tag-translation table.
func WithTags(tags codegen.TagTable) Option {
	return func(c *Compiler) { c.tags = tags }
}

// WithHooks attaches a hook set to the compiler.
func WithHooks(hooks *HookSet) Option {
	return func(c *Compiler) { c.hooks = hooks }
}
