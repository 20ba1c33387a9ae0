package wisp

import (
	"context"
	"fmt"
	"strings"

	"github.com/wisplang/wisp/internal/analyze"
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/codegen"
	"github.com/wisplang/wisp/internal/component"
	"github.com/wisplang/wisp/internal/log"
	"github.com/wisplang/wisp/internal/parser"
)

// Compiler runs the compilation pipeline with a fixed configuration.
// A Compiler is safe to reuse across files; each run works on its own
// copy of the component registry.
type Compiler struct {
	strict   bool
	registry *component.Registry
	tags     codegen.TagTable
	hooks    *HookSet
}

// New creates a compiler. Without options it validates against the
// built-in components, translates with the default tag table, and runs
// lenient.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		registry: component.Builtins(),
		tags:     codegen.DefaultTags(),
		hooks:    NewHookSet(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result carries one compilation's output and diagnostics.
type Result struct {
	Code     string
	Warnings []string
}

// CompileSource parses and compiles one source text.
func (c *Compiler) CompileSource(ctx context.Context, filename, source string) (*Result, error) {
	prog, err := parser.Parse(filename, source)
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, filename, prog)
}

// Compile runs the pipeline over an already-parsed program.
func (c *Compiler) Compile(ctx context.Context, filename string, prog *ast.Program) (*Result, error) {
	c.hooks.dispatch(ctx, BeforeCompile, CompilePayload{Kind: "compile", File: filename})

	res := &Result{}
	scan := analyze.Collect(prog)
	for _, w := range scan.Warnings {
		res.Warnings = append(res.Warnings, w.String())
		log.Warn("%s", w)
	}

	reg := c.runRegistry(prog)
	if log.Enabled() {
		log.Debug("%s: registry has %s", filename, strings.Join(reg.Names(), ", "))
	}
	if err := c.validateTree(ctx, reg, prog, res); err != nil {
		return nil, err
	}

	gen := codegen.NewGenerator(c.tags, scan, scan.Partition())
	res.Code = gen.Generate(prog, filename)
	log.Generate("%s: %d bytes", filename, len(res.Code))

	c.hooks.dispatch(ctx, AfterOutput, OutputPayload{Kind: "output", File: filename, Code: res.Code})
	return res, nil
}

// runRegistry builds this run's registry: the configured specs plus a
// synthesized spec per component definition.
func (c *Compiler) runRegistry(prog *ast.Program) *component.Registry {
	reg := component.NewRegistry()
	for _, name := range c.registry.Names() {
		spec, _ := c.registry.Lookup(name)
		reg.Register(spec)
	}
	for _, def := range prog.Definitions {
		reg.Register(component.Synthesize(def, analyze.Profiles(def)))
	}
	return reg
}

// validateTree checks every element instantiation against the registry,
// definition bodies first, then the app. In strict mode the first
// failure aborts; in lenient mode each failure is reported through the
// hook boundary and the element's properties pass through unvalidated.
func (c *Compiler) validateTree(ctx context.Context, reg *component.Registry, prog *ast.Program, res *Result) error {
	var firstErr error

	check := func(el *ast.Element) {
		vres, err := reg.ValidateElement(el)
		if err != nil {
			if c.strict {
				firstErr = fmt.Errorf("%s: %w", el.Position, err)
				return
			}
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", el.Position, err))
			log.Warn("%s: %v", el.Position, err)
			c.hooks.dispatch(ctx, OnValidationError, ValidationErrorPayload{
				Kind:      "validation_error",
				Component: el.Tag,
				Err:       err,
			})
			return
		}
		for _, w := range vres.Warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", el.Position, w))
			log.Warn("%s: %s", el.Position, w)
		}
	}

	var scan func(nodes []ast.Node)
	scan = func(nodes []ast.Node) {
		for _, node := range nodes {
			if firstErr != nil {
				return
			}
			switch n := node.(type) {
			case *ast.Element:
				check(n)
				scan(n.Children)
			case *ast.If:
				scan(n.Children)
			case *ast.For:
				scan(n.Children)
			}
		}
	}

	for _, def := range prog.Definitions {
		scan(def.Body)
	}
	if prog.App != nil && firstErr == nil {
		check(&ast.Element{Tag: "App", Props: prog.App.Props, Position: prog.App.Position})
		if firstErr == nil {
			scan(prog.App.Children)
		}
	}
	return firstErr
}
