package component

import "github.com/wisplang/wisp/internal/schema"

// Builtins returns a registry seeded with the built-in components.
// Configuration may re-register any of them to override.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(NewSpec("App").
		Prop("title", schema.String()))
	r.Register(NewSpec("Container").
		Prop("title", schema.String()))
	r.Register(NewSpec("Text").
		Prop("text", schema.Union(schema.String(), schema.Number())))
	r.Register(NewSpec("Button").
		Prop("text", schema.String()).
		Prop("onClick", schema.Func().Required()))
	r.Register(NewSpec("Input").
		Prop("placeholder", schema.String()).
		Prop("kind", schema.Enum("text", "password", "number").Default("text")))
	r.Register(NewSpec("Image").
		Prop("src", schema.String().Required().MinLen(1)).
		Prop("alt", schema.String().Default("")))
	return r
}
