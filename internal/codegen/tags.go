package codegen

// TagTable maps source tag names to target markup tag names.
type TagTable map[string]string

// Translate returns the target tag for a source tag, falling back to
// the source tag itself when no mapping exists.
func (t TagTable) Translate(tag string) string {
	if target, ok := t[tag]; ok {
		return target
	}
	return tag
}

// With returns a copy of the table with the given overrides applied.
func (t TagTable) With(overrides map[string]string) TagTable {
	out := make(TagTable, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// DefaultTags returns the built-in translation table.
func DefaultTags() TagTable {
	return TagTable{
		"App":       "div",
		"Container": "div",
		"Text":      "span",
		"Button":    "button",
		"Input":     "input",
		"Image":     "img",
		"List":      "ul",
		"Item":      "li",
	}
}
