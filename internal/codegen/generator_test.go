package codegen

import (
	"strings"
	"testing"

	"github.com/wisplang/wisp/internal/analyze"
	"github.com/wisplang/wisp/internal/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse("test.wisp", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	scan := analyze.Collect(prog)
	g := NewGenerator(DefaultTags(), scan, scan.Partition())
	return g.Generate(prog, "test.wisp")
}

func TestGenerate_BoundInput(t *testing.T) {
	got := generate(t, `app { Input(bind: name, initial: "Ann") }`)
	want := `// Code generated by wispc. DO NOT EDIT.
// Source: test.wisp

import { useState } from "react";

export default function App() {
  const [name, setName] = useState("Ann");

  return (
    <div>
      <input value={name} onChange={(e) => setName(e.target.value)} />
    </div>
  );
}
`
	if got != want {
		t.Errorf("Generate() =\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerate_ButtonWithHandler(t *testing.T) {
	got := generate(t, `app { Button(text: "Go", onClick: save) }`)
	if !strings.Contains(got, `<button onClick={save}>Go</button>`) {
		t.Errorf("missing button markup in:\n%s", got)
	}
	if !strings.Contains(got, "export default function App({ save })") {
		t.Errorf("missing save parameter in:\n%s", got)
	}
}

func TestGenerate_Loop(t *testing.T) {
	src := `
app {
	for user in users {
		Text(text: user.name)
	}
}
`
	got := generate(t, src)
	for _, want := range []string{
		"{users.map((user, index) => (",
		"<span key={index}>{user.name}</span>",
		"))}",
		"export default function App({ user, users })",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestGenerate_LoopKeyFromID(t *testing.T) {
	src := `
app {
	for row in rows {
		Item(id: row.id, text: row.label)
	}
}
`
	got := generate(t, src)
	if !strings.Contains(got, `<li key={row.id} id={row.id}>{row.label}</li>`) {
		t.Errorf("missing keyed item in:\n%s", got)
	}
}

func TestGenerate_LoopMultiChildFragment(t *testing.T) {
	src := `
app {
	for item in items {
		Text(text: item)
		Text(text: "·")
	}
}
`
	got := generate(t, src)
	if !strings.Contains(got, "<Fragment key={index}>") {
		t.Errorf("missing keyed fragment in:\n%s", got)
	}
	if !strings.Contains(got, `import { Fragment } from "react";`) {
		t.Errorf("missing fragment import in:\n%s", got)
	}
	if strings.Contains(got, "useState") {
		t.Errorf("unexpected useState in:\n%s", got)
	}
}

func TestGenerate_Conditional(t *testing.T) {
	src := `
app {
	if count > 3 {
		Text(text: "lots")
	}
}
`
	got := generate(t, src)
	if !strings.Contains(got, "{count > 3 ? (") {
		t.Errorf("missing guard opening in:\n%s", got)
	}
	if !strings.Contains(got, "<span>lots</span>") {
		t.Errorf("missing guarded child in:\n%s", got)
	}
	if !strings.Contains(got, ") : null}") {
		t.Errorf("missing guard closing in:\n%s", got)
	}
	if !strings.Contains(got, "export default function App({ count })") {
		t.Errorf("missing count parameter in:\n%s", got)
	}
}

func TestGenerate_ExternalBind(t *testing.T) {
	src := `
component SearchBox() {
	Input(bind: query)
}

app {
	SearchBox(value: query, onChange: setQuery)
}
`
	got := generate(t, src)
	if !strings.Contains(got, "export function SearchBox() {") {
		t.Errorf("missing definition function in:\n%s", got)
	}
	if !strings.Contains(got, `<input value={query} onChange={(e) => setQuery(e.target.value)} />`) {
		t.Errorf("missing bound input wiring in:\n%s", got)
	}
	if strings.Contains(got, "useState") {
		t.Errorf("external bind declared state in:\n%s", got)
	}
	if !strings.Contains(got, "export default function App({ query, setQuery })") {
		t.Errorf("missing external parameters in:\n%s", got)
	}
	if !strings.Contains(got, "<SearchBox value={query} onChange={setQuery} />") {
		t.Errorf("missing component instantiation in:\n%s", got)
	}
}

func TestGenerate_InternalBindInDefinition(t *testing.T) {
	src := `
component Form() {
	Input(bind: email)
}

app {
	Form
}
`
	got := generate(t, src)
	if !strings.Contains(got, `const [email, setEmail] = useState("");`) {
		t.Errorf("missing state declaration in:\n%s", got)
	}
	idx := strings.Index(got, "export default function App")
	if idx < 0 {
		t.Fatalf("missing app function in:\n%s", got)
	}
	if strings.Contains(got[idx:], "useState(") {
		t.Errorf("state declared in the wrong function:\n%s", got)
	}
}

func TestGenerate_DefinitionParams(t *testing.T) {
	src := `
component Greeting(name, excited = false, punct = "!") {
	Text(text: name)
}

app {
	Greeting(name: "Ada")
}
`
	got := generate(t, src)
	if !strings.Contains(got, `export function Greeting({ name, excited = false, punct = "!" }) {`) {
		t.Errorf("missing parameter defaults in:\n%s", got)
	}
	if !strings.Contains(got, `<Greeting name="Ada" />`) {
		t.Errorf("missing instantiation in:\n%s", got)
	}
}

func TestGenerate_MultiNodeDefinitionBody(t *testing.T) {
	src := `
component Pair() {
	Text(text: "a")
	Text(text: "b")
}

app {
	Pair
}
`
	got := generate(t, src)
	if !strings.Contains(got, "<>") || !strings.Contains(got, "</>") {
		t.Errorf("missing fragment wrapper in:\n%s", got)
	}
	if strings.Contains(got, "import {") {
		t.Errorf("fragment shorthand should not import in:\n%s", got)
	}
}

func TestGenerate_AttributeShapes(t *testing.T) {
	src := `
app {
	Box(width: 10, label: "Name", active: true, total: count + 1)
	Button(text: "Go", onClick: "save")
}
`
	got := generate(t, src)
	for _, want := range []string{
		`<Box width={10} label="Name" active={true} total={count + 1} />`,
		`<button onClick={save}>Go</button>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestGenerate_TextShapes(t *testing.T) {
	src := `
app {
	Text(text: 42)
	Text(text: count + 1)
	Text(text: title)
}
`
	got := generate(t, src)
	for _, want := range []string{
		"<span>42</span>",
		"<span>{count + 1}</span>",
		"<span>{title}</span>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestGenerate_InitialLiveReference(t *testing.T) {
	got := generate(t, `app { Input(bind: name, initial: defaultName) }`)
	if !strings.Contains(got, "useState(defaultName);") {
		t.Errorf("missing live-reference seed in:\n%s", got)
	}
}

func TestGenerate_MalformedBindIgnored(t *testing.T) {
	got := generate(t, `app { Input(bind: user.name) }`)
	if strings.Contains(got, "useState") {
		t.Errorf("malformed bind declared state in:\n%s", got)
	}
	if strings.Contains(got, "onChange") {
		t.Errorf("malformed bind wired a handler in:\n%s", got)
	}
	if !strings.Contains(got, "<input />") {
		t.Errorf("missing plain input in:\n%s", got)
	}
}

func TestGenerate_AppProps(t *testing.T) {
	got := generate(t, `app(title: "Tasks") { Text(text: "hi") }`)
	if !strings.Contains(got, `<div title="Tasks">`) {
		t.Errorf("missing root attributes in:\n%s", got)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	src := `
component Row(label) {
	Item(text: label)
}

app {
	Input(bind: query, initial: "x")
	if query {
		Text(text: query)
	}
	for item in items {
		Row(label: item)
	}
}
`
	first := generate(t, src)
	second := generate(t, src)
	if first != second {
		t.Error("output differs across runs")
	}
}

func TestTagTable(t *testing.T) {
	tags := DefaultTags()
	if got := tags.Translate("Text"); got != "span" {
		t.Errorf("Translate(Text) = %q, want span", got)
	}
	if got := tags.Translate("Custom"); got != "Custom" {
		t.Errorf("Translate(Custom) = %q, want identity", got)
	}

	overlaid := tags.With(map[string]string{"Text": "p", "Badge": "small"})
	if got := overlaid.Translate("Text"); got != "p" {
		t.Errorf("overlaid Translate(Text) = %q, want p", got)
	}
	if got := overlaid.Translate("Badge"); got != "small" {
		t.Errorf("overlaid Translate(Badge) = %q, want small", got)
	}
	if got := tags.Translate("Text"); got != "span" {
		t.Errorf("With mutated the receiver: Translate(Text) = %q", got)
	}
}
