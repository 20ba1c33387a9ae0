package wisp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wisplang/wisp/internal/component"
)

func TestCompileSource_StrictMissingHandler(t *testing.T) {
	c := New(WithStrict(true))
	_, err := c.CompileSource(context.Background(), "app.wisp", `app { Button(text: "Go") }`)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var perr *component.PropError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %T, want *component.PropError", err)
	}
	if perr.Component != "Button" || perr.Prop != "onClick" {
		t.Errorf("failed on %s.%s, want Button.onClick", perr.Component, perr.Prop)
	}
	if !strings.Contains(err.Error(), "app.wisp:1:7") {
		t.Errorf("error = %v, want source position prefix", err)
	}
}

func TestCompileSource_LenientMissingHandler(t *testing.T) {
	var failed []string
	hooks := NewHookSet().On(OnValidationError, func(ctx context.Context, payload any) error {
		failed = append(failed, payload.(ValidationErrorPayload).Component)
		return nil
	})
	c := New(WithHooks(hooks))

	res, err := c.CompileSource(context.Background(), "app.wisp", `app { Button(text: "Go") }`)
	if err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}
	if !strings.Contains(res.Code, "<button>Go</button>") {
		t.Errorf("code missing button element:\n%s", res.Code)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "onClick") {
		t.Errorf("Warnings = %v, want one onClick warning", res.Warnings)
	}
	if len(failed) != 1 || failed[0] != "Button" {
		t.Errorf("hook saw %v, want [Button]", failed)
	}
}

func TestCompileSource_UnknownComponent(t *testing.T) {
	src := `app { Buttn(text: "Go") }`

	strictc := New(WithStrict(true))
	_, err := strictc.CompileSource(context.Background(), "app.wisp", src)
	if err == nil {
		t.Fatal("expected unknown component error")
	}
	var uerr *component.UnknownComponentError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %T, want *component.UnknownComponentError", err)
	}
	if len(uerr.Suggestions) == 0 || uerr.Suggestions[0] != "Button" {
		t.Errorf("Suggestions = %v, want Button first", uerr.Suggestions)
	}

	lenient := New()
	res, err := lenient.CompileSource(context.Background(), "app.wisp", src)
	if err != nil {
		t.Fatalf("lenient CompileSource() error = %v", err)
	}
	if !strings.Contains(res.Code, "<Buttn>Go</Buttn>") {
		t.Errorf("code missing passthrough element:\n%s", res.Code)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "did you mean Button") {
		t.Errorf("Warnings = %v, want suggestion", res.Warnings)
	}
}

func TestCompileSource_ParseError(t *testing.T) {
	c := New()
	_, err := c.CompileSource(context.Background(), "app.wisp", `component Card(title) { }`)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "no app block") {
		t.Errorf("error = %v, want missing app block", err)
	}
}

func TestCompileSource_ScanWarnings(t *testing.T) {
	c := New()
	res, err := c.CompileSource(context.Background(), "app.wisp", `app { Input(bind: user.name) }`)
	if err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "not a simple identifier") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want malformed bind warning", res.Warnings)
	}
	if !strings.Contains(res.Code, "<input />") {
		t.Errorf("code = %s, want plain input without state wiring", res.Code)
	}
}

func TestCompile_RegistryIsolation(t *testing.T) {
	c := New(WithStrict(true))
	ctx := context.Background()

	withDef := `component Card(title) {
	Text(text: title)
}

app { Card(title: "hi") }`
	if _, err := c.CompileSource(ctx, "a.wisp", withDef); err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}

	// Card was synthesized for the first run only; a later run without
	// the definition must not see it.
	if _, err := c.CompileSource(ctx, "b.wisp", `app { Card(title: "hi") }`); err == nil {
		t.Fatal("expected unknown component error on second run")
	}
}

func TestCompile_Idempotent(t *testing.T) {
	c := New()
	ctx := context.Background()
	src := `app {
	Input(bind: name, initial: "Ann")
	Button(text: "Go", onClick: save)
}`

	first, err := c.CompileSource(ctx, "app.wisp", src)
	if err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}
	second, err := c.CompileSource(ctx, "app.wisp", src)
	if err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}
	if first.Code != second.Code {
		t.Errorf("outputs differ:\n%s\n---\n%s", first.Code, second.Code)
	}
}

func TestCompileSource_HookPayloads(t *testing.T) {
	var order []string
	var output string
	hooks := NewHookSet().
		On(BeforeCompile, func(ctx context.Context, payload any) error {
			p := payload.(CompilePayload)
			order = append(order, "before:"+p.File)
			return nil
		}).
		On(AfterOutput, func(ctx context.Context, payload any) error {
			p := payload.(OutputPayload)
			order = append(order, "after:"+p.File)
			output = p.Code
			return nil
		})
	c := New(WithHooks(hooks))

	res, err := c.CompileSource(context.Background(), "app.wisp", `app { Text(text: "hi") }`)
	if err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}
	want := []string{"before:app.wisp", "after:app.wisp"}
	if len(order) != 2 || order[0] != want[0] || order[1] != want[1] {
		t.Errorf("order = %v, want %v", order, want)
	}
	if output != res.Code {
		t.Error("AfterOutput payload does not match result code")
	}
}

func TestHookSet_RegistrationOrder(t *testing.T) {
	var order []string
	hooks := NewHookSet().
		On(BeforeCompile, func(ctx context.Context, payload any) error {
			order = append(order, "first")
			return nil
		}).
		On(BeforeCompile, func(ctx context.Context, payload any) error {
			order = append(order, "second")
			return nil
		})
	c := New(WithHooks(hooks))

	if _, err := c.CompileSource(context.Background(), "app.wisp", `app { }`); err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestHookSet_FailureIsolated(t *testing.T) {
	ran := false
	hooks := NewHookSet().
		On(BeforeCompile, func(ctx context.Context, payload any) error {
			panic("boom")
		}).
		On(BeforeCompile, func(ctx context.Context, payload any) error {
			ran = true
			return nil
		})
	c := New(WithHooks(hooks))

	if _, err := c.CompileSource(context.Background(), "app.wisp", `app { }`); err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}
	if !ran {
		t.Error("expected second hook to run after panic in first")
	}
}

func TestCompileSource_StrictBoundInput(t *testing.T) {
	c := New(WithStrict(true))
	res, err := c.CompileSource(context.Background(), "app.wisp", `app { Input(bind: name, initial: "Ann") }`)
	if err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}
	if !strings.Contains(res.Code, `const [name, setName] = useState("Ann");`) {
		t.Errorf("code missing state declaration:\n%s", res.Code)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
}
