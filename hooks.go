package wisp

import (
	"context"
	"fmt"

	"github.com/wisplang/wisp/internal/log"
)

// Point names a lifecycle moment hooks can attach to.
type Point string

const (
	// BeforeCompile fires before the pipeline runs over a parsed program.
	BeforeCompile Point = "before_compile"
	// AfterOutput fires after code generation with the emitted text.
	AfterOutput Point = "after_output"
	// OnValidationError fires for each validation failure in lenient mode.
	OnValidationError Point = "on_validation_error"
)

// CompilePayload is delivered to BeforeCompile hooks.
type CompilePayload struct {
	Kind string
	File string
}

// OutputPayload is delivered to AfterOutput hooks.
type OutputPayload struct {
	Kind string
	File string
	Code string
}

// ValidationErrorPayload is delivered to OnValidationError hooks.
type ValidationErrorPayload struct {
	Kind      string
	Component string
	Err       error
}

// Hook is an externally registered lifecycle callback.
type Hook func(ctx context.Context, payload any) error

// HookSet holds the ordered hook lists per lifecycle point. Hooks for a
// point run sequentially in registration order; each runs to completion
// before the next begins. A failing or panicking hook is logged and
// never stops later hooks or the pipeline.
type HookSet struct {
	hooks map[Point][]Hook
}

// NewHookSet creates an empty hook set.
func NewHookSet() *HookSet {
	return &HookSet{hooks: map[Point][]Hook{}}
}

// On registers a hook for a lifecycle point.
func (h *HookSet) On(point Point, fn Hook) *HookSet {
	h.hooks[point] = append(h.hooks[point], fn)
	return h
}

func (h *HookSet) dispatch(ctx context.Context, point Point, payload any) {
	if h == nil {
		return
	}
	for i, fn := range h.hooks[point] {
		if err := runHook(ctx, fn, payload); err != nil {
			log.Hook("%s hook %d failed: %v", point, i, err)
		}
	}
}

func runHook(ctx context.Context, fn Hook, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, payload)
}
