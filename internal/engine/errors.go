package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/arbor/internal/fiber"
)

// RenderError represents a failure inside a component render or an effect.
//
// A failed render aborts the build: the work in progress is discarded and
// the current tree stays untouched. A failed effect is logged and the
// commit carries on with the next effect.
type RenderError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Component is the name of the node being rendered, or owning the
	// effect.
	Component string

	// Node is the arena ID of that node.
	Node fiber.NodeID

	// Err is the underlying error or recovered panic.
	Err error
}

// ErrorCode categorizes render errors.
type ErrorCode string

const (
	// ErrCodeDispatchContext indicates a hook was called outside an active
	// render.
	ErrCodeDispatchContext ErrorCode = "DISPATCH_CONTEXT"

	// ErrCodeHookOrder indicates hook order drifted between renders.
	ErrCodeHookOrder ErrorCode = "HOOK_ORDER"

	// ErrCodeRenderPanic indicates a render function panicked.
	ErrCodeRenderPanic ErrorCode = "RENDER_PANIC"

	// ErrCodeEffectPanic indicates an effect callback panicked.
	ErrCodeEffectPanic ErrorCode = "EFFECT_PANIC"
)

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s: %v (component=%s)", e.Code, e.Err, e.Component)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsHookOrderError returns true if err is or wraps a hook order violation.
// Uses errors.As to handle wrapped errors.
func IsHookOrderError(err error) bool {
	var re *RenderError
	if errors.As(err, &re) && re.Code == ErrCodeHookOrder {
		return true
	}
	var hv *fiber.HookOrderViolation
	return errors.As(err, &hv)
}

// IsDispatchContextError returns true if err is or wraps a hook call made
// outside a render.
func IsDispatchContextError(err error) bool {
	var re *RenderError
	if errors.As(err, &re) && re.Code == ErrCodeDispatchContext {
		return true
	}
	var de *fiber.DispatchContextError
	return errors.As(err, &de)
}

// IsEffectError returns true if err is or wraps a panicking effect.
func IsEffectError(err error) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Code == ErrCodeEffectPanic
}

// newRenderError classifies a value recovered from a render.
func newRenderError(n *fiber.Node, id fiber.NodeID, recovered any) *RenderError {
	re := &RenderError{Code: ErrCodeRenderPanic, Component: n.Name(), Node: id}
	switch v := recovered.(type) {
	case *fiber.HookOrderViolation:
		re.Code, re.Err = ErrCodeHookOrder, v
	case *fiber.DispatchContextError:
		re.Code, re.Err = ErrCodeDispatchContext, v
	case error:
		re.Err = v
	default:
		re.Err = fmt.Errorf("%v", v)
	}
	return re
}

// newEffectError wraps a value recovered from an effect callback.
func newEffectError(n *fiber.Node, id fiber.NodeID, recovered any) *RenderError {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	name := ""
	if n != nil {
		name = n.Name()
	}
	return &RenderError{Code: ErrCodeEffectPanic, Component: name, Node: id, Err: err}
}
