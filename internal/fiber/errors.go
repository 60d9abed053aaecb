package fiber

import "fmt"

// DispatchContextError reports a hook called outside an active render.
type DispatchContextError struct {
	// Hook is the hook that was called (e.g., "UseState").
	Hook string
}

func (e *DispatchContextError) Error() string {
	return fmt.Sprintf("%s: hooks must run during a component render", e.Hook)
}

// HookOrderViolation reports hooks called in a different order or number
// than in the previous render of the same node.
type HookOrderViolation struct {
	Component string
	Hook      string
	Index     int
	Want      SlotKind
	Got       SlotKind
	Reason    string
}

func (e *HookOrderViolation) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("hook order violation in %s at slot %d: %s", e.Component, e.Index, e.Reason)
	}
	return fmt.Sprintf("hook order violation in %s at slot %d: %s expects a %s slot, found %s",
		e.Component, e.Index, e.Hook, e.Want, e.Got)
}
