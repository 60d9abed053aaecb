// Package components is the demo application rendered by the CLI and the
// scenario harness.
//
// Components publish their actions to a Controls registry from a layout
// effect, so a driver can trigger state updates by name:
//
//	controls := components.NewControls()
//	reg := components.Default(controls)
//	...
//	eng.Dispatch(func() { _ = controls.Invoke("counter.increment") })
package components
