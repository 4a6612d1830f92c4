// Package hooks implements slot-based state management in the style of
// render-function hooks.
//
// A component is a plain function executed through Render with an
// owning state.Owner. Hooks called inside it (UseState, UseMemo,
// UseEffect) are backed by slots stored on the owner, so state keeps a
// stable identity across renders. Hooks must therefore be called
// unconditionally and in the same order on every render; violations
// panic with a coded error.
//
// Example:
//
//	owner := state.NewOwner(nil)
//	html := hooks.Render(owner, func() string {
//	    title, setTitle := hooks.UseState("hello")
//	    _ = setTitle
//	    return "<h1>" + title() + "</h1>"
//	})
package hooks
