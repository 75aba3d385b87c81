// Package widget implements Kinetic's component runtime: class and
// function widgets, their instances, lifecycle hooks, and the
// provide/inject context mechanism — grounded on
// vango/pkg/vango/owner.go's Owner (used here as each Instance's
// reactive.Scope), vango/pkg/vango/tracking.go's hook-slot machinery
// (adapted into hookSlots for function widgets), and
// vango/pkg/vango/context.go/context_api.go's SetContext/GetContext
// owner-chain walk (here reactive.Scope.SetValue/GetValue).
package widget
