// Package reactive implements the signal/effect dependency graph that
// underlies Kinetic's fine-grained reactivity: a bidirectional,
// versioned link between signals and the effects that read them, a
// tracker that records reads during an effect's run, and the signal
// primitives (ValueRef, PropertyRef, Computed) built on top of it.
//
// # Tracking
//
// An Effect created with Runtime.NewEffect is installed as the active
// effect for the duration of each of its runs:
//
//	count := rt.NewValueRef(0)
//	eff := rt.NewEffect(func() {
//	    fmt.Println("count is", count.Get())
//	})
//
// Reading count.Get() while eff runs links the two; writing
// count.Set(v) re-runs eff (synchronously, unless eff was given an
// onTrigger hook that routes the re-run elsewhere).
//
// # Ownership
//
// Runtime holds no state of its own beyond the active-effect/active-scope
// stacks (kept per goroutine, see tracker.go); the graph itself lives on
// the signals and effects. A Runtime is cheap to construct, which is what
// lets tests and isolated hosts run their own copy (spec §9, "Global
// mutable state").
package reactive
