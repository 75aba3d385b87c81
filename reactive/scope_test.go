package reactive

import "testing"

func TestScopeDisposeCascadesToEffects(t *testing.T) {
	rt := New()
	sc := NewScope(nil)
	count := rt.NewValueRef(0)
	runs := 0

	rt.RunInScope(sc, func() {
		rt.NewEffect(func() {
			count.Get()
			runs++
		})
	})

	sc.Dispose()
	count.Set(1)
	if runs != 1 {
		t.Errorf("expected disposed scope's effect to stop running, got %d runs", runs)
	}
}

func TestScopeNestedDisposeOrder(t *testing.T) {
	rt := New()
	parent := NewScope(nil)
	var order []string

	rt.RunInScope(parent, func() {
		child := NewScope(rt.ActiveScope())
		child.OnDispose(func() { order = append(order, "child") })
		parent.OnDispose(func() { order = append(order, "parent") })
	})

	rt.RunInScope(parent, func() {
		rt.NewEffect(func() {})
	})

	parent.Dispose()
	if len(order) != 2 || order[0] != "child" || order[1] != "parent" {
		t.Errorf("expected child's onDispose before parent's, got %v", order)
	}
}

func TestScopePauseResumePropagates(t *testing.T) {
	rt := New()
	sc := NewScope(nil)
	count := rt.NewValueRef(0)
	runs := 0

	rt.RunInScope(sc, func() {
		rt.NewEffect(func() {
			count.Get()
			runs++
		})
	})

	sc.Pause()
	count.Set(1)
	if runs != 1 {
		t.Errorf("expected paused scope to suppress its effect, got %d runs", runs)
	}

	sc.Resume()
	if runs != 2 {
		t.Errorf("expected resume to catch up child effect, got %d runs", runs)
	}
}

func TestScopeErrorHandlerWalksToAncestor(t *testing.T) {
	root := NewScope(nil)
	child := NewScope(root)

	var caught error
	root.HandleError(func(err error) { caught = err })

	sentinel := &ErrCircularComputed{Computed: 1}
	child.reportError(sentinel)

	if caught != sentinel {
		t.Errorf("expected error to propagate to ancestor handler, got %v", caught)
	}
}

func TestScopeAddRejectsReassignedOwner(t *testing.T) {
	rt := New()
	a := NewScope(nil)
	b := NewScope(nil)

	eff := rt.NewEffect(func() {}, WithOwner(a))

	defer func() {
		r := recover()
		if r != ErrScopeReassigned {
			t.Fatalf("expected panic ErrScopeReassigned, got %v", r)
		}
	}()
	b.add(eff)
}

func TestScopeAddSameOwnerTwiceIsNotAReassignment(t *testing.T) {
	rt := New()
	a := NewScope(nil)
	eff := rt.NewEffect(func() {}, WithOwner(a))

	// Adding to the scope that already owns it must not panic.
	a.add(eff)
}
