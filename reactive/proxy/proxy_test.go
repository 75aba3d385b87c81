package proxy

import (
	"testing"

	"github.com/kinetic-ui/kinetic/reactive"
)

type person struct {
	Name string
	Age  int
}

func TestReactiveFieldGetSetTracks(t *testing.T) {
	rt := reactive.New()
	p := &person{Name: "Ada", Age: 30}
	h := Reactive(rt, p)

	runs := 0
	var seen string
	rt.NewEffect(func() {
		seen = h.Get("Name").(string)
		runs++
	})

	if seen != "Ada" || runs != 1 {
		t.Fatalf("expected Ada/1, got %s/%d", seen, runs)
	}

	h.Set("Name", "Grace")
	if seen != "Grace" || runs != 2 {
		t.Errorf("expected Grace/2, got %s/%d", seen, runs)
	}
}

func TestReactiveReturnsSameHandleForSameTarget(t *testing.T) {
	rt := reactive.New()
	p := &person{Name: "Ada"}
	h1 := Reactive(rt, p)
	h2 := Reactive(rt, p)
	if h1 != h2 {
		t.Error("expected Reactive on the same target to return the same handle")
	}
}

func TestReadonlySetPanics(t *testing.T) {
	rt := reactive.New()
	p := &person{Name: "Ada"}
	h := Readonly(rt, p)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic setting through a Readonly handle")
		}
	}()
	h.Set("Name", "Grace")
}

func TestMarkRawSkipsWrapping(t *testing.T) {
	rt := reactive.New()
	p := &person{Name: "Ada"}
	MarkRaw(p)
	h := Reactive(rt, p)
	if h != nil {
		t.Error("expected MarkRaw target to not be wrapped")
	}
}

func TestToRawReturnsUnderlyingPointer(t *testing.T) {
	rt := reactive.New()
	p := &person{Name: "Ada"}
	h := Reactive(rt, p)
	raw := h.ToRaw().(*person)
	if raw.Name != "Ada" {
		t.Errorf("expected ToRaw to expose underlying value, got %+v", raw)
	}
}

func TestReactiveMapTracksPerKeyAndStructure(t *testing.T) {
	rt := reactive.New()
	m := NewReactiveMap[string, int](rt)
	m.Set("a", 1)

	keyRuns, lenRuns := 0, 0
	rt.NewEffect(func() {
		m.Get("a")
		keyRuns++
	})
	rt.NewEffect(func() {
		m.Len()
		lenRuns++
	})

	m.Set("a", 2) // value change: only the per-key effect should rerun
	if keyRuns != 2 {
		t.Errorf("expected key effect to rerun on value change, got %d", keyRuns)
	}
	if lenRuns != 1 {
		t.Errorf("expected len effect unaffected by value-only change, got %d", lenRuns)
	}

	m.Set("b", 3) // new key: structure changes
	if lenRuns != 2 {
		t.Errorf("expected len effect to rerun on new key, got %d", lenRuns)
	}
}
