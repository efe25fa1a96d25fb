package tree

import (
	"testing"

	"github.com/envirekit/framegraph/pkg/errors"
	"github.com/envirekit/framegraph/pkg/framegraph"
)

func TestLiveViewTracksMutations(t *testing.T) {
	g, frames, _ := diamond(t)
	reg := NewRegistry(g)
	defer reg.Close()

	v, err := reg.BuildByName("a")
	if err != nil {
		t.Fatal(err)
	}
	updates := 0
	v.SetUpdateFunc(func(err error) {
		if err != nil {
			t.Errorf("update fault = %v, want nil", err)
		}
		updates++
	})

	// Removing d drops it from the relation map and drops the cross
	// edge c→d that referenced it, with exactly one notification.
	if err := g.RemoveFrame(frames["d"]); err != nil {
		t.Fatal(err)
	}

	if updates != 1 {
		t.Errorf("updates = %d, want 1", updates)
	}
	if v.Contains(frames["d"]) {
		t.Error("view still contains removed frame d")
	}
	if cross := v.CrossEdges(); len(cross) != 0 {
		t.Errorf("CrossEdges() = %v, want empty", cross)
	}
	bKids, _ := v.Children(frames["b"])
	if len(bKids) != 0 {
		t.Errorf("Children(b) = %d, want 0", len(bKids))
	}
}

func TestEdgeUpdateTriggersRebuild(t *testing.T) {
	g, frames, edges := diamond(t)
	reg := NewRegistry(g)
	defer reg.Close()

	v, _ := reg.Build(frames["a"])
	updates := 0
	v.SetUpdateFunc(func(error) { updates++ })

	// Re-inserting a→b updates the payload in place: structurally the
	// tree is unchanged, but the rebuild still fires.
	tf := framegraph.Identity()
	tf.Translation = [3]float64{0, 0, 9}
	e, err := g.AddOrUpdateTransform(frames["a"], frames["b"], tf)
	if err != nil {
		t.Fatal(err)
	}
	if e != edges["ab"] {
		t.Errorf("update created new edge %v, want %v", e, edges["ab"])
	}
	if updates != 1 {
		t.Errorf("updates = %d, want 1", updates)
	}
	if p, _ := v.Parent(frames["b"]); p != frames["a"] {
		t.Errorf("Parent(b) = %v, want %v (structure unchanged)", p, frames["a"])
	}
}

func TestRootRemovedFault(t *testing.T) {
	g, frames, _ := diamond(t)
	reg := NewRegistry(g)
	defer reg.Close()

	v, _ := reg.Build(frames["a"])
	var fault error
	updates := 0
	v.SetUpdateFunc(func(err error) {
		updates++
		fault = err
	})

	g.RemoveFrame(frames["a"])

	if updates != 1 {
		t.Fatalf("updates = %d, want 1", updates)
	}
	if !errors.Is(fault, errors.ErrCodeRootRemoved) {
		t.Errorf("fault = %v, want ROOT_REMOVED", fault)
	}
	if v.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (logically empty)", v.Len())
	}
	if !v.Subscribed() {
		t.Error("view unsubscribed itself, want still subscribed")
	}

	// Recovery: rebase onto a surviving frame.
	v.SetRoot(frames["b"])
	reg.Refresh(v)
	if v.Len() != 2 {
		t.Errorf("Len() after rebase = %d, want 2", v.Len())
	}
}

func TestRootRemovedDoesNotAbortCascade(t *testing.T) {
	g, frames, _ := diamond(t)
	reg := NewRegistry(g)
	defer reg.Close()

	va, _ := reg.Build(frames["a"])
	vb, _ := reg.Build(frames["b"])

	var aFault, bFault error
	va.SetUpdateFunc(func(err error) { aFault = err })
	vb.SetUpdateFunc(func(err error) { bFault = err })

	// a's removal faults va but vb's rebuild proceeds normally.
	g.RemoveFrame(frames["a"])

	if !errors.Is(aFault, errors.ErrCodeRootRemoved) {
		t.Errorf("va fault = %v, want ROOT_REMOVED", aFault)
	}
	if bFault != nil {
		t.Errorf("vb fault = %v, want nil", bFault)
	}
	if vb.Len() != 2 {
		t.Errorf("vb.Len() = %d, want 2 (b, d)", vb.Len())
	}
}

func TestSubscribeErrors(t *testing.T) {
	g, frames, _ := diamond(t)
	reg1 := NewRegistry(g)
	defer reg1.Close()
	reg2 := NewRegistry(g)
	defer reg2.Close()

	v, _ := Build(g, frames["a"])

	if err := reg1.Subscribe(v); err != nil {
		t.Fatalf("Subscribe = %v", err)
	}
	// Re-subscribing to the same registry is an idempotent no-op.
	if err := reg1.Subscribe(v); err != nil {
		t.Errorf("second Subscribe = %v, want nil", err)
	}
	if reg1.NumSubscribed() != 1 {
		t.Errorf("NumSubscribed() = %d, want 1", reg1.NumSubscribed())
	}
	// One publisher per view at a time.
	if err := reg2.Subscribe(v); !errors.Is(err, errors.ErrCodeAlreadySubscribed) {
		t.Errorf("cross-registry Subscribe = %v, want ALREADY_SUBSCRIBED", err)
	}

	reg1.Unsubscribe(v)
	reg1.Unsubscribe(v) // idempotent
	if err := reg2.Subscribe(v); err != nil {
		t.Errorf("Subscribe after Unsubscribe = %v, want nil", err)
	}
}

func TestRegistryClose(t *testing.T) {
	g, frames, _ := diamond(t)
	reg := NewRegistry(g)

	v, _ := reg.Build(frames["a"])
	calls := 0
	v.SetUpdateFunc(func(error) { calls++ })

	reg.Close()
	reg.Close() // idempotent

	if v.Subscribed() {
		t.Error("view still subscribed after registry Close")
	}

	g.AddFrame("x")
	if calls != 0 {
		t.Errorf("callback fired %d times after registry Close", calls)
	}
	// Last snapshot survives.
	if v.Len() != 4 {
		t.Errorf("Len() = %d, want 4", v.Len())
	}
}

func TestMultipleViewsIndependentRoots(t *testing.T) {
	g, frames, _ := diamond(t)
	reg := NewRegistry(g)
	defer reg.Close()

	va, _ := reg.Build(frames["a"])
	vc, _ := reg.Build(frames["c"])

	e, _ := g.AddFrame("e")
	if _, err := g.AddOrUpdateTransform(frames["c"], e, framegraph.Identity()); err != nil {
		t.Fatal(err)
	}

	if !va.Contains(e) {
		t.Error("va missing frame e reachable via c")
	}
	if !vc.Contains(e) {
		t.Error("vc missing frame e")
	}
	if va.Len() != 5 {
		t.Errorf("va.Len() = %d, want 5", va.Len())
	}
	if vc.Len() != 3 { // c, d, e
		t.Errorf("vc.Len() = %d, want 3", vc.Len())
	}
}

func TestRebuildEqualsScratchBuild(t *testing.T) {
	g, frames, _ := diamond(t)
	reg := NewRegistry(g)
	defer reg.Close()

	live, _ := reg.Build(frames["a"])

	// A mixed mutation sequence; after each step the live view must
	// equal a from-scratch build.
	steps := []func(){
		func() { g.AddFrame("e") },
		func() { g.AddOrUpdateTransformByName("d", "e", framegraph.Identity()) },
		func() { g.AddOrUpdateTransformByName("a", "e", framegraph.Identity()) },
		func() { g.RemoveFrameByName("c") },
		func() { g.AddOrUpdateTransformByName("e", "b", framegraph.Identity()) },
	}

	for i, step := range steps {
		step()
		want, err := Build(g, frames["a"])
		if err != nil {
			t.Fatalf("step %d: scratch build = %v", i, err)
		}
		if live.Len() != want.Len() {
			t.Fatalf("step %d: Len = %d, want %d", i, live.Len(), want.Len())
		}
		for _, ref := range want.Frames() {
			lp, err := live.Parent(ref)
			if err != nil {
				t.Fatalf("step %d: %v missing from live view", i, ref)
			}
			wp, _ := want.Parent(ref)
			if lp != wp {
				t.Errorf("step %d: Parent(%v) = %v, want %v", i, ref, lp, wp)
			}
		}
		lc, wc := live.CrossEdges(), want.CrossEdges()
		if len(lc) != len(wc) {
			t.Fatalf("step %d: cross edges = %d, want %d", i, len(lc), len(wc))
		}
		for j := range wc {
			if lc[j] != wc[j] {
				t.Errorf("step %d: crossEdges[%d] = %v, want %v", i, j, lc[j], wc[j])
			}
		}
	}
}

func TestGraphClearedEmptiesViews(t *testing.T) {
	g, frames, _ := diamond(t)
	reg := NewRegistry(g)
	defer reg.Close()

	v, _ := reg.Build(frames["a"])
	var fault error
	v.SetUpdateFunc(func(err error) { fault = err })

	g.Clear()

	if v.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", v.Len())
	}
	if !errors.Is(fault, errors.ErrCodeRootRemoved) {
		t.Errorf("fault = %v, want ROOT_REMOVED", fault)
	}
}
