package observability

import (
	"testing"
	"time"
)

type recordingGraphHooks struct {
	mutations []string
}

func (r *recordingGraphHooks) OnMutation(kind string, frames, transforms int) {
	r.mutations = append(r.mutations, kind)
}

type recordingTreeHooks struct {
	rebuilds int
	lastErr  error
}

func (r *recordingTreeHooks) OnRebuild(root string, frames, crossEdges int, d time.Duration, err error) {
	r.rebuilds++
	r.lastErr = err
}

func TestSetGraphHooks(t *testing.T) {
	defer Reset()

	rec := &recordingGraphHooks{}
	SetGraphHooks(rec)

	Graph().OnMutation("frame-added", 1, 0)
	Graph().OnMutation("edge-added", 2, 1)

	if len(rec.mutations) != 2 {
		t.Fatalf("mutations = %d, want 2", len(rec.mutations))
	}
	if rec.mutations[0] != "frame-added" {
		t.Errorf("mutations[0] = %q, want frame-added", rec.mutations[0])
	}
}

func TestSetTreeHooks(t *testing.T) {
	defer Reset()

	rec := &recordingTreeHooks{}
	SetTreeHooks(rec)

	Tree().OnRebuild("frame(0@1)", 3, 1, time.Millisecond, nil)

	if rec.rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", rec.rebuilds)
	}
	if rec.lastErr != nil {
		t.Errorf("lastErr = %v, want nil", rec.lastErr)
	}
}

func TestSetHooksNil(t *testing.T) {
	defer Reset()

	// nil registrations are ignored; defaults stay in place.
	SetGraphHooks(nil)
	SetTreeHooks(nil)

	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Graph() is not the no-op default after nil registration")
	}
	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Tree() is not the no-op default after nil registration")
	}
}

func TestReset(t *testing.T) {
	SetGraphHooks(&recordingGraphHooks{})
	SetTreeHooks(&recordingTreeHooks{})
	Reset()

	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Graph() is not the no-op default after Reset")
	}
	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Tree() is not the no-op default after Reset")
	}
}
