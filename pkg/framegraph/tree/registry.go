package tree

import (
	"slices"
	"time"

	"github.com/envirekit/framegraph/pkg/errors"
	"github.com/envirekit/framegraph/pkg/framegraph"
	"github.com/envirekit/framegraph/pkg/observability"
)

// Registry implements the subscription and update protocol: it listens
// to a graph's structural-change events and, after every mutation,
// rebuilds each subscribed view from scratch against the current graph
// state, then fires the view's update notification.
//
// Rebuilds are always full. Incremental patching would need
// reverse-reachability bookkeeping whose invariants are fragile under
// arbitrary add/remove sequences; a full rebuild keeps one trivially
// checkable invariant: after any mutation, every live view equals what
// Build would produce from scratch.
//
// The registry holds non-owning references. Clients own view lifetime;
// a subscribed view unsubscribes itself in Close. Registry shares the
// graph's concurrency contract: no internal locking, the mutating
// caller's exclusive section covers the rebuild cascade.
type Registry struct {
	g     *framegraph.Graph
	subs  map[*View]struct{}
	order []*View // dispatch order (subscription order)
}

// NewRegistry creates a registry bound to g and attaches it to g's
// event stream. Call Close to detach.
func NewRegistry(g *framegraph.Graph) *Registry {
	r := &Registry{
		g:    g,
		subs: make(map[*View]struct{}),
	}
	g.AddListener(r)
	return r
}

// Graph returns the graph the registry is bound to.
func (r *Registry) Graph() *framegraph.Graph { return r.g }

// Build constructs a live view rooted at root: the view is built like
// Build and immediately subscribed.
func (r *Registry) Build(root framegraph.FrameRef) (*View, error) {
	v, err := Build(r.g, root)
	if err != nil {
		return nil, err
	}
	if err := r.Subscribe(v); err != nil {
		return nil, err
	}
	return v, nil
}

// BuildByName is Build with the root resolved through the label index.
func (r *Registry) BuildByName(rootName string) (*View, error) {
	root, err := r.g.FrameByName(rootName)
	if err != nil {
		return nil, err
	}
	return r.Build(root)
}

// Subscribe registers a view for rebuild dispatch. Subscribing a view
// already subscribed to this registry is a no-op; a view bound to a
// different publisher is rejected with ErrCodeAlreadySubscribed (one
// publisher per view at a time).
func (r *Registry) Subscribe(v *View) error {
	if v.publisher == r {
		return nil
	}
	if v.publisher != nil {
		return errors.New(errors.ErrCodeAlreadySubscribed, "view already bound to another publisher")
	}
	v.bind(r)
	r.subs[v] = struct{}{}
	r.order = append(r.order, v)
	return nil
}

// Unsubscribe removes a view from dispatch. Unsubscribing a view that
// is not subscribed here is a no-op, so teardown paths may race
// against explicit calls in reentrant code without harm.
func (r *Registry) Unsubscribe(v *View) {
	if _, ok := r.subs[v]; !ok {
		return
	}
	delete(r.subs, v)
	for i, cur := range r.order {
		if cur == v {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	v.unbind()
}

// NumSubscribed returns the number of subscribed views.
func (r *Registry) NumSubscribed() int { return len(r.subs) }

// Refresh forces an immediate rebuild of one subscribed view, e.g.
// after SetRoot rebased it. Views not subscribed here are ignored.
func (r *Registry) Refresh(v *View) {
	if _, ok := r.subs[v]; ok {
		r.rebuild(v)
	}
}

// Close unsubscribes all views and detaches the registry from the
// graph's event stream. Idempotent. Views keep their last snapshot.
func (r *Registry) Close() {
	for _, v := range r.order {
		v.unbind()
	}
	r.order = nil
	r.subs = make(map[*View]struct{})
	r.g.RemoveListener(r)
}

// GraphChanged implements framegraph.Listener. Every structural event
// triggers one rebuild cascade; each view's rebuild is independent, so
// a root-removed fault in one view never aborts the others.
//
// The dispatch list is snapshotted first: an update callback may
// unsubscribe or move views without corrupting the cascade. Views
// unsubscribed mid-cascade are skipped.
func (r *Registry) GraphChanged(framegraph.Event) {
	for _, v := range slices.Clone(r.order) {
		if _, ok := r.subs[v]; ok {
			r.rebuild(v)
		}
	}
}

// rebuild re-derives one view from the current graph state and fires
// its update notification exactly once.
func (r *Registry) rebuild(v *View) {
	start := time.Now()
	root := v.root

	if !r.g.HasFrame(root) {
		v.replace(RelationMap{}, nil)
		err := errors.New(errors.ErrCodeRootRemoved, "root %s removed from graph", root)
		observability.Tree().OnRebuild(root.String(), 0, 0, time.Since(start), err)
		v.fireUpdate(err)
		return
	}

	relations, cross := traverse(r.g, root)
	v.replace(relations, cross)
	observability.Tree().OnRebuild(root.String(), len(relations), len(cross), time.Since(start), nil)
	v.fireUpdate(nil)
}
