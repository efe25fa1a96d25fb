// Package tree derives tree-shaped views from a frame graph and keeps
// them consistent under mutation.
//
// A [View] is a breadth-first spanning tree of the subgraph reachable
// from a chosen root frame, plus the list of cross edges: edges whose
// target was already discovered through a different path when the edge
// was examined. Tree edges are implied by the parent/child relation
// map and are never cross edges. Back-style edges into later-visited
// frames are cross edges too; the distinction is purely
// "already discovered" at examination time.
//
// # Static and live views
//
// [Build] produces a static snapshot. A [Registry] attached to the
// graph's event stream produces live views: after every structural
// mutation it rebuilds each subscribed view from scratch and fires the
// view's update notification. Rebuilds are always full; see Registry
// for the reasoning.
//
// # Lifecycle
//
//	reg := tree.NewRegistry(g)
//	defer reg.Close()
//
//	v, err := reg.Build(root)      // live view
//	v.SetUpdateFunc(func(err error) { ... })
//	...
//	v.Close()                      // unsubscribes
//
// Clone duplicates the snapshot but never the subscription; Move
// transfers the subscription to the returned view so that only it
// receives further notifications.
package tree
