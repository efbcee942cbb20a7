// Package scene holds the presentation graph: an arena of nodes addressed
// by generation-checked handles, with typed metadata and the behaviours
// (streams, update callbacks, layer attributes) that navigation drives.
package scene

import (
	"errors"
	"fmt"
)

// ErrStaleHandle is returned when a handle no longer refers to a live node.
var ErrStaleHandle = errors.New("stale scene handle")

// Handle is a non-owning reference to a node in a Graph. The zero Handle
// never refers to a node.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	if h.IsZero() {
		return "node(nil)"
	}
	return fmt.Sprintf("node(%d#%d)", h.index, h.gen)
}

// ObjectID identifies a behaviour attached to a node. IDs are never reused
// within a Graph.
type ObjectID uint64

// TraversalMode selects which children of switch nodes are visited.
type TraversalMode uint8

const (
	TraverseActiveChildren TraversalMode = iota
	TraverseAllChildren
)

type slot struct {
	gen  uint32
	live bool
	node Node
}

// Graph owns every node of a presentation.
type Graph struct {
	slots      []slot
	free       []uint32
	nextObject ObjectID
}

func NewGraph() *Graph {
	return &Graph{}
}

// Add stores n and returns its handle.
func (g *Graph) Add(n Node) Handle {
	if len(g.free) > 0 {
		idx := g.free[len(g.free)-1]
		g.free = g.free[:len(g.free)-1]
		s := &g.slots[idx]
		s.gen++
		s.live = true
		s.node = n
		return Handle{index: idx, gen: s.gen}
	}
	g.slots = append(g.slots, slot{gen: 1, live: true, node: n})
	return Handle{index: uint32(len(g.slots) - 1), gen: 1}
}

// Node resolves h. The returned pointer is valid until the next Add.
func (g *Graph) Node(h Handle) (*Node, bool) {
	if h.IsZero() || int(h.index) >= len(g.slots) {
		return nil, false
	}
	s := &g.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.node, true
}

// Remove releases the node. Outstanding handles to it become stale.
func (g *Graph) Remove(h Handle) error {
	if _, ok := g.Node(h); !ok {
		return ErrStaleHandle
	}
	s := &g.slots[h.index]
	s.live = false
	s.node = Node{}
	g.free = append(g.free, h.index)
	return nil
}

// Len reports the number of live nodes.
func (g *Graph) Len() int {
	return len(g.slots) - len(g.free)
}

func (g *Graph) AddChild(parent, child Handle) error {
	p, ok := g.Node(parent)
	if !ok {
		return fmt.Errorf("add child to %s: %w", parent, ErrStaleHandle)
	}
	if _, ok := g.Node(child); !ok {
		return fmt.Errorf("add %s as child: %w", child, ErrStaleHandle)
	}
	p.Children = append(p.Children, child)
	return nil
}

// SetChildren replaces the child list of parent.
func (g *Graph) SetChildren(parent Handle, children []Handle) error {
	p, ok := g.Node(parent)
	if !ok {
		return fmt.Errorf("set children of %s: %w", parent, ErrStaleHandle)
	}
	p.Children = append([]Handle(nil), children...)
	return nil
}

// Children returns a copy of the child list of h.
func (g *Graph) Children(h Handle) []Handle {
	n, ok := g.Node(h)
	if !ok {
		return nil
	}
	return append([]Handle(nil), n.Children...)
}

// Select makes child index the single active child of a switch node.
func (g *Graph) Select(h Handle, index int) error {
	n, ok := g.Node(h)
	if !ok {
		return fmt.Errorf("select on %s: %w", h, ErrStaleHandle)
	}
	if index < -1 || index >= len(n.Children) {
		return fmt.Errorf("select %d of %d children", index, len(n.Children))
	}
	n.Selected = index
	return nil
}

func (g *Graph) newObjectID() ObjectID {
	g.nextObject++
	return g.nextObject
}

// AttachStream records a playable stream on the node.
func (g *Graph) AttachStream(h Handle, s Stream) (ObjectID, error) {
	n, ok := g.Node(h)
	if !ok {
		return 0, fmt.Errorf("attach stream to %s: %w", h, ErrStaleHandle)
	}
	id := g.newObjectID()
	n.Streams = append(n.Streams, StreamRef{ID: id, Stream: s})
	return id, nil
}

// SetCallback installs the node's update callback, replacing any previous one.
func (g *Graph) SetCallback(h Handle, c Callback) (ObjectID, error) {
	n, ok := g.Node(h)
	if !ok {
		return 0, fmt.Errorf("set callback on %s: %w", h, ErrStaleHandle)
	}
	id := g.newObjectID()
	n.Update = &CallbackRef{ID: id, Callback: c}
	return id, nil
}

// LayerAttributes returns the node's layer attributes, creating them on
// first use.
func (g *Graph) LayerAttributes(h Handle) (*LayerAttributes, error) {
	n, ok := g.Node(h)
	if !ok {
		return nil, fmt.Errorf("layer attributes of %s: %w", h, ErrStaleHandle)
	}
	if n.Meta.Layer == nil {
		n.Meta.Layer = &LayerAttributes{ID: g.newObjectID(), Duration: -1}
	}
	return n.Meta.Layer, nil
}

// Walk visits h and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (g *Graph) Walk(h Handle, mode TraversalMode, fn func(Handle, *Node) bool) {
	n, ok := g.Node(h)
	if !ok {
		return
	}
	if !fn(h, n) {
		return
	}
	// fn may have added nodes; resolve again.
	n, _ = g.Node(h)
	children := n.Children
	if mode == TraverseActiveChildren && n.Kind.IsSwitch() {
		if n.Selected < 0 || n.Selected >= len(children) {
			return
		}
		children = children[n.Selected : n.Selected+1]
	}
	for _, c := range append([]Handle(nil), children...) {
		g.Walk(c, mode, fn)
	}
}

// Find returns the first node below h (inclusive) accepted by match.
func (g *Graph) Find(h Handle, mode TraversalMode, match func(*Node) bool) (Handle, bool) {
	var found Handle
	g.Walk(h, mode, func(c Handle, n *Node) bool {
		if !found.IsZero() {
			return false
		}
		if match(n) {
			found = c
			return false
		}
		return true
	})
	return found, !found.IsZero()
}

// Update runs the update callbacks of the active subtree at time t.
func (g *Graph) Update(h Handle, t float64) {
	g.Walk(h, TraverseActiveChildren, func(_ Handle, n *Node) bool {
		if n.Update != nil {
			n.Update.Callback.Update(t, &n.Transform)
		}
		return true
	})
}
