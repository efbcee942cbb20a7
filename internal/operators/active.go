package operators

import (
	"github.com/ivlev/present3d/internal/scene"
)

// ActiveOperators holds the operators of the visible subtree and the three
// buckets computed by the last Collect.
type ActiveOperators struct {
	pause bool

	current    []Operator
	outgoing   []Operator
	maintained []Operator
	incoming   []Operator
}

func New() *ActiveOperators {
	return &ActiveOperators{}
}

// Discover returns the operators below h in discovery order. Behaviours
// reachable along several paths are reported once.
func Discover(g *scene.Graph, h scene.Handle, mode scene.TraversalMode) []Operator {
	var ops []Operator
	seen := make(map[scene.ObjectID]bool)
	add := func(op Operator) {
		if seen[op.ID()] {
			return
		}
		seen[op.ID()] = true
		ops = append(ops, op)
	}
	g.Walk(h, mode, func(nh scene.Handle, n *scene.Node) bool {
		for _, s := range n.Streams {
			add(NewStreamOperator(s))
		}
		if n.Update != nil {
			add(NewCallbackOperator(*n.Update))
		}
		if n.Meta.Layer != nil {
			add(NewLayerAttributesOperator(nh, n.Meta.Layer))
		}
		return true
	})
	return ops
}

// Collect makes the operators below h current and sorts them against the
// previous set into outgoing, maintained and incoming.
func (a *ActiveOperators) Collect(g *scene.Graph, h scene.Handle, mode scene.TraversalMode) {
	previous := a.current
	a.current = Discover(g, h, mode)

	now := make(map[scene.ObjectID]bool, len(a.current))
	for _, op := range a.current {
		now[op.ID()] = true
	}
	before := make(map[scene.ObjectID]bool, len(previous))
	for _, op := range previous {
		before[op.ID()] = true
	}

	a.outgoing, a.maintained, a.incoming = nil, nil, nil
	for _, op := range previous {
		if !now[op.ID()] {
			a.outgoing = append(a.outgoing, op)
		}
	}
	for _, op := range a.current {
		if before[op.ID()] {
			a.maintained = append(a.maintained, op)
		} else {
			a.incoming = append(a.incoming, op)
		}
	}
}

// Process leaves the outgoing operators, maintains the maintained ones and
// enters the incoming ones, in that order. Entered operators take the
// current pause state.
func (a *ActiveOperators) Process(env *Env) {
	for _, op := range a.outgoing {
		op.Leave(env)
	}
	for _, op := range a.maintained {
		op.Maintain(env)
	}
	for _, op := range a.incoming {
		op.Enter(env)
		op.SetPause(env, a.pause)
	}
}

// Clear leaves every current operator and forgets them, as when the
// presentation they belong to is replaced.
func (a *ActiveOperators) Clear(env *Env) {
	for _, op := range a.current {
		op.Leave(env)
	}
	a.current, a.outgoing, a.maintained, a.incoming = nil, nil, nil, nil
}

// SetPause pauses or resumes the current operators.
func (a *ActiveOperators) SetPause(env *Env, pause bool) {
	a.pause = pause
	for _, op := range a.current {
		op.SetPause(env, pause)
	}
}

func (a *ActiveOperators) Pause() bool { return a.pause }

// Reset resets the current operators.
func (a *ActiveOperators) Reset(env *Env) {
	for _, op := range a.current {
		op.Reset(env)
	}
}

func (a *ActiveOperators) Current() []Operator    { return append([]Operator(nil), a.current...) }
func (a *ActiveOperators) Outgoing() []Operator   { return append([]Operator(nil), a.outgoing...) }
func (a *ActiveOperators) Maintained() []Operator { return append([]Operator(nil), a.maintained...) }
func (a *ActiveOperators) Incoming() []Operator   { return append([]Operator(nil), a.incoming...) }
