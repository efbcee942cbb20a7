package navigator

import (
	"math"

	"github.com/ivlev/present3d/internal/keys"
	"github.com/ivlev/present3d/internal/scene"
)

// HandleKey applies a key press. Presses closer than MinKeyInterval to the
// previous accepted one are dropped. It reports whether the key was used.
func (n *Navigator) HandleKey(ev KeyEvent) bool {
	if ev.Time-n.lastKeyTime < n.MinKeyInterval {
		return false
	}
	n.lastKeyTime = ev.Time
	if ev.Time > n.now {
		n.now = ev.Time
	}
	if n.pres == nil {
		return false
	}

	switch ev.Key {
	case 'g':
		n.SetAutoStepping(true)
		return true
	case 'h':
		n.SetAutoStepping(false)
		return true
	case 'p':
		n.SetPause(!n.pause)
		return true
	case 'r':
		n.Reset()
		return true
	}

	var step func() bool
	switch ev.Key {
	case keys.Home:
		step = func() bool { return n.SelectSlide(0, 0) }
	case keys.End:
		step = func() bool { return n.SelectSlide(LastPosition, LastPosition) }
	case keys.Down:
		step = n.NextLayer
	case keys.Up:
		step = n.PreviousLayer
	case keys.Right:
		step = n.NextLayerOrSlide
	case keys.Left:
		step = n.PreviousLayerOrSlide
	case keys.PageDown:
		step = n.NextSlide
	case keys.PageUp:
		step = n.PreviousSlide
	default:
		n.Logger.Debug("key not bound", "key", ev.Key.String())
		return false
	}
	n.autoStepping = false
	step()
	return true
}

// DispatchKey sends a key on behalf of the presentation, bypassing the key
// interval. Keys sent while a step is in progress are applied after it.
func (n *Navigator) DispatchKey(kp scene.KeyPosition) {
	n.pending = append(n.pending, kp)
	if n.processing {
		return
	}
	n.drainKeys()
}

func (n *Navigator) drainKeys() {
	if n.draining {
		return
	}
	n.draining = true
	defer func() { n.draining = false }()
	for i := 0; len(n.pending) > 0; i++ {
		if i == maxQueuedKeys {
			n.Logger.Warn("dropping dispatched keys", "pending", len(n.pending))
			n.pending = nil
			return
		}
		kp := n.pending[0]
		n.pending = n.pending[1:]
		n.lastKeyTime = math.Inf(-1)
		n.HandleKey(KeyEvent{Key: kp.Key, Time: n.now})
	}
}

// Pick performs the click binding of node h, if it has one.
func (n *Navigator) Pick(h scene.Handle) bool {
	if n.pres == nil {
		return false
	}
	node, ok := n.pres.Graph.Node(h)
	if !ok || node.Pick == nil {
		return false
	}
	b := *node.Pick
	switch b.Action {
	case scene.PickRun:
		if n.Runner == nil {
			n.Logger.Warn("no runner for click", "command", b.Command)
			return false
		}
		if err := n.Runner.Run(b.Command); err != nil {
			n.Logger.Warn("click command failed", "command", b.Command, "error", err)
			return false
		}
		return true
	case scene.PickKey:
		n.DispatchKey(scene.KeyPosition{Key: b.Key})
		return true
	case scene.PickJump:
		return n.jump(b.Jump)
	}
	return false
}
