// Package operators tracks the runtime behaviours of the visible part of a
// presentation. On every navigation step the behaviours found under the new
// subtree are compared with the previous set: behaviours that disappeared
// are left, those still present are maintained and new ones are entered.
package operators

import (
	"log/slog"

	"github.com/ivlev/present3d/internal/scene"
)

// KeyDispatcher receives the key presses a layer sends when it is entered.
type KeyDispatcher interface {
	DispatchKey(kp scene.KeyPosition)
}

// Runner starts external commands.
type Runner interface {
	Run(command string) error
}

// Env is what operators may act on.
type Env struct {
	Keys   KeyDispatcher
	Runner Runner
	Logger *slog.Logger
}

func (e *Env) logger() *slog.Logger {
	if e != nil && e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Operator wraps one behaviour attached to a node.
type Operator interface {
	ID() scene.ObjectID
	Enter(env *Env)
	Maintain(env *Env)
	Leave(env *Env)
	SetPause(env *Env, pause bool)
	Reset(env *Env)
}

// StreamOperator plays a movie while it is visible.
type StreamOperator struct {
	id     scene.ObjectID
	stream scene.Stream
}

func NewStreamOperator(ref scene.StreamRef) *StreamOperator {
	return &StreamOperator{id: ref.ID, stream: ref.Stream}
}

func (o *StreamOperator) ID() scene.ObjectID { return o.id }

func (o *StreamOperator) Enter(env *Env) { o.Reset(env) }

func (o *StreamOperator) Maintain(*Env) {}

func (o *StreamOperator) Leave(*Env) { o.stream.Pause() }

func (o *StreamOperator) SetPause(_ *Env, pause bool) {
	if pause {
		o.stream.Pause()
	} else {
		o.stream.Play()
	}
}

// Reset rewinds the stream, keeping it playing if it was.
func (o *StreamOperator) Reset(*Env) {
	playing := o.stream.Status() == scene.StreamPlaying
	if playing {
		o.stream.Pause()
	}
	o.stream.Rewind()
	if playing {
		o.stream.Play()
	}
}

// CallbackOperator drives an update callback such as an animation path.
type CallbackOperator struct {
	id scene.ObjectID
	cb scene.Callback
}

func NewCallbackOperator(ref scene.CallbackRef) *CallbackOperator {
	return &CallbackOperator{id: ref.ID, cb: ref.Callback}
}

func (o *CallbackOperator) ID() scene.ObjectID { return o.id }

func (o *CallbackOperator) Enter(env *Env) { o.Reset(env) }

func (o *CallbackOperator) Maintain(*Env) {}

func (o *CallbackOperator) Leave(*Env) {}

func (o *CallbackOperator) SetPause(_ *Env, pause bool) { o.cb.SetPause(pause) }

func (o *CallbackOperator) Reset(*Env) { o.cb.Reset() }

// LayerAttributesOperator runs the enter and leave actions of a
// presentation, slide or layer.
type LayerAttributesOperator struct {
	node  scene.Handle
	attrs *scene.LayerAttributes
}

func NewLayerAttributesOperator(h scene.Handle, la *scene.LayerAttributes) *LayerAttributesOperator {
	return &LayerAttributesOperator{node: h, attrs: la}
}

func (o *LayerAttributesOperator) ID() scene.ObjectID { return o.attrs.ID }

// Enter runs the enter callbacks, sends the queued keys and starts the run
// strings.
func (o *LayerAttributesOperator) Enter(env *Env) {
	o.attrs.CallEnterCallbacks(o.node)

	if len(o.attrs.Keys) > 0 {
		if env == nil || env.Keys == nil {
			env.logger().Warn("no key dispatcher, layer keys dropped", "node", o.node.String(), "keys", len(o.attrs.Keys))
		} else {
			for _, kp := range o.attrs.Keys {
				env.Keys.DispatchKey(kp)
			}
		}
	}

	for _, cmd := range o.attrs.RunStrings {
		if env == nil || env.Runner == nil {
			env.logger().Warn("no runner, command dropped", "command", cmd)
			continue
		}
		if err := env.Runner.Run(cmd); err != nil {
			env.logger().Warn("run failed", "command", cmd, "error", err)
		}
	}
}

func (o *LayerAttributesOperator) Maintain(*Env) {}

func (o *LayerAttributesOperator) Leave(*Env) {
	o.attrs.CallLeaveCallbacks(o.node)
}

func (o *LayerAttributesOperator) SetPause(*Env, bool) {}

func (o *LayerAttributesOperator) Reset(*Env) {}
