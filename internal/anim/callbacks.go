package anim

import (
	"math"

	"github.com/ivlev/present3d/internal/scene"
)

// clock tracks animation time, excluding paused intervals.
type clock struct {
	started    bool
	first      float64
	latest     float64
	paused     bool
	pauseStart float64
	pausedFor  float64
}

func (c *clock) advance(t float64) {
	if !c.started {
		c.started = true
		c.first = t
		if c.paused {
			c.pauseStart = t
		}
	}
	c.latest = t
}

func (c *clock) elapsed() float64 {
	if c.paused {
		return c.pauseStart - c.first - c.pausedFor
	}
	return c.latest - c.first - c.pausedFor
}

func (c *clock) setPause(pause bool) {
	if pause == c.paused {
		return
	}
	if pause {
		c.pauseStart = c.latest
	} else {
		c.pausedFor += c.latest - c.pauseStart
	}
	c.paused = pause
}

func (c *clock) reset() {
	paused := c.paused
	*c = clock{}
	c.paused = paused
}

// PathCallback drives a transform along an animation path.
type PathCallback struct {
	Path           *Path
	TimeOffset     float64
	TimeMultiplier float64
	// Camera marks camera paths: the node carries the inverse placement.
	Camera bool

	clock clock
}

func NewPathCallback(p *Path, offset, multiplier float64, camera bool) *PathCallback {
	if multiplier == 0 {
		multiplier = 1
	}
	return &PathCallback{Path: p, TimeOffset: offset, TimeMultiplier: multiplier, Camera: camera}
}

// AnimationTime is the path time the callback last evaluated.
func (cb *PathCallback) AnimationTime() float64 {
	return cb.clock.elapsed()*cb.TimeMultiplier + cb.TimeOffset
}

func (cb *PathCallback) Update(t float64, tr *scene.Transform) {
	cb.clock.advance(t)
	cp := cb.Path.At(cb.AnimationTime())
	tr.Position = cp.Position
	tr.Rotate = FromQuat(cp.Rotation)
	tr.Inverse = cb.Camera
}

func (cb *PathCallback) SetPause(pause bool) { cb.clock.setPause(pause) }
func (cb *PathCallback) Reset()              { cb.clock.reset() }

// SpinCallback rotates a transform continuously about an axis through a
// pivot.
type SpinCallback struct {
	// Speed in degrees per second.
	Speed float64
	Axis  scene.Vec3
	Pivot scene.Vec3

	clock clock
}

func NewSpinCallback(speed float64, axis, pivot scene.Vec3) *SpinCallback {
	return &SpinCallback{Speed: speed, Axis: axis, Pivot: pivot}
}

// Angle is the current rotation in degrees, in [0, 360).
func (cb *SpinCallback) Angle() float64 {
	a := math.Mod(cb.clock.elapsed()*cb.Speed, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func (cb *SpinCallback) Update(t float64, tr *scene.Transform) {
	cb.clock.advance(t)
	tr.Rotate = scene.Vec4{cb.Angle(), cb.Axis[0], cb.Axis[1], cb.Axis[2]}
	tr.Pivot = cb.Pivot
}

func (cb *SpinCallback) SetPause(pause bool) { cb.clock.setPause(pause) }
func (cb *SpinCallback) Reset()              { cb.clock.reset() }
