// Package anim provides the per-frame behaviours attached to presentation
// nodes: animation paths, continuous rotation and rotation arithmetic.
package anim

import (
	"cogentcore.org/core/math32"

	"github.com/ivlev/present3d/internal/scene"
)

// Quat converts a rotation stored as (degrees, axis) to a quaternion.
func Quat(r scene.Vec4) math32.Quat {
	axis := math32.Vector3{X: float32(r[1]), Y: float32(r[2]), Z: float32(r[3])}
	if axis.Length() == 0 {
		return math32.NewQuat(0, 0, 0, 1)
	}
	return math32.NewQuatAxisAngle(axis.Normal(), math32.DegToRad(float32(r[0])))
}

// FromQuat converts a quaternion back to (degrees, axis).
func FromQuat(q math32.Quat) scene.Vec4 {
	q.Normalize()
	aa := q.ToAxisAngle()
	if aa.W == 0 {
		return scene.Vec4{0, 0, 0, 1}
	}
	return scene.Vec4{float64(math32.RadToDeg(aa.W)), float64(aa.X), float64(aa.Y), float64(aa.Z)}
}

// AccumulateRotation composes in onto acc. A zero accumulator takes in
// unchanged; otherwise the result is the quaternion product acc * in.
func AccumulateRotation(in, acc scene.Vec4) scene.Vec4 {
	if acc == (scene.Vec4{}) {
		return in
	}
	a := Quat(acc)
	return FromQuat(a.Mul(Quat(in)))
}
