package anim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/present3d/internal/scene"
)

func assertRotation(t *testing.T, want, got scene.Vec4) {
	t.Helper()
	// Compare as quaternions: (a, axis) and (-a, -axis) are the same rotation.
	qw, qg := Quat(want), Quat(got)
	dot := qw.X*qg.X + qw.Y*qg.Y + qw.Z*qg.Z + qw.W*qg.W
	assert.InDelta(t, 1.0, float64(dot*dot), 1e-4, "want %v got %v", want, got)
}

func TestAccumulateSingleRotationUnchanged(t *testing.T) {
	r := scene.Vec4{90, 0, 0, 1}
	assert.Equal(t, r, AccumulateRotation(r, scene.Vec4{}))
}

func TestAccumulateIsQuaternionProduct(t *testing.T) {
	steps := []scene.Vec4{{90, 0, 0, 1}, {45, 1, 0, 0}, {30, 0, 1, 0}, {10, 1, 1, 0}}

	acc := scene.Vec4{}
	for _, s := range steps {
		acc = AccumulateRotation(s, acc)
	}

	q := Quat(steps[0])
	for _, s := range steps[1:] {
		q = q.Mul(Quat(s))
	}
	assertRotation(t, FromQuat(q), acc)
}

func TestAccumulateSameAxisAddsAngles(t *testing.T) {
	acc := AccumulateRotation(scene.Vec4{30, 0, 0, 1}, scene.Vec4{60, 0, 0, 1})
	assert.InDelta(t, 90, acc[0], 1e-3)
	assert.InDelta(t, 1, acc[3], 1e-4)
}

const samplePath = `# time x y z qx qy qz qw
0 0 0 0 0 0 0 1
2 2 0 0 0 0 0 1
`

func TestPathInterpolationAndLoopModes(t *testing.T) {
	p, err := ReadPath(strings.NewReader(samplePath))
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.Period())

	assert.InDelta(t, 1.0, p.At(1).Position[0], 1e-9)

	p.Mode = Loop
	assert.InDelta(t, 0.5, p.At(2.5).Position[0], 1e-9)

	p.Mode = Swing
	assert.InDelta(t, 1.5, p.At(2.5).Position[0], 1e-9)

	p.Mode = NoLooping
	assert.InDelta(t, 2.0, p.At(10).Position[0], 1e-9)
}

func TestReadPathErrors(t *testing.T) {
	_, err := ReadPath(strings.NewReader("0 1 2\n"))
	assert.Error(t, err)
	_, err = ReadPath(strings.NewReader("# nothing\n"))
	assert.Error(t, err)
}

func TestPathCallbackPauseAndMultiplier(t *testing.T) {
	p, err := ReadPath(strings.NewReader(samplePath))
	require.NoError(t, err)
	p.Mode = NoLooping
	cb := NewPathCallback(p, 0, 2, true)

	var tr scene.Transform
	cb.Update(10, &tr)
	cb.Update(10.5, &tr)
	assert.InDelta(t, 1.0, tr.Position[0], 1e-9)
	assert.True(t, tr.Inverse)

	cb.SetPause(true)
	cb.Update(20, &tr)
	assert.InDelta(t, 1.0, tr.Position[0], 1e-9)

	cb.SetPause(false)
	cb.Update(20.25, &tr)
	assert.InDelta(t, 1.5, tr.Position[0], 1e-9)

	cb.Reset()
	cb.Update(30, &tr)
	assert.InDelta(t, 0.0, tr.Position[0], 1e-9)
}

func TestSpinCallback(t *testing.T) {
	cb := NewSpinCallback(90, scene.Vec3{0, 0, 1}, scene.Vec3{1, 2, 3})
	var tr scene.Transform
	cb.Update(0, &tr)
	cb.Update(5, &tr)
	assert.InDelta(t, 90, tr.Rotate[0], 1e-9)
	assert.Equal(t, scene.Vec3{1, 2, 3}, tr.Pivot)

	mode, ok := ParseLoopMode("SWING")
	assert.True(t, ok)
	assert.Equal(t, Swing, mode)
	_, ok = ParseLoopMode("swing")
	assert.False(t, ok)
}
