package typeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleLine(t *testing.T) {
	m := NewMeasurer()
	b := m.Measure("Hello", 0.04, 0)
	assert.Len(t, b.Lines, 1)
	assert.InDelta(t, 0.04, b.Height, 1e-9)
	assert.Greater(t, b.Width, 0.0)
}

func TestWrapping(t *testing.T) {
	m := NewMeasurer()
	text := "the quick brown fox jumps over the lazy dog"
	one := m.Measure(text, 0.04, 0)
	wrapped := m.Measure(text, 0.04, one.Width/2)
	assert.Greater(t, len(wrapped.Lines), 1)
	assert.LessOrEqual(t, wrapped.Width, one.Width)
	assert.Greater(t, wrapped.Height, one.Height)
}

func TestExplicitNewlines(t *testing.T) {
	b := NewMeasurer().Measure("a\nb\nc", 1, 0)
	assert.Equal(t, []string{"a", "b", "c"}, b.Lines)
	assert.InDelta(t, 3.0, b.Height, 1e-9)
}
