package xmltree

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `<?xml version="1.0"?>
<presentation>
  <name>Demo</name>
  <slide inherit="base" duration="3">
    <title>  Hello  </title>
    <layer><bullet>one</bullet><bullet>two</bullet></layer>
  </slide>
</presentation>`

func TestParseTree(t *testing.T) {
	root, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "presentation", root.Name)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "Demo", root.Child("name").Contents)

	slide := root.Child("slide")
	v, ok := slide.Property("inherit")
	assert.True(t, ok)
	assert.Equal(t, "base", v)
	assert.Equal(t, "Hello", slide.Child("title").Contents)

	layer := slide.Child("layer")
	require.Len(t, layer.Children, 2)
	assert.Equal(t, "two", layer.Children[1].Contents)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrNoRoot))

	_, err = Parse(strings.NewReader("<presentation><slide></presentation>"))
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	root, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	c := root.Clone()
	c.Child("slide").SetProperty("inherit", "other")
	v, _ := root.Child("slide").Property("inherit")
	assert.Equal(t, "base", v)
}
