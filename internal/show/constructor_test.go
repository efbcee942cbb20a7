package show

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/present3d/internal/anim"
	"github.com/ivlev/present3d/internal/media"
	"github.com/ivlev/present3d/internal/media/mediatest"
	"github.com/ivlev/present3d/internal/scene"
)

func newTestConstructor(t *testing.T) (*Constructor, *mediatest.Loader) {
	t.Helper()
	l := mediatest.New()
	return NewConstructor(l, slog.New(slog.NewTextHandler(io.Discard, nil))), l
}

func node(t *testing.T, c *Constructor, h scene.Handle) *scene.Node {
	t.Helper()
	n, ok := c.Graph().Node(h)
	require.True(t, ok, "handle %s", h)
	return n
}

func TestDefaults(t *testing.T) {
	c, _ := newTestConstructor(t)
	w, h, d := c.SlideSize()
	assert.InDelta(t, 0.26*1280.0/1024.0, w, 1e-9)
	assert.InDelta(t, 0.26, h, 1e-9)
	assert.InDelta(t, 0.5, d, 1e-9)

	assert.Equal(t, scene.Vec3{0.05, 0.85, 0}, c.TextPositionData().Position)
	assert.Equal(t, scene.Vec3{0.5, 0.92, 0}, c.TitlePositionData().Position)
	assert.Equal(t, scene.Vec3{0.5, 0.5, 0}, c.ImagePositionData().Position)
	assert.Equal(t, scene.Vec3{0.5, 0.5, 0}, c.ModelPositionData().Position)
	assert.InDelta(t, 0.04, c.TextFontData().CharacterSize, 1e-9)
	assert.InDelta(t, 0.06, c.TitleFontData().CharacterSize, 1e-9)
	assert.Equal(t, DefaultFont, c.TextFontData().Font)
	assert.Equal(t, DefaultBackgroundColor, c.BackgroundColor())
	assert.Equal(t, DefaultTextColor, c.TextColor())
}

func TestSlideModelRoundTrip(t *testing.T) {
	c, _ := newTestConstructor(t)
	for _, p := range []scene.Vec3{{0.5, 0.5, 0}, {0.05, 0.85, 0}, {0.2, 0.7, 0.3}} {
		back := c.ModelToSlide(c.SlideToModel(p))
		for i := range p {
			assert.InDelta(t, p[i], back[i], 1e-9)
		}
	}
	centre := c.SlideToModel(scene.Vec3{0.5, 0.5, 0})
	assert.InDelta(t, 0, centre[0], 1e-9)
	assert.InDelta(t, 0.5, centre[1], 1e-9)
	assert.InDelta(t, 0, centre[2], 1e-9)
}

func TestContentCreatesSlideAndLayerLazily(t *testing.T) {
	c, _ := newTestConstructor(t)
	c.AddBullet("hello", c.TextPositionData(), c.TextFontData())

	assert.Equal(t, 1, c.NumSlides())
	slide := c.CurrentSlide()
	layers := c.Graph().Children(slide)
	require.Len(t, layers, 1)
	assert.Equal(t, 0, node(t, c, slide).Selected)

	p := c.Presentation()
	require.NotNil(t, p)
	assert.Equal(t, 1, p.NumSlides())
	root, ok := p.Graph.Node(p.Root)
	require.True(t, ok)
	assert.Equal(t, 0, root.Selected)
}

func TestBulletAdvancesCursor(t *testing.T) {
	c, _ := newTestConstructor(t)
	fd := c.TextFontData()
	h := c.AddBullet("one line", c.TextPositionData(), fd)
	text := node(t, c, h).Content.Text
	require.NotNil(t, text)
	assert.Equal(t, 1, text.Lines)
	assert.InDelta(t, 0.04*0.26, text.CharacterSize, 1e-9)

	// One line: the cursor drops by the paragraph gap only.
	next := c.TextPositionData().Position
	assert.InDelta(t, 0.05, next[0], 1e-9)
	assert.InDelta(t, 0.85-0.04*1.5, next[1], 1e-9)

	c.AddParagraph("first\nsecond", c.TextPositionData(), fd)
	after := c.TextPositionData().Position
	assert.InDelta(t, next[1]-0.04*(1+1.5), after[1], 1e-9)
}

func TestEyeBulletKeepsCursorFinite(t *testing.T) {
	c, _ := newTestConstructor(t)
	pd := c.TextPositionData()
	pd.Position = scene.Vec3{0, 0, 1}
	eye := c.AddBullet("a", pd, c.TextFontData())
	assert.Equal(t, scene.Vec3{}, node(t, c, eye).Transform.Position)

	next := c.TextPositionData().Position
	assert.InDelta(t, -0.04*1.5, next[1], 1e-9)
	h := c.AddBullet("b", c.TextPositionData(), c.TextFontData())
	for i, v := range node(t, c, h).Transform.Position {
		assert.False(t, math.IsNaN(v), "component %d", i)
	}
	assert.Equal(t, scene.Vec3{0, 0, 1}, c.ModelToSlide(scene.Vec3{}))
}

func TestLayerlessSlideGetsFurnitureLayer(t *testing.T) {
	c, _ := newTestConstructor(t)
	c.AddSlide()
	c.AddLayer(true, false)
	intro := c.AddSlide()
	bg := c.SetSlideBackgroundColor(scene.Color{0, 0, 1, 1})
	title := c.SetSlideTitle("Intro", c.TitlePositionData(), c.TitleFontData())
	c.AddSlide()
	c.AddBullet("c", c.TextPositionData(), c.TextFontData())
	last := c.AddSlide()

	p := c.Presentation()
	require.Equal(t, 4, p.NumSlides())
	layers := p.Layers(intro)
	require.Len(t, layers, 1)
	assert.Equal(t, []scene.Handle{bg, title}, p.Graph.Children(layers[0]))
	n, ok := p.Graph.Node(intro)
	require.True(t, ok)
	assert.Equal(t, 0, n.Selected)
	assert.Len(t, p.Layers(last), 1, "a slide left empty still gets a layer")
}

func TestStickyDefaults(t *testing.T) {
	c, _ := newTestConstructor(t)
	pd := c.TextPositionData()
	pd.Position = scene.Vec3{0.3, 0.5, 0}
	fd := c.TextFontData()
	fd.CharacterSize = 0.05
	c.AddBullet("a", pd, fd)

	assert.InDelta(t, 0.05, c.TextFontData().CharacterSize, 1e-9)
	assert.InDelta(t, 0.3, c.TextPositionData().Position[0], 1e-9)
	assert.InDelta(t, 0.5-0.05*1.5, c.TextPositionData().Position[1], 1e-9)
}

func TestLayerInheritance(t *testing.T) {
	c, _ := newTestConstructor(t)
	c.AddSlide()
	title := c.SetSlideTitle("Title", c.TitlePositionData(), c.TitleFontData())
	l1 := c.AddLayer(true, false)
	c.AddBullet("a", c.TextPositionData(), c.TextFontData())
	require.Len(t, c.Graph().Children(l1), 2)
	assert.Equal(t, title, c.Graph().Children(l1)[0])

	l2 := c.AddLayer(true, false)
	c.AddBullet("b", c.TextPositionData(), c.TextFontData())
	assert.Len(t, c.Graph().Children(l2), 3)
	assert.Len(t, c.Graph().Children(l1), 2, "inheriting layers must not change their predecessor")
	moved := c.TextPositionData().Position[1]
	assert.Less(t, moved, 0.85-0.04*1.5)

	l3 := c.AddLayer(false, false)
	assert.Equal(t, []scene.Handle{title}, c.Graph().Children(l3))
	assert.Equal(t, scene.Vec3{0.05, 0.85, 0}, c.TextPositionData().Position)
	assert.Len(t, c.Graph().Children(c.CurrentSlide()), 3)
}

func TestBaseLayerSeedsWithoutShowing(t *testing.T) {
	c, _ := newTestConstructor(t)
	c.AddSlide()
	base := c.AddLayer(false, true)
	c.AddBullet("shared", c.TextPositionData(), c.TextFontData())
	layer := c.AddLayer(true, false)

	assert.Equal(t, []scene.Handle{layer}, c.Graph().Children(c.CurrentSlide()))
	assert.Equal(t, c.Graph().Children(base), c.Graph().Children(layer))
}

func TestSlideBackgroundColorIsFurniture(t *testing.T) {
	c, _ := newTestConstructor(t)
	c.AddSlide()
	bg := c.SetSlideBackgroundColor(scene.Color{1, 0, 0, 1})
	l := c.AddLayer(false, false)
	children := c.Graph().Children(l)
	require.Len(t, children, 1)
	assert.Equal(t, bg, children[0])
	fill := node(t, c, bg).Content.Fill
	require.NotNil(t, fill)
	assert.Equal(t, scene.Color{1, 0, 0, 1}, *fill)
}

func TestSelectSlideAndLayer(t *testing.T) {
	c, _ := newTestConstructor(t)
	s0 := c.AddSlide()
	c.AddLayer(true, false)
	last := c.AddLayer(true, false)
	c.AddSlide()

	assert.False(t, c.SelectSlide(5))
	require.True(t, c.SelectSlide(0))
	assert.Equal(t, s0, c.CurrentSlide())
	assert.Equal(t, last, c.CurrentLayer())
	assert.True(t, c.SelectLayer(0))
	assert.False(t, c.SelectLayer(2))
}

func TestImageExtentAndStream(t *testing.T) {
	c, l := newTestConstructor(t)
	l.AddImage("wide.png", 200, 100)
	movie := l.AddImage("clip.mov", 1280, 720)
	movie.Stream = media.NewClockStream(0, true, nil)

	h, ok := c.AddImage("wide.png", c.ImagePositionData(), DefaultImageData())
	require.True(t, ok)
	img := node(t, c, h).Content.Image
	require.NotNil(t, img)
	w, _, _ := c.SlideSize()
	assert.InDelta(t, w, img.Width, 1e-9)
	assert.InDelta(t, w*0.5, img.Height, 1e-9)

	h, ok = c.AddImage("clip.mov", c.ImagePositionData(), DefaultImageData())
	require.True(t, ok)
	assert.Len(t, node(t, c, h).Streams, 1)
}

func TestFailedLoadsAreSkipped(t *testing.T) {
	c, _ := newTestConstructor(t)
	_, ok := c.AddImage("missing.png", c.ImagePositionData(), DefaultImageData())
	assert.False(t, ok)
	_, ok = c.AddModel("missing.obj", c.ModelPositionData(), ModelData{})
	assert.False(t, ok)
	_, ok = c.AddStereoImagePair("l.png", "r.png", c.ImagePositionData(), DefaultImageData(), DefaultImageData())
	assert.False(t, ok)
	assert.Equal(t, 0, c.NumSlides())
}

func TestModelFit(t *testing.T) {
	c, l := newTestConstructor(t)
	l.Models["cow.obj"] = &media.Model{Path: "cow.obj", Center: scene.Vec3{1, 2, 3}, Radius: 2}

	h, ok := c.AddModel("cow.obj", c.ModelPositionData(), ModelData{})
	require.True(t, ok)
	tr := node(t, c, h).Transform
	assert.InDelta(t, 0.26*0.7/2, tr.Scale[0], 1e-9)
	assert.Equal(t, scene.Vec3{1, 2, 3}, tr.Pivot)

	pd := DefaultPositionData()
	pd.Frame = FrameModel
	pd.Position = scene.Vec3{1, 1, 1}
	pd.Scale = scene.Vec3{2, 2, 2}
	h, ok = c.AddModel("cow.obj", pd, ModelData{})
	require.True(t, ok)
	tr = node(t, c, h).Transform
	assert.Equal(t, scene.Vec3{2, 2, 2}, tr.Scale)
	assert.Equal(t, scene.Vec3{1, 1, 1}, tr.Position)
}

func TestAnimationCallbacks(t *testing.T) {
	c, l := newTestConstructor(t)
	l.Models["cow.obj"] = &media.Model{Path: "cow.obj", Radius: 1}
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "fly.path")
	require.NoError(t, os.WriteFile(pathFile, []byte("0 0 0 0 0 0 0 1\n1 1 0 0 0 0 0 1\n"), 0644))
	l.Files["fly.path"] = pathFile

	pd := c.ModelPositionData()
	pd.Rotation = scene.Vec4{45, 0, 0, 1}
	h, ok := c.AddModel("cow.obj", pd, ModelData{})
	require.True(t, ok)
	spin := node(t, c, h)
	require.NotNil(t, spin.Update)
	assert.IsType(t, &anim.SpinCallback{}, spin.Update.Callback)

	pd = c.ModelPositionData()
	pd.Rotation = scene.Vec4{}
	pd.Path = "fly.path"
	pd.CameraPath = true
	h, ok = c.AddModel("cow.obj", pd, ModelData{})
	require.True(t, ok)
	path := node(t, c, h)
	require.NotNil(t, path.Update)
	cb, ok := path.Update.Callback.(*anim.PathCallback)
	require.True(t, ok)
	assert.True(t, cb.Camera)

	// An unreadable path leaves the item unanimated.
	pd.Path = "nowhere.path"
	h, ok = c.AddModel("cow.obj", pd, ModelData{})
	require.True(t, ok)
	assert.Nil(t, node(t, c, h).Update)
}

func TestInteractiveSurfaces(t *testing.T) {
	c, l := newTestConstructor(t)
	l.AddPDF("doc.pdf", 3)

	id := DefaultImageData()
	id.Page = 2
	h, s, ok := c.AddPDF("doc.pdf", c.ImagePositionData(), id)
	require.True(t, ok)
	assert.Equal(t, 3, s.Pages)
	surf := node(t, c, h).Content.Surface
	require.NotNil(t, surf)
	assert.Equal(t, 2, surf.Page)

	h, ok = c.AddBrowser("http://example.com", c.ImagePositionData(), DefaultImageData())
	require.True(t, ok)
	assert.Equal(t, scene.KindInteractive, node(t, c, h).Kind)
}

func TestLayerAttributes(t *testing.T) {
	c, _ := newTestConstructor(t)
	c.AddSlide()
	c.SetSlideDuration(4)
	c.SetSlideJump(scene.JumpData{Slide: 2})
	layer := c.AddLayer(true, false)
	c.SetLayerDuration(2)
	c.AddLayerRunString("echo hi")
	c.AddLayerKey(scene.KeyPosition{Key: 'a'})
	c.SetLayerJump(scene.JumpData{Relative: true, Layer: 1})

	sla := node(t, c, c.CurrentSlide()).Meta.Layer
	require.NotNil(t, sla)
	assert.Equal(t, 4.0, sla.Duration)
	assert.True(t, sla.RequiresJump())

	la := node(t, c, layer).Meta.Layer
	require.NotNil(t, la)
	assert.Equal(t, 2.0, la.Duration)
	assert.Equal(t, []string{"echo hi"}, la.RunStrings)
	assert.Len(t, la.Keys, 1)
	assert.True(t, la.RequiresJump())
	assert.NotEqual(t, sla.ID, la.ID)
}

func TestHoldingSlidesStayOutOfSequence(t *testing.T) {
	c, _ := newTestConstructor(t)
	c.AddSlide()
	c.AddHoldingSlide()
	c.AddBullet("please wait", c.TextPositionData(), c.TextFontData())

	p := c.Presentation()
	require.NotNil(t, p)
	assert.Equal(t, 1, p.NumSlides())
	require.Len(t, p.Holding, 1)
	assert.Len(t, p.Layers(p.Holding[0]), 1)
}

func TestPresentationTransfersOwnership(t *testing.T) {
	c, _ := newTestConstructor(t)
	empty := c.Presentation()
	require.NotNil(t, empty)
	assert.Equal(t, 0, empty.NumSlides())

	c.SetPresentationName("demo")
	c.SetLoop(true)
	c.SetPresentationDuration(3)
	c.AddSlide()
	p := c.Presentation()
	require.NotNil(t, p)
	assert.Equal(t, "demo", p.Name)
	assert.True(t, p.Loop)
	assert.Equal(t, 3.0, p.Duration)

	next := c.Presentation()
	assert.NotSame(t, p.Graph, next.Graph)
	assert.Equal(t, 0, next.NumSlides())
}
