package viewer

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/present3d/internal/media/mediatest"
	"github.com/ivlev/present3d/internal/scene"
	"github.com/ivlev/present3d/internal/show"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func newConstructor() (*show.Constructor, *mediatest.Loader) {
	l := mediatest.New()
	return show.NewConstructor(l, slog.New(slog.NewTextHandler(io.Discard, nil))), l
}

func TestRenderImageOverBackground(t *testing.T) {
	c, l := newConstructor()
	l.AddImage("pic.png", 8, 6).Pixels = solid(8, 6, green)
	c.SetBackgroundColor(scene.Color{1, 0, 0, 1})
	c.AddSlide()
	c.AddLayer(true, false)
	pd := c.ImagePositionData()
	pd.Scale = scene.Vec3{0.5, 0.5, 0.5}
	_, ok := c.AddImage("pic.png", pd, show.DefaultImageData())
	require.True(t, ok)
	p := c.Presentation()

	frame := image.NewRGBA(image.Rect(0, 0, 320, 256))
	r := NewRenderer()
	r.Render(frame, p, p.Slides()[0])

	assert.Equal(t, red, frame.RGBAAt(10, 10))
	assert.Equal(t, red, frame.RGBAAt(300, 128))
	assert.Equal(t, green, frame.RGBAAt(160, 128))

	_, hit := r.HitTest(160, 128)
	assert.False(t, hit, "images without a click binding are not clickable")
}

func TestRenderSlideFillAndText(t *testing.T) {
	c, _ := newConstructor()
	c.AddSlide()
	c.SetSlideBackgroundColor(scene.Color{0, 0, 1, 1})
	c.AddLayer(true, false)
	h := c.AddBullet("click me", c.TextPositionData(), c.TextFontData())
	require.True(t, c.SetPickBinding(h, scene.PickBinding{Action: scene.PickRun, Command: "true"}))
	p := c.Presentation()

	frame := image.NewRGBA(image.Rect(0, 0, 320, 256))
	r := NewRenderer()
	r.Render(frame, p, p.Slides()[0])

	assert.Equal(t, blue, frame.RGBAAt(300, 250))

	// The bullet sits at 5% from the left and 15% from the top.
	inked := 0
	for y := 26; y < 42; y++ {
		for x := 14; x < 80; x++ {
			if frame.RGBAAt(x, y) != blue {
				inked++
			}
		}
	}
	assert.Positive(t, inked)

	got, ok := r.HitTest(20, 35)
	require.True(t, ok)
	assert.Equal(t, h, got)

	_, ok = r.HitTest(300, 250)
	assert.False(t, ok)
}

func TestRenderEmptySlideSize(t *testing.T) {
	c, _ := newConstructor()
	c.SetBackgroundColor(scene.Color{0, 1, 0, 1})
	c.AddSlide()
	p := c.Presentation()
	p.SlideWidth = 0

	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	assert.NotPanics(t, func() { NewRenderer().Render(frame, p, p.Slides()[0]) })
	assert.Equal(t, green, frame.RGBAAt(4, 4))
}
