package show

import (
	"math"

	"github.com/ivlev/present3d/internal/media"
	"github.com/ivlev/present3d/internal/scene"
)

func (c *Constructor) newText(name, text string, pd PositionData, fd FontData) (scene.Handle, int) {
	cs := fd.CharacterSize * c.slideHeight
	block := c.measurer.Measure(text, cs, fd.MaxWidth*c.slideWidth)
	n := scene.NewNode(scene.KindText, name)
	n.Transform.Position = c.modelPositionOf(pd)
	n.Transform.Rotate = pd.Rotate
	n.Content.Text = &scene.Text{
		Text:          text,
		Font:          fd.Font,
		CharacterSize: cs,
		MaxWidth:      fd.MaxWidth * c.slideWidth,
		Color:         fd.Color,
		Layout:        fd.Layout,
		Alignment:     fd.Alignment,
		Lines:         len(block.Lines),
		Width:         block.Width,
		Height:        block.Height,
	}
	return c.Graph().Add(n), max(len(block.Lines), 1)
}

// addText creates a title node. It is also added to the current layer
// when one exists, which happens when a slide is modified after the fact.
func (c *Constructor) addText(name, text string, pd PositionData, fd FontData) scene.Handle {
	h, _ := c.newText(name, text, pd, fd)
	if !c.currentLayer.IsZero() {
		_ = c.graph.AddChild(c.currentLayer, h)
	}
	return h
}

// addBodyText places text at the cursor and moves the cursor below it.
func (c *Constructor) addBodyText(name, text string, pd PositionData, fd FontData) scene.Handle {
	layer := c.ensureLayer()
	h, lines := c.newText(name, text, pd, fd)
	local := c.modelPositionOf(pd)
	top := c.attachAnimation(h, pd, local)
	_ = c.graph.AddChild(layer, top)

	// Slide-frame cursors advance in slide units.
	advance := fd.CharacterSize * (float64(lines-1)*c.measurer.LineSpacing + paragraphGap)
	if pd.Frame == FrameSlide {
		pd.Position[1] -= advance
	} else {
		local[2] -= advance * c.slideHeight
		pd.Position = local
	}
	c.textPosition = pd
	c.textFont = fd
	return top
}

// AddBullet adds a bullet point at pd and advances the text cursor.
func (c *Constructor) AddBullet(text string, pd PositionData, fd FontData) scene.Handle {
	return c.addBodyText("bullet", text, pd, fd)
}

// AddParagraph adds a block of text at pd and advances the text cursor.
func (c *Constructor) AddParagraph(text string, pd PositionData, fd FontData) scene.Handle {
	return c.addBodyText("paragraph", text, pd, fd)
}

func regionOf(id ImageData) scene.Vec4 {
	r := id.Region
	if r[2] <= r[0] || r[3] <= r[1] {
		return scene.Vec4{0, 0, 1, 1}
	}
	return r
}

// imageExtent returns the placed width and height of an image of w by h
// pixels.
func (c *Constructor) imageExtent(w, h int, pixelAspect float64, pd PositionData, region scene.Vec4) (float64, float64) {
	if pixelAspect <= 0 {
		pixelAspect = 1
	}
	sw := float64(w) * (region[2] - region[0]) * pixelAspect
	sh := float64(h) * (region[3] - region[1])
	aspect := 1.0
	if sw > 0 {
		aspect = sh / sw
	}
	sx, sy := pd.Scale[0], pd.Scale[1]
	if sx == 0 {
		sx = 1
	}
	width := c.slideWidth * sx
	return width, width * aspect * sy / sx
}

func (c *Constructor) imageNode(img *media.Image, pd PositionData, id ImageData) scene.Image {
	region := regionOf(id)
	w, h := c.imageExtent(img.Width, img.Height, img.PixelAspect, pd, region)
	return scene.Image{
		Path:        img.Path,
		PixelWidth:  img.Width,
		PixelHeight: img.Height,
		Width:       w,
		Height:      h,
		Region:      region,
		Looping:     id.Looping,
		Pixels:      img.Pixels,
	}
}

func (c *Constructor) loadImage(file string) (*media.Image, bool) {
	if c.Loader == nil {
		c.warn("no loader for image", "file", file)
		return nil, false
	}
	img, err := c.Loader.LoadImage(file)
	if err != nil {
		c.warn("could not load image", "file", file, "error", err)
		return nil, false
	}
	return img, true
}

// AddImage places an image, or a movie when the file is one. Movies get a
// stream that the layer's operators start and stop.
func (c *Constructor) AddImage(file string, pd PositionData, id ImageData) (scene.Handle, bool) {
	img, ok := c.loadImage(file)
	if !ok {
		return scene.Handle{}, false
	}
	layer := c.ensureLayer()
	g := c.graph

	n := scene.NewNode(scene.KindImage, "image")
	pos := c.modelPositionOf(pd)
	n.Transform.Position = pos
	n.Transform.Rotate = pd.Rotate
	content := c.imageNode(img, pd, id)
	n.Content.Image = &content
	h := g.Add(n)
	if img.Stream != nil {
		if _, err := g.AttachStream(h, img.Stream); err != nil {
			c.warn("could not attach movie", "file", file, "error", err)
		}
	}
	top := c.attachAnimation(h, pd, pos)
	_ = g.AddChild(layer, top)
	c.imagePosition = pd
	return top, true
}

// AddStereoImagePair places a left/right eye pair. Both images must load.
func (c *Constructor) AddStereoImagePair(left, right string, pd PositionData, leftData, rightData ImageData) (scene.Handle, bool) {
	l, ok := c.loadImage(left)
	if !ok {
		return scene.Handle{}, false
	}
	r, ok := c.loadImage(right)
	if !ok {
		return scene.Handle{}, false
	}
	layer := c.ensureLayer()
	g := c.graph

	n := scene.NewNode(scene.KindStereoImage, "stereo_pair")
	pos := c.modelPositionOf(pd)
	n.Transform.Position = pos
	n.Transform.Rotate = pd.Rotate
	ln := c.imageNode(l, pd, leftData)
	rn := c.imageNode(r, pd, rightData)
	rn.Width, rn.Height = ln.Width, ln.Height
	n.Content.Stereo = &scene.StereoImage{Left: ln, Right: rn}
	h := g.Add(n)
	for _, s := range []scene.Stream{l.Stream, r.Stream} {
		if s != nil {
			_, _ = g.AttachStream(h, s)
		}
	}
	top := c.attachAnimation(h, pd, pos)
	_ = g.AddChild(layer, top)
	c.imagePosition = pd
	return top, true
}

// fitTransform places an object of the given bounding sphere. In the slide
// frame the object is scaled to a fixed share of the slide height; in the
// model frame the position and scale are used as given.
func (c *Constructor) fitTransform(pd PositionData, center scene.Vec3, radius float64) scene.Transform {
	tr := scene.IdentityTransform()
	tr.Rotate = pd.Rotate
	if pd.Frame == FrameModel {
		tr.Position = pd.Position
		tr.Scale = pd.Scale
		return tr
	}
	tr.Position = c.SlideToModel(pd.Position)
	tr.Pivot = center
	s := 1.0
	if radius > 0 {
		s = pd.Scale[0] * c.slideHeight * (1 - pd.Position[2]) * modelFit / radius
	} else {
		c.warn("object has no extent, not scaling", "radius", radius)
	}
	tr.Scale = scene.Vec3{s, s, s}
	return tr
}

// AddModel places a 3D model.
func (c *Constructor) AddModel(file string, pd PositionData, md ModelData) (scene.Handle, bool) {
	if c.Loader == nil {
		c.warn("no loader for model", "file", file)
		return scene.Handle{}, false
	}
	m, err := c.Loader.LoadModel(file)
	if err != nil {
		c.warn("could not load model", "file", file, "effect", md.Effect, "error", err)
		return scene.Handle{}, false
	}
	layer := c.ensureLayer()
	g := c.graph

	n := scene.NewNode(scene.KindModel, "model")
	n.Transform = c.fitTransform(pd, m.Center, m.Radius)
	n.Content.Model = &scene.Model{Path: m.Path, Center: m.Center, Radius: m.Radius}
	h := g.Add(n)
	top := c.attachAnimation(h, pd, n.Transform.Position)
	_ = g.AddChild(layer, top)
	c.modelPosition = pd
	return top, true
}

// AddVolume places a volume built from a stack of slice images. The volume
// occupies the unit cube.
func (c *Constructor) AddVolume(file string, pd PositionData, vd VolumeData) (scene.Handle, bool) {
	if c.Loader == nil {
		c.warn("no loader for volume", "file", file)
		return scene.Handle{}, false
	}
	v, err := c.Loader.LoadVolume(file)
	if err != nil {
		c.warn("could not load volume", "file", file, "shading", vd.Shading, "error", err)
		return scene.Handle{}, false
	}
	layer := c.ensureLayer()
	g := c.graph

	n := scene.NewNode(scene.KindVolume, "volume")
	n.Transform = c.fitTransform(pd, scene.Vec3{0.5, 0.5, 0.5}, math.Sqrt(3)/2)
	n.Content.Volume = &scene.Volume{Path: v.Path, Width: v.Width, Height: v.Height, Depth: v.Depth}
	h := g.Add(n)
	top := c.attachAnimation(h, pd, n.Transform.Position)
	_ = g.AddChild(layer, top)
	c.modelPosition = pd
	return top, true
}

// AddInteractiveImage places a live surface. The opened surface is
// returned so callers can inspect paged sources.
func (c *Constructor) AddInteractiveImage(kind media.SurfaceKind, target string, pd PositionData, id ImageData) (scene.Handle, *media.Surface, bool) {
	if c.Loader == nil {
		c.warn("no loader for surface", "kind", string(kind), "target", target)
		return scene.Handle{}, nil, false
	}
	s, err := c.Loader.OpenSurface(kind, target, media.SurfaceOptions{Width: id.Width, Height: id.Height, Page: id.Page})
	if err != nil {
		c.warn("could not open surface", "kind", string(kind), "target", target, "error", err)
		return scene.Handle{}, nil, false
	}
	layer := c.ensureLayer()
	g := c.graph

	n := scene.NewNode(scene.KindInteractive, string(kind))
	pos := c.modelPositionOf(pd)
	n.Transform.Position = pos
	n.Transform.Rotate = pd.Rotate
	w, h := c.imageExtent(s.Width, s.Height, 1, pd, scene.Vec4{0, 0, 1, 1})
	n.Content.Surface = &scene.Surface{
		Kind:   string(s.Kind),
		Target: s.Target,
		Page:   s.Page,
		Pages:  s.Pages,
		Width:  w,
		Height: h,
		Pixels: s.Pixels,
	}
	node := g.Add(n)
	top := c.attachAnimation(node, pd, pos)
	_ = g.AddChild(layer, top)
	c.imagePosition = pd
	return top, s, true
}

func (c *Constructor) AddPDF(file string, pd PositionData, id ImageData) (scene.Handle, *media.Surface, bool) {
	return c.AddInteractiveImage(media.SurfacePDF, file, pd, id)
}

func (c *Constructor) AddBrowser(url string, pd PositionData, id ImageData) (scene.Handle, bool) {
	h, _, ok := c.AddInteractiveImage(media.SurfaceBrowser, url, pd, id)
	return h, ok
}

func (c *Constructor) AddVNC(host string, pd PositionData, id ImageData) (scene.Handle, bool) {
	h, _, ok := c.AddInteractiveImage(media.SurfaceVNC, host, pd, id)
	return h, ok
}
