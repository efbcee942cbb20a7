package show

import (
	"slices"

	"github.com/ivlev/present3d/internal/scene"
)

// AddSlide appends a new slide and makes it current. The next layer starts
// without a predecessor.
func (c *Constructor) AddSlide() scene.Handle {
	c.finishSlide()
	g := c.Graph()
	root := c.ensureRoot()
	c.slide = g.Add(scene.NewSwitch(scene.KindSlide, "Slide"))
	_ = g.AddChild(root, c.slide)
	if n, ok := g.Node(root); ok && n.Selected < 0 {
		n.Selected = 0
	}
	c.resetSlideState()
	return c.slide
}

// AddHoldingSlide starts a slide that is kept aside from the regular
// sequence and shown while the presentation is held.
func (c *Constructor) AddHoldingSlide() scene.Handle {
	c.finishSlide()
	g := c.Graph()
	c.ensureRoot()
	c.slide = g.Add(scene.NewSwitch(scene.KindSlide, "HoldingSlide"))
	c.holding = append(c.holding, c.slide)
	c.resetSlideState()
	return c.slide
}

// finishSlide gives the current slide a layer of its background and title
// when it ended without any, so the slide can be shown.
func (c *Constructor) finishSlide() {
	if c.slide.IsZero() || len(c.graph.Children(c.slide)) > 0 {
		return
	}
	c.AddLayer(false, false)
}

func (c *Constructor) resetSlideState() {
	c.slideTitle = scene.Handle{}
	c.slideBackground = scene.Handle{}
	c.currentLayer = scene.Handle{}
	c.previousLayer = scene.Handle{}
}

// CurrentSlide returns the slide content is added to, zero before the
// first slide.
func (c *Constructor) CurrentSlide() scene.Handle { return c.slide }

// CurrentLayer returns the layer content is added to.
func (c *Constructor) CurrentLayer() scene.Handle { return c.currentLayer }

// NumSlides reports the slides added so far, holding slides excluded.
func (c *Constructor) NumSlides() int {
	if c.root.IsZero() {
		return 0
	}
	return len(c.graph.Children(c.root))
}

// SelectSlide makes an existing slide current again. Its last layer becomes
// the predecessor of layers added next.
func (c *Constructor) SelectSlide(index int) bool {
	if c.root.IsZero() {
		return false
	}
	slides := c.graph.Children(c.root)
	if index < 0 || index >= len(slides) {
		c.warn("no such slide", "slide", index, "slides", len(slides))
		return false
	}
	c.finishSlide()
	c.slide = slides[index]
	c.slideTitle = scene.Handle{}
	c.slideBackground = scene.Handle{}
	layers := c.graph.Children(c.slide)
	c.currentLayer = scene.Handle{}
	c.previousLayer = scene.Handle{}
	if len(layers) > 0 {
		c.currentLayer = layers[len(layers)-1]
		c.previousLayer = c.currentLayer
	}
	return true
}

// SelectLayer makes layer index of the current slide current.
func (c *Constructor) SelectLayer(index int) bool {
	if c.slide.IsZero() {
		return false
	}
	layers := c.graph.Children(c.slide)
	if index < 0 || index >= len(layers) {
		return false
	}
	c.currentLayer = layers[index]
	c.previousLayer = c.currentLayer
	return true
}

// AddLayer starts a layer on the current slide, creating the slide when
// needed. An inheriting layer begins with the content of the previous
// layer; otherwise it begins with the slide background and title only and
// the text, image and model cursors return to their defaults. A base layer
// is never shown itself and only seeds the layers after it.
func (c *Constructor) AddLayer(inherit, base bool) scene.Handle {
	if c.slide.IsZero() {
		c.AddSlide()
	}
	g := c.graph
	name := "Layer"
	if base {
		name = "BaseLayer"
	}
	layer := g.Add(scene.NewNode(scene.KindLayer, name))

	if c.previousLayer.IsZero() || !inherit {
		var furniture []scene.Handle
		if !c.slideBackground.IsZero() {
			furniture = append(furniture, c.slideBackground)
		}
		if !c.slideTitle.IsZero() {
			furniture = append(furniture, c.slideTitle)
		}
		_ = g.SetChildren(layer, furniture)
		c.textPosition.Position = c.textPositionDefault.Position
		c.imagePosition.Position = c.imagePositionDefault.Position
		c.modelPosition.Position = c.modelPositionDefault.Position
	} else {
		_ = g.SetChildren(layer, g.Children(c.previousLayer))
	}

	if !base {
		_ = g.AddChild(c.slide, layer)
		if n, ok := g.Node(c.slide); ok && n.Selected < 0 {
			n.Selected = 0
		}
	}
	c.currentLayer = layer
	c.previousLayer = layer
	return layer
}

// SetSlideTitle places the title of the current slide. It is shown on the
// layers added afterwards.
func (c *Constructor) SetSlideTitle(title string, pd PositionData, fd FontData) scene.Handle {
	if c.slide.IsZero() {
		c.AddSlide()
	}
	c.titlePosition = pd
	c.titleFont = fd
	h := c.addText("title", title, pd, fd)
	c.slideTitle = h
	return h
}

// SetSlideBackground uses an image as the backdrop of the current slide.
func (c *Constructor) SetSlideBackground(file string) scene.Handle {
	if c.slide.IsZero() {
		c.AddSlide()
	}
	if file == "" {
		return scene.Handle{}
	}
	if c.Loader == nil {
		c.warn("no loader for slide background", "file", file)
		return scene.Handle{}
	}
	img, err := c.Loader.LoadImage(file)
	if err != nil {
		c.warn("could not load slide background", "file", file, "error", err)
		return scene.Handle{}
	}
	n := scene.NewNode(scene.KindBackground, "background")
	n.Transform.Position = c.SlideToModel(scene.Vec3{0.5, 0.5, 0})
	n.Content.Image = &scene.Image{
		Path:        img.Path,
		PixelWidth:  img.Width,
		PixelHeight: img.Height,
		Width:       c.slideWidth,
		Height:      c.slideHeight,
		Region:      scene.Vec4{0, 0, 1, 1},
		Pixels:      img.Pixels,
	}
	c.slideBackground = c.Graph().Add(n)
	return c.slideBackground
}

// SetSlideBackgroundColor fills the current slide's backdrop with col.
func (c *Constructor) SetSlideBackgroundColor(col scene.Color) scene.Handle {
	if c.slide.IsZero() {
		c.AddSlide()
	}
	n := scene.NewNode(scene.KindBackground, "background")
	n.Transform.Position = c.SlideToModel(scene.Vec3{0.5, 0.5, 0})
	fill := col
	n.Content.Fill = &fill
	c.slideBackground = c.Graph().Add(n)
	return c.slideBackground
}

func (c *Constructor) slideAttributes() *scene.LayerAttributes {
	if c.slide.IsZero() {
		c.AddSlide()
	}
	la, _ := c.graph.LayerAttributes(c.slide)
	return la
}

func (c *Constructor) layerAttributes() *scene.LayerAttributes {
	la, _ := c.graph.LayerAttributes(c.ensureLayer())
	return la
}

func (c *Constructor) SetSlideDuration(d float64) {
	c.slideAttributes().Duration = d
}

func (c *Constructor) AddSlideKey(kp scene.KeyPosition) {
	la := c.slideAttributes()
	la.Keys = append(la.Keys, kp)
}

func (c *Constructor) SetSlideJump(j scene.JumpData) {
	c.slideAttributes().Jump = &j
}

func (c *Constructor) SetSlideHomePosition(hp scene.HomePosition) {
	if c.slide.IsZero() {
		c.AddSlide()
	}
	if n, ok := c.graph.Node(c.slide); ok {
		n.Meta.Home = &hp
	}
}

func (c *Constructor) SetLayerDuration(d float64) {
	c.layerAttributes().Duration = d
}

func (c *Constructor) AddLayerKey(kp scene.KeyPosition) {
	la := c.layerAttributes()
	la.Keys = append(la.Keys, kp)
}

// AddLayerRunString queues a command run when the layer is entered.
func (c *Constructor) AddLayerRunString(cmd string) {
	la := c.layerAttributes()
	la.RunStrings = append(la.RunStrings, cmd)
}

func (c *Constructor) SetLayerJump(j scene.JumpData) {
	c.layerAttributes().Jump = &j
}

// SetHomePosition sets the view of the current layer.
func (c *Constructor) SetHomePosition(hp scene.HomePosition) {
	if n, ok := c.graph.Node(c.ensureLayer()); ok {
		n.Meta.Home = &hp
	}
}

// AddFilePath records a file the presentation depends on so watchers can
// reload the presentation when it changes.
func (c *Constructor) AddFilePath(path string) {
	if path == "" {
		return
	}
	n, ok := c.Graph().Node(c.ensureRoot())
	if !ok || slices.Contains(n.Meta.FilePaths, path) {
		return
	}
	n.Meta.FilePaths = append(n.Meta.FilePaths, path)
}

// SetPickBinding makes h clickable.
func (c *Constructor) SetPickBinding(h scene.Handle, b scene.PickBinding) bool {
	n, ok := c.Graph().Node(h)
	if !ok {
		return false
	}
	n.Pick = &b
	return true
}
