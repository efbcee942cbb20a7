package show

import (
	"fmt"
	"log/slog"

	"github.com/ivlev/present3d/internal/anim"
	"github.com/ivlev/present3d/internal/media"
	"github.com/ivlev/present3d/internal/scene"
	"github.com/ivlev/present3d/internal/typeset"
)

const (
	DefaultSlideHeight   = 0.26
	DefaultSlideWidth    = DefaultSlideHeight * 1280.0 / 1024.0
	DefaultSlideDistance = 0.5
	DefaultFont          = "fonts/arial.ttf"

	// modelFit is the share of the slide height an auto-fitted model spans.
	modelFit = 0.7
	// paragraphGap is the space left below a text block, in character sizes.
	paragraphGap = 1.5
)

var (
	DefaultBackgroundColor = scene.Color{0, 0, 0, 1}
	DefaultTextColor       = scene.Color{1, 1, 1, 1}
)

// Constructor accumulates slides, layers and content into a presentation.
// It is single threaded and is discarded after Presentation is called.
type Constructor struct {
	Loader media.Loader
	Logger *slog.Logger

	measurer *typeset.Measurer

	graph *scene.Graph
	root  scene.Handle

	name     string
	loop     bool
	autoStep bool
	duration float64
	holding  []scene.Handle

	slideWidth    float64
	slideHeight   float64
	slideDistance float64
	slideOrigin   scene.Vec3

	backgroundColor scene.Color
	textColor       scene.Color

	slide           scene.Handle
	slideTitle      scene.Handle
	slideBackground scene.Handle
	currentLayer    scene.Handle
	previousLayer   scene.Handle

	titleFontDefault     FontData
	titleFont            FontData
	titlePositionDefault PositionData
	titlePosition        PositionData

	textFontDefault     FontData
	textFont            FontData
	textPositionDefault PositionData
	textPosition        PositionData

	imagePositionDefault PositionData
	imagePosition        PositionData
	modelPositionDefault PositionData
	modelPosition        PositionData
}

// NewConstructor returns a builder with the built-in slide geometry and
// styles. A nil logger uses slog.Default.
func NewConstructor(loader media.Loader, logger *slog.Logger) *Constructor {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Constructor{
		Loader:          loader,
		Logger:          logger,
		measurer:        typeset.NewMeasurer(),
		duration:        -1,
		backgroundColor: DefaultBackgroundColor,
		textColor:       DefaultTextColor,
	}
	c.SetSlideSize(DefaultSlideWidth, DefaultSlideHeight, DefaultSlideDistance)

	c.titleFontDefault = FontData{
		Font:          DefaultFont,
		CharacterSize: 0.06,
		MaxWidth:      0.9,
		Color:         DefaultTextColor,
		Layout:        "LEFT_TO_RIGHT",
		Alignment:     "CENTER_BASE_LINE",
	}
	c.titleFont = c.titleFontDefault
	c.textFontDefault = FontData{
		Font:          DefaultFont,
		CharacterSize: 0.04,
		MaxWidth:      0.8,
		Color:         DefaultTextColor,
		Layout:        "LEFT_TO_RIGHT",
		Alignment:     "LEFT_BASE_LINE",
	}
	c.textFont = c.textFontDefault

	c.titlePositionDefault = DefaultPositionData()
	c.titlePositionDefault.Position = scene.Vec3{0.5, 0.92, 0}
	c.titlePosition = c.titlePositionDefault
	c.textPositionDefault = DefaultPositionData()
	c.textPositionDefault.Position = scene.Vec3{0.05, 0.85, 0}
	c.textPosition = c.textPositionDefault
	c.imagePositionDefault = DefaultPositionData()
	c.imagePositionDefault.Position = scene.Vec3{0.5, 0.5, 0}
	c.imagePosition = c.imagePositionDefault
	c.modelPositionDefault = DefaultPositionData()
	c.modelPositionDefault.Position = scene.Vec3{0.5, 0.5, 0}
	c.modelPosition = c.modelPositionDefault
	return c
}

// SetSlideSize sets the slide geometry in model units.
func (c *Constructor) SetSlideSize(width, height, distance float64) {
	c.slideWidth = width
	c.slideHeight = height
	c.slideDistance = distance
	c.slideOrigin = scene.Vec3{-width * 0.5, distance, -height * 0.5}
}

func (c *Constructor) SlideSize() (width, height, distance float64) {
	return c.slideWidth, c.slideHeight, c.slideDistance
}

// Graph returns the graph under construction, creating it on first use.
func (c *Constructor) Graph() *scene.Graph {
	if c.graph == nil {
		c.graph = scene.NewGraph()
	}
	return c.graph
}

func (c *Constructor) ensureRoot() scene.Handle {
	if c.root.IsZero() {
		c.root = c.Graph().Add(scene.NewSwitch(scene.KindPresentation, "Presentation"))
	}
	return c.root
}

func (c *Constructor) SetPresentationName(name string) { c.name = name }
func (c *Constructor) SetLoop(loop bool)               { c.loop = loop }
func (c *Constructor) SetAutoSteppingActive(on bool)   { c.autoStep = on }

// SetPresentationDuration sets the default time per slide in seconds.
func (c *Constructor) SetPresentationDuration(d float64) {
	c.duration = d
	la, err := c.Graph().LayerAttributes(c.ensureRoot())
	if err == nil {
		la.Duration = d
	}
}

// SetBackgroundColor sets the presentation clear colour.
func (c *Constructor) SetBackgroundColor(col scene.Color) {
	c.backgroundColor = col
}

// SetTextColor changes the text colour of the current and default styles.
func (c *Constructor) SetTextColor(col scene.Color) {
	c.textColor = col
	c.titleFontDefault.Color = col
	c.titleFont.Color = col
	c.textFontDefault.Color = col
	c.textFont.Color = col
}

func (c *Constructor) BackgroundColor() scene.Color { return c.backgroundColor }
func (c *Constructor) TextColor() scene.Color       { return c.textColor }

// AddPresentationKey queues a key press dispatched when the presentation
// starts.
func (c *Constructor) AddPresentationKey(kp scene.KeyPosition) {
	la, err := c.Graph().LayerAttributes(c.ensureRoot())
	if err != nil {
		return
	}
	la.Keys = append(la.Keys, kp)
}

// SetPresentationHomePosition sets the view used when no slide overrides it.
func (c *Constructor) SetPresentationHomePosition(hp scene.HomePosition) {
	if n, ok := c.Graph().Node(c.ensureRoot()); ok {
		n.Meta.Home = &hp
	}
}

// Copies of the current and built-in styles. Parsers start from these,
// apply element properties and pass the result back to an Add call.
func (c *Constructor) TitleFontData() FontData            { return c.titleFont }
func (c *Constructor) TitleFontDataDefault() FontData     { return c.titleFontDefault }
func (c *Constructor) TitlePositionData() PositionData    { return c.titlePosition }
func (c *Constructor) TextFontData() FontData             { return c.textFont }
func (c *Constructor) TextFontDataDefault() FontData      { return c.textFontDefault }
func (c *Constructor) TextPositionData() PositionData     { return c.textPosition }
func (c *Constructor) ImagePositionData() PositionData    { return c.imagePosition }
func (c *Constructor) ModelPositionData() PositionData    { return c.modelPosition }
func (c *Constructor) TitlePositionDefault() PositionData { return c.titlePositionDefault }
func (c *Constructor) TextPositionDefault() PositionData  { return c.textPositionDefault }

// SetTitleFontDataDefault replaces the built-in title style, as the
// title-settings element does.
func (c *Constructor) SetTitleFontDataDefault(fd FontData) {
	c.titleFontDefault = fd
	c.titleFont = fd
}

// SetTextFontDataDefault replaces the built-in body text style.
func (c *Constructor) SetTextFontDataDefault(fd FontData) {
	c.textFontDefault = fd
	c.textFont = fd
}

func (c *Constructor) SetTitlePositionDefault(pd PositionData) {
	c.titlePositionDefault = pd
	c.titlePosition = pd
}

func (c *Constructor) SetTextPositionDefault(pd PositionData) {
	c.textPositionDefault = pd
	c.textPosition = pd
}

// SlideToModel converts a slide-frame position to model coordinates.
func (c *Constructor) SlideToModel(p scene.Vec3) scene.Vec3 {
	f := 1 - p[2]
	return scene.Vec3{
		(c.slideOrigin[0] + c.slideWidth*p[0]) * f,
		c.slideOrigin[1] * f,
		(c.slideOrigin[2] + c.slideHeight*p[1]) * f,
	}
}

// ModelToSlide is the inverse of SlideToModel. Every slide position with
// z=1 collapses onto the eye point, which maps back to (0,0,1).
func (c *Constructor) ModelToSlide(p scene.Vec3) scene.Vec3 {
	if p[1] == 0 {
		return scene.Vec3{0, 0, 1}
	}
	r := c.slideOrigin[1] / p[1]
	return scene.Vec3{
		(p[0]*r - c.slideOrigin[0]) / c.slideWidth,
		(p[2]*r - c.slideOrigin[2]) / c.slideHeight,
		1 - p[1]/c.slideOrigin[1],
	}
}

func (c *Constructor) modelPositionOf(pd PositionData) scene.Vec3 {
	if pd.Frame == FrameSlide {
		return c.SlideToModel(pd.Position)
	}
	return pd.Position
}

// ensureLayer creates the slide and an inheriting layer when content
// arrives before either exists.
func (c *Constructor) ensureLayer() scene.Handle {
	if c.currentLayer.IsZero() {
		c.AddLayer(true, false)
	}
	return c.currentLayer
}

func (c *Constructor) warn(msg string, args ...any) {
	c.Logger.Warn(msg, args...)
}

// Presentation hands the finished presentation to the caller and clears
// the builder, which then starts over with an empty graph.
func (c *Constructor) Presentation() *scene.Presentation {
	c.ensureRoot()
	c.finishSlide()
	g := c.graph
	if n, ok := g.Node(c.root); ok && n.Selected < 0 && len(n.Children) > 0 {
		n.Selected = 0
	}
	p := &scene.Presentation{
		Graph:           g,
		Root:            c.root,
		Name:            c.name,
		Loop:            c.loop,
		AutoStep:        c.autoStep,
		Duration:        c.duration,
		BackgroundColor: c.backgroundColor,
		TextColor:       c.textColor,
		SlideWidth:      c.slideWidth,
		SlideHeight:     c.slideHeight,
		SlideDistance:   c.slideDistance,
		Holding:         c.holding,
	}
	c.graph = nil
	c.root = scene.Handle{}
	c.name, c.loop, c.autoStep, c.duration = "", false, false, -1
	c.holding = nil
	c.slide = scene.Handle{}
	c.slideTitle = scene.Handle{}
	c.slideBackground = scene.Handle{}
	c.currentLayer = scene.Handle{}
	c.previousLayer = scene.Handle{}
	return p
}

func (c *Constructor) String() string {
	return fmt.Sprintf("show.Constructor{slide: %s, layer: %s}", c.slide, c.currentLayer)
}

func (c *Constructor) attachAnimation(top scene.Handle, pd PositionData, pivot scene.Vec3) scene.Handle {
	g := c.Graph()
	if pd.Rotation[0] != 0 {
		spin := g.Add(scene.NewNode(scene.KindTransform, "spin"))
		if _, err := g.SetCallback(spin, anim.NewSpinCallback(pd.Rotation[0],
			scene.Vec3{pd.Rotation[1], pd.Rotation[2], pd.Rotation[3]}, pivot)); err == nil {
			_ = g.AddChild(spin, top)
			top = spin
		}
	}
	if pd.Path == "" {
		return top
	}
	file := pd.Path
	if c.Loader != nil {
		resolved, err := c.Loader.Resolve(pd.Path)
		if err != nil {
			c.warn("animation path not found", "path", pd.Path, "error", err)
			return top
		}
		file = resolved
	}
	p, err := anim.ReadPathFile(file)
	if err != nil {
		c.warn("could not read animation path", "path", pd.Path, "error", err)
		return top
	}
	p.Mode = pd.LoopMode
	name := "path"
	if pd.CameraPath {
		name = "camera_path"
	}
	node := g.Add(scene.NewNode(scene.KindTransform, name))
	if _, err := g.SetCallback(node, anim.NewPathCallback(p, pd.PathTimeOffset, pd.PathTimeMultiplier, pd.CameraPath)); err != nil {
		return top
	}
	_ = g.AddChild(node, top)
	return node
}
