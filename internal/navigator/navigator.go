// Package navigator is the slide and layer state machine of a running
// presentation. It reacts to key presses, clicks and the frame clock, keeps
// the presentation's switches on the active slide and layer, and drives the
// operators of whatever is visible.
package navigator

import (
	"log/slog"
	"math"

	"github.com/ivlev/present3d/internal/keys"
	"github.com/ivlev/present3d/internal/operators"
	"github.com/ivlev/present3d/internal/scene"
)

// LastPosition selects the last slide or layer.
const LastPosition = -1

const (
	DefaultTimePerSlide   = 1.0
	DefaultMinKeyInterval = 0.25

	// maxQueuedKeys bounds the keys drained after one navigation step, so
	// layers that send each other back and forth cannot loop forever.
	maxQueuedKeys = 64
)

// Viewer shows the active slide. home is nil when the slide should be
// framed automatically.
type Viewer interface {
	SetSlide(slide scene.Handle, home *scene.HomePosition)
}

// KeyEvent is a key press at time Time, in seconds.
type KeyEvent struct {
	Key  keys.Code
	Time float64
}

type Navigator struct {
	Logger *slog.Logger
	Viewer Viewer
	Runner operators.Runner
	// MinKeyInterval is the shortest accepted gap between key presses.
	MinKeyInterval float64

	pres *scene.Presentation
	ops  *operators.ActiveOperators

	activeSlide int
	activeLayer int
	slide       scene.Handle

	loop           bool
	autoStepping   bool
	pause          bool
	hold           bool
	timePerSlide   float64
	firstTraversal bool
	previousTime   float64
	lastKeyTime    float64
	now            float64

	processing bool
	draining   bool
	pending    []scene.KeyPosition
}

// New returns a navigator showing the first slide of p. p may be nil and
// set later with Set.
func New(p *scene.Presentation, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Navigator{
		Logger:         logger,
		MinKeyInterval: DefaultMinKeyInterval,
		lastKeyTime:    math.Inf(-1),
	}
	if p != nil {
		n.Set(p)
	}
	return n
}

// Set switches to p and shows its first slide.
func (n *Navigator) Set(p *scene.Presentation) {
	n.Attach(p, 0, 0)
}

// Attach switches to p and shows the given slide and layer, falling back
// to the first slide when they do not exist. Presentation settings (loop,
// auto-step, time per slide) are taken from p.
func (n *Navigator) Attach(p *scene.Presentation, slide, layer int) {
	if n.ops != nil {
		n.ops.Clear(n.env())
	}
	n.pres = p
	n.ops = operators.New()
	n.activeSlide, n.activeLayer = 0, 0
	n.slide = scene.Handle{}
	n.pause = false
	n.hold = false
	n.firstTraversal = true
	n.pending = nil
	if p == nil {
		return
	}
	n.loop = p.Loop
	n.autoStepping = p.AutoStep
	n.timePerSlide = DefaultTimePerSlide
	if p.Duration >= 0 {
		n.timePerSlide = p.Duration
	}
	if n.NumSlides() == 0 {
		n.updateOperators()
		return
	}
	if !n.SelectSlide(slide, layer) {
		n.SelectSlide(0, 0)
	}
}

func (n *Navigator) Presentation() *scene.Presentation { return n.pres }

func (n *Navigator) Operators() *operators.ActiveOperators { return n.ops }

func (n *Navigator) ActiveSlide() int   { return n.activeSlide }
func (n *Navigator) ActiveLayer() int   { return n.activeLayer }
func (n *Navigator) AutoStepping() bool { return n.autoStepping }
func (n *Navigator) Paused() bool       { return n.pause }
func (n *Navigator) Held() bool         { return n.hold }
func (n *Navigator) Loop() bool         { return n.loop }

func (n *Navigator) SetLoop(loop bool) { n.loop = loop }

// SetTimePerSlide sets the delay used when neither the layer nor the slide
// has a duration.
func (n *Navigator) SetTimePerSlide(d float64) { n.timePerSlide = d }

func (n *Navigator) NumSlides() int {
	if n.pres == nil {
		return 0
	}
	return n.pres.NumSlides()
}

func (n *Navigator) layers() []scene.Handle {
	if n.slide.IsZero() {
		return nil
	}
	return n.pres.Layers(n.slide)
}

// NumLayers reports the layers of the active slide.
func (n *Navigator) NumLayers() int { return len(n.layers()) }

func (n *Navigator) attributes(h scene.Handle) *scene.LayerAttributes {
	if n.pres == nil {
		return nil
	}
	node, ok := n.pres.Graph.Node(h)
	if !ok {
		return nil
	}
	return node.Meta.Layer
}

func (n *Navigator) activeLayerHandle() scene.Handle {
	layers := n.layers()
	if n.activeLayer < 0 || n.activeLayer >= len(layers) {
		return scene.Handle{}
	}
	return layers[n.activeLayer]
}

// CurrentTimeDelay is the auto-step delay for the visible layer: the
// layer's duration, else the slide's, else the time per slide.
func (n *Navigator) CurrentTimeDelay() float64 {
	if la := n.attributes(n.activeLayerHandle()); la != nil && la.Duration >= 0 {
		return la.Duration
	}
	if la := n.attributes(n.slide); la != nil && la.Duration >= 0 {
		return la.Duration
	}
	return n.timePerSlide
}

// Frame advances the auto-step timer and the animations to time t.
func (n *Navigator) Frame(t float64) {
	n.now = t
	if n.pres == nil {
		return
	}
	if n.autoStepping && !n.pause {
		if n.firstTraversal {
			n.firstTraversal = false
			n.previousTime = t
		} else if delay := n.CurrentTimeDelay(); t-n.previousTime >= delay {
			if n.hold {
				// Restart the delay when the hold is released.
				n.previousTime = t
			} else {
				n.previousTime += delay
				n.NextLayerOrSlide()
			}
		}
	}
	n.pres.Graph.Update(n.visibleRoot(), t)
}

// SelectSlide shows slide at layer. It fails, leaving the state alone, only
// when the slide does not exist; the layer is clamped to the slide's layers.
func (n *Navigator) SelectSlide(slide, layer int) bool {
	count := n.NumSlides()
	if slide == LastPosition && count > 0 {
		slide = count - 1
	}
	if slide < 0 || slide >= count {
		return false
	}
	n.activeSlide = slide
	n.slide = n.pres.Slides()[slide]
	if err := n.pres.Graph.Select(n.pres.Root, slide); err != nil {
		n.Logger.Warn("select slide", "slide", slide, "error", err)
	}
	n.SelectLayer(layer)
	return true
}

// SelectLayer shows layer of the active slide. An index past the end shows
// the last layer and reports false.
func (n *Navigator) SelectLayer(layer int) bool {
	if n.slide.IsZero() {
		return false
	}
	layers := n.layers()
	if layer == LastPosition {
		layer = len(layers) - 1
	} else if layer < 0 {
		return false
	}
	within := true
	if layer >= len(layers) {
		layer = len(layers) - 1
		within = false
	}
	if layer < 0 {
		// The slide has no layers.
		layer = 0
		_ = n.pres.Graph.Select(n.slide, -1)
	} else if err := n.pres.Graph.Select(n.slide, layer); err != nil {
		n.Logger.Warn("select layer", "layer", layer, "error", err)
	}
	n.activeLayer = layer
	n.updateOperators()
	n.showSlide()
	return within
}

func (n *Navigator) env() *operators.Env {
	return &operators.Env{Keys: n, Runner: n.Runner, Logger: n.Logger}
}

// visibleRoot is the subtree whose operators run: the holding slide while
// held, the presentation otherwise.
func (n *Navigator) visibleRoot() scene.Handle {
	if n.hold && len(n.pres.Holding) > 0 {
		return n.pres.Holding[0]
	}
	return n.pres.Root
}

func (n *Navigator) updateOperators() {
	n.ops.Collect(n.pres.Graph, n.visibleRoot(), scene.TraverseActiveChildren)
	n.processing = true
	n.ops.Process(n.env())
	n.processing = false
	n.drainKeys()
}

// homePosition finds the view of the visible slide, else the
// presentation's.
func (n *Navigator) homePosition(slide scene.Handle) *scene.HomePosition {
	g := n.pres.Graph
	if h, ok := g.Find(slide, scene.TraverseActiveChildren, func(node *scene.Node) bool {
		return node.Meta.Home != nil
	}); ok {
		node, _ := g.Node(h)
		return node.Meta.Home
	}
	if root, ok := g.Node(n.pres.Root); ok {
		return root.Meta.Home
	}
	return nil
}

func (n *Navigator) showSlide() {
	if n.Viewer == nil {
		return
	}
	slide := n.slide
	if root := n.visibleRoot(); root != n.pres.Root {
		slide = root
	}
	n.Viewer.SetSlide(slide, n.homePosition(slide))
}

func (n *Navigator) jump(j scene.JumpData) bool {
	if j.Relative {
		return n.SelectSlide(n.activeSlide+j.Slide, max(n.activeLayer+j.Layer, 0))
	}
	return n.SelectSlide(j.Slide, j.Layer)
}

// NextLayer moves to the next layer, or follows the layer's jump.
func (n *Navigator) NextLayer() bool {
	if la := n.attributes(n.activeLayerHandle()); la.RequiresJump() {
		return n.jump(*la.Jump)
	}
	return n.SelectLayer(n.activeLayer + 1)
}

func (n *Navigator) PreviousLayer() bool {
	if n.activeLayer > 0 {
		return n.SelectLayer(n.activeLayer - 1)
	}
	return false
}

// NextSlide moves to the first layer of the next slide, or follows the
// slide's jump. Past the last slide it wraps only when looping.
func (n *Navigator) NextSlide() bool {
	if la := n.attributes(n.slide); la.RequiresJump() {
		return n.jump(*la.Jump)
	}
	if n.SelectSlide(n.activeSlide+1, 0) {
		return true
	}
	if n.loop {
		return n.SelectSlide(0, 0)
	}
	return false
}

func (n *Navigator) PreviousSlide() bool {
	if n.activeSlide > 0 {
		return n.SelectSlide(n.activeSlide-1, 0)
	}
	if n.loop && n.NumSlides() > 0 {
		return n.SelectSlide(n.NumSlides()-1, 0)
	}
	return false
}

func (n *Navigator) NextLayerOrSlide() bool {
	if n.NextLayer() {
		return true
	}
	return n.NextSlide()
}

// PreviousLayerOrSlide steps back one layer, or to the last layer of the
// previous slide.
func (n *Navigator) PreviousLayerOrSlide() bool {
	if n.PreviousLayer() {
		return true
	}
	if n.activeSlide > 0 {
		return n.SelectSlide(n.activeSlide-1, LastPosition)
	}
	if n.loop && n.NumSlides() > 0 {
		return n.SelectSlide(n.NumSlides()-1, LastPosition)
	}
	return false
}

// SetAutoStepping starts or stops timed advance. Starting restarts the
// delay.
func (n *Navigator) SetAutoStepping(on bool) {
	n.autoStepping = on
	if on {
		n.firstTraversal = true
	}
}

// SetPause pauses or resumes the visible operators and the auto-step timer.
func (n *Navigator) SetPause(pause bool) {
	if n.pause == pause {
		return
	}
	n.pause = pause
	if !pause {
		n.firstTraversal = true
	}
	if n.ops != nil {
		n.ops.SetPause(n.env(), pause)
	}
}

// SetHold keeps auto-stepping from advancing. While held the holding slide,
// if any, is shown and its operators run in place of the slide's.
func (n *Navigator) SetHold(hold bool) {
	if n.hold == hold {
		return
	}
	n.hold = hold
	if n.pres != nil && len(n.pres.Holding) > 0 {
		n.updateOperators()
		n.showSlide()
	}
}

// Reset restarts the visible operators and the auto-step delay.
func (n *Navigator) Reset() {
	if n.ops != nil {
		n.ops.Reset(n.env())
	}
	n.firstTraversal = true
	if n.pres != nil && !n.slide.IsZero() {
		n.showSlide()
	}
}
