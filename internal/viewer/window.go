//go:build cgo

package viewer

import (
	"image"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ivlev/present3d/internal/keys"
	"github.com/ivlev/present3d/internal/scene"
	"github.com/ivlev/present3d/internal/system"
)

// RunWindow opens a desktop window showing host's presentation and
// forwarding keyboard and mouse input to it. It blocks until the window is
// closed or Escape is pressed.
func RunWindow(host Host, title string, width, height int) error {
	w := NewWindow(host, width, height)
	host.SetViewer(w)

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(&hostGame{w: w, start: time.Now()})
}

type hostGame struct {
	w     *Window
	start time.Time
	fbImg *ebiten.Image
}

func (g *hostGame) Update() error {
	t := time.Since(g.start).Seconds()
	host := g.w.host
	for _, k := range pollKeys() {
		if k == keys.Escape {
			return ebiten.Termination
		}
		host.HandleKey(k, t)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if h, ok := g.w.renderer.HitTest(ebiten.CursorPosition()); ok {
			host.Pick(h)
		}
	}
	host.Tick(t)
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	frame := g.w.Frame()
	if frame == nil {
		return
	}
	b := frame.Bounds()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != b.Dx() || g.fbImg.Bounds().Dy() != b.Dy() {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.fbImg.WritePixels(frame.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.w.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Window implements navigator.Viewer on top of an ebiten window.
type Window struct {
	host     Host
	renderer *Renderer

	mu     sync.Mutex
	width  int
	height int
	slide  scene.Handle
	home   *scene.HomePosition
	frame  *image.RGBA
}

func NewWindow(host Host, width, height int) *Window {
	return &Window{host: host, renderer: NewRenderer(), width: width, height: height}
}

func (w *Window) SetSlide(slide scene.Handle, home *scene.HomePosition) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.slide = slide
	w.home = home
}

func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
}

// Frame renders the visible slide. Frames are redrawn every call so
// animated content moves.
func (w *Window) Frame() *image.RGBA {
	var out *image.RGBA
	w.host.View(func(p *scene.Presentation) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if p == nil || w.slide.IsZero() || w.width <= 0 || w.height <= 0 {
			return
		}
		frame := system.GetImage(image.Rect(0, 0, w.width, w.height))
		w.renderer.Render(frame, p, w.slide)
		if w.frame != nil {
			system.PutImage(w.frame)
		}
		w.frame = frame
		out = frame
	})
	return out
}
