// Package viewer shows the active slide of a presentation. The renderer is
// a flat projection of the slide plane: content is placed by its model
// position and scaled by its distance from the eye.
package viewer

import (
	"image"
	"image/color"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/present3d/internal/scene"
	"github.com/ivlev/present3d/internal/typeset"
)

type hit struct {
	rect image.Rectangle
	node scene.Handle
}

// Renderer draws slides into RGBA frames.
type Renderer struct {
	measurer *typeset.Measurer

	mu    sync.Mutex
	font  *opentype.Font
	faces map[int]font.Face
	hits  []hit
}

func NewRenderer() *Renderer {
	return &Renderer{measurer: typeset.NewMeasurer(), faces: make(map[int]font.Face)}
}

func (r *Renderer) face(px int) font.Face {
	if px < 1 {
		px = 1
	}
	if f, ok := r.faces[px]; ok {
		return f
	}
	if r.font == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil
		}
		r.font = f
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: float64(px), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil
	}
	r.faces[px] = f
	return f
}

func rgba(c scene.Color) color.RGBA {
	ch := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: ch(c[3])}
}

// projection maps model coordinates onto the frame.
type projection struct {
	width, height float64 // slide extent in model units
	distance      float64
	frame         image.Rectangle
}

func (pr projection) scale(depth float64) float64 {
	if depth <= 0 {
		depth = pr.distance
	}
	return pr.distance / depth
}

// point returns the frame position of p and the pixels per model unit there.
func (pr projection) point(p scene.Vec3) (x, y, ppu float64) {
	k := pr.scale(p[1])
	fw, fh := float64(pr.frame.Dx()), float64(pr.frame.Dy())
	x = (p[0]*k/pr.width + 0.5) * fw
	y = (0.5 - p[2]*k/pr.height) * fh
	return x, y, fw / pr.width * k
}

func (pr projection) box(p scene.Vec3, w, h float64) image.Rectangle {
	x, y, ppu := pr.point(p)
	hw, hh := w*ppu/2, h*ppu/2
	return image.Rect(int(x-hw), int(y-hh), int(x+hw), int(y+hh))
}

// Render draws slide of p into dst and records the clickable areas.
func (r *Renderer) Render(dst *image.RGBA, p *scene.Presentation, slide scene.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = r.hits[:0]

	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(rgba(p.BackgroundColor)), image.Point{}, xdraw.Src)
	pr := projection{width: p.SlideWidth, height: p.SlideHeight, distance: p.SlideDistance, frame: dst.Bounds()}
	if pr.width <= 0 || pr.height <= 0 {
		return
	}

	type frame struct {
		offset scene.Vec3
		pick   scene.Handle
	}
	stack := []frame{{}}
	var visit func(h scene.Handle)
	visit = func(h scene.Handle) {
		n, ok := p.Graph.Node(h)
		if !ok {
			return
		}
		top := stack[len(stack)-1]
		cur := top
		if n.Pick != nil {
			cur.pick = h
		}
		if n.Kind == scene.KindTransform && !n.Transform.Inverse {
			cur.offset = add(cur.offset, n.Transform.Position)
		}
		r.draw(dst, pr, n, add(top.offset, n.Transform.Position), cur.pick)

		children := n.Children
		if n.Kind.IsSwitch() {
			if n.Selected < 0 || n.Selected >= len(children) {
				return
			}
			children = children[n.Selected : n.Selected+1]
		}
		stack = append(stack, cur)
		for _, c := range children {
			visit(c)
		}
		stack = stack[:len(stack)-1]
	}
	visit(slide)
}

func add(a, b scene.Vec3) scene.Vec3 {
	return scene.Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (r *Renderer) draw(dst *image.RGBA, pr projection, n *scene.Node, pos scene.Vec3, pick scene.Handle) {
	var area image.Rectangle
	switch {
	case n.Content.Fill != nil:
		xdraw.Draw(dst, dst.Bounds(), image.NewUniform(rgba(*n.Content.Fill)), image.Point{}, xdraw.Src)
		return
	case n.Content.Text != nil:
		area = r.drawText(dst, pr, n.Content.Text, pos)
	case n.Content.Image != nil:
		area = pr.box(pos, n.Content.Image.Width, n.Content.Image.Height)
		drawPixels(dst, area, n.Content.Image.Pixels, n.Content.Image.Region)
	case n.Content.Stereo != nil:
		img := n.Content.Stereo.Left
		area = pr.box(pos, img.Width, img.Height)
		drawPixels(dst, area, img.Pixels, img.Region)
	case n.Content.Surface != nil:
		area = pr.box(pos, n.Content.Surface.Width, n.Content.Surface.Height)
		drawPixels(dst, area, n.Content.Surface.Pixels, scene.Vec4{0, 0, 1, 1})
	case n.Content.Model != nil, n.Content.Volume != nil:
		radius := 0.5
		if n.Content.Model != nil {
			radius = n.Content.Model.Radius
		}
		side := 2 * radius * n.Transform.Scale[0]
		area = pr.box(pos, side, side)
		outline(dst, area, color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff})
	default:
		return
	}
	if !pick.IsZero() && !area.Empty() {
		r.hits = append(r.hits, hit{rect: area, node: pick})
	}
}

func (r *Renderer) drawText(dst *image.RGBA, pr projection, t *scene.Text, pos scene.Vec3) image.Rectangle {
	x, y, ppu := pr.point(pos)
	px := int(math.Round(t.CharacterSize * ppu))
	face := r.face(px)
	if face == nil {
		return image.Rectangle{}
	}
	block := r.measurer.Measure(t.Text, t.CharacterSize, t.MaxWidth)
	d := font.Drawer{Dst: dst, Src: image.NewUniform(rgba(t.Color)), Face: face}

	var area image.Rectangle
	lineStep := float64(px) * r.measurer.LineSpacing
	for i, line := range block.Lines {
		w := float64(d.MeasureString(line)) / 64
		lx := x
		switch t.Alignment {
		case "CENTER_BASE_LINE", "CENTER_CENTER", "CENTER_TOP", "CENTER_BOTTOM":
			lx -= w / 2
		case "RIGHT_BASE_LINE", "RIGHT_CENTER", "RIGHT_TOP", "RIGHT_BOTTOM":
			lx -= w
		}
		ly := y + float64(i)*lineStep
		d.Dot = fixed.P(int(lx), int(ly))
		d.DrawString(line)
		area = area.Union(image.Rect(int(lx), int(ly)-px, int(lx+w), int(ly)+px/4))
	}
	return area
}

func drawPixels(dst *image.RGBA, area image.Rectangle, src image.Image, region scene.Vec4) {
	if src == nil {
		outline(dst, area, color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff})
		return
	}
	b := src.Bounds()
	sr := image.Rect(
		b.Min.X+int(region[0]*float64(b.Dx())),
		b.Min.Y+int((1-region[3])*float64(b.Dy())),
		b.Min.X+int(region[2]*float64(b.Dx())),
		b.Min.Y+int((1-region[1])*float64(b.Dy())),
	)
	xdraw.ApproxBiLinear.Scale(dst, area, src, sr, xdraw.Over, nil)
}

func outline(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.SetRGBA(x, r.Min.Y, c)
		dst.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.SetRGBA(r.Min.X, y, c)
		dst.SetRGBA(r.Max.X-1, y, c)
	}
}

// HitTest returns the clickable node drawn topmost at (x, y) in the last
// rendered frame.
func (r *Renderer) HitTest(x, y int) (scene.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pt := image.Pt(x, y)
	for i := len(r.hits) - 1; i >= 0; i-- {
		if pt.In(r.hits[i].rect) {
			return r.hits[i].node, true
		}
	}
	return scene.Handle{}, false
}
