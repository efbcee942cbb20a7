package outline

import (
	"fmt"

	"github.com/ivlev/present3d/internal/scene"
)

const Version = "1.0"

// Build walks every slide and layer of p.
func Build(p *scene.Presentation) *Outline {
	o := &Outline{
		Version: Version,
		Name:    p.Name,
		Loop:    p.Loop,
		Auto:    p.AutoStep,
	}
	for i, h := range p.Slides() {
		o.Slides = append(o.Slides, buildSlide(p, i+1, h))
	}
	for i, h := range p.Holding {
		o.Holding = append(o.Holding, buildSlide(p, i+1, h))
	}
	return o
}

func buildSlide(p *scene.Presentation, id int, h scene.Handle) Slide {
	g := p.Graph
	s := Slide{ID: id}
	if n, ok := g.Node(h); ok {
		s.Duration, s.Jump = timing(n.Meta.Layer)
		s.Home = home(n.Meta.Home)
	}
	for j, lh := range g.Children(h) {
		l := Layer{Index: j}
		n, ok := g.Node(lh)
		if !ok {
			continue
		}
		l.Duration, l.Jump = timing(n.Meta.Layer)
		if la := n.Meta.Layer; la != nil {
			for _, kp := range la.Keys {
				l.Keys = append(l.Keys, kp.Key.String())
			}
			l.Run = append(l.Run, la.RunStrings...)
		}
		g.Walk(lh, scene.TraverseAllChildren, func(_ scene.Handle, c *scene.Node) bool {
			if c.Kind == scene.KindText && c.Name == "title" && c.Content.Text != nil {
				if s.Title == "" {
					s.Title = c.Content.Text.Text
				}
				return true
			}
			if it, ok := item(c); ok {
				l.Items = append(l.Items, it)
			}
			return true
		})
		s.Layers = append(s.Layers, l)
	}
	return s
}

func timing(la *scene.LayerAttributes) (*float64, *Jump) {
	if la == nil {
		return nil, nil
	}
	var d *float64
	if la.Duration >= 0 {
		v := la.Duration
		d = &v
	}
	var j *Jump
	if la.Jump != nil {
		j = &Jump{Relative: la.Jump.Relative, Slide: la.Jump.Slide, Layer: la.Jump.Layer}
	}
	return d, j
}

func home(hp *scene.HomePosition) *Home {
	if hp == nil {
		return nil
	}
	return &Home{Eye: hp.Eye, Center: hp.Center, Up: hp.Up}
}

func item(n *scene.Node) (Item, bool) {
	it := Item{Kind: n.Kind.String()}
	switch {
	case n.Content.Text != nil:
		it.Text = n.Content.Text.Text
	case n.Content.Image != nil:
		it.Path = n.Content.Image.Path
	case n.Content.Stereo != nil:
		it.Path = n.Content.Stereo.Left.Path
	case n.Content.Model != nil:
		it.Path = n.Content.Model.Path
	case n.Content.Volume != nil:
		it.Path = n.Content.Volume.Path
	case n.Content.Surface != nil:
		it.Path = n.Content.Surface.Target
	default:
		return Item{}, false
	}
	if n.Kind == scene.KindBackground {
		return Item{}, false
	}
	if b := n.Pick; b != nil {
		switch b.Action {
		case scene.PickRun:
			it.Click = "run " + b.Command
		case scene.PickKey:
			it.Click = "key " + b.Key.String()
		case scene.PickJump:
			it.Click = fmt.Sprintf("jump %d:%d", b.Jump.Slide, b.Jump.Layer)
			if b.Jump.Relative {
				it.Click = fmt.Sprintf("jump %+d:%+d", b.Jump.Slide, b.Jump.Layer)
			}
		}
	}
	return it, true
}
