package scene

// Presentation is a fully built slideshow. The caller owns it once the
// builder hands it over.
type Presentation struct {
	Graph *Graph
	Root  Handle

	Name     string
	Loop     bool
	AutoStep bool
	// Duration is the default time per slide in seconds, negative when unset.
	Duration float64

	BackgroundColor Color
	TextColor       Color

	SlideWidth    float64
	SlideHeight   float64
	SlideDistance float64

	// Holding contains the slides of a holding_slide element.
	Holding []Handle
}

// Slides returns the slide handles in presentation order.
func (p *Presentation) Slides() []Handle {
	if p == nil || p.Graph == nil {
		return nil
	}
	return p.Graph.Children(p.Root)
}

// Layers returns the layer handles of slide.
func (p *Presentation) Layers(slide Handle) []Handle {
	return p.Graph.Children(slide)
}

// NumSlides reports the number of slides.
func (p *Presentation) NumSlides() int {
	return len(p.Slides())
}

// Release removes every node reachable from the root and the holding
// slides. Handles kept by callers become stale.
func (p *Presentation) Release() {
	if p == nil || p.Graph == nil {
		return
	}
	var all []Handle
	seen := make(map[Handle]bool)
	collect := func(h Handle, _ *Node) bool {
		if seen[h] {
			return false
		}
		seen[h] = true
		all = append(all, h)
		return true
	}
	p.Graph.Walk(p.Root, TraverseAllChildren, collect)
	for _, h := range p.Holding {
		p.Graph.Walk(h, TraverseAllChildren, collect)
	}
	for _, h := range all {
		_ = p.Graph.Remove(h)
	}
	p.Root = Handle{}
	p.Holding = nil
}
