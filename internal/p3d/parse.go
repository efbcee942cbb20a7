package p3d

import (
	"strconv"
	"strings"

	"github.com/ivlev/present3d/internal/envpath"
	"github.com/ivlev/present3d/internal/scene"
	"github.com/ivlev/present3d/internal/show"
	"github.com/ivlev/present3d/internal/xmltree"
)

func (p *parser) parsePresentation(root *xmltree.Node) {
	c := p.c
	p.presentationProperties(root)

	if p.opts.Has(OptionHoldingSlide) {
		for _, cur := range root.Children {
			if cur.Name == "holding_slide" {
				p.parseHoldingSlide(cur)
			}
		}
		return
	}

	for _, cur := range root.Children {
		switch cur.Name {
		case "template_slide":
			name, ok := cur.Property("name")
			if !ok || name == "" {
				p.log.Warn("template_slide without a name ignored")
				continue
			}
			p.templates[name] = cur
		case "slide":
			c.AddSlide()
			p.parseSlide(cur)
		case "modify_slide":
			var index int
			if !getInt(cur, "slide", &index) {
				p.log.Warn("modify_slide without a slide index ignored")
				continue
			}
			if c.SelectSlide(index) {
				p.parseSlide(cur)
			}
		case "page":
			p.parsePage(cur)
		case "pdf_document":
			p.parsePDFDocument(cur)
		case "holding_slide":
			p.log.Debug("holding_slide skipped", "option", OptionHoldingSlide)
		case "name":
			c.SetPresentationName(cur.Contents)
		case "loop":
			if v, ok := parseBool(cur.Contents); ok {
				c.SetLoop(v)
			}
		case "auto":
			if v, ok := parseBool(cur.Contents); ok {
				c.SetAutoSteppingActive(v)
			}
		case "title-settings":
			fd := c.TitleFontDataDefault()
			if p.fontProperties(cur, &fd) {
				c.SetTitleFontDataDefault(fd)
			}
			pd := c.TitlePositionDefault()
			if p.positionProperties(cur, &pd) {
				c.SetTitlePositionDefault(pd)
			}
		case "text-settings":
			fd := c.TextFontDataDefault()
			if p.fontProperties(cur, &fd) {
				c.SetTextFontDataDefault(fd)
			}
			pd := c.TextPositionDefault()
			if p.positionProperties(cur, &pd) {
				c.SetTextPositionDefault(pd)
			}
		case "path":
			dir := envpath.ExpandEnvVars(cur.Contents)
			if dir != "" {
				p.restores = append(p.restores, p.paths.Prepend(dir))
			}
		case "bgcolor":
			if col, ok := p.color(cur); ok {
				c.SetBackgroundColor(col)
			}
		case "textcolor":
			if col, ok := p.color(cur); ok {
				c.SetTextColor(col)
			}
		case "duration":
			if d, ok := p.duration(cur); ok {
				c.SetPresentationDuration(d)
			}
		case "key":
			var kp scene.KeyPosition
			if p.keyPosition(cur, &kp) {
				c.AddPresentationKey(kp)
			}
		case "home_position":
			if hp, ok := p.home(cur); ok {
				c.SetPresentationHomePosition(hp)
			}
		default:
			p.log.Debug("element ignored", "element", cur.Name, "parent", root.Name)
		}
	}
}

// presentationProperties applies settings given as attributes of the root.
func (p *parser) presentationProperties(root *xmltree.Node) {
	c := p.c
	var col scene.Color
	if getColor(root, "bgcolor", &col) {
		c.SetBackgroundColor(col)
	}
	if getColor(root, "textcolor", &col) {
		c.SetTextColor(col)
	}
	var b bool
	if getBool(root, "loop", &b) {
		c.SetLoop(b)
	}
	if getBool(root, "auto", &b) {
		c.SetAutoSteppingActive(b)
	}
	var d float64
	if getFloat(root, "duration", &d) {
		c.SetPresentationDuration(d)
	}
	var name string
	if getString(root, "name", &name) {
		c.SetPresentationName(name)
	}
}

func (p *parser) color(n *xmltree.Node) (scene.Color, bool) {
	col, ok := parseColor(n.Contents)
	if !ok {
		p.log.Warn("could not parse colour", "element", n.Name, "value", n.Contents)
	}
	return col, ok
}

func (p *parser) duration(n *xmltree.Node) (float64, bool) {
	d, err := strconv.ParseFloat(strings.TrimSpace(n.Contents), 64)
	if err != nil {
		p.log.Warn("could not parse duration", "value", n.Contents)
		return 0, false
	}
	return d, true
}

func (p *parser) home(n *xmltree.Node) (scene.HomePosition, bool) {
	hp := scene.HomePosition{Center: scene.Vec3{0, 1, 0}, Up: scene.Vec3{0, 0, 1}}
	return hp, p.homePosition(n, &hp)
}

func (p *parser) template(n *xmltree.Node) *xmltree.Node {
	name, ok := n.Property("inherit")
	if !ok || name == "" {
		return nil
	}
	t, ok := p.templates[name]
	if !ok {
		p.log.Warn("slide template not found", "inherit", name)
		return nil
	}
	return t
}

// parseSlide fills the current slide: template titles, own titles,
// template layers, then own layers.
func (p *parser) parseSlide(cur *xmltree.Node) {
	t := p.template(cur)
	if t != nil {
		p.parseSlideTitles(t)
	}
	p.parseSlideTitles(cur)
	if t != nil {
		p.parseSlideLayers(t)
	}
	p.parseSlideLayers(cur)
}

func (p *parser) parseHoldingSlide(cur *xmltree.Node) {
	p.c.AddHoldingSlide()
	p.parseSlide(cur)
}

func (p *parser) parseSlideTitles(slide *xmltree.Node) {
	c := p.c
	for _, cur := range slide.Children {
		switch cur.Name {
		case "title":
			pd := c.TitlePositionData()
			fd := c.TitleFontData()
			p.positionProperties(cur, &pd)
			p.fontProperties(cur, &fd)
			c.SetSlideTitle(cur.Contents, pd, fd)
		case "background":
			c.SetSlideBackground(cur.Contents)
			c.AddFilePath(cur.Contents)
		case "bgcolor":
			if col, ok := p.color(cur); ok {
				c.SetSlideBackgroundColor(col)
			}
		case "duration":
			if d, ok := p.duration(cur); ok {
				c.SetSlideDuration(d)
			}
		case "key":
			var kp scene.KeyPosition
			if p.keyPosition(cur, &kp) {
				c.AddSlideKey(kp)
			}
		case "jump":
			var jd scene.JumpData
			if p.jumpProperties(cur, &jd) {
				c.SetSlideJump(jd)
			}
		case "home_position":
			if hp, ok := p.home(cur); ok {
				c.SetSlideHomePosition(hp)
			}
		}
	}
}

func (p *parser) parseSlideLayers(slide *xmltree.Node) {
	c := p.c
	for _, cur := range slide.Children {
		switch cur.Name {
		case "layer", "base":
			inherit := true
			getBool(cur, "inherit", &inherit)
			c.AddLayer(inherit, cur.Name == "base")
			p.parseLayer(cur)
		case "clean_layer":
			c.AddLayer(false, false)
			p.parseLayer(cur)
		case "modify_layer":
			var index int
			if getInt(cur, "layer", &index) && c.SelectLayer(index) {
				p.parseLayer(cur)
				continue
			}
			c.AddLayer(true, false)
			p.parseLayer(cur)
		}
	}
}

// parseLayer adds the content of a layer element to the current layer.
func (p *parser) parseLayer(layer *xmltree.Node) {
	c := p.c
	for _, cur := range layer.Children {
		switch cur.Name {
		case "bullet":
			pd := c.TextPositionData()
			fd := c.TextFontData()
			p.positionProperties(cur, &pd)
			p.fontProperties(cur, &fd)
			c.AddBullet(cur.Contents, pd, fd)
		case "paragraph":
			pd := c.TextPositionData()
			fd := c.TextFontData()
			p.positionProperties(cur, &pd)
			p.fontProperties(cur, &fd)
			c.AddParagraph(cur.Contents, pd, fd)
		case "image":
			pd := c.ImagePositionData()
			id := show.DefaultImageData()
			p.positionProperties(cur, &pd)
			p.imageProperties(cur, &id)
			c.AddImage(cur.Contents, pd, id)
			c.AddFilePath(cur.Contents)
		case "stereo_pair":
			p.parseStereoPair(cur)
		case "model":
			pd := c.ModelPositionData()
			var md show.ModelData
			p.positionProperties(cur, &pd)
			p.modelProperties(cur, &md)
			c.AddModel(cur.Contents, pd, md)
			c.AddFilePath(cur.Contents)
		case "volume":
			pd := c.ModelPositionData()
			vd := show.DefaultVolumeData()
			p.positionProperties(cur, &pd)
			p.volumeProperties(cur, &vd)
			c.AddVolume(cur.Contents, pd, vd)
			c.AddFilePath(cur.Contents)
		case "browser", "vnc", "pdf":
			pd := c.ImagePositionData()
			id := show.DefaultImageData()
			p.positionProperties(cur, &pd)
			p.imageProperties(cur, &id)
			switch cur.Name {
			case "browser":
				c.AddBrowser(cur.Contents, pd, id)
			case "vnc":
				c.AddVNC(cur.Contents, pd, id)
			default:
				c.AddPDF(cur.Contents, pd, id)
				c.AddFilePath(cur.Contents)
			}
		case "duration":
			if d, ok := p.duration(cur); ok {
				c.SetLayerDuration(d)
			}
		case "key":
			var kp scene.KeyPosition
			if p.keyPosition(cur, &kp) {
				c.AddLayerKey(kp)
			}
		case "run":
			if cur.Contents != "" {
				c.AddLayerRunString(cur.Contents)
			}
		case "jump":
			var jd scene.JumpData
			if p.jumpProperties(cur, &jd) {
				c.SetLayerJump(jd)
			}
		case "click_to_run", "click_to_key", "click_to_jump":
			p.parseClickTo(cur)
		case "home_position":
			if hp, ok := p.home(cur); ok {
				c.SetHomePosition(hp)
			}
		}
	}
}

func (p *parser) parseStereoPair(cur *xmltree.Node) {
	c := p.c
	left, right := cur.Child("image_left"), cur.Child("image_right")
	if left == nil || right == nil {
		p.log.Warn("stereo_pair needs image_left and image_right")
		return
	}
	pd := c.ImagePositionData()
	p.positionProperties(cur, &pd)
	ld, rd := show.DefaultImageData(), show.DefaultImageData()
	p.imageProperties(left, &ld)
	p.imageProperties(right, &rd)
	c.AddStereoImagePair(left.Contents, right.Contents, pd, ld, rd)
	c.AddFilePath(left.Contents)
	c.AddFilePath(right.Contents)
}

// parseClickTo parses the wrapped content and makes every item it added
// clickable. A click_to element without child elements holds its command
// or key as text.
func (p *parser) parseClickTo(cur *xmltree.Node) {
	c := p.c
	var b scene.PickBinding
	switch cur.Name {
	case "click_to_run":
		b.Action = scene.PickRun
		if !getString(cur, "command", &b.Command) && len(cur.Children) == 0 {
			b.Command = cur.Contents
		}
		if b.Command == "" {
			p.log.Warn("click_to_run without a command ignored")
			return
		}
	case "click_to_key":
		b.Action = scene.PickKey
		var kp scene.KeyPosition
		if !p.keyPosition(cur, &kp) {
			p.log.Warn("click_to_key without a valid key ignored")
			return
		}
		b.Key = kp.Key
	case "click_to_jump":
		b.Action = scene.PickJump
		p.jumpProperties(cur, &b.Jump)
	}

	layer := c.CurrentLayer()
	if layer.IsZero() {
		layer = c.AddLayer(true, false)
	}
	before := len(c.Graph().Children(layer))
	p.parseLayer(cur)
	for _, h := range c.Graph().Children(layer)[before:] {
		c.SetPickBinding(h, b)
	}
}

// parsePage adds a slide holding a single paragraph.
func (p *parser) parsePage(cur *xmltree.Node) {
	c := p.c
	c.AddSlide()
	p.slideHeader(cur)
	c.AddLayer(true, false)
	pd := c.TextPositionData()
	fd := c.TextFontData()
	p.positionProperties(cur, &pd)
	p.fontProperties(cur, &fd)
	c.AddParagraph(cur.Contents, pd, fd)
}

// slideHeader applies the template and the title attribute of page-like
// elements to the current slide.
func (p *parser) slideHeader(cur *xmltree.Node) {
	c := p.c
	t := p.template(cur)
	if t != nil {
		p.parseSlideTitles(t)
	}
	var title string
	if getString(cur, "title", &title) && title != "" {
		c.SetSlideTitle(title, c.TitlePositionData(), c.TitleFontData())
	}
	if t != nil {
		p.parseSlideLayers(t)
	}
}

// parsePDFDocument adds one slide per page of a PDF document.
func (p *parser) parsePDFDocument(cur *xmltree.Node) {
	c := p.c
	file := cur.Contents
	pd := c.ImagePositionData()
	id := show.DefaultImageData()
	p.positionProperties(cur, &pd)
	p.imageProperties(cur, &id)

	c.AddSlide()
	p.slideHeader(cur)
	c.AddLayer(true, false)
	_, surface, ok := c.AddPDF(file, pd, id)
	c.AddFilePath(file)
	if !ok || surface.Pages <= 1 {
		return
	}
	first := surface.Page
	for page := 0; page < surface.Pages; page++ {
		if page == first {
			continue
		}
		id.Page = page
		c.AddSlide()
		p.slideHeader(cur)
		c.AddLayer(true, false)
		c.AddPDF(file, pd, id)
	}
}
