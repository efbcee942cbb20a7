package p3d

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ivlev/present3d/internal/anim"
	"github.com/ivlev/present3d/internal/keys"
	"github.com/ivlev/present3d/internal/scene"
	"github.com/ivlev/present3d/internal/show"
	"github.com/ivlev/present3d/internal/xmltree"
)

// The property accessors below report whether the property was present and
// valid. On failure the output is left untouched, so callers can preload
// it with the current default.

var palette = map[string]scene.Color{
	"WHITE":  {1, 1, 1, 1},
	"BLACK":  {0, 0, 0, 1},
	"PURPLE": {1, 0, 1, 1},
	"BLUE":   {0, 0, 1, 1},
	"RED":    {1, 0, 0, 1},
	"CYAN":   {0, 1, 1, 1},
	"YELLOW": {1, 1, 0, 1},
	"GREEN":  {0, 1, 0, 1},
	"SKY":    {0.2, 0.2, 1, 1},
}

func parseFloats(s string, n int) ([]float64, bool) {
	fields := strings.Fields(s)
	if len(fields) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true, true
	case "false", "0", "off", "no":
		return false, true
	}
	return false, false
}

// parseColor accepts a palette name or "r g b [a]".
func parseColor(s string) (scene.Color, bool) {
	s = strings.TrimSpace(s)
	if c, ok := palette[strings.ToUpper(s)]; ok {
		return c, true
	}
	if v, ok := parseFloats(s, 4); ok {
		return scene.Color{v[0], v[1], v[2], v[3]}, true
	}
	if v, ok := parseFloats(s, 3); ok {
		return scene.Color{v[0], v[1], v[2], 1}, true
	}
	return scene.Color{}, false
}

func getString(n *xmltree.Node, name string, out *string) bool {
	s, ok := n.Property(name)
	if ok {
		*out = s
	}
	return ok
}

func getInt(n *xmltree.Node, name string, out *int) bool {
	s, ok := n.Property(name)
	if !ok {
		return false
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	*out = v
	return true
}

func getFloat(n *xmltree.Node, name string, out *float64) bool {
	s, ok := n.Property(name)
	if !ok {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	*out = v
	return true
}

func getBool(n *xmltree.Node, name string, out *bool) bool {
	s, ok := n.Property(name)
	if !ok {
		return false
	}
	v, ok := parseBool(s)
	if ok {
		*out = v
	}
	return ok
}

func getVec2(n *xmltree.Node, name string, out *scene.Vec2) bool {
	s, ok := n.Property(name)
	if !ok {
		return false
	}
	v, ok := parseFloats(s, 2)
	if ok {
		*out = scene.Vec2{v[0], v[1]}
	}
	return ok
}

func getVec3(n *xmltree.Node, name string, out *scene.Vec3) bool {
	s, ok := n.Property(name)
	if !ok {
		return false
	}
	v, ok := parseFloats(s, 3)
	if ok {
		*out = scene.Vec3{v[0], v[1], v[2]}
	}
	return ok
}

func getVec4(n *xmltree.Node, name string, out *scene.Vec4) bool {
	s, ok := n.Property(name)
	if !ok {
		return false
	}
	v, ok := parseFloats(s, 4)
	if ok {
		*out = scene.Vec4{v[0], v[1], v[2], v[3]}
	}
	return ok
}

func getColor(n *xmltree.Node, name string, out *scene.Color) bool {
	s, ok := n.Property(name)
	if !ok {
		return false
	}
	c, ok := parseColor(s)
	if ok {
		*out = c
	}
	return ok
}

// getRotation reads base, replacing the running value in out, and
// composes base1..base3 onto whatever out then holds.
func getRotation(n *xmltree.Node, base string, out *scene.Vec4) bool {
	acc := *out
	read := getVec4(n, base, &acc)
	for _, suffix := range []string{"1", "2", "3"} {
		var step scene.Vec4
		if !getVec4(n, base+suffix, &step) {
			continue
		}
		acc = anim.AccumulateRotation(step, acc)
		read = true
	}
	if read {
		*out = acc
	}
	return read
}

// propertyReader carries the logger used for property diagnostics.
type propertyReader struct {
	log *slog.Logger
}

// positionProperties reads placement and animation properties into pd.
// An unrecognised coordinate_frame still counts as read.
func (r propertyReader) positionProperties(n *xmltree.Node, pd *show.PositionData) bool {
	read := false

	if s, ok := n.Property("coordinate_frame"); ok {
		read = true
		switch s {
		case "slide":
			pd.Frame = show.FrameSlide
		case "model":
			pd.Frame = show.FrameModel
		default:
			r.log.Debug("unrecognised coordinate frame", "value", s)
		}
	}

	if s, ok := n.Property("position"); ok {
		switch s {
		case "center":
			if pd.Frame == show.FrameSlide {
				pd.Position = scene.Vec3{0.5, 0.5, 0}
			} else {
				pd.Position = scene.Vec3{}
			}
			read = true
		case "eye":
			if pd.Frame == show.FrameSlide {
				pd.Position = scene.Vec3{0, 0, 1}
			} else {
				pd.Position = scene.Vec3{}
			}
			read = true
		default:
			var v3 scene.Vec3
			var v2 scene.Vec2
			switch {
			case getVec3(n, "position", &v3):
				pd.Position = v3
				read = true
			case getVec2(n, "position", &v2):
				pd.Position = scene.Vec3{v2[0], v2[1], 0}
				read = true
			default:
				r.log.Warn("could not parse position", "value", s)
			}
		}
	}

	var scale float64
	if getFloat(n, "scale", &scale) {
		pd.Scale = scene.Vec3{scale, scale, scale}
		read = true
	} else if getVec3(n, "scale", &pd.Scale) {
		read = true
	}

	if getRotation(n, "rotate", &pd.Rotate) {
		read = true
	}
	if getRotation(n, "rotation", &pd.Rotation) {
		read = true
	}

	if getString(n, "path", &pd.Path) {
		pd.CameraPath = false
		read = true
	}
	if getString(n, "camera_path", &pd.Path) {
		pd.CameraPath = true
		read = true
	}
	if getFloat(n, "path_time_offset", &pd.PathTimeOffset) {
		read = true
	}
	if getFloat(n, "path_time_multiplier", &pd.PathTimeMultiplier) {
		read = true
	}
	if s, ok := n.Property("path_loop_mode"); ok {
		if m, ok := anim.ParseLoopMode(s); ok {
			pd.LoopMode = m
			read = true
		} else {
			r.log.Warn("unrecognised path loop mode", "value", s)
		}
	}
	return read
}

var (
	layouts    = map[string]bool{"LEFT_TO_RIGHT": true, "RIGHT_TO_LEFT": true, "VERTICAL": true}
	alignments = map[string]bool{
		"LEFT_TOP": true, "LEFT_CENTER": true, "LEFT_BOTTOM": true,
		"CENTER_TOP": true, "CENTER_CENTER": true, "CENTER_BOTTOM": true,
		"RIGHT_TOP": true, "RIGHT_CENTER": true, "RIGHT_BOTTOM": true,
		"LEFT_BASE_LINE": true, "CENTER_BASE_LINE": true, "RIGHT_BASE_LINE": true,
		"BASE_LINE": true,
	}
)

func (r propertyReader) fontProperties(n *xmltree.Node, fd *show.FontData) bool {
	read := false
	if getString(n, "font", &fd.Font) {
		read = true
	}
	if getFloat(n, "character_size", &fd.CharacterSize) {
		read = true
	}
	if getFloat(n, "maximum_width", &fd.MaxWidth) {
		read = true
	}
	if getColor(n, "color", &fd.Color) || getColor(n, "colour", &fd.Color) {
		read = true
	}
	if s, ok := n.Property("layout"); ok {
		if layouts[s] {
			fd.Layout = s
			read = true
		} else {
			r.log.Warn("unrecognised text layout", "value", s)
		}
	}
	if s, ok := n.Property("alignment"); ok {
		if s == "BASE_LINE" {
			s = "LEFT_BASE_LINE"
		}
		if alignments[s] {
			fd.Alignment = s
			read = true
		} else {
			r.log.Warn("unrecognised text alignment", "value", s)
		}
	}
	return read
}

func (r propertyReader) imageProperties(n *xmltree.Node, id *show.ImageData) bool {
	read := false
	if getInt(n, "page", &id.Page) {
		read = true
	}
	if getInt(n, "width", &id.Width) {
		read = true
	}
	if getInt(n, "height", &id.Height) {
		read = true
	}
	if getVec4(n, "region", &id.Region) {
		read = true
	}
	if getBool(n, "looping", &id.Looping) {
		read = true
	}
	if getString(n, "options", &id.Options) {
		read = true
	}
	return read
}

func (r propertyReader) modelProperties(n *xmltree.Node, md *show.ModelData) bool {
	read := false
	if getString(n, "effect", &md.Effect) {
		read = true
	}
	if getString(n, "options", &md.Options) {
		read = true
	}
	return read
}

var shadings = map[string]bool{
	"standard": true, "light": true, "isosurface": true, "maximum_intensity_projection": true,
}

func (r propertyReader) volumeProperties(n *xmltree.Node, vd *show.VolumeData) bool {
	read := false
	if s, ok := n.Property("shading"); ok {
		if shadings[s] {
			vd.Shading = s
			read = true
		} else {
			r.log.Warn("unrecognised volume shading", "value", s)
		}
	}
	if getFloat(n, "alpha", &vd.Alpha) {
		read = true
	}
	if getFloat(n, "cutoff", &vd.Cutoff) {
		read = true
	}
	if getVec4(n, "region", &vd.Region) {
		read = true
	}
	return read
}

// jumpProperties reads a navigation target. Only the exact spellings
// relative, Relative and RELATIVE select a relative jump.
func (r propertyReader) jumpProperties(n *xmltree.Node, jd *scene.JumpData) bool {
	read := false
	if s, ok := n.Property("jump"); ok {
		switch s {
		case "relative", "Relative", "RELATIVE":
			jd.Relative = true
		default:
			jd.Relative = false
		}
		read = true
	}
	if getInt(n, "slide", &jd.Slide) {
		read = true
	}
	if getInt(n, "layer", &jd.Layer) {
		read = true
	}
	return read
}

// keyPosition reads a key from the key attribute or the element text, and
// the optional pointer position.
func (r propertyReader) keyPosition(n *xmltree.Node, kp *scene.KeyPosition) bool {
	name, ok := n.Property("key")
	if !ok {
		name = n.Contents
	}
	if name == "" {
		return false
	}
	code := keys.Lookup(name, r.log)
	if code == keys.Unknown {
		return false
	}
	kp.Key = code
	getFloat(n, "x", &kp.X)
	getFloat(n, "y", &kp.Y)
	return true
}

func (r propertyReader) homePosition(n *xmltree.Node, hp *scene.HomePosition) bool {
	read := false
	if getVec3(n, "eye", &hp.Eye) {
		read = true
	}
	if getVec3(n, "center", &hp.Center) {
		read = true
	}
	if getVec3(n, "up", &hp.Up) {
		read = true
	}
	return read
}
