// Package typeset measures text blocks so the builder can advance its text
// cursor by the space a paragraph really occupies.
package typeset

import (
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// emSize is the pixel size the reference face is rasterised at; widths are
// returned as fractions of it.
const emSize = 64

var (
	faceOnce sync.Once
	face     font.Face
	faceErr  error
)

func referenceFace() (font.Face, error) {
	faceOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			faceErr = err
			return
		}
		face, faceErr = opentype.NewFace(f, &opentype.FaceOptions{Size: emSize, DPI: 72, Hinting: font.HintingNone})
	})
	return face, faceErr
}

// Block is the measured layout of a text block.
type Block struct {
	Lines []string
	// Width is the widest line in the same unit as the character size.
	Width float64
	// Height spans all lines in the same unit as the character size.
	Height float64
}

// Measurer wraps and measures text.
type Measurer struct {
	// LineSpacing is the distance between baselines in character sizes.
	LineSpacing float64
}

func NewMeasurer() *Measurer {
	return &Measurer{LineSpacing: 1.0}
}

// Measure wraps text at maxWidth (0 disables wrapping) for glyphs of
// characterSize and returns the resulting block. Explicit newlines always
// break.
func (m *Measurer) Measure(text string, characterSize, maxWidth float64) Block {
	var b Block
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			b.Lines = append(b.Lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if maxWidth > 0 && m.width(candidate, characterSize) > maxWidth {
				b.Lines = append(b.Lines, line)
				line = w
				continue
			}
			line = candidate
		}
		b.Lines = append(b.Lines, line)
	}
	for _, l := range b.Lines {
		if w := m.width(l, characterSize); w > b.Width {
			b.Width = w
		}
	}
	spacing := m.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	b.Height = characterSize * (1 + float64(len(b.Lines)-1)*spacing)
	return b
}

func (m *Measurer) width(s string, characterSize float64) float64 {
	f, err := referenceFace()
	if err != nil {
		// Fixed-pitch estimate when the reference face is unusable.
		return float64(len([]rune(s))) * characterSize * 0.5
	}
	adv := font.MeasureString(f, s)
	return fixedToFloat(adv) / emSize * characterSize
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
