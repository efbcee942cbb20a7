// Package outline exports the structure of a presentation as YAML: slides,
// layers, their timing and the content shown on each layer.
package outline

// Outline is the exported structure of a presentation.
type Outline struct {
	Version string  `yaml:"version"`
	Name    string  `yaml:"name,omitempty"`
	Loop    bool    `yaml:"loop,omitempty"`
	Auto    bool    `yaml:"auto,omitempty"`
	Slides  []Slide `yaml:"slides"`
	Holding []Slide `yaml:"holding,omitempty"`
}

type Slide struct {
	ID       int      `yaml:"id"`
	Title    string   `yaml:"title,omitempty"`
	Duration *float64 `yaml:"duration,omitempty"` // seconds, absent when unset
	Jump     *Jump    `yaml:"jump,omitempty"`
	Home     *Home    `yaml:"home,omitempty"`
	Layers   []Layer  `yaml:"layers"`
}

type Layer struct {
	Index    int      `yaml:"index"`
	Duration *float64 `yaml:"duration,omitempty"`
	Jump     *Jump    `yaml:"jump,omitempty"`
	Keys     []string `yaml:"keys,omitempty"`
	Run      []string `yaml:"run,omitempty"`
	Items    []Item   `yaml:"items,omitempty"`
}

// Item is one piece of content on a layer.
type Item struct {
	Kind string `yaml:"kind"`
	Text string `yaml:"text,omitempty"`
	Path string `yaml:"path,omitempty"`
	// Click describes the click binding, if any.
	Click string `yaml:"click,omitempty"`
}

type Jump struct {
	Relative bool `yaml:"relative,omitempty"`
	Slide    int  `yaml:"slide"`
	Layer    int  `yaml:"layer"`
}

type Home struct {
	Eye    [3]float64 `yaml:"eye"`
	Center [3]float64 `yaml:"center"`
	Up     [3]float64 `yaml:"up"`
}

// Durations returns the duration of every slide, or def where a slide has
// none.
func (o *Outline) Durations(def float64) []float64 {
	out := make([]float64, len(o.Slides))
	for i, s := range o.Slides {
		out[i] = def
		if s.Duration != nil {
			out[i] = *s.Duration
		}
	}
	return out
}
