package outline

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// normalize passes o through its YAML form so outlines built in memory
// and outlines read from disk compare alike.
func normalize(o *Outline) *Outline {
	data, err := yaml.Marshal(o)
	if err != nil {
		return o
	}
	var out Outline
	if err := yaml.Unmarshal(data, &out); err != nil {
		return o
	}
	return &out
}

// Compare lists the differences between an earlier outline and a newer
// one. It returns nil when they match.
func Compare(prev, next *Outline) []string {
	prev, next = normalize(prev), normalize(next)
	var changes []string
	if prev.Name != next.Name {
		changes = append(changes, fmt.Sprintf("name: %q -> %q", prev.Name, next.Name))
	}
	if prev.Loop != next.Loop || prev.Auto != next.Auto {
		changes = append(changes, fmt.Sprintf("loop/auto: %t/%t -> %t/%t", prev.Loop, prev.Auto, next.Loop, next.Auto))
	}
	if len(prev.Slides) != len(next.Slides) {
		changes = append(changes, fmt.Sprintf("slides: %d -> %d", len(prev.Slides), len(next.Slides)))
	}
	for i := range min(len(prev.Slides), len(next.Slides)) {
		changes = append(changes, compareSlide(prev.Slides[i], next.Slides[i])...)
	}
	if !reflect.DeepEqual(prev.Holding, next.Holding) {
		changes = append(changes, fmt.Sprintf("holding slides: %d -> %d", len(prev.Holding), len(next.Holding)))
	}
	return changes
}

func compareSlide(a, b Slide) []string {
	var changes []string
	if a.Title != b.Title {
		changes = append(changes, fmt.Sprintf("slide %d title: %q -> %q", b.ID, a.Title, b.Title))
	}
	if !reflect.DeepEqual(a.Duration, b.Duration) || !reflect.DeepEqual(a.Jump, b.Jump) {
		changes = append(changes, fmt.Sprintf("slide %d timing changed", b.ID))
	}
	switch {
	case len(a.Layers) != len(b.Layers):
		changes = append(changes, fmt.Sprintf("slide %d layers: %d -> %d", b.ID, len(a.Layers), len(b.Layers)))
	case !reflect.DeepEqual(a.Layers, b.Layers) || !reflect.DeepEqual(a.Home, b.Home):
		changes = append(changes, fmt.Sprintf("slide %d content changed", b.ID))
	}
	return changes
}
