// Package mediatest provides an in-memory media.Loader for tests.
package mediatest

import (
	"fmt"
	"os"
	"sync"

	"github.com/ivlev/present3d/internal/media"
)

// Loader serves registered media by name. Unknown names fail with
// os.ErrNotExist. Requests are recorded in order.
type Loader struct {
	Images   map[string]*media.Image
	Models   map[string]*media.Model
	Volumes  map[string]*media.Volume
	Surfaces map[string]*media.Surface
	// Files resolve through Resolve only, e.g. animation paths.
	Files map[string]string

	mu       sync.Mutex
	requests []string
}

func New() *Loader {
	return &Loader{
		Images:   make(map[string]*media.Image),
		Models:   make(map[string]*media.Model),
		Volumes:  make(map[string]*media.Volume),
		Surfaces: make(map[string]*media.Surface),
		Files:    make(map[string]string),
	}
}

// AddImage registers a still image of w by h pixels.
func (l *Loader) AddImage(name string, w, h int) *media.Image {
	img := &media.Image{Path: name, Width: w, Height: h, PixelAspect: 1}
	l.Images[name] = img
	return img
}

// AddPDF registers a paged document surface.
func (l *Loader) AddPDF(name string, pages int) {
	l.Surfaces[name] = &media.Surface{Kind: media.SurfacePDF, Target: name, Width: 595, Height: 842, Pages: pages}
}

// Requests returns the names requested so far.
func (l *Loader) Requests() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.requests...)
}

func (l *Loader) record(name string) {
	l.mu.Lock()
	l.requests = append(l.requests, name)
	l.mu.Unlock()
}

func notFound(name string) error {
	return fmt.Errorf("%s: %w", name, os.ErrNotExist)
}

func (l *Loader) Resolve(name string) (string, error) {
	l.record(name)
	if p, ok := l.Files[name]; ok {
		return p, nil
	}
	return "", notFound(name)
}

func (l *Loader) LoadImage(name string) (*media.Image, error) {
	l.record(name)
	if img, ok := l.Images[name]; ok {
		return img, nil
	}
	return nil, notFound(name)
}

func (l *Loader) LoadModel(name string) (*media.Model, error) {
	l.record(name)
	if m, ok := l.Models[name]; ok {
		return m, nil
	}
	return nil, notFound(name)
}

func (l *Loader) LoadVolume(name string) (*media.Volume, error) {
	l.record(name)
	if v, ok := l.Volumes[name]; ok {
		return v, nil
	}
	return nil, notFound(name)
}

func (l *Loader) OpenSurface(kind media.SurfaceKind, target string, opts media.SurfaceOptions) (*media.Surface, error) {
	l.record(target)
	s, ok := l.Surfaces[target]
	if !ok {
		if kind == media.SurfacePDF {
			return nil, notFound(target)
		}
		return &media.Surface{Kind: kind, Target: target, Width: 1024, Height: 768, Pages: 1}, nil
	}
	out := *s
	out.Kind = kind
	out.Page = opts.Page
	if out.Page < 0 || out.Page >= out.Pages {
		out.Page = 0
	}
	return &out, nil
}

var _ media.Loader = (*Loader)(nil)
