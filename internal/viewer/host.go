package viewer

import (
	"github.com/ivlev/present3d/internal/keys"
	"github.com/ivlev/present3d/internal/navigator"
	"github.com/ivlev/present3d/internal/scene"
)

// Host is the running presentation a window shows.
type Host interface {
	SetViewer(v navigator.Viewer)
	Tick(t float64)
	HandleKey(k keys.Code, t float64) bool
	Pick(h scene.Handle) bool
	// View calls fn with the presentation while no other goroutine
	// changes it.
	View(fn func(p *scene.Presentation))
}
