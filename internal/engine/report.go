package engine

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ivlev/present3d/internal/system"
)

// Report writes the session summary.
func (s *Session) Report(w io.Writer) {
	m := s.Metrics()
	s.mu.Lock()
	name, file, slides, holding := "", s.file, 0, 0
	if s.pres != nil {
		name, slides, holding = s.pres.Name, s.pres.NumSlides(), len(s.pres.Holding)
	}
	slide, layer := s.nav.ActiveSlide(), s.nav.ActiveLayer()
	s.mu.Unlock()

	fmt.Fprintf(w,
		"--- [SESSION REPORT] ---\n"+
			"Build: %s\n"+
			"Presentation: %s (%s)\n"+
			"Slides: %d | Holding: %d | Position: %d/%d\n"+
			"Load Time: %.2fs\n"+
			"Preload: %d images in %.2fs (%d failed)\n"+
			"Frames: %d | Reloads: %d\n",
		s.Config.BuildVersion, name, filepath.Base(file),
		slides, holding, slide, layer,
		m.LoadTime.Seconds(),
		m.Preloaded, m.PreloadTime.Seconds(), m.PreloadFailed,
		m.Frames, m.Reloads,
	)
	if st, err := system.ReadStats(); err == nil {
		fmt.Fprintln(w, st.String())
	} else {
		fmt.Fprintf(w, "[!] Process stats unavailable: %v\n", err)
	}
	fmt.Fprintln(w, "------------------------")
}
