// Package engine runs a presentation session: it loads the document, wires
// the navigator to a viewer and a command runner, keeps the presentation in
// sync with its files and reports what it did.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ivlev/present3d/internal/config"
	"github.com/ivlev/present3d/internal/envpath"
	"github.com/ivlev/present3d/internal/keys"
	"github.com/ivlev/present3d/internal/media"
	"github.com/ivlev/present3d/internal/navigator"
	"github.com/ivlev/present3d/internal/operators"
	"github.com/ivlev/present3d/internal/outline"
	"github.com/ivlev/present3d/internal/p3d"
	"github.com/ivlev/present3d/internal/scene"
)

// Metrics counts the work of a session.
type Metrics struct {
	LoadTime      time.Duration
	PreloadTime   time.Duration
	Preloaded     int
	PreloadFailed int
	Reloads       int
	Frames        uint64
}

// Session owns a loaded presentation and its navigator. Its methods are
// safe for use from the viewer, the watcher and the headless loop at once.
type Session struct {
	Config *config.Config
	Logger *slog.Logger
	Paths  *envpath.SearchPaths
	// Loader overrides the media loader. When nil every load gets a fresh
	// media.FileLoader so reloads see changed images.
	Loader media.Loader
	Runner *operators.ShellRunner
	// OnReload is called after every reload attempt triggered by Watch.
	OnReload func(error)

	mu      sync.Mutex
	nav     *navigator.Navigator
	pres    *scene.Presentation
	file    string
	metrics Metrics
}

func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	runner := &operators.ShellRunner{Logger: logger}
	nav := navigator.New(nil, logger)
	nav.Runner = runner
	nav.MinKeyInterval = cfg.MinKeyInterval
	return &Session{
		Config: cfg,
		Logger: logger,
		Paths:  envpath.NewSearchPaths(cfg.SearchPaths...),
		Runner: runner,
		nav:    nav,
	}
}

func (s *Session) loader() media.Loader {
	if s.Loader != nil {
		return s.Loader
	}
	fl := media.NewFileLoader(s.Paths)
	fl.Logger = s.Logger
	return fl
}

// Load reads the configured presentation and shows its first slide.
func (s *Session) Load(ctx context.Context) error {
	return s.load(ctx, false)
}

// Reload reads the presentation again and stays on the current slide and
// layer where they still exist. On failure the old presentation is kept.
func (s *Session) Reload(ctx context.Context) error {
	return s.load(ctx, true)
}

func (s *Session) load(ctx context.Context, keepPosition bool) error {
	start := time.Now()
	file := s.Paths.Find(s.Config.InputPath)
	if file == "" {
		return fmt.Errorf("presentation %s: %w", s.Config.InputPath, p3d.ErrNotFound)
	}
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}

	loader := s.loader()
	if s.Config.PreloadWorkers > 0 {
		if err := s.preload(ctx, loader, file); err != nil {
			return err
		}
	}

	res := p3d.ReadNode(file, &p3d.Options{
		Options:       s.Config.Options,
		Loader:        loader,
		Logger:        s.Logger,
		Paths:         s.Paths,
		SlideWidth:    s.Config.SlideWidth,
		SlideHeight:   s.Config.SlideHeight,
		SlideDistance: s.Config.SlideDistance,
	})
	if !res.Success() {
		return res.Err
	}

	s.mu.Lock()
	old := s.pres
	slide, layer := 0, 0
	if keepPosition && old != nil {
		slide, layer = s.nav.ActiveSlide(), s.nav.ActiveLayer()
	}
	s.pres = res.Presentation
	s.file = file
	s.Runner.Dir = filepath.Dir(file)
	s.nav.Attach(s.pres, slide, layer)
	s.applyOverrides()
	if keepPosition {
		s.metrics.Reloads++
	}
	s.metrics.LoadTime = time.Since(start)
	old.Release()
	s.mu.Unlock()

	s.Logger.Info("presentation loaded", "file", file, "slides", res.Presentation.NumSlides(), "took", time.Since(start))
	return nil
}

func (s *Session) applyOverrides() {
	if s.Config.Loop {
		s.nav.SetLoop(true)
	}
	if s.Config.AutoStep {
		s.nav.SetAutoStepping(true)
	}
	if s.Config.TimePerSlide > 0 {
		s.nav.SetTimePerSlide(s.Config.TimePerSlide)
	}
}

// preload decodes the document's images in parallel ahead of the build.
func (s *Session) preload(ctx context.Context, loader media.Loader, file string) error {
	start := time.Now()
	names, err := p3d.ImageNames(file, s.Paths)
	if err != nil {
		// The read that follows reports the problem.
		s.Logger.Debug("preload scan failed", "file", file, "error", err)
		return nil
	}

	restore := s.Paths.Prepend(filepath.Dir(file))
	failed, err := media.Preload(ctx, loader, names, s.Config.PreloadWorkers)
	restore()
	if err != nil {
		return fmt.Errorf("preload: %w", err)
	}
	for name, ferr := range failed {
		s.Logger.Debug("preload failed", "image", name, "error", ferr)
	}

	s.mu.Lock()
	s.metrics.PreloadTime = time.Since(start)
	s.metrics.Preloaded = len(names) - len(failed)
	s.metrics.PreloadFailed = len(failed)
	s.mu.Unlock()
	return nil
}

// SetViewer attaches the viewer shown the active slide.
func (s *Session) SetViewer(v navigator.Viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Viewer = v
	if s.pres != nil && s.pres.NumSlides() > 0 {
		s.nav.SelectSlide(s.nav.ActiveSlide(), s.nav.ActiveLayer())
	}
}

// Tick advances the presentation clock to t seconds.
func (s *Session) Tick(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Frame(t)
	s.metrics.Frames++
}

func (s *Session) HandleKey(k keys.Code, t float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.HandleKey(navigator.KeyEvent{Key: k, Time: t})
}

// Pick performs the click binding of h.
func (s *Session) Pick(h scene.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Pick(h)
}

// Position returns the active slide and layer.
func (s *Session) Position() (slide, layer int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.ActiveSlide(), s.nav.ActiveLayer()
}

// Presentation returns the loaded presentation. It stays valid until the
// next reload.
func (s *Session) Presentation() *scene.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pres
}

// View calls fn with the presentation while holding the session lock, so
// renderers never see a presentation that is being replaced.
func (s *Session) View(fn func(p *scene.Presentation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.pres)
}

// Navigator returns the session's navigator. Callers must not use it
// concurrently with the session.
func (s *Session) Navigator() *navigator.Navigator { return s.nav }

func (s *Session) File() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

func (s *Session) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// CompareOutline compares the presentation with the newest outline in dir
// and returns that outline's path and the differences found.
func (s *Session) CompareOutline(dir string) (string, []string, error) {
	latest, err := outline.FindLatest(dir)
	if err != nil {
		return "", nil, err
	}
	prev, err := outline.Read(latest)
	if err != nil {
		return latest, nil, fmt.Errorf("read outline %s: %w", latest, err)
	}

	s.mu.Lock()
	if s.pres == nil {
		s.mu.Unlock()
		return latest, nil, fmt.Errorf("no presentation loaded")
	}
	o := outline.Build(s.pres)
	s.mu.Unlock()
	return latest, outline.Compare(prev, o), nil
}

// WriteOutline exports the presentation outline. An empty path writes a
// timestamped file under dir.
func (s *Session) WriteOutline(path, dir string) (string, error) {
	s.mu.Lock()
	if s.pres == nil {
		s.mu.Unlock()
		return "", fmt.Errorf("no presentation loaded")
	}
	o := outline.Build(s.pres)
	s.mu.Unlock()

	if path == "" {
		path = outline.GeneratePath(dir, o.Name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := outline.Write(o, path); err != nil {
		return "", err
	}
	return path, nil
}
