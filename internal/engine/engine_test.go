package engine

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/present3d/internal/config"
	"github.com/ivlev/present3d/internal/keys"
	"github.com/ivlev/present3d/internal/outline"
	"github.com/ivlev/present3d/internal/p3d"
	"github.com/ivlev/present3d/internal/scene"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

const twoSlides = `<presentation>
  <name>Talk</name>
  <slide><title>One</title><layer><bullet>a</bullet></layer><layer><bullet>b</bullet></layer></slide>
  <slide><title>Two</title><layer><bullet>c</bullet></layer></slide>
</presentation>`

const threeSlides = `<presentation>
  <name>Talk</name>
  <slide><title>One</title><layer><bullet>a</bullet></layer><layer><bullet>b</bullet></layer></slide>
  <slide><title>Two</title><layer><bullet>c</bullet></layer></slide>
  <slide><title>Three</title><layer><bullet>d</bullet></layer></slide>
</presentation>`

func writeDoc(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "talk.p3d")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(0, 0, color.White)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newSession(t *testing.T, body string, tweak func(*config.Config)) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.InputPath = writeDoc(t, t.TempDir(), body)
	if tweak != nil {
		tweak(cfg)
	}
	s := NewSession(cfg, quiet)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestLoad(t *testing.T) {
	s := newSession(t, twoSlides, nil)

	p := s.Presentation()
	require.NotNil(t, p)
	assert.Equal(t, "Talk", p.Name)
	assert.Equal(t, 2, p.NumSlides())
	assert.True(t, filepath.IsAbs(s.File()))
	assert.Equal(t, filepath.Dir(s.File()), s.Runner.Dir)
}

func TestLoadMissing(t *testing.T) {
	cfg := config.Default()
	cfg.InputPath = filepath.Join(t.TempDir(), "missing.p3d")
	err := NewSession(cfg, quiet).Load(context.Background())
	assert.ErrorIs(t, err, p3d.ErrNotFound)
}

func TestLoadNotHandled(t *testing.T) {
	cfg := config.Default()
	cfg.InputPath = writeDoc(t, t.TempDir(), "<slides/>")
	err := NewSession(cfg, quiet).Load(context.Background())
	assert.ErrorIs(t, err, p3d.ErrNotHandled)
}

func TestKeysAndTicks(t *testing.T) {
	s := newSession(t, twoSlides, func(c *config.Config) { c.TimePerSlide = 0.5 })

	assert.True(t, s.HandleKey(keys.Right, 1))
	slide, layer := s.Position()
	assert.Equal(t, [2]int{0, 1}, [2]int{slide, layer})

	assert.True(t, s.HandleKey('g', 2))
	s.Tick(10)
	s.Tick(10.5)
	slide, layer = s.Position()
	assert.Equal(t, [2]int{1, 0}, [2]int{slide, layer})
	assert.Equal(t, uint64(2), s.Metrics().Frames)
}

func TestConfigOverrides(t *testing.T) {
	s := newSession(t, twoSlides, func(c *config.Config) {
		c.Loop = true
		c.AutoStep = true
	})
	nav := s.Navigator()
	assert.True(t, nav.Loop())
	assert.True(t, nav.AutoStepping())
}

func TestReloadKeepsPosition(t *testing.T) {
	s := newSession(t, twoSlides, nil)
	s.HandleKey(keys.PageDown, 1)
	old := s.Presentation()

	writeDoc(t, filepath.Dir(s.File()), threeSlides)
	require.NoError(t, s.Reload(context.Background()))

	assert.NotSame(t, old, s.Presentation())
	assert.Equal(t, 3, s.Presentation().NumSlides())
	slide, _ := s.Position()
	assert.Equal(t, 1, slide)
	assert.Equal(t, 1, s.Metrics().Reloads)
}

func TestReloadLeavesOldPresentation(t *testing.T) {
	s := newSession(t, twoSlides, nil)
	old := s.Presentation()
	layer := old.Layers(old.Slides()[0])[0]
	la, err := old.Graph.LayerAttributes(layer)
	require.NoError(t, err)
	leaves := 0
	la.AddLeaveCallback(func(scene.Handle) { leaves++ })
	// Enter the layer again so the callback belongs to a current operator.
	s.HandleKey(keys.Right, 1)
	s.HandleKey(keys.Left, 2)
	require.Zero(t, leaves)

	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, 1, leaves)
}

func TestReloadFailureKeepsPresentation(t *testing.T) {
	s := newSession(t, twoSlides, nil)
	old := s.Presentation()

	writeDoc(t, filepath.Dir(s.File()), "<presentation><slide>")
	assert.Error(t, s.Reload(context.Background()))
	assert.Same(t, old, s.Presentation())
	assert.Equal(t, 2, s.Presentation().NumSlides())
}

func TestPreload(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	cfg := config.Default()
	cfg.InputPath = writeDoc(t, dir, `<presentation><slide><layer>
  <image>a.png</image><image>missing.png</image>
</layer></slide></presentation>`)
	cfg.PreloadWorkers = 2

	s := NewSession(cfg, quiet)
	require.NoError(t, s.Load(context.Background()))
	m := s.Metrics()
	assert.Equal(t, 1, m.Preloaded)
	assert.Equal(t, 1, m.PreloadFailed)
}

func TestRunHeadless(t *testing.T) {
	s := newSession(t, twoSlides, func(c *config.Config) {
		c.Headless = true
		c.Hz = 1000
		c.Ticks = 20
		c.AutoStep = true
		c.TimePerSlide = 0.005
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.RunHeadless(ctx))

	assert.Equal(t, uint64(20), s.Metrics().Frames)
	slide, _ := s.Position()
	assert.Equal(t, 1, slide, "auto-stepping reached the last slide")
}

func TestRunHeadlessStopsOnCancel(t *testing.T) {
	s := newSession(t, twoSlides, func(c *config.Config) { c.Hz = 100 })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.RunHeadless(ctx), context.Canceled)

	s.Config.Hz = 0
	assert.Error(t, s.RunHeadless(context.Background()))
}

func TestWatchReloads(t *testing.T) {
	defer func(d time.Duration) { WatchDelay = d }(WatchDelay)
	WatchDelay = 20 * time.Millisecond
	s := newSession(t, twoSlides, nil)
	reloaded := make(chan error, 4)
	s.OnReload = func(err error) { reloaded <- err }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)

	writeDoc(t, filepath.Dir(s.File()), threeSlides)
	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after the presentation changed")
	}
	assert.Equal(t, 3, s.Presentation().NumSlides())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchedFilesIncludeMedia(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	cfg := config.Default()
	cfg.InputPath = writeDoc(t, dir, `<presentation><slide><layer><image>a.png</image></layer></slide></presentation>`)
	s := NewSession(cfg, quiet)
	require.NoError(t, s.Load(context.Background()))

	files := s.watchedFiles()
	assert.True(t, files[s.File()])
	assert.True(t, files[filepath.Join(dir, "a.png")])
}

type recordingViewer struct{ slides []scene.Handle }

func (v *recordingViewer) SetSlide(slide scene.Handle, _ *scene.HomePosition) {
	v.slides = append(v.slides, slide)
}

func TestSetViewerShowsCurrentSlide(t *testing.T) {
	s := newSession(t, twoSlides, nil)
	v := &recordingViewer{}
	s.SetViewer(v)
	require.NotEmpty(t, v.slides)
	assert.Equal(t, s.Presentation().Slides()[0], v.slides[len(v.slides)-1])

	var seen *scene.Presentation
	s.View(func(p *scene.Presentation) { seen = p })
	assert.Same(t, s.Presentation(), seen)
}

func TestWriteOutline(t *testing.T) {
	s := newSession(t, twoSlides, nil)

	dir := t.TempDir()
	path, err := s.WriteOutline("", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "Talk_"))

	o, err := outline.Read(path)
	require.NoError(t, err)
	require.Len(t, o.Slides, 2)
	assert.Equal(t, "One", o.Slides[0].Title)
	assert.Len(t, o.Slides[0].Layers, 2)
}

func TestCompareOutline(t *testing.T) {
	s := newSession(t, twoSlides, nil)
	dir := t.TempDir()

	_, _, err := s.CompareOutline(dir)
	assert.Error(t, err, "no outline written yet")

	written, err := s.WriteOutline("", dir)
	require.NoError(t, err)
	latest, changes, err := s.CompareOutline(dir)
	require.NoError(t, err)
	assert.Equal(t, written, latest)
	assert.Empty(t, changes)

	writeDoc(t, filepath.Dir(s.File()), threeSlides)
	require.NoError(t, s.Reload(context.Background()))
	_, changes, err = s.CompareOutline(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"slides: 2 -> 3"}, changes)
}

func TestReport(t *testing.T) {
	s := newSession(t, twoSlides, func(c *config.Config) { c.BuildVersion = "test" })
	s.Tick(0)

	var buf bytes.Buffer
	s.Report(&buf)
	out := buf.String()
	assert.Contains(t, out, "Build: test")
	assert.Contains(t, out, "Presentation: Talk (talk.p3d)")
	assert.Contains(t, out, "Slides: 2 | Holding: 0")
	assert.Contains(t, out, "Frames: 1 | Reloads: 0")
}
