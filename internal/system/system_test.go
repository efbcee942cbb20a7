package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestPresentation(t *testing.T) {
	dir := t.TempDir()
	names := []string{"old.p3d", "newest.XML", "newer.p3d", "ignored.pdf"}
	base := time.Now().Add(-time.Hour)
	mods := []time.Duration{0, 3 * time.Minute, 2 * time.Minute, 10 * time.Minute}
	for i, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("<presentation/>"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, base.Add(mods[i]), base.Add(mods[i])); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := FindLatestPresentation(dir)
	if err != nil {
		t.Fatalf("FindLatestPresentation failed: %v", err)
	}
	if want := filepath.Join(dir, "newest.XML"); latest != want {
		t.Errorf("Expected %s, got %s", want, latest)
	}

	if _, err := FindLatest(dir, ".obj"); err == nil {
		t.Error("Expected an error when no file matches")
	}
}

func TestImagePoolReusesBySize(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 4, 3)

	img := p.Get(rect)
	if img.Rect != rect {
		t.Fatalf("Get(%v) returned %v", rect, img.Rect)
	}
	p.Put(img)
	if got := p.Get(rect).Rect; got != rect {
		t.Errorf("Reused image has bounds %v, want %v", got, rect)
	}

	// Unknown sizes are dropped without panicking.
	p.Put(image.NewRGBA(image.Rect(0, 0, 9, 9)))
	p.Put(nil)
}

func TestReadStats(t *testing.T) {
	s, err := ReadStats()
	if err != nil {
		t.Skipf("process stats unavailable: %v", err)
	}
	if s.Goroutines <= 0 {
		t.Errorf("Goroutines = %d, want > 0", s.Goroutines)
	}
	if s.String() == "" {
		t.Error("Stats.String is empty")
	}
}
