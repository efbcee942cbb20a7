package outline

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/present3d/internal/keys"
	"github.com/ivlev/present3d/internal/scene"
	"github.com/ivlev/present3d/internal/show"
)

func testPresentation() *scene.Presentation {
	c := show.NewConstructor(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.SetPresentationName("Demo")
	c.SetLoop(true)

	c.AddSlide()
	c.SetSlideTitle("Intro", c.TitlePositionData(), c.TitleFontData())
	c.SetSlideDuration(4)
	c.AddLayer(true, false)
	c.AddBullet("first", c.TextPositionData(), c.TextFontData())
	c.AddLayer(true, false)
	h := c.AddBullet("second", c.TextPositionData(), c.TextFontData())
	c.SetPickBinding(h, scene.PickBinding{Action: scene.PickJump, Jump: scene.JumpData{Relative: true, Slide: 1}})
	c.AddLayerKey(scene.KeyPosition{Key: keys.PageDown})
	c.AddLayerRunString("echo hi")

	c.AddSlide()
	c.AddLayer(true, false)
	c.SetLayerDuration(2)
	c.SetLayerJump(scene.JumpData{Slide: 0, Layer: 1})
	return c.Presentation()
}

func TestBuild(t *testing.T) {
	o := Build(testPresentation())

	if o.Version != Version || o.Name != "Demo" || !o.Loop {
		t.Errorf("Header = %q/%q/%t, want %q/Demo/true", o.Version, o.Name, o.Loop, Version)
	}
	if len(o.Slides) != 2 {
		t.Fatalf("Expected 2 slides, got %d", len(o.Slides))
	}

	intro := o.Slides[0]
	if intro.ID != 1 || intro.Title != "Intro" {
		t.Errorf("First slide = %d %q, want 1 \"Intro\"", intro.ID, intro.Title)
	}
	if intro.Duration == nil || *intro.Duration != 4 {
		t.Errorf("First slide duration = %v, want 4", intro.Duration)
	}
	if len(intro.Layers) != 2 {
		t.Fatalf("Expected 2 layers, got %d", len(intro.Layers))
	}
	if want := []Item{{Kind: "text", Text: "first"}}; !reflect.DeepEqual(intro.Layers[0].Items, want) {
		t.Errorf("Layer 0 items = %+v, want %+v", intro.Layers[0].Items, want)
	}

	second := intro.Layers[1]
	if len(second.Items) != 2 {
		t.Fatalf("Expected the inherited bullet plus its own, got %+v", second.Items)
	}
	if second.Items[1].Click != "jump +1:+0" {
		t.Errorf("Click = %q", second.Items[1].Click)
	}
	if !reflect.DeepEqual(second.Keys, []string{"Page Down"}) || !reflect.DeepEqual(second.Run, []string{"echo hi"}) {
		t.Errorf("Keys/run = %v/%v", second.Keys, second.Run)
	}

	last := o.Slides[1]
	if last.Title != "" || last.Duration != nil {
		t.Errorf("Last slide should have no title or duration: %+v", last)
	}
	if d := last.Layers[0].Duration; d == nil || *d != 2 {
		t.Errorf("Last layer duration = %v, want 2", d)
	}
	if j := last.Layers[0].Jump; j == nil || *j != (Jump{Slide: 0, Layer: 1}) {
		t.Errorf("Last layer jump = %+v", j)
	}

	if got := o.Durations(1); !reflect.DeepEqual(got, []float64{4, 1}) {
		t.Errorf("Durations = %v, want [4 1]", got)
	}
}

func TestWriteRead(t *testing.T) {
	o := Build(testPresentation())

	path := filepath.Join(t.TempDir(), "outline.yaml")
	if err := Write(o, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	read, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !reflect.DeepEqual(o, read) {
		t.Errorf("Outline changed on disk:\n%+v\n%+v", o, read)
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
}

func TestGeneratePath(t *testing.T) {
	path := GeneratePath("outlines", "My Talk")

	if filepath.Dir(path) != "outlines" {
		t.Errorf("Path should be in outlines: %s", path)
	}
	if !strings.HasPrefix(filepath.Base(path), "My_Talk_") || filepath.Ext(path) != ".yaml" {
		t.Errorf("Unexpected file name: %s", path)
	}
	if p := GeneratePath("", ""); !strings.Contains(p, "outline_") {
		t.Errorf("Default name should be outline: %s", p)
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "outline_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "outline_2026-02-13_01-00-00.yaml"),
		filepath.Join(dir, "outline_2026-02-11_15-30-00.yaml"),
	}
	for i, f := range files {
		if err := os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		// Set different modification times
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(f, modTime, modTime); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	latest, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if latest != files[len(files)-1] {
		t.Errorf("Expected %s, got %s", files[len(files)-1], latest)
	}

	if _, err := FindLatest(t.TempDir()); err == nil {
		t.Error("Expected an error for a directory without outlines")
	}
}

func TestCompare(t *testing.T) {
	o := Build(testPresentation())
	path := filepath.Join(t.TempDir(), "outline.yaml")
	if err := Write(o, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	saved, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if changes := Compare(saved, o); changes != nil {
		t.Errorf("Expected no changes, got %v", changes)
	}

	changed := Build(testPresentation())
	changed.Slides[0].Title = "Welcome"
	changed.Slides[1].Layers[0].Items = append(changed.Slides[1].Layers[0].Items, Item{Kind: "image", Path: "a.png"})
	changed.Slides = append(changed.Slides, Slide{ID: 3})
	want := []string{
		"slides: 2 -> 3",
		`slide 1 title: "Intro" -> "Welcome"`,
		"slide 2 content changed",
	}
	if got := Compare(saved, changed); !reflect.DeepEqual(got, want) {
		t.Errorf("Compare = %q, want %q", got, want)
	}
}
