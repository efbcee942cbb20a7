package media

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/h2non/filetype"
	"github.com/skip2/go-qrcode"

	"github.com/ivlev/present3d/internal/envpath"
	"github.com/ivlev/present3d/internal/scene"
)

// Image is a decoded picture or a movie stream.
type Image struct {
	Path   string
	Width  int
	Height int
	// PixelAspect is the width of a pixel relative to its height.
	PixelAspect float64
	Pixels      image.Image
	// Stream is set for movies.
	Stream scene.Stream
}

type Model struct {
	Path   string
	Center scene.Vec3
	Radius float64
}

type Volume struct {
	Path   string
	Width  int
	Height int
	Depth  int
}

type SurfaceKind string

const (
	SurfaceBrowser SurfaceKind = "browser"
	SurfaceVNC     SurfaceKind = "vnc"
	SurfacePDF     SurfaceKind = "pdf"
)

// SurfaceOptions size and position an interactive surface.
type SurfaceOptions struct {
	Width  int
	Height int
	Page   int
}

// Surface is an interactive image. Pages is the number of pages of a
// paged source and 1 otherwise.
type Surface struct {
	Kind   SurfaceKind
	Target string
	Width  int
	Height int
	Page   int
	Pages  int
	Pixels image.Image
}

// Loader resolves and loads presentation media.
type Loader interface {
	Resolve(name string) (string, error)
	LoadImage(name string) (*Image, error)
	LoadModel(name string) (*Model, error)
	LoadVolume(name string) (*Volume, error)
	OpenSurface(kind SurfaceKind, target string, opts SurfaceOptions) (*Surface, error)
}

// FileLoader loads media from the file system, resolving relative names
// against a search path list.
type FileLoader struct {
	Paths  *envpath.SearchPaths
	DPI    int
	Logger *slog.Logger
	// MovieLength is the nominal length given to movie streams.
	MovieLength time.Duration

	mu     sync.Mutex
	images map[string]*Image
}

func NewFileLoader(paths *envpath.SearchPaths) *FileLoader {
	if paths == nil {
		paths = envpath.NewSearchPaths()
	}
	return &FileLoader{
		Paths:  paths,
		DPI:    72,
		images: make(map[string]*Image),
	}
}

func (l *FileLoader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l *FileLoader) Resolve(name string) (string, error) {
	path := l.Paths.Find(envpath.ExpandEnvVars(name))
	if path == "" {
		return "", fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return path, nil
}

func sniff(path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	head := make([]byte, 261)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", "", err
	}
	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return "", "", nil
	}
	return kind.MIME.Type, kind.Extension, nil
}

// LoadImage decodes still images and wraps movies in a stream. Decoded
// stills are cached by resolved path; movies are not, since every
// placement needs its own playback state.
func (l *FileLoader) LoadImage(name string) (*Image, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}

	mime, ext, err := sniff(path)
	if err != nil {
		return nil, err
	}
	if mime == "video" {
		return &Image{
			Path:        path,
			Width:       1280,
			Height:      720,
			PixelAspect: 1,
			Stream:      NewClockStream(l.MovieLength, true, nil),
		}, nil
	}
	if ext == "pdf" {
		s, err := l.OpenSurface(SurfacePDF, path, SurfaceOptions{})
		if err != nil {
			return nil, err
		}
		return &Image{Path: path, Width: s.Width, Height: s.Height, PixelAspect: 1, Pixels: s.Pixels}, nil
	}

	l.mu.Lock()
	cached, ok := l.images[path]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	seq, err := NewImageSequence(path)
	if err != nil {
		return nil, err
	}
	img, err := seq.RenderPage(0, l.DPI)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	b := img.Bounds()
	out := &Image{Path: path, Width: b.Dx(), Height: b.Dy(), PixelAspect: 1, Pixels: img}

	l.mu.Lock()
	l.images[path] = out
	l.mu.Unlock()
	return out, nil
}

func (l *FileLoader) LoadModel(name string) (*Model, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".obj") {
		return nil, fmt.Errorf("model %s: %w", path, ErrUnsupported)
	}
	center, radius, err := readOBJBounds(path)
	if err != nil {
		return nil, err
	}
	return &Model{Path: path, Center: center, Radius: radius}, nil
}

func (l *FileLoader) LoadVolume(name string) (*Volume, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	seq, err := NewImageSequence(path)
	if err != nil {
		return nil, err
	}
	if seq.PageCount() == 0 {
		return nil, fmt.Errorf("volume %s: no slices: %w", path, ErrUnsupported)
	}
	w, h, err := seq.GetPageDimensions(0)
	if err != nil {
		return nil, fmt.Errorf("volume %s: %w", path, err)
	}
	return &Volume{Path: path, Width: int(w), Height: int(h), Depth: seq.PageCount()}, nil
}

// OpenSurface opens an interactive surface. Browser pages are shown as a
// QR code of their address and VNC desktops as a blank panel, since the
// engines behind them are provided by the host.
func (l *FileLoader) OpenSurface(kind SurfaceKind, target string, opts SurfaceOptions) (*Surface, error) {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 768
	}

	switch kind {
	case SurfacePDF:
		path, err := l.Resolve(target)
		if err != nil {
			return nil, err
		}
		doc, err := NewFitzDocument(path)
		if err != nil {
			return nil, fmt.Errorf("open pdf %s: %w", path, err)
		}
		defer doc.Close()

		pages := doc.PageCount()
		page := opts.Page
		if page < 0 || page >= pages {
			l.logger().Warn("pdf page out of range", "file", path, "page", page, "pages", pages)
			page = 0
		}
		s := &Surface{Kind: kind, Target: path, Page: page, Pages: pages, Width: width, Height: height}
		if w, h, err := doc.GetPageDimensions(page); err == nil {
			s.Width, s.Height = int(w), int(h)
		}
		img, err := doc.RenderPage(page, l.DPI)
		if err != nil {
			l.logger().Warn("pdf page render failed", "file", path, "page", page, "error", err)
		} else {
			s.Pixels = img
		}
		return s, nil

	case SurfaceBrowser:
		qr, err := qrcode.New(target, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("browser surface %s: %w", target, err)
		}
		size := min(width, height)
		return &Surface{Kind: kind, Target: target, Width: width, Height: height, Pages: 1, Pixels: qr.Image(size)}, nil

	case SurfaceVNC:
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}}, image.Point{}, draw.Src)
		return &Surface{Kind: kind, Target: target, Width: width, Height: height, Pages: 1, Pixels: img}, nil
	}
	return nil, fmt.Errorf("surface %q: %w", kind, ErrUnsupported)
}
