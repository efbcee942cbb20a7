// Package p3d reads Present3D presentation documents (.p3d and .xml) and
// builds presentations from them.
package p3d

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ivlev/present3d/internal/envpath"
	"github.com/ivlev/present3d/internal/media"
	"github.com/ivlev/present3d/internal/scene"
	"github.com/ivlev/present3d/internal/show"
	"github.com/ivlev/present3d/internal/xmltree"
)

var (
	// ErrNotHandled is returned for documents this reader does not accept:
	// other extensions, malformed XML or a root other than presentation.
	ErrNotHandled = errors.New("file not handled")
	ErrNotFound   = errors.New("file not found")
)

// OptionHoldingSlide restricts parsing to the holding_slide element.
const OptionHoldingSlide = "holding_slide"

type Status uint8

const (
	ReadOK Status = iota
	FileNotHandled
	FileNotFound
)

func (s Status) String() string {
	switch s {
	case ReadOK:
		return "ok"
	case FileNotHandled:
		return "file not handled"
	case FileNotFound:
		return "file not found"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Options control a read. The zero value is usable.
type Options struct {
	// Options are free-form option strings such as OptionHoldingSlide.
	Options []string
	// Loader loads referenced media. When nil a media.FileLoader over
	// Paths is used.
	Loader media.Loader
	Logger *slog.Logger
	Paths  *envpath.SearchPaths

	// Slide geometry in model units. Zero keeps the defaults.
	SlideWidth    float64
	SlideHeight   float64
	SlideDistance float64
}

// Has reports whether opt is among the option strings.
func (o *Options) Has(opt string) bool {
	return o != nil && slices.Contains(o.Options, opt)
}

// Result is the outcome of a read. Presentation is owned by the caller.
type Result struct {
	Status       Status
	Presentation *scene.Presentation
	Err          error
}

func (r Result) Success() bool { return r.Status == ReadOK }

func notHandled(format string, args ...any) Result {
	return Result{Status: FileNotHandled, Err: fmt.Errorf(format+": %w", append(args, ErrNotHandled)...)}
}

// Handled reports whether filename has an extension this reader accepts.
func Handled(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".p3d", ".xml":
		return true
	}
	return false
}

// ReadNode reads the presentation in filename. Relative media names are
// resolved against the document's directory first.
func ReadNode(filename string, opts *Options) Result {
	if !Handled(filename) {
		return notHandled("read %s", filename)
	}
	if opts == nil {
		opts = &Options{}
	}
	paths := opts.Paths
	if paths == nil {
		paths = envpath.NewSearchPaths()
	}

	path := paths.Find(filename)
	if path == "" {
		return Result{Status: FileNotFound, Err: fmt.Errorf("read %s: %w", filename, ErrNotFound)}
	}
	f, err := os.Open(path)
	if err != nil {
		return Result{Status: FileNotFound, Err: fmt.Errorf("read %s: %w", filename, errors.Join(ErrNotFound, err))}
	}
	defer f.Close()

	restore := paths.Prepend(filepath.Dir(path))
	defer restore()

	local := *opts
	local.Paths = paths
	return ReadReader(f, &local)
}

// ReadReader reads a presentation document from r.
func ReadReader(r io.Reader, opts *Options) Result {
	if opts == nil {
		opts = &Options{}
	}
	root, err := xmltree.Parse(r)
	if err != nil {
		return notHandled("parse document: %v", err)
	}
	if root.Name != "presentation" {
		return notHandled("root element %q", root.Name)
	}

	p := newParser(opts)
	defer p.restorePaths()
	p.parsePresentation(root)
	return Result{Status: ReadOK, Presentation: p.c.Presentation()}
}

type parser struct {
	propertyReader

	opts      *Options
	c         *show.Constructor
	paths     *envpath.SearchPaths
	templates map[string]*xmltree.Node
	restores  []func()
}

func newParser(opts *Options) *parser {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	paths := opts.Paths
	if paths == nil {
		paths = envpath.NewSearchPaths()
	}
	loader := opts.Loader
	if loader == nil {
		fl := media.NewFileLoader(paths)
		fl.Logger = log
		loader = fl
	}

	c := show.NewConstructor(loader, log)
	if opts.SlideWidth > 0 && opts.SlideHeight > 0 {
		distance := opts.SlideDistance
		if distance <= 0 {
			distance = show.DefaultSlideDistance
		}
		c.SetSlideSize(opts.SlideWidth, opts.SlideHeight, distance)
	}
	return &parser{
		propertyReader: propertyReader{log: log},
		opts:           opts,
		c:              c,
		paths:          paths,
		templates:      make(map[string]*xmltree.Node),
	}
}

func (p *parser) restorePaths() {
	for i := len(p.restores) - 1; i >= 0; i-- {
		p.restores[i]()
	}
	p.restores = nil
}
