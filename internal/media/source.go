// Package media loads the external resources a presentation refers to:
// images, movies, PDF documents, models, volumes and interactive surfaces.
package media

import (
	"errors"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// ErrUnsupported is returned for files no loader can handle.
var ErrUnsupported = errors.New("unsupported media")

// Document is a paged source such as a PDF file.
type Document interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

type FitzDocument struct {
	mu   sync.Mutex
	doc  *fitz.Document
	path string
}

func NewFitzDocument(path string) (*FitzDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzDocument{doc: doc, path: path}, nil
}

func (f *FitzDocument) PageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.NumPage()
}

func (f *FitzDocument) GetPageDimensions(index int) (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage opens a private handle so pages can render in parallel with
// other calls on the shared document.
func (f *FitzDocument) RenderPage(index int, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzDocument) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.Close()
}
