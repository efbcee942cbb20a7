package p3d

import (
	"fmt"
	"os"
	"strings"

	"github.com/ivlev/present3d/internal/envpath"
	"github.com/ivlev/present3d/internal/xmltree"
)

var imageElements = map[string]bool{
	"image":       true,
	"background":  true,
	"image_left":  true,
	"image_right": true,
}

// ImageNames lists the image files a document refers to, in document order
// and without duplicates. Names are returned as written.
func ImageNames(filename string, paths *envpath.SearchPaths) ([]string, error) {
	if paths == nil {
		paths = envpath.NewSearchPaths()
	}
	path := paths.Find(filename)
	if path == "" {
		return nil, fmt.Errorf("scan %s: %w", filename, ErrNotFound)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", filename, err)
	}
	defer f.Close()

	root, err := xmltree.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %v: %w", filename, err, ErrNotHandled)
	}

	var names []string
	seen := make(map[string]bool)
	var walk func(n *xmltree.Node)
	walk = func(n *xmltree.Node) {
		if imageElements[n.Name] {
			name := strings.TrimSpace(n.Contents)
			if name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return names, nil
}
