package outline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GeneratePath creates a timestamped outline filename in dir.
func GeneratePath(dir, name string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	if name == "" {
		name = "outline"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.yaml", name, timestamp))
}

// FindLatest finds the most recently modified outline in dir.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read outline directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var outlines []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		outlines = append(outlines, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(outlines) == 0 {
		return "", fmt.Errorf("no outline files found in %s", dir)
	}

	// Newest first.
	sort.Slice(outlines, func(i, j int) bool {
		return outlines[i].mod.After(outlines[j].mod)
	})

	return outlines[0].path, nil
}
