package envpath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandEnvVars replaces every ${VAR} token with the value of the
// environment variable VAR. Unset variables are left verbatim and the
// substituted text is not scanned again.
func ExpandEnvVars(s string) string {
	return expand(s, os.LookupEnv)
}

func expand(s string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	pos := 0
	for pos < len(s) {
		start := strings.Index(s[pos:], "${")
		if start < 0 {
			break
		}
		start += pos
		end := strings.IndexByte(s[start+2:], '}')
		if end < 0 {
			break
		}
		end += start + 2

		b.WriteString(s[pos:start])
		name := s[start+2 : end]
		if value, ok := lookup(name); ok {
			b.WriteString(value)
		} else {
			b.WriteString(s[start : end+1])
		}
		pos = end + 1
	}
	b.WriteString(s[pos:])
	return b.String()
}

// SearchPaths is an ordered list of directories consulted when resolving
// relative media file names.
type SearchPaths struct {
	dirs []string
}

func NewSearchPaths(dirs ...string) *SearchPaths {
	sp := &SearchPaths{}
	for _, d := range dirs {
		sp.Append(d)
	}
	return sp
}

// Prepend adds dir (after ~ expansion) in front of the list and returns a
// function restoring the previous list.
func (sp *SearchPaths) Prepend(dir string) (restore func()) {
	saved := append([]string(nil), sp.dirs...)
	sp.dirs = append([]string{normalize(dir)}, sp.dirs...)
	return func() { sp.dirs = saved }
}

func (sp *SearchPaths) Append(dir string) {
	sp.dirs = append(sp.dirs, normalize(dir))
}

func (sp *SearchPaths) Dirs() []string {
	return append([]string(nil), sp.dirs...)
}

// Find resolves name against the search list. Absolute names and names
// relative to the working directory win; an empty result means not found.
func (sp *SearchPaths) Find(name string) string {
	if name == "" {
		return ""
	}
	name = normalize(name)
	if fileExists(name) {
		return name
	}
	if filepath.IsAbs(name) {
		return ""
	}
	for _, d := range sp.dirs {
		candidate := filepath.Join(d, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func normalize(p string) string {
	if expanded, err := homedir.Expand(p); err == nil {
		p = expanded
	}
	return filepath.Clean(p)
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
