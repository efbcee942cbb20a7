// Package keys maps presentation key names to key codes.
package keys

import (
	"log/slog"
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Code identifies a key. Printable keys use their character code, special
// keys use values above the Unicode range.
type Code int32

const (
	Unknown Code = 0

	special Code = 0x110000
)

const (
	Home Code = special + iota
	End
	Up
	Down
	Left
	Right
	PageUp
	PageDown
	Escape
	Space = Code(' ')
)

const (
	F1 Code = special + 0x100 + iota
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
)

var named = map[string]Code{
	"Home":      Home,
	"Start":     Home,
	"Next":      PageDown,
	"Previous":  PageUp,
	"Up":        Up,
	"Down":      Down,
	"End":       End,
	"Page Down": PageDown,
	"Page Up":   PageUp,
	"F1":        F1,
	"F2":        F2,
	"F3":        F3,
	"F4":        F4,
	"F5":        F5,
	"F6":        F6,
	"F7":        F7,
	"F8":        F8,
	"F9":        F9,
	"F10":       F10,
	"F11":       F11,
	"F12":       F12,
}

// Lookup converts a key name from a presentation document. Single
// characters map to their own code. Unknown names log a warning naming the
// closest known key and return Unknown.
func Lookup(name string, logger *slog.Logger) Code {
	if c, ok := named[name]; ok {
		return c
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return Code(r)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("unrecognised key name", "key", name, "closest", Closest(name))
	return Unknown
}

// Closest returns the known key name most similar to name.
func Closest(name string) string {
	best, bestScore := "", -1.0
	metric := metrics.NewLevenshtein()
	metric.CaseSensitive = false
	for candidate := range named {
		score := strutil.Similarity(name, candidate, metric)
		if score > bestScore || (score == bestScore && candidate < best) {
			best, bestScore = candidate, score
		}
	}
	return best
}

func (c Code) String() string {
	for name, code := range named {
		if code == c && name != "Start" && name != "Next" && name != "Previous" {
			return name
		}
	}
	switch c {
	case Unknown:
		return "Unknown"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Escape:
		return "Escape"
	}
	if c > 0 && c < special {
		return string(rune(c))
	}
	return "Unknown"
}
