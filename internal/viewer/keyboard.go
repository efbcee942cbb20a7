//go:build cgo

package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ivlev/present3d/internal/keys"
)

var specialKeys = map[ebiten.Key]keys.Code{
	ebiten.KeyHome:       keys.Home,
	ebiten.KeyEnd:        keys.End,
	ebiten.KeyArrowUp:    keys.Up,
	ebiten.KeyArrowDown:  keys.Down,
	ebiten.KeyArrowLeft:  keys.Left,
	ebiten.KeyArrowRight: keys.Right,
	ebiten.KeyPageUp:     keys.PageUp,
	ebiten.KeyPageDown:   keys.PageDown,
	ebiten.KeyEscape:     keys.Escape,
	ebiten.KeyF1:         keys.F1,
	ebiten.KeyF2:         keys.F2,
	ebiten.KeyF3:         keys.F3,
	ebiten.KeyF4:         keys.F4,
	ebiten.KeyF5:         keys.F5,
	ebiten.KeyF6:         keys.F6,
	ebiten.KeyF7:         keys.F7,
	ebiten.KeyF8:         keys.F8,
	ebiten.KeyF9:         keys.F9,
	ebiten.KeyF10:        keys.F10,
	ebiten.KeyF11:        keys.F11,
	ebiten.KeyF12:        keys.F12,
}

// pollKeys returns the keys pressed since the last frame. Printable keys
// arrive as typed characters.
func pollKeys() []keys.Code {
	var out []keys.Code
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if c, ok := specialKeys[k]; ok {
			out = append(out, c)
		}
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		out = append(out, keys.Code(r))
	}
	return out
}
