package anim

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/ivlev/present3d/internal/scene"
)

type LoopMode uint8

const (
	Loop LoopMode = iota
	Swing
	NoLooping
)

// ParseLoopMode accepts LOOP, SWING and NO_LOOPING.
func ParseLoopMode(s string) (LoopMode, bool) {
	switch s {
	case "LOOP":
		return Loop, true
	case "SWING":
		return Swing, true
	case "NO_LOOPING":
		return NoLooping, true
	}
	return Loop, false
}

func (m LoopMode) String() string {
	switch m {
	case Swing:
		return "SWING"
	case NoLooping:
		return "NO_LOOPING"
	}
	return "LOOP"
}

// ControlPoint is a keyed position and orientation.
type ControlPoint struct {
	Time     float64
	Position scene.Vec3
	Rotation math32.Quat
}

// Path is a sorted list of control points.
type Path struct {
	Points []ControlPoint
	Mode   LoopMode
}

// ReadPathFile loads an animation path file.
func ReadPathFile(name string) (*Path, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ReadPath(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

// ReadPath parses lines of "time x y z qx qy qz qw". Blank lines and lines
// starting with # are skipped.
func ReadPath(r io.Reader) (*Path, error) {
	p := &Path{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 8 {
			return nil, fmt.Errorf("line %d: want 8 values, got %d", line, len(fields))
		}
		var v [8]float64
		for i := range v {
			f, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			v[i] = f
		}
		p.Points = append(p.Points, ControlPoint{
			Time:     v[0],
			Position: scene.Vec3{v[1], v[2], v[3]},
			Rotation: math32.NewQuat(float32(v[4]), float32(v[5]), float32(v[6]), float32(v[7])),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(p.Points) == 0 {
		return nil, fmt.Errorf("no control points")
	}
	sort.SliceStable(p.Points, func(i, j int) bool { return p.Points[i].Time < p.Points[j].Time })
	return p, nil
}

func (p *Path) FirstTime() float64 { return p.Points[0].Time }
func (p *Path) LastTime() float64  { return p.Points[len(p.Points)-1].Time }
func (p *Path) Period() float64    { return p.LastTime() - p.FirstTime() }

// At returns the interpolated control point at time t, folded into the
// path's range according to its loop mode.
func (p *Path) At(t float64) ControlPoint {
	first, period := p.FirstTime(), p.Period()
	if period > 0 {
		switch p.Mode {
		case Loop:
			t = first + math.Mod(t-first, period)
			if t < first {
				t += period
			}
		case Swing:
			tt := math.Mod(t-first, 2*period)
			if tt < 0 {
				tt += 2 * period
			}
			if tt > period {
				tt = 2*period - tt
			}
			t = first + tt
		}
	}

	if t <= p.Points[0].Time {
		return p.Points[0]
	}
	last := p.Points[len(p.Points)-1]
	if t >= last.Time {
		return last
	}
	i := sort.Search(len(p.Points), func(i int) bool { return p.Points[i].Time > t })
	a, b := p.Points[i-1], p.Points[i]
	r := (t - a.Time) / (b.Time - a.Time)

	out := ControlPoint{Time: t}
	for k := 0; k < 3; k++ {
		out.Position[k] = a.Position[k] + (b.Position[k]-a.Position[k])*r
	}
	q := a.Rotation
	q.Slerp(b.Rotation, float32(r))
	out.Rotation = q
	return out
}
