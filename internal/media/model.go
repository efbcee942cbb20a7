package media

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ivlev/present3d/internal/scene"
)

// readOBJBounds computes the bounding sphere of the vertices of a
// Wavefront OBJ file.
func readOBJBounds(path string) (center scene.Vec3, radius float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return center, 0, err
	}
	defer f.Close()

	min := scene.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := scene.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	var vertices [][3]float64

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != "v" {
			continue
		}
		var v [3]float64
		for i := 0; i < 3; i++ {
			v[i], err = strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return center, 0, fmt.Errorf("%s: bad vertex %q: %w", path, sc.Text(), err)
			}
			min[i] = math.Min(min[i], v[i])
			max[i] = math.Max(max[i], v[i])
		}
		vertices = append(vertices, v)
	}
	if err := sc.Err(); err != nil {
		return center, 0, err
	}
	if len(vertices) == 0 {
		return center, 0, fmt.Errorf("%s: no vertices", path)
	}

	for i := 0; i < 3; i++ {
		center[i] = (min[i] + max[i]) / 2
	}
	for _, v := range vertices {
		d := math.Sqrt((v[0]-center[0])*(v[0]-center[0]) + (v[1]-center[1])*(v[1]-center[1]) + (v[2]-center[2])*(v[2]-center[2]))
		radius = math.Max(radius, d)
	}
	return center, radius, nil
}
