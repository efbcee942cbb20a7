// Package show accumulates parsed presentation content into a scene graph
// of slides and layers, keeping the "current" defaults that consecutive
// content items inherit.
package show

import (
	"github.com/ivlev/present3d/internal/anim"
	"github.com/ivlev/present3d/internal/scene"
)

// CoordinateFrame selects how position and scale are interpreted.
type CoordinateFrame uint8

const (
	// FrameSlide positions are normalised 0..1 over the slide; z pulls the
	// item towards the eye.
	FrameSlide CoordinateFrame = iota
	// FrameModel positions are raw model coordinates.
	FrameModel
)

func (f CoordinateFrame) String() string {
	if f == FrameModel {
		return "model"
	}
	return "slide"
}

// PositionData places and animates a content item.
type PositionData struct {
	Frame    CoordinateFrame
	Position scene.Vec3
	Scale    scene.Vec3
	// Rotate is a fixed rotation (degrees, axis).
	Rotate scene.Vec4
	// Rotation is a continuous spin (degrees per second, axis).
	Rotation scene.Vec4

	Path               string
	CameraPath         bool
	LoopMode           anim.LoopMode
	PathTimeOffset     float64
	PathTimeMultiplier float64
}

func DefaultPositionData() PositionData {
	return PositionData{
		Frame:              FrameSlide,
		Scale:              scene.Vec3{1, 1, 1},
		Rotate:             scene.Vec4{0, 0, 0, 1},
		Rotation:           scene.Vec4{0, 0, 1, 0},
		LoopMode:           anim.Loop,
		PathTimeMultiplier: 1,
	}
}

// FontData styles text. CharacterSize and MaxWidth are fractions of the
// slide height and width.
type FontData struct {
	Font          string
	CharacterSize float64
	MaxWidth      float64
	Color         scene.Color
	Layout        string
	Alignment     string
}

// ImageData configures images and interactive surfaces.
type ImageData struct {
	Page    int
	Width   int
	Height  int
	Region  scene.Vec4
	Looping bool
	Options string
}

type ModelData struct {
	Effect  string
	Options string
}

type VolumeData struct {
	Shading string
	Alpha   float64
	Cutoff  float64
	Region  scene.Vec4
}

func DefaultVolumeData() VolumeData {
	return VolumeData{Shading: "standard", Alpha: 1, Region: scene.Vec4{0, 0, 1, 1}}
}

func DefaultImageData() ImageData {
	return ImageData{Region: scene.Vec4{0, 0, 1, 1}}
}
