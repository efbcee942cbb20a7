package scene

import (
	"image"

	"github.com/ivlev/present3d/internal/keys"
)

type Kind uint8

const (
	KindGroup Kind = iota
	KindPresentation
	KindSlide
	KindLayer
	KindTransform
	KindBackground
	KindText
	KindImage
	KindStereoImage
	KindModel
	KindVolume
	KindInteractive
)

var kindNames = [...]string{
	KindGroup:        "group",
	KindPresentation: "presentation",
	KindSlide:        "slide",
	KindLayer:        "layer",
	KindTransform:    "transform",
	KindBackground:   "background",
	KindText:         "text",
	KindImage:        "image",
	KindStereoImage:  "stereo_image",
	KindModel:        "model",
	KindVolume:       "volume",
	KindInteractive:  "interactive",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsSwitch reports whether nodes of this kind show a single selected child.
func (k Kind) IsSwitch() bool {
	return k == KindPresentation || k == KindSlide
}

type Vec2 [2]float64
type Vec3 [3]float64

// Vec4 is used both for colours and for rotations stored as
// (angle in degrees, axis x, axis y, axis z).
type Vec4 [4]float64

type Color = Vec4

// Transform is the local placement of a node in model coordinates.
type Transform struct {
	Position Vec3
	Scale    Vec3
	Rotate   Vec4
	Pivot    Vec3
	// Inverse is set for camera paths, where the node's placement is the
	// inverse of the animated transform.
	Inverse bool
}

func IdentityTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}, Rotate: Vec4{0, 0, 0, 1}}
}

// Node is one element of the presentation graph.
type Node struct {
	Kind     Kind
	Name     string
	Children []Handle
	// Selected is the active child of switch nodes, -1 when none.
	Selected  int
	Transform Transform
	Content   Content
	Meta      Meta
	Streams   []StreamRef
	Update    *CallbackRef
	Pick      *PickBinding
}

// NewSwitch returns a switch node with no active child.
func NewSwitch(kind Kind, name string) Node {
	return Node{Kind: kind, Name: name, Selected: -1, Transform: IdentityTransform()}
}

func NewNode(kind Kind, name string) Node {
	return Node{Kind: kind, Name: name, Transform: IdentityTransform()}
}

// Content is the payload of leaf nodes. At most one field is set and it
// matches the node kind.
type Content struct {
	Text    *Text
	Image   *Image
	Stereo  *StereoImage
	Model   *Model
	Volume  *Volume
	Surface *Surface
	Fill    *Color
}

type Text struct {
	Text          string
	Font          string
	CharacterSize float64
	MaxWidth      float64
	Color         Color
	Layout        string
	Alignment     string
	Lines         int
	// Width and Height are the measured extent in model units.
	Width  float64
	Height float64
}

type Image struct {
	Path        string
	PixelWidth  int
	PixelHeight int
	// Width and Height are the placed extent in model units.
	Width   float64
	Height  float64
	Region  Vec4
	Looping bool
	Pixels  image.Image
}

type StereoImage struct {
	Left  Image
	Right Image
}

type Model struct {
	Path   string
	Center Vec3
	Radius float64
}

type Volume struct {
	Path   string
	Width  int
	Height int
	Depth  int
}

// Surface is an interactive image: a browser page, a VNC desktop or a
// page of a PDF document.
type Surface struct {
	Kind   string
	Target string
	Page   int
	Pages  int
	Width  float64
	Height float64
	Pixels image.Image
}

// Meta is the typed metadata of a node.
type Meta struct {
	Layer     *LayerAttributes
	Home      *HomePosition
	FilePaths []string
}

type HomePosition struct {
	Eye    Vec3
	Center Vec3
	Up     Vec3
}

// KeyPosition is a key press dispatched on behalf of the presentation.
type KeyPosition struct {
	Key keys.Code
	X   float64
	Y   float64
}

// JumpData is a navigation target. Relative jumps add Slide and Layer to
// the current position.
type JumpData struct {
	Relative bool
	Slide    int
	Layer    int
}

// RequiresJump reports whether following j changes position.
func (j JumpData) RequiresJump() bool {
	if j.Relative {
		return j.Slide != 0 || j.Layer != 0
	}
	return true
}

// LayerCallback is run when a layer is entered or left.
type LayerCallback func(h Handle)

// LayerAttributes are the runtime settings of a presentation, slide or layer.
type LayerAttributes struct {
	ID ObjectID
	// Duration in seconds, negative when unset.
	Duration       float64
	Keys           []KeyPosition
	RunStrings     []string
	Jump           *JumpData
	EnterCallbacks []LayerCallback
	LeaveCallbacks []LayerCallback
}

func (la *LayerAttributes) AddEnterCallback(cb LayerCallback) {
	la.EnterCallbacks = append(la.EnterCallbacks, cb)
}

func (la *LayerAttributes) AddLeaveCallback(cb LayerCallback) {
	la.LeaveCallbacks = append(la.LeaveCallbacks, cb)
}

func (la *LayerAttributes) CallEnterCallbacks(h Handle) {
	for _, cb := range la.EnterCallbacks {
		cb(h)
	}
}

func (la *LayerAttributes) CallLeaveCallbacks(h Handle) {
	for _, cb := range la.LeaveCallbacks {
		cb(h)
	}
}

// RequiresJump reports whether leaving redirects navigation.
func (la *LayerAttributes) RequiresJump() bool {
	return la != nil && la.Jump != nil && la.Jump.RequiresJump()
}

type PickAction uint8

const (
	PickRun PickAction = iota
	PickKey
	PickJump
)

// PickBinding is the action performed when the node is clicked.
type PickBinding struct {
	Action  PickAction
	Command string
	Key     keys.Code
	Jump    JumpData
}

type StreamStatus uint8

const (
	StreamInvalid StreamStatus = iota
	StreamPlaying
	StreamPaused
)

// Stream is a playable image sequence such as a movie.
type Stream interface {
	Play()
	Pause()
	Rewind()
	Status() StreamStatus
}

type StreamRef struct {
	ID     ObjectID
	Stream Stream
}

// Callback is a per-frame behaviour that animates a node's transform.
type Callback interface {
	Update(t float64, tr *Transform)
	SetPause(pause bool)
	Reset()
}

type CallbackRef struct {
	ID       ObjectID
	Callback Callback
}
