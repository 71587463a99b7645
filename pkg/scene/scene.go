// Package scene defines the boundary contracts between the viewer core and
// the rendering engine: the Primitive and Scene capabilities the core reads
// and writes, and the render-trigger modes the external render loop honors.
// World is a minimal in-memory Scene used by tests, examples and headless
// scripting.
package scene

import (
	"github.com/chazu/prism/pkg/color"
	"github.com/chazu/prism/pkg/geom"
)

// Kind classifies a primitive's shape class.
type Kind int

const (
	KindMesh Kind = iota
	KindPoints
	KindLines
	KindVolume
	KindBoundingBox
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindPoints:
		return "points"
	case KindLines:
		return "lines"
	case KindVolume:
		return "volume"
	case KindBoundingBox:
		return "boundingbox"
	default:
		return "unknown"
	}
}

// Label returns the human-readable prefix used for auto-generated
// object names.
func (k Kind) Label() string {
	switch k {
	case KindMesh:
		return "Mesh"
	case KindPoints:
		return "Scatter"
	case KindLines:
		return "Lines"
	case KindVolume:
		return "Volume"
	case KindBoundingBox:
		return "BoundingBox"
	default:
		return "Object"
	}
}

// Meta is the per-primitive metadata the core manages. It is carried as an
// explicit struct populated by every primitive constructor, rather than
// attributes bolted onto engine objects.
type Meta struct {
	Kind     Kind
	ObjectID string

	// Pinned blocks all color/visibility/highlight mutation until cleared.
	Pinned bool

	// Highlighted marks a buffered color overlay. At most one StoredColor
	// may be buffered at a time.
	Highlighted bool

	// StoredColor holds the pre-highlight (or pre-selection) color for
	// restoration. Nil when nothing is buffered.
	StoredColor *color.Color
}

// Primitive is one GPU-renderable node owned by the external scene.
// The core only ever references primitives through the scene's child list;
// it never owns their memory.
type Primitive interface {
	// Meta returns the mutable core-managed metadata.
	Meta() *Meta

	Visible() bool
	SetVisible(bool)

	// Color returns the primitive's material color. ok is false when the
	// primitive has no material (color mutations skip it).
	Color() (color.Color, bool)

	// SetColor assigns a color, converted to the primitive's existing
	// channel depth. Changing channel depth on a live primitive is not
	// supported by the rendering engine.
	SetColor(color.Color)

	// Positions returns the primitive's positional geometry for spatial
	// queries, or nil for kinds without one (e.g. volumes).
	Positions() []geom.Vec3

	// WorldMatrix returns the primitive's local-to-world transform.
	WorldMatrix() geom.Mat4

	// Bounds returns the primitive's world-space bounding box.
	Bounds() (geom.AABB, bool)
}

// Scene is the external scene-graph capability: an ordered child list the
// core scans, appends to and removes from. The core never reorders it.
type Scene interface {
	Children() []Primitive
	Add(...Primitive)
	Remove(...Primitive)
	BoundingBox() (geom.AABB, bool)
}

// RenderTrigger selects when the external render loop redraws.
type RenderTrigger int

const (
	// TriggerContinuous redraws every frame.
	TriggerContinuous RenderTrigger = iota
	// TriggerReactive redraws only when the viewer's stale flag is set.
	TriggerReactive
	// TriggerActiveWindow redraws continuously while the window has focus.
	TriggerActiveWindow
)

func (t RenderTrigger) String() string {
	switch t {
	case TriggerContinuous:
		return "continuous"
	case TriggerReactive:
		return "reactive"
	case TriggerActiveWindow:
		return "active_window"
	default:
		return "unknown"
	}
}
