// Package visual provides the reference scene.Primitive implementations
// produced by the built-in converters: meshes, scatter points, line strips,
// volumes and the bounding-box helper.
package visual

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/prism/pkg/color"
	"github.com/chazu/prism/pkg/geom"
	"github.com/chazu/prism/pkg/scene"
)

// DefaultColor is the neutral grey applied when a visual is created
// without an explicit color.
var DefaultColor = color.MustParse("#bbbbbb")

// UnsupportedColorShapeError is returned when a per-vertex or per-face
// color array does not match the mesh's vertex or face count.
type UnsupportedColorShapeError struct {
	Got      int
	Vertices int
	Faces    int
}

func (e *UnsupportedColorShapeError) Error() string {
	return fmt.Sprintf("visual: got %d colors, want one per vertex (%d) or per face (%d)",
		e.Got, e.Vertices, e.Faces)
}

// ColorMode describes how mesh colors are applied.
type ColorMode int

const (
	// ColorUniform uses the single material color.
	ColorUniform ColorMode = iota
	// ColorPerVertex uses one color per vertex.
	ColorPerVertex
	// ColorPerFace uses one color per face.
	ColorPerFace
)

// base carries the state shared by all reference primitives.
type base struct {
	meta        scene.Meta
	visible     bool
	colr        color.Color
	hasMaterial bool
	transform   geom.Mat4
}

func newBase(kind scene.Kind, c color.Color, hasMaterial bool) base {
	return base{
		meta:        scene.Meta{Kind: kind, ObjectID: uuid.NewString()},
		visible:     true,
		colr:        c,
		hasMaterial: hasMaterial,
		transform:   geom.Identity(),
	}
}

func (b *base) Meta() *scene.Meta { return &b.meta }

func (b *base) Visible() bool     { return b.visible }
func (b *base) SetVisible(v bool) { b.visible = v }

func (b *base) Color() (color.Color, bool) {
	if !b.hasMaterial {
		return color.Color{}, false
	}
	return b.colr, true
}

// SetColor assigns a color converted to the primitive's existing channel
// depth. The depth itself never changes on a live primitive.
func (b *base) SetColor(c color.Color) {
	if !b.hasMaterial {
		return
	}
	b.colr = c.ToChannels(b.colr.Channels())
}

func (b *base) WorldMatrix() geom.Mat4 { return b.transform }

// SetTransform sets the local-to-world transform.
func (b *base) SetTransform(m geom.Mat4) { b.transform = m }

// ---------------------------------------------------------------------------
// Mesh
// ---------------------------------------------------------------------------

// Mesh is a triangle mesh primitive.
type Mesh struct {
	base
	Geometry *geom.Mesh

	// Colors holds per-vertex or per-face colors when Mode is not uniform.
	Colors []color.Color
	Mode   ColorMode
}

// Compile-time interface checks.
var (
	_ scene.Primitive = (*Mesh)(nil)
	_ scene.Primitive = (*Points)(nil)
	_ scene.Primitive = (*Lines)(nil)
	_ scene.Primitive = (*Volume)(nil)
)

// NewMesh builds a mesh primitive with a uniform color. An empty mesh
// (zero faces) yields nil: degenerate input converts to zero primitives.
func NewMesh(m *geom.Mesh, c color.Color) *Mesh {
	if m.IsEmpty() {
		return nil
	}
	return &Mesh{base: newBase(scene.KindMesh, c, true), Geometry: m}
}

// NewMeshColors builds a mesh primitive with one color per vertex or per
// face. The color count must match one of the two exactly.
func NewMeshColors(m *geom.Mesh, colors []color.Color) (*Mesh, error) {
	if m.IsEmpty() {
		return nil, nil
	}
	var mode ColorMode
	switch len(colors) {
	case len(m.Vertices):
		mode = ColorPerVertex
	case len(m.Faces):
		mode = ColorPerFace
	default:
		return nil, &UnsupportedColorShapeError{
			Got:      len(colors),
			Vertices: len(m.Vertices),
			Faces:    len(m.Faces),
		}
	}
	vis := &Mesh{base: newBase(scene.KindMesh, colors[0], true), Geometry: m}
	vis.Colors = colors
	vis.Mode = mode
	return vis, nil
}

func (v *Mesh) Positions() []geom.Vec3 { return v.Geometry.Vertices }

func (v *Mesh) Bounds() (geom.AABB, bool) {
	b, ok := v.Geometry.Bounds()
	if !ok {
		return geom.AABB{}, false
	}
	return transformAABB(v.transform, b), true
}

// ---------------------------------------------------------------------------
// Points
// ---------------------------------------------------------------------------

// Points is a scatter-point primitive.
type Points struct {
	base
	Data geom.PointCloud
	Size float32
}

// NewPoints builds a scatter primitive. Empty input yields nil.
func NewPoints(pc geom.PointCloud, c color.Color, size float32) *Points {
	if len(pc) == 0 {
		return nil
	}
	if size <= 0 {
		size = 2
	}
	return &Points{base: newBase(scene.KindPoints, c, true), Data: pc, Size: size}
}

func (v *Points) Positions() []geom.Vec3 { return v.Data }

func (v *Points) Bounds() (geom.AABB, bool) {
	b, ok := geom.BoundsOf(v.Data)
	if !ok {
		return geom.AABB{}, false
	}
	return transformAABB(v.transform, b), true
}

// ---------------------------------------------------------------------------
// Lines
// ---------------------------------------------------------------------------

// Lines is a polyline primitive. NaN rows in the data mark breaks.
type Lines struct {
	base
	Data  geom.LineStrip
	Width float32
}

// NewLines builds a line primitive. Empty input yields nil.
func NewLines(ls geom.LineStrip, c color.Color, width float32) *Lines {
	if len(ls) == 0 {
		return nil
	}
	if width <= 0 {
		width = 1
	}
	return &Lines{base: newBase(scene.KindLines, c, true), Data: ls, Width: width}
}

func (v *Lines) Positions() []geom.Vec3 { return v.Data }

func (v *Lines) Bounds() (geom.AABB, bool) {
	b, ok := geom.BoundsOf(v.Data)
	if !ok {
		return geom.AABB{}, false
	}
	return transformAABB(v.transform, b), true
}

// ---------------------------------------------------------------------------
// Volume
// ---------------------------------------------------------------------------

// Volume is a volumetric primitive. It renders through a colormap rather
// than a material color, so color mutations skip it, and it exposes no
// positional geometry for spatial queries.
type Volume struct {
	base
	Data *geom.Volume
}

// NewVolume builds a volume primitive. Empty input yields nil.
func NewVolume(vol *geom.Volume) *Volume {
	if vol.IsEmpty() {
		return nil
	}
	return &Volume{base: newBase(scene.KindVolume, color.Color{}, false), Data: vol}
}

func (v *Volume) Positions() []geom.Vec3 { return nil }

func (v *Volume) Bounds() (geom.AABB, bool) {
	b, ok := v.Data.Bounds()
	if !ok {
		return geom.AABB{}, false
	}
	return transformAABB(v.transform, b), true
}

// ---------------------------------------------------------------------------
// Bounding box
// ---------------------------------------------------------------------------

// NewBoundingBox builds the wireframe box primitive used by the viewer's
// show-bounds feature. It is tagged KindBoundingBox so bounds computations
// can skip it.
func NewBoundingBox(box geom.AABB, c color.Color) *Lines {
	co := box.Corners()
	strip := geom.LineStrip{
		co[0], co[1], co[2], co[3], co[0], geom.NaN(),
		co[4], co[5], co[6], co[7], co[4], geom.NaN(),
		co[0], co[4], geom.NaN(),
		co[1], co[5], geom.NaN(),
		co[2], co[6], geom.NaN(),
		co[3], co[7],
	}
	vis := NewLines(strip, c, 1)
	vis.meta.Kind = scene.KindBoundingBox
	return vis
}

// transformAABB returns the axis-aligned box covering the transformed
// corners of b.
func transformAABB(m geom.Mat4, b geom.AABB) geom.AABB {
	out, _ := geom.BoundsOf(m.TransformPoints(b.Corners()))
	return out
}
