package geom

// ---------------------------------------------------------------------------
// Renderable data types
// ---------------------------------------------------------------------------

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []Vec3
	Faces    [][3]uint32
}

// IsEmpty reports whether the mesh has no faces. Empty meshes convert
// to zero primitives rather than failing.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Faces) == 0
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (AABB, bool) {
	if m == nil {
		return AABB{}, false
	}
	return BoundsOf(m.Vertices)
}

// PointCloud is a set of scatter points.
type PointCloud []Vec3

// LineStrip is a polyline. NaN rows mark breaks between segments.
type LineStrip []Vec3

// Volume is a dense 3D scalar field in x-fastest order:
// Data[x + y*Dims[0] + z*Dims[0]*Dims[1]].
type Volume struct {
	Dims    [3]int
	Data    []float32
	Spacing Vec3
	Offset  Vec3
}

// IsEmpty reports whether the volume holds no voxels.
func (v *Volume) IsEmpty() bool {
	return v == nil || len(v.Data) == 0 || v.Dims[0]*v.Dims[1]*v.Dims[2] == 0
}

// Bounds returns the world-space box covered by the volume.
func (v *Volume) Bounds() (AABB, bool) {
	if v.IsEmpty() {
		return AABB{}, false
	}
	sp := v.Spacing
	if sp == (Vec3{}) {
		sp = V(1, 1, 1)
	}
	size := Vec3{
		float32(v.Dims[0]) * sp.X,
		float32(v.Dims[1]) * sp.Y,
		float32(v.Dims[2]) * sp.Z,
	}
	return AABB{Min: v.Offset, Max: v.Offset.Add(size)}, true
}

// ---------------------------------------------------------------------------
// Bounding boxes
// ---------------------------------------------------------------------------

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// Union returns the smallest box containing both a and o.
func (a AABB) Union(o AABB) AABB {
	return AABB{Min: a.Min.Min(o.Min), Max: a.Max.Max(o.Max)}
}

// Corners returns the eight corner points of the box.
func (a AABB) Corners() []Vec3 {
	return []Vec3{
		{a.Min.X, a.Min.Y, a.Min.Z},
		{a.Max.X, a.Min.Y, a.Min.Z},
		{a.Max.X, a.Max.Y, a.Min.Z},
		{a.Min.X, a.Max.Y, a.Min.Z},
		{a.Min.X, a.Min.Y, a.Max.Z},
		{a.Max.X, a.Min.Y, a.Max.Z},
		{a.Max.X, a.Max.Y, a.Max.Z},
		{a.Min.X, a.Max.Y, a.Max.Z},
	}
}

// BoundsOf returns the bounding box of a point set, skipping NaN break
// rows. ok is false when no finite points exist.
func BoundsOf(pts []Vec3) (AABB, bool) {
	var box AABB
	found := false
	for _, p := range pts {
		if p.IsNaN() {
			continue
		}
		if !found {
			box = AABB{Min: p, Max: p}
			found = true
			continue
		}
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box, found
}
