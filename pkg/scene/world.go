package scene

import "github.com/chazu/prism/pkg/geom"

// Compile-time interface check.
var _ Scene = (*World)(nil)

// World is a minimal in-memory Scene. It keeps children in insertion order
// and computes bounding boxes from their geometry. Rendering backends
// provide their own Scene; World exists for tests, examples and headless
// scripting sessions.
type World struct {
	children []Primitive
}

// NewWorld returns an empty World.
func NewWorld() *World {
	return &World{}
}

// Children returns the child list in insertion order. The returned slice
// is shared; callers must not mutate it.
func (w *World) Children() []Primitive {
	return w.children
}

// Add appends primitives to the child list.
func (w *World) Add(ps ...Primitive) {
	w.children = append(w.children, ps...)
}

// Remove removes the given primitives, preserving the order of the rest.
func (w *World) Remove(ps ...Primitive) {
	drop := make(map[Primitive]bool, len(ps))
	for _, p := range ps {
		drop[p] = true
	}
	kept := w.children[:0]
	for _, c := range w.children {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	// Clear the tail so removed primitives are not retained.
	for i := len(kept); i < len(w.children); i++ {
		w.children[i] = nil
	}
	w.children = kept
}

// BoundingBox returns the union of all child bounds. ok is false when no
// child has geometry.
func (w *World) BoundingBox() (geom.AABB, bool) {
	var box geom.AABB
	found := false
	for _, c := range w.children {
		b, ok := c.Bounds()
		if !ok {
			continue
		}
		if !found {
			box = b
			found = true
			continue
		}
		box = box.Union(b)
	}
	return box, found
}
