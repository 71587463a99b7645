package gizmo

import (
	"github.com/chazu/prism/pkg/scene"
)

// PrimitiveHit is the classification of a single primitive against the
// selection rectangle.
type PrimitiveHit struct {
	Primitive scene.Primitive
	// Mask marks, per position, whether it projects inside the
	// rectangle. NaN break positions in line strips are never inside.
	Mask []bool
	// Clipped is true when at least one position is inside.
	Clipped bool
	// Contained is true when every real position is inside, false when
	// some are out, and nil when the primitive exposes no positions
	// (volumes) so containment cannot be determined.
	Contained *bool
}

// ObjectHit aggregates the hits of one logical object.
type ObjectHit struct {
	ID         string
	Primitives []PrimitiveHit
	Clipped    bool
	Contained  *bool
}

// Result is the outcome of classifying the scene against a rectangle.
type Result struct {
	// Min and Max are the rectangle corners in NDC.
	Min, Max [2]float32
	Hits     []ObjectHit
}

// Classify tests every object of the viewer against the gizmo's current
// rectangle. Objects appear in the result in identity-index order.
func (g *Gizmo) Classify() Result {
	lo, hi := g.ndcRect()
	res := Result{Min: lo, Max: hi}

	ix := g.viewer.Objects()
	for _, id := range ix.IDs() {
		prims, _ := ix.Get(id)
		hit := ObjectHit{ID: id}
		for _, p := range prims {
			if g.cfg.IgnoreInvisible && !p.Visible() {
				continue
			}
			if p.Meta().Kind == scene.KindBoundingBox {
				continue
			}
			hit.Primitives = append(hit.Primitives, g.classifyPrimitive(p, lo, hi))
		}
		if len(hit.Primitives) == 0 {
			continue
		}
		hit.Clipped, hit.Contained = aggregate(hit.Primitives, g.cfg.CountUnknown)
		res.Hits = append(res.Hits, hit)
	}
	return res
}

// classifyPrimitive projects a primitive's positions through its world
// matrix and the camera matrix and tests them against the rectangle
// with inclusive bounds.
func (g *Gizmo) classifyPrimitive(p scene.Primitive, lo, hi [2]float32) PrimitiveHit {
	hit := PrimitiveHit{Primitive: p}
	positions := p.Positions()
	if positions == nil {
		return hit
	}

	cam := g.camera.Matrix()
	world := p.WorldMatrix()
	ndc := cam.Mul(world).TransformPoints(positions)

	hit.Mask = make([]bool, len(ndc))
	real := 0
	contained := true
	for i, pt := range ndc {
		if pt.IsNaN() {
			continue
		}
		real++
		in := pt.X >= lo[0] && pt.X <= hi[0] && pt.Y >= lo[1] && pt.Y <= hi[1]
		hit.Mask[i] = in
		if in {
			hit.Clipped = true
		} else {
			contained = false
		}
	}
	if real > 0 {
		c := contained
		hit.Contained = &c
	}
	return hit
}

// aggregate folds primitive hits into object-level flags. Primitives
// with unknown containment either count against full containment
// (countUnknown) or are skipped; an object whose containment is
// entirely unknown stays unknown.
func aggregate(prims []PrimitiveHit, countUnknown bool) (clipped bool, contained *bool) {
	known := 0
	allIn := true
	for _, ph := range prims {
		if ph.Clipped {
			clipped = true
		}
		if ph.Contained == nil {
			if countUnknown {
				allIn = false
				known++
			}
			continue
		}
		known++
		if !*ph.Contained {
			allIn = false
		}
	}
	if known == 0 {
		return clipped, nil
	}
	c := allIn
	return clipped, &c
}
