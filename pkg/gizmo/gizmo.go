// Package gizmo implements a drag-rectangle selection tool. The gizmo
// tracks pointer events through a small idle/dragging state machine,
// draws its rectangle on an overlay scene and, when the drag ends,
// classifies every scene object against the rectangle in normalized
// device coordinates.
package gizmo

import (
	"math"

	"github.com/chazu/prism/pkg/color"
	"github.com/chazu/prism/pkg/geom"
	"github.com/chazu/prism/pkg/scene"
	"github.com/chazu/prism/pkg/viewer"
	"github.com/chazu/prism/pkg/visual"
)

// Camera supplies the world-to-clip transform used for classification.
type Camera interface {
	Matrix() geom.Mat4
}

// Viewport maps window pixel coordinates to normalized device
// coordinates in [-1, 1], with y growing upward.
type Viewport struct {
	Width  float32
	Height float32
}

// ToNDC converts a pixel position to NDC.
func (vp Viewport) ToNDC(x, y float32) (float32, float32) {
	nx := 2*x/vp.Width - 1
	ny := 1 - 2*y/vp.Height
	return nx, ny
}

type state int

const (
	idle state = iota
	dragging
)

// Config holds the gizmo's behavior knobs.
type Config struct {
	// LeaveVisible keeps the rectangle on screen after the drag ends.
	LeaveVisible bool
	// IgnoreInvisible excludes hidden primitives from classification.
	IgnoreInvisible bool
	// CountUnknown makes primitives whose containment cannot be
	// determined (volumes) count against full containment of their
	// object instead of being skipped.
	CountUnknown bool
	// Color of the rectangle outline.
	Color color.Color
}

// DefaultConfig returns the stock gizmo configuration.
func DefaultConfig() Config {
	return Config{
		IgnoreInvisible: true,
		Color:           color.MustParse("#ffffff"),
	}
}

// Gizmo is the selection rectangle tool.
type Gizmo struct {
	viewer   *viewer.Viewer
	overlay  scene.Scene
	camera   Camera
	viewport Viewport
	cfg      Config

	disabled bool
	st       state
	square   bool
	origin   [2]float32
	current  [2]float32
	rect     *visual.Lines

	onDone []func(Result)
}

// New creates a gizmo over a viewer. The rectangle visual is drawn on
// the overlay scene, which hosts render in NDC screen space.
func New(v *viewer.Viewer, overlay scene.Scene, cam Camera, vp Viewport, cfg Config) *Gizmo {
	return &Gizmo{viewer: v, overlay: overlay, camera: cam, viewport: vp, cfg: cfg}
}

// SetViewport updates the pixel-to-NDC mapping after a window resize.
func (g *Gizmo) SetViewport(vp Viewport) { g.viewport = vp }

// SetDisabled turns the gizmo off. Disabling mid-drag cancels the drag.
func (g *Gizmo) SetDisabled(disabled bool) {
	g.disabled = disabled
	if disabled && g.st == dragging {
		g.cancel()
	}
}

// Disabled reports whether the gizmo ignores pointer events.
func (g *Gizmo) Disabled() bool { return g.disabled }

// Dragging reports whether a drag is in progress.
func (g *Gizmo) Dragging() bool { return g.st == dragging }

// OnDone registers a callback invoked with the classification result
// when a drag completes.
func (g *Gizmo) OnDone(fn func(Result)) {
	g.onDone = append(g.onDone, fn)
}

// BindSelection wires the stock behavior: completing a drag toggles
// selection of every clipped object.
func (g *Gizmo) BindSelection() {
	g.OnDone(func(res Result) {
		var ids []string
		for _, hit := range res.Hits {
			if hit.Clipped {
				ids = append(ids, hit.ID)
			}
		}
		if len(ids) > 0 {
			g.viewer.Select(ids...)
		}
	})
}

// PointerDown starts a drag at a pixel position. With square set the
// rectangle is constrained to equal extents while preserving the drag
// direction's sign.
func (g *Gizmo) PointerDown(x, y float32, square bool) {
	if g.disabled || g.st == dragging {
		return
	}
	g.st = dragging
	g.square = square
	g.origin = [2]float32{x, y}
	g.current = g.origin
	g.removeRect()
	g.showRect()
}

// PointerMove updates the rectangle during a drag. Events outside a
// drag are ignored.
func (g *Gizmo) PointerMove(x, y float32) {
	if g.st != dragging {
		return
	}
	g.current = g.constrain(x, y)
	g.showRect()
}

// PointerUp ends the drag, classifies the scene against the final
// rectangle and fires the completion callbacks.
func (g *Gizmo) PointerUp(x, y float32) {
	if g.st != dragging {
		return
	}
	g.current = g.constrain(x, y)
	g.st = idle
	if !g.cfg.LeaveVisible {
		g.removeRect()
	} else {
		g.showRect()
	}
	res := g.Classify()
	for _, fn := range g.onDone {
		fn(res)
	}
}

// Leave cancels a drag in progress, for pointer-left-window events.
func (g *Gizmo) Leave() {
	if g.st == dragging {
		g.cancel()
	}
}

func (g *Gizmo) cancel() {
	g.st = idle
	if !g.cfg.LeaveVisible {
		g.removeRect()
	}
}

// constrain applies the force-square modifier: both extents take the
// larger magnitude, keeping their own signs so the rectangle still
// grows toward the pointer.
func (g *Gizmo) constrain(x, y float32) [2]float32 {
	if !g.square {
		return [2]float32{x, y}
	}
	dx := x - g.origin[0]
	dy := y - g.origin[1]
	m := float32(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))
	return [2]float32{
		g.origin[0] + float32(math.Copysign(float64(m), float64(dx))),
		g.origin[1] + float32(math.Copysign(float64(m), float64(dy))),
	}
}

// ndcRect returns the rectangle corners in NDC with lo <= hi.
func (g *Gizmo) ndcRect() (lo, hi [2]float32) {
	x0, y0 := g.viewport.ToNDC(g.origin[0], g.origin[1])
	x1, y1 := g.viewport.ToNDC(g.current[0], g.current[1])
	lo = [2]float32{min(x0, x1), min(y0, y1)}
	hi = [2]float32{max(x0, x1), max(y0, y1)}
	return lo, hi
}

func (g *Gizmo) showRect() {
	g.removeRect()
	lo, hi := g.ndcRect()
	outline := geom.LineStrip{
		{X: lo[0], Y: lo[1]},
		{X: hi[0], Y: lo[1]},
		{X: hi[0], Y: hi[1]},
		{X: lo[0], Y: hi[1]},
		{X: lo[0], Y: lo[1]},
	}
	g.rect = visual.NewLines(outline, g.cfg.Color, 1)
	g.overlay.Add(g.rect)
}

func (g *Gizmo) removeRect() {
	if g.rect != nil {
		g.overlay.Remove(g.rect)
		g.rect = nil
	}
}
