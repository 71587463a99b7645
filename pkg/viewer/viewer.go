// Package viewer maintains the mapping between logical object identities
// and the scene primitives that represent them, and drives state changes
// (visibility, pinning, selection, highlighting, color) across that
// mapping. The scene itself and the renderer are external collaborators;
// the viewer only scans, tags and mutates primitives, and raises a stale
// flag the render loop polls.
package viewer

import (
	"fmt"
	"log"
	"strings"

	"github.com/chazu/prism/pkg/color"
	"github.com/chazu/prism/pkg/convert"
	"github.com/chazu/prism/pkg/geom"
	"github.com/chazu/prism/pkg/scene"
	"github.com/chazu/prism/pkg/visual"
)

// Viewer is the stateful core of the 3D viewer.
type Viewer struct {
	scene    scene.Scene
	registry *convert.Registry

	// Trigger is the render-trigger mode the external render loop
	// combines with the stale flag.
	Trigger scene.RenderTrigger

	// MaxFPS caps the frame rate of the external render loop.
	// Zero leaves the loop uncapped.
	MaxFPS int

	palette        string
	cachedPalette  string
	cachedColors   []color.Color
	paletteIndex   int
	highlightColor color.Color

	index    *Index
	selected []string
	stale    bool

	showBounds bool
	recenter   func()

	animations []*Animation
	flagged    []*Animation
}

// New creates a viewer over an externally owned scene, resolving
// conversions through the given registry.
func New(sc scene.Scene, reg *convert.Registry) *Viewer {
	return &Viewer{
		scene:          sc,
		registry:       reg,
		Trigger:        scene.TriggerReactive,
		palette:        color.DefaultPalette,
		highlightColor: color.MustParse("#ff00ff"),
	}
}

// Scene returns the external scene the viewer operates on.
func (v *Viewer) Scene() scene.Scene { return v.scene }

// Registry returns the conversion registry.
func (v *Viewer) Registry() *convert.Registry { return v.registry }

// SetPalette selects the palette used to color new objects. The palette
// colors are recomputed lazily on the next use.
func (v *Viewer) SetPalette(name string) { v.palette = name }

// Palette returns the current palette name.
func (v *Viewer) Palette() string { return v.palette }

// SetHighlightColor sets the color applied to selected objects.
func (v *Viewer) SetHighlightColor(c color.Color) { v.highlightColor = c }

// OnRecenter registers the collaborator call used to re-center the camera
// after objects are added. Nil disables recentering.
func (v *Viewer) OnRecenter(fn func()) { v.recenter = fn }

// Stale reports whether the scene changed since the last MarkRendered.
// The external render loop polls this in reactive trigger mode.
func (v *Viewer) Stale() bool { return v.stale }

// MarkRendered clears the stale flag. Called by the render loop after a
// frame is produced.
func (v *Viewer) MarkRendered() { v.stale = false }

// mutate runs fn as a mutation transaction: on exit, success or panic,
// the identity index is invalidated and the stale flag raised. Every
// scene- or state-mutating operation goes through here so no call site
// can forget to invalidate.
func (v *Viewer) mutate(fn func()) {
	defer func() {
		v.index = nil
		v.stale = true
	}()
	fn()
}

// Invalidate drops the cached identity index. Hosts that mutate the
// scene behind the viewer's back can call this to resynchronize.
func (v *Viewer) Invalidate() {
	v.index = nil
	v.stale = true
}

// ---------------------------------------------------------------------------
// Identity index
// ---------------------------------------------------------------------------

// Index is the derived object-id -> primitives mapping, in first-seen
// order. It is a snapshot: reads within one operation share it, and any
// mutation invalidates it.
type Index struct {
	ids    []string
	groups map[string][]scene.Primitive
}

// IDs returns the object ids in first-seen order. The slice is shared;
// callers must not mutate it.
func (ix *Index) IDs() []string { return ix.ids }

// Get returns the primitives of one object in scene order.
func (ix *Index) Get(id string) ([]scene.Primitive, bool) {
	ps, ok := ix.groups[id]
	return ps, ok
}

// Has reports whether an object id exists.
func (ix *Index) Has(id string) bool {
	_, ok := ix.groups[id]
	return ok
}

// Len returns the number of logical objects.
func (ix *Index) Len() int { return len(ix.ids) }

// Objects returns the identity index, rebuilding it from the scene's
// children only when a mutation has invalidated the cache. Two calls
// with no intervening mutation return the identical structure.
func (v *Viewer) Objects() *Index {
	if v.index == nil {
		ix := &Index{groups: make(map[string][]scene.Primitive)}
		for _, c := range v.scene.Children() {
			id := c.Meta().ObjectID
			if id == "" {
				continue
			}
			if _, seen := ix.groups[id]; !seen {
				ix.ids = append(ix.ids, id)
			}
			ix.groups[id] = append(ix.groups[id], c)
		}
		v.index = ix
	}
	return v.index
}

// IDs returns all object ids in order of addition.
func (v *Viewer) IDs() []string {
	return append([]string(nil), v.Objects().IDs()...)
}

// Len returns the number of logical objects on the scene.
func (v *Viewer) Len() int { return v.Objects().Len() }

// Has reports whether an object id exists on the scene.
func (v *Viewer) Has(id string) bool { return v.Objects().Has(id) }

// VisibleIDs lists ids whose objects are currently visible. Visibility
// of a group is read off its first primitive; the mutation engine keeps
// all primitives of a group in the same state.
func (v *Viewer) VisibleIDs() []string {
	ix := v.Objects()
	var out []string
	for _, id := range ix.ids {
		if ix.groups[id][0].Visible() {
			out = append(out, id)
		}
	}
	return out
}

// InvisibleIDs lists ids whose objects are currently hidden.
func (v *Viewer) InvisibleIDs() []string {
	ix := v.Objects()
	var out []string
	for _, id := range ix.ids {
		if !ix.groups[id][0].Visible() {
			out = append(out, id)
		}
	}
	return out
}

// PinnedIDs lists ids whose objects are pinned.
func (v *Viewer) PinnedIDs() []string {
	ix := v.Objects()
	var out []string
	for _, id := range ix.ids {
		if ix.groups[id][0].Meta().Pinned {
			out = append(out, id)
		}
	}
	return out
}

// HighlightedIDs lists ids with at least one highlighted primitive.
func (v *Viewer) HighlightedIDs() []string {
	ix := v.Objects()
	var out []string
	for _, id := range ix.ids {
		for _, p := range ix.groups[id] {
			if p.Meta().Highlighted {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Adding and removing objects
// ---------------------------------------------------------------------------

// AddOptions configures a single Add call.
type AddOptions struct {
	// Name assigns a logical object id to all produced primitives.
	// Empty means auto-generate a label from the primitive kind.
	Name string

	// Color forces a uniform color. Nil lets the viewer inject the next
	// palette color for handlers that accept one.
	Color *color.Color

	// Colors holds per-vertex or per-face colors for mesh inputs.
	Colors []color.Color

	Size  float32
	Width float32

	// Clear empties the scene of tagged objects before adding.
	Clear bool

	// NoCenter suppresses the camera re-center after the add.
	NoCenter bool
}

// Add converts a value into primitives, tags them with a logical object
// id and adds them to the scene. A []any input is treated as a batch:
// elements are added in order and the camera re-center runs once at the
// end, never per element. The returned slice holds the object ids added.
func (v *Viewer) Add(x any, opts *AddOptions) ([]string, error) {
	if opts == nil {
		opts = &AddOptions{}
	}
	if opts.Clear {
		v.Clear()
	}

	if batch, ok := x.([]any); ok {
		var ids []string
		for _, item := range batch {
			sub := *opts
			sub.Clear = false
			sub.NoCenter = true
			added, err := v.Add(item, &sub)
			if err != nil {
				return ids, err
			}
			ids = append(ids, added...)
		}
		if !opts.NoCenter && v.recenter != nil {
			v.recenter()
		}
		return ids, nil
	}

	rule, err := v.registry.MustResolve(x)
	if err != nil {
		return nil, err
	}

	copts := convert.Options{
		Color:  opts.Color,
		Colors: opts.Colors,
		Size:   opts.Size,
		Width:  opts.Width,
	}
	if rule.AcceptsColor && copts.Color == nil && len(copts.Colors) == 0 {
		c := v.nextColor()
		copts.Color = &c
	}

	prims, err := rule.Handler(x, copts)
	if err != nil {
		return nil, fmt.Errorf("viewer: converting %T: %w", x, err)
	}
	if len(prims) == 0 {
		// Degenerate input: nothing to add, nothing to invalidate.
		return nil, nil
	}

	name := opts.Name
	if name == "" {
		name = v.nextLabel(prims[0].Meta().Kind.Label())
	}
	for _, p := range prims {
		p.Meta().ObjectID = name
	}

	v.mutate(func() {
		v.scene.Add(prims...)
	})

	if !opts.NoCenter && v.recenter != nil {
		v.recenter()
	}
	return []string{name}, nil
}

// nextLabel returns the next free auto-generated object name for a kind
// label: the bare label for the first object, then "<label>.NNN" counting
// existing same-prefix names.
func (v *Viewer) nextLabel(prefix string) string {
	existing := 0
	for _, id := range v.Objects().IDs() {
		if strings.HasPrefix(id, prefix) {
			existing++
		}
	}
	if existing == 0 {
		return prefix
	}
	return fmt.Sprintf("%s.%03d", prefix, existing+1)
}

// nextColor returns the next color of the cyclic palette. The palette
// colors are cached and recomputed only when the palette name changes.
func (v *Viewer) nextColor() color.Color {
	if v.cachedColors == nil || v.cachedPalette != v.palette {
		cols, err := color.Palette(v.palette)
		if err != nil {
			log.Printf("viewer: %v, falling back to %q", err, color.DefaultPalette)
			cols, _ = color.Palette(color.DefaultPalette)
		}
		v.cachedColors = cols
		v.cachedPalette = v.palette
	}
	c := v.cachedColors[v.paletteIndex%len(v.cachedColors)]
	v.paletteIndex++
	return c
}

// Remove removes all primitives belonging to the given object ids.
// Removed objects also leave the selection; their primitives are gone,
// so there is nothing to restore.
func (v *Viewer) Remove(ids ...string) {
	ix := v.Objects()
	var doomed []scene.Primitive
	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if prims, ok := ix.Get(id); ok {
			doomed = append(doomed, prims...)
			removed[id] = true
		}
	}
	if len(doomed) == 0 {
		return
	}
	v.mutate(func() {
		v.scene.Remove(doomed...)
		v.selected = pruneIDs(v.selected, removed)
	})
}

// pruneIDs filters ids in place, dropping those flagged gone.
func pruneIDs(ids []string, gone map[string]bool) []string {
	kept := ids[:0]
	for _, id := range ids {
		if !gone[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

// Pop removes the n most recently added objects.
func (v *Viewer) Pop(n int) {
	ids := v.Objects().IDs()
	if n <= 0 || len(ids) == 0 {
		return
	}
	if n > len(ids) {
		n = len(ids)
	}
	v.Remove(ids[len(ids)-n:]...)
}

// Clear removes every tagged object from the scene, leaving untagged
// children (lights, backgrounds) in place. The selection empties with
// the scene.
func (v *Viewer) Clear() {
	var doomed []scene.Primitive
	for _, c := range v.scene.Children() {
		if c.Meta().ObjectID != "" {
			doomed = append(doomed, c)
		}
	}
	if len(doomed) == 0 {
		return
	}
	v.mutate(func() {
		v.scene.Remove(doomed...)
		v.selected = nil
	})
}

// ---------------------------------------------------------------------------
// Bounds
// ---------------------------------------------------------------------------

// Bounds returns the union of all object bounds, visible or not, skipping
// the bounding-box helper itself.
func (v *Viewer) Bounds() (geom.AABB, bool) {
	var box geom.AABB
	found := false
	for _, c := range v.scene.Children() {
		if c.Meta().Kind == scene.KindBoundingBox {
			continue
		}
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

// ShowBounds toggles the bounding-box helper visual.
func (v *Viewer) ShowBounds(show bool) {
	v.showBounds = show
	if show {
		v.UpdateBounds()
	} else {
		v.removeBounds()
	}
}

// UpdateBounds rebuilds the bounding-box visual around the current scene
// contents. No-op when the scene has no geometry.
func (v *Viewer) UpdateBounds() {
	v.removeBounds()
	v.showBounds = true
	box, ok := v.Bounds()
	if !ok {
		return
	}
	vis := visual.NewBoundingBox(box, color.MustParse("#ffffff"))
	v.mutate(func() {
		v.scene.Add(vis)
	})
}

func (v *Viewer) removeBounds() {
	var doomed []scene.Primitive
	for _, c := range v.scene.Children() {
		if c.Meta().Kind == scene.KindBoundingBox {
			doomed = append(doomed, c)
		}
	}
	if len(doomed) == 0 {
		return
	}
	v.mutate(func() {
		v.scene.Remove(doomed...)
	})
}
