package viewer

import (
	"log"
	"math/rand"

	"github.com/chazu/prism/pkg/color"
)

// Object-not-found is a warning, not an error: state operations log the
// unknown id, record it in the returned slice and keep going, so one bad
// id never aborts a batch.

func warnMissing(op, id string) {
	log.Printf("viewer: %s: object %q not found", op, id)
}

// Hide makes the given objects invisible. Pinned primitives are skipped.
// Returns the ids that were not found.
func (v *Viewer) Hide(ids ...string) []string {
	ix := v.Objects()
	var missing []string
	v.mutate(func() {
		for _, id := range ids {
			prims, ok := ix.Get(id)
			if !ok {
				warnMissing("hide", id)
				missing = append(missing, id)
				continue
			}
			for _, p := range prims {
				if p.Meta().Pinned {
					continue
				}
				p.SetVisible(false)
			}
		}
	})
	return missing
}

// Unhide makes the given objects visible again. No ids means all known
// objects. Pinned primitives are skipped. Returns the ids not found.
func (v *Viewer) Unhide(ids ...string) []string {
	ix := v.Objects()
	if len(ids) == 0 {
		ids = ix.IDs()
	}
	var missing []string
	v.mutate(func() {
		for _, id := range ids {
			prims, ok := ix.Get(id)
			if !ok {
				warnMissing("unhide", id)
				missing = append(missing, id)
				continue
			}
			for _, p := range prims {
				if p.Meta().Pinned {
					continue
				}
				p.SetVisible(true)
			}
		}
	})
	return missing
}

// Pin protects the given objects from all subsequent visibility, color
// and highlight mutations until unpinned. Returns the ids not found.
func (v *Viewer) Pin(ids ...string) []string {
	ix := v.Objects()
	var missing []string
	v.mutate(func() {
		for _, id := range ids {
			prims, ok := ix.Get(id)
			if !ok {
				warnMissing("pin", id)
				missing = append(missing, id)
				continue
			}
			for _, p := range prims {
				p.Meta().Pinned = true
			}
		}
	})
	return missing
}

// Unpin lifts pin protection. No ids means all known objects. Returns
// the ids not found.
func (v *Viewer) Unpin(ids ...string) []string {
	ix := v.Objects()
	if len(ids) == 0 {
		ids = ix.IDs()
	}
	var missing []string
	v.mutate(func() {
		for _, id := range ids {
			prims, ok := ix.Get(id)
			if !ok {
				warnMissing("unpin", id)
				missing = append(missing, id)
				continue
			}
			for _, p := range prims {
				p.Meta().Pinned = false
			}
		}
	})
	return missing
}

// SetColors assigns per-object colors. Primitives keep their existing
// channel depth: an RGB primitive given an RGBA color drops the alpha,
// and vice versa. Pinned primitives and primitives without a material
// are skipped. Returns the requested ids that were not found.
func (v *Viewer) SetColors(colors map[string]color.Color) []string {
	ix := v.Objects()
	var missing []string
	v.mutate(func() {
		for _, id := range ix.IDs() {
			c, wanted := colors[id]
			if !wanted {
				continue
			}
			for _, p := range ix.groups[id] {
				if p.Meta().Pinned {
					continue
				}
				if _, ok := p.Color(); !ok {
					continue
				}
				p.SetColor(c)
			}
		}
		for id := range colors {
			if !ix.Has(id) {
				warnMissing("set colors", id)
				missing = append(missing, id)
			}
		}
	})
	return missing
}

// SetColor assigns one color to the given objects, or to all objects
// when no ids are given.
func (v *Viewer) SetColor(c color.Color, ids ...string) []string {
	if len(ids) == 0 {
		ids = v.Objects().IDs()
	}
	colors := make(map[string]color.Color, len(ids))
	for _, id := range ids {
		colors[id] = c
	}
	return v.SetColors(colors)
}

// Colorize recolors every object from a palette, cycling when there are
// more objects than palette entries. With shuffle the palette order is
// randomized first.
func (v *Viewer) Colorize(palette string, shuffle bool) error {
	cols, err := color.Palette(palette)
	if err != nil {
		return err
	}
	if shuffle {
		cols = append([]color.Color(nil), cols...)
		rand.Shuffle(len(cols), func(i, j int) { cols[i], cols[j] = cols[j], cols[i] })
	}
	ids := v.Objects().IDs()
	colors := make(map[string]color.Color, len(ids))
	for i, id := range ids {
		colors[id] = cols[i%len(cols)]
	}
	v.SetColors(colors)
	return nil
}

// ---------------------------------------------------------------------------
// Highlighting
// ---------------------------------------------------------------------------

// Intensity describes how a highlight changes a primitive's color:
// either a lightness delta applied to the current color, or an outright
// replacement color.
type Intensity struct {
	delta   float64
	replace *color.Color
}

// Lighten highlights by shifting lightness. At the lightness ceiling the
// shift flips downward so the highlight stays visible on white objects.
func Lighten(delta float64) Intensity { return Intensity{delta: delta} }

// Recolor highlights by replacing the color outright.
func Recolor(c color.Color) Intensity { return Intensity{replace: &c} }

// DefaultHighlight is the intensity used by the interactive verbs.
var DefaultHighlight = Lighten(0.2)

// Highlight emphasizes the given objects. Each affected primitive
// buffers its current color exactly once; re-highlighting an already
// highlighted primitive is a no-op, so the original color survives any
// number of repeated calls. Pinned primitives are skipped. Returns the
// ids not found.
func (v *Viewer) Highlight(intensity Intensity, ids ...string) []string {
	ix := v.Objects()
	var missing []string
	v.mutate(func() {
		for _, id := range ids {
			prims, ok := ix.Get(id)
			if !ok {
				warnMissing("highlight", id)
				missing = append(missing, id)
				continue
			}
			for _, p := range prims {
				m := p.Meta()
				if m.Pinned || m.Highlighted {
					continue
				}
				cur, ok := p.Color()
				if !ok {
					continue
				}
				stored := cur
				m.StoredColor = &stored
				if intensity.replace != nil {
					p.SetColor(*intensity.replace)
				} else {
					p.SetColor(cur.Lighten(intensity.delta))
				}
				m.Highlighted = true
			}
		}
	})
	return missing
}

// Unhighlight restores the buffered colors of the given objects. No ids
// means every currently highlighted object. Pinned primitives are
// skipped. Returns the ids not found.
func (v *Viewer) Unhighlight(ids ...string) []string {
	ix := v.Objects()
	if len(ids) == 0 {
		ids = v.HighlightedIDs()
	}
	var missing []string
	v.mutate(func() {
		for _, id := range ids {
			prims, ok := ix.Get(id)
			if !ok {
				warnMissing("unhighlight", id)
				missing = append(missing, id)
				continue
			}
			for _, p := range prims {
				m := p.Meta()
				if m.Pinned || !m.Highlighted {
					continue
				}
				if m.StoredColor != nil {
					p.SetColor(*m.StoredColor)
					m.StoredColor = nil
				}
				m.Highlighted = false
			}
		}
	})
	return missing
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// Selected returns the currently selected object ids in selection order.
func (v *Viewer) Selected() []string {
	return append([]string(nil), v.selected...)
}

// Select toggles selection membership: ids already selected leave the
// selection and get their buffered color back, the rest enter it and are
// recolored with the highlight color. Unknown ids are warned about and
// skipped without disturbing the rest of the batch. Returns the ids not
// found.
func (v *Viewer) Select(ids ...string) []string {
	ix := v.Objects()
	var missing []string

	next := append([]string(nil), v.selected...)
	for _, id := range ids {
		if !ix.Has(id) {
			warnMissing("select", id)
			missing = append(missing, id)
			continue
		}
		if i := indexOf(next, id); i >= 0 {
			next = append(next[:i], next[i+1:]...)
		} else {
			next = append(next, id)
		}
	}

	v.mutate(func() {
		// Restore objects leaving the selection.
		for _, id := range v.selected {
			if indexOf(next, id) >= 0 {
				continue
			}
			for _, p := range ix.groups[id] {
				m := p.Meta()
				if m.Pinned || m.Highlighted {
					continue
				}
				if m.StoredColor != nil {
					p.SetColor(*m.StoredColor)
					m.StoredColor = nil
				}
			}
		}
		// Recolor objects entering the selection.
		for _, id := range next {
			if indexOf(v.selected, id) >= 0 {
				continue
			}
			for _, p := range ix.groups[id] {
				m := p.Meta()
				if m.Pinned || m.Highlighted {
					continue
				}
				cur, ok := p.Color()
				if !ok {
					continue
				}
				if m.StoredColor == nil {
					stored := cur
					m.StoredColor = &stored
				}
				p.SetColor(v.highlightColor)
			}
		}
		v.selected = next
	})
	return missing
}

// Deselect empties the selection, restoring buffered colors.
func (v *Viewer) Deselect() {
	if len(v.selected) == 0 {
		return
	}
	v.Select(v.selected...)
}

func indexOf(ids []string, id string) int {
	for i, s := range ids {
		if s == id {
			return i
		}
	}
	return -1
}
