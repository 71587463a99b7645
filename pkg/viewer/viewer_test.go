package viewer

import (
	"testing"

	"github.com/chazu/prism/pkg/color"
	"github.com/chazu/prism/pkg/convert"
	"github.com/chazu/prism/pkg/geom"
	"github.com/chazu/prism/pkg/scene"
	"github.com/chazu/prism/pkg/visual"
)

// pair is a test input type whose converter produces two primitives, so
// one logical object spans multiple scene children.
type pair struct{}

func newTestViewer(t *testing.T) *Viewer {
	t.Helper()
	r := convert.NewRegistry()
	if err := convert.RegisterDefaults(r); err != nil {
		t.Fatal(err)
	}
	err := r.Register(convert.Type(pair{}), func(value any, opts convert.Options) ([]scene.Primitive, error) {
		c := visual.DefaultColor
		if opts.Color != nil {
			c = *opts.Color
		}
		a := visual.NewPoints(geom.PointCloud{geom.V(0, 0, 0)}, c, 0)
		b := visual.NewLines(geom.LineStrip{geom.V(0, 0, 0), geom.V(1, 1, 1)}, c, 0)
		return []scene.Primitive{a, b}, nil
	}, convert.First, convert.AcceptsColor())
	if err != nil {
		t.Fatal(err)
	}
	return New(scene.NewWorld(), r)
}

func addCloud(t *testing.T, v *Viewer, name string, pts ...geom.Vec3) string {
	t.Helper()
	if len(pts) == 0 {
		pts = []geom.Vec3{geom.V(0, 0, 0)}
	}
	ids, err := v.Add(geom.PointCloud(pts), &AddOptions{Name: name})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("Add returned %v, want one id", ids)
	}
	return ids[0]
}

func TestObjectsCacheIdentity(t *testing.T) {
	v := newTestViewer(t)
	addCloud(t, v, "a")

	first := v.Objects()
	second := v.Objects()
	if first != second {
		t.Error("repeated reads without mutation should return the identical index")
	}

	addCloud(t, v, "b")
	third := v.Objects()
	if third == first {
		t.Error("mutation should invalidate the cached index")
	}
	if third.Len() != 2 {
		t.Errorf("Len() = %d, want 2", third.Len())
	}
}

func TestGroupedPrimitivesShareIdentity(t *testing.T) {
	v := newTestViewer(t)
	ids, err := v.Add(pair{}, &AddOptions{Name: "duo", NoCenter: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "duo" {
		t.Fatalf("ids = %v, want [duo]", ids)
	}
	prims, ok := v.Objects().Get("duo")
	if !ok || len(prims) != 2 {
		t.Fatalf("got %d primitives for duo, want 2", len(prims))
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1 logical object", v.Len())
	}
}

func TestAutoNaming(t *testing.T) {
	v := newTestViewer(t)
	cloud := func() geom.PointCloud { return geom.PointCloud{geom.V(0, 0, 0)} }

	want := []string{"Scatter", "Scatter.002", "Scatter.003"}
	for i, w := range want {
		ids, err := v.Add(cloud(), nil)
		if err != nil {
			t.Fatal(err)
		}
		if ids[0] != w {
			t.Errorf("add %d: name = %q, want %q", i, ids[0], w)
		}
	}

	// A different kind starts its own counter.
	ids, err := v.Add(geom.LineStrip{geom.V(0, 0, 0), geom.V(1, 1, 1)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ids[0] != "Lines" {
		t.Errorf("lines name = %q, want %q", ids[0], "Lines")
	}
}

func TestPaletteColorInjection(t *testing.T) {
	v := newTestViewer(t)
	pal, err := color.Palette(v.Palette())
	if err != nil {
		t.Fatal(err)
	}

	a := addCloud(t, v, "a")
	b := addCloud(t, v, "b")

	colorOf := func(id string) color.Color {
		prims, _ := v.Objects().Get(id)
		c, ok := prims[0].Color()
		if !ok {
			t.Fatalf("%s has no material", id)
		}
		return c
	}
	if got := colorOf(a); !got.Equal(pal[0].ToChannels(got.Channels())) {
		t.Errorf("first object color = %v, want palette[0] %v", got, pal[0])
	}
	if got := colorOf(b); !got.Equal(pal[1].ToChannels(got.Channels())) {
		t.Errorf("second object color = %v, want palette[1] %v", got, pal[1])
	}

	// An explicit color suppresses injection and the palette cursor
	// stays put for the next automatic color.
	red := color.MustParse("#ff0000")
	ids, err := v.Add(geom.PointCloud{geom.V(0, 0, 0)}, &AddOptions{Name: "c", Color: &red})
	if err != nil {
		t.Fatal(err)
	}
	if got := colorOf(ids[0]); !got.Equal(red) {
		t.Errorf("explicit color = %v, want %v", got, red)
	}
	d := addCloud(t, v, "d")
	if got := colorOf(d); !got.Equal(pal[2].ToChannels(got.Channels())) {
		t.Errorf("post-explicit color = %v, want palette[2] %v", got, pal[2])
	}
}

func TestPaletteCycles(t *testing.T) {
	v := newTestViewer(t)
	pal, _ := color.Palette(v.Palette())
	var last color.Color
	for i := 0; i <= len(pal); i++ {
		last = v.nextColor()
	}
	if !last.Equal(pal[0]) {
		t.Errorf("palette should cycle: got %v, want %v", last, pal[0])
	}
}

func TestBatchAddRecentersOnce(t *testing.T) {
	v := newTestViewer(t)
	recenters := 0
	v.OnRecenter(func() { recenters++ })

	batch := []any{
		geom.PointCloud{geom.V(0, 0, 0)},
		geom.PointCloud{geom.V(1, 1, 1)},
		geom.PointCloud{geom.V(2, 2, 2)},
	}
	ids, err := v.Add(batch, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 {
		t.Fatalf("ids = %v, want 3", ids)
	}
	if recenters != 1 {
		t.Errorf("recenter ran %d times, want once after the batch", recenters)
	}
}

func TestBatchAddPartialFailure(t *testing.T) {
	v := newTestViewer(t)
	batch := []any{
		geom.PointCloud{geom.V(0, 0, 0)},
		struct{ Unconvertible bool }{true},
		geom.PointCloud{geom.V(1, 1, 1)},
	}
	ids, err := v.Add(batch, nil)
	if err == nil {
		t.Fatal("expected an error for the unconvertible element")
	}
	// Elements before the failure stay on the scene.
	if len(ids) != 1 {
		t.Errorf("ids = %v, want the one pre-failure id", ids)
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}
}

func TestAddDegenerateInput(t *testing.T) {
	v := newTestViewer(t)
	ids, err := v.Add(&geom.Mesh{}, nil)
	if err != nil {
		t.Fatalf("empty mesh should not error: %v", err)
	}
	if len(ids) != 0 || v.Len() != 0 {
		t.Errorf("degenerate input added something: ids=%v len=%d", ids, v.Len())
	}
}

func TestRemovePopClear(t *testing.T) {
	v := newTestViewer(t)
	addCloud(t, v, "a")
	addCloud(t, v, "b")
	addCloud(t, v, "c")

	v.Remove("b")
	if got := v.IDs(); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("after Remove: %v, want [a c]", got)
	}

	v.Pop(1)
	if got := v.IDs(); len(got) != 1 || got[0] != "a" {
		t.Errorf("after Pop: %v, want [a]", got)
	}

	addCloud(t, v, "d")
	v.Clear()
	if v.Len() != 0 {
		t.Errorf("after Clear: Len() = %d, want 0", v.Len())
	}
}

func TestRemoveDropsSelection(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	b := addCloud(t, v, "b")
	v.Select(a, b)

	// Removing a selected object must not leave its id behind.
	v.Remove(a)
	if got := v.Selected(); len(got) != 1 || got[0] != b {
		t.Fatalf("Selected() = %v, want [%s]", got, b)
	}

	v.Deselect()
	if got := v.Selected(); len(got) != 0 {
		t.Errorf("Selected() after Deselect = %v, want none", got)
	}

	v.Select(b)
	v.Pop(1)
	if got := v.Selected(); len(got) != 0 {
		t.Errorf("Selected() after Pop = %v, want none", got)
	}

	c := addCloud(t, v, "c")
	v.Select(c)
	v.Clear()
	if got := v.Selected(); len(got) != 0 {
		t.Errorf("Selected() after Clear = %v, want none", got)
	}
}

func TestStaleFlag(t *testing.T) {
	v := newTestViewer(t)
	if v.Stale() {
		t.Error("fresh viewer should not be stale")
	}
	addCloud(t, v, "a")
	if !v.Stale() {
		t.Error("adding should raise the stale flag")
	}
	v.MarkRendered()
	if v.Stale() {
		t.Error("MarkRendered should clear the stale flag")
	}
	v.Hide("a")
	if !v.Stale() {
		t.Error("state mutation should raise the stale flag")
	}
}

func TestBoundsSkipsHelper(t *testing.T) {
	v := newTestViewer(t)
	addCloud(t, v, "a", geom.V(0, 0, 0), geom.V(1, 1, 1))
	v.UpdateBounds()

	box, ok := v.Bounds()
	if !ok {
		t.Fatal("Bounds() not ok")
	}
	if box.Min != geom.V(0, 0, 0) || box.Max != geom.V(1, 1, 1) {
		t.Errorf("Bounds = %v..%v, helper must not inflate it", box.Min, box.Max)
	}

	// The helper visual exists on the scene but not in the identity index
	// scan of user objects by id "a".
	helper := 0
	for _, c := range v.Scene().Children() {
		if c.Meta().Kind == scene.KindBoundingBox {
			helper++
		}
	}
	if helper != 1 {
		t.Fatalf("found %d helper visuals, want 1", helper)
	}

	// Rebuilding replaces rather than stacks the helper.
	v.UpdateBounds()
	helper = 0
	for _, c := range v.Scene().Children() {
		if c.Meta().Kind == scene.KindBoundingBox {
			helper++
		}
	}
	if helper != 1 {
		t.Errorf("after rebuild: %d helper visuals, want 1", helper)
	}

	v.ShowBounds(false)
	for _, c := range v.Scene().Children() {
		if c.Meta().Kind == scene.KindBoundingBox {
			t.Error("ShowBounds(false) left the helper on the scene")
		}
	}
}

func TestApplyActions(t *testing.T) {
	v := newTestViewer(t)
	id := addCloud(t, v, "a")

	if err := v.Apply(ActionHide, id); err != nil {
		t.Fatal(err)
	}
	if got := v.InvisibleIDs(); len(got) != 1 {
		t.Error("ActionHide had no effect")
	}
	if err := v.Apply(ActionSelect, id); err != nil {
		t.Fatal(err)
	}
	if got := v.Selected(); len(got) != 1 || got[0] != id {
		t.Errorf("Selected() = %v, want [%s]", got, id)
	}
	if err := v.Apply(Action("explode"), id); err == nil {
		t.Error("unknown action should error")
	}
}
