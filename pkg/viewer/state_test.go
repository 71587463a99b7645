package viewer

import (
	"testing"

	"github.com/chazu/prism/pkg/color"
)

func colorOf(t *testing.T, v *Viewer, id string) color.Color {
	t.Helper()
	prims, ok := v.Objects().Get(id)
	if !ok {
		t.Fatalf("object %q not found", id)
	}
	c, ok := prims[0].Color()
	if !ok {
		t.Fatalf("object %q has no material", id)
	}
	return c
}

func TestHideUnhide(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	b := addCloud(t, v, "b")

	missing := v.Hide(a, "ghost")
	if len(missing) != 1 || missing[0] != "ghost" {
		t.Errorf("missing = %v, want [ghost]", missing)
	}
	if got := v.InvisibleIDs(); len(got) != 1 || got[0] != a {
		t.Errorf("InvisibleIDs = %v, want [%s]", got, a)
	}
	if got := v.VisibleIDs(); len(got) != 1 || got[0] != b {
		t.Errorf("VisibleIDs = %v, want [%s]", got, b)
	}

	// No arguments unhides everything.
	v.Hide(b)
	v.Unhide()
	if got := v.InvisibleIDs(); len(got) != 0 {
		t.Errorf("after Unhide(): invisible %v, want none", got)
	}
}

func TestHideAffectsWholeGroup(t *testing.T) {
	v := newTestViewer(t)
	if _, err := v.Add(pair{}, &AddOptions{Name: "duo", NoCenter: true}); err != nil {
		t.Fatal(err)
	}
	v.Hide("duo")
	prims, _ := v.Objects().Get("duo")
	for i, p := range prims {
		if p.Visible() {
			t.Errorf("primitive %d still visible after group hide", i)
		}
	}
}

func TestPinOverridesEverything(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	before := colorOf(t, v, a)

	v.Pin(a)

	v.Hide(a)
	if got := v.VisibleIDs(); len(got) != 1 {
		t.Error("hide should skip a pinned object")
	}
	v.SetColor(color.MustParse("#123456"), a)
	if got := colorOf(t, v, a); !got.Equal(before) {
		t.Error("set-color should skip a pinned object")
	}
	v.Highlight(DefaultHighlight, a)
	if got := colorOf(t, v, a); !got.Equal(before) {
		t.Error("highlight should skip a pinned object")
	}
	if got := v.PinnedIDs(); len(got) != 1 || got[0] != a {
		t.Errorf("PinnedIDs = %v, want [%s]", got, a)
	}

	// Unpin with no arguments releases everything; mutations bite again.
	v.Unpin()
	v.Hide(a)
	if got := v.InvisibleIDs(); len(got) != 1 {
		t.Error("hide should work after unpin")
	}
}

func TestSetColorsWarnsOnUnknown(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	b := addCloud(t, v, "b")

	red := color.MustParse("#ff0000")
	blue := color.MustParse("#0000ff")
	missing := v.SetColors(map[string]color.Color{a: red, b: blue, "ghost": red})
	if len(missing) != 1 || missing[0] != "ghost" {
		t.Errorf("missing = %v, want [ghost]", missing)
	}
	if got := colorOf(t, v, a); !got.Equal(red) {
		t.Errorf("a color = %v, want red", got)
	}
	if got := colorOf(t, v, b); !got.Equal(blue) {
		t.Errorf("b color = %v, want blue", got)
	}
}

func TestSetColorPreservesChannelDepth(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	if got := colorOf(t, v, a).Channels(); got != 3 {
		t.Fatalf("precondition: palette colors are 3-channel, got %d", got)
	}
	v.SetColor(color.RGBA(1, 0, 0, 0.5), a)
	if got := colorOf(t, v, a).Channels(); got != 3 {
		t.Errorf("Channels() = %d after RGBA assignment, want 3", got)
	}
}

func TestHighlightRoundTrip(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	original := colorOf(t, v, a)

	v.Highlight(Lighten(0.2), a)
	lit := colorOf(t, v, a)
	if lit.Equal(original) {
		t.Fatal("highlight did not change the color")
	}
	if got := v.HighlightedIDs(); len(got) != 1 || got[0] != a {
		t.Errorf("HighlightedIDs = %v, want [%s]", got, a)
	}

	// Re-highlighting is a no-op: the buffered original survives.
	v.Highlight(Lighten(0.2), a)
	if got := colorOf(t, v, a); !got.Equal(lit) {
		t.Error("re-highlight should not stack")
	}

	v.Unhighlight(a)
	if got := colorOf(t, v, a); !got.Equal(original) {
		t.Errorf("restored color = %v, want exact original %v", got, original)
	}
	if got := v.HighlightedIDs(); len(got) != 0 {
		t.Errorf("HighlightedIDs after restore = %v, want none", got)
	}
}

func TestHighlightRecolor(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	original := colorOf(t, v, a)

	gold := color.MustParse("#ffd700")
	v.Highlight(Recolor(gold), a)
	if got := colorOf(t, v, a); !got.Equal(gold) {
		t.Errorf("color = %v, want %v", got, gold)
	}

	// Unhighlight with no arguments restores all highlighted objects.
	v.Unhighlight()
	if got := colorOf(t, v, a); !got.Equal(original) {
		t.Errorf("restored color = %v, want %v", got, original)
	}
}

func TestSelectToggles(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	b := addCloud(t, v, "b")
	colorA := colorOf(t, v, a)

	missing := v.Select(a, "ghost")
	if len(missing) != 1 || missing[0] != "ghost" {
		t.Errorf("missing = %v, want [ghost]", missing)
	}
	if got := v.Selected(); len(got) != 1 || got[0] != a {
		t.Fatalf("Selected() = %v, want [%s]", got, a)
	}
	if colorOf(t, v, a).Equal(colorA) {
		t.Error("selection should recolor the object")
	}

	// Selecting {a, b} against selection {a} toggles to {b}.
	v.Select(a, b)
	if got := v.Selected(); len(got) != 1 || got[0] != b {
		t.Errorf("Selected() = %v, want [%s]", got, b)
	}
	if got := colorOf(t, v, a); !got.Equal(colorA) {
		t.Errorf("deselected object color = %v, want original %v", got, colorA)
	}

	v.Deselect()
	if got := v.Selected(); len(got) != 0 {
		t.Errorf("Selected() after Deselect = %v, want none", got)
	}
}

func TestSelectUsesHighlightColor(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	teal := color.MustParse("#008080")
	v.SetHighlightColor(teal)

	v.Select(a)
	got := colorOf(t, v, a)
	if !got.Equal(teal.ToChannels(got.Channels())) {
		t.Errorf("selected color = %v, want highlight color %v", got, teal)
	}
}

func TestMutationsInvalidateIndex(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")

	ops := []struct {
		name string
		run  func()
	}{
		{"hide", func() { v.Hide(a) }},
		{"unhide", func() { v.Unhide(a) }},
		{"pin", func() { v.Pin(a) }},
		{"unpin", func() { v.Unpin(a) }},
		{"set color", func() { v.SetColor(color.MustParse("#222222"), a) }},
		{"highlight", func() { v.Highlight(DefaultHighlight, a) }},
		{"unhighlight", func() { v.Unhighlight(a) }},
		{"select", func() { v.Select(a) }},
	}
	for _, op := range ops {
		before := v.Objects()
		op.run()
		if v.Objects() == before {
			t.Errorf("%s did not invalidate the identity index", op.name)
		}
	}
}

func TestColorize(t *testing.T) {
	v := newTestViewer(t)
	a := addCloud(t, v, "a")
	b := addCloud(t, v, "b")

	if err := v.Colorize("bright", false); err != nil {
		t.Fatal(err)
	}
	pal, _ := color.Palette("bright")
	gotA := colorOf(t, v, a)
	gotB := colorOf(t, v, b)
	if !gotA.Equal(pal[0].ToChannels(gotA.Channels())) {
		t.Errorf("a = %v, want palette[0] %v", gotA, pal[0])
	}
	if !gotB.Equal(pal[1].ToChannels(gotB.Channels())) {
		t.Errorf("b = %v, want palette[1] %v", gotB, pal[1])
	}

	if err := v.Colorize("no-such-palette", false); err == nil {
		t.Error("unknown palette should error")
	}
}
