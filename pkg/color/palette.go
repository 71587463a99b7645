package color

import "fmt"

// DefaultPalette is the palette used when none is configured.
const DefaultPalette = "classic"

// palettes holds the built-in cyclic palettes. Colors repeat once the
// sequence is exhausted.
var palettes = map[string][]string{
	"classic": {
		"#4a90d9", "#e67e22", "#2ecc71", "#9b59b6",
		"#e74c3c", "#1abc9c", "#f39c12", "#3498db",
	},
	"muted": {
		"#4878cf", "#6acc65", "#d65f5f", "#b47cc7",
		"#c4ad66", "#77bedb",
	},
	"bright": {
		"#023eff", "#ff7c00", "#1ac938", "#e8000b",
		"#8b2be2", "#9f4800", "#f14cc1", "#a3a3a3",
		"#ffc400", "#00d7ff",
	},
}

// Palette returns the colors of a named palette in fixed order.
func Palette(name string) ([]Color, error) {
	hexes, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("color: unknown palette %q", name)
	}
	out := make([]Color, len(hexes))
	for i, h := range hexes {
		out[i] = MustParse(h)
	}
	return out, nil
}

// PaletteNames returns the names of all built-in palettes.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	return names
}
