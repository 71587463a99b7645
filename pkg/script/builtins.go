package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/prism/pkg/color"
	"github.com/chazu/prism/pkg/geom"
	"github.com/chazu/prism/pkg/sdfgeom"
	"github.com/chazu/prism/pkg/viewer"
)

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks whether a Sexp is a preprocessed keyword string and
// returns the keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates a mixed argument list into keyword and positional
// arguments. A trailing keyword with no value becomes a nil flag.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

func toColor(s zygo.Sexp) (color.Color, error) {
	hex, err := toString(s)
	if err != nil {
		return color.Color{}, err
	}
	return color.Parse(hex)
}

// toIDs collects positional string arguments into object ids.
func toIDs(args []zygo.Sexp) ([]string, error) {
	ids := make([]string, 0, len(args))
	for _, a := range args {
		id, err := toString(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// toPoints reads flat coordinate triples: (add-points 0 0 0  1 2 3).
func toPoints(args []zygo.Sexp) ([]geom.Vec3, error) {
	if len(args)%3 != 0 {
		return nil, fmt.Errorf("expected coordinate triples, got %d numbers", len(args))
	}
	pts := make([]geom.Vec3, 0, len(args)/3)
	for i := 0; i < len(args); i += 3 {
		x, err := toFloat64(args[i])
		if err != nil {
			return nil, err
		}
		y, err := toFloat64(args[i+1])
		if err != nil {
			return nil, err
		}
		z, err := toFloat64(args[i+2])
		if err != nil {
			return nil, err
		}
		pts = append(pts, geom.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})
	}
	return pts, nil
}

func idList(ids []string) zygo.Sexp {
	arr := make([]zygo.Sexp, len(ids))
	for i, id := range ids {
		arr[i] = &zygo.SexpStr{S: id}
	}
	return &zygo.SexpArray{Val: arr}
}

// addOptions reads the shared :name/:color/:size/:width keywords.
func addOptions(pa kwArgs) (*viewer.AddOptions, error) {
	opts := &viewer.AddOptions{}
	if v, ok := pa.kw["name"]; ok {
		s, err := toString(v)
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		opts.Name = s
	}
	if v, ok := pa.kw["color"]; ok {
		c, err := toColor(v)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		opts.Color = &c
	}
	if v, ok := pa.kw["size"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("size: %w", err)
		}
		opts.Size = float32(f)
	}
	if v, ok := pa.kw["width"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("width: %w", err)
		}
		opts.Width = float32(f)
	}
	return opts, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the viewer verbs into a zygomys environment.
// Console source must be preprocessed with preprocess() first so that
// :keyword tokens arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, v *viewer.Viewer) {

	add := func(value any, pa kwArgs) (zygo.Sexp, error) {
		opts, err := addOptions(pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		ids, err := v.Add(value, opts)
		if err != nil {
			return zygo.SexpNull, err
		}
		return idList(ids), nil
	}

	// (add-points x y z [x y z ...] :color "#ff0000" :size 5 :name "cloud")
	env.AddFunction("add_points", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pts, err := toPoints(pa.positional)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-points: %w", err)
		}
		return add(geom.PointCloud(pts), pa)
	})

	// (add-line x y z x y z [...] :color "#00ff00" :width 2)
	env.AddFunction("add_line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pts, err := toPoints(pa.positional)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-line: %w", err)
		}
		return add(geom.LineStrip(pts), pa)
	})

	// (add-box w h d :color "#4a90d9")
	env.AddFunction("add_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("add-box: want width height depth")
		}
		var dims [3]float64
		for i, a := range pa.positional {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-box: %w", err)
			}
			dims[i] = f
		}
		solid, err := sdfgeom.Box(dims[0], dims[1], dims[2])
		if err != nil {
			return zygo.SexpNull, err
		}
		return add(solid, pa)
	})

	// (add-sphere r :color "#e67e22")
	env.AddFunction("add_sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("add-sphere: want radius")
		}
		r, err := toFloat64(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-sphere: %w", err)
		}
		solid, err := sdfgeom.Sphere(r)
		if err != nil {
			return zygo.SexpNull, err
		}
		return add(solid, pa)
	})

	// (add-cylinder h r)
	env.AddFunction("add_cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("add-cylinder: want height radius")
		}
		h, err := toFloat64(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-cylinder: %w", err)
		}
		r, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-cylinder: %w", err)
		}
		solid, err := sdfgeom.Cylinder(h, r)
		if err != nil {
			return zygo.SexpNull, err
		}
		return add(solid, pa)
	})

	// State verbs taking object ids: (hide "Mesh" "Scatter.002") etc.
	idVerb := func(name string, fn func(ids ...string) []string) {
		env.AddFunction(name, func(env *zygo.Zlisp, fname string, args []zygo.Sexp) (zygo.Sexp, error) {
			ids, err := toIDs(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", strings.ReplaceAll(name, "_", "-"), err)
			}
			return idList(fn(ids...)), nil
		})
	}
	idVerb("hide", v.Hide)
	idVerb("unhide", v.Unhide)
	idVerb("pin", v.Pin)
	idVerb("unpin", v.Unpin)
	idVerb("unhighlight", v.Unhighlight)
	idVerb("select", v.Select)
	idVerb("highlight", func(ids ...string) []string {
		return v.Highlight(viewer.DefaultHighlight, ids...)
	})

	// (set-color "Mesh" "#ff0000")
	env.AddFunction("set_color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("set-color: want id color")
		}
		id, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-color: %w", err)
		}
		c, err := toColor(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-color: %w", err)
		}
		return idList(v.SetColor(c, id)), nil
	})

	// (colorize "bright" true)
	env.AddFunction("colorize", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		palette := v.Palette()
		shuffle := false
		if len(args) > 0 {
			s, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("colorize: %w", err)
			}
			palette = s
		}
		if len(args) > 1 {
			b, err := toBool(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("colorize: %w", err)
			}
			shuffle = b
		}
		if err := v.Colorize(palette, shuffle); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// (remove "Mesh" ...)
	env.AddFunction("remove", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ids, err := toIDs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove: %w", err)
		}
		v.Remove(ids...)
		return zygo.SexpNull, nil
	})

	// (pop) or (pop n)
	env.AddFunction("pop", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n := 1
		if len(args) > 0 {
			var err error
			n, err = toInt(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pop: %w", err)
			}
		}
		v.Pop(n)
		return zygo.SexpNull, nil
	})

	// (clear)
	env.AddFunction("clear", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v.Clear()
		return zygo.SexpNull, nil
	})

	// Queries.
	listVerb := func(name string, fn func() []string) {
		env.AddFunction(name, func(env *zygo.Zlisp, fname string, args []zygo.Sexp) (zygo.Sexp, error) {
			return idList(fn()), nil
		})
	}
	listVerb("objects", v.IDs)
	listVerb("visible", v.VisibleIDs)
	listVerb("invisible", v.InvisibleIDs)
	listVerb("pinned", v.PinnedIDs)
	listVerb("highlighted", v.HighlightedIDs)
	listVerb("selected", v.Selected)

	// (show-bounds true)
	env.AddFunction("show_bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		show := true
		if len(args) > 0 {
			b, err := toBool(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("show-bounds: %w", err)
			}
			show = b
		}
		v.ShowBounds(show)
		return zygo.SexpNull, nil
	})
}
