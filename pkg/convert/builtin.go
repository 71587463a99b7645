package convert

import (
	"reflect"

	"github.com/chazu/prism/pkg/color"
	"github.com/chazu/prism/pkg/geom"
	"github.com/chazu/prism/pkg/scene"
	"github.com/chazu/prism/pkg/visual"
)

// fallbackColor is used when a handler needs a color and none was
// injected (e.g. when convert is driven without a viewer).
var fallbackColor = visual.DefaultColor

// RegisterDefaults installs the built-in converters for the geom data
// types plus the primitive pass-through. It is an explicit entry point:
// nothing registers itself at import time, so the hosting application
// controls exactly which conversions exist and in which order.
func RegisterDefaults(r *Registry) error {
	type entry struct {
		m    Matcher
		h    Handler
		opts []RuleOption
	}
	entries := []entry{
		{Type((*geom.Mesh)(nil)), meshHandler, []RuleOption{AcceptsColor()}},
		{Type(geom.PointCloud(nil)), pointsHandler, []RuleOption{AcceptsColor()}},
		{Type(geom.LineStrip(nil)), linesHandler, []RuleOption{AcceptsColor()}},
		{Type((*geom.Volume)(nil)), volumeHandler, nil},
		{Predicate(isVec3Slice), rawPointsHandler, []RuleOption{AcceptsColor()}},
		{TypeOf(reflect.TypeOf((*scene.Primitive)(nil)).Elem()), passthroughHandler, nil},
	}
	for _, e := range entries {
		if err := r.Register(e.m, e.h, Last, e.opts...); err != nil {
			return err
		}
	}
	return nil
}

func pickColor(opts Options) color.Color {
	if opts.Color != nil {
		return *opts.Color
	}
	return fallbackColor
}

func meshHandler(value any, opts Options) ([]scene.Primitive, error) {
	m := value.(*geom.Mesh)
	if len(opts.Colors) > 0 {
		vis, err := visual.NewMeshColors(m, opts.Colors)
		if err != nil {
			return nil, err
		}
		if vis == nil {
			return nil, nil
		}
		return []scene.Primitive{vis}, nil
	}
	vis := visual.NewMesh(m, pickColor(opts))
	if vis == nil {
		return nil, nil
	}
	return []scene.Primitive{vis}, nil
}

func pointsHandler(value any, opts Options) ([]scene.Primitive, error) {
	pc := value.(geom.PointCloud)
	vis := visual.NewPoints(pc, pickColor(opts), opts.Size)
	if vis == nil {
		return nil, nil
	}
	return []scene.Primitive{vis}, nil
}

// rawPointsHandler covers untyped []geom.Vec3 inputs, so callers can pass
// plain coordinate slices without wrapping them in a PointCloud.
func rawPointsHandler(value any, opts Options) ([]scene.Primitive, error) {
	return pointsHandler(geom.PointCloud(value.([]geom.Vec3)), opts)
}

func isVec3Slice(v any) bool {
	_, ok := v.([]geom.Vec3)
	return ok
}

func linesHandler(value any, opts Options) ([]scene.Primitive, error) {
	ls := value.(geom.LineStrip)
	vis := visual.NewLines(ls, pickColor(opts), opts.Width)
	if vis == nil {
		return nil, nil
	}
	return []scene.Primitive{vis}, nil
}

func volumeHandler(value any, _ Options) ([]scene.Primitive, error) {
	vis := visual.NewVolume(value.(*geom.Volume))
	if vis == nil {
		return nil, nil
	}
	return []scene.Primitive{vis}, nil
}

// passthroughHandler accepts anything that already is a primitive.
func passthroughHandler(value any, _ Options) ([]scene.Primitive, error) {
	return []scene.Primitive{value.(scene.Primitive)}, nil
}
