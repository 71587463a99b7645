// Package sdfgeom plugs signed-distance-field solids from
// github.com/deadsy/sdfx into the conversion registry: any sdf.SDF3
// handed to the viewer is tessellated with marching cubes and shown as
// a mesh.
package sdfgeom

import (
	"fmt"
	"reflect"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/prism/pkg/convert"
	"github.com/chazu/prism/pkg/geom"
	"github.com/chazu/prism/pkg/scene"
	"github.com/chazu/prism/pkg/visual"
)

// defaultCells controls marching cubes tessellation resolution.
const defaultCells = 200

// Register installs the SDF3 converter. The matcher is an interface
// match, so every concrete sdfx solid type is covered by this one rule.
func Register(r *convert.Registry) error {
	m := convert.TypeOf(reflect.TypeOf((*sdf.SDF3)(nil)).Elem())
	return r.Register(m, handle, convert.Last, convert.AcceptsColor())
}

func handle(value any, opts convert.Options) ([]scene.Primitive, error) {
	s, ok := value.(sdf.SDF3)
	if !ok {
		return nil, fmt.Errorf("sdfgeom: expected sdf.SDF3, got %T", value)
	}
	mesh, err := Tessellate(s, defaultCells)
	if err != nil {
		return nil, err
	}
	c := visual.DefaultColor
	if opts.Color != nil {
		c = *opts.Color
	}
	mv := visual.NewMesh(mesh, c)
	if mv == nil {
		return nil, nil
	}
	return []scene.Primitive{mv}, nil
}

// Tessellate runs marching cubes over a solid and returns an indexed
// triangle mesh. Marching cubes emits triangle soup, so vertices are
// unshared and faces index them consecutively.
func Tessellate(s sdf.SDF3, cells int) (*geom.Mesh, error) {
	if cells <= 0 {
		cells = defaultCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfgeom: tessellation produced no triangles")
	}

	mesh := &geom.Mesh{
		Vertices: make([]geom.Vec3, 0, len(triangles)*3),
		Faces:    make([][3]uint32, 0, len(triangles)),
	}
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.Vertices = append(mesh.Vertices, geom.Vec3{
				X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z),
			})
		}
		base := uint32(i * 3)
		mesh.Faces = append(mesh.Faces, [3]uint32{base, base + 1, base + 2})
	}
	return mesh, nil
}

// Box returns a box solid with its minimum corner at the origin.
// sdf.Box3D centers the box, so it is shifted by half-dimensions.
func Box(x, y, z float64) (sdf.SDF3, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfgeom: box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return sdf.Transform3D(s, m), nil
}

// Sphere returns a sphere solid centered at the origin.
func Sphere(radius float64) (sdf.SDF3, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfgeom: sphere: %w", err)
	}
	return s, nil
}

// Cylinder returns a cylinder solid centered at the origin.
func Cylinder(height, radius float64) (sdf.SDF3, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfgeom: cylinder: %w", err)
	}
	return s, nil
}
