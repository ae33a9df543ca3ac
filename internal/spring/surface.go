// Package spring tessellates the two helical spring surfaces.
//
// Each spring is a circle of radius WireRadius swept along a helix of radius
// SpiralRadius. With u in [0, Coils] and v in [0, 1]:
//
//	x = (R + r cos 2πv) cos 2πu
//	y = (pitch / 2π) u + r sin 2πv
//	z = (R + r cos 2πv) sin 2πu
//
// The local surface is then placed by the spring's attachment frame.
package spring

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/springpend/internal/kinematics"
)

// ErrInvalidResolution indicates a non-positive tessellation step count.
var ErrInvalidResolution = errors.New("spring: tessellation steps must be positive")

// Resolution is the number of intervals along u and v.
type Resolution struct {
	U int `yaml:"u"`
	V int `yaml:"v"`
}

func DefaultResolution() Resolution { return Resolution{U: 200, V: 200} }

func (r Resolution) Validate() error {
	if r.U <= 0 || r.V <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidResolution, r.U, r.V)
	}
	return nil
}

// Spec fully determines one spring surface for one frame.
type Spec struct {
	SpiralRadius float64
	WireRadius   float64
	Coils        float64
	Pitch        float64
	Attachment   kinematics.Attachment
}

// Point evaluates the placed surface at (u, v).
func (s Spec) Point(u, v float64) mgl64.Vec3 {
	tu, tv := 2*math.Pi*u, 2*math.Pi*v
	ring := s.SpiralRadius + s.WireRadius*math.Cos(tv)
	local := mgl64.Vec3{
		ring * math.Cos(tu),
		s.Pitch/(2*math.Pi)*u + s.WireRadius*math.Sin(tv),
		ring * math.Sin(tu),
	}
	return s.Attachment.Place(local)
}

// Length is the axial extent of the helix centreline.
func (s Spec) Length() float64 { return s.Pitch / (2 * math.Pi) * s.Coils }

// Mesh is a row-major (U+1)x(V+1) grid of surface points. Row i holds
// u = i*Coils/U; column j holds v = j/V.
type Mesh struct {
	U, V   int
	Points []mgl64.Vec3
}

// Surface samples spec on a fresh grid.
func Surface(spec Spec, res Resolution) (*Mesh, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}
	m := &Mesh{U: res.U, V: res.V, Points: make([]mgl64.Vec3, (res.U+1)*(res.V+1))}
	du := spec.Coils / float64(res.U)
	dv := 1 / float64(res.V)
	for i := 0; i <= res.U; i++ {
		u := float64(i) * du
		row := m.Points[i*(res.V+1):]
		for j := 0; j <= res.V; j++ {
			row[j] = spec.Point(u, float64(j)*dv)
		}
	}
	return m, nil
}

// At returns the point at grid row i, column j.
func (m *Mesh) At(i, j int) mgl64.Vec3 { return m.Points[i*(m.V+1)+j] }

// Rows and Cols are the grid dimensions in points.
func (m *Mesh) Rows() int { return m.U + 1 }
func (m *Mesh) Cols() int { return m.V + 1 }

// Quads lists the four corner indices of every grid cell, counter-clockwise.
func (m *Mesh) Quads() [][4]int {
	quads := make([][4]int, 0, m.U*m.V)
	cols := m.V + 1
	for i := 0; i < m.U; i++ {
		for j := 0; j < m.V; j++ {
			a := i*cols + j
			quads = append(quads, [4]int{a, a + cols, a + cols + 1, a + 1})
		}
	}
	return quads
}

// Bounds returns the axis-aligned box enclosing the mesh.
func (m *Mesh) Bounds() (lo, hi mgl64.Vec3) {
	if len(m.Points) == 0 {
		return
	}
	lo, hi = m.Points[0], m.Points[0]
	for _, p := range m.Points[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}
	return lo, hi
}

// Equal reports whether two meshes are bit-identical.
func (m *Mesh) Equal(o *Mesh) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.U != o.U || m.V != o.V || len(m.Points) != len(o.Points) {
		return false
	}
	for i := range m.Points {
		if m.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}
