package spring

import (
	"math"

	"github.com/san-kum/springpend/internal/kinematics"
)

// ID identifies one of the two springs.
type ID int

const (
	Coil    ID = iota // vertical spring around the main axle
	Torsion           // spring between link one and link two
)

var IDs = []ID{Coil, Torsion}

func (id ID) String() string {
	switch id {
	case Coil:
		return "coil"
	case Torsion:
		return "torsion"
	}
	return "unknown"
}

// Fixed geometry of each spring.
const (
	coilCoils  = 10
	coilRadius = 0.25
	coilInset  = 0.6

	torsionCoils  = 20
	torsionRadius = 0.15

	wireRadius = 0.05
)

// Generator builds spring surfaces from engine state.
type Generator struct {
	engine *kinematics.Engine
	res    Resolution
}

func NewGenerator(engine *kinematics.Engine, res Resolution) (*Generator, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &Generator{engine: engine, res: res}, nil
}

func (g *Generator) Resolution() Resolution { return g.res }

// CoilSpec is expressed in the main axle frame, so it has no attachment.
func (g *Generator) CoilSpec(n int) (Spec, error) {
	q, err := g.engine.Sample(n)
	if err != nil {
		return Spec{}, err
	}
	c := g.engine.Constants()
	return Spec{
		SpiralRadius: coilRadius,
		WireRadius:   wireRadius,
		Coils:        coilCoils,
		Pitch:        (c.L0 + q.Ext1 - coilInset) * 2 * math.Pi / coilCoils,
	}, nil
}

// TorsionSpec is mounted at the tip of link one.
func (g *Generator) TorsionSpec(n int) (Spec, error) {
	tip, err := g.engine.LinkOneTip(n)
	if err != nil {
		return Spec{}, err
	}
	q, _ := g.engine.Sample(n)
	c := g.engine.Constants()
	return Spec{
		SpiralRadius: torsionRadius,
		WireRadius:   wireRadius,
		Coils:        torsionCoils,
		Pitch:        (c.L2 + q.Ext2) * 2 * math.Pi / torsionCoils,
		Attachment:   tip,
	}, nil
}

func (g *Generator) Spec(id ID, n int) (Spec, error) {
	if id == Torsion {
		return g.TorsionSpec(n)
	}
	return g.CoilSpec(n)
}

// Mesh tessellates one spring for sample n.
func (g *Generator) Mesh(id ID, n int) (*Mesh, error) {
	spec, err := g.Spec(id, n)
	if err != nil {
		return nil, err
	}
	return Surface(spec, g.res)
}

// Both returns the coil and torsion meshes for sample n.
func (g *Generator) Both(n int) (coil, torsion *Mesh, err error) {
	if coil, err = g.Mesh(Coil, n); err != nil {
		return nil, nil, err
	}
	if torsion, err = g.Mesh(Torsion, n); err != nil {
		return nil, nil, err
	}
	return coil, torsion, nil
}
