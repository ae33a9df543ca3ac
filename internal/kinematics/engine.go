// Package kinematics maps generalized coordinates to body poses.
//
// The mechanism is a vertical slider carrying a two-link chain. Link one has
// fixed length l1 and swings by theta1 about the depth (x) axis; link two
// extends by ext2 and swings by theta1+theta2. Positions live in the y-z
// plane with a per-body depth offset along x.
package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/springpend/internal/geom"
	"github.com/san-kum/springpend/internal/series"
)

// Engine computes poses for a loaded series. It is read-only after New and
// safe for concurrent use.
type Engine struct {
	series *series.Series
	c      Constants
	ground float64
	static []BodyPose
}

// New precomputes the ground clearance over the whole series and the static
// body poses.
func New(s *series.Series, c Constants) *Engine {
	e := &Engine{
		series: s,
		c:      c,
		ground: -(c.L1 + c.L2 + s.MaxExt2()) * floorClearance,
	}
	e.static = e.staticPoses()
	return e
}

func (e *Engine) Series() *series.Series { return e.series }
func (e *Engine) Constants() Constants   { return e.c }

// GroundHeight is the z of the ground plane, low enough to clear the longest
// extension of link two anywhere in the series.
func (e *Engine) GroundHeight() float64 { return e.ground }

// Static returns the four fixed bodies. The returned slice is a copy.
func (e *Engine) Static() []BodyPose {
	out := make([]BodyPose, len(e.static))
	copy(out, e.static)
	return out
}

func (e *Engine) staticPoses() []BodyPose {
	return []BodyPose{
		{Ground, Pose{Position: mgl64.Vec3{0, 0, e.ground}, Scale: unit}},
		{Backdrop, Pose{Position: mgl64.Vec3{backdropX, 0, 0}, Rotation: geom.Euler{Y: math.Pi / 2}, Scale: unit}},
		{Support, Pose{Position: mgl64.Vec3{0, -0.2, 0}, Scale: mgl64.Vec3{0.33, 0.2, 0.32}}},
		{Axle, Pose{Rotation: geom.RotX(math.Pi / 2), Scale: mgl64.Vec3{1, 1, 20}}},
	}
}

// Sample returns sample n, or an *IndexError.
func (e *Engine) Sample(n int) (series.Sample, error) {
	if !e.series.Valid(n) {
		return series.Sample{}, &IndexError{Index: n, Len: e.series.Len()}
	}
	return e.series.At(n), nil
}

// chain holds the shared trigonometry of one sample.
type chain struct {
	y0       float64
	s1, c1   float64
	s12, c12 float64
	q        series.Sample
}

func (e *Engine) chainAt(q series.Sample) chain {
	return chain{
		y0:  e.c.L0 + q.Ext1,
		s1:  math.Sin(q.Theta1),
		c1:  math.Cos(q.Theta1),
		s12: math.Sin(q.Theta1 + q.Theta2),
		c12: math.Cos(q.Theta1 + q.Theta2),
		q:   q,
	}
}

// along returns the point at radius r on link one.
func (ch chain) along(x, r float64) mgl64.Vec3 {
	return mgl64.Vec3{x, ch.y0 - r*ch.s1, -r * ch.c1}
}

// Dynamic computes the seven moving bodies for sample n.
func (e *Engine) Dynamic(n int) (Frame, error) {
	q, err := e.Sample(n)
	if err != nil {
		return Frame{}, err
	}
	ch := e.chainAt(q)
	l1, l2 := e.c.L1, e.c.L2
	inner := l1 - linkOneInset
	outer := l2 + q.Ext2 + bobPadding
	net := q.Theta1 + q.Theta2

	elbow := ch.along(0, inner)
	bob := mgl64.Vec3{
		ChainDepth,
		elbow[1] - outer*ch.s12,
		elbow[2] - outer*ch.c12,
	}

	return Frame{
		Index: n,
		Bodies: []BodyPose{
			{Slider, Pose{
				Position: mgl64.Vec3{0, ch.y0, 0},
				Scale:    mgl64.Vec3{0.33, 0.86, 0.32},
			}},
			{Bob, Pose{
				Position: bob,
				Rotation: geom.Euler{X: -net, Order: geom.ZYX},
				Scale:    mgl64.Vec3{0.78, 0.78, 0.78},
			}},
			{PivotPin, Pose{
				Position: mgl64.Vec3{pivotPinX, ch.y0, 0},
				Rotation: geom.Euler{Y: math.Pi / 2},
				Scale:    mgl64.Vec3{0.1, 0.1, 0.2},
			}},
			{PivotHub, Pose{
				Position: mgl64.Vec3{pivotHubX, ch.y0, 0},
				Rotation: geom.Euler{Y: math.Pi / 2, Z: -q.Theta1, Order: geom.XZY},
				Scale:    mgl64.Vec3{0.3, 0.3, 0.15},
			}},
			{UpperArm, Pose{
				Position: ch.along(upperArmX, l1/2),
				Rotation: geom.RotX(-q.Theta1),
				Scale:    mgl64.Vec3{0.3, 0.3, l1 / 7},
			}},
			{ElbowPin, Pose{
				Position: ch.along(elbowPinX, inner),
				Rotation: geom.Euler{Y: math.Pi / 2},
				Scale:    mgl64.Vec3{0.05, 0.05, 0.2},
			}},
			{ElbowHub, Pose{
				Position: ch.along(ChainDepth, inner),
				Rotation: geom.Euler{Y: math.Pi / 2, Z: -net, Order: geom.XZY},
				Scale:    mgl64.Vec3{0.3, 0.3, 0.15},
			}},
		},
	}, nil
}

// Attachment is the frame a dependent surface is expressed in: a roll about
// the depth axis followed by a translation.
type Attachment struct {
	Origin mgl64.Vec3
	Roll   float64
}

// Place maps a point from attachment-local to scene coordinates.
func (a Attachment) Place(p mgl64.Vec3) mgl64.Vec3 {
	if a.Roll != 0 {
		p = geom.RollX(a.Roll, p)
	}
	return p.Add(a.Origin)
}

// LinkOneTip returns the full-length end of link one, oriented along link two
// turned a quarter turn, which is where the torsion spring is mounted.
func (e *Engine) LinkOneTip(n int) (Attachment, error) {
	q, err := e.Sample(n)
	if err != nil {
		return Attachment{}, err
	}
	ch := e.chainAt(q)
	return Attachment{
		Origin: ch.along(ChainDepth, e.c.L1),
		Roll:   q.Theta1 + q.Theta2 + math.Pi/2,
	}, nil
}
