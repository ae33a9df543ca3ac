package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/springpend/internal/geom"
)

// BodyID is a typed handle for one rigid body of the scene.
type BodyID int

const (
	Ground BodyID = iota
	Backdrop
	Support
	Axle
	Slider
	Bob
	PivotPin
	PivotHub
	UpperArm
	ElbowPin
	ElbowHub
	numBodies
)

// StaticIDs are placed once per run.
var StaticIDs = []BodyID{Ground, Backdrop, Support, Axle}

// DynamicIDs move with every frame.
var DynamicIDs = []BodyID{Slider, Bob, PivotPin, PivotHub, UpperArm, ElbowPin, ElbowHub}

var bodyNames = [...]string{
	Ground:   "ground",
	Backdrop: "backdrop",
	Support:  "support",
	Axle:     "axle",
	Slider:   "slider",
	Bob:      "bob",
	PivotPin: "pivot_pin",
	PivotHub: "pivot_hub",
	UpperArm: "upper_arm",
	ElbowPin: "elbow_pin",
	ElbowHub: "elbow_hub",
}

func (id BodyID) String() string {
	if id < 0 || id >= numBodies {
		return "unknown"
	}
	return bodyNames[id]
}

// Static reports whether the body never moves.
func (id BodyID) Static() bool { return id <= Axle }

// Pose places one body for one frame.
type Pose struct {
	Position mgl64.Vec3
	Rotation geom.Euler
	Scale    mgl64.Vec3
}

var unit = mgl64.Vec3{1, 1, 1}

func (p Pose) Orientation() mgl64.Quat { return p.Rotation.Quat() }

// Matrix is the model matrix of the body.
func (p Pose) Matrix() mgl64.Mat4 { return geom.TRS(p.Position, p.Rotation, p.Scale) }

// BodyPose pairs a pose with its body.
type BodyPose struct {
	ID   BodyID
	Pose Pose
}

// Frame holds the dynamic poses of one sample, in DynamicIDs order.
type Frame struct {
	Index  int
	Bodies []BodyPose
}

// Pose returns the pose of a dynamic body.
func (f *Frame) Pose(id BodyID) (Pose, bool) {
	for _, b := range f.Bodies {
		if b.ID == id {
			return b.Pose, true
		}
	}
	return Pose{}, false
}
