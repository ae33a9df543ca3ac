// Package geom provides the rotation conventions used by the scene bodies.
//
// Euler angles are stored per axis together with an explicit [Order]. The
// first axis named in the order is applied first, about fixed world axes, so
// [XYZ] composes Rz·Ry·Rx. Composition is done on mgl64 quaternions.
package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Order names the axis sequence of an Euler rotation.
type Order string

const (
	XYZ Order = "XYZ"
	XZY Order = "XZY"
	YXZ Order = "YXZ"
	YZX Order = "YZX"
	ZXY Order = "ZXY"
	ZYX Order = "ZYX"
)

var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// Valid reports whether o is one of the six Tait-Bryan orders.
func (o Order) Valid() bool {
	switch o {
	case XYZ, XZY, YXZ, YZX, ZXY, ZYX:
		return true
	}
	return false
}

// Euler is a rotation given as per-axis angles in radians.
type Euler struct {
	X, Y, Z float64
	Order   Order
}

// RotX is a single rotation about x.
func RotX(angle float64) Euler { return Euler{X: angle, Order: XYZ} }

// Quat composes the three axis rotations in Order.
func (e Euler) Quat() mgl64.Quat {
	order := e.Order
	if order == "" {
		order = XYZ
	}
	if !order.Valid() {
		panic(fmt.Sprintf("geom: invalid rotation order %q", order))
	}

	q := mgl64.QuatIdent()
	for _, axis := range string(order) {
		// Each later rotation is applied on the left.
		q = e.axisQuat(axis).Mul(q)
	}
	return q.Normalize()
}

func (e Euler) axisQuat(axis rune) mgl64.Quat {
	switch axis {
	case 'X':
		return mgl64.QuatRotate(e.X, AxisX)
	case 'Y':
		return mgl64.QuatRotate(e.Y, AxisY)
	default:
		return mgl64.QuatRotate(e.Z, AxisZ)
	}
}

// Rotate applies the rotation to v.
func (e Euler) Rotate(v mgl64.Vec3) mgl64.Vec3 {
	return e.Quat().Rotate(v)
}

// IsZero reports whether all three angles are zero.
func (e Euler) IsZero() bool {
	return e.X == 0 && e.Y == 0 && e.Z == 0
}

// RollX rotates v about the x (depth) axis by -a, which is the sense used by
// the torsion-spring attachment: y' = cos(a)y + sin(a)z, z' = -sin(a)y + cos(a)z.
func RollX(a float64, v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Rotate3DX(-a).Mul3x1(v)
}
