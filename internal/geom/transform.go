package geom

import "github.com/go-gl/mathgl/mgl64"

// TRS builds the translate·rotate·scale model matrix of a body.
func TRS(pos mgl64.Vec3, rot Euler, scale mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(pos[0], pos[1], pos[2])
	r := rot.Quat().Mat4()
	s := mgl64.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// Apply transforms a point by m.
func Apply(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}
