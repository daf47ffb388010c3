package tabletop

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a rigid transform: a rotation followed by a translation.
// The zero value has a zero quaternion, which every method treats as the
// identity rotation.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// IdentityTransform returns the transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// NewTransform returns a transform at the given translation with no rotation.
func NewTransform(translation mgl64.Vec3) Transform {
	return Transform{Translation: translation, Rotation: mgl64.QuatIdent()}
}

// rotation returns the normalized rotation, substituting the identity for a
// zero quaternion.
func (t Transform) rotation() mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return t.Rotation.Normalize()
}

// WithRotation returns a copy of t with the given rotation.
func (t Transform) WithRotation(q mgl64.Quat) Transform {
	t.Rotation = q
	return t
}

// Mat4 returns the 4x4 matrix Translate * Rotate.
func (t Transform) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(t.Translation.Elem()).Mul4(t.rotation().Mat4())
}

// Apply transforms a local point into the transform's parent space.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Translation.Add(t.rotation().Rotate(p))
}

// ApplyDir rotates a direction without translating it.
func (t Transform) ApplyDir(d mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(d)
}

// Compose returns parent * child: the child transform expressed in the
// parent's parent space.
func (t Transform) Compose(child Transform) Transform {
	rot := t.rotation()
	return Transform{
		Translation: t.Translation.Add(rot.Rotate(child.Translation)),
		Rotation:    rot.Mul(child.rotation()).Normalize(),
	}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	inv := t.rotation().Inverse()
	return Transform{
		Translation: inv.Rotate(t.Translation.Mul(-1)),
		Rotation:    inv,
	}
}

// Forward returns the unit direction the transform faces: its negative local
// Z axis.
func (t Transform) Forward() mgl64.Vec3 {
	return t.rotation().Rotate(mgl64.Vec3{0, 0, -1}).Normalize()
}

// Up returns the unit local Y axis.
func (t Transform) Up() mgl64.Vec3 {
	return t.rotation().Rotate(mgl64.Vec3{0, 1, 0}).Normalize()
}

// Right returns the unit local X axis.
func (t Transform) Right() mgl64.Vec3 {
	return t.rotation().Rotate(mgl64.Vec3{1, 0, 0}).Normalize()
}

// EulerRotation builds a rotation from angles in degrees applied in Y, X, Z
// order (yaw, then pitch, then roll), matching how pieces are authored in
// config files.
func EulerRotation(deg mgl64.Vec3) mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(deg.Y()), mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(mgl64.DegToRad(deg.X()), mgl64.Vec3{1, 0, 0})
	roll := mgl64.QuatRotate(mgl64.DegToRad(deg.Z()), mgl64.Vec3{0, 0, 1})
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// YawRotation returns a rotation of the given radians about the vertical axis.
func YawRotation(radians float64) mgl64.Quat {
	return mgl64.QuatRotate(radians, mgl64.Vec3{0, 1, 0})
}
