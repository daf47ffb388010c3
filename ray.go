package tabletop

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon is the smallest |dot(direction, normal)| treated as a hit.
// Rays closer to parallel than this are rejected.
const parallelEpsilon = 1e-6

// Ray is a half-line in world space. Direction is normalized by every
// constructor in this package.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Plane is an infinite plane given by a point on it and its normal.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// GroundPlane returns a horizontal plane at the given height.
func GroundPlane(height float64) Plane {
	return Plane{Point: mgl64.Vec3{0, height, 0}, Normal: mgl64.Vec3{0, 1, 0}}
}

// Through returns a plane with the same normal passing through p.
func (pl Plane) Through(p mgl64.Vec3) Plane {
	return Plane{Point: p, Normal: pl.Normal}
}

// Distance returns the distance along the ray to the plane, or false when
// the ray is parallel to the plane or the plane lies behind the origin.
//
//	t = dot(planePoint - rayOrigin, normal) / dot(rayDirection, normal)
func (pl Plane) Distance(r Ray) (float64, bool) {
	denom := r.Direction.Dot(pl.Normal)
	if math.Abs(denom) < parallelEpsilon {
		return 0, false
	}
	t := pl.Point.Sub(r.Origin).Dot(pl.Normal) / denom
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	return t, true
}

// IntersectPlane intersects a ray with a plane and returns the world point.
// It reports false when the ray is parallel (or near-parallel) to the plane
// or when the intersection lies behind the ray origin.
func IntersectPlane(r Ray, pl Plane) (mgl64.Vec3, bool) {
	t, ok := pl.Distance(r)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return r.At(t), true
}
