package tabletop

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HitShape is a hit-testable volume in a piece's local space.
// IntersectLocal returns the distance along the (local-space) ray to the
// nearest entry point, or false when the ray misses.
type HitShape interface {
	IntersectLocal(r Ray) (float64, bool)
}

// HitBox is an axis-aligned box in local coordinates, centered on Center.
type HitBox struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// IntersectLocal runs a slab test against the box.
func (b HitBox) IntersectLocal(r Ray) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	for i := 0; i < 3; i++ {
		lo := b.Center[i] - b.HalfExtents[i]
		hi := b.Center[i] + b.HalfExtents[i]
		o := r.Origin[i]
		d := r.Direction[i]
		if math.Abs(d) < parallelEpsilon {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		// Origin inside the box.
		return 0, true
	}
	return tMin, true
}

// HitCylinder is a capped cylinder standing on the local Y axis, centered on
// Center.
type HitCylinder struct {
	Center mgl64.Vec3
	Radius float64
	Height float64
}

// IntersectLocal tests the ray against the cylinder's side and caps.
func (c HitCylinder) IntersectLocal(r Ray) (float64, bool) {
	half := c.Height / 2
	o := r.Origin.Sub(c.Center)
	d := r.Direction

	best := math.Inf(1)
	inside := func(p mgl64.Vec3) bool {
		return p.X()*p.X()+p.Z()*p.Z() <= c.Radius*c.Radius+1e-9
	}
	if inside(o) && o.Y() >= -half && o.Y() <= half {
		return 0, true
	}

	// Side: solve (ox + t dx)^2 + (oz + t dz)^2 = r^2.
	a := d.X()*d.X() + d.Z()*d.Z()
	if a > parallelEpsilon {
		b := 2 * (o.X()*d.X() + o.Z()*d.Z())
		cc := o.X()*o.X() + o.Z()*o.Z() - c.Radius*c.Radius
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t < 0 {
					continue
				}
				y := o.Y() + t*d.Y()
				if y >= -half && y <= half && t < best {
					best = t
				}
			}
		}
	}

	// Caps.
	if math.Abs(d.Y()) > parallelEpsilon {
		for _, capY := range [2]float64{-half, half} {
			t := (capY - o.Y()) / d.Y()
			if t < 0 || t >= best {
				continue
			}
			if inside(o.Add(d.Mul(t))) {
				best = t
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
