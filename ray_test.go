package tabletop

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vecApprox(a, b mgl64.Vec3, eps float64) bool {
	return approxEqual(a.X(), b.X(), eps) &&
		approxEqual(a.Y(), b.Y(), eps) &&
		approxEqual(a.Z(), b.Z(), eps)
}

func TestNewRayNormalizes(t *testing.T) {
	r := NewRay(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, -10, 0})
	if !vecApprox(r.Direction, mgl64.Vec3{0, -1, 0}, epsilon) {
		t.Errorf("Direction = %v, want (0,-1,0)", r.Direction)
	}
	if !vecApprox(r.At(2), mgl64.Vec3{1, 0, 3}, epsilon) {
		t.Errorf("At(2) = %v, want (1,0,3)", r.At(2))
	}
}

func TestIntersectPlane(t *testing.T) {
	ground := GroundPlane(0)

	tests := []struct {
		name   string
		ray    Ray
		plane  Plane
		want   mgl64.Vec3
		wantOK bool
	}{
		{
			name:   "straight down",
			ray:    NewRay(mgl64.Vec3{2, 10, -3}, mgl64.Vec3{0, -1, 0}),
			plane:  ground,
			want:   mgl64.Vec3{2, 0, -3},
			wantOK: true,
		},
		{
			name:   "oblique",
			ray:    NewRay(mgl64.Vec3{0, 15, 15}, mgl64.Vec3{0, -1, -1}),
			plane:  ground,
			want:   mgl64.Vec3{0, 0, 0},
			wantOK: true,
		},
		{
			name:   "raised plane",
			ray:    NewRay(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, -1, 0}),
			plane:  GroundPlane(2),
			want:   mgl64.Vec3{3, 2, 0},
			wantOK: true,
		},
		{
			name:   "from below",
			ray:    NewRay(mgl64.Vec3{1, -4, 1}, mgl64.Vec3{0, 1, 0}),
			plane:  ground,
			want:   mgl64.Vec3{1, 0, 1},
			wantOK: true,
		},
		{
			name:  "parallel",
			ray:   NewRay(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}),
			plane: ground,
		},
		{
			name:  "near parallel",
			ray:   NewRay(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, -1e-9, 0}),
			plane: ground,
		},
		{
			name:  "plane behind origin",
			ray:   NewRay(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}),
			plane: ground,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntersectPlane(tt.ray, tt.plane)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !vecApprox(got, tt.want, 1e-9) {
				t.Errorf("point = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersectPlaneOnPlane(t *testing.T) {
	// Origin on the plane, pointing away: t = 0 is a valid hit.
	r := NewRay(mgl64.Vec3{4, 0, 4}, mgl64.Vec3{0, 1, 0})
	got, ok := IntersectPlane(r, GroundPlane(0))
	if !ok || !vecApprox(got, mgl64.Vec3{4, 0, 4}, epsilon) {
		t.Errorf("IntersectPlane = %v, %v; want (4,0,4), true", got, ok)
	}
}

func TestPlaneDistanceRejectsNaN(t *testing.T) {
	r := Ray{Origin: mgl64.Vec3{math.NaN(), 1, 0}, Direction: mgl64.Vec3{0, -1, 0}}
	if _, ok := GroundPlane(0).Distance(r); ok {
		t.Error("Distance accepted a NaN origin")
	}
}

func TestPlaneThrough(t *testing.T) {
	p := GroundPlane(0).Through(mgl64.Vec3{3, 0.375, -1})
	if p.Normal != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Normal = %v", p.Normal)
	}
	got, ok := IntersectPlane(NewRay(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, -1, 0}), p)
	if !ok || !approxEqual(got.Y(), 0.375, epsilon) {
		t.Errorf("hit = %v, %v; want y = 0.375", got, ok)
	}
}
