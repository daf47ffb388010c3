package tabletop

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func newTestCamera() *Camera {
	return NewCamera(mgl64.Vec3{0, 15, 15}, mgl64.Vec3{0, 0, 0}, Rect{Width: 1280, Height: 720})
}

func TestCameraDefaults(t *testing.T) {
	cam := newTestCamera()
	if cam.Up != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Up = %v, want +Y", cam.Up)
	}
	if !approxEqual(cam.FovY, math.Pi/4, epsilon) {
		t.Errorf("FovY = %f, want pi/4", cam.FovY)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		t.Errorf("clip planes = %v, %v", cam.Near, cam.Far)
	}
}

func TestScreenToRayCenterHitsTarget(t *testing.T) {
	cam := newTestCamera()
	ray, err := cam.ScreenToRay(640, 360)
	if err != nil {
		t.Fatalf("ScreenToRay: %v", err)
	}
	if !approxEqual(ray.Direction.Len(), 1, 1e-9) {
		t.Errorf("direction not normalized: %v", ray.Direction)
	}
	hit, ok := IntersectPlane(ray, GroundPlane(0))
	if !ok {
		t.Fatal("center ray missed the ground")
	}
	if !vecApprox(hit, mgl64.Vec3{0, 0, 0}, 1e-6) {
		t.Errorf("center ray hit %v, want origin", hit)
	}
}

func TestScreenToRayRoundTrip(t *testing.T) {
	cam := newTestCamera()
	points := []mgl64.Vec3{
		{3, 0, -2},
		{-4, 0, 5},
		{0, 0, 7},
		{6, 0, 0},
	}
	for _, p := range points {
		sx, sy, ok := cam.WorldToScreen(p)
		if !ok {
			t.Fatalf("WorldToScreen(%v) failed", p)
		}
		ray, err := cam.ScreenToRay(sx, sy)
		if err != nil {
			t.Fatalf("ScreenToRay(%f, %f): %v", sx, sy, err)
		}
		hit, ok := IntersectPlane(ray, GroundPlane(0))
		if !ok || !vecApprox(hit, p, 1e-6) {
			t.Errorf("round trip of %v = %v, %v", p, hit, ok)
		}
	}
}

func TestScreenToRayScreenAxes(t *testing.T) {
	cam := newTestCamera()
	// Right of center maps to +X; below center maps toward the camera (+Z).
	right, _ := cam.ScreenToRay(900, 360)
	below, _ := cam.ScreenToRay(640, 600)
	hr, _ := IntersectPlane(right, GroundPlane(0))
	hb, _ := IntersectPlane(below, GroundPlane(0))
	if hr.X() <= 0 || !approxEqual(hr.Z(), 0, 1e-6) {
		t.Errorf("right of center hit %v, want +X on the Z=0 line", hr)
	}
	if hb.Z() <= 0 || !approxEqual(hb.X(), 0, 1e-6) {
		t.Errorf("below center hit %v, want +Z on the X=0 line", hb)
	}
}

func TestScreenToRayOutsideViewport(t *testing.T) {
	cam := newTestCamera()
	cam.SetViewport(Rect{X: 100, Y: 50, Width: 400, Height: 300})
	tests := []struct {
		name   string
		sx, sy float64
	}{
		{"left", 99, 100},
		{"right", 501, 100},
		{"above", 200, 49},
		{"below", 200, 351},
		{"negative", -10, -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cam.ScreenToRay(tt.sx, tt.sy)
			if !errors.Is(err, ErrOutsideViewport) {
				t.Errorf("err = %v, want ErrOutsideViewport", err)
			}
		})
	}
	if _, err := cam.ScreenToRay(100, 50); err != nil {
		t.Errorf("viewport corner rejected: %v", err)
	}
}

func TestScreenToRayDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Camera)
	}{
		{"eye equals target", func(c *Camera) { c.Target = c.Position }},
		{"zero fov", func(c *Camera) { c.FovY = 0 }},
		{"near equals far", func(c *Camera) { c.Far = c.Near }},
		{"looking along up", func(c *Camera) { c.Position = mgl64.Vec3{0, 10, 0} }},
		{"empty viewport", func(c *Camera) { c.Viewport = Rect{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera()
			tt.mutate(cam)
			cam.MarkDirty()
			_, err := cam.ScreenToRay(0, 0)
			if !errors.Is(err, ErrDegenerateProjection) {
				t.Errorf("err = %v, want ErrDegenerateProjection", err)
			}
		})
	}
}

func TestCameraMatricesCached(t *testing.T) {
	cam := newTestCamera()
	vp1 := cam.ViewProjection()
	cam.Position = mgl64.Vec3{0, 20, 20}
	// Without MarkDirty the cached matrix is kept.
	if cam.ViewProjection() != vp1 {
		t.Error("matrix recomputed without MarkDirty")
	}
	cam.MarkDirty()
	if cam.ViewProjection() == vp1 {
		t.Error("matrix not recomputed after MarkDirty")
	}
}

func TestWorldToScreenBehindCamera(t *testing.T) {
	cam := newTestCamera()
	if _, _, ok := cam.WorldToScreen(mgl64.Vec3{0, 30, 30}); ok {
		t.Error("point behind the camera projected")
	}
}

func TestCameraFlyTo(t *testing.T) {
	cam := newTestCamera()
	dest := mgl64.Vec3{5, 15, 20}
	target := mgl64.Vec3{5, 0, 5}
	cam.FlyTo(dest, target, 1.0, ease.Linear)
	if !cam.Flying() {
		t.Fatal("Flying() = false after FlyTo")
	}

	cam.update(0.5)
	if !vecApprox(cam.Target, mgl64.Vec3{2.5, 0, 2.5}, 1e-3) {
		t.Errorf("halfway target = %v, want (2.5,0,2.5)", cam.Target)
	}

	cam.update(0.6)
	if cam.Flying() {
		t.Error("still flying after duration elapsed")
	}
	if cam.Position != dest || cam.Target != target {
		t.Errorf("final = %v -> %v, want %v -> %v", cam.Position, cam.Target, dest, target)
	}

	// The view follows the new target.
	ray, err := cam.ScreenToRay(640, 360)
	if err != nil {
		t.Fatal(err)
	}
	hit, _ := IntersectPlane(ray, GroundPlane(0))
	if !vecApprox(hit, target, 1e-6) {
		t.Errorf("center ray hit %v, want %v", hit, target)
	}
}

func TestCameraLookAtCancelsFlight(t *testing.T) {
	cam := newTestCamera()
	cam.FlyTo(mgl64.Vec3{10, 10, 10}, mgl64.Vec3{}, 1, nil)
	cam.LookAt(mgl64.Vec3{0, 5, 5}, mgl64.Vec3{})
	if cam.Flying() {
		t.Error("LookAt did not cancel the flight")
	}
	cam.update(0.5)
	if cam.Position != (mgl64.Vec3{0, 5, 5}) {
		t.Errorf("Position = %v after cancelled flight", cam.Position)
	}
}
