package tabletop

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestWireframeSegmentCounts(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  int
	}{
		{"box", Asset{Shape: ShapeBox, Size: mgl64.Vec3{2, 0.75, 5}}, 12},
		{"cylinder", Asset{Shape: ShapeCylinder, Size: mgl64.Vec3{0.5, 0.1, 0.5}}, 3 * cylinderSegments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(wireframe(tt.asset)); got != tt.want {
				t.Errorf("segments = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBoxWireframeCorners(t *testing.T) {
	h := mgl64.Vec3{1, 0.5, 2}
	for _, s := range boxWireframe(h) {
		for _, p := range s {
			for i := 0; i < 3; i++ {
				if !approxEqual(p[i], h[i], epsilon) && !approxEqual(p[i], -h[i], epsilon) {
					t.Fatalf("vertex %v is not a corner of %v", p, h)
				}
			}
		}
		// Each edge runs along exactly one axis.
		d := s[1].Sub(s[0])
		axes := 0
		for i := 0; i < 3; i++ {
			if d[i] != 0 {
				axes++
			}
		}
		if axes != 1 {
			t.Errorf("edge %v spans %d axes", s, axes)
		}
	}
}

func TestCylinderWireframeOnSurface(t *testing.T) {
	for _, s := range cylinderWireframe(0.75, 0.5, 8) {
		for _, p := range s {
			r := mgl64.Vec2{p.X(), p.Z()}.Len()
			if !approxEqual(r, 0.75, 1e-9) {
				t.Errorf("vertex %v off the rim (r=%v)", p, r)
			}
			if !approxEqual(p.Y(), 0.25, 1e-9) && !approxEqual(p.Y(), -0.25, 1e-9) {
				t.Errorf("vertex %v off the caps", p)
			}
		}
	}
}
