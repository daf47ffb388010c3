package tabletop

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAssetTableRefCounting(t *testing.T) {
	at := NewAssetTable()
	h := at.Register(Asset{Name: "tank/body", Shape: ShapeBox, Size: mgl64.Vec3{2, 0.75, 5}})
	if h == 0 {
		t.Fatal("Register returned the zero handle")
	}
	if got := at.Refs(h); got != 1 {
		t.Fatalf("Refs = %d, want 1", got)
	}

	if !at.Acquire(h) {
		t.Fatal("Acquire failed on a live handle")
	}
	at.Release(h)
	if got := at.Refs(h); got != 1 {
		t.Errorf("Refs after acquire/release = %d, want 1", got)
	}

	at.Release(h)
	if _, ok := at.Lookup(h); ok {
		t.Error("asset still present after last release")
	}
	if at.Len() != 0 {
		t.Errorf("Len = %d, want 0", at.Len())
	}
	if at.Acquire(h) {
		t.Error("Acquire succeeded on a freed handle")
	}
	// Releasing a freed handle is a no-op.
	at.Release(h)
}

func TestAssetTableSharesByName(t *testing.T) {
	at := NewAssetTable()
	a := Asset{Name: "disc/body", Shape: ShapeCylinder, Size: mgl64.Vec3{0.5, 0.1, 0.5}}
	h1 := at.Register(a)
	h2 := at.Register(a)
	if h1 != h2 {
		t.Fatalf("same name registered twice: %d, %d", h1, h2)
	}
	if at.Refs(h1) != 2 || at.Len() != 1 {
		t.Errorf("Refs = %d, Len = %d; want 2, 1", at.Refs(h1), at.Len())
	}

	at.Release(h1)
	at.Release(h1)
	h3 := at.Register(a)
	if h3 == h1 {
		t.Error("freed handle reused for a new registration")
	}
}

func TestAssetHitShape(t *testing.T) {
	box := Asset{Shape: ShapeBox, Size: mgl64.Vec3{2, 0.75, 5}}.HitShape().(HitBox)
	if box.HalfExtents != (mgl64.Vec3{1, 0.375, 2.5}) {
		t.Errorf("box half extents = %v", box.HalfExtents)
	}
	cyl := Asset{Shape: ShapeCylinder, Size: mgl64.Vec3{0.5, 0.1, 0.5}}.HitShape().(HitCylinder)
	if cyl.Radius != 0.5 || cyl.Height != 0.1 {
		t.Errorf("cylinder = %+v", cyl)
	}
}

func TestParseShapeKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ShapeKind
		wantErr bool
	}{
		{"box", ShapeBox, false},
		{"cuboid", ShapeBox, false},
		{"cylinder", ShapeCylinder, false},
		{"disc", ShapeCylinder, false},
		{"sphere", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShapeKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
