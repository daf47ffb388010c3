package tabletop

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	cylinderSegments = 16
	facingArrowLen   = 7.0
	gridStep         = 2.0
)

var (
	clearColor     = Color{0.12, 0.12, 0.14, 1}
	groundColor    = Color{0.35, 0.35, 0.38, 1}
	highlightColor = Color{1, 0.85, 0.2, 1}
	arrowColor     = Color{0.2, 0.6, 1, 1}
)

// segment is a line between two points.
type segment [2]mgl64.Vec3

// wireframe returns the edges of an asset in its local space.
func wireframe(a Asset) []segment {
	switch a.Shape {
	case ShapeCylinder:
		return cylinderWireframe(a.Size.X(), a.Size.Y(), cylinderSegments)
	default:
		return boxWireframe(a.Size.Mul(0.5))
	}
}

func boxWireframe(h mgl64.Vec3) []segment {
	var c [8]mgl64.Vec3
	for i := range c {
		x, y, z := -h.X(), -h.Y(), -h.Z()
		if i&1 != 0 {
			x = h.X()
		}
		if i&2 != 0 {
			y = h.Y()
		}
		if i&4 != 0 {
			z = h.Z()
		}
		c[i] = mgl64.Vec3{x, y, z}
	}
	edges := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
		{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
	}
	out := make([]segment, 0, len(edges))
	for _, e := range edges {
		out = append(out, segment{c[e[0]], c[e[1]]})
	}
	return out
}

func cylinderWireframe(radius, height float64, n int) []segment {
	half := height / 2
	out := make([]segment, 0, 3*n)
	for i := 0; i < n; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(n)
		a1 := 2 * math.Pi * float64(i+1) / float64(n)
		x0, z0 := radius*math.Cos(a0), radius*math.Sin(a0)
		x1, z1 := radius*math.Cos(a1), radius*math.Sin(a1)
		out = append(out,
			segment{{x0, -half, z0}, {x1, -half, z1}},
			segment{{x0, half, z0}, {x1, half, z1}},
			segment{{x0, -half, z0}, {x0, half, z0}},
		)
	}
	return out
}

// Draw renders the table as a wireframe: the ground grid, every piece with
// its parts, and a facing arrow for pieces that drag along their axis.
// Selected pieces are drawn in the highlight color.
func (t *Table) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor.RGBA())
	t.drawGround(screen)

	t.registry.Each(func(p *Piece) bool {
		t.drawPiece(screen, p)
		return true
	})
	t.flushScreenshots(screen)
}

func (t *Table) drawGround(screen *ebiten.Image) {
	size := t.cfg.Ground.Size
	if size <= 0 {
		return
	}
	h := t.ground.Point.Y()
	half := size / 2
	col := groundColor.RGBA()
	for v := -half; v <= half+1e-9; v += gridStep {
		t.strokeWorld(screen, mgl64.Vec3{v, h, -half}, mgl64.Vec3{v, h, half}, 1, col)
		t.strokeWorld(screen, mgl64.Vec3{-half, h, v}, mgl64.Vec3{half, h, v}, 1, col)
	}
}

func (t *Table) drawPiece(screen *ebiten.Image, p *Piece) {
	width := float32(1.5)
	tint := func(c Color) color.RGBA { return c.RGBA() }
	if p.Highlighted {
		width = 2.5
		tint = func(Color) color.RGBA { return highlightColor.RGBA() }
	}

	if body, ok := t.assets.Lookup(p.Body); ok {
		t.strokeAsset(screen, body, p.Transform(), width, tint(body.Color))
	}
	for _, part := range p.Parts() {
		if a, ok := t.assets.Lookup(part.Asset); ok {
			t.strokeAsset(screen, a, part.World, width, tint(a.Color))
		}
	}

	if s, ok := t.drag.Session(p.ID); ok && s.Mode == DragAxisConstrained {
		from := p.Translation()
		to := from.Add(p.Forward().Mul(facingArrowLen))
		t.strokeWorld(screen, from, to, 1.5, arrowColor.RGBA())
	}
}

func (t *Table) strokeAsset(screen *ebiten.Image, a Asset, tr Transform, width float32, col color.RGBA) {
	for _, s := range wireframe(a) {
		t.strokeWorld(screen, tr.Apply(s[0]), tr.Apply(s[1]), width, col)
	}
}

// strokeWorld draws a world-space line. Lines with an endpoint behind the
// camera are skipped.
func (t *Table) strokeWorld(screen *ebiten.Image, a, b mgl64.Vec3, width float32, col color.RGBA) {
	x0, y0, ok0 := t.camera.WorldToScreen(a)
	x1, y1, ok1 := t.camera.WorldToScreen(b)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, col, true)
}
