package tabletop

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// flyAnim holds an active FlyTo tween. The tween runs a 0..1 progress value
// that interpolates both the eye and the look-at target.
type flyAnim struct {
	tween      *gween.Tween
	fromPos    mgl64.Vec3
	toPos      mgl64.Vec3
	fromTarget mgl64.Vec3
	toTarget   mgl64.Vec3
}

// Camera is a perspective camera looking at the table.
type Camera struct {
	// Position is the eye position in world space.
	Position mgl64.Vec3
	// Target is the world point the camera looks at.
	Target mgl64.Vec3
	// Up is the camera's up hint. Defaults to +Y.
	Up mgl64.Vec3
	// FovY is the vertical field of view in radians.
	FovY float64
	// Near and Far are the clip plane distances. Near must be positive.
	Near, Far float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	view        mgl64.Mat4
	proj        mgl64.Mat4
	viewProj    mgl64.Mat4
	invViewProj mgl64.Mat4
	degenerate  bool
	dirty       bool

	fly *flyAnim
}

// NewCamera creates a camera at position looking at target, rendering into
// viewport with a 45 degree vertical field of view.
func NewCamera(position, target mgl64.Vec3, viewport Rect) *Camera {
	return &Camera{
		Position: position,
		Target:   target,
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     mgl64.DegToRad(45),
		Near:     0.1,
		Far:      1000,
		Viewport: viewport,
		dirty:    true,
	}
}

// MarkDirty forces a recomputation of the cached matrices. Call it after
// writing exported fields directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// SetViewport resizes the viewport, e.g. when the window changes size.
func (c *Camera) SetViewport(vp Rect) {
	if c.Viewport != vp {
		c.Viewport = vp
		c.dirty = true
	}
}

// LookAt moves the camera and its target in one step.
func (c *Camera) LookAt(position, target mgl64.Vec3) {
	c.Position = position
	c.Target = target
	c.fly = nil
	c.dirty = true
}

// FlyTo animates the camera to a new position and target over duration
// seconds. A later LookAt cancels the flight.
func (c *Camera) FlyTo(position, target mgl64.Vec3, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	c.fly = &flyAnim{
		tween:      gween.New(0, 1, duration, easeFn),
		fromPos:    c.Position,
		toPos:      position,
		fromTarget: c.Target,
		toTarget:   target,
	}
}

// Flying reports whether a FlyTo animation is in progress.
func (c *Camera) Flying() bool {
	return c.fly != nil
}

// update advances the fly animation. Called from Table.Update.
func (c *Camera) update(dt float32) {
	if c.fly == nil {
		return
	}
	val, done := c.fly.tween.Update(dt)
	k := float64(val)
	c.Position = lerpVec3(c.fly.fromPos, c.fly.toPos, k)
	c.Target = lerpVec3(c.fly.fromTarget, c.fly.toTarget, k)
	if done {
		c.Position = c.fly.toPos
		c.Target = c.fly.toTarget
		c.fly = nil
	}
	c.dirty = true
}

func lerpVec3(a, b mgl64.Vec3, k float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(k))
}

// computeMatrices recomputes the cached view, projection and inverse
// matrices if dirty.
//
// viewProj = Perspective(fovY, w/h, near, far) * LookAt(position, target, up)
func (c *Camera) computeMatrices() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.degenerate = false

	vp := c.Viewport
	up := c.Up
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	forward := c.Target.Sub(c.Position)
	if vp.Width <= 0 || vp.Height <= 0 || c.Near <= 0 || c.Far <= c.Near ||
		c.FovY <= 0 || c.FovY >= math.Pi || forward.Len() == 0 ||
		forward.Normalize().Cross(up.Normalize()).Len() < parallelEpsilon {
		c.degenerate = true
		return
	}

	c.view = mgl64.LookAtV(c.Position, c.Target, up)
	c.proj = mgl64.Perspective(c.FovY, vp.Width/vp.Height, c.Near, c.Far)
	c.viewProj = c.proj.Mul4(c.view)
	c.invViewProj = c.viewProj.Inv()
	if c.invViewProj == (mgl64.Mat4{}) || hasNaN(c.invViewProj) {
		c.degenerate = true
	}
}

func hasNaN(m mgl64.Mat4) bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// ViewProjection returns the combined projection * view matrix.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	c.computeMatrices()
	return c.viewProj
}

// ScreenToRay converts a cursor position to a world-space ray starting on
// the near plane. It returns ErrOutsideViewport when the cursor lies outside
// the viewport and ErrDegenerateProjection when the camera matrices cannot be
// inverted.
//
//	ndcX = 2 * (sx - vp.X) / vp.Width - 1
//	ndcY = 1 - 2 * (sy - vp.Y) / vp.Height
func (c *Camera) ScreenToRay(sx, sy float64) (Ray, error) {
	if !c.Viewport.Contains(sx, sy) {
		return Ray{}, ErrOutsideViewport
	}
	c.computeMatrices()
	if c.degenerate {
		return Ray{}, ErrDegenerateProjection
	}

	vp := c.Viewport
	ndcX := 2*(sx-vp.X)/vp.Width - 1
	ndcY := 1 - 2*(sy-vp.Y)/vp.Height

	near, ok := c.unproject(ndcX, ndcY, -1)
	if !ok {
		return Ray{}, ErrDegenerateProjection
	}
	far, ok := c.unproject(ndcX, ndcY, 1)
	if !ok {
		return Ray{}, ErrDegenerateProjection
	}
	dir := far.Sub(near)
	if dir.Len() == 0 {
		return Ray{}, ErrDegenerateProjection
	}
	return NewRay(near, dir), nil
}

// unproject maps a normalized device coordinate back to world space.
func (c *Camera) unproject(x, y, z float64) (mgl64.Vec3, bool) {
	p := c.invViewProj.Mul4x1(mgl64.Vec4{x, y, z, 1})
	if math.Abs(p.W()) < 1e-12 {
		return mgl64.Vec3{}, false
	}
	return p.Vec3().Mul(1 / p.W()), true
}

// WorldToScreen projects a world point to screen coordinates. It returns
// false when the camera is degenerate or the point is behind the eye.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (sx, sy float64, ok bool) {
	c.computeMatrices()
	if c.degenerate {
		return 0, 0, false
	}
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	if clip.W() <= 1e-9 {
		return 0, 0, false
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	vp := c.Viewport
	sx = vp.X + (ndcX+1)/2*vp.Width
	sy = vp.Y + (1-ndcY)/2*vp.Height
	return sx, sy, true
}
