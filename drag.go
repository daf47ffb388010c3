package tabletop

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DragSession is the per-piece drag state. Anchors are set by BeginDrag and
// cleared by EndDrag; Mode persists for the piece's lifetime.
type DragSession struct {
	Mode DragMode
	// AnchorWorld is the piece translation when the drag began.
	AnchorWorld mgl64.Vec3
	// AnchorCursor is the cursor's projection on the drag plane when the
	// drag began.
	AnchorCursor mgl64.Vec3
	// Active is true between BeginDrag and EndDrag.
	Active bool
}

// DragController moves pieces in response to pointer displacement.
type DragController struct {
	registry *Registry
	ground   Plane
	sessions map[uuid.UUID]*DragSession
	log      *zap.Logger
}

// NewDragController creates a controller for pieces in registry. The drag
// plane takes its normal from ground.
func NewDragController(registry *Registry, ground Plane, log *zap.Logger) *DragController {
	if log == nil {
		log = zap.NewNop()
	}
	return &DragController{
		registry: registry,
		ground:   ground,
		sessions: make(map[uuid.UUID]*DragSession),
		log:      log,
	}
}

// Track makes a piece draggable under mode. Tracking an already tracked
// piece replaces its mode and clears its anchors.
func (d *DragController) Track(id uuid.UUID, mode DragMode) {
	d.sessions[id] = &DragSession{Mode: mode}
}

// Untrack removes a piece's drag session.
func (d *DragController) Untrack(id uuid.UUID) {
	delete(d.sessions, id)
}

// Session returns a copy of the piece's drag session.
func (d *DragController) Session(id uuid.UUID) (DragSession, bool) {
	s, ok := d.sessions[id]
	if !ok {
		return DragSession{}, false
	}
	return *s, true
}

// SetMode changes the drag mode of a tracked piece.
func (d *DragController) SetMode(id uuid.UUID, mode DragMode) error {
	s, ok := d.sessions[id]
	if !ok {
		return fmt.Errorf("set mode %s: %w", id, ErrNotDraggable)
	}
	s.Mode = mode
	return nil
}

// Dragging reports whether the piece has an active drag.
func (d *DragController) Dragging(id uuid.UUID) bool {
	s, ok := d.sessions[id]
	return ok && s.Active
}

// dragPlane returns the horizontal plane through the piece's current
// translation.
func (d *DragController) dragPlane(p *Piece) Plane {
	return d.ground.Through(p.Translation())
}

// BeginDrag anchors a drag at the cursor position.
func (d *DragController) BeginDrag(id uuid.UUID, sx, sy float64, cam *Camera) error {
	ray, err := cam.ScreenToRay(sx, sy)
	if err != nil {
		return fmt.Errorf("begin drag %s: %w", id, err)
	}
	return d.BeginDragRay(id, ray)
}

// BeginDragRay anchors a drag where ray meets the piece's drag plane.
func (d *DragController) BeginDragRay(id uuid.UUID, ray Ray) error {
	p, ok := d.registry.Get(id)
	if !ok {
		return fmt.Errorf("begin drag %s: %w", id, ErrPieceNotFound)
	}
	point, ok := IntersectPlane(ray, d.dragPlane(p))
	if !ok {
		return fmt.Errorf("begin drag %s: %w", id, ErrNoIntersection)
	}
	return d.BeginDragAt(id, point)
}

// BeginDragAt anchors a drag with the cursor at a known plane point.
func (d *DragController) BeginDragAt(id uuid.UUID, point mgl64.Vec3) error {
	p, ok := d.registry.Get(id)
	if !ok {
		return fmt.Errorf("begin drag %s: %w", id, ErrPieceNotFound)
	}
	s, ok := d.sessions[id]
	if !ok {
		return fmt.Errorf("begin drag %s: %w", id, ErrNotDraggable)
	}
	s.AnchorWorld = p.Translation()
	s.AnchorCursor = point
	s.Active = true
	d.log.Debug("drag begin",
		zap.Stringer("piece", id),
		zap.Stringer("mode", s.Mode),
		zap.Float64s("anchor", point[:]),
	)
	return nil
}

// UpdateDrag moves the piece to follow the cursor.
func (d *DragController) UpdateDrag(id uuid.UUID, sx, sy float64, cam *Camera) error {
	ray, err := cam.ScreenToRay(sx, sy)
	if err != nil {
		return fmt.Errorf("update drag %s: %w", id, err)
	}
	return d.UpdateDragRay(id, ray)
}

// UpdateDragRay moves the piece to follow ray. The drag plane passes
// through the anchored translation so it stays fixed during the gesture.
func (d *DragController) UpdateDragRay(id uuid.UUID, ray Ray) error {
	s, err := d.activeSession(id)
	if err != nil {
		return err
	}
	point, ok := IntersectPlane(ray, d.ground.Through(s.AnchorWorld))
	if !ok {
		return fmt.Errorf("update drag %s: %w", id, ErrNoIntersection)
	}
	return d.UpdateDragAt(id, point)
}

// UpdateDragAt moves the piece for a cursor at point on the drag plane.
//
//	delta = point - anchorCursor
//	free:  translation.xz = anchorWorld.xz + delta.xz
//	axis:  translation = anchorWorld + forward * dot(delta, forward)
func (d *DragController) UpdateDragAt(id uuid.UUID, point mgl64.Vec3) error {
	s, err := d.activeSession(id)
	if err != nil {
		return err
	}
	p, ok := d.registry.Get(id)
	if !ok {
		delete(d.sessions, id)
		return fmt.Errorf("update drag %s: %w", id, ErrPieceNotFound)
	}

	delta := point.Sub(s.AnchorCursor)
	var next mgl64.Vec3
	switch s.Mode {
	case DragAxisConstrained:
		axis := p.Forward()
		next = s.AnchorWorld.Add(axis.Mul(delta.Dot(axis)))
	default:
		cur := p.Translation()
		next = mgl64.Vec3{
			s.AnchorWorld.X() + delta.X(),
			cur.Y(),
			s.AnchorWorld.Z() + delta.Z(),
		}
	}
	p.SetTranslation(next)
	return nil
}

// EndDrag finishes a drag and clears the anchors. The mode is kept.
func (d *DragController) EndDrag(id uuid.UUID) {
	s, ok := d.sessions[id]
	if !ok {
		return
	}
	mode := s.Mode
	*s = DragSession{Mode: mode}
	d.log.Debug("drag end", zap.Stringer("piece", id))
}

func (d *DragController) activeSession(id uuid.UUID) (*DragSession, error) {
	s, ok := d.sessions[id]
	if !ok {
		if _, exists := d.registry.Get(id); !exists {
			return nil, fmt.Errorf("update drag %s: %w", id, ErrPieceNotFound)
		}
		return nil, fmt.Errorf("update drag %s: %w", id, ErrNotDraggable)
	}
	if !s.Active {
		return nil, fmt.Errorf("update drag %s: %w", id, ErrNoDragSession)
	}
	return s, nil
}
