package tabletop

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Spawner places new pieces on the ground where the pointer is pressed.
type Spawner struct {
	kinds    *Kinds
	registry *Registry
	drag     *DragController
	ground   Plane
	kind     string
	log      *zap.Logger
}

// NewSpawner creates a spawner that builds pieces of kind.
func NewSpawner(kinds *Kinds, registry *Registry, drag *DragController, ground Plane, kind string, log *zap.Logger) *Spawner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Spawner{
		kinds:    kinds,
		registry: registry,
		drag:     drag,
		ground:   ground,
		kind:     kind,
		log:      log,
	}
}

// Kind returns the kind new pieces are built from.
func (s *Spawner) Kind() string {
	return s.kind
}

// SetKind changes the kind new pieces are built from.
func (s *Spawner) SetKind(kind string) error {
	if _, ok := s.kinds.Lookup(kind); !ok {
		return fmt.Errorf("set spawn kind %q: %w", kind, ErrUnknownKind)
	}
	s.kind = kind
	return nil
}

// TrySpawn spawns a piece under the cursor when modifierHeld is true. It
// returns (nil, nil) when the modifier is not held.
func (s *Spawner) TrySpawn(sx, sy float64, cam *Camera, modifierHeld bool) (*Piece, error) {
	if !modifierHeld {
		return nil, nil
	}
	ray, err := cam.ScreenToRay(sx, sy)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	return s.SpawnRay(ray)
}

// SpawnRay spawns a piece where ray meets the ground.
func (s *Spawner) SpawnRay(ray Ray) (*Piece, error) {
	point, ok := IntersectPlane(ray, s.ground)
	if !ok {
		return nil, fmt.Errorf("spawn: %w", ErrNoIntersection)
	}
	return s.SpawnAt(point)
}

// SpawnAt spawns a piece of the current kind resting on the ground at point.
func (s *Spawner) SpawnAt(point mgl64.Vec3) (*Piece, error) {
	return s.SpawnKindAt(s.kind, point)
}

// SpawnKindAt spawns a piece of the named kind resting at point. The root
// is raised by half the body height so the piece sits on the surface.
func (s *Spawner) SpawnKindAt(kind string, point mgl64.Vec3) (*Piece, error) {
	k, ok := s.kinds.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("spawn %q: %w", kind, ErrUnknownKind)
	}
	at := point.Add(mgl64.Vec3{0, k.Size.Y() / 2, 0})
	p, err := s.kinds.Build(kind, at)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	p.Selectable = true
	p.Interactable = true
	if err := s.registry.Add(p); err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	s.drag.Track(p.ID, k.DragMode)
	s.log.Info("piece spawned",
		zap.Stringer("piece", p.ID),
		zap.String("kind", kind),
		zap.Float64s("at", at[:]),
	)
	return p, nil
}
