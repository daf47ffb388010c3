package tabletop

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// PartSpec describes one rigid part of a piece kind.
type PartSpec struct {
	Name string
	// Parent names an earlier part of the same kind. Empty attaches the
	// part to the root.
	Parent string
	Shape  ShapeKind
	Size   mgl64.Vec3
	Color  Color
	// Offset and Rotation (Euler degrees) place the part relative to its
	// parent.
	Offset   mgl64.Vec3
	Rotation mgl64.Vec3
}

// PieceKind is a template for spawning pieces.
type PieceKind struct {
	Name  string
	Shape ShapeKind
	// Size is the body's full extents; for cylinders (radius, height, radius).
	Size  mgl64.Vec3
	Color Color
	// Rotation is the rest orientation in Euler degrees.
	Rotation mgl64.Vec3
	DragMode DragMode
	Parts    []PartSpec
}

// Built-in kinds.
const (
	KindTank = "tank"
	KindDisc = "disc"
)

// Tank dimensions.
const (
	tankWidth     = 2.0
	tankHeight    = 0.75
	tankLength    = 5.0
	turretRadius  = 0.75
	turretHeight  = 0.5
	gunRadius     = 0.05
	gunLength     = 3.0
	gunOffset     = 1.5
	discRadius    = 0.5
	discThickness = 0.1
)

// TankKind returns the built-in tank: a hull with a turret and a gun
// parented to the turret. Tanks drive along their facing axis.
func TankKind() PieceKind {
	red := Color{200.0 / 255, 0, 0, 1}
	return PieceKind{
		Name:     KindTank,
		Shape:    ShapeBox,
		Size:     mgl64.Vec3{tankWidth, tankHeight, tankLength},
		Color:    red,
		DragMode: DragAxisConstrained,
		Parts: []PartSpec{
			{
				Name:     "turret",
				Shape:    ShapeCylinder,
				Size:     mgl64.Vec3{turretRadius, turretHeight, turretRadius},
				Color:    red,
				Offset:   mgl64.Vec3{0, tankHeight/2 + turretHeight/2, 0},
				Rotation: mgl64.Vec3{-90, 0, 0},
			},
			{
				Name:   "gun",
				Parent: "turret",
				Shape:  ShapeCylinder,
				Size:   mgl64.Vec3{gunRadius, gunLength, gunRadius},
				Color:  red,
				Offset: mgl64.Vec3{0, gunOffset, 0},
			},
		},
	}
}

// DiscKind returns the built-in flat round token, dragged freely.
func DiscKind() PieceKind {
	return PieceKind{
		Name:     KindDisc,
		Shape:    ShapeCylinder,
		Size:     mgl64.Vec3{discRadius, discThickness, discRadius},
		Color:    Color{1, 0, 0, 1},
		DragMode: DragFreePlanar,
	}
}

// registeredKind is a kind whose assets live in the table.
type registeredKind struct {
	kind  PieceKind
	body  AssetHandle
	parts []AssetHandle
	// parents holds each part's resolved parent index.
	parents []int
}

// Kinds is the set of piece kinds available for spawning. Each kind holds
// one reference to its shared assets; every built piece acquires another.
type Kinds struct {
	assets *AssetTable
	kinds  map[string]*registeredKind
	names  []string
}

// NewKinds creates an empty kind set backed by assets.
func NewKinds(assets *AssetTable) *Kinds {
	return &Kinds{
		assets: assets,
		kinds:  make(map[string]*registeredKind),
	}
}

// Register validates a kind and stores its geometry in the asset table.
func (k *Kinds) Register(kind PieceKind) error {
	if kind.Name == "" {
		return fmt.Errorf("tabletop: piece kind has no name")
	}
	if _, ok := k.kinds[kind.Name]; ok {
		return fmt.Errorf("tabletop: piece kind %q already registered", kind.Name)
	}
	if kind.Size.X() <= 0 || kind.Size.Y() <= 0 {
		return fmt.Errorf("tabletop: piece kind %q: size must be positive", kind.Name)
	}

	index := make(map[string]int, len(kind.Parts))
	parents := make([]int, len(kind.Parts))
	for i, ps := range kind.Parts {
		if ps.Name == "" {
			return fmt.Errorf("tabletop: piece kind %q: part %d has no name", kind.Name, i)
		}
		if _, dup := index[ps.Name]; dup {
			return fmt.Errorf("tabletop: piece kind %q: duplicate part %q", kind.Name, ps.Name)
		}
		parents[i] = -1
		if ps.Parent != "" {
			pi, ok := index[ps.Parent]
			if !ok {
				return fmt.Errorf("tabletop: piece kind %q: part %q: unknown parent %q",
					kind.Name, ps.Name, ps.Parent)
			}
			parents[i] = pi
		}
		index[ps.Name] = i
	}

	rk := &registeredKind{kind: kind, parents: parents}
	rk.body = k.assets.Register(Asset{
		Name:  kind.Name + "/body",
		Shape: kind.Shape,
		Size:  kind.Size,
		Color: kind.Color,
	})
	for _, ps := range kind.Parts {
		rk.parts = append(rk.parts, k.assets.Register(Asset{
			Name:  kind.Name + "/" + ps.Name,
			Shape: ps.Shape,
			Size:  ps.Size,
			Color: ps.Color,
		}))
	}
	k.kinds[kind.Name] = rk
	k.names = append(k.names, kind.Name)
	return nil
}

// Lookup returns the kind registered under name.
func (k *Kinds) Lookup(name string) (PieceKind, bool) {
	rk, ok := k.kinds[name]
	if !ok {
		return PieceKind{}, false
	}
	return rk.kind, true
}

// Names returns the registered kind names in registration order.
func (k *Kinds) Names() []string {
	out := make([]string, len(k.names))
	copy(out, k.names)
	return out
}

// Build creates a piece of the named kind with its root at translation. The
// piece references the kind's shared assets. The returned piece is neither
// selectable nor interactable; the Spawner turns those on.
func (k *Kinds) Build(name string, translation mgl64.Vec3) (*Piece, error) {
	rk, ok := k.kinds[name]
	if !ok {
		return nil, fmt.Errorf("build %q: %w", name, ErrUnknownKind)
	}
	body, _ := k.assets.Lookup(rk.body)

	p := NewPiece(name, translation)
	p.SetRotation(EulerRotation(rk.kind.Rotation))
	p.Body = rk.body
	p.HitShape = body.HitShape()
	k.assets.Acquire(rk.body)

	for i, ps := range rk.kind.Parts {
		k.assets.Acquire(rk.parts[i])
		p.AddPart(Part{
			Name:   ps.Name,
			Asset:  rk.parts[i],
			Parent: rk.parents[i],
			Local: Transform{
				Translation: ps.Offset,
				Rotation:    EulerRotation(ps.Rotation),
			},
		})
	}
	p.UpdateParts()
	return p, nil
}
