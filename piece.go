package tabletop

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Part is a rigid child of a piece, such as a tank's turret. Parts are drawn
// but never hit-tested; clicks pass through them to the root.
type Part struct {
	Name  string
	Asset AssetHandle
	// Parent is the index of the parent part in Piece.Parts, or -1 when the
	// part hangs directly off the root. Parents always precede children.
	Parent int
	// Local is the transform relative to the parent.
	Local Transform
	// World is recomputed whenever the root moves.
	World Transform
}

// Piece is a placed object on the table.
type Piece struct {
	// ID uniquely identifies the piece for its lifetime.
	ID uuid.UUID
	// Kind is the name of the PieceKind the piece was built from.
	Kind string
	// Body is the shared asset drawn for the root.
	Body AssetHandle
	// HitShape is the root's hit volume in local space. Nil disables
	// hit testing.
	HitShape HitShape

	// Selectable allows the piece to join the selection.
	Selectable bool
	// Interactable registers the piece for pointer hit testing.
	Interactable bool
	// Highlighted mirrors selection membership for the renderer.
	Highlighted bool

	transform  Transform
	parts      []Part
	partsDirty bool
}

// NewPiece creates an empty piece with a fresh ID at the given translation.
func NewPiece(kind string, translation mgl64.Vec3) *Piece {
	return &Piece{
		ID:        uuid.New(),
		Kind:      kind,
		transform: NewTransform(translation),
	}
}

// Transform returns the root transform.
func (p *Piece) Transform() Transform {
	return p.transform
}

// Translation returns the root translation.
func (p *Piece) Translation() mgl64.Vec3 {
	return p.transform.Translation
}

// Forward returns the piece's facing direction (negative local Z).
func (p *Piece) Forward() mgl64.Vec3 {
	return p.transform.Forward()
}

// SetTransform replaces the root transform.
func (p *Piece) SetTransform(t Transform) {
	p.transform = t
	p.partsDirty = true
}

// SetTranslation moves the root.
func (p *Piece) SetTranslation(v mgl64.Vec3) {
	if p.transform.Translation == v {
		return
	}
	p.transform.Translation = v
	p.partsDirty = true
}

// SetRotation rotates the root.
func (p *Piece) SetRotation(q mgl64.Quat) {
	p.transform.Rotation = q
	p.partsDirty = true
}

// AddPart appends a part and returns its index. A parent index outside
// [0, index) attaches the part to the root.
func (p *Piece) AddPart(part Part) int {
	idx := len(p.parts)
	if part.Parent < 0 || part.Parent >= idx {
		part.Parent = -1
	}
	p.parts = append(p.parts, part)
	p.partsDirty = true
	return idx
}

// Parts returns the piece's parts with up-to-date world transforms. The
// returned slice is owned by the piece.
func (p *Piece) Parts() []Part {
	p.UpdateParts()
	return p.parts
}

// PartByName returns the first part with the given name.
func (p *Piece) PartByName(name string) (Part, bool) {
	for _, part := range p.Parts() {
		if part.Name == name {
			return part, true
		}
	}
	return Part{}, false
}

// UpdateParts recomputes part world transforms if the root has moved since
// the last call.
func (p *Piece) UpdateParts() {
	if !p.partsDirty {
		return
	}
	p.partsDirty = false
	for i := range p.parts {
		part := &p.parts[i]
		parent := p.transform
		if part.Parent >= 0 {
			parent = p.parts[part.Parent].World
		}
		part.World = parent.Compose(part.Local)
	}
}

// Intersect tests a world-space ray against the root hit shape and returns
// the hit distance.
func (p *Piece) Intersect(r Ray) (float64, bool) {
	if p.HitShape == nil {
		return 0, false
	}
	inv := p.transform.Inverse()
	local := Ray{Origin: inv.Apply(r.Origin), Direction: inv.ApplyDir(r.Direction)}
	return p.HitShape.IntersectLocal(local)
}
