package tabletop

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Registry owns every piece on the table. Selection and drag state refer to
// pieces by ID only.
type Registry struct {
	assets   *AssetTable
	pieces   map[uuid.UUID]*Piece
	order    []uuid.UUID
	onRemove []func(id uuid.UUID)
}

// NewRegistry creates an empty registry. Removed pieces release their asset
// references into assets, which may be nil.
func NewRegistry(assets *AssetTable) *Registry {
	return &Registry{
		assets: assets,
		pieces: make(map[uuid.UUID]*Piece),
	}
}

// Add inserts a piece. Adding a piece whose ID is already present is an
// error.
func (r *Registry) Add(p *Piece) error {
	if p == nil {
		return fmt.Errorf("tabletop: add nil piece")
	}
	if _, ok := r.pieces[p.ID]; ok {
		return fmt.Errorf("tabletop: piece %s already registered", p.ID)
	}
	r.pieces[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

// Remove deletes a piece and releases its asset references. Removal
// listeners run after the piece is gone.
func (r *Registry) Remove(id uuid.UUID) error {
	p, ok := r.pieces[id]
	if !ok {
		return fmt.Errorf("remove %s: %w", id, ErrPieceNotFound)
	}
	delete(r.pieces, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.assets != nil {
		if p.Body != 0 {
			r.assets.Release(p.Body)
		}
		for _, part := range p.parts {
			if part.Asset != 0 {
				r.assets.Release(part.Asset)
			}
		}
	}
	for _, fn := range r.onRemove {
		fn(id)
	}
	return nil
}

// OnRemove registers a listener called with the ID of every removed piece.
func (r *Registry) OnRemove(fn func(id uuid.UUID)) {
	r.onRemove = append(r.onRemove, fn)
}

// Get returns the piece with the given ID.
func (r *Registry) Get(id uuid.UUID) (*Piece, bool) {
	p, ok := r.pieces[id]
	return p, ok
}

// Len returns the number of pieces.
func (r *Registry) Len() int {
	return len(r.order)
}

// Each calls fn for every piece in insertion order. Iteration stops when fn
// returns false. fn must not add or remove pieces.
func (r *Registry) Each(fn func(p *Piece) bool) {
	for _, id := range r.order {
		if !fn(r.pieces[id]) {
			return
		}
	}
}

// Pick returns the nearest interactable piece hit by the ray, or nil. Parts
// are never tested. Ties go to the piece added last, which is drawn on top.
func (r *Registry) Pick(ray Ray) (*Piece, float64) {
	var best *Piece
	bestT := math.Inf(1)
	for _, id := range r.order {
		p := r.pieces[id]
		if !p.Interactable {
			continue
		}
		t, ok := p.Intersect(ray)
		if ok && t <= bestT {
			best = p
			bestT = t
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestT
}
