package tabletop

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// AssetHandle is an opaque reference into an AssetTable. The zero handle is
// never issued and means "no asset".
type AssetHandle uint32

// ShapeKind identifies the geometry of an Asset.
type ShapeKind uint8

const (
	// ShapeBox is an axis-aligned box; Size holds the full extents.
	ShapeBox ShapeKind = iota
	// ShapeCylinder is a capped cylinder on the local Y axis; Size holds
	// (radius, height, radius).
	ShapeCylinder
)

// String returns the config name of the shape.
func (s ShapeKind) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// ParseShapeKind converts a config name to a ShapeKind.
func ParseShapeKind(name string) (ShapeKind, error) {
	switch name {
	case "box", "cuboid":
		return ShapeBox, nil
	case "cylinder", "disc":
		return ShapeCylinder, nil
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Asset is immutable shared geometry plus a flat material color. Every piece
// of a kind points at the same Asset through its handle.
type Asset struct {
	Name  string
	Shape ShapeKind
	Size  mgl64.Vec3
	Color Color
}

// HalfHeight returns half the asset's vertical extent.
func (a Asset) HalfHeight() float64 {
	return a.Size.Y() / 2
}

// HitShape returns a hit volume matching the asset's geometry.
func (a Asset) HitShape() HitShape {
	if a.Shape == ShapeCylinder {
		return HitCylinder{Radius: a.Size.X(), Height: a.Size.Y()}
	}
	return HitBox{HalfExtents: a.Size.Mul(0.5)}
}

type assetEntry struct {
	asset Asset
	refs  int
}

// AssetTable is a reference-counted store of shared assets keyed by handle.
// An asset is freed when its last reference is released.
type AssetTable struct {
	entries map[AssetHandle]*assetEntry
	byName  map[string]AssetHandle
	next    AssetHandle
}

// NewAssetTable creates an empty AssetTable.
func NewAssetTable() *AssetTable {
	return &AssetTable{
		entries: make(map[AssetHandle]*assetEntry),
		byName:  make(map[string]AssetHandle),
	}
}

// Register stores an asset and returns its handle with one reference held by
// the caller. Registering a name that is already present returns the
// existing handle with an extra reference, so identical geometry is never
// duplicated.
func (t *AssetTable) Register(a Asset) AssetHandle {
	if a.Name != "" {
		if h, ok := t.byName[a.Name]; ok {
			t.entries[h].refs++
			return h
		}
	}
	t.next++
	h := t.next
	t.entries[h] = &assetEntry{asset: a, refs: 1}
	if a.Name != "" {
		t.byName[a.Name] = h
	}
	return h
}

// Acquire adds a reference to h. It reports false for unknown handles.
func (t *AssetTable) Acquire(h AssetHandle) bool {
	e, ok := t.entries[h]
	if !ok {
		return false
	}
	e.refs++
	return true
}

// Release drops a reference to h and frees the asset when none remain.
// Releasing an unknown handle is a no-op.
func (t *AssetTable) Release(h AssetHandle) {
	e, ok := t.entries[h]
	if !ok {
		return
	}
	e.refs--
	if e.refs > 0 {
		return
	}
	delete(t.entries, h)
	if e.asset.Name != "" && t.byName[e.asset.Name] == h {
		delete(t.byName, e.asset.Name)
	}
}

// Lookup returns the asset for h.
func (t *AssetTable) Lookup(h AssetHandle) (Asset, bool) {
	e, ok := t.entries[h]
	if !ok {
		return Asset{}, false
	}
	return e.asset, true
}

// Refs returns the current reference count of h, or 0 if h is unknown.
func (t *AssetTable) Refs(h AssetHandle) int {
	if e, ok := t.entries[h]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of live assets.
func (t *AssetTable) Len() int {
	return len(t.entries)
}
