package tabletop

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts the color to a color.RGBA for ebiten drawing calls.
func (c Color) RGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}

// Vec2 is a 2D screen-space vector.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in screen space. The origin is at the
// top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPress     EventType = iota // fires when the pointer button is pressed
	EventRelease                    // fires when the pointer button is released
	EventDragStart                  // fires when movement exceeds the drag dead zone
	EventDrag                       // fires each frame while dragging
	EventDragEnd                    // fires when the pointer is released after dragging
	EventSelect                     // fires when a piece joins the selection
	EventDeselect                   // fires when a piece leaves the selection
	EventSpawn                      // fires when a piece is spawned from a pointer press
)

// String returns the event name used in logs.
func (e EventType) String() string {
	switch e {
	case EventPress:
		return "press"
	case EventRelease:
		return "release"
	case EventDragStart:
		return "drag_start"
	case EventDrag:
		return "drag"
	case EventDragEnd:
		return "drag_end"
	case EventSelect:
		return "select"
	case EventDeselect:
		return "deselect"
	case EventSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Has reports whether every modifier in want is held. A zero want never
// matches, so an unbound modifier cannot trigger anything.
func (m KeyModifiers) Has(want KeyModifiers) bool {
	return want != 0 && m&want == want
}

// ParseModifier converts a config name ("shift", "ctrl", "alt", "meta") to a
// KeyModifiers value. Names may be joined with "+".
func ParseModifier(name string) (KeyModifiers, error) {
	var mods KeyModifiers
	for _, part := range strings.Split(name, "+") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "shift":
			mods |= ModShift
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt", "option":
			mods |= ModAlt
		case "meta", "cmd", "super":
			mods |= ModMeta
		default:
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
	}
	return mods, nil
}

// DragMode selects how pointer displacement moves a dragged piece.
type DragMode uint8

const (
	// DragFreePlanar moves the piece on the horizontal plane, following the
	// cursor's X and Z displacement. The vertical coordinate is untouched.
	DragFreePlanar DragMode = iota
	// DragAxisConstrained slides the piece along its own facing axis only.
	// Lateral cursor movement is discarded.
	DragAxisConstrained
)

// String returns the config name of the mode.
func (m DragMode) String() string {
	switch m {
	case DragFreePlanar:
		return "free"
	case DragAxisConstrained:
		return "axis"
	default:
		return "unknown"
	}
}

// ParseDragMode converts a config name to a DragMode.
func ParseDragMode(name string) (DragMode, error) {
	switch strings.ToLower(name) {
	case "", "free", "planar", "simple":
		return DragFreePlanar, nil
	case "axis", "straight", "constrained":
		return DragAxisConstrained, nil
	}
	return 0, fmt.Errorf("unknown drag mode %q", name)
}

// Errors returned by interaction operations. Every one of them is non-fatal:
// the dispatcher logs it and skips the event.
var (
	// ErrOutsideViewport is returned when a cursor lies outside the camera viewport.
	ErrOutsideViewport = errors.New("tabletop: cursor outside viewport")
	// ErrDegenerateProjection is returned when the camera matrices cannot be inverted.
	ErrDegenerateProjection = errors.New("tabletop: degenerate camera projection")
	// ErrNoIntersection is returned when a ray misses the reference plane.
	ErrNoIntersection = errors.New("tabletop: ray does not intersect plane")
	// ErrPieceNotFound is returned when an operation references a removed piece.
	ErrPieceNotFound = errors.New("tabletop: piece not found")
	// ErrNotDraggable is returned when a piece has no drag session.
	ErrNotDraggable = errors.New("tabletop: piece is not draggable")
	// ErrNoDragSession is returned when a drag update arrives without an anchor.
	ErrNoDragSession = errors.New("tabletop: no active drag session")
	// ErrUnknownKind is returned when a piece kind name is not registered.
	ErrUnknownKind = errors.New("tabletop: unknown piece kind")
)
