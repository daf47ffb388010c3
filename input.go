package tabletop

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

const defaultDragDeadZone = 4.0 // pixels

// PointerContext carries press and release event data.
type PointerContext struct {
	// Piece is the piece under the pointer at press time, or nil when the
	// press hit the background.
	Piece   *Piece
	ScreenX float64
	ScreenY float64
	// Ground is the cursor's projection on the ground plane. Valid when
	// OnGround is true.
	Ground    mgl64.Vec3
	OnGround  bool
	Button    MouseButton
	Modifiers KeyModifiers
}

// DragContext carries drag event data. Deltas are in screen pixels.
type DragContext struct {
	Piece     *Piece
	ScreenX   float64
	ScreenY   float64
	StartX    float64
	StartY    float64
	DeltaX    float64
	DeltaY    float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// --- Pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	button   MouseButton  // button captured at press time
	mods     KeyModifiers // modifiers captured at press time
	piece    uuid.UUID    // piece hit at press time
	pressRay Ray
	rayOK    bool
	dragging bool
	// dragActive is set when the drag controller accepted the drag.
	dragActive bool
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type dragHandler struct {
	id uint32
	fn func(DragContext)
}

type spawnHandler struct {
	id uint32
	fn func(*Piece)
}

type handlerRegistry struct {
	press     []pointerHandler
	release   []pointerHandler
	dragStart []dragHandler
	drag      []dragHandler
	dragEnd   []dragHandler
	spawn     []spawnHandler
	nextID    uint32
}

// CallbackHandle allows removing a registered table-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPress:
		h.reg.press = removePointerHandler(h.reg.press, h.id)
	case EventRelease:
		h.reg.release = removePointerHandler(h.reg.release, h.id)
	case EventDragStart:
		h.reg.dragStart = removeDragHandler(h.reg.dragStart, h.id)
	case EventDrag:
		h.reg.drag = removeDragHandler(h.reg.drag, h.id)
	case EventDragEnd:
		h.reg.dragEnd = removeDragHandler(h.reg.dragEnd, h.id)
	case EventSpawn:
		for i := range h.reg.spawn {
			if h.reg.spawn[i].id == h.id {
				h.reg.spawn = append(h.reg.spawn[:i], h.reg.spawn[i+1:]...)
				return
			}
		}
	}
}

func removePointerHandler(s []pointerHandler, id uint32) []pointerHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeDragHandler(s []dragHandler, id uint32) []dragHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = dragHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Table-level event registration ---

// OnPress registers a callback for pointer presses. It runs after the
// press has updated the selection.
func (t *Table) OnPress(fn func(PointerContext)) CallbackHandle {
	t.handlers.nextID++
	id := t.handlers.nextID
	t.handlers.press = append(t.handlers.press, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &t.handlers, event: EventPress}
}

// OnRelease registers a callback for pointer releases.
func (t *Table) OnRelease(fn func(PointerContext)) CallbackHandle {
	t.handlers.nextID++
	id := t.handlers.nextID
	t.handlers.release = append(t.handlers.release, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &t.handlers, event: EventRelease}
}

// OnDragStart registers a callback for drag start events.
func (t *Table) OnDragStart(fn func(DragContext)) CallbackHandle {
	t.handlers.nextID++
	id := t.handlers.nextID
	t.handlers.dragStart = append(t.handlers.dragStart, dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &t.handlers, event: EventDragStart}
}

// OnDrag registers a callback for drag events. It runs after the piece has
// moved.
func (t *Table) OnDrag(fn func(DragContext)) CallbackHandle {
	t.handlers.nextID++
	id := t.handlers.nextID
	t.handlers.drag = append(t.handlers.drag, dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &t.handlers, event: EventDrag}
}

// OnDragEnd registers a callback for drag end events.
func (t *Table) OnDragEnd(fn func(DragContext)) CallbackHandle {
	t.handlers.nextID++
	id := t.handlers.nextID
	t.handlers.dragEnd = append(t.handlers.dragEnd, dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &t.handlers, event: EventDragEnd}
}

// OnSpawn registers a callback for pieces spawned by a modifier press.
func (t *Table) OnSpawn(fn func(*Piece)) CallbackHandle {
	t.handlers.nextID++
	id := t.handlers.nextID
	t.handlers.spawn = append(t.handlers.spawn, spawnHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &t.handlers, event: EventSpawn}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (t *Table) SetDragDeadZone(pixels float64) {
	t.dragDeadZone = pixels
}

// --- Input processing ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// processInput is called from Table.Update. An injected event replaces the
// live mouse for that frame.
func (t *Table) processInput() {
	if t.processInjectedInput() {
		return
	}
	t.processMousePointer(readModifiers())
}

// processMousePointer feeds the live mouse state through processPointer.
func (t *Table) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}
	t.processPointer(float64(mx), float64(my), pressed, button, mods)
}

// processPointer runs the pointer state machine: press selects, movement
// past the dead zone starts a drag, release ends it.
func (t *Table) processPointer(sx, sy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &t.pointer

	switch {
	case pressed && !ps.down:
		*ps = pointerState{
			down:   true,
			startX: sx, startY: sy,
			lastX: sx, lastY: sy,
			button: button,
			mods:   mods,
		}
		t.handlePress(sx, sy)

	case !pressed && ps.down:
		if ps.dragging {
			if ps.dragActive {
				t.drag.EndDrag(ps.piece)
			}
			t.fireDrag(EventDragEnd, sx, sy, sx-ps.lastX, sy-ps.lastY)
		}
		t.fireRelease(sx, sy)
		*ps = pointerState{lastX: sx, lastY: sy}

	case pressed && ps.down:
		if sx != ps.lastX || sy != ps.lastY {
			if !ps.dragging {
				dx := sx - ps.startX
				dy := sy - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > t.dragDeadZone {
					ps.dragging = true
					t.beginDrag()
					t.fireDrag(EventDragStart, sx, sy, dx, dy)
				}
			}
			if ps.dragging {
				t.continueDrag(sx, sy)
				t.fireDrag(EventDrag, sx, sy, sx-ps.lastX, sy-ps.lastY)
			}
		}
		ps.lastX = sx
		ps.lastY = sy

	default:
		ps.lastX = sx
		ps.lastY = sy
	}
}

// handlePress casts the press ray once and routes it: a hit piece goes to
// the selection, a background press clears the selection and may spawn.
func (t *Table) handlePress(sx, sy float64) {
	ps := &t.pointer
	ctx := PointerContext{ScreenX: sx, ScreenY: sy, Button: ps.button, Modifiers: ps.mods}

	ray, err := t.camera.ScreenToRay(sx, sy)
	if err != nil {
		t.log.Debug("press ignored", zap.Float64("x", sx), zap.Float64("y", sy), zap.Error(err))
		t.firePress(ctx)
		return
	}
	ps.pressRay = ray
	ps.rayOK = true
	ctx.Ground, ctx.OnGround = IntersectPlane(ray, t.ground)

	target, _ := t.registry.Pick(ray)
	ctx.Piece = target

	if ps.button == MouseButtonLeft {
		multi := ps.mods.Has(t.multiMod)
		if target != nil {
			ps.piece = target.ID
			t.selection.OnClick(target.ID, multi)
		} else {
			t.selection.OnBackgroundClick(multi)
			if ps.mods.Has(t.spawnMod) {
				t.spawnFromRay(ray)
			}
		}
	}

	t.firePress(ctx)
}

func (t *Table) spawnFromRay(ray Ray) {
	p, err := t.spawner.SpawnRay(ray)
	if err != nil {
		t.log.Debug("spawn failed", zap.Error(err))
		return
	}
	for _, h := range t.handlers.spawn {
		h.fn(p)
	}
	t.emit(InteractionEvent{
		Type:        EventSpawn,
		PieceID:     p.ID,
		ScreenX:     t.pointer.startX,
		ScreenY:     t.pointer.startY,
		Button:      t.pointer.button,
		Modifiers:   t.pointer.mods,
		Translation: p.Translation(),
	})
}

// beginDrag anchors the drag at the press position so the grab point stays
// under the cursor.
func (t *Table) beginDrag() {
	ps := &t.pointer
	if ps.piece == uuid.Nil || !ps.rayOK || ps.button != MouseButtonLeft {
		return
	}
	if err := t.drag.BeginDragRay(ps.piece, ps.pressRay); err != nil {
		t.log.Debug("drag not started", zap.Error(err))
		return
	}
	ps.dragActive = true
}

func (t *Table) continueDrag(sx, sy float64) {
	ps := &t.pointer
	if !ps.dragActive {
		return
	}
	ray, err := t.camera.ScreenToRay(sx, sy)
	if err != nil {
		t.log.Debug("drag move ignored", zap.Error(err))
		return
	}
	if err := t.drag.UpdateDragRay(ps.piece, ray); err != nil {
		t.log.Debug("drag move ignored", zap.Error(err))
		if errors.Is(err, ErrPieceNotFound) {
			ps.dragActive = false
		}
	}
}

// --- Event dispatch ---

func (t *Table) pressedPiece() *Piece {
	if t.pointer.piece == uuid.Nil {
		return nil
	}
	p, _ := t.registry.Get(t.pointer.piece)
	return p
}

func (t *Table) firePress(ctx PointerContext) {
	for _, h := range t.handlers.press {
		h.fn(ctx)
	}
	if ctx.Piece != nil {
		t.emit(InteractionEvent{
			Type:        EventPress,
			PieceID:     ctx.Piece.ID,
			ScreenX:     ctx.ScreenX,
			ScreenY:     ctx.ScreenY,
			Button:      ctx.Button,
			Modifiers:   ctx.Modifiers,
			Translation: ctx.Piece.Translation(),
		})
	}
}

func (t *Table) fireRelease(sx, sy float64) {
	ps := &t.pointer
	ctx := PointerContext{
		Piece:   t.pressedPiece(),
		ScreenX: sx, ScreenY: sy,
		Button: ps.button, Modifiers: ps.mods,
	}
	if ray, err := t.camera.ScreenToRay(sx, sy); err == nil {
		ctx.Ground, ctx.OnGround = IntersectPlane(ray, t.ground)
	}
	for _, h := range t.handlers.release {
		h.fn(ctx)
	}
	if ctx.Piece != nil {
		t.emit(InteractionEvent{
			Type:        EventRelease,
			PieceID:     ctx.Piece.ID,
			ScreenX:     sx,
			ScreenY:     sy,
			Button:      ctx.Button,
			Modifiers:   ctx.Modifiers,
			Translation: ctx.Piece.Translation(),
		})
	}
}

func (t *Table) fireDrag(event EventType, sx, sy, dx, dy float64) {
	ps := &t.pointer
	ctx := DragContext{
		Piece:   t.pressedPiece(),
		ScreenX: sx, ScreenY: sy,
		StartX: ps.startX, StartY: ps.startY,
		DeltaX: dx, DeltaY: dy,
		Button: ps.button, Modifiers: ps.mods,
	}
	var handlers []dragHandler
	switch event {
	case EventDragStart:
		handlers = t.handlers.dragStart
	case EventDrag:
		handlers = t.handlers.drag
	case EventDragEnd:
		handlers = t.handlers.dragEnd
	}
	for _, h := range handlers {
		h.fn(ctx)
	}
	if ctx.Piece != nil {
		t.emit(InteractionEvent{
			Type:        event,
			PieceID:     ctx.Piece.ID,
			ScreenX:     sx,
			ScreenY:     sy,
			Button:      ctx.Button,
			Modifiers:   ctx.Modifiers,
			Translation: ctx.Piece.Translation(),
			StartX:      ctx.StartX,
			StartY:      ctx.StartY,
			DeltaX:      dx,
			DeltaY:      dy,
		})
	}
}
