package tabletop

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type recordingStore struct {
	events []InteractionEvent
}

func (s *recordingStore) EmitEvent(e InteractionEvent) {
	s.events = append(s.events, e)
}

func (s *recordingStore) types() []EventType {
	out := make([]EventType, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tb, err := NewTable(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tb
}

// drain runs the pointer state machine until the inject queue is empty.
func drain(tb *Table) {
	for tb.processInjectedInput() {
	}
}

func firstPiece(tb *Table) *Piece {
	var out *Piece
	tb.Registry().Each(func(p *Piece) bool {
		out = p
		return false
	})
	return out
}

func screenOf(t *testing.T, tb *Table, p mgl64.Vec3) (float64, float64) {
	t.Helper()
	sx, sy, ok := tb.Camera().WorldToScreen(p)
	if !ok {
		t.Fatalf("%v is not on screen", p)
	}
	return sx, sy
}

func eventsEqual(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestClickSelectsPiece(t *testing.T) {
	tb := newTestTable(t)
	disc := firstPiece(tb)
	store := &recordingStore{}
	tb.SetEntityStore(store)

	var pressed *Piece
	tb.OnPress(func(ctx PointerContext) { pressed = ctx.Piece })

	sx, sy := screenOf(t, tb, disc.Translation())
	tb.InjectClick(sx, sy)
	drain(tb)

	if pressed != disc {
		t.Errorf("press handler piece = %v, want the disc", pressed)
	}
	if !tb.Selection().Contains(disc.ID) || !disc.Highlighted {
		t.Error("clicked piece not selected")
	}
	want := []EventType{EventSelect, EventPress, EventRelease}
	if got := store.types(); !eventsEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestBackgroundClickClearsSelection(t *testing.T) {
	tb := newTestTable(t)
	disc := firstPiece(tb)
	tb.Selection().Select(disc.ID)

	var ctx PointerContext
	tb.OnPress(func(c PointerContext) { ctx = c })
	tb.InjectClick(100, 100)
	drain(tb)

	if tb.Selection().Len() != 0 {
		t.Error("background click kept the selection")
	}
	if ctx.Piece != nil || !ctx.OnGround {
		t.Errorf("press context = %+v, want background on the ground", ctx)
	}

	// A multi background click keeps the selection.
	tb.Selection().Select(disc.ID)
	tb.InjectClickMods(100, 100, ModShift)
	drain(tb)
	if !tb.Selection().Contains(disc.ID) {
		t.Error("shift background click cleared the selection")
	}
}

func TestShiftClickTogglesSelection(t *testing.T) {
	tb := newTestTable(t)
	disc := firstPiece(tb)
	other, err := tb.Spawner().SpawnKindAt(KindDisc, mgl64.Vec3{3, 0, 0})
	if err != nil {
		t.Fatal(err)
	}

	dx, dy := screenOf(t, tb, disc.Translation())
	ox, oy := screenOf(t, tb, other.Translation())
	tb.InjectClick(dx, dy)
	tb.InjectClickMods(ox, oy, ModShift)
	drain(tb)
	if tb.Selection().Len() != 2 {
		t.Fatalf("Len = %d, want 2", tb.Selection().Len())
	}

	tb.InjectClickMods(dx, dy, ModShift)
	drain(tb)
	if tb.Selection().Contains(disc.ID) || !tb.Selection().Contains(other.ID) {
		t.Error("shift click did not toggle only the clicked piece")
	}

	tb.InjectClick(dx, dy)
	drain(tb)
	sel := tb.Selection().Selected()
	if len(sel) != 1 || sel[0] != disc.ID {
		t.Errorf("exclusive click selection = %v", sel)
	}
}

func TestCtrlPressSpawns(t *testing.T) {
	tb := newTestTable(t)
	store := &recordingStore{}
	tb.SetEntityStore(store)

	var spawned *Piece
	tb.OnSpawn(func(p *Piece) { spawned = p })

	sx, sy := screenOf(t, tb, mgl64.Vec3{4, 0, 3})
	tb.InjectClickMods(sx, sy, ModCtrl)
	drain(tb)

	if spawned == nil {
		t.Fatal("no piece spawned")
	}
	if tb.Registry().Len() != 2 {
		t.Errorf("Len = %d, want 2", tb.Registry().Len())
	}
	if spawned.Kind != KindTank {
		t.Errorf("Kind = %q, want tank", spawned.Kind)
	}
	if !vecApprox(spawned.Translation(), mgl64.Vec3{4, 0.375, 3}, 1e-6) {
		t.Errorf("spawned at %v, want (4,0.375,3)", spawned.Translation())
	}
	if tb.Selection().Contains(spawned.ID) {
		t.Error("spawned piece was selected")
	}
	if got := store.types(); len(got) != 1 || got[0] != EventSpawn {
		t.Errorf("events = %v, want [spawn]", got)
	}

	// Ctrl on a piece selects instead of spawning.
	tb.InjectClickMods(sx, sy, ModCtrl)
	drain(tb)
	if tb.Registry().Len() != 2 {
		t.Error("ctrl click on a piece spawned another")
	}
}

func TestPointerDragMovesPiece(t *testing.T) {
	tb := newTestTable(t)
	disc := firstPiece(tb)
	store := &recordingStore{}
	tb.SetEntityStore(store)

	var starts, drags, ends int
	tb.OnDragStart(func(DragContext) { starts++ })
	tb.OnDrag(func(DragContext) { drags++ })
	tb.OnDragEnd(func(ctx DragContext) {
		ends++
		if ctx.Piece != disc {
			t.Errorf("drag end piece = %v", ctx.Piece)
		}
	})

	fx, fy := screenOf(t, tb, disc.Translation())
	tx, ty := screenOf(t, tb, mgl64.Vec3{3, 0.05, -2})
	tb.InjectPress(fx, fy)
	tb.InjectMove(tx, ty)
	tb.InjectRelease(tx, ty)
	drain(tb)

	if !vecApprox(disc.Translation(), mgl64.Vec3{3, 0.05, -2}, 1e-6) {
		t.Errorf("translation = %v, want (3,0.05,-2)", disc.Translation())
	}
	if starts != 1 || drags != 1 || ends != 1 {
		t.Errorf("start/drag/end = %d/%d/%d, want 1/1/1", starts, drags, ends)
	}
	if tb.DragController().Dragging(disc.ID) {
		t.Error("drag still active after release")
	}
	want := []EventType{EventSelect, EventPress, EventDragStart, EventDrag, EventDragEnd, EventRelease}
	if got := store.types(); !eventsEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	last := store.events[len(store.events)-1]
	if !vecApprox(last.Translation, disc.Translation(), 1e-9) {
		t.Errorf("release event translation = %v", last.Translation)
	}
}

func TestPointerDragAxisConstrained(t *testing.T) {
	tb := newTestTable(t)
	tank, err := tb.Spawner().SpawnKindAt(KindTank, mgl64.Vec3{5, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	fx, fy := screenOf(t, tb, tank.Translation())
	tx, ty := screenOf(t, tb, mgl64.Vec3{8, 0.375, 2})
	tb.InjectPress(fx, fy)
	tb.InjectMove((fx+tx)/2, (fy+ty)/2)
	tb.InjectMove(tx, ty)
	tb.InjectRelease(tx, ty)
	drain(tb)

	// Forward is -Z: only the Z component of the cursor motion applies.
	if !vecApprox(tank.Translation(), mgl64.Vec3{5, 0.375, 2}, 1e-6) {
		t.Errorf("translation = %v, want (5,0.375,2)", tank.Translation())
	}
}

func TestPointerDeadZone(t *testing.T) {
	tb := newTestTable(t)
	disc := firstPiece(tb)
	started := false
	tb.OnDragStart(func(DragContext) { started = true })

	sx, sy := screenOf(t, tb, disc.Translation())
	tb.InjectPress(sx, sy)
	tb.InjectMove(sx+3, sy)
	tb.InjectRelease(sx+3, sy)
	drain(tb)

	if started {
		t.Error("drag started inside the dead zone")
	}
	if disc.Translation() != (mgl64.Vec3{0, 0.05, 0}) {
		t.Errorf("piece moved to %v", disc.Translation())
	}

	tb.SetDragDeadZone(1)
	tb.InjectDrag(sx, sy, sx+3, sy, 3)
	drain(tb)
	if !started {
		t.Error("drag did not start past a smaller dead zone")
	}
}

func TestBackgroundDragMovesNothing(t *testing.T) {
	tb := newTestTable(t)
	disc := firstPiece(tb)
	var ctx DragContext
	tb.OnDrag(func(c DragContext) { ctx = c })

	tb.InjectDrag(100, 100, 300, 200, 3)
	drain(tb)

	if ctx.Piece != nil {
		t.Errorf("background drag reported piece %v", ctx.Piece)
	}
	if ctx.StartX != 100 || ctx.StartY != 100 {
		t.Errorf("start = (%v,%v)", ctx.StartX, ctx.StartY)
	}
	if disc.Translation() != (mgl64.Vec3{0, 0.05, 0}) {
		t.Errorf("piece moved to %v", disc.Translation())
	}
}

func TestRemovePieceDuringDrag(t *testing.T) {
	tb := newTestTable(t)
	disc := firstPiece(tb)
	var endPiece *Piece
	ended := false
	tb.OnDragEnd(func(ctx DragContext) {
		ended = true
		endPiece = ctx.Piece
	})

	sx, sy := screenOf(t, tb, disc.Translation())
	tb.InjectPress(sx, sy)
	tb.InjectMove(sx+20, sy)
	drain(tb)
	if !tb.DragController().Dragging(disc.ID) {
		t.Fatal("drag not active")
	}

	if err := tb.RemovePiece(disc.ID); err != nil {
		t.Fatal(err)
	}
	if tb.Selection().Contains(disc.ID) {
		t.Error("removed piece still selected")
	}
	if _, ok := tb.DragController().Session(disc.ID); ok {
		t.Error("removed piece kept its drag session")
	}

	tb.InjectMove(sx+40, sy)
	tb.InjectRelease(sx+40, sy)
	drain(tb)
	if !ended || endPiece != nil {
		t.Errorf("drag end fired=%v piece=%v, want fired with no piece", ended, endPiece)
	}
}

func TestNonLeftButtonDoesNotSelect(t *testing.T) {
	tb := newTestTable(t)
	disc := firstPiece(tb)
	sx, sy := screenOf(t, tb, disc.Translation())

	var ctx PointerContext
	tb.OnPress(func(c PointerContext) { ctx = c })
	tb.processPointer(sx, sy, true, MouseButtonRight, 0)
	tb.processPointer(sx+30, sy, true, MouseButtonRight, 0)
	tb.processPointer(sx+30, sy, false, MouseButtonRight, 0)

	if ctx.Piece != disc || ctx.Button != MouseButtonRight {
		t.Errorf("press context = %+v", ctx)
	}
	if tb.Selection().Len() != 0 {
		t.Error("right click selected a piece")
	}
	if disc.Translation() != (mgl64.Vec3{0, 0.05, 0}) {
		t.Error("right drag moved the piece")
	}
}

func TestPressOutsideViewport(t *testing.T) {
	tb := newTestTable(t)
	disc := firstPiece(tb)
	tb.Selection().Select(disc.ID)

	fired := false
	tb.OnPress(func(ctx PointerContext) {
		fired = true
		if ctx.Piece != nil || ctx.OnGround {
			t.Errorf("press context = %+v", ctx)
		}
	})
	tb.InjectClick(-20, -20)
	drain(tb)

	if !fired {
		t.Error("press handler not called")
	}
	if !tb.Selection().Contains(disc.ID) {
		t.Error("press outside the viewport changed the selection")
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	tb := newTestTable(t)
	n := 0
	h := tb.OnRelease(func(PointerContext) { n++ })
	tb.InjectClick(100, 100)
	drain(tb)
	h.Remove()
	tb.InjectClick(100, 100)
	drain(tb)
	if n != 1 {
		t.Errorf("release handler called %d times, want 1", n)
	}
	// Removing twice is harmless.
	h.Remove()
}
