package tabletop

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Table, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	PieceID   uuid.UUID
	ScreenX   float64
	ScreenY   float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Translation is the piece translation after the event was handled.
	Translation mgl64.Vec3
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
}

// Table is the top-level object that owns the pieces, the camera, the
// selection, and the pointer state.
type Table struct {
	// ScreenshotDir is the directory Screenshot writes PNG files to.
	ScreenshotDir string

	cfg   Config
	log   *zap.Logger
	store EntityStore
	debug bool

	camera    *Camera
	ground    Plane
	assets    *AssetTable
	kinds     *Kinds
	registry  *Registry
	selection *Selection
	drag      *DragController
	spawner   *Spawner

	// Input state
	handlers     handlerRegistry
	pointer      pointerState
	dragDeadZone float64
	multiMod     KeyModifiers
	spawnMod     KeyModifiers
	injectQueue  []syntheticPointerEvent
	script       *ScriptRunner

	screenshotQueue []string
}

// NewTable builds a table from cfg. A nil logger discards all output.
// Pieces listed in cfg.Pieces are spawned before NewTable returns.
func NewTable(cfg Config, log *zap.Logger) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	multi, _ := ParseModifier(cfg.Input.MultiSelect)
	spawn, _ := ParseModifier(cfg.Input.Spawn)

	t := &Table{
		ScreenshotDir: defaultScreenshotDir,
		cfg:           cfg,
		log:           log,
		ground:        GroundPlane(cfg.Ground.Height),
		assets:        NewAssetTable(),
		dragDeadZone:  cfg.Input.DragDeadZone,
		multiMod:      multi,
		spawnMod:      spawn,
	}

	t.camera = NewCamera(cfg.Camera.Position, cfg.Camera.Target, Rect{
		Width:  float64(cfg.Window.Width),
		Height: float64(cfg.Window.Height),
	})
	t.camera.FovY = mgl64.DegToRad(cfg.Camera.Fov)
	t.camera.Near = cfg.Camera.Near
	t.camera.Far = cfg.Camera.Far

	t.kinds = NewKinds(t.assets)
	builtins := []PieceKind{TankKind(), DiscKind()}
	for _, kc := range cfg.Kinds {
		k, err := kc.PieceKind()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		builtins = append(builtins, k)
	}
	for _, k := range builtins {
		if err := t.kinds.Register(k); err != nil {
			return nil, err
		}
	}

	t.registry = NewRegistry(t.assets)
	t.selection = NewSelection(t.registry)
	t.drag = NewDragController(t.registry, t.ground, log.Named("drag"))
	t.spawner = NewSpawner(t.kinds, t.registry, t.drag, t.ground, cfg.Spawn.Kind, log.Named("spawn"))

	t.registry.OnRemove(func(id uuid.UUID) {
		t.selection.forget(id)
		t.drag.Untrack(id)
		if t.pointer.piece == id {
			t.pointer.piece = uuid.Nil
			t.pointer.dragActive = false
		}
	})
	t.selection.OnChange(t.onSelectionChange)

	for i, pc := range cfg.Pieces {
		p, err := t.spawner.SpawnKindAt(pc.Kind, pc.Position)
		if err != nil {
			return nil, fmt.Errorf("pieces[%d]: %w", i, err)
		}
		if pc.Yaw != 0 {
			p.SetRotation(YawRotation(mgl64.DegToRad(pc.Yaw)).Mul(p.Transform().rotation()))
		}
	}
	return t, nil
}

// Config returns the configuration the table was built from.
func (t *Table) Config() Config { return t.cfg }

// Camera returns the table camera.
func (t *Table) Camera() *Camera { return t.camera }

// Ground returns the ground plane.
func (t *Table) Ground() Plane { return t.ground }

// Assets returns the shared asset table.
func (t *Table) Assets() *AssetTable { return t.assets }

// Kinds returns the registered piece kinds.
func (t *Table) Kinds() *Kinds { return t.kinds }

// Registry returns the piece registry.
func (t *Table) Registry() *Registry { return t.registry }

// Selection returns the selection.
func (t *Table) Selection() *Selection { return t.selection }

// DragController returns the drag controller.
func (t *Table) DragController() *DragController { return t.drag }

// Spawner returns the spawner.
func (t *Table) Spawner() *Spawner { return t.spawner }

// RemovePiece removes a piece from the table, dropping its selection and
// drag state.
func (t *Table) RemovePiece(id uuid.UUID) error {
	return t.registry.Remove(id)
}

// SetEntityStore sets the optional ECS bridge.
func (t *Table) SetEntityStore(store EntityStore) {
	t.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, stale drag
// sessions and oversized tables are reported through the logger each frame.
func (t *Table) SetDebugMode(enabled bool) {
	t.debug = enabled
}

// Update advances the camera and processes one frame of input.
func (t *Table) Update() {
	dt := float32(1.0 / float64(ebiten.TPS()))
	t.update(dt)
}

func (t *Table) update(dt float32) {
	t.camera.update(dt)
	if t.script != nil {
		t.script.step(t)
	}
	t.processInput()
	if t.debug {
		t.debugCheck()
	}
}

// FocusSelection flies the camera so the selection's centroid is at the
// center of the view, keeping the current viewing angle. It reports false
// when nothing is selected.
func (t *Table) FocusSelection(duration float32) bool {
	ids := t.selection.Selected()
	if len(ids) == 0 {
		return false
	}
	var sum mgl64.Vec3
	n := 0
	for _, id := range ids {
		if p, ok := t.registry.Get(id); ok {
			sum = sum.Add(p.Translation())
			n++
		}
	}
	if n == 0 {
		return false
	}
	center := sum.Mul(1 / float64(n))
	center[1] = t.ground.Point.Y()
	offset := t.camera.Position.Sub(t.camera.Target)
	t.camera.FlyTo(center.Add(offset), center, duration, ease.OutCubic)
	return true
}

func (t *Table) onSelectionChange(c SelectionChange) {
	typ := EventDeselect
	if c.Selected {
		typ = EventSelect
	}
	t.log.Debug("selection changed", zap.Stringer("piece", c.ID), zap.Bool("selected", c.Selected))
	var tr mgl64.Vec3
	if p, ok := t.registry.Get(c.ID); ok {
		tr = p.Translation()
	}
	t.emit(InteractionEvent{
		Type:        typ,
		PieceID:     c.ID,
		ScreenX:     t.pointer.lastX,
		ScreenY:     t.pointer.lastY,
		Modifiers:   t.pointer.mods,
		Translation: tr,
	})
}

// emit forwards an event to the ECS bridge. Events without a piece are
// dropped.
func (t *Table) emit(e InteractionEvent) {
	if t.store == nil || e.PieceID == uuid.Nil {
		return
	}
	t.store.EmitEvent(e)
}
