package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/phanxgames/tabletop"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// InteractionEventType is the Donburi event type for tabletop interaction
// events. Subscribe to this in your ECS systems to receive press, drag,
// selection, and spawn events.
var InteractionEventType = events.NewEventType[tabletop.InteractionEvent]()

// PieceState mirrors a piece's interaction state inside the ECS world.
type PieceState struct {
	ID          uuid.UUID
	Translation mgl64.Vec3
	Selected    bool
	Dragging    bool
}

// Piece is the component holding a PieceState.
var Piece = donburi.NewComponentType[PieceState]()

// PieceQuery matches every mirrored piece entity.
var PieceQuery = donburi.NewQuery(filter.Contains(Piece))

type donburiStore struct {
	world    donburi.World
	entities map[uuid.UUID]donburi.Entity
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents. Each piece that appears
// in an event also gets an entity with a Piece component kept in sync.
func NewDonburiStore(world donburi.World) tabletop.EntityStore {
	return &donburiStore{
		world:    world,
		entities: make(map[uuid.UUID]donburi.Entity),
	}
}

func (s *donburiStore) EmitEvent(event tabletop.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
	s.mirror(event)
}

// mirror updates the piece entity for the event, creating it on first use.
func (s *donburiStore) mirror(event tabletop.InteractionEvent) {
	entity, ok := s.entities[event.PieceID]
	if !ok || !s.world.Valid(entity) {
		entity = s.world.Create(Piece)
		s.entities[event.PieceID] = entity
		Piece.SetValue(s.world.Entry(entity), PieceState{ID: event.PieceID})
	}
	state := Piece.Get(s.world.Entry(entity))
	state.Translation = event.Translation

	switch event.Type {
	case tabletop.EventSelect:
		state.Selected = true
	case tabletop.EventDeselect:
		state.Selected = false
	case tabletop.EventDragStart:
		state.Dragging = true
	case tabletop.EventDragEnd:
		state.Dragging = false
	}
}

// FindPiece returns the mirrored state of a piece.
func FindPiece(world donburi.World, id uuid.UUID) (PieceState, bool) {
	var found PieceState
	var ok bool
	PieceQuery.Each(world, func(entry *donburi.Entry) {
		if s := Piece.Get(entry); s.ID == id {
			found = *s
			ok = true
		}
	})
	return found, ok
}
