package tabletop

import (
	"sort"

	"github.com/google/uuid"
)

// SelectionChange describes a single selection transition.
type SelectionChange struct {
	ID       uuid.UUID
	Selected bool
}

type selectionObserver struct {
	id uint32
	fn func(SelectionChange)
}

// Selection is the set of currently selected pieces. Membership is keyed by
// piece ID; iteration follows insertion order.
type Selection struct {
	registry  *Registry
	members   map[uuid.UUID]uint64
	seq       uint64
	observers []selectionObserver
	nextID    uint32
}

// NewSelection creates an empty selection over the pieces in registry.
func NewSelection(registry *Registry) *Selection {
	return &Selection{
		registry: registry,
		members:  make(map[uuid.UUID]uint64),
	}
}

// SelectionHandle allows removing a registered selection observer.
type SelectionHandle struct {
	id  uint32
	sel *Selection
}

// Remove unregisters the observer.
func (h SelectionHandle) Remove() {
	if h.sel == nil {
		return
	}
	s := h.sel.observers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = selectionObserver{}
			h.sel.observers = s[:len(s)-1]
			return
		}
	}
}

// OnChange registers an observer notified once per selection transition.
func (s *Selection) OnChange(fn func(SelectionChange)) SelectionHandle {
	s.nextID++
	s.observers = append(s.observers, selectionObserver{id: s.nextID, fn: fn})
	return SelectionHandle{id: s.nextID, sel: s}
}

// Contains reports whether the piece is selected.
func (s *Selection) Contains(id uuid.UUID) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of selected pieces.
func (s *Selection) Len() int {
	return len(s.members)
}

// Selected returns the selected IDs in the order they were selected.
func (s *Selection) Selected() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.members[ids[i]] < s.members[ids[j]]
	})
	return ids
}

// OnClick applies a click on a piece.
//
// Without multi, every other selected piece is deselected first. With multi,
// clicking a selected piece deselects it. Otherwise the piece is selected.
// A piece that is missing or not selectable only triggers the exclusive
// clear.
func (s *Selection) OnClick(id uuid.UUID, multi bool) {
	if !multi {
		s.clearExcept(id)
	}
	p, ok := s.registry.Get(id)
	if !ok || !p.Selectable {
		if !multi {
			s.remove(id)
		}
		return
	}
	if multi && s.Contains(id) {
		s.remove(id)
		return
	}
	s.add(id)
}

// OnBackgroundClick applies a click that hit no piece. Exclusive clicks
// clear the selection; multi clicks keep it.
func (s *Selection) OnBackgroundClick(multi bool) {
	if multi {
		return
	}
	s.DeselectAll()
}

// Select adds a selectable piece to the selection.
func (s *Selection) Select(id uuid.UUID) bool {
	p, ok := s.registry.Get(id)
	if !ok || !p.Selectable {
		return false
	}
	s.add(id)
	return true
}

// Deselect removes a piece from the selection.
func (s *Selection) Deselect(id uuid.UUID) {
	s.remove(id)
}

// DeselectAll empties the selection. Calling it on an empty selection is a
// no-op.
func (s *Selection) DeselectAll() {
	s.clearExcept(uuid.Nil)
}

// forget drops a removed piece without touching the registry.
func (s *Selection) forget(id uuid.UUID) {
	if _, ok := s.members[id]; !ok {
		return
	}
	delete(s.members, id)
	s.notify(SelectionChange{ID: id, Selected: false})
}

func (s *Selection) clearExcept(keep uuid.UUID) {
	for _, id := range s.Selected() {
		if id != keep {
			s.remove(id)
		}
	}
}

func (s *Selection) add(id uuid.UUID) {
	if s.Contains(id) {
		return
	}
	s.seq++
	s.members[id] = s.seq
	if p, ok := s.registry.Get(id); ok {
		p.Highlighted = true
	}
	s.notify(SelectionChange{ID: id, Selected: true})
}

func (s *Selection) remove(id uuid.UUID) {
	if !s.Contains(id) {
		return
	}
	delete(s.members, id)
	if p, ok := s.registry.Get(id); ok {
		p.Highlighted = false
	}
	s.notify(SelectionChange{ID: id, Selected: false})
}

func (s *Selection) notify(c SelectionChange) {
	for _, o := range s.observers {
		o.fn(c)
	}
}
