package tabletop

import (
	"go.uber.org/zap"
)

// debugMaxPieces is the piece count above which debug mode warns.
const debugMaxPieces = 1000

// debugCheck runs per-frame consistency checks. Only called when debug mode
// is on.
func (t *Table) debugCheck() {
	if n := t.registry.Len(); n > debugMaxPieces {
		t.log.Warn("piece count exceeds threshold",
			zap.Int("pieces", n), zap.Int("threshold", debugMaxPieces))
	}
	t.debugCheckStaleSessions()
}

// debugCheckStaleSessions warns about drag sessions that are still active
// while no drag is in progress.
func (t *Table) debugCheckStaleSessions() {
	for id, s := range t.drag.sessions {
		if !s.Active {
			continue
		}
		if t.pointer.dragActive && t.pointer.piece == id {
			continue
		}
		t.log.Warn("stale drag session", zap.Stringer("piece", id), zap.Stringer("mode", s.Mode))
	}
}
