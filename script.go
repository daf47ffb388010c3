package tabletop

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an interaction script.
type scriptStep struct {
	Action    string  `json:"action"`
	Label     string  `json:"label,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	FromX     float64 `json:"fromX,omitempty"`
	FromY     float64 `json:"fromY,omitempty"`
	ToX       float64 `json:"toX,omitempty"`
	ToY       float64 `json:"toY,omitempty"`
	Frames    int     `json:"frames,omitempty"`
	Modifiers string  `json:"modifiers,omitempty"`
	Duration  float32 `json:"duration,omitempty"`

	mods KeyModifiers
}

// script is the top-level JSON structure for an interaction script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences injected input across frames to replay a recorded
// interaction. Attach to a Table via SetScript.
//
// Supported actions: "click" (x, y, modifiers), "press" (x, y, modifiers),
// "move" (x, y), "release" (x, y), "drag" (fromX, fromY, toX, toY, frames),
// "wait" (frames), "deselect", "focus" (duration), "screenshot" (label).
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON interaction script and returns a ScriptRunner
// ready to be attached to a Table via SetScript.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		switch st.Action {
		case "click", "press", "move", "release", "drag", "wait", "deselect", "focus", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
		if st.Modifiers != "" {
			mods, err := ParseModifier(st.Modifiers)
			if err != nil {
				return nil, fmt.Errorf("parse script: step %d: %w", i, err)
			}
			st.mods = mods
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScript attaches a ScriptRunner to the table. The runner's step method
// is called from Table.Update before input is processed each frame.
func (t *Table) SetScript(runner *ScriptRunner) {
	t.script = runner
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Table.Update.
func (r *ScriptRunner) step(t *Table) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(t.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		t.Screenshot(st.Label)
	case "click":
		t.InjectClickMods(st.X, st.Y, st.mods)
	case "press":
		t.InjectPressMods(st.X, st.Y, st.mods)
	case "move":
		t.InjectMove(st.X, st.Y)
	case "release":
		t.InjectRelease(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		t.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "deselect":
		t.selection.DeselectAll()
	case "focus":
		t.FocusSelection(st.Duration)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(t.injectQueue) == 0 {
		r.done = true
	}
}
