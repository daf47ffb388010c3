package tabletop

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates. Injected events carry their own modifiers; the live keyboard
// is not consulted for them.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
	mods             KeyModifiers
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next frame's Update.
func (t *Table) InjectPress(x, y float64) {
	t.InjectPressMods(x, y, 0)
}

// InjectPressMods queues a left-button press with modifiers held, e.g.
// ModShift for a multi-select click or ModCtrl for a spawn click.
func (t *Table) InjectPressMods(x, y float64, mods KeyModifiers) {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
		mods:    mods,
	})
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (t *Table) InjectMove(x, y float64) {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (t *Table) InjectRelease(x, y float64) {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (t *Table) InjectClick(x, y float64) {
	t.InjectClickMods(x, y, 0)
}

// InjectClickMods is InjectClick with modifiers held during the press.
func (t *Table) InjectClickMods(x, y float64, mods KeyModifiers) {
	t.InjectPressMods(x, y, mods)
	t.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (t *Table) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	t.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*f
		y := fromY + (toY-fromY)*f
		t.InjectMove(x, y)
	}
	t.InjectRelease(toX, toY)
}

// Pending returns the number of injected events not yet consumed.
func (t *Table) Pending() int {
	return len(t.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer. Returns true if an event was consumed (real mouse
// input should be skipped). Moves and releases keep the modifiers captured
// at press time.
func (t *Table) processInjectedInput() bool {
	if len(t.injectQueue) == 0 {
		return false
	}
	evt := t.injectQueue[0]
	copy(t.injectQueue, t.injectQueue[1:])
	t.injectQueue = t.injectQueue[:len(t.injectQueue)-1]

	t.processPointer(evt.screenX, evt.screenY, evt.pressed, evt.button, evt.mods)
	return true
}
