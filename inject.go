package morphic

// syntheticEvent is a single injected hand event. Exactly one of the
// fields is set.
type syntheticEvent struct {
	mouse *MouseEvent
	key   *KeyEvent
}

// InjectPress queues a button 1 press at p (owner-local). Queued events are
// dispatched one per ProcessInjected call.
func (h *Hand) InjectPress(p Point) {
	h.injectMouse(EventMouseDown, p, 0)
}

// InjectMove queues a pointer move to p with button 1 held. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (h *Hand) InjectMove(p Point) {
	h.injectMouse(EventMouseMove, p, ModButton1)
}

// InjectRelease queues a button 1 release at p.
func (h *Hand) InjectRelease(p Point) {
	h.injectMouse(EventMouseUp, p, 0)
}

// InjectClick queues a press, a release and a click at p.
func (h *Hand) InjectClick(p Point) {
	h.InjectPress(p)
	h.InjectRelease(p)
	h.injectMouse(EventMouseClick, p, 0)
}

// InjectDrag queues a full drag sequence: press at from, linearly
// interpolated moves over frames-2 intermediate frames, and release at to.
// Minimum frames is 2 (press + release).
func (h *Hand) InjectDrag(from, to Point, frames int) {
	if frames < 2 {
		frames = 2
	}
	h.InjectPress(from)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		h.InjectMove(from.Add(to.Sub(from).Scale(t)))
	}
	h.InjectRelease(to)
}

// InjectKey queues a key press and release of r.
func (h *Hand) InjectKey(r rune) {
	h.injectQueue = append(h.injectQueue,
		syntheticEvent{key: &KeyEvent{Type: EventKeyDown, Char: r, KeyCode: int(r)}},
		syntheticEvent{key: &KeyEvent{Type: EventKeyUp, Char: r, KeyCode: int(r)}})
}

func (h *Hand) injectMouse(t EventType, p Point, mods Modifiers) {
	h.injectQueue = append(h.injectQueue, syntheticEvent{mouse: &MouseEvent{
		Type:      t,
		Position:  p,
		Button:    1,
		Modifiers: mods,
		Count:     1,
	}})
}

// Pending returns the number of queued synthetic events.
func (h *Hand) Pending() int {
	return len(h.injectQueue)
}

// ProcessInjected pops one queued event and dispatches it. It reports
// whether an event was consumed from the queue; hosts skip real input for
// that frame.
func (h *Hand) ProcessInjected() bool {
	if len(h.injectQueue) == 0 {
		return false
	}
	evt := h.injectQueue[0]
	copy(h.injectQueue, h.injectQueue[1:])
	h.injectQueue[len(h.injectQueue)-1] = syntheticEvent{}
	h.injectQueue = h.injectQueue[:len(h.injectQueue)-1]

	if evt.mouse != nil {
		h.DispatchMouse(evt.mouse)
	} else {
		h.DispatchKey(evt.key)
	}
	return true
}
