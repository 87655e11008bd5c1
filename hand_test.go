package morphic

import (
	"math"
	"slices"
	"testing"
)

// newHandWorld returns a world with a hand on top of the given nodes.
func newHandWorld(nodes ...*Node) (*World, *Hand) {
	w := NewWorld()
	for _, n := range nodes {
		w.AddChild(n)
	}
	h := NewHand("hand")
	w.AddChild(h.Node)
	return w, h
}

func smallHitNode(name string, x, y float64) *Node {
	n := hitNode(name)
	n.SetTransform(Translation(x, y).ScaledBy(0.25))
	return n
}

func mouse(t EventType, x, y float64) *MouseEvent {
	return &MouseEvent{Type: t, Position: Pt(x, y), Button: 1, Count: 1}
}

func TestHandDeliversToFrontmost(t *testing.T) {
	a := hitNode("a")
	b := hitNode("b")
	w, h := newHandWorld(a, b)
	w.SetChildIndex(a, 1)

	var got []string
	for _, n := range []*Node{a, b} {
		n.OnMouseDown = func(n *Node, _ *MouseEvent) bool {
			got = append(got, n.Name)
			return true
		}
	}
	if !h.DispatchMouse(mouse(EventMouseDown, 0, 0)) {
		t.Error("event should be consumed")
	}
	if !slices.Equal(got, []string{"a"}) {
		t.Errorf("delivered to %v, want [a]", got)
	}
	if h.MouseFocus() != a {
		t.Errorf("mouse focus = %v, want a", h.MouseFocus())
	}
}

func TestHandSkipsNodesInFront(t *testing.T) {
	w, h := newHandWorld(hitNode("behind"))
	w.AddChild(hitNode("front"))
	if target := w.PickBelow(Pt(0, 0), h.Node); target == nil || target.Name != "behind" {
		t.Errorf("PickBelow = %v, want behind", target)
	}
}

func TestHandConvertsToTargetLocalSpace(t *testing.T) {
	n := NewNode("map")
	n.SetTransform(Translation(0.5, 0).ScaledBy(0.25))
	n.SetCoordinateSystem(Geographic)
	n.HitShape = HitAll
	_, h := newHandWorld(n)

	var at Point
	n.OnMouseMove = func(_ *Node, e *MouseEvent) bool {
		at = e.Position
		return false
	}
	if h.DispatchMouse(mouse(EventMouseMove, 0.5, 0.125)) {
		t.Error("unconsumed event reported as consumed")
	}
	assertPoint(t, "local", at, Pt(0, 45))
	p, _ := h.Position()
	assertPoint(t, "hand", p, Pt(0.5, 0.125))
}

func TestHandEnterLeave(t *testing.T) {
	a := smallHitNode("a", -0.5, 0)
	b := smallHitNode("b", 0.5, 0)
	_, h := newHandWorld(a, b)
	var log []string
	for _, n := range []*Node{a, b} {
		n.OnMouseEnter = func(n *Node, _ *Hand) { log = append(log, "enter "+n.Name) }
		n.OnMouseLeave = func(n *Node, _ *Hand) { log = append(log, "leave "+n.Name) }
	}

	h.DispatchMouse(mouse(EventMouseMove, -0.5, 0))
	h.DispatchMouse(mouse(EventMouseMove, -0.4, 0))
	h.DispatchMouse(mouse(EventMouseMove, 0.5, 0))
	h.DispatchMouse(mouse(EventMouseMove, 0, 0.9))

	want := []string{"enter a", "leave a", "enter b", "leave b"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if h.MouseFocus() != nil {
		t.Errorf("focus = %v, want nil", h.MouseFocus())
	}
}

func TestHandKeyboardFocus(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	_, h := newHandWorld(a, b)
	if h.DispatchKey(&KeyEvent{Type: EventKeyDown, Char: 'x'}) {
		t.Error("key without focus should not be consumed")
	}

	var log []string
	for _, n := range []*Node{a, b} {
		n.OnKeyboardEnter = func(n *Node, _ *Hand) { log = append(log, "enter "+n.Name) }
		n.OnKeyboardLeave = func(n *Node, _ *Hand) { log = append(log, "leave "+n.Name) }
	}
	var typed []rune
	a.OnKeyDown = func(_ *Node, e *KeyEvent) bool {
		if e.Hand != h {
			t.Error("event hand not set")
		}
		typed = append(typed, e.Char)
		return true
	}

	h.SetKeyboardFocus(a)
	if !h.DispatchKey(&KeyEvent{Type: EventKeyDown, Char: 'x'}) {
		t.Error("key should be consumed by the focus")
	}
	h.SetKeyboardFocus(b)
	h.SetKeyboardFocus(nil)

	if string(typed) != "x" {
		t.Errorf("typed = %q", string(typed))
	}
	want := []string{"enter a", "leave a", "enter b", "leave b"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestHandGrabDrags(t *testing.T) {
	g := smallHitNode("g", 0, 0)
	container := NewNode("container")
	container.SetTransform(Translation(0.5, 0).ScaledBy(0.5))
	deep := NewNode("deep")
	container.AddChild(deep)
	w, h := newHandWorld(g, container)

	h.Grab(g)
	h.DispatchMouse(mouse(EventMouseMove, 0.3, 0.2))
	p, _ := g.Position()
	assertPoint(t, "grabbed", p, Pt(0.3, 0.2))

	h.Grab(deep)
	if got := h.Grabbed(); len(got) != 1 || got[0] != deep {
		t.Fatalf("Grabbed = %v, want only deep", got)
	}
	h.DispatchMouse(mouse(EventMouseMove, 0.5, 0.25))
	p, _ = deep.Position()
	assertPoint(t, "deep", p, Pt(0, 0.5))
	assertPoint(t, "deep in world", deep.ToOuterUpTo(Origin, w.Node), Pt(0.5, 0.25))

	h.Ungrab(deep)
	h.DispatchMouse(mouse(EventMouseMove, 0, 0))
	p, _ = deep.Position()
	assertPoint(t, "released", p, Pt(0, 0.5))
}

func TestHandGrabSnapsToHand(t *testing.T) {
	n := smallHitNode("n", -0.5, -0.5)
	_, h := newHandWorld(n)
	h.SetPosition(Pt(0.5, 0.5))

	h.Grab(n)
	p, _ := n.Position()
	assertPoint(t, "grabbed", p, Pt(0.5, 0.5))
}

func TestHandDragsDuringConsumedEvents(t *testing.T) {
	n := smallHitNode("n", 0, 0)
	_, h := newHandWorld(n)
	h.AddGesture(EditingGesture{})

	if !h.DispatchMouse(mouse(EventMouseDown, 0.1, 0)) {
		t.Fatal("press on a node should be consumed")
	}
	p, _ := n.Position()
	assertPoint(t, "pressed", p, Pt(0.1, 0))

	if !h.DispatchMouse(mouse(EventMouseUp, 0.6, 0.2)) {
		t.Fatal("release while grabbing should be consumed")
	}
	p, _ = n.Position()
	assertPoint(t, "released", p, Pt(0.6, 0.2))
	if len(h.Grabbed()) != 0 {
		t.Error("release should let go")
	}
}

func TestHandPickUpAndDrop(t *testing.T) {
	n := smallHitNode("n", -0.5, -0.5)
	w, h := newHandWorld(n)
	h.DispatchMouse(mouse(EventMouseMove, 0.2, 0))

	h.PickUp(n)
	if n.Owner() != h.Node {
		t.Fatalf("owner = %v, want hand", n.Owner())
	}
	assertPoint(t, "carried", n.ToOuterUpTo(Origin, w.Node), Pt(0.2, 0))

	h.DispatchMouse(mouse(EventMouseMove, 0.4, 0.4))
	assertPoint(t, "moved", n.ToOuterUpTo(Origin, w.Node), Pt(0.4, 0.4))

	h.DropAll()
	if n.Owner() != w.Node {
		t.Fatalf("owner after drop = %v, want world", n.Owner())
	}
	if w.IndexOf(n) != w.IndexOf(h.Node)-1 {
		t.Errorf("dropped at %d, hand at %d", w.IndexOf(n), w.IndexOf(h.Node))
	}
	p, _ := n.Position()
	assertPoint(t, "dropped", p, Pt(0.4, 0.4))
	if h.NumChildren() != 0 {
		t.Errorf("hand still carries %d nodes", h.NumChildren())
	}
}

func TestEditingGestureGrab(t *testing.T) {
	n := smallHitNode("n", 0, 0)
	_, h := newHandWorld(n)
	h.AddGesture(EditingGesture{})

	h.InjectPress(Pt(0.1, 0))
	h.InjectMove(Pt(0.5, 0.5))
	h.InjectRelease(Pt(0.5, 0.5))
	h.ProcessInjected()
	if got := h.Grabbed(); len(got) != 1 || got[0] != n {
		t.Fatalf("Grabbed = %v, want n", got)
	}
	h.ProcessInjected()
	p, _ := n.Position()
	assertPoint(t, "dragged", p, Pt(0.5, 0.5))
	h.ProcessInjected()
	if len(h.Grabbed()) != 0 {
		t.Error("release should let go")
	}
}

func TestEditingGestureCarry(t *testing.T) {
	tests := []struct {
		name      string
		mods      Modifiers
		wantNodes int
	}{
		{"shift picks up", ModShift, 1},
		{"ctrl picks up a copy", ModCtrl, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := smallHitNode("n", 0, 0)
			w, h := newHandWorld(n)
			h.AddGesture(EditingGesture{})

			down := mouse(EventMouseDown, 0, 0)
			down.Modifiers = tt.mods
			if !h.DispatchMouse(down) {
				t.Fatal("press on a node should be consumed")
			}
			if h.NumChildren() != 1 {
				t.Fatalf("hand carries %d nodes, want 1", h.NumChildren())
			}
			h.DispatchMouse(mouse(EventMouseMove, 0.5, 0))
			h.DispatchMouse(mouse(EventMouseUp, 0.5, 0))

			if h.NumChildren() != 0 {
				t.Errorf("hand still carries %d nodes", h.NumChildren())
			}
			// World children: the nodes plus the hand.
			if got := w.NumChildren() - 1; got != tt.wantNodes {
				t.Errorf("world holds %d nodes, want %d", got, tt.wantNodes)
			}
			dropped := w.ChildAt(w.IndexOf(h.Node) - 1)
			p, _ := dropped.Position()
			assertPoint(t, "dropped", p, Pt(0.5, 0))
		})
	}
}

func TestEditingGestureIgnoresEmptySpace(t *testing.T) {
	_, h := newHandWorld()
	h.AddGesture(EditingGesture{})
	if h.DispatchMouse(mouse(EventMouseDown, 0, 0)) {
		t.Error("press on empty space should not be consumed")
	}
	if h.DispatchMouse(mouse(EventMouseUp, 0, 0)) {
		t.Error("release with nothing held should not be consumed")
	}
}

func TestNavigationGesturePans(t *testing.T) {
	e := NewEye("eye")
	w, h := newHandWorld()
	w.AddChild(e.Node)
	nav := NewNavigationGesture(e)
	h.AddGesture(nav)

	if !h.DispatchMouse(mouse(EventMouseDown, 0, 0)) {
		t.Fatal("press on empty space should start a pan")
	}
	h.DispatchMouse(mouse(EventMouseMove, 0.5, 0))
	assertPoint(t, "eye", e.ToOuter(Origin), Pt(-0.5, 0))
	assertPoint(t, "anchor on screen", e.ToInner(Origin), Pt(0.5, 0))

	if !h.DispatchMouse(mouse(EventMouseUp, 0.5, 0)) {
		t.Error("release should end the pan")
	}
	before := e.Transform()
	h.DispatchMouse(mouse(EventMouseMove, 0.9, 0.9))
	if e.Transform() != before {
		t.Error("eye moved after the pan ended")
	}
}

func TestNavigationGestureLetsNodesThrough(t *testing.T) {
	e := NewEye("eye")
	n := hitNode("n")
	w, h := newHandWorld(n)
	w.AddChild(e.Node)
	h.AddGesture(NewNavigationGesture(e))
	var pressed bool
	n.OnMouseDown = func(*Node, *MouseEvent) bool {
		pressed = true
		return true
	}
	h.DispatchMouse(mouse(EventMouseDown, 0, 0))
	if !pressed {
		t.Error("press on a node should reach it")
	}
	if e.Transform() != Identity {
		t.Error("eye should not move")
	}
}

func TestNavigationGestureWheel(t *testing.T) {
	tests := []struct {
		name string
		mods Modifiers
		want *Transform
	}{
		{"zoom", 0, UniformScaling(1 / WheelZoomStep)},
		{"rotate", ModShift, Rotation(WheelRotationStep)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEye("eye")
			_, h := newHandWorld(e.Node)
			h.AddGesture(NewNavigationGesture(e))
			ev := mouse(EventMouseWheel, 0, 0)
			ev.Modifiers = tt.mods
			if !h.DispatchMouse(ev) {
				t.Fatal("wheel should be consumed")
			}
			assertMatrix(t, "eye", e.Transform().Matrix(), tt.want.Matrix())
		})
	}
}

func TestNavigationGestureWheelKeepsPointerFixed(t *testing.T) {
	e := NewEye("eye")
	_, h := newHandWorld(e.Node)
	h.AddGesture(NewNavigationGesture(e))
	ev := mouse(EventMouseWheel, 0.5, 0.5)
	ev.Count = -2
	h.DispatchMouse(ev)
	assertPoint(t, "pointer", e.ToInner(Pt(0.5, 0.5)), Pt(0.5, 0.5))
	assertNear(t, "scale", e.Transform().Matrix()[0], math.Pow(WheelZoomStep, 2))
}

func TestHandInjectQueue(t *testing.T) {
	n := hitNode("n")
	_, h := newHandWorld(n)
	var got []EventType
	record := func(_ *Node, e *MouseEvent) bool {
		got = append(got, e.Type)
		return true
	}
	n.OnMouseDown, n.OnMouseUp, n.OnMouseClick = record, record, record
	var keys []EventType
	n.OnKeyDown = func(_ *Node, e *KeyEvent) bool { keys = append(keys, e.Type); return true }
	n.OnKeyUp = n.OnKeyDown
	h.SetKeyboardFocus(n)

	h.InjectClick(Pt(0, 0))
	h.InjectKey('a')
	if h.Pending() != 5 {
		t.Fatalf("Pending = %d, want 5", h.Pending())
	}
	for h.ProcessInjected() {
	}
	if !slices.Equal(got, []EventType{EventMouseDown, EventMouseUp, EventMouseClick}) {
		t.Errorf("mouse events = %v", got)
	}
	if !slices.Equal(keys, []EventType{EventKeyDown, EventKeyUp}) {
		t.Errorf("key events = %v", keys)
	}

	h.InjectDrag(Pt(0, 0), Pt(1, 0), 4)
	if h.Pending() != 4 {
		t.Errorf("drag Pending = %d, want 4", h.Pending())
	}
}

type recordingSink struct {
	events []InteractionEvent
}

func (s *recordingSink) EmitEvent(e InteractionEvent) { s.events = append(s.events, e) }

func TestHandEmitsInteractionEvents(t *testing.T) {
	n := hitNode("n")
	n.EntityID = 7
	plain := smallHitNode("plain", 0.75, 0.75)
	w, h := newHandWorld(n, plain)
	worldSink := &recordingSink{}
	w.SetEventSink(worldSink)
	n.OnMouseDown = func(*Node, *MouseEvent) bool { return true }

	h.DispatchMouse(mouse(EventMouseDown, 0.5, 0))
	if len(worldSink.events) != 2 {
		t.Fatalf("events = %+v", worldSink.events)
	}
	enter, down := worldSink.events[0], worldSink.events[1]
	if enter.Type != EventMouseEnter || enter.EntityID != 7 {
		t.Errorf("first event = %+v", enter)
	}
	if down.Type != EventMouseDown || !down.Consumed || down.Position != Pt(0.5, 0) {
		t.Errorf("second event = %+v", down)
	}

	// Nodes without an entity are not reported.
	h.DispatchMouse(mouse(EventMouseMove, 0.8, 0.8))
	if len(worldSink.events) != 3 || worldSink.events[2].Type != EventMouseLeave {
		t.Errorf("events = %+v", worldSink.events)
	}

	own := &recordingSink{}
	h.SetEventSink(own)
	h.DispatchMouse(mouse(EventMouseMove, 0, 0))
	if len(own.events) == 0 || len(worldSink.events) != 3 {
		t.Errorf("hand sink should take precedence: own %d world %d", len(own.events), len(worldSink.events))
	}
}
