package morphic

import (
	"log/slog"
	"slices"

	mlog "github.com/phanxgames/morphic/internal/log"
)

// Gesture intercepts mouse events before a hand routes them into the tree.
// HandleMouse reports whether the event was consumed.
type Gesture interface {
	HandleMouse(h *Hand, e *MouseEvent) bool
}

// Hand is an input proxy. It lives in the tree as a child of the node it
// operates on (usually the World root), tracks the pointer position, picks
// the node under it, and routes typed events there. Nodes picked up by the
// hand become its children and follow it.
type Hand struct {
	*Node

	mouseFocus    *Node
	keyboardFocus *Node
	grabbed       []*Node
	gestures      []Gesture
	sink          EventSink
	injectQueue   []syntheticEvent
}

// NewHand creates a hand with empty bounds. Attach it to a World root (or
// any other owner) before dispatching events.
func NewHand(name string) *Hand {
	h := &Hand{Node: NewNode(name)}
	h.bounds = Rect{}
	h.role = h
	return h
}

// HandOf returns the Hand behind n, or nil.
func HandOf(n *Node) *Hand {
	if n == nil {
		return nil
	}
	h, _ := n.role.(*Hand)
	return h
}

func (h *Hand) cloneRole(n *Node) any {
	return &Hand{Node: n, gestures: slices.Clone(h.gestures)}
}

// drawChildren renders carried nodes twice: as shadows, then normally.
func (h *Hand) drawChildren(c Canvas) {
	if len(h.children) == 0 {
		return
	}
	t, a := c.Transform(), c.Alpha()
	stroke, fill := c.Color(), c.FillColor()
	s := NewShadowCanvas(c)
	for _, child := range h.children {
		s.DrawNode(child)
	}
	c.SetTransform(t)
	c.SetAlpha(a)
	c.SetColor(stroke)
	c.SetFillColor(fill)
	h.Node.drawChildren(c)
}

// AddGesture appends g to the gestures consulted before tree dispatch.
func (h *Hand) AddGesture(g Gesture) {
	h.gestures = append(h.gestures, g)
}

// Gestures returns the hand's gestures in consultation order.
func (h *Hand) Gestures() []Gesture {
	return h.gestures
}

// SetEventSink sets the sink receiving interaction events for nodes with a
// non-zero EntityID. Without one the World's sink is used.
func (h *Hand) SetEventSink(sink EventSink) {
	h.sink = sink
}

// MouseFocus returns the node currently under the pointer.
func (h *Hand) MouseFocus() *Node { return h.mouseFocus }

// KeyboardFocus returns the node receiving key events.
func (h *Hand) KeyboardFocus() *Node { return h.keyboardFocus }

// --- Dispatch ---

// DispatchMouse moves the hand to e.Position (in its owner's local space),
// lets gestures intercept, drags grabbed nodes along, and delivers the event
// to the frontmost node under the hand. The delivered event's position is in
// the target's local space. It reports whether the event was consumed.
func (h *Hand) DispatchMouse(e *MouseEvent) bool {
	if h.owner == nil {
		return false
	}
	e.Hand = h
	h.SetPosition(e.Position)
	h.updateGrabbed(e.Position)

	for _, g := range h.gestures {
		if g.HandleMouse(h, e) {
			return true
		}
	}

	target := h.owner.PickBelow(e.Position, h.Node)
	h.setMouseFocus(target)
	if target == nil {
		return false
	}

	ev := *e
	ev.Position = target.ToLocal(target.ToInnerFrom(h.owner.ToCanonical(e.Position), h.owner))
	consumed := ev.dispatch(target)
	h.emit(InteractionEvent{
		Type:      ev.Type,
		EntityID:  target.EntityID,
		Position:  ev.Position,
		Button:    ev.Button,
		Modifiers: ev.Modifiers,
		Count:     ev.Count,
		Consumed:  consumed,
	}, target)
	return consumed
}

// DispatchKey delivers e to the keyboard focus. It reports whether the
// event was consumed.
func (h *Hand) DispatchKey(e *KeyEvent) bool {
	e.Hand = h
	target := h.keyboardFocus
	if target == nil {
		return false
	}
	consumed := e.dispatch(target)
	h.emit(InteractionEvent{
		Type:      e.Type,
		EntityID:  target.EntityID,
		Char:      e.Char,
		KeyCode:   e.KeyCode,
		Modifiers: e.Modifiers,
		Consumed:  consumed,
	}, target)
	return consumed
}

func (h *Hand) setMouseFocus(n *Node) {
	old := h.mouseFocus
	if old == n {
		return
	}
	h.mouseFocus = n
	if old != nil {
		if old.OnMouseLeave != nil {
			old.OnMouseLeave(old, h)
		}
		h.emit(InteractionEvent{Type: EventMouseLeave, EntityID: old.EntityID}, old)
	}
	if n != nil {
		if n.OnMouseEnter != nil {
			n.OnMouseEnter(n, h)
		}
		h.emit(InteractionEvent{Type: EventMouseEnter, EntityID: n.EntityID}, n)
	}
}

// SetKeyboardFocus routes subsequent key events to n, firing keyboard leave
// and enter hooks on change. Nil clears the focus.
func (h *Hand) SetKeyboardFocus(n *Node) {
	old := h.keyboardFocus
	if old == n {
		return
	}
	h.keyboardFocus = n
	if old != nil {
		if old.OnKeyboardLeave != nil {
			old.OnKeyboardLeave(old, h)
		}
		h.emit(InteractionEvent{Type: EventKeyboardLeave, EntityID: old.EntityID}, old)
	}
	if n != nil {
		if n.OnKeyboardEnter != nil {
			n.OnKeyboardEnter(n, h)
		}
		h.emit(InteractionEvent{Type: EventKeyboardEnter, EntityID: n.EntityID}, n)
	}
}

func (h *Hand) emit(ev InteractionEvent, n *Node) {
	if n == nil || n.EntityID == 0 {
		return
	}
	sink := h.sink
	if sink == nil {
		if w := h.World(); w != nil {
			sink = w.sink
		}
	}
	if sink != nil {
		sink.EmitEvent(ev)
	}
}

// --- Grabbing ---

// Grab makes n follow the hand, replacing any previous grab. The node stays
// in its owner; only its position changes, starting with a snap to the
// hand's current position.
func (h *Hand) Grab(n *Node) {
	h.UngrabAll()
	h.grabbed = append(h.grabbed, n)
	if h.owner == nil {
		return
	}
	if p, ok := h.Position(); ok {
		h.updateGrabbed(p)
	}
}

// Ungrab stops n following the hand.
func (h *Hand) Ungrab(n *Node) {
	if i := slices.Index(h.grabbed, n); i >= 0 {
		h.grabbed = slices.Delete(h.grabbed, i, i+1)
	}
}

// UngrabAll releases every grabbed node.
func (h *Hand) UngrabAll() {
	clear(h.grabbed)
	h.grabbed = h.grabbed[:0]
}

// Grabbed returns the nodes following the hand.
func (h *Hand) Grabbed() []*Node {
	return h.grabbed
}

// updateGrabbed moves every grabbed node so that its origin lies under pos,
// converting through the tree when the node lives deeper than the hand.
func (h *Hand) updateGrabbed(pos Point) {
	canonical := h.owner.ToCanonical(pos)
	for _, m := range h.grabbed {
		switch {
		case m.owner == nil:
		case m.owner == h.owner:
			m.SetPosition(pos)
		case isAncestor(h.owner, m.owner):
			m.SetPosition(m.owner.ToLocal(m.owner.ToInnerFrom(canonical, h.owner)))
		}
	}
}

// --- Carrying ---

// PickUp re-parents n into the hand with its origin at the hand.
func (h *Hand) PickUp(n *Node) {
	h.AddChild(n)
	n.SetPosition(Origin)
}

// DropAll moves every carried node into the hand's owner, directly behind
// the hand, at the hand's position.
func (h *Hand) DropAll() {
	if h.owner == nil {
		return
	}
	pos, _ := h.Position()
	for _, c := range slices.Clone(h.children) {
		if err := h.owner.AddBehind(c, h.Node); err != nil {
			mlog.WithComponent("hand").Error("drop failed", slog.String("node", c.Name), slog.Any("err", err))
			continue
		}
		c.SetPosition(pos)
	}
}
