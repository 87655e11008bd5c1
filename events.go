package morphic

import "fmt"

// EventType identifies a kind of input event.
type EventType uint8

const (
	EventMouseDown     EventType = iota // a mouse button was pressed
	EventMouseUp                        // a mouse button was released
	EventMouseClick                     // press and release without movement
	EventMouseMove                      // the pointer moved
	EventMouseWheel                     // the wheel turned; Count holds the notches
	EventKeyDown                        // a key was pressed
	EventKeyUp                          // a key was released
	EventMouseEnter                     // the pointer entered a node
	EventMouseLeave                     // the pointer left a node
	EventKeyboardEnter                  // a node gained keyboard focus
	EventKeyboardLeave                  // a node lost keyboard focus
)

var eventTypeNames = [...]string{
	"MouseDown", "MouseUp", "MouseClick", "MouseMove", "MouseWheel",
	"KeyDown", "KeyUp", "MouseEnter", "MouseLeave", "KeyboardEnter", "KeyboardLeave",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Modifiers is a bitmask of modifier keys and held mouse buttons. Every bit
// is independent.
type Modifiers uint8

const (
	ModShift   Modifiers = 1 << iota // Shift key
	ModCtrl                          // Control key
	ModCommand                       // Command / Super key
	ModAlt                           // Alt / Option key
	ModButton1                       // primary mouse button held
	ModButton2                       // middle mouse button held
	ModButton3                       // secondary mouse button held
)

// Has reports whether all bits of m2 are set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// ButtonModifier returns the modifier bit of mouse button 1..3, or 0.
func ButtonModifier(button int) Modifiers {
	switch button {
	case 1:
		return ModButton1
	case 2:
		return ModButton2
	case 3:
		return ModButton3
	}
	return 0
}

// MouseEvent is a pointer event. Position starts out in the local space of
// the hand's owner; the hand rewrites it into the target's local space
// before delivery.
type MouseEvent struct {
	Type      EventType
	Position  Point
	Button    int // 1 primary, 2 middle, 3 secondary
	Modifiers Modifiers
	Count     int // click count, or wheel notches (negative scrolls down)
	Hand      *Hand
}

// KeyEvent is a keyboard event. Char is zero for keys without a character.
type KeyEvent struct {
	Type      EventType
	Char      rune
	KeyCode   int
	Modifiers Modifiers
	Hand      *Hand
}

// dispatch selects n's handler for the event type. It reports whether the
// event was consumed.
func (e *MouseEvent) dispatch(n *Node) bool {
	var fn func(*Node, *MouseEvent) bool
	switch e.Type {
	case EventMouseDown:
		fn = n.OnMouseDown
	case EventMouseUp:
		fn = n.OnMouseUp
	case EventMouseClick:
		fn = n.OnMouseClick
	case EventMouseMove:
		fn = n.OnMouseMove
	case EventMouseWheel:
		fn = n.OnMouseWheel
	}
	if fn == nil {
		return false
	}
	return fn(n, e)
}

func (e *KeyEvent) dispatch(n *Node) bool {
	var fn func(*Node, *KeyEvent) bool
	switch e.Type {
	case EventKeyDown:
		fn = n.OnKeyDown
	case EventKeyUp:
		fn = n.OnKeyUp
	}
	if fn == nil {
		return false
	}
	return fn(n, e)
}

// --- ECS bridge ---

// InteractionEvent carries a dispatched event for nodes that have a
// non-zero EntityID. Position is in the target's local space.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	Position  Point
	Button    int
	Modifiers Modifiers
	Count     int
	Char      rune
	KeyCode   int
	Consumed  bool
}

// EventSink receives interaction events from a Hand. See the ecs package
// for a Donburi-backed implementation.
type EventSink interface {
	EmitEvent(event InteractionEvent)
}
