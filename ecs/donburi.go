package ecs

import (
	"github.com/phanxgames/morphic"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for morphic interaction
// events: mouse, key, enter/leave and focus changes.
var InteractionEventType = events.NewEventType[morphic.InteractionEvent]()

// NodeRef is the component Bind attaches to a node's entity.
type NodeRef struct {
	Node *morphic.Node
}

// NodeComponent holds the scene node an entity stands for.
var NodeComponent = donburi.NewComponentType[NodeRef]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on InteractionEventType until the world processes them.
func NewDonburiSink(world donburi.World) morphic.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event morphic.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Bind creates an entity carrying n and sets n.EntityID to its id, so that
// hands report interactions with n.
func Bind(world donburi.World, n *morphic.Node) donburi.Entity {
	e := world.Create(NodeComponent)
	NodeComponent.SetValue(world.Entry(e), NodeRef{Node: n})
	n.EntityID = uint32(e.Id())
	return e
}

// NodeOf returns the node bound to e, or nil.
func NodeOf(world donburi.World, e donburi.Entity) *morphic.Node {
	if !world.Valid(e) {
		return nil
	}
	entry := world.Entry(e)
	if !entry.HasComponent(NodeComponent) {
		return nil
	}
	return NodeComponent.Get(entry).Node
}
