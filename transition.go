package morphic

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultTransitionInterval is the step interval of new transitions.
const DefaultTransitionInterval = 20 * time.Millisecond

// Transition is an Activity that moves a node's transform from its value at
// creation to a target, blending the matrices entry by entry along an eased
// progress curve. If the node is disposed the transition stops.
type Transition struct {
	Interval time.Duration
	// OnDone is called once, after the final step.
	OnDone func(n *Node)

	node   *Node
	source *Transform
	target *Transform
	tween  *gween.Tween
	done   bool
}

// NewTransition creates a transition of n to target over d. A nil easing
// function means linear progress.
func NewTransition(n *Node, target *Transform, d time.Duration, fn ease.TweenFunc) *Transition {
	if fn == nil {
		fn = ease.Linear
	}
	return &Transition{
		Interval: DefaultTransitionInterval,
		node:     n,
		source:   n.Transform(),
		target:   target,
		tween:    gween.New(0, 1, float32(d.Seconds()), fn),
	}
}

// TransitionTo starts a transition of n to target on n's World and returns
// it. It is not scheduled when n is not attached under a World.
func (n *Node) TransitionTo(target *Transform, d time.Duration, fn ease.TweenFunc) *Transition {
	tr := NewTransition(n, target, d, fn)
	if w := n.World(); w != nil {
		w.StartActivity(tr)
	}
	return tr
}

// Node returns the node being moved.
func (tr *Transition) Node() *Node { return tr.node }

// Done reports whether the target has been reached.
func (tr *Transition) Done() bool { return tr.done }

func (tr *Transition) WantsSteps() bool {
	return !tr.done && !tr.node.disposed
}

func (tr *Transition) StepTime() time.Duration {
	return tr.Interval
}

func (tr *Transition) Step(dt time.Duration) error {
	if tr.done {
		return nil
	}
	v, finished := tr.tween.Update(float32(dt.Seconds()))
	if finished {
		tr.done = true
		tr.node.SetTransform(tr.target)
		if tr.OnDone != nil {
			tr.OnDone(tr.node)
		}
		return nil
	}
	tr.node.SetTransform(tr.source.Interpolate(tr.target, float64(v)))
	return nil
}

// Profile returns an easing function with a trapezoidal velocity profile:
// speed ramps up linearly for accel, stays constant, then ramps down for
// decel. accel+decel must not exceed the tween duration.
func Profile(accel, decel time.Duration) ease.TweenFunc {
	as := float32(accel.Seconds())
	ds := float32(decel.Seconds())
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		x := t / d
		a := as / d
		e := ds / d
		h := 2 / (2 - a - e)
		var v float32
		switch {
		case d-t < ds:
			v = 1 - h*(1-x)*(1-x)/(2*e)
		case t < as:
			v = h * x * x / (2 * a)
		default:
			v = h * (x - a/2)
		}
		return b + c*v
	}
}
