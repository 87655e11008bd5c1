package morphic

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Eye is a viewpoint. Its transform places the view square (its UnitRect
// bounds) in its owner's space; a host renders an eye by calling DrawWorld
// on a canvas whose view is that square. The eye sees everything behind it
// in z-order and accumulates the damage reported inside its bounds.
type Eye struct {
	*Node

	// Transparent eyes are never picked themselves; their children still
	// are. Hosts set it on the eye they display.
	Transparent bool

	changed Rect
	dirty   bool

	follow     *Node
	followLerp float64
}

// NewEye creates an eye drawn as a dark green outline when seen by other
// eyes. The whole view starts out changed.
func NewEye(name string) *Eye {
	e := newEye(name)
	e.OnDraw = func(n *Node, c Canvas) {
		c.SetColor(DarkGreen)
		c.DrawRect(n.Bounds())
	}
	return e
}

func newEye(name string) *Eye {
	e := &Eye{Node: NewNode(name)}
	e.role = e
	e.changed = e.bounds
	e.dirty = true
	return e
}

// NewXRayEye creates an eye that, when seen by another eye, shows a
// half-transparent view of everything behind it over a black backdrop.
func NewXRayEye(name string) *Eye {
	e := newEye(name)
	e.OnDraw = func(n *Node, c Canvas) {
		b := n.Bounds()
		c.SetAlpha(1)
		c.SetFillColor(Black)
		c.FillRect(b)

		t := c.Transform()
		restoreClip := saveClip(c)
		c.SetClip(b.Intersection(c.Clip()))
		c.SetAlpha(0.5)
		EyeOf(n).DrawWorld(NewXRayCanvas(c))
		c.SetTransform(t)
		restoreClip()

		c.SetAlpha(1)
		c.SetColor(Black)
		c.DrawRect(b)
	}
	return e
}

// EyeOf returns the Eye behind n, or nil.
func EyeOf(n *Node) *Eye {
	if n == nil {
		return nil
	}
	e, _ := n.role.(*Eye)
	return e
}

func (e *Eye) cloneRole(n *Node) any {
	return &Eye{Node: n, Transparent: e.Transparent, changed: n.bounds, dirty: true}
}

func (e *Eye) contains(p Point) bool {
	return !e.Transparent && e.Bounds().Contains(e.ToCanonical(p))
}

// invalidate receives damage from the eye's own subtree, in its canonical
// space, and passes it on upward.
func (e *Eye) invalidate(r Rect, bounded bool) {
	if bounded {
		e.addChanged(r)
	} else {
		e.addChanged(e.bounds)
	}
	e.notifyChanged(r, bounded)
}

// invalidateOuter receives damage in the owner's canonical space.
func (e *Eye) invalidateOuter(r Rect, bounded bool) {
	if bounded {
		e.addChanged(e.RectToInner(r))
	} else {
		e.addChanged(e.bounds)
	}
}

func (e *Eye) addChanged(r Rect) {
	r = r.Intersection(e.bounds)
	if r.Empty() {
		return
	}
	if e.dirty {
		e.changed = e.changed.Union(r)
		return
	}
	e.changed = r
	e.dirty = true
}

// ChangedArea returns the pending damage without clearing it.
func (e *Eye) ChangedArea() (Rect, bool) {
	return e.changed, e.dirty
}

// DrainChanged returns the pending damage and clears it. ok is false when
// nothing changed since the last drain.
func (e *Eye) DrainChanged() (r Rect, ok bool) {
	r, ok = e.changed, e.dirty
	e.changed = Rect{}
	e.dirty = false
	return r, ok
}

// DrawWorld renders the tree the eye belongs to as seen from the eye, then
// the eye's own children on top. c's current transform must map the eye's
// canonical space to the view.
func (e *Eye) DrawWorld(c Canvas) {
	outer := c.Transform()
	var root *Node
	m := Identity
	for p := e.Node; p != nil; p = p.owner {
		m = p.transform.With(m)
		root = p
	}
	c.SetTransform(outer.With(m.Inverse()))
	f := &eyeFilter{Delegate: Delegate{Target: c}, eye: e.Node}
	f.DrawNode(root)
	c.SetTransform(outer)
	e.Node.drawChildren(c)
}

// --- Camera moves ---

// ScrollTo animates the eye so that its centre lands on p, given in the
// owner's canonical space. The returned transition is already running when
// the eye is attached under a World.
func (e *Eye) ScrollTo(p Point, d time.Duration, fn ease.TweenFunc) *Transition {
	off := p.Sub(e.ToOuter(Origin))
	tr := NewTransition(e.Node, e.transform.TranslatedBy(off.X, off.Y), d, fn)
	if w := e.World(); w != nil {
		w.StartActivity(tr)
	}
	return tr
}

// Follow keeps target centred in the eye. Each step the eye moves by lerp
// (0..1] of the remaining offset; lerp 1 snaps. Nil target stops following.
func (e *Eye) Follow(target *Node, lerp float64) {
	e.follow = target
	e.followLerp = min(max(lerp, 0.01), 1)
	if target == nil {
		e.StopStepping()
		e.OnStep = nil
		return
	}
	if e.StepInterval == 0 {
		e.StepInterval = 16 * time.Millisecond
	}
	e.OnStep = func(n *Node, _ time.Duration) { EyeOf(n).stepFollow() }
	e.StartStepping()
}

func (e *Eye) stepFollow() {
	t := e.follow
	if t == nil || t.disposed || e.owner == nil {
		return
	}
	root := e.owner
	for root.owner != nil {
		root = root.owner
	}
	if !isAncestor(root, t) {
		return
	}
	at := e.owner.ToInnerFrom(t.ToOuterUpTo(Origin, root), root)
	d := at.Sub(e.ToOuter(Origin)).Scale(e.followLerp)
	if d.Norm2() < 1e-18 {
		return
	}
	e.TranslateBy(d.X, d.Y)
}

// --- Screen ---

// DefaultScreenInterval is how often a screen node refreshes.
const DefaultScreenInterval = 50 * time.Millisecond

// NewScreen returns a node showing what eye sees, scaled into its bounds.
// A screen that can see itself stops at the first level of recursion.
func NewScreen(name string, eye *Eye) *Node {
	n := NewNode(name)
	drawing := false
	n.OnDraw = func(n *Node, c Canvas) {
		b := n.Bounds()
		if !drawing {
			drawing = true
			c.SetClip(b.Intersection(c.Clip()))
			eye.DrawWorld(c)
			drawing = false
		}
		c.SetColor(Black)
		c.DrawRect(b)
	}
	n.StepInterval = DefaultScreenInterval
	n.OnStep = func(n *Node, _ time.Duration) { n.MarkChanged() }
	return n
}
