package morphic

import (
	"errors"
	"fmt"
	"time"
)

// ErrSiblingNotFound is returned when a node is inserted relative to a
// sibling that is not a child of the receiver.
var ErrSiblingNotFound = errors.New("morphic: sibling not found")

// DefaultStepInterval is the step interval of nodes that do not set one.
const DefaultStepInterval = time.Second

// HitShape is used for custom hit testing regions. Points are in the local
// space of the node that owns the shape.
type HitShape interface {
	Contains(p Point) bool
}

// --- ID counter ---

// nodeIDCounter is guarded by the World lock like the rest of the tree.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used
// for all node kinds; behavior comes from the hook fields and, for worlds,
// eyes and hands, from an internal role.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy. The owner pointer is a back-reference; children are owned.
	owner    *Node
	children []*Node

	// Geometry
	transform *Transform
	coords    CoordinateSystem
	bounds    Rect
	unbounded bool

	// Metadata
	UserData any
	EntityID uint32

	// Hit testing. Nil means the node is never hit.
	HitShape HitShape

	// OnDraw paints the node in its canonical space. Panics are recovered
	// and replaced by the error marker.
	OnDraw func(n *Node, c Canvas)

	// OnStep is called by the World every StepInterval while the node is
	// attached under it. Zero StepInterval means DefaultStepInterval.
	OnStep       func(n *Node, dt time.Duration)
	StepInterval time.Duration

	// Per-node event handlers (nil by default). Positions are in the
	// node's local space. Handlers report whether they consumed the event.
	OnMouseDown  func(n *Node, e *MouseEvent) bool
	OnMouseUp    func(n *Node, e *MouseEvent) bool
	OnMouseClick func(n *Node, e *MouseEvent) bool
	OnMouseMove  func(n *Node, e *MouseEvent) bool
	OnMouseWheel func(n *Node, e *MouseEvent) bool
	OnKeyDown    func(n *Node, e *KeyEvent) bool
	OnKeyUp      func(n *Node, e *KeyEvent) bool

	OnMouseEnter    func(n *Node, h *Hand)
	OnMouseLeave    func(n *Node, h *Hand)
	OnKeyboardEnter func(n *Node, h *Hand)
	OnKeyboardLeave func(n *Node, h *Hand)

	// Internal
	role     any
	disposed bool
}

// Optional role behaviors, discovered by type assertion.
type (
	changeInterceptor interface {
		invalidate(r Rect, bounded bool)
	}
	containsOverride interface {
		contains(p Point) bool
	}
	childDrawer interface {
		drawChildren(c Canvas)
	}
	roleCloner interface {
		cloneRole(n *Node) any
	}
)

// NewNode creates a node with identity transform, canonical coordinates and
// unit bounds.
func NewNode(name string) *Node {
	return &Node{
		ID:        nextNodeID(),
		Name:      name,
		transform: Identity,
		coords:    Canonical,
		bounds:    UnitRect,
	}
}

func (n *Node) String() string {
	if p, ok := n.Position(); ok {
		return fmt.Sprintf("%s#%d %v", n.Name, n.ID, p)
	}
	return fmt.Sprintf("%s#%d", n.Name, n.ID)
}

// --- Tree structure ---

// Owner returns the node's owner, or nil.
func (n *Node) Owner() *Node {
	return n.owner
}

// World returns the World this node is attached under, or nil.
func (n *Node) World() *World {
	for p := n; p != nil; p = p.owner {
		if w, ok := p.role.(*World); ok {
			return w
		}
	}
	return nil
}

// Children returns the child list, back to front. The returned slice MUST
// NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// IndexOf returns the z-order index of child, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// AddChild adds child in front of all other children.
func (n *Node) AddChild(child *Node) {
	n.AddChildAt(child, len(n.children))
}

// AddChildBack adds child behind all other children.
func (n *Node) AddChildBack(child *Node) {
	n.AddChildAt(child, 0)
}

// AddChildAt inserts child at the given z-order index (0 is the back).
// If child already has an owner it is removed from it first.
// Panics if child is nil, the index is out of range, or child is an ancestor
// of n.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("morphic: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, n) {
		panic("morphic: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("morphic: child index out of range")
	}
	if child.owner != nil {
		child.owner.RemoveChild(child)
		if index > len(n.children) {
			index = len(n.children)
		}
	}
	child.owner = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.MarkFullyChanged()
	child.startStepping()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddBehind inserts child directly behind sibling.
func (n *Node) AddBehind(child, sibling *Node) error {
	i := n.IndexOf(sibling)
	if i < 0 {
		return fmt.Errorf("add %q behind %q: %w", child.Name, sibling.Name, ErrSiblingNotFound)
	}
	if child == sibling {
		return nil
	}
	if child.owner == n && n.IndexOf(child) < i {
		i--
	}
	n.AddChildAt(child, i)
	return nil
}

// AddInFrontOf inserts child directly in front of sibling.
func (n *Node) AddInFrontOf(child, sibling *Node) error {
	i := n.IndexOf(sibling)
	if i < 0 {
		return fmt.Errorf("add %q in front of %q: %w", child.Name, sibling.Name, ErrSiblingNotFound)
	}
	if child == sibling {
		return nil
	}
	if child.owner == n && n.IndexOf(child) < i {
		i--
	}
	n.AddChildAt(child, i+1)
	return nil
}

// RemoveChild detaches child from this node.
// Panics if child's owner is not n.
func (n *Node) RemoveChild(child *Node) {
	if child.owner != n {
		panic("morphic: child's owner is not this node")
	}
	n.RemoveChildAt(n.IndexOf(child))
}

// RemoveChildAt detaches and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChildAt")
	}
	if index < 0 || index >= len(n.children) {
		panic("morphic: child index out of range")
	}
	child := n.children[index]
	child.MarkFullyChanged()
	child.stopStepping()
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.owner = nil
	return child
}

// RemoveFromParent detaches this node from its owner.
// No-op if this node has no owner.
func (n *Node) RemoveFromParent() {
	if n.owner == nil {
		return
	}
	n.owner.RemoveChild(n)
}

// Delete is RemoveFromParent.
func (n *Node) Delete() { n.RemoveFromParent() }

// SetChildIndex moves child to a new z-order index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.owner != n {
		panic("morphic: child's owner is not this node")
	}
	if index < 0 || index >= len(n.children) {
		panic("morphic: child index out of range")
	}
	old := n.IndexOf(child)
	if old == index {
		return
	}
	if old < index {
		copy(n.children[old:], n.children[old+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:old])
	}
	n.children[index] = child
	child.MarkFullyChanged()
}

// Clone returns a deep copy of n and its subtree with no owner. Transform,
// coordinate system, bounds, hooks and role are copied; IDs are fresh.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:              nextNodeID(),
		Name:            n.Name,
		transform:       n.transform,
		coords:          n.coords,
		bounds:          n.bounds,
		unbounded:       n.unbounded,
		UserData:        n.UserData,
		HitShape:        n.HitShape,
		OnDraw:          n.OnDraw,
		OnStep:          n.OnStep,
		StepInterval:    n.StepInterval,
		OnMouseDown:     n.OnMouseDown,
		OnMouseUp:       n.OnMouseUp,
		OnMouseClick:    n.OnMouseClick,
		OnMouseMove:     n.OnMouseMove,
		OnMouseWheel:    n.OnMouseWheel,
		OnKeyDown:       n.OnKeyDown,
		OnKeyUp:         n.OnKeyUp,
		OnMouseEnter:    n.OnMouseEnter,
		OnMouseLeave:    n.OnMouseLeave,
		OnKeyboardEnter: n.OnKeyboardEnter,
		OnKeyboardLeave: n.OnKeyboardLeave,
	}
	if rc, ok := n.role.(roleCloner); ok {
		c.role = rc.cloneRole(c)
	}
	c.children = make([]*Node, len(n.children))
	for i, child := range n.children {
		cc := child.Clone()
		cc.owner = c
		c.children[i] = cc
	}
	return c
}

// --- Disposal ---

// Dispose removes this node from its owner, marks it as disposed, and
// recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.owner = nil
		child.dispose()
	}
	n.children = nil
	n.owner = nil
	n.HitShape = nil
	n.UserData = nil
	n.OnDraw = nil
	n.OnStep = nil
	n.OnMouseDown = nil
	n.OnMouseUp = nil
	n.OnMouseClick = nil
	n.OnMouseMove = nil
	n.OnMouseWheel = nil
	n.OnKeyDown = nil
	n.OnKeyUp = nil
	n.OnMouseEnter = nil
	n.OnMouseLeave = nil
	n.OnKeyboardEnter = nil
	n.OnKeyboardLeave = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Bounds and shape ---

// Bounds returns the node's own bounds in its canonical space, or
// InfiniteRect for an unbounded node.
func (n *Node) Bounds() Rect {
	if n.unbounded {
		return InfiniteRect
	}
	return n.bounds
}

// Bounded reports whether the node has finite bounds.
func (n *Node) Bounded() bool {
	return !n.unbounded
}

// SetBounds sets the node's own bounds in its canonical space.
func (n *Node) SetBounds(r Rect) {
	n.MarkChanged()
	n.bounds = r
	n.unbounded = false
	n.MarkChanged()
}

// SetUnbounded makes the node cover the whole plane. Unbounded nodes are
// never culled.
func (n *Node) SetUnbounded() {
	n.MarkChanged()
	n.unbounded = true
}

func (n *Node) ownBounds() (Rect, bool) {
	return n.bounds, !n.unbounded
}

// fullBounds unions the node's bounds with those of its whole subtree,
// each mapped outward. Any unbounded node makes the result unbounded.
func (n *Node) fullBounds() (Rect, bool) {
	if n.unbounded {
		return Rect{}, false
	}
	r := n.bounds
	for _, c := range n.children {
		cr, ok := c.fullBounds()
		if !ok {
			return Rect{}, false
		}
		r = r.Union(c.RectToOuter(cr))
	}
	return r, true
}

// FullBounds returns the bounds of the node and its descendants in the
// node's canonical space, or InfiniteRect if any of them is unbounded.
func (n *Node) FullBounds() Rect {
	r, ok := n.fullBounds()
	if !ok {
		return InfiniteRect
	}
	return r
}

// Contains reports whether the local point p hits this node.
func (n *Node) Contains(p Point) bool {
	if co, ok := n.role.(containsOverride); ok {
		return co.contains(p)
	}
	if n.HitShape == nil {
		return false
	}
	return n.HitShape.Contains(p)
}

// --- Coordinate system ---

// CoordinateSystem returns the node's local/canonical mapping.
func (n *Node) CoordinateSystem() CoordinateSystem {
	return n.coords
}

// SetCoordinateSystem replaces the node's local/canonical mapping.
func (n *Node) SetCoordinateSystem(cs CoordinateSystem) {
	if cs == nil {
		cs = Canonical
	}
	n.coords = cs
	n.MarkFullyChanged()
}

func (n *Node) ToLocal(canonical Point) Point { return n.coords.ToLocal(canonical) }
func (n *Node) ToCanonical(local Point) Point { return n.coords.ToCanonical(local) }

// RectToLocal converts r corner by corner (bounding box; lossy for
// non-linear coordinate systems).
func (n *Node) RectToLocal(r Rect) Rect { return mapRect(r, n.ToLocal) }

// RectToCanonical converts r corner by corner (bounding box; lossy for
// non-linear coordinate systems).
func (n *Node) RectToCanonical(r Rect) Rect { return mapRect(r, n.ToCanonical) }

// --- Inner/outer mapping ---

// ToOuter maps a point in n's canonical space into its owner's.
func (n *Node) ToOuter(inner Point) Point {
	return n.transform.Apply(inner)
}

// ToInner maps a point in the owner's canonical space into n's.
// Panics if the transform is singular.
func (n *Node) ToInner(outer Point) Point {
	return n.transform.Inverse().Apply(outer)
}

// ToOuterUpTo maps a point in n's canonical space into the canonical space
// of the ancestor ref. Panics if ref is not n or one of its ancestors.
func (n *Node) ToOuterUpTo(inner Point, ref *Node) Point {
	if ref == n {
		return inner
	}
	outer := n.ToOuter(inner)
	if n.owner == ref {
		return outer
	}
	if n.owner == nil {
		panic("morphic: reference node is not an ancestor")
	}
	return n.owner.ToOuterUpTo(outer, ref)
}

// ToInnerFrom maps a point in the canonical space of the ancestor ref into
// n's canonical space. Panics if ref is not n or one of its ancestors.
func (n *Node) ToInnerFrom(outer Point, ref *Node) Point {
	if ref == n {
		return outer
	}
	if n.owner == nil {
		panic("morphic: reference node is not an ancestor")
	}
	if n.owner != ref {
		outer = n.owner.ToInnerFrom(outer, ref)
	}
	return n.ToInner(outer)
}

// RectToOuter maps r into the owner's canonical space (bounding box).
func (n *Node) RectToOuter(r Rect) Rect {
	return n.transform.ApplyRect(r)
}

// RectToInner maps r from the owner's canonical space (bounding box).
func (n *Node) RectToInner(r Rect) Rect {
	return n.transform.Inverse().ApplyRect(r)
}

// --- Position ---

// Position returns the node's origin in its owner's local coordinates.
// ok is false when the node has no owner.
func (n *Node) Position() (p Point, ok bool) {
	if n.owner == nil {
		return Point{}, false
	}
	return n.owner.ToLocal(n.ToOuter(Origin)), true
}

// SetPosition translates the node so that its origin lands at p, given in
// the owner's local coordinates. Panics if the node has no owner.
func (n *Node) SetPosition(p Point) {
	if n.owner == nil {
		panic("morphic: SetPosition on a node without owner")
	}
	target := n.owner.ToCanonical(p)
	d := target.Sub(n.ToOuter(Origin))
	n.TranslateBy(d.X, d.Y)
}

// --- Transformations ---

// Transform returns the transform embedding n's canonical space into its
// owner's.
func (n *Node) Transform() *Transform {
	return n.transform
}

// SetTransform replaces the node's transform, reporting full damage for
// both the old and the new placement.
func (n *Node) SetTransform(t *Transform) {
	if t == nil {
		t = Identity
	}
	n.MarkFullyChanged()
	n.transform = t
	n.MarkFullyChanged()
}

// TranslateBy moves the node by (dx, dy) in its owner's canonical space.
func (n *Node) TranslateBy(dx, dy float64) {
	n.SetTransform(n.transform.TranslatedBy(dx, dy))
}

// ScaleBy scales the node about its own origin.
func (n *Node) ScaleBy(s float64) {
	n.SetTransform(n.transform.ScaledBy(s))
}

// RotateBy rotates the node about its own origin.
func (n *Node) RotateBy(theta float64) {
	n.SetTransform(n.transform.RotatedBy(theta))
}

// OrbitBy rotates the node about its owner's origin.
func (n *Node) OrbitBy(theta float64) {
	n.SetTransform(Rotation(theta).With(n.transform))
}

// TransformBy composes t on the inner side: t is applied before the
// current transform.
func (n *Node) TransformBy(t *Transform) {
	n.SetTransform(n.transform.With(t))
}

// TransformLeftBy composes t on the outer side: t is applied after the
// current transform.
func (n *Node) TransformLeftBy(t *Transform) {
	n.SetTransform(t.With(n.transform))
}

// Align translates the node so that its local point inside lands on the
// owner-local point outside.
func (n *Node) Align(inside, outside Point) {
	if n.owner == nil {
		panic("morphic: Align on a node without owner")
	}
	d := n.owner.ToCanonical(outside).Sub(n.ToOuter(n.ToCanonical(inside)))
	n.TranslateBy(d.X, d.Y)
}

// --- Stepping ---

// WantsSteps reports whether the node has a step hook.
func (n *Node) WantsSteps() bool {
	return n.OnStep != nil && !n.disposed
}

// Interval returns the node's step interval.
func (n *Node) Interval() time.Duration {
	if n.StepInterval <= 0 {
		return DefaultStepInterval
	}
	return n.StepInterval
}

// StartStepping registers the stepping of n and its subtree with the World
// it is attached under. Attaching does this automatically; call it after
// setting OnStep on an already attached node.
func (n *Node) StartStepping() {
	n.startStepping()
}

// StopStepping deregisters the stepping of n and its subtree.
func (n *Node) StopStepping() {
	n.stopStepping()
}

func (n *Node) startStepping() {
	w := n.World()
	if w == nil {
		return
	}
	n.walk(w.startStepping)
}

func (n *Node) stopStepping() {
	w := n.World()
	if w == nil {
		return
	}
	n.walk(w.stopStepping)
}

// walk calls fn for n and every descendant, children first.
func (n *Node) walk(fn func(*Node)) {
	for _, c := range n.children {
		c.walk(fn)
	}
	fn(n)
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.owner {
		if p == candidate {
			return true
		}
	}
	return false
}
