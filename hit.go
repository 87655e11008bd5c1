package morphic

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect Rect

// Contains reports whether p lies inside or on the rectangle.
func (r HitRect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	Center Point
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c HitCircle) Contains(p Point) bool {
	return p.Distance2(c.Center) <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon []Point

// Contains reports whether p lies inside the polygon using a cross-product
// sign test.
func (poly HitPolygon) Contains(p Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		cross := b.Sub(a).Cross(p.Sub(a))
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// HitFunc adapts a function to HitShape.
type HitFunc func(p Point) bool

func (f HitFunc) Contains(p Point) bool { return f(p) }

// HitAll is hit everywhere.
var HitAll HitShape = HitFunc(func(Point) bool { return true })

// --- Picking ---

// Pick returns the frontmost node of n's subtree containing p, given in n's
// local space, or nil. Children are searched front to back before n itself.
func (n *Node) Pick(p Point) *Node {
	if hit := n.pickChildren(p, len(n.children)); hit != nil {
		return hit
	}
	if n.Contains(p) {
		return n
	}
	return nil
}

// PickBelow is like Pick but only searches the children behind top and
// never returns n itself. Panics if top is not a child of n.
func (n *Node) PickBelow(p Point, top *Node) *Node {
	i := n.IndexOf(top)
	if i < 0 {
		panic("morphic: PickBelow reference is not a child")
	}
	return n.pickChildren(p, i)
}

// pickChildren searches children[:limit] front to back.
func (n *Node) pickChildren(p Point, limit int) *Node {
	canonical := n.ToCanonical(p)
	for j := limit - 1; j >= 0; j-- {
		c := n.children[j]
		if hit := c.Pick(c.ToLocal(c.ToInner(canonical))); hit != nil {
			return hit
		}
	}
	return nil
}
