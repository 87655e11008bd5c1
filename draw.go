package morphic

import (
	"fmt"
	"log/slog"

	mlog "github.com/phanxgames/morphic/internal/log"
)

// FullDraw paints n and its subtree onto c. The canvas transform is composed
// with n's transform for the duration of the call and restored afterwards.
//
// Nothing is drawn when n's bounded full bounds are not visible. The node's
// own OnDraw runs clipped to its bounds; a panic in it is logged and replaced
// by the error marker. Children are then drawn back to front through
// c.DrawNode, so decorating canvases see every node.
func (n *Node) FullDraw(c Canvas) {
	outer := c.Transform()
	inner := outer.With(n.transform)
	c.SetTransform(inner)
	defer c.SetTransform(outer)

	if full, ok := n.fullBounds(); ok && !c.IsVisible(full) {
		return
	}

	alpha := c.Alpha()
	restoreClip := saveClip(c)
	own, bounded := n.ownBounds()
	if !bounded || c.IsVisible(own) {
		if bounded {
			c.SetClip(own.Intersection(c.Clip()))
		}
		n.draw(c, own)
		c.SetTransform(inner)
		c.SetAlpha(alpha)
		restoreClip()
	}

	if cd, ok := n.role.(childDrawer); ok {
		cd.drawChildren(c)
	} else {
		n.drawChildren(c)
	}
	c.SetAlpha(alpha)
	restoreClip()
}

// viewClipper is implemented by canvases that can save and restore their
// clip independently of the current transform.
type viewClipper interface {
	ViewClip() Rect
	SetViewClip(r Rect)
}

// saveClip captures the clip of c and returns a function restoring it. The
// fallback round-trips through the current canonical space, so it must be
// called under the same transform.
func saveClip(c Canvas) func() {
	if vc, ok := c.(viewClipper); ok {
		r := vc.ViewClip()
		return func() { vc.SetViewClip(r) }
	}
	r := c.Clip()
	return func() { c.SetClip(r) }
}

func (n *Node) drawChildren(c Canvas) {
	for _, child := range n.children {
		c.DrawNode(child)
	}
}

// draw runs the draw hook, replacing a panic with the error marker.
func (n *Node) draw(c Canvas, bounds Rect) {
	if n.OnDraw == nil {
		return
	}
	t, alpha := c.Transform(), c.Alpha()
	defer func() {
		if r := recover(); r != nil {
			drawFailures.Add(1)
			mlog.WithComponent("draw").Error("draw hook failed",
				slog.String("node", n.Name),
				slog.Uint64("id", uint64(n.ID)),
				slog.String("panic", fmt.Sprint(r)))
			if !n.unbounded {
				c.SetTransform(t)
				c.SetAlpha(alpha)
				ErrorMarker(c, bounds)
			}
		}
	}()
	n.OnDraw(n, c)
}
