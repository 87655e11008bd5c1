package morphic

// MarkChanged reports that n's own bounds need redrawing.
func (n *Node) MarkChanged() {
	r, ok := n.ownBounds()
	n.changedRect(r, ok)
}

// MarkFullyChanged reports that n and its whole subtree need redrawing.
func (n *Node) MarkFullyChanged() {
	r, ok := n.fullBounds()
	n.changedRect(r, ok)
}

// MarkChangedRect reports that r, in n's canonical space, needs redrawing.
func (n *Node) MarkChangedRect(r Rect) {
	n.changedRect(r, true)
}

// changedRect routes damage upward. Worlds intercept it and hand it to
// their eyes.
func (n *Node) changedRect(r Rect, bounded bool) {
	if ci, ok := n.role.(changeInterceptor); ok {
		ci.invalidate(r, bounded)
		return
	}
	n.notifyChanged(r, bounded)
}

func (n *Node) notifyChanged(r Rect, bounded bool) {
	if n.owner == nil {
		return
	}
	if !bounded {
		n.owner.MarkChanged()
		return
	}
	n.owner.changedRect(n.RectToOuter(r), true)
}
