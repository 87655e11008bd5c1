// Package morphic is a retained-mode, hierarchical 2D scene graph.
//
// A [World] owns a tree of [Node] values. Every node embeds its own canonical
// space into its owner's through an affine [Transform], maps its local
// coordinates to canonical ones through a pluggable [CoordinateSystem], and
// draws itself onto an abstract [Canvas]. Viewpoints ([Eye]) render the tree
// up to their own position in z-order and accumulate damage rectangles; input
// proxies ([Hand]) pick nodes and dispatch typed events.
//
// # Quick start
//
//	world := morphic.NewWorld()
//	eye := morphic.NewEye("main")
//	world.AddChild(eye)
//
//	box := morphic.NewNode("box")
//	box.OnDraw = func(n *morphic.Node, c morphic.Canvas) {
//		c.SetFillColor(morphic.Orange)
//		c.FillRect(n.Bounds())
//	}
//	box.ScaleBy(0.25)
//	world.AddChildBack(box)
//
//	hand := morphic.NewHand("pointer")
//	world.AddChild(hand)
//
// The World's scheduler runs in the background with [World.Run]; render and
// input code should wrap tree access in [World.Do]. The ebitenhost package
// wires all of this to an Ebitengine window.
//
// # Spaces
//
// Canonical space is the square [-1,1]x[-1,1]. Bounds, hit shapes and drawing
// are all expressed in a node's canonical space. Index 0 of a node's children
// is the back-most child; the last index is drawn last, on top.
package morphic
