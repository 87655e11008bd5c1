// Package physics provides a small force-directed particle simulation that
// moves scene nodes. A Simulation is stepped by a SimulationNode, which the
// World schedules like any other stepping node.
package physics

import "github.com/phanxgames/morphic"

// DefaultMass is the mass of new particles.
const DefaultMass = 0.15

// Particle attaches velocity, accumulated force and mass to a node. The
// node's origin, in its owner's canonical space, is the particle position.
type Particle struct {
	V    morphic.Point // velocity
	F    morphic.Point // force accumulated during the current step
	Mass float64

	half morphic.Point // velocity at the half step
	node *morphic.Node
}

// NewParticle returns a particle at rest driving n.
func NewParticle(n *morphic.Node) *Particle {
	return &Particle{Mass: DefaultMass, node: n}
}

// Node returns the node the particle moves.
func (p *Particle) Node() *morphic.Node { return p.node }

// Position returns the particle position in the owner's canonical space.
func (p *Particle) Position() morphic.Point {
	return p.node.ToOuter(morphic.Origin)
}

// updatePosition is the first half of a velocity Verlet step.
func (p *Particle) updatePosition(dt float64) {
	a := p.F.Scale(1 / p.Mass)
	d := p.V.Scale(dt).Add(a.Scale(dt * dt / 2))
	p.node.TranslateBy(d.X, d.Y)
	p.half = p.V.Add(a.Scale(dt / 2))
}

// updateVelocity is the second half, using the forces at the new position.
func (p *Particle) updateVelocity(dt float64) {
	p.V = p.half.Add(p.F.Scale(dt / 2 / p.Mass))
}
