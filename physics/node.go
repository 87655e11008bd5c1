package physics

import (
	"time"

	"github.com/phanxgames/morphic"
)

// DefaultStepInterval is how often a SimulationNode steps.
const DefaultStepInterval = 50 * time.Millisecond

// SimulationNode is a node whose children are moved by a Simulation. It is
// unbounded unless EnforceBounds is set, in which case particles are kept
// inside the unit disk and the node keeps its unit bounds.
type SimulationNode struct {
	*morphic.Node
	Simulation *Simulation

	enforceBounds bool
}

// NewSimulationNode returns an unbounded node stepping an empty simulation.
func NewSimulationNode(name string) *SimulationNode {
	s := &SimulationNode{Node: morphic.NewNode(name), Simulation: &Simulation{}}
	s.SetUnbounded()
	s.StepInterval = DefaultStepInterval
	s.OnStep = func(_ *morphic.Node, dt time.Duration) { s.step(dt) }
	return s
}

// SetEnforceBounds toggles confinement of particles to the unit disk.
func (s *SimulationNode) SetEnforceBounds(on bool) {
	s.enforceBounds = on
	if on {
		s.SetBounds(morphic.UnitRect)
	} else {
		s.SetUnbounded()
	}
}

// AddParticle adds n as a child and as a particle.
func (s *SimulationNode) AddParticle(n *morphic.Node) *Particle {
	s.AddChild(n)
	return s.Simulation.AddParticle(n)
}

// AddSpring links two nodes with a default spring.
func (s *SimulationNode) AddSpring(n1, n2 *morphic.Node) *Spring {
	return s.Simulation.AddSpring(n1, n2)
}

// AddForce adds f to the simulation.
func (s *SimulationNode) AddForce(f Force) Force {
	s.Simulation.AddForce(f)
	s.MarkFullyChanged()
	return f
}

func (s *SimulationNode) step(dt time.Duration) {
	s.MarkFullyChanged()
	s.Simulation.Step(dt)
	if s.enforceBounds {
		s.confine()
	}
	s.MarkFullyChanged()
}

func (s *SimulationNode) confine() {
	for _, p := range s.Simulation.Particles {
		n := p.Node()
		if n.Owner() == nil {
			continue
		}
		pos, _ := n.Position()
		if pos.Radius() > 1 {
			n.SetPosition(morphic.FromPolar(1, pos.Angle()))
		}
	}
}
