package physics

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/phanxgames/morphic"
)

// Force accumulates forces onto the particles of a simulation.
type Force interface {
	Apply(s *Simulation)
}

// Simulation integrates a set of particles under a set of forces.
type Simulation struct {
	Particles []*Particle
	Forces    []Force

	// Rand perturbs coincident particles. Nil uses the global source.
	Rand *rand.Rand
}

// Step advances the simulation by dt.
func (s *Simulation) Step(dt time.Duration) {
	sec := dt.Seconds()
	for _, p := range s.Particles {
		if n := p.V.Norm2(); n > 1 {
			p.V = p.V.Scale(1 / (10 * n))
		}
	}
	for _, p := range s.Particles {
		p.updatePosition(sec)
	}
	for _, p := range s.Particles {
		p.F = morphic.Point{}
	}
	for _, f := range s.Forces {
		f.Apply(s)
	}
	for _, p := range s.Particles {
		p.updateVelocity(sec)
	}
}

// AddParticle returns the particle driving n, creating it if needed.
func (s *Simulation) AddParticle(n *morphic.Node) *Particle {
	if i := slices.IndexFunc(s.Particles, func(p *Particle) bool { return p.node == n }); i >= 0 {
		return s.Particles[i]
	}
	p := NewParticle(n)
	s.Particles = append(s.Particles, p)
	return p
}

// RemoveParticle drops the particle driving n and every spring attached
// to it.
func (s *Simulation) RemoveParticle(n *morphic.Node) {
	i := slices.IndexFunc(s.Particles, func(p *Particle) bool { return p.node == n })
	if i < 0 {
		return
	}
	p := s.Particles[i]
	s.Particles = slices.Delete(s.Particles, i, i+1)
	s.Forces = slices.DeleteFunc(s.Forces, func(f Force) bool {
		sp, ok := f.(*Spring)
		return ok && (sp.P1 == p || sp.P2 == p)
	})
}

// AddForce appends f and returns it.
func (s *Simulation) AddForce(f Force) Force {
	s.Forces = append(s.Forces, f)
	return f
}

// AddSpring links the particles of n1 and n2 with a default spring.
func (s *Simulation) AddSpring(n1, n2 *morphic.Node) *Spring {
	sp := NewSpring(s.AddParticle(n1), s.AddParticle(n2))
	s.AddForce(sp)
	return sp
}

// jitter returns a tiny random offset used when two particles coincide.
func (s *Simulation) jitter() morphic.Point {
	f := rand.Float64
	if s.Rand != nil {
		f = s.Rand.Float64
	}
	return morphic.Pt((f()-0.5)*0.01, (f()-0.5)*0.01)
}
