package physics

import "github.com/phanxgames/morphic"

// Spring pulls two particles towards RestLength apart.
type Spring struct {
	Tension    float64
	RestLength float64
	Damping    float64
	P1, P2     *Particle
}

// NewSpring returns a spring with tension 0.1, rest length 0.5 and damping
// 0.1.
func NewSpring(p1, p2 *Particle) *Spring {
	return &Spring{Tension: 0.1, RestLength: 0.5, Damping: 0.1, P1: p1, P2: p2}
}

func (sp *Spring) Apply(s *Simulation) {
	springPair(s, sp.P1, sp.P2, sp.Tension, sp.RestLength, sp.Damping)
}

// springPair applies a damped spring force between p1 and p2. Coincident
// particles are nudged apart by a random offset.
func springPair(s *Simulation, p1, p2 *Particle, tension, rest, damping float64) {
	delta := p1.Position().Sub(p2.Position())
	dist := delta.Norm()
	if dist == 0 {
		delta = s.jitter()
		dist = delta.Norm()
	}
	dd := max(dist, rest)
	k := tension * (dist - rest)
	k += damping * delta.Dot(p1.V.Sub(p2.V)) / dd
	k /= dd

	f := delta.Scale(-k)
	p1.F = p1.F.Add(f)
	p2.F = p2.F.Sub(f)
}

// NSpring connects every ordered pair of particles with a spring.
type NSpring struct {
	Tension    float64
	RestLength float64
	Damping    float64
}

// NewNSpring returns an all-pairs spring with tension 0.1, rest length 0.5
// and damping 0.1.
func NewNSpring() *NSpring {
	return &NSpring{Tension: 0.1, RestLength: 0.5, Damping: 0.1}
}

func (ns *NSpring) Apply(s *Simulation) {
	for i, p1 := range s.Particles {
		for j, p2 := range s.Particles {
			if i == j {
				continue
			}
			springPair(s, p1, p2, ns.Tension, ns.RestLength, ns.Damping)
		}
	}
}

// NBody applies an inverse-square force between every pair of particles
// closer than MaxDistance. Negative G repels.
type NBody struct {
	G           float64
	MinDistance float64
	MaxDistance float64
}

// NewNBody returns a repelling n-body force (G -0.01, distances 0.1..1).
func NewNBody() *NBody {
	return &NBody{G: -0.01, MinDistance: 0.1, MaxDistance: 1}
}

func (nb *NBody) Apply(s *Simulation) {
	for _, p1 := range s.Particles {
		pos1 := p1.Position()
		var f morphic.Point
		for _, p2 := range s.Particles {
			if p2 == p1 {
				continue
			}
			delta := p2.Position().Sub(pos1)
			dist := delta.Norm()
			if dist == 0 || dist >= nb.MaxDistance {
				continue
			}
			dir := delta.Scale(1 / dist)
			dist = max(dist, nb.MinDistance)
			f = f.Add(dir.Scale(nb.G * p1.Mass * p2.Mass / (dist * dist)))
		}
		p1.F = p1.F.Add(f)
	}
}

// Drag opposes velocity.
type Drag struct {
	Factor float64
}

// NewDrag returns a drag with factor 0.1.
func NewDrag() *Drag { return &Drag{Factor: 0.1} }

func (d *Drag) Apply(s *Simulation) {
	if d.Factor == 0 {
		return
	}
	for _, p := range s.Particles {
		p.F = p.F.Sub(p.V.Scale(d.Factor))
	}
}

// Gravity pulls every particle along G, scaled by its mass.
type Gravity struct {
	G morphic.Point
}

// NewGravity returns a gravity of (0, 0.01).
func NewGravity() *Gravity { return &Gravity{G: morphic.Pt(0, 0.01)} }

func (g *Gravity) Apply(s *Simulation) {
	for _, p := range s.Particles {
		p.F = p.F.Add(g.G.Scale(p.Mass))
	}
}
