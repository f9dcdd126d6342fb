package sim

import (
	"math"

	"github.com/iburimskiy/breath-visualization/internal/config"
	"github.com/iburimskiy/breath-visualization/internal/flow"
	"github.com/iburimskiy/breath-visualization/internal/particle"
)

// drift noise is sampled on a separate z plane from the flow field
const driftNoiseOffset = 50

// Integrator moves particles between their home and drifted positions.
type Integrator struct {
	Field  *flow.Field
	Noise  flow.Noise
	Motion config.Motion
}

// Target returns where p drifts to at time t (seconds) for the given exhale.
func (in *Integrator) Target(p *particle.Particle, t, exhale float64) particle.Vec {
	m := in.Motion
	h := p.Home

	wobble := in.Noise.Noise3D(h.X*m.DriftNoiseScale, h.Y*m.DriftNoiseScale, t*m.DriftTimeScale+driftNoiseOffset)
	angle := p.Theta + wobble*m.DriftWobble

	r := m.MaxSpread * (0.4 + m.JitterStrength*p.Rand) * exhale
	drift := particle.Vec{X: math.Cos(angle) * r, Y: math.Sin(angle) * r}

	fx, fy := in.Field.At(h.X, h.Y, t)
	push := particle.Vec{X: fx, Y: fy}.Scale(m.FieldStrength * exhale)

	return h.Add(drift).Add(push)
}

// Ease is the interpolation factor: small when dissolved, larger when
// forming so particles snap home on the inhale.
func (in *Integrator) Ease(exhale float64) float64 {
	return in.Motion.ExhaleEase*exhale + (1-in.Motion.InhaleTightness)*(1-exhale)
}

// Step eases p.Pos toward its target.
func (in *Integrator) Step(p *particle.Particle, t, exhale float64) {
	p.Pos = p.Pos.Lerp(in.Target(p, t, exhale), in.Ease(exhale))
}
