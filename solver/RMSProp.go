package solver

import G "gorgonia.org/gorgonia"

// RMSPropConfig describes an RMSProp optimizer. Gorgonia fixes the
// decay schedule parameter η at its default, so the config does not
// carry one.
type RMSPropConfig struct {
	StepSize float64
	Epsilon  float64
	Rho      float64
	Batch    int
	Clip     float64 // <= 0 disables clipping
}

// NewDefaultRMSProp returns an RMSProp solver with ɛ = 1e-8 and
// ρ = 0.999, without gradient clipping.
func NewDefaultRMSProp(stepSize float64, batchSize int) (*Solver, error) {
	return NewRMSProp(stepSize, 1e-8, 0.999, batchSize, -1.0)
}

// NewRMSProp returns an RMSProp solver. Gradients are clipped to
// [-clip, clip] when clip is positive.
func NewRMSProp(stepSize, epsilon, rho float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(RMSProp, RMSPropConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Rho:      rho,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// Create returns the described Gorgonia Solver
func (r RMSPropConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(r.StepSize),
		G.WithEps(r.Epsilon),
		G.WithRho(r.Rho),
		G.WithBatchSize(float64(r.Batch)),
	}
	if r.Clip > 0 {
		opts = append(opts, G.WithClip(r.Clip))
	}
	return G.NewRMSPropSolver(opts...)
}

// ValidType returns whether the Config can describe an optimizer of
// the argument Type
func (r RMSPropConfig) ValidType(t Type) bool { return t == RMSProp }
