package solver

import G "gorgonia.org/gorgonia"

// VanillaConfig describes plain stochastic gradient descent with an
// optional gradient clip.
type VanillaConfig struct {
	StepSize float64
	Batch    int
	Clip     float64 // <= 0 disables clipping
}

// NewVanilla returns a stochastic gradient descent solver. Gradients
// are clipped to [-clip, clip] when clip is positive.
func NewVanilla(stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(Vanilla, VanillaConfig{
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// Create returns the described Gorgonia Solver
func (v VanillaConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(v.StepSize),
		G.WithBatchSize(float64(v.Batch)),
	}
	if v.Clip > 0 {
		opts = append(opts, G.WithClip(v.Clip))
	}
	return G.NewVanillaSolver(opts...)
}

// ValidType returns whether the Config can describe an optimizer of
// the argument Type
func (v VanillaConfig) ValidType(t Type) bool { return t == Vanilla }
