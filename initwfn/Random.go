package initwfn

import G "gorgonia.org/gorgonia"

// GaussianConfig describes initialization with weights drawn
// independently from a Gaussian distribution.
type GaussianConfig struct {
	Mean, StdDev float64
}

// NewGaussian returns a Gaussian initializer.
func NewGaussian(mean, stddev float64) (*InitWFn, error) {
	return newInitWFn(GaussianConfig{Mean: mean, StdDev: stddev})
}

// Type returns the algorithm the config describes
func (g GaussianConfig) Type() Type { return Gaussian }

// Create returns the described Gorgonia initializer
func (g GaussianConfig) Create() G.InitWFn {
	return G.Gaussian(g.Mean, g.StdDev)
}

// UniformConfig describes initialization with weights drawn
// independently and uniformly from [Low, High).
type UniformConfig struct {
	Low, High float64
}

// NewUniform returns a uniform initializer.
func NewUniform(low, high float64) (*InitWFn, error) {
	return newInitWFn(UniformConfig{Low: low, High: high})
}

// Type returns the algorithm the config describes
func (u UniformConfig) Type() Type { return Uniform }

// Create returns the described Gorgonia initializer
func (u UniformConfig) Create() G.InitWFn {
	return G.Uniform(u.Low, u.High)
}
