package initwfn

import G "gorgonia.org/gorgonia"

// ZeroesConfig describes initialization of all weights to zero.
type ZeroesConfig struct{}

// NewZeroes returns a zero initializer.
func NewZeroes() (*InitWFn, error) {
	return newInitWFn(ZeroesConfig{})
}

// Type returns the algorithm the config describes
func (z ZeroesConfig) Type() Type { return Zeroes }

// Create returns the described Gorgonia initializer
func (z ZeroesConfig) Create() G.InitWFn { return G.Zeroes() }

// OnesConfig describes initialization of all weights to one.
type OnesConfig struct{}

// NewOnes returns a ones initializer.
func NewOnes() (*InitWFn, error) {
	return newInitWFn(OnesConfig{})
}

// Type returns the algorithm the config describes
func (o OnesConfig) Type() Type { return Ones }

// Create returns the described Gorgonia initializer
func (o OnesConfig) Create() G.InitWFn { return G.Ones() }

// ConstantConfig describes initialization of all weights to a fixed
// value.
type ConstantConfig struct {
	Value float64
}

// NewConstant returns an initializer that fills weights with value.
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{Value: value})
}

// Type returns the algorithm the config describes
func (c ConstantConfig) Type() Type { return Constant }

// Create returns the described Gorgonia initializer
func (c ConstantConfig) Create() G.InitWFn { return G.ValuesOf(c.Value) }
