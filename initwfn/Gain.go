package initwfn

import G "gorgonia.org/gorgonia"

// GlorotUConfig describes Glorot initialization with weights drawn
// from a uniform distribution scaled by the layer fan and gain.
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a Glorot uniform initializer.
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type returns the algorithm the config describes
func (g GlorotUConfig) Type() Type { return GlorotU }

// Create returns the described Gorgonia initializer
func (g GlorotUConfig) Create() G.InitWFn { return G.GlorotU(g.Gain) }

// GlorotNConfig describes Glorot initialization with weights drawn
// from a normal distribution scaled by the layer fan and gain.
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a Glorot normal initializer.
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotNConfig{Gain: gain})
}

// Type returns the algorithm the config describes
func (g GlorotNConfig) Type() Type { return GlorotN }

// Create returns the described Gorgonia initializer
func (g GlorotNConfig) Create() G.InitWFn { return G.GlorotN(g.Gain) }

// HeUConfig describes He initialization with weights drawn from a
// uniform distribution scaled by the layer fan-in and gain.
type HeUConfig struct {
	Gain float64
}

// NewHeU returns a He uniform initializer.
func NewHeU(gain float64) (*InitWFn, error) {
	return newInitWFn(HeUConfig{Gain: gain})
}

// Type returns the algorithm the config describes
func (h HeUConfig) Type() Type { return HeU }

// Create returns the described Gorgonia initializer
func (h HeUConfig) Create() G.InitWFn { return G.HeU(h.Gain) }

// HeNConfig describes He initialization with weights drawn from a
// normal distribution scaled by the layer fan-in and gain.
type HeNConfig struct {
	Gain float64
}

// NewHeN returns a He normal initializer.
func NewHeN(gain float64) (*InitWFn, error) {
	return newInitWFn(HeNConfig{Gain: gain})
}

// Type returns the algorithm the config describes
func (h HeNConfig) Type() Type { return HeN }

// Create returns the described Gorgonia initializer
func (h HeNConfig) Create() G.InitWFn { return G.HeN(h.Gain) }
