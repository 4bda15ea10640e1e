package vac

import (
	"fmt"
	"math"

	"github.com/cookrl/cookrl/initwfn"
	"github.com/cookrl/cookrl/network"
)

// Config describes a VAC model. A Config is immutable once a model has
// been constructed from it; zero-valued fields select the reference
// architecture's defaults. Configs marshal to and from JSON so models
// can be described in configuration files and built through the model
// registry.
type Config struct {
	// ObsShape is the shape of a single observation: one entry for
	// flat observations, (channels, height, width) for image-like
	// ones. Other ranks are rejected at construction.
	ObsShape []int

	// ActionShape gives the number of discrete actions per action
	// dimension. Discrete models with more than one entry get one
	// sub-head per dimension; continuous models must have exactly one
	// entry, the number of action components.
	ActionShape []int

	// ShareEncoder reuses one encoder for the actor and critic paths
	// instead of learning a separate encoder per path.
	ShareEncoder bool

	// Continuous selects a Gaussian (mean, stddev) actor head in
	// place of the categorical logits head.
	Continuous bool

	// EncoderHiddenSizes configures the encoder stack. For flat
	// observations each entry is a fully connected layer width. For
	// image observations the first three entries are convolution
	// channel counts, entries between the third and the last are
	// residual block widths, and the last entry is the embedding
	// size. Defaults to 128, 128, 64.
	EncoderHiddenSizes []int

	// ActorHeadHiddenSize is the width of the actor head's hidden
	// layers and must match the final encoder hidden size. Defaults
	// to 64.
	ActorHeadHiddenSize int

	// ActorHeadLayerNum is the number of hidden layers in the actor
	// head before its output projection. Defaults to 2.
	ActorHeadLayerNum int

	// CriticHeadHiddenSize is the width of the critic head's hidden
	// layers and must match the final encoder hidden size. Defaults
	// to 64.
	CriticHeadHiddenSize int

	// CriticHeadLayerNum is the number of hidden layers in the critic
	// head before its output projection. Defaults to 1.
	CriticHeadLayerNum int

	// Activation runs after every hidden layer. Defaults to ReLU.
	Activation *network.Activation

	// Norm is the normalization applied inside fully connected and
	// residual blocks. Defaults to no normalization.
	Norm *network.Norm

	// BatchSize fixes the number of observations per forward pass.
	// Defaults to 1.
	BatchSize int

	// InitWFn initializes the model weights. Defaults to Glorot
	// normal with gain √2.
	InitWFn *initwfn.InitWFn
}

// withDefaults returns the Config with the reference architecture
// filled in for zero-valued fields.
func (c Config) withDefaults() Config {
	if len(c.EncoderHiddenSizes) == 0 {
		c.EncoderHiddenSizes = []int{128, 128, 64}
	}
	if c.ActorHeadHiddenSize == 0 {
		c.ActorHeadHiddenSize = 64
	}
	if c.ActorHeadLayerNum == 0 {
		c.ActorHeadLayerNum = 2
	}
	if c.CriticHeadHiddenSize == 0 {
		c.CriticHeadHiddenSize = 64
	}
	if c.CriticHeadLayerNum == 0 {
		c.CriticHeadLayerNum = 1
	}
	if c.Activation == nil {
		c.Activation = network.ReLU()
	}
	if c.Norm == nil {
		c.Norm = network.None()
	}
	if c.BatchSize == 0 {
		c.BatchSize = 1
	}
	if c.InitWFn == nil {
		c.InitWFn = defaultInitWFn()
	}
	return c
}

// validate rejects configurations no encoder or head can serve. It
// runs after withDefaults, so zero values have already been filled in.
func (c Config) validate() error {
	switch len(c.ObsShape) {
	case 1, 3:
	default:
		return fmt.Errorf("unsupported observation shape %v for the "+
			"pre-defined encoders (want rank 1 or 3)", c.ObsShape)
	}
	for _, dim := range c.ObsShape {
		if dim <= 0 {
			return fmt.Errorf("non-positive observation dimension in %v",
				c.ObsShape)
		}
	}

	if len(c.ActionShape) == 0 {
		return fmt.Errorf("no action dimensions given")
	}
	for _, dim := range c.ActionShape {
		if dim <= 0 {
			return fmt.Errorf("non-positive action dimension in %v",
				c.ActionShape)
		}
	}
	if c.Continuous && len(c.ActionShape) > 1 {
		return fmt.Errorf("continuous models take a single action space "+
			"but got %v dimensions", len(c.ActionShape))
	}

	embedding := c.EncoderHiddenSizes[len(c.EncoderHiddenSizes)-1]
	if c.ActorHeadHiddenSize != embedding {
		return fmt.Errorf("actor head hidden size %v must match the "+
			"final encoder hidden size %v", c.ActorHeadHiddenSize, embedding)
	}
	if c.CriticHeadHiddenSize != embedding {
		return fmt.Errorf("critic head hidden size %v must match the "+
			"final encoder hidden size %v", c.CriticHeadHiddenSize, embedding)
	}

	if c.BatchSize < 0 {
		return fmt.Errorf("negative batch size %v", c.BatchSize)
	}
	return nil
}

// defaultInitWFn returns the default weight initializer. Construction
// cannot fail for a fixed gain, so any error is a programmer error.
func defaultInitWFn() *initwfn.InitWFn {
	init, err := initwfn.NewGlorotN(math.Sqrt2)
	if err != nil {
		panic(fmt.Sprintf("defaultinitwfn: %v", err))
	}
	return init
}
