package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// FCEncoder embeds flat (rank 1) observations with a stack of fully
// connected layers. The first layer projects the observation to
// hiddenSizes[0] without normalization; each following layer maps
// between consecutive hidden sizes with the configured normalization.
// Every layer ends with the activation.
type FCEncoder struct {
	layers  []*fcLayer
	out     *G.Node
	outSize int
}

// NewFCEncoder builds the encoder against the input node x of shape
// (batch, features), attaching its parameters and operations to g.
func NewFCEncoder(g *G.ExprGraph, x *G.Node, hiddenSizes []int, norm *Norm,
	act *Activation, init G.InitWFn, name string) (*FCEncoder, error) {
	if len(x.Shape()) != 2 {
		return nil, fmt.Errorf("newfcencoder: input must have shape "+
			"(batch, features) but got %v", x.Shape())
	}
	if len(hiddenSizes) == 0 {
		return nil, fmt.Errorf("newfcencoder: no hidden sizes given")
	}

	layers := make([]*fcLayer, 0, len(hiddenSizes))
	in := x.Shape()[1]
	for i, size := range hiddenSizes {
		layerNorm := norm
		if i == 0 {
			layerNorm = None()
		}
		layer, err := newFCLayer(g, in, size, layerNorm, act, init,
			fmt.Sprintf("%sL%d", name, i))
		if err != nil {
			return nil, fmt.Errorf("newfcencoder: layer %v: %v", i, err)
		}
		layers = append(layers, layer)
		in = size
	}

	out := x
	var err error
	for i, layer := range layers {
		if out, err = layer.Fwd(out); err != nil {
			return nil, fmt.Errorf("newfcencoder: could not compute "+
				"forward pass of layer %v: %v", i, err)
		}
	}

	return &FCEncoder{
		layers:  layers,
		out:     out,
		outSize: hiddenSizes[len(hiddenSizes)-1],
	}, nil
}

// Output returns the embedding node
func (f *FCEncoder) Output() *G.Node {
	return f.out
}

// OutputSize returns the length of each embedded feature vector
func (f *FCEncoder) OutputSize() int {
	return f.outSize
}

// Learnables returns the parameters of the encoder
func (f *FCEncoder) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, layer := range f.layers {
		learnables = append(learnables, layer.Learnables()...)
	}
	return learnables
}
