package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network: x·W + bias, followed by optional layer normalization and an
// activation.
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	norm    *layerNormer
	act     *Activation
}

// newFCLayer adds a fully connected layer's parameters to g. The name
// disambiguates parameters when several networks share a graph.
func newFCLayer(g *G.ExprGraph, in, out int, norm *Norm, act *Activation,
	init G.InitWFn, name string) (*fcLayer, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("newfclayer: non-positive layer size "+
			"(%v -> %v)", in, out)
	}

	layer := &fcLayer{
		weights: G.NewMatrix(
			g,
			tensor.Float64,
			G.WithShape(in, out),
			G.WithName(name+"W"),
			G.WithInit(init),
		),
		bias: G.NewMatrix(
			g,
			tensor.Float64,
			G.WithShape(1, out),
			G.WithName(name+"B"),
			G.WithInit(G.Zeroes()),
		),
		act: act,
	}
	if norm.IsLayer() {
		layer.norm = newLayerNormer(g, out, name+"Norm")
	}
	return layer, nil
}

// Fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) Fwd(x *G.Node) (*G.Node, error) {
	x = G.Must(G.Mul(x, f.weights))

	// Broadcast the bias weights to all samples along the batch
	// dimension
	x = G.Must(G.BroadcastAdd(x, f.bias, nil, []byte{0}))

	if f.norm != nil {
		var err error
		if x, err = f.norm.fwd(x); err != nil {
			return nil, fmt.Errorf("fwd: could not normalize layer "+
				"output: %v", err)
		}
	}
	if !f.act.IsNil() && !f.act.IsIdentity() {
		return f.act.fwd(x)
	}
	return x, nil
}

// Learnables returns the parameters of the fcLayer
func (f *fcLayer) Learnables() G.Nodes {
	learnables := G.Nodes{f.weights, f.bias}
	if f.norm != nil {
		learnables = append(learnables, f.norm.learnables()...)
	}
	return learnables
}

// newHiddenStack builds layerNum fully connected width-preserving
// layers against x and returns them along with the node produced by
// chaining their forward passes. Heads use this for the hidden portion
// before their final projection.
func newHiddenStack(g *G.ExprGraph, x *G.Node, layerNum int, norm *Norm,
	act *Activation, init G.InitWFn, name string) ([]*fcLayer, *G.Node,
	error) {
	if layerNum < 0 {
		return nil, nil, fmt.Errorf("newhiddenstack: negative layer "+
			"count %v", layerNum)
	}

	hidden := x.Shape()[1]
	layers := make([]*fcLayer, 0, layerNum)
	out := x
	for i := 0; i < layerNum; i++ {
		layer, err := newFCLayer(g, hidden, hidden, norm, act, init,
			fmt.Sprintf("%sL%d", name, i))
		if err != nil {
			return nil, nil, fmt.Errorf("newhiddenstack: layer %v: %v",
				i, err)
		}
		if out, err = layer.Fwd(out); err != nil {
			return nil, nil, fmt.Errorf("newhiddenstack: could not "+
				"compute forward pass of layer %v: %v", i, err)
		}
		layers = append(layers, layer)
	}
	return layers, out, nil
}
