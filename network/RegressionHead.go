package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// RegressionHead maps embeddings to real-valued predictions: layerNum
// width-preserving fully connected layers followed by a plain linear
// projection. When the output size is 1 the trailing axis is squeezed,
// so the prediction is a vector of one value per batch sample.
type RegressionHead struct {
	layers []*fcLayer
	final  *fcLayer
	out    *G.Node
}

// NewRegressionHead builds the head against the embedding node x of
// shape (batch, hidden), attaching its parameters and operations to g.
func NewRegressionHead(g *G.ExprGraph, x *G.Node, outputs, layerNum int,
	norm *Norm, act *Activation, init G.InitWFn,
	name string) (*RegressionHead, error) {
	if outputs <= 0 {
		return nil, fmt.Errorf("newregressionhead: non-positive output "+
			"count %v", outputs)
	}

	layers, out, err := newHiddenStack(g, x, layerNum, norm, act, init,
		name)
	if err != nil {
		return nil, fmt.Errorf("newregressionhead: %v", err)
	}

	final, err := newFCLayer(g, x.Shape()[1], outputs, None(), Nil(),
		init, name+"Pred")
	if err != nil {
		return nil, fmt.Errorf("newregressionhead: projection: %v", err)
	}
	if out, err = final.Fwd(out); err != nil {
		return nil, fmt.Errorf("newregressionhead: could not compute "+
			"forward pass of projection: %v", err)
	}

	if outputs == 1 {
		out = G.Must(G.Reshape(out, tensor.Shape{x.Shape()[0]}))
	}

	return &RegressionHead{layers: layers, final: final, out: out}, nil
}

// Output returns the prediction node: shape (batch,) when the head has
// a single output, (batch, outputs) otherwise.
func (r *RegressionHead) Output() *G.Node {
	return r.out
}

// Outputs implements the Head interface
func (r *RegressionHead) Outputs() G.Nodes {
	return G.Nodes{r.out}
}

// Learnables returns the parameters of the head
func (r *RegressionHead) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, layer := range r.layers {
		learnables = append(learnables, layer.Learnables()...)
	}
	return append(learnables, r.final.Learnables()...)
}
