package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// DiscreteHead maps embeddings to one logit per action: layerNum
// width-preserving fully connected layers followed by a plain linear
// projection to the action count. The logits are unnormalized; callers
// soft-max or arg-max them as needed.
type DiscreteHead struct {
	layers []*fcLayer
	final  *fcLayer
	out    *G.Node
}

// NewDiscreteHead builds the head against the embedding node x of
// shape (batch, hidden), attaching its parameters and operations to g.
func NewDiscreteHead(g *G.ExprGraph, x *G.Node, actions, layerNum int,
	norm *Norm, act *Activation, init G.InitWFn,
	name string) (*DiscreteHead, error) {
	if actions <= 0 {
		return nil, fmt.Errorf("newdiscretehead: non-positive action "+
			"count %v", actions)
	}

	layers, out, err := newHiddenStack(g, x, layerNum, norm, act, init,
		name)
	if err != nil {
		return nil, fmt.Errorf("newdiscretehead: %v", err)
	}

	final, err := newFCLayer(g, x.Shape()[1], actions, None(), Nil(),
		init, name+"Logits")
	if err != nil {
		return nil, fmt.Errorf("newdiscretehead: projection: %v", err)
	}
	if out, err = final.Fwd(out); err != nil {
		return nil, fmt.Errorf("newdiscretehead: could not compute "+
			"forward pass of projection: %v", err)
	}

	return &DiscreteHead{layers: layers, final: final, out: out}, nil
}

// Output returns the logits node of shape (batch, actions)
func (d *DiscreteHead) Output() *G.Node {
	return d.out
}

// Outputs implements the Head interface
func (d *DiscreteHead) Outputs() G.Nodes {
	return G.Nodes{d.out}
}

// Learnables returns the parameters of the head
func (d *DiscreteHead) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, layer := range d.layers {
		learnables = append(learnables, layer.Learnables()...)
	}
	return append(learnables, d.final.Learnables()...)
}
