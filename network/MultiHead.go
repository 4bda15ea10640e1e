package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// MultiHead predicts logits for factored discrete action spaces: one
// DiscreteHead per action dimension, all reading the same embedding.
type MultiHead struct {
	heads []*DiscreteHead
}

// NewMultiHead builds one sub-head per entry of actions against the
// embedding node x of shape (batch, hidden).
func NewMultiHead(g *G.ExprGraph, x *G.Node, actions []int, layerNum int,
	norm *Norm, act *Activation, init G.InitWFn,
	name string) (*MultiHead, error) {
	if len(actions) == 0 {
		return nil, fmt.Errorf("newmultihead: no action dimensions given")
	}

	heads := make([]*DiscreteHead, len(actions))
	for i, n := range actions {
		head, err := NewDiscreteHead(g, x, n, layerNum, norm, act, init,
			fmt.Sprintf("%sH%d", name, i))
		if err != nil {
			return nil, fmt.Errorf("newmultihead: sub-head %v: %v", i, err)
		}
		heads[i] = head
	}
	return &MultiHead{heads: heads}, nil
}

// Outputs returns one logits node per action dimension, in the order
// the dimensions were given.
func (m *MultiHead) Outputs() G.Nodes {
	outs := make(G.Nodes, len(m.heads))
	for i, head := range m.heads {
		outs[i] = head.Output()
	}
	return outs
}

// Learnables returns the parameters of all sub-heads
func (m *MultiHead) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, head := range m.heads {
		learnables = append(learnables, head.Learnables()...)
	}
	return learnables
}
