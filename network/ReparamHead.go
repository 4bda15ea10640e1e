package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ReparamHead parameterizes a Gaussian policy for continuous actions.
// A stack of fully connected layers feeds a linear projection that
// predicts the mean of each action dimension. The standard deviation
// is state independent: a single learnable row of log standard
// deviations, initialized to zero, broadcast over the batch and
// exponentiated. Every row of the stddev output is therefore identical
// until the parameters are updated.
type ReparamHead struct {
	layers []*fcLayer
	mean   *fcLayer
	logStd *G.Node

	meanOut *G.Node
	stdOut  *G.Node
}

// NewReparamHead builds the head against the embedding node x of shape
// (batch, hidden), attaching its parameters and operations to g.
func NewReparamHead(g *G.ExprGraph, x *G.Node, actions, layerNum int,
	norm *Norm, act *Activation, init G.InitWFn,
	name string) (*ReparamHead, error) {
	if actions <= 0 {
		return nil, fmt.Errorf("newreparamhead: non-positive action "+
			"count %v", actions)
	}

	layers, out, err := newHiddenStack(g, x, layerNum, norm, act, init,
		name)
	if err != nil {
		return nil, fmt.Errorf("newreparamhead: %v", err)
	}

	mean, err := newFCLayer(g, x.Shape()[1], actions, None(), Nil(),
		init, name+"Mean")
	if err != nil {
		return nil, fmt.Errorf("newreparamhead: mean projection: %v", err)
	}
	meanOut, err := mean.Fwd(out)
	if err != nil {
		return nil, fmt.Errorf("newreparamhead: could not compute "+
			"forward pass of mean projection: %v", err)
	}

	logStd := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, actions),
		G.WithName(name+"LogStd"),
		G.WithInit(G.Zeroes()),
	)

	// Stretch the log stddev row over the batch before exponentiating
	zeros := G.Must(G.Mul(meanOut, G.NewConstant(0.0)))
	logStdRows := G.Must(G.BroadcastAdd(zeros, logStd, nil, []byte{0}))
	stdOut := G.Must(G.Exp(logStdRows))

	return &ReparamHead{
		layers:  layers,
		mean:    mean,
		logStd:  logStd,
		meanOut: meanOut,
		stdOut:  stdOut,
	}, nil
}

// Mean returns the action mean node of shape (batch, actions)
func (r *ReparamHead) Mean() *G.Node {
	return r.meanOut
}

// Stddev returns the action standard deviation node of shape
// (batch, actions)
func (r *ReparamHead) Stddev() *G.Node {
	return r.stdOut
}

// Outputs implements the Head interface: the mean node then the
// stddev node.
func (r *ReparamHead) Outputs() G.Nodes {
	return G.Nodes{r.meanOut, r.stdOut}
}

// Learnables returns the parameters of the head
func (r *ReparamHead) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, layer := range r.layers {
		learnables = append(learnables, layer.Learnables()...)
	}
	learnables = append(learnables, r.mean.Learnables()...)
	return append(learnables, r.logStd)
}
