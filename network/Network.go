// Package network provides Gorgonia building blocks for constructing
// actor-critic models: fully connected and convolutional layers,
// observation encoders, and output heads. All blocks attach themselves
// to a caller-owned *gorgonia.ExprGraph at construction time, so that a
// model's complete symbolic forward pass exists before any data flows
// through it.
package network

import (
	G "gorgonia.org/gorgonia"
)

// layer is a single differentiable transformation. A layer adds its
// parameters to the graph when constructed and its operations to the
// graph when Fwd is called.
type layer interface {
	Fwd(x *G.Node) (*G.Node, error)
	Learnables() G.Nodes
}

// Encoder embeds an observation batch into a fixed-size feature vector.
// Encoders are fully constructed against an input node, so the
// embedding node already exists and Output simply returns it.
type Encoder interface {
	Output() *G.Node
	OutputSize() int
	Learnables() G.Nodes
}

// Head maps an embedding to a model's output nodes. Heads with a
// single output return a one-element slice.
type Head interface {
	Outputs() G.Nodes
	Learnables() G.Nodes
}
