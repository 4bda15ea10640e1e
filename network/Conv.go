package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// conv2d implements a 2D convolution over NCHW inputs with an OIHW
// filter, a per-channel bias, and an activation.
type conv2d struct {
	filter *G.Node
	bias   *G.Node
	act    *Activation

	kernel int
	stride int
	pad    int
}

// newConv2d adds a convolutional layer's parameters to g. Input nodes
// must have shape (batch, in, height, width).
func newConv2d(g *G.ExprGraph, in, out, kernel, stride, pad int,
	act *Activation, init G.InitWFn, name string) (*conv2d, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("newconv2d: non-positive channel count "+
			"(%v -> %v)", in, out)
	}
	if kernel <= 0 || stride <= 0 || pad < 0 {
		return nil, fmt.Errorf("newconv2d: illegal geometry (kernel %v, "+
			"stride %v, pad %v)", kernel, stride, pad)
	}

	return &conv2d{
		filter: G.NewTensor(
			g,
			tensor.Float64,
			4,
			G.WithShape(out, in, kernel, kernel),
			G.WithName(name+"Filter"),
			G.WithInit(init),
		),
		bias: G.NewTensor(
			g,
			tensor.Float64,
			4,
			G.WithShape(1, out, 1, 1),
			G.WithName(name+"B"),
			G.WithInit(G.Zeroes()),
		),
		act:    act,
		kernel: kernel,
		stride: stride,
		pad:    pad,
	}, nil
}

// Fwd adds the forward pass of the convolution to the computational
// graph
func (c *conv2d) Fwd(x *G.Node) (*G.Node, error) {
	out, err := G.Conv2d(
		x,
		c.filter,
		tensor.Shape{c.kernel, c.kernel},
		[]int{c.pad, c.pad},
		[]int{c.stride, c.stride},
		[]int{1, 1},
	)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not convolve input of shape "+
			"%v: %v", x.Shape(), err)
	}

	// Broadcast the channel biases over the batch and spatial axes
	out = G.Must(G.BroadcastAdd(out, c.bias, nil, []byte{0, 2, 3}))

	if !c.act.IsNil() && !c.act.IsIdentity() {
		return c.act.fwd(out)
	}
	return out, nil
}

// Learnables returns the parameters of the convolution
func (c *conv2d) Learnables() G.Nodes {
	return G.Nodes{c.filter, c.bias}
}
