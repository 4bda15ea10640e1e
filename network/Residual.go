package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// resBlock is a basic residual block: two 3x3 stride-1 pad-1
// convolutions that preserve the channel count and spatial extent, with
// an identity skip connection. The activation runs after the first
// convolution and after the residual addition. Layer normalization,
// when configured, normalizes each sample over its flattened
// (channel, height, width) extent.
type resBlock struct {
	conv1 *conv2d
	conv2 *conv2d
	norm1 *layerNormer
	norm2 *layerNormer
	act   *Activation
}

func newResBlock(g *G.ExprGraph, channels, height, width int, norm *Norm,
	act *Activation, init G.InitWFn, name string) (*resBlock, error) {
	if channels <= 0 || height <= 0 || width <= 0 {
		return nil, fmt.Errorf("newresblock: non-positive input extent "+
			"(%v, %v, %v)", channels, height, width)
	}

	conv1, err := newConv2d(g, channels, channels, 3, 1, 1, Nil(), init,
		name+"Conv1")
	if err != nil {
		return nil, fmt.Errorf("newresblock: %v", err)
	}
	conv2, err := newConv2d(g, channels, channels, 3, 1, 1, Nil(), init,
		name+"Conv2")
	if err != nil {
		return nil, fmt.Errorf("newresblock: %v", err)
	}

	block := &resBlock{
		conv1: conv1,
		conv2: conv2,
		act:   act,
	}
	if norm.IsLayer() {
		features := channels * height * width
		block.norm1 = newLayerNormer(g, features, name+"Norm1")
		block.norm2 = newLayerNormer(g, features, name+"Norm2")
	}
	return block, nil
}

// Fwd adds the forward pass of the residual block to the computational
// graph
func (r *resBlock) Fwd(x *G.Node) (*G.Node, error) {
	out, err := r.conv1.Fwd(x)
	if err != nil {
		return nil, fmt.Errorf("fwd: first convolution: %v", err)
	}
	if out, err = r.normalize(out, r.norm1); err != nil {
		return nil, fmt.Errorf("fwd: %v", err)
	}
	if out, err = r.activate(out); err != nil {
		return nil, fmt.Errorf("fwd: %v", err)
	}

	if out, err = r.conv2.Fwd(out); err != nil {
		return nil, fmt.Errorf("fwd: second convolution: %v", err)
	}
	if out, err = r.normalize(out, r.norm2); err != nil {
		return nil, fmt.Errorf("fwd: %v", err)
	}

	out = G.Must(G.Add(out, x))
	return r.activate(out)
}

func (r *resBlock) activate(x *G.Node) (*G.Node, error) {
	if r.act.IsNil() || r.act.IsIdentity() {
		return x, nil
	}
	return r.act.fwd(x)
}

// normalize flattens the feature map so each sample is a single row,
// normalizes it, and restores the original shape.
func (r *resBlock) normalize(x *G.Node, norm *layerNormer) (*G.Node, error) {
	if norm == nil {
		return x, nil
	}

	shape := x.Shape()
	flat := G.Must(G.Reshape(x, tensor.Shape{
		shape[0],
		shape[1] * shape[2] * shape[3],
	}))
	flat, err := norm.fwd(flat)
	if err != nil {
		return nil, err
	}
	return G.Must(G.Reshape(flat, shape.Clone())), nil
}

// Learnables returns the parameters of the residual block
func (r *resBlock) Learnables() G.Nodes {
	learnables := append(r.conv1.Learnables(), r.conv2.Learnables()...)
	if r.norm1 != nil {
		learnables = append(learnables, r.norm1.learnables()...)
		learnables = append(learnables, r.norm2.learnables()...)
	}
	return learnables
}
