package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ConvEncoder embeds image (rank 3) observations. The first three
// hidden sizes are the channel counts of three 1x1 stride-1
// convolutions, each followed by the activation. Hidden sizes between
// the third and the last configure residual blocks, whose widths must
// all equal the third convolution's channel count. The feature map is
// then flattened and projected to the last hidden size by a plain
// linear layer.
type ConvEncoder struct {
	convs   []*conv2d
	blocks  []*resBlock
	project *fcLayer
	out     *G.Node
	outSize int
}

// NewConvEncoder builds the encoder against the input node x of shape
// (batch, channels, height, width), attaching its parameters and
// operations to g.
func NewConvEncoder(g *G.ExprGraph, x *G.Node, hiddenSizes []int, norm *Norm,
	act *Activation, init G.InitWFn, name string) (*ConvEncoder, error) {
	if len(x.Shape()) != 4 {
		return nil, fmt.Errorf("newconvencoder: input must have shape "+
			"(batch, channels, height, width) but got %v", x.Shape())
	}
	if len(hiddenSizes) < 3 {
		return nil, fmt.Errorf("newconvencoder: need at least three "+
			"hidden sizes (three convolution channel counts) but got %v",
			hiddenSizes)
	}

	var resWidths []int
	if len(hiddenSizes) > 3 {
		resWidths = hiddenSizes[3 : len(hiddenSizes)-1]
	}
	for _, width := range resWidths {
		if width != hiddenSizes[2] {
			return nil, fmt.Errorf("newconvencoder: res block widths %v "+
				"must all equal the last convolution's channel count %v",
				resWidths, hiddenSizes[2])
		}
	}

	// Convolution stack
	convs := make([]*conv2d, 0, 3)
	in := x.Shape()[1]
	for i, channels := range hiddenSizes[:3] {
		conv, err := newConv2d(g, in, channels, 1, 1, 0, act, init,
			fmt.Sprintf("%sConv%d", name, i))
		if err != nil {
			return nil, fmt.Errorf("newconvencoder: convolution %v: %v",
				i, err)
		}
		convs = append(convs, conv)
		in = channels
	}

	out := x
	var err error
	for i, conv := range convs {
		if out, err = conv.Fwd(out); err != nil {
			return nil, fmt.Errorf("newconvencoder: could not compute "+
				"forward pass of convolution %v: %v", i, err)
		}
	}

	// Residual stack
	blocks := make([]*resBlock, 0, len(resWidths))
	for i := range resWidths {
		shape := out.Shape()
		block, err := newResBlock(g, shape[1], shape[2], shape[3], norm,
			act, init, fmt.Sprintf("%sRes%d", name, i))
		if err != nil {
			return nil, fmt.Errorf("newconvencoder: res block %v: %v",
				i, err)
		}
		blocks = append(blocks, block)
		if out, err = block.Fwd(out); err != nil {
			return nil, fmt.Errorf("newconvencoder: could not compute "+
				"forward pass of res block %v: %v", i, err)
		}
	}

	// The symbolic shape of the stack sizes the projection's input
	shape := out.Shape()
	flat := shape[1] * shape[2] * shape[3]
	out = G.Must(G.Reshape(out, tensor.Shape{shape[0], flat}))

	outSize := hiddenSizes[len(hiddenSizes)-1]
	project, err := newFCLayer(g, flat, outSize, None(), Nil(), init,
		name+"Project")
	if err != nil {
		return nil, fmt.Errorf("newconvencoder: projection: %v", err)
	}
	if out, err = project.Fwd(out); err != nil {
		return nil, fmt.Errorf("newconvencoder: could not compute "+
			"forward pass of projection: %v", err)
	}

	return &ConvEncoder{
		convs:   convs,
		blocks:  blocks,
		project: project,
		out:     out,
		outSize: outSize,
	}, nil
}

// Output returns the embedding node
func (c *ConvEncoder) Output() *G.Node {
	return c.out
}

// OutputSize returns the length of each embedded feature vector
func (c *ConvEncoder) OutputSize() int {
	return c.outSize
}

// Learnables returns the parameters of the encoder
func (c *ConvEncoder) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, conv := range c.convs {
		learnables = append(learnables, conv.Learnables()...)
	}
	for _, block := range c.blocks {
		learnables = append(learnables, block.Learnables()...)
	}
	return append(learnables, c.project.Learnables()...)
}
