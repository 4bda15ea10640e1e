package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

type normType string

const (
	noNorm    normType = "none"
	layerNorm normType = "layer"
)

// layerNormEps keeps the variance strictly positive before the square
// root is taken.
const layerNormEps = 1e-5

// Norm names the normalization applied inside fully connected and
// residual blocks. The zero value is not valid; use None or Layer.
type Norm struct {
	normType
}

// None returns a *Norm that applies no normalization
func None() *Norm {
	return &Norm{noNorm}
}

// Layer returns a layer normalization *Norm
func Layer() *Norm {
	return &Norm{layerNorm}
}

// IsNone returns whether the Norm applies no normalization
func (n *Norm) IsNone() bool {
	return n == nil || n.normType == noNorm || n.normType == ""
}

// IsLayer returns whether the Norm is layer normalization
func (n *Norm) IsLayer() bool {
	return n != nil && n.normType == layerNorm
}

// String implements the Stringer interface
func (n *Norm) String() string {
	return string(n.normType)
}

// GobEncode implements the GobEncoder interface
func (n *Norm) GobEncode() ([]byte, error) {
	return []byte(n.normType), nil
}

// GobDecode implements the GobDecoder interface
func (n *Norm) GobDecode(encoded []byte) error {
	return n.set(normType(encoded))
}

// MarshalJSON implements the json.Marshaler interface
func (n *Norm) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", n.normType)), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (n *Norm) UnmarshalJSON(encoded []byte) error {
	if len(encoded) < 2 {
		return fmt.Errorf("unmarshaljson: illegal Norm %q", encoded)
	}
	return n.set(normType(encoded[1 : len(encoded)-1]))
}

func (n *Norm) set(decoded normType) error {
	switch decoded {
	case noNorm, "":
		*n = *None()
	case layerNorm:
		*n = *Layer()
	default:
		return fmt.Errorf("set: illegal Norm type %q", decoded)
	}
	return nil
}

// layerNormer normalizes each row of a (batch, features) node to zero
// mean and unit variance, then rescales with a learnable gain and bias.
type layerNormer struct {
	gain *G.Node
	bias *G.Node
}

func newLayerNormer(g *G.ExprGraph, features int, name string) *layerNormer {
	return &layerNormer{
		gain: G.NewMatrix(
			g,
			tensor.Float64,
			G.WithShape(1, features),
			G.WithName(name+"Gain"),
			G.WithInit(G.Ones()),
		),
		bias: G.NewMatrix(
			g,
			tensor.Float64,
			G.WithShape(1, features),
			G.WithName(name+"Bias"),
			G.WithInit(G.Zeroes()),
		),
	}
}

func (l *layerNormer) fwd(x *G.Node) (*G.Node, error) {
	if len(x.Shape()) != 2 {
		return nil, fmt.Errorf("fwd: layer norm requires a matrix input "+
			"but got shape %v", x.Shape())
	}
	rows := x.Shape()[0]

	mean := G.Must(G.Mean(x, 1))
	mean = G.Must(G.Reshape(mean, tensor.Shape{rows, 1}))
	centred := G.Must(G.BroadcastSub(x, mean, nil, []byte{1}))

	variance := G.Must(G.Mean(G.Must(G.Square(centred)), 1))
	variance = G.Must(G.Reshape(variance, tensor.Shape{rows, 1}))
	std := G.Must(G.Sqrt(G.Must(G.Add(variance, G.NewConstant(layerNormEps)))))

	normed := G.Must(G.BroadcastHadamardDiv(centred, std, nil, []byte{1}))
	normed = G.Must(G.BroadcastHadamardProd(normed, l.gain, nil, []byte{0}))
	return G.Must(G.BroadcastAdd(normed, l.bias, nil, []byte{0})), nil
}

func (l *layerNormer) learnables() G.Nodes {
	return G.Nodes{l.gain, l.bias}
}
