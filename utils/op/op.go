// Package op provides extended Gorgonia graph operations. Policy
// losses are built from these on top of the model's output nodes.
package op

import (
	"math"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// axisSlice selects [start:end:step] along one axis when slicing a
// node.
type axisSlice struct {
	start, end, step int
}

func (s axisSlice) Start() int { return s.start }
func (s axisSlice) End() int   { return s.end }
func (s axisSlice) Step() int  { return s.step }

// LogSumExp calculates the log of the summation of exponentials of
// all logits along the given axis.
//
// Use this in place of Gorgonia's LogSumExp, which has the final sum
// and log interchanged, which is incorrect.
func LogSumExp(logits *G.Node, along int) *G.Node {
	max := G.Must(G.Max(logits, along))

	exponent := G.Must(G.BroadcastSub(logits, max, nil, []byte{1}))
	exponent = G.Must(G.Exp(exponent))

	sum := G.Must(G.Sum(exponent, along))
	log := G.Must(G.Log(sum))

	return G.Must(G.Add(max, log))
}

// CategoricalLogPdf calculates the log probability of selected actions
// under the softmax distribution over logits. Both arguments must have
// shape (batch, actions): logits holds one unnormalized distribution
// per row and actionIndices one-hot encodes each row's selected
// action. The result holds one log probability per batch row.
func CategoricalLogPdf(logits, actionIndices *G.Node) *G.Node {
	selected := G.Must(G.HadamardProd(actionIndices, logits))
	selected = G.Must(G.Sum(selected, 1))

	return G.Must(G.Sub(selected, LogSumExp(logits, 1)))
}

// Prod calculates the product of a Node along an axis
func Prod(input *G.Node, along int) *G.Node {
	shape := input.Shape()

	dims := make([]tensor.Slice, len(shape))
	for i := 0; i < len(shape); i++ {
		if i == along {
			dims[i] = axisSlice{0, 1, 1}
		}
	}
	prod := G.Must(G.Slice(input, dims...))

	for i := 1; i < input.Shape()[along]; i++ {
		for j := 0; j < len(shape); j++ {
			if j == along {
				dims[j] = axisSlice{i, i + 1, 1}
			}
		}

		s := G.Must(G.Slice(input, dims...))
		prod = G.Must(G.HadamardProd(prod, s))
	}
	return prod
}

// GaussianLogPdf calculates the log of the probability density of
// actions drawn from a diagonal Gaussian with the argument mean and
// standard deviation.
//
// All arguments must have the same (batch, dims) shape. Row i of mean
// and std holds the main diagonal of the distribution that actions
// row i was drawn from. The result holds one log density per batch
// row.
func GaussianLogPdf(mean, std, actions *G.Node) *G.Node {
	graph := mean.Graph()
	if graph != std.Graph() || graph != actions.Graph() {
		panic("gaussianLogPdf: all nodes must share the same graph")
	}

	negativeHalf := G.NewConstant(-0.5)

	if std.Shape()[1] != 1 {
		// Since the covariance is diagonal and stored as a vector, its
		// determinant is the product along the row and the quadratic
		// form reduces to elementwise operations.
		variance := G.Must(G.Square(std))
		dims := float64(mean.Shape()[1])
		term1 := G.NewConstant((-dims / 2.0) * math.Log(2*math.Pi))

		det := Prod(variance, 1)
		term2 := G.Must(G.Log(det))
		term2 = G.Must(G.HadamardProd(term2, negativeHalf))

		diff := G.Must(G.Sub(actions, mean))
		exponent := G.Must(G.HadamardDiv(diff, variance))
		exponent = G.Must(G.HadamardProd(exponent, diff))
		exponent = G.Must(G.Sum(exponent, 1))
		exponent = G.Must(G.HadamardProd(exponent, negativeHalf))

		terms := G.Must(G.Add(term1, term2))

		return G.Must(G.Add(exponent, terms))
	}

	// Single-dimensional actions cut a few corners
	two := G.NewConstant(2.0)
	exponent := G.Must(G.Sub(actions, mean))
	exponent = G.Must(G.HadamardDiv(exponent, std))
	exponent = G.Must(G.Pow(exponent, two))
	exponent = G.Must(G.HadamardProd(negativeHalf, exponent))

	term2 := G.Must(G.Log(std))
	term3 := G.NewConstant(math.Log(math.Pow(2*math.Pi, 0.5)))

	terms := G.Must(G.Add(term2, term3))
	logProb := G.Must(G.Sub(exponent, terms))

	return G.Must(G.Ravel(logProb))
}
