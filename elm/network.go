// Package elm implements extreme learning machines: single and multi hidden
// layer feedforward networks whose hidden weights are drawn at random and
// whose output weights are solved in closed form with a Moore-Penrose
// pseudo-inverse. The package also provides metaheuristic-trained variants
// where the hidden weights are tuned by the optimizers in package mha.
package elm

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/activation"
	"github.com/elmgo-ml/elmgo/core/model"
	"github.com/elmgo-ml/elmgo/core/parallel"
	"github.com/elmgo-ml/elmgo/pkg/errors"
	"github.com/elmgo-ml/elmgo/validation"
)

// layer is one hidden layer of the network.
type layer struct {
	// w is the in×out weight matrix.
	w *mat.Dense

	// b is the bias vector, one entry per neuron.
	b []float64
}

// MultiLayerELM is the raw network shared by all estimators in this package.
// It is not an estimator itself: it has no input validation and expects
// numeric target matrices. Use ELMRegressor or ELMClassifier instead.
type MultiLayerELM struct {
	layerSizes     []int
	activationName string
	act            activation.Func
	seed           int64

	inFeatures int
	layers     []layer

	// beta is the lastHidden×targets output weight matrix, nil until solved.
	beta *mat.Dense
}

// NewMultiLayerELM builds a network with the given hidden layer sizes.
// Weights are allocated lazily on the first Fit or InitWeights call, when the
// input dimensionality is known.
func NewMultiLayerELM(layerSizes []int, activationName string, seed int64) (*MultiLayerELM, error) {
	sizes, err := validation.CheckPositiveInts("layer_sizes", layerSizes)
	if err != nil {
		return nil, err
	}
	act, err := activation.Get(activationName)
	if err != nil {
		return nil, err
	}
	return &MultiLayerELM{
		layerSizes:     sizes,
		activationName: activationName,
		act:            act,
		seed:           seed,
	}, nil
}

// LayerSizes returns a copy of the hidden layer sizes.
func (n *MultiLayerELM) LayerSizes() []int {
	return append([]int(nil), n.layerSizes...)
}

// Activation returns the hidden activation function name.
func (n *MultiLayerELM) Activation() string {
	return n.activationName
}

// InitWeights draws fresh hidden weights and biases from a standard normal
// distribution. Existing hidden weights and the output weights are discarded.
func (n *MultiLayerELM) InitWeights(nFeatures int) {
	rng := rand.New(rand.NewSource(n.seed))
	n.inFeatures = nFeatures
	n.layers = make([]layer, len(n.layerSizes))
	n.beta = nil

	in := nFeatures
	for li, out := range n.layerSizes {
		w := mat.NewDense(in, out, nil)
		for i := 0; i < in; i++ {
			for j := 0; j < out; j++ {
				w.Set(i, j, rng.NormFloat64())
			}
		}
		b := make([]float64, out)
		for j := range b {
			b[j] = rng.NormFloat64()
		}
		n.layers[li] = layer{w: w, b: b}
		in = out
	}
}

// biasThreshold is the row count above which the bias addition in Forward is
// split across CPU cores.
const biasThreshold = 4096

// Forward propagates X through the hidden layers and returns the activation
// of the last hidden layer, an nSamples×lastHidden matrix.
func (n *MultiLayerELM) Forward(X *mat.Dense) (*mat.Dense, error) {
	if len(n.layers) == 0 {
		return nil, errors.NewNotFittedError("MultiLayerELM", "Forward")
	}
	rows, cols := X.Dims()
	if cols != n.inFeatures {
		return nil, errors.NewDimensionError("MultiLayerELM.Forward", n.inFeatures, cols, 1)
	}

	h := X
	for _, l := range n.layers {
		_, out := l.w.Dims()
		next := mat.NewDense(rows, out, nil)
		next.Mul(h, l.w)
		parallel.ParallelizeWithThreshold(rows, biasThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				row := next.RawRowView(i)
				for j := range row {
					row[j] += l.b[j]
				}
			}
		})
		n.act(next)
		h = next
	}
	return h, nil
}

// SolveOutput computes the output weights Beta = pinv(H)·Y for the hidden
// activations H of X. The pseudo-inverse is obtained from a thin SVD, so
// rank-deficient hidden matrices are handled without error.
func (n *MultiLayerELM) SolveOutput(X, Y *mat.Dense) error {
	xr, _ := X.Dims()
	yr, _ := Y.Dims()
	if xr != yr {
		return errors.NewDimensionError("MultiLayerELM.SolveOutput", xr, yr, 0)
	}

	h, err := n.Forward(X)
	if err != nil {
		return err
	}
	hr, hc := h.Dims()
	if err := errors.CheckMatrix("hidden activations", h, hr, hc, -1); err != nil {
		return err
	}

	beta, err := pinvMul(h, Y)
	if err != nil {
		return err
	}
	n.beta = beta
	return nil
}

// Predict propagates X through the network, including the output layer.
func (n *MultiLayerELM) Predict(X *mat.Dense) (*mat.Dense, error) {
	if n.beta == nil {
		return nil, errors.NewNotFittedError("MultiLayerELM", "Predict")
	}
	h, err := n.Forward(X)
	if err != nil {
		return nil, err
	}
	rows, _ := h.Dims()
	_, targets := n.beta.Dims()
	out := mat.NewDense(rows, targets, nil)
	out.Mul(h, n.beta)
	return out, nil
}

// NDim returns the number of tunable hidden parameters: all weights plus all
// biases. This is the dimensionality of the metaheuristic search space.
func (n *MultiLayerELM) NDim() int {
	total := 0
	in := n.inFeatures
	for _, out := range n.layerSizes {
		total += in*out + out
		in = out
	}
	return total
}

// Encode flattens the hidden weights and biases, layer by layer, into a
// single solution vector. The layout is row-major weights followed by biases.
func (n *MultiLayerELM) Encode() []float64 {
	x := make([]float64, 0, n.NDim())
	for _, l := range n.layers {
		x = append(x, l.w.RawMatrix().Data...)
		x = append(x, l.b...)
	}
	return x
}

// Decode overwrites the hidden weights and biases from a solution vector
// produced with the Encode layout. The output weights are invalidated.
func (n *MultiLayerELM) Decode(x []float64) error {
	if len(n.layers) == 0 {
		return errors.NewNotFittedError("MultiLayerELM", "Decode")
	}
	if len(x) != n.NDim() {
		return errors.NewDimensionError("MultiLayerELM.Decode", n.NDim(), len(x), 0)
	}

	off := 0
	for _, l := range n.layers {
		raw := l.w.RawMatrix()
		copy(raw.Data, x[off:off+len(raw.Data)])
		off += len(raw.Data)
		copy(l.b, x[off:off+len(l.b)])
		off += len(l.b)
	}
	n.beta = nil
	return nil
}

// CloneStructure returns a network with the same shape and activation but its
// own weight storage. Decode on the clone does not touch the receiver, which
// makes per-goroutine clones safe for concurrent fitness evaluation.
func (n *MultiLayerELM) CloneStructure() *MultiLayerELM {
	clone := &MultiLayerELM{
		layerSizes:     append([]int(nil), n.layerSizes...),
		activationName: n.activationName,
		act:            n.act,
		seed:           n.seed,
		inFeatures:     n.inFeatures,
		layers:         make([]layer, len(n.layers)),
	}
	for i, l := range n.layers {
		in, out := l.w.Dims()
		clone.layers[i] = layer{
			w: mat.NewDense(in, out, append([]float64(nil), l.w.RawMatrix().Data...)),
			b: append([]float64(nil), l.b...),
		}
	}
	return clone
}

// pinvMul computes pinv(H)·Y through a thin SVD of H. Singular values below
// max(m, n)·eps·σ_max are treated as zero.
func pinvMul(h, y *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDThin); !ok {
		return nil, errors.NewModelError("pinv", "SVD factorization failed", errors.ErrSingularMatrix)
	}

	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	m, n := h.Dims()
	maxDim := float64(m)
	if n > m {
		maxDim = float64(n)
	}
	tol := maxDim * eps * values[0]

	// pinv(H)·Y = V · Σ⁺ · Uᵀ · Y
	var uty mat.Dense
	uty.Mul(u.T(), y)
	rank := 0
	for i, s := range values {
		if s <= tol {
			break
		}
		rank++
		row := uty.RawRowView(i)
		for j := range row {
			row[j] /= s
		}
	}
	if rank == 0 {
		return nil, errors.NewModelError("pinv", "hidden matrix has rank zero", errors.ErrSingularMatrix)
	}

	_, targets := y.Dims()
	utyR := uty.Slice(0, rank, 0, targets)
	vR := v.Slice(0, n, 0, rank)

	var beta mat.Dense
	beta.Mul(vR, utyR)
	out := mat.DenseCopyOf(&beta)
	br, bc := out.Dims()
	if err := errors.CheckMatrix("output weights", out, br, bc, -1); err != nil {
		return nil, err
	}
	return out, nil
}

const eps = 2.220446049250313e-16

// Snapshot exports the full network state for persistence.
func (n *MultiLayerELM) Snapshot(modelType string, hyper map[string]interface{}) *model.NetworkWeights {
	nw := &model.NetworkWeights{
		ModelType:       modelType,
		Version:         Version,
		Activation:      n.activationName,
		Hyperparameters: hyper,
		IsFitted:        n.beta != nil,
	}
	for _, l := range n.layers {
		in, out := l.w.Dims()
		lw := model.LayerWeights{
			In:  in,
			Out: out,
			W:   append([]float64(nil), l.w.RawMatrix().Data...),
			B:   append([]float64(nil), l.b...),
		}
		nw.Layers = append(nw.Layers, lw)
	}
	if n.beta != nil {
		br, bc := n.beta.Dims()
		nw.BetaRows, nw.BetaCols = br, bc
		nw.Beta = append([]float64(nil), n.beta.RawMatrix().Data...)
	}
	return nw
}

// Restore rebuilds the network from a persisted snapshot.
func (n *MultiLayerELM) Restore(nw *model.NetworkWeights) error {
	if err := nw.Validate(); err != nil {
		return errors.Wrap(err, "restoring network weights")
	}
	act, err := activation.Get(nw.Activation)
	if err != nil {
		return err
	}

	n.activationName = nw.Activation
	n.act = act
	n.layers = make([]layer, len(nw.Layers))
	n.layerSizes = make([]int, len(nw.Layers))
	for i, lw := range nw.Layers {
		n.layers[i] = layer{
			w: mat.NewDense(lw.In, lw.Out, append([]float64(nil), lw.W...)),
			b: append([]float64(nil), lw.B...),
		}
		n.layerSizes[i] = lw.Out
		if i == 0 {
			n.inFeatures = lw.In
		}
	}
	n.beta = nil
	if nw.IsFitted {
		n.beta = mat.NewDense(nw.BetaRows, nw.BetaCols, append([]float64(nil), nw.Beta...))
	}
	return nil
}

// Version tags persisted model snapshots for compatibility checks.
const Version = "1.0.0"
