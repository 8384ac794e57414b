// Label encoding utilities for classification targets.
//
// LabelEncoder maps arbitrary integer class labels to contiguous indices
// [0, nClasses), and OneHotEncoder expands those indices into indicator
// columns. The ELM classifiers chain the two to turn a label vector into the
// one-hot target matrix the least-squares solve operates on.

package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/core/model"
	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// LabelEncoder encodes integer class labels as indices in [0, nClasses).
type LabelEncoder struct {
	state *model.StateManager

	// ClassLabels holds the distinct labels in ascending order.
	// The index of a label in this slice is its encoded value.
	ClassLabels []int

	index map[int]int
}

// NewLabelEncoder creates an unfitted LabelEncoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{state: model.NewStateManager("LabelEncoder")}
}

// Fit learns the distinct labels present in y.
func (le *LabelEncoder) Fit(y []int) error {
	if len(y) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	seen := map[int]bool{}
	le.ClassLabels = le.ClassLabels[:0]
	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			le.ClassLabels = append(le.ClassLabels, label)
		}
	}
	sort.Ints(le.ClassLabels)

	le.index = make(map[int]int, len(le.ClassLabels))
	for i, label := range le.ClassLabels {
		le.index[label] = i
	}

	le.state.SetFitted()
	return nil
}

// Transform maps labels to their encoded indices.
// Labels unseen during Fit produce an error.
func (le *LabelEncoder) Transform(y []int) ([]int, error) {
	if err := le.state.RequireFitted("Transform"); err != nil {
		return nil, err
	}

	encoded := make([]int, len(y))
	for i, label := range y {
		idx, ok := le.index[label]
		if !ok {
			return nil, errors.NewValueError("LabelEncoder.Transform",
				fmt.Sprintf("y contains previously unseen label %d", label))
		}
		encoded[i] = idx
	}
	return encoded, nil
}

// FitTransform fits the encoder and transforms y in one step.
func (le *LabelEncoder) FitTransform(y []int) ([]int, error) {
	if err := le.Fit(y); err != nil {
		return nil, err
	}
	return le.Transform(y)
}

// InverseTransform maps encoded indices back to the original labels.
func (le *LabelEncoder) InverseTransform(encoded []int) ([]int, error) {
	if err := le.state.RequireFitted("InverseTransform"); err != nil {
		return nil, err
	}

	labels := make([]int, len(encoded))
	for i, idx := range encoded {
		if idx < 0 || idx >= len(le.ClassLabels) {
			return nil, errors.NewValueError("LabelEncoder.InverseTransform",
				fmt.Sprintf("encoded value %d out of range [0, %d)", idx, len(le.ClassLabels)))
		}
		labels[i] = le.ClassLabels[idx]
	}
	return labels, nil
}

// NClasses returns the number of distinct labels seen during Fit.
func (le *LabelEncoder) NClasses() int {
	return len(le.ClassLabels)
}

// IsFitted reports whether the encoder has been fitted.
func (le *LabelEncoder) IsFitted() bool {
	return le.state.IsFitted()
}

// OneHotEncoder expands class indices into indicator columns.
type OneHotEncoder struct {
	// NClasses is the number of indicator columns produced.
	NClasses int
}

// NewOneHotEncoder creates an encoder producing nClasses indicator columns.
func NewOneHotEncoder(nClasses int) (*OneHotEncoder, error) {
	if nClasses < 2 {
		return nil, errors.NewValidationError("n_classes", "must be at least 2", nClasses)
	}
	return &OneHotEncoder{NClasses: nClasses}, nil
}

// Transform converts class indices to a one-hot matrix of shape
// len(indices)×NClasses.
func (oh *OneHotEncoder) Transform(indices []int) (*mat.Dense, error) {
	if len(indices) == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Transform", "empty data", errors.ErrEmptyData)
	}

	out := mat.NewDense(len(indices), oh.NClasses, nil)
	for i, idx := range indices {
		if idx < 0 || idx >= oh.NClasses {
			return nil, errors.NewValueError("OneHotEncoder.Transform",
				fmt.Sprintf("class index %d out of range [0, %d)", idx, oh.NClasses))
		}
		out.Set(i, idx, 1)
	}
	return out, nil
}

// InverseTransform recovers class indices by row-wise argmax.
// It accepts both hard one-hot rows and soft probability rows.
func (oh *OneHotEncoder) InverseTransform(Y mat.Matrix) ([]int, error) {
	r, c := Y.Dims()
	if c != oh.NClasses {
		return nil, errors.NewDimensionError("OneHotEncoder.InverseTransform", oh.NClasses, c, 1)
	}

	indices := make([]int, r)
	for i := 0; i < r; i++ {
		best, bestVal := 0, Y.At(i, 0)
		for j := 1; j < c; j++ {
			if v := Y.At(i, j); v > bestVal {
				best, bestVal = j, v
			}
		}
		indices[i] = best
	}
	return indices, nil
}
