package dataset

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// Split holds the result of a train/test partition.
type Split struct {
	XTrain *mat.Dense
	XTest  *mat.Dense
	YTrain *mat.Dense
	YTest  *mat.Dense
}

// TrainTestSplit shuffles the rows of X and Y with the given seed and
// partitions them, reserving testSize (a fraction in (0, 1)) for the test set.
func TrainTestSplit(X, Y mat.Matrix, testSize float64, seed int64) (*Split, error) {
	n, _ := X.Dims()
	ny, _ := Y.Dims()
	if n != ny {
		return nil, errors.NewDimensionError("TrainTestSplit", n, ny, 0)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, errors.NewValueError("TrainTestSplit",
			fmt.Sprintf("testSize must be in (0, 1), got %g", testSize))
	}

	nTest := int(float64(n) * testSize)
	if nTest < 1 || n-nTest < 1 {
		return nil, errors.NewValueError("TrainTestSplit",
			fmt.Sprintf("testSize %g leaves an empty partition for %d samples", testSize, n))
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return splitByIndex(X, Y, perm[nTest:], perm[:nTest])
}

// StratifiedTrainTestSplit partitions X and Y while preserving the per-class
// proportions given by labels. Every class must contribute at least one sample
// to each partition.
func StratifiedTrainTestSplit(X, Y mat.Matrix, labels []int, testSize float64, seed int64) (*Split, error) {
	n, _ := X.Dims()
	if n != len(labels) {
		return nil, errors.NewDimensionError("StratifiedTrainTestSplit", n, len(labels), 0)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, errors.NewValueError("StratifiedTrainTestSplit",
			fmt.Sprintf("testSize must be in (0, 1), got %g", testSize))
	}

	byClass := make(map[int][]int)
	for i, c := range labels {
		byClass[c] = append(byClass[c], i)
	}

	// Classes are visited in sorted order so the seeded RNG is consumed
	// identically on every call with the same inputs.
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	var trainIdx, testIdx []int
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(float64(len(idx)) * testSize)
		if nTest < 1 || len(idx)-nTest < 1 {
			return nil, errors.NewValueError("StratifiedTrainTestSplit",
				fmt.Sprintf("class %d has too few samples (%d) for testSize %g", c, len(idx), testSize))
		}
		testIdx = append(testIdx, idx[:nTest]...)
		trainIdx = append(trainIdx, idx[nTest:]...)
	}

	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })

	return splitByIndex(X, Y, trainIdx, testIdx)
}

func splitByIndex(X, Y mat.Matrix, trainIdx, testIdx []int) (*Split, error) {
	_, d := X.Dims()
	_, t := Y.Dims()

	gather := func(idx []int, src mat.Matrix, cols int) *mat.Dense {
		out := mat.NewDense(len(idx), cols, nil)
		for i, row := range idx {
			for j := 0; j < cols; j++ {
				out.Set(i, j, src.At(row, j))
			}
		}
		return out
	}

	return &Split{
		XTrain: gather(trainIdx, X, d),
		XTest:  gather(testIdx, X, d),
		YTrain: gather(trainIdx, Y, t),
		YTest:  gather(testIdx, Y, t),
	}, nil
}
