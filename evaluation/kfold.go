// Package evaluation runs the model tournament: shared train/test split and
// fold assignment, per-candidate cross-validation, ranking, out-of-fold
// diagnostics and report emission.
package evaluation

import (
	"math/rand/v2"

	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
)

// Fold is one train/validation index partition.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold assigns samples to k folds. With Shuffle set, assignment is a
// seeded permutation, so every consumer sharing the same seed sees the same
// folds.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    int
}

// NewKFold returns a shuffled k-fold splitter.
func NewKFold(nSplits, seed int) *KFold {
	return &KFold{NSplits: nSplits, Shuffle: true, Seed: seed}
}

// Split partitions [0, n) into NSplits folds. The first n%NSplits folds get
// one extra sample, matching the usual convention.
func (k *KFold) Split(n int) ([]Fold, error) {
	if k.NSplits < 2 {
		return nil, errors.NewValueError("KFold.Split", "NSplits must be at least 2")
	}
	if n < k.NSplits {
		return nil, errors.NewValueError("KFold.Split", "more folds than samples")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if k.Shuffle {
		rng := rand.New(rand.NewPCG(uint64(k.Seed), uint64(k.Seed)))
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	foldSizes := make([]int, k.NSplits)
	base := n / k.NSplits
	rem := n % k.NSplits
	for i := range foldSizes {
		foldSizes[i] = base
		if i < rem {
			foldSizes[i]++
		}
	}

	folds := make([]Fold, k.NSplits)
	start := 0
	for i, size := range foldSizes {
		test := indices[start : start+size]
		train := make([]int, 0, n-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[start+size:]...)
		folds[i] = Fold{
			TrainIndices: append([]int(nil), train...),
			TestIndices:  append([]int(nil), test...),
		}
		start += size
	}
	return folds, nil
}

// TrainTestSplit partitions [0, n) into a shuffled train and test set with
// round(n*testFraction) test samples.
func TrainTestSplit(n int, testFraction float64, seed int) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValueError("TrainTestSplit", "testFraction must be in (0, 1)")
	}
	nTest := int(float64(n)*testFraction + 0.5)
	if nTest < 1 || nTest >= n {
		return nil, nil, errors.NewValueError("TrainTestSplit", "split leaves an empty partition")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	test = append([]int(nil), indices[:nTest]...)
	train = append([]int(nil), indices[nTest:]...)
	return train, test, nil
}
