// Package boosting implements the gradient-boosted regressors behind the
// model pool: a leaf-wise gradient-boosted tree ensemble with gbdt and dart
// modes plus optional histogram binning, and a cyclic additive model over
// per-feature bins. Both handle NaN inputs through default split directions
// and support category-coded columns.
package boosting

import (
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
)

// Boosting mode names.
const (
	BoostingGBDT = "gbdt"
	BoostingDART = "dart"
)

// TreeParams configures the gradient-boosted tree ensemble. The zero value
// is not usable; construct via DefaultTreeParams and override.
type TreeParams struct {
	NumIterations   int
	LearningRate    float64
	NumLeaves       int     // <=0 means no leaf cap
	MaxDepth        int     // <=0 means unlimited
	MinChildSamples int
	Lambda          float64 // L2 regularization on leaf values
	Subsample       float64 // row bagging fraction per tree
	FeatureFraction float64 // feature sampling fraction per tree
	MaxBins         int     // >0 enables histogram split finding
	Boosting        string  // BoostingGBDT or BoostingDART
	DropRate        float64 // dart tree drop probability
	Seed            int
}

// DefaultTreeParams mirrors common gradient-boosting defaults.
func DefaultTreeParams() TreeParams {
	return TreeParams{
		NumIterations:   100,
		LearningRate:    0.1,
		NumLeaves:       31,
		MaxDepth:        -1,
		MinChildSamples: 20,
		Lambda:          0.0,
		Subsample:       1.0,
		FeatureFraction: 1.0,
		Boosting:        BoostingGBDT,
		DropRate:        0.1,
		Seed:            42,
	}
}

func (p TreeParams) validate() error {
	if p.NumIterations <= 0 {
		return errors.NewValueError("TreeParams", "NumIterations must be positive")
	}
	if p.LearningRate <= 0 {
		return errors.NewValueError("TreeParams", "LearningRate must be positive")
	}
	if p.Boosting != BoostingGBDT && p.Boosting != BoostingDART {
		return errors.NewValueError("TreeParams", "Boosting must be gbdt or dart")
	}
	if p.Subsample <= 0 || p.Subsample > 1 {
		return errors.NewValueError("TreeParams", "Subsample must be in (0, 1]")
	}
	if p.FeatureFraction <= 0 || p.FeatureFraction > 1 {
		return errors.NewValueError("TreeParams", "FeatureFraction must be in (0, 1]")
	}
	return nil
}

func paramFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func paramInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}
