// Package tuning implements randomized hyperparameter search over the two
// best-ranked pool candidates, scored by cross-validated R² on the shared
// fold assignment.
package tuning

import (
	"math"

	"github.com/MerveCeylanX/Aqua-ML-App/boosting"
	"github.com/MerveCeylanX/Aqua-ML-App/pipeline"
)

// Space maps parameter names to their discrete candidate values. Sampling
// picks one value per parameter uniformly.
type Space map[string][]interface{}

// logSpace returns n values spaced evenly on a log10 scale in
// [10^lo, 10^hi].
func logSpace(lo, hi float64, n int) []interface{} {
	out := make([]interface{}, n)
	for i := 0; i < n; i++ {
		exp := lo + (hi-lo)*float64(i)/float64(n-1)
		out[i] = math.Pow(10, exp)
	}
	return out
}

func ints(vs ...int) []interface{} {
	out := make([]interface{}, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// SearchSpace returns the distribution for a candidate kind, or nil when no
// space is defined. Kinds without an engine keep a nil space so the tuner
// records them as untunable instead of failing.
func SearchSpace(kind string) Space {
	switch kind {
	case pipeline.KindLightGBMGBDT:
		return Space{
			"num_leaves":    ints(31, 63, 127, 255),
			"learning_rate": logSpace(-3, -1, 15),
			"n_estimators":  ints(600, 900, 1200, 1500),
			"boosting_type": []interface{}{boosting.BoostingGBDT},
		}
	case pipeline.KindLightGBMDART:
		return Space{
			"num_leaves":    ints(31, 63, 127, 255),
			"learning_rate": logSpace(-3, -1, 15),
			"n_estimators":  ints(600, 900, 1200, 1500),
			"boosting_type": []interface{}{boosting.BoostingDART},
			"drop_rate":     []interface{}{0.05, 0.1, 0.2},
		}
	case pipeline.KindHistGBR:
		return Space{
			"learning_rate":     logSpace(-3, -1, 15),
			"max_iter":          ints(300, 500, 800, 1000),
			"max_depth":         ints(-1, 3, 5, 7, 9),
			"l2_regularization": logSpace(-8, -2, 8),
			"min_samples_leaf":  ints(5, 10, 15, 20, 30),
			"max_leaf_nodes":    ints(0, 31, 63, 127, 255),
		}
	case pipeline.KindEBM:
		return Space{
			"learning_rate": logSpace(-3, -1, 12),
			"max_leaves":    ints(2, 3, 5, 7),
			"interactions":  ints(0, 2, 4),
			"max_bins":      ints(128, 256, 512),
		}
	default:
		return nil
	}
}
