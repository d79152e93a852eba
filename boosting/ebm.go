package boosting

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/MerveCeylanX/Aqua-ML-App/core/model"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
)

// EBMParams configures the explainable additive regressor.
type EBMParams struct {
	LearningRate float64
	MaxRounds    int // boosting passes over all features
	MaxBins      int // bins per numeric feature
	MaxLeaves    int // merged segments updated per feature
	Interactions int // accepted for compatibility; pairwise terms unsupported
	Seed         int
}

// DefaultEBMParams mirrors the study's EBM configuration.
func DefaultEBMParams() EBMParams {
	return EBMParams{
		LearningRate: 0.05,
		MaxRounds:    100,
		MaxBins:      256,
		MaxLeaves:    3,
		Interactions: 0,
	}
}

// EBMRegressor is an explainable boosting machine restricted to main
// effects: an intercept plus one piecewise-constant shape function per
// feature, trained by cyclic gradient boosting over feature bins. Missing
// values occupy a dedicated bin per feature.
type EBMRegressor struct {
	model.BaseEstimator

	Params    EBMParams
	Intercept float64

	// BinEdges[f] are the boundaries of feature f's value bins; bin 0 holds
	// missing values, value bins start at index 1.
	BinEdges [][]float64

	// Contrib[f][b] is the additive contribution of feature f's bin b.
	Contrib [][]float64

	NFeatures int
}

// NewEBMRegressor builds an unfitted additive model.
func NewEBMRegressor(p EBMParams) *EBMRegressor {
	return &EBMRegressor{Params: p}
}

// Fit trains the shape functions on X (n x p) and y (n x 1).
func (e *EBMRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "EBMRegressor.Fit")

	if e.Params.LearningRate <= 0 {
		return errors.NewValueError("EBMRegressor.Fit", "LearningRate must be positive")
	}
	if e.Params.MaxRounds <= 0 {
		return errors.NewValueError("EBMRegressor.Fit", "MaxRounds must be positive")
	}
	if e.Params.MaxBins < 2 {
		return errors.NewValueError("EBMRegressor.Fit", "MaxBins must be at least 2")
	}

	_, cols, yv, err := regressionInput(X, y, "EBMRegressor.Fit")
	if err != nil {
		return err
	}
	n := len(yv)
	p := len(cols)

	e.BinEdges = make([][]float64, p)
	binIdx := make([][]int, p) // bin of each row, per feature
	nBins := make([]int, p)
	for f := 0; f < p; f++ {
		e.BinEdges[f] = e.featureEdges(cols[f])
		nBins[f] = len(e.BinEdges[f]) + 2 // value bins + missing bin 0
		binIdx[f] = make([]int, n)
		for i := 0; i < n; i++ {
			binIdx[f][i] = binOf(cols[f][i], e.BinEdges[f])
		}
	}

	var intercept float64
	for _, v := range yv {
		intercept += v
	}
	intercept /= float64(n)

	e.Contrib = make([][]float64, p)
	for f := 0; f < p; f++ {
		e.Contrib[f] = make([]float64, nBins[f])
	}

	resid := make([]float64, n)
	for i := range resid {
		resid[i] = yv[i] - intercept
	}

	for round := 0; round < e.Params.MaxRounds; round++ {
		for f := 0; f < p; f++ {
			sums := make([]float64, nBins[f])
			counts := make([]float64, nBins[f])
			for i := 0; i < n; i++ {
				b := binIdx[f][i]
				sums[b] += resid[i]
				counts[b]++
			}

			deltas := segmentDeltas(sums, counts, e.Params.MaxLeaves)
			for b := range deltas {
				deltas[b] *= e.Params.LearningRate
				e.Contrib[f][b] += deltas[b]
			}
			for i := 0; i < n; i++ {
				resid[i] -= deltas[binIdx[f][i]]
			}
		}
	}

	e.Intercept = intercept
	e.NFeatures = p
	e.SetFitted()
	return nil
}

// Predict returns an n x 1 matrix of additive model outputs.
func (e *EBMRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("EBMRegressor", "Predict")
	}
	n, p := X.Dims()
	if p != e.NFeatures {
		return nil, errors.NewDimensionError("EBMRegressor.Predict", e.NFeatures, p, 1)
	}

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		v := e.Intercept
		for f := 0; f < p; f++ {
			b := binOf(X.At(i, f), e.BinEdges[f])
			v += e.Contrib[f][b]
		}
		out.Set(i, 0, v)
	}
	return out, nil
}

// Score returns R² on X, y.
func (e *EBMRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := e.Predict(X)
	if err != nil {
		return 0, err
	}
	return r2OfColumns(y, pred)
}

// GetParams exposes the hyperparameters under their conventional names.
func (e *EBMRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": e.Params.LearningRate,
		"max_rounds":    e.Params.MaxRounds,
		"max_bins":      e.Params.MaxBins,
		"max_leaves":    e.Params.MaxLeaves,
		"interactions":  e.Params.Interactions,
	}
}

// SetParams applies sampled hyperparameter assignments.
func (e *EBMRegressor) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "learning_rate":
			v, ok := paramFloat(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for learning_rate")
			}
			e.Params.LearningRate = v
		case "max_rounds":
			v, ok := paramInt(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for max_rounds")
			}
			e.Params.MaxRounds = v
		case "max_bins":
			v, ok := paramInt(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for max_bins")
			}
			e.Params.MaxBins = v
		case "max_leaves":
			v, ok := paramInt(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for max_leaves")
			}
			e.Params.MaxLeaves = v
		case "interactions":
			v, ok := paramInt(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for interactions")
			}
			e.Params.Interactions = v
		default:
			return errors.NewValueError("SetParams", "unknown parameter: "+key)
		}
	}
	return nil
}

// featureEdges bins one column into at most MaxBins equal-frequency bins.
// Columns with few distinct values get one bin per value.
func (e *EBMRegressor) featureEdges(col []float64) []float64 {
	vals := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	sort.Float64s(vals)

	distinct := vals[:1]
	for _, v := range vals[1:] {
		if v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) <= e.Params.MaxBins {
		edges := make([]float64, 0, len(distinct)-1)
		for i := 1; i < len(distinct); i++ {
			edges = append(edges, (distinct[i-1]+distinct[i])/2)
		}
		return edges
	}

	edges := make([]float64, 0, e.Params.MaxBins-1)
	for b := 1; b < e.Params.MaxBins; b++ {
		idx := b * len(vals) / e.Params.MaxBins
		v := (vals[idx-1] + vals[idx]) / 2
		if len(edges) == 0 || v > edges[len(edges)-1] {
			edges = append(edges, v)
		}
	}
	return edges
}

// binOf maps a value to its bin: 0 for missing, 1+SearchFloat64s otherwise.
func binOf(v float64, edges []float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return 1 + sort.SearchFloat64s(edges, v)
}

// segmentDeltas computes the per-bin update for one boosting step. Value
// bins are grouped into at most maxLeaves contiguous segments by greedy
// variance-reduction splits, each segment moving by its mean residual. The
// missing bin is always its own segment.
func segmentDeltas(sums, counts []float64, maxLeaves int) []float64 {
	deltas := make([]float64, len(sums))
	if counts[0] > 0 {
		deltas[0] = sums[0] / counts[0]
	}
	valueBins := len(sums) - 1
	if valueBins <= 0 {
		return deltas
	}
	if maxLeaves < 1 {
		maxLeaves = 1
	}

	type segment struct{ lo, hi int } // bin range [lo, hi] over value bins
	segs := []segment{{1, len(sums) - 1}}

	segSum := func(s segment) (float64, float64) {
		var sum, cnt float64
		for b := s.lo; b <= s.hi; b++ {
			sum += sums[b]
			cnt += counts[b]
		}
		return sum, cnt
	}

	// bestCut finds the split of s maximizing SSE reduction.
	bestCut := func(s segment) (cut int, gain float64) {
		total, totalN := segSum(s)
		if totalN == 0 {
			return -1, 0
		}
		parent := gainScore(total, totalN, 0)
		cut = -1
		var sl, nl float64
		for b := s.lo; b < s.hi; b++ {
			sl += sums[b]
			nl += counts[b]
			if nl == 0 || totalN-nl == 0 {
				continue
			}
			g := gainScore(sl, nl, 0) + gainScore(total-sl, totalN-nl, 0) - parent
			if g > gain {
				gain = g
				cut = b
			}
		}
		return cut, gain
	}

	for len(segs) < maxLeaves {
		bestSeg, bestCutAt := -1, -1
		var bestGain float64
		for i, s := range segs {
			if s.lo == s.hi {
				continue
			}
			cut, gain := bestCut(s)
			if cut >= 0 && gain > bestGain {
				bestSeg, bestCutAt, bestGain = i, cut, gain
			}
		}
		if bestSeg == -1 {
			break
		}
		s := segs[bestSeg]
		segs[bestSeg] = segment{s.lo, bestCutAt}
		segs = append(segs, segment{bestCutAt + 1, s.hi})
	}

	for _, s := range segs {
		sum, cnt := segSum(s)
		if cnt == 0 {
			continue
		}
		mean := sum / cnt
		for b := s.lo; b <= s.hi; b++ {
			deltas[b] = mean
		}
	}
	return deltas
}
