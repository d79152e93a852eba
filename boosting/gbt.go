package boosting

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/MerveCeylanX/Aqua-ML-App/core/model"
	"github.com/MerveCeylanX/Aqua-ML-App/metrics"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/log"
)

// GBTRegressor is a gradient-boosted tree ensemble for squared-error
// regression. Boosting mode gbdt adds shrunken trees sequentially; dart
// drops a random subset of earlier trees each round and renormalizes.
// Feature columns listed via SetCategoricalFeatures split on category codes
// instead of thresholds.
type GBTRegressor struct {
	model.BaseEstimator

	Params    TreeParams
	InitScore float64
	Trees     []Tree
	NFeatures int
	CatCols   []int
}

// NewGBTRegressor builds an unfitted ensemble with the given parameters.
func NewGBTRegressor(p TreeParams) *GBTRegressor {
	return &GBTRegressor{Params: p}
}

// SetCategoricalFeatures declares which input columns carry category codes.
func (g *GBTRegressor) SetCategoricalFeatures(indices []int) {
	g.CatCols = append([]int(nil), indices...)
}

// Fit trains the ensemble on X (n x p) and y (n x 1).
func (g *GBTRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GBTRegressor.Fit")

	if err := g.Params.validate(); err != nil {
		return err
	}
	_, cols, yv, err := regressionInput(X, y, "GBTRegressor.Fit")
	if err != nil {
		return err
	}
	n := len(yv)
	p := len(cols)

	var init float64
	for _, v := range yv {
		init += v
	}
	init /= float64(n)

	isCat := make([]bool, p)
	for _, c := range g.CatCols {
		if c >= 0 && c < p {
			isCat[c] = true
		}
	}

	var binEdges [][]float64
	if g.Params.MaxBins > 0 {
		binEdges = make([][]float64, p)
		for f := 0; f < p; f++ {
			if !isCat[f] {
				binEdges[f] = quantileEdges(cols[f], g.Params.MaxBins)
			}
		}
	}

	grower := &treeGrower{cols: cols, isCat: isCat, binEdges: binEdges, params: g.Params}
	rng := rand.New(rand.NewPCG(uint64(g.Params.Seed), uint64(g.Params.Seed)))

	preds := make([]float64, n)
	for i := range preds {
		preds[i] = init
	}
	grad := make([]float64, n)

	trees := make([]Tree, 0, g.Params.NumIterations)
	dart := g.Params.Boosting == BoostingDART

	logger := log.GetLoggerWithName("boosting")
	logger.Debug("training gradient-boosted trees",
		log.SamplesKey, n,
		log.FeaturesKey, p,
		"boosting", g.Params.Boosting,
		"iterations", g.Params.NumIterations)

	for iter := 0; iter < g.Params.NumIterations; iter++ {
		var dropped []int
		if dart && len(trees) > 0 {
			for ti := range trees {
				if rng.Float64() < g.Params.DropRate {
					dropped = append(dropped, ti)
				}
			}
			if len(dropped) == 0 {
				dropped = append(dropped, rng.IntN(len(trees)))
			}
			for i := 0; i < n; i++ {
				row := rowAt(cols, i)
				base := init
				for ti := range trees {
					if containsInt(dropped, ti) {
						continue
					}
					base += trees[ti].Weight * trees[ti].PredictRow(row)
				}
				preds[i] = base
			}
		}

		for i := 0; i < n; i++ {
			grad[i] = yv[i] - preds[i]
		}

		trainRows := g.bagRows(rng, n)
		trainFeats := g.bagFeatures(rng, p)
		grower.grad = grad
		tree := grower.grow(trainRows, trainFeats)

		if dart {
			k := float64(len(dropped))
			tree.Weight = g.Params.LearningRate / (k + 1)
			for _, ti := range dropped {
				trees[ti].Weight *= k / (k + 1)
			}
			trees = append(trees, tree)
			for i := 0; i < n; i++ {
				row := rowAt(cols, i)
				base := init
				for _, t := range trees {
					base += t.Weight * t.PredictRow(row)
				}
				preds[i] = base
			}
		} else {
			tree.Weight = g.Params.LearningRate
			trees = append(trees, tree)
			for i := 0; i < n; i++ {
				preds[i] += tree.Weight * tree.PredictRow(rowAt(cols, i))
			}
		}
	}

	g.InitScore = init
	g.Trees = trees
	g.NFeatures = p
	g.SetFitted()
	return nil
}

// Predict returns an n x 1 matrix of ensemble outputs.
func (g *GBTRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !g.IsFitted() {
		return nil, errors.NewNotFittedError("GBTRegressor", "Predict")
	}
	n, p := X.Dims()
	if p != g.NFeatures {
		return nil, errors.NewDimensionError("GBTRegressor.Predict", g.NFeatures, p, 1)
	}

	out := mat.NewDense(n, 1, nil)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			row[j] = X.At(i, j)
		}
		v := g.InitScore
		for _, t := range g.Trees {
			v += t.Weight * t.PredictRow(row)
		}
		out.Set(i, 0, v)
	}
	return out, nil
}

// Score returns R² on X, y.
func (g *GBTRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := g.Predict(X)
	if err != nil {
		return 0, err
	}
	return r2OfColumns(y, pred)
}

// GetParams exposes the hyperparameters under their conventional names.
func (g *GBTRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      g.Params.NumIterations,
		"learning_rate":     g.Params.LearningRate,
		"num_leaves":        g.Params.NumLeaves,
		"max_depth":         g.Params.MaxDepth,
		"min_samples_leaf":  g.Params.MinChildSamples,
		"l2_regularization": g.Params.Lambda,
		"subsample":         g.Params.Subsample,
		"feature_fraction":  g.Params.FeatureFraction,
		"max_bins":          g.Params.MaxBins,
		"boosting_type":     g.Params.Boosting,
		"drop_rate":         g.Params.DropRate,
	}
}

// SetParams applies sampled hyperparameter assignments. Unknown keys error
// so search-space typos surface immediately.
func (g *GBTRegressor) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "n_estimators", "max_iter":
			v, ok := paramInt(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for "+key)
			}
			g.Params.NumIterations = v
		case "learning_rate":
			v, ok := paramFloat(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for "+key)
			}
			g.Params.LearningRate = v
		case "num_leaves", "max_leaf_nodes":
			v, ok := paramInt(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for "+key)
			}
			g.Params.NumLeaves = v
		case "max_depth":
			v, ok := paramInt(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for "+key)
			}
			g.Params.MaxDepth = v
		case "min_samples_leaf", "min_child_samples":
			v, ok := paramInt(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for "+key)
			}
			g.Params.MinChildSamples = v
		case "l2_regularization", "reg_lambda":
			v, ok := paramFloat(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for "+key)
			}
			g.Params.Lambda = v
		case "subsample":
			v, ok := paramFloat(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for "+key)
			}
			g.Params.Subsample = v
		case "feature_fraction", "colsample_bytree":
			v, ok := paramFloat(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for "+key)
			}
			g.Params.FeatureFraction = v
		case "max_bins":
			v, ok := paramInt(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for "+key)
			}
			g.Params.MaxBins = v
		case "boosting_type":
			v, ok := value.(string)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for boosting_type")
			}
			g.Params.Boosting = v
		case "drop_rate":
			v, ok := paramFloat(value)
			if !ok {
				return errors.NewValueError("SetParams", "invalid value for drop_rate")
			}
			g.Params.DropRate = v
		default:
			return errors.NewValueError("SetParams", "unknown parameter: "+key)
		}
	}
	return nil
}

func (g *GBTRegressor) bagRows(rng *rand.Rand, n int) []int {
	if g.Params.Subsample >= 1 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	k := int(math.Round(g.Params.Subsample * float64(n)))
	if k < 1 {
		k = 1
	}
	perm := rng.Perm(n)
	return perm[:k]
}

func (g *GBTRegressor) bagFeatures(rng *rand.Rand, p int) []int {
	if g.Params.FeatureFraction >= 1 {
		feats := make([]int, p)
		for i := range feats {
			feats[i] = i
		}
		return feats
	}
	k := int(math.Round(g.Params.FeatureFraction * float64(p)))
	if k < 1 {
		k = 1
	}
	perm := rng.Perm(p)
	return perm[:k]
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func rowAt(cols [][]float64, i int) []float64 {
	row := make([]float64, len(cols))
	for j, c := range cols {
		row[j] = c[i]
	}
	return row
}

// regressionInput validates X, y shapes and returns X as feature-major
// columns plus y as a slice.
func regressionInput(X, y mat.Matrix, op string) (int, [][]float64, []float64, error) {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return 0, nil, nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	yr, yc := y.Dims()
	if yr != n || yc != 1 {
		return 0, nil, nil, errors.NewDimensionError(op, n, yr, 0)
	}

	cols := make([][]float64, p)
	for j := 0; j < p; j++ {
		cols[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			cols[j][i] = X.At(i, j)
		}
	}
	yv := make([]float64, n)
	for i := 0; i < n; i++ {
		yv[i] = y.At(i, 0)
	}
	return n, cols, yv, nil
}

func r2OfColumns(y, pred mat.Matrix) (float64, error) {
	n, _ := y.Dims()
	yt := mat.NewVecDense(n, nil)
	yp := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yt.SetVec(i, y.At(i, 0))
		yp.SetVec(i, pred.At(i, 0))
	}
	return metrics.R2Score(yt, yp)
}
