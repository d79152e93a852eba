package boosting

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// stepData builds a dataset where y is a step function of the first column,
// learnable by a single split.
func stepData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x0 := float64(i)
		X.Set(i, 0, x0)
		X.Set(i, 1, float64(i%7))
		if x0 < float64(n)/2 {
			y.Set(i, 0, 10)
		} else {
			y.Set(i, 0, 50)
		}
	}
	return X, y
}

func TestGBTRegressorFitsStepFunction(t *testing.T) {
	X, y := stepData(200)

	p := DefaultTreeParams()
	p.NumIterations = 50
	p.MinChildSamples = 5
	reg := NewGBTRegressor(p)

	require.NoError(t, reg.Fit(X, y))
	assert.True(t, reg.IsFitted())

	score, err := reg.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.95)
}

func TestGBTRegressorDartMode(t *testing.T) {
	X, y := stepData(200)

	p := DefaultTreeParams()
	p.NumIterations = 40
	p.MinChildSamples = 5
	p.Boosting = BoostingDART
	p.DropRate = 0.1
	reg := NewGBTRegressor(p)

	require.NoError(t, reg.Fit(X, y))

	score, err := reg.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.8)
}

func TestGBTRegressorHistogramMode(t *testing.T) {
	X, y := stepData(300)

	p := DefaultTreeParams()
	p.NumIterations = 50
	p.MinChildSamples = 5
	p.MaxBins = 16
	reg := NewGBTRegressor(p)

	require.NoError(t, reg.Fit(X, y))

	score, err := reg.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)
}

func TestGBTRegressorHandlesNaN(t *testing.T) {
	X, y := stepData(200)
	// Punch holes in the informative feature.
	for i := 0; i < 200; i += 9 {
		X.Set(i, 0, math.NaN())
	}

	p := DefaultTreeParams()
	p.NumIterations = 50
	p.MinChildSamples = 5
	reg := NewGBTRegressor(p)

	require.NoError(t, reg.Fit(X, y))

	pred, err := reg.Predict(X)
	require.NoError(t, err)
	r, _ := pred.Dims()
	for i := 0; i < r; i++ {
		assert.False(t, math.IsNaN(pred.At(i, 0)), "prediction %d is NaN", i)
	}
}

func TestGBTRegressorCategoricalSplit(t *testing.T) {
	// y depends only on the category code in column 1.
	n := 120
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i%5)) // noise
		code := float64(i % 3)
		X.Set(i, 1, code)
		y.Set(i, 0, code*100)
	}

	p := DefaultTreeParams()
	p.NumIterations = 30
	p.MinChildSamples = 5
	reg := NewGBTRegressor(p)
	reg.SetCategoricalFeatures([]int{1})

	require.NoError(t, reg.Fit(X, y))

	score, err := reg.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.95)
}

func TestGBTRegressorDeterministic(t *testing.T) {
	X, y := stepData(150)

	p := DefaultTreeParams()
	p.NumIterations = 20
	p.MinChildSamples = 5
	p.Subsample = 0.8
	p.Seed = 7

	a := NewGBTRegressor(p)
	require.NoError(t, a.Fit(X, y))
	b := NewGBTRegressor(p)
	require.NoError(t, b.Fit(X, y))

	pa, err := a.Predict(X)
	require.NoError(t, err)
	pb, err := b.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(pa, pb))
}

func TestGBTRegressorNotFitted(t *testing.T) {
	reg := NewGBTRegressor(DefaultTreeParams())
	_, err := reg.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assert.Error(t, err)
}

func TestGBTRegressorDimensionMismatch(t *testing.T) {
	X, y := stepData(100)
	p := DefaultTreeParams()
	p.NumIterations = 5
	reg := NewGBTRegressor(p)
	require.NoError(t, reg.Fit(X, y))

	_, err := reg.Predict(mat.NewDense(3, 5, nil))
	assert.Error(t, err)
}

func TestGBTRegressorSetParams(t *testing.T) {
	reg := NewGBTRegressor(DefaultTreeParams())

	err := reg.SetParams(map[string]interface{}{
		"learning_rate": 0.05,
		"num_leaves":    63,
		"n_estimators":  500,
		"max_depth":     -1,
		"boosting_type": BoostingDART,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.05, reg.Params.LearningRate)
	assert.Equal(t, 63, reg.Params.NumLeaves)
	assert.Equal(t, 500, reg.Params.NumIterations)
	assert.Equal(t, BoostingDART, reg.Params.Boosting)

	err = reg.SetParams(map[string]interface{}{"bogus": 1})
	assert.Error(t, err)
}

func TestGBTRegressorInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TreeParams)
	}{
		{"zero iterations", func(p *TreeParams) { p.NumIterations = 0 }},
		{"zero learning rate", func(p *TreeParams) { p.LearningRate = 0 }},
		{"bad boosting", func(p *TreeParams) { p.Boosting = "plain" }},
		{"bad subsample", func(p *TreeParams) { p.Subsample = 1.5 }},
	}

	X, y := stepData(50)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultTreeParams()
			tt.mutate(&p)
			reg := NewGBTRegressor(p)
			assert.Error(t, reg.Fit(X, y))
		})
	}
}

func TestQuantileEdges(t *testing.T) {
	col := make([]float64, 100)
	for i := range col {
		col[i] = float64(i)
	}

	edges := quantileEdges(col, 4)
	require.Len(t, edges, 3)
	assert.True(t, sort.IsSorted(sort.Float64Slice(edges)))

	// Too few distinct values: no binning.
	assert.Nil(t, quantileEdges([]float64{1, 2, 3}, 16))
}
