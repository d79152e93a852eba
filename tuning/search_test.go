package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MerveCeylanX/Aqua-ML-App/boosting"
	"github.com/MerveCeylanX/Aqua-ML-App/config"
	"github.com/MerveCeylanX/Aqua-ML-App/core/model"
	"github.com/MerveCeylanX/Aqua-ML-App/evaluation"
	"github.com/MerveCeylanX/Aqua-ML-App/pipeline"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

func tuningData(n int) ([]preprocessing.RawRecord, []float64) {
	records := make([]preprocessing.RawRecord, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		bet := 300.0 + float64(i%19)*70
		records[i] = preprocessing.RawRecord{
			preprocessing.SubstanceColumn:  []string{"IBU", "CAF", "TC"}[i%3],
			preprocessing.AtmosphereColumn: []string{"N2", "Air"}[i%2],
			"BET_Surface_Area(m2/g)":       bet,
			"Solution_pH":                  4.0 + float64(i%5),
		}
		y[i] = bet * 0.1
	}
	return records, y
}

func tuningFS() preprocessing.FeatureSet {
	return preprocessing.FeatureSet{
		Numeric:     []string{"BET_Surface_Area(m2/g)", "Solution_pH", "E"},
		Categorical: []string{preprocessing.AtmosphereColumn},
	}
}

func fastCandidate(name, kind string) pipeline.Candidate {
	return pipeline.Candidate{
		Name: name,
		Kind: kind,
		Build: func() *pipeline.Pipeline {
			p := boosting.DefaultTreeParams()
			p.NumIterations = 15
			p.MinChildSamples = 5
			return pipeline.New(
				preprocessing.NewDeriver(tuningFS()),
				preprocessing.NewOrdinalEncoder(),
				boosting.NewGBTRegressor(p),
			)
		},
	}
}

func rankedEntries(names ...string) []evaluation.CandidateScore {
	out := make([]evaluation.CandidateScore, len(names))
	for i, n := range names {
		out[i] = evaluation.CandidateScore{Name: n}
	}
	return out
}

func fastConfig() config.Config {
	cfg := config.Default()
	cfg.SearchIterations = 4
	cfg.FoldCount = 3
	return cfg
}

func TestRunHPOTop2(t *testing.T) {
	records, y := tuningData(60)
	pool := []pipeline.Candidate{
		fastCandidate("A", pipeline.KindLightGBMGBDT),
		fastCandidate("B", pipeline.KindHistGBR),
	}

	res, err := RunHPOTop2(fastConfig(), pool, rankedEntries("A", "B"), records, y, nil)
	require.NoError(t, err)

	require.Len(t, res.Log, 2)
	for _, entry := range res.Log {
		require.NotNil(t, entry.Score, "candidate %s has no score", entry.Name)
		assert.Empty(t, entry.Reason)
	}
	require.NotNil(t, res.Best)
	assert.Contains(t, []string{"A", "B"}, res.BestName)

	// The winning assignment is exposed directly and matches the log.
	require.NotNil(t, res.BestParams)
	for _, entry := range res.Log {
		if entry.Name == res.BestName {
			assert.Equal(t, entry.Params, res.BestParams)
		}
	}
}

func TestTunedCandidate(t *testing.T) {
	records, y := tuningData(60)
	pool := []pipeline.Candidate{fastCandidate("A", pipeline.KindLightGBMGBDT)}

	res, err := RunHPOTop2(fastConfig(), pool, rankedEntries("A"), records, y, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Best)

	cand, ok := TunedCandidate(pool, res)
	require.True(t, ok)
	assert.Equal(t, "A", cand.Name)

	// Build yields fresh pipelines carrying the winning assignment.
	p1, p2 := cand.Build(), cand.Build()
	require.NotNil(t, p1)
	assert.NotSame(t, p1, p2)

	got := p1.Regressor.(model.ParameterGetter).GetParams()
	for key, want := range res.BestParams {
		assert.Equal(t, want, got[key], "param %s", key)
	}

	_, ok = TunedCandidate(pool, &Result{})
	assert.False(t, ok)
	_, ok = TunedCandidate(nil, res)
	assert.False(t, ok)
}

func TestRunHPOTop2SkipsUntunable(t *testing.T) {
	records, y := tuningData(45)
	pool := []pipeline.Candidate{
		fastCandidate("A", pipeline.KindLightGBMGBDT),
		// "Ghost" is ranked but absent from the pool.
	}

	res, err := RunHPOTop2(fastConfig(), pool, rankedEntries("Ghost", "A"), records, y, nil)
	require.NoError(t, err)

	require.Len(t, res.Log, 2)
	assert.Nil(t, res.Log[0].Score)
	assert.NotEmpty(t, res.Log[0].Reason)
	require.NotNil(t, res.Log[1].Score)
	assert.Equal(t, "A", res.BestName)
}

func TestRunHPOTop2NoSearchSpace(t *testing.T) {
	records, y := tuningData(45)
	cand := fastCandidate("odd", "unknown-kind")
	pool := []pipeline.Candidate{cand}

	res, err := RunHPOTop2(fastConfig(), pool, rankedEntries("odd"), records, y, nil)
	require.NoError(t, err)

	require.Len(t, res.Log, 1)
	assert.Nil(t, res.Log[0].Score)
	assert.Nil(t, res.Best)
}

func TestRandomizedSearchBaselineFirst(t *testing.T) {
	records, y := tuningData(60)
	cand := fastCandidate("A", pipeline.KindLightGBMGBDT)
	folds, err := evaluation.NewKFold(3, 42).Split(len(records))
	require.NoError(t, err)

	cfg := fastConfig()
	cfg.SearchIterations = 1 // only the baseline assignment

	score, params, err := randomizedSearch(cfg, cand, SearchSpace(cand.Kind), records, y, folds)
	require.NoError(t, err)
	assert.Empty(t, params, "iteration zero must evaluate the defaults")

	// With more iterations the result can only improve on the baseline.
	cfg.SearchIterations = 5
	better, _, err := randomizedSearch(cfg, cand, SearchSpace(cand.Kind), records, y, folds)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, better, score)
}

func TestSearchSpaceCoverage(t *testing.T) {
	for _, kind := range []string{
		pipeline.KindLightGBMGBDT, pipeline.KindLightGBMDART,
		pipeline.KindHistGBR, pipeline.KindEBM,
	} {
		assert.NotEmpty(t, SearchSpace(kind), "kind %s", kind)
	}
	assert.Nil(t, SearchSpace(pipeline.KindCatBoost))
	assert.Nil(t, SearchSpace(pipeline.KindXGBoost))
}

func TestLogSpace(t *testing.T) {
	vals := logSpace(-3, -1, 3)
	require.Len(t, vals, 3)
	assert.InDelta(t, 0.001, vals[0].(float64), 1e-12)
	assert.InDelta(t, 0.01, vals[1].(float64), 1e-12)
	assert.InDelta(t, 0.1, vals[2].(float64), 1e-12)
}
