package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MerveCeylanX/Aqua-ML-App/boosting"
	"github.com/MerveCeylanX/Aqua-ML-App/pipeline"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

func fittedPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()

	fs := preprocessing.FeatureSet{
		Numeric:     []string{"BET_Surface_Area(m2/g)", "Solution_pH", "E", "V"},
		Categorical: []string{preprocessing.AtmosphereColumn},
	}
	p := boosting.DefaultTreeParams()
	p.NumIterations = 20
	p.MinChildSamples = 5
	pipe := pipeline.New(
		preprocessing.NewDeriver(fs),
		preprocessing.NewOrdinalEncoder(),
		boosting.NewGBTRegressor(p),
	)

	n := 90
	records := make([]preprocessing.RawRecord, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		bet := 300.0 + float64(i%15)*70
		records[i] = preprocessing.RawRecord{
			preprocessing.SubstanceColumn:  []string{"IBU", "CAF", "TC"}[i%3],
			preprocessing.AtmosphereColumn: []string{"N2", "Air"}[i%2],
			"BET_Surface_Area(m2/g)":       bet,
			"Solution_pH":                  5.0 + float64(i%4),
		}
		y[i] = bet * 0.15
	}
	require.NoError(t, pipe.Fit(records, y))
	return pipe
}

func TestPredictAppendsColumn(t *testing.T) {
	pipe := fittedPipeline(t)
	table := Template()

	out, err := Predict(pipe, table)
	require.NoError(t, err)

	assert.Equal(t, PredictionColumn, out.Columns[len(out.Columns)-1])
	require.Len(t, out.Rows, len(table.Rows))
	for i, row := range out.Rows {
		pred, ok := row[PredictionColumn].(float64)
		require.True(t, ok, "row %d missing prediction", i)
		assert.False(t, math.IsNaN(pred))
	}

	// Input table untouched.
	for _, row := range table.Rows {
		_, has := row[PredictionColumn]
		assert.False(t, has)
	}
}

func TestPredictMissingRequiredColumn(t *testing.T) {
	pipe := fittedPipeline(t)
	table := &Table{
		Columns: []string{"BET_Surface_Area(m2/g)"},
		Rows:    []preprocessing.RawRecord{{"BET_Surface_Area(m2/g)": "500"}},
	}

	_, err := Predict(pipe, table)
	assert.Error(t, err)
}

func TestPredictTolerantOfSparseRows(t *testing.T) {
	pipe := fittedPipeline(t)
	table := &Table{
		Columns: []string{preprocessing.SubstanceColumn, preprocessing.AtmosphereColumn},
		Rows: []preprocessing.RawRecord{
			{preprocessing.SubstanceColumn: "IBU", preprocessing.AtmosphereColumn: "N2"},
			{preprocessing.SubstanceColumn: "XYZ", preprocessing.AtmosphereColumn: "N2"},
		},
	}

	out, err := Predict(pipe, table)
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)

	// Sparse and unknown-substance rows still predict: missing values ride
	// the models' default directions.
	for i, row := range out.Rows {
		_, ok := row[PredictionColumn].(float64)
		assert.True(t, ok, "row %d", i)
	}
}
