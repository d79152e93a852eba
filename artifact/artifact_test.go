package artifact

import (
	"os"
	"path/filepath"
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
		Numeric:     []string{"BET_Surface_Area(m2/g)", "Solution_pH", "E"},
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

	n := 80
	records := make([]preprocessing.RawRecord, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		bet := 200.0 + float64(i%16)*50
		records[i] = preprocessing.RawRecord{
			preprocessing.SubstanceColumn:  []string{"IBU", "TC"}[i%2],
			preprocessing.AtmosphereColumn: []string{"N2", "Air"}[i%2],
			"BET_Surface_Area(m2/g)":       bet,
			"Solution_pH":                  5.0,
		}
		y[i] = bet * 0.2
	}
	require.NoError(t, pipe.Fit(records, y))
	return pipe
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pipe := fittedPipeline(t)

	require.NoError(t, Save(dir, "GBT", pipe))
	assert.FileExists(t, filepath.Join(dir, ModelFileName))
	assert.FileExists(t, filepath.Join(dir, ManifestFileName))

	loaded, manifest, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "GBT", manifest.Model)
	assert.Equal(t, pipe.InputFeatures(), manifest.Features)

	// The restored pipeline must predict identically.
	rec := preprocessing.RawRecord{
		preprocessing.SubstanceColumn:  "IBU",
		preprocessing.AtmosphereColumn: "N2",
		"BET_Surface_Area(m2/g)":       640.0,
		"Solution_pH":                  5.0,
	}
	want, err := pipe.PredictValue(rec)
	require.NoError(t, err)
	got, err := loaded.PredictValue(rec)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissingArtifact(t *testing.T) {
	_, _, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadMissingModelFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, "GBT", fittedPipeline(t)))
	require.NoError(t, os.Remove(filepath.Join(dir, ModelFileName)))

	_, _, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, "GBT", fittedPipeline(t)))

	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "{not json"},
		{"empty feature list", `{"model":"GBT","features":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, ManifestFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, _, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestSaveNilPipeline(t *testing.T) {
	assert.Error(t, Save(t.TempDir(), "x", nil))
}
