package evaluation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

func TestBuildOOFReport(t *testing.T) {
	records := []preprocessing.RawRecord{
		{preprocessing.SubstanceColumn: "IBU"},
		{preprocessing.SubstanceColumn: "IBU"},
		{preprocessing.SubstanceColumn: "tc"},
		{preprocessing.SubstanceColumn: "TC"},
	}
	yTrue := []float64{10, 20, 100, 0}
	oofPred := []float64{12, 18, 90, 5}

	rep := BuildOOFReport(yTrue, oofPred, records)
	require.Len(t, rep.Rows, 4)

	// Rows sorted worst-first by absolute error: 10, 5, 2, 2.
	assert.Equal(t, 10.0, rep.Rows[0].AbsErr)
	assert.Equal(t, "TC", rep.Rows[0].Substance)
	assert.Equal(t, 5.0, rep.Rows[1].AbsErr)

	// APE undefined at a zero true value.
	for _, r := range rep.Rows {
		if r.YTrue == 0 {
			assert.True(t, math.IsNaN(r.APE))
		} else {
			assert.False(t, math.IsNaN(r.APE))
		}
	}

	// Substance codes normalize, so "tc" and "TC" share a group.
	require.Len(t, rep.BySubstance, 2)
	byCode := map[string]SubstanceStat{}
	for _, s := range rep.BySubstance {
		byCode[s.Code] = s
	}
	ibu := byCode["IBU"]
	assert.Equal(t, 2, ibu.N)
	assert.InDelta(t, 2.0, ibu.MAE, 1e-12)
	assert.InDelta(t, 2.0, ibu.RMSE, 1e-12)
	assert.InDelta(t, (20.0+10.0)/2, ibu.MAPE, 1e-12)

	tc := byCode["TC"]
	assert.Equal(t, 2, tc.N)
	assert.InDelta(t, 7.5, tc.MAE, 1e-12)
	// Only the nonzero row contributes to MAPE.
	assert.InDelta(t, 10.0, tc.MAPE, 1e-12)

	// Groups sorted worst-first by MAE.
	assert.Equal(t, "TC", rep.BySubstance[0].Code)
}

func TestBuildOOFReportAllZeroTargets(t *testing.T) {
	records := []preprocessing.RawRecord{
		{preprocessing.SubstanceColumn: "SA"},
		{preprocessing.SubstanceColumn: "SA"},
	}
	rep := BuildOOFReport([]float64{0, 0}, []float64{1, 2}, records)

	require.Len(t, rep.BySubstance, 1)
	assert.True(t, math.IsNaN(rep.BySubstance[0].MAPE))
}
