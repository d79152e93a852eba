package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatureSet() FeatureSet {
	return FeatureSet{
		Numeric: []string{
			"BET_Surface_Area(m2/g)", CarbonMolarFeature, HCRatioFeature,
			OCRatioFeature, NCRatioFeature, SCRatioFeature, "E", "S", "A", "B", "V",
		},
		Categorical: []string{AtmosphereColumn},
	}
}

func col(t *testing.T, frame *FeatureFrame, name string) float64 {
	t.Helper()
	for j, n := range frame.NumericNames {
		if n == name {
			return frame.Numeric.At(0, j)
		}
	}
	t.Fatalf("column %q not in frame", name)
	return 0
}

func TestDeriverDescriptorJoin(t *testing.T) {
	d := NewDeriver(testFeatureSet())

	frame, err := d.DeriveRecord(RawRecord{
		SubstanceColumn:          " ibu ",
		"BET_Surface_Area(m2/g)": 850.0,
		AtmosphereColumn:         "N2",
	})
	require.NoError(t, err)
	require.Equal(t, 1, frame.Rows())

	// IBU descriptors joined case-insensitively.
	assert.InDelta(t, 0.73, col(t, frame, "E"), 1e-12)
	assert.InDelta(t, 0.70, col(t, frame, "S"), 1e-12)
	assert.InDelta(t, 0.56, col(t, frame, "A"), 1e-12)
	assert.InDelta(t, 0.79, col(t, frame, "B"), 1e-12)
	assert.InDelta(t, 1.7771, col(t, frame, "V"), 1e-12)
	assert.Equal(t, "N2", frame.Categorical[0][0])
}

func TestDeriverExplicitDescriptorWins(t *testing.T) {
	d := NewDeriver(testFeatureSet())

	frame, err := d.DeriveRecord(RawRecord{
		SubstanceColumn: "IBU",
		"E":             9.9,
	})
	require.NoError(t, err)

	assert.InDelta(t, 9.9, col(t, frame, "E"), 1e-12)
	assert.InDelta(t, 0.70, col(t, frame, "S"), 1e-12)
}

func TestDeriverUnknownSubstance(t *testing.T) {
	d := NewDeriver(testFeatureSet())

	frame, err := d.DeriveRecord(RawRecord{SubstanceColumn: "XYZ"})
	require.NoError(t, err)

	for _, name := range SoluteFeatures {
		assert.True(t, math.IsNaN(col(t, frame, name)), "descriptor %s should be NaN", name)
	}
}

func TestDeriverMolarRatios(t *testing.T) {
	d := NewDeriver(testFeatureSet())

	frame, err := d.DeriveRecord(RawRecord{
		CarbonColumn:   80.0,
		HydrogenColumn: 2.0,
		OxygenColumn:   15.0,
		NitrogenColumn: 1.5,
		SulfurColumn:   0.5,
	})
	require.NoError(t, err)

	cMolar := 80.0 / 12.011
	assert.InDelta(t, cMolar, col(t, frame, CarbonMolarFeature), 1e-12)
	assert.InDelta(t, (2.0/1.008)/cMolar, col(t, frame, HCRatioFeature), 1e-12)
	assert.InDelta(t, (15.0/15.999)/cMolar, col(t, frame, OCRatioFeature), 1e-12)
	assert.InDelta(t, (1.5/14.007)/cMolar, col(t, frame, NCRatioFeature), 1e-12)
	assert.InDelta(t, (0.5/32.06)/cMolar, col(t, frame, SCRatioFeature), 1e-12)
}

func TestDeriverRatiosUndefinedWithoutCarbon(t *testing.T) {
	tests := []struct {
		name string
		rec  RawRecord
	}{
		{"missing carbon", RawRecord{HydrogenColumn: 2.0}},
		{"zero carbon", RawRecord{CarbonColumn: 0.0, HydrogenColumn: 2.0}},
		{"negative carbon", RawRecord{CarbonColumn: -5.0, HydrogenColumn: 2.0}},
		{"unparseable carbon", RawRecord{CarbonColumn: "n/a", HydrogenColumn: 2.0}},
	}

	d := NewDeriver(testFeatureSet())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := d.DeriveRecord(tt.rec)
			require.NoError(t, err)
			for _, name := range []string{CarbonMolarFeature, HCRatioFeature, OCRatioFeature, NCRatioFeature, SCRatioFeature} {
				assert.True(t, math.IsNaN(col(t, frame, name)), "%s should be NaN", name)
			}
		})
	}
}

func TestDeriverNegativeRatioBecomesNaN(t *testing.T) {
	d := NewDeriver(testFeatureSet())

	frame, err := d.DeriveRecord(RawRecord{
		CarbonColumn:   80.0,
		HydrogenColumn: -2.0,
		OxygenColumn:   15.0,
	})
	require.NoError(t, err)

	assert.True(t, math.IsNaN(col(t, frame, HCRatioFeature)))
	assert.False(t, math.IsNaN(col(t, frame, OCRatioFeature)))
}

func TestDeriverLabelNormalization(t *testing.T) {
	d := NewDeriver(testFeatureSet())

	frame, err := d.DeriveRecord(RawRecord{
		" BET_Surface_Area(m2/g) ": "1234.5",
		SubstanceColumn:            "CAF",
	})
	require.NoError(t, err)

	assert.InDelta(t, 1234.5, col(t, frame, "BET_Surface_Area(m2/g)"), 1e-12)
}

func TestDeriverDuplicateLabelsResolveDeterministically(t *testing.T) {
	d := NewDeriver(FeatureSet{Numeric: []string{"Solution_pH"}})

	// A sloppy header can yield both the clean key and a padded variant.
	// The clean key must win, on every call.
	rec := RawRecord{
		"Solution_pH":  1.0,
		"Solution_pH ": 2.0,
	}
	for i := 0; i < 50; i++ {
		frame, err := d.DeriveRecord(rec)
		require.NoError(t, err)
		assert.Equal(t, 1.0, col(t, frame, "Solution_pH"), "iteration %d", i)
	}

	// With only padded variants, the smallest key decides.
	rec = RawRecord{
		" Solution_pH":  3.0,
		"Solution_pH  ": 4.0,
	}
	for i := 0; i < 50; i++ {
		frame, err := d.DeriveRecord(rec)
		require.NoError(t, err)
		assert.Equal(t, 3.0, col(t, frame, "Solution_pH"), "iteration %d", i)
	}
}

func TestDeriverCoercion(t *testing.T) {
	d := NewDeriver(testFeatureSet())

	frame, err := d.DeriveRecord(RawRecord{
		"BET_Surface_Area(m2/g)": "not a number",
	})
	require.NoError(t, err)

	assert.True(t, math.IsNaN(col(t, frame, "BET_Surface_Area(m2/g)")))
}

func TestDeriverEmptyInput(t *testing.T) {
	d := NewDeriver(testFeatureSet())

	_, err := d.Derive(nil)
	assert.Error(t, err)
}

func TestDeriverDoesNotMutateInput(t *testing.T) {
	d := NewDeriver(testFeatureSet())
	rec := RawRecord{SubstanceColumn: "TC", CarbonColumn: 75.0}

	_, err := d.DeriveRecord(rec)
	require.NoError(t, err)

	assert.Len(t, rec, 2)
	assert.Equal(t, 75.0, rec[CarbonColumn])
	_, hasDerived := rec[CarbonMolarFeature]
	assert.False(t, hasDerived)
}

func TestDeriverMissingFields(t *testing.T) {
	d := NewDeriver(testFeatureSet())

	missing := d.MissingFields(RawRecord{SubstanceColumn: "TC"})
	assert.Contains(t, missing, "BET_Surface_Area(m2/g)")
	assert.Contains(t, missing, AtmosphereColumn)
	assert.NotContains(t, missing, "E")
	assert.NotContains(t, missing, HCRatioFeature)
}

func TestDefaultSoluteTable(t *testing.T) {
	table := DefaultSoluteTable()
	assert.Equal(t, 21, table.Len())

	d, ok := table.Lookup("otc")
	require.True(t, ok)
	assert.InDelta(t, 3.60, d.E, 1e-12)
	assert.InDelta(t, 3.1579, d.V, 1e-12)

	_, ok = table.Lookup("unknown")
	assert.False(t, ok)

	codes := table.KnownCodes()
	assert.Len(t, codes, 21)
	assert.Equal(t, "PHE", codes[0])
}
