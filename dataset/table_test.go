package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

const sampleCSV = `Target_Phar,Activation_Atmosphere,BET_Surface_Area(m2/g),Solution_pH
IBU,N2,850,6.0
TC,Air,620,5.5
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{
		preprocessing.SubstanceColumn, preprocessing.AtmosphereColumn,
		"BET_Surface_Area(m2/g)", "Solution_pH",
	}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "IBU", table.Rows[0][preprocessing.SubstanceColumn])
	assert.Equal(t, "850", table.Rows[0]["BET_Surface_Area(m2/g)"])
}

func TestReadCSVEmptyBody(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n"))
	assert.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	again, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, table.Columns, again.Columns)
	assert.Equal(t, table.Rows, again.Rows)
}

func TestValidateRequiredColumns(t *testing.T) {
	table := &Table{
		Columns: []string{"BET_Surface_Area(m2/g)"},
		Rows:    []preprocessing.RawRecord{{"BET_Surface_Area(m2/g)": "850"}},
	}
	err := table.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), preprocessing.SubstanceColumn)
}

func TestValidateUnrecognizedColumnsAreNotFatal(t *testing.T) {
	table := &Table{
		Columns: []string{
			preprocessing.SubstanceColumn, preprocessing.AtmosphereColumn,
			"Mystery_Column",
		},
		Rows: []preprocessing.RawRecord{{
			preprocessing.SubstanceColumn:  "IBU",
			preprocessing.AtmosphereColumn: "N2",
			"Mystery_Column":               "x",
		}},
	}
	assert.NoError(t, table.Validate())
}

func TestValidatePoreVolumeCheckIsNotFatal(t *testing.T) {
	table := &Table{
		Columns: []string{
			preprocessing.SubstanceColumn, preprocessing.AtmosphereColumn,
			"Total_Pore_Volume(cm3/g)", "Micropore_Volume(cm3/g)",
		},
		Rows: []preprocessing.RawRecord{{
			preprocessing.SubstanceColumn:  "IBU",
			preprocessing.AtmosphereColumn: "N2",
			"Total_Pore_Volume(cm3/g)":     "0.3",
			"Micropore_Volume(cm3/g)":      "0.5",
		}},
	}
	assert.NoError(t, table.Validate())
}

func TestTemplate(t *testing.T) {
	table := Template()
	require.Len(t, table.Rows, 2)
	assert.NoError(t, table.Validate())

	for _, req := range RequiredColumns {
		assert.Contains(t, table.Columns, req)
	}
	for _, col := range table.Columns {
		if isRequired(col) {
			continue
		}
		assert.True(t, hasRecognizedPrefix(col), "template column %q unrecognized", col)
	}
}
