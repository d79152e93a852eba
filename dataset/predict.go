package dataset

import (
	"fmt"
	"math"

	"github.com/MerveCeylanX/Aqua-ML-App/pipeline"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/log"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// Predict validates the table and predicts each row independently, so one
// failing row cannot poison the batch: its prediction becomes NaN and the
// failure is logged. The result is a new table with a Pred_qe column
// appended; the input is untouched.
func Predict(pipe *pipeline.Pipeline, t *Table) (*Table, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName("dataset")

	out := &Table{
		Columns: append(append([]string(nil), t.Columns...), PredictionColumn),
		Rows:    make([]preprocessing.RawRecord, len(t.Rows)),
	}

	failures := 0
	for i, row := range t.Rows {
		newRow := row.Clone()
		pred, err := pipe.PredictValue(row)
		if err != nil {
			failures++
			perr := errors.NewPredictionFailureError(fmt.Sprintf("row %d", i+1), err)
			logger.Warn("row prediction failed",
				"row", i+1,
				log.ErrAttrKey, perr)
			pred = math.NaN()
		}
		newRow[PredictionColumn] = pred
		out.Rows[i] = newRow
	}

	logger.Info("batch prediction finished",
		log.SamplesKey, len(t.Rows),
		"failed_rows", failures)
	return out, nil
}

// Template returns a two-row example table demonstrating the expected
// schema, usable as a starting point for batch input files.
func Template() *Table {
	columns := []string{
		preprocessing.SubstanceColumn,
		preprocessing.AtmosphereColumn,
		"Agent/Sample(g/g)",
		"Soaking_Time(min)",
		"Soaking_Temp(K)",
		"Activation_Time(min)",
		"Activation_Temp(K)",
		"Activation_Heating_Rate (K/min)",
		"BET_Surface_Area(m2/g)",
		"Total_Pore_Volume(cm3/g)",
		"Micropore_Volume(cm3/g)",
		"Average_Pore_Diameter(nm)",
		"pHpzc",
		preprocessing.CarbonColumn,
		preprocessing.HydrogenColumn,
		preprocessing.OxygenColumn,
		preprocessing.NitrogenColumn,
		preprocessing.SulfurColumn,
		"Initial_Concentration(mg/L)",
		"Solution_pH",
		"Temperature(K)",
		"Agitation_speed(rpm)",
		"Dosage(g/L)",
		"Contact_Time(min)",
	}

	rows := []preprocessing.RawRecord{
		{
			preprocessing.SubstanceColumn:    "IBU",
			preprocessing.AtmosphereColumn:   "N2",
			"Agent/Sample(g/g)":              2.0,
			"Soaking_Time(min)":              720.0,
			"Soaking_Temp(K)":                298.0,
			"Activation_Time(min)":           60.0,
			"Activation_Temp(K)":             873.0,
			"Activation_Heating_Rate (K/min)": 10.0,
			"BET_Surface_Area(m2/g)":         1100.0,
			"Total_Pore_Volume(cm3/g)":       0.55,
			"Micropore_Volume(cm3/g)":        0.38,
			"Average_Pore_Diameter(nm)":      2.1,
			"pHpzc":                          6.4,
			preprocessing.CarbonColumn:       78.0,
			preprocessing.HydrogenColumn:     2.1,
			preprocessing.OxygenColumn:       17.5,
			preprocessing.NitrogenColumn:     1.2,
			preprocessing.SulfurColumn:       0.2,
			"Initial_Concentration(mg/L)":    50.0,
			"Solution_pH":                    6.0,
			"Temperature(K)":                 298.0,
			"Agitation_speed(rpm)":           150.0,
			"Dosage(g/L)":                    0.5,
			"Contact_Time(min)":              720.0,
		},
		{
			preprocessing.SubstanceColumn:    "TC",
			preprocessing.AtmosphereColumn:   "Air",
			"Agent/Sample(g/g)":              1.0,
			"Soaking_Time(min)":              1440.0,
			"Soaking_Temp(K)":                298.0,
			"Activation_Time(min)":           120.0,
			"Activation_Temp(K)":             973.0,
			"Activation_Heating_Rate (K/min)": 5.0,
			"BET_Surface_Area(m2/g)":         860.0,
			"Total_Pore_Volume(cm3/g)":       0.62,
			"Micropore_Volume(cm3/g)":        0.29,
			"Average_Pore_Diameter(nm)":      2.9,
			"pHpzc":                          7.1,
			preprocessing.CarbonColumn:       71.0,
			preprocessing.HydrogenColumn:     2.6,
			preprocessing.OxygenColumn:       22.0,
			preprocessing.NitrogenColumn:     2.4,
			preprocessing.SulfurColumn:       0.4,
			"Initial_Concentration(mg/L)":    100.0,
			"Solution_pH":                    5.5,
			"Temperature(K)":                 308.0,
			"Agitation_speed(rpm)":           180.0,
			"Dosage(g/L)":                    1.0,
			"Contact_Time(min)":              1440.0,
		},
	}

	return &Table{Columns: columns, Rows: rows}
}
