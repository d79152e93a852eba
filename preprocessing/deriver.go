package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
)

// Standard atomic weights used for the elemental molar ratios.
const (
	atomicWeightC = 12.011
	atomicWeightH = 1.008
	atomicWeightO = 15.999
	atomicWeightN = 14.007
	atomicWeightS = 32.06
)

// Deriver turns raw records into a FeatureFrame: label normalization, solute
// descriptor join, molar-ratio computation, numeric coercion and projection
// onto the declared feature columns. Derive never mutates its input and
// holds no state across calls, so the same Deriver serves training and every
// later prediction.
type Deriver struct {
	NumericFeatures     []string
	CategoricalFeatures []string
}

// NewDeriver builds a Deriver for the resolved feature set.
func NewDeriver(fs FeatureSet) *Deriver {
	return &Deriver{
		NumericFeatures:     append([]string(nil), fs.Numeric...),
		CategoricalFeatures: append([]string(nil), fs.Categorical...),
	}
}

// The descriptor table is process-wide; keeping it out of the struct keeps
// persisted pipelines self-contained and small.
func (d *Deriver) table() *SoluteTable {
	return DefaultSoluteTable()
}

// Derive computes the feature frame for records. Unknown substance codes
// leave the descriptor columns NaN; unparseable numerics become NaN; a
// non-positive or missing carbon percentage makes all five molar-ratio
// features NaN for that record.
func (d *Deriver) Derive(records []RawRecord) (*FeatureFrame, error) {
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Derive")
	}
	if len(d.NumericFeatures) == 0 && len(d.CategoricalFeatures) == 0 {
		return nil, errors.NewUnresolvableFeatureSetError("Derive")
	}

	n := len(records)
	frame := &FeatureFrame{
		NumericNames:     append([]string(nil), d.NumericFeatures...),
		CategoricalNames: append([]string(nil), d.CategoricalFeatures...),
		Categorical:      make([][]string, n),
	}
	if len(d.NumericFeatures) > 0 {
		frame.Numeric = mat.NewDense(n, len(d.NumericFeatures), nil)
	}

	for i, rec := range records {
		numRow, catRow := d.deriveRow(rec)
		if frame.Numeric != nil {
			frame.Numeric.SetRow(i, numRow)
		}
		frame.Categorical[i] = catRow
	}

	return frame, nil
}

// DeriveRecord derives features for a single record.
func (d *Deriver) DeriveRecord(rec RawRecord) (*FeatureFrame, error) {
	return d.Derive([]RawRecord{rec})
}

// MissingFields reports which declared feature fields rec does not carry a
// usable value for, descriptor and ratio columns excluded since those are
// derived.
func (d *Deriver) MissingFields(rec RawRecord) []string {
	norm := normalizeLabels(rec)
	derived := map[string]bool{
		CarbonMolarFeature: true,
		HCRatioFeature:     true,
		OCRatioFeature:     true,
		NCRatioFeature:     true,
		SCRatioFeature:     true,
	}
	for _, name := range SoluteFeatures {
		derived[name] = true
	}

	var missing []string
	for _, name := range d.NumericFeatures {
		if derived[name] {
			continue
		}
		if _, ok := floatValue(norm[name]); !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range d.CategoricalFeatures {
		if _, ok := stringValue(norm[name]); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func (d *Deriver) deriveRow(rec RawRecord) ([]float64, []string) {
	norm := normalizeLabels(rec)

	override := make(map[string]float64, len(SoluteFeatures)+5)

	// Descriptor join: explicit values in the record win over the table.
	desc, known := SoluteDescriptor{}, false
	if code, ok := stringValue(norm[SubstanceColumn]); ok {
		desc, known = d.table().Lookup(code)
	}
	tableVals := []float64{desc.E, desc.S, desc.A, desc.B, desc.V}
	for j, name := range SoluteFeatures {
		if v, ok := floatValue(norm[name]); ok {
			override[name] = v
		} else if known {
			override[name] = tableVals[j]
		} else {
			override[name] = math.NaN()
		}
	}

	// Elemental molar ratios, undefined without a positive carbon content.
	override[CarbonMolarFeature] = math.NaN()
	override[HCRatioFeature] = math.NaN()
	override[OCRatioFeature] = math.NaN()
	override[NCRatioFeature] = math.NaN()
	override[SCRatioFeature] = math.NaN()
	if c, ok := floatValue(norm[CarbonColumn]); ok && c > 0 {
		cMolar := c / atomicWeightC
		override[CarbonMolarFeature] = cMolar
		ratios := []struct {
			column  string
			weight  float64
			feature string
		}{
			{HydrogenColumn, atomicWeightH, HCRatioFeature},
			{OxygenColumn, atomicWeightO, OCRatioFeature},
			{NitrogenColumn, atomicWeightN, NCRatioFeature},
			{SulfurColumn, atomicWeightS, SCRatioFeature},
		}
		for _, r := range ratios {
			if x, ok := floatValue(norm[r.column]); ok {
				ratio := (x / r.weight) / cMolar
				if ratio < 0 {
					// Negative elemental inputs are data errors; the
					// ratio is treated as unknown rather than clamped.
					ratio = math.NaN()
				}
				override[r.feature] = ratio
			}
		}
	}

	numRow := make([]float64, len(d.NumericFeatures))
	for j, name := range d.NumericFeatures {
		if v, ok := override[name]; ok {
			numRow[j] = v
		} else if v, ok := floatValue(norm[name]); ok {
			numRow[j] = v
		} else {
			numRow[j] = math.NaN()
		}
	}

	catRow := make([]string, len(d.CategoricalFeatures))
	for j, name := range d.CategoricalFeatures {
		if v, ok := stringValue(norm[name]); ok {
			catRow[j] = v
		}
	}

	return numRow, catRow
}
