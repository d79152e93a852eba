package preprocessing

import "gonum.org/v1/gonum/mat"

// FeatureFrame is the output of feature derivation: a dense numeric block in
// declared column order plus string-valued categorical columns. Missing
// numeric entries are NaN; missing categorical entries are "".
type FeatureFrame struct {
	NumericNames     []string
	CategoricalNames []string

	// Numeric is len(rows) x len(NumericNames).
	Numeric *mat.Dense

	// Categorical is row-major: Categorical[i][j] is the value of
	// CategoricalNames[j] for row i.
	Categorical [][]string
}

// Rows reports the number of records in the frame.
func (f *FeatureFrame) Rows() int {
	if f.Numeric != nil {
		r, _ := f.Numeric.Dims()
		return r
	}
	return len(f.Categorical)
}
