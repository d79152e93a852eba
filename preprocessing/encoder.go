package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/MerveCeylanX/Aqua-ML-App/core/model"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
)

// Encoder maps a FeatureFrame to the dense numeric matrix a regressor
// consumes. Implementations learn their category vocabularies during Fit and
// apply them verbatim during Transform.
type Encoder interface {
	Fit(frame *FeatureFrame) error
	Transform(frame *FeatureFrame) (*mat.Dense, error)

	// FeatureNames returns the output column names after encoding.
	FeatureNames() []string

	// CategoricalIndices reports which output columns carry categorical
	// codes, for regressors with native categorical handling. One-hot
	// output has none.
	CategoricalIndices() []int
}

// OneHotEncoder expands each categorical column into one indicator column
// per category seen during Fit. Unknown and missing categories map to an
// all-zero block, matching handle_unknown="ignore" semantics.
type OneHotEncoder struct {
	model.BaseEstimator

	NumericNames []string
	CatNames     []string
	Categories   [][]string
}

// NewOneHotEncoder builds an unfitted OneHotEncoder.
func NewOneHotEncoder() *OneHotEncoder { return &OneHotEncoder{} }

// Fit learns the sorted category vocabulary of every categorical column.
func (e *OneHotEncoder) Fit(frame *FeatureFrame) error {
	if frame == nil || frame.Rows() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "OneHotEncoder.Fit")
	}

	e.NumericNames = append([]string(nil), frame.NumericNames...)
	e.CatNames = append([]string(nil), frame.CategoricalNames...)
	e.Categories = learnCategories(frame)
	e.SetFitted()
	return nil
}

// Transform encodes frame into a dense matrix: numeric columns first, then
// the indicator blocks in Fit order.
func (e *OneHotEncoder) Transform(frame *FeatureFrame) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if err := checkFrameShape(frame, e.NumericNames, e.CatNames, "OneHotEncoder.Transform"); err != nil {
		return nil, err
	}

	n := frame.Rows()
	width := len(e.NumericNames)
	offsets := make([]int, len(e.Categories))
	for j, cats := range e.Categories {
		offsets[j] = width
		width += len(cats)
	}

	out := mat.NewDense(n, width, nil)
	copyNumeric(out, frame)
	for i := 0; i < n; i++ {
		for j, cats := range e.Categories {
			val := frame.Categorical[i][j]
			if val == "" {
				continue
			}
			if k := sort.SearchStrings(cats, val); k < len(cats) && cats[k] == val {
				out.Set(i, offsets[j]+k, 1)
			}
		}
	}

	return out, nil
}

// FeatureNames lists numeric names followed by "col=category" indicators.
func (e *OneHotEncoder) FeatureNames() []string {
	names := append([]string(nil), e.NumericNames...)
	for j, cats := range e.Categories {
		for _, c := range cats {
			names = append(names, e.CatNames[j]+"="+c)
		}
	}
	return names
}

// CategoricalIndices is empty for one-hot output.
func (e *OneHotEncoder) CategoricalIndices() []int { return nil }

// OrdinalEncoder appends one integer-code column per categorical feature,
// for regressors that split on category codes natively. Unknown and missing
// categories become NaN and follow the tree's default direction.
type OrdinalEncoder struct {
	model.BaseEstimator

	NumericNames []string
	CatNames     []string
	Categories   [][]string
}

// NewOrdinalEncoder builds an unfitted OrdinalEncoder.
func NewOrdinalEncoder() *OrdinalEncoder { return &OrdinalEncoder{} }

// Fit learns the sorted category vocabulary of every categorical column.
func (e *OrdinalEncoder) Fit(frame *FeatureFrame) error {
	if frame == nil || frame.Rows() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "OrdinalEncoder.Fit")
	}

	e.NumericNames = append([]string(nil), frame.NumericNames...)
	e.CatNames = append([]string(nil), frame.CategoricalNames...)
	e.Categories = learnCategories(frame)
	e.SetFitted()
	return nil
}

// Transform encodes frame as numeric columns followed by one code column per
// categorical feature.
func (e *OrdinalEncoder) Transform(frame *FeatureFrame) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OrdinalEncoder", "Transform")
	}
	if err := checkFrameShape(frame, e.NumericNames, e.CatNames, "OrdinalEncoder.Transform"); err != nil {
		return nil, err
	}

	n := frame.Rows()
	base := len(e.NumericNames)
	out := mat.NewDense(n, base+len(e.Categories), nil)
	copyNumeric(out, frame)
	for i := 0; i < n; i++ {
		for j, cats := range e.Categories {
			code := math.NaN()
			if val := frame.Categorical[i][j]; val != "" {
				if k := sort.SearchStrings(cats, val); k < len(cats) && cats[k] == val {
					code = float64(k)
				}
			}
			out.Set(i, base+j, code)
		}
	}

	return out, nil
}

// FeatureNames lists numeric names followed by the categorical column names.
func (e *OrdinalEncoder) FeatureNames() []string {
	names := append([]string(nil), e.NumericNames...)
	return append(names, e.CatNames...)
}

// CategoricalIndices reports the trailing code columns.
func (e *OrdinalEncoder) CategoricalIndices() []int {
	idx := make([]int, len(e.CatNames))
	for j := range idx {
		idx[j] = len(e.NumericNames) + j
	}
	return idx
}

func learnCategories(frame *FeatureFrame) [][]string {
	cats := make([][]string, len(frame.CategoricalNames))
	for j := range frame.CategoricalNames {
		seen := make(map[string]bool)
		for i := range frame.Categorical {
			if v := frame.Categorical[i][j]; v != "" {
				seen[v] = true
			}
		}
		vals := make([]string, 0, len(seen))
		for v := range seen {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		cats[j] = vals
	}
	return cats
}

func checkFrameShape(frame *FeatureFrame, numNames, catNames []string, op string) error {
	if frame == nil || frame.Rows() == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if len(frame.NumericNames) != len(numNames) {
		return errors.NewDimensionError(op, len(numNames), len(frame.NumericNames), 1)
	}
	if len(frame.CategoricalNames) != len(catNames) {
		return errors.NewDimensionError(op, len(catNames), len(frame.CategoricalNames), 1)
	}
	return nil
}

func copyNumeric(dst *mat.Dense, frame *FeatureFrame) {
	if frame.Numeric == nil {
		return
	}
	r, c := frame.Numeric.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, frame.Numeric.At(i, j))
		}
	}
}
