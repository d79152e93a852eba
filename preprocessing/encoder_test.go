package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func encoderFrame(rows [][]float64, cats [][]string) *FeatureFrame {
	n := len(rows)
	data := make([]float64, 0, n*2)
	for _, r := range rows {
		data = append(data, r...)
	}
	return &FeatureFrame{
		NumericNames:     []string{"x1", "x2"},
		CategoricalNames: []string{AtmosphereColumn},
		Numeric:          mat.NewDense(n, 2, data),
		Categorical:      cats,
	}
}

func TestOneHotEncoder(t *testing.T) {
	train := encoderFrame(
		[][]float64{{1, 2}, {3, 4}, {5, 6}},
		[][]string{{"N2"}, {"Air"}, {"N2"}},
	)

	enc := NewOneHotEncoder()
	require.NoError(t, enc.Fit(train))

	X, err := enc.Transform(train)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)

	// Categories sorted: Air, N2.
	assert.Equal(t, []string{"x1", "x2", AtmosphereColumn + "=Air", AtmosphereColumn + "=N2"}, enc.FeatureNames())
	assert.Equal(t, 1.0, X.At(0, 3))
	assert.Equal(t, 0.0, X.At(0, 2))
	assert.Equal(t, 1.0, X.At(1, 2))
	assert.Equal(t, 1.0, X.At(0, 0))
	assert.Empty(t, enc.CategoricalIndices())
}

func TestOneHotEncoderUnknownCategory(t *testing.T) {
	train := encoderFrame([][]float64{{1, 2}, {3, 4}}, [][]string{{"N2"}, {"Air"}})
	enc := NewOneHotEncoder()
	require.NoError(t, enc.Fit(train))

	test := encoderFrame([][]float64{{7, 8}, {9, 10}}, [][]string{{"SG"}, {""}})
	X, err := enc.Transform(test)
	require.NoError(t, err)

	// Unknown and missing categories encode as all zeros.
	for i := 0; i < 2; i++ {
		assert.Equal(t, 0.0, X.At(i, 2))
		assert.Equal(t, 0.0, X.At(i, 3))
	}
}

func TestOneHotEncoderNotFitted(t *testing.T) {
	enc := NewOneHotEncoder()
	_, err := enc.Transform(encoderFrame([][]float64{{1, 2}}, [][]string{{"N2"}}))
	assert.Error(t, err)
}

func TestOrdinalEncoder(t *testing.T) {
	train := encoderFrame(
		[][]float64{{1, 2}, {3, 4}, {5, 6}},
		[][]string{{"N2"}, {"Air"}, {"SG"}},
	)

	enc := NewOrdinalEncoder()
	require.NoError(t, enc.Fit(train))

	X, err := enc.Transform(train)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)

	// Sorted vocabulary: Air=0, N2=1, SG=2.
	assert.Equal(t, 1.0, X.At(0, 2))
	assert.Equal(t, 0.0, X.At(1, 2))
	assert.Equal(t, 2.0, X.At(2, 2))
	assert.Equal(t, []int{2}, enc.CategoricalIndices())
	assert.Equal(t, []string{"x1", "x2", AtmosphereColumn}, enc.FeatureNames())
}

func TestOrdinalEncoderUnknownCategory(t *testing.T) {
	train := encoderFrame([][]float64{{1, 2}}, [][]string{{"N2"}})
	enc := NewOrdinalEncoder()
	require.NoError(t, enc.Fit(train))

	test := encoderFrame([][]float64{{1, 2}, {3, 4}}, [][]string{{"Air"}, {""}})
	X, err := enc.Transform(test)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(X.At(0, 2)))
	assert.True(t, math.IsNaN(X.At(1, 2)))
}

func TestEncoderEmptyFrame(t *testing.T) {
	enc := NewOneHotEncoder()
	assert.Error(t, enc.Fit(nil))

	ord := NewOrdinalEncoder()
	assert.Error(t, ord.Fit(&FeatureFrame{}))
}
