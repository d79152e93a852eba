package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFoldSplit(t *testing.T) {
	kf := NewKFold(5, 42)
	folds, err := kf.Split(103)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	// 103 = 3 folds of 21 + 2 folds of 20.
	sizes := []int{}
	seen := map[int]int{}
	for _, f := range folds {
		sizes = append(sizes, len(f.TestIndices))
		for _, idx := range f.TestIndices {
			seen[idx]++
		}
		assert.Len(t, f.TrainIndices, 103-len(f.TestIndices))
	}
	assert.ElementsMatch(t, []int{21, 21, 21, 20, 20}, sizes)

	// Every sample is in exactly one validation fold.
	require.Len(t, seen, 103)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "index %d", idx)
	}
}

func TestKFoldDeterministic(t *testing.T) {
	a, err := NewKFold(5, 42).Split(50)
	require.NoError(t, err)
	b, err := NewKFold(5, 42).Split(50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewKFold(5, 7).Split(50)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestKFoldErrors(t *testing.T) {
	_, err := NewKFold(1, 42).Split(10)
	assert.Error(t, err)

	_, err = NewKFold(5, 42).Split(3)
	assert.Error(t, err)
}

func TestTrainTestSplit(t *testing.T) {
	train, test, err := TrainTestSplit(100, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, test, 20)
	assert.Len(t, train, 80)

	seen := map[int]bool{}
	for _, i := range append(append([]int{}, train...), test...) {
		assert.False(t, seen[i])
		seen[i] = true
	}
	assert.Len(t, seen, 100)

	// Same seed, same partition.
	train2, test2, err := TrainTestSplit(100, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}

func TestTrainTestSplitErrors(t *testing.T) {
	_, _, err := TrainTestSplit(10, 0, 42)
	assert.Error(t, err)
	_, _, err = TrainTestSplit(10, 1, 42)
	assert.Error(t, err)
	_, _, err = TrainTestSplit(2, 0.01, 42)
	assert.Error(t, err)
}
