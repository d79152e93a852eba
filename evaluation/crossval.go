package evaluation

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/MerveCeylanX/Aqua-ML-App/core/parallel"
	"github.com/MerveCeylanX/Aqua-ML-App/metrics"
	"github.com/MerveCeylanX/Aqua-ML-App/pipeline"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// FoldScore holds one fold's validation metrics.
type FoldScore struct {
	Fold int
	NVal int
	R2   float64
	RMSE float64
	MAE  float64
}

// CrossValidate trains a fresh pipeline per fold and scores it on the held
// out part. Folds run concurrently; each gets its own pipeline from build,
// so no state is shared.
func CrossValidate(build func() *pipeline.Pipeline, records []preprocessing.RawRecord, y []float64, folds []Fold) ([]FoldScore, error) {
	scores := make([]FoldScore, len(folds))
	errs := make([]error, len(folds))

	parallel.ForEach(len(folds), func(fi int) {
		fold := folds[fi]
		pipe := build()

		if err := pipe.Fit(subsetRecords(records, fold.TrainIndices), subsetFloats(y, fold.TrainIndices)); err != nil {
			errs[fi] = errors.Wrapf(err, "fold %d fit", fi)
			return
		}
		preds, err := pipe.Predict(subsetRecords(records, fold.TestIndices))
		if err != nil {
			errs[fi] = errors.Wrapf(err, "fold %d predict", fi)
			return
		}

		yTrue := mat.NewVecDense(len(fold.TestIndices), subsetFloats(y, fold.TestIndices))
		yPred := mat.NewVecDense(len(preds), preds)

		r2, err := metrics.R2Score(yTrue, yPred)
		if err != nil {
			errs[fi] = err
			return
		}
		rmse, err := metrics.RMSE(yTrue, yPred)
		if err != nil {
			errs[fi] = err
			return
		}
		mae, err := metrics.MAE(yTrue, yPred)
		if err != nil {
			errs[fi] = err
			return
		}
		scores[fi] = FoldScore{Fold: fi, NVal: len(fold.TestIndices), R2: r2, RMSE: rmse, MAE: mae}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// CrossValPredict produces out-of-fold predictions: each sample is predicted
// by the one fold model that did not train on it. The output aligns with the
// input row order and covers every sample exactly once.
func CrossValPredict(build func() *pipeline.Pipeline, records []preprocessing.RawRecord, y []float64, folds []Fold) ([]float64, error) {
	oof := make([]float64, len(records))
	errs := make([]error, len(folds))
	var mu sync.Mutex

	parallel.ForEach(len(folds), func(fi int) {
		fold := folds[fi]
		pipe := build()

		if err := pipe.Fit(subsetRecords(records, fold.TrainIndices), subsetFloats(y, fold.TrainIndices)); err != nil {
			errs[fi] = errors.Wrapf(err, "fold %d fit", fi)
			return
		}
		preds, err := pipe.Predict(subsetRecords(records, fold.TestIndices))
		if err != nil {
			errs[fi] = errors.Wrapf(err, "fold %d predict", fi)
			return
		}

		mu.Lock()
		for j, idx := range fold.TestIndices {
			oof[idx] = preds[j]
		}
		mu.Unlock()
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return oof, nil
}

func subsetRecords(records []preprocessing.RawRecord, idx []int) []preprocessing.RawRecord {
	out := make([]preprocessing.RawRecord, len(idx))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}

func subsetFloats(xs []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = xs[j]
	}
	return out
}
