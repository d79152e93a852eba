// Package sweep implements deterministic what-if inference on a fitted
// pipeline: one-parameter sweeps over a value grid and cross-substance
// comparisons at fixed conditions.
package sweep

import (
	"fmt"
	"sort"

	"github.com/MerveCeylanX/Aqua-ML-App/pipeline"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/log"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// Point is one sweep grid entry that predicted successfully.
type Point struct {
	Value      float64
	Prediction float64
}

// Sweep freezes base, varies field across grid and predicts each point.
// Points whose prediction fails are dropped with a log line; the returned
// slice preserves grid order. The base record is never mutated.
func Sweep(pipe *pipeline.Pipeline, base preprocessing.RawRecord, field string, grid []float64) []Point {
	logger := log.GetLoggerWithName("sweep")

	out := make([]Point, 0, len(grid))
	for _, v := range grid {
		rec := base.Clone()
		rec[field] = v

		pred, err := pipe.PredictValue(rec)
		if err != nil {
			perr := errors.NewPredictionFailureError(fmt.Sprintf("%s=%g", field, v), err)
			logger.Warn("dropping sweep point",
				log.OperationKey, log.OperationSweep,
				"field", field,
				"value", v,
				log.ErrAttrKey, perr)
			continue
		}
		out = append(out, Point{Value: v, Prediction: pred})
	}
	return out
}

// SubstancePoint is one substance's prediction at the base conditions.
type SubstancePoint struct {
	Code       string
	Prediction float64
}

// CompareSubstances predicts capacity for each substance code at the base
// record's conditions, sorted by predicted capacity descending. Duplicate
// codes collapse to their first occurrence; a nil code list means every
// substance in the built-in descriptor table. Failing codes are dropped
// with a log line.
func CompareSubstances(pipe *pipeline.Pipeline, base preprocessing.RawRecord, codes []string) []SubstancePoint {
	logger := log.GetLoggerWithName("sweep")

	if codes == nil {
		codes = preprocessing.DefaultSoluteTable().KnownCodes()
	}

	seen := make(map[string]bool, len(codes))
	out := make([]SubstancePoint, 0, len(codes))
	for _, code := range codes {
		norm := preprocessing.NormalizeCode(code)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true

		rec := base.Clone()
		rec[preprocessing.SubstanceColumn] = norm

		pred, err := pipe.PredictValue(rec)
		if err != nil {
			perr := errors.NewPredictionFailureError("substance "+norm, err)
			logger.Warn("dropping substance",
				log.OperationKey, log.OperationSweep,
				"substance", norm,
				log.ErrAttrKey, perr)
			continue
		}
		out = append(out, SubstancePoint{Code: norm, Prediction: pred})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Prediction > out[b].Prediction
	})
	return out
}
