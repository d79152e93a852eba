// Package pipeline composes feature derivation, categorical encoding and a
// regressor into one fit/predict unit, and builds the candidate model pool.
package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/MerveCeylanX/Aqua-ML-App/core/model"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// Pipeline is the trainable prediction unit: raw records in, capacity out.
// The deriver is stateless; the encoder and regressor carry the fitted
// state, so a saved pipeline reproduces training-time preprocessing exactly.
type Pipeline struct {
	Deriver   *preprocessing.Deriver
	Encoder   preprocessing.Encoder
	Regressor model.Regressor
}

// New assembles a pipeline. If the regressor handles categorical codes
// natively, the encoder's code columns are wired through during Fit.
func New(d *preprocessing.Deriver, e preprocessing.Encoder, r model.Regressor) *Pipeline {
	return &Pipeline{Deriver: d, Encoder: e, Regressor: r}
}

// Fit derives features for records, fits the encoder, then trains the
// regressor against y.
func (p *Pipeline) Fit(records []preprocessing.RawRecord, y []float64) (err error) {
	defer errors.Recover(&err, "Pipeline.Fit")

	if len(records) != len(y) {
		return errors.NewDimensionError("Pipeline.Fit", len(records), len(y), 0)
	}
	frame, err := p.Deriver.Derive(records)
	if err != nil {
		return err
	}
	if err := p.Encoder.Fit(frame); err != nil {
		return err
	}
	X, err := p.Encoder.Transform(frame)
	if err != nil {
		return err
	}
	if nc, ok := p.Regressor.(model.NativeCategorical); ok {
		nc.SetCategoricalFeatures(p.Encoder.CategoricalIndices())
	}

	yMat := mat.NewDense(len(y), 1, append([]float64(nil), y...))
	return p.Regressor.Fit(X, yMat)
}

// Predict returns one prediction per record.
func (p *Pipeline) Predict(records []preprocessing.RawRecord) ([]float64, error) {
	frame, err := p.Deriver.Derive(records)
	if err != nil {
		return nil, err
	}
	X, err := p.Encoder.Transform(frame)
	if err != nil {
		return nil, err
	}
	pred, err := p.Regressor.Predict(X)
	if err != nil {
		return nil, err
	}

	n, _ := pred.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = pred.At(i, 0)
	}
	return out, nil
}

// PredictValue predicts a single record without missing-field diagnostics.
// Sweeps use it to avoid a warning per grid point.
func (p *Pipeline) PredictValue(rec preprocessing.RawRecord) (float64, error) {
	out, err := p.Predict([]preprocessing.RawRecord{rec})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// PredictRecord predicts a single record, emitting a warning listing any
// declared feature fields the record does not carry. Missing fields are
// tolerated; the model routes them through its default directions.
func (p *Pipeline) PredictRecord(rec preprocessing.RawRecord) (float64, error) {
	if missing := p.Deriver.MissingFields(rec); len(missing) > 0 {
		errors.Warn(errors.NewMissingValueWarning(missing))
	}
	return p.PredictValue(rec)
}

// FeatureNames returns the post-encoding model input names.
func (p *Pipeline) FeatureNames() []string {
	return p.Encoder.FeatureNames()
}

// InputFeatures returns the declared raw feature fields, numeric then
// categorical. This is what the artifact manifest records.
func (p *Pipeline) InputFeatures() []string {
	names := append([]string(nil), p.Deriver.NumericFeatures...)
	return append(names, p.Deriver.CategoricalFeatures...)
}
