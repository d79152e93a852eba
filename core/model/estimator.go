// Package model provides the shared estimator interfaces and base types for
// Aqua-ML regressors and transformers.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on X (n_samples x n_features) and y (n_samples x 1).
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can predict.
type Predictor interface {
	// Predict returns an n_samples x 1 matrix of predictions.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R² of the prediction.
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces a pool regressor must satisfy.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// NativeCategorical is implemented by regressors that consume category-coded
// columns directly, without one-hot expansion. The indices refer to columns
// of the encoded design matrix.
type NativeCategorical interface {
	SetCategoricalFeatures(indices []int)
}

// ParameterGetter exposes a model's hyperparameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter allows hyperparameter modification; used by the randomized
// search to apply sampled assignments.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters. Unknown keys are an error.
	SetParams(params map[string]interface{}) error
}
