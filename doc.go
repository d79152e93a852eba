// Package aquaml predicts the adsorption capacity qe (mg/g) of activated
// carbons for pharmaceutical pollutants from synthesis conditions, adsorbent
// properties and process conditions.
//
// The module is organized as a training study plus an inference surface:
//
//   - preprocessing derives model features from raw records: solute
//     descriptor join, elemental molar ratios, coercion and encoding
//   - boosting implements the gradient-boosted tree and additive regressors
//     behind the model pool
//   - pipeline composes deriver, encoder and regressor, and builds the
//     fixed candidate roster with explicit skips for absent backends
//   - evaluation runs the tournament: shared folds, cross-validation,
//     ranking, out-of-fold diagnostics and figures
//   - tuning randomizes hyperparameters over the two best candidates
//   - report writes the xlsx workbook of summaries, folds, OOF and tuning
//   - artifact persists the winning pipeline with a JSON manifest
//   - sweep answers what-if questions on a fitted pipeline
//   - dataset handles batch CSV/XLSX tables with per-row failure isolation
//
// See examples/train, examples/predict_sweep and examples/batch_predict for
// end-to-end usage.
package aquaml
