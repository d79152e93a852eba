// Standard attribute keys for machine learning log records. Using these
// keys keeps log analysis consistent across packages.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model or pipeline kind.
	// Examples: "GBTRegressor", "EBMRegressor", "LightGBM-GBDT"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "cross_validate", "sweep", "tune"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	// Examples: "training", "inference", "validation"
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// SamplesKey is the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// FoldKey is the cross-validation fold index.
	FoldKey = "data.fold"
)

// Metrics and performance.
const (
	// DurationMsKey records the execution time in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records an R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// RMSEKey records a root-mean-square error.
	RMSEKey = "metrics.rmse"

	// MAEKey records a mean absolute error.
	MAEKey = "metrics.mae"

	// CandidateKey names the model-pool candidate being processed.
	CandidateKey = "pool.candidate"

	// SeedKey records the random seed for reproducibility.
	SeedKey = "config.random_seed"
)

// Standard operation values.
const (
	OperationFit           = "fit"
	OperationPredict       = "predict"
	OperationTransform     = "transform"
	OperationCrossValidate = "cross_validate"
	OperationSweep         = "sweep"
	OperationTune          = "tune"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseInference  = "inference"
)
