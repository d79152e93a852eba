// Package errors provides error handling and the warning channel for the
// Aqua-ML training and inference core. Error types carry stack traces via
// cockroachdb/errors and marshal structured detail into zerolog events.
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("AquaML-Warning: %v\n", w)
	}
	// zerolog sink, injected lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the process-wide warning handler.
// Warnings never abort an operation; they only surface through this hook.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc routes warnings into a zerolog logger. When set it takes
// precedence over the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the configured handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// DataConversionWarning is raised when a value is coerced to another type,
// e.g. an unparseable numeric cell becoming NaN.
type DataConversionWarning struct {
	Field    string
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("field %q converted from %s to %s: %s", w.Field, w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject adds structured warning detail to a zerolog event.
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("field", w.Field).
		Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning creates a new DataConversionWarning.
func NewDataConversionWarning(field, from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{Field: field, FromType: from, ToType: to, Reason: reason}
}

// UndefinedMetricWarning is raised when a metric cannot be computed for part
// of the input, e.g. percentage error where the true value is zero.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined due to %s; affected rows are excluded", w.Metric, w.Condition)
}

// MarshalZerologObject adds structured warning detail to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition}
}

// PersistenceWarning is raised when a diagnostic artifact (figure, workbook
// sheet) cannot be written. Report writes are best-effort and never abort a
// training run.
type PersistenceWarning struct {
	Artifact string
	Path     string
	Err      error
}

func (w *PersistenceWarning) Error() string {
	return fmt.Sprintf("failed to write %s to %s: %v", w.Artifact, w.Path, w.Err)
}

func (w *PersistenceWarning) Unwrap() error { return w.Err }

// MarshalZerologObject adds structured warning detail to a zerolog event.
func (w *PersistenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("artifact", w.Artifact).
		Str("path", w.Path).
		AnErr("cause", w.Err).
		Str("type", "PersistenceWarning")
}

// NewPersistenceWarning creates a new PersistenceWarning.
func NewPersistenceWarning(artifact, path string, err error) *PersistenceWarning {
	return &PersistenceWarning{Artifact: artifact, Path: path, Err: err}
}

// MissingValueWarning lists input fields that were absent from a record.
// Prediction proceeds with the missing values propagated as NaN.
type MissingValueWarning struct {
	Fields []string
}

func (w *MissingValueWarning) Error() string {
	return fmt.Sprintf("missing values for fields: %s; prediction validity may be reduced",
		strings.Join(w.Fields, ", "))
}

// MarshalZerologObject adds structured warning detail to a zerolog event.
func (w *MissingValueWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Strs("fields", w.Fields).
		Str("type", "MissingValueWarning")
}

// NewMissingValueWarning creates a new MissingValueWarning.
func NewMissingValueWarning(fields []string) *MissingValueWarning {
	return &MissingValueWarning{Fields: fields}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict or Transform is called on a model
// that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("aquaml: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error detail to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports an input whose dimensions differ from what the
// operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("aquaml: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error detail to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("aquaml: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general error raised by a model operation.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("aquaml: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("aquaml: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace attached.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	Domain error types
//
// ===========================================================================

// MissingArtifactError is returned when a persisted model or manifest file
// is absent. Fatal: inference must not proceed.
type MissingArtifactError struct {
	Path string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("aquaml: model artifact not found: %s", e.Path)
}

// MarshalZerologObject adds structured error detail to a zerolog event.
func (e *MissingArtifactError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).Str("type", "MissingArtifactError")
}

// NewMissingArtifactError creates a MissingArtifactError with a stack trace.
func NewMissingArtifactError(path string) error {
	return errors.WithStack(&MissingArtifactError{Path: path})
}

// InvalidManifestError is returned when the persisted feature manifest is
// empty or malformed. Fatal: the loader refuses the artifact.
type InvalidManifestError struct {
	Path   string
	Reason string
}

func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("aquaml: invalid model manifest %s: %s", e.Path, e.Reason)
}

// MarshalZerologObject adds structured error detail to a zerolog event.
func (e *InvalidManifestError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).Str("reason", e.Reason).Str("type", "InvalidManifestError")
}

// NewInvalidManifestError creates an InvalidManifestError with a stack trace.
func NewInvalidManifestError(path, reason string) error {
	return errors.WithStack(&InvalidManifestError{Path: path, Reason: reason})
}

// MissingRequiredFieldError is returned when a batch table lacks one of the
// fixed-name required columns. Fatal for that table.
type MissingRequiredFieldError struct {
	Fields []string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("aquaml: required column(s) missing: %s", strings.Join(e.Fields, ", "))
}

// MarshalZerologObject adds structured error detail to a zerolog event.
func (e *MissingRequiredFieldError) MarshalZerologObject(event *zerolog.Event) {
	event.Strs("fields", e.Fields).Str("type", "MissingRequiredFieldError")
}

// NewMissingRequiredFieldError creates a MissingRequiredFieldError with a
// stack trace attached.
func NewMissingRequiredFieldError(fields []string) error {
	return errors.WithStack(&MissingRequiredFieldError{Fields: fields})
}

// UnresolvableFeatureSetError is returned when neither numeric nor
// categorical features can be resolved from the available columns.
type UnresolvableFeatureSetError struct {
	Target string
}

func (e *UnresolvableFeatureSetError) Error() string {
	return fmt.Sprintf("aquaml: no usable features found for target %q (numeric and categorical lists are both empty)", e.Target)
}

// NewUnresolvableFeatureSetError creates an UnresolvableFeatureSetError with
// a stack trace attached.
func NewUnresolvableFeatureSetError(target string) error {
	return errors.WithStack(&UnresolvableFeatureSetError{Target: target})
}

// PredictionFailureError wraps a regressor failure for a specific row or
// grid point. Recovered locally: the row is flagged or the point dropped.
type PredictionFailureError struct {
	Context string // e.g. "row 12", "Solution_pH=2.0"
	Err     error
}

func (e *PredictionFailureError) Error() string {
	return fmt.Sprintf("aquaml: prediction failed for %s: %v", e.Context, e.Err)
}

func (e *PredictionFailureError) Unwrap() error { return e.Err }

// MarshalZerologObject adds structured error detail to a zerolog event.
func (e *PredictionFailureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("context", e.Context).AnErr("cause", e.Err).Str("type", "PredictionFailureError")
}

// NewPredictionFailureError creates a PredictionFailureError.
func NewPredictionFailureError(context string, err error) error {
	return errors.WithStack(&PredictionFailureError{Context: context, Err: err})
}

// LibraryUnavailableError records an optional model backend that is not
// linked into the current runtime. Never fatal: the candidate becomes a
// skipped placeholder.
type LibraryUnavailableError struct {
	Backend string
	Reason  string
}

func (e *LibraryUnavailableError) Error() string {
	return fmt.Sprintf("aquaml: backend %q unavailable: %s", e.Backend, e.Reason)
}

// NewLibraryUnavailableError creates a LibraryUnavailableError.
func NewLibraryUnavailableError(backend, reason string) *LibraryUnavailableError {
	return &LibraryUnavailableError{Backend: backend, Reason: reason}
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to err.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no data.
	ErrEmptyData = New("empty data")
)
