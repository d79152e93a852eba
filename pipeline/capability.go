package pipeline

// Backend kind identifiers for the pool candidates.
const (
	KindCatBoost     = "catboost"
	KindLightGBMGBDT = "lightgbm-gbdt"
	KindLightGBMDART = "lightgbm-dart"
	KindXGBoost      = "xgboost"
	KindHistGBR      = "histgbr"
	KindEBM          = "ebm"
)

// Capabilities records which regressor backends this build provides. It is
// computed once at startup and consumed by the pool builder; candidates for
// absent backends stay in the pool as explicit skips.
type Capabilities struct {
	CatBoost    bool
	LightGBM    bool
	XGBoost     bool
	HistGBR     bool
	EBM         bool
	Unavailable map[string]string
}

// DetectCapabilities reports the backends compiled into this binary. The
// gradient-boosted tree engine covers the LightGBM modes and the histogram
// regressor; the additive engine covers EBM. CatBoost and XGBoost have no
// native engine here and are reported with reasons.
func DetectCapabilities() Capabilities {
	return Capabilities{
		LightGBM: true,
		HistGBR:  true,
		EBM:      true,
		Unavailable: map[string]string{
			KindCatBoost: "no CatBoost engine is linked into this build",
			KindXGBoost:  "no XGBoost engine is linked into this build",
		},
	}
}

// Reason returns the unavailability reason for kind, or "".
func (c Capabilities) Reason(kind string) string {
	return c.Unavailable[kind]
}
