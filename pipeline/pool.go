package pipeline

import (
	"github.com/MerveCeylanX/Aqua-ML-App/boosting"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// Candidate is one pool entry: either a buildable pipeline or an explicit
// skip carrying the reason its backend is unavailable. Build returns a fresh
// unfitted pipeline each call so cross-validation folds and search
// iterations never share state.
type Candidate struct {
	Name        string
	Kind        string
	Build       func() *Pipeline
	Unavailable *errors.LibraryUnavailableError
}

// Available reports whether the candidate can be trained.
func (c Candidate) Available() bool { return c.Unavailable == nil }

// DisplayName is the pool name, suffixed for skipped candidates so reports
// keep a stable, readable roster.
func (c Candidate) DisplayName() string {
	if c.Available() {
		return c.Name
	}
	return c.Name + " (skipped)"
}

// SkipReason returns the unavailability reason, or "".
func (c Candidate) SkipReason() string {
	if c.Unavailable == nil {
		return ""
	}
	return c.Unavailable.Reason
}

// BuildModelPool assembles the candidate roster in its fixed order. Absent
// backends produce skip entries rather than being dropped, so downstream
// reports always show the full roster.
func BuildModelPool(caps Capabilities, fs preprocessing.FeatureSet, seed int) []Candidate {
	present := func(name, kind string, build func() *Pipeline) Candidate {
		return Candidate{Name: name, Kind: kind, Build: build}
	}
	skipped := func(name, kind string) Candidate {
		reason := caps.Reason(kind)
		if reason == "" {
			reason = "backend disabled in capability record"
		}
		return Candidate{
			Name:        name,
			Kind:        kind,
			Unavailable: errors.NewLibraryUnavailableError(name, reason),
		}
	}

	lgbm := func(mode string) func() *Pipeline {
		return func() *Pipeline {
			p := boosting.DefaultTreeParams()
			p.NumIterations = 1500
			p.LearningRate = 0.05
			p.NumLeaves = 63
			p.MinChildSamples = 5
			p.Boosting = mode
			p.Seed = seed
			return New(
				preprocessing.NewDeriver(fs),
				preprocessing.NewOrdinalEncoder(),
				boosting.NewGBTRegressor(p),
			)
		}
	}
	histgbr := func() *Pipeline {
		p := boosting.DefaultTreeParams()
		p.NumIterations = 500
		p.LearningRate = 0.08
		p.NumLeaves = 31
		p.MaxDepth = -1
		p.MinChildSamples = 20
		p.MaxBins = 255
		p.Seed = seed
		return New(
			preprocessing.NewDeriver(fs),
			preprocessing.NewOneHotEncoder(),
			boosting.NewGBTRegressor(p),
		)
	}
	ebm := func() *Pipeline {
		p := boosting.DefaultEBMParams()
		p.MaxRounds = 100
		p.Seed = seed
		return New(
			preprocessing.NewDeriver(fs),
			preprocessing.NewOneHotEncoder(),
			boosting.NewEBMRegressor(p),
		)
	}

	pool := make([]Candidate, 0, 6)

	// CatBoost and XGBoost have no engine in any build; detection always
	// reports them unavailable.
	pool = append(pool, skipped("CatBoost", KindCatBoost))
	if caps.LightGBM {
		pool = append(pool, present("LightGBM", KindLightGBMGBDT, lgbm(boosting.BoostingGBDT)))
	} else {
		pool = append(pool, skipped("LightGBM", KindLightGBMGBDT))
	}
	pool = append(pool, skipped("XGBoost", KindXGBoost))
	if caps.HistGBR {
		pool = append(pool, present("HistGBR", KindHistGBR, histgbr))
	} else {
		pool = append(pool, skipped("HistGBR", KindHistGBR))
	}
	if caps.EBM {
		pool = append(pool, present("EBM", KindEBM, ebm))
	} else {
		pool = append(pool, skipped("EBM", KindEBM))
	}
	if caps.LightGBM {
		pool = append(pool, present("LGBM-DART", KindLightGBMDART, lgbm(boosting.BoostingDART)))
	} else {
		pool = append(pool, skipped("LGBM-DART", KindLightGBMDART))
	}

	return pool
}
