package tuning

import (
	"math/rand/v2"
	"sort"

	"github.com/MerveCeylanX/Aqua-ML-App/config"
	"github.com/MerveCeylanX/Aqua-ML-App/core/model"
	"github.com/MerveCeylanX/Aqua-ML-App/evaluation"
	"github.com/MerveCeylanX/Aqua-ML-App/pipeline"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/log"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// CandidateTuning is one tuned candidate's search outcome. Score and Params
// stay nil when the candidate could not be searched: missing from the pool,
// backend absent or no defined space.
type CandidateTuning struct {
	Name   string
	Score  *float64 // mean CV R² of the best assignment
	Params map[string]interface{}
	Reason string // why the candidate was not searched, "" otherwise
}

// Result is the overall tuning outcome. Best is the winning pipeline refit
// on the full training data with its best assignment; nil when nothing was
// searchable. BestParams is that assignment, empty when the defaults won.
type Result struct {
	BestName   string
	BestScore  float64
	BestParams map[string]interface{}
	Best       *pipeline.Pipeline
	Log        []CandidateTuning
}

// Sink receives the tuning log. Failures are the caller's to downgrade.
type Sink interface {
	SaveTuning(entries []CandidateTuning) error
}

// RunHPOTop2 tunes the two best-ranked candidates with randomized search.
// Iteration zero of each search evaluates the candidate's current defaults,
// so a finished search never scores below the untuned pipeline. Candidates
// that cannot be searched are logged with nil score and never chosen; ties
// between the two searches keep the higher-ranked candidate.
func RunHPOTop2(cfg config.Config, pool []pipeline.Candidate, ranked []evaluation.CandidateScore,
	records []preprocessing.RawRecord, y []float64, sink Sink) (*Result, error) {

	logger := log.GetLoggerWithName("tuning")
	res := &Result{}

	kf := evaluation.NewKFold(cfg.FoldCount, cfg.Seed)
	folds, err := kf.Split(len(records))
	if err != nil {
		return nil, err
	}

	top := ranked
	if len(top) > 2 {
		top = top[:2]
	}

	for _, entry := range top {
		cand := findCandidate(pool, entry.Name)
		if cand == nil || !cand.Available() {
			res.Log = append(res.Log, CandidateTuning{
				Name:   entry.Name,
				Reason: "candidate not available in the pool",
			})
			continue
		}
		space := SearchSpace(cand.Kind)
		if len(space) == 0 {
			res.Log = append(res.Log, CandidateTuning{
				Name:   entry.Name,
				Reason: "no search space defined for " + cand.Kind,
			})
			continue
		}

		logger.Info("tuning candidate",
			log.CandidateKey, cand.Name,
			"iterations", cfg.SearchIterations)

		score, params, err := randomizedSearch(cfg, *cand, space, records, y, folds)
		if err != nil {
			return nil, errors.Wrapf(err, "tuning %s", cand.Name)
		}
		s := score
		res.Log = append(res.Log, CandidateTuning{Name: cand.Name, Score: &s, Params: params})

		logger.Info("search finished",
			log.CandidateKey, cand.Name,
			log.R2ScoreKey, score)

		// Strict comparison: the earlier (higher ranked) candidate wins ties.
		if res.Best == nil || score > res.BestScore {
			pipe, err := applyParams(cand.Build(), params)
			if err != nil {
				return nil, err
			}
			if err := pipe.Fit(records, y); err != nil {
				return nil, errors.Wrapf(err, "refitting tuned %s", cand.Name)
			}
			res.BestName = cand.Name
			res.BestScore = score
			res.BestParams = params
			res.Best = pipe
		}
	}

	if sink != nil && len(res.Log) > 0 {
		if err := sink.SaveTuning(res.Log); err != nil {
			errors.Warn(errors.NewPersistenceWarning("tuning log", cfg.ReportPath(), err))
		}
	}

	return res, nil
}

// TunedCandidate wraps the tuning winner as a pool candidate whose Build
// applies the winning assignment, so the winner can be re-evaluated with the
// standard harness. ok is false when nothing was tuned or the winner is no
// longer in the pool.
func TunedCandidate(pool []pipeline.Candidate, res *Result) (pipeline.Candidate, bool) {
	if res == nil || res.Best == nil {
		return pipeline.Candidate{}, false
	}
	src := findCandidate(pool, res.BestName)
	if src == nil {
		return pipeline.Candidate{}, false
	}

	build := src.Build
	params := res.BestParams
	return pipeline.Candidate{
		Name: src.Name,
		Kind: src.Kind,
		Build: func() *pipeline.Pipeline {
			// The assignment was already validated by the search.
			pipe, _ := applyParams(build(), params)
			return pipe
		},
	}, true
}

// randomizedSearch draws cfg.SearchIterations assignments from space and
// returns the best mean CV R² with its assignment. The first iteration is
// always the empty assignment, scoring the candidate's defaults.
func randomizedSearch(cfg config.Config, cand pipeline.Candidate, space Space,
	records []preprocessing.RawRecord, y []float64, folds []evaluation.Fold) (float64, map[string]interface{}, error) {

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))

	names := make([]string, 0, len(space))
	for name := range space {
		names = append(names, name)
	}
	sort.Strings(names)

	bestScore := 0.0
	var bestParams map[string]interface{}
	first := true

	for iter := 0; iter < cfg.SearchIterations; iter++ {
		params := map[string]interface{}{}
		if iter > 0 {
			for _, name := range names {
				values := space[name]
				params[name] = values[rng.IntN(len(values))]
			}
		}

		score, err := scoreAssignment(cand, params, records, y, folds)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "iteration %d", iter)
		}

		if first || score > bestScore {
			bestScore = score
			bestParams = params
			first = false
		}
	}

	return bestScore, bestParams, nil
}

// scoreAssignment cross-validates one assignment, building a fresh pipeline
// per fold so folds stay independent.
func scoreAssignment(cand pipeline.Candidate, params map[string]interface{},
	records []preprocessing.RawRecord, y []float64, folds []evaluation.Fold) (float64, error) {

	// Validate the assignment once; folds then apply it without error
	// handling inside the closure.
	if _, err := applyParams(cand.Build(), params); err != nil {
		return 0, err
	}
	build := func() *pipeline.Pipeline {
		pipe, _ := applyParams(cand.Build(), params)
		return pipe
	}

	scores, err := evaluation.CrossValidate(build, records, y, folds)
	if err != nil {
		return 0, err
	}
	var mean float64
	for _, s := range scores {
		mean += s.R2
	}
	return mean / float64(len(scores)), nil
}

func applyParams(pipe *pipeline.Pipeline, params map[string]interface{}) (*pipeline.Pipeline, error) {
	if len(params) == 0 {
		return pipe, nil
	}
	setter, ok := pipe.Regressor.(model.ParameterSetter)
	if !ok {
		return nil, errors.NewValueError("applyParams", "regressor does not accept parameters")
	}
	if err := setter.SetParams(params); err != nil {
		return nil, err
	}
	return pipe, nil
}

func findCandidate(pool []pipeline.Candidate, name string) *pipeline.Candidate {
	for i := range pool {
		if pool[i].Name == name {
			return &pool[i]
		}
	}
	return nil
}
