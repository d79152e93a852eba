package evaluation

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/MerveCeylanX/Aqua-ML-App/config"
	"github.com/MerveCeylanX/Aqua-ML-App/metrics"
	"github.com/MerveCeylanX/Aqua-ML-App/pipeline"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/log"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// CandidateScore is one pool candidate's tournament line: cross-validation
// means, train split fit and test split fit. Skipped candidates carry only
// the reason.
type CandidateScore struct {
	Name       string
	Kind       string
	Skipped    bool
	SkipReason string

	Folds  []FoldScore
	CVR2   float64
	CVRMSE float64
	CVMAE  float64

	TrainR2   float64
	TrainRMSE float64
	TrainMAE  float64
	TestR2    float64
	TestRMSE  float64
	TestMAE   float64

	// Fitted is the pipeline trained on the full train split.
	Fitted *pipeline.Pipeline
}

// Report is the tournament outcome. Ranked lists only trained candidates,
// best first; All preserves the pool roster order including skips.
type Report struct {
	All      []CandidateScore
	Ranked   []CandidateScore
	BestName string
	Best     *pipeline.Pipeline
	OOF      *OOFReport
}

// Sink receives evaluation artifacts. Sink failures degrade the run to
// warnings; the in-memory Report is always complete.
type Sink interface {
	SaveEvaluation(phase string, rep *Report) error
	SaveOOF(phase, model string, oof *OOFReport) error
}

// Phase tags for report sheets and figures.
const (
	PhasePre  = "PRE"
	PhasePost = "POST"
)

// EvaluateAndReport runs the full tournament: every available candidate is
// cross-validated on the train split with a shared fold assignment, refit on
// the whole train split and scored on the test split. Candidates rank by CV
// RMSE, ties by CV R² then test R². The winner additionally gets
// out-of-fold diagnostics on the same folds. An empty or fully skipped pool
// yields a well-formed empty report, not an error.
func EvaluateAndReport(cfg config.Config, pool []pipeline.Candidate,
	trainRecords []preprocessing.RawRecord, yTrain []float64,
	testRecords []preprocessing.RawRecord, yTest []float64,
	phase string, sink Sink) (*Report, error) {

	logger := log.GetLoggerWithName("evaluation")
	rep := &Report{}

	if len(pool) == 0 {
		logger.Warn("model pool is empty; nothing to evaluate")
		return rep, nil
	}

	kf := NewKFold(cfg.FoldCount, cfg.Seed)
	folds, err := kf.Split(len(trainRecords))
	if err != nil {
		return nil, err
	}

	for _, cand := range pool {
		if !cand.Available() {
			logger.Info("skipping candidate",
				log.CandidateKey, cand.Name,
				"reason", cand.SkipReason())
			rep.All = append(rep.All, CandidateScore{
				Name:       cand.DisplayName(),
				Kind:       cand.Kind,
				Skipped:    true,
				SkipReason: cand.SkipReason(),
			})
			continue
		}

		score, err := scoreCandidate(cand, trainRecords, yTrain, testRecords, yTest, folds)
		if err != nil {
			return nil, errors.Wrapf(err, "candidate %s", cand.Name)
		}
		logger.Info("candidate evaluated",
			log.CandidateKey, cand.Name,
			log.RMSEKey, score.CVRMSE,
			log.R2ScoreKey, score.CVR2)
		rep.All = append(rep.All, score)
	}

	for _, s := range rep.All {
		if !s.Skipped {
			rep.Ranked = append(rep.Ranked, s)
		}
	}
	sort.SliceStable(rep.Ranked, func(a, b int) bool {
		ra, rb := rep.Ranked[a], rep.Ranked[b]
		if ra.CVRMSE != rb.CVRMSE {
			return ra.CVRMSE < rb.CVRMSE
		}
		if ra.CVR2 != rb.CVR2 {
			return ra.CVR2 > rb.CVR2
		}
		return ra.TestR2 > rb.TestR2
	})

	if len(rep.Ranked) == 0 {
		logger.Warn("no candidate could be trained; report is empty")
		return rep, nil
	}

	best := rep.Ranked[0]
	rep.BestName = best.Name
	rep.Best = best.Fitted
	logger.Info("best model selected",
		log.ModelNameKey, best.Name,
		log.RMSEKey, best.CVRMSE,
		log.R2ScoreKey, best.TestR2)

	// Out-of-fold diagnostics for the winner, same folds as the ranking.
	var bestCand *pipeline.Candidate
	for i := range pool {
		if pool[i].Available() && pool[i].Name == best.Name {
			bestCand = &pool[i]
			break
		}
	}
	if bestCand != nil {
		oofPred, err := CrossValPredict(bestCand.Build, trainRecords, yTrain, folds)
		if err != nil {
			return nil, errors.Wrapf(err, "out-of-fold predictions for %s", best.Name)
		}
		rep.OOF = BuildOOFReport(yTrain, oofPred, trainRecords)
	}

	if sink != nil {
		if err := sink.SaveEvaluation(phase, rep); err != nil {
			errors.Warn(errors.NewPersistenceWarning("evaluation report", cfg.ReportPath(), err))
		}
		if rep.OOF != nil {
			if err := sink.SaveOOF(phase, best.Name, rep.OOF); err != nil {
				errors.Warn(errors.NewPersistenceWarning("OOF report", cfg.ReportPath(), err))
			}
		}
	}

	// Figures are best effort.
	if err := SaveScatterGrid(rep, trainRecords, yTrain, testRecords, yTest, cfg.FigurePath(phase+"_model_fits.png")); err != nil {
		errors.Warn(errors.NewPersistenceWarning("scatter figure", cfg.FigurePath(phase+"_model_fits.png"), err))
	}
	if rep.OOF != nil {
		if err := SaveOOFFigure(rep.OOF, cfg.FigurePath(phase+"_oof_error.png")); err != nil {
			errors.Warn(errors.NewPersistenceWarning("OOF figure", cfg.FigurePath(phase+"_oof_error.png"), err))
		}
	}

	return rep, nil
}

func scoreCandidate(cand pipeline.Candidate,
	trainRecords []preprocessing.RawRecord, yTrain []float64,
	testRecords []preprocessing.RawRecord, yTest []float64,
	folds []Fold) (CandidateScore, error) {

	score := CandidateScore{Name: cand.Name, Kind: cand.Kind}

	foldScores, err := CrossValidate(cand.Build, trainRecords, yTrain, folds)
	if err != nil {
		return score, err
	}
	score.Folds = foldScores
	for _, f := range foldScores {
		score.CVR2 += f.R2
		score.CVRMSE += f.RMSE
		score.CVMAE += f.MAE
	}
	k := float64(len(foldScores))
	score.CVR2 /= k
	score.CVRMSE /= k
	score.CVMAE /= k

	pipe := cand.Build()
	if err := pipe.Fit(trainRecords, yTrain); err != nil {
		return score, err
	}
	score.Fitted = pipe

	if score.TrainR2, score.TrainRMSE, score.TrainMAE, err = splitMetrics(pipe, trainRecords, yTrain); err != nil {
		return score, err
	}
	if score.TestR2, score.TestRMSE, score.TestMAE, err = splitMetrics(pipe, testRecords, yTest); err != nil {
		return score, err
	}
	return score, nil
}

func splitMetrics(pipe *pipeline.Pipeline, records []preprocessing.RawRecord, y []float64) (r2, rmse, mae float64, err error) {
	preds, err := pipe.Predict(records)
	if err != nil {
		return 0, 0, 0, err
	}
	yTrue := mat.NewVecDense(len(y), append([]float64(nil), y...))
	yPred := mat.NewVecDense(len(preds), preds)

	if r2, err = metrics.R2Score(yTrue, yPred); err != nil {
		return 0, 0, 0, err
	}
	if rmse, err = metrics.RMSE(yTrue, yPred); err != nil {
		return 0, 0, 0, err
	}
	if mae, err = metrics.MAE(yTrue, yPred); err != nil {
		return 0, 0, 0, err
	}
	return r2, rmse, mae, nil
}
