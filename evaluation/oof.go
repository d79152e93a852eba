package evaluation

import (
	"math"
	"sort"

	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// OOFRow is one sample's out-of-fold diagnostic row.
type OOFRow struct {
	Index     int
	Substance string
	YTrue     float64
	YPred     float64
	Err       float64
	AbsErr    float64
	SqErr     float64
	APE       float64 // NaN when YTrue is zero
}

// SubstanceStat aggregates OOF error per substance code.
type SubstanceStat struct {
	Code string
	N    int
	MAE  float64
	RMSE float64
	MAPE float64 // NaN when no row has a defined APE
}

// OOFReport is the per-sample and per-substance view of out-of-fold error.
// Rows are sorted worst-first by absolute error; substances worst-first by
// MAE.
type OOFReport struct {
	Rows        []OOFRow
	BySubstance []SubstanceStat
}

// BuildOOFReport assembles the report from aligned true values, out-of-fold
// predictions and per-row substance codes. A zero true value makes that
// row's percentage error undefined (NaN) rather than infinite.
func BuildOOFReport(yTrue, oofPred []float64, records []preprocessing.RawRecord) *OOFReport {
	n := len(yTrue)
	rows := make([]OOFRow, n)
	for i := 0; i < n; i++ {
		e := yTrue[i] - oofPred[i]
		ape := math.NaN()
		if yTrue[i] != 0 {
			ape = math.Abs(e) / math.Abs(yTrue[i]) * 100
		}
		rows[i] = OOFRow{
			Index:     i,
			Substance: substanceOf(records[i]),
			YTrue:     yTrue[i],
			YPred:     oofPred[i],
			Err:       e,
			AbsErr:    math.Abs(e),
			SqErr:     e * e,
			APE:       ape,
		}
	}

	groups := make(map[string][]OOFRow)
	var codes []string
	for _, r := range rows {
		if _, seen := groups[r.Substance]; !seen {
			codes = append(codes, r.Substance)
		}
		groups[r.Substance] = append(groups[r.Substance], r)
	}

	stats := make([]SubstanceStat, 0, len(codes))
	for _, code := range codes {
		g := groups[code]
		var sumAbs, sumSq, sumAPE float64
		nAPE := 0
		for _, r := range g {
			sumAbs += r.AbsErr
			sumSq += r.SqErr
			if !math.IsNaN(r.APE) {
				sumAPE += r.APE
				nAPE++
			}
		}
		mape := math.NaN()
		if nAPE > 0 {
			mape = sumAPE / float64(nAPE)
		}
		stats = append(stats, SubstanceStat{
			Code: code,
			N:    len(g),
			MAE:  sumAbs / float64(len(g)),
			RMSE: math.Sqrt(sumSq / float64(len(g))),
			MAPE: mape,
		})
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].AbsErr > rows[b].AbsErr })
	sort.SliceStable(stats, func(a, b int) bool { return stats[a].MAE > stats[b].MAE })

	return &OOFReport{Rows: rows, BySubstance: stats}
}

func substanceOf(rec preprocessing.RawRecord) string {
	for k, v := range rec {
		if preprocessing.NormalizeCode(k) == preprocessing.NormalizeCode(preprocessing.SubstanceColumn) {
			if s, ok := v.(string); ok {
				return preprocessing.NormalizeCode(s)
			}
		}
	}
	return ""
}
