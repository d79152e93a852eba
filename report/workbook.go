// Package report writes the run's workbook: candidate summary, winner fold
// detail, out-of-fold diagnostics and the tuning log, one sheet each.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/MerveCeylanX/Aqua-ML-App/evaluation"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/log"
	"github.com/MerveCeylanX/Aqua-ML-App/tuning"
)

// WorkbookSink accumulates sheets in one xlsx file. Each Save* call opens
// the workbook (creating it on first use), replaces its sheet and writes the
// file back, so partial runs still leave a readable workbook.
type WorkbookSink struct {
	Path string
}

// NewWorkbookSink returns a sink writing to path.
func NewWorkbookSink(path string) *WorkbookSink {
	return &WorkbookSink{Path: path}
}

var _ evaluation.Sink = (*WorkbookSink)(nil)
var _ tuning.Sink = (*WorkbookSink)(nil)

// SaveEvaluation writes the candidate summary and, when a winner exists, its
// per-fold sheet. Sheet names carry the phase so pre- and post-tuning runs
// coexist in one workbook.
func (s *WorkbookSink) SaveEvaluation(phase string, rep *evaluation.Report) error {
	return s.withWorkbook(func(f *excelize.File) error {
		sheet := phase + "_ML_Summary"
		if err := resetSheet(f, sheet); err != nil {
			return err
		}

		header := []interface{}{
			"Model", "CV_R2", "CV_RMSE", "CV_MAE",
			"Train_R2", "Train_RMSE", "Train_MAE",
			"Test_R2", "Test_RMSE", "Test_MAE", "Note",
		}
		if err := writeRow(f, sheet, 1, header); err != nil {
			return err
		}
		for i, c := range rep.All {
			var row []interface{}
			if c.Skipped {
				row = []interface{}{c.Name, nil, nil, nil, nil, nil, nil, nil, nil, nil, c.SkipReason}
			} else {
				row = []interface{}{
					c.Name, cell(c.CVR2), cell(c.CVRMSE), cell(c.CVMAE),
					cell(c.TrainR2), cell(c.TrainRMSE), cell(c.TrainMAE),
					cell(c.TestR2), cell(c.TestRMSE), cell(c.TestMAE), "",
				}
			}
			if err := writeRow(f, sheet, i+2, row); err != nil {
				return err
			}
		}

		if rep.BestName == "" {
			return nil
		}
		foldSheet := phase + "_BestModel_Folds"
		if err := resetSheet(f, foldSheet); err != nil {
			return err
		}
		if err := writeRow(f, foldSheet, 1, []interface{}{"Fold", "N_Val", "R2", "RMSE", "MAE"}); err != nil {
			return err
		}
		for _, c := range rep.Ranked {
			if c.Name != rep.BestName {
				continue
			}
			for i, fs := range c.Folds {
				row := []interface{}{fs.Fold + 1, fs.NVal, cell(fs.R2), cell(fs.RMSE), cell(fs.MAE)}
				if err := writeRow(f, foldSheet, i+2, row); err != nil {
					return err
				}
			}
			break
		}
		return nil
	})
}

// SaveOOF writes the winner's out-of-fold rows and per-substance aggregate,
// tagged by phase and model name.
func (s *WorkbookSink) SaveOOF(phase, modelName string, oof *evaluation.OOFReport) error {
	return s.withWorkbook(func(f *excelize.File) error {
		tag := sheetSafe(modelName)

		detail := phase + "_" + tag + "__OOF_Detailed"
		if err := resetSheet(f, detail); err != nil {
			return err
		}
		header := []interface{}{"Row", "Target_Phar", "y_true", "y_pred_oof", "error", "abs_error", "sq_error", "APE_%"}
		if err := writeRow(f, detail, 1, header); err != nil {
			return err
		}
		for i, r := range oof.Rows {
			row := []interface{}{r.Index + 1, r.Substance, cell(r.YTrue), cell(r.YPred), cell(r.Err), cell(r.AbsErr), cell(r.SqErr), cell(r.APE)}
			if err := writeRow(f, detail, i+2, row); err != nil {
				return err
			}
		}

		byDrug := phase + "_" + tag + "__OOF_ByDrug"
		if err := resetSheet(f, byDrug); err != nil {
			return err
		}
		if err := writeRow(f, byDrug, 1, []interface{}{"Target_Phar", "n", "MAE", "RMSE", "MAPE_%"}); err != nil {
			return err
		}
		for i, g := range oof.BySubstance {
			row := []interface{}{g.Code, g.N, cell(g.MAE), cell(g.RMSE), cell(g.MAPE)}
			if err := writeRow(f, byDrug, i+2, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveTuning writes the search log: one row per tuned candidate, untunable
// ones with empty score and the reason.
func (s *WorkbookSink) SaveTuning(entries []tuning.CandidateTuning) error {
	return s.withWorkbook(func(f *excelize.File) error {
		sheet := "HP_Tuning"
		if err := resetSheet(f, sheet); err != nil {
			return err
		}
		if err := writeRow(f, sheet, 1, []interface{}{"Model", "Best_CV_R2", "Best_Params", "Note"}); err != nil {
			return err
		}
		for i, e := range entries {
			var score interface{}
			if e.Score != nil {
				score = cell(*e.Score)
			}
			row := []interface{}{e.Name, score, fmt.Sprintf("%v", e.Params), e.Reason}
			if err := writeRow(f, sheet, i+2, row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *WorkbookSink) withWorkbook(fn func(*excelize.File) error) error {
	var f *excelize.File
	if _, err := os.Stat(s.Path); err == nil {
		f, err = excelize.OpenFile(s.Path)
		if err != nil {
			return errors.Wrapf(err, "opening workbook %s", s.Path)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
			return errors.WithStack(err)
		}
		f = excelize.NewFile()
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.GetLoggerWithName("report").Warn("closing workbook", log.ErrAttrKey, err)
		}
	}()

	if err := fn(f); err != nil {
		return err
	}
	if err := f.SaveAs(s.Path); err != nil {
		return errors.Wrapf(err, "saving workbook %s", s.Path)
	}
	return nil
}

// resetSheet deletes and recreates a sheet so repeated runs do not append
// onto stale rows.
func resetSheet(f *excelize.File, name string) error {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return errors.WithStack(err)
	}
	if idx >= 0 {
		if err := f.DeleteSheet(name); err != nil {
			return errors.WithStack(err)
		}
	}
	if _, err := f.NewSheet(name); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cellRef, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// cell maps NaN to nil so the workbook shows an empty cell, not a broken
// number.
func cell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// sheetSafe trims a model name to excelize's 31-char sheet limit budget and
// replaces characters xlsx forbids in sheet names.
func sheetSafe(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	if len(out) > 10 {
		out = out[:10]
	}
	return string(out)
}
