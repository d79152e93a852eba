package evaluation

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

var (
	trainColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	testColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	barColor   = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// SaveScatterGrid renders one predicted-vs-actual panel per trained
// candidate, train and test points overlaid with the identity line, tiled
// into a single PNG.
func SaveScatterGrid(rep *Report,
	trainRecords []preprocessing.RawRecord, yTrain []float64,
	testRecords []preprocessing.RawRecord, yTest []float64,
	path string) error {

	if len(rep.Ranked) == 0 {
		return nil
	}

	cols := 3
	rows := (len(rep.Ranked) + cols - 1) / cols

	img := vgimg.New(vg.Points(320*float64(cols)), vg.Points(280*float64(rows)))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Points(12), PadY: vg.Points(12),
		PadTop: vg.Points(6), PadBottom: vg.Points(6),
		PadLeft: vg.Points(6), PadRight: vg.Points(6),
	}

	for i, score := range rep.Ranked {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s (test R²=%.3f)", score.Name, score.TestR2)
		p.X.Label.Text = "actual qe (mg/g)"
		p.Y.Label.Text = "predicted qe (mg/g)"

		trainPred, err := score.Fitted.Predict(trainRecords)
		if err != nil {
			return err
		}
		testPred, err := score.Fitted.Predict(testRecords)
		if err != nil {
			return err
		}

		trainPts, err := plotter.NewScatter(xyPairs(yTrain, trainPred))
		if err != nil {
			return err
		}
		trainPts.GlyphStyle.Color = trainColor
		trainPts.GlyphStyle.Radius = vg.Points(1.5)

		testPts, err := plotter.NewScatter(xyPairs(yTest, testPred))
		if err != nil {
			return err
		}
		testPts.GlyphStyle.Color = testColor
		testPts.GlyphStyle.Radius = vg.Points(2)

		lo, hi := dataRange(yTrain, yTest)
		ident := plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}}
		line, err := plotter.NewLine(ident)
		if err != nil {
			return err
		}
		line.LineStyle.Color = color.Gray{Y: 128}
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

		p.Add(line, trainPts, testPts)
		p.Legend.Add("train", trainPts)
		p.Legend.Add("test", testPts)
		p.Legend.Top = true

		p.Draw(tiles.At(dc, i%cols, i/cols))
	}

	return writePNG(img, path)
}

// SaveOOFFigure renders the per-substance out-of-fold MAE as a bar chart,
// worst substances first.
func SaveOOFFigure(oof *OOFReport, path string) error {
	if len(oof.BySubstance) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = "out-of-fold MAE by substance"
	p.Y.Label.Text = "MAE (mg/g)"

	values := make(plotter.Values, len(oof.BySubstance))
	names := make([]string, len(oof.BySubstance))
	for i, s := range oof.BySubstance {
		values[i] = s.MAE
		names[i] = s.Code
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(names...)

	if err := ensureDir(path); err != nil {
		return err
	}
	return p.Save(vg.Points(560), vg.Points(320), path)
}

func xyPairs(actual []float64, predicted []float64) plotter.XYs {
	pts := make(plotter.XYs, len(actual))
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = predicted[i]
	}
	return pts
}

func dataRange(a, b []float64) (lo, hi float64) {
	first := true
	for _, xs := range [][]float64{a, b} {
		for _, v := range xs {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func writePNG(img *vgimg.Canvas, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
