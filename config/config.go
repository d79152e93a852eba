// Package config holds the process-wide training and output settings.
// Entry points receive a Config explicitly; there are no ambient globals.
package config

import "path/filepath"

// Config collects the knobs shared by the evaluation harness, the tuner and
// the report writers.
type Config struct {
	// Seed fixes every random choice (train/test split, fold shuffling,
	// bagging, randomized search) for reproducibility.
	Seed int

	// TestFraction is the held-out share of the train/test partition.
	TestFraction float64

	// FoldCount is k for cross-validation. The same fold assignment is used
	// for candidate ranking, out-of-fold diagnostics and tuning.
	FoldCount int

	// SearchIterations is the randomized-search budget per tuned candidate.
	SearchIterations int

	// OutputDir receives data artifacts (workbook report, saved model).
	OutputDir string

	// FigureDir receives diagnostic figures.
	FigureDir string
}

// Default returns the canonical configuration used by the original study.
func Default() Config {
	return Config{
		Seed:             42,
		TestFraction:     0.2,
		FoldCount:        5,
		SearchIterations: 30,
		OutputDir:        "data",
		FigureDir:        "figures",
	}
}

// ReportPath is the workbook that collects summary, fold, OOF and tuning
// sheets.
func (c Config) ReportPath() string {
	return filepath.Join(c.OutputDir, "Raw_data_enriched.xlsx")
}

// FigurePath returns the path for a named figure.
func (c Config) FigurePath(name string) string {
	return filepath.Join(c.FigureDir, name)
}
