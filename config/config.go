// Package config defines benchmark run configuration and its loading hooks.
package config

import (
	"runtime"

	"github.com/YuminosukeSato/sensorbench/classifier"
	serrors "github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Config contains the full configuration of a benchmark run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Dataset is the path to the labeled training CSV.
	Dataset string `koanf:"dataset"`

	// LabelColumn names the target column. Its values form the class domain.
	LabelColumn string `koanf:"label_column"`

	// IDColumn names the row-identifier column dropped before training.
	IDColumn string `koanf:"id_column"`

	// TrainFraction is the share of rows assigned to the training split,
	// stratified per class. Must lie strictly between 0 and 1.
	TrainFraction float64 `koanf:"train_fraction"`

	// Seed drives the split shuffle and every stochastic training step.
	// Two runs with equal Seed and data produce identical models.
	Seed int64 `koanf:"seed"`

	// CacheDir is the directory of the fitted-model cache.
	CacheDir string `koanf:"cache_dir"`

	// ReportDir receives report.md and the confusion heatmap. Empty disables
	// file output.
	ReportDir string `koanf:"report_dir"`

	// Workers bounds concurrent model training. Zero means NumCPU.
	Workers int `koanf:"workers"`

	// Methods selects which classifiers to benchmark. Empty means all.
	Methods []string `koanf:"methods"`

	// Submission is the path to an unlabeled CSV scored by the best model.
	// Empty disables submission output.
	Submission string `koanf:"submission"`

	// SubmissionDir receives one prediction file per submission row.
	SubmissionDir string `koanf:"submission_dir"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Dataset:       "data/pml-training.csv",
		LabelColumn:   "classe",
		IDColumn:      "X",
		TrainFraction: 0.7,
		Seed:          12345,
		CacheDir:      "model_cache",
		ReportDir:     "reports",
		Workers:       runtime.NumCPU(),
		Submission:    "",
		SubmissionDir: "submission",
	}
}

// Specs expands Methods into classifier specifications with default
// hyperparameters. Empty Methods selects every supported method.
func (c *Config) Specs() ([]classifier.Spec, error) {
	all := classifier.DefaultSpecs(c.Seed)
	if len(c.Methods) == 0 {
		return all, nil
	}

	byMethod := make(map[classifier.Method]classifier.Spec, len(all))
	for _, s := range all {
		byMethod[s.Method] = s
	}

	specs := make([]classifier.Spec, 0, len(c.Methods))
	for _, name := range c.Methods {
		m, err := classifier.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, byMethod[m])
	}
	return specs, nil
}

// Validate checks invariants that hold regardless of how the Config was
// produced.
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return serrors.NewValueError("config.Validate", "dataset path must not be empty")
	}
	if c.LabelColumn == "" {
		return serrors.NewValueError("config.Validate", "label_column must not be empty")
	}
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return serrors.NewValueError("config.Validate", "train_fraction must lie strictly between 0 and 1")
	}
	if c.CacheDir == "" {
		return serrors.NewValueError("config.Validate", "cache_dir must not be empty")
	}
	return nil
}
