package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/sensorbench/classifier"
	"github.com/YuminosukeSato/sensorbench/config"
	serrors "github.com/YuminosukeSato/sensorbench/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"SENSORBENCH_CONFIG",
		"SENSORBENCH_DATASET",
		"SENSORBENCH_LABEL_COLUMN",
		"SENSORBENCH_TRAIN_FRACTION",
		"SENSORBENCH_SEED",
		"SENSORBENCH_CACHE_DIR",
		"SENSORBENCH_WORKERS",
	} {
		_ = os.Unsetenv(v)
	}
}

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LabelColumn != "classe" {
		t.Errorf("LabelColumn = %q, want %q", cfg.LabelColumn, "classe")
	}
	if cfg.IDColumn != "X" {
		t.Errorf("IDColumn = %q, want %q", cfg.IDColumn, "X")
	}
	if cfg.TrainFraction != 0.7 {
		t.Errorf("TrainFraction = %v, want 0.7", cfg.TrainFraction)
	}
	if cfg.Seed != 12345 {
		t.Errorf("Seed = %d, want 12345", cfg.Seed)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := writeTempYAML(t, `
dataset: sensors.csv
label_column: activity
train_fraction: 0.8
seed: 99
methods:
  - lda
  - rf
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dataset != "sensors.csv" {
		t.Errorf("Dataset = %q, want %q", cfg.Dataset, "sensors.csv")
	}
	if cfg.LabelColumn != "activity" {
		t.Errorf("LabelColumn = %q, want %q", cfg.LabelColumn, "activity")
	}
	if cfg.TrainFraction != 0.8 {
		t.Errorf("TrainFraction = %v, want 0.8", cfg.TrainFraction)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	// Unspecified fields keep their defaults.
	if cfg.CacheDir != "model_cache" {
		t.Errorf("CacheDir = %q, want default %q", cfg.CacheDir, "model_cache")
	}
	if len(cfg.Methods) != 2 {
		t.Fatalf("Methods = %v, want 2 entries", cfg.Methods)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := writeTempYAML(t, `
dataset: from-file.csv
seed: 7
`)
	t.Setenv("SENSORBENCH_DATASET", "from-env.csv")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dataset != "from-env.csv" {
		t.Errorf("Dataset = %q, want env override %q", cfg.Dataset, "from-env.csv")
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want file value 7", cfg.Seed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load() with missing file should fail")
	}
	var storageErr *serrors.StorageError
	if !serrors.As(err, &storageErr) {
		t.Errorf("error = %T, want *StorageError", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *config.Config) {},
		},
		{
			name:    "empty dataset",
			mutate:  func(c *config.Config) { c.Dataset = "" },
			wantErr: "dataset path must not be empty",
		},
		{
			name:    "empty label column",
			mutate:  func(c *config.Config) { c.LabelColumn = "" },
			wantErr: "label_column must not be empty",
		},
		{
			name:    "fraction zero",
			mutate:  func(c *config.Config) { c.TrainFraction = 0 },
			wantErr: "train_fraction",
		},
		{
			name:    "fraction one",
			mutate:  func(c *config.Config) { c.TrainFraction = 1 },
			wantErr: "train_fraction",
		},
		{
			name:    "empty cache dir",
			mutate:  func(c *config.Config) { c.CacheDir = "" },
			wantErr: "cache_dir",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestSpecs(t *testing.T) {
	cfg := config.New()

	all, err := cfg.Specs()
	if err != nil {
		t.Fatalf("Specs() error = %v", err)
	}
	if len(all) != len(classifier.Methods()) {
		t.Errorf("Specs() returned %d specs, want %d", len(all), len(classifier.Methods()))
	}

	cfg.Methods = []string{"qda", "gbm"}
	subset, err := cfg.Specs()
	if err != nil {
		t.Fatalf("Specs() error = %v", err)
	}
	if len(subset) != 2 {
		t.Fatalf("Specs() returned %d specs, want 2", len(subset))
	}
	if subset[0].Method != classifier.MethodQDA || subset[1].Method != classifier.MethodGBM {
		t.Errorf("Specs() order = %v, %v; want qda, gbm", subset[0].Method, subset[1].Method)
	}
	for _, s := range subset {
		if s.Seed != cfg.Seed {
			t.Errorf("spec %v seed = %d, want %d", s.Method, s.Seed, cfg.Seed)
		}
	}

	cfg.Methods = []string{"svm"}
	if _, err := cfg.Specs(); err == nil {
		t.Error("Specs() with unknown method should fail")
	} else {
		var unknownErr *serrors.UnknownMethodError
		if !serrors.As(err, &unknownErr) {
			t.Errorf("error = %T, want *UnknownMethodError", err)
		}
	}
}
