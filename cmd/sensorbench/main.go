// Command sensorbench trains and compares sensor-activity classifiers,
// caches the fitted models, and renders a markdown comparison report.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"

	"github.com/YuminosukeSato/sensorbench/config"
	"github.com/YuminosukeSato/sensorbench/pipeline"
	"github.com/YuminosukeSato/sensorbench/pkg/log"
)

type args struct {
	Config     string   `arg:"-c,--config" help:"path to YAML configuration file"`
	Dataset    string   `arg:"--dataset" help:"labeled training CSV (overrides config)"`
	Seed       int64    `arg:"--seed" default:"-1" help:"random seed (overrides config)"`
	Methods    []string `arg:"--method,separate" help:"classifier to benchmark; repeatable (default: all)"`
	CacheDir   string   `arg:"--cache-dir" help:"fitted model cache directory (overrides config)"`
	ReportDir  string   `arg:"--report-dir" help:"report output directory (overrides config)"`
	Submission string   `arg:"--submission" help:"unlabeled CSV to score with the best model"`
	Workers    int      `arg:"--workers" help:"max concurrent model trainings (overrides config)"`
}

func (args) Version() string {
	return "sensorbench 1.0.0"
}

func (args) Description() string {
	return `train LDA, QDA, gradient boosting, rule ensemble and random forest
classifiers on a labeled sensor dataset and compare their held-out accuracy`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sensorbench: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var a args
	arg.MustParse(&a)

	path := a.Config
	if path == "" {
		path = config.EnvConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if a.Dataset != "" {
		cfg.Dataset = a.Dataset
	}
	if a.Seed >= 0 {
		cfg.Seed = a.Seed
	}
	if len(a.Methods) > 0 {
		cfg.Methods = a.Methods
	}
	if a.CacheDir != "" {
		cfg.CacheDir = a.CacheDir
	}
	if a.ReportDir != "" {
		cfg.ReportDir = a.ReportDir
	}
	if a.Submission != "" {
		cfg.Submission = a.Submission
	}
	if a.Workers > 0 {
		cfg.Workers = a.Workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.SetupLogger(cfg.LogLevel)
	logger := log.NewSlogLogger(slog.Default())

	specs, err := cfg.Specs()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Run(ctx, pipeline.Options{
		DatasetPath:    cfg.Dataset,
		LabelColumn:    cfg.LabelColumn,
		IDColumn:       cfg.IDColumn,
		TrainFraction:  cfg.TrainFraction,
		Seed:           cfg.Seed,
		CacheDir:       cfg.CacheDir,
		ReportDir:      cfg.ReportDir,
		Workers:        cfg.Workers,
		Specs:          specs,
		SubmissionPath: cfg.Submission,
		SubmissionDir:  cfg.SubmissionDir,
	}, logger)
	if err != nil {
		return err
	}

	if result.Best != nil && result.Best.Summary != nil {
		s := result.Best.Summary
		fmt.Printf("best model: %s  accuracy %.4f  95%% CI [%.4f, %.4f]\n",
			result.Best.Label, s.TestAccuracy, s.CILow, s.CIHigh)
	} else {
		fmt.Println("no configuration trained successfully; see report for details")
	}
	for _, e := range result.Entries {
		if e.Err != nil {
			logger.Warn("configuration failed", log.ModelLabelKey, e.Label, log.ErrAttrKey, e.Err)
		}
	}
	return nil
}
