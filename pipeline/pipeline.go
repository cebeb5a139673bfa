// Package pipeline orchestrates one benchmark run: load the dataset, filter
// columns, stratify the split, resolve each model configuration through the
// artifact cache, evaluate on the held-out rows and render the report.
package pipeline

import (
	"context"
	"time"

	"github.com/YuminosukeSato/sensorbench/cache"
	"github.com/YuminosukeSato/sensorbench/classifier"
	"github.com/YuminosukeSato/sensorbench/dataset"
	"github.com/YuminosukeSato/sensorbench/eval"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
	"github.com/YuminosukeSato/sensorbench/pkg/log"
	"github.com/YuminosukeSato/sensorbench/report"
)

// Options configures one run.
type Options struct {
	DatasetPath   string
	LabelColumn   string
	IDColumn      string
	TrainFraction float64
	Seed          int64

	CacheDir  string
	ReportDir string
	Workers   int

	// Specs are the model configurations to train and compare.
	Specs []classifier.Spec

	// SubmissionPath optionally points at a second, unlabeled dataset.
	// When set, the best model writes one prediction file per row into
	// SubmissionDir.
	SubmissionPath string
	SubmissionDir  string
}

// Result is the outcome of a run: one entry per configuration, the report
// metadata, and the best entry by test accuracy (nil if all failed).
type Result struct {
	Entries []report.Entry
	Meta    report.Meta
	Best    *report.Entry
}

// Run executes the pipeline. Training of independent configurations is
// spread over a bounded executor; one configuration's failure is isolated
// into its report entry and never aborts siblings. Run itself fails only on
// whole-run problems: unreadable dataset, infeasible split, unwritable
// report.
func Run(ctx context.Context, opts Options, logger log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.NewSlogLogger(nil)
	}

	ds, err := dataset.Load(opts.DatasetPath)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded",
		log.OperationKey, "load",
		log.RowsKey, ds.NumRows(),
		log.ColumnsKey, ds.NumColumns(),
	)

	filtered, err := dataset.FilterColumns(ds, opts.LabelColumn, opts.IDColumn)
	if err != nil {
		return nil, err
	}
	logger.Info("columns filtered",
		log.OperationKey, "filter",
		log.ColumnsKey, filtered.NumColumns(),
	)

	split, err := dataset.StratifiedSplit(filtered, opts.LabelColumn, opts.TrainFraction, opts.Seed)
	if err != nil {
		return nil, err
	}
	train := filtered.Select(split.TrainIndices)
	test := filtered.Select(split.TestIndices)
	logger.Info("dataset partitioned",
		log.OperationKey, "split",
		log.SeedKey, opts.Seed,
		log.TrainRowsKey, train.NumRows(),
		log.TestRowsKey, test.NumRows(),
	)

	store := cache.NewStore(opts.CacheDir)
	entries := make([]report.Entry, len(opts.Specs))

	jobs := make([]func() error, len(opts.Specs))
	for i := range opts.Specs {
		i := i
		spec := opts.Specs[i]
		jobs[i] = func() error {
			entries[i] = resolveAndEvaluate(ctx, store, spec, train, test, opts.LabelColumn, logger)
			return entries[i].Err
		}
	}
	NewExecutor(opts.Workers).Run(ctx, jobs)

	for i, spec := range opts.Specs {
		if entries[i].Label == "" {
			// Job never started (cancellation); still flag it in the report.
			entries[i] = report.Entry{Label: spec.DisplayLabel(), Err: errors.Wrap(ctx.Err(), "configuration not run")}
		}
	}

	meta := report.Meta{
		DatasetPath: opts.DatasetPath,
		Rows:        ds.NumRows(),
		Columns:     filtered.NumColumns(),
		TrainRows:   train.NumRows(),
		TestRows:    test.NumRows(),
		Seed:        opts.Seed,
		GeneratedAt: time.Now(),
	}
	result := &Result{Entries: entries, Meta: meta, Best: report.Best(entries)}

	if opts.ReportDir != "" {
		if err := report.WriteFiles(opts.ReportDir, entries, meta); err != nil {
			return nil, err
		}
		logger.Info("report written", log.OperationKey, "render", "dir", opts.ReportDir)
	}

	if opts.SubmissionPath != "" && result.Best != nil && result.Best.Summary != nil {
		model, _, err := store.Resolve(ctx, specByLabel(opts.Specs, result.Best.Label), train, opts.LabelColumn)
		if err != nil {
			return nil, err
		}
		if err := WriteSubmissionPredictions(model, opts.SubmissionPath, opts.SubmissionDir); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// resolveAndEvaluate handles one configuration end to end. Every failure is
// captured in the entry rather than propagated.
func resolveAndEvaluate(ctx context.Context, store *cache.Store, spec classifier.Spec, train, test *dataset.Dataset, labelCol string, logger log.Logger) report.Entry {
	entry := report.Entry{Label: spec.DisplayLabel()}

	fp, err := cache.Fingerprint(spec)
	if err != nil {
		entry.Err = err
		return entry
	}
	modelLogger := logger.With(
		log.MethodKey, string(spec.Method),
		log.ModelLabelKey, entry.Label,
		log.FingerprintKey, fp,
	)

	start := time.Now()
	model, hit, err := store.Resolve(ctx, spec, train, labelCol)
	if err != nil {
		modelLogger.Error("model resolution failed", log.ErrAttrKey, err)
		entry.Err = err
		return entry
	}
	modelLogger.Info("model resolved",
		log.OperationKey, "fit",
		log.CacheHitKey, hit,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.TrainAccuracyKey, model.BestTuneAccuracy,
	)

	summary, err := eval.Evaluate(model, test, labelCol)
	if err != nil {
		modelLogger.Error("evaluation failed", log.ErrAttrKey, err)
		entry.Err = err
		return entry
	}
	modelLogger.Info("model evaluated",
		log.OperationKey, "evaluate",
		log.TestAccuracyKey, summary.TestAccuracy,
	)
	entry.Summary = summary
	return entry
}

// specByLabel finds the configuration behind a report label. The labels are
// unique per run since each method appears once in the default set; duplicate
// labels resolve to the first match.
func specByLabel(specs []classifier.Spec, label string) classifier.Spec {
	for _, s := range specs {
		if s.DisplayLabel() == label {
			return s
		}
	}
	return specs[0]
}
