// Package log defines standard attribute keys for the benchmark pipeline.
//
// Using these keys consistently across the run makes the JSON logs filterable
// by stage, model and cache behaviour. The keys follow a hierarchical naming
// convention (e.g. "model.method", "data.rows").

package log

// Model and operation context.
const (
	// MethodKey identifies the training method.
	// Examples: "lda", "qda", "gbm", "ruleboost", "rf"
	MethodKey = "model.method"

	// ModelLabelKey is the human-readable label used in the report.
	ModelLabelKey = "model.label"

	// OperationKey specifies the pipeline operation being performed.
	// Standard values: "load", "filter", "split", "fit", "predict", "evaluate", "render"
	OperationKey = "ml.operation"

	// FingerprintKey carries the configuration fingerprint used as cache key.
	FingerprintKey = "model.fingerprint"

	// CacheHitKey records whether a model was loaded from the artifact store.
	CacheHitKey = "cache.hit"
)

// Data shape.
const (
	// RowsKey indicates the number of rows in the dataset being processed.
	RowsKey = "data.rows"

	// ColumnsKey indicates the number of columns after filtering.
	ColumnsKey = "data.columns"

	// TrainRowsKey and TestRowsKey record the stratified split sizes.
	TrainRowsKey = "data.train_rows"
	TestRowsKey  = "data.test_rows"
)

// Performance and metrics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// TrainAccuracyKey records in-sample accuracy at the end of training.
	TrainAccuracyKey = "metrics.train_accuracy"

	// TestAccuracyKey records held-out accuracy during evaluation.
	TestAccuracyKey = "metrics.test_accuracy"

	// SeedKey records the random seed for reproducibility.
	SeedKey = "config.seed"
)
