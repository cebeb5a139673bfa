// Package report renders the benchmark results into a human-readable
// markdown document and a confusion-matrix heatmap for the best model.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/YuminosukeSato/sensorbench/eval"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Entry is one configuration's outcome: either an evaluation summary or the
// error that stopped it. Failed configurations are rendered explicitly, never
// silently dropped.
type Entry struct {
	Label   string
	Summary *eval.Summary
	Err     error
}

// Meta describes the run for the report header.
type Meta struct {
	DatasetPath string
	Rows        int
	Columns     int
	TrainRows   int
	TestRows    int
	Seed        int64
	GeneratedAt time.Time
}

// Best returns the entry with the highest test accuracy, or nil when every
// configuration failed.
func Best(entries []Entry) *Entry {
	var best *Entry
	for i := range entries {
		e := &entries[i]
		if e.Summary == nil {
			continue
		}
		if best == nil || e.Summary.TestAccuracy > best.Summary.TestAccuracy {
			best = e
		}
	}
	return best
}

// Render writes the markdown report.
func Render(w io.Writer, entries []Entry, meta Meta) error {
	fmt.Fprintf(w, "# Sensor Activity Classification Benchmark\n\n")
	fmt.Fprintf(w, "Generated %s.\n\n", meta.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Dataset `%s`: %d rows, %d columns after filtering. ", meta.DatasetPath, meta.Rows, meta.Columns)
	fmt.Fprintf(w, "Stratified split (seed %d): %d training rows, %d test rows.\n\n", meta.Seed, meta.TrainRows, meta.TestRows)

	fmt.Fprintf(w, "## Model comparison\n\n")
	fmt.Fprintf(w, "| Model | Train time | Train accuracy | Test accuracy | 95%% CI |\n")
	fmt.Fprintf(w, "|---|---|---|---|---|\n")
	for _, e := range entries {
		if e.Summary == nil {
			continue
		}
		s := e.Summary
		fmt.Fprintf(w, "| %s | %s | %.4f | %.4f | [%.4f, %.4f] |\n",
			s.Label, formatDuration(s.TrainTime), s.TrainAccuracy, s.TestAccuracy, s.CILow, s.CIHigh)
	}
	fmt.Fprintf(w, "\n")

	if failed := failedEntries(entries); len(failed) > 0 {
		fmt.Fprintf(w, "## Failed configurations\n\n")
		fmt.Fprintf(w, "The following configurations did not produce a model:\n\n")
		for _, e := range failed {
			fmt.Fprintf(w, "- **%s**: %v\n", e.Label, e.Err)
		}
		fmt.Fprintf(w, "\n")
	}

	best := Best(entries)
	if best == nil {
		fmt.Fprintf(w, "No configuration produced a model; no confusion matrix to report.\n")
		return nil
	}

	fmt.Fprintf(w, "## Confusion matrix: %s\n\n", best.Summary.Label)
	renderConfusion(w, best.Summary.Confusion)
	return nil
}

func failedEntries(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// renderConfusion writes the matrix as a markdown table, true labels on rows,
// with per-class recall in the last column.
func renderConfusion(w io.Writer, m *eval.ConfusionMatrix) {
	fmt.Fprintf(w, "| true \\ predicted |")
	for _, c := range m.Classes {
		fmt.Fprintf(w, " %s |", c)
	}
	fmt.Fprintf(w, " recall |\n|---|")
	for range m.Classes {
		fmt.Fprintf(w, "---|")
	}
	fmt.Fprintf(w, "---|\n")

	for i, c := range m.Classes {
		fmt.Fprintf(w, "| **%s** |", c)
		for j := range m.Classes {
			fmt.Fprintf(w, " %d |", m.Counts[i][j])
		}
		fmt.Fprintf(w, " %.3f |\n", m.Recall(i))
	}
	fmt.Fprintf(w, "\n")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}

// WriteFiles renders report.md, and confusion_matrix.png for the best model,
// into dir.
func WriteFiles(dir string, entries []Entry, meta Meta) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewStorageError("write", dir, err)
	}

	path := filepath.Join(dir, "report.md")
	f, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("write", path, err)
	}
	defer f.Close()
	if err := Render(f, entries, meta); err != nil {
		return err
	}

	if best := Best(entries); best != nil {
		if err := SaveConfusionHeatmap(best.Summary.Confusion, filepath.Join(dir, "confusion_matrix.png")); err != nil {
			return err
		}
	}
	return nil
}
