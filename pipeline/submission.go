package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"

	"github.com/YuminosukeSato/sensorbench/classifier"
	"github.com/YuminosukeSato/sensorbench/dataset"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// WriteSubmissionPredictions classifies every row of an unlabeled dataset and
// writes one small text file per row containing the predicted label, named
// case_0001.txt onward in row order.
func WriteSubmissionPredictions(model *classifier.Fitted, unlabeledPath, outDir string) error {
	ds, err := dataset.Load(unlabeledPath)
	if err != nil {
		return err
	}
	preds, err := model.Predict(ds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.NewStorageError("write", outDir, err)
	}

	bar := pb.StartNew(len(preds))
	defer bar.Finish()
	for i, label := range preds {
		path := filepath.Join(outDir, fmt.Sprintf("case_%04d.txt", i+1))
		if err := os.WriteFile(path, []byte(label+"\n"), 0o644); err != nil {
			return errors.NewStorageError("write", path, err)
		}
		bar.Increment()
	}
	return nil
}
