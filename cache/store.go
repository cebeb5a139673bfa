package cache

import (
	"bytes"
	"context"
	"encoding/gob"

	"github.com/peterbourgon/diskv"

	"github.com/YuminosukeSato/sensorbench/classifier"
	"github.com/YuminosukeSato/sensorbench/dataset"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Store is a disk-backed model artifact store. One gob file per distinct
// configuration fingerprint lives under the base directory.
//
// No mutual exclusion is provided: two concurrent Resolve calls for the same
// fingerprint race on the existence check and may both train. The artifacts
// are functionally equivalent and the last writer wins, which is acceptable
// for a single-operator batch run.
type Store struct {
	dv *diskv.Diskv
}

// NewStore creates a Store rooted at dir. Keys map to flat file names.
func NewStore(dir string) *Store {
	return &Store{
		dv: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 64 * 1024 * 1024,
		}),
	}
}

// Resolve returns the fitted model for a configuration, training it only when
// no artifact exists.
//
// On a hit the artifact is returned as-is: the training data supplied to this
// call is NOT revalidated against the cached model. Because the fingerprint
// excludes the training data, changing the dataset under unchanged options
// silently reuses the stale model. That is the intended trade-off for fast
// hyperparameter iteration against a fixed dataset; wipe the cache directory
// after changing the data.
//
// The returned bool reports whether the model came from the cache.
func (s *Store) Resolve(ctx context.Context, spec classifier.Spec, train *dataset.Dataset, labelCol string) (*classifier.Fitted, bool, error) {
	fp, err := Fingerprint(spec)
	if err != nil {
		return nil, false, err
	}
	key := Key(fp)

	if s.dv.Has(key) {
		fitted, err := s.read(key)
		if err != nil {
			return nil, false, err
		}
		return fitted, true, nil
	}

	fitted, err := classifier.Fit(ctx, spec, train, labelCol)
	if err != nil {
		return nil, false, err
	}
	if err := s.write(key, fitted); err != nil {
		return nil, false, err
	}
	return fitted, false, nil
}

// Has reports whether an artifact exists for the configuration.
func (s *Store) Has(spec classifier.Spec) (bool, error) {
	fp, err := Fingerprint(spec)
	if err != nil {
		return false, err
	}
	return s.dv.Has(Key(fp)), nil
}

// Erase removes the artifact for the configuration, if present.
func (s *Store) Erase(spec classifier.Spec) error {
	fp, err := Fingerprint(spec)
	if err != nil {
		return err
	}
	key := Key(fp)
	if !s.dv.Has(key) {
		return nil
	}
	if err := s.dv.Erase(key); err != nil {
		return errors.NewStorageError("erase", key, err)
	}
	return nil
}

func (s *Store) read(key string) (*classifier.Fitted, error) {
	b, err := s.dv.Read(key)
	if err != nil {
		return nil, errors.NewStorageError("read", key, err)
	}
	var fitted classifier.Fitted
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&fitted); err != nil {
		return nil, errors.NewStorageError("decode", key, err)
	}
	return &fitted, nil
}

func (s *Store) write(key string, fitted *classifier.Fitted) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(fitted); err != nil {
		return errors.NewStorageError("encode", key, err)
	}
	if err := s.dv.Write(key, buf.Bytes()); err != nil {
		return errors.NewStorageError("write", key, err)
	}
	return nil
}
