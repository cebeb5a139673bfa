// Package cache persists fitted models keyed by a fingerprint of their
// configuration, so re-running the pipeline with unchanged configurations
// performs no retraining.
package cache

import (
	"github.com/google/uuid"

	"github.com/YuminosukeSato/sensorbench/classifier"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// namespace scopes the configuration fingerprints. Changing it invalidates
// every existing artifact.
var namespace = uuid.MustParse("0e14bdbc-3f2b-4a51-9690-87a4e79d8a1f")

// Fingerprint computes the stable 128-bit digest of a model configuration.
// It covers the canonical serialization of the Spec only: the training data
// and the label column are deliberately excluded, so the same options against
// a changed dataset will still hit the cache. That trade-off is documented in
// the store; this is a cache key, not a security credential.
func Fingerprint(spec classifier.Spec) (string, error) {
	b, err := spec.Canonical()
	if err != nil {
		return "", errors.Wrap(err, "fingerprinting model configuration")
	}
	return uuid.NewMD5(namespace, b).String(), nil
}

// Key returns the artifact storage key for a configuration fingerprint.
func Key(fingerprint string) string {
	return "model_" + fingerprint
}
