package classifier

import (
	"encoding/json"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// LDAOptions configures linear discriminant analysis.
type LDAOptions struct {
	// Regularization is added to the diagonal of the pooled covariance
	// before factorisation.
	Regularization float64 `json:"regularization"`
}

// QDAOptions configures quadratic discriminant analysis.
type QDAOptions struct {
	// Regularization is added to the diagonal of each class covariance.
	Regularization float64 `json:"regularization"`
}

// GBMOptions configures gradient boosting.
type GBMOptions struct {
	Trees        int     `json:"trees"`
	Depth        int     `json:"depth"`
	LearningRate float64 `json:"learning_rate"`
	MinLeaf      int     `json:"min_leaf"`
}

// RuleOptions configures the rule ensemble.
type RuleOptions struct {
	Rules          int     `json:"rules"`
	SampleFraction float64 `json:"sample_fraction"`
}

// ForestOptions configures the random forest.
type ForestOptions struct {
	Trees    int `json:"trees"`
	MaxDepth int `json:"max_depth"`
	MinLeaf  int `json:"min_leaf"`
	// Mtry is the number of candidate features per split; 0 selects
	// floor(sqrt(p)) at fit time.
	Mtry int `json:"mtry"`
}

// Spec is one model configuration: a method plus only that method's options.
// Exactly one of the option fields may be set, and it must match Method.
//
// The training data and the feature/label layout are deliberately not part of
// a Spec; they are passed to Fit as arguments and are excluded from the
// cache fingerprint.
type Spec struct {
	Method Method `json:"method"`
	// Label overrides the method's display name in the report.
	Label string `json:"label,omitempty"`
	// Seed drives all stochastic parts of training for this configuration.
	Seed int64 `json:"seed"`

	LDA    *LDAOptions    `json:"lda,omitempty"`
	QDA    *QDAOptions    `json:"qda,omitempty"`
	GBM    *GBMOptions    `json:"gbm,omitempty"`
	Rules  *RuleOptions   `json:"rules,omitempty"`
	Forest *ForestOptions `json:"forest,omitempty"`
}

// DisplayLabel returns the report label for this configuration.
func (s Spec) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Method.DisplayName()
}

// Validate checks that the method is known and the options match it.
func (s Spec) Validate() error {
	if _, err := ParseMethod(string(s.Method)); err != nil {
		return err
	}
	set := 0
	if s.LDA != nil {
		set++
		if s.Method != MethodLDA {
			return errors.NewValueError("Spec.Validate", "lda options set for method "+string(s.Method))
		}
	}
	if s.QDA != nil {
		set++
		if s.Method != MethodQDA {
			return errors.NewValueError("Spec.Validate", "qda options set for method "+string(s.Method))
		}
	}
	if s.GBM != nil {
		set++
		if s.Method != MethodGBM {
			return errors.NewValueError("Spec.Validate", "gbm options set for method "+string(s.Method))
		}
	}
	if s.Rules != nil {
		set++
		if s.Method != MethodRuleEnsemble {
			return errors.NewValueError("Spec.Validate", "rules options set for method "+string(s.Method))
		}
	}
	if s.Forest != nil {
		set++
		if s.Method != MethodRandomForest {
			return errors.NewValueError("Spec.Validate", "forest options set for method "+string(s.Method))
		}
	}
	if set > 1 {
		return errors.NewValueError("Spec.Validate", "more than one option block set")
	}
	return nil
}

// Canonical returns the canonical serialized form of the configuration.
// Struct field order is fixed, so equal configurations are byte-identical.
func (s Spec) Canonical() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "serializing model configuration")
	}
	return b, nil
}

// DefaultSpecs returns the five standard benchmark configurations.
func DefaultSpecs(seed int64) []Spec {
	return []Spec{
		{Method: MethodLDA, Seed: seed, LDA: &LDAOptions{Regularization: 1e-6}},
		{Method: MethodQDA, Seed: seed, QDA: &QDAOptions{Regularization: 1e-4}},
		{Method: MethodGBM, Seed: seed, GBM: &GBMOptions{Trees: 100, Depth: 3, LearningRate: 0.1, MinLeaf: 10}},
		{Method: MethodRuleEnsemble, Seed: seed, Rules: &RuleOptions{Rules: 50, SampleFraction: 0.8}},
		{Method: MethodRandomForest, Seed: seed, Forest: &ForestOptions{Trees: 200, MaxDepth: 12, MinLeaf: 2}},
	}
}
