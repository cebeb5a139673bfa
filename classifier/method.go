// Package classifier trains the benchmark's classification models.
//
// Five methods are supported, each behind the same Fit entry point:
// linear discriminant analysis, quadratic discriminant analysis, gradient
// boosting, a rule-based ensemble and a random forest. Model selection is an
// explicit enumeration; there is no string-based dynamic dispatch beyond
// parsing configuration input.
package classifier

import (
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Method enumerates the supported training methods.
type Method string

const (
	// MethodLDA is linear discriminant analysis.
	MethodLDA Method = "lda"
	// MethodQDA is quadratic discriminant analysis.
	MethodQDA Method = "qda"
	// MethodGBM is gradient boosting over shallow regression trees.
	MethodGBM Method = "gbm"
	// MethodRuleEnsemble is a bagged ensemble of single-split rules.
	MethodRuleEnsemble Method = "rules"
	// MethodRandomForest is a random forest of CART trees.
	MethodRandomForest Method = "rf"
)

// Methods returns all supported methods in report order.
func Methods() []Method {
	return []Method{MethodLDA, MethodQDA, MethodGBM, MethodRuleEnsemble, MethodRandomForest}
}

// ParseMethod converts a configuration string into a Method.
// Unrecognized names fail with an UnknownMethodError.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodLDA, MethodQDA, MethodGBM, MethodRuleEnsemble, MethodRandomForest:
		return Method(s), nil
	default:
		return "", errors.NewUnknownMethodError(s)
	}
}

// DisplayName returns the label used in the report when the configuration
// does not override it.
func (m Method) DisplayName() string {
	switch m {
	case MethodLDA:
		return "Linear Discriminant Analysis"
	case MethodQDA:
		return "Quadratic Discriminant Analysis"
	case MethodGBM:
		return "Gradient Boosting"
	case MethodRuleEnsemble:
		return "Rule Ensemble"
	case MethodRandomForest:
		return "Random Forest"
	default:
		return string(m)
	}
}
