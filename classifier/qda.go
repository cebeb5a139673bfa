package classifier

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// QDAModel holds per-class Gaussians with their own covariance. The
// discriminant for class k is
//
//	-0.5*((x-mu_k)' Sigma_k^-1 (x-mu_k) + log|Sigma_k|) + log prior_k
type QDAModel struct {
	Means     [][]float64
	InvCov    [][][]float64
	LogDets   []float64
	LogPriors []float64
}

// PredictRow implements Predictor.
func (m *QDAModel) PredictRow(x []float64) int {
	best, bestScore := 0, m.score(0, x)
	for k := 1; k < len(m.Means); k++ {
		if s := m.score(k, x); s > bestScore {
			best, bestScore = k, s
		}
	}
	return best
}

func (m *QDAModel) score(k int, x []float64) float64 {
	mu := m.Means[k]
	inv := m.InvCov[k]
	p := len(mu)

	quad := 0.0
	for a := 0; a < p; a++ {
		da := x[a] - mu[a]
		for b := 0; b < p; b++ {
			quad += da * inv[a][b] * (x[b] - mu[b])
		}
	}
	return -0.5*(quad+m.LogDets[k]) + m.LogPriors[k]
}

// fitQDA estimates one Gaussian per class: mean, covariance (with diagonal
// regularization), its inverse and log-determinant via Cholesky.
func fitQDA(rows [][]float64, y []int, classes int, opts *QDAOptions) (*QDAModel, error) {
	if opts == nil {
		opts = &QDAOptions{Regularization: 1e-4}
	}
	n := len(rows)
	p := len(rows[0])

	means, counts := classMeans(rows, y, classes)
	model := &QDAModel{
		Means:     means,
		InvCov:    make([][][]float64, classes),
		LogDets:   make([]float64, classes),
		LogPriors: make([]float64, classes),
	}

	for k := 0; k < classes; k++ {
		if counts[k] < 2 {
			return nil, errors.Newf("class %d has %d training rows; QDA needs at least 2", k, counts[k])
		}

		cov := mat.NewSymDense(p, nil)
		for i, row := range rows {
			if y[i] != k {
				continue
			}
			for a := 0; a < p; a++ {
				da := row[a] - means[k][a]
				for b := a; b < p; b++ {
					cov.SetSym(a, b, cov.At(a, b)+da*(row[b]-means[k][b]))
				}
			}
		}
		denom := float64(counts[k] - 1)
		for a := 0; a < p; a++ {
			for b := a; b < p; b++ {
				cov.SetSym(a, b, cov.At(a, b)/denom)
			}
			cov.SetSym(a, a, cov.At(a, a)+opts.Regularization)
		}

		var chol mat.Cholesky
		if ok := chol.Factorize(cov); !ok {
			return nil, errors.WithStack(errors.ErrSingularMatrix)
		}
		model.LogDets[k] = chol.LogDet()

		var inv mat.SymDense
		if err := chol.InverseTo(&inv); err != nil {
			return nil, errors.Wrap(err, "inverting class covariance")
		}
		model.InvCov[k] = make([][]float64, p)
		for a := 0; a < p; a++ {
			model.InvCov[k][a] = make([]float64, p)
			for b := 0; b < p; b++ {
				model.InvCov[k][a][b] = inv.At(a, b)
			}
		}
		model.LogPriors[k] = logPrior(counts[k], n)
	}
	return model, nil
}
