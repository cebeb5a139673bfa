package classifier

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// logPrior is the log of the empirical class prior.
func logPrior(count, n int) float64 {
	return math.Log(float64(count) / float64(n))
}

// LDAModel holds the learned linear discriminants. The discriminant score for
// class k is Weights[k]·x + Biases[k]; prediction takes the argmax.
type LDAModel struct {
	Weights [][]float64
	Biases  []float64
}

// PredictRow implements Predictor.
func (m *LDAModel) PredictRow(x []float64) int {
	best, bestScore := 0, scoreLinear(m.Weights[0], m.Biases[0], x)
	for k := 1; k < len(m.Weights); k++ {
		if s := scoreLinear(m.Weights[k], m.Biases[k], x); s > bestScore {
			best, bestScore = k, s
		}
	}
	return best
}

func scoreLinear(w []float64, b float64, x []float64) float64 {
	s := b
	for j, v := range x {
		s += w[j] * v
	}
	return s
}

// fitLDA estimates class means, a pooled within-class covariance and priors,
// then solves for the linear discriminants with a Cholesky factorisation.
func fitLDA(rows [][]float64, y []int, classes int, opts *LDAOptions) (*LDAModel, error) {
	if opts == nil {
		opts = &LDAOptions{Regularization: 1e-6}
	}
	n := len(rows)
	p := len(rows[0])

	means, counts := classMeans(rows, y, classes)
	for k, c := range counts {
		if c == 0 {
			return nil, errors.Newf("class %d has no training rows", k)
		}
	}

	// Pooled within-class scatter, normalised by n-K.
	pooled := mat.NewSymDense(p, nil)
	for i, row := range rows {
		mu := means[y[i]]
		for a := 0; a < p; a++ {
			da := row[a] - mu[a]
			for b := a; b < p; b++ {
				pooled.SetSym(a, b, pooled.At(a, b)+da*(row[b]-mu[b]))
			}
		}
	}
	denom := float64(n - classes)
	if denom < 1 {
		denom = 1
	}
	for a := 0; a < p; a++ {
		for b := a; b < p; b++ {
			pooled.SetSym(a, b, pooled.At(a, b)/denom)
		}
		pooled.SetSym(a, a, pooled.At(a, a)+opts.Regularization)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(pooled); !ok {
		return nil, errors.WithStack(errors.ErrSingularMatrix)
	}

	model := &LDAModel{
		Weights: make([][]float64, classes),
		Biases:  make([]float64, classes),
	}
	w := mat.NewVecDense(p, nil)
	for k := 0; k < classes; k++ {
		mu := mat.NewVecDense(p, append([]float64(nil), means[k]...))
		if err := chol.SolveVecTo(w, mu); err != nil {
			return nil, errors.Wrap(err, "solving pooled covariance system")
		}
		model.Weights[k] = append([]float64(nil), w.RawVector().Data...)
		model.Biases[k] = -0.5*mat.Dot(mu, w) + logPrior(counts[k], n)
	}
	return model, nil
}

// classMeans computes per-class feature means and class counts.
func classMeans(rows [][]float64, y []int, classes int) ([][]float64, []int) {
	p := len(rows[0])
	means := make([][]float64, classes)
	counts := make([]int, classes)
	for k := range means {
		means[k] = make([]float64, p)
	}
	for i, row := range rows {
		counts[y[i]]++
		for j, v := range row {
			means[y[i]][j] += v
		}
	}
	for k := range means {
		if counts[k] == 0 {
			continue
		}
		for j := range means[k] {
			means[k][j] /= float64(counts[k])
		}
	}
	return means, counts
}
