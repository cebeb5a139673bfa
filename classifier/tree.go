package classifier

import (
	"math"
	"math/rand/v2"
	"sort"
)

// TreeNode is one node of a CART tree. Interior nodes route on
// Feature/Threshold; leaves carry either a class index or a regression value.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Leaf      bool
	Class     int
	Value     float64
}

// Tree is a CART tree stored as a flat node slice, root at index 0.
// The flat layout keeps the artifact gob-friendly.
type Tree struct {
	Nodes []TreeNode
}

// leafFor descends the tree for one sample and returns the reached leaf.
func (t *Tree) leafFor(x []float64) *TreeNode {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Leaf {
			return n
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// PredictClass returns the class index for one sample.
func (t *Tree) PredictClass(x []float64) int {
	return t.leafFor(x).Class
}

// PredictValue returns the regression output for one sample.
func (t *Tree) PredictValue(x []float64) float64 {
	return t.leafFor(x).Value
}

// treeConfig bounds tree growth.
type treeConfig struct {
	maxDepth int
	minLeaf  int
	mtry     int // candidate features per split; 0 means all
	classes  int
}

// candidateFeatures returns the feature indices considered at a split.
func candidateFeatures(p int, mtry int, r *rand.Rand) []int {
	if mtry <= 0 || mtry >= p {
		feats := make([]int, p)
		for i := range feats {
			feats[i] = i
		}
		return feats
	}
	perm := r.Perm(p)
	return perm[:mtry]
}

// giniImpurity computes the Gini impurity of a count vector.
func giniImpurity(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

// majorityClass returns the most frequent class among the samples,
// breaking ties toward the lower class index.
func majorityClass(y []int, indices []int, classes int) int {
	counts := make([]int, classes)
	for _, i := range indices {
		counts[y[i]]++
	}
	best, bestCount := 0, -1
	for c, n := range counts {
		if n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// bestGiniSplit finds the split minimising weighted Gini impurity over the
// candidate features. ok is false when no split satisfies minLeaf or all
// candidate columns are constant.
func bestGiniSplit(rows [][]float64, y []int, indices []int, feats []int, cfg treeConfig) (feat int, thr float64, ok bool) {
	n := len(indices)
	parent := make([]int, cfg.classes)
	for _, i := range indices {
		parent[y[i]]++
	}
	bestImpurity := giniImpurity(parent, n)

	sorted := make([]int, n)
	left := make([]int, cfg.classes)
	for _, f := range feats {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return rows[sorted[a]][f] < rows[sorted[b]][f]
		})

		for i := range left {
			left[i] = 0
		}
		right := make([]int, cfg.classes)
		copy(right, parent)

		for i := 0; i < n-1; i++ {
			c := y[sorted[i]]
			left[c]++
			right[c]--

			v, next := rows[sorted[i]][f], rows[sorted[i+1]][f]
			if v == next {
				continue
			}
			nl, nr := i+1, n-i-1
			if nl < cfg.minLeaf || nr < cfg.minLeaf {
				continue
			}
			impurity := (float64(nl)*giniImpurity(left, nl) + float64(nr)*giniImpurity(right, nr)) / float64(n)
			if impurity < bestImpurity-1e-12 {
				bestImpurity = impurity
				feat = f
				thr = (v + next) / 2
				ok = true
			}
		}
	}
	return feat, thr, ok
}

// growClassificationTree builds a CART classification tree on the given
// sample indices.
func growClassificationTree(rows [][]float64, y []int, indices []int, cfg treeConfig, r *rand.Rand) Tree {
	t := Tree{}
	t.growClassNode(rows, y, indices, 0, cfg, r)
	return t
}

func (t *Tree) growClassNode(rows [][]float64, y []int, indices []int, depth int, cfg treeConfig, r *rand.Rand) int {
	id := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{Leaf: true, Class: majorityClass(y, indices, cfg.classes)})

	if depth >= cfg.maxDepth || len(indices) < 2*cfg.minLeaf || pureClass(y, indices) {
		return id
	}

	feats := candidateFeatures(len(rows[0]), cfg.mtry, r)
	feat, thr, ok := bestGiniSplit(rows, y, indices, feats, cfg)
	if !ok {
		return id
	}

	var leftIdx, rightIdx []int
	for _, i := range indices {
		if rows[i][feat] <= thr {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	left := t.growClassNode(rows, y, leftIdx, depth+1, cfg, r)
	right := t.growClassNode(rows, y, rightIdx, depth+1, cfg, r)
	t.Nodes[id] = TreeNode{Feature: feat, Threshold: thr, Left: left, Right: right}
	return id
}

// pureClass reports whether all samples share one class.
func pureClass(y []int, indices []int) bool {
	for _, i := range indices[1:] {
		if y[i] != y[indices[0]] {
			return false
		}
	}
	return true
}

// bestSSESplit finds the split maximising variance reduction of the gradient
// targets, for regression trees inside boosting.
func bestSSESplit(rows [][]float64, grad []float64, indices []int, minLeaf int) (feat int, thr float64, ok bool) {
	n := len(indices)
	var total float64
	for _, i := range indices {
		total += grad[i]
	}

	bestGain := 1e-12
	sorted := make([]int, n)
	p := len(rows[0])
	for f := 0; f < p; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return rows[sorted[a]][f] < rows[sorted[b]][f]
		})

		var leftSum float64
		for i := 0; i < n-1; i++ {
			leftSum += grad[sorted[i]]

			v, next := rows[sorted[i]][f], rows[sorted[i+1]][f]
			if v == next {
				continue
			}
			nl, nr := i+1, n-i-1
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			rightSum := total - leftSum
			// Variance-reduction gain with constant parent term dropped.
			gain := leftSum*leftSum/float64(nl) + rightSum*rightSum/float64(nr) - total*total/float64(n)
			if gain > bestGain {
				bestGain = gain
				feat = f
				thr = (v + next) / 2
				ok = true
			}
		}
	}
	return feat, thr, ok
}

// growRegressionTree builds a regression tree on the gradient targets.
// Leaf values are Newton steps sum(grad)/sum(hess), clipped for stability.
func growRegressionTree(rows [][]float64, grad, hess []float64, indices []int, maxDepth, minLeaf int) Tree {
	t := Tree{}
	t.growRegNode(rows, grad, hess, indices, 0, maxDepth, minLeaf)
	return t
}

func (t *Tree) growRegNode(rows [][]float64, grad, hess []float64, indices []int, depth, maxDepth, minLeaf int) int {
	id := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{Leaf: true, Value: newtonLeafValue(grad, hess, indices)})

	if depth >= maxDepth || len(indices) < 2*minLeaf {
		return id
	}
	feat, thr, ok := bestSSESplit(rows, grad, indices, minLeaf)
	if !ok {
		return id
	}

	var leftIdx, rightIdx []int
	for _, i := range indices {
		if rows[i][feat] <= thr {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	left := t.growRegNode(rows, grad, hess, leftIdx, depth+1, maxDepth, minLeaf)
	right := t.growRegNode(rows, grad, hess, rightIdx, depth+1, maxDepth, minLeaf)
	t.Nodes[id] = TreeNode{Feature: feat, Threshold: thr, Left: left, Right: right}
	return id
}

func newtonLeafValue(grad, hess []float64, indices []int) float64 {
	var g, h float64
	for _, i := range indices {
		g += grad[i]
		h += hess[i]
	}
	v := g / (h + 1e-10)
	return math.Max(-4, math.Min(4, v))
}
