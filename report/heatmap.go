package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/sensorbench/eval"
	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// confusionGrid adapts a ConfusionMatrix to plotter.GridXYZ.
// Rows are flipped so the first class appears at the top of the plot.
type confusionGrid struct {
	m *eval.ConfusionMatrix
}

func (g confusionGrid) Dims() (c, r int) {
	n := len(g.m.Classes)
	return n, n
}

func (g confusionGrid) Z(c, r int) float64 {
	n := len(g.m.Classes)
	return float64(g.m.Counts[n-1-r][c])
}

func (g confusionGrid) X(c int) float64 { return float64(c) }
func (g confusionGrid) Y(r int) float64 { return float64(r) }

// SaveConfusionHeatmap renders the confusion matrix as a PNG heatmap.
func SaveConfusionHeatmap(m *eval.ConfusionMatrix, path string) error {
	grid := confusionGrid{m: m}
	pal := moreland.SmoothBlueRed().Palette(255)
	heatmap := plotter.NewHeatMap(grid, pal)

	p := plot.New()
	p.Title.Text = "Confusion matrix"
	p.X.Label.Text = "predicted"
	p.Y.Label.Text = "true"
	p.Add(heatmap)

	p.NominalX(m.Classes...)
	reversed := make([]string, len(m.Classes))
	for i, c := range m.Classes {
		reversed[len(m.Classes)-1-i] = c
	}
	p.NominalY(reversed...)

	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.NewStorageError("write", path, err)
	}
	return nil
}
