// Package plot draws fitness history charts.
package plot

import (
	"errors"
	"fmt"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNoHistory = errors.New("no fitness history")

// FitnessHistory saves a line plot of best and mean fitness per generation to
// path. The image format follows the file extension.
func FitnessHistory(best, mean []float64, title, path string) error {
	if len(best) == 0 {
		return ErrNoHistory
	}
	if len(mean) != len(best) {
		return fmt.Errorf("history length mismatch: %d best, %d mean", len(best), len(mean))
	}

	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	bestPts := make(plotter.XYs, len(best))
	meanPts := make(plotter.XYs, len(mean))
	for i := range best {
		bestPts[i].X = float64(i + 1)
		bestPts[i].Y = best[i]
		meanPts[i].X = float64(i + 1)
		meanPts[i].Y = mean[i]
	}

	bestLine, err := plotter.NewLine(bestPts)
	if err != nil {
		return err
	}
	meanLine, err := plotter.NewLine(meanPts)
	if err != nil {
		return err
	}
	meanLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(plotter.NewGrid(), bestLine, meanLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("mean", meanLine)
	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
