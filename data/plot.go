package data

import (
	"os"
	"path"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/zeu5/pusht-hirl/types"
)

// PlotSession renders per-episode total-reward and final-coverage curves
// to PNG files under plotDir.
func PlotSession(episodes []*types.Episode, plotDir string) error {
	if _, err := os.Stat(plotDir); err != nil {
		if err := os.MkdirAll(plotDir, 0755); err != nil {
			return err
		}
	}
	if err := plotSeries(episodes, plotDir, "Total reward", "rewards.png", func(ep *types.Episode) float64 {
		return ep.TotalReward
	}); err != nil {
		return err
	}
	return plotSeries(episodes, plotDir, "Final coverage", "coverage.png", func(ep *types.Episode) float64 {
		return ep.FinalCoverage()
	})
}

func plotSeries(episodes []*types.Episode, plotDir, label, file string, value func(*types.Episode) float64) error {
	p := plot.New()
	p.Title.Text = "Collection session"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = label

	points := make(plotter.XYs, len(episodes))
	for i, ep := range episodes {
		points[i] = plotter.XY{X: float64(ep.EpisodeID), Y: value(ep)}
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	p.Legend.Add(label, line)

	return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotDir, file))
}
