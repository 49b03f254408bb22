package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

// PlotResults renders a scatter plot comparing the true Pareto front of a
// benchmark with the final population resulted from the algorithm.
func PlotResults(w io.Writer, results []framework.ObjectiveSpacePoint, problem framework.Problem, algorithmName string) error {
	if len(results) == 0 {
		return fmt.Errorf("results are empty for %s Benchmark", problem.Name())
	}

	if len(results[0]) != 2 {
		return fmt.Errorf("can only plot 2D for %s Benchmark", problem.Name())
	}

	scatter := newScatter(fmt.Sprintf("%s Results for %s Benchmark", algorithmName, problem.Name()))

	if ref, ok := problem.(framework.ReferenceFront); ok {
		trueParetoFront := ref.TrueParetoFront(100)
		trueX := make([]opts.ScatterData, len(trueParetoFront))
		for i, p := range trueParetoFront {
			trueX[i] = opts.ScatterData{
				Value:      []float64(p),
				Symbol:     "circle",
				SymbolSize: 10,
			}
		}
		scatter.AddSeries("True Pareto Front", trueX)
	}

	foundX := make([]opts.ScatterData, len(results))
	for i, res := range results {
		foundX[i] = opts.ScatterData{
			Value:      []float64{res[0], res[1]},
			Symbol:     "triangle",
			SymbolSize: 10,
		}
	}
	scatter.AddSeries(fmt.Sprintf("%s Solutions", algorithmName), foundX)

	return render(w, scatter)
}

// PlotFront renders the first two objectives of a final population with
// the proposed members and the suggested member highlighted.
func PlotFront(w io.Writer, F [][]float64, selected []int, suggested int, title string) error {
	if len(F) == 0 {
		return fmt.Errorf("nothing to plot for %s", title)
	}
	if len(F[0]) < 2 {
		return fmt.Errorf("can only plot fronts with at least 2 objectives, got %d", len(F[0]))
	}

	scatter := newScatter(title)

	population := make([]opts.ScatterData, len(F))
	for i, f := range F {
		population[i] = opts.ScatterData{
			Value:      []float64{f[0], f[1]},
			Symbol:     "circle",
			SymbolSize: 8,
		}
	}
	proposals := make([]opts.ScatterData, 0, len(selected))
	for _, i := range selected {
		proposals = append(proposals, opts.ScatterData{
			Value:      []float64{F[i][0], F[i][1]},
			Symbol:     "emptyCircle",
			SymbolSize: 16,
		})
	}

	scatter.AddSeries("Population", population).
		AddSeries("Proposed", proposals)
	if suggested >= 0 && suggested < len(F) {
		scatter.AddSeries("Suggested", []opts.ScatterData{{
			Value:      []float64{F[suggested][0], F[suggested][1]},
			Symbol:     "diamond",
			SymbolSize: 20,
		}})
	}

	return render(w, scatter)
}

func newScatter(title string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "f1(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "f2(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))
	return scatter
}

func render(w io.Writer, scatter *charts.Scatter) error {
	scatter.SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
		charts.WithEmphasisOpts(opts.Emphasis{}),
	)
	return scatter.Render(w)
}
