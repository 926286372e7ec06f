package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rotisserie/eris"

	"github.com/sells-group/landcover-cli/internal/bench"
)

// WriteBenchmarkChart renders median latency versus neighborhood size for
// both strategies as a standalone HTML line chart.
func WriteBenchmarkChart(path string, result *bench.Result) error {
	medians := result.Medians()

	xAxis := make([]string, len(result.Sizes))
	bufferData := make([]opts.LineData, len(result.Sizes))
	windowData := make([]opts.LineData, len(result.Sizes))
	for i, size := range result.Sizes {
		xAxis[i] = fmt.Sprintf("%.0f", size)
		bufferData[i] = opts.LineData{Value: ms(medians[bench.StrategyBuffer][size])}
		windowData[i] = opts.LineData{Value: ms(medians[bench.StrategyWindow][size])}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Histogram Strategy Scaling", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Buffer vs window histogram latency",
			Subtitle: fmt.Sprintf("median of %d iterations per size", result.Iterations),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "size (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "median latency (ms)"}),
	)
	line.SetXAxis(xAxis).
		AddSeries(bench.StrategyBuffer, bufferData).
		AddSeries(bench.StrategyWindow, windowData)

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "report: create chart file")
	}
	defer f.Close() //nolint:errcheck

	return eris.Wrap(line.Render(f), "report: render chart")
}
