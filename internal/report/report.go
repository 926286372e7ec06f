// Package report renders histogram, benchmark and reprojection results for
// people: text tables, XLSX workbooks and HTML charts.
package report

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/landcover-cli/internal/bench"
	"github.com/sells-group/landcover-cli/internal/raster"
	"github.com/sells-group/landcover-cli/internal/reproject"
)

// nlcdClassNames labels the standard NLCD land-cover classes. Unknown values
// render as their numeric class.
var nlcdClassNames = map[int]string{
	11: "Open Water",
	12: "Perennial Ice/Snow",
	21: "Developed, Open Space",
	22: "Developed, Low Intensity",
	23: "Developed, Medium Intensity",
	24: "Developed, High Intensity",
	31: "Barren Land",
	41: "Deciduous Forest",
	42: "Evergreen Forest",
	43: "Mixed Forest",
	52: "Shrub/Scrub",
	71: "Grassland/Herbaceous",
	81: "Pasture/Hay",
	82: "Cultivated Crops",
	90: "Woody Wetlands",
	95: "Emergent Herbaceous Wetlands",
}

// ClassName returns the NLCD label for a class value.
func ClassName(class int) string {
	if name, ok := nlcdClassNames[class]; ok {
		return name
	}
	return fmt.Sprintf("Class %d", class)
}

// WriteHistogram prints a class histogram as an aligned text table.
func WriteHistogram(w io.Writer, hist raster.Histogram) error {
	p := message.NewPrinter(language.English)
	total := hist.Total()
	props := hist.Proportions()

	if _, err := p.Fprintf(w, "%-6s %-30s %12s %8s\n", "CLASS", "NAME", "CELLS", "SHARE"); err != nil {
		return err
	}
	for _, class := range hist.Classes() {
		if _, err := p.Fprintf(w, "%-6d %-30s %12d %7.2f%%\n",
			class, ClassName(class), hist[class], props[class]*100); err != nil {
			return err
		}
	}
	_, err := p.Fprintf(w, "%-6s %-30s %12d\n", "", "total", total)
	return err
}

// WriteBenchmark prints per-size median latencies for both strategies side
// by side.
func WriteBenchmark(w io.Writer, result *bench.Result) error {
	p := message.NewPrinter(language.English)
	medians := result.Medians()

	if _, err := p.Fprintf(w, "%10s %14s %14s %8s\n",
		"SIZE (m)", "BUFFER (ms)", "WINDOW (ms)", "RATIO"); err != nil {
		return err
	}
	for _, size := range result.Sizes {
		buffer := medians[bench.StrategyBuffer][size]
		window := medians[bench.StrategyWindow][size]
		ratio := 0.0
		if window > 0 {
			ratio = float64(buffer) / float64(window)
		}
		if _, err := p.Fprintf(w, "%10.0f %14.2f %14.2f %8.2f\n",
			size, ms(buffer), ms(window), ratio); err != nil {
			return err
		}
	}
	_, err := p.Fprintf(w, "\n%d sizes x %d iterations, total %s\n",
		len(result.Sizes), result.Iterations, result.Duration.Round(time.Millisecond))
	return err
}

// WriteDrift prints the projected coordinates and per-axis drift for each
// compared point.
func WriteDrift(w io.Writer, drifts []reproject.Drift) error {
	p := message.NewPrinter(language.English)

	if _, err := p.Fprintf(w, "%12s %12s %14s %14s %14s %14s %10s %10s\n",
		"LON", "LAT", "STD X", "STD Y", "DERIVED X", "DERIVED Y", "DX (m)", "DY (m)"); err != nil {
		return err
	}
	for _, d := range drifts {
		if _, err := p.Fprintf(w, "%12.6f %12.6f %14.2f %14.2f %14.2f %14.2f %10.3f %10.3f\n",
			d.Lon, d.Lat, d.StandardX, d.StandardY, d.DerivedX, d.DerivedY, d.DX, d.DY); err != nil {
			return err
		}
	}
	return nil
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
