package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/landcover-cli/internal/bench"
	"github.com/sells-group/landcover-cli/internal/raster"
	"github.com/sells-group/landcover-cli/internal/reproject"
)

// WriteBenchmarkXLSX writes one sheet of raw samples and one of per-size
// medians to an XLSX workbook.
func WriteBenchmarkXLSX(path string, result *bench.Result) error {
	f := xlsx.NewFile()

	samples, err := f.AddSheet("samples")
	if err != nil {
		return eris.Wrap(err, "report: add samples sheet")
	}
	header := samples.AddRow()
	for _, h := range []string{"strategy", "size_m", "elapsed_ms"} {
		header.AddCell().SetString(h)
	}
	for _, sample := range result.Samples() {
		row := samples.AddRow()
		row.AddCell().SetString(sample.Strategy)
		row.AddCell().SetFloat(sample.Size)
		row.AddCell().SetFloat(ms(sample.Elapsed))
	}

	summary, err := f.AddSheet("medians")
	if err != nil {
		return eris.Wrap(err, "report: add medians sheet")
	}
	header = summary.AddRow()
	for _, h := range []string{"size_m", "buffer_ms", "window_ms"} {
		header.AddCell().SetString(h)
	}
	medians := result.Medians()
	for _, size := range result.Sizes {
		row := summary.AddRow()
		row.AddCell().SetFloat(size)
		row.AddCell().SetFloat(ms(medians[bench.StrategyBuffer][size]))
		row.AddCell().SetFloat(ms(medians[bench.StrategyWindow][size]))
	}

	return eris.Wrap(f.Save(path), "report: save benchmark workbook")
}

// WriteHistogramXLSX writes a class histogram to an XLSX workbook.
func WriteHistogramXLSX(path string, hist raster.Histogram) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("histogram")
	if err != nil {
		return eris.Wrap(err, "report: add histogram sheet")
	}
	header := sheet.AddRow()
	for _, h := range []string{"class", "name", "cells", "share"} {
		header.AddCell().SetString(h)
	}
	props := hist.Proportions()
	for _, class := range hist.Classes() {
		row := sheet.AddRow()
		row.AddCell().SetInt(class)
		row.AddCell().SetString(ClassName(class))
		row.AddCell().SetInt64(hist[class])
		row.AddCell().SetFloat(props[class])
	}

	return eris.Wrap(f.Save(path), "report: save histogram workbook")
}

// WriteDriftXLSX writes the reprojection comparison to an XLSX workbook.
func WriteDriftXLSX(path string, pair *reproject.Pair, drifts []reproject.Drift) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("drift")
	if err != nil {
		return eris.Wrap(err, "report: add drift sheet")
	}
	header := sheet.AddRow()
	for _, h := range []string{
		"lon", "lat", "standard_x", "standard_y", "derived_x", "derived_y", "dx_m", "dy_m",
	} {
		header.AddCell().SetString(h)
	}
	for _, d := range drifts {
		row := sheet.AddRow()
		for _, v := range []float64{d.Lon, d.Lat, d.StandardX, d.StandardY, d.DerivedX, d.DerivedY, d.DX, d.DY} {
			row.AddCell().SetFloat(v)
		}
	}

	params, err := f.AddSheet("crs")
	if err != nil {
		return eris.Wrap(err, "report: add crs sheet")
	}
	row := params.AddRow()
	row.AddCell().SetString("standard")
	row.AddCell().SetString(pair.StandardParams)
	row = params.AddRow()
	row.AddCell().SetString("derived")
	row.AddCell().SetString(pair.DerivedParams)

	return eris.Wrap(f.Save(path), "report: save drift workbook")
}

// WriteSamplesXLSX writes batch point-sample results to an XLSX workbook.
func WriteSamplesXLSX(path string, results []raster.SampleResult) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("samples")
	if err != nil {
		return eris.Wrap(err, "report: add samples sheet")
	}
	header := sheet.AddRow()
	for _, h := range []string{"x", "y", "srid", "class", "name", "error"} {
		header.AddCell().SetString(h)
	}
	for _, r := range results {
		row := sheet.AddRow()
		row.AddCell().SetFloat(r.Point.X)
		row.AddCell().SetFloat(r.Point.Y)
		row.AddCell().SetInt(r.Point.SRID)
		if r.Valid {
			row.AddCell().SetInt(r.Class)
			row.AddCell().SetString(ClassName(r.Class))
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("no data")
		}
		row.AddCell().SetString(r.Err)
	}

	return eris.Wrap(f.Save(path), "report: save samples workbook")
}
