// Command etfplot renders the equal-area tabulation of a distribution as an
// interactive HTML chart: the PDF curve together with the per-cell suprema
// and infima staircase computed by the Newton tabulator.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ETF-Sampler/etf"
)

type tabulated struct {
	name  string
	table *etf.InitTable[float64]
	pdf   etf.Func[float64]
}

func tabulate(name string, location, scale float64, partition etf.Partition) (*tabulated, error) {
	var (
		pdf, dpdf etf.Func[float64]
		x0, x1    float64
		extrema   []float64
	)

	switch name {
	case "normal":
		alpha := -0.5 / (scale * scale)
		pdf = etf.FuncOf(func(x float64) float64 {
			dx := x - location
			return math.Exp(alpha * dx * dx)
		})
		dpdf = etf.FuncOf(func(x float64) float64 {
			dx := x - location
			return 2 * alpha * dx * math.Exp(alpha*dx*dx)
		})
		x0, x1 = location, location+3.25*scale
	case "cauchy":
		invScale2 := 1 / (scale * scale)
		pdf = etf.FuncOf(func(x float64) float64 {
			dx := x - location
			return 1 / (1 + invScale2*dx*dx)
		})
		dpdf = etf.FuncOf(func(x float64) float64 {
			dx := x - location
			v := 1 + invScale2*dx*dx
			return -2 * invScale2 * dx / (v * v)
		})
		x0, x1 = location, location+20*scale
	case "gumbel":
		invScale := 1 / scale
		pdf = etf.FuncOf(func(x float64) float64 {
			minusZ := (location - x) * invScale
			return math.Exp(minusZ - math.Exp(minusZ))
		})
		dpdf = etf.FuncOf(func(x float64) float64 {
			minusZ := (location - x) * invScale
			expMinusZ := math.Exp(minusZ)
			return math.Exp(minusZ-expMinusZ) * (expMinusZ - 1) * invScale
		})
		x0, x1 = location-1.7*scale, location+5.5*scale
		extrema = []float64{location}
	default:
		return nil, fmt.Errorf("unknown distribution %q", name)
	}

	init := etf.MidpointPrepartition(pdf, x0, x1, partition, 0)
	table, err := etf.NewtonTabulation(pdf, dpdf, init, partition, extrema, 1e-6, 1, 50)
	if err != nil {
		return nil, err
	}
	return &tabulated{name: name, table: table, pdf: pdf}, nil
}

func buildChart(tab *tabulated) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Equal-area tabulation: %s", tab.name),
			Subtitle: fmt.Sprintf("%d sub-intervals", tab.table.P.Size()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "unscaled density", Type: "value"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside"},
			opts.DataZoom{Type: "slider"},
		),
	)

	x := tab.table.X
	n := tab.table.P.Size()

	// Staircase series: each cell contributes its supremum and infimum at
	// both ends.
	supItems := make([]opts.LineData, 0, 2*n)
	infItems := make([]opts.LineData, 0, 2*n)
	for i := 0; i < n; i++ {
		supItems = append(supItems,
			opts.LineData{Value: []interface{}{x[i], tab.table.Ysup[i]}},
			opts.LineData{Value: []interface{}{x[i+1], tab.table.Ysup[i]}},
		)
		infItems = append(infItems,
			opts.LineData{Value: []interface{}{x[i], tab.table.Yinf[i]}},
			opts.LineData{Value: []interface{}{x[i+1], tab.table.Yinf[i]}},
		)
	}

	// Dense PDF trace over the tabulated support.
	const pdfPoints = 512
	pdfItems := make([]opts.LineData, 0, pdfPoints+1)
	for i := 0; i <= pdfPoints; i++ {
		xi := x[0] + (x[n]-x[0])*float64(i)/pdfPoints
		pdfItems = append(pdfItems, opts.LineData{Value: []interface{}{xi, tab.pdf.Eval(xi)}})
	}

	line.AddSeries("ysup", supItems,
		charts.WithLineChartOpts(opts.LineChart{Symbol: "none"}),
	)
	line.AddSeries("yinf", infItems,
		charts.WithLineChartOpts(opts.LineChart{Symbol: "none"}),
	)
	line.AddSeries("pdf", pdfItems,
		charts.WithLineChartOpts(opts.LineChart{Symbol: "none", Smooth: opts.Bool(true)}),
	)
	return line
}

func main() {
	name := flag.String("dist", "normal", "distribution to tabulate: normal, cauchy or gumbel")
	location := flag.Float64("location", 0, "location parameter (mean for normal)")
	scale := flag.Float64("scale", 1, "scale parameter (std dev for normal)")
	bits := flag.Uint("bits", 7, "log2 of the partition size (4..12)")
	outPath := flag.String("out", "etf_table.html", "output HTML file")
	flag.Parse()

	if *scale <= 0 {
		fmt.Fprintln(os.Stderr, "scale must be strictly positive")
		os.Exit(1)
	}

	partition, err := partitionFromBits(*bits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "partition error: %v\n", err)
		os.Exit(1)
	}

	tab, err := tabulate(*name, *location, *scale, partition)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tabulation error: %v\n", err)
		os.Exit(1)
	}

	page := components.NewPage().SetPageTitle("ETF tabulation")
	page.AddCharts(buildChart(tab))

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		fmt.Fprintf(os.Stderr, "render error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%s, %d sub-intervals)\n", *outPath, *name, partition.Size())
}

func partitionFromBits(bits uint) (etf.Partition, error) {
	sizes := map[uint]etf.Partition{
		4: etf.P16, 5: etf.P32, 6: etf.P64, 7: etf.P128,
		8: etf.P256, 9: etf.P512, 10: etf.P1024, 11: etf.P2048, 12: etf.P4096,
	}
	p, ok := sizes[bits]
	if !ok {
		return etf.Partition{}, fmt.Errorf("no partition with 2^%d sub-intervals", bits)
	}
	return p, nil
}
